package engine

import (
	"strings"

	"go.uber.org/zap"
)

const (
	delimiter   = ":"
	minFields   = 3
	maxFields   = 4
	legacyFloat = "f32_badc" // data type appended by the legacy f: shorthand
)

// Parser converts instruction lines into register write instructions. It
// holds no mutable state; a single Parser may be shared by concurrent
// callers.
type Parser struct {
	addrBase  int
	valueBase int
	verbose   bool
	logger    *zap.Logger
}

// NewParser creates a Parser. addrBase and valueBase select the numeral
// base for the address and value fields (0 = auto-detect by prefix). With
// verbose set, data type codecs describe the decoded value through logger.
func NewParser(addrBase, valueBase int, verbose bool, logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{
		addrBase:  addrBase,
		valueBase: valueBase,
		verbose:   verbose,
		logger:    logger,
	}
}

// Parse converts one input line of the form
//
//	reg_type:address:value[:data_type]
//
// into the ordered list of register writes it implies. Lines with a data
// type produce one instruction per 16-bit word at consecutive addresses.
// On any error the whole line is rejected and no instructions are returned.
func (p *Parser) Parse(line string) ([]Instruction, error) {
	line = strings.ToLower(line)

	// Kompatibilität zu modbus_conv_float: f:<addr>:<value> Kurzform
	if strings.HasPrefix(line, "f:") {
		line = line[2:] + delimiter + legacyFloat
	}

	fields := splitFields(line, delimiter, -1)
	if len(fields) < minFields || len(fields) > maxFields {
		return nil, &ParseError{Field: "line", Reason: "expected reg_type:address:value[:data_type]"}
	}

	// symbolic value tokens (true, off, pi, ...) become numerals before
	// anything else can reject the line
	fields[2] = normalizeValue(fields[2])

	regType, err := ParseRegisterType(fields[0])
	if err != nil {
		return nil, err
	}

	addr, err := parseUintValue(fields[1], p.addrBase, 64)
	if err != nil {
		return nil, &ParseError{Field: "address", Token: fields[1], Reason: err.Error()}
	}

	if len(fields) == minFields {
		// no data type: a single 16 bit register write
		value, err := parseUintValue(fields[2], p.valueBase, 16)
		if err != nil {
			return nil, &ParseError{Field: "value", Token: fields[2], Reason: err.Error()}
		}
		return []Instruction{{Type: regType, Address: addr, Value: uint16(value)}}, nil
	}

	if regType.Discrete() {
		return nil, &ParseError{Field: "data type", Token: fields[3], Reason: "data type specification for coils is not allowed"}
	}

	codec, ok := LookupCodec(fields[3])
	if !ok {
		return nil, &ParseError{Field: "data type", Token: fields[3], Reason: "unknown data type"}
	}

	words, desc, err := codec.Encode(fields[2], p.valueBase)
	if err != nil {
		return nil, &ParseError{Field: "value", Token: fields[2], Reason: err.Error()}
	}

	if p.verbose {
		p.logger.Info(desc,
			zap.String("data_type", codec.ID),
			zap.Int("registers", codec.Width))
	}

	instructions := make([]Instruction, len(words))
	for i, w := range words {
		instructions[i] = Instruction{Type: regType, Address: addr + uint64(i), Value: w}
	}
	return instructions, nil
}
