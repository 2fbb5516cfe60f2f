package engine

import (
	"encoding/binary"
	"fmt"
	"math"
)

// A Codec turns a raw value token into the ordered 16-bit register words of
// one data type. Codecs are built once at startup and never mutated, so the
// registry can be read concurrently without locking.
type Codec struct {
	// ID is the canonical identifier of the data type (the byte-pattern
	// spelling, e.g. "f32_abcd"). Aliases in the registry point at the
	// same Codec.
	ID string

	// Width is the number of consecutive registers the type occupies.
	Width int

	encode func(token string, base int) (words []uint16, desc string, err error)
}

// Encode parses the value token in the given numeral base and packs it into
// Width register words in write order (ascending addresses). desc is a
// human-readable description of the decoded value for verbose output.
func (c *Codec) Encode(token string, base int) (words []uint16, desc string, err error) {
	return c.encode(token, base)
}

// packWords regroups the byte representation of a value into 16-bit words.
// The byte slice is already laid out in the selected byte order; each pair
// of consecutive bytes becomes one word, the first byte of a pair being the
// word's high byte. reversed applies the reversed register order: a full
// reversal of the word array, not a pairwise swap.
func packWords(buf []byte, reversed bool) []uint16 {
	words := make([]uint16, len(buf)/2)
	for i := range words {
		words[i] = binary.BigEndian.Uint16(buf[2*i:])
	}
	if reversed {
		for i, j := 0, len(words)-1; i < j; i, j = i+1, j-1 {
			words[i], words[j] = words[j], words[i]
		}
	}
	return words
}

// orderName returns the wording used in verbose descriptions.
func orderName(order binary.ByteOrder, reversed bool) string {
	name := "big endian"
	if order == binary.ByteOrder(binary.LittleEndian) {
		name = "little endian"
	}
	if reversed {
		name += " (reversed register order)"
	}
	return name
}

// intCodec builds a Codec for a 16, 32 or 64 bit integer type with the
// given signedness, byte order and register order.
func intCodec(id string, bits int, signed bool, order binary.ByteOrder, reversed bool) *Codec {
	return &Codec{
		ID:    id,
		Width: bits / 16,
		encode: func(token string, base int) ([]uint16, string, error) {
			var pattern uint64
			var desc string

			if signed {
				v, err := parseIntValue(token, base, bits)
				if err != nil {
					return nil, "", err
				}
				pattern = uint64(v)
				desc = fmt.Sprintf("%s signed integer %d bit: %d", orderName(order, reversed), bits, v)
			} else {
				v, err := parseUintValue(token, base, bits)
				if err != nil {
					return nil, "", err
				}
				pattern = v
				desc = fmt.Sprintf("%s unsigned integer %d bit: %d", orderName(order, reversed), bits, v)
			}

			buf := make([]byte, bits/8)
			switch bits {
			case 16:
				order.PutUint16(buf, uint16(pattern))
			case 32:
				order.PutUint32(buf, uint32(pattern))
			case 64:
				order.PutUint64(buf, pattern)
			}

			return packWords(buf, reversed), desc, nil
		},
	}
}

// byteCodec builds a Codec for an 8 bit integer placed into the low or high
// byte of a single register; the other byte is zero.
func byteCodec(id string, signed, high bool) *Codec {
	return &Codec{
		ID:    id,
		Width: 1,
		encode: func(token string, base int) ([]uint16, string, error) {
			var pattern uint8
			var desc string
			place := "low"
			if high {
				place = "high"
			}

			if signed {
				v, err := parseIntValue(token, base, 8)
				if err != nil {
					return nil, "", err
				}
				pattern = uint8(v)
				desc = fmt.Sprintf("%s byte signed integer 8 bit: %d", place, v)
			} else {
				v, err := parseUintValue(token, base, 8)
				if err != nil {
					return nil, "", err
				}
				pattern = uint8(v)
				desc = fmt.Sprintf("%s byte unsigned integer 8 bit: %d", place, v)
			}

			word := uint16(pattern)
			if high {
				word <<= 8
			}
			return []uint16{word}, desc, nil
		},
	}
}

// floatCodec builds a Codec for a 32 or 64 bit IEEE 754 float with the
// given byte order and register order. The numeral base applies to integer
// values only and is ignored here, as in the established grammar.
func floatCodec(id string, bits int, order binary.ByteOrder, reversed bool) *Codec {
	return &Codec{
		ID:    id,
		Width: bits / 16,
		encode: func(token string, _ int) ([]uint16, string, error) {
			v, err := parseFloatValue(token, bits)
			if err != nil {
				return nil, "", err
			}

			buf := make([]byte, bits/8)
			if bits == 32 {
				order.PutUint32(buf, math.Float32bits(float32(v)))
			} else {
				order.PutUint64(buf, math.Float64bits(v))
			}

			desc := fmt.Sprintf("%s float %d: %g", orderName(order, reversed), bits, v)
			return packWords(buf, reversed), desc, nil
		},
	}
}
