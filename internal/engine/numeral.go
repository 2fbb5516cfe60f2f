package engine

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// parseUintValue converts a token to an unsigned integer of the given bit
// width. base 0 auto-detects by prefix (0x, 0b, 0o, leading 0). The token
// must be fully consumed and the value must fit the width; the keywords
// min, max and lowest map to the numeric limits of the type.
func parseUintValue(token string, base, bits int) (uint64, error) {
	switch token {
	case "min", "lowest":
		return 0, nil
	case "max":
		if bits >= 64 {
			return math.MaxUint64, nil
		}
		return 1<<uint(bits) - 1, nil
	}

	v, err := strconv.ParseUint(token, base, bits)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("out of range for an unsigned %d bit integer", bits)
		}
		return 0, fmt.Errorf("not a valid unsigned %d bit integer", bits)
	}
	return v, nil
}

// parseIntValue is the signed counterpart of parseUintValue. lowest equals
// min (the most negative representable value).
func parseIntValue(token string, base, bits int) (int64, error) {
	switch token {
	case "min", "lowest":
		return -1 << uint(bits-1), nil
	case "max":
		return 1<<uint(bits-1) - 1, nil
	}

	v, err := strconv.ParseInt(token, base, bits)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("out of range for a signed %d bit integer", bits)
		}
		return 0, fmt.Errorf("not a valid signed %d bit integer", bits)
	}
	return v, nil
}

// parseFloatValue converts a token to a floating point value of the given
// precision (32 or 64 bit). nan, inf and -inf are recognized keywords.
// The limit keywords of the integer parser (min, max, lowest) are not part
// of the float grammar and fail like any other non-numeric token.
func parseFloatValue(token string, bits int) (float64, error) {
	switch token {
	case "nan":
		return math.NaN(), nil
	case "inf":
		return math.Inf(1), nil
	case "-inf":
		return math.Inf(-1), nil
	}

	v, err := strconv.ParseFloat(token, bits)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("out of range for a %d bit float", bits)
		}
		return 0, fmt.Errorf("not a valid %d bit float", bits)
	}
	return v, nil
}
