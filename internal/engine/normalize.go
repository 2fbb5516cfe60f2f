package engine

// Symbolic value tokens and their literal replacements. The math constants
// carry 21 significant digits, enough to round-trip through a float64.
var valueAliases = map[string]string{
	// boolean aliases
	"true":     "1",
	"one":      "1",
	"high":     "1",
	"active":   "1",
	"on":       "1",
	"enabled":  "1",
	"false":    "0",
	"zero":     "0",
	"low":      "0",
	"inactive": "0",
	"off":      "0",
	"disabled": "0",

	// math constants
	"pi":    "3.14159265358979323846",
	"-pi":   "-3.14159265358979323846",
	"npi":   "-3.14159265358979323846",
	"sqrt2": "1.41421356237309504880",
	"sqrt3": "1.73205080756887729353",
	"phi":   "1.61803398874989484820",
	"ln2":   "0.693147180559945309417",
	"e":     "2.71828182845904523536",
}

// normalizeValue rewrites a known symbolic value token into its numeral
// form. Unknown tokens pass through unchanged; the token must already be
// lower case (the whole line is lower-cased before tokenizing).
func normalizeValue(token string) string {
	if lit, ok := valueAliases[token]; ok {
		return lit
	}
	return token
}
