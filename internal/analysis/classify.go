package analysis

import (
	"strconv"
	"strings"
)

// valueKind is the tri-state classification of a single cell.
type valueKind int

const (
	valueNull valueKind = iota
	valueNumeric
	valueText
)

// classify decides whether a cell is null (empty or whitespace-only), a
// numeric scalar, or plain text. A failed numeric parse is a normal text
// classification, never an error.
func classify(cell string) (valueKind, float64) {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return valueNull, 0
	}
	if v, ok := parseNumeric(trimmed); ok {
		return valueNumeric, v
	}
	return valueText, 0
}

// parseNumeric parses a base-10 floating-point scalar with optional sign,
// decimal point, and exponent. Everything strconv.ParseFloat would accept
// beyond that grammar (digit-separating underscores, hex floats, Inf, NaN)
// is rejected up front, as are locale-specific thousands separators.
func parseNumeric(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '+' || r == '-' || r == '.' || r == 'e' || r == 'E':
		default:
			return 0, false
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
