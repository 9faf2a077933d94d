package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency parses a money literal, tolerating dollar signs, thousands
// separators and surrounding whitespace. Empty input is zero.
func Currency(literal string) (decimal.Decimal, error) {
	s := cleanNumeric(literal)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("amount %q is not numeric", literal)
	}
	return d, nil
}

// Integer parses a count literal, tolerating thousands separators and
// a decimal point with a zero fraction. Empty input is zero.
func Integer(literal string) (int64, error) {
	s := cleanNumeric(literal)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsInteger() {
		return 0, fmt.Errorf("count %q is not a whole number", literal)
	}
	return d.IntPart(), nil
}

// Percent parses a percentage literal, tolerating a trailing percent
// sign. Empty input is zero. The returned value keeps the literal's
// scale, so "12.5%" yields 12.5, not 0.125.
func Percent(literal string) (decimal.Decimal, error) {
	s := cleanNumeric(strings.TrimSuffix(strings.TrimSpace(literal), "%"))
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("percentage %q is not numeric", literal)
	}
	return d, nil
}

// Decimal parses a plain decimal literal. Empty input is zero.
func Decimal(literal string) (decimal.Decimal, error) {
	s := cleanNumeric(literal)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("number %q is not numeric", literal)
	}
	return d, nil
}

func cleanNumeric(literal string) string {
	s := strings.TrimSpace(literal)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	}
	return s
}
