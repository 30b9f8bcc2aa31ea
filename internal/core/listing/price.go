package listing

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidPrice    = errors.New("price has no numeric value")
	ErrPriceOutOfRange = errors.New("price exceeds the largest storable value")
)

// maxPriceValue is the exclusive upper bound of the price_value column,
// NUMERIC(14, 2).
var maxPriceValue = decimal.New(1, 12)

// ParseDisplayPrice derives the numeric value of a display price written in
// Brazilian notation: "R$ 1.200.000" is 1200000 and "R$ 3.500,50" is 3500.5.
// Dots are thousands separators when every group after the first has three
// digits; otherwise a single dot is read as the decimal point. The value is
// rounded to cents, as stored.
func ParseDisplayPrice(display string) (decimal.Decimal, error) {
	var b strings.Builder
	hasDigit := false
	for _, r := range display {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
			b.WriteRune(r)
		case r == '.' || r == ',':
			if hasDigit {
				b.WriteRune(r)
			}
		}
	}
	if !hasDigit {
		return decimal.Zero, ErrInvalidPrice
	}

	raw := strings.TrimRight(b.String(), ".,")
	if strings.Contains(raw, ",") {
		raw = strings.ReplaceAll(raw, ".", "")
		if strings.Count(raw, ",") > 1 {
			return decimal.Zero, ErrInvalidPrice
		}
		raw = strings.Replace(raw, ",", ".", 1)
	} else if strings.Contains(raw, ".") {
		parts := strings.Split(raw, ".")
		thousands := true
		for _, p := range parts[1:] {
			if len(p) != 3 {
				thousands = false
				break
			}
		}
		switch {
		case thousands:
			raw = strings.Join(parts, "")
		case len(parts) > 2:
			return decimal.Zero, ErrInvalidPrice
		}
	}

	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, ErrInvalidPrice
	}
	value = value.Round(2)
	if !value.IsPositive() {
		return decimal.Zero, ErrInvalidPrice
	}
	if value.GreaterThanOrEqual(maxPriceValue) {
		return decimal.Zero, ErrPriceOutOfRange
	}
	return value, nil
}

// parseBound reads a filter price bound. Only strictly positive numbers count;
// anything else leaves the bound unset.
func parseBound(s string) *decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	value, err := decimal.NewFromString(s)
	if err != nil || !value.IsPositive() {
		return nil
	}
	return &value
}
