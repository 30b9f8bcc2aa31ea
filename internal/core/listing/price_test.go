package listing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDisplayPrice(t *testing.T) {
	tests := []struct {
		display string
		want    string
	}{
		{"R$ 450.000", "450000"},
		{"R$ 1.200.000", "1200000"},
		{"R$ 3.500,50", "3500.5"},
		{"1200000", "1200000"},
		{"R$ 99,90", "99.9"},
		{"1.5", "1.5"},
		{"R$ 850.000,00", "850000"},
		{"R$ 3.500,555", "3500.56"},
		{"R$ 999.999.999.999,99", "999999999999.99"},
	}

	for _, tt := range tests {
		t.Run(tt.display, func(t *testing.T) {
			got, err := ParseDisplayPrice(tt.display)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestParseDisplayPrice_Invalid(t *testing.T) {
	for _, display := range []string{"", "Sob consulta", "R$ 0", "1,2,3", "1.2.3", "0,001"} {
		t.Run(display, func(t *testing.T) {
			_, err := ParseDisplayPrice(display)
			assert.ErrorIs(t, err, ErrInvalidPrice)
		})
	}
}

func TestParseDisplayPrice_OutOfRange(t *testing.T) {
	for _, display := range []string{"R$ 1.000.000.000.000", "R$ 999.999.999.999,999", "99999999999999999999"} {
		t.Run(display, func(t *testing.T) {
			_, err := ParseDisplayPrice(display)
			assert.ErrorIs(t, err, ErrPriceOutOfRange)
		})
	}
}
