package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRound2(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10.005", "10.01"},
		{"10.004", "10.00"},
		{"2.675", "2.68"},
		{"0.125", "0.13"},
		{"0.135", "0.14"},
		{"7", "7.00"},
		{"1.999", "2.00"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Round2(decimal.RequireFromString(tt.in))
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}

	t.Run("is idempotent", func(t *testing.T) {
		d := decimal.RequireFromString("123.4567")
		assert.True(t, Round2(Round2(d)).Equal(Round2(d)))
	})

	t.Run("does not use banker's rounding", func(t *testing.T) {
		// 0.125 rounds to 0.12 under half-even
		assert.Equal(t, "0.13", Round2(decimal.RequireFromString("0.125")).StringFixed(2))
	})
}

func TestParseCurrency(t *testing.T) {
	t.Run("trims and upper-cases", func(t *testing.T) {
		c, err := ParseCurrency(" usd ")
		require.NoError(t, err)
		assert.Equal(t, Currency("USD"), c)
	})

	t.Run("rejects wrong length", func(t *testing.T) {
		for _, in := range []string{"", "US", "USDX", "   "} {
			_, err := ParseCurrency(in)
			assert.ErrorIs(t, err, ErrInvalidCurrency, in)
		}
	})
}

func TestNumber(t *testing.T) {
	b, err := json.Marshal(map[string]json.Number{"total": Number(decimal.NewFromInt(20))})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":20.00}`, string(b))
	assert.Contains(t, string(b), "20.00")
}
