package optiondesc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/username/tradeperf/src/models"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want models.OptionIdentity
		ok   bool
	}{
		{
			name: "call",
			in:   "PLTR 01/19/24 C 25",
			want: models.OptionIdentity{Ticker: "PLTR", Expiration: "01/19/24", Type: models.Call, Strike: "25"},
			ok:   true,
		},
		{
			name: "put with surrounding text",
			in:   "Buy to open SPY 12/15/23 P 450 x1",
			want: models.OptionIdentity{Ticker: "SPY", Expiration: "12/15/23", Type: models.Put, Strike: "450"},
			ok:   true,
		},
		{
			name: "extra whitespace between tokens",
			in:   "AAPL   03/01/24\tC  180",
			want: models.OptionIdentity{Ticker: "AAPL", Expiration: "03/01/24", Type: models.Call, Strike: "180"},
			ok:   true,
		},
		{name: "random text", in: "random text"},
		{name: "empty", in: ""},
		{name: "lowercase flag", in: "PLTR 01/19/24 c 25"},
		{name: "four digit year", in: "PLTR 1/19/2024 C 25"},
		{name: "missing strike", in: "PLTR 01/19/24 C"},
		{name: "missing flag", in: "PLTR 01/19/24 25"},
		{name: "missing ticker", in: "01/19/24 C 25"},
		{name: "no separators", in: "PLTR01/19/24C25"},
		{name: "word flag", in: "PLTR 01/19/24 Call 25"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
			if !ok {
				assert.True(t, got.IsZero())
			}
		})
	}
}

func TestParseDecimalStrikeKeepsWholePart(t *testing.T) {
	// The strike token is digits only; a fractional part is not captured.
	got, ok := Parse("F 06/21/24 C 12.5")
	assert.True(t, ok)
	assert.Equal(t, "12", got.Strike)
}
