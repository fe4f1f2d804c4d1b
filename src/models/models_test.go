package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerformanceKeepsFirstPositionOnOverwrite(t *testing.T) {
	p := NewPerformance()
	p.Set("A", PerformanceRecord{TotalQuantity: decimal.NewNullDecimal(decimal.NewFromInt(1))})
	p.Set("B", PerformanceRecord{TotalQuantity: decimal.NewNullDecimal(decimal.NewFromInt(2))})
	p.Set("A", PerformanceRecord{TotalQuantity: decimal.NewNullDecimal(decimal.NewFromInt(3))})

	assert.Equal(t, []PositionKey{"A", "B"}, p.Keys())
	rec, ok := p.Get("A")
	require.True(t, ok)
	assert.Equal(t, PositionKey("A"), rec.Key)
	assert.True(t, rec.TotalQuantity.Decimal.Equal(decimal.NewFromInt(3)))
	assert.Equal(t, 2, p.Len())
}

func TestPerformanceJSONIsOrdered(t *testing.T) {
	p := NewPerformance()
	p.Set("ZZZ", PerformanceRecord{})
	p.Set("AAA", PerformanceRecord{TotalProfitLoss: decimal.NewNullDecimal(decimal.RequireFromString("1.5"))})

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"key":"ZZZ","total_quantity":null,"total_profit_loss":null,"return_percent":null},
		{"key":"AAA","total_quantity":null,"total_profit_loss":"1.5","return_percent":null}
	]`, string(data))

	var back Performance
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, []PositionKey{"ZZZ", "AAA"}, back.Keys())
}

func TestNilPerformanceIsEmpty(t *testing.T) {
	var p *Performance
	assert.Equal(t, 0, p.Len())
	assert.False(t, p.Has("X"))
	assert.Nil(t, p.Keys())
}

func TestOptionIdentity(t *testing.T) {
	o := OptionIdentity{Ticker: "PLTR", Expiration: "01/19/24", Type: Call, Strike: "25"}
	assert.Equal(t, PositionKey("PLTR 01/19/24 C 25"), o.Key())
	assert.False(t, o.IsZero())
	assert.True(t, OptionIdentity{}.IsZero())
	assert.Equal(t, "Call", o.Type.String())
	assert.Equal(t, "Put", Put.String())
}

func TestTransactionNotional(t *testing.T) {
	tx := Transaction{
		Quantity: decimal.NewNullDecimal(decimal.NewFromInt(10)),
		Price:    decimal.NewNullDecimal(decimal.RequireFromString("2.5")),
	}
	n := tx.Notional()
	require.True(t, n.Valid)
	assert.True(t, n.Decimal.Equal(decimal.NewFromInt(25)))

	tx.Price = decimal.NullDecimal{}
	assert.False(t, tx.Notional().Valid)
}
