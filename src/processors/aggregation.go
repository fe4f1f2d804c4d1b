package processors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/username/tradeperf/src/models"
)

// ErrInvalidAggregationMode is returned for an unknown mode name.
var ErrInvalidAggregationMode = errors.New("invalid aggregation mode")

// AggregationMode controls how null values take part in sums.
type AggregationMode int

const (
	// AggregatePropagate makes a sum null as soon as one term is null.
	AggregatePropagate AggregationMode = iota
	// AggregateSkipNulls leaves null terms out; a sum of only nulls is zero.
	AggregateSkipNulls
)

var hundred = decimal.NewFromInt(100)

func (m AggregationMode) String() string {
	switch m {
	case AggregateSkipNulls:
		return "skip"
	default:
		return "propagate"
	}
}

// ParseAggregationMode accepts "propagate" or "skip" (case-insensitive).
// An empty string selects AggregatePropagate.
func ParseAggregationMode(s string) (AggregationMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "propagate":
		return AggregatePropagate, nil
	case "skip":
		return AggregateSkipNulls, nil
	default:
		return AggregatePropagate, fmt.Errorf("%w: %q", ErrInvalidAggregationMode, s)
	}
}

// Sum adds values under the mode's null rule.
func (m AggregationMode) Sum(values []decimal.NullDecimal) decimal.NullDecimal {
	total := decimal.Zero
	for _, v := range values {
		if !v.Valid {
			if m == AggregatePropagate {
				return decimal.NullDecimal{}
			}
			continue
		}
		total = total.Add(v.Decimal)
	}
	return decimal.NewNullDecimal(total)
}

// SumNotional sums quantity × price over txs.
func (m AggregationMode) SumNotional(txs []models.Transaction) decimal.NullDecimal {
	values := make([]decimal.NullDecimal, 0, len(txs))
	for _, tx := range txs {
		values = append(values, tx.Notional())
	}
	return m.Sum(values)
}

// SumQuantity sums the quantity column of txs.
func (m AggregationMode) SumQuantity(txs []models.Transaction) decimal.NullDecimal {
	values := make([]decimal.NullDecimal, 0, len(txs))
	for _, tx := range txs {
		values = append(values, tx.Quantity)
	}
	return m.Sum(values)
}

func subNull(a, b decimal.NullDecimal) decimal.NullDecimal {
	if !a.Valid || !b.Valid {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(a.Decimal.Sub(b.Decimal))
}

// returnPercent is pl / cost × 100, or zero when cost is zero.
func returnPercent(pl, cost decimal.NullDecimal) decimal.NullDecimal {
	if cost.Valid && cost.Decimal.IsZero() {
		return decimal.NewNullDecimal(decimal.Zero)
	}
	if !pl.Valid || !cost.Valid {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(pl.Decimal.Div(cost.Decimal).Mul(hundred))
}
