package renderer

import (
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"github.com/username/tradeperf/src/models"
)

// DefaultCurrency is used when a report currency is unknown to go-money.
const DefaultCurrency = money.USD

// PositionLine is one matched position as shown in the summary.
type PositionLine struct {
	Key           models.PositionKey  `json:"key"`
	Quantity      decimal.NullDecimal `json:"quantity"`
	ProfitLoss    decimal.NullDecimal `json:"profit_loss"`
	ReturnPercent decimal.NullDecimal `json:"return_percent"`
}

// Summary is the presentation model of a reconciliation result.
type Summary struct {
	Currency          string               `json:"currency"`
	Positions         []PositionLine       `json:"positions"`
	Total             decimal.NullDecimal  `json:"total_profit_loss"`
	Unresolved        []models.PositionKey `json:"unresolved"`
	Deposits          decimal.Decimal      `json:"deposits"`
	Withdrawals       decimal.Decimal      `json:"withdrawals"`
	CashMovementCount int                  `json:"cash_movement_count"`
}

// Profitable reports a strictly positive, known total.
func (s Summary) Profitable() bool {
	return s.Total.Valid && s.Total.Decimal.IsPositive()
}

// NetCashFlow is deposits plus withdrawals (withdrawals are negative).
func (s Summary) NetCashFlow() decimal.Decimal {
	return s.Deposits.Add(s.Withdrawals)
}

// BuildSummary derives the summary from a result. The total is null when any
// position's profit/loss is null.
func BuildSummary(result models.ReconciliationResult, cash []models.CashMovement, currency string) Summary {
	s := Summary{
		Currency:   NormalizeCurrencyCode(currency),
		Total:      decimal.NewNullDecimal(decimal.Zero),
		Unresolved: append([]models.PositionKey(nil), result.Unresolved...),
	}
	for _, rec := range result.Performance.Records() {
		s.Positions = append(s.Positions, PositionLine{
			Key:           rec.Key,
			Quantity:      rec.TotalQuantity,
			ProfitLoss:    rec.TotalProfitLoss,
			ReturnPercent: rec.ReturnPercent,
		})
		if !rec.TotalProfitLoss.Valid {
			s.Total = decimal.NullDecimal{}
		} else if s.Total.Valid {
			s.Total.Decimal = s.Total.Decimal.Add(rec.TotalProfitLoss.Decimal)
		}
	}
	for _, m := range cash {
		s.CashMovementCount++
		if m.Type == models.CashWithdrawal {
			s.Withdrawals = s.Withdrawals.Add(m.Amount)
		} else {
			s.Deposits = s.Deposits.Add(m.Amount)
		}
	}
	return s
}

// NormalizeCurrencyCode upper-cases code and falls back to DefaultCurrency
// for codes go-money does not know.
func NormalizeCurrencyCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if money.GetCurrency(code) == nil {
		return DefaultCurrency
	}
	return code
}

// FormatMoney formats d in the given currency, or "n/a" when d is null.
func FormatMoney(d decimal.NullDecimal, currency string) string {
	if !d.Valid {
		return "n/a"
	}
	cur := money.GetCurrency(NormalizeCurrencyCode(currency))
	minor := d.Decimal.Shift(int32(cur.Fraction)).Round(0)
	if minor.GreaterThan(maxMinorUnits) || minor.LessThan(minMinorUnits) {
		// beyond int64 minor units; skip go-money grouping
		if d.Decimal.IsNegative() {
			return "-" + cur.Grapheme + d.Decimal.Neg().StringFixed(int32(cur.Fraction))
		}
		return cur.Grapheme + d.Decimal.StringFixed(int32(cur.Fraction))
	}
	return cur.Formatter().Format(minor.IntPart())
}

var (
	maxMinorUnits = decimal.NewFromInt(math.MaxInt64)
	minMinorUnits = decimal.NewFromInt(math.MinInt64)
)

// FormatPercent formats d with two decimals and a percent sign.
func FormatPercent(d decimal.NullDecimal) string {
	if !d.Valid {
		return "n/a"
	}
	return d.Decimal.StringFixed(2) + "%"
}

// FormatQuantity formats d without trailing zeros.
func FormatQuantity(d decimal.NullDecimal) string {
	if !d.Valid {
		return "n/a"
	}
	return d.Decimal.String()
}
