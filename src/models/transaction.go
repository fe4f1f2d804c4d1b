package models

import "github.com/shopspring/decimal"

// Required column names of a trade-history export.
const (
	ColumnSettleDate  = "Settle Date"
	ColumnInstrument  = "Instrument"
	ColumnTransCode   = "Trans Code"
	ColumnQuantity    = "Quantity"
	ColumnPrice       = "Price"
	ColumnAmount      = "Amount"
	ColumnDescription = "Description"
)

// RequiredColumns lists the columns every export must carry, in display order.
var RequiredColumns = []string{
	ColumnSettleDate,
	ColumnInstrument,
	ColumnTransCode,
	ColumnQuantity,
	ColumnPrice,
	ColumnAmount,
	ColumnDescription,
}

// RawTransaction holds the display-formatted string values of a single export row.
type RawTransaction struct {
	SettleDate  string `json:"settle_date"`
	Instrument  string `json:"instrument"`
	TransCode   string `json:"trans_code"`
	Quantity    string `json:"quantity"`
	Price       string `json:"price"` // e.g. "$1,234.56"
	Amount      string `json:"amount"` // e.g. "($500.00)"
	Description string `json:"description"`
	Line        int    `json:"line"` // 1-based line in the source file
}

// Transaction is a normalized export row. Numeric fields that failed to parse
// are kept as invalid NullDecimals rather than dropped or zeroed.
type Transaction struct {
	SettleDate  string              `json:"settle_date"`
	Instrument  string              `json:"instrument"`
	TransCode   string              `json:"trans_code"`
	Quantity    decimal.NullDecimal `json:"quantity"`
	Price       decimal.NullDecimal `json:"price"`
	Amount      decimal.NullDecimal `json:"amount"`
	Description string              `json:"description"`
	Line        int                 `json:"line"`
}

// Notional returns quantity × price, invalid when either operand is.
func (t Transaction) Notional() decimal.NullDecimal {
	if !t.Quantity.Valid || !t.Price.Valid {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(t.Quantity.Decimal.Mul(t.Price.Decimal))
}

// CashMovement represents an ACH deposit or withdrawal.
type CashMovement struct {
	Date        string          `json:"date"`
	Type        string          `json:"type"` // "deposit" or "withdrawal"
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

const (
	CashDeposit    = "deposit"
	CashWithdrawal = "withdrawal"
)

// ParsedExport is the outcome of reading one export file.
type ParsedExport struct {
	Rows         []RawTransaction `json:"rows"`
	SkippedLines []int            `json:"skipped_lines,omitempty"` // malformed rows left out
}
