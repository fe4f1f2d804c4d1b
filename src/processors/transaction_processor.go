package processors

import (
	"strings"

	"github.com/username/tradeperf/src/logger"
	"github.com/username/tradeperf/src/models"
	"github.com/username/tradeperf/src/security/validation"
)

// TransactionProcessor turns raw export rows into typed transactions.
type TransactionProcessor struct{}

func NewTransactionProcessor() *TransactionProcessor { return &TransactionProcessor{} }

// Process trims every field, strips unprintable runes, caps the description
// length and parses the numeric columns. Price and Amount go through currency normalization; Quantity is
// parsed as-is. Unparseable numbers become nulls and the row is kept.
func (p *TransactionProcessor) Process(raws []models.RawTransaction) []models.Transaction {
	txs := make([]models.Transaction, 0, len(raws))
	nullCount := 0
	for _, raw := range raws {
		tx := models.Transaction{
			SettleDate:  clean(raw.SettleDate),
			Instrument:  clean(raw.Instrument),
			TransCode:   clean(raw.TransCode),
			Quantity:    ParseNullDecimal(clean(raw.Quantity)),
			Price:       ParseCurrency(clean(raw.Price)),
			Amount:      ParseCurrency(clean(raw.Amount)),
			Description: clean(raw.Description),
			Line:        raw.Line,
		}
		if err := validation.ValidateStringMaxLength(tx.Description, validation.MaxDescriptionLength, "description"); err != nil {
			logger.L.Warn("Truncating overlong description", "line", raw.Line, "error", err)
			tx.Description = truncateRunes(tx.Description, validation.MaxDescriptionLength)
		}
		if hasNumericInput(raw.Quantity, tx.Quantity.Valid) ||
			hasNumericInput(raw.Price, tx.Price.Valid) ||
			hasNumericInput(raw.Amount, tx.Amount.Valid) {
			nullCount++
			logger.L.Debug("Row has unparseable numeric field", "line", raw.Line, "instrument", tx.Instrument, "transCode", tx.TransCode)
		}
		txs = append(txs, tx)
	}
	if nullCount > 0 {
		logger.L.Info("Some numeric fields could not be parsed and were kept as null", "rows", nullCount)
	}
	return txs
}

func clean(s string) string {
	return strings.TrimSpace(validation.StripUnprintable(s))
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// hasNumericInput reports a non-blank value that failed to parse.
func hasNumericInput(raw string, valid bool) bool {
	return !valid && strings.TrimSpace(raw) != ""
}
