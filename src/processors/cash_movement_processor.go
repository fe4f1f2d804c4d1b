package processors

import (
	"github.com/username/tradeperf/src/logger"
	"github.com/username/tradeperf/src/models"
)

type cashMovementProcessorImpl struct{}

// NewCashMovementProcessor creates a new instance of CashMovementProcessor.
func NewCashMovementProcessor() CashMovementProcessor {
	return &cashMovementProcessorImpl{}
}

// Process maps ACH rows to cash movements. The sign of Amount decides the
// direction; rows without a parseable amount are skipped.
func (p *cashMovementProcessorImpl) Process(achRows []models.Transaction) []models.CashMovement {
	var movements []models.CashMovement
	for _, tx := range achRows {
		if !tx.Amount.Valid {
			logger.L.Warn("Skipping ACH row without a valid amount", "line", tx.Line, "date", tx.SettleDate)
			continue
		}
		movementType := models.CashDeposit
		if tx.Amount.Decimal.IsNegative() {
			movementType = models.CashWithdrawal
		}
		movements = append(movements, models.CashMovement{
			Date:        tx.SettleDate,
			Type:        movementType,
			Amount:      tx.Amount.Decimal,
			Description: tx.Description,
		})
	}
	return movements
}
