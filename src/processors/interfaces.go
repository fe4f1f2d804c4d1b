package processors

import "github.com/username/tradeperf/src/models"

// StockProcessor matches buy and sell rows per ticker.
type StockProcessor interface {
	Process(buys, sells []models.Transaction) ([]models.PerformanceRecord, []models.PositionKey)
}

// OptionProcessor matches each opening option row against its closing rows.
type OptionProcessor interface {
	Process(opens, closes []models.Transaction) ([]models.PerformanceRecord, []models.PositionKey)
}

// CashMovementProcessor turns ACH rows into deposits and withdrawals.
type CashMovementProcessor interface {
	Process(achRows []models.Transaction) []models.CashMovement
}
