package processors

import (
	"github.com/username/tradeperf/src/logger"
	"github.com/username/tradeperf/src/models"
)

type stockProcessorImpl struct {
	mode AggregationMode
}

// NewStockProcessor creates a StockProcessor using mode for its sums.
func NewStockProcessor(mode AggregationMode) StockProcessor {
	return &stockProcessorImpl{mode: mode}
}

// Process groups buys by Instrument in first-appearance order and matches each
// ticker against every sell of the same Instrument. Quantities are not
// reconciled: all buys are compared with all sells. A ticker with no sells is
// reported as unresolved.
func (p *stockProcessorImpl) Process(buys, sells []models.Transaction) ([]models.PerformanceRecord, []models.PositionKey) {
	var tickers []string
	buysByTicker := make(map[string][]models.Transaction)
	for _, tx := range buys {
		if tx.Instrument == "" {
			continue
		}
		if _, seen := buysByTicker[tx.Instrument]; !seen {
			tickers = append(tickers, tx.Instrument)
		}
		buysByTicker[tx.Instrument] = append(buysByTicker[tx.Instrument], tx)
	}

	sellsByTicker := make(map[string][]models.Transaction)
	for _, tx := range sells {
		sellsByTicker[tx.Instrument] = append(sellsByTicker[tx.Instrument], tx)
	}

	var records []models.PerformanceRecord
	var unresolved []models.PositionKey
	for _, ticker := range tickers {
		matched := sellsByTicker[ticker]
		if len(matched) == 0 {
			logger.L.Debug("No sell found for ticker", "ticker", ticker)
			unresolved = append(unresolved, models.PositionKey(ticker))
			continue
		}

		cost := p.mode.SumNotional(buysByTicker[ticker])
		proceeds := p.mode.SumNotional(matched)
		pl := subNull(proceeds, cost)

		records = append(records, models.PerformanceRecord{
			Key:             models.PositionKey(ticker),
			TotalQuantity:   p.mode.SumQuantity(buysByTicker[ticker]),
			TotalProfitLoss: pl,
			ReturnPercent:   returnPercent(pl, cost),
		})
	}
	return records, unresolved
}
