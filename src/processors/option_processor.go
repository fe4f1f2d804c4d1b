package processors

import (
	"strings"

	"github.com/username/tradeperf/src/logger"
	"github.com/username/tradeperf/src/models"
	"github.com/username/tradeperf/src/parsers/optiondesc"
)

type optionProcessorImpl struct {
	mode AggregationMode
}

// NewOptionProcessor creates an OptionProcessor using mode for its sums.
func NewOptionProcessor(mode AggregationMode) OptionProcessor {
	return &optionProcessorImpl{mode: mode}
}

// Process handles opening rows one by one, in input order. The closing rows
// of an open are those whose Instrument equals the parsed ticker and whose
// Description contains the expiration token; strike and type are not compared.
// Opens whose description does not parse are skipped. The returned records may
// repeat a key; the caller keeps the last one.
func (p *optionProcessorImpl) Process(opens, closes []models.Transaction) ([]models.PerformanceRecord, []models.PositionKey) {
	var records []models.PerformanceRecord
	var unresolved []models.PositionKey
	for _, open := range opens {
		id, ok := optiondesc.Parse(open.Description)
		if !ok {
			logger.L.Debug("Skipping option open with unparseable description", "line", open.Line, "description", open.Description)
			continue
		}
		key := id.Key()

		var matched []models.Transaction
		for _, c := range closes {
			if c.Instrument == id.Ticker && strings.Contains(c.Description, id.Expiration) {
				matched = append(matched, c)
			}
		}
		if len(matched) == 0 {
			logger.L.Debug("No closing trade found for option", "key", key, "line", open.Line)
			unresolved = append(unresolved, key)
			continue
		}

		cost := open.Notional()
		pl := subNull(p.mode.SumNotional(matched), cost)
		records = append(records, models.PerformanceRecord{
			Key:             key,
			TotalQuantity:   open.Quantity,
			TotalProfitLoss: pl,
			ReturnPercent:   returnPercent(pl, cost),
		})
	}
	return records, unresolved
}
