package processors

import (
	"github.com/username/tradeperf/src/logger"
	"github.com/username/tradeperf/src/models"
)

// Reconciler classifies transactions and matches opening against closing
// trades for stock and options.
type Reconciler struct {
	classifier *TransactionClassifier
	stocks     StockProcessor
	options    OptionProcessor
	mode       AggregationMode
}

// NewReconciler wires the default stock and option processors. A nil
// classifier selects the default Trans Code mapping.
func NewReconciler(classifier *TransactionClassifier, mode AggregationMode) *Reconciler {
	if classifier == nil {
		classifier = NewTransactionClassifier(nil)
	}
	return &Reconciler{
		classifier: classifier,
		stocks:     NewStockProcessor(mode),
		options:    NewOptionProcessor(mode),
		mode:       mode,
	}
}

// Classifier returns the classifier used by Reconcile.
func (r *Reconciler) Classifier() *TransactionClassifier { return r.classifier }

// Reconcile partitions txs and reconciles the result.
func (r *Reconciler) Reconcile(txs []models.Transaction) models.ReconciliationResult {
	return r.ReconcilePartitions(r.classifier.Partition(txs))
}

// ReconcilePartitions runs stock matching then option matching. Performance
// holds stock tickers first, then option keys; unresolved follows the same
// order. A key never appears in both.
func (r *Reconciler) ReconcilePartitions(p Partitions) models.ReconciliationResult {
	perf := models.NewPerformance()

	stockRecords, stockUnresolved := r.stocks.Process(p.Buy, p.Sell)
	for _, rec := range stockRecords {
		perf.Set(rec.Key, rec)
	}
	optionRecords, optionUnresolved := r.options.Process(p.BTO, p.STO)
	for _, rec := range optionRecords {
		perf.Set(rec.Key, rec)
	}

	unresolved := make([]models.PositionKey, 0, len(stockUnresolved)+len(optionUnresolved))
	for _, key := range append(stockUnresolved, optionUnresolved...) {
		if perf.Has(key) {
			logger.L.Debug("Dropping unresolved entry for matched key", "key", key)
			continue
		}
		unresolved = append(unresolved, key)
	}

	logger.L.Info("Reconciliation complete",
		"positions", perf.Len(),
		"unresolved", len(unresolved),
		"buys", len(p.Buy), "sells", len(p.Sell),
		"optionOpens", len(p.BTO), "optionCloses", len(p.STO),
		"mode", r.mode.String())

	return models.ReconciliationResult{Performance: perf, Unresolved: unresolved}
}
