// Package cli holds the tradeperf subcommands.
package cli

import (
	"fmt"

	"github.com/google/subcommands"
	"github.com/patrickmn/go-cache"
	"github.com/username/tradeperf/src/config"
	"github.com/username/tradeperf/src/processors"
	"github.com/username/tradeperf/src/services"
)

// Register adds the tradeperf subcommands to c.
func Register(c *subcommands.Commander, cfg *config.AppConfig) {
	c.Register(&serveCmd{cfg: cfg}, "")
	c.Register(&analyzeCmd{cfg: cfg}, "")
}

// newUploadService wires the processing pipeline from cfg.
func newUploadService(cfg *config.AppConfig, uploadDir string) (services.UploadService, error) {
	mode, err := processors.ParseAggregationMode(cfg.NullAggregation)
	if err != nil {
		return nil, fmt.Errorf("invalid NULL_AGGREGATION: %w", err)
	}
	reconciler := processors.NewReconciler(processors.NewTransactionClassifier(cfg.TransCodes), mode)
	reportCache := cache.New(cfg.ReportCacheExpiration, cfg.CacheCleanupInterval)

	return services.NewUploadService(
		processors.NewTransactionProcessor(),
		reconciler,
		processors.NewCashMovementProcessor(),
		reportCache,
		services.UploadOptions{
			DefaultSource: cfg.DefaultSource,
			Currency:      cfg.ReportCurrency,
			UploadDir:     uploadDir,
		},
	), nil
}
