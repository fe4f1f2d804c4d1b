package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/username/tradeperf/src/processors"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "5001", cfg.Port)
	assert.Equal(t, int64(16*1024*1024), cfg.MaxUploadSizeBytes)
	assert.Equal(t, []string{"csv"}, cfg.AllowedExtensions)
	assert.Equal(t, "", cfg.UploadDir)
	assert.Equal(t, "USD", cfg.ReportCurrency)
	assert.Equal(t, "propagate", cfg.NullAggregation)
	assert.Equal(t, 15*time.Minute, cfg.ReportCacheExpiration)
	assert.Equal(t, "BTO", cfg.TransCodes[processors.CategoryBTO])
	assert.Len(t, cfg.TransCodes, 5)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MAX_UPLOAD_SIZE_BYTES", "2048")
	t.Setenv("ALLOWED_EXTENSIONS", "csv, txt ,")
	t.Setenv("REPORT_CURRENCY", "eur")
	t.Setenv("NULL_AGGREGATION", "SKIP")
	t.Setenv("TRANS_CODE_BUY", "BUY")
	t.Setenv("TRANS_CODE_STO", "SOLD")
	t.Setenv("REPORT_CACHE_EXPIRATION", "5m")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, int64(2048), cfg.MaxUploadSizeBytes)
	assert.Equal(t, []string{"csv", "txt"}, cfg.AllowedExtensions)
	assert.Equal(t, "EUR", cfg.ReportCurrency)
	assert.Equal(t, "skip", cfg.NullAggregation)
	assert.Equal(t, "BUY", cfg.TransCodes[processors.CategoryBuy])
	assert.Equal(t, "SOLD", cfg.TransCodes[processors.CategorySTO])
	assert.Equal(t, "Sell", cfg.TransCodes[processors.CategorySell])
	assert.Equal(t, 5*time.Minute, cfg.ReportCacheExpiration)
}

func TestLoadFallsBackOnInvalidValues(t *testing.T) {
	t.Setenv("MAX_UPLOAD_SIZE_BYTES", "lots")
	t.Setenv("RATE_LIMIT_BURST", "many")
	t.Setenv("CACHE_CLEANUP_INTERVAL", "soon")
	t.Setenv("NULL_AGGREGATION", "zero")

	cfg := Load()

	assert.Equal(t, int64(16*1024*1024), cfg.MaxUploadSizeBytes)
	assert.Equal(t, 30, cfg.RateLimitBurst)
	assert.Equal(t, 30*time.Minute, cfg.CacheCleanupInterval)
	assert.Equal(t, "propagate", cfg.NullAggregation)
}

func TestGetEnvAsListEmptyItems(t *testing.T) {
	t.Setenv("SOME_LIST", " , ,")
	assert.Equal(t, []string{"x"}, getEnvAsList("SOME_LIST", []string{"x"}))
}
