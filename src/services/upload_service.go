// src/services/upload_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/username/tradeperf/src/logger"
	"github.com/username/tradeperf/src/parsers"
	"github.com/username/tradeperf/src/processors"
	"github.com/username/tradeperf/src/renderer"
	"github.com/username/tradeperf/src/security/validation"
)

// UploadOptions carries the settings the service needs from configuration.
type UploadOptions struct {
	DefaultSource string
	Currency      string
	UploadDir     string // raw uploads are archived here when non-empty
}

type uploadServiceImpl struct {
	transactionProcessor  *processors.TransactionProcessor
	reconciler            *processors.Reconciler
	cashMovementProcessor processors.CashMovementProcessor
	reportCache           *cache.Cache
	opts                  UploadOptions
}

func NewUploadService(
	transactionProcessor *processors.TransactionProcessor,
	reconciler *processors.Reconciler,
	cashMovementProcessor processors.CashMovementProcessor,
	reportCache *cache.Cache,
	opts UploadOptions,
) UploadService {
	if opts.DefaultSource == "" {
		opts.DefaultSource = "robinhood"
	}
	return &uploadServiceImpl{
		transactionProcessor:  transactionProcessor,
		reconciler:            reconciler,
		cashMovementProcessor: cashMovementProcessor,
		reportCache:           reportCache,
		opts:                  opts,
	}
}

func (s *uploadServiceImpl) ProcessUpload(ctx context.Context, fileReader io.Reader, source, filename string, filesize int64) (*UploadResult, error) {
	overallStartTime := time.Now()
	log := logger.FromContext(ctx)
	if source == "" {
		source = s.opts.DefaultSource
	}
	log.Info("ProcessUpload START", "source", source, "filename", filename, "size", filesize)

	parser, err := parsers.GetParser(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParsingFailed, err)
	}

	var archive *bytes.Buffer
	if s.opts.UploadDir != "" {
		archive = &bytes.Buffer{}
		fileReader = io.TeeReader(fileReader, archive)
	}

	parsed, err := parser.Parse(fileReader)
	if err != nil {
		log.Warn("Failed to parse upload", "filename", filename, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrParsingFailed, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProcessingFailed, err)
	}

	txs := s.transactionProcessor.Process(parsed.Rows)
	partitions := s.reconciler.Classifier().Partition(txs)
	result := s.reconciler.ReconcilePartitions(partitions)
	cashMovements := s.cashMovementProcessor.Process(partitions.ACH)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProcessingFailed, err)
	}

	res := &UploadResult{
		ID:            uuid.NewString(),
		Filename:      filename,
		Source:        source,
		Size:          filesize,
		CreatedAt:     time.Now().UTC(),
		Transactions:  txs,
		Result:        result,
		CashMovements: cashMovements,
		Summary:       renderer.BuildSummary(result, cashMovements, s.opts.Currency),
		SkippedLines:  parsed.SkippedLines,
	}

	if archive != nil {
		if err := s.archiveUpload(res.ID, filename, archive.Bytes()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrProcessingFailed, err)
		}
	}

	s.reportCache.Set(res.ID, res, cache.DefaultExpiration)
	log.Info("ProcessUpload END",
		"reportID", res.ID,
		"rows", len(txs),
		"positions", result.Performance.Len(),
		"unresolved", len(result.Unresolved),
		"duration", time.Since(overallStartTime))
	return res, nil
}

func (s *uploadServiceImpl) GetUploadResult(id string) (*UploadResult, error) {
	if cached, found := s.reportCache.Get(id); found {
		return cached.(*UploadResult), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrResultNotFound, id)
}

// archiveUpload stores the raw upload as "<reportID>_<secure filename>".
func (s *uploadServiceImpl) archiveUpload(id, filename string, content []byte) error {
	if err := os.MkdirAll(s.opts.UploadDir, 0o750); err != nil {
		return fmt.Errorf("failed to create upload dir: %w", err)
	}
	name := validation.SecureFilename(filename)
	if name == "" {
		name = "upload.csv"
	}
	path := filepath.Join(s.opts.UploadDir, id+"_"+name)
	if err := os.WriteFile(path, content, 0o640); err != nil {
		return fmt.Errorf("failed to archive upload: %w", err)
	}
	logger.L.Debug("Upload archived", "path", path)
	return nil
}
