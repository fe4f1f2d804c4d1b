// src/services/interfaces.go
package services

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/username/tradeperf/src/models"
	"github.com/username/tradeperf/src/renderer"
)

// UploadResult is the outcome of a single ProcessUpload call. It contains data
// derived only from the uploaded file.
type UploadResult struct {
	ID            string                      `json:"id"`
	Filename      string                      `json:"filename"`
	Source        string                      `json:"source"`
	Size          int64                       `json:"size"`
	CreatedAt     time.Time                   `json:"created_at"`
	Transactions  []models.Transaction        `json:"transactions"`
	Result        models.ReconciliationResult `json:"result"`
	CashMovements []models.CashMovement       `json:"cash_movements"`
	Summary       renderer.Summary            `json:"summary"`
	SkippedLines  []int                       `json:"skipped_lines"`
}

// Define common service errors
var (
	ErrParsingFailed    = errors.New("csv parsing failed")
	ErrProcessingFailed = errors.New("transaction processing failed")
	ErrResultNotFound   = errors.New("report not found")
)

// UploadService defines the interface for the core upload processing logic.
type UploadService interface {
	ProcessUpload(ctx context.Context, fileReader io.Reader, source, filename string, filesize int64) (*UploadResult, error)
	GetUploadResult(id string) (*UploadResult, error)
}
