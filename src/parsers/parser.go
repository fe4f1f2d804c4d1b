package parsers

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/username/tradeperf/src/models"
	"github.com/username/tradeperf/src/parsers/robinhood"
)

var (
	ErrUnknownSource  = errors.New("unknown source")
	ErrEmptyFile      = robinhood.ErrEmptyFile
	ErrMissingColumns = robinhood.ErrMissingColumns
)

// Parser reads a broker export into raw rows.
type Parser interface {
	Parse(file io.Reader) (models.ParsedExport, error)
}

// Sources lists the accepted source names.
var Sources = []string{"robinhood"}

// GetParser returns the parser registered for source (case-insensitive).
func GetParser(source string) (Parser, error) {
	switch strings.ToLower(strings.TrimSpace(source)) {
	case "robinhood":
		return robinhood.NewParser(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, source)
	}
}
