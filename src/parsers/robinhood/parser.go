package robinhood

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/username/tradeperf/src/logger"
	"github.com/username/tradeperf/src/models"
)

var (
	ErrEmptyFile      = errors.New("file is empty")
	ErrMissingColumns = errors.New("missing required columns")
)

// RobinhoodParser reads Robinhood account activity exports.
type RobinhoodParser struct{}

// NewParser creates a new instance of the RobinhoodParser.
func NewParser() *RobinhoodParser {
	return &RobinhoodParser{}
}

// Parse maps columns by header name, so their order and any extra columns do
// not matter. Rows with more fields than the header (such as the trailing
// disclaimer Robinhood appends) are skipped and reported. Shorter rows are
// kept with the missing fields left empty.
func (p *RobinhoodParser) Parse(file io.Reader) (models.ParsedExport, error) {
	var out models.ParsedExport

	reader := csv.NewReader(skipBOM(file))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return out, ErrEmptyFile
	}
	if err != nil {
		return out, fmt.Errorf("robinhood parser: failed to read CSV header: %w", err)
	}

	index, err := columnIndex(header)
	if err != nil {
		return out, err
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				logger.L.Warn("Robinhood parser: skipping unreadable row", "line", parseErr.StartLine, "error", parseErr.Err)
				out.SkippedLines = append(out.SkippedLines, parseErr.StartLine)
				continue
			}
			return out, fmt.Errorf("robinhood parser: failed to read CSV record: %w", err)
		}
		line, _ := reader.FieldPos(0)
		if len(record) > len(header) {
			logger.L.Debug("Robinhood parser: skipping row with too many fields", "line", line, "fields", len(record), "expected", len(header))
			out.SkippedLines = append(out.SkippedLines, line)
			continue
		}
		if len(record) < len(header) {
			// missing trailing fields read as empty and end up null downstream
			record = append(record, make([]string, len(header)-len(record))...)
		}

		out.Rows = append(out.Rows, models.RawTransaction{
			SettleDate:  record[index[models.ColumnSettleDate]],
			Instrument:  record[index[models.ColumnInstrument]],
			TransCode:   record[index[models.ColumnTransCode]],
			Quantity:    record[index[models.ColumnQuantity]],
			Price:       record[index[models.ColumnPrice]],
			Amount:      record[index[models.ColumnAmount]],
			Description: record[index[models.ColumnDescription]],
			Line:        line,
		})
	}

	if len(out.SkippedLines) > 0 {
		logger.L.Info("Robinhood parser: some rows were skipped", "skipped", len(out.SkippedLines), "parsed", len(out.Rows))
	}
	return out, nil
}

// columnIndex locates every required column, reporting all that are missing.
func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	var missing []string
	for _, col := range models.RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return index, nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// skipBOM drops a leading UTF-8 byte order mark, which spreadsheet tools like
// to prepend to exported CSV files.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}
