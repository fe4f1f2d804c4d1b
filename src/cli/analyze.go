package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/username/tradeperf/src/config"
	"github.com/username/tradeperf/src/logger"
	"github.com/username/tradeperf/src/parsers"
	"github.com/username/tradeperf/src/renderer"
	"github.com/username/tradeperf/src/security/validation"
)

// analyzeCmd holds the flags for the 'analyze' subcommand.
type analyzeCmd struct {
	cfg *config.AppConfig
	out io.Writer

	asJSON   bool
	raw      bool
	trades   bool
	currency string
	source   string
	nulls    string
}

func (*analyzeCmd) Name() string     { return "analyze" }
func (*analyzeCmd) Synopsis() string { return "print the performance summary of a trade export" }
func (*analyzeCmd) Usage() string {
	return `tradeperf analyze [-json] [-raw] [-trades] [-currency <code>] [-source <name>] [-nulls propagate|skip] <file.csv>

  Reconciles the trades in an export file and prints the summary.
`
}

func (c *analyzeCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.asJSON, "json", false, "print the full result as JSON")
	f.BoolVar(&c.raw, "raw", false, "print markdown without terminal styling")
	f.BoolVar(&c.trades, "trades", false, "append the trade data table")
	f.StringVar(&c.currency, "currency", c.cfg.ReportCurrency, "currency used to display amounts")
	f.StringVar(&c.source, "source", c.cfg.DefaultSource, "export format: "+strings.Join(parsers.Sources, ", "))
	f.StringVar(&c.nulls, "nulls", c.cfg.NullAggregation, "how missing numbers enter sums: propagate or skip")
}

func (c *analyzeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "analyze expects exactly one file argument")
		return subcommands.ExitUsageError
	}
	if c.out == nil {
		c.out = os.Stdout
	}
	logger.InitLoggerTo(os.Stderr, c.cfg.LogLevel, "text")

	if err := validation.ValidateCurrencyCode(c.currency); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if err := validation.ValidateSource(c.source, parsers.Sources); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	cfg := *c.cfg
	cfg.ReportCurrency = strings.ToUpper(c.currency)
	cfg.NullAggregation = c.nulls
	uploadService, err := newUploadService(&cfg, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	path := f.Arg(0)
	file, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening file: %v\n", err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		return subcommands.ExitFailure
	}

	result, err := uploadService.ProcessUpload(ctx, file, c.source, filepath.Base(path), info.Size())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error analyzing %s: %v\n", path, err)
		return subcommands.ExitFailure
	}

	if c.asJSON {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding result: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	md := renderer.RenderMarkdown(result.Summary)
	if len(result.SkippedLines) > 0 {
		md += fmt.Sprintf("\n\n_%d malformed line(s) were skipped._\n", len(result.SkippedLines))
	}
	if c.trades {
		md += "\n\n## Trade Data\n\n" + renderer.RenderTransactionsMarkdown(result.Transactions)
	}
	if err := c.printMarkdown(md); err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering summary: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// printMarkdown writes md styled for the terminal, or as-is with -raw.
func (c *analyzeCmd) printMarkdown(md string) error {
	if c.raw {
		_, err := io.WriteString(c.out, md)
		return err
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return err
	}
	styled, err := r.Render(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(c.out, styled)
	return err
}
