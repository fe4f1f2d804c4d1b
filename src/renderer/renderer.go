package renderer

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/shopspring/decimal"
	"github.com/username/tradeperf/src/models"
)

//go:embed templates/*
var templates embed.FS

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"|", `\|`,
)

// EscapeMarkdown escapes characters that would change the meaning of inline markdown.
func EscapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// tableCell flattens a value into a single GFM table cell.
func tableCell(v any) string {
	var s string
	switch x := v.(type) {
	case string:
		s = x
	case decimal.NullDecimal:
		if x.Valid {
			s = x.Decimal.String()
		}
	case fmt.Stringer:
		s = x.String()
	default:
		s = fmt.Sprint(x)
	}
	s = strings.Join(strings.Fields(s), " ")
	return EscapeMarkdown(s)
}

// RenderMarkdown renders the performance summary as markdown.
func RenderMarkdown(s Summary) string {
	funcs := template.FuncMap{
		"money":    func(d decimal.NullDecimal) string { return FormatMoney(d, s.Currency) },
		"percent":  FormatPercent,
		"quantity": FormatQuantity,
		"valid":    decimal.NewNullDecimal,
		"escape":   func(k models.PositionKey) string { return EscapeMarkdown(string(k)) },
	}
	return renderTemplate("summary.md", funcs, s)
}

// RenderTransactionsMarkdown renders the seven required columns of txs as a GFM table.
func RenderTransactionsMarkdown(txs []models.Transaction) string {
	return renderTemplate("transactions.md", template.FuncMap{"cell": tableCell}, txs)
}

// renderTemplate executes one embedded markdown template. Failures are
// returned as the rendered text.
func renderTemplate(file string, funcs template.FuncMap, data any) string {
	content, err := templates.ReadFile("templates/" + file)
	if err != nil {
		return fmt.Sprintf("error reading template %q: %v", file, err)
	}
	tmpl, err := template.New(file).Funcs(funcs).Parse(string(content))
	if err != nil {
		return fmt.Sprintf("error parsing template %q: %v", file, err)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", file, err)
	}
	return b.String()
}
