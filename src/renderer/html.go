package renderer

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	markdown = goldmark.New(goldmark.WithExtensions(extension.Table))
	ugc      = bluemonday.UGCPolicy()

	pages = template.Must(template.ParseFS(templates, "templates/*.html"))
)

// MarkdownToHTML converts md to sanitized HTML.
func MarkdownToHTML(md string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return template.HTML(ugc.SanitizeBytes(buf.Bytes())), nil
}

// IndexPage feeds the upload form.
type IndexPage struct {
	Accept  string // e.g. ".csv"
	MaxSize string // human readable
}

// UploadPage feeds the upload result page.
type UploadPage struct {
	Filename     string
	ReportID     string
	Size         string
	Generated    string
	SkippedLines int
	SummaryHTML  template.HTML
	TableHTML    template.HTML
}

// RenderIndexPage writes the upload form.
func RenderIndexPage(w io.Writer, page IndexPage) error {
	return pages.ExecuteTemplate(w, "index.html", page)
}

// RenderUploadPage writes the upload result page.
func RenderUploadPage(w io.Writer, page UploadPage) error {
	return pages.ExecuteTemplate(w, "upload.html", page)
}
