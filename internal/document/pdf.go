// Package document turns uploaded certificate bytes into plain text.
package document

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/ledongthuc/pdf"

	dErrors "sadapurne/pkg/domain-errors"
)

// ErrExtraction matches every extraction failure via errors.Is.
var ErrExtraction = dErrors.New(dErrors.CodeUnreadableDocument, "certificate text could not be extracted")

// pdfMagic must appear in the first headerWindow bytes of a PDF file.
const (
	pdfMagic     = "%PDF-"
	headerWindow = 1024
)

// PDFExtractor reads the text layer of a PDF certificate. Scanned images
// without a text layer yield no text and are reported as unreadable.
type PDFExtractor struct {
	maxPages int
}

// Option configures a PDFExtractor.
type Option func(*PDFExtractor)

// WithMaxPages bounds the number of pages read. Zero reads every page.
func WithMaxPages(n int) Option {
	return func(e *PDFExtractor) {
		e.maxPages = n
	}
}

// NewPDFExtractor creates a PDF text extractor.
func NewPDFExtractor(opts ...Option) *PDFExtractor {
	e := &PDFExtractor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractText returns the certificate text with one line per visual row.
// Every failure carries dErrors.CodeUnreadableDocument.
func (e *PDFExtractor) ExtractText(ctx context.Context, content []byte) (text string, err error) {
	if len(content) == 0 {
		return "", dErrors.New(dErrors.CodeUnreadableDocument, "certificate file is empty")
	}
	if !bytes.Contains(content[:min(len(content), headerWindow)], []byte(pdfMagic)) {
		return "", dErrors.New(dErrors.CodeUnreadableDocument, "certificate is not a PDF document")
	}

	// The parser panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = dErrors.Wrap(fmt.Errorf("pdf parser panic: %v", r), dErrors.CodeUnreadableDocument, "certificate could not be parsed")
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeUnreadableDocument, "certificate could not be parsed")
	}

	pages := r.NumPage()
	if e.maxPages > 0 && pages > e.maxPages {
		pages = e.maxPages
	}

	var sb strings.Builder
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return "", dErrors.Wrap(err, dErrors.CodeTimeout, "text extraction cancelled")
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText := pageLines(page)
		if pageText == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(pageText)
	}

	text = strings.TrimSpace(sb.String())
	if text == "" {
		return "", dErrors.New(dErrors.CodeUnreadableDocument, "no text could be extracted from the certificate")
	}
	return text, nil
}

// pageLines rebuilds visual rows so that label/value pairs stay on one line.
// It falls back to the flat text stream when row grouping fails.
func pageLines(page pdf.Page) string {
	rows, err := page.GetTextByRow()
	if err != nil || len(rows) == 0 {
		plain, err := page.GetPlainText(nil)
		if err != nil {
			return ""
		}
		return strings.TrimSpace(plain)
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		if line := joinRow(row.Content); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// joinRow concatenates text runs left to right, inserting a space wherever
// runs do not touch.
func joinRow(runs pdf.TextHorizontal) string {
	runs = slices.Clone(runs)
	slices.SortStableFunc(runs, func(a, b pdf.Text) int {
		switch {
		case a.X < b.X:
			return -1
		case a.X > b.X:
			return 1
		}
		return 0
	})

	var sb strings.Builder
	var prevEnd float64
	for i, run := range runs {
		if i > 0 && run.X-prevEnd > run.FontSize*0.15 {
			sb.WriteByte(' ')
		}
		sb.WriteString(run.S)
		prevEnd = run.X + run.W
	}
	return strings.TrimSpace(sb.String())
}
