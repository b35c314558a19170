// Package render draws an assessed report as a PDF, HTML or Markdown document.
// Layout lives in Compose; each format implements Canvas.
package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ppiankov/gonogo/internal/model"
)

// ErrRender is matched by every rendering failure
var ErrRender = errors.New("render failed")

// Error reports a failure while drawing or encoding a document.
// The assessment that produced it is still valid and can be rendered again.
type Error struct {
	Format Format
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("render %s: %v", e.Format, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{ErrRender, e.Err}
}

// Format identifies an output document type
type Format string

const (
	FormatPDF      Format = "pdf"
	FormatHTML     Format = "html"
	FormatMarkdown Format = "md"
)

// Formats lists the supported formats
func Formats() []Format {
	return []Format{FormatPDF, FormatHTML, FormatMarkdown}
}

// ParseFormat accepts a format name or file extension
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "pdf", "":
		return FormatPDF, nil
	case "html", "htm":
		return FormatHTML, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want pdf, html or md)", s)
	}
}

// Extension returns the file extension including the dot
func (f Format) Extension() string {
	return "." + string(f)
}

// ContentType returns the MIME type served for the format
func (f Format) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	default:
		return "application/pdf"
	}
}

// Options control page chrome
type Options struct {
	IncludeFooter bool
}

// DefaultOptions matches the standard report
func DefaultOptions() Options {
	return Options{IncludeFooter: true}
}

// New returns a fresh canvas for format
func New(format Format, opts Options) (Canvas, error) {
	switch format {
	case FormatPDF:
		return NewPDFCanvas(opts), nil
	case FormatHTML:
		return NewHTMLCanvas(opts), nil
	case FormatMarkdown:
		return NewMarkdownCanvas(opts), nil
	default:
		return nil, &Error{Format: format, Err: fmt.Errorf("unsupported format")}
	}
}

// Render composes report in the given format. On failure no bytes are returned.
func Render(report model.Report, format Format, opts Options) ([]byte, error) {
	canvas, err := New(format, opts)
	if err != nil {
		return nil, err
	}

	data, err := Compose(report, canvas)
	if err != nil {
		var rerr *Error
		if errors.As(err, &rerr) {
			return nil, err
		}
		return nil, &Error{Format: format, Err: err}
	}
	return data, nil
}
