package report

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

const (
	FormatCSV  = "csv"
	FormatHTML = "html"
	FormatJSON = "json"
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"

	DefaultFormat = FormatHTML
)

var ErrUnknownFormat = errors.New("unknown report format")

type Renderer interface {
	ContentType() string
	Extension() string
	Render(w io.Writer, rep *Report) error
}

var renderers = map[string]Renderer{
	FormatCSV:  csvRenderer{},
	FormatHTML: htmlRenderer{},
	FormatJSON: jsonRenderer{},
	FormatXLSX: xlsxRenderer{},
	FormatPDF:  pdfRenderer{},
}

// Lookup returns the renderer for format. An empty format selects
// DefaultFormat.
func Lookup(format string) (Renderer, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = DefaultFormat
	}
	r, ok := renderers[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return r, nil
}

// Formats lists the supported format names, sorted.
func Formats() []string {
	names := make([]string, 0, len(renderers))
	for name := range renderers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Filename is the download name of a report, e.g. energy_report_2024-03-16.csv.
func Filename(date string, r Renderer) string {
	return fmt.Sprintf("energy_report_%s.%s", date, r.Extension())
}
