// Package output provides output formatting interfaces.
// This package produces human and machine-readable price reports.
package output

import (
	"io"
	"sort"

	"dira-price/core/pricing"
	"dira-price/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatText is a human-readable terminal report
	FormatText Format = "text"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"

	// FormatCSV is the Parameter/Value summary as CSV
	FormatCSV Format = "csv"

	// FormatXLSX is the summary and breakdown as an Excel workbook
	FormatXLSX Format = "xlsx"
)

// Binary reports whether the format must not be written to a terminal
func (f Format) Binary() bool {
	return f == FormatXLSX
}

// ContentType returns the MIME type used when serving the format over HTTP
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/plain; charset=utf-8"
}

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render produces output for the given report
	Render(w io.Writer, report *Report) error
}

// Entry is one priced apartment
type Entry struct {
	// Name labels the entry in multi-entry reports
	Name string `json:"name"`

	// Result is the calculation outcome
	Result *pricing.Result `json:"result"`
}

// Report is what formatters render: one or more priced apartments
type Report struct {
	// Title is shown above multi-entry reports
	Title string `json:"title,omitempty"`

	// Entries are rendered in order
	Entries []Entry `json:"entries"`
}

// Single wraps one result in a report
func Single(res *pricing.Result) *Report {
	return &Report{Entries: []Entry{{Name: "apartment", Result: res}}}
}

// Options control rendering
type Options struct {
	// Quiet limits output to final price and discount
	Quiet bool

	// NoColor disables ANSI colors
	NoColor bool

	// Style controls number rendering
	Style Style
}

// Registry manages formatter registration
type Registry struct {
	formatters map[Format]Formatter
}

// NewRegistry returns a registry with every built-in formatter
func NewRegistry(opts Options) *Registry {
	if opts.Style.Currency == "" {
		opts.Style = DefaultStyle()
	}
	r := &Registry{formatters: make(map[Format]Formatter)}
	r.Register(&TextFormatter{opts: opts})
	r.Register(&JSONFormatter{opts: opts})
	r.Register(&CSVFormatter{opts: opts})
	r.Register(&XLSXFormatter{opts: opts})
	return r
}

// Register adds a formatter, replacing any formatter of the same format
func (r *Registry) Register(formatter Formatter) {
	r.formatters[formatter.Format()] = formatter
}

// Get returns the formatter for a format
func (r *Registry) Get(format Format) (Formatter, error) {
	f, ok := r.formatters[format]
	if !ok {
		return nil, errors.NotSupported("output format " + string(format))
	}
	return f, nil
}

// Formats lists the registered formats, sorted
func (r *Registry) Formats() []Format {
	formats := make([]Format, 0, len(r.formatters))
	for f := range r.formatters {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}
