// Package ui - Terminal user interface
// Colored CLI output with tables and the price summary box.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// Colors for terminal output
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Dim    = "\033[2m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Cyan   = "\033[36m"
)

// Writer is the UI output destination
type Writer struct {
	out       io.Writer
	noColor   bool
	verbosity int
}

// NewWriter creates a UI writer
func NewWriter(out io.Writer, noColor bool) *Writer {
	if out == nil {
		out = os.Stdout
	}
	return &Writer{
		out:       out,
		noColor:   noColor,
		verbosity: 1,
	}
}

// SetVerbosity sets output verbosity (0=quiet, 1=normal, 2=verbose)
func (w *Writer) SetVerbosity(level int) {
	w.verbosity = level
}

// color applies color if enabled
func (w *Writer) color(c, text string) string {
	if w.noColor {
		return text
	}
	return c + text + Reset
}

// Print writes formatted text
func (w *Writer) Print(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format, args...)
}

// Println writes a line with newline
func (w *Writer) Println(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format+"\n", args...)
}

// Line writes text verbatim followed by a newline
func (w *Writer) Line(text string) {
	fmt.Fprintln(w.out, text)
}

// Rule prints a horizontal rule
func (w *Writer) Rule(char string, width int) {
	w.Line(strings.Repeat(char, width))
}

// Header prints a section header
func (w *Writer) Header(title string) {
	w.Line("")
	w.Line(w.color(Bold+Cyan, "━━━ "+title+" ━━━"))
	w.Line("")
}

// SubHeader prints a subsection header
func (w *Writer) SubHeader(title string) {
	w.Line(w.color(Bold, "▸ "+title))
}

// Success prints a success message
func (w *Writer) Success(format string, args ...interface{}) {
	w.Line(w.color(Green, "✓ ") + fmt.Sprintf(format, args...))
}

// Warning prints a warning
func (w *Writer) Warning(format string, args ...interface{}) {
	w.Line(w.color(Yellow, "⚠ ") + fmt.Sprintf(format, args...))
}

// Error prints an error
func (w *Writer) Error(format string, args ...interface{}) {
	w.Line(w.color(Red, "✗ ") + fmt.Sprintf(format, args...))
}

// Info prints an info message
func (w *Writer) Info(format string, args ...interface{}) {
	if w.verbosity < 1 {
		return
	}
	w.Line(w.color(Blue, "ℹ ") + fmt.Sprintf(format, args...))
}

// Debug prints a debug message
func (w *Writer) Debug(format string, args ...interface{}) {
	if w.verbosity < 2 {
		return
	}
	w.Line(w.color(Dim, "  "+fmt.Sprintf(format, args...)))
}

// Table renders a table
type Table struct {
	w       *Writer
	headers []string
	rows    [][]string
	widths  []int
	right   map[int]bool
}

// NewTable creates a table
func (w *Writer) NewTable(headers ...string) *Table {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	return &Table{
		w:       w,
		headers: headers,
		rows:    [][]string{},
		widths:  widths,
		right:   map[int]bool{},
	}
}

// AlignRight right-aligns a column, e.g. amounts
func (t *Table) AlignRight(col int) *Table {
	t.right[col] = true
	return t
}

// AddRow adds a row to the table
func (t *Table) AddRow(cells ...string) {
	// Pad or truncate cells to match header count
	row := make([]string, len(t.headers))
	for i := range row {
		if i < len(cells) {
			row[i] = cells[i]
		}
		if n := utf8.RuneCountInString(row[i]); n > t.widths[i] {
			t.widths[i] = n
		}
	}
	t.rows = append(t.rows, row)
}

// Render prints the table
func (t *Table) Render() {
	t.w.Line(t.w.color(Bold, t.format(t.headers)))

	sep := make([]string, len(t.widths))
	for i, w := range t.widths {
		sep[i] = strings.Repeat("─", w)
	}
	t.w.Line(strings.Join(sep, "─┼─"))

	for _, row := range t.rows {
		t.w.Line(t.format(row))
	}
}

func (t *Table) format(cells []string) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		parts[i] = pad(cell, t.widths[i], t.right[i])
	}
	return strings.Join(parts, " │ ")
}

// pad pads by rune count so that ₪ and m² do not break alignment
func pad(s string, width int, right bool) string {
	gap := width - utf8.RuneCountInString(s)
	if gap <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", gap) + s
	}
	return s + strings.Repeat(" ", gap)
}

// PriceSummary renders the headline figures of a calculation
type PriceSummary struct {
	w             *Writer
	Title         string
	FinalPrice    string
	Discount      string
	EffectiveArea string
	DiscountType  string
	HasDiscount   bool
}

// NewPriceSummary creates a price summary
func (w *Writer) NewPriceSummary() *PriceSummary {
	return &PriceSummary{w: w, Title: "APARTMENT PRICE CALCULATION SUMMARY"}
}

// Render prints the price summary
func (s *PriceSummary) Render() {
	s.w.Header(s.Title)

	lines := []struct {
		label, value, color string
	}{
		{"Final Price:", s.FinalPrice, Green},
		{"Total Discount:", s.Discount, Yellow},
		{"Effective Area:", s.EffectiveArea, Dim},
	}

	inner := 0
	for _, l := range lines {
		if n := utf8.RuneCountInString(fmt.Sprintf("  %-16s %s  ", l.label, l.value)); n > inner {
			inner = n
		}
	}

	s.w.Line(s.w.color(Bold, "╭"+strings.Repeat("─", inner)+"╮"))
	for _, l := range lines {
		text := pad(fmt.Sprintf("  %-16s %s", l.label, l.value), inner, false)
		s.w.Line(s.w.color(Bold, "│") + s.w.color(l.color, text) + s.w.color(Bold, "│"))
	}
	s.w.Line(s.w.color(Bold, "╰"+strings.Repeat("─", inner)+"╯"))
	s.w.Line("")

	icon, c := "●", Green
	if !s.HasDiscount {
		icon, c = "○", Red
	}
	s.w.Line(s.w.color(c, fmt.Sprintf("%s Discount type: %s", icon, s.DiscountType)))
	if !s.HasDiscount {
		s.w.Warning("No discount: the current price is already at or below the discounted main price")
	}
}
