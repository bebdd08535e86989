package output

import (
	"encoding/csv"
	"io"

	"dira-price/internal/errors"
)

// CSVFormatter renders the Parameter/Value summary
type CSVFormatter struct {
	opts Options
}

// Format returns FormatCSV
func (f *CSVFormatter) Format() Format {
	return FormatCSV
}

// Render writes the summary grid; one value column per entry
func (f *CSVFormatter) Render(w io.Writer, report *Report) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(f.opts.Style.SummaryGrid(report.Entries)); err != nil {
		return errors.Export("failed to write CSV", err)
	}
	return nil
}
