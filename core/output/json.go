package output

import (
	"encoding/json"
	"io"

	"github.com/shopspring/decimal"

	"dira-price/internal/errors"
)

// JSONFormatter renders results as indented JSON.
// A single entry is rendered as the bare result object.
type JSONFormatter struct {
	opts Options
}

// quietResult is the JSON shape of --quiet
type quietResult struct {
	Name           string          `json:"name,omitempty"`
	FinalPrice     decimal.Decimal `json:"final_price_including_vat"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
}

// Format returns FormatJSON
func (f *JSONFormatter) Format() Format {
	return FormatJSON
}

// Render writes the report as JSON
func (f *JSONFormatter) Render(w io.Writer, report *Report) error {
	var payload interface{} = report

	switch {
	case f.opts.Quiet:
		quiet := make([]quietResult, len(report.Entries))
		for i, e := range report.Entries {
			quiet[i] = quietResult{Name: e.Name, FinalPrice: e.Result.FinalPrice, DiscountAmount: e.Result.DiscountAmount}
		}
		if len(quiet) == 1 {
			quiet[0].Name = ""
			payload = quiet[0]
		} else {
			payload = quiet
		}
	case len(report.Entries) == 1:
		payload = report.Entries[0].Result
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return errors.Export("failed to encode JSON", err)
	}
	return nil
}
