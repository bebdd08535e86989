package output

import (
	"io"
	"strings"

	"dira-price/core/ui"
)

// TextFormatter renders the terminal report
type TextFormatter struct {
	opts Options
}

// Format returns FormatText
func (f *TextFormatter) Format() Format {
	return FormatText
}

// Render prints a summary box and the three breakdown tables per entry.
// Multi-entry reports end with a comparison table.
func (f *TextFormatter) Render(w io.Writer, report *Report) error {
	out := ui.NewWriter(w, f.opts.NoColor)
	style := f.opts.Style
	multi := len(report.Entries) > 1

	if f.opts.Quiet {
		for _, e := range report.Entries {
			indent := ""
			if multi {
				out.Line(e.Name + ":")
				indent = "  "
			}
			out.Line(indent + "Final Price: " + style.Money(e.Result.FinalPrice))
			out.Line(indent + "Total Discount: " + style.Money(e.Result.DiscountAmount))
		}
		return nil
	}

	if multi && report.Title != "" {
		out.Header(report.Title)
	}

	for _, e := range report.Entries {
		res := e.Result

		summary := out.NewPriceSummary()
		if multi {
			summary.Title = strings.ToUpper(e.Name)
		}
		summary.FinalPrice = style.Money(res.FinalPrice)
		summary.Discount = style.Money(res.DiscountAmount)
		summary.EffectiveArea = Area(res.EffectiveArea) + " sqm"
		summary.DiscountType = res.DiscountType.Label()
		summary.HasDiscount = res.HasDiscount()
		summary.Render()

		for _, section := range style.DetailSections(res) {
			out.Line("")
			out.SubHeader(section.Title)
			table := out.NewTable(section.Headers...)
			for col := 1; col < len(section.Headers); col++ {
				table.AlignRight(col)
			}
			for _, row := range section.Rows {
				table.AddRow(row...)
			}
			table.Render()
		}
	}

	if multi {
		out.Header("COMPARISON")
		table := out.NewTable("Scenario", "Area Type", "Effective Area", "Final Price", "Discount", "Discount Type").
			AlignRight(2).AlignRight(3).AlignRight(4)
		for _, e := range report.Entries {
			res := e.Result
			table.AddRow(
				e.Name,
				res.Input.AreaType.Title(),
				Area(res.EffectiveArea)+" m²",
				style.MoneyWhole(res.FinalPrice),
				style.MoneyWhole(res.DiscountAmount),
				res.DiscountType.Label(),
			)
		}
		table.Render()
	}

	return nil
}
