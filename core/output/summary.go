package output

import (
	"fmt"

	"github.com/shopspring/decimal"

	"dira-price/core/pricing"
)

// Row is one Parameter/Value pair of the export summary
type Row struct {
	Parameter string `json:"parameter"`
	Value     string `json:"value"`
}

// SummaryParameters is the fixed order of the export summary
var SummaryParameters = []string{
	"Main Price per m² (excl. VAT)",
	"Current Price per m² (excl. VAT)",
	"Apartment Size",
	"Balcony Size",
	"Storage Size",
	"Parking Spaces",
	"Area Type",
	"VAT Rate",
	"Effective Area",
	"Final Price",
	"Total Discount",
}

// SummaryRows builds the 11-row export summary of a result
func (s Style) SummaryRows(res *pricing.Result) []Row {
	in := res.Input
	values := []string{
		s.MoneyAuto(in.MainPricePerMeter),
		s.MoneyAuto(in.CurrentPricePerMeter),
		Size(in.ApartmentSize) + " m²",
		Size(in.BalconySize) + " m²",
		Size(in.StorageSize) + " m²",
		fmt.Sprintf("%d", in.ParkingSpaces),
		in.AreaType.Title(),
		Percent(in.VATRate),
		Area(res.EffectiveArea) + " m²",
		s.MoneyWhole(res.FinalPrice),
		s.MoneyWhole(res.DiscountAmount),
	}

	rows := make([]Row, len(SummaryParameters))
	for i, p := range SummaryParameters {
		rows[i] = Row{Parameter: p, Value: values[i]}
	}
	return rows
}

// SummaryGrid lays out the summary of several entries side by side.
// The first row is the header: Parameter, then one column per entry.
func (s Style) SummaryGrid(entries []Entry) [][]string {
	header := []string{"Parameter"}
	if len(entries) == 1 {
		header = append(header, "Value")
	} else {
		for _, e := range entries {
			header = append(header, e.Name)
		}
	}

	columns := make([][]Row, len(entries))
	for j, e := range entries {
		columns[j] = s.SummaryRows(e.Result)
	}

	grid := [][]string{header}
	for i, p := range SummaryParameters {
		row := []string{p}
		for _, col := range columns {
			row = append(row, col[i].Value)
		}
		grid = append(grid, row)
	}
	return grid
}

// Section is a titled table of the detailed breakdown
type Section struct {
	Title   string     `json:"title"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// DetailSections returns the breakdown as three tables:
// prices per meter, area breakdown and price calculations
func (s Style) DetailSections(res *pricing.Result) []Section {
	in := res.Input
	b := res.Breakdown
	policy := pricing.DefaultPolicy()

	prices := Section{
		Title:   "Prices Per Meter",
		Headers: []string{"Type", "Value"},
		Rows: [][]string{
			{"Main Price (excl. VAT)", s.Money(b.Prices.MainExcludingVAT)},
			{"Main Price (incl. VAT)", s.Money(b.Prices.MainIncludingVAT)},
			{"Current Price (excl. VAT)", s.Money(b.Prices.CurrentExcludingVAT)},
			{"Current Price (incl. VAT)", s.Money(b.Prices.CurrentIncludingVAT)},
			{"VAT Rate", Percent(b.Prices.VATRate)},
		},
	}

	areas := Section{
		Title:   "Area Breakdown",
		Headers: []string{"Component", "Actual Size", "Weight", "Effective Size"},
		Rows: [][]string{
			{"Apartment", Size(in.ApartmentSize) + " m²", Percent(policy.ApartmentWeight), Area(b.Areas.Apartment) + " m²"},
			{"Balcony", Size(in.BalconySize) + " m²", Percent(policy.BalconyWeight), Area(b.Areas.Balcony) + " m²"},
			{"Storage", Size(in.StorageSize) + " m²", Percent(policy.StorageWeight), Area(b.Areas.Storage) + " m²"},
			{"Parking", fmt.Sprintf("%d spaces", in.ParkingSpaces), Percent(policy.ParkingWeight), Area(b.Areas.Parking) + " m²"},
			{"Total", "", "", Area(b.Areas.Total) + " m²"},
		},
	}

	calc := b.Calculations
	calculations := Section{
		Title:   "Price Calculations",
		Headers: []string{"Step", "Amount"},
		Rows: [][]string{
			{"Current Total Price", s.Money(calc.CurrentTotal)},
			{"Main Total Price", s.Money(calc.MainTotal)},
			{Percent(policy.MainPriceReduction) + " Discount Amount", s.Money(calc.MainPriceReduction)},
			{"Discounted Main Price", s.Money(calc.DiscountedMain)},
			{"Potential Discount", s.Money(calc.PotentialDiscount)},
			{"Max Allowed Discount", s.Money(calc.MaxDiscount)},
			{"Applied Discount", s.Money(res.DiscountAmount)},
			{"Discount Type", res.DiscountType.Label()},
		},
	}

	return []Section{prices, areas, calculations}
}

// Bar is one bar of a chart
type Bar struct {
	Label   string          `json:"label"`
	Value   decimal.Decimal `json:"value"`
	Display string          `json:"display"`
}

// Chart is a simple bar chart series
type Chart struct {
	Title string `json:"title"`
	Bars  []Bar  `json:"bars"`
}

// Share returns the bar value relative to the largest bar, in [0, 1]
func (c Chart) Share(i int) float64 {
	largest := decimal.Zero
	for _, b := range c.Bars {
		if b.Value.GreaterThan(largest) {
			largest = b.Value
		}
	}
	if !largest.IsPositive() || !c.Bars[i].Value.IsPositive() {
		return 0
	}
	return c.Bars[i].Value.Div(largest).InexactFloat64()
}

// PriceComparison charts current, main and final totals
func (s Style) PriceComparison(res *pricing.Result) Chart {
	calc := res.Breakdown.Calculations
	return Chart{
		Title: "Price Comparison",
		Bars: []Bar{
			{Label: "Current Price", Value: calc.CurrentTotal, Display: s.MoneyWhole(calc.CurrentTotal)},
			{Label: "Main Price", Value: calc.MainTotal, Display: s.MoneyWhole(calc.MainTotal)},
			{Label: "Final Price", Value: res.FinalPrice, Display: s.MoneyWhole(res.FinalPrice)},
		},
	}
}

// AreaComponents charts the effective area of each component
func AreaComponents(res *pricing.Result) Chart {
	a := res.Breakdown.Areas
	bar := func(label string, v decimal.Decimal) Bar {
		return Bar{Label: label, Value: v, Display: Area(v) + " m²"}
	}
	return Chart{
		Title: "Area Breakdown",
		Bars: []Bar{
			bar("Apartment", a.Apartment),
			bar("Balcony", a.Balcony),
			bar("Storage", a.Storage),
			bar("Parking", a.Parking),
		},
	}
}
