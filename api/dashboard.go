package api

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"dira-price/core/output"
	"dira-price/core/pricing"
	"dira-price/internal/errors"
)

//go:embed templates/dashboard.html
var dashboardHTML string

var dashboardTemplate = template.Must(template.New("dashboard").Parse(dashboardHTML))

// Bar chart geometry in SVG user units
const (
	chartLabelWidth = 120
	chartBarWidth   = 360
	chartRowHeight  = 34
	chartBarHeight  = 22
)

type dashboardPage struct {
	Version   string
	Form      formValues
	AreaTypes []areaOption
	Error     string
	Result    *dashboardResult
}

type areaOption struct {
	Value    string
	Label    string
	Selected bool
}

type dashboardResult struct {
	FinalPrice      string
	EffectiveArea   string
	AreaDelta       string
	Discount        string
	DiscountPercent string
	DiscountType    string
	HasDiscount     bool

	Charts   []chartView
	Sections []output.Section
	Summary  []output.Row

	ExportCSV  template.URL
	ExportXLSX template.URL
}

type chartView struct {
	Title  string
	Width  int
	Height int
	Bars   []barView
}

type barView struct {
	Label   string
	Display string
	X       int
	Y       int
	TextY   int
	Width   int
	Height  int
	ValueX  int
}

// handleDashboard handles GET /. Invalid input is shown inline with status 200.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	form := readForm(r.URL.Query(), s.cfg.Defaults)
	page := dashboardPage{
		Version:   s.version,
		Form:      form,
		AreaTypes: areaOptions(form.AreaType),
	}

	in, err := form.input()
	if err == nil {
		var res *pricing.Result
		if res, err = s.calculate(r.Context(), in); err == nil {
			page.Result = s.dashboardResult(form, res)
		}
	}
	if err != nil {
		page.Error = "Error in calculation: " + userMessage(err)
	}

	var buf bytes.Buffer
	if err := dashboardTemplate.Execute(&buf, page); err != nil {
		s.logger.Error("dashboard render failed", zap.Error(err))
		s.writeError(w, r, errors.Internal("failed to render dashboard", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (s *Server) dashboardResult(form formValues, res *pricing.Result) *dashboardResult {
	effective := res.EffectiveArea
	delta := effective.Sub(res.Input.ApartmentSize)
	sign := "+"
	if delta.IsNegative() {
		sign = ""
	}

	query := form.query().Encode()
	return &dashboardResult{
		FinalPrice:      s.style.MoneyWhole(res.FinalPrice),
		EffectiveArea:   output.Area(effective) + " m²",
		AreaDelta:       sign + output.Area(delta) + " m² vs apartment",
		Discount:        s.style.MoneyWhole(res.DiscountAmount),
		DiscountPercent: res.DiscountPercent().Round(1).StringFixed(1) + "% of current price",
		DiscountType:    res.DiscountType.Label(),
		HasDiscount:     res.HasDiscount(),
		Charts: []chartView{
			chart(s.style.PriceComparison(res)),
			chart(output.AreaComponents(res)),
		},
		Sections:   s.style.DetailSections(res),
		Summary:    s.style.SummaryRows(res),
		ExportCSV:  template.URL("/export.csv?" + query),
		ExportXLSX: template.URL("/export.xlsx?" + query),
	}
}

// chart lays out horizontal bars scaled to the largest value
func chart(c output.Chart) chartView {
	view := chartView{
		Title:  c.Title,
		Width:  chartLabelWidth + chartBarWidth + 140,
		Height: len(c.Bars) * chartRowHeight,
	}
	for i, b := range c.Bars {
		y := i * chartRowHeight
		width := int(c.Share(i) * chartBarWidth)
		view.Bars = append(view.Bars, barView{
			Label:   b.Label,
			Display: b.Display,
			X:       chartLabelWidth,
			Y:       y,
			TextY:   y + chartBarHeight/2 + 5,
			Width:   width,
			Height:  chartBarHeight,
			ValueX:  chartLabelWidth + width + 8,
		})
	}
	return view
}

func areaOptions(selected string) []areaOption {
	opts := make([]areaOption, len(pricing.AreaTypes))
	for i, a := range pricing.AreaTypes {
		opts[i] = areaOption{Value: string(a), Label: a.Title(), Selected: string(a) == selected}
	}
	return opts
}

// userMessage hides internal details of unexpected errors
func userMessage(err error) string {
	if errors.IsType(err, errors.TypeInput) {
		e, _ := errors.As(err)
		return e.Message
	}
	return "error during calculation"
}
