package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"dira-price/core/pricing"
	"dira-price/internal/config"
	"dira-price/internal/errors"
)

// Dashboard defaults for the two prices
const (
	defaultMainPrice    = 25000
	defaultCurrentPrice = 23000
)

// formValues are the dashboard fields as typed by the user
type formValues struct {
	MainPrice     string
	CurrentPrice  string
	ApartmentSize string
	BalconySize   string
	StorageSize   string
	ParkingSpaces string
	AreaType      string
	VATPercent    string
}

// field is one numeric dashboard input and its allowed range
type field struct {
	key      string
	label    string
	min, max float64
	integer  bool
	value    func(*formValues) *string
}

var fields = []field{
	{key: "main_price", label: "Main price per m²", min: 1000, max: 100000, value: func(f *formValues) *string { return &f.MainPrice }},
	{key: "current_price", label: "Current price per m²", min: 1000, max: 100000, value: func(f *formValues) *string { return &f.CurrentPrice }},
	{key: "apartment_size", label: "Apartment size", min: 30, max: 300, value: func(f *formValues) *string { return &f.ApartmentSize }},
	{key: "balcony_size", label: "Balcony size", min: 0, max: 50, value: func(f *formValues) *string { return &f.BalconySize }},
	{key: "storage_size", label: "Storage size", min: 0, max: 20, value: func(f *formValues) *string { return &f.StorageSize }},
	{key: "parking_spaces", label: "Parking spaces", min: 0, max: 4, integer: true, value: func(f *formValues) *string { return &f.ParkingSpaces }},
	{key: "vat_percent", label: "VAT rate", min: 0, max: 25, value: func(f *formValues) *string { return &f.VATPercent }},
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// defaultForm fills the dashboard from the configured defaults
func defaultForm(d config.DefaultsConfig) formValues {
	return formValues{
		MainPrice:     formatFloat(defaultMainPrice),
		CurrentPrice:  formatFloat(defaultCurrentPrice),
		ApartmentSize: formatFloat(d.ApartmentSize),
		BalconySize:   formatFloat(d.BalconySize),
		StorageSize:   formatFloat(d.StorageSize),
		ParkingSpaces: strconv.Itoa(d.ParkingSpaces),
		AreaType:      d.AreaType,
		VATPercent:    formatFloat(d.VATPercent),
	}
}

// readForm overlays the query parameters that are present on the defaults
func readForm(q url.Values, d config.DefaultsConfig) formValues {
	form := defaultForm(d)
	for _, f := range fields {
		if v, ok := q[f.key]; ok && len(v) > 0 {
			*f.value(&form) = strings.TrimSpace(v[0])
		}
	}
	if v := q.Get("area_type"); v != "" {
		form.AreaType = v
		// Keep the select in sync with the area that is priced
		if area, err := pricing.ParseAreaType(v); err == nil {
			form.AreaType = string(area)
		}
	}
	return form
}

// query encodes the form for export links
func (f formValues) query() url.Values {
	q := url.Values{}
	for _, fd := range fields {
		q.Set(fd.key, *fd.value(&f))
	}
	q.Set("area_type", f.AreaType)
	return q
}

// input parses the form and checks the dashboard ranges, then the domain rules
func (f formValues) input() (pricing.Input, error) {
	parsed := make(map[string]decimal.Decimal, len(fields))
	for _, fd := range fields {
		raw := *fd.value(&f)
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return pricing.Input{}, errors.Input(fd.label + " must be a number").WithContext(fd.key, raw)
		}
		if err := pricing.CheckDecimal(fd.label, v); err != nil {
			return pricing.Input{}, err
		}
		if fd.integer && !v.Equal(v.Truncate(0)) {
			return pricing.Input{}, errors.Input(fd.label + " must be a whole number").WithContext(fd.key, raw)
		}
		if v.LessThan(decimal.NewFromFloat(fd.min)) || v.GreaterThan(decimal.NewFromFloat(fd.max)) {
			return pricing.Input{}, errors.Input(fmt.Sprintf("%s must be between %s and %s",
				fd.label, formatFloat(fd.min), formatFloat(fd.max))).WithContext(fd.key, raw)
		}
		parsed[fd.key] = v
	}

	area, err := pricing.ParseAreaType(f.AreaType)
	if err != nil {
		return pricing.Input{}, err
	}

	in := pricing.Input{
		MainPricePerMeter:    parsed["main_price"],
		CurrentPricePerMeter: parsed["current_price"],
		ApartmentSize:        parsed["apartment_size"],
		BalconySize:          parsed["balcony_size"],
		StorageSize:          parsed["storage_size"],
		ParkingSpaces:        int(parsed["parking_spaces"].IntPart()),
		AreaType:             area,
		VATRate:              pricing.VATRateFromPercent(parsed["vat_percent"]),
	}
	if err := in.Validate(); err != nil {
		return pricing.Input{}, err
	}
	return in, nil
}

// queryRequest binds GET /api/v1/calculate parameters to a request
func queryRequest(q url.Values) (*CalculateRequest, error) {
	req := &CalculateRequest{}

	decimals := []struct {
		key string
		dst **decimal.Decimal
	}{
		{"main_price_per_meter", &req.MainPricePerMeter},
		{"current_price_per_meter", &req.CurrentPricePerMeter},
		{"apartment_size", &req.ApartmentSize},
		{"balcony_size", &req.BalconySize},
		{"storage_size", &req.StorageSize},
		{"vat_rate", &req.VATRate},
	}
	for _, p := range decimals {
		raw := q.Get(p.key)
		if raw == "" {
			continue
		}
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, errors.Input(p.key + " must be a number").WithContext(p.key, raw)
		}
		*p.dst = &v
	}

	if raw := q.Get("parking_spaces"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.Input("parking_spaces must be a whole number").WithContext("parking_spaces", raw)
		}
		req.ParkingSpaces = &n
	}
	if raw := q.Get("area_type"); raw != "" {
		req.AreaType = &raw
	}
	return req, nil
}
