// Package scenario loads named apartment scenarios from HCL files.
//
// A scenarios file holds an optional defaults block and one or more
// scenario blocks:
//
//	defaults {
//	  apartment_size = 110
//	  vat_percent    = 17
//	}
//
//	scenario "tel-aviv" {
//	  main_price    = 25000
//	  current_price = 23000
//	  area_type     = "demand"
//	}
//
// Attributes missing from a scenario fall back to the defaults block,
// then to the configured defaults.
package scenario

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/shopspring/decimal"

	"dira-price/core/pricing"
	"dira-price/internal/config"
	"dira-price/internal/errors"
)

// Scenario is one named apartment to price
type Scenario struct {
	Name  string
	Input pricing.Input
}

type fileSchema struct {
	Defaults  *defaultsBlock  `hcl:"defaults,block"`
	Scenarios []scenarioBlock `hcl:"scenario,block"`
}

type defaultsBlock struct {
	ApartmentSize *float64 `hcl:"apartment_size,optional"`
	BalconySize   *float64 `hcl:"balcony_size,optional"`
	StorageSize   *float64 `hcl:"storage_size,optional"`
	ParkingSpaces *int     `hcl:"parking_spaces,optional"`
	AreaType      *string  `hcl:"area_type,optional"`
	VATPercent    *float64 `hcl:"vat_percent,optional"`
}

type scenarioBlock struct {
	Name         string  `hcl:"name,label"`
	MainPrice    float64 `hcl:"main_price"`
	CurrentPrice float64 `hcl:"current_price"`

	ApartmentSize *float64 `hcl:"apartment_size,optional"`
	BalconySize   *float64 `hcl:"balcony_size,optional"`
	StorageSize   *float64 `hcl:"storage_size,optional"`
	ParkingSpaces *int     `hcl:"parking_spaces,optional"`
	AreaType      *string  `hcl:"area_type,optional"`
	VATPercent    *float64 `hcl:"vat_percent,optional"`
}

// Loader parses scenario files
type Loader struct {
	defaults config.DefaultsConfig
}

// NewLoader creates a loader that falls back to the given defaults
func NewLoader(defaults config.DefaultsConfig) *Loader {
	return &Loader{defaults: defaults}
}

// LoadFile reads and parses a scenarios file
func (l *Loader) LoadFile(path string) ([]Scenario, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Parsing("failed to read scenarios file", err).WithContext("path", path)
	}
	return l.Parse(src, path)
}

// Parse decodes scenarios from HCL source. Every scenario is validated;
// the first invalid one fails the whole file.
func (l *Loader) Parse(src []byte, filename string) ([]Scenario, error) {
	// hclparse caches by filename, so each call gets its own parser
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diagnosticsError(filename, diags)
	}

	var schema fileSchema
	if diags := gohcl.DecodeBody(file.Body, nil, &schema); diags.HasErrors() {
		return nil, diagnosticsError(filename, diags)
	}

	if len(schema.Scenarios) == 0 {
		return nil, errors.Parsing("no scenario blocks found", nil).WithContext("file", filename)
	}

	base := l.defaults
	if d := schema.Defaults; d != nil {
		base = merge(base, d.ApartmentSize, d.BalconySize, d.StorageSize, d.ParkingSpaces, d.AreaType, d.VATPercent)
	}

	seen := make(map[string]bool, len(schema.Scenarios))
	scenarios := make([]Scenario, 0, len(schema.Scenarios))
	for _, block := range schema.Scenarios {
		if seen[block.Name] {
			return nil, errors.Parsing("duplicate scenario name", nil).
				WithContext("file", filename).
				WithContext("scenario", block.Name)
		}
		seen[block.Name] = true

		in, err := l.input(base, block)
		if err != nil {
			if e, ok := errors.As(err); ok {
				return nil, e.WithContext("scenario", block.Name)
			}
			return nil, err
		}
		scenarios = append(scenarios, Scenario{Name: block.Name, Input: in})
	}
	return scenarios, nil
}

func (l *Loader) input(base config.DefaultsConfig, block scenarioBlock) (pricing.Input, error) {
	d := merge(base, block.ApartmentSize, block.BalconySize, block.StorageSize, block.ParkingSpaces, block.AreaType, block.VATPercent)

	in, err := d.Input(decimal.NewFromFloat(block.MainPrice), decimal.NewFromFloat(block.CurrentPrice))
	if err != nil {
		return pricing.Input{}, err
	}
	if err := in.Validate(); err != nil {
		return pricing.Input{}, err
	}
	return in, nil
}

// merge overrides the defaults with the attributes that were set
func merge(d config.DefaultsConfig, apartment, balcony, storage *float64, parking *int, area *string, vat *float64) config.DefaultsConfig {
	if apartment != nil {
		d.ApartmentSize = *apartment
	}
	if balcony != nil {
		d.BalconySize = *balcony
	}
	if storage != nil {
		d.StorageSize = *storage
	}
	if parking != nil {
		d.ParkingSpaces = *parking
	}
	if area != nil {
		d.AreaType = *area
	}
	if vat != nil {
		d.VATPercent = *vat
	}
	return d
}

func diagnosticsError(filename string, diags hcl.Diagnostics) error {
	var msgs []string
	for _, diag := range diags {
		if diag.Severity != hcl.DiagError {
			continue
		}
		line := 0
		if diag.Subject != nil {
			line = diag.Subject.Start.Line
		}
		msg := diag.Summary
		if diag.Detail != "" {
			msg += ": " + diag.Detail
		}
		msgs = append(msgs, fmt.Sprintf("line %d: %s", line, msg))
	}
	return errors.Parsing("invalid scenarios file", fmt.Errorf("%s", strings.Join(msgs, "; "))).
		WithContext("file", filename)
}
