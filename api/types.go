// Package api - API types for price calculation
// These types define the contract for the /api/v1/calculate endpoint.
package api

import (
	"github.com/shopspring/decimal"

	"dira-price/core/output"
	"dira-price/core/pricing"
	"dira-price/internal/config"
	"dira-price/internal/errors"
)

// CalculateRequest is the input to POST /api/v1/calculate.
// Only the two prices are required; the rest falls back to the configured defaults.
type CalculateRequest struct {
	// Prices per m² excluding VAT
	MainPricePerMeter    *decimal.Decimal `json:"main_price_per_meter"`
	CurrentPricePerMeter *decimal.Decimal `json:"current_price_per_meter"`

	// Sizes in m²
	ApartmentSize *decimal.Decimal `json:"apartment_size,omitempty"`
	BalconySize   *decimal.Decimal `json:"balcony_size,omitempty"`
	StorageSize   *decimal.Decimal `json:"storage_size,omitempty"`

	ParkingSpaces *int    `json:"parking_spaces,omitempty"`
	AreaType      *string `json:"area_type,omitempty"`

	// VATRate is a fraction, e.g. 0.18
	VATRate *decimal.Decimal `json:"vat_rate,omitempty"`
}

// Input resolves the request against the defaults. Domain validation
// happens in pricing.Calculate.
func (r *CalculateRequest) Input(defaults config.DefaultsConfig) (pricing.Input, error) {
	if r.MainPricePerMeter == nil || r.CurrentPricePerMeter == nil {
		return pricing.Input{}, errors.Input("main_price_per_meter and current_price_per_meter are required")
	}
	if err := r.checkDecimals(); err != nil {
		return pricing.Input{}, err
	}

	if r.AreaType != nil {
		defaults.AreaType = *r.AreaType
	}
	in, err := defaults.Input(*r.MainPricePerMeter, *r.CurrentPricePerMeter)
	if err != nil {
		return pricing.Input{}, err
	}

	if r.ApartmentSize != nil {
		in.ApartmentSize = *r.ApartmentSize
	}
	if r.BalconySize != nil {
		in.BalconySize = *r.BalconySize
	}
	if r.StorageSize != nil {
		in.StorageSize = *r.StorageSize
	}
	if r.ParkingSpaces != nil {
		in.ParkingSpaces = *r.ParkingSpaces
	}
	if r.VATRate != nil {
		in.VATRate = *r.VATRate
	}
	return in, nil
}

// checkDecimals bounds every supplied decimal before any arithmetic runs
func (r *CalculateRequest) checkDecimals() error {
	for _, f := range []struct {
		name  string
		value *decimal.Decimal
	}{
		{"main_price_per_meter", r.MainPricePerMeter},
		{"current_price_per_meter", r.CurrentPricePerMeter},
		{"apartment_size", r.ApartmentSize},
		{"balcony_size", r.BalconySize},
		{"storage_size", r.StorageSize},
		{"vat_rate", r.VATRate},
	} {
		if f.value == nil {
			continue
		}
		if err := pricing.CheckDecimal(f.name, *f.value); err != nil {
			return err
		}
	}
	return nil
}

// CalculateResponse is the output of /api/v1/calculate
type CalculateResponse struct {
	RequestID string `json:"request_id"`

	// Result is the full calculation with its breakdown
	Result *pricing.Result `json:"result"`

	// Summary is the 11-row Parameter/Value export summary
	Summary []output.Row `json:"summary"`

	Metadata *ResponseMetadata `json:"metadata"`
}

// ResponseMetadata describes how a response was produced
type ResponseMetadata struct {
	// InputHash is the SHA-256 of the resolved input
	InputHash string `json:"input_hash"`

	Version    string `json:"version"`
	DurationMs int64  `json:"duration_ms"`
}

// ErrorResponse is the body of every JSON error
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries the error code and message
type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}
