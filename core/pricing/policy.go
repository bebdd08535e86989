// Package pricing implements the "Dira Behanaha" discounted apartment price.
// The calculation is pure: every call is independent and deterministic.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"dira-price/internal/errors"
)

// AreaType is the regulatory zone of the project
type AreaType string

const (
	// AreaDemand is a high-demand zone (lower discount cap)
	AreaDemand AreaType = "demand"

	// AreaPeriphery is a periphery zone (higher discount cap)
	AreaPeriphery AreaType = "periphery"
)

// AreaTypes lists every supported zone in display order
var AreaTypes = []AreaType{AreaDemand, AreaPeriphery}

// ParseAreaType parses a zone name, case-insensitively
func ParseAreaType(s string) (AreaType, error) {
	switch AreaType(strings.ToLower(strings.TrimSpace(s))) {
	case AreaDemand:
		return AreaDemand, nil
	case AreaPeriphery:
		return AreaPeriphery, nil
	}
	return "", errors.Input("area type must be 'demand' or 'periphery'").WithContext("area_type", s)
}

// Valid reports whether the zone is known
func (a AreaType) Valid() bool {
	return a == AreaDemand || a == AreaPeriphery
}

// Title returns the capitalized zone name
func (a AreaType) Title() string {
	if a == "" {
		return ""
	}
	return strings.ToUpper(string(a[:1])) + string(a[1:])
}

// DiscountType tells which branch of the formula produced the final price
type DiscountType string

const (
	// DiscountCapped means the discount hit the zone cap
	DiscountCapped DiscountType = "capped"

	// DiscountPercent means the 25% reduction of the main price applied
	DiscountPercent DiscountType = "percent"

	// DiscountMainPriceLimit means the final price was bounded by the main total
	DiscountMainPriceLimit DiscountType = "main_price_limit"
)

// Label returns the human-readable name of the discount type
func (d DiscountType) Label() string {
	switch d {
	case DiscountCapped:
		return "Capped at Maximum"
	case DiscountPercent:
		return "25% Discount Applied"
	case DiscountMainPriceLimit:
		return "Limited by Main Price"
	}
	return string(d)
}

// Policy holds the constants of the subsidy formula.
// Only DefaultPolicy is used by Calculate; the caps are not a tunable.
type Policy struct {
	// MainPriceReduction is the share taken off the main total (0.25)
	MainPriceReduction decimal.Decimal

	// Area weights applied to each component of the apartment
	ApartmentWeight decimal.Decimal
	BalconyWeight   decimal.Decimal
	StorageWeight   decimal.Decimal
	ParkingWeight   decimal.Decimal // per parking space

	// Discount caps per zone, in currency units
	DemandCap    decimal.Decimal
	PeripheryCap decimal.Decimal
}

// DefaultPolicy returns the statutory formula constants
func DefaultPolicy() Policy {
	return Policy{
		MainPriceReduction: decimal.RequireFromString("0.25"),
		ApartmentWeight:    decimal.NewFromInt(1),
		BalconyWeight:      decimal.RequireFromString("0.3"),
		StorageWeight:      decimal.RequireFromString("0.4"),
		ParkingWeight:      decimal.NewFromInt(2),
		DemandCap:          decimal.NewFromInt(500000),
		PeripheryCap:       decimal.NewFromInt(600000),
	}
}

// MaxDiscount returns the discount cap for a zone
func (p Policy) MaxDiscount(area AreaType) decimal.Decimal {
	if area == AreaPeriphery {
		return p.PeripheryCap
	}
	return p.DemandCap
}

// MainPriceFactor is the multiplier that produces the discounted main price
func (p Policy) MainPriceFactor() decimal.Decimal {
	return decimal.NewFromInt(1).Sub(p.MainPriceReduction)
}
