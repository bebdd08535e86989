package pricing

import (
	"github.com/shopspring/decimal"

	"dira-price/internal/errors"
)

// Default apartment parameters used when the caller supplies only prices
const (
	DefaultApartmentSize = 125
	DefaultBalconySize   = 12
	DefaultStorageSize   = 6
	DefaultParkingSpaces = 2
	DefaultAreaType      = AreaDemand
	DefaultVATPercent    = 18
)

// Limits on caller-supplied decimals. Values outside them would force
// arbitrarily large rescaling in decimal arithmetic.
const (
	MaxDecimalPlaces = 10
	MaxExponent      = 12
)

var maxMagnitude = decimal.New(1, MaxExponent)

// CheckDecimal rejects values with more than MaxDecimalPlaces fractional
// digits, an exponent above MaxExponent, or a magnitude above 1e12.
// The exponent is checked first so the magnitude comparison stays cheap.
func CheckDecimal(field string, d decimal.Decimal) error {
	exp := d.Exponent()
	if exp < -MaxDecimalPlaces {
		return errors.Newf(errors.TypeInput, "%s must have at most %d decimal places", field, MaxDecimalPlaces).
			WithContext("field", field)
	}
	if exp > MaxExponent || d.Abs().GreaterThan(maxMagnitude) {
		return errors.Newf(errors.TypeInput, "%s is out of range", field).
			WithContext("field", field)
	}
	return nil
}

// Input is a single pricing request. All prices exclude VAT.
type Input struct {
	// MainPricePerMeter is the regulated main price per m²
	MainPricePerMeter decimal.Decimal `json:"main_price_per_meter"`

	// CurrentPricePerMeter is the current market price per m²
	CurrentPricePerMeter decimal.Decimal `json:"current_price_per_meter"`

	// Sizes in m²
	ApartmentSize decimal.Decimal `json:"apartment_size"`
	BalconySize   decimal.Decimal `json:"balcony_size"`
	StorageSize   decimal.Decimal `json:"storage_size"`

	// ParkingSpaces is the number of parking spaces
	ParkingSpaces int `json:"parking_spaces"`

	// AreaType selects the discount cap
	AreaType AreaType `json:"area_type"`

	// VATRate is a fraction, e.g. 0.18
	VATRate decimal.Decimal `json:"vat_rate"`
}

// DefaultInput returns an input with the standard apartment and the given prices
func DefaultInput(mainPrice, currentPrice decimal.Decimal) Input {
	return Input{
		MainPricePerMeter:    mainPrice,
		CurrentPricePerMeter: currentPrice,
		ApartmentSize:        decimal.NewFromInt(DefaultApartmentSize),
		BalconySize:          decimal.NewFromInt(DefaultBalconySize),
		StorageSize:          decimal.NewFromInt(DefaultStorageSize),
		ParkingSpaces:        DefaultParkingSpaces,
		AreaType:             DefaultAreaType,
		VATRate:              VATRateFromPercent(decimal.NewFromInt(DefaultVATPercent)),
	}
}

// VATRateFromPercent converts a percentage (18) to a fraction (0.18)
func VATRateFromPercent(percent decimal.Decimal) decimal.Decimal {
	return percent.Div(decimal.NewFromInt(100))
}

// VATPercent returns the VAT rate as a percentage
func (in Input) VATPercent() decimal.Decimal {
	return in.VATRate.Mul(decimal.NewFromInt(100))
}

// Validate checks the input domain and returns the first violation found
func (in Input) Validate() error {
	if !in.MainPricePerMeter.IsPositive() || !in.CurrentPricePerMeter.IsPositive() {
		return errors.Input("prices must be positive numbers").
			WithContext("main_price_per_meter", in.MainPricePerMeter.String()).
			WithContext("current_price_per_meter", in.CurrentPricePerMeter.String())
	}
	if !in.ApartmentSize.IsPositive() {
		return errors.Input("apartment size must be positive").
			WithContext("apartment_size", in.ApartmentSize.String())
	}
	if in.BalconySize.IsNegative() {
		return errors.Input("balcony size cannot be negative").
			WithContext("balcony_size", in.BalconySize.String())
	}
	if in.StorageSize.IsNegative() {
		return errors.Input("storage size cannot be negative").
			WithContext("storage_size", in.StorageSize.String())
	}
	if in.ParkingSpaces < 0 {
		return errors.Input("parking spaces cannot be negative").
			WithContext("parking_spaces", in.ParkingSpaces)
	}
	if in.VATRate.IsNegative() {
		return errors.Input("VAT rate cannot be negative").
			WithContext("vat_rate", in.VATRate.String())
	}
	if !in.AreaType.Valid() {
		return errors.Input("area type must be 'demand' or 'periphery'").
			WithContext("area_type", string(in.AreaType))
	}
	return nil
}
