package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"dira-price/internal/errors"
)

// Result is the outcome of one pricing call
type Result struct {
	// Input echoes the request
	Input Input `json:"input"`

	// FinalPrice is the VAT-inclusive price the buyer pays
	FinalPrice decimal.Decimal `json:"final_price_including_vat"`

	// DiscountAmount is current total minus final price for the chosen branch.
	// It can be zero or negative when the current price is already low.
	DiscountAmount decimal.Decimal `json:"discount_amount"`

	// EffectiveArea is the weighted area in m²
	EffectiveArea decimal.Decimal `json:"effective_area"`

	// DiscountType is the branch that produced FinalPrice
	DiscountType DiscountType `json:"discount_type"`

	// Breakdown holds the intermediate values for reporting
	Breakdown Breakdown `json:"calculation_details"`
}

// Breakdown contains every intermediate value of the formula
type Breakdown struct {
	Prices       PricesPerMeter    `json:"prices_per_meter"`
	Areas        AreaBreakdown     `json:"area_breakdown"`
	Calculations PriceCalculations `json:"price_calculations"`
}

// PricesPerMeter shows unit prices with and without VAT
type PricesPerMeter struct {
	MainExcludingVAT    decimal.Decimal `json:"main_excluding_vat"`
	MainIncludingVAT    decimal.Decimal `json:"main_including_vat"`
	CurrentExcludingVAT decimal.Decimal `json:"current_excluding_vat"`
	CurrentIncludingVAT decimal.Decimal `json:"current_including_vat"`
	VATRate             decimal.Decimal `json:"vat_rate"`
}

// AreaBreakdown shows the effective m² contributed by each component
type AreaBreakdown struct {
	Apartment decimal.Decimal `json:"apartment"`
	Balcony   decimal.Decimal `json:"balcony"`
	Storage   decimal.Decimal `json:"storage"`
	Parking   decimal.Decimal `json:"parking"`
	Total     decimal.Decimal `json:"total_effective_area"`
}

// PriceCalculations shows totals and discount figures
type PriceCalculations struct {
	MainTotal          decimal.Decimal `json:"main_total_price"`
	CurrentTotal       decimal.Decimal `json:"current_total_price"`
	MainPriceReduction decimal.Decimal `json:"discount_25_percent"`
	DiscountedMain     decimal.Decimal `json:"discounted_main_price"`
	PotentialDiscount  decimal.Decimal `json:"potential_discount"`
	MaxDiscount        decimal.Decimal `json:"max_allowed_discount"`
}

// HasDiscount reports whether the buyer pays less than the current total
func (r *Result) HasDiscount() bool {
	return r.DiscountAmount.IsPositive()
}

// DiscountPercent returns the discount as a percentage of the current total
func (r *Result) DiscountPercent() decimal.Decimal {
	total := r.Breakdown.Calculations.CurrentTotal
	if total.IsZero() {
		return decimal.Zero
	}
	return r.DiscountAmount.Div(total).Mul(decimal.NewFromInt(100))
}

// Calculate prices an apartment with the statutory policy.
// Invalid input is rejected before any value is computed.
func Calculate(in Input) (res *Result, err error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = errors.Computation("error during calculation", fmt.Errorf("%v", r))
		}
	}()

	return DefaultPolicy().apply(in), nil
}

// apply runs the formula. Input must already be valid.
func (p Policy) apply(in Input) *Result {
	one := decimal.NewFromInt(1)

	// Unit prices with VAT
	vatFactor := one.Add(in.VATRate)
	mainWithVAT := in.MainPricePerMeter.Mul(vatFactor)
	currentWithVAT := in.CurrentPricePerMeter.Mul(vatFactor)

	// Effective area
	areas := AreaBreakdown{
		Apartment: in.ApartmentSize.Mul(p.ApartmentWeight),
		Balcony:   in.BalconySize.Mul(p.BalconyWeight),
		Storage:   in.StorageSize.Mul(p.StorageWeight),
		Parking:   decimal.NewFromInt(int64(in.ParkingSpaces)).Mul(p.ParkingWeight),
	}
	areas.Total = areas.Apartment.Add(areas.Balcony).Add(areas.Storage).Add(areas.Parking)

	mainTotal := mainWithVAT.Mul(areas.Total)
	currentTotal := currentWithVAT.Mul(areas.Total)

	discountedMain := mainTotal.Mul(p.MainPriceFactor())
	potential := currentTotal.Sub(discountedMain)
	maxDiscount := p.MaxDiscount(in.AreaType)

	var finalDiscounted, discount decimal.Decimal
	var kind DiscountType
	if potential.GreaterThan(maxDiscount) {
		finalDiscounted = currentTotal.Sub(maxDiscount)
		discount = maxDiscount
		kind = DiscountCapped
	} else {
		finalDiscounted = discountedMain
		discount = potential
		kind = DiscountPercent
	}

	// The main total bounds the price from above. Ties select the main
	// total, so the branch is tracked rather than re-compared afterwards.
	finalPrice := finalDiscounted
	if !finalDiscounted.LessThan(mainTotal) {
		finalPrice = mainTotal
		discount = currentTotal.Sub(mainTotal)
		kind = DiscountMainPriceLimit
	}

	return &Result{
		Input:          in,
		FinalPrice:     finalPrice,
		DiscountAmount: discount,
		EffectiveArea:  areas.Total,
		DiscountType:   kind,
		Breakdown: Breakdown{
			Prices: PricesPerMeter{
				MainExcludingVAT:    in.MainPricePerMeter,
				MainIncludingVAT:    mainWithVAT,
				CurrentExcludingVAT: in.CurrentPricePerMeter,
				CurrentIncludingVAT: currentWithVAT,
				VATRate:             in.VATRate,
			},
			Areas: areas,
			Calculations: PriceCalculations{
				MainTotal:          mainTotal,
				CurrentTotal:       currentTotal,
				MainPriceReduction: mainTotal.Mul(p.MainPriceReduction),
				DiscountedMain:     discountedMain,
				PotentialDiscount:  potential,
				MaxDiscount:        maxDiscount,
			},
		},
	}
}
