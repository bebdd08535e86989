package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dira-price/internal/errors"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.Truef(t, d(want).Equal(got), "%s: want %s, got %s", field, want, got.String())
}

// plainInput is a 100 m² apartment without extras or VAT
func plainInput(main, current int64) Input {
	return Input{
		MainPricePerMeter:    decimal.NewFromInt(main),
		CurrentPricePerMeter: decimal.NewFromInt(current),
		ApartmentSize:        decimal.NewFromInt(100),
		BalconySize:          decimal.Zero,
		StorageSize:          decimal.Zero,
		ParkingSpaces:        0,
		AreaType:             AreaDemand,
		VATRate:              decimal.Zero,
	}
}

// TestCalculate_DemandDefaults walks the documented default example step by step
func TestCalculate_DemandDefaults(t *testing.T) {
	res, err := Calculate(DefaultInput(d("25000"), d("23000")))
	require.NoError(t, err)

	assertDecimal(t, "135", res.EffectiveArea, "effective area")
	assertDecimal(t, "29500", res.Breakdown.Prices.MainIncludingVAT, "main with VAT")
	assertDecimal(t, "27140", res.Breakdown.Prices.CurrentIncludingVAT, "current with VAT")
	assertDecimal(t, "3982500", res.Breakdown.Calculations.MainTotal, "main total")
	assertDecimal(t, "3663900", res.Breakdown.Calculations.CurrentTotal, "current total")
	assertDecimal(t, "2986875", res.Breakdown.Calculations.DiscountedMain, "discounted main")
	assertDecimal(t, "995625", res.Breakdown.Calculations.MainPriceReduction, "25% reduction")
	assertDecimal(t, "677025", res.Breakdown.Calculations.PotentialDiscount, "potential discount")
	assertDecimal(t, "500000", res.Breakdown.Calculations.MaxDiscount, "max discount")

	assertDecimal(t, "3163900", res.FinalPrice, "final price")
	assertDecimal(t, "500000", res.DiscountAmount, "discount")
	assert.Equal(t, DiscountCapped, res.DiscountType)

	t.Logf("Final price: %s, discount: %s (%s)", res.FinalPrice, res.DiscountAmount, res.DiscountType.Label())
}

func TestCalculate_PeripheryDefaults(t *testing.T) {
	in := DefaultInput(d("25000"), d("23000"))
	in.AreaType = AreaPeriphery

	res, err := Calculate(in)
	require.NoError(t, err)

	assertDecimal(t, "600000", res.Breakdown.Calculations.MaxDiscount, "max discount")
	assertDecimal(t, "3063900", res.FinalPrice, "final price")
	assertDecimal(t, "600000", res.DiscountAmount, "discount")
	assert.Equal(t, DiscountCapped, res.DiscountType)
}

func TestCalculate_LargerGapUsesPercentDiscount(t *testing.T) {
	res, err := Calculate(DefaultInput(d("25000"), d("20000")))
	require.NoError(t, err)

	assertDecimal(t, "3186000", res.Breakdown.Calculations.CurrentTotal, "current total")
	assertDecimal(t, "199125", res.Breakdown.Calculations.PotentialDiscount, "potential discount")
	assertDecimal(t, "2986875", res.FinalPrice, "final price")
	assertDecimal(t, "199125", res.DiscountAmount, "discount")
	assert.Equal(t, DiscountPercent, res.DiscountType)
}

func TestCalculate_ZeroVAT(t *testing.T) {
	in := DefaultInput(d("25000"), d("23000"))
	in.VATRate = decimal.Zero

	res, err := Calculate(in)
	require.NoError(t, err)

	assert.True(t, res.Breakdown.Prices.MainIncludingVAT.Equal(in.MainPricePerMeter))
	assert.True(t, res.Breakdown.Prices.CurrentIncludingVAT.Equal(in.CurrentPricePerMeter))
}

func TestCalculate_MainPriceLimit(t *testing.T) {
	res, err := Calculate(DefaultInput(d("25000"), d("40000")))
	require.NoError(t, err)

	assertDecimal(t, "6372000", res.Breakdown.Calculations.CurrentTotal, "current total")
	assertDecimal(t, "3982500", res.FinalPrice, "final price")
	assertDecimal(t, "2389500", res.DiscountAmount, "discount")
	assert.Equal(t, DiscountMainPriceLimit, res.DiscountType)
}

// TestCalculate_TieSelectsMainPriceLimit covers a capped price exactly equal to the main total
func TestCalculate_TieSelectsMainPriceLimit(t *testing.T) {
	res, err := Calculate(plainInput(20000, 25000))
	require.NoError(t, err)

	assertDecimal(t, "2000000", res.Breakdown.Calculations.MainTotal, "main total")
	assertDecimal(t, "1000000", res.Breakdown.Calculations.PotentialDiscount, "potential discount")
	assertDecimal(t, "2000000", res.FinalPrice, "final price")
	assertDecimal(t, "500000", res.DiscountAmount, "discount")
	assert.Equal(t, DiscountMainPriceLimit, res.DiscountType)
}

func TestCalculate_CapBoundaryIsStrict(t *testing.T) {
	res, err := Calculate(plainInput(20000, 20000))
	require.NoError(t, err)

	assertDecimal(t, "500000", res.Breakdown.Calculations.PotentialDiscount, "potential discount")
	assert.Equal(t, DiscountPercent, res.DiscountType, "potential == cap must not be capped")
	assertDecimal(t, "1500000", res.FinalPrice, "final price")
	assertDecimal(t, "500000", res.DiscountAmount, "discount")
}

func TestCalculate_NegativeDiscount(t *testing.T) {
	res, err := Calculate(DefaultInput(d("25000"), d("15000")))
	require.NoError(t, err)

	assert.Equal(t, DiscountPercent, res.DiscountType)
	assertDecimal(t, "-597375", res.DiscountAmount, "discount")
	assertDecimal(t, "2986875", res.FinalPrice, "final price")
	assert.False(t, res.HasDiscount())
}

func TestCalculate_DiscountPercent(t *testing.T) {
	res, err := Calculate(DefaultInput(d("25000"), d("20000")))
	require.NoError(t, err)

	// 199125 / 3186000 = 6.25%
	assertDecimal(t, "6.25", res.DiscountPercent(), "discount percent")
}

func TestCalculate_Properties(t *testing.T) {
	prices := []int64{5000, 12000, 20000, 25000, 31000, 60000}
	sizes := []string{"30", "87.5", "125", "300"}
	balconies := []string{"0", "7.5", "12"}
	vats := []string{"0", "0.17", "0.18"}

	for _, main := range prices {
		for _, current := range prices {
			for _, size := range sizes {
				for _, balcony := range balconies {
					for _, vat := range vats {
						for parking := 0; parking <= 3; parking++ {
							for _, area := range AreaTypes {
								in := Input{
									MainPricePerMeter:    decimal.NewFromInt(main),
									CurrentPricePerMeter: decimal.NewFromInt(current),
									ApartmentSize:        d(size),
									BalconySize:          d(balcony),
									StorageSize:          d("6"),
									ParkingSpaces:        parking,
									AreaType:             area,
									VATRate:              d(vat),
								}
								res, err := Calculate(in)
								require.NoError(t, err)

								wantArea := d(size).
									Add(d(balcony).Mul(d("0.3"))).
									Add(d("6").Mul(d("0.4"))).
									Add(decimal.NewFromInt(int64(parking) * 2))
								require.True(t, wantArea.Equal(res.EffectiveArea), "effective area %s != %s", res.EffectiveArea, wantArea)

								require.True(t, res.FinalPrice.LessThanOrEqual(res.Breakdown.Calculations.MainTotal),
									"final price %s exceeds main total %s", res.FinalPrice, res.Breakdown.Calculations.MainTotal)

								require.Contains(t, []DiscountType{DiscountCapped, DiscountPercent, DiscountMainPriceLimit}, res.DiscountType)

								again, err := Calculate(in)
								require.NoError(t, err)
								require.Equal(t, res, again)
							}
						}
					}
				}
			}
		}
	}
}

func TestCalculate_RejectsInvalidInput(t *testing.T) {
	valid := DefaultInput(d("25000"), d("23000"))

	tests := []struct {
		name   string
		mutate func(in *Input)
	}{
		{"zero main price", func(in *Input) { in.MainPricePerMeter = decimal.Zero }},
		{"negative current price", func(in *Input) { in.CurrentPricePerMeter = d("-1") }},
		{"zero apartment", func(in *Input) { in.ApartmentSize = decimal.Zero }},
		{"negative balcony", func(in *Input) { in.BalconySize = d("-2") }},
		{"negative storage", func(in *Input) { in.StorageSize = d("-0.5") }},
		{"negative parking", func(in *Input) { in.ParkingSpaces = -1 }},
		{"negative VAT", func(in *Input) { in.VATRate = d("-0.01") }},
		{"unknown area", func(in *Input) { in.AreaType = "center" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)

			res, err := Calculate(in)
			assert.Nil(t, res)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.TypeInput), "expected input error, got %v", err)
		})
	}
}

func TestCheckDecimal(t *testing.T) {
	tests := []struct {
		value   string
		wantErr string
	}{
		{"25000", ""},
		{"0.18", ""},
		{"12.5", ""},
		{"0.0000000001", ""},
		{"1000000000000", ""},
		{"0", ""},
		{"0.00000000001", "at most 10 decimal places"},
		{"1e-20000000", "at most 10 decimal places"},
		{"1000000000001", "out of range"},
		{"-1000000000001", "out of range"},
		{"1e20000000", "out of range"},
		{"0e20000000", "out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			err := CheckDecimal("apartment_size", d(tt.value))
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.TypeInput))
			assert.Contains(t, err.Error(), "apartment_size "+tt.wantErr)
		})
	}
}
