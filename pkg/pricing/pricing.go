// Package pricing converts wholesale day-ahead prices into the retail price a
// consumer pays.
package pricing

import "github.com/shopspring/decimal"

const (
	// EUR/MWh to c/kWh
	UnitFactor = 0.1
	// distribution margin, c/kWh
	Margin = 0.46
	// 25.5% VAT
	TaxFactor = 1.255

	// RetailDecimals is the precision retail prices are shown at.
	RetailDecimals = 1
)

// ToRetail maps a wholesale EUR/MWh price to c/kWh including margin and VAT.
// The margin is added before tax so tax applies to it too. nil stays nil.
func ToRetail(wholesale *float64) *float64 {
	if wholesale == nil {
		return nil
	}
	retail := (*wholesale*UnitFactor + Margin) * TaxFactor
	return &retail
}

// Round rounds half away from zero at the given number of decimals.
func Round(v float64, decimals int) float64 {
	rounded, _ := decimal.NewFromFloat(v).Round(int32(decimals)).Float64()
	return rounded
}

// Format renders v at a fixed number of decimals, rounding half away from zero.
func Format(v float64, decimals int) string {
	return decimal.NewFromFloat(v).StringFixed(int32(decimals))
}
