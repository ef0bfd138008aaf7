package accounting

import "github.com/shopspring/decimal"

const (
	MoneyPlaces    int32 = 2
	QuantityPlaces int32 = 4
	RatePlaces     int32 = 4
	FXPlaces       int32 = 6
)

// RoundMoney rounds half away from zero to 2 decimal places.
// Every monetary value stored by the engine passes through here.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// RoundQuantity rounds half away from zero to 4 decimal places.
func RoundQuantity(d decimal.Decimal) decimal.Decimal {
	return d.Round(QuantityPlaces)
}

// HasMaxPlaces reports whether d carries no more than the given number of fractional digits.
func HasMaxPlaces(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}

// LineGross is round2(quantity x unitPrice).
func LineGross(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return RoundMoney(quantity.Mul(unitPrice))
}
