// Package pricing derives the peso prices shown at the counter from a
// stock item's USD cost and the current exchange rate.
package pricing

import "math"

// CardSurcharge is the markup applied to the cash price when the
// customer pays by card.
const CardSurcharge = 1.15

// RoundDown100 rounds a peso amount down to the nearest 100. Prices are
// always quoted in whole hundreds.
func RoundDown100(v float64) float64 {
	return math.Floor(v/100) * 100
}

// CashPrice converts a USD cost into the rounded peso cash price.
func CashPrice(precioUSD, rate float64) float64 {
	return RoundDown100(precioUSD * rate)
}

// CardPrice applies the card surcharge on top of a cash price and
// rounds again.
func CardPrice(cashPrice float64) float64 {
	return RoundDown100(cashPrice * CardSurcharge)
}
