package models

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// FinalPrice returns round(price - price*discount/100).
func FinalPrice(price, discount float64) float64 {
	p := decimal.NewFromFloat(price)
	off := p.Mul(decimal.NewFromFloat(discount)).Div(hundred)
	return p.Sub(off).Round(0).InexactFloat64()
}

// RoundRating rounds an average rating to one decimal place, halves away from zero.
func RoundRating(avg float64) float64 {
	return decimal.NewFromFloat(avg).Round(1).InexactFloat64()
}
