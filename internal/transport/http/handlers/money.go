package handlers

import "math"

// Деньги храним в центах, наружу отдаём доллары.
func dollars(cents int64) float64 {
	return float64(cents) / 100
}

func cents(dollars float64) int64 {
	return int64(math.Round(dollars * 100))
}
