package utils

import "math"

// Rounding is half-up, so 2.25 -> 2.3 and -2.5 -> -2.

func RoundToOneDecimal(value float64) float64 {
	return math.Floor(value*10+0.5) / 10
}

func RoundToTwoDecimals(value float64) float64 {
	return math.Floor(value*100+0.5) / 100
}

func RoundToInt(value float64) int {
	return int(math.Floor(value + 0.5))
}

// Percentage returns round(part/total*100), or 0 for an empty total.
func Percentage(part, total int) int {
	if total <= 0 {
		return 0
	}
	return RoundToInt(float64(part) / float64(total) * 100)
}
