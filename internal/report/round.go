package report

import (
	"math"
	"strconv"
)

// Rounding is centralized here and applied exactly once, after summation.
// Currency units round half-away-from-zero to the nearest integer;
// percentages round half-away-from-zero at the requested decimal place.

func roundUnit(v float64) int64 {
	return int64(math.Round(v))
}

func roundPct(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}
