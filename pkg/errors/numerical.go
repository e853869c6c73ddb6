package errors

import (
	"math"
)

// CheckFinite checks if values contain NaN or Inf and returns a ValueError
// if so. Case weights and explicit grid points must be finite; predictions
// are deliberately not checked since NaN predictions surface as NaN cells
// in the result table.
func CheckFinite(operation string, values []float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NewValueError(operation, "values must be finite (no NaN or Inf)")
		}
	}
	return nil
}

// CheckNonNegative checks that all values are >= 0.
// Used for case weight columns.
func CheckNonNegative(operation string, values []float64) error {
	for _, v := range values {
		if v < 0 || math.IsNaN(v) {
			return NewValueError(operation, "values must be non-negative")
		}
	}
	return nil
}

// SafeDivide performs division returning NaN when the denominator is zero.
// Degenerate aggregates (all-zero weights, empty groups) become NaN cells,
// never errors.
func SafeDivide(numerator, denominator float64) float64 {
	if denominator == 0 {
		return math.NaN()
	}
	return numerator / denominator
}
