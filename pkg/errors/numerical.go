package errors

import (
	"math"
)

// CheckFinite checks that values contain neither NaN nor Inf and returns a
// ValidationError naming the first offending position otherwise.
func CheckFinite(param string, values []float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NewValidationError(param, "contains non-finite values", map[string]interface{}{
				"index": i,
				"value": v,
			})
		}
	}
	return nil
}

// CheckScalar checks a single scalar parameter for NaN or Inf.
func CheckScalar(param string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return NewValidationError(param, "must be finite", value)
	}
	return nil
}

// SafeDivide performs division with protection against division by zero.
// Returns 0 if denominator is zero or close to zero.
func SafeDivide(numerator, denominator float64) float64 {
	if math.Abs(denominator) < 1e-10 {
		return 0
	}
	return numerator / denominator
}
