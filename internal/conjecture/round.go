package conjecture

import (
	"math"
	"math/big"
)

// intTol is the shared near-integer acceptance tolerance: a fitted floating
// coefficient is only accepted if it lies within this distance of an integer.
// This encodes the simplicity prior that real conjectures have exactly
// integer coefficients; anything else is discarded, not reported as an error.
const intTol = 1e-9

// nearInteger reports whether c is within intTol of its nearest integer.
// Non-finite values never qualify.
func nearInteger(c float64) bool {
	if math.IsNaN(c) || math.IsInf(c, 0) {
		return false
	}
	return math.Abs(c-math.Round(c)) < intTol
}

// allNearInteger reports whether every coefficient passes nearInteger.
func allNearInteger(coeffs []float64) bool {
	for _, c := range coeffs {
		if !nearInteger(c) {
			return false
		}
	}
	return true
}

// roundCoeffs rounds accepted floating coefficients to exact integers.
// Callers must have gated on allNearInteger first.
func roundCoeffs(coeffs []float64) []*big.Int {
	out := make([]*big.Int, len(coeffs))
	for i, c := range coeffs {
		out[i] = big.NewInt(int64(math.Round(c)))
	}
	return out
}

// evalPoly evaluates a polynomial with big-integer coefficients (highest
// degree first) at integer n, by Horner's rule. Exact for any magnitude.
func evalPoly(coeffs []*big.Int, n int64) *big.Int {
	x := big.NewInt(n)
	v := new(big.Int)
	for _, c := range coeffs {
		v.Mul(v, x)
		v.Add(v, c)
	}
	return v
}
