package conjecture

import (
	"fmt"
	"math/big"

	"gonum.org/v1/gonum/mat"

	"conjecturer/internal/logging"
	"conjecturer/internal/sequence"
)

// residualTol is the least-squares residual gate for the rational fit. The
// value is empirically chosen; see the package tests for the accepted shapes.
const residualTol = 1e-5

// ratVerifyTol is the verification tolerance for the rational family: 1e-9 as
// an exact rational, so the comparison stays deterministic. This family alone
// verifies within a tolerance rather than exact equality, because true
// rational values require division.
var ratVerifyTol = big.NewRat(1, 1_000_000_000)

// TestRational tests whether a(n) = P(n)/Q(n) for polynomials P, Q with
// integer coefficients. The search runs numerator degree p = 0..maxDeg
// (outer) and denominator degree q = 1..maxDeg (inner), both ascending, so
// the minimal (p,q) pair wins. The denominator must be at least linear to be
// a genuine rational form, and its constant coefficient is fixed to 1 for
// identifiability. Each candidate comes from an over-determined least-squares
// solve of a(n)·Q(n) − P(n) = 0 over a few extra sample points, gated on
// residual, near-integer coefficients and a nonzero denominator across the
// whole index range.
//
// The id parameter is used for logging only.
func TestRational(seq sequence.Sequence, id string, bounds Bounds) Result {
	n := seq.Len()

	vals, ok := seq.Float64s(n)
	if !ok {
		logging.EngineWarn("sequence %s contains terms too large for rational fitting; skipping", id)
		return failed()
	}

	// For degrees (p, q) the fit needs p+q+2 points; clamp the degree
	// ceiling for short sequences.
	maxDeg := bounds.MaxRationalDegree
	if n < 2*maxDeg+2 {
		maxDeg = (n - 2) / 2
	}
	if maxDeg < 0 {
		return failed()
	}

	for p := 0; p <= maxDeg; p++ {
		for q := 1; q <= maxDeg; q++ {
			unknowns := p + q + 2
			if n < unknowns {
				continue
			}

			coeffs, ok := rationalFit(vals, p, q)
			if !ok {
				continue
			}
			if !allNearInteger(coeffs) {
				continue
			}
			rounded := roundCoeffs(coeffs)

			// Numerator coefficients n^p..n^0, then denominator n^q..n^1
			// with the fixed constant 1 appended.
			num := rounded[:p+1]
			den := append(append([]*big.Int{}, rounded[p+1:]...), big.NewInt(1))

			f := Rational{Num: num, Den: den}
			if !verifyRational(seq, f) {
				continue
			}

			logging.Engine("verified rational conjecture for %s: P deg %d / Q deg %d", id, p, q)
			return verified(f, p, fmt.Sprintf(
				"Rational function with P(n) of degree %d and Q(n) of degree %d", p, q))
		}
	}
	return failed()
}

// rationalFit solves the linear system encoding a(n)·Q(n) − P(n) = 0 with
// q_0 fixed to 1, by least squares over min(n, p+q+4) sample points. Columns
// are the p+1 numerator coefficients (n^p..n^0) followed by the q denominator
// coefficients (n^q..n^1); the right-hand side a(n) corresponds to the fixed
// constant denominator coefficient. Returns false on a degenerate solve or a
// residual above the gate.
func rationalFit(vals []float64, p, q int) ([]float64, bool) {
	unknowns := p + q + 1
	points := len(vals)
	if points > p+q+4 {
		points = p + q + 4 // a couple of extra rows for robustness
	}

	m := mat.NewDense(points, unknowns, nil)
	b := mat.NewVecDense(points, nil)
	for i := 0; i < points; i++ {
		x := float64(i + 1)
		an := vals[i]

		pow := 1.0
		// zeroth power in the last numerator column, so fill backwards
		for k := 0; k <= p; k++ {
			m.Set(i, p-k, pow)
			pow *= x
		}
		pow = x
		for k := 1; k <= q; k++ {
			m.Set(i, p+1+q-k, -an*pow)
			pow *= x
		}
		b.SetVec(i, an)
	}

	var sol mat.VecDense
	if err := sol.SolveVec(m, b); err != nil {
		if _, isCond := err.(mat.Condition); !isCond {
			return nil, false
		}
	}

	// Residual of the over-determined system, as a sum of squares.
	var r mat.VecDense
	r.MulVec(m, &sol)
	r.SubVec(&r, b)
	if mat.Dot(&r, &r) > residualTol {
		return nil, false
	}

	coeffs := make([]float64, unknowns)
	for j := 0; j < unknowns; j++ {
		coeffs[j] = sol.AtVec(j)
	}
	return coeffs, true
}

// verifyRational checks |P(i)/Q(i) − a(i)| <= 1e-9 at every index, computed
// with exact rational arithmetic. A zero denominator anywhere in range makes
// the formula undefined and rejects the candidate outright.
func verifyRational(seq sequence.Sequence, f Rational) bool {
	diff := new(big.Rat)
	target := new(big.Rat)
	for i := 1; i <= seq.Len(); i++ {
		pv := evalPoly(f.Num, int64(i))
		qv := evalPoly(f.Den, int64(i))
		if qv.Sign() == 0 {
			return false
		}
		diff.SetFrac(pv, qv)
		target.SetInt(seq.At(i))
		diff.Sub(diff, target)
		if diff.Abs(diff).Cmp(ratVerifyTol) > 0 {
			return false
		}
	}
	return true
}
