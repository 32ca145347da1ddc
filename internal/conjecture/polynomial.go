package conjecture

import (
	"fmt"
	"math"
	"math/big"

	"gonum.org/v1/gonum/mat"

	"conjecturer/internal/logging"
	"conjecturer/internal/sequence"
)

// TestPolynomial tests whether a(n) is a degree-d polynomial in n for some
// d in 1..bounds.MaxPolyDegree, searched ascending so the simplest formula
// wins. The fit runs over the first floor(n·VerificationRatio) terms only;
// the candidate must then reproduce every known term under exact big-integer
// evaluation before it is reported.
func TestPolynomial(seq sequence.Sequence, bounds Bounds) Result {
	n := seq.Len()
	fitLen := int(float64(n) * bounds.VerificationRatio)
	if fitLen < 2 {
		return failed()
	}

	yFit, ok := seq.Float64s(fitLen)
	if !ok {
		// Terms exceed the fitting routine's native numeric capacity. The fit
		// phase is skipped entirely; this is not a verification failure.
		logging.EngineWarn("sequence contains terms too large for polynomial fitting; skipping")
		return failed()
	}

	for degree := 1; degree <= bounds.MaxPolyDegree; degree++ {
		if fitLen <= degree {
			continue
		}
		coeffs, err := polyfit(yFit, degree)
		if err != nil {
			continue
		}
		if !allNearInteger(coeffs) {
			continue
		}
		rounded := roundCoeffs(coeffs)

		if verifyPolynomial(seq, rounded) {
			logging.Engine("verified polynomial conjecture of degree %d", degree)
			return verified(
				Polynomial{Coeffs: rounded},
				degree,
				fmt.Sprintf("Polynomial of degree %d", degree),
			)
		}
	}
	return failed()
}

// polyfit performs a least-squares polynomial fit of y over x = 1..len(y),
// returning coefficients highest degree first.
func polyfit(y []float64, degree int) ([]float64, error) {
	rows, cols := len(y), degree+1

	a := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		x := float64(i + 1)
		v := math.Pow(x, float64(degree))
		for j := 0; j < cols; j++ {
			a.Set(i, j, v)
			v /= x
		}
	}
	b := mat.NewVecDense(rows, y)

	var sol mat.VecDense
	if err := sol.SolveVec(a, b); err != nil {
		// Ill-conditioned systems still produce a usable solution; only a
		// genuinely singular/degenerate solve skips the degree.
		if _, ok := err.(mat.Condition); !ok {
			return nil, err
		}
	}

	coeffs := make([]float64, cols)
	for j := 0; j < cols; j++ {
		coeffs[j] = sol.AtVec(j)
	}
	return coeffs, nil
}

// verifyPolynomial checks the candidate against all known terms with exact
// integer arithmetic. Full-sequence re-verification is mandatory: a match on
// the fit prefix alone never produces a Verified result.
func verifyPolynomial(seq sequence.Sequence, coeffs []*big.Int) bool {
	for i := 1; i <= seq.Len(); i++ {
		if evalPoly(coeffs, int64(i)).Cmp(seq.At(i)) != 0 {
			return false
		}
	}
	return true
}
