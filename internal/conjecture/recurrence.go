package conjecture

import (
	"fmt"
	"math/big"

	"gonum.org/v1/gonum/mat"

	"conjecturer/internal/logging"
	"conjecturer/internal/sequence"
)

// TestRecurrence tests whether the sequence satisfies a fixed-depth linear
// recurrence a(n) = c_1·a(n-1) + ... + c_k·a(n-k) for some k in
// 1..bounds.MaxRecurrenceDepth, searched ascending. For each depth the
// coefficients are determined by an exact k-equation/k-unknown solve over the
// window a(k+1)..a(2k) (not least squares), then the rounded candidate must
// hold at every index k+1..n under exact integer arithmetic.
func TestRecurrence(seq sequence.Sequence, bounds Bounds) Result {
	n := seq.Len()

	vals, ok := seq.Float64s(n)
	if !ok {
		logging.EngineWarn("sequence contains terms too large for recurrence solver; skipping")
		return failed()
	}

	for k := 1; k <= bounds.MaxRecurrenceDepth; k++ {
		if n < 2*k {
			continue
		}

		// Row for equation i (i = k..2k-1, 0-based): the k prior terms,
		// newest first, solved against a(i+1).
		a := mat.NewDense(k, k, nil)
		b := mat.NewVecDense(k, nil)
		for i := k; i < 2*k; i++ {
			for j := 0; j < k; j++ {
				a.Set(i-k, j, vals[i-1-j])
			}
			b.SetVec(i-k, vals[i])
		}

		var sol mat.VecDense
		if err := sol.SolveVec(a, b); err != nil {
			if _, isCond := err.(mat.Condition); !isCond {
				continue
			}
		}

		coeffs := make([]float64, k)
		for j := 0; j < k; j++ {
			coeffs[j] = sol.AtVec(j)
		}
		if !allNearInteger(coeffs) {
			continue
		}
		rounded := roundCoeffs(coeffs)

		if verifyRecurrence(seq, rounded) {
			logging.Engine("verified linear recurrence conjecture of depth %d", k)
			return verified(
				LinearRecurrence{Coeffs: rounded},
				k,
				fmt.Sprintf("Linear recurrence of depth %d", k),
			)
		}
	}
	return failed()
}

// verifyRecurrence checks the recurrence at every index k+1..n using exact
// big-integer sums of products.
func verifyRecurrence(seq sequence.Sequence, coeffs []*big.Int) bool {
	k := len(coeffs)
	tmp := new(big.Int)
	for i := k + 1; i <= seq.Len(); i++ {
		pred := new(big.Int)
		for j, c := range coeffs {
			pred.Add(pred, tmp.Mul(c, seq.At(i-1-j)))
		}
		if pred.Cmp(seq.At(i)) != 0 {
			return false
		}
	}
	return true
}
