package conjecture

import (
	"fmt"
	"math"
	"math/big"

	"gonum.org/v1/gonum/mat"

	"conjecturer/internal/logging"
	"conjecturer/internal/sequence"
)

const (
	newtonMaxIter = 200
	newtonTol     = 1e-10
)

// TestExponential tests for a(n) = A·B^n + C. The three unknowns are
// determined from the first three terms by Newton iteration on the nonlinear
// system A·B^i + C = a(i), i = 1..3, seeded at (A,B,C) = (1, 2, 0).
// Degenerate solutions are rejected: B = 1 collapses to a constant slope and
// A = 0 to a pure constant, both indistinguishable from low-degree
// polynomials. Verification uses exact integer exponentiation, since B^n
// exceeds native range for even modest n.
func TestExponential(seq sequence.Sequence) Result {
	if seq.Len() < 5 {
		return failed()
	}

	pts := make([]float64, 3)
	for i := 0; i < 3; i++ {
		f, _ := new(big.Float).SetInt(seq.At(i + 1)).Float64()
		pts[i] = f
	}

	coeffs, ok := solveExponential(pts)
	if !ok {
		return failed()
	}
	if !allNearInteger(coeffs[:]) {
		return failed()
	}

	a := int64(math.Round(coeffs[0]))
	b := int64(math.Round(coeffs[1]))
	c := int64(math.Round(coeffs[2]))
	if b == 1 || a == 0 {
		return failed()
	}

	f := Exponential{A: big.NewInt(a), B: big.NewInt(b), C: big.NewInt(c)}
	if !verifyExponential(seq, f) {
		return failed()
	}

	logging.Engine("verified exponential conjecture: a(n) = %d*(%d**n) + %d", a, b, c)
	return verified(f, 0, fmt.Sprintf("Exponential formula with base %d", b))
}

// solveExponential runs damped Newton iteration on the 3x3 system: a full
// Newton step is backtracked (halved) until the residual norm decreases,
// which keeps the iteration from overshooting when the true base is far from
// the seed. The second return is false when the iteration does not converge
// or produces a non-finite solution.
func solveExponential(pts []float64) ([3]float64, bool) {
	x := [3]float64{1, 2, 0} // seed (A, B, C)

	res := mat.NewVecDense(3, nil)
	jac := mat.NewDense(3, 3, nil)

	for iter := 0; iter < newtonMaxIter; iter++ {
		norm, maxRes := expResidual(x, pts, res)
		if math.IsNaN(norm) || math.IsInf(norm, 0) {
			return x, false
		}
		if maxRes < newtonTol {
			return x, true
		}

		a, b := x[0], x[1]
		for i := 0; i < 3; i++ {
			e := float64(i + 1)
			// d/dA, d/dB, d/dC of A·B^e + C
			jac.Set(i, 0, math.Pow(b, e))
			jac.Set(i, 1, a*e*math.Pow(b, e-1))
			jac.Set(i, 2, 1)
		}

		var step mat.VecDense
		if err := step.SolveVec(jac, res); err != nil {
			if _, isCond := err.(mat.Condition); !isCond {
				return x, false
			}
		}

		// Backtracking line search on the residual norm.
		scale := 1.0
		improved := false
		scratch := mat.NewVecDense(3, nil)
		for try := 0; try < 40; try++ {
			cand := x
			for i := 0; i < 3; i++ {
				cand[i] = x[i] - scale*step.AtVec(i)
			}
			if n, _ := expResidual(cand, pts, scratch); n < norm {
				x = cand
				improved = true
				break
			}
			scale /= 2
		}
		if !improved {
			return x, false // stalled short of the tolerance
		}
		if math.IsNaN(x[0]) || math.IsNaN(x[1]) || math.IsNaN(x[2]) {
			return x, false
		}
	}
	return x, false
}

// expResidual fills res with A·B^i + C − a(i) for i = 1..3 and returns the
// euclidean norm and max absolute component.
func expResidual(x [3]float64, pts []float64, res *mat.VecDense) (norm, maxAbs float64) {
	a, b, c := x[0], x[1], x[2]
	for i := 0; i < 3; i++ {
		r := a*math.Pow(b, float64(i+1)) + c - pts[i]
		res.SetVec(i, r)
		norm += r * r
		if v := math.Abs(r); v > maxAbs {
			maxAbs = v
		}
	}
	return math.Sqrt(norm), maxAbs
}

// verifyExponential checks A·B^i + C against every term with exact
// big-integer exponentiation.
func verifyExponential(seq sequence.Sequence, f Exponential) bool {
	pow := new(big.Int).Set(f.B) // B^1
	val := new(big.Int)
	for i := 1; i <= seq.Len(); i++ {
		val.Mul(f.A, pow)
		val.Add(val, f.C)
		if val.Cmp(seq.At(i)) != 0 {
			return false
		}
		pow.Mul(pow, f.B)
	}
	return true
}
