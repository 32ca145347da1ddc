// Package conjecture implements the conjecture-testing engine: numeric
// fitting plus integer-exact verification for four closed-form formula
// families (polynomial, linear recurrence, exponential, rational function).
//
// Every tester is a pure function from a sequence (plus bounds) to a Result.
// Fitting is floating point and inherently approximate; a candidate is only
// accepted after it reproduces every known term under arbitrary-precision
// arithmetic. Testers share one rounding policy: a fitted coefficient must be
// within 1e-9 of an integer, and the simplest formula (lowest degree/depth,
// searched ascending) always wins.
package conjecture

import (
	"fmt"
	"math/big"
)

// Status is the outcome of a single tester invocation.
type Status int

const (
	// Failed means no formula in the tester's search space reproduces the
	// sequence. Degenerate fits, non-integer coefficients and verification
	// mismatches all collapse here.
	Failed Status = iota
	// Verified means the returned formula reproduces every known term.
	Verified
	// Inconclusive is assigned by the concurrent runner when a tester timed
	// out or crashed; the tester itself never returns it.
	Inconclusive
)

func (s Status) String() string {
	switch s {
	case Verified:
		return "verified"
	case Inconclusive:
		return "inconclusive"
	default:
		return "failed"
	}
}

// Kind identifies the formula family a tester searches.
type Kind string

const (
	KindPolynomial  Kind = "polynomial"
	KindRecurrence  Kind = "linear_recurrence"
	KindExponential Kind = "exponential"
	KindRational    Kind = "rational_function"
)

// Formula is the closed tagged variant carried by a Verified result.
// Exactly one of the four concrete types implements it.
type Formula interface {
	Kind() Kind
}

// Polynomial is a(n) = c_d·n^d + ... + c_1·n + c_0.
// Coefficients are ordered highest degree first.
type Polynomial struct {
	Coeffs []*big.Int
}

func (Polynomial) Kind() Kind { return KindPolynomial }

// Degree returns the polynomial degree.
func (p Polynomial) Degree() int { return len(p.Coeffs) - 1 }

// LinearRecurrence is a(n) = c_1·a(n-1) + ... + c_k·a(n-k).
type LinearRecurrence struct {
	Coeffs []*big.Int // c_1..c_k
}

func (LinearRecurrence) Kind() Kind { return KindRecurrence }

// Depth returns the recurrence depth k.
func (r LinearRecurrence) Depth() int { return len(r.Coeffs) }

// Exponential is a(n) = A·B^n + C.
type Exponential struct {
	A, B, C *big.Int
}

func (Exponential) Kind() Kind { return KindExponential }

// Rational is a(n) = P(n)/Q(n). Both coefficient lists are ordered highest
// degree first; the denominator's constant term is always 1 (the fit fixes it
// for identifiability, since P/Q is only determined up to a scalar).
type Rational struct {
	Num, Den []*big.Int
}

func (Rational) Kind() Kind { return KindRational }

// Result is the outcome of one tester invocation. Formula is non-nil iff
// Status == Verified.
type Result struct {
	Status      Status
	Formula     Formula
	Degree      int // degree or depth used; 0 when not applicable
	Description string
}

// failed is the common zero-value failure result.
func failed() Result { return Result{Status: Failed} }

// verified builds a Verified result with a rendered description.
func verified(f Formula, degree int, desc string) Result {
	return Result{Status: Verified, Formula: f, Degree: degree, Description: desc}
}

// FormulaKind returns the formula family, or "" for non-verified results.
func (r Result) FormulaKind() Kind {
	if r.Formula == nil {
		return ""
	}
	return r.Formula.Kind()
}

func (r Result) String() string {
	if r.Status != Verified {
		return r.Status.String()
	}
	return fmt.Sprintf("verified (%s, %s)", r.FormulaKind(), r.Description)
}
