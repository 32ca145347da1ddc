// Package formula renders structured conjecture formulas as human-readable
// and LaTeX strings. Rendering is a presentation concern kept out of the
// engine: the testers return coefficients, this package turns them into text.
package formula

import (
	"fmt"
	"math/big"
	"strings"

	"conjecturer/internal/conjecture"
)

var (
	one    = big.NewInt(1)
	negOne = big.NewInt(-1)
)

// Render returns a plain-text formula like "a(n) = n^2 + 3".
func Render(f conjecture.Formula) string {
	switch v := f.(type) {
	case conjecture.Polynomial:
		return "a(n) = " + polyString(v.Coeffs, "n", "*", "^")
	case conjecture.LinearRecurrence:
		return "a(n) = " + recurrenceString(v.Coeffs, "*")
	case conjecture.Exponential:
		return "a(n) = " + exponentialString(v, "*", "^")
	case conjecture.Rational:
		return fmt.Sprintf("a(n) = (%s) / (%s)",
			polyString(v.Num, "n", "*", "^"), polyString(v.Den, "n", "*", "^"))
	default:
		return ""
	}
}

// LaTeX returns a LaTeX rendering of the formula body (without "a(n) =").
func LaTeX(f conjecture.Formula) string {
	switch v := f.(type) {
	case conjecture.Polynomial:
		return polyString(v.Coeffs, "n", " \\cdot ", "^")
	case conjecture.LinearRecurrence:
		return "a(n) = " + recurrenceString(v.Coeffs, " \\cdot ")
	case conjecture.Exponential:
		return exponentialString(v, " \\cdot ", "^")
	case conjecture.Rational:
		return fmt.Sprintf("\\frac{%s}{%s}",
			polyString(v.Num, "n", " \\cdot ", "^"), polyString(v.Den, "n", " \\cdot ", "^"))
	default:
		return ""
	}
}

// polyString renders big-integer coefficients (highest degree first) over the
// given variable. Zero terms are skipped, unit coefficients elided.
func polyString(coeffs []*big.Int, varName, mul, pow string) string {
	degree := len(coeffs) - 1
	var parts []string
	for i, c := range coeffs {
		if c.Sign() == 0 {
			continue
		}
		parts = append(parts, term(c, degree-i, varName, mul, pow))
	}
	if len(parts) == 0 {
		return "0"
	}
	return joinSigned(parts)
}

// term renders one monomial c·var^e.
func term(c *big.Int, e int, varName, mul, pow string) string {
	switch {
	case e == 0:
		return c.String()
	case c.Cmp(one) == 0:
		return varPow(varName, e, pow)
	case c.Cmp(negOne) == 0:
		return "-" + varPow(varName, e, pow)
	default:
		return c.String() + mul + varPow(varName, e, pow)
	}
}

func varPow(varName string, e int, pow string) string {
	if e == 1 {
		return varName
	}
	return fmt.Sprintf("%s%s%d", varName, pow, e)
}

// recurrenceString renders c_1*a(n-1) + ... skipping zero coefficients.
func recurrenceString(coeffs []*big.Int, mul string) string {
	var parts []string
	for j, c := range coeffs {
		if c.Sign() == 0 {
			continue
		}
		ref := fmt.Sprintf("a(n-%d)", j+1)
		switch {
		case c.Cmp(one) == 0:
			parts = append(parts, ref)
		case c.Cmp(negOne) == 0:
			parts = append(parts, "-"+ref)
		default:
			parts = append(parts, c.String()+mul+ref)
		}
	}
	if len(parts) == 0 {
		return "0"
	}
	return joinSigned(parts)
}

// exponentialString renders A·B^n + C with unit/zero elision.
func exponentialString(f conjecture.Exponential, mul, pow string) string {
	b := f.B.String()
	if f.B.Sign() < 0 {
		b = "(" + b + ")"
	}
	base := fmt.Sprintf("%s%sn", b, pow)
	s := base
	if f.A.Cmp(one) != 0 {
		s = f.A.String() + mul + base
	}
	if f.C.Sign() > 0 {
		s += " + " + f.C.String()
	} else if f.C.Sign() < 0 {
		s += " - " + new(big.Int).Neg(f.C).String()
	}
	return s
}

// joinSigned joins rendered terms with " + ", folding "+ -x" into "- x".
func joinSigned(parts []string) string {
	s := strings.Join(parts, " + ")
	return strings.ReplaceAll(s, "+ -", "- ")
}
