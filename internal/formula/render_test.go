package formula

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"conjecturer/internal/conjecture"
)

func ints(vals ...int64) []*big.Int {
	out := make([]*big.Int, len(vals))
	for i, v := range vals {
		out[i] = big.NewInt(v)
	}
	return out
}

func TestRender_Polynomial(t *testing.T) {
	cases := []struct {
		name   string
		coeffs []int64
		want   string
	}{
		{"quadratic", []int64{1, 0, 0}, "a(n) = n^2"},
		{"full cubic", []int64{2, -3, 0, 7}, "a(n) = 2*n^3 - 3*n^2 + 7"},
		{"unit linear", []int64{1, 1}, "a(n) = n + 1"},
		{"negative leading", []int64{-1, 5}, "a(n) = -n + 5"},
		{"constant", []int64{42}, "a(n) = 42"},
		{"zero", []int64{0}, "a(n) = 0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Render(conjecture.Polynomial{Coeffs: ints(tc.coeffs...)})
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRender_LinearRecurrence(t *testing.T) {
	fib := conjecture.LinearRecurrence{Coeffs: ints(1, 1)}
	assert.Equal(t, "a(n) = a(n-1) + a(n-2)", Render(fib))

	squares := conjecture.LinearRecurrence{Coeffs: ints(3, -3, 1)}
	assert.Equal(t, "a(n) = 3*a(n-1) - 3*a(n-2) + a(n-3)", Render(squares))

	sparse := conjecture.LinearRecurrence{Coeffs: ints(0, 2)}
	assert.Equal(t, "a(n) = 2*a(n-2)", Render(sparse))
}

func TestRender_Exponential(t *testing.T) {
	powers := conjecture.Exponential{A: big.NewInt(1), B: big.NewInt(2), C: big.NewInt(0)}
	assert.Equal(t, "a(n) = 2^n", Render(powers))

	scaled := conjecture.Exponential{A: big.NewInt(3), B: big.NewInt(2), C: big.NewInt(1)}
	assert.Equal(t, "a(n) = 3*2^n + 1", Render(scaled))

	shifted := conjecture.Exponential{A: big.NewInt(2), B: big.NewInt(7), C: big.NewInt(-3)}
	assert.Equal(t, "a(n) = 2*7^n - 3", Render(shifted))

	negBase := conjecture.Exponential{A: big.NewInt(1), B: big.NewInt(-2), C: big.NewInt(0)}
	assert.Equal(t, "a(n) = (-2)^n", Render(negBase))
}

func TestRender_Rational(t *testing.T) {
	f := conjecture.Rational{Num: ints(2520), Den: ints(1, 1)}
	assert.Equal(t, "a(n) = (2520) / (n + 1)", Render(f))
}

func TestLaTeX(t *testing.T) {
	poly := conjecture.Polynomial{Coeffs: ints(2, 0, -1)}
	assert.Equal(t, "2 \\cdot n^2 - 1", LaTeX(poly))

	rat := conjecture.Rational{Num: ints(2520), Den: ints(1, 1)}
	assert.Equal(t, "\\frac{2520}{n + 1}", LaTeX(rat))

	rec := conjecture.LinearRecurrence{Coeffs: ints(1, 1)}
	assert.Equal(t, "a(n) = a(n-1) + a(n-2)", LaTeX(rec))

	exp := conjecture.Exponential{A: big.NewInt(1), B: big.NewInt(2), C: big.NewInt(0)}
	assert.Equal(t, "2^n", LaTeX(exp))
}
