package conjecture

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conjecturer/internal/sequence"
)

func TestRational_HarmonicLike(t *testing.T) {
	// a(n) = 2520/(n+1), integer for n = 1..9.
	seq := sequence.FromInt64s(1260, 840, 630, 504, 420, 360, 315, 280, 252)

	res := TestRational(seq, "A-test", DefaultBounds())

	require.Equal(t, Verified, res.Status)
	assert.Equal(t, KindRational, res.FormulaKind())
	assert.Equal(t, 0, res.Degree)

	f, ok := res.Formula.(Rational)
	require.True(t, ok)
	assert.Equal(t, []*big.Int{big.NewInt(2520)}, f.Num)
	assert.Equal(t, []*big.Int{big.NewInt(1), big.NewInt(1)}, f.Den)
}

func TestRational_PolynomialAdmitsTrivialDenominator(t *testing.T) {
	// Squares fit as n^2 over the constant polynomial; the denominator
	// search starts at degree 1, so Q comes back as 0·n + 1.
	seq := sequence.FromInt64s(1, 4, 9, 16, 25, 36, 49, 64, 81, 100)

	res := TestRational(seq, "A-test", DefaultBounds())

	require.Equal(t, Verified, res.Status)
	f := res.Formula.(Rational)
	assert.Equal(t, []*big.Int{big.NewInt(1), big.NewInt(0), big.NewInt(0)}, f.Num)
	assert.Equal(t, []*big.Int{big.NewInt(0), big.NewInt(1)}, f.Den)
}

func TestRational_MinimalDegreesWin(t *testing.T) {
	// 2520/(n+1) also fits at higher (p, q); the ascending search must
	// return the minimal pair.
	seq := sequence.FromInt64s(1260, 840, 630, 504, 420, 360, 315, 280, 252)

	res := TestRational(seq, "A-test", DefaultBounds())

	require.Equal(t, Verified, res.Status)
	f := res.Formula.(Rational)
	assert.Len(t, f.Num, 1) // p = 0
	assert.Len(t, f.Den, 2) // q = 1
}

func TestRational_PrimesFail(t *testing.T) {
	seq := sequence.FromInt64s(2, 3, 5, 7, 11, 13, 17, 19, 23, 29)

	res := TestRational(seq, "A-test", DefaultBounds())

	assert.Equal(t, Failed, res.Status)
	assert.Nil(t, res.Formula)
}

func TestRational_NonIntegerCoefficientsRejected(t *testing.T) {
	// Triangular numbers are n(n+1)/2: with the denominator constant fixed
	// to 1 the numerator would need halves, which the integer gate rejects.
	seq := sequence.FromInt64s(1, 3, 6, 10, 15, 21, 28, 36, 45, 55)

	res := TestRational(seq, "A-test", DefaultBounds())

	assert.Equal(t, Failed, res.Status)
}

func TestRational_ShortSequenceClampsDegree(t *testing.T) {
	// Four terms clamp the degree ceiling to 1, which still covers the
	// (0, 1) fit of 2520/(n+1).
	seq := sequence.FromInt64s(1260, 840, 630, 504)

	res := TestRational(seq, "A-test", DefaultBounds())

	require.Equal(t, Verified, res.Status)
	f := res.Formula.(Rational)
	assert.Equal(t, []*big.Int{big.NewInt(2520)}, f.Num)
}

func TestRational_TooShort(t *testing.T) {
	res := TestRational(sequence.FromInt64s(1260, 840), "A-test", DefaultBounds())
	assert.Equal(t, Failed, res.Status)
}

func TestRational_HugeTermsSkipFitting(t *testing.T) {
	huge := new(big.Int).Exp(big.NewInt(10), big.NewInt(30), nil)
	terms := make([]*big.Int, 10)
	for i := range terms {
		terms[i] = new(big.Int).Mul(huge, big.NewInt(int64(i+1)))
	}

	var res Result
	require.NotPanics(t, func() {
		res = TestRational(sequence.Sequence{Terms: terms}, "A-test", DefaultBounds())
	})
	assert.Equal(t, Failed, res.Status)
}
