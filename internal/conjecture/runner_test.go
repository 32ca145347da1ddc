package conjecture

import (
	"context"
	"math/big"
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conjecturer/internal/sequence"
)

var bigIntComparer = cmp.Comparer(func(a, b *big.Int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Cmp(b) == 0
})

func squaresSequence(n int) sequence.Sequence {
	terms := make([]*big.Int, n)
	for i := range terms {
		k := int64(i + 1)
		terms[i] = big.NewInt(k * k)
	}
	return sequence.Sequence{Terms: terms}
}

// noisySequence is pseudo-random data that fits no family; it exists to keep
// every tester busy long enough for timeout and cancellation tests.
func noisySequence(n int) sequence.Sequence {
	rng := rand.New(rand.NewSource(17))
	terms := make([]*big.Int, n)
	for i := range terms {
		terms[i] = big.NewInt(rng.Int63n(1 << 40))
	}
	return sequence.Sequence{Terms: terms}
}

func TestRunAll_FixedResultOrder(t *testing.T) {
	results := RunAll(context.Background(), squaresSequence(10), "A000290", DefaultBounds())

	require.Len(t, results, 4)

	// Squares are polynomial (n^2), recurrent (3,-3,1), rational (n^2 / 1)
	// but not exponential, and the slots stay in family order regardless of
	// which tester finished first.
	require.Equal(t, Verified, results[0].Status)
	assert.Equal(t, KindPolynomial, results[0].FormulaKind())
	assert.Equal(t, 2, results[0].Degree)

	require.Equal(t, Verified, results[1].Status)
	assert.Equal(t, KindRecurrence, results[1].FormulaKind())
	rec := results[1].Formula.(LinearRecurrence)
	assert.Equal(t, []*big.Int{big.NewInt(3), big.NewInt(-3), big.NewInt(1)}, rec.Coeffs)

	assert.Equal(t, Failed, results[2].Status)

	require.Equal(t, Verified, results[3].Status)
	assert.Equal(t, KindRational, results[3].FormulaKind())
}

func TestRunAll_AllFamiliesFail(t *testing.T) {
	primes := sequence.FromInt64s(2, 3, 5, 7, 11, 13, 17, 19, 23, 29)

	results := RunAll(context.Background(), primes, "A000040", DefaultBounds())

	require.Len(t, results, 4)
	for i, res := range results {
		assert.Equal(t, Failed, res.Status, "tester %d", i)
		assert.Nil(t, res.Formula, "tester %d", i)
	}
}

func TestRunAll_Deterministic(t *testing.T) {
	seq := squaresSequence(12)

	first := RunAll(context.Background(), seq, "A000290", DefaultBounds())
	second := RunAll(context.Background(), seq, "A000290", DefaultBounds())

	if diff := cmp.Diff(first, second, bigIntComparer); diff != "" {
		t.Errorf("results differ between runs (-first +second):\n%s", diff)
	}
}

func TestRunAll_TimeoutYieldsInconclusive(t *testing.T) {
	bounds := DefaultBounds()
	bounds.TesterTimeout = time.Nanosecond

	results := RunAll(context.Background(), noisySequence(400), "A-noise", bounds)

	require.Len(t, results, 4)
	for i, res := range results {
		assert.Equal(t, Inconclusive, res.Status, "tester %d", i)
		assert.Equal(t, "tester timed out", res.Description, "tester %d", i)
		assert.Nil(t, res.Formula, "tester %d", i)
	}
}

func TestRunAll_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := RunAll(ctx, noisySequence(400), "A-noise", DefaultBounds())

	require.Len(t, results, 4)
	for i, res := range results {
		assert.Equal(t, Inconclusive, res.Status, "tester %d", i)
	}
}

func TestRunAll_ZeroTimeoutFallsBackToDefault(t *testing.T) {
	bounds := DefaultBounds()
	bounds.TesterTimeout = 0

	results := RunAll(context.Background(), squaresSequence(10), "A000290", bounds)

	require.Len(t, results, 4)
	assert.Equal(t, Verified, results[0].Status)
}

func TestRunBounded_PanicIsolatedAsInconclusive(t *testing.T) {
	res := runBounded(context.Background(), func() Result {
		panic("boom")
	}, time.Second)

	assert.Equal(t, Inconclusive, res.Status)
	assert.Equal(t, "tester crashed", res.Description)
}
