package conjecture

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"conjecturer/internal/logging"
	"conjecturer/internal/sequence"
)

// testerCount is the number of formula families the engine searches.
const testerCount = 4

// RunAll runs the four testers against the same sequence as independent
// concurrent tasks and collects their results in a fixed, deterministic
// order: polynomial, recurrence, exponential, rational — regardless of
// completion order.
//
// Each tester gets an isolated failure domain and a wall-clock budget of
// bounds.TesterTimeout. A timeout does not cancel the computation (no
// cancellation propagates into a tester); the result is simply discarded and
// the tester recorded as Inconclusive for this sequence. A panicking tester
// is likewise recorded Inconclusive and cannot take the others down.
func RunAll(ctx context.Context, seq sequence.Sequence, id string, bounds Bounds) []Result {
	timer := logging.StartTimer(logging.CategoryEngine, "RunAll "+id)
	defer timer.Stop()

	timeout := bounds.TesterTimeout
	if timeout <= 0 {
		timeout = DefaultBounds().TesterTimeout
	}

	testers := [testerCount]func() Result{
		func() Result { return TestPolynomial(seq, bounds) },
		func() Result { return TestRecurrence(seq, bounds) },
		func() Result { return TestExponential(seq) },
		func() Result { return TestRational(seq, id, bounds) },
	}

	results := make([]Result, testerCount)
	eg, egCtx := errgroup.WithContext(ctx)
	for i, tester := range testers {
		eg.Go(func() error {
			results[i] = runBounded(egCtx, tester, timeout)
			return nil
		})
	}
	_ = eg.Wait() // collectors never return errors; failures are results

	return results
}

// runBounded invokes one tester with a timeout and panic isolation. The
// tester goroutine is left to finish on its own after a timeout; its result
// lands in a buffered channel and is dropped.
func runBounded(ctx context.Context, tester func() Result, timeout time.Duration) Result {
	done := make(chan Result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logging.EngineWarn("tester panicked: %v", r)
				done <- Result{Status: Inconclusive, Description: "tester crashed"}
			}
		}()
		done <- tester()
	}()

	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case res := <-done:
		return res
	case <-t.C:
		return Result{Status: Inconclusive, Description: "tester timed out"}
	case <-ctx.Done():
		return Result{Status: Inconclusive, Description: "analysis canceled"}
	}
}
