package conjecture

import "time"

// Bounds configures the search ranges of the four testers. It is an explicit
// value passed into each call; testers hold no ambient state.
type Bounds struct {
	// MaxPolyDegree is the highest polynomial degree tried (ascending from 1).
	MaxPolyDegree int
	// VerificationRatio in (0,1] is the fraction of the sequence used for the
	// polynomial fit before the candidate is checked against the full sequence.
	VerificationRatio float64
	// MaxRecurrenceDepth is the highest recurrence depth tried.
	MaxRecurrenceDepth int
	// MaxRationalDegree caps numerator and denominator degree for the
	// rational tester. It is clamped down automatically for short sequences.
	MaxRationalDegree int
	// TesterTimeout bounds wall-clock time per tester in RunAll.
	TesterTimeout time.Duration
}

// DefaultBounds returns the search bounds used when no configuration is
// supplied.
func DefaultBounds() Bounds {
	return Bounds{
		MaxPolyDegree:      15,
		VerificationRatio:  0.8,
		MaxRecurrenceDepth: 15,
		MaxRationalDegree:  4,
		TesterTimeout:      30 * time.Second,
	}
}
