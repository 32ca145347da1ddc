// Package sequence defines the arbitrary-precision integer sequence type that
// every conjecture tester consumes. Sequences are 1-indexed values: a(1) is
// Terms[0]. No upper bound is placed on term magnitude, so all exact arithmetic
// downstream works on *big.Int.
package sequence

import (
	"fmt"
	"math/big"
	"strings"
)

// Sequence is an ordered, 1-indexed list of arbitrary-precision integers.
// It is an immutable input by convention: testers never mutate terms.
type Sequence struct {
	Terms []*big.Int
}

// FromInt64s builds a sequence from native integers. Convenient for tests and
// the inline CLI path; fetched sequences go through ParseBFile instead.
func FromInt64s(vals ...int64) Sequence {
	terms := make([]*big.Int, len(vals))
	for i, v := range vals {
		terms[i] = big.NewInt(v)
	}
	return Sequence{Terms: terms}
}

// Parse reads a comma or whitespace separated list of decimal integers.
func Parse(s string) (Sequence, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	if len(fields) == 0 {
		return Sequence{}, fmt.Errorf("empty sequence")
	}
	terms := make([]*big.Int, 0, len(fields))
	for _, f := range fields {
		v, ok := new(big.Int).SetString(f, 10)
		if !ok {
			return Sequence{}, fmt.Errorf("invalid integer %q", f)
		}
		terms = append(terms, v)
	}
	return Sequence{Terms: terms}, nil
}

// Len returns the number of known terms.
func (s Sequence) Len() int { return len(s.Terms) }

// At returns a(i) for 1-based index i.
func (s Sequence) At(i int) *big.Int { return s.Terms[i-1] }

// Float64s converts the first n terms to float64 for the approximate fitting
// phase. The second return is false when any term does not fit in an int64,
// mirroring the fixed-width capacity limit of the fitting routines; callers
// must treat that as "fitting unavailable", never as an error.
func (s Sequence) Float64s(n int) ([]float64, bool) {
	if n > len(s.Terms) {
		n = len(s.Terms)
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if !s.Terms[i].IsInt64() {
			return nil, false
		}
		out[i] = float64(s.Terms[i].Int64())
	}
	return out, true
}

// String renders the sequence as comma separated terms, elided after 12.
func (s Sequence) String() string {
	var b strings.Builder
	for i, t := range s.Terms {
		if i == 12 {
			b.WriteString(", ...")
			break
		}
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(t.String())
	}
	return b.String()
}
