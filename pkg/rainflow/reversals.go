// Package rainflow implements rainflow cycle counting for fatigue
// analysis according to section 5.4.4 in ASTM E1049-85 (2011).
// It decomposes a scalar load history into full and one-half stress
// cycles and aggregates them into (range, count) pairs suitable for
// damage-accumulation calculations.
package rainflow

import "errors"

// ErrInsufficientData is returned when a load series holds fewer than
// two samples, so no first difference can be formed.
var ErrInsufficientData = errors.New("rainflow: load series must contain at least 2 samples")

// SampleSource yields one sample per call. The second return value is
// false once the source is exhausted.
type SampleSource func() (float64, bool)

// SliceSource adapts an in-memory series to a SampleSource.
func SliceSource(series []float64) SampleSource {
	i := 0
	return func() (float64, bool) {
		if i >= len(series) {
			return 0, false
		}
		v := series[i]
		i++
		return v, true
	}
}

// ReversalIter is a single-pass iterator over the reversal points of a
// load series. Reversals are the points at which the first difference
// of the series changes sign. The iterator never yields the first or
// the last sample of the series, and holds only three scalars of state
// regardless of series length.
type ReversalIter struct {
	src   SampleSource
	x     float64
	dLast float64
}

// Reversals starts a reversal scan over src. It pulls the first two
// samples immediately and returns ErrInsufficientData if fewer exist.
func Reversals(src SampleSource) (*ReversalIter, error) {
	xLast, ok := src()
	if !ok {
		return nil, ErrInsufficientData
	}
	x, ok := src()
	if !ok {
		return nil, ErrInsufficientData
	}
	return &ReversalIter{src: src, x: x, dLast: x - xLast}, nil
}

// Next returns the next reversal point, advancing the underlying
// source. The second return value is false once the source runs out.
func (it *ReversalIter) Next() (float64, bool) {
	for {
		xNext, ok := it.src()
		if !ok {
			return 0, false
		}
		dNext := xNext - it.x
		// Strictly negative product only: a zero difference (plateau)
		// never counts as a sign change.
		isReversal := it.dLast*dNext < 0
		v := it.x
		it.x = xNext
		it.dLast = dNext
		if isReversal {
			return v, true
		}
	}
}
