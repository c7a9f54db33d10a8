package analysis

import (
	"fmt"
	"math"

	"github.com/strainlab/rainflow/pkg/rainflow"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Bin is one fixed-width magnitude bucket of a binned spectrum. Lo is
// inclusive; Hi is exclusive except for the topmost bin.
type Bin struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Count float64 `json:"count"`
}

// BinnedSpectrum rebins exact-magnitude counts into a fixed number of
// equal-width bins spanning the observed ranges. Damage tooling that
// works from load-spectrum tables consumes this form.
func BinnedSpectrum(counts []rainflow.CycleCount, bins int) ([]Bin, error) {
	if bins < 1 {
		return nil, fmt.Errorf("spectrum must have at least 1 bin, got %d", bins)
	}
	if len(counts) == 0 {
		return nil, nil
	}

	ranges := make([]float64, len(counts))
	weights := make([]float64, len(counts))
	for i, c := range counts {
		ranges[i] = c.Range
		weights[i] = c.Count
	}

	lo, hi := ranges[0], ranges[len(ranges)-1]
	if lo == hi {
		// Degenerate span: everything lands in one bucket.
		return []Bin{{Lo: lo, Hi: hi, Count: floats.Sum(weights)}}, nil
	}

	dividers := make([]float64, bins+1)
	floats.Span(dividers, lo, hi)

	// Histogram's bins are half-open, so the maximum observed range
	// would fall outside the topmost bin. Nudge the top divider up one
	// ulp and restore it for reporting.
	top := dividers[bins]
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	hist := stat.Histogram(nil, dividers, ranges, weights)
	dividers[bins] = top

	out := make([]Bin, bins)
	for i := range out {
		out[i] = Bin{Lo: dividers[i], Hi: dividers[i+1], Count: hist[i]}
	}
	return out, nil
}
