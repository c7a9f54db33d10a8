package rainflow

import "sort"

// CycleCount pairs a cycle range with its accumulated count. Counts
// come in halves because one-half cycles weigh 0.5.
type CycleCount struct {
	Range float64 `json:"range"`
	Count float64 `json:"count"`
}

// CountCycles counts the cycles in the load series, sorted ascending
// by range. Full cycles contribute 1.0 to the count of their range and
// one-half cycles contribute 0.5, so counts may not be whole numbers.
// Returns ErrInsufficientData if the series holds fewer than two
// samples.
func CountCycles(series []float64) ([]CycleCount, error) {
	full, half, err := ExtractCycles(series)
	if err != nil {
		return nil, err
	}
	return AggregateCounts(full, half), nil
}

// AggregateCounts merges full- and half-cycle ranges into per-range
// counts. Ranges are matched by exact float equality; no binning or
// tolerance is applied.
func AggregateCounts(full, half []float64) []CycleCount {
	cycles := make([]CycleCount, 0, len(full)+len(half))
	for _, r := range full {
		cycles = append(cycles, CycleCount{Range: r, Count: 1.0})
	}
	for _, r := range half {
		cycles = append(cycles, CycleCount{Range: r, Count: 0.5})
	}

	sort.Slice(cycles, func(i, j int) bool { return cycles[i].Range < cycles[j].Range })

	var counts []CycleCount
	for _, c := range cycles {
		if n := len(counts); n > 0 && counts[n-1].Range == c.Range {
			counts[n-1].Count += c.Count
		} else {
			counts = append(counts, c)
		}
	}
	return counts
}
