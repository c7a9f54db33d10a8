// Package analysis turns raw load histories into fatigue spectra using
// the rainflow core, and derives summary statistics that downstream
// damage-accumulation tooling consumes.
package analysis

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/strainlab/rainflow/pkg/rainflow"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// SpectrumSummary holds count-weighted statistics over the cycle
// ranges of a single run.
type SpectrumSummary struct {
	TotalCount     float64 `json:"total_count"`
	DistinctRanges int     `json:"distinct_ranges"`
	MaxRange       float64 `json:"max_range"`
	MeanRange      float64 `json:"mean_range"`
	RMSRange       float64 `json:"rms_range"`
}

// Run is the result of one pipeline invocation over one load history.
type Run struct {
	ID         string                `json:"id"`
	Channel    string                `json:"channel"`
	AnalyzedAt time.Time             `json:"analyzed_at"`
	Samples    int                   `json:"samples"`
	Reversals  int                   `json:"reversals"`
	FullCycles int                   `json:"full_cycles"`
	HalfCycles int                   `json:"half_cycles"`
	Counts     []rainflow.CycleCount `json:"counts"`
	Summary    SpectrumSummary       `json:"summary"`
}

// Analyzer runs the rainflow pipeline and summarizes the results.
type Analyzer struct {
	logger *zap.SugaredLogger
}

// NewAnalyzer creates an Analyzer that logs through the given logger.
func NewAnalyzer(logger *zap.SugaredLogger) *Analyzer {
	return &Analyzer{logger: logger}
}

// Analyze counts the cycles in series and returns a completed Run.
// Degenerate histories (monotonic, constant) produce an empty but
// valid run; fewer than two samples is an error.
func (a *Analyzer) Analyze(channel string, series []float64) (*Run, error) {
	revs, err := rainflow.Reversals(rainflow.SliceSource(series))
	if err != nil {
		return nil, fmt.Errorf("channel %s: %w", channel, err)
	}
	nRevs := 0
	for _, ok := revs.Next(); ok; _, ok = revs.Next() {
		nRevs++
	}

	full, half, err := rainflow.ExtractCycles(series)
	if err != nil {
		return nil, fmt.Errorf("channel %s: %w", channel, err)
	}
	counts := rainflow.AggregateCounts(full, half)

	run := &Run{
		ID:         uuid.New().String(),
		Channel:    channel,
		AnalyzedAt: time.Now(),
		Samples:    len(series),
		Reversals:  nRevs,
		FullCycles: len(full),
		HalfCycles: len(half),
		Counts:     counts,
		Summary:    Summarize(counts),
	}

	a.logger.Infof("analyzed channel [%s]: %d samples, %d reversals, %d full + %d half cycles",
		channel, run.Samples, run.Reversals, run.FullCycles, run.HalfCycles)

	return run, nil
}

// Summarize computes count-weighted spectrum statistics.
func Summarize(counts []rainflow.CycleCount) SpectrumSummary {
	if len(counts) == 0 {
		return SpectrumSummary{}
	}

	ranges := make([]float64, len(counts))
	weights := make([]float64, len(counts))
	for i, c := range counts {
		ranges[i] = c.Range
		weights[i] = c.Count
	}

	squares := make([]float64, len(ranges))
	copy(squares, ranges)
	floats.Mul(squares, ranges)

	return SpectrumSummary{
		TotalCount:     floats.Sum(weights),
		DistinctRanges: len(counts),
		MaxRange:       floats.Max(ranges),
		MeanRange:      stat.Mean(ranges, weights),
		RMSRange:       math.Sqrt(stat.Mean(squares, weights)),
	}
}
