package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/strainlab/rainflow/pkg/rainflow"
	"go.uber.org/zap"
)

// Reference history from the ASTM E1049-85 worked example.
var astmSeries = []float64{-2, 1, -3, 5, -1, 3, -4, 4, -2}

func TestAnalyze(t *testing.T) {
	a := NewAnalyzer(zap.NewNop().Sugar())

	run, err := a.Analyze("gauge-a", astmSeries)
	if err != nil {
		t.Fatal(err)
	}

	if run.ID == "" {
		t.Error("expected a run ID")
	}
	if run.Channel != "gauge-a" {
		t.Errorf("expected channel gauge-a, got %s", run.Channel)
	}
	if run.Samples != 9 {
		t.Errorf("expected 9 samples, got %d", run.Samples)
	}
	if run.Reversals != 7 {
		t.Errorf("expected 7 reversals, got %d", run.Reversals)
	}
	if run.FullCycles != 1 || run.HalfCycles != 4 {
		t.Errorf("expected 1 full + 4 half cycles, got %d + %d", run.FullCycles, run.HalfCycles)
	}
	if len(run.Counts) != 3 {
		t.Fatalf("expected 3 count entries, got %v", run.Counts)
	}
}

func TestAnalyzeDegenerate(t *testing.T) {
	a := NewAnalyzer(zap.NewNop().Sugar())

	run, err := a.Analyze("flat", []float64{5, 5, 5})
	if err != nil {
		t.Fatal(err)
	}
	if run.Reversals != 0 || len(run.Counts) != 0 {
		t.Errorf("expected empty run for a constant series, got %+v", run)
	}
	if run.Summary.TotalCount != 0 {
		t.Errorf("expected zero total count, got %v", run.Summary.TotalCount)
	}

	if _, err := a.Analyze("short", []float64{1}); !errors.Is(err, rainflow.ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	counts, err := rainflow.CountCycles(astmSeries)
	if err != nil {
		t.Fatal(err)
	}
	s := Summarize(counts)

	if s.TotalCount != 3.0 {
		t.Errorf("expected total count 3.0, got %v", s.TotalCount)
	}
	if s.DistinctRanges != 3 {
		t.Errorf("expected 3 distinct ranges, got %d", s.DistinctRanges)
	}
	if s.MaxRange != 9.0 {
		t.Errorf("expected max range 9.0, got %v", s.MaxRange)
	}
	// Count-weighted: (4*1.5 + 8*1.0 + 9*0.5) / 3
	if want := 18.5 / 3.0; math.Abs(s.MeanRange-want) > 1e-12 {
		t.Errorf("expected mean range %v, got %v", want, s.MeanRange)
	}
	// sqrt((16*1.5 + 64*1.0 + 81*0.5) / 3)
	if want := math.Sqrt(128.5 / 3.0); math.Abs(s.RMSRange-want) > 1e-12 {
		t.Errorf("expected RMS range %v, got %v", want, s.RMSRange)
	}
}

func TestBinnedSpectrum(t *testing.T) {
	counts := []rainflow.CycleCount{
		{Range: 4, Count: 1.5},
		{Range: 8, Count: 1.0},
		{Range: 9, Count: 0.5},
	}

	bins, err := BinnedSpectrum(counts, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(bins) != 2 {
		t.Fatalf("expected 2 bins, got %v", bins)
	}
	if bins[0].Lo != 4 || bins[0].Hi != 6.5 || bins[0].Count != 1.5 {
		t.Errorf("unexpected low bin %+v", bins[0])
	}
	// The maximum range lands in the topmost bin, not outside it.
	if bins[1].Lo != 6.5 || bins[1].Hi != 9 || bins[1].Count != 1.5 {
		t.Errorf("unexpected high bin %+v", bins[1])
	}

	total := 0.0
	for _, b := range bins {
		total += b.Count
	}
	if total != 3.0 {
		t.Errorf("rebinning must preserve the total count, got %v", total)
	}
}

func TestBinnedSpectrumEdgeCases(t *testing.T) {
	if _, err := BinnedSpectrum(nil, 0); err == nil {
		t.Error("expected an error for 0 bins")
	}

	bins, err := BinnedSpectrum(nil, 4)
	if err != nil {
		t.Fatal(err)
	}
	if bins != nil {
		t.Errorf("expected nil bins for empty counts, got %v", bins)
	}

	// All cycles at one magnitude collapse to a single bucket.
	bins, err = BinnedSpectrum([]rainflow.CycleCount{{Range: 2, Count: 1.5}}, 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(bins) != 1 || bins[0].Count != 1.5 {
		t.Errorf("expected one degenerate bin, got %v", bins)
	}
}
