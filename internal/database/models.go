package database

import (
	"time"

	"github.com/strainlab/rainflow/internal/analysis"
	"github.com/strainlab/rainflow/pkg/rainflow"
)

// RunRecord is a persisted analysis run
type RunRecord struct {
	ID         string    `gorm:"primaryKey;column:id"`
	Channel    string    `gorm:"column:channel;not null;index"`
	AnalyzedAt time.Time `gorm:"column:analyzed_at;not null"`
	Samples    int       `gorm:"column:samples;not null"`
	Reversals  int       `gorm:"column:reversals;not null"`
	FullCycles int       `gorm:"column:full_cycles;not null"`
	HalfCycles int       `gorm:"column:half_cycles;not null"`

	// Denormalized summary for list views
	TotalCount float64 `gorm:"column:total_count"`
	MaxRange   float64 `gorm:"column:max_range"`
	MeanRange  float64 `gorm:"column:mean_range"`
	RMSRange   float64 `gorm:"column:rms_range"`

	Counts []CountRecord `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for RunRecord
func (RunRecord) TableName() string {
	return "analysis_runs"
}

// CountRecord is one (range, count) row of a persisted run
type CountRecord struct {
	ID         uint    `gorm:"primaryKey;autoIncrement;column:id"`
	RunID      string  `gorm:"column:run_id;not null;index"`
	CycleRange float64 `gorm:"column:cycle_range;not null"`
	CycleCount float64 `gorm:"column:cycle_count;not null"`
}

// TableName specifies the table name for CountRecord
func (CountRecord) TableName() string {
	return "cycle_counts"
}

// newRunRecord flattens an analysis run into its storage form
func newRunRecord(run *analysis.Run) *RunRecord {
	rec := &RunRecord{
		ID:         run.ID,
		Channel:    run.Channel,
		AnalyzedAt: run.AnalyzedAt,
		Samples:    run.Samples,
		Reversals:  run.Reversals,
		FullCycles: run.FullCycles,
		HalfCycles: run.HalfCycles,
		TotalCount: run.Summary.TotalCount,
		MaxRange:   run.Summary.MaxRange,
		MeanRange:  run.Summary.MeanRange,
		RMSRange:   run.Summary.RMSRange,
	}
	for _, c := range run.Counts {
		rec.Counts = append(rec.Counts, CountRecord{
			RunID:      run.ID,
			CycleRange: c.Range,
			CycleCount: c.Count,
		})
	}
	return rec
}

// ToRun rebuilds the analysis run from its storage form. Count rows
// keep their persisted ascending order.
func (r *RunRecord) ToRun() *analysis.Run {
	run := &analysis.Run{
		ID:         r.ID,
		Channel:    r.Channel,
		AnalyzedAt: r.AnalyzedAt,
		Samples:    r.Samples,
		Reversals:  r.Reversals,
		FullCycles: r.FullCycles,
		HalfCycles: r.HalfCycles,
		Summary: analysis.SpectrumSummary{
			TotalCount:     r.TotalCount,
			DistinctRanges: len(r.Counts),
			MaxRange:       r.MaxRange,
			MeanRange:      r.MeanRange,
			RMSRange:       r.RMSRange,
		},
	}
	for _, c := range r.Counts {
		run.Counts = append(run.Counts, rainflow.CycleCount{
			Range: c.CycleRange,
			Count: c.CycleCount,
		})
	}
	return run
}
