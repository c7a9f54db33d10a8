package ingest

import (
	"strings"
	"testing"
)

func TestReadSeries(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		opts     CSVOptions
		expected []float64
		wantErr  bool
	}{
		{
			name:     "single column",
			input:    "-2\n1\n-3\n5\n",
			expected: []float64{-2, 1, -3, 5},
		},
		{
			name:     "header skipped",
			input:    "load_kn\n1.5\n-0.5\n",
			opts:     CSVOptions{SkipHeader: true},
			expected: []float64{1.5, -0.5},
		},
		{
			name:     "value column selected from timestamped rows",
			input:    "2026-01-02T15:04:05Z,12.25\n2026-01-02T15:04:06Z,-3.5\n",
			opts:     CSVOptions{Column: 1},
			expected: []float64{12.25, -3.5},
		},
		{
			name:     "blank lines tolerated",
			input:    "1\n\n2\n\n3\n",
			expected: []float64{1, 2, 3},
		},
		{
			name:    "malformed value is an error",
			input:   "1\nnot-a-number\n3\n",
			wantErr: true,
		},
		{
			name:    "missing column is an error",
			input:   "1,2\n3\n",
			opts:    CSVOptions{Column: 1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series, err := ReadSeries(strings.NewReader(tt.input), tt.opts)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected an error, got %v", series)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if len(series) != len(tt.expected) {
				t.Fatalf("expected %v, got %v", tt.expected, series)
			}
			for i, v := range series {
				if v != tt.expected[i] {
					t.Errorf("sample %d: expected %v, got %v", i, tt.expected[i], v)
				}
			}
		})
	}
}
