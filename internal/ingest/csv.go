// Package ingest loads scalar load histories from CSV files recorded
// by data loggers. Parsing lives here so the rainflow core stays free
// of I/O concerns.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// CSVOptions selects how a load-history CSV is interpreted.
type CSVOptions struct {
	// Column is the zero-based index of the load value column.
	Column int

	// SkipHeader drops the first row before parsing values.
	SkipHeader bool
}

// LoadCSV reads the load series from the file at path.
func LoadCSV(path string, opts CSVOptions) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening series file: %w", err)
	}
	defer f.Close()

	series, err := ReadSeries(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return series, nil
}

// ReadSeries parses a load series from CSV data. Rows may have varying
// field counts as long as the value column is present; malformed
// values are errors rather than silently dropped samples.
func ReadSeries(r io.Reader, opts CSVOptions) ([]float64, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var series []float64
	row := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row %d: %w", row+1, err)
		}
		row++

		if opts.SkipHeader && row == 1 {
			continue
		}
		if opts.Column >= len(record) {
			return nil, fmt.Errorf("row %d has %d columns, need column %d", row, len(record), opts.Column)
		}

		v, err := strconv.ParseFloat(record[opts.Column], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing %q: %w", row, record[opts.Column], err)
		}
		series = append(series, v)
	}

	return series, nil
}
