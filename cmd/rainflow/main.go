// Command rainflow counts fatigue cycles in a CSV load history and
// prints the resulting load spectrum.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/strainlab/rainflow/internal/analysis"
	"github.com/strainlab/rainflow/internal/ingest"
	"github.com/strainlab/rainflow/internal/log"
	"github.com/vmihailenco/msgpack/v5"
)

func main() {
	var (
		input      = flag.String("input", "", "Path to the load-history CSV file (required)")
		column     = flag.Int("column", 0, "Zero-based index of the load value column")
		skipHeader = flag.Bool("skip-header", false, "Skip the first CSV row")
		channel    = flag.String("channel", "cli", "Channel name recorded on the analysis run")
		bins       = flag.Int("bins", 0, "Also print a binned spectrum with this many bins")
		csvOutput  = flag.String("csv", "", "Optional CSV output file for the cycle counts")
		mpOutput   = flag.String("msgpack", "", "Optional MessagePack output file for the full run")
		debug      = flag.Bool("debug", false, "Turn on debugging output")
	)
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Error: -input is required. Run with -h for help.")
		os.Exit(1)
	}

	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	series, err := ingest.LoadCSV(*input, ingest.CSVOptions{
		Column:     *column,
		SkipHeader: *skipHeader,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading series: %v\n", err)
		os.Exit(1)
	}

	analyzer := analysis.NewAnalyzer(log.GetSugaredLogger())
	run, err := analyzer.Analyze(*channel, series)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error analyzing series: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Rainflow Cycle Counts (ASTM E1049-85)\n")
	fmt.Printf("=====================================\n\n")
	fmt.Printf("Input:     %s (%d samples, %d reversals)\n", *input, run.Samples, run.Reversals)
	fmt.Printf("Cycles:    %d full, %d half\n\n", run.FullCycles, run.HalfCycles)

	fmt.Printf("%12s  %8s\n", "Range", "Count")
	for _, c := range run.Counts {
		fmt.Printf("%12.4f  %8.1f\n", c.Range, c.Count)
	}

	s := run.Summary
	fmt.Printf("\nSpectrum summary:\n")
	fmt.Printf("  Total count:  %.1f\n", s.TotalCount)
	fmt.Printf("  Max range:    %.4f\n", s.MaxRange)
	fmt.Printf("  Mean range:   %.4f\n", s.MeanRange)
	fmt.Printf("  RMS range:    %.4f\n", s.RMSRange)

	if *bins > 0 {
		spectrum, err := analysis.BinnedSpectrum(run.Counts, *bins)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error binning spectrum: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nBinned spectrum (%d bins):\n", *bins)
		for _, b := range spectrum {
			fmt.Printf("  [%10.4f, %10.4f)  %8.1f\n", b.Lo, b.Hi, b.Count)
		}
	}

	if *csvOutput != "" {
		if err := exportCSV(*csvOutput, run); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing CSV: %v\n", err)
		} else {
			fmt.Printf("\nCounts exported to: %s\n", *csvOutput)
		}
	}

	if *mpOutput != "" {
		if err := exportMsgPack(*mpOutput, run); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing MessagePack: %v\n", err)
		} else {
			fmt.Printf("\nRun exported to: %s\n", *mpOutput)
		}
	}
}

func exportCSV(path string, run *analysis.Run) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"range", "count"}); err != nil {
		return err
	}
	for _, c := range run.Counts {
		record := []string{
			strconv.FormatFloat(c.Range, 'g', -1, 64),
			strconv.FormatFloat(c.Count, 'g', -1, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func exportMsgPack(path string, run *analysis.Run) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := msgpack.NewEncoder(f)
	enc.SetCustomStructTag("json")
	return enc.Encode(run)
}
