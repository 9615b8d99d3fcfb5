package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"

	"github.com/c9s/harmonic/pkg/harmonic"
	"github.com/c9s/harmonic/pkg/style"
	"github.com/c9s/harmonic/pkg/types"
)

// ScanReport wraps one scan result with the context needed to read it
// later: an identifier, the symbol, the effective configuration and
// timing numbers.
type ScanReport struct {
	ID           string             `json:"id"`
	Symbol       string             `json:"symbol,omitempty"`
	GeneratedAt  time.Time          `json:"generatedAt"`
	ScanType     types.ScanType     `json:"scanType"`
	SeriesLength int                `json:"seriesLength"`
	ElapsedMs    float64            `json:"elapsedMs"`
	Config       harmonic.Config    `json:"config"`
	Scan         *types.PatternScan `json:"scan"`
}

// New stamps a scan result into a report envelope.
func New(symbol string, scanType types.ScanType, cfg harmonic.Config, scan *types.PatternScan, seriesLength int, elapsed time.Duration) *ScanReport {
	return &ScanReport{
		ID:           uuid.New().String(),
		Symbol:       symbol,
		GeneratedAt:  time.Now().UTC(),
		ScanType:     scanType,
		SeriesLength: seriesLength,
		ElapsedMs:    float64(elapsed.Microseconds()) / 1e3,
		Config:       cfg,
		Scan:         scan,
	}
}

// WriteJSON renders the report as indented JSON.
func (r *ScanReport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// SaveTo writes the report into dir as scan-<id>.json and returns the
// file name.
func (r *ScanReport) SaveTo(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrapf(err, "cannot create output directory %s", dir)
	}

	fn := filepath.Join(dir, fmt.Sprintf("scan-%s.json", r.ID))
	f, err := os.Create(fn)
	if err != nil {
		return "", errors.Wrapf(err, "cannot create report file %s", fn)
	}
	defer f.Close()

	if err := r.WriteJSON(f); err != nil {
		return "", errors.Wrap(err, "cannot write report")
	}

	return fn, nil
}

// Print renders a human readable summary with one table row per
// pattern.
func (r *ScanReport) Print(f io.Writer, withColor bool) {
	var write func(io.Writer, string, ...interface{})
	if withColor {
		write = color.New(color.FgHiYellow).FprintfFunc()
	} else {
		write = func(a io.Writer, format string, args ...interface{}) {
			fmt.Fprintf(a, format, args...)
		}
	}

	write(f, "---- Harmonic Scan %s ----\n", r.ID)
	if r.Symbol != "" {
		write(f, "symbol: %s\n", r.Symbol)
	}
	write(f, "series: %d points, scanned in %.1fms\n", r.SeriesLength, r.ElapsedMs)
	write(f, "patterns: %d total, %d complete, %d potential\n",
		len(r.Scan.Patterns), len(r.Scan.CompletedPatterns), len(r.Scan.PotentialPatterns))

	if len(r.Scan.Patterns) == 0 {
		write(f, "no harmonic structure found\n")
		return
	}

	write(f, "avg reliability: %.1f, fibonacci accuracy: %.3f\n",
		r.Scan.Metrics.AverageReliability, r.Scan.Metrics.FibonacciAccuracy)

	t := table.NewWriter()
	t.SetOutputMirror(f)
	t.SetStyle(*style.NewDefaultTableStyle())
	t.AppendHeader(table.Row{
		"pattern", "direction", "x", "a", "b", "c", "d", "score", "confidence", "entry", "stop", "target 1", "r/r",
	})

	for _, p := range r.Scan.Patterns {
		d := "-"
		if p.D != nil {
			d = fmt.Sprintf("%.4f", p.D.Price)
		}

		var target1 float64
		if len(p.Levels.Targets) > 0 {
			target1 = p.Levels.Targets[0]
		}

		t.AppendRow(table.Row{
			string(p.Type),
			style.Direction(p.Direction, withColor),
			fmt.Sprintf("%.4f", p.X.Price),
			fmt.Sprintf("%.4f", p.A.Price),
			fmt.Sprintf("%.4f", p.B.Price),
			fmt.Sprintf("%.4f", p.C.Price),
			d,
			fmt.Sprintf("%.3f", p.Completion.ValidationScore),
			fmt.Sprintf("%.0f%%", p.Completion.ConfidenceScore),
			fmt.Sprintf("%.4f", p.Levels.Entry),
			fmt.Sprintf("%.4f", p.Levels.StopLoss),
			fmt.Sprintf("%.4f", target1),
			fmt.Sprintf("%.2f", p.Levels.RiskReward),
		})
	}

	t.Render()
}
