package cmd

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/c9s/harmonic/pkg/datasource/csvsource"
	"github.com/c9s/harmonic/pkg/harmonic"
	"github.com/c9s/harmonic/pkg/report"
	"github.com/c9s/harmonic/pkg/types"
	"github.com/c9s/harmonic/pkg/util"
)

func init() {
	WatchCmd.Flags().String("input", "", "csv file or directory to watch")
	WatchCmd.Flags().String("format", "", "csv format: simple, binance or metatrader")
	WatchCmd.Flags().String("scan-type", "", "which patterns to report: all, complete or potential")
	WatchCmd.Flags().String("symbol", "", "symbol label for the reports")
	WatchCmd.Flags().String("interval", "1/30s", "poll rate limit, for example 1/30s or 2+1/5s")
	RootCmd.AddCommand(WatchCmd)
}

var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "watch csv price data and re-scan whenever it changes",

	// SilenceUsage is an option to silence usage when an error occurs.
	SilenceUsage: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		input, err := cmd.Flags().GetString("input")
		if err != nil {
			return err
		}

		if input == "" {
			input = cfg.Source.Path
		}
		if input == "" {
			return errors.New("--input option is required")
		}

		format, err := resolveFormat(cmd, cfg)
		if err != nil {
			return err
		}

		scanTypeStr, err := cmd.Flags().GetString("scan-type")
		if err != nil {
			return err
		}

		symbol, err := cmd.Flags().GetString("symbol")
		if err != nil {
			return err
		}

		interval, err := cmd.Flags().GetString("interval")
		if err != nil {
			return err
		}

		scanType, err := types.ParseScanType(scanTypeStr)
		if err != nil {
			return err
		}

		maker, err := csvsource.ReaderForFormat(format)
		if err != nil {
			return err
		}

		limiter, err := util.ParseRateLimitSyntax(interval)
		if err != nil {
			return err
		}

		detector, err := harmonic.NewDetector(cfg.Scan)
		if err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		log.Infof("watching %s, poll rate %s", input, interval)

		var lastMod time.Time
		for {
			if err := limiter.Wait(ctx); err != nil {
				log.Infof("exiting...")
				return nil
			}

			mod, err := latestModTime(input)
			if util.LogErr(err, "cannot stat %s", input) {
				continue
			}

			if !mod.After(lastMod) {
				continue
			}
			lastMod = mod

			err = watchOnce(ctx, detector, maker, input, symbolLabel(symbol, cfg, input), scanType)
			util.LogErr(err, "scan %s failed", input)
		}
	},
}

func watchOnce(ctx context.Context, detector *harmonic.Detector, maker csvsource.MakeCSVPriceReader, input, symbol string, scanType types.ScanType) error {
	series, err := csvsource.ReadPricesFromCSVWithDecoder(input, maker)
	if err != nil {
		return err
	}

	start := time.Now()
	scan, err := detector.ScanWithType(ctx, series, scanType)
	if err != nil {
		return err
	}

	r := report.New(symbol, scanType, detector.Config(), scan, series.Length(), time.Since(start))
	r.Print(os.Stdout, true)

	last, ok := series.Last()
	if !ok {
		return nil
	}

	for _, p := range scan.PotentialPatterns {
		forecast := detector.PredictCompletion(p, last.Price)

		action := "wait"
		if forecast.Plan.ShouldEnter {
			action = "enter"
		}

		eta := ""
		if barDur := series.BarDuration(); barDur > 0 {
			eta = fmt.Sprintf(" (~%s)", time.Duration(forecast.EstimatedBars)*barDur)
		}

		log.Infof("%s: D projected at %.4f in ~%d bars%s, probability %.2f => %s (%s)",
			p.String(), forecast.ProjectedD, forecast.EstimatedBars, eta, forecast.Probability,
			action, forecast.Plan.Reason)
	}

	return nil
}

// latestModTime finds the newest modification time among the csv files
// under path, or of path itself when it is a single file.
func latestModTime(path string) (time.Time, error) {
	var latest time.Time

	err := filepath.WalkDir(path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(path) != ".csv" {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.ModTime().After(latest) {
			latest = info.ModTime()
		}
		return nil
	})

	return latest, err
}
