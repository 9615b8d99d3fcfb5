package cmd

import (
	"context"
	"os"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/c9s/harmonic/pkg/datasource/csvsource"
	"github.com/c9s/harmonic/pkg/harmonic"
	"github.com/c9s/harmonic/pkg/report"
	"github.com/c9s/harmonic/pkg/types"
)

func init() {
	ScanCmd.Flags().StringSlice("input", nil, "csv file or directory, can be given multiple times")
	ScanCmd.Flags().String("format", "", "csv format: simple, binance or metatrader")
	ScanCmd.Flags().String("scan-type", "", "which patterns to report: all, complete or potential")
	ScanCmd.Flags().String("symbol", "", "symbol label for the reports")
	ScanCmd.Flags().String("output", "", "directory for saving the json reports")
	ScanCmd.Flags().Bool("json", false, "print reports in json format")
	RootCmd.AddCommand(ScanCmd)
}

var ScanCmd = &cobra.Command{
	Use:   "scan",
	Short: "scan csv price data for harmonic patterns",

	// SilenceUsage is an option to silence usage when an error occurs.
	SilenceUsage: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		inputs, err := cmd.Flags().GetStringSlice("input")
		if err != nil {
			return err
		}

		if len(inputs) == 0 && cfg.Source.Path != "" {
			inputs = []string{cfg.Source.Path}
		}
		if len(inputs) == 0 {
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

		outputDirectory, err := cmd.Flags().GetString("output")
		if err != nil {
			return err
		}

		printJSON, err := cmd.Flags().GetBool("json")
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

		detector, err := harmonic.NewDetector(cfg.Scan)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var scanErr error
		var reports []*report.ScanReport

		bar := pb.Full.Start(len(inputs))
		for _, input := range inputs {
			r, err := scanFile(ctx, detector, maker, input, symbolLabel(symbol, cfg, input), scanType)
			if err != nil {
				scanErr = multierr.Append(scanErr, errors.Wrapf(err, "scan %s", input))
				bar.Increment()
				continue
			}

			reports = append(reports, r)
			bar.Increment()
		}
		bar.Finish()

		for _, r := range reports {
			if printJSON {
				if err := r.WriteJSON(os.Stdout); err != nil {
					scanErr = multierr.Append(scanErr, err)
				}
			} else {
				r.Print(os.Stdout, true)
			}

			if outputDirectory != "" {
				fn, err := r.SaveTo(outputDirectory)
				if err != nil {
					scanErr = multierr.Append(scanErr, err)
					continue
				}

				log.Infof("saved report %s", fn)
			}
		}

		return scanErr
	},
}

func scanFile(ctx context.Context, detector *harmonic.Detector, maker csvsource.MakeCSVPriceReader, input, symbol string, scanType types.ScanType) (*report.ScanReport, error) {
	series, err := csvsource.ReadPricesFromCSVWithDecoder(input, maker)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	scan, err := detector.ScanWithType(ctx, series, scanType)
	if err != nil {
		return nil, err
	}

	return report.New(symbol, scanType, detector.Config(), scan, series.Length(), time.Since(start)), nil
}
