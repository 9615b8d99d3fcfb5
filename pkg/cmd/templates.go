package cmd

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/c9s/harmonic/pkg/harmonic"
	"github.com/c9s/harmonic/pkg/style"
	"github.com/c9s/harmonic/pkg/types"
)

func init() {
	RootCmd.AddCommand(TemplatesCmd)
}

var TemplatesCmd = &cobra.Command{
	Use:          "templates",
	Short:        "list the built-in harmonic pattern templates",
	SilenceUsage: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		registry := harmonic.NewTemplateRegistry(cfg.Scan.FibTolerance)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetStyle(*style.NewDefaultTableStyle())
		t.AppendHeader(table.Row{
			"pattern", "direction", "ab/xa", "bc/ab", "cd/bc", "ad/xa", "reliability",
		})

		for _, tpl := range registry.All() {
			t.AppendRow(table.Row{
				string(tpl.Type),
				style.Direction(tpl.Direction, true),
				formatBand(tpl.ABXA),
				formatBand(tpl.BCAB),
				formatBand(tpl.CDBC),
				formatBand(tpl.ADXA),
				fmt.Sprintf("%.0f%%", tpl.Reliability),
			})
		}

		t.Render()
		return nil
	},
}

func formatBand(band types.RatioBand) string {
	return fmt.Sprintf("%.3f (%.3f..%.3f)", band.Ideal, band.Min, band.Max)
}
