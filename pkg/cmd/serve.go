package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/c9s/harmonic/pkg/harmonic"
	"github.com/c9s/harmonic/pkg/server"
)

func init() {
	ServeCmd.Flags().String("bind", "", "server bind address, overrides the config")
	RootCmd.AddCommand(ServeCmd)
}

var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "run the harmonic scan http api",

	// SilenceUsage is an option to silence usage when an error occurs.
	SilenceUsage: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		bind, err := cmd.Flags().GetString("bind")
		if err != nil {
			return err
		}
		if bind != "" {
			cfg.Server.Bind = bind
		}

		detector, err := harmonic.NewDetector(cfg.Scan)
		if err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		srv := &server.Server{
			Config:   cfg,
			Detector: detector,
		}

		return srv.Run(ctx)
	},
}
