package cmd

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/rifflock/lfshook"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/c9s/harmonic/pkg/config"
)

// loadConfig reads the configuration file given by the --config flag and
// applies its log section to the global logger.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	if cfg.Log.Level != "" {
		level, err := log.ParseLevel(cfg.Log.Level)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid log level %q", cfg.Log.Level)
		}
		log.SetLevel(level)
	}

	if cfg.Log.Dir != "" {
		writer := &lumberjack.Logger{
			Filename:   filepath.Join(cfg.Log.Dir, "harmonic.log"),
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
		}
		log.AddHook(
			lfshook.NewHook(
				lfshook.WriterMap{
					log.DebugLevel: writer,
					log.InfoLevel:  writer,
					log.WarnLevel:  writer,
					log.ErrorLevel: writer,
					log.FatalLevel: writer,
				},
				&log.JSONFormatter{},
			),
		)
	}

	return cfg, nil
}

// resolveFormat prefers the --format flag over the config file source section.
func resolveFormat(cmd *cobra.Command, cfg *config.Config) (string, error) {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return "", err
	}
	if format == "" {
		format = cfg.Source.Format
	}
	return format, nil
}

// symbolLabel labels a report, falling back to the input file name.
func symbolLabel(symbol string, cfg *config.Config, input string) string {
	if symbol != "" {
		return symbol
	}
	if cfg.Symbol != "" {
		return cfg.Symbol
	}
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
