// Command tetsurf extracts boundary surfaces from tetrahedral lattices.
package main

import (
	"fmt"
	"os"

	"github.com/soypat/tetsurf/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath string
	version    = "dev"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tetsurf",
		Short: "Extract boundary surfaces of labelled tetrahedral complexes",
		Long: `tetsurf meshes a box with a body centered cubic tetrahedral lattice,
labels each cell with a configurable geometric predicate and extracts
the triangles separating included cells from excluded ones.

Configuration is read from a YAML file and TETSURF_ prefixed environment
variables, e.g. TETSURF_PREDICATE_KIND=aspect.`,
		Version:      version,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML configuration")
	root.AddCommand(newExtractCmd(), newStatsCmd())
	return root
}

// setup loads the configuration and builds the logger commands report to.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	log, err := newLogger(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func newLogger(cfg config.Log) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	if cfg.Format == "json" {
		enc = zapcore.NewJSONEncoder(encoderCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(encoderCfg)
	}
	core := zapcore.NewCore(enc, zapcore.Lock(os.Stderr), level)
	return zap.New(core), nil
}
