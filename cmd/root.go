// Package cmd wires the pipeline into the rdfpipe command line tool.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/piaasbjornsen/graphrag-prosjektoppgave/internal/config"
)

var (
	artifactsFlag string
	workdirFlag   string
	configFlag    string
	verboseFlag   bool
)

var rootCmd = &cobra.Command{
	Use:   "rdfpipe",
	Short: "Convert GraphRAG knowledge-graph exports to DBpedia-aligned RDF",
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&artifactsFlag, "artifacts", "a", "", "Path to the GraphRAG export directory")
	rootCmd.PersistentFlags().StringVar(&workdirFlag, "workdir", "", "Root directory for pipeline output and caches")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")
}

// buildConfig loads configuration and layers the CLI flags on top.
// Environment variables keep the highest precedence, matching the
// discovery order elsewhere: env > flag > config file > default.
func buildConfig() (*config.Config, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return nil, err
	}
	if artifactsFlag != "" && os.Getenv("RDFPIPE_ARTIFACTS") == "" {
		cfg.ArtifactsDir = artifactsFlag
	}
	if workdirFlag != "" && os.Getenv("RDFPIPE_WORKDIR") == "" {
		cfg.WorkDir = workdirFlag
	}
	return cfg, nil
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verboseFlag {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
