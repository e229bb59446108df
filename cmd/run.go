package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/piaasbjornsen/graphrag-prosjektoppgave/internal/align"
	"github.com/piaasbjornsen/graphrag-prosjektoppgave/internal/canon"
	"github.com/piaasbjornsen/graphrag-prosjektoppgave/internal/ontology"
	"github.com/piaasbjornsen/graphrag-prosjektoppgave/internal/pipeline"
)

var (
	stepFlag int
	fromFlag int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the pipeline (all stages, one stage, or from a stage onwards)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if stepFlag != 0 && fromFlag != 0 {
			return fmt.Errorf("--step and --from are mutually exclusive")
		}

		from, to := pipeline.FirstStage, pipeline.LastStage
		switch {
		case stepFlag != 0:
			from, to = stepFlag, stepFlag
		case fromFlag != 0:
			from = fromFlag
		}
		if from < pipeline.FirstStage || to > pipeline.LastStage {
			return fmt.Errorf("stage must be between %d and %d", pipeline.FirstStage, pipeline.LastStage)
		}

		cfg, err := buildConfig()
		if err != nil {
			return err
		}
		logger := newLogger()

		// Running the extraction stage needs the GraphRAG export.
		if from == pipeline.FirstStage {
			if _, err := os.Stat(cfg.EntitiesCSV()); err != nil {
				return fmt.Errorf("entities export not found at %s (set --artifacts or RDFPIPE_ARTIFACTS)", cfg.EntitiesCSV())
			}
			if _, err := os.Stat(cfg.RelationshipsCSV()); err != nil {
				return fmt.Errorf("relationships export not found at %s", cfg.RelationshipsCSV())
			}
		}

		terms := ontology.NewSource(
			cfg.CachePath(),
			cfg.SparqlEndpoint,
			time.Duration(cfg.SparqlTimeoutSeconds)*time.Second,
			logger,
		)
		defer terms.Close()

		env := &pipeline.Env{
			Cfg:    cfg,
			Logger: logger,
			Suggester: canon.NewOllamaSuggester(
				cfg.Suggest.BaseURL, cfg.Suggest.Model,
				time.Duration(cfg.Suggest.TimeoutSeconds)*time.Second, logger),
			Embedder: align.NewOllamaEmbedder(
				cfg.Embed.BaseURL, cfg.Embed.Model,
				time.Duration(cfg.Embed.TimeoutSeconds)*time.Second),
			Terms: terms,
		}

		return pipeline.Run(cmd.Context(), env, from, to)
	},
}

func init() {
	runCmd.Flags().IntVarP(&stepFlag, "step", "s", 0, "Run only this stage (1-4)")
	runCmd.Flags().IntVarP(&fromFlag, "from", "f", 0, "Run from this stage onwards")
	rootCmd.AddCommand(runCmd)
}
