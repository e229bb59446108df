package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piaasbjornsen/graphrag-prosjektoppgave/internal/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the final RDF artifact",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildConfig()
		if err != nil {
			return err
		}

		rep, err := validate.Run(cfg.GraphPath())
		if err != nil {
			return err
		}

		fmt.Printf("%s\n", cfg.GraphPath())
		fmt.Printf("  prefixes:      %v\n", rep.Prefixes)
		fmt.Printf("  triples:       %d\n", rep.Triples)
		fmt.Printf("  labels:        %d\n", rep.Labels)
		fmt.Printf("  types:         %d\n", rep.Types)
		fmt.Printf("  relationships: %d\n", rep.Relationships)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
