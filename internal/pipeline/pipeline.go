// Package pipeline sequences the four stages and enforces the
// checkpoint/resume contract: each stage persists its full output before
// the next starts, and any stage can be re-run standalone given its
// predecessor's artifact.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/piaasbjornsen/graphrag-prosjektoppgave/internal/align"
	"github.com/piaasbjornsen/graphrag-prosjektoppgave/internal/canon"
	"github.com/piaasbjornsen/graphrag-prosjektoppgave/internal/config"
	"github.com/piaasbjornsen/graphrag-prosjektoppgave/internal/validate"
)

// TermSource supplies the two reference ontology term sets.
type TermSource interface {
	Classes(ctx context.Context) (map[string]string, error)
	Properties(ctx context.Context) (map[string]string, error)
}

// Env carries everything a stage needs. The external capabilities are
// interfaces so tests can substitute deterministic stubs.
type Env struct {
	Cfg       *config.Config
	Logger    *slog.Logger
	Suggester canon.Suggester
	Embedder  align.Embedder
	Terms     TermSource
}

// Stage is one numbered pipeline step.
type Stage struct {
	Num  int
	Name string
	Run  func(ctx context.Context, env *Env) error
}

// FirstStage and LastStage bound the valid stage numbers.
const (
	FirstStage = 1
	LastStage  = 4
)

// Stages returns the pipeline definition in execution order.
func Stages() []Stage {
	return []Stage{
		{1, "Extract from CSV export", runExtract},
		{2, "Canonicalize types and predicates", runCanonicalize},
		{3, "Align to DBpedia ontology", runAlign},
		{4, "Assemble RDF graph", runAssemble},
	}
}

// Run executes stages in [from, to]. It halts at the first failure and
// returns that stage's error. Completing stage 4 triggers the automatic
// validation pass over the final artifact.
func Run(ctx context.Context, env *Env, from, to int) error {
	if from < FirstStage || to > LastStage || from > to {
		return fmt.Errorf("invalid stage range %d..%d", from, to)
	}

	fmt.Println(strings.Repeat("=", 70))
	fmt.Println("  RDF PIPELINE - GraphRAG to DBpedia RDF")
	fmt.Println(strings.Repeat("=", 70))

	for _, stage := range Stages() {
		if stage.Num < from || stage.Num > to {
			continue
		}
		fmt.Printf("\n%s\nSTEP %d: %s\n%s\n",
			strings.Repeat("-", 70), stage.Num, strings.ToUpper(stage.Name), strings.Repeat("-", 70))
		if err := stage.Run(ctx, env); err != nil {
			return fmt.Errorf("stage %d (%s): %w", stage.Num, stage.Name, err)
		}
	}

	if to >= LastStage {
		fmt.Printf("\n%s\nVALIDATION\n%s\n", strings.Repeat("-", 70), strings.Repeat("-", 70))
		rep, err := validate.Run(env.Cfg.GraphPath())
		if err != nil {
			return fmt.Errorf("validating output: %w", err)
		}
		fmt.Printf("  %d triples (%d labels, %d types, %d relationships)\n",
			rep.Triples, rep.Labels, rep.Types, rep.Relationships)
	}

	fmt.Println("\n" + strings.Repeat("=", 70))
	fmt.Println("  PIPELINE COMPLETE")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("\nOutput: %s\n", env.Cfg.GraphPath())
	return nil
}
