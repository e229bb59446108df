package pipeline

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/piaasbjornsen/graphrag-prosjektoppgave/internal/align"
	"github.com/piaasbjornsen/graphrag-prosjektoppgave/internal/assemble"
	"github.com/piaasbjornsen/graphrag-prosjektoppgave/internal/canon"
	"github.com/piaasbjornsen/graphrag-prosjektoppgave/internal/extract"
	"github.com/piaasbjornsen/graphrag-prosjektoppgave/internal/model"
	"github.com/piaasbjornsen/graphrag-prosjektoppgave/internal/ontology"
)

func runExtract(ctx context.Context, env *Env) error {
	art, err := extract.Run(env.Cfg.EntitiesCSV(), env.Cfg.RelationshipsCSV())
	if err != nil {
		return err
	}

	fmt.Printf("  %d entities, %d distinct types\n", len(art.Entities), len(art.Types))
	fmt.Printf("  %d relationships, %d distinct predicate descriptions\n",
		len(art.Relationships), len(art.Predicates))

	return art.Save(env.Cfg.ExtractedPath())
}

func runCanonicalize(ctx context.Context, env *Env) error {
	art, err := model.LoadArtifact(env.Cfg.ExtractedPath())
	if err != nil {
		return err
	}

	c := canon.New(env.Suggester, env.Cfg.BatchSize, env.Logger)

	typeItems := make([]canon.Item, 0, len(art.Types))
	for _, label := range sortedKeys(art.Types) {
		typeItems = append(typeItems, canon.Item{Label: label})
	}
	typeRes := c.Canonicalize(ctx, canon.CategoryType, typeItems)
	for label, token := range typeRes.Tokens {
		art.Types[label].Canonical = token
	}
	fmt.Printf("  types: %s\n", typeRes)

	predItems := make([]canon.Item, 0, len(art.Predicates))
	for _, label := range sortedKeys(art.Predicates) {
		entry := art.Predicates[label]
		predItems = append(predItems, canon.Item{
			Label:  label,
			Source: entry.ExampleSource,
			Target: entry.ExampleTarget,
		})
	}
	predRes := c.Canonicalize(ctx, canon.CategoryPredicate, predItems)
	for label, token := range predRes.Tokens {
		art.Predicates[label].Canonical = token
	}
	fmt.Printf("  predicates: %s\n", predRes)

	return art.Advance(2).Save(env.Cfg.RefinedPath())
}

func runAlign(ctx context.Context, env *Env) error {
	art, err := model.LoadArtifact(env.Cfg.RefinedPath())
	if err != nil {
		return err
	}

	classes, err := env.Terms.Classes(ctx)
	if err != nil {
		return err
	}
	properties, err := env.Terms.Properties(ctx)
	if err != nil {
		return err
	}

	aligner := align.NewAligner(env.Embedder, env.Logger)

	fmt.Printf("  mapping %d types (threshold %.2f)\n", len(art.Types), env.Cfg.TypeThreshold)
	var typeFallbacks int
	for _, label := range sortedKeys(art.Types) {
		entry := art.Types[label]
		m, err := aligner.Align(ctx, entry.Canonical, ontology.CategoryClasses,
			classes, env.Cfg.TypeThreshold, env.Cfg.FallbackClass)
		if err != nil {
			return err
		}
		entry.Class = m.TermID
		entry.URI = env.Cfg.OntologyNamespace + m.TermID
		entry.Similarity = round3(m.Score)
		entry.Fallback = m.Fallback
		entry.BestMatch = m.BestMatch
		if m.Fallback {
			typeFallbacks++
		}
	}
	fmt.Printf("  types: %d mapped, %d fallback to %s\n",
		len(art.Types)-typeFallbacks, typeFallbacks, env.Cfg.FallbackClass)

	fmt.Printf("  mapping %d predicates (threshold %.2f)\n", len(art.Predicates), env.Cfg.PredicateThreshold)
	var predFallbacks int
	for _, label := range sortedKeys(art.Predicates) {
		entry := art.Predicates[label]
		m, err := aligner.Align(ctx, entry.Canonical, ontology.CategoryProperties,
			properties, env.Cfg.PredicateThreshold, env.Cfg.FallbackPredicate)
		if err != nil {
			return err
		}
		entry.Property = m.TermID
		entry.URI = env.Cfg.OntologyNamespace + m.TermID
		entry.Similarity = round3(m.Score)
		entry.Fallback = m.Fallback
		entry.BestMatch = m.BestMatch
		if m.Fallback {
			predFallbacks++
		}
	}
	fmt.Printf("  predicates: %d mapped, %d fallback to %s\n",
		len(art.Predicates)-predFallbacks, predFallbacks, env.Cfg.FallbackPredicate)

	return art.Advance(3).Save(env.Cfg.MappedPath())
}

func runAssemble(ctx context.Context, env *Env) error {
	art, err := model.LoadArtifact(env.Cfg.MappedPath())
	if err != nil {
		return err
	}

	g, sum := assemble.Run(art, assemble.Config{
		EntityNamespace:   env.Cfg.EntityNamespace,
		OntologyNamespace: env.Cfg.OntologyNamespace,
		FallbackType:      env.Cfg.FallbackEntityType,
		FallbackPredicate: env.Cfg.FallbackPredicate,
	})

	fmt.Printf("  %d entities (%d typed, %d fallback)\n",
		sum.EntitiesAdded, sum.EntitiesTyped, sum.EntitiesFallback)
	fmt.Printf("  %d relationships (%d skipped)\n",
		sum.RelationshipsAdded, sum.RelationshipsSkipped)
	fmt.Printf("  %d triples total\n", g.Len())

	ttl := g.Turtle()
	if err := os.MkdirAll(env.Cfg.OutputDir(), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	if err := os.WriteFile(env.Cfg.GraphPath(), []byte(ttl), 0o644); err != nil {
		return fmt.Errorf("writing graph: %w", err)
	}

	fmt.Println("\n  Sample:")
	for i, line := range strings.SplitN(ttl, "\n", sampleLines+1) {
		if i == sampleLines {
			break
		}
		fmt.Printf("    %s\n", line)
	}
	return nil
}

// sampleLines bounds the Turtle preview printed after assembly.
const sampleLines = 10

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// sortedKeys keeps batch order and registry iteration deterministic.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
