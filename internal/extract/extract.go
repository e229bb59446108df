// Package extract implements stage 1: scanning the GraphRAG CSV export
// into the initial entity/relationship artifact and building the
// distinct-label registries for types and predicates.
package extract

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/piaasbjornsen/graphrag-prosjektoppgave/internal/model"
)

const maxExampleEntities = 3

var (
	llmMarkerRe   = regexp.MustCompile(`<\|[A-Z]+\|>`)
	llmTrailingRe = regexp.MustCompile(`\)\s*\("entity".*$`)
)

// CleanString strips wrapping quotes and LLM artifacts that GraphRAG
// leaves in entity and relationship fields.
func CleanString(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = s[1 : len(s)-1]
	}
	s = llmMarkerRe.ReplaceAllString(s, "")
	s = llmTrailingRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// Run reads the entity and relationship tables and produces the stage 1
// artifact. Registries hold exactly one entry per distinct raw label.
func Run(entitiesPath, relationshipsPath string) (*model.Artifact, error) {
	art := model.NewArtifact(1)

	if err := readEntities(entitiesPath, art); err != nil {
		return nil, err
	}
	if err := readRelationships(relationshipsPath, art); err != nil {
		return nil, err
	}
	return art, nil
}

func readEntities(path string, art *model.Artifact) error {
	rows, err := readTable(path, []string{"id", "name", "type"})
	if err != nil {
		return fmt.Errorf("reading entities: %w", err)
	}

	for _, row := range rows {
		ent := model.Entity{
			ID:           strings.TrimSpace(row["id"]),
			Name:         CleanString(row["name"]),
			OriginalType: CleanString(row["type"]),
		}
		art.Entities = append(art.Entities, ent)

		if ent.OriginalType == "" {
			continue
		}
		entry, ok := art.Types[ent.OriginalType]
		if !ok {
			entry = &model.TypeEntry{}
			art.Types[ent.OriginalType] = entry
		}
		entry.Count++
		if len(entry.Examples) < maxExampleEntities {
			entry.Examples = append(entry.Examples, ent.Name)
		}
	}
	return nil
}

func readRelationships(path string, art *model.Artifact) error {
	rows, err := readTable(path, []string{"source", "target", "description"})
	if err != nil {
		return fmt.Errorf("reading relationships: %w", err)
	}

	for _, row := range rows {
		rel := model.Relationship{
			Source:              CleanString(row["source"]),
			Target:              CleanString(row["target"]),
			OriginalDescription: CleanString(row["description"]),
		}
		art.Relationships = append(art.Relationships, rel)

		if rel.OriginalDescription == "" {
			continue
		}
		entry, ok := art.Predicates[rel.OriginalDescription]
		if !ok {
			entry = &model.PredicateEntry{
				ExampleSource: rel.Source,
				ExampleTarget: rel.Target,
			}
			art.Predicates[rel.OriginalDescription] = entry
		}
		entry.Count++
	}
	return nil
}

// readTable reads a CSV file with a header row into column-keyed maps.
// Required columns must be present; extra columns are ignored.
func readTable(path string, required []string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%s: missing required column %q", path, col)
		}
	}

	var rows []map[string]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}
		row := make(map[string]string, len(required))
		for _, col := range required {
			if i := index[col]; i < len(rec) {
				row[col] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
