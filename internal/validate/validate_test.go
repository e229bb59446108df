package validate

import (
	"os"
	"path/filepath"
	"testing"
)

func writeGraph(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graph.ttl")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const validGraph = `@prefix rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#> .
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
@prefix owl: <http://www.w3.org/2002/07/owl#> .
@prefix gr: <http://graphrag.org/entity/> .
@prefix dbo: <http://dbpedia.org/ontology/> .

gr:ACME_1 rdfs:label "ACME" .
gr:ACME_1 a dbo:Organisation .

gr:Alice_2 rdfs:label "Alice" .
gr:Alice_2 a dbo:Person .
gr:Alice_2 dbo:employer gr:ACME_1 .
`

func TestRun_ValidGraph(t *testing.T) {
	rep, err := Run(writeGraph(t, validGraph))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.Triples != 5 {
		t.Errorf("expected 5 triples, got %d", rep.Triples)
	}
	if rep.Labels != 2 || rep.Types != 2 || rep.Relationships != 1 {
		t.Errorf("unexpected counts: %+v", rep)
	}
	if len(rep.Prefixes) != 5 {
		t.Errorf("expected 5 prefixes, got %v", rep.Prefixes)
	}
}

func TestRun_MissingRequiredPrefix(t *testing.T) {
	graph := `@prefix gr: <http://graphrag.org/entity/> .

gr:A_1 rdfs:label "A" .
gr:A_1 a owl:Thing .
`
	if _, err := Run(writeGraph(t, graph)); err == nil {
		t.Error("expected error when dbo prefix is missing")
	}
}

func TestRun_LabelWithoutType(t *testing.T) {
	graph := `@prefix gr: <http://graphrag.org/entity/> .
@prefix dbo: <http://dbpedia.org/ontology/> .

gr:A_1 rdfs:label "A" .
`
	if _, err := Run(writeGraph(t, graph)); err == nil {
		t.Error("expected error for labeled entity with no type triple")
	}
}

func TestRun_EmptyGraph(t *testing.T) {
	graph := `@prefix gr: <http://graphrag.org/entity/> .
@prefix dbo: <http://dbpedia.org/ontology/> .
`
	if _, err := Run(writeGraph(t, graph)); err == nil {
		t.Error("expected error for graph with no triples")
	}
}

func TestRun_MalformedTripleLine(t *testing.T) {
	graph := `@prefix gr: <http://graphrag.org/entity/> .
@prefix dbo: <http://dbpedia.org/ontology/> .

gr:A_1 rdfs:label "A"
`
	if _, err := Run(writeGraph(t, graph)); err == nil {
		t.Error("expected error for triple line without terminating dot")
	}
}

func TestRun_MissingFile(t *testing.T) {
	if _, err := Run(filepath.Join(t.TempDir(), "absent.ttl")); err == nil {
		t.Error("expected error for missing file")
	}
}
