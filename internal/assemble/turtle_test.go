package assemble

import (
	"strings"
	"testing"
)

func TestGraph_TurtlePrefixBlock(t *testing.T) {
	g := NewGraph()
	g.Bind("gr", "http://graphrag.org/entity/")

	out := g.Turtle()
	for _, want := range []string{
		"@prefix rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#> .",
		"@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .",
		"@prefix owl: <http://www.w3.org/2002/07/owl#> .",
		"@prefix gr: <http://graphrag.org/entity/> .",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing prefix line %q in:\n%s", want, out)
		}
	}
}

func TestGraph_TurtleTypeUsesKeyword(t *testing.T) {
	g := NewGraph()
	g.Bind("gr", "http://graphrag.org/entity/")
	g.Bind("dbo", "http://dbpedia.org/ontology/")
	g.Add("http://graphrag.org/entity/ACME_1", RDFType, IRI("http://dbpedia.org/ontology/Organisation"))

	out := g.Turtle()
	if !strings.Contains(out, "gr:ACME_1 a dbo:Organisation .") {
		t.Errorf("expected 'a' keyword for rdf:type, got:\n%s", out)
	}
}

func TestGraph_QualifyFallsBackToAngleBrackets(t *testing.T) {
	g := NewGraph()
	g.Bind("gr", "http://graphrag.org/entity/")
	g.Add("http://unbound.example/node", RDFSLabel, Literal("x"))

	out := g.Turtle()
	if !strings.Contains(out, "<http://unbound.example/node> rdfs:label") {
		t.Errorf("expected angle-bracket IRI for unbound namespace, got:\n%s", out)
	}
}

func TestGraph_QualifyRejectsUnsafeLocalName(t *testing.T) {
	g := NewGraph()
	g.Bind("gr", "http://graphrag.org/entity/")
	if got := g.qualify("http://graphrag.org/entity/has/slash"); got != "<http://graphrag.org/entity/has/slash>" {
		t.Errorf("slash in local name must force angle brackets, got %q", got)
	}
	if got := g.qualify("http://graphrag.org/entity/%C3%98rsted_4"); got != "gr:%C3%98rsted_4" {
		t.Errorf("percent escapes are valid local name bytes, got %q", got)
	}
}

func TestGraph_LiteralEscaping(t *testing.T) {
	g := NewGraph()
	g.Add("http://graphrag.org/entity/n_1", RDFSLabel, Literal("say \"hi\"\nback\\slash"))

	out := g.Turtle()
	if !strings.Contains(out, `"say \"hi\"\nback\\slash"`) {
		t.Errorf("literal not escaped, got:\n%s", out)
	}
}

func TestGraph_TurtleGroupsBySubject(t *testing.T) {
	g := NewGraph()
	g.Bind("gr", "http://graphrag.org/entity/")
	g.Add("http://graphrag.org/entity/a_1", RDFSLabel, Literal("a"))
	g.Add("http://graphrag.org/entity/b_2", RDFSLabel, Literal("b"))
	g.Add("http://graphrag.org/entity/a_1", RDFType, IRI("http://www.w3.org/2002/07/owl#Thing"))

	out := g.Turtle()
	first := strings.Index(out, "gr:a_1 rdfs:label")
	second := strings.Index(out, "gr:a_1 a owl:Thing")
	other := strings.Index(out, "gr:b_2 rdfs:label")
	if first == -1 || second == -1 || other == -1 {
		t.Fatalf("missing expected triples in:\n%s", out)
	}
	if !(first < second && second < other) {
		t.Errorf("triples for the same subject must stay together, got:\n%s", out)
	}
}

func TestGraph_SortedSubjects(t *testing.T) {
	g := NewGraph()
	g.Add("http://x/b", RDFSLabel, Literal("b"))
	g.Add("http://x/a", RDFSLabel, Literal("a"))
	g.Add("http://x/b", RDFType, IRI("http://x/T"))

	subjects := g.SortedSubjects()
	if len(subjects) != 2 || subjects[0] != "http://x/a" || subjects[1] != "http://x/b" {
		t.Errorf("expected sorted distinct subjects, got %v", subjects)
	}
}
