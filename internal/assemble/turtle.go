package assemble

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Well-known IRIs used by the writer.
const (
	RDFType   = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	RDFSLabel = "http://www.w3.org/2000/01/rdf-schema#label"
)

// Term is one position of a triple: either an IRI or a literal string.
type Term struct {
	Value   string
	Literal bool
}

// IRI wraps an IRI term.
func IRI(v string) Term { return Term{Value: v} }

// Literal wraps a literal term.
func Literal(v string) Term { return Term{Value: v, Literal: true} }

// Triple is one (subject, predicate, object) edge. Subject and predicate
// are always IRIs.
type Triple struct {
	Subject   string
	Predicate string
	Object    Term
}

// Graph is an append-only triple set with bound namespace prefixes.
type Graph struct {
	prefixes map[string]string
	order    []string
	triples  []Triple
}

// NewGraph creates a graph with the standard RDF prefixes bound.
func NewGraph() *Graph {
	g := &Graph{prefixes: make(map[string]string)}
	g.Bind("rdf", "http://www.w3.org/1999/02/22-rdf-syntax-ns#")
	g.Bind("rdfs", "http://www.w3.org/2000/01/rdf-schema#")
	g.Bind("owl", "http://www.w3.org/2002/07/owl#")
	return g
}

// Bind registers a namespace prefix. Later bindings win on collision.
func (g *Graph) Bind(prefix, ns string) {
	if _, ok := g.prefixes[prefix]; !ok {
		g.order = append(g.order, prefix)
	}
	g.prefixes[prefix] = ns
}

// Add appends one triple.
func (g *Graph) Add(subject, predicate string, object Term) {
	g.triples = append(g.triples, Triple{Subject: subject, Predicate: predicate, Object: object})
}

// Len returns the number of triples.
func (g *Graph) Len() int { return len(g.triples) }

// Triples returns the triples in insertion order.
func (g *Graph) Triples() []Triple { return g.triples }

// Turtle serializes the graph: prefix block, then one triple per line,
// grouped by subject in first-seen order.
func (g *Graph) Turtle() string {
	var b strings.Builder

	for _, prefix := range g.order {
		fmt.Fprintf(&b, "@prefix %s: <%s> .\n", prefix, g.prefixes[prefix])
	}
	b.WriteString("\n")

	bySubject := make(map[string][]Triple)
	var subjects []string
	for _, t := range g.triples {
		if _, ok := bySubject[t.Subject]; !ok {
			subjects = append(subjects, t.Subject)
		}
		bySubject[t.Subject] = append(bySubject[t.Subject], t)
	}

	for _, subj := range subjects {
		for _, t := range bySubject[subj] {
			pred := g.qualify(t.Predicate)
			if t.Predicate == RDFType {
				pred = "a"
			}
			fmt.Fprintf(&b, "%s %s %s .\n", g.qualify(t.Subject), pred, g.formatObject(t.Object))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// localNameRe is the subset of Turtle PN_LOCAL the node-id encoder can
// produce: alphanumerics, underscore, hyphen and %XX escapes, not ending
// in a dot.
var localNameRe = regexp.MustCompile(`^([A-Za-z0-9_-]|%[0-9A-Fa-f]{2})+$`)

// qualify compacts an IRI to prefix:local form when a bound namespace
// matches and the local part is safe to write unescaped.
func (g *Graph) qualify(iri string) string {
	best := ""
	bestNS := ""
	for _, prefix := range g.order {
		ns := g.prefixes[prefix]
		if strings.HasPrefix(iri, ns) && len(ns) > len(bestNS) {
			best = prefix
			bestNS = ns
		}
	}
	if bestNS != "" {
		local := iri[len(bestNS):]
		if localNameRe.MatchString(local) {
			return best + ":" + local
		}
	}
	return "<" + iri + ">"
}

func (g *Graph) formatObject(o Term) string {
	if o.Literal {
		return `"` + escapeLiteral(o.Value) + `"`
	}
	return g.qualify(o.Value)
}

// escapeLiteral escapes special characters for a Turtle string literal.
func escapeLiteral(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}

// SortedSubjects returns the distinct subjects, sorted. Used by the
// validator and tests.
func (g *Graph) SortedSubjects() []string {
	seen := make(map[string]bool)
	var subjects []string
	for _, t := range g.triples {
		if !seen[t.Subject] {
			seen[t.Subject] = true
			subjects = append(subjects, t.Subject)
		}
	}
	sort.Strings(subjects)
	return subjects
}
