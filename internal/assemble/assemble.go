// Package assemble implements stage 4: combining the aligned registries
// with the original entity and relationship lists into the final triple
// set, then serializing it as Turtle.
package assemble

import (
	"strings"

	"github.com/piaasbjornsen/graphrag-prosjektoppgave/internal/model"
)

// Config carries the namespaces and fallbacks the assembler writes with.
type Config struct {
	EntityNamespace   string
	OntologyNamespace string
	// FallbackType is the full IRI asserted for entities whose raw type
	// is empty or absent from the registry.
	FallbackType string
	// FallbackPredicate is the ontology-local name used for
	// relationships whose description is empty or absent.
	FallbackPredicate string
}

// Summary reports what the assembler did with its input.
type Summary struct {
	EntitiesAdded        int
	EntitiesTyped        int
	EntitiesFallback     int
	RelationshipsAdded   int
	RelationshipsSkipped int
}

// NodeID derives the graph node identifier for an entity: the display
// name with spaces replaced by underscores and all other unsafe bytes
// percent-encoded, joined with the source id. Two entities sharing a
// display name still get distinct nodes.
func NodeID(name, id string) string {
	return escapeName(strings.ReplaceAll(name, " ", "_")) + "_" + id
}

// escapeName percent-encodes every byte outside the URI unreserved set.
// Deliberately stricter than url.PathEscape so node ids stay within the
// characters the Turtle writer can emit unquoted.
func escapeName(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9',
			c == '_', c == '-':
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0x0F])
		}
	}
	return b.String()
}

// Run builds the graph from a stage 3 artifact. Every entity gets one
// label triple and exactly one type triple. Relationships resolve their
// endpoints by display name against a last-writer-wins lookup; a
// relationship whose source or target is unknown is dropped and counted,
// never escalated.
func Run(art *model.Artifact, cfg Config) (*Graph, Summary) {
	g := NewGraph()
	g.Bind("gr", cfg.EntityNamespace)
	g.Bind("dbo", cfg.OntologyNamespace)

	var sum Summary

	// Known defect inherited from the source data: relationships carry
	// names, not ids, so duplicate display names collapse to whichever
	// entity came last.
	nodeByName := make(map[string]string, len(art.Entities))

	for _, ent := range art.Entities {
		nodeIRI := cfg.EntityNamespace + NodeID(ent.Name, ent.ID)
		nodeByName[ent.Name] = nodeIRI

		g.Add(nodeIRI, RDFSLabel, Literal(ent.Name))

		entry, ok := art.Types[ent.OriginalType]
		if ent.OriginalType != "" && ok && entry.URI != "" {
			g.Add(nodeIRI, RDFType, IRI(entry.URI))
			sum.EntitiesTyped++
		} else {
			g.Add(nodeIRI, RDFType, IRI(cfg.FallbackType))
			sum.EntitiesFallback++
		}
		sum.EntitiesAdded++
	}

	fallbackPredIRI := cfg.OntologyNamespace + cfg.FallbackPredicate
	for _, rel := range art.Relationships {
		srcIRI, srcOK := nodeByName[rel.Source]
		tgtIRI, tgtOK := nodeByName[rel.Target]
		if !srcOK || !tgtOK {
			sum.RelationshipsSkipped++
			continue
		}

		predIRI := fallbackPredIRI
		if rel.OriginalDescription != "" {
			if entry, ok := art.Predicates[rel.OriginalDescription]; ok && entry.URI != "" {
				predIRI = entry.URI
			}
		}

		g.Add(srcIRI, predIRI, IRI(tgtIRI))
		sum.RelationshipsAdded++
	}

	return g, sum
}
