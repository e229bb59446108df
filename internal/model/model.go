// Package model defines the data shared between pipeline stages and the
// JSON checkpoint artifacts each stage persists.
package model

// Entity is one extracted entity. Immutable after extraction.
type Entity struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	OriginalType string `json:"original_type"`
}

// Relationship references entities by display name, not by id. That is a
// property of the GraphRAG export, not a choice made here.
type Relationship struct {
	Source              string `json:"source"`
	Target              string `json:"target"`
	OriginalDescription string `json:"original_description"`
}

// TypeEntry is the registry entry for one distinct raw entity type.
// Fields fill in as the stages run: extract sets Count and Examples,
// canonicalize sets Canonical, align sets the rest.
type TypeEntry struct {
	Count    int      `json:"count"`
	Examples []string `json:"example_entities,omitempty"`

	Canonical string `json:"canonical,omitempty"`

	Class      string  `json:"dbo_class,omitempty"`
	URI        string  `json:"dbo_uri,omitempty"`
	Similarity float64 `json:"similarity,omitempty"`
	Fallback   bool    `json:"fallback,omitempty"`
	BestMatch  string  `json:"best_match,omitempty"`
}

// PredicateEntry is the registry entry for one distinct raw relationship
// description.
type PredicateEntry struct {
	Count         int    `json:"count"`
	ExampleSource string `json:"example_source,omitempty"`
	ExampleTarget string `json:"example_target,omitempty"`

	Canonical string `json:"canonical,omitempty"`

	Property   string  `json:"dbo_property,omitempty"`
	URI        string  `json:"dbo_uri,omitempty"`
	Similarity float64 `json:"similarity,omitempty"`
	Fallback   bool    `json:"fallback,omitempty"`
	BestMatch  string  `json:"best_match,omitempty"`
}

// Artifact is the checkpoint written after each of stages 1-3. Stage 4
// consumes the stage 3 artifact and writes the Turtle graph instead.
type Artifact struct {
	RunID     string `json:"run_id"`
	CreatedAt string `json:"created_at"`
	Stage     int    `json:"stage"`

	Types      map[string]*TypeEntry      `json:"types"`
	Predicates map[string]*PredicateEntry `json:"predicates"`

	Entities      []Entity       `json:"entities"`
	Relationships []Relationship `json:"relationships"`
}
