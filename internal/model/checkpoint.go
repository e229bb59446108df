package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ErrMissingArtifact signals that a stage's required input checkpoint does
// not exist. The runner treats this as "run the earlier stage first", never
// as something to retry.
var ErrMissingArtifact = errors.New("prior stage artifact missing")

// NewArtifact creates an empty artifact stamped with a fresh run id.
func NewArtifact(stage int) *Artifact {
	return &Artifact{
		RunID:      uuid.New().String(),
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
		Stage:      stage,
		Types:      make(map[string]*TypeEntry),
		Predicates: make(map[string]*PredicateEntry),
	}
}

// Advance returns a copy of the artifact restamped for the next stage.
// The run id is preserved so a full run is traceable across checkpoints;
// a standalone re-run of a later stage keeps the id of the run that
// produced its input.
func (a *Artifact) Advance(stage int) *Artifact {
	next := *a
	next.Stage = stage
	next.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	return &next
}

// Save writes the artifact as indented JSON, creating parent directories.
func (a *Artifact) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding artifact: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// LoadArtifact reads a checkpoint written by an earlier stage. A missing
// file is reported as ErrMissingArtifact so callers can distinguish
// "predecessor never ran" from a corrupt file.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingArtifact, path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	if a.Types == nil {
		a.Types = make(map[string]*TypeEntry)
	}
	if a.Predicates == nil {
		a.Predicates = make(map[string]*PredicateEntry)
	}
	return &a, nil
}
