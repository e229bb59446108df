// Package align implements stage 3: mapping canonical tokens to the
// nearest reference ontology term by embedding similarity, with
// threshold-gated fallback.
package align

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
)

// ErrEmptyTermSet signals that a category has no reference terms to
// align against. The stage must abort rather than fall back.
var ErrEmptyTermSet = errors.New("reference term set is empty")

// Match is the alignment result for one query token.
type Match struct {
	// TermID is the accepted term: the nearest neighbor if its score
	// cleared the threshold, the fallback term otherwise.
	TermID string
	// Score is the nearest neighbor's similarity, recorded even when
	// the fallback was used.
	Score float64
	// Fallback reports whether the threshold gate rejected the match.
	Fallback bool
	// BestMatch is the would-have-been nearest neighbor when Fallback
	// is set, for diagnostics. Empty on accepted matches.
	BestMatch string
}

// candidate is one embedded reference term.
type candidate struct {
	id  string
	vec []float32
}

// Aligner holds the per-run embedding cache. Candidate vectors are
// computed once per category and reused for every query in the same run;
// the cache belongs to this instance, not to any global.
type Aligner struct {
	emb    Embedder
	logger *slog.Logger
	cache  map[string][]candidate
}

// NewAligner creates an aligner around an embedding provider.
func NewAligner(emb Embedder, logger *slog.Logger) *Aligner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aligner{
		emb:    emb,
		logger: logger,
		cache:  make(map[string][]candidate),
	}
}

// Align finds the reference term nearest to token among terms (term id →
// descriptive text). A score >= threshold accepts the match; below it the
// fallback term is substituted and the best candidate recorded for
// diagnostics. Ties break to the first candidate in sorted-id order.
func (a *Aligner) Align(ctx context.Context, token, category string, terms map[string]string, threshold float64, fallback string) (Match, error) {
	if len(terms) == 0 {
		return Match{}, fmt.Errorf("%w: %s", ErrEmptyTermSet, category)
	}

	cands, err := a.candidates(ctx, category, terms)
	if err != nil {
		return Match{}, err
	}

	qvec, err := a.emb.Embed(ctx, token)
	if err != nil {
		return Match{}, fmt.Errorf("embedding query %q: %w", token, err)
	}
	qvec = Normalize(qvec)

	bestID := ""
	bestScore := -2.0
	for _, c := range cands {
		if score := Dot(qvec, c.vec); score > bestScore {
			bestID = c.id
			bestScore = score
		}
	}

	if bestScore >= threshold {
		return Match{TermID: bestID, Score: bestScore}, nil
	}
	return Match{
		TermID:    fallback,
		Score:     bestScore,
		Fallback:  true,
		BestMatch: bestID,
	}, nil
}

// candidates returns the embedded term set for a category, computing it
// on first use and serving the cache afterwards.
func (a *Aligner) candidates(ctx context.Context, category string, terms map[string]string) ([]candidate, error) {
	if cached, ok := a.cache[category]; ok {
		return cached, nil
	}

	ids := make([]string, 0, len(terms))
	for id := range terms {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	a.logger.Info("embedding reference terms",
		slog.String("category", category),
		slog.Int("count", len(ids)))

	cands := make([]candidate, 0, len(ids))
	for _, id := range ids {
		vec, err := a.emb.Embed(ctx, terms[id])
		if err != nil {
			return nil, fmt.Errorf("embedding %s term %q: %w", category, id, err)
		}
		cands = append(cands, candidate{id: id, vec: Normalize(vec)})
	}
	a.cache[category] = cands
	return cands, nil
}
