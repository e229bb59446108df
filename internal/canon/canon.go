// Package canon implements stage 2: turning messy raw type labels and
// relationship descriptions into short canonical tokens, using a
// suggestion service with a deterministic per-item heuristic fallback.
package canon

import (
	"context"
	"fmt"
	"log/slog"
)

// Category selects the casing convention and prompt for a batch.
type Category string

const (
	// CategoryType produces PascalCase class tokens.
	CategoryType Category = "types"
	// CategoryPredicate produces camelCase property tokens.
	CategoryPredicate Category = "predicates"
)

// Item is one raw label to canonicalize. Source and Target give the
// suggestion service context for predicate descriptions; they are empty
// for types.
type Item struct {
	Label  string
	Source string
	Target string
}

// Suggester is the narrow interface over the external suggestion
// capability. Suggest returns a partial mapping from batch index to
// token; items missing from the map fall back to the heuristic.
type Suggester interface {
	Available(ctx context.Context) bool
	Suggest(ctx context.Context, category Category, items []Item) (map[int]string, error)
}

// Result reports the canonicalization of one category.
type Result struct {
	// Tokens maps every input label to exactly one canonical token.
	Tokens map[string]string

	FromService   int
	FromHeuristic int
}

// Canonicalizer batches labels through the suggestion service and fills
// the gaps with heuristics. Suggestion-service failure is never fatal:
// the worst case is a fully heuristic category.
type Canonicalizer struct {
	sug       Suggester
	batchSize int
	logger    *slog.Logger
}

// New creates a Canonicalizer. A nil suggester means heuristic-only.
func New(sug Suggester, batchSize int, logger *slog.Logger) *Canonicalizer {
	if batchSize <= 0 {
		batchSize = 10
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Canonicalizer{sug: sug, batchSize: batchSize, logger: logger}
}

// Canonicalize maps every item's label to a canonical token. The service
// is probed once up front; if it is unavailable the whole category takes
// the heuristic path. Per-item service failures degrade silently to the
// heuristic but are counted in the result.
func (c *Canonicalizer) Canonicalize(ctx context.Context, category Category, items []Item) Result {
	res := Result{Tokens: make(map[string]string, len(items))}

	useService := c.sug != nil && c.sug.Available(ctx)
	if !useService && c.sug != nil {
		c.logger.Warn("suggestion service unavailable, using heuristics",
			slog.String("category", string(category)))
	}

	suggested := make(map[string]string)
	if useService {
		for start := 0; start < len(items); start += c.batchSize {
			end := start + c.batchSize
			if end > len(items) {
				end = len(items)
			}
			batch := items[start:end]

			tokens, err := c.sug.Suggest(ctx, category, batch)
			if err != nil {
				c.logger.Warn("suggestion batch failed",
					slog.String("category", string(category)),
					slog.Int("batch_start", start),
					slog.String("error", err.Error()))
				continue
			}
			for idx, token := range tokens {
				if idx < 0 || idx >= len(batch) {
					continue
				}
				suggested[batch[idx].Label] = applyCasing(category, token)
			}
		}
	}

	for _, item := range items {
		if token, ok := suggested[item.Label]; ok && token != "" {
			res.Tokens[item.Label] = token
			res.FromService++
			continue
		}
		res.Tokens[item.Label] = Heuristic(category, item.Label)
		res.FromHeuristic++
	}
	return res
}

// Heuristic applies the category's deterministic fallback tokenizer.
func Heuristic(category Category, label string) string {
	if category == CategoryPredicate {
		return HeuristicPredicate(label)
	}
	return HeuristicType(label)
}

// applyCasing enforces the category convention on a service token:
// predicates are lowerCamel, types keep the service's PascalCase.
func applyCasing(category Category, token string) string {
	if category != CategoryPredicate || token == "" {
		return token
	}
	return lowerFirst(token)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	first := r[0]
	if first >= 'A' && first <= 'Z' {
		first += 'a' - 'A'
	}
	return string(first) + string(r[1:])
}

// String implements fmt.Stringer for log output.
func (r Result) String() string {
	return fmt.Sprintf("%d tokens (%d service, %d heuristic)",
		len(r.Tokens), r.FromService, r.FromHeuristic)
}
