// Package ontology supplies the reference term sets (DBpedia classes and
// properties), reading the local cache before attempting a live SPARQL
// fetch and writing back after a successful one.
package ontology

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Category names for the two term sets.
const (
	CategoryClasses    = "classes"
	CategoryProperties = "properties"
)

// Source resolves term sets cache-first. The cache database is opened on
// first use so runs that never reach alignment leave no cache behind.
type Source struct {
	cachePath string
	cache     *Cache
	client    *http.Client
	endpoint  string
	logger    *slog.Logger
}

// NewSource creates a Source over the cache database at cachePath.
func NewSource(cachePath, endpoint string, timeout time.Duration, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{
		cachePath: cachePath,
		client:    &http.Client{Timeout: timeout},
		endpoint:  endpoint,
		logger:    logger,
	}
}

// Close closes the cache if it was opened.
func (s *Source) Close() error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Close()
}

// Classes returns the class term set. An empty result after both cache
// and fetch is an error: alignment cannot proceed against nothing.
func (s *Source) Classes(ctx context.Context) (map[string]string, error) {
	return s.load(ctx, CategoryClasses, FetchClasses)
}

// Properties returns the property term set.
func (s *Source) Properties(ctx context.Context) (map[string]string, error) {
	return s.load(ctx, CategoryProperties, FetchProperties)
}

func (s *Source) ensureCache() error {
	if s.cache != nil {
		return nil
	}
	cache, err := OpenCache(s.cachePath)
	if err != nil {
		return err
	}
	s.cache = cache
	return nil
}

func (s *Source) load(
	ctx context.Context,
	category string,
	fetch func(context.Context, *http.Client, string) (map[string]string, error),
) (map[string]string, error) {
	if err := s.ensureCache(); err != nil {
		return nil, err
	}

	cached, err := s.cache.Load(category)
	if err != nil {
		return nil, err
	}
	if len(cached) > 0 {
		s.logger.Info("loaded ontology terms from cache",
			slog.String("category", category),
			slog.Int("count", len(cached)))
		return cached, nil
	}

	s.logger.Info("fetching ontology terms",
		slog.String("category", category),
		slog.String("endpoint", s.endpoint))
	terms, err := fetch(ctx, s.client, s.endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", category, err)
	}
	if len(terms) == 0 {
		return nil, fmt.Errorf("fetching %s: endpoint returned no terms", category)
	}

	if err := s.cache.Store(category, terms); err != nil {
		// Cache write failure is non-fatal; the terms are in hand.
		s.logger.Warn("failed to cache ontology terms",
			slog.String("category", category),
			slog.String("error", err.Error()))
	}
	return terms, nil
}
