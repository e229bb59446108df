// Package config holds pipeline configuration with layered precedence:
// defaults, then an optional YAML file, then environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ServiceConfig describes an HTTP endpoint plus the model it must serve.
type ServiceConfig struct {
	BaseURL        string `yaml:"base_url"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Config is the full pipeline configuration.
type Config struct {
	// ArtifactsDir is the GraphRAG export directory containing
	// entities.csv and relationships.csv.
	ArtifactsDir string `yaml:"artifacts_dir"`

	// WorkDir is the root for pipeline output and the ontology cache.
	WorkDir string `yaml:"work_dir"`

	Suggest ServiceConfig `yaml:"suggest"`
	Embed   ServiceConfig `yaml:"embed"`

	SparqlEndpoint       string `yaml:"sparql_endpoint"`
	SparqlTimeoutSeconds int    `yaml:"sparql_timeout_seconds"`

	// Independent similarity thresholds per category. A score equal to
	// the threshold counts as a match.
	TypeThreshold      float64 `yaml:"type_threshold"`
	PredicateThreshold float64 `yaml:"predicate_threshold"`

	BatchSize int `yaml:"batch_size"`

	EntityNamespace   string `yaml:"entity_namespace"`
	OntologyNamespace string `yaml:"ontology_namespace"`

	// FallbackClass and FallbackPredicate are ontology-local names used
	// when no candidate clears the threshold. FallbackEntityType is the
	// full IRI asserted for entities whose raw type never made it into
	// the registry.
	FallbackClass      string `yaml:"fallback_class"`
	FallbackPredicate  string `yaml:"fallback_predicate"`
	FallbackEntityType string `yaml:"fallback_entity_type"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		WorkDir: ".",
		Suggest: ServiceConfig{
			BaseURL:        "http://localhost:11434",
			Model:          "llama3.1",
			TimeoutSeconds: 120,
		},
		Embed: ServiceConfig{
			BaseURL:        "http://localhost:11434",
			Model:          "nomic-embed-text",
			TimeoutSeconds: 60,
		},
		SparqlEndpoint:       "https://dbpedia.org/sparql",
		SparqlTimeoutSeconds: 60,
		TypeThreshold:        0.60,
		PredicateThreshold:   0.50,
		BatchSize:            10,
		EntityNamespace:      "http://graphrag.org/entity/",
		OntologyNamespace:    "http://dbpedia.org/ontology/",
		FallbackClass:        "Thing",
		FallbackPredicate:    "wikiPageWikiLink",
		FallbackEntityType:   "http://www.w3.org/2002/07/owl#Thing",
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// environment overrides. An empty path skips the file layer.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides selected fields from RDFPIPE_* environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("RDFPIPE_ARTIFACTS"); v != "" {
		c.ArtifactsDir = v
	}
	if v := os.Getenv("RDFPIPE_WORKDIR"); v != "" {
		c.WorkDir = v
	}
	if v := os.Getenv("RDFPIPE_OLLAMA_URL"); v != "" {
		c.Suggest.BaseURL = v
		c.Embed.BaseURL = v
	}
	if v := os.Getenv("RDFPIPE_SPARQL_ENDPOINT"); v != "" {
		c.SparqlEndpoint = v
	}
	if v, err := strconv.ParseFloat(os.Getenv("RDFPIPE_TYPE_THRESHOLD"), 64); err == nil {
		c.TypeThreshold = v
	}
	if v, err := strconv.ParseFloat(os.Getenv("RDFPIPE_PREDICATE_THRESHOLD"), 64); err == nil {
		c.PredicateThreshold = v
	}
}

// Validate checks invariants that would otherwise surface as confusing
// failures deep inside a stage.
func (c *Config) Validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive, got %d", c.BatchSize)
	}
	if c.TypeThreshold < -1 || c.TypeThreshold > 1 {
		return fmt.Errorf("type_threshold must be in [-1,1], got %g", c.TypeThreshold)
	}
	if c.PredicateThreshold < -1 || c.PredicateThreshold > 1 {
		return fmt.Errorf("predicate_threshold must be in [-1,1], got %g", c.PredicateThreshold)
	}
	if c.EntityNamespace == "" || c.OntologyNamespace == "" {
		return fmt.Errorf("entity_namespace and ontology_namespace must be set")
	}
	return nil
}

// OutputDir is where stage artifacts are written.
func (c *Config) OutputDir() string {
	return filepath.Join(c.WorkDir, "output")
}

// CachePath is the on-disk ontology cache database.
func (c *Config) CachePath() string {
	return filepath.Join(c.WorkDir, "cache", "ontology.db")
}

// Stage artifact paths.

func (c *Config) ExtractedPath() string { return filepath.Join(c.OutputDir(), "step1_extracted.json") }
func (c *Config) RefinedPath() string   { return filepath.Join(c.OutputDir(), "step2_refined.json") }
func (c *Config) MappedPath() string    { return filepath.Join(c.OutputDir(), "step3_mapped.json") }
func (c *Config) GraphPath() string     { return filepath.Join(c.OutputDir(), "graphrag_dbo.ttl") }

func (c *Config) EntitiesCSV() string {
	return filepath.Join(c.ArtifactsDir, "entities.csv")
}

func (c *Config) RelationshipsCSV() string {
	return filepath.Join(c.ArtifactsDir, "relationships.csv")
}
