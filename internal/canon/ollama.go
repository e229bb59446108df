package canon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const typePromptHeader = `You are normalizing entity type labels for an RDF knowledge graph.
For each numbered label below, answer with a single short ontology class
name in PascalCase (for example: Person, Organisation, ResearchProject).
Answer with one line per item, formatted exactly as "<number>. <ClassName>".
No explanations.

Labels:
`

const predicatePromptHeader = `You are normalizing relationship descriptions for an RDF knowledge graph.
For each numbered description below, answer with a single short property
name in camelCase (for example: employs, locatedIn, collaboratesWith).
The arrow shows the entities the relationship connects.
Answer with one line per item, formatted exactly as "<number>. <propertyName>".
No explanations.

Descriptions:
`

// maxDescriptionChars truncates long relationship descriptions in the
// prompt, matching the bound on request size.
const maxDescriptionChars = 80

// OllamaSuggester is the network-backed Suggester speaking the Ollama
// generate API.
type OllamaSuggester struct {
	baseURL string
	model   string
	client  *http.Client
	logger  *slog.Logger
}

// NewOllamaSuggester creates a suggester against an Ollama server.
func NewOllamaSuggester(baseURL, model string, timeout time.Duration, logger *slog.Logger) *OllamaSuggester {
	if logger == nil {
		logger = slog.Default()
	}
	return &OllamaSuggester{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Available probes liveness and checks that the configured model is
// present. Called once per category before any batch.
func (o *OllamaSuggester) Available(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, o.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false
	}

	var tags struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return false
	}
	for _, m := range tags.Models {
		if strings.Contains(m.Name, o.model) {
			return true
		}
	}
	o.logger.Warn("model not found on suggestion service", slog.String("model", o.model))
	return false
}

// Suggest issues one generate call for the batch and parses the numbered
// response. Unparsable lines are logged and counted but never abort the
// batch; the caller treats missing indices as heuristic work.
func (o *OllamaSuggester) Suggest(ctx context.Context, category Category, items []Item) (map[int]string, error) {
	text, err := o.generate(ctx, buildPrompt(category, items))
	if err != nil {
		return nil, err
	}

	tokens, rejects := ParseNumberedList(text, len(items))
	for _, line := range rejects {
		o.logger.Warn("unparsable suggestion line",
			slog.String("category", string(category)),
			slog.String("line", line))
	}
	return tokens, nil
}

func (o *OllamaSuggester) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(map[string]any{
		"model":  o.model,
		"prompt": prompt,
		"stream": false,
		"options": map[string]any{
			"temperature": 0.1,
		},
	})
	if err != nil {
		return "", fmt.Errorf("encoding generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling suggestion service: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("suggestion service returned status %d", resp.StatusCode)
	}

	var out struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding generate response: %w", err)
	}
	return strings.TrimSpace(out.Response), nil
}

// buildPrompt renders the numbered item list for a category.
func buildPrompt(category Category, items []Item) string {
	var b strings.Builder
	if category == CategoryPredicate {
		b.WriteString(predicatePromptHeader)
	} else {
		b.WriteString(typePromptHeader)
	}

	for i, item := range items {
		label := item.Label
		if len(label) > maxDescriptionChars {
			label = label[:maxDescriptionChars] + "..."
		}
		if category == CategoryPredicate && item.Source != "" {
			fmt.Fprintf(&b, "%d. %q | %s -> %s\n", i+1, label, item.Source, item.Target)
		} else {
			fmt.Fprintf(&b, "%d. %q\n", i+1, label)
		}
	}
	return b.String()
}
