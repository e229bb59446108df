package ontology

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const classQuery = `
PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>
PREFIX owl: <http://www.w3.org/2002/07/owl#>

SELECT DISTINCT ?class ?label ?comment WHERE {
    ?class a owl:Class .
    FILTER(STRSTARTS(STR(?class), "http://dbpedia.org/ontology/"))
    OPTIONAL { ?class rdfs:label ?label . FILTER(LANG(?label) = "en") }
    OPTIONAL { ?class rdfs:comment ?comment . FILTER(LANG(?comment) = "en") }
}`

const propertyQuery = `
PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>
PREFIX owl: <http://www.w3.org/2002/07/owl#>
PREFIX rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#>

SELECT DISTINCT ?prop ?label ?comment WHERE {
    { ?prop a owl:ObjectProperty }
    UNION
    { ?prop a rdf:Property }
    FILTER(STRSTARTS(STR(?prop), "http://dbpedia.org/ontology/"))
    OPTIONAL { ?prop rdfs:label ?label . FILTER(LANG(?label) = "en") }
    OPTIONAL { ?prop rdfs:comment ?comment . FILTER(LANG(?comment) = "en") }
}`

const dboPrefix = "http://dbpedia.org/ontology/"

// sparqlResponse is the standard SPARQL 1.1 JSON results envelope,
// reduced to the fields the queries bind.
type sparqlResponse struct {
	Results struct {
		Bindings []map[string]struct {
			Value string `json:"value"`
		} `json:"bindings"`
	} `json:"results"`
}

// FetchClasses queries the endpoint for ontology classes and returns
// term id → "label: comment" descriptions.
func FetchClasses(ctx context.Context, client *http.Client, endpoint string) (map[string]string, error) {
	return fetchTerms(ctx, client, endpoint, classQuery, "class")
}

// FetchProperties queries the endpoint for ontology properties.
func FetchProperties(ctx context.Context, client *http.Client, endpoint string) (map[string]string, error) {
	return fetchTerms(ctx, client, endpoint, propertyQuery, "prop")
}

func fetchTerms(ctx context.Context, client *http.Client, endpoint, query, bindVar string) (map[string]string, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("format", "application/sparql-results+json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building SPARQL request: %w", err)
	}
	req.Header.Set("Accept", "application/sparql-results+json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("SPARQL endpoint returned status %d", resp.StatusCode)
	}

	var parsed sparqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding SPARQL response: %w", err)
	}

	terms := make(map[string]string)
	for _, b := range parsed.Results.Bindings {
		uri := b[bindVar].Value
		name := strings.TrimPrefix(uri, dboPrefix)
		if name == uri || name == "" {
			continue
		}
		// Skip odd derived names the endpoint sometimes returns.
		if strings.ContainsAny(name, "/(") {
			continue
		}

		label := name
		if l, ok := b["label"]; ok && l.Value != "" {
			label = l.Value
		}
		if c, ok := b["comment"]; ok && c.Value != "" {
			terms[name] = label + ": " + c.Value
		} else {
			terms[name] = label
		}
	}
	return terms, nil
}
