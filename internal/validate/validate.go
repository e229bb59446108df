// Package validate performs the post-run sanity pass over the final
// Turtle artifact. It is a line-level check of the writer's own output,
// not a general Turtle parser.
package validate

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Report summarizes what the validator found.
type Report struct {
	Triples       int
	Labels        int
	Types         int
	Relationships int
	Prefixes      []string
}

// Run validates the Turtle file at path. It fails when a required prefix
// is missing, the graph is empty, or some labeled entity lacks a type
// triple.
func Run(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening graph %s: %w", path, err)
	}
	defer f.Close()

	rep := &Report{}
	labeled := make(map[string]bool)
	typed := make(map[string]bool)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "@prefix") {
			fields := strings.Fields(line)
			if len(fields) >= 2 {
				rep.Prefixes = append(rep.Prefixes, strings.TrimSuffix(fields[1], ":"))
			}
			continue
		}
		if !strings.HasSuffix(line, ".") {
			return nil, fmt.Errorf("malformed triple line: %q", line)
		}

		rep.Triples++
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, fmt.Errorf("malformed triple line: %q", line)
		}
		subject, predicate := fields[0], fields[1]
		switch predicate {
		case "rdfs:label":
			rep.Labels++
			labeled[subject] = true
		case "a":
			rep.Types++
			typed[subject] = true
		default:
			rep.Relationships++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading graph: %w", err)
	}

	for _, required := range []string{"gr", "dbo"} {
		found := false
		for _, p := range rep.Prefixes {
			if p == required {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("required prefix %q not bound", required)
		}
	}
	if rep.Triples == 0 {
		return nil, fmt.Errorf("graph contains no triples")
	}
	for subj := range labeled {
		if !typed[subj] {
			return nil, fmt.Errorf("entity %s has a label but no type triple", subj)
		}
	}

	return rep, nil
}
