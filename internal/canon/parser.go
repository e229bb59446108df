package canon

import (
	"regexp"
	"strconv"
	"strings"
)

// numberedLineRe matches one response line: a 1-based index, a dot, then
// an identifier token. Anything after the token is ignored.
var numberedLineRe = regexp.MustCompile(`^(\d+)\.\s*([A-Za-z0-9_]+)`)

// ParseNumberedList parses a suggestion-service response of the form
//
//	1. Organisation
//	2. Person
//
// against a batch of n items. It returns a partial mapping from 0-based
// batch index to token, plus the non-blank lines that failed the grammar
// or referenced an index outside [1, n]. Rejects are returned rather than
// dropped so callers can log and count them.
func ParseNumberedList(text string, n int) (map[int]string, []string) {
	tokens := make(map[int]string)
	var rejects []string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := numberedLineRe.FindStringSubmatch(line)
		if m == nil {
			rejects = append(rejects, line)
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil || idx < 1 || idx > n {
			rejects = append(rejects, line)
			continue
		}
		tokens[idx-1] = m[2]
	}
	return tokens, rejects
}
