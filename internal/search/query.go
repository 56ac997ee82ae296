// Package search turns free-form user text into prefix-match queries and
// layers the progressive relaxation ("smart search") cascade on top.
package search

import (
	"fmt"
	"strings"

	"github.com/starford/jera/internal/apperr"
)

// BuildQuery transforms free-form text into a conjunctive prefix-match query:
// each whitespace-delimited term gets a trailing wildcard (unless it already
// has one) and quote characters are stripped. Terms joined with a space form
// an implicit AND. Empty input is a caller error.
func BuildQuery(text string) (string, error) {
	var terms []string
	for _, raw := range strings.Fields(text) {
		term := strings.NewReplacer(`"`, "", "'", "").Replace(raw)
		if term == "" || term == "*" {
			continue
		}
		if !strings.HasSuffix(term, "*") {
			term += "*"
		}
		terms = append(terms, term)
	}
	if len(terms) == 0 {
		return "", fmt.Errorf("search: empty query: %w", apperr.ErrInvalidArgument)
	}
	return strings.Join(terms, " "), nil
}
