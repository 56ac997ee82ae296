package graph

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// searchText flattens a property document into the text blob fed to the
// full-text index. String values are collected recursively from nested maps
// and lists; numbers are included so quantities remain searchable. Map keys
// are visited in sorted order to keep the derived entry deterministic.
func searchText(properties map[string]any) string {
	var parts []string
	collectText(properties, &parts)
	return strings.Join(parts, " ")
}

func collectText(v any, parts *[]string) {
	switch val := v.(type) {
	case string:
		if s := strings.TrimSpace(val); s != "" {
			*parts = append(*parts, s)
		}
	case float64:
		*parts = append(*parts, strconv.FormatFloat(val, 'f', -1, 64))
	case int:
		*parts = append(*parts, strconv.Itoa(val))
	case []any:
		for _, item := range val {
			collectText(item, parts)
		}
	case []string:
		for _, item := range val {
			collectText(item, parts)
		}
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			collectText(val[k], parts)
		}
	}
}

// tokenize splits text into lowercased alphanumeric tokens, the same word
// boundaries the unicode61 tokenizer uses.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, strings.ToLower(f))
	}
	return out
}

// matchesAllTerms reports whether every query term matches at least one
// token. Terms ending in '*' are prefix matches; bare terms match exactly.
func matchesAllTerms(tokens []string, terms []string) bool {
	for _, term := range terms {
		prefix := false
		t := strings.ToLower(term)
		if strings.HasSuffix(t, "*") {
			prefix = true
			t = strings.TrimSuffix(t, "*")
		}
		if t == "" {
			continue
		}
		found := false
		for _, tok := range tokens {
			if prefix && strings.HasPrefix(tok, t) || !prefix && tok == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
