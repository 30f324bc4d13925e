// Package interpolation shields runtime placeholders in UI strings from the
// translation provider.
package interpolation

import (
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Mapping stores the original placeholder and its safe replacement.
type Mapping struct {
	Original    string
	Placeholder string
	Index       int
}

// varMatch stores a detected interpolation variable position.
type varMatch struct {
	start, end int
	value      string
}

// patterns detect the interpolation syntaxes common in JS/TS UI strings.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`\{\{-?\s*[^{}]+?\s*\}\}`),              // {{name}}, {{- html}}
	regexp.MustCompile(`\$\{[^{}]+\}`),                         // ${value}
	regexp.MustCompile(`\{[a-zA-Z0-9_]+\}`),                    // {0}, {name}
	regexp.MustCompile(`</?[0-9]+/?>`),                         // <0>, </1>, <2/>
	regexp.MustCompile(`%[-+0-9]*\.?[0-9]*[dsfieEgGxXoubcpq]`), // %d, %s, %2d
	regexp.MustCompile(`%%`),                                   // escaped percent literal
}

// Protect replaces all interpolation variables with {{var_N}} placeholders.
// Returns the safe string and the mapping needed by Restore.
func Protect(text string) (string, []Mapping) {
	var allMatches []varMatch
	for _, p := range patterns {
		for _, loc := range p.FindAllStringIndex(text, -1) {
			allMatches = append(allMatches, varMatch{
				start: loc[0],
				end:   loc[1],
				value: text[loc[0]:loc[1]],
			})
		}
	}

	if len(allMatches) == 0 {
		return text, nil
	}

	// By position, longest first on ties.
	slices.SortFunc(allMatches, func(a, b varMatch) int {
		if c := cmp.Compare(a.start, b.start); c != 0 {
			return c
		}
		return cmp.Compare(b.end-b.start, a.end-a.start)
	})

	var filtered []varMatch
	lastEnd := -1
	for _, m := range allMatches {
		if m.start >= lastEnd {
			filtered = append(filtered, m)
			lastEnd = m.end
		}
	}

	mappings := make([]Mapping, len(filtered))
	var sb strings.Builder
	prev := 0
	for i, m := range filtered {
		placeholder := fmt.Sprintf("{{var_%d}}", i+1)
		mappings[i] = Mapping{Original: m.value, Placeholder: placeholder, Index: i + 1}
		sb.WriteString(text[prev:m.start])
		sb.WriteString(placeholder)
		prev = m.end
	}
	sb.WriteString(text[prev:])

	return sb.String(), mappings
}

// Restore replaces {{var_N}} placeholders back with the original variables.
func Restore(translated string, mappings []Mapping) string {
	result := translated
	for _, m := range mappings {
		result = strings.Replace(result, m.Placeholder, m.Original, 1)
	}
	return result
}
