// Package parser finds translatable literals in source text.
//
// Extraction is lexical: it matches the marker call shape over raw bytes and
// knows nothing about the host language. A marker call inside a comment or a
// string is extracted like any other.
package parser

import (
	"regexp"
	"strings"
)

// Marker is the identifier that flags a translatable literal.
const Marker = "i18n"

// markerPattern matches i18n("..."), i18n('...') and i18n(`...`). The literal
// ends at the first quote of the same style; escapes are not interpreted.
var markerPattern = regexp.MustCompile(Marker + "\\((?:\"([^\"]+)\"|'([^']+)'|`([^`]+)`)\\)")

// Extract returns the literal arguments of every marker call in content, in
// order of appearance. Duplicates are kept.
func Extract(content string) []string {
	matches := markerPattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}

	literals := make([]string, 0, len(matches))
	for _, m := range matches {
		literals = append(literals, pickGroup(m))
	}
	return literals
}

// ExtractPositions is like Extract but also reports the line and column of
// each marker call.
func ExtractPositions(content string) []Literal {
	locs := markerPattern.FindAllStringSubmatchIndex(content, -1)
	if len(locs) == 0 {
		return nil
	}

	literals := make([]Literal, 0, len(locs))
	line, lineStart, scanned := 1, 0, 0
	for _, loc := range locs {
		// Advance the line counter up to the start of this match.
		for i := scanned; i < loc[0]; i++ {
			if content[i] == '\n' {
				line++
				lineStart = i + 1
			}
		}
		scanned = loc[0]

		var text string
		for g := 1; g <= 3; g++ {
			if loc[2*g] >= 0 {
				text = content[loc[2*g]:loc[2*g+1]]
				break
			}
		}

		literals = append(literals, Literal{
			Text:   text,
			Line:   line,
			Column: loc[0] - lineStart + 1,
		})
	}
	return literals
}

// HasMarker is a cheap pre-check used before running the full pattern.
func HasMarker(content string) bool {
	return strings.Contains(content, Marker+"(")
}

func pickGroup(m []string) string {
	for _, g := range m[1:] {
		if g != "" {
			return g
		}
	}
	return ""
}
