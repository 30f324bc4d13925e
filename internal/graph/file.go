package graph

import (
	"encoding/json"
	"fmt"
	"sort"

	"i18n-translator/internal/apperr"

	"github.com/spf13/afero"
)

// LoadTerms reads a glossary file of the form
//
//	{"fr": {"dashboard": "tableau de bord"}, "de": {...}}
//
// and returns its terms sorted by language, then source.
func LoadTerms(fs afero.Fs, path string) ([]Term, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, apperr.FS("read", path, err)
	}

	var raw map[string]map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &apperr.ParseError{Path: path, Err: err}
	}

	var terms []Term
	for lang, entries := range raw {
		for src, dst := range entries {
			if src == "" || dst == "" {
				return nil, &apperr.ParseError{Path: path, Err: fmt.Errorf("empty term in language %q", lang)}
			}
			terms = append(terms, Term{Source: src, Language: lang, Target: dst})
		}
	}

	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Language != terms[j].Language {
			return terms[i].Language < terms[j].Language
		}
		return terms[i].Source < terms[j].Source
	})
	return terms, nil
}
