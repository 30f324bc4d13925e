package translation

import (
	"context"
	"errors"
	"time"

	"i18n-translator/internal/apperr"
	"i18n-translator/internal/scanner"
	"i18n-translator/internal/textutil"
	"i18n-translator/internal/worker"

	"github.com/rs/zerolog/log"
)

// Map holds the translations of every unique literal into every requested
// language. Literals and Languages keep first-seen and requested order.
type Map struct {
	Literals  []string
	Languages []string
	Entries   map[string]map[string]string
}

// Len returns the number of unique literals.
func (m *Map) Len() int { return len(m.Literals) }

// Translation returns the translation of literal into language.
func (m *Map) Translation(literal, language string) (string, bool) {
	byLang, ok := m.Entries[literal]
	if !ok {
		return "", false
	}
	v, ok := byLang[language]
	return v, ok
}

// Aggregator deduplicates literals and collects their translations.
type Aggregator struct {
	provider Provider
	// Concurrency caps in-flight provider calls. Values <= 1 keep the
	// sequential behaviour.
	Concurrency int
	// Timeout bounds each provider call. Zero means no timeout.
	Timeout time.Duration
}

// NewAggregator creates a sequential Aggregator.
func NewAggregator(p Provider) *Aggregator {
	return &Aggregator{provider: p, Concurrency: 1}
}

// WithProvider returns a copy of a that calls p.
func (a *Aggregator) WithProvider(p Provider) *Aggregator {
	c := *a
	c.provider = p
	return &c
}

// Unique returns the distinct literals of m in first-seen order: files in
// map order, literals in file order.
func Unique(m *scanner.ProjectMap) []string {
	seen := make(map[string]struct{})
	var literals []string
	for _, f := range m.Files {
		for _, lit := range f.Literals {
			if _, ok := seen[lit]; ok {
				continue
			}
			seen[lit] = struct{}{}
			literals = append(literals, lit)
		}
	}
	return literals
}

// Aggregate translates every unique literal of m into every language. It
// makes exactly len(unique literals) * len(languages) provider calls and
// returns either a complete Map or the first error.
func (a *Aggregator) Aggregate(ctx context.Context, m *scanner.ProjectMap, languages []string) (*Map, error) {
	literals := Unique(m)
	result := &Map{
		Literals:  literals,
		Languages: languages,
		Entries:   make(map[string]map[string]string, len(literals)),
	}
	for _, lit := range literals {
		result.Entries[lit] = make(map[string]string, len(languages))
	}

	log.Info().
		Int("unique", len(literals)).
		Int("languages", len(languages)).
		Int("calls", len(literals)*len(languages)).
		Msg("Translation plan")

	var err error
	if a.Concurrency > 1 {
		err = a.fanOut(ctx, result)
	} else {
		err = a.sequential(ctx, result)
	}
	if err != nil {
		return nil, err
	}

	log.Info().Int("unique", len(literals)).Msg("Translation complete")
	return result, nil
}

func (a *Aggregator) sequential(ctx context.Context, result *Map) error {
	for i, lit := range result.Literals {
		for _, lang := range result.Languages {
			translated, err := a.translateOne(ctx, lit, lang)
			if err != nil {
				return err
			}
			result.Entries[lit][lang] = translated
		}
		log.Debug().
			Int("done", i+1).
			Int("total", len(result.Literals)).
			Str("text", textutil.Truncate(lit, 40)).
			Msg("Literal translated")
	}
	return nil
}

type pair struct {
	literal  string
	language string
}

// fanOut runs the same pairs as sequential, in the same order, through a
// bounded pool. The reported error is the one of the lowest failing pair.
func (a *Aggregator) fanOut(ctx context.Context, result *Map) error {
	pairs := make([]pair, 0, len(result.Literals)*len(result.Languages))
	for _, lit := range result.Literals {
		for _, lang := range result.Languages {
			pairs = append(pairs, pair{literal: lit, language: lang})
		}
	}

	pool := worker.NewPool[pair, string](a.Concurrency, func(ctx context.Context, p pair) (string, error) {
		return a.translateOne(ctx, p.literal, p.language)
	})
	tasks := pool.Execute(ctx, pairs)
	if err := worker.FirstError(tasks); err != nil {
		return err
	}

	for _, t := range tasks {
		result.Entries[t.Input.literal][t.Input.language] = t.Result
	}
	return nil
}

func (a *Aggregator) translateOne(ctx context.Context, text, language string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &apperr.ProviderError{Text: text, Language: language, Err: err}
	}

	callCtx := ctx
	if a.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}

	translated, err := a.provider.Translate(callCtx, text, language)
	if err != nil {
		var perr *apperr.ProviderError
		if errors.As(err, &perr) {
			return "", err
		}
		return "", &apperr.ProviderError{Text: text, Language: language, Err: err}
	}
	return translated, nil
}
