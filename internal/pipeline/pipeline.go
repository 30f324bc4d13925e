// Package pipeline wires scanning, translation and persistence into one run.
package pipeline

import (
	"context"
	"errors"

	"i18n-translator/internal/localefile"
	"i18n-translator/internal/scanner"
	"i18n-translator/internal/translation"

	"github.com/rs/zerolog/log"
)

// Options describes one run.
type Options struct {
	ProjectPath string
	OutputDir   string
	Languages   []string
	// DryRun translates but does not write language files.
	DryRun bool
}

// Summary reports what a run did.
type Summary struct {
	Files         int
	Literals      int
	ProviderCalls int
	FilesWritten  int
}

// Connector opens the translation provider. cleanup releases whatever it
// opened.
type Connector func(ctx context.Context) (provider translation.Provider, cleanup func(), err error)

// Pipeline runs scan -> aggregate -> persist.
type Pipeline struct {
	Scanner    *scanner.Scanner
	Aggregator *translation.Aggregator
	Persister  *localefile.Persister
	// Connect, when set, is called once the scan found literals and its
	// provider replaces the Aggregator's.
	Connect Connector
}

// Run executes the pipeline. Nothing is written unless every translation
// succeeded. A project without literals makes no provider calls and writes
// no files.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Summary, error) {
	if len(opts.Languages) == 0 {
		return nil, errors.New("at least one target language is required")
	}

	log.Info().Str("project", opts.ProjectPath).Msg("Scanning project")
	log.Info().Str("output", opts.OutputDir).Msg("Output directory")
	log.Info().Strs("languages", opts.Languages).Msg("Target languages")

	projectMap, err := p.Scanner.Scan(ctx, opts.ProjectPath)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Files: projectMap.Len()}
	if projectMap.Len() == 0 {
		log.Info().Msg("No i18n strings found")
		return summary, nil
	}

	agg := p.Aggregator
	if p.Connect != nil {
		provider, cleanup, err := p.Connect(ctx)
		if err != nil {
			return nil, err
		}
		defer cleanup()
		agg = agg.WithProvider(provider)
	}

	tm, err := agg.Aggregate(ctx, projectMap, opts.Languages)
	if err != nil {
		return nil, err
	}
	summary.Literals = tm.Len()
	summary.ProviderCalls = tm.Len() * len(tm.Languages)

	if opts.DryRun {
		log.Info().Int("literals", tm.Len()).Msg("Dry run, no files written")
		return summary, nil
	}

	if err := p.Persister.Persist(ctx, tm, opts.OutputDir); err != nil {
		return nil, err
	}
	summary.FilesWritten = len(tm.Languages)

	return summary, nil
}
