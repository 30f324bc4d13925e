package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"i18n-translator/internal/cache"
	"i18n-translator/internal/config"
	"i18n-translator/internal/graph"
	"i18n-translator/internal/localefile"
	"i18n-translator/internal/pipeline"
	"i18n-translator/internal/scanner"
	"i18n-translator/internal/translation"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := newRootCmd(config.Load(), afero.NewOsFs()).Execute(); err != nil {
		log.Error().Err(err).Msg("Run failed")
		os.Exit(1)
	}
}

// translateFlags are the flags of the root (translate) command.
type translateFlags struct {
	projectPath string
	outputDir   string
	languages   string
	provider    string
	sourceLang  string
	extensions  []string
	concurrency int
	timeout     time.Duration
	dryRun      bool
	verbose     bool
}

func newRootCmd(cfg *config.Config, fs afero.Fs) *cobra.Command {
	var f translateFlags

	rootCmd := &cobra.Command{
		Use:   "i18n-translator",
		Short: "Extract i18n() literals from a JS/TS project and translate them",
		Long: `Scans a project for i18n("...") marker calls, translates every unique literal
into each target language and merges the results into <output-dir>/<lang>.json.`,
		Example:       "  i18n-translator -p ./src -o ./locales -l fr,de,es",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(cfg.LogLevel, f.verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			f.apply(cfg)
			return runTranslate(cmd.Context(), cfg, fs, f)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&f.projectPath, "project-path", "p", "", "Path to the project directory to scan")
	flags.StringVarP(&f.outputDir, "output-dir", "o", "", "Directory to save the translated files")
	flags.StringVarP(&f.languages, "languages", "l", "", "List of languages to translate to (comma-separated)")
	flags.StringVar(&f.provider, "provider", cfg.Provider, "Translation provider: google or gemini")
	flags.StringVar(&f.sourceLang, "source-lang", cfg.SourceLanguage, "Source language of the literals (auto to detect)")
	flags.StringSliceVar(&f.extensions, "extensions", cfg.Extensions, "File extensions to scan")
	flags.IntVar(&f.concurrency, "concurrency", cfg.Concurrency, "Maximum in-flight translation requests (1 = sequential)")
	flags.DurationVar(&f.timeout, "timeout", cfg.Timeout, "Timeout per translation request (0 = none)")
	flags.BoolVar(&f.dryRun, "dry-run", false, "Translate but do not write language files")
	rootCmd.PersistentFlags().BoolVarP(&f.verbose, "verbose", "v", false, "Enable debug logging")

	_ = rootCmd.MarkFlagRequired("project-path")
	_ = rootCmd.MarkFlagRequired("output-dir")
	_ = rootCmd.MarkFlagRequired("languages")

	rootCmd.AddCommand(extractCmd(cfg, fs))
	rootCmd.AddCommand(glossaryCmd(cfg, fs))

	return rootCmd
}

// apply copies command-line values onto cfg.
func (f *translateFlags) apply(cfg *config.Config) {
	cfg.Provider = f.provider
	cfg.SourceLanguage = f.sourceLang
	cfg.Extensions = f.extensions
	cfg.Concurrency = f.concurrency
	cfg.Timeout = f.timeout
}

func extractCmd(cfg *config.Config, fs afero.Fs) *cobra.Command {
	var projectPath string
	var extensions []string

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Print the i18n() literals found in a project as JSON, without translating",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := scanner.New(fs)
			s.Extensions = extensions

			reports, err := s.ScanPositions(cmd.Context(), projectPath)
			if err != nil {
				return err
			}
			if len(reports) == 0 {
				log.Info().Msg("No i18n strings found")
				return nil
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(reports)
		},
	}

	cmd.Flags().StringVarP(&projectPath, "project-path", "p", "", "Path to the project directory to scan")
	cmd.Flags().StringSliceVar(&extensions, "extensions", cfg.Extensions, "File extensions to scan")
	_ = cmd.MarkFlagRequired("project-path")

	return cmd
}

func glossaryCmd(cfg *config.Config, fs afero.Fs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "glossary",
		Short: "Manage the Neo4j terminology glossary used by the gemini provider",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: `Import terms from a JSON file shaped {"<lang>": {"<term>": "<translation>"}}`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGlossaryImport(cmd.Context(), cfg, fs, args[0])
		},
	})

	return cmd
}

// setupContext creates a cancellable context with signal handling.
func setupContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			log.Warn().Msg("Received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigCh)
		cancel()
	}
}

func setupLogging(level string, verbose bool) error {
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return nil
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}

// runTranslate handles the root command.
func runTranslate(parent context.Context, cfg *config.Config, fs afero.Fs, f translateFlags) error {
	ctx, cancel := setupContext(parent)
	defer cancel()

	languages := config.ParseLanguages(f.languages)
	if len(languages) == 0 {
		return errors.New("--languages must name at least one language")
	}

	s := scanner.New(fs)
	s.Extensions = cfg.Extensions

	agg := translation.NewAggregator(nil)
	agg.Concurrency = cfg.Concurrency
	agg.Timeout = cfg.Timeout

	p := &pipeline.Pipeline{
		Scanner:    s,
		Aggregator: agg,
		Persister:  localefile.NewPersister(fs),
		Connect: func(ctx context.Context) (translation.Provider, func(), error) {
			return newProvider(ctx, cfg)
		},
	}

	summary, err := p.Run(ctx, pipeline.Options{
		ProjectPath: f.projectPath,
		OutputDir:   f.outputDir,
		Languages:   languages,
		DryRun:      f.dryRun,
	})
	if err != nil {
		return err
	}

	log.Info().
		Int("files", summary.Files).
		Int("literals", summary.Literals).
		Int("calls", summary.ProviderCalls).
		Int("written", summary.FilesWritten).
		Msg("Done")
	return nil
}

// newProvider is replaced in tests.
var newProvider = buildProvider

// buildProvider creates the configured provider, wrapped by the translation
// cache when DATABASE_URL is set. cleanup releases every opened connection.
func buildProvider(ctx context.Context, cfg *config.Config) (translation.Provider, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var provider translation.Provider
	switch cfg.Provider {
	case config.ProviderGoogle:
		provider = translation.NewGoogleProvider(cfg.SourceLanguage)
	case config.ProviderGemini:
		gp, err := translation.NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.TranslationModel, cfg.SourceLanguage)
		if err != nil {
			return nil, cleanup, err
		}
		if cfg.Neo4jURI != "" {
			driver, err := graph.Connect(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
			if err != nil {
				return nil, cleanup, err
			}
			closers = append(closers, func() { driver.Close(context.Background()) })
			gp.SetGlossary(graph.NewGlossary(driver))
		}
		provider = gp
	default:
		return nil, cleanup, fmt.Errorf("unknown provider %q (want %s or %s)", cfg.Provider, config.ProviderGoogle, config.ProviderGemini)
	}
	log.Info().Str("provider", cfg.Provider).Msg("Translation provider ready")

	if cfg.DatabaseURL == "" {
		return provider, cleanup, nil
	}

	pool, err := cache.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}
	closers = append(closers, pool.Close)

	store := cache.NewPostgresStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		cleanup()
		return nil, func() {}, err
	}

	tc, err := cache.NewTranslationCache(store, cfg.CacheSize)
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}
	return tc.Provider(provider), cleanup, nil
}

// runGlossaryImport handles `glossary import`.
func runGlossaryImport(parent context.Context, cfg *config.Config, fs afero.Fs, path string) error {
	if cfg.Neo4jURI == "" {
		return errors.New("glossary import requires NEO4J_URI")
	}

	ctx, cancel := setupContext(parent)
	defer cancel()

	terms, err := graph.LoadTerms(fs, path)
	if err != nil {
		return err
	}

	driver, err := graph.Connect(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
	if err != nil {
		return err
	}
	defer driver.Close(ctx)

	g := graph.NewGlossary(driver)
	if err := g.EnsureSchema(ctx); err != nil {
		return err
	}
	return g.Upsert(ctx, terms)
}
