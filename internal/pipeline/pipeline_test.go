package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"i18n-translator/internal/apperr"
	"i18n-translator/internal/localefile"
	"i18n-translator/internal/scanner"
	"i18n-translator/internal/translation"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	calls  map[string]int
	failOn string
}

func (f *fakeProvider) Translate(ctx context.Context, text, language string) (string, error) {
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[text+"/"+language]++
	if text == f.failOn {
		return "", errors.New("service unavailable")
	}
	return language + "(" + text + ")", nil
}

func (f *fakeProvider) total() int {
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func setup(t *testing.T, files map[string]string, provider translation.Provider) (*Pipeline, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}
	return &Pipeline{
		Scanner:    scanner.New(fs),
		Aggregator: translation.NewAggregator(provider),
		Persister:  localefile.NewPersister(fs),
	}, fs
}

func TestRunEndToEnd(t *testing.T) {
	provider := &fakeProvider{}
	p, fs := setup(t, map[string]string{
		"/app/src/App.tsx":        `<h1>{i18n("Welcome")}</h1><p>{i18n('Sign in')}</p>`,
		"/app/src/pages/Home.jsx": "i18n(`Welcome`) i18n(\"Welcome\")",
		"/app/README.md":          `i18n("Docs only")`,
	}, provider)

	summary, err := p.Run(context.Background(), Options{
		ProjectPath: "/app",
		OutputDir:   "/app/locales",
		Languages:   []string{"fr", "de"},
	})
	require.NoError(t, err)

	assert.Equal(t, &Summary{Files: 2, Literals: 2, ProviderCalls: 4, FilesWritten: 2}, summary)
	assert.Equal(t, 4, provider.total())
	for key, n := range provider.calls {
		assert.Equal(t, 1, n, key)
	}
	assert.NotContains(t, provider.calls, "Docs only/fr")

	fr, err := localefile.NewPersister(fs).Load("/app/locales/fr.json")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Welcome", "Sign in"}, fr.Keys())
	v, _ := fr.Get("Sign in")
	assert.Equal(t, "fr(Sign in)", v)
}

func TestRunNoLiteralsWritesNothing(t *testing.T) {
	provider := &fakeProvider{}
	p, fs := setup(t, map[string]string{
		"/app/index.js": `console.log("hello")`,
		"/app/notes.md": `i18n("z")`,
	}, provider)

	summary, err := p.Run(context.Background(), Options{ProjectPath: "/app", OutputDir: "/out", Languages: []string{"fr"}})
	require.NoError(t, err)
	assert.Equal(t, 0, summary.FilesWritten)
	assert.Equal(t, 0, provider.total())

	exists, err := afero.DirExists(fs, "/out")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRunConnectsOnlyWhenLiteralsFound(t *testing.T) {
	connects, cleanups := 0, 0
	provider := &fakeProvider{}
	connect := func(ctx context.Context) (translation.Provider, func(), error) {
		connects++
		return provider, func() { cleanups++ }, nil
	}

	empty, _ := setup(t, map[string]string{"/app/index.js": `console.log("hello")`}, nil)
	empty.Connect = func(ctx context.Context) (translation.Provider, func(), error) {
		return nil, nil, errors.New("GEMINI_API_KEY missing")
	}
	_, err := empty.Run(context.Background(), Options{ProjectPath: "/app", OutputDir: "/out", Languages: []string{"fr"}})
	require.NoError(t, err)

	p, fs := setup(t, map[string]string{"/app/a.js": `i18n("x")`}, nil)
	p.Connect = connect
	_, err = p.Run(context.Background(), Options{ProjectPath: "/app", OutputDir: "/out", Languages: []string{"fr"}})
	require.NoError(t, err)
	assert.Equal(t, 1, connects)
	assert.Equal(t, 1, cleanups)
	assert.Equal(t, 1, provider.total())

	data, err := afero.ReadFile(fs, "/out/fr.json")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"x\": \"fr(x)\"\n}", string(data))
}

func TestRunConnectFailure(t *testing.T) {
	p, fs := setup(t, map[string]string{"/app/a.js": `i18n("x")`}, nil)
	p.Connect = func(ctx context.Context) (translation.Provider, func(), error) {
		return nil, nil, errors.New("connection refused")
	}

	_, err := p.Run(context.Background(), Options{ProjectPath: "/app", OutputDir: "/out", Languages: []string{"fr"}})
	assert.ErrorContains(t, err, "connection refused")
	exists, err := afero.Exists(fs, "/out/fr.json")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRunProviderFailureWritesNothing(t *testing.T) {
	provider := &fakeProvider{failOn: "three"}
	p, fs := setup(t, map[string]string{
		"/app/a.ts": `i18n("one") i18n("two") i18n("three") i18n("four") i18n("five")`,
	}, provider)
	require.NoError(t, fs.MkdirAll("/out", 0o755))
	require.NoError(t, afero.WriteFile(fs, "/out/fr.json", []byte(`{"kept":"yes"}`), 0o644))

	_, err := p.Run(context.Background(), Options{ProjectPath: "/app", OutputDir: "/out", Languages: []string{"fr", "de"}})

	var perr *apperr.ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "three", perr.Text)
	assert.Equal(t, 0, provider.calls["four/fr"])

	data, err := afero.ReadFile(fs, "/out/fr.json")
	require.NoError(t, err)
	assert.Equal(t, `{"kept":"yes"}`, string(data))
	exists, err := afero.Exists(fs, "/out/de.json")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRunMergesWithExistingFile(t *testing.T) {
	provider := translation.ProviderFunc(func(ctx context.Context, text, language string) (string, error) {
		return map[string]string{"bye": "adios"}[text], nil
	})
	p, fs := setup(t, map[string]string{"/app/a.js": `i18n("bye")`}, provider)
	require.NoError(t, fs.MkdirAll("/out", 0o755))
	require.NoError(t, afero.WriteFile(fs, "/out/en.json", []byte(`{"hello":"hola"}`), 0o644))

	_, err := p.Run(context.Background(), Options{ProjectPath: "/app", OutputDir: "/out", Languages: []string{"en"}})
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, "/out/en.json")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"hello\": \"hola\",\n  \"bye\": \"adios\"\n}", string(data))
}

func TestRunTwiceIsByteIdentical(t *testing.T) {
	p, fs := setup(t, map[string]string{
		"/app/a.js": `i18n("x") i18n("y")`,
		"/app/b.js": `i18n("z") i18n("x")`,
	}, &fakeProvider{})
	opts := Options{ProjectPath: "/app", OutputDir: "/out", Languages: []string{"it"}}

	_, err := p.Run(context.Background(), opts)
	require.NoError(t, err)
	first, err := afero.ReadFile(fs, "/out/it.json")
	require.NoError(t, err)

	_, err = p.Run(context.Background(), opts)
	require.NoError(t, err)
	second, err := afero.ReadFile(fs, "/out/it.json")
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestRunTwiceWithInvalidUTF8IsByteIdentical(t *testing.T) {
	p, fs := setup(t, map[string]string{
		"/app/latin1.js": "i18n(\"caf\xe9\")",
	}, &fakeProvider{})
	opts := Options{ProjectPath: "/app", OutputDir: "/out", Languages: []string{"it"}}

	_, err := p.Run(context.Background(), opts)
	require.NoError(t, err)
	first, err := afero.ReadFile(fs, "/out/it.json")
	require.NoError(t, err)

	_, err = p.Run(context.Background(), opts)
	require.NoError(t, err)
	second, err := afero.ReadFile(fs, "/out/it.json")
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	f, err := localefile.NewPersister(fs).Load("/out/it.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"caf\uFFFD"}, f.Keys())
}

func TestRunDryRun(t *testing.T) {
	provider := &fakeProvider{}
	p, fs := setup(t, map[string]string{"/app/a.js": `i18n("x")`}, provider)

	summary, err := p.Run(context.Background(), Options{ProjectPath: "/app", OutputDir: "/out", Languages: []string{"fr"}, DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.ProviderCalls)
	assert.Equal(t, 0, summary.FilesWritten)

	exists, err := afero.Exists(fs, "/out/fr.json")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRunMissingProject(t *testing.T) {
	p, _ := setup(t, nil, &fakeProvider{})
	_, err := p.Run(context.Background(), Options{ProjectPath: "/nope", OutputDir: "/out", Languages: []string{"fr"}})

	var fsErr *apperr.FileSystemError
	assert.True(t, errors.As(err, &fsErr))
}

func TestRunRequiresLanguages(t *testing.T) {
	p, _ := setup(t, nil, &fakeProvider{})
	_, err := p.Run(context.Background(), Options{ProjectPath: "/app", OutputDir: "/out"})
	assert.Error(t, err)
}
