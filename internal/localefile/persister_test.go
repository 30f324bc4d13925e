package localefile

import (
	"context"
	"errors"
	"testing"

	"i18n-translator/internal/apperr"
	"i18n-translator/internal/translation"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tmap(languages []string, pairs ...[3]string) *translation.Map {
	m := &translation.Map{Languages: languages, Entries: map[string]map[string]string{}}
	for _, p := range pairs {
		lit, lang, text := p[0], p[1], p[2]
		if _, ok := m.Entries[lit]; !ok {
			m.Literals = append(m.Literals, lit)
			m.Entries[lit] = map[string]string{}
		}
		m.Entries[lit][lang] = text
	}
	return m
}

func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(data)
}

func TestPersistCreatesDirectoryAndFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	m := tmap([]string{"fr", "de"},
		[3]string{"Hello", "fr", "Bonjour"},
		[3]string{"Hello", "de", "Hallo"},
		[3]string{"Bye", "fr", "Au revoir"},
		[3]string{"Bye", "de", "Tschüss"},
	)

	require.NoError(t, NewPersister(fs).Persist(context.Background(), m, "/out/nested/locales"))

	assert.Equal(t, "{\n  \"Hello\": \"Bonjour\",\n  \"Bye\": \"Au revoir\"\n}", readFile(t, fs, "/out/nested/locales/fr.json"))
	assert.Equal(t, "{\n  \"Hello\": \"Hallo\",\n  \"Bye\": \"Tschüss\"\n}", readFile(t, fs, "/out/nested/locales/de.json"))

	exists, err := afero.Exists(fs, "/out/nested/locales/fr.json.tmp")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestPersistMergesExistingKeys(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/out/en.json", []byte(`{"hello":"hola"}`), 0o644))

	m := tmap([]string{"en"}, [3]string{"bye", "en", "adios"})
	require.NoError(t, NewPersister(fs).Persist(context.Background(), m, "/out"))

	assert.Equal(t, "{\n  \"hello\": \"hola\",\n  \"bye\": \"adios\"\n}", readFile(t, fs, "/out/en.json"))
}

func TestPersistOverwritesRewrittenKeys(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/out/es.json", []byte(`{"a":"old","b":"keep"}`), 0o644))

	m := tmap([]string{"es"}, [3]string{"a", "es", "new"})
	require.NoError(t, NewPersister(fs).Persist(context.Background(), m, "/out"))

	f, err := NewPersister(fs).Load("/out/es.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, f.Keys())
	a, _ := f.Get("a")
	b, _ := f.Get("b")
	assert.Equal(t, "new", a)
	assert.Equal(t, "keep", b)
}

func TestPersistIsIdempotent(t *testing.T) {
	fs := afero.NewMemMapFs()
	m := tmap([]string{"fr"},
		[3]string{"One", "fr", "Un"},
		[3]string{"Two", "fr", "Deux"},
	)
	p := NewPersister(fs)

	require.NoError(t, p.Persist(context.Background(), m, "/out"))
	first := readFile(t, fs, "/out/fr.json")
	require.NoError(t, p.Persist(context.Background(), m, "/out"))
	assert.Equal(t, first, readFile(t, fs, "/out/fr.json"))
}

func TestPersistCorruptFileIsParseError(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/out/de.json", []byte(`{broken`), 0o644))

	m := tmap([]string{"fr", "de"},
		[3]string{"Hi", "fr", "Salut"},
		[3]string{"Hi", "de", "Hallo"},
	)
	err := NewPersister(fs).Persist(context.Background(), m, "/out")

	var parseErr *apperr.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "/out/de.json", parseErr.Path)

	// The corrupt file is left alone; the earlier language is not rolled back.
	assert.Equal(t, `{broken`, readFile(t, fs, "/out/de.json"))
	assert.Contains(t, readFile(t, fs, "/out/fr.json"), "Salut")
}

func TestPersistReadOnlyOutput(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	m := tmap([]string{"fr"}, [3]string{"Hi", "fr", "Salut"})

	err := NewPersister(fs).Persist(context.Background(), m, "/out")
	var fsErr *apperr.FileSystemError
	assert.True(t, errors.As(err, &fsErr))
}

func TestPath(t *testing.T) {
	assert.Equal(t, "out/pt-BR.json", Path("out", "pt-BR"))
}
