package localefile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"i18n-translator/internal/apperr"
	"i18n-translator/internal/translation"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Persister merges translation maps into language files.
type Persister struct {
	fs afero.Fs
}

// NewPersister creates a Persister over fs.
func NewPersister(fs afero.Fs) *Persister {
	return &Persister{fs: fs}
}

// Path returns the file path of language inside dir.
func Path(dir, language string) string {
	return filepath.Join(dir, language+".json")
}

// Persist writes m into dir, one file per language, creating dir if needed.
// Each language file is read, merged and written once: keys not in m are
// kept, keys in m take the new value. A language file that fails to parse
// aborts the run; files already written for earlier languages stay written.
func (p *Persister) Persist(ctx context.Context, m *translation.Map, dir string) error {
	if err := p.fs.MkdirAll(dir, 0o755); err != nil {
		return apperr.FS("create output directory", dir, err)
	}

	for _, lang := range m.Languages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.mergeLanguage(m, dir, lang); err != nil {
			return err
		}
	}

	log.Info().Str("output", dir).Int("languages", len(m.Languages)).Msg("Translations written")
	return nil
}

// Load reads the language file at path. A missing file is an empty File.
func (p *Persister) Load(path string) (*File, error) {
	data, err := afero.ReadFile(p.fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, apperr.FS("read", path, err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, &apperr.ParseError{Path: path, Err: err}
	}
	return f, nil
}

func (p *Persister) mergeLanguage(m *translation.Map, dir, lang string) error {
	path := Path(dir, lang)

	f, err := p.Load(path)
	if err != nil {
		return err
	}
	before := f.Len()

	for _, lit := range m.Literals {
		translated, ok := m.Translation(lit, lang)
		if !ok {
			return fmt.Errorf("missing %s translation for %q", lang, lit)
		}
		f.Set(lit, translated)
	}

	if err := p.writeFile(path, f.Marshal()); err != nil {
		return err
	}

	log.Info().
		Str("file", path).
		Int("keys", f.Len()).
		Int("added", f.Len()-before).
		Msg("Language file written")
	return nil
}

// writeFile replaces path through a temporary file in the same directory.
func (p *Persister) writeFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := afero.WriteFile(p.fs, tmp, data, 0o644); err != nil {
		return apperr.FS("write", tmp, err)
	}
	if err := p.fs.Rename(tmp, path); err != nil {
		_ = p.fs.Remove(tmp)
		return apperr.FS("rename", path, err)
	}
	return nil
}
