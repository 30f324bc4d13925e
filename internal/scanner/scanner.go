// Package scanner turns a source tree into the per-file list of extracted
// literals.
package scanner

import (
	"context"
	"strings"

	"i18n-translator/internal/apperr"
	"i18n-translator/internal/filewalker"
	"i18n-translator/internal/parser"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// FileLiterals holds the literals extracted from one file, in file order.
type FileLiterals struct {
	Path     string
	Literals []string
}

// ProjectMap maps file paths to their literals. Only files with at least one
// literal are present. Iteration order is the order files were collected.
type ProjectMap struct {
	Files []FileLiterals
	index map[string]int
}

// NewProjectMap returns an empty ProjectMap.
func NewProjectMap() *ProjectMap {
	return &ProjectMap{index: make(map[string]int)}
}

// Add records literals for path. Empty literal lists are ignored and adding
// an existing path replaces its entry.
func (m *ProjectMap) Add(path string, literals []string) {
	if len(literals) == 0 {
		return
	}
	if i, ok := m.index[path]; ok {
		m.Files[i].Literals = literals
		return
	}
	m.index[path] = len(m.Files)
	m.Files = append(m.Files, FileLiterals{Path: path, Literals: literals})
}

// Get returns the literals of path.
func (m *ProjectMap) Get(path string) ([]string, bool) {
	i, ok := m.index[path]
	if !ok {
		return nil, false
	}
	return m.Files[i].Literals, true
}

// Len returns the number of files.
func (m *ProjectMap) Len() int { return len(m.Files) }

// LiteralCount returns the number of literal occurrences, duplicates included.
func (m *ProjectMap) LiteralCount() int {
	n := 0
	for _, f := range m.Files {
		n += len(f.Literals)
	}
	return n
}

// Scanner composes the file walker and the literal extractor.
type Scanner struct {
	fs     afero.Fs
	walker *filewalker.Walker
	// Extensions selects which files are scanned.
	Extensions []string
}

// New creates a Scanner with the default extension set.
func New(fs afero.Fs) *Scanner {
	return &Scanner{
		fs:         fs,
		walker:     filewalker.NewWalker(fs),
		Extensions: filewalker.DefaultExtensions,
	}
}

// Scan collects the files under root and extracts their literals. Any read
// failure is fatal.
func (s *Scanner) Scan(ctx context.Context, root string) (*ProjectMap, error) {
	files, err := s.walker.Collect(ctx, root, s.Extensions)
	if err != nil {
		return nil, err
	}

	result := NewProjectMap()
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := s.readText(path)
		if err != nil {
			return nil, err
		}
		if !parser.HasMarker(text) {
			continue
		}
		result.Add(path, parser.Extract(text))
	}

	log.Info().
		Int("files", len(files)).
		Int("with_literals", result.Len()).
		Int("occurrences", result.LiteralCount()).
		Str("root", root).
		Msg("Scan complete")

	return result, nil
}

// Report is the positional form of a scan, used for the extract command.
type Report struct {
	Path     string           `json:"path"`
	Literals []parser.Literal `json:"literals"`
}

// ScanPositions is like Scan but keeps line and column information.
func (s *Scanner) ScanPositions(ctx context.Context, root string) ([]Report, error) {
	files, err := s.walker.Collect(ctx, root, s.Extensions)
	if err != nil {
		return nil, err
	}

	var reports []Report
	for _, path := range files {
		text, err := s.readText(path)
		if err != nil {
			return nil, err
		}
		literals := parser.ExtractPositions(text)
		if len(literals) == 0 {
			continue
		}
		reports = append(reports, Report{Path: path, Literals: literals})
	}
	return reports, nil
}

// readText reads path as UTF-8. Invalid byte sequences become U+FFFD so a
// literal reads back identically from the JSON files it is written to.
func (s *Scanner) readText(path string) (string, error) {
	content, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return "", apperr.FS("read", path, err)
	}
	return strings.ToValidUTF8(string(content), "\uFFFD"), nil
}
