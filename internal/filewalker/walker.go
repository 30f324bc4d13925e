package filewalker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"i18n-translator/internal/apperr"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// DefaultExtensions lists the source file types scanned when none are configured.
var DefaultExtensions = []string{".js", ".jsx", ".ts", ".tsx"}

// Walker collects source files from a directory tree.
type Walker struct {
	fs afero.Fs
}

// NewWalker creates a Walker over the given filesystem.
func NewWalker(fs afero.Fs) *Walker {
	return &Walker{fs: fs}
}

// Collect returns every file under root whose name ends with one of the
// extensions (case-sensitive suffix match). Subdirectories are descended
// without a depth limit. The order of the result follows the walk and must
// not be relied upon.
//
// A missing or unreadable root, or any unreadable entry below it, aborts the
// walk; there is no partial result.
func (w *Walker) Collect(ctx context.Context, root string, extensions []string) ([]string, error) {
	info, err := w.fs.Stat(root)
	if err != nil {
		return nil, apperr.FS("stat root", root, err)
	}
	if !info.IsDir() {
		return nil, apperr.FS("stat root", root, fmt.Errorf("not a directory"))
	}

	resolved, err := w.resolveRoot(root)
	if err != nil {
		return nil, apperr.FS("resolve root", root, err)
	}

	var files []string

	err = afero.Walk(w.fs, resolved, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return apperr.FS("walk", path, err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if info.IsDir() {
			return nil
		}

		if hasSuffix(info.Name(), extensions) {
			files = append(files, underRoot(root, resolved, path))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Debug().Int("count", len(files)).Str("root", root).Msg("Discovered files")
	return files, nil
}

// maxRootLinks bounds symlink resolution of the root.
const maxRootLinks = 40

// resolveRoot follows root while it is a symlink. Links below the root are
// not followed by the walk.
func (w *Walker) resolveRoot(root string) (string, error) {
	lstater, ok := w.fs.(afero.Lstater)
	if !ok {
		return root, nil
	}
	reader, ok := w.fs.(afero.LinkReader)
	if !ok {
		return root, nil
	}

	current := root
	for i := 0; i < maxRootLinks; i++ {
		info, lstatCalled, err := lstater.LstatIfPossible(current)
		if err != nil {
			return "", err
		}
		if !lstatCalled || info.Mode()&os.ModeSymlink == 0 {
			return current, nil
		}
		target, err := reader.ReadlinkIfPossible(current)
		if err != nil {
			return "", err
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(current), target)
		}
		current = target
	}
	return "", fmt.Errorf("too many levels of symbolic links")
}

// underRoot rewrites a path found below resolved so it reads as a path
// below root.
func underRoot(root, resolved, path string) string {
	if root == resolved {
		return path
	}
	rel, err := filepath.Rel(resolved, path)
	if err != nil {
		return path
	}
	return filepath.Join(root, rel)
}

func hasSuffix(name string, extensions []string) bool {
	for _, ext := range extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
