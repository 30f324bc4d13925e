// Package apperr defines the error kinds surfaced by the extraction and
// translation pipeline. Every kind wraps its cause so callers can use
// errors.Is / errors.As on either the kind or the underlying error.
package apperr

import "fmt"

// FileSystemError reports a failure to read the scan tree or to create or
// write output files.
type FileSystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileSystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileSystemError) Unwrap() error { return e.Err }

// ParseError reports an existing language file that is not a flat JSON
// object of strings.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ProviderError reports a failed translation call.
type ProviderError struct {
	Text     string
	Language string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("translate %q to %s: %v", e.Text, e.Language, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// FS wraps err as a FileSystemError.
func FS(op, path string, err error) error {
	return &FileSystemError{Op: op, Path: path, Err: err}
}
