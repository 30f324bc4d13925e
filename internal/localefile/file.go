// Package localefile reads and writes per-language translation files: flat
// JSON objects mapping the original literal to its translation, stored as
// <dir>/<language>.json.
package localefile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// File is a language file with its key order preserved.
type File struct {
	keys   []string
	values map[string]string
}

// New returns an empty File.
func New() *File {
	return &File{values: make(map[string]string)}
}

// Parse decodes a flat JSON object of strings. Key order is kept; a repeated
// key keeps its first position and its last value.
func Parse(data []byte) (*File, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	t, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := t.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected {, got %v", t)
	}

	f := New()
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := kt.(string)
		if !ok {
			return nil, fmt.Errorf("expected string key, got %T", kt)
		}

		vt, err := dec.Token()
		if err != nil {
			return nil, err
		}
		value, ok := vt.(string)
		if !ok {
			return nil, fmt.Errorf("expected string value for key %q, got %v", key, vt)
		}
		f.Set(key, value)
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after top-level object")
	}
	return f, nil
}

// Set adds or replaces key. New keys are appended.
func (f *File) Set(key, value string) {
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
}

// Get returns the value of key.
func (f *File) Get(key string) (string, bool) {
	v, ok := f.values[key]
	return v, ok
}

// Keys returns the keys in file order.
func (f *File) Keys() []string {
	return append([]string(nil), f.keys...)
}

// Len returns the number of keys.
func (f *File) Len() int { return len(f.keys) }

// Marshal encodes the file the way JSON.stringify(obj, null, 2) does: 2-space
// indentation, no HTML escaping and no trailing newline. An empty file
// encodes as {}.
func (f *File) Marshal() []byte {
	if len(f.keys) == 0 {
		return []byte("{}")
	}

	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, k := range f.keys {
		buf.WriteString("  ")
		writeString(&buf, k)
		buf.WriteString(": ")
		writeString(&buf, f.values[k])
		if i < len(f.keys)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteByte('}')
	return buf.Bytes()
}

// writeString quotes s with the JSON.stringify escape set. encoding/json
// differs on \b, \f, U+2028 and U+2029.
func writeString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(buf, `\u%04x`, r)
				continue
			}
			buf.WriteRune(r)
		}
	}
	buf.WriteByte('"')
}
