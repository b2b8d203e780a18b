// Package store persists whole JSON documents on the local filesystem.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// File owns one JSON document on disk. All writes go through a temp file in
// the same directory followed by a rename, so readers never observe a
// partially written document, and a process-wide mutex serialises
// concurrent writers.
type File struct {
	path string
	mu   sync.Mutex
}

// NewFile returns a File bound to path. The file does not need to exist
// yet.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the bound filesystem path.
func (f *File) Path() string {
	return f.path
}

// Exists reports whether the document exists on disk.
func (f *File) Exists() bool {
	_, err := os.Stat(f.path)
	return err == nil
}

// Load decodes the document into v. A missing file surfaces as
// os.ErrNotExist so callers can fall back to defaults.
func (f *File) Load(v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("store: decode %s: %w", f.path, err)
	}
	return nil
}

// Save encodes v and atomically replaces the document. Either the whole new
// document lands or the previous one stays intact.
func (f *File) Save(v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", f.path, err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("store: ensure dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".*")
	if err != nil {
		return fmt.Errorf("store: temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("store: write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("store: close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("store: replace %s: %w", f.path, err)
	}
	return nil
}
