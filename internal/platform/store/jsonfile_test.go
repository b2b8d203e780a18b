package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	f := NewFile(path)

	if f.Exists() {
		t.Fatal("file should not exist yet")
	}
	if err := f.Save(payload{Name: "demo", Count: 3}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !f.Exists() {
		t.Fatal("file should exist after save")
	}

	var got payload
	if err := f.Load(&got); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Name != "demo" || got.Count != 3 {
		t.Fatalf("unexpected payload %+v", got)
	}
}

func TestFileLoadMissing(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "missing.json"))
	var got payload
	if err := f.Load(&got); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}

func TestFileSaveLeavesNoTempDebris(t *testing.T) {
	dir := t.TempDir()
	f := NewFile(filepath.Join(dir, "data.json"))
	for i := 0; i < 3; i++ {
		if err := f.Save(payload{Count: i}); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".data.json") {
			t.Fatalf("temp file left behind: %s", entry.Name())
		}
	}
	if len(entries) != 1 {
		t.Fatalf("expected a single file, got %d", len(entries))
	}
}

func TestFileSaveReplacesAtomically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	f := NewFile(path)
	if err := f.Save(payload{Name: "first"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := f.Save(payload{Name: "second"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	var got payload
	if err := f.Load(&got); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Name != "second" {
		t.Fatalf("expected replaced document, got %+v", got)
	}
}
