package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBindingReadReturnsDefaultWhenAbsent(t *testing.T) {
	t.Parallel()

	s, err := Open(filepath.Join(t.TempDir(), "selah.json"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	binding := Bind(s, KeyTranslation, "acf")
	if got := binding.Read(); got != "acf" {
		t.Fatalf("Read() = %q, want default", got)
	}
}

func TestBindingRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "selah.json")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	type lastRead struct {
		BookName string `json:"bookName"`
		Chapter  int    `json:"chapter"`
	}
	binding := Bind(s, KeyLastRead, lastRead{BookName: "Genesis", Chapter: 1})

	if err := binding.Write(lastRead{BookName: "John", Chapter: 3}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	// A fresh store over the same file sees the persisted value.
	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got := Bind(reopened, KeyLastRead, lastRead{}).Read()
	if got.BookName != "John" || got.Chapter != 3 {
		t.Fatalf("persisted value = %+v", got)
	}
}

func TestCorruptValueFallsBackToDefault(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "selah.json")
	if err := os.WriteFile(path, []byte(`{"bible_translation": {"not": "a string"}}`), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	binding := Bind(s, KeyTranslation, "acf")
	if got := binding.Read(); got != "acf" {
		t.Fatalf("corrupt value should read as default, got %q", got)
	}

	// The corrupt entry is overwritten by the next write.
	if err := binding.Write("kjv"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := binding.Read(); got != "kjv" {
		t.Fatalf("Read after repair = %q", got)
	}
}

func TestCorruptDocumentStartsEmpty(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "selah.json")
	if err := os.WriteFile(path, []byte("{ not json"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open should tolerate a corrupt document: %v", err)
	}
	if got := Bind(s, KeyTheme, "light").Read(); got != "light" {
		t.Fatalf("Read() = %q, want default", got)
	}
}

func TestLastWriteWins(t *testing.T) {
	t.Parallel()

	s, err := Open(filepath.Join(t.TempDir(), "selah.json"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	binding := Bind(s, KeyTheme, "light")
	if err := binding.Write("dark"); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := binding.Write("light"); err != nil {
		t.Fatalf("second write: %v", err)
	}
	if got := binding.Read(); got != "light" {
		t.Fatalf("Read() = %q, want last written value", got)
	}
}
