package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// Fixed storage keys. Every persisted value in the application lives under
// one of these names inside a single JSON document.
const (
	KeyLastRead        = "bible_last_read"
	KeyTranslation     = "bible_translation"
	KeyTheme           = "bible_theme"
	KeyBookmarks       = "bible_bookmarks"
	KeyHighlights      = "bible_highlights"
	KeyReadingSettings = "bible_readingSettings"
	KeyVerseOfTheDay   = "verse_of_the_day"
)

// Store is a namespaced key-value document persisted as one JSON file.
// Writes rewrite the whole file; last writer wins in-process.
type Store struct {
	mu   sync.Mutex
	path string
	data map[string]json.RawMessage
}

// Open loads the document at path, creating the parent directory when
// missing. A corrupt or absent file yields an empty document; individual
// corrupt values are repaired on the next write of their key.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	s := &Store{path: path, data: map[string]json.RawMessage{}}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		// Corrupt document: start fresh rather than fail startup.
		s.data = map[string]json.RawMessage{}
	}
	return s, nil
}

// Path reports where the document is persisted.
func (s *Store) Path() string {
	return s.path
}

// Get unmarshals the value stored under key into target. It returns false
// when the key is absent or the stored value does not parse.
func (s *Store) Get(key string, target any) bool {
	s.mu.Lock()
	raw, ok := s.data[key]
	s.mu.Unlock()
	if !ok {
		return false
	}
	return json.Unmarshal(raw, target) == nil
}

// Set serializes value under key and persists the whole document.
func (s *Store) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = raw
	return s.flushLocked()
}

// Delete removes key and persists.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; !ok {
		return nil
	}
	delete(s.data, key)
	return s.flushLocked()
}

func (s *Store) flushLocked() error {
	payload, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, payload, 0o644)
}

// Binding is a typed accessor for one key: Read returns the stored value or
// the supplied default, Write serializes and persists.
type Binding[T any] struct {
	store    *Store
	key      string
	fallback T
}

// Bind creates a typed binding over key with the given default.
func Bind[T any](s *Store, key string, fallback T) Binding[T] {
	return Binding[T]{store: s, key: key, fallback: fallback}
}

// Read returns the stored value, or the default when the key is missing or
// its value does not parse as T.
func (b Binding[T]) Read() T {
	var value T
	if !b.store.Get(b.key, &value) {
		return b.fallback
	}
	return value
}

// Write persists value under the binding's key.
func (b Binding[T]) Write(value T) error {
	return b.store.Set(b.key, value)
}

// Clear removes the binding's key from the document.
func (b Binding[T]) Clear() error {
	return b.store.Delete(b.key)
}
