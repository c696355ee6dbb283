package reading

import (
	"path/filepath"
	"testing"

	"github.com/rcosta/selah/internal/bible"
	"github.com/rcosta/selah/internal/store"
)

func openKV(t *testing.T, path string) *store.Store {
	t.Helper()
	kv, err := store.Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return kv
}

func newSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(openKV(t, filepath.Join(t.TempDir(), "state.json")))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s
}

func TestNewSessionDefaultsToFirstBook(t *testing.T) {
	t.Parallel()
	s := newSession(t)
	if s.Book() != "Genesis" || s.Chapter() != 1 {
		t.Fatalf("start position = %s %d", s.Book(), s.Chapter())
	}
	if s.Translation().ID != bible.DefaultTranslationID {
		t.Fatalf("translation = %q", s.Translation().ID)
	}
}

func TestSessionRestoresLastRead(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "state.json")
	first, err := NewSession(openKV(t, path))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if _, err := first.Select("John", 3); err != nil {
		t.Fatalf("select: %v", err)
	}

	restored, err := NewSession(openKV(t, path))
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.Book() != "John" || restored.Chapter() != 3 {
		t.Fatalf("restored position = %s %d", restored.Book(), restored.Chapter())
	}
}

func TestSessionIgnoresInvalidLastRead(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "state.json")
	kv := openKV(t, path)
	if err := kv.Set(store.KeyLastRead, LastRead{Book: "Hezekiah", Chapter: 3}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	s, err := NewSession(kv)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if s.Book() != "Genesis" || s.Chapter() != 1 {
		t.Fatalf("position = %s %d, want Genesis 1", s.Book(), s.Chapter())
	}
}

func TestSessionCoercesUnknownTranslationAndRewrites(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "state.json")
	kv := openKV(t, path)
	if err := kv.Set(store.KeyTranslation, "klingon"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	s, err := NewSession(kv)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if s.Translation().ID != bible.DefaultTranslationID {
		t.Fatalf("translation = %q", s.Translation().ID)
	}

	var persisted string
	if !kv.Get(store.KeyTranslation, &persisted) {
		t.Fatal("translation key missing after coercion")
	}
	if persisted != bible.DefaultTranslationID {
		t.Fatalf("persisted translation = %q, coercion was not written back", persisted)
	}
}

func TestStepWrapsAcrossBooks(t *testing.T) {
	t.Parallel()
	s := newSession(t)
	if _, err := s.Select("Genesis", 50); err != nil {
		t.Fatalf("select: %v", err)
	}

	if _, moved, err := s.Step(+1); err != nil || !moved {
		t.Fatalf("step forward: moved=%v err=%v", moved, err)
	}
	if s.Book() != "Exodus" || s.Chapter() != 1 {
		t.Fatalf("after forward wrap: %s %d", s.Book(), s.Chapter())
	}

	if _, moved, err := s.Step(-1); err != nil || !moved {
		t.Fatalf("step back: moved=%v err=%v", moved, err)
	}
	if s.Book() != "Genesis" || s.Chapter() != 50 {
		t.Fatalf("after backward wrap: %s %d", s.Book(), s.Chapter())
	}
}

func TestStepStopsAtGlobalExtremes(t *testing.T) {
	t.Parallel()
	s := newSession(t)

	gen := s.Generation()
	if _, moved, err := s.Step(-1); err != nil || moved {
		t.Fatalf("backward at Genesis 1: moved=%v err=%v", moved, err)
	}
	if s.Generation() != gen {
		t.Fatal("no-op step must not bump the generation")
	}

	if _, err := s.Select("Revelation", 22); err != nil {
		t.Fatalf("select: %v", err)
	}
	if _, moved, err := s.Step(+1); err != nil || moved {
		t.Fatalf("forward at Revelation 22: moved=%v err=%v", moved, err)
	}
	if s.Book() != "Revelation" || s.Chapter() != 22 {
		t.Fatalf("position drifted: %s %d", s.Book(), s.Chapter())
	}
}

func TestSelectRejectsInvalidPositions(t *testing.T) {
	t.Parallel()
	s := newSession(t)
	cases := []struct {
		book    string
		chapter int
	}{
		{"Hezekiah", 1},
		{"Genesis", 0},
		{"Genesis", 51},
		{"Jude", 2},
	}
	for _, tc := range cases {
		if _, err := s.Select(tc.book, tc.chapter); err == nil {
			t.Errorf("Select(%q, %d) accepted an invalid position", tc.book, tc.chapter)
		}
	}
	if s.Book() != "Genesis" || s.Chapter() != 1 {
		t.Fatalf("failed selects moved the session: %s %d", s.Book(), s.Chapter())
	}
}

func TestGenerationSupersedesStaleFetches(t *testing.T) {
	t.Parallel()
	s := newSession(t)

	gen1, err := s.Select("John", 1)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	gen2, err := s.Select("John", 2)
	if err != nil {
		t.Fatalf("select: %v", err)
	}

	if s.IsCurrent(gen1) {
		t.Fatal("first fetch should be stale after the second select")
	}
	if !s.IsCurrent(gen2) {
		t.Fatal("latest fetch should be current")
	}
}

func TestSetTranslationBumpsGenerationOnce(t *testing.T) {
	t.Parallel()
	s := newSession(t)
	gen := s.Generation()

	next, err := s.SetTranslation("kjv")
	if err != nil {
		t.Fatalf("set translation: %v", err)
	}
	if next == gen {
		t.Fatal("translation switch must invalidate in-flight fetches")
	}
	if s.Translation().ID != "kjv" {
		t.Fatalf("translation = %q", s.Translation().ID)
	}

	// Same id again: no churn.
	again, err := s.SetTranslation("kjv")
	if err != nil {
		t.Fatalf("set translation: %v", err)
	}
	if again != next {
		t.Fatal("re-selecting the active translation must be a no-op")
	}
}

func TestToggleDeepStudy(t *testing.T) {
	t.Parallel()
	s := newSession(t)
	if s.DeepStudy() {
		t.Fatal("deep study should start off")
	}
	if !s.ToggleDeepStudy() || !s.DeepStudy() {
		t.Fatal("toggle on failed")
	}
	if s.ToggleDeepStudy() || s.DeepStudy() {
		t.Fatal("toggle off failed")
	}
}
