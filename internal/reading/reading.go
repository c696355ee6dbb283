package reading

import (
	"fmt"

	"github.com/rcosta/selah/internal/bible"
	"github.com/rcosta/selah/internal/store"
)

// LastRead is the persisted reading position.
type LastRead struct {
	Book    string `json:"book"`
	Chapter int    `json:"chapter"`
}

// Session tracks the current reading position and translation. Every
// position or translation change bumps a generation counter; chapter
// fetches carry the generation they were issued for so stale results can
// be discarded on arrival.
type Session struct {
	book        string
	chapter     int
	translation bible.Translation
	generation  int
	deepStudy   bool

	lastReadKV    store.Binding[LastRead]
	translationKV store.Binding[string]
}

// NewSession restores the session from kv. An unknown or out-of-range
// last-read position falls back to the first book, chapter 1. A persisted
// translation id that is not in the catalog is coerced to the default and
// the coerced id is written back.
func NewSession(kv *store.Store) (*Session, error) {
	first := bible.Books[0]
	s := &Session{
		lastReadKV:    store.Bind(kv, store.KeyLastRead, LastRead{Book: first.Name, Chapter: 1}),
		translationKV: store.Bind(kv, store.KeyTranslation, bible.DefaultTranslationID),
	}

	pos := s.lastReadKV.Read()
	if !bible.ValidRef(pos.Book, pos.Chapter, 0) {
		pos = LastRead{Book: first.Name, Chapter: 1}
	}
	s.book, s.chapter = pos.Book, pos.Chapter

	tr, coerced := bible.Resolve(s.translationKV.Read())
	s.translation = tr
	if coerced {
		if err := s.translationKV.Write(tr.ID); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Book returns the current book name.
func (s *Session) Book() string { return s.book }

// Chapter returns the current chapter number.
func (s *Session) Chapter() int { return s.chapter }

// Translation returns the active translation.
func (s *Session) Translation() bible.Translation { return s.translation }

// Generation returns the counter identifying the current position. A
// fetch result stamped with an older generation is stale.
func (s *Session) Generation() int { return s.generation }

// IsCurrent reports whether gen still identifies the live position.
func (s *Session) IsCurrent(gen int) bool { return gen == s.generation }

// DeepStudy reports whether chapter loads should also request an
// AI chapter analysis.
func (s *Session) DeepStudy() bool { return s.deepStudy }

// ToggleDeepStudy flips the deep-study flag and returns the new value.
func (s *Session) ToggleDeepStudy() bool {
	s.deepStudy = !s.deepStudy
	return s.deepStudy
}

// Select moves to an explicit book and chapter, persists the position and
// returns the new generation.
func (s *Session) Select(book string, chapter int) (int, error) {
	if !bible.ValidRef(book, chapter, 0) {
		return s.generation, fmt.Errorf("invalid position: %s %d", book, chapter)
	}
	b, _ := bible.Find(book)
	return s.move(b.Name, chapter)
}

// Step moves one chapter forward (delta > 0) or back (delta < 0),
// wrapping across book boundaries. At Genesis 1 going back and at the
// last chapter of the last book going forward it does nothing; the
// second return value reports whether the position actually changed.
func (s *Session) Step(delta int) (int, bool, error) {
	idx := bible.Index(s.book)
	if idx < 0 {
		return s.generation, false, fmt.Errorf("unknown current book %q", s.book)
	}

	book, chapter := s.book, s.chapter
	switch {
	case delta > 0:
		if chapter < bible.Books[idx].Chapters {
			chapter++
		} else if idx+1 < len(bible.Books) {
			book, chapter = bible.Books[idx+1].Name, 1
		} else {
			return s.generation, false, nil
		}
	case delta < 0:
		if chapter > 1 {
			chapter--
		} else if idx > 0 {
			prev := bible.Books[idx-1]
			book, chapter = prev.Name, prev.Chapters
		} else {
			return s.generation, false, nil
		}
	default:
		return s.generation, false, nil
	}

	gen, err := s.move(book, chapter)
	return gen, err == nil, err
}

// SetTranslation switches the active translation, persisting it and
// invalidating in-flight fetches. Unknown ids coerce to the default.
func (s *Session) SetTranslation(id string) (int, error) {
	tr, _ := bible.Resolve(id)
	if tr.ID == s.translation.ID {
		return s.generation, nil
	}
	if err := s.translationKV.Write(tr.ID); err != nil {
		return s.generation, err
	}
	s.translation = tr
	s.generation++
	return s.generation, nil
}

func (s *Session) move(book string, chapter int) (int, error) {
	if err := s.lastReadKV.Write(LastRead{Book: book, Chapter: chapter}); err != nil {
		return s.generation, err
	}
	s.book, s.chapter = book, chapter
	s.generation++
	return s.generation, nil
}
