package annotations

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rcosta/selah/internal/ai"
	"github.com/rcosta/selah/internal/bible"
	"github.com/rcosta/selah/internal/store"
)

// Bookmark is a saved verse with an editable note. Identity is the
// (book, chapter, verse) tuple; the text is a snapshot from the
// translation active when it was created.
type Bookmark struct {
	Book    string `json:"book"`
	Chapter int    `json:"chapter"`
	Verse   int    `json:"verse"`
	Text    string `json:"text"`
	Note    string `json:"note,omitempty"`
}

// Ref returns the bookmark's verse coordinates.
func (b Bookmark) Ref() bible.VerseRef {
	return bible.VerseRef{Book: b.Book, Chapter: b.Chapter, Verse: b.Verse}
}

// HighlightColor enumerates the supported marker colors.
type HighlightColor string

const (
	HighlightYellow HighlightColor = "yellow"
	HighlightGreen  HighlightColor = "green"
	HighlightBlue   HighlightColor = "blue"
	HighlightPink   HighlightColor = "pink"
)

// HighlightColors lists the picker order.
var HighlightColors = []HighlightColor{HighlightYellow, HighlightGreen, HighlightBlue, HighlightPink}

// Highlight is a colored span anchored to a verse by its literal text.
// A translation change may orphan a highlight; that is accepted rather
// than silently re-anchoring.
type Highlight struct {
	ID      string         `json:"id"`
	Book    string         `json:"book"`
	Chapter int            `json:"chapter"`
	Verse   int            `json:"verse"`
	Text    string         `json:"text"`
	Color   HighlightColor `json:"color"`
}

// StoredVerseOfTheDay is the cached daily verse plus the calendar day it
// was generated for.
type StoredVerseOfTheDay struct {
	Verse ai.VerseOfTheDay `json:"verse"`
	Date  string           `json:"date"`
}

// DayKey formats t as the calendar-day string used for freshness checks.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// Store owns bookmarks, highlights and the daily-verse cache, all backed
// by the persistent KV document.
type Store struct {
	bookmarks  store.Binding[[]Bookmark]
	highlights store.Binding[[]Highlight]
	daily      store.Binding[*StoredVerseOfTheDay]
	now        func() time.Time
}

// New wires an annotation store over kv.
func New(kv *store.Store) *Store {
	return &Store{
		bookmarks:  store.Bind(kv, store.KeyBookmarks, []Bookmark(nil)),
		highlights: store.Bind(kv, store.KeyHighlights, []Highlight(nil)),
		daily:      store.Bind(kv, store.KeyVerseOfTheDay, (*StoredVerseOfTheDay)(nil)),
		now:        time.Now,
	}
}

// ToggleBookmark removes the bookmark for ref when present, otherwise
// appends one with an empty note. The note is not preserved across a
// toggle cycle.
func (s *Store) ToggleBookmark(ref bible.VerseRef, text string) error {
	list := s.bookmarks.Read()
	for i, bm := range list {
		if bm.Ref() == ref {
			return s.bookmarks.Write(append(list[:i:i], list[i+1:]...))
		}
	}
	list = append(list, Bookmark{
		Book:    ref.Book,
		Chapter: ref.Chapter,
		Verse:   ref.Verse,
		Text:    text,
	})
	return s.bookmarks.Write(list)
}

// UpdateNote replaces the note of an existing bookmark. A missing
// bookmark makes this a no-op.
func (s *Store) UpdateNote(ref bible.VerseRef, note string) error {
	list := s.bookmarks.Read()
	for i, bm := range list {
		if bm.Ref() == ref {
			list[i].Note = note
			return s.bookmarks.Write(list)
		}
	}
	return nil
}

// IsBookmarked reports whether ref has a bookmark. The set is small, a
// linear scan is fine.
func (s *Store) IsBookmarked(ref bible.VerseRef) bool {
	for _, bm := range s.bookmarks.Read() {
		if bm.Ref() == ref {
			return true
		}
	}
	return false
}

// Bookmarks returns all bookmarks in biblical order: canonical book
// index, then chapter, then verse.
func (s *Store) Bookmarks() []Bookmark {
	list := s.bookmarks.Read()
	sorted := append([]Bookmark(nil), list...)
	sort.SliceStable(sorted, func(i, j int) bool {
		bi, bj := bible.Index(sorted[i].Book), bible.Index(sorted[j].Book)
		if bi != bj {
			return bi < bj
		}
		if sorted[i].Chapter != sorted[j].Chapter {
			return sorted[i].Chapter < sorted[j].Chapter
		}
		return sorted[i].Verse < sorted[j].Verse
	})
	return sorted
}

// AddHighlight records a colored span and returns its id.
func (s *Store) AddHighlight(ref bible.VerseRef, text string, color HighlightColor) (string, error) {
	h := Highlight{
		ID:      highlightID(s.now(), text),
		Book:    ref.Book,
		Chapter: ref.Chapter,
		Verse:   ref.Verse,
		Text:    text,
		Color:   color,
	}
	list := append(s.highlights.Read(), h)
	return h.ID, s.highlights.Write(list)
}

// RemoveHighlight deletes a highlight by id; unknown ids are ignored.
func (s *Store) RemoveHighlight(id string) error {
	list := s.highlights.Read()
	for i, h := range list {
		if h.ID == id {
			return s.highlights.Write(append(list[:i:i], list[i+1:]...))
		}
	}
	return nil
}

// Highlights returns the highlights for ref in insertion order.
func (s *Store) Highlights(ref bible.VerseRef) []Highlight {
	var out []Highlight
	for _, h := range s.highlights.Read() {
		if h.Book == ref.Book && h.Chapter == ref.Chapter && h.Verse == ref.Verse {
			out = append(out, h)
		}
	}
	return out
}

// AllHighlights returns every stored highlight in insertion order.
func (s *Store) AllHighlights() []Highlight {
	return s.highlights.Read()
}

// ReadDaily returns the cached daily verse iff it was generated on the
// given calendar day.
func (s *Store) ReadDaily(today time.Time) (*StoredVerseOfTheDay, bool) {
	stored := s.daily.Read()
	if stored == nil || stored.Date != DayKey(today) {
		return nil, false
	}
	return stored, true
}

// WriteDaily caches the daily verse stamped with today's date.
func (s *Store) WriteDaily(v ai.VerseOfTheDay, today time.Time) error {
	return s.daily.Write(&StoredVerseOfTheDay{Verse: v, Date: DayKey(today)})
}

func highlightID(at time.Time, text string) string {
	sum := sha1.Sum([]byte(strings.TrimSpace(text)))
	return fmt.Sprintf("%d-%s", at.UnixNano(), hex.EncodeToString(sum[:4]))
}
