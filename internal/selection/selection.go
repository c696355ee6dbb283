package selection

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/atotto/clipboard"

	"github.com/rcosta/selah/internal/bible"
)

// Selection is a grabbed span of verse text. It is anchored to a single
// verse; Line is the reader row it came from.
type Selection struct {
	Text    string
	Book    string
	Chapter int
	Verse   int
	Line    int
}

// Ref returns the selection's verse coordinates.
func (s Selection) Ref() bible.VerseRef {
	return bible.VerseRef{Book: s.Book, Chapter: s.Chapter, Verse: s.Verse}
}

// Label renders the selection's citation, e.g. "John 3:16".
func (s Selection) Label() string {
	return fmt.Sprintf("%s %d:%d", s.Book, s.Chapter, s.Verse)
}

// Capture validates a raw grab and anchors it to a verse. Empty and
// whitespace-only grabs are rejected. A grab that runs past the anchor
// verse is clipped back until it fits inside anchorText.
func Capture(raw, anchorText string, ref bible.VerseRef, line int) (Selection, bool) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Selection{}, false
	}
	if anchorText != "" {
		text = clipToAnchor(text, anchorText)
		if text == "" {
			return Selection{}, false
		}
	}
	return Selection{
		Text:    text,
		Book:    ref.Book,
		Chapter: ref.Chapter,
		Verse:   ref.Verse,
		Line:    line,
	}, true
}

// clipToAnchor drops trailing runes until text occurs inside anchor.
// Selections are short, the quadratic scan does not matter.
func clipToAnchor(text, anchor string) string {
	for text != "" && !strings.Contains(anchor, text) {
		_, size := utf8.DecodeLastRuneInString(text)
		text = strings.TrimSpace(text[:len(text)-size])
	}
	return text
}

// FormatCopy renders the clipboard payload: the quoted text followed by
// its citation.
func FormatCopy(s Selection) string {
	return fmt.Sprintf("\"%s\" (%s)", s.Text, s.Label())
}

// Copy places the formatted selection on the system clipboard.
func Copy(s Selection) error {
	return clipboard.WriteAll(FormatCopy(s))
}
