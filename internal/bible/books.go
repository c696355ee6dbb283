package bible

// Testament distinguishes the two halves of the canon.
type Testament string

const (
	OldTestament Testament = "old"
	NewTestament Testament = "new"
)

// Book describes one canonical book and how many chapters it holds.
// Chapter indices are 1-based: 1 <= c <= Chapters.
type Book struct {
	Name      string
	Chapters  int
	Testament Testament
}

// Books lists the 66 books of the protestant canon in canonical order.
// Chapter counts follow the KJV versification.
var Books = []Book{
	{"Genesis", 50, OldTestament},
	{"Exodus", 40, OldTestament},
	{"Leviticus", 27, OldTestament},
	{"Numbers", 36, OldTestament},
	{"Deuteronomy", 34, OldTestament},
	{"Joshua", 24, OldTestament},
	{"Judges", 21, OldTestament},
	{"Ruth", 4, OldTestament},
	{"1 Samuel", 31, OldTestament},
	{"2 Samuel", 24, OldTestament},
	{"1 Kings", 22, OldTestament},
	{"2 Kings", 25, OldTestament},
	{"1 Chronicles", 29, OldTestament},
	{"2 Chronicles", 36, OldTestament},
	{"Ezra", 10, OldTestament},
	{"Nehemiah", 13, OldTestament},
	{"Esther", 10, OldTestament},
	{"Job", 42, OldTestament},
	{"Psalms", 150, OldTestament},
	{"Proverbs", 31, OldTestament},
	{"Ecclesiastes", 12, OldTestament},
	{"Song of Solomon", 8, OldTestament},
	{"Isaiah", 66, OldTestament},
	{"Jeremiah", 52, OldTestament},
	{"Lamentations", 5, OldTestament},
	{"Ezekiel", 48, OldTestament},
	{"Daniel", 12, OldTestament},
	{"Hosea", 14, OldTestament},
	{"Joel", 3, OldTestament},
	{"Amos", 9, OldTestament},
	{"Obadiah", 1, OldTestament},
	{"Jonah", 4, OldTestament},
	{"Micah", 7, OldTestament},
	{"Nahum", 3, OldTestament},
	{"Habakkuk", 3, OldTestament},
	{"Zephaniah", 3, OldTestament},
	{"Haggai", 2, OldTestament},
	{"Zechariah", 14, OldTestament},
	{"Malachi", 4, OldTestament},
	{"Matthew", 28, NewTestament},
	{"Mark", 16, NewTestament},
	{"Luke", 24, NewTestament},
	{"John", 21, NewTestament},
	{"Acts", 28, NewTestament},
	{"Romans", 16, NewTestament},
	{"1 Corinthians", 16, NewTestament},
	{"2 Corinthians", 13, NewTestament},
	{"Galatians", 6, NewTestament},
	{"Ephesians", 6, NewTestament},
	{"Philippians", 4, NewTestament},
	{"Colossians", 4, NewTestament},
	{"1 Thessalonians", 5, NewTestament},
	{"2 Thessalonians", 3, NewTestament},
	{"1 Timothy", 6, NewTestament},
	{"2 Timothy", 4, NewTestament},
	{"Titus", 3, NewTestament},
	{"Philemon", 1, NewTestament},
	{"Hebrews", 13, NewTestament},
	{"James", 5, NewTestament},
	{"1 Peter", 5, NewTestament},
	{"2 Peter", 3, NewTestament},
	{"1 John", 5, NewTestament},
	{"2 John", 1, NewTestament},
	{"3 John", 1, NewTestament},
	{"Jude", 1, NewTestament},
	{"Revelation", 22, NewTestament},
}

var bookIndex = func() map[string]int {
	idx := make(map[string]int, len(Books))
	for i, b := range Books {
		idx[b.Name] = i
	}
	return idx
}()

// Find returns the book with the given canonical name.
func Find(name string) (Book, bool) {
	i, ok := bookIndex[name]
	if !ok {
		return Book{}, false
	}
	return Books[i], true
}

// Index returns the canonical position of a book, or -1 when the name is
// not part of the canon. Bookmark lists sort on this, not alphabetically.
func Index(name string) int {
	i, ok := bookIndex[name]
	if !ok {
		return -1
	}
	return i
}

// ValidRef reports whether (book, chapter, verse) could address a real
// verse. Verse 0 is accepted so chapter-level references can be checked
// with the same helper.
func ValidRef(book string, chapter, verse int) bool {
	b, ok := Find(book)
	if !ok {
		return false
	}
	if chapter < 1 || chapter > b.Chapters {
		return false
	}
	return verse >= 0
}

// VerseRef uniquely identifies a scriptural verse across the application.
type VerseRef struct {
	Book    string `json:"book"`
	Chapter int    `json:"chapter"`
	Verse   int    `json:"verse"`
}
