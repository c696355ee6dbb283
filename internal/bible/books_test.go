package bible

import "testing"

func TestCanonHasSixtySixBooks(t *testing.T) {
	t.Parallel()

	if len(Books) != 66 {
		t.Fatalf("expected 66 books, got %d", len(Books))
	}
	if Books[0].Name != "Genesis" || Books[65].Name != "Revelation" {
		t.Fatalf("canon out of order: first=%q last=%q", Books[0].Name, Books[65].Name)
	}

	old, new_ := 0, 0
	for _, b := range Books {
		if b.Chapters < 1 {
			t.Fatalf("%s has invalid chapter count %d", b.Name, b.Chapters)
		}
		switch b.Testament {
		case OldTestament:
			old++
		case NewTestament:
			new_++
		default:
			t.Fatalf("%s has unknown testament %q", b.Name, b.Testament)
		}
	}
	if old != 39 || new_ != 27 {
		t.Fatalf("testament split = %d/%d, want 39/27", old, new_)
	}
}

func TestFindAndIndex(t *testing.T) {
	t.Parallel()

	b, ok := Find("Psalms")
	if !ok || b.Chapters != 150 {
		t.Fatalf("Find(Psalms) = %+v, %v", b, ok)
	}
	if _, ok := Find("Enoch"); ok {
		t.Fatal("Find should reject non-canonical names")
	}
	if got := Index("Genesis"); got != 0 {
		t.Fatalf("Index(Genesis) = %d", got)
	}
	if got := Index("Exodus"); got != 1 {
		t.Fatalf("Index(Exodus) = %d", got)
	}
	if got := Index("unknown"); got != -1 {
		t.Fatalf("Index(unknown) = %d, want -1", got)
	}
}

func TestValidRef(t *testing.T) {
	t.Parallel()

	cases := []struct {
		book    string
		chapter int
		verse   int
		want    bool
	}{
		{"Genesis", 1, 1, true},
		{"Genesis", 50, 1, true},
		{"Genesis", 51, 1, false},
		{"Genesis", 0, 1, false},
		{"Jude", 1, 0, true},
		{"Enoch", 1, 1, false},
	}
	for _, tc := range cases {
		if got := ValidRef(tc.book, tc.chapter, tc.verse); got != tc.want {
			t.Errorf("ValidRef(%q, %d, %d) = %v, want %v", tc.book, tc.chapter, tc.verse, got, tc.want)
		}
	}
}

func TestResolveCoercesUnknownTranslation(t *testing.T) {
	t.Parallel()

	tr, coerced := Resolve("kjv")
	if coerced || tr.APIID != "kjv" {
		t.Fatalf("Resolve(kjv) = %+v coerced=%v", tr, coerced)
	}

	tr, coerced = Resolve("xyz")
	if !coerced {
		t.Fatal("unknown id should report coercion")
	}
	if tr.ID != DefaultTranslationID || tr.APIID != "almeida" {
		t.Fatalf("coerced translation = %+v, want default", tr)
	}
}
