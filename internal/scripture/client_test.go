package scripture

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchChapterBuildsRequestAndDecodes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/John+3" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("translation"); got != "kjv" {
			t.Fatalf("expected translation kjv, got %q", got)
		}
		if got := r.URL.Query().Get("verse_numbers"); got != "true" {
			t.Fatalf("verse_numbers flag missing, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"reference": "John 3",
			"verses": [
				{"book_id":"JHN","book_name":"John","chapter":3,"verse":1,"text":"There was a man of the Pharisees... "},
				{"book_id":"JHN","book_name":"John","chapter":3,"verse":2,"text":"The same came to Jesus by night..."}
			],
			"translation_id": "kjv"
		}`))
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL, HTTPClient: server.Client()})
	got, err := client.FetchChapter(context.Background(), "John", 3, "kjv")
	if err != nil {
		t.Fatalf("FetchChapter: %v", err)
	}
	if got.Reference != "John 3" || len(got.Verses) != 2 {
		t.Fatalf("unexpected chapter: %+v", got)
	}
	if got.Verses[0].Verse != 1 || got.Verses[1].Verse != 2 {
		t.Fatalf("verses out of order: %+v", got.Verses)
	}
	if got.Verses[0].Text != "There was a man of the Pharisees..." {
		t.Fatalf("verse text not trimmed: %q", got.Verses[0].Text)
	}
}

func TestFetchChapterCoercesUnknownTranslation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("translation"); got != "almeida" {
			t.Fatalf("expected default apiId almeida, got %q", got)
		}
		w.Write([]byte(`{"reference":"Genesis 1","verses":[{"chapter":1,"verse":1,"text":"In the beginning"}]}`))
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL, HTTPClient: server.Client()})
	got, err := client.FetchChapter(context.Background(), "Genesis", 1, "xyz")
	if err != nil {
		t.Fatalf("FetchChapter: %v", err)
	}
	if got.TranslationID != "acf" {
		t.Fatalf("expected translation id backfilled to acf, got %q", got.TranslationID)
	}
}

func TestFetchChapterRejectsBadReferences(t *testing.T) {
	client := New(Config{BaseURL: "http://unused.invalid"})

	if _, err := client.FetchChapter(context.Background(), "Enoch", 1, "kjv"); !errors.Is(err, ErrBadReference) {
		t.Fatalf("unknown book error = %v, want ErrBadReference", err)
	}
	if _, err := client.FetchChapter(context.Background(), "Jude", 2, "kjv"); !errors.Is(err, ErrBadReference) {
		t.Fatalf("out of range chapter error = %v, want ErrBadReference", err)
	}
}

func TestFetchChapterSurfacesServerFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL, HTTPClient: server.Client()})
	if _, err := client.FetchChapter(context.Background(), "Genesis", 1, "kjv"); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestFetchChapterRejectsEmptyVerseList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"reference":"Genesis 1","verses":[]}`))
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL, HTTPClient: server.Client()})
	if _, err := client.FetchChapter(context.Background(), "Genesis", 1, "kjv"); err == nil {
		t.Fatal("expected error on empty verse list")
	}
}

func TestStripDiacritics(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Gênesis":  "Genesis",
		"Êxodo":    "Exodo",
		"João":     "Joao",
		"Genesis":  "Genesis",
		"":         "",
	}
	for in, want := range cases {
		if got := stripDiacritics(in); got != want {
			t.Errorf("stripDiacritics(%q) = %q, want %q", in, got, want)
		}
	}
}
