package ai

import (
	"errors"
	"strings"
	"testing"
)

func TestParseQuizQuestion(t *testing.T) {
	t.Parallel()

	raw := `{"question":"Who built the ark?","options":["Noah","Moses","David"],"correctAnswerIndex":0}`
	quiz, err := parseQuizQuestion(raw)
	if err != nil {
		t.Fatalf("parseQuizQuestion: %v", err)
	}
	if quiz.Question != "Who built the ark?" || len(quiz.Options) != 3 || quiz.CorrectAnswerIndex != 0 {
		t.Fatalf("unexpected quiz: %+v", quiz)
	}
}

func TestParseQuizQuestionAcceptsWrappedJSON(t *testing.T) {
	t.Parallel()

	raw := "Here you go:\n```json\n{\"question\":\"Q\",\"options\":[\"a\",\"b\",\"c\"],\"correctAnswerIndex\":2}\n```"
	quiz, err := parseQuizQuestion(raw)
	if err != nil {
		t.Fatalf("parseQuizQuestion: %v", err)
	}
	if quiz.CorrectAnswerIndex != 2 {
		t.Fatalf("unexpected index: %d", quiz.CorrectAnswerIndex)
	}
}

func TestParseQuizQuestionRejectsSchemaViolations(t *testing.T) {
	t.Parallel()

	if _, err := parseQuizQuestion(`{"question":"Q","options":["a","b"],"correctAnswerIndex":0}`); err == nil {
		t.Fatal("two options should be rejected")
	}
	if _, err := parseQuizQuestion(`{"question":"Q","options":["a","b","c"],"correctAnswerIndex":3}`); err == nil {
		t.Fatal("out-of-range answer index should be rejected")
	}
	if _, err := parseQuizQuestion("not json at all"); err == nil {
		t.Fatal("garbage should be rejected")
	}
}

func TestParseVerseOfTheDay(t *testing.T) {
	t.Parallel()

	votd, err := parseVerseOfTheDay(`{"reference":"Psalm 23:1","text":"The LORD is my shepherd","reflection":"Trust."}`)
	if err != nil {
		t.Fatalf("parseVerseOfTheDay: %v", err)
	}
	if votd.Reference != "Psalm 23:1" {
		t.Fatalf("unexpected record: %+v", votd)
	}

	if _, err := parseVerseOfTheDay(`{"reference":"","text":"","reflection":""}`); err == nil {
		t.Fatal("blank record should be rejected")
	}
}

func TestParseThematicStudyClipsToSeven(t *testing.T) {
	t.Parallel()

	var verses []string
	for i := 0; i < 9; i++ {
		verses = append(verses, `{"reference":"Romans 12:2","book":"Romans","chapter":12}`)
	}
	raw := `{"summary":"On renewal.","verses":[` + strings.Join(verses, ",") + `]}`
	study, err := parseThematicStudy(raw)
	if err != nil {
		t.Fatalf("parseThematicStudy: %v", err)
	}
	if len(study.Verses) != 7 {
		t.Fatalf("expected verses clipped to 7, got %d", len(study.Verses))
	}
}

func TestParseThematicStudyEmptyVersesIsEmptyResult(t *testing.T) {
	t.Parallel()

	_, err := parseThematicStudy(`{"summary":"On hope.","verses":[]}`)
	if !errors.Is(err, ErrEmptyResult) {
		t.Fatalf("err = %v, want ErrEmptyResult", err)
	}
}

func TestParseSearchResultsClipsAndSanitizes(t *testing.T) {
	t.Parallel()

	var entries []string
	for i := 0; i < 20; i++ {
		entries = append(entries, `{"reference":"John 3:16","book":"John","chapter":3,"verse":16,"text":"For God so loved"}`)
	}
	// One invalid entry must be dropped, not delivered half-typed.
	entries = append(entries, `{"reference":"","book":"","chapter":0,"verse":0,"text":""}`)
	raw := `{"results":[` + strings.Join(entries, ",") + `]}`

	results, err := parseSearchResults(raw)
	if err != nil {
		t.Fatalf("parseSearchResults: %v", err)
	}
	if len(results) != 15 {
		t.Fatalf("expected 15 results, got %d", len(results))
	}
	for _, r := range results {
		if r.Book == "" || r.Chapter < 1 {
			t.Fatalf("partially typed result delivered: %+v", r)
		}
	}
}

func TestParseSearchResultsEmpty(t *testing.T) {
	t.Parallel()

	if _, err := parseSearchResults(`{"results":[]}`); !errors.Is(err, ErrEmptyResult) {
		t.Fatal("empty results should surface ErrEmptyResult")
	}
}

func TestParseTermAnalysesClipsToTen(t *testing.T) {
	t.Parallel()

	var terms []string
	for i := 0; i < 12; i++ {
		terms = append(terms, `{"term":"grace","explanation":"Unmerited favor.","crossReferences":[{"reference":"Ephesians 2:8","book":"Ephesians","chapter":2}],"articles":[{"title":"","url":""}]}`)
	}
	raw := `{"references":[` + strings.Join(terms, ",") + `]}`

	got, err := parseTermAnalyses(raw)
	if err != nil {
		t.Fatalf("parseTermAnalyses: %v", err)
	}
	if len(got) != 10 {
		t.Fatalf("expected 10 terms, got %d", len(got))
	}
	if len(got[0].Articles) != 0 {
		t.Fatalf("blank articles should be dropped: %+v", got[0].Articles)
	}
	if len(got[0].CrossReferences) != 1 {
		t.Fatalf("cross references lost: %+v", got[0].CrossReferences)
	}
}

func TestParseExplanation(t *testing.T) {
	t.Parallel()

	explanation, err := parseExplanation(`{"explanation":"**Faith** without works is dead means..."}`)
	if err != nil {
		t.Fatalf("parseExplanation: %v", err)
	}
	if !strings.HasPrefix(explanation, "**Faith**") {
		t.Fatalf("unexpected explanation: %q", explanation)
	}

	if _, err := parseExplanation(`{"explanation":"  "}`); !errors.Is(err, ErrEmptyResult) {
		t.Fatal("blank explanation should surface ErrEmptyResult")
	}
}

func TestParseCrossReferences(t *testing.T) {
	t.Parallel()

	raw := `{"references":[
		{"reference":"Hebrews 11:1","text":"Now faith is...","book":"Hebrews","chapter":11,"verse":1},
		{"reference":"","text":"","book":"","chapter":0,"verse":0}
	]}`
	refs, err := parseCrossReferences(raw)
	if err != nil {
		t.Fatalf("parseCrossReferences: %v", err)
	}
	if len(refs) != 1 || refs[0].Book != "Hebrews" {
		t.Fatalf("unexpected refs: %+v", refs)
	}

	if _, err := parseCrossReferences(`{"references":[]}`); !errors.Is(err, ErrEmptyResult) {
		t.Fatal("empty references should surface ErrEmptyResult")
	}
}

func TestBuildChatContentsTrimsHistory(t *testing.T) {
	t.Parallel()

	history := make([]ChatMessage, 0, 30)
	for i := 0; i < 30; i++ {
		sender := SenderUser
		if i%2 == 1 {
			sender = SenderAI
		}
		history = append(history, ChatMessage{Sender: sender, Text: "turn"})
	}

	contents := buildChatContents("new question", history)
	if len(contents) != maxHistoryTurns+1 {
		t.Fatalf("expected %d contents, got %d", maxHistoryTurns+1, len(contents))
	}
	last := contents[len(contents)-1]
	if last.Role != "user" || last.Parts[0].Text != "new question" {
		t.Fatalf("final content should be the new message, got %+v", last)
	}
	for _, c := range contents[:len(contents)-1] {
		if c.Role != "user" && c.Role != "model" {
			t.Fatalf("unexpected role %q", c.Role)
		}
	}
}

func TestChatSystemInstructionNamesReadingContext(t *testing.T) {
	t.Parallel()

	got := chatSystemInstruction(ReadingContext{Book: "James", Chapter: 2})
	if !strings.Contains(got, "James, chapter 2") {
		t.Fatalf("system instruction missing reading context: %q", got)
	}
}
