package ai

import (
	"fmt"
	"strings"
)

const (
	// Chapter text and selections are clipped before prompting to keep
	// well under the model's context window.
	maxChapterChars   = 40_000
	maxSelectionChars = 2_000
	// Older chat turns beyond this are dropped from the replayed history.
	maxHistoryTurns = 20
)

func clipText(text string, limit int) string {
	text = strings.TrimSpace(text)
	if limit <= 0 || len(text) <= limit {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

func chatSystemInstruction(rc ReadingContext) string {
	var b strings.Builder
	b.WriteString("You are a friendly and knowledgeable Bible study assistant. ")
	b.WriteString("Your purpose is to help readers understand the Scriptures. ")
	if rc.Book != "" && rc.Chapter > 0 {
		fmt.Fprintf(&b, "The user is currently reading %s, chapter %d. ", rc.Book, rc.Chapter)
	}
	b.WriteString("Answer questions with that context in mind, offering clear explanations, ")
	b.WriteString("theological insight, and references to other parts of the Bible when relevant. ")
	b.WriteString("Keep a respectful, encouraging tone. Format replies in markdown ")
	b.WriteString("(**bold** for emphasis, lists for key points).")
	return b.String()
}

// buildChatContents replays trimmed history as alternating roles and
// appends the new user message.
func buildChatContents(message string, history []ChatMessage) []geminiContent {
	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}
	contents := make([]geminiContent, 0, len(history)+1)
	for _, msg := range history {
		role := "user"
		if msg.Sender == SenderAI {
			role = "model"
		}
		text := strings.TrimSpace(msg.Text)
		if text == "" {
			continue
		}
		contents = append(contents, geminiContent{
			Role:  role,
			Parts: []geminiPart{{Text: text}},
		})
	}
	return append(contents, geminiContent{
		Role:  "user",
		Parts: []geminiPart{{Text: message}},
	})
}

func buildQuizPrompt() string {
	return `Generate a multiple-choice Bible quiz question with 3 answer options.
Medium difficulty, drawn from anywhere in the Old or New Testament.
Return ONLY JSON matching: {"question":"","options":["","",""],"correctAnswerIndex":0}
where correctAnswerIndex is 0, 1 or 2.`
}

func buildVerseOfTheDayPrompt(book string, chapter int) string {
	return fmt.Sprintf(`Pick an inspiring verse from %s chapter %d.
Provide the full reference (book, chapter and verse), the verse text, and a
short reflection (2-3 sentences) on its meaning or application.
Return ONLY JSON matching: {"reference":"","text":"","reflection":""}`, book, chapter)
}

func buildThematicStudyPrompt(theme string) string {
	return fmt.Sprintf(`Produce a concise thematic Bible study on %q.
Write one summary paragraph and list 5 to 7 key related verses. For each
verse give the reference, the exact canonical book name (e.g. "Genesis",
"Revelation") and the chapter number.
Return ONLY JSON matching:
{"summary":"","verses":[{"reference":"","book":"","chapter":1}]}`, theme)
}

func buildSearchPrompt(query string) string {
	return fmt.Sprintf(`Find Bible verses matching the search %q.
Return at most 15 results ordered by relevance. For each give the reference,
the exact canonical book name, the chapter number, the verse number and the
verse text.
Return ONLY JSON matching:
{"results":[{"reference":"","book":"","chapter":1,"verse":1,"text":""}]}`, query)
}

func buildChapterAnalysisPrompt(rc ReadingContext, chapterText string) string {
	heading := "the chapter below"
	if rc.Book != "" && rc.Chapter > 0 {
		heading = fmt.Sprintf("%s chapter %d", rc.Book, rc.Chapter)
	}
	return fmt.Sprintf(`Analyze %s and identify up to 10 noteworthy terms,
names or concepts worth deeper study. For each term give a short explanation
and 1-3 cross references (reference, exact canonical book name, chapter).
Optionally attach articles as {"title":"","url":""} entries.
Return ONLY JSON matching:
{"references":[{"term":"","explanation":"","crossReferences":[{"reference":"","book":"","chapter":1}],"articles":[]}]}

Chapter text:
%s`, heading, chapterText)
}

func buildExplainPrompt(text string) string {
	return fmt.Sprintf(`Explain the following Bible passage in clear, accessible
language. Cover its immediate context, key terms and practical meaning.
Use markdown formatting. Return ONLY JSON matching: {"explanation":""}

Passage:
%q`, text)
}

func buildCrossReferencePrompt(text string) string {
	return fmt.Sprintf(`List Bible verses closely related to the passage below.
Return at most 8 entries. For each give the reference, the verse text, the
exact canonical book name, the chapter number and the verse number.
Return ONLY JSON matching:
{"references":[{"reference":"","text":"","book":"","chapter":1,"verse":1}]}

Passage:
%q`, text)
}
