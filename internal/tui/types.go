package tui

import (
	"github.com/rcosta/selah/internal/ai"
	"github.com/rcosta/selah/internal/annotations"
	"github.com/rcosta/selah/internal/scripture"
)

type screen int

const (
	screenHome screen = iota
	screenReader
)

// modal names the single overlay that may be open at a time. Opening a
// modal closes whichever one was active before it.
type modal int

const (
	modalNone modal = iota
	modalNav
	modalSearch
	modalBookmarks
	modalSettings
	modalTools
	modalQuiz
	modalThematic
	modalChat
)

const heroTagline = "Read, mark, and study the scriptures from your terminal."

const (
	minViewportWidth          = 40
	viewportHorizontalPadding = 4
	copyNoticeDuration        = 2 // seconds
)

// chapterResultMsg delivers a fetched chapter stamped with the reading
// generation it was requested for.
type chapterResultMsg struct {
	gen     int
	chapter *scripture.Chapter
	err     error
}

type dailyVerseMsg struct {
	forced bool
	verse  ai.VerseOfTheDay
	err    error
}

type explainResultMsg struct {
	reqID    int
	markdown string
	err      error
}

type crossRefResultMsg struct {
	reqID int
	refs  []ai.CrossReference
	err   error
}

type quizResultMsg struct {
	seq      int
	question ai.QuizQuestion
	err      error
}

type thematicResultMsg struct {
	seq   int
	study ai.ThematicStudy
	err   error
}

type searchResultMsg struct {
	seq     int
	results []ai.SearchResult
	err     error
}

type analysisResultMsg struct {
	gen   int
	terms []ai.TermAnalysis
	err   error
}

// chatStreamMsg carries one delta of a streaming chat reply plus the
// channel to pull the next one from.
type chatStreamMsg struct {
	seq     int
	delta   ai.ChatDelta
	err     error
	updates chan chatStreamMsg
}

type clearCopyNoticeMsg struct{}

type highlightSavedMsg struct {
	color annotations.HighlightColor
	err   error
}
