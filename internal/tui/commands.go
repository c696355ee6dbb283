package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rcosta/selah/internal/ai"
	"github.com/rcosta/selah/internal/annotations"
	"github.com/rcosta/selah/internal/bible"
	"github.com/rcosta/selah/internal/selection"
)

const (
	fetchTimeout = 35 * time.Second
	aiTimeout    = 2 * time.Minute
)

func (m *model) loadChapterCmd() tea.Cmd {
	gen := m.config.Session.Generation()
	book := m.config.Session.Book()
	chapter := m.config.Session.Chapter()
	translation := m.config.Session.Translation().ID
	client := m.config.Scripture
	return m.jobs.Start(jobKindFetch, func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, fetchTimeout)
		defer cancel()
		ch, err := client.FetchChapter(ctx, book, chapter, translation)
		return chapterResultMsg{gen: gen, chapter: ch, err: err}, err
	})
}

// dailyVerseCmd serves the cached verse when it is from today; otherwise
// it asks the broker for a verse from a uniformly random chapter. forced
// skips the cache entirely.
func (m *model) dailyVerseCmd(forced bool) tea.Cmd {
	if !forced {
		if stored, ok := m.config.Annotations.ReadDaily(m.now()); ok {
			m.daily = stored
			return nil
		}
	}
	m.dailyLoading = true
	book, chapter := m.randomChapter()
	client := m.config.AI
	return m.jobs.Start(jobKindDaily, func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, aiTimeout)
		defer cancel()
		v, err := client.VerseOfTheDay(ctx, book, chapter)
		if err != nil {
			return dailyVerseMsg{forced: forced, err: err}, err
		}
		return dailyVerseMsg{forced: forced, verse: *v}, nil
	})
}

func (m *model) randomChapter() (string, int) {
	book := bible.Books[m.rng.Intn(len(bible.Books))]
	return book.Name, 1 + m.rng.Intn(book.Chapters)
}

func (m *model) explainCmd() tea.Cmd {
	reqID := m.panel.StartExplain()
	text := m.panel.Selection().Text
	client := m.config.AI
	return m.jobs.Start(jobKindExplain, func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, aiTimeout)
		defer cancel()
		md, err := client.Explain(ctx, text)
		return explainResultMsg{reqID: reqID, markdown: md, err: err}, err
	})
}

func (m *model) crossRefCmd() tea.Cmd {
	reqID := m.panel.StartCrossRefs()
	text := m.panel.Selection().Text
	client := m.config.AI
	return m.jobs.Start(jobKindCrossRef, func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, aiTimeout)
		defer cancel()
		refs, err := client.CrossReferences(ctx, text)
		return crossRefResultMsg{reqID: reqID, refs: refs, err: err}, err
	})
}

func (m *model) quizCmd() tea.Cmd {
	m.quizSeq++
	m.quizLoading = true
	m.quizErr = ""
	seq := m.quizSeq
	client := m.config.AI
	return m.jobs.Start(jobKindQuiz, func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, aiTimeout)
		defer cancel()
		q, err := client.QuizQuestion(ctx)
		if err != nil {
			return quizResultMsg{seq: seq, err: err}, err
		}
		return quizResultMsg{seq: seq, question: *q}, nil
	})
}

func (m *model) thematicCmd(theme string) tea.Cmd {
	m.thematicSeq++
	m.thematicLoading = true
	m.thematicErr = ""
	m.thematic = nil
	seq := m.thematicSeq
	client := m.config.AI
	return m.jobs.Start(jobKindThematic, func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, aiTimeout)
		defer cancel()
		study, err := client.ThematicStudy(ctx, theme)
		if err != nil {
			return thematicResultMsg{seq: seq, err: err}, err
		}
		return thematicResultMsg{seq: seq, study: *study}, nil
	})
}

func (m *model) searchCmd(query string) tea.Cmd {
	m.searchSeq++
	m.searchLoading = true
	m.searchErr = ""
	m.searchResults = nil
	seq := m.searchSeq
	client := m.config.AI
	return m.jobs.Start(jobKindSearch, func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, aiTimeout)
		defer cancel()
		results, err := client.Search(ctx, query)
		return searchResultMsg{seq: seq, results: results, err: err}, err
	})
}

func (m *model) analysisCmd() tea.Cmd {
	gen := m.config.Session.Generation()
	rc := ai.ReadingContext{Book: m.config.Session.Book(), Chapter: m.config.Session.Chapter()}
	text := m.chapterText()
	client := m.config.AI
	return m.jobs.Start(jobKindAnalysis, func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, aiTimeout)
		defer cancel()
		terms, err := client.ChapterAnalysis(ctx, rc, text)
		return analysisResultMsg{gen: gen, terms: terms, err: err}, err
	})
}

func (m *model) chapterText() string {
	if m.chapter == nil {
		return ""
	}
	var b []byte
	for _, v := range m.chapter.Verses {
		b = append(b, []byte(v.Text)...)
		b = append(b, ' ')
	}
	return string(b)
}

// startChatCmd kicks off a streaming reply. Deltas arrive over a channel;
// each chatStreamMsg schedules a wait for the next one until done.
func (m *model) startChatCmd(question string) tea.Cmd {
	m.chatSeq++
	m.chatStreaming = true
	m.chatErr = ""
	m.chatPending = ""
	seq := m.chatSeq
	history := append([]ai.ChatMessage(nil), m.chatHistory...)
	m.chatHistory = append(m.chatHistory, ai.ChatMessage{Sender: ai.SenderUser, Text: question})
	rc := ai.ReadingContext{Book: m.config.Session.Book(), Chapter: m.config.Session.Chapter()}
	client := m.config.AI

	updates := make(chan chatStreamMsg, 16)
	go func() {
		defer close(updates)
		ctx, cancel := context.WithTimeout(context.Background(), aiTimeout)
		defer cancel()
		err := client.StreamChat(ctx, question, rc, history, func(delta ai.ChatDelta) error {
			updates <- chatStreamMsg{seq: seq, delta: delta, updates: updates}
			return nil
		})
		if err != nil {
			updates <- chatStreamMsg{seq: seq, err: err, updates: updates}
		}
	}()
	return tea.Batch(m.spinner.Tick, waitForChatDelta(updates))
}

func waitForChatDelta(updates chan chatStreamMsg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-updates
		if !ok {
			return nil
		}
		return msg
	}
}

// copySelectionCmd writes the citation-suffixed text to the clipboard and
// schedules the confirmation notice to clear.
func (m *model) copySelectionCmd() tea.Cmd {
	sel := m.panel.Selection()
	if err := selection.Copy(sel); err != nil {
		m.errorMessage = err.Error()
		return nil
	}
	m.copyNotice = "Copied to clipboard."
	return tea.Tick(copyNoticeDuration*time.Second, func(time.Time) tea.Msg {
		return clearCopyNoticeMsg{}
	})
}

func (m *model) addHighlightCmd(color annotations.HighlightColor) tea.Cmd {
	sel := m.panel.Selection()
	st := m.config.Annotations
	return func() tea.Msg {
		_, err := st.AddHighlight(sel.Ref(), sel.Text, color)
		return highlightSavedMsg{color: color, err: err}
	}
}
