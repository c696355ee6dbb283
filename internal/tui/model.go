package tui

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/rcosta/selah/internal/ai"
	"github.com/rcosta/selah/internal/annotations"
	"github.com/rcosta/selah/internal/bible"
	"github.com/rcosta/selah/internal/reading"
	"github.com/rcosta/selah/internal/scripture"
	"github.com/rcosta/selah/internal/selection"
	"github.com/rcosta/selah/internal/store"
)

// Config wires the application services into the TUI program.
type Config struct {
	Store       *store.Store
	Scripture   *scripture.Client
	AI          ai.Client
	Annotations *annotations.Store
	Session     *reading.Session
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	searchInput := textinput.New()
	searchInput.Placeholder = "Search the scriptures…"
	searchInput.CharLimit = 160
	searchInput.Width = 50

	thematicInput := textinput.New()
	thematicInput.Placeholder = "A theme, e.g. forgiveness…"
	thematicInput.CharLimit = 80
	thematicInput.Width = 50

	chatInput := textinput.New()
	chatInput.Placeholder = "Ask about this chapter…"
	chatInput.CharLimit = 400
	chatInput.Width = 60

	noteInput := textinput.New()
	noteInput.Placeholder = "A short note for this verse…"
	noteInput.CharLimit = 280
	noteInput.Width = 60

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true

	m := &model{
		config:         config,
		screen:         screenHome,
		modal:          modalNone,
		spinner:        spin,
		viewport:       vp,
		searchInput:    searchInput,
		thematicInput:  thematicInput,
		chatInput:      chatInput,
		noteInput:      noteInput,
		jobs:           newJobBus(),
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
		now:            time.Now,
		chapterLoading: true,
		infoMessage:    "Press Enter to continue reading, ? for help.",
	}

	m.themeKV = store.Bind(config.Store, store.KeyTheme, string(defaultTheme()))
	m.settingsKV = store.Bind(config.Store, store.KeyReadingSettings, defaultReadingSettings())
	m.theme = themeName(m.themeKV.Read())
	if m.theme != themeLight && m.theme != themeDark {
		m.theme = defaultTheme()
	}
	m.styles = buildStyles(m.theme)
	m.settings = m.settingsKV.Read().normalize()
	m.markdown = newMarkdownRenderer(m.theme, m.settings.WrapWidth)
	return m
}

type model struct {
	config Config

	screen screen
	modal  modal

	width  int
	height int

	spinner  spinner.Model
	viewport viewport.Model

	theme      themeName
	themeKV    store.Binding[string]
	styles     styleSet
	markdown   *glamour.TermRenderer
	settings   readingSettings
	settingsKV store.Binding[readingSettings]

	// Reader.
	chapter         *scripture.Chapter
	chapterLoading  bool
	cursorVerse     int
	analysis        []ai.TermAnalysis
	analysisLoading bool
	analysisErr     string

	// Selection & action panel.
	panel       selection.Panel
	crossRefIdx int
	pickerOpen  bool
	pickerIdx   int
	copyNotice  string

	// Daily verse.
	daily        *annotations.StoredVerseOfTheDay
	dailyLoading bool
	dailyErr     string

	// Navigation modal.
	navBookIdx int
	navChapter int

	// Search modal.
	searchInput   textinput.Model
	searchSeq     int
	searchLoading bool
	searchResults []ai.SearchResult
	searchCursor  int
	searchErr     string

	// Bookmarks modal.
	bookmarks      []annotations.Bookmark
	bookmarkCursor int
	noteInput      textinput.Model
	noteEditing    bool

	// Settings modal.
	settingsCursor int

	// Tools modal.
	toolsCursor int

	// Quiz modal.
	quizSeq      int
	quizLoading  bool
	quiz         *ai.QuizQuestion
	quizChoice   int
	quizAnswered bool
	quizErr      string

	// Thematic study modal.
	thematicInput   textinput.Model
	thematicSeq     int
	thematicLoading bool
	thematic        *ai.ThematicStudy
	thematicCursor  int
	thematicErr     string

	// Study chat modal.
	chatInput     textinput.Model
	chatHistory   []ai.ChatMessage
	chatSeq       int
	chatStreaming bool
	chatPending   string
	chatErr       string

	jobs *jobBus
	rng  *rand.Rand
	now  func() time.Time

	infoMessage  string
	errorMessage string
	helpVisible  bool
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		m.loadChapterCmd(),
		m.dailyVerseCmd(false),
	)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.anyLoading() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		vw := msg.Width - viewportHorizontalPadding
		if vw < minViewportWidth {
			vw = minViewportWidth
		}
		m.viewport.Width = vw
		vh := msg.Height - 8
		if vh < 5 {
			vh = 5
		}
		m.viewport.Height = vh
		m.markdown = newMarkdownRenderer(m.theme, m.wrapWidth())
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.screen == screenReader && m.modal == modalNone {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil

	case jobSignalMsg:
		return m, nil

	case jobResultEnvelope:
		if msg.Payload == nil {
			return m, nil
		}
		return m.Update(msg.Payload)

	case chapterResultMsg:
		return m.handleChapterResult(msg)

	case dailyVerseMsg:
		return m.handleDailyVerse(msg)

	case analysisResultMsg:
		if !m.config.Session.IsCurrent(msg.gen) {
			return m, nil
		}
		m.analysisLoading = false
		if msg.err != nil {
			m.analysisErr = msg.err.Error()
		} else {
			m.analysisErr = ""
			m.analysis = msg.terms
		}
		return m, nil

	case explainResultMsg:
		if m.panel.ResolveExplain(msg.reqID, msg.markdown, msg.err) && msg.err == nil {
			m.infoMessage = "Explanation ready."
		}
		return m, nil

	case crossRefResultMsg:
		if m.panel.ResolveCrossRefs(msg.reqID, msg.refs, msg.err) && msg.err == nil {
			m.crossRefIdx = 0
			m.infoMessage = "Cross references ready."
		}
		return m, nil

	case quizResultMsg:
		if msg.seq != m.quizSeq || m.modal != modalQuiz {
			return m, nil
		}
		m.quizLoading = false
		if msg.err != nil {
			m.quizErr = msg.err.Error()
			return m, nil
		}
		m.quizErr = ""
		q := msg.question
		m.quiz = &q
		m.quizChoice = 0
		m.quizAnswered = false
		return m, nil

	case thematicResultMsg:
		if msg.seq != m.thematicSeq || m.modal != modalThematic {
			return m, nil
		}
		m.thematicLoading = false
		if msg.err != nil {
			m.thematicErr = msg.err.Error()
			return m, nil
		}
		m.thematicErr = ""
		s := msg.study
		m.thematic = &s
		m.thematicCursor = 0
		return m, nil

	case searchResultMsg:
		if msg.seq != m.searchSeq || m.modal != modalSearch {
			return m, nil
		}
		m.searchLoading = false
		if msg.err != nil {
			m.searchErr = msg.err.Error()
			return m, nil
		}
		m.searchErr = ""
		m.searchResults = msg.results
		m.searchCursor = 0
		return m, nil

	case chatStreamMsg:
		return m.handleChatStream(msg)

	case highlightSavedMsg:
		if msg.err != nil {
			m.errorMessage = msg.err.Error()
			return m, nil
		}
		m.infoMessage = fmt.Sprintf("Highlighted in %s.", msg.color)
		return m, nil

	case clearCopyNoticeMsg:
		m.copyNotice = ""
		return m, nil
	}
	return m, nil
}

func (m *model) anyLoading() bool {
	return m.chapterLoading || m.dailyLoading || m.analysisLoading ||
		m.quizLoading || m.thematicLoading || m.searchLoading ||
		m.chatStreaming || m.panel.Loading()
}

func (m *model) handleChapterResult(msg chapterResultMsg) (tea.Model, tea.Cmd) {
	if !m.config.Session.IsCurrent(msg.gen) {
		return m, nil
	}
	m.chapterLoading = false
	if msg.err != nil {
		// A failed fetch clears the reader; showing the previous
		// chapter under the new session position would be a lie.
		m.chapter = nil
		m.cursorVerse = 0
		m.analysis = nil
		m.analysisErr = ""
		m.panel.Close()
		m.pickerOpen = false
		m.errorMessage = msg.err.Error()
		m.infoMessage = "Chapter fetch failed. Press R to retry."
		return m, nil
	}
	m.chapter = msg.chapter
	m.errorMessage = ""
	m.cursorVerse = 0
	m.analysis = nil
	m.analysisErr = ""
	m.panel.Close()
	m.pickerOpen = false
	m.viewport.SetYOffset(0)
	m.infoMessage = fmt.Sprintf("Loaded %s (%s).", msg.chapter.Reference, m.config.Session.Translation().Name)

	if m.config.Session.DeepStudy() {
		m.analysisLoading = true
		return m, tea.Batch(m.spinner.Tick, m.analysisCmd())
	}
	return m, nil
}

func (m *model) handleDailyVerse(msg dailyVerseMsg) (tea.Model, tea.Cmd) {
	m.dailyLoading = false
	if msg.err != nil {
		// Keep yesterday's verse on a failed refresh unless none exists.
		m.dailyErr = msg.err.Error()
		return m, nil
	}
	m.dailyErr = ""
	if err := m.config.Annotations.WriteDaily(msg.verse, m.now()); err != nil {
		m.dailyErr = err.Error()
	}
	stored, _ := m.config.Annotations.ReadDaily(m.now())
	if stored == nil {
		stored = &annotations.StoredVerseOfTheDay{Verse: msg.verse, Date: annotations.DayKey(m.now())}
	}
	m.daily = stored
	return m, nil
}

func (m *model) handleChatStream(msg chatStreamMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.chatSeq {
		return m, nil
	}
	if msg.err != nil {
		m.chatStreaming = false
		m.chatErr = msg.err.Error()
		m.chatPending = ""
		return m, nil
	}
	if msg.delta.Done {
		m.chatStreaming = false
		if strings.TrimSpace(m.chatPending) != "" {
			m.chatHistory = append(m.chatHistory, ai.ChatMessage{Sender: ai.SenderAI, Text: m.chatPending})
		}
		m.chatPending = ""
		return m, nil
	}
	m.chatPending += msg.delta.Text
	return m, waitForChatDelta(msg.updates)
}

// currentVerse returns the verse under the cursor, if a chapter is loaded.
func (m *model) currentVerse() (scripture.Verse, bool) {
	if m.chapter == nil || m.cursorVerse < 0 || m.cursorVerse >= len(m.chapter.Verses) {
		return scripture.Verse{}, false
	}
	return m.chapter.Verses[m.cursorVerse], true
}

func (m *model) currentRef() (bible.VerseRef, bool) {
	v, ok := m.currentVerse()
	if !ok {
		return bible.VerseRef{}, false
	}
	return bible.VerseRef{Book: m.config.Session.Book(), Chapter: m.config.Session.Chapter(), Verse: v.Verse}, true
}

func (m *model) wrapWidth() int {
	w := m.settings.WrapWidth
	if m.viewport.Width > 0 && w > m.viewport.Width {
		w = m.viewport.Width
	}
	if w < 20 {
		w = 20
	}
	return w
}

// openModal is the modal coordinator: a single overlay at a time, and
// opening a new one dismisses whatever was up.
func (m *model) openModal(target modal) {
	m.closeModal()
	m.modal = target
	switch target {
	case modalNav:
		m.navBookIdx = bible.Index(m.config.Session.Book())
		if m.navBookIdx < 0 {
			m.navBookIdx = 0
		}
		m.navChapter = m.config.Session.Chapter()
	case modalSearch:
		m.searchInput.Focus()
	case modalBookmarks:
		m.bookmarks = m.config.Annotations.Bookmarks()
		m.bookmarkCursor = 0
		m.noteEditing = false
	case modalThematic:
		if m.thematic == nil {
			m.thematicInput.Focus()
		}
	case modalChat:
		m.chatInput.Focus()
	case modalSettings:
		m.settingsCursor = 0
	case modalTools:
		m.toolsCursor = 0
	}
}

func (m *model) closeModal() {
	switch m.modal {
	case modalSearch:
		m.searchInput.Blur()
	case modalThematic:
		m.thematicInput.Blur()
	case modalChat:
		m.chatInput.Blur()
	case modalBookmarks:
		m.noteInput.Blur()
		m.noteEditing = false
	}
	m.modal = modalNone
}

// navigateTo selects an explicit position; per the coordinator contract a
// chapter select dismisses any open modal.
func (m *model) navigateTo(book string, chapter int) tea.Cmd {
	if _, err := m.config.Session.Select(book, chapter); err != nil {
		m.errorMessage = err.Error()
		return nil
	}
	m.closeModal()
	m.screen = screenReader
	m.panel.Close()
	m.pickerOpen = false
	m.chapterLoading = true
	m.infoMessage = fmt.Sprintf("Loading %s %d…", book, chapter)
	return tea.Batch(m.spinner.Tick, m.loadChapterCmd())
}

func (m *model) stepChapter(delta int) tea.Cmd {
	_, moved, err := m.config.Session.Step(delta)
	if err != nil {
		m.errorMessage = err.Error()
		return nil
	}
	if !moved {
		if delta < 0 {
			m.infoMessage = "Already at the first chapter."
		} else {
			m.infoMessage = "Already at the last chapter."
		}
		return nil
	}
	m.panel.Close()
	m.pickerOpen = false
	m.chapterLoading = true
	m.infoMessage = fmt.Sprintf("Loading %s %d…", m.config.Session.Book(), m.config.Session.Chapter())
	return tea.Batch(m.spinner.Tick, m.loadChapterCmd())
}

func (m *model) cycleTranslation() tea.Cmd {
	current := m.config.Session.Translation().ID
	idx := 0
	for i, tr := range bible.Translations {
		if tr.ID == current {
			idx = i
		}
	}
	next := bible.Translations[(idx+1)%len(bible.Translations)]
	if _, err := m.config.Session.SetTranslation(next.ID); err != nil {
		m.errorMessage = err.Error()
		return nil
	}
	m.chapterLoading = true
	m.infoMessage = fmt.Sprintf("Switched to %s.", next.Name)
	return tea.Batch(m.spinner.Tick, m.loadChapterCmd())
}

func (m *model) setTheme(name themeName) {
	m.theme = name
	m.styles = buildStyles(name)
	m.markdown = newMarkdownRenderer(name, m.wrapWidth())
	if err := m.themeKV.Write(string(name)); err != nil {
		m.errorMessage = err.Error()
	}
}

func (m *model) saveSettings() {
	if err := m.settingsKV.Write(m.settings); err != nil {
		m.errorMessage = err.Error()
	}
	m.markdown = newMarkdownRenderer(m.theme, m.wrapWidth())
}
