package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rcosta/selah/internal/annotations"
	"github.com/rcosta/selah/internal/bible"
	"github.com/rcosta/selah/internal/selection"
)

func (m *model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.modal != modalNone {
		return m.handleModalKey(key)
	}
	if m.pickerOpen {
		return m.handlePickerKey(key)
	}
	if m.panel.State() != selection.PanelClosed {
		return m.handlePanelKey(key)
	}

	switch m.screen {
	case screenHome:
		return m.handleHomeKey(key)
	case screenReader:
		return m.handleReaderKey(key)
	}
	return m, nil
}

func (m *model) handleHomeKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "enter", "c":
		m.screen = screenReader
		if m.chapter == nil && !m.chapterLoading {
			m.chapterLoading = true
			return m, tea.Batch(m.spinner.Tick, m.loadChapterCmd())
		}
		return m, nil
	case "r":
		m.infoMessage = "Refreshing the verse of the day…"
		return m, tea.Batch(m.spinner.Tick, m.dailyVerseCmd(true))
	case "/":
		m.openModal(modalSearch)
		return m, nil
	case "t":
		m.openModal(modalTools)
		return m, nil
	case "B":
		m.openModal(modalBookmarks)
		return m, nil
	case "o":
		m.openModal(modalSettings)
		return m, nil
	case "?":
		m.helpVisible = !m.helpVisible
		return m, nil
	case "q", "esc":
		return m, tea.Quit
	}
	return m, nil
}

func (m *model) handleReaderKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.screen = screenHome
		return m, nil
	case "left", "h":
		return m, m.stepChapter(-1)
	case "right", "l":
		return m, m.stepChapter(+1)
	case "up", "k":
		m.moveCursor(-1)
		return m, nil
	case "down", "j":
		m.moveCursor(+1)
		return m, nil
	case "g":
		m.openModal(modalNav)
		return m, nil
	case "b":
		return m, m.toggleBookmark()
	case "v", "enter", " ":
		m.openSelectionPanel()
		return m, nil
	case "T":
		return m, m.cycleTranslation()
	case "d":
		return m, m.toggleDeepStudy()
	case "R":
		if !m.chapterLoading {
			m.chapterLoading = true
			m.infoMessage = "Retrying chapter fetch…"
			return m, tea.Batch(m.spinner.Tick, m.loadChapterCmd())
		}
		return m, nil
	case "/":
		m.openModal(modalSearch)
		return m, nil
	case "B":
		m.openModal(modalBookmarks)
		return m, nil
	case "o":
		m.openModal(modalSettings)
		return m, nil
	case "t":
		m.openModal(modalTools)
		return m, nil
	case "?":
		m.helpVisible = !m.helpVisible
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(key)
	return m, cmd
}

func (m *model) moveCursor(delta int) {
	if m.chapter == nil || len(m.chapter.Verses) == 0 {
		return
	}
	target := m.cursorVerse + delta
	if target < 0 {
		target = 0
	}
	if target >= len(m.chapter.Verses) {
		target = len(m.chapter.Verses) - 1
	}
	m.cursorVerse = target
	m.ensureCursorVisible()
}

func (m *model) ensureCursorVisible() {
	line := m.cursorVerse * 2
	if line < m.viewport.YOffset {
		m.viewport.SetYOffset(line)
		return
	}
	bottom := m.viewport.YOffset + m.viewport.Height - 1
	if line > bottom {
		m.viewport.SetYOffset(line - m.viewport.Height + 1)
	}
}

func (m *model) toggleBookmark() tea.Cmd {
	v, ok := m.currentVerse()
	if !ok {
		return nil
	}
	ref, _ := m.currentRef()
	if err := m.config.Annotations.ToggleBookmark(ref, v.Text); err != nil {
		m.errorMessage = err.Error()
		return nil
	}
	if m.config.Annotations.IsBookmarked(ref) {
		m.infoMessage = fmt.Sprintf("Bookmarked %s %d:%d.", ref.Book, ref.Chapter, ref.Verse)
	} else {
		m.infoMessage = fmt.Sprintf("Removed bookmark %s %d:%d.", ref.Book, ref.Chapter, ref.Verse)
	}
	return nil
}

func (m *model) toggleDeepStudy() tea.Cmd {
	on := m.config.Session.ToggleDeepStudy()
	if !on {
		m.infoMessage = "Deep study off."
		return nil
	}
	m.infoMessage = "Deep study on. Analyzing chapter…"
	if m.chapter != nil && !m.analysisLoading {
		m.analysisLoading = true
		return tea.Batch(m.spinner.Tick, m.analysisCmd())
	}
	return nil
}

func (m *model) openSelectionPanel() {
	v, ok := m.currentVerse()
	if !ok {
		return
	}
	ref, _ := m.currentRef()
	sel, ok := selection.Capture(v.Text, v.Text, ref, m.cursorVerse)
	if !ok {
		return
	}
	m.panel.Open(sel)
	m.infoMessage = fmt.Sprintf("Selected %s.", sel.Label())
}

func (m *model) handlePanelKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.panel.Back()
		return m, nil
	case "q":
		m.panel.Close()
		return m, nil
	// e and x stay live in result views too, so a new request
	// directly supersedes one still in flight.
	case "e":
		return m, tea.Batch(m.spinner.Tick, m.explainCmd())
	case "x":
		m.crossRefIdx = 0
		return m, tea.Batch(m.spinner.Tick, m.crossRefCmd())
	}

	if m.panel.State() == selection.PanelCrossRef {
		return m.handleCrossRefKey(key)
	}
	if m.panel.State() != selection.PanelActions {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(key)
		return m, cmd
	}

	switch key.String() {
	case "c":
		return m, m.copySelectionCmd()
	case "s":
		query := m.panel.Selection().Text
		m.panel.Close()
		m.openModal(modalSearch)
		m.searchInput.SetValue(query)
		return m, nil
	case "h":
		m.pickerOpen = true
		m.pickerIdx = 0
		return m, nil
	}
	return m, nil
}

func (m *model) handleCrossRefKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	refs := m.panel.CrossRefs()
	switch key.String() {
	case "up", "k":
		if m.crossRefIdx > 0 {
			m.crossRefIdx--
		}
		return m, nil
	case "down", "j":
		if m.crossRefIdx < len(refs)-1 {
			m.crossRefIdx++
		}
		return m, nil
	case "enter":
		if m.crossRefIdx < len(refs) {
			ref := refs[m.crossRefIdx]
			return m, m.navigateTo(ref.Book, ref.Chapter)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(key)
	return m, cmd
}

func (m *model) handlePickerKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	colors := highlightPickerColors()
	switch key.String() {
	case "esc":
		m.pickerOpen = false
		return m, nil
	case "left", "h", "up", "k":
		m.pickerIdx = (m.pickerIdx - 1 + len(colors)) % len(colors)
		return m, nil
	case "right", "l", "down", "j":
		m.pickerIdx = (m.pickerIdx + 1) % len(colors)
		return m, nil
	case "enter", " ":
		cmd := m.addHighlightCmd(colors[m.pickerIdx])
		m.pickerOpen = false
		m.panel.Close()
		return m, cmd
	}
	return m, nil
}

func (m *model) handleModalKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Type == tea.KeyEsc && !m.noteEditing {
		m.closeModal()
		return m, nil
	}
	switch m.modal {
	case modalNav:
		return m.handleNavKey(key)
	case modalSearch:
		return m.handleSearchKey(key)
	case modalBookmarks:
		return m.handleBookmarksKey(key)
	case modalSettings:
		return m.handleSettingsKey(key)
	case modalTools:
		return m.handleToolsKey(key)
	case modalQuiz:
		return m.handleQuizKey(key)
	case modalThematic:
		return m.handleThematicKey(key)
	case modalChat:
		return m.handleChatKey(key)
	}
	return m, nil
}

func (m *model) handleNavKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	clampChapter := func() {
		max := bible.Books[m.navBookIdx].Chapters
		if m.navChapter > max {
			m.navChapter = max
		}
		if m.navChapter < 1 {
			m.navChapter = 1
		}
	}
	switch key.String() {
	case "up", "k":
		m.navBookIdx = (m.navBookIdx - 1 + len(bible.Books)) % len(bible.Books)
		clampChapter()
	case "down", "j":
		m.navBookIdx = (m.navBookIdx + 1) % len(bible.Books)
		clampChapter()
	case "left", "h":
		m.navChapter--
		clampChapter()
	case "right", "l":
		m.navChapter++
		clampChapter()
	case "enter":
		return m, m.navigateTo(bible.Books[m.navBookIdx].Name, m.navChapter)
	}
	return m, nil
}

func (m *model) handleSearchKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searchInput.Focused() {
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(key)
		if key.Type == tea.KeyEnter {
			query := strings.TrimSpace(m.searchInput.Value())
			if query == "" {
				return m, cmd
			}
			m.searchInput.Blur()
			return m, tea.Batch(cmd, m.spinner.Tick, m.searchCmd(query))
		}
		return m, cmd
	}

	switch key.String() {
	case "up", "k":
		if m.searchCursor > 0 {
			m.searchCursor--
		}
	case "down", "j":
		if m.searchCursor < len(m.searchResults)-1 {
			m.searchCursor++
		}
	case "/":
		m.searchInput.Focus()
	case "enter":
		if m.searchCursor < len(m.searchResults) {
			hit := m.searchResults[m.searchCursor]
			return m, m.navigateTo(hit.Book, hit.Chapter)
		}
	}
	return m, nil
}

func (m *model) handleBookmarksKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.noteEditing {
		var cmd tea.Cmd
		m.noteInput, cmd = m.noteInput.Update(key)
		switch key.Type {
		case tea.KeyEsc:
			m.noteEditing = false
			m.noteInput.Blur()
			m.noteInput.SetValue("")
		case tea.KeyEnter:
			if m.bookmarkCursor < len(m.bookmarks) {
				bm := m.bookmarks[m.bookmarkCursor]
				if err := m.config.Annotations.UpdateNote(bm.Ref(), strings.TrimSpace(m.noteInput.Value())); err != nil {
					m.errorMessage = err.Error()
				} else {
					m.infoMessage = "Note saved."
				}
				m.bookmarks = m.config.Annotations.Bookmarks()
			}
			m.noteEditing = false
			m.noteInput.Blur()
			m.noteInput.SetValue("")
		}
		return m, cmd
	}

	switch key.String() {
	case "up", "k":
		if m.bookmarkCursor > 0 {
			m.bookmarkCursor--
		}
	case "down", "j":
		if m.bookmarkCursor < len(m.bookmarks)-1 {
			m.bookmarkCursor++
		}
	case "n":
		if m.bookmarkCursor < len(m.bookmarks) {
			m.noteEditing = true
			m.noteInput.SetValue(m.bookmarks[m.bookmarkCursor].Note)
			m.noteInput.Focus()
		}
	case "d":
		if m.bookmarkCursor < len(m.bookmarks) {
			bm := m.bookmarks[m.bookmarkCursor]
			if err := m.config.Annotations.ToggleBookmark(bm.Ref(), ""); err != nil {
				m.errorMessage = err.Error()
			}
			m.bookmarks = m.config.Annotations.Bookmarks()
			if m.bookmarkCursor >= len(m.bookmarks) && m.bookmarkCursor > 0 {
				m.bookmarkCursor--
			}
		}
	case "enter":
		if m.bookmarkCursor < len(m.bookmarks) {
			bm := m.bookmarks[m.bookmarkCursor]
			return m, m.navigateTo(bm.Book, bm.Chapter)
		}
	}
	return m, nil
}

func (m *model) handleSettingsKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	const rows = 5 // translation, theme, wrap, spacing, verse numbers
	delta := 0
	switch key.String() {
	case "up", "k":
		m.settingsCursor = (m.settingsCursor - 1 + rows) % rows
		return m, nil
	case "down", "j":
		m.settingsCursor = (m.settingsCursor + 1) % rows
		return m, nil
	case "left", "h":
		delta = -1
	case "right", "l", "enter", " ":
		delta = +1
	default:
		return m, nil
	}

	switch m.settingsCursor {
	case 0:
		return m, m.cycleTranslation()
	case 1:
		if m.theme == themeDark {
			m.setTheme(themeLight)
		} else {
			m.setTheme(themeDark)
		}
	case 2:
		m.settings.WrapWidth = cycleInt(wrapWidthChoices, m.settings.WrapWidth, delta)
		m.saveSettings()
	case 3:
		m.settings.Spacing = cycleString(spacingChoices, m.settings.Spacing, delta)
		m.saveSettings()
	case 4:
		m.settings.VerseNumbers = cycleString(verseNumberChoices, m.settings.VerseNumbers, delta)
		m.saveSettings()
	}
	return m, nil
}

var toolEntries = []struct {
	title string
	desc  string
}{
	{"Bible Quiz", "One question at a time, with instant feedback."},
	{"Thematic Study", "Trace a theme through key passages."},
	{"Study Chat", "Ask questions about what you are reading."},
}

func (m *model) handleToolsKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "up", "k":
		m.toolsCursor = (m.toolsCursor - 1 + len(toolEntries)) % len(toolEntries)
	case "down", "j":
		m.toolsCursor = (m.toolsCursor + 1) % len(toolEntries)
	case "enter", " ":
		switch m.toolsCursor {
		case 0:
			m.openModal(modalQuiz)
			return m, tea.Batch(m.spinner.Tick, m.quizCmd())
		case 1:
			m.openModal(modalThematic)
		case 2:
			m.openModal(modalChat)
		}
	}
	return m, nil
}

func (m *model) handleQuizKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.quizLoading || m.quiz == nil {
		if key.String() == "r" && !m.quizLoading {
			return m, tea.Batch(m.spinner.Tick, m.quizCmd())
		}
		return m, nil
	}
	switch key.String() {
	case "up", "k":
		if !m.quizAnswered && m.quizChoice > 0 {
			m.quizChoice--
		}
	case "down", "j":
		if !m.quizAnswered && m.quizChoice < len(m.quiz.Options)-1 {
			m.quizChoice++
		}
	case "1", "2", "3":
		if !m.quizAnswered {
			m.quizChoice = int(key.String()[0] - '1')
			m.quizAnswered = true
		}
	case "enter", " ":
		if m.quizAnswered {
			return m, tea.Batch(m.spinner.Tick, m.quizCmd())
		}
		m.quizAnswered = true
	}
	return m, nil
}

func (m *model) handleThematicKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.thematicInput.Focused() {
		var cmd tea.Cmd
		m.thematicInput, cmd = m.thematicInput.Update(key)
		if key.Type == tea.KeyEnter {
			theme := strings.TrimSpace(m.thematicInput.Value())
			if theme == "" {
				return m, cmd
			}
			m.thematicInput.Blur()
			return m, tea.Batch(cmd, m.spinner.Tick, m.thematicCmd(theme))
		}
		return m, cmd
	}

	switch key.String() {
	case "up", "k":
		if m.thematicCursor > 0 {
			m.thematicCursor--
		}
	case "down", "j":
		if m.thematic != nil && m.thematicCursor < len(m.thematic.Verses)-1 {
			m.thematicCursor++
		}
	case "n":
		m.thematic = nil
		m.thematicErr = ""
		m.thematicInput.SetValue("")
		m.thematicInput.Focus()
	case "enter":
		if m.thematic != nil && m.thematicCursor < len(m.thematic.Verses) {
			v := m.thematic.Verses[m.thematicCursor]
			return m, m.navigateTo(v.Book, v.Chapter)
		}
	}
	return m, nil
}

func (m *model) handleChatKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(key)
	if key.Type == tea.KeyEnter && !m.chatStreaming {
		question := strings.TrimSpace(m.chatInput.Value())
		if question == "" {
			return m, cmd
		}
		m.chatInput.SetValue("")
		return m, tea.Batch(cmd, m.startChatCmd(question))
	}
	return m, cmd
}

func highlightPickerColors() []annotations.HighlightColor {
	return annotations.HighlightColors
}
