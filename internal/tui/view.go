package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/rcosta/selah/internal/ai"
	"github.com/rcosta/selah/internal/annotations"
	"github.com/rcosta/selah/internal/bible"
	"github.com/rcosta/selah/internal/selection"
)

func (m *model) View() string {
	var body string
	switch {
	case m.modal != modalNone:
		body = m.viewModal()
	case m.pickerOpen:
		body = m.viewPicker()
	case m.panel.State() != selection.PanelClosed:
		body = m.viewPanel()
	case m.screen == screenHome:
		body = m.viewHome()
	default:
		body = m.viewReader()
	}

	parts := []string{body}
	if m.copyNotice != "" {
		parts = append(parts, m.styles.bookmarkMark.Render(m.copyNotice))
	}
	if m.errorMessage != "" {
		parts = append(parts, m.styles.errText.Render(m.errorMessage))
	}
	if m.infoMessage != "" {
		parts = append(parts, m.styles.helper.Render(m.infoMessage))
	}
	if m.helpVisible {
		parts = append(parts, m.helpView())
	}
	parts = append(parts, m.statusBar())
	return joinNonEmpty(parts)
}

func (m *model) viewHome() string {
	var b strings.Builder
	b.WriteString(m.heroView())
	b.WriteString("\n\n")

	b.WriteString(m.styles.sectionHeader.Render("Continue Reading"))
	b.WriteRune('\n')
	b.WriteString(fmt.Sprintf("  %s %d (%s)\n", m.config.Session.Book(), m.config.Session.Chapter(), m.config.Session.Translation().Name))
	b.WriteString(m.styles.helper.Render("  Press Enter to open the reader."))
	b.WriteString("\n\n")

	b.WriteString(m.styles.sectionHeader.Render("Verse of the Day"))
	b.WriteRune('\n')
	switch {
	case m.dailyLoading:
		b.WriteString(m.styles.helper.Render(fmt.Sprintf("  %s Choosing a verse…", m.spinner.View())))
		b.WriteRune('\n')
	case m.daily != nil:
		b.WriteString("  " + m.styles.title.Render(m.daily.Verse.Reference))
		b.WriteRune('\n')
		b.WriteString(indentMultiline(wordwrap.String(m.daily.Verse.Text, m.wrapWidth()-4), "  "))
		b.WriteRune('\n')
		if m.daily.Verse.Reflection != "" {
			b.WriteString(m.styles.helper.Render(indentMultiline(wordwrap.String(m.daily.Verse.Reflection, m.wrapWidth()-4), "  ")))
			b.WriteRune('\n')
		}
	case m.dailyErr != "":
		b.WriteString(m.styles.errText.Render("  " + m.dailyErr))
		b.WriteRune('\n')
		b.WriteString(m.styles.helper.Render("  Press r to retry."))
		b.WriteRune('\n')
	default:
		b.WriteString(m.styles.helper.Render("  Press r to generate today's verse."))
		b.WriteRune('\n')
	}
	b.WriteRune('\n')

	b.WriteString(m.styles.sectionHeader.Render("Quick Actions"))
	b.WriteRune('\n')
	b.WriteString(m.styles.helper.Render("  t tools   / search   B bookmarks   o settings   ? help"))
	return b.String()
}

func (m *model) viewReader() string {
	if m.chapterLoading {
		return m.frameWithHero(fmt.Sprintf("%s Loading %s %d…", m.spinner.View(), m.config.Session.Book(), m.config.Session.Chapter()))
	}
	if m.chapter == nil {
		return m.frameWithHero(m.styles.helper.Render("No chapter loaded. Press R to fetch."))
	}

	m.viewport.SetContent(m.renderChapter())
	var b strings.Builder
	b.WriteString(m.styles.title.Render(m.chapter.Reference))
	b.WriteString("  ")
	b.WriteString(m.styles.helper.Render(m.config.Session.Translation().Name))
	if m.config.Session.DeepStudy() {
		b.WriteString("  ")
		b.WriteString(m.styles.bookmarkMark.Render("deep study"))
	}
	b.WriteRune('\n')
	b.WriteString(m.viewport.View())

	if m.config.Session.DeepStudy() {
		b.WriteString("\n\n")
		b.WriteString(m.renderAnalysis())
	}
	return b.String()
}

// renderChapter lays out each verse as number + wrapped text, painting
// highlight spans and the cursor line.
func (m *model) renderChapter() string {
	wrap := m.wrapWidth() - 5
	if wrap < 20 {
		wrap = 20
	}

	var lines []string
	for i, v := range m.chapter.Verses {
		ref := bible.VerseRef{Book: m.config.Session.Book(), Chapter: m.config.Session.Chapter(), Verse: v.Verse}
		text := m.paintHighlights(v.Text, ref)

		gutter := fmt.Sprintf("%3d ", v.Verse)
		switch m.settings.VerseNumbers {
		case verseNumbersBold:
			gutter = m.styles.title.Render(gutter)
		case verseNumbersHidden:
			gutter = "    "
		default:
			gutter = m.styles.verseNumber.Render(gutter)
		}

		cursor := "  "
		if i == m.cursorVerse {
			cursor = m.styles.currentLine.Render("›") + " "
		} else if m.config.Annotations.IsBookmarked(ref) {
			cursor = m.styles.bookmarkMark.Render("▸") + " "
		}

		wrapped := wordwrap.String(text, wrap)
		row := cursor + gutter + strings.ReplaceAll(wrapped, "\n", "\n      ")
		lines = append(lines, row)

		switch m.settings.Spacing {
		case spacingCompact:
		case spacingRelaxed:
			lines = append(lines, "", "")
		default:
			lines = append(lines, "")
		}
	}
	return strings.Join(lines, "\n")
}

// paintHighlights applies the merged highlight ranges of one verse.
func (m *model) paintHighlights(text string, ref bible.VerseRef) string {
	hs := m.config.Annotations.Highlights(ref)
	if len(hs) == 0 {
		return text
	}
	ranges := annotations.MergeRanges(text, hs)
	if len(ranges) == 0 {
		return text
	}
	var b strings.Builder
	pos := 0
	for _, r := range ranges {
		if r.Start > pos {
			b.WriteString(text[pos:r.Start])
		}
		style, ok := m.styles.highlights[r.Color]
		if !ok {
			style = m.styles.verseText
		}
		b.WriteString(style.Render(text[r.Start:r.End]))
		pos = r.End
	}
	if pos < len(text) {
		b.WriteString(text[pos:])
	}
	return b.String()
}

func (m *model) renderAnalysis() string {
	var b strings.Builder
	b.WriteString(m.styles.sectionHeader.Render("Chapter Study"))
	b.WriteRune('\n')
	switch {
	case m.analysisLoading:
		b.WriteString(m.styles.helper.Render(fmt.Sprintf("%s Analyzing notable terms…", m.spinner.View())))
	case m.analysisErr != "":
		b.WriteString(m.styles.errText.Render(m.analysisErr))
	case len(m.analysis) == 0:
		b.WriteString(m.styles.helper.Render("No analysis yet."))
	default:
		wrap := m.wrapWidth() - 4
		for _, term := range m.analysis {
			b.WriteString(m.styles.title.Render(term.Term))
			b.WriteRune('\n')
			b.WriteString(indentMultiline(wordwrap.String(term.Explanation, wrap), "  "))
			b.WriteRune('\n')
			if len(term.CrossReferences) > 0 {
				var refs []string
				for _, r := range term.CrossReferences {
					refs = append(refs, r.Reference)
				}
				b.WriteString(m.styles.helper.Render("  See: " + strings.Join(refs, ", ")))
				b.WriteRune('\n')
			}
		}
	}
	return b.String()
}

func (m *model) viewPanel() string {
	sel := m.panel.Selection()
	var b strings.Builder
	b.WriteString(m.styles.sectionHeader.Render(sel.Label()))
	b.WriteRune('\n')
	b.WriteString(indentMultiline(wordwrap.String("\""+sel.Text+"\"", m.wrapWidth()-2), "  "))
	b.WriteString("\n\n")

	switch m.panel.State() {
	case selection.PanelActions:
		b.WriteString(m.styles.helper.Render("e explain   x cross refs   s search   c copy   h highlight   esc close"))
	case selection.PanelExplain:
		b.WriteString(m.styles.sectionHeader.Render("Explanation"))
		b.WriteRune('\n')
		switch {
		case m.panel.Loading():
			b.WriteString(m.styles.helper.Render(fmt.Sprintf("%s Thinking…", m.spinner.View())))
		case m.panel.Err() != nil:
			b.WriteString(m.styles.errText.Render(m.panel.Err().Error()))
		default:
			b.WriteString(renderMarkdown(m.markdown, m.panel.Explanation()))
		}
		b.WriteRune('\n')
		b.WriteString(m.styles.helper.Render("esc back"))
	case selection.PanelCrossRef:
		b.WriteString(m.styles.sectionHeader.Render("Cross References"))
		b.WriteRune('\n')
		switch {
		case m.panel.Loading():
			b.WriteString(m.styles.helper.Render(fmt.Sprintf("%s Searching the scriptures…", m.spinner.View())))
		case m.panel.Err() != nil:
			b.WriteString(m.styles.errText.Render(m.panel.Err().Error()))
		default:
			wrap := m.wrapWidth() - 4
			for i, ref := range m.panel.CrossRefs() {
				marker := " • "
				title := m.styles.title.Render(ref.Reference)
				if i == m.crossRefIdx {
					marker = " › "
					title = m.styles.currentLine.Render(ref.Reference)
				}
				b.WriteString(marker + title)
				b.WriteRune('\n')
				b.WriteString(indentMultiline(wordwrap.String(ref.Text, wrap), "   "))
				b.WriteRune('\n')
			}
		}
		b.WriteString(m.styles.helper.Render("↑/↓ browse, Enter open, esc back"))
	}
	return m.styles.modalBox.Render(b.String())
}

func (m *model) viewPicker() string {
	var cells []string
	for i, c := range highlightPickerColors() {
		label := " " + string(c) + " "
		style, ok := m.styles.highlights[c]
		if !ok {
			style = m.styles.verseText
		}
		cell := style.Render(label)
		if i == m.pickerIdx {
			cell = m.styles.title.Render("[") + cell + m.styles.title.Render("]")
		} else {
			cell = " " + cell + " "
		}
		cells = append(cells, cell)
	}
	body := m.styles.sectionHeader.Render("Highlight Color") + "\n" +
		lipgloss.JoinHorizontal(lipgloss.Top, cells...) + "\n" +
		m.styles.helper.Render("←/→ choose, Enter apply, Esc cancel")
	return m.styles.modalBox.Render(body)
}

func (m *model) viewModal() string {
	switch m.modal {
	case modalNav:
		return m.viewNav()
	case modalSearch:
		return m.viewSearch()
	case modalBookmarks:
		return m.viewBookmarks()
	case modalSettings:
		return m.viewSettings()
	case modalTools:
		return m.viewTools()
	case modalQuiz:
		return m.viewQuiz()
	case modalThematic:
		return m.viewThematic()
	case modalChat:
		return m.viewChat()
	}
	return ""
}

func (m *model) viewNav() string {
	var b strings.Builder
	b.WriteString(m.styles.sectionHeader.Render("Go To"))
	b.WriteString("\n\n")

	// A window of books around the cursor keeps the list terminal-sized.
	const window = 9
	start := m.navBookIdx - window/2
	if start < 0 {
		start = 0
	}
	end := start + window
	if end > len(bible.Books) {
		end = len(bible.Books)
		start = end - window
		if start < 0 {
			start = 0
		}
	}
	for i := start; i < end; i++ {
		book := bible.Books[i]
		line := fmt.Sprintf("  %s (%d)", book.Name, book.Chapters)
		if i == m.navBookIdx {
			line = m.styles.currentLine.Render(fmt.Sprintf("› %s — chapter %d", book.Name, m.navChapter))
		}
		b.WriteString(line)
		b.WriteRune('\n')
	}
	b.WriteRune('\n')
	b.WriteString(m.styles.helper.Render("↑/↓ book, ←/→ chapter, Enter open, Esc close"))
	return m.styles.modalBox.Render(b.String())
}

func (m *model) viewSearch() string {
	var b strings.Builder
	b.WriteString(m.styles.sectionHeader.Render("Search"))
	b.WriteRune('\n')
	b.WriteString(m.searchInput.View())
	b.WriteString("\n\n")
	switch {
	case m.searchLoading:
		b.WriteString(m.styles.helper.Render(fmt.Sprintf("%s Searching…", m.spinner.View())))
	case m.searchErr != "":
		b.WriteString(m.styles.errText.Render(m.searchErr))
	case len(m.searchResults) > 0:
		wrap := m.wrapWidth() - 4
		for i, hit := range m.searchResults {
			marker := "  "
			if i == m.searchCursor && !m.searchInput.Focused() {
				marker = m.styles.currentLine.Render("›") + " "
			}
			b.WriteString(marker + m.styles.title.Render(hit.Reference))
			b.WriteRune('\n')
			b.WriteString(indentMultiline(wordwrap.String(hit.Text, wrap), "    "))
			b.WriteRune('\n')
		}
		b.WriteString(m.styles.helper.Render("↑/↓ browse, Enter open, / edit query"))
	default:
		b.WriteString(m.styles.helper.Render("Type a phrase or topic and press Enter."))
	}
	return m.styles.modalBox.Render(b.String())
}

func (m *model) viewBookmarks() string {
	var b strings.Builder
	b.WriteString(m.styles.sectionHeader.Render("Bookmarks"))
	b.WriteString("\n\n")
	if len(m.bookmarks) == 0 {
		b.WriteString(m.styles.helper.Render("No bookmarks yet. Press b on a verse to add one."))
		return m.styles.modalBox.Render(b.String())
	}
	wrap := m.wrapWidth() - 6
	for i, bm := range m.bookmarks {
		marker := "  "
		if i == m.bookmarkCursor {
			marker = m.styles.currentLine.Render("›") + " "
		}
		b.WriteString(marker + m.styles.title.Render(fmt.Sprintf("%s %d:%d", bm.Book, bm.Chapter, bm.Verse)))
		b.WriteRune('\n')
		b.WriteString(indentMultiline(wordwrap.String(bm.Text, wrap), "    "))
		b.WriteRune('\n')
		if bm.Note != "" {
			b.WriteString(m.styles.helper.Render(indentMultiline(wordwrap.String("✎ "+bm.Note, wrap), "    ")))
			b.WriteRune('\n')
		}
	}
	b.WriteRune('\n')
	if m.noteEditing {
		b.WriteString(m.noteInput.View())
		b.WriteRune('\n')
		b.WriteString(m.styles.helper.Render("Enter save note, Esc cancel"))
	} else {
		b.WriteString(m.styles.helper.Render("Enter open, n note, d remove, Esc close"))
	}
	return m.styles.modalBox.Render(b.String())
}

func (m *model) viewSettings() string {
	rows := []struct {
		label string
		value string
	}{
		{"Translation", m.config.Session.Translation().Name},
		{"Theme", string(m.theme)},
		{"Text width", fmt.Sprintf("%d cols", m.settings.WrapWidth)},
		{"Spacing", m.settings.Spacing},
		{"Verse numbers", m.settings.VerseNumbers},
	}
	var b strings.Builder
	b.WriteString(m.styles.sectionHeader.Render("Settings"))
	b.WriteString("\n\n")
	for i, row := range rows {
		line := fmt.Sprintf("  %-14s %s", row.label, row.value)
		if i == m.settingsCursor {
			line = m.styles.currentLine.Render(fmt.Sprintf("› %-14s %s", row.label, row.value))
		}
		b.WriteString(line)
		b.WriteRune('\n')
	}
	b.WriteRune('\n')
	b.WriteString(m.styles.helper.Render("↑/↓ row, ←/→ change, Esc close"))
	return m.styles.modalBox.Render(b.String())
}

func (m *model) viewTools() string {
	var b strings.Builder
	b.WriteString(m.styles.sectionHeader.Render("Study Tools"))
	b.WriteString("\n\n")
	for i, entry := range toolEntries {
		line := "  " + entry.title
		if i == m.toolsCursor {
			line = m.styles.currentLine.Render("› " + entry.title)
		}
		b.WriteString(line)
		b.WriteRune('\n')
		b.WriteString(m.styles.helper.Render("    " + entry.desc))
		b.WriteRune('\n')
	}
	b.WriteRune('\n')
	b.WriteString(m.styles.helper.Render("Enter open, Esc close"))
	return m.styles.modalBox.Render(b.String())
}

func (m *model) viewQuiz() string {
	var b strings.Builder
	b.WriteString(m.styles.sectionHeader.Render("Bible Quiz"))
	b.WriteString("\n\n")
	switch {
	case m.quizLoading:
		b.WriteString(m.styles.helper.Render(fmt.Sprintf("%s Writing a question…", m.spinner.View())))
	case m.quizErr != "":
		b.WriteString(m.styles.errText.Render(m.quizErr))
		b.WriteRune('\n')
		b.WriteString(m.styles.helper.Render("Press r to retry."))
	case m.quiz != nil:
		b.WriteString(wordwrap.String(m.quiz.Question, m.wrapWidth()-4))
		b.WriteString("\n\n")
		for i, opt := range m.quiz.Options {
			line := fmt.Sprintf("  %d) %s", i+1, opt)
			switch {
			case m.quizAnswered && i == m.quiz.CorrectAnswerIndex:
				line = m.styles.correct.Render(line + "  ✓")
			case m.quizAnswered && i == m.quizChoice:
				line = m.styles.incorrect.Render(line + "  ✗")
			case !m.quizAnswered && i == m.quizChoice:
				line = m.styles.currentLine.Render(line)
			}
			b.WriteString(line)
			b.WriteRune('\n')
		}
		b.WriteRune('\n')
		if m.quizAnswered {
			if m.quizChoice == m.quiz.CorrectAnswerIndex {
				b.WriteString(m.styles.correct.Render("Correct!"))
			} else {
				b.WriteString(m.styles.incorrect.Render("Not quite."))
			}
			b.WriteRune('\n')
			b.WriteString(m.styles.helper.Render("Enter next question, Esc close"))
		} else {
			b.WriteString(m.styles.helper.Render("↑/↓ or 1-3 choose, Enter answer"))
		}
	}
	return m.styles.modalBox.Render(b.String())
}

func (m *model) viewThematic() string {
	var b strings.Builder
	b.WriteString(m.styles.sectionHeader.Render("Thematic Study"))
	b.WriteRune('\n')
	if m.thematicInput.Focused() {
		b.WriteString(m.thematicInput.View())
		b.WriteRune('\n')
		b.WriteString(m.styles.helper.Render("Enter to study the theme, Esc to close."))
		return m.styles.modalBox.Render(b.String())
	}
	switch {
	case m.thematicLoading:
		b.WriteString(m.styles.helper.Render(fmt.Sprintf("%s Tracing the theme…", m.spinner.View())))
	case m.thematicErr != "":
		b.WriteString(m.styles.errText.Render(m.thematicErr))
		b.WriteRune('\n')
		b.WriteString(m.styles.helper.Render("Press n for a new theme."))
	case m.thematic != nil:
		wrap := m.wrapWidth() - 4
		b.WriteString(wordwrap.String(m.thematic.Summary, wrap))
		b.WriteString("\n\n")
		for i, v := range m.thematic.Verses {
			marker := "  "
			if i == m.thematicCursor {
				marker = m.styles.currentLine.Render("›") + " "
			}
			b.WriteString(marker + m.styles.title.Render(v.Reference))
			b.WriteRune('\n')
		}
		b.WriteRune('\n')
		b.WriteString(m.styles.helper.Render("↑/↓ browse, Enter open, n new theme"))
	}
	return m.styles.modalBox.Render(b.String())
}

func (m *model) viewChat() string {
	var b strings.Builder
	b.WriteString(m.styles.sectionHeader.Render(fmt.Sprintf("Study Chat — %s %d", m.config.Session.Book(), m.config.Session.Chapter())))
	b.WriteString("\n\n")
	wrap := m.wrapWidth() - 4
	for _, msg := range m.chatHistory {
		if msg.Sender == ai.SenderUser {
			b.WriteString(m.styles.chatUser.Render("You"))
			b.WriteRune('\n')
			b.WriteString(indentMultiline(wordwrap.String(msg.Text, wrap), "  "))
		} else {
			b.WriteString(m.styles.chatAI.Render("Study Buddy"))
			b.WriteRune('\n')
			b.WriteString(indentMultiline(renderMarkdown(m.markdown, msg.Text), "  "))
		}
		b.WriteRune('\n')
	}
	if m.chatStreaming {
		b.WriteString(m.styles.chatAI.Render("Study Buddy"))
		b.WriteRune('\n')
		if m.chatPending == "" {
			b.WriteString(m.styles.helper.Render(fmt.Sprintf("  %s Thinking…", m.spinner.View())))
		} else {
			b.WriteString(indentMultiline(wordwrap.String(m.chatPending, wrap), "  "))
		}
		b.WriteRune('\n')
	}
	if m.chatErr != "" {
		b.WriteString(m.styles.errText.Render(m.chatErr))
		b.WriteRune('\n')
	}
	b.WriteRune('\n')
	b.WriteString(m.chatInput.View())
	b.WriteRune('\n')
	b.WriteString(m.styles.helper.Render("Enter send, Esc close"))
	return m.styles.modalBox.Render(b.String())
}

func (m *model) heroView() string {
	name := m.styles.title.Render("S E L A H")
	box := m.styles.heroBox.Render(name + "\n" + m.styles.tagline.Render(heroTagline))
	return box
}

func (m *model) frameWithHero(body string) string {
	return joinNonEmpty([]string{m.heroView(), body})
}

func (m *model) helpView() string {
	lines := []string{
		m.styles.sectionHeader.Render("Keys"),
		m.styles.helper.Render("• ←/→ previous or next chapter (wraps across books); ↑/↓ moves the verse cursor."),
		m.styles.helper.Render("• v or Enter selects the verse under the cursor and opens the action panel."),
		m.styles.helper.Render("• b bookmarks the verse; B lists bookmarks; notes are edited from the list."),
		m.styles.helper.Render("• g opens Go To, / opens search, t opens study tools, o opens settings."),
		m.styles.helper.Render("• T cycles translations, d toggles deep study, r on home refreshes the daily verse."),
		m.styles.helper.Render("• Esc closes overlays or returns home; Ctrl+C quits."),
	}
	return m.styles.modalBox.Render(strings.Join(lines, "\n"))
}

func (m *model) statusBar() string {
	stats := []string{
		fmt.Sprintf("%s %d", m.config.Session.Book(), m.config.Session.Chapter()),
		m.config.Session.Translation().ID,
		string(m.theme),
	}
	if m.config.AI != nil {
		stats = append(stats, m.config.AI.Name())
	}
	if m.anyLoading() {
		stats = append(stats, "working…")
	}
	return m.styles.statusBar.Render(strings.Join(stats, "  •  "))
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}

func indentMultiline(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
