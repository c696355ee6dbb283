package tui

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/rcosta/selah/internal/annotations"
)

// themeName is the persisted appearance choice.
type themeName string

const (
	themeLight themeName = "light"
	themeDark  themeName = "dark"
)

// defaultTheme seeds the first run from the terminal background; once a
// choice is persisted that value wins.
func defaultTheme() themeName {
	if lipgloss.HasDarkBackground() {
		return themeDark
	}
	return themeLight
}

// styleSet holds every lipgloss style the views use, built once per
// theme switch.
type styleSet struct {
	title         lipgloss.Style
	sectionHeader lipgloss.Style
	helper        lipgloss.Style
	errText       lipgloss.Style
	verseNumber   lipgloss.Style
	verseText     lipgloss.Style
	currentLine   lipgloss.Style
	bookmarkMark  lipgloss.Style
	statusBar     lipgloss.Style
	key           lipgloss.Style
	keyDesc       lipgloss.Style
	modalBox      lipgloss.Style
	heroBox       lipgloss.Style
	tagline       lipgloss.Style
	chatUser      lipgloss.Style
	chatAI        lipgloss.Style
	correct       lipgloss.Style
	incorrect     lipgloss.Style

	highlights map[annotations.HighlightColor]lipgloss.Style
}

func buildStyles(name themeName) styleSet {
	dark := name == themeDark

	text := lipgloss.Color("#1a1a1a")
	dim := lipgloss.Color("245")
	accent := lipgloss.Color("#7d5a3c")
	if dark {
		text = lipgloss.Color("#e8e3d8")
		dim = lipgloss.Color("247")
		accent = lipgloss.Color("#d9a05b")
	}

	s := styleSet{
		title:         lipgloss.NewStyle().Bold(true).Foreground(accent),
		sectionHeader: lipgloss.NewStyle().Bold(true).Foreground(accent),
		helper:        lipgloss.NewStyle().Foreground(dim),
		errText:       lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		verseNumber:   lipgloss.NewStyle().Foreground(dim),
		verseText:     lipgloss.NewStyle().Foreground(text),
		currentLine:   lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")),
		bookmarkMark:  lipgloss.NewStyle().Foreground(lipgloss.Color("#a3be8c")),
		statusBar:     lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1),
		key:           lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1),
		keyDesc:       lipgloss.NewStyle().Foreground(dim),
		modalBox:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(1, 2),
		heroBox:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(1, 2),
		tagline:       lipgloss.NewStyle().Foreground(dim).Italic(true),
		chatUser:      lipgloss.NewStyle().Bold(true).Foreground(accent),
		chatAI:        lipgloss.NewStyle().Foreground(text),
		correct:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#a3be8c")),
		incorrect:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		highlights: map[annotations.HighlightColor]lipgloss.Style{
			annotations.HighlightYellow: lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffe08a")),
			annotations.HighlightGreen:  lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#b5e8a0")),
			annotations.HighlightBlue:   lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#a8d4ff")),
			annotations.HighlightPink:   lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffc2d9")),
		},
	}
	return s
}

// newMarkdownRenderer builds the glamour renderer used for AI replies
// and explanations.
func newMarkdownRenderer(name themeName, width int) *glamour.TermRenderer {
	style := "light"
	if name == themeDark {
		style = "dark"
	}
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	return r
}

// renderMarkdown falls back to the raw text when glamour is unavailable
// or rejects the input.
func renderMarkdown(r *glamour.TermRenderer, text string) string {
	if r == nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return out
}
