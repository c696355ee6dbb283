package tui

// readingSettings are the terminal analogues of the reader's typography
// preferences, persisted under the reading-settings key.
type readingSettings struct {
	WrapWidth    int    `json:"wrapWidth"`
	Spacing      string `json:"spacing"`
	VerseNumbers string `json:"verseNumbers"`
}

const (
	spacingCompact = "compact"
	spacingNormal  = "normal"
	spacingRelaxed = "relaxed"

	verseNumbersDim    = "dim"
	verseNumbersBold   = "bold"
	verseNumbersHidden = "hidden"
)

var (
	wrapWidthChoices    = []int{56, 64, 72, 84, 96}
	spacingChoices      = []string{spacingCompact, spacingNormal, spacingRelaxed}
	verseNumberChoices  = []string{verseNumbersDim, verseNumbersBold, verseNumbersHidden}
)

func defaultReadingSettings() readingSettings {
	return readingSettings{
		WrapWidth:    72,
		Spacing:      spacingNormal,
		VerseNumbers: verseNumbersDim,
	}
}

// normalize coerces persisted values back onto the supported choices.
func (rs readingSettings) normalize() readingSettings {
	out := defaultReadingSettings()
	for _, w := range wrapWidthChoices {
		if rs.WrapWidth == w {
			out.WrapWidth = w
		}
	}
	for _, s := range spacingChoices {
		if rs.Spacing == s {
			out.Spacing = s
		}
	}
	for _, v := range verseNumberChoices {
		if rs.VerseNumbers == v {
			out.VerseNumbers = v
		}
	}
	return out
}

func cycleInt(choices []int, current int, delta int) int {
	idx := 0
	for i, c := range choices {
		if c == current {
			idx = i
		}
	}
	idx = (idx + delta + len(choices)) % len(choices)
	return choices[idx]
}

func cycleString(choices []string, current string, delta int) string {
	idx := 0
	for i, c := range choices {
		if c == current {
			idx = i
		}
	}
	idx = (idx + delta + len(choices)) % len(choices)
	return choices[idx]
}
