package annotations

import "strings"

// MarkedRange is a half-open [Start, End) byte span of a verse's text
// carrying a highlight color.
type MarkedRange struct {
	Start int
	End   int
	Color HighlightColor
}

// MergeRanges resolves the highlights of one verse into disjoint colored
// spans over verseText. Each highlight is anchored at the first
// occurrence of its text; highlights whose text no longer occurs are
// skipped. Where spans overlap, the later highlight's color wins.
func MergeRanges(verseText string, hs []Highlight) []MarkedRange {
	if verseText == "" || len(hs) == 0 {
		return nil
	}

	// Paint colors over the verse bytes in insertion order so later
	// highlights overwrite earlier ones, then coalesce runs.
	paint := make([]HighlightColor, len(verseText))
	painted := false
	for _, h := range hs {
		if h.Text == "" {
			continue
		}
		start := strings.Index(verseText, h.Text)
		if start < 0 {
			continue
		}
		for i := start; i < start+len(h.Text); i++ {
			paint[i] = h.Color
		}
		painted = true
	}
	if !painted {
		return nil
	}

	var out []MarkedRange
	for i := 0; i < len(paint); {
		if paint[i] == "" {
			i++
			continue
		}
		j := i + 1
		for j < len(paint) && paint[j] == paint[i] {
			j++
		}
		out = append(out, MarkedRange{Start: i, End: j, Color: paint[i]})
		i = j
	}
	return out
}
