package selection

import (
	"errors"
	"testing"

	"github.com/rcosta/selah/internal/ai"
	"github.com/rcosta/selah/internal/bible"
)

var john316 = bible.VerseRef{Book: "John", Chapter: 3, Verse: 16}

func TestCaptureRejectsEmptyGrabs(t *testing.T) {
	t.Parallel()
	for _, raw := range []string{"", "   ", "\n\t"} {
		if _, ok := Capture(raw, "For God so loved the world", john316, 4); ok {
			t.Errorf("Capture(%q) accepted an empty grab", raw)
		}
	}
}

func TestCaptureClipsToAnchorVerse(t *testing.T) {
	t.Parallel()
	anchor := "For God so loved the world, that he gave his only begotten Son,"

	// A grab that ran into the next verse keeps only the anchor part.
	sel, ok := Capture("begotten Son, that whosoever believeth", anchor, john316, 4)
	if !ok {
		t.Fatal("capture rejected")
	}
	if sel.Text != "begotten Son," {
		t.Fatalf("clipped text = %q", sel.Text)
	}
	if sel.Ref() != john316 || sel.Line != 4 {
		t.Fatalf("anchor lost: %+v", sel)
	}

	// A grab entirely outside the anchor is rejected.
	if _, ok := Capture("completely different words", anchor, john316, 4); ok {
		t.Fatal("capture accepted text outside the anchor verse")
	}
}

func TestFormatCopyCarriesCitation(t *testing.T) {
	t.Parallel()
	sel := Selection{Text: "God so loved the world", Book: "John", Chapter: 3, Verse: 16}
	got := FormatCopy(sel)
	want := "\"God so loved the world\" (John 3:16)"
	if got != want {
		t.Fatalf("FormatCopy = %q, want %q", got, want)
	}
}

func TestPanelLifecycle(t *testing.T) {
	t.Parallel()
	var p Panel
	if p.State() != PanelClosed {
		t.Fatal("panel should start closed")
	}

	sel := Selection{Text: "the light", Book: "Genesis", Chapter: 1, Verse: 3}
	p.Open(sel)
	if p.State() != PanelActions || p.Selection() != sel {
		t.Fatalf("after open: state=%v sel=%+v", p.State(), p.Selection())
	}

	id := p.StartExplain()
	if p.State() != PanelExplain || !p.Loading() {
		t.Fatalf("after start: state=%v loading=%v", p.State(), p.Loading())
	}
	if !p.ResolveExplain(id, "**Light** here means...", nil) {
		t.Fatal("current result was dropped")
	}
	if p.Loading() || p.Explanation() == "" {
		t.Fatalf("result not shown: loading=%v", p.Loading())
	}

	p.Back()
	if p.State() != PanelActions || p.Explanation() != "" {
		t.Fatalf("back did not return to actions: state=%v", p.State())
	}
	p.Back()
	if p.State() != PanelClosed || p.Selection() != (Selection{}) {
		t.Fatal("second back did not close and release the selection")
	}
}

func TestPanelDropsStaleResults(t *testing.T) {
	t.Parallel()
	var p Panel
	p.Open(Selection{Text: "faith", Book: "Hebrews", Chapter: 11, Verse: 1})

	stale := p.StartExplain()
	p.Back() // user backs out before the reply lands
	fresh := p.StartCrossRefs()

	if p.ResolveExplain(stale, "too late", nil) {
		t.Fatal("stale explain result accepted")
	}
	if p.Loading() != true {
		t.Fatal("stale result cleared the loading state of the live request")
	}

	refs := []ai.CrossReference{{Reference: "Romans 10:17", Book: "Romans", Chapter: 10}}
	if !p.ResolveCrossRefs(fresh, refs, nil) {
		t.Fatal("live result dropped")
	}
	if len(p.CrossRefs()) != 1 {
		t.Fatalf("refs = %+v", p.CrossRefs())
	}
}

func TestPanelClosedIgnoresResults(t *testing.T) {
	t.Parallel()
	var p Panel
	p.Open(Selection{Text: "hope", Book: "Romans", Chapter: 15, Verse: 13})
	id := p.StartExplain()
	p.Close()

	if p.ResolveExplain(id, "discarded", errors.New("also discarded")) {
		t.Fatal("closed panel accepted a result")
	}
	if p.Explanation() != "" || p.Err() != nil {
		t.Fatal("closed panel retained result state")
	}
}
