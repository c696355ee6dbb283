package selection

import "github.com/rcosta/selah/internal/ai"

// PanelState names the action panel's position in its lifecycle.
type PanelState int

const (
	PanelClosed PanelState = iota
	PanelActions
	PanelExplain
	PanelCrossRef
)

// Panel is the state machine behind the selection action popup. Result
// slots are tagged with a request id; only the newest request may fill
// them, so a slow AI reply for an abandoned selection never renders.
type Panel struct {
	state PanelState
	sel   Selection

	reqID   int
	loading bool
	explain string
	refs    []ai.CrossReference
	err     error
}

// State returns the panel's current state.
func (p *Panel) State() PanelState { return p.state }

// Selection returns the selection the panel was opened for.
func (p *Panel) Selection() Selection { return p.sel }

// Loading reports whether an AI request is in flight.
func (p *Panel) Loading() bool { return p.loading }

// Explanation returns the rendered explain result, if any.
func (p *Panel) Explanation() string { return p.explain }

// CrossRefs returns the cross-reference result, if any.
func (p *Panel) CrossRefs() []ai.CrossReference { return p.refs }

// Err returns the failure of the most recent request, if any.
func (p *Panel) Err() error { return p.err }

// Open shows the action list for a fresh selection, discarding any
// previous results.
func (p *Panel) Open(sel Selection) {
	p.state = PanelActions
	p.sel = sel
	p.reqID++
	p.clearSlots()
}

// StartExplain moves to the explain view in its loading state and
// returns the id the eventual result must carry.
func (p *Panel) StartExplain() int {
	p.state = PanelExplain
	return p.startRequest()
}

// StartCrossRefs moves to the cross-reference view in its loading state
// and returns the id the eventual result must carry.
func (p *Panel) StartCrossRefs() int {
	p.state = PanelCrossRef
	return p.startRequest()
}

// ResolveExplain fills the explain slot. Stale ids are dropped; the
// return value reports whether the result was accepted.
func (p *Panel) ResolveExplain(id int, markdown string, err error) bool {
	if !p.accept(id) {
		return false
	}
	p.explain, p.err = markdown, err
	return true
}

// ResolveCrossRefs fills the cross-reference slot, dropping stale ids.
func (p *Panel) ResolveCrossRefs(id int, refs []ai.CrossReference, err error) bool {
	if !p.accept(id) {
		return false
	}
	p.refs, p.err = refs, err
	return true
}

// Back steps one level out: a result view returns to the action list,
// the action list closes the panel.
func (p *Panel) Back() {
	switch p.state {
	case PanelExplain, PanelCrossRef:
		p.state = PanelActions
		p.reqID++
		p.clearSlots()
	case PanelActions:
		p.Close()
	}
}

// Close dismisses the panel entirely and releases the selection.
func (p *Panel) Close() {
	p.state = PanelClosed
	p.sel = Selection{}
	p.reqID++
	p.clearSlots()
}

func (p *Panel) startRequest() int {
	p.reqID++
	p.loading = true
	p.explain, p.refs, p.err = "", nil, nil
	return p.reqID
}

func (p *Panel) accept(id int) bool {
	if id != p.reqID || p.state == PanelClosed {
		return false
	}
	p.loading = false
	return true
}

func (p *Panel) clearSlots() {
	p.loading = false
	p.explain, p.refs, p.err = "", nil, nil
}
