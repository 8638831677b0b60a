package web

import (
	"sync"

	"customer-insights/internal/common/ui"
	"customer-insights/internal/view"
)

type ScalarRegion struct {
	Visible bool   `json:"visible"`
	Value   string `json:"value,omitempty"`
}

type ListRegion struct {
	Visible bool         `json:"visible"`
	Entries []view.Entry `json:"entries,omitempty"`
}

// PageState is everything one browser session sees on the page.
type PageState struct {
	Segment       ScalarRegion                    `json:"segment"`
	Recommend     ListRegion                      `json:"recommend"`
	Alerts        []string                        `json:"alerts,omitempty"`
	Buttons       map[view.Control]ui.ButtonState `json:"buttons,omitempty"`
	CustomerInput string                          `json:"customerInput,omitempty"`
	ProductInput  string                          `json:"productInput,omitempty"`
}

// Button returns the stored state of a control, or its idle default.
func (s PageState) Button(control view.Control) ui.ButtonState {
	if b, ok := s.Buttons[control]; ok {
		return b
	}
	return ui.ButtonState{Label: control.Label(), Opacity: ui.OpacityIdle}
}

// PageView renders flow outcomes into a PageState.
type PageView struct {
	mu      sync.Mutex
	state   PageState
	buttons map[view.Control]*ui.Button
}

var _ view.View = (*PageView)(nil)

func NewPageView(state PageState) *PageView {
	pv := &PageView{
		state:   state,
		buttons: map[view.Control]*ui.Button{},
	}
	for _, control := range []view.Control{view.ControlSegment, view.ControlRecommend} {
		pv.buttons[control] = ui.ButtonFromState(state.Button(control))
	}
	return pv
}

func (p *PageView) ShowScalarResult(region view.Region, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if region == view.RegionSegment {
		p.state.Segment = ScalarRegion{Visible: true, Value: value}
	}
}

func (p *PageView) ShowListResult(region view.Region, entries []view.Entry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if region == view.RegionRecommend {
		p.state.Recommend = ListRegion{Visible: true, Entries: append([]view.Entry(nil), entries...)}
	}
}

func (p *PageView) ClearResult(region view.Region) {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch region {
	case view.RegionSegment:
		p.state.Segment = ScalarRegion{}
	case view.RegionRecommend:
		p.state.Recommend = ListRegion{}
	}
}

func (p *PageView) ShowError(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Alerts = append(p.state.Alerts, message)
}

func (p *PageView) SetBusy(control view.Control, busy bool) {
	p.mu.Lock()
	b, ok := p.buttons[control]
	p.mu.Unlock()
	if ok {
		ui.SetLoading(b, busy)
	}
}

// State returns a copy of the page including current button snapshots.
func (p *PageView) State() PageState {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := p.state
	out.Alerts = append([]string(nil), p.state.Alerts...)
	out.Recommend.Entries = append([]view.Entry(nil), p.state.Recommend.Entries...)
	out.Buttons = make(map[view.Control]ui.ButtonState, len(p.buttons))
	for control, b := range p.buttons {
		out.Buttons[control] = b.State()
	}
	return out
}
