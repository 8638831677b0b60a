package ui

import "sync"

// LoadingLabel replaces a control's label while its request is in flight.
const LoadingLabel = "Analyzing..."

const (
	OpacityIdle = 1.0
	OpacityBusy = 0.7
)

// Button is a trigger control. It is safe for one flow to toggle it while a
// renderer reads it.
type Button struct {
	mu         sync.Mutex
	label      string
	savedLabel string
	loading    bool
	disabled   bool
	opacity    float64
}

// ButtonState is a point in time copy of a Button, used by renderers and session storage.
type ButtonState struct {
	Label    string  `json:"label"`
	Disabled bool    `json:"disabled"`
	Opacity  float64 `json:"opacity"`
}

func NewButton(label string) *Button {
	return &Button{label: label, opacity: OpacityIdle}
}

// ButtonFromState rebuilds an idle or busy button from a snapshot.
// A restored busy button cannot recover its original label, so callers
// should only persist idle buttons.
func ButtonFromState(s ButtonState) *Button {
	return &Button{
		label:    s.Label,
		disabled: s.Disabled,
		opacity:  s.Opacity,
	}
}

func (b *Button) State() ButtonState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return ButtonState{Label: b.label, Disabled: b.disabled, Opacity: b.opacity}
}

func (b *Button) Label() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.label
}

func (b *Button) Disabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.disabled
}

// SetLoading toggles the busy state. Activating captures the current label,
// shows LoadingLabel, disables the button and dims it; deactivating restores
// the captured label, re-enables and undims. A second activation while already
// loading keeps the first captured label.
func SetLoading(b *Button, loading bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if loading {
		if !b.loading {
			b.savedLabel = b.label
		}
		b.loading = true
		b.label = LoadingLabel
		b.disabled = true
		b.opacity = OpacityBusy
		return
	}

	if b.loading {
		b.label = b.savedLabel
	}
	b.loading = false
	b.disabled = false
	b.opacity = OpacityIdle
}
