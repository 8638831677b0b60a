// Package view defines the rendering port the interaction controller drives.
// Surfaces (the web page state, the terminal) implement View.
package view

// Region names a result display area. Each region is owned by exactly one flow.
type Region string

const (
	RegionSegment   Region = "segment"
	RegionRecommend Region = "recommend"
)

// Control names a trigger control that can enter the busy state.
type Control string

const (
	ControlSegment   Control = "segment"
	ControlRecommend Control = "recommend"
)

// Idle captions of the two controls.
const (
	LabelSegment   = "Get Segment"
	LabelRecommend = "Get Recommendations"
)

// Label returns the idle caption of control.
func (c Control) Label() string {
	if c == ControlRecommend {
		return LabelRecommend
	}
	return LabelSegment
}

// Entry is one rendered line of a list result.
type Entry struct {
	Text          string `json:"text"`
	Score         string `json:"score,omitempty"`
	Informational bool   `json:"informational,omitempty"`
}

type View interface {
	// ShowScalarResult sets the region's value and makes it visible.
	ShowScalarResult(region Region, value string)
	// ShowListResult replaces the region's entries and makes it visible.
	ShowListResult(region Region, entries []Entry)
	// ClearResult empties and hides the region.
	ClearResult(region Region)
	// ShowError presents a blocking notification to the user.
	ShowError(message string)
	SetBusy(control Control, busy bool)
}
