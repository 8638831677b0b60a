// Package terminal is the line oriented console surface.
package terminal

import (
	"fmt"
	"io"
	"sync"

	"customer-insights/internal/common/ui"
	"customer-insights/internal/view"
)

const scoreLabel = "Confidence (Lift)"

// View prints flow outcomes to a writer. Writes from concurrent flows are
// serialized line by line.
type View struct {
	mu      sync.Mutex
	out     io.Writer
	buttons map[view.Control]*ui.Button
}

var _ view.View = (*View)(nil)

func NewView(out io.Writer) *View {
	return &View{
		out: out,
		buttons: map[view.Control]*ui.Button{
			view.ControlSegment:   ui.NewButton(view.LabelSegment),
			view.ControlRecommend: ui.NewButton(view.LabelRecommend),
		},
	}
}

// Button exposes a control's current state.
func (v *View) Button(control view.Control) *ui.Button {
	return v.buttons[control]
}

func (v *View) printf(format string, args ...interface{}) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintf(v.out, format, args...)
}

func (v *View) ShowScalarResult(region view.Region, value string) {
	if region == view.RegionSegment {
		v.printf("Segment: %s\n", value)
	}
}

func (v *View) ShowListResult(region view.Region, entries []view.Entry) {
	v.mu.Lock()
	defer v.mu.Unlock()

	fmt.Fprintln(v.out, "Recommendations:")
	n := 0
	for _, e := range entries {
		if e.Informational {
			fmt.Fprintf(v.out, "  %s\n", e.Text)
			continue
		}
		n++
		fmt.Fprintf(v.out, "  %d. %s  %s: %s\n", n, e.Text, scoreLabel, e.Score)
	}
}

// ClearResult is a no-op: printed lines cannot be taken back.
func (v *View) ClearResult(view.Region) {}

func (v *View) ShowError(message string) {
	v.printf("! %s\n", message)
}

func (v *View) SetBusy(control view.Control, busy bool) {
	b, ok := v.buttons[control]
	if !ok {
		return
	}
	ui.SetLoading(b, busy)
	if busy {
		v.printf("[%s] %s\n", control.Label(), b.Label())
	}
}
