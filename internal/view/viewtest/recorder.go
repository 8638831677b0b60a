// Package viewtest provides a recording view.View for flow and controller tests.
package viewtest

import (
	"fmt"
	"sync"

	"customer-insights/internal/view"
)

// Call is one recorded View invocation.
type Call struct {
	Method string
	Arg    string
}

// Recorder keeps the latest state of every region and the ordered list of calls.
// Set PanicOn to a method name to make the next call to that method panic.
type Recorder struct {
	mu      sync.Mutex
	calls   []Call
	scalars map[view.Region]string
	lists   map[view.Region][]view.Entry
	visible map[view.Region]bool
	busy    map[view.Control]bool
	errors  []string

	PanicOn string

	// OnBusy, when set, runs after each SetBusy call outside the lock.
	OnBusy func(control view.Control, busy bool)
}

func NewRecorder() *Recorder {
	return &Recorder{
		scalars: map[view.Region]string{},
		lists:   map[view.Region][]view.Entry{},
		visible: map[view.Region]bool{},
		busy:    map[view.Control]bool{},
	}
}

func (r *Recorder) record(method, arg string) {
	r.calls = append(r.calls, Call{Method: method, Arg: arg})
	if r.PanicOn == method {
		r.PanicOn = ""
		panic(fmt.Sprintf("viewtest: %s failed", method))
	}
}

func (r *Recorder) ShowScalarResult(region view.Region, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scalars[region] = value
	r.visible[region] = true
	r.record("ShowScalarResult", string(region))
}

func (r *Recorder) ShowListResult(region view.Region, entries []view.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists[region] = append([]view.Entry(nil), entries...)
	r.visible[region] = true
	r.record("ShowListResult", string(region))
}

func (r *Recorder) ClearResult(region view.Region) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.scalars, region)
	delete(r.lists, region)
	r.visible[region] = false
	r.record("ClearResult", string(region))
}

func (r *Recorder) ShowError(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, message)
	r.record("ShowError", message)
}

func (r *Recorder) SetBusy(control view.Control, busy bool) {
	r.mu.Lock()
	r.busy[control] = busy
	hook := r.OnBusy
	r.calls = append(r.calls, Call{Method: "SetBusy", Arg: fmt.Sprintf("%s=%t", control, busy)})
	r.mu.Unlock()

	if hook != nil {
		hook(control, busy)
	}
}

func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Methods returns the recorded method names in order.
func (r *Recorder) Methods() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.Method
	}
	return out
}

func (r *Recorder) Scalar(region view.Region) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.scalars[region]
	return v, ok
}

func (r *Recorder) List(region view.Region) []view.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]view.Entry(nil), r.lists[region]...)
}

func (r *Recorder) Visible(region view.Region) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.visible[region]
}

func (r *Recorder) Busy(control view.Control) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.busy[control]
}

func (r *Recorder) Errors() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.errors...)
}
