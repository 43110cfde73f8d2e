package runlist

import "strconv"

// EventFilterChanged is the name of the single event channel of the view.
const EventFilterChanged = "filter-changed"

// FilterChanged asks the owner to change its authoritative run query.
type FilterChanged struct {
	Filter string `json:"filter"`
	Value  string `json:"value"`
}

// OffsetChanged builds the pager event for page index offset.
func OffsetChanged(offset int) FilterChanged {
	return FilterChanged{Filter: string(DimensionOffset), Value: strconv.Itoa(offset)}
}

// Emitter receives the events a view emits.
type Emitter interface {
	Emit(event FilterChanged)
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(event FilterChanged)

// Emit calls f(event).
func (f EmitterFunc) Emit(event FilterChanged) {
	f(event)
}

type discardEmitter struct{}

func (discardEmitter) Emit(FilterChanged) {}

// Recorder keeps every emitted event in order. Not safe for concurrent use.
type Recorder struct {
	events []FilterChanged
}

// Emit records event.
func (r *Recorder) Emit(event FilterChanged) {
	r.events = append(r.events, event)
}

// Events returns the recorded events.
func (r *Recorder) Events() []FilterChanged {
	out := make([]FilterChanged, len(r.events))
	copy(out, r.events)
	return out
}

// Reset drops recorded events.
func (r *Recorder) Reset() {
	r.events = nil
}
