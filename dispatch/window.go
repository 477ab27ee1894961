// Package dispatch implements the batching window and the cost-matrix
// builder.
package dispatch

import "github.com/ridefleet-sim/ridefleet/requests"

// Window accumulates resource arrivals up to a fixed horizon
// (start_time + Frame). It tracks membership only; the decision to
// close and the matching that follows are orchestrated by the caller
// (simkernel.Simulator), keeping this type a pure data structure.
type Window struct {
	Frame     int64
	StartTime int64
	open      bool
	ids       []requests.ID

	// epoch increments every Open call. A WindowClose timer scheduled for
	// one epoch is a stale no-op once a later Open has moved the window
	// on, whether via overflow or via an earlier timer (closing must not
	// depend solely on the next resource's arrival — see DESIGN.md).
	epoch int64
}

// NewWindow creates an unopened Window with the given assignment period.
func NewWindow(frame int64) *Window {
	return &Window{Frame: frame}
}

// IsOpen reports whether the window has a start_time set.
func (w *Window) IsOpen() bool { return w.open }

// Horizon returns start_time + batch_frame.
func (w *Window) Horizon() int64 { return w.StartTime + w.Frame }

// Epoch returns the window's current generation, bumped on every Open.
func (w *Window) Epoch() int64 { return w.epoch }

// Open resets the window to start at startTime with no members.
func (w *Window) Open(startTime int64) {
	w.StartTime = startTime
	w.open = true
	w.ids = w.ids[:0]
	w.epoch++
}

// Close marks the window unset without opening a new one, used once a
// close finds nothing to carry over.
func (w *Window) Close() {
	w.open = false
	w.ids = w.ids[:0]
}

// Append adds id to the window in arrival order.
func (w *Window) Append(id requests.ID) {
	w.ids = append(w.ids, id)
}

// IDs returns the window's members in arrival (batch) order. The
// returned slice must not be mutated by the caller.
func (w *Window) IDs() []requests.ID {
	return w.ids
}
