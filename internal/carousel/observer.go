// Bookwheel - Catalog Browsing and Book Recommendation Carousel
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookwheel

package carousel

// Observer receives machine events. Methods are called on the goroutine
// that drives the scheduler, after the machine's own state is updated.
type Observer interface {
	// StateChanged is called on every state transition.
	StateChanged(from, to State)

	// AngleChanged is called on every animated frame and on snaps.
	AngleChanged(angle float64)

	// SpinStarted is called when a timed spin, continuous spin, or landing begins.
	// target is -1 for continuous spins.
	SpinStarted(kind SpinKind, target int)

	// SpinCompleted is called exactly once per timed spin or landing.
	SpinCompleted(index int)

	// NudgeStarted is called when a single nudge begins.
	NudgeStarted(dir Direction)

	// NudgeCompleted is called exactly once per nudge with the new selection.
	NudgeCompleted(index int)
}

// NopObserver ignores every event. Embed it to implement only some methods.
type NopObserver struct{}

func (NopObserver) StateChanged(State, State) {}
func (NopObserver) AngleChanged(float64) {}
func (NopObserver) SpinStarted(SpinKind, int) {}
func (NopObserver) SpinCompleted(int) {}
func (NopObserver) NudgeStarted(Direction) {}
func (NopObserver) NudgeCompleted(int) {}

// multiObserver fans events out in order.
type multiObserver []Observer

func (m multiObserver) StateChanged(from, to State) {
	for _, o := range m {
		o.StateChanged(from, to)
	}
}

func (m multiObserver) AngleChanged(angle float64) {
	for _, o := range m {
		o.AngleChanged(angle)
	}
}

func (m multiObserver) SpinStarted(kind SpinKind, target int) {
	for _, o := range m {
		o.SpinStarted(kind, target)
	}
}

func (m multiObserver) SpinCompleted(index int) {
	for _, o := range m {
		o.SpinCompleted(index)
	}
}

func (m multiObserver) NudgeStarted(dir Direction) {
	for _, o := range m {
		o.NudgeStarted(dir)
	}
}

func (m multiObserver) NudgeCompleted(index int) {
	for _, o := range m {
		o.NudgeCompleted(index)
	}
}

// Observers combines observers, skipping nils.
func Observers(obs ...Observer) Observer {
	out := make(multiObserver, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			out = append(out, o)
		}
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}
