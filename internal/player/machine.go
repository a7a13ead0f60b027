// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package player

// DefaultPageDurationSeconds is used when a playlist carries no usable duration.
const DefaultPageDurationSeconds = 60

// # States

// Status is the coarse state of a playback machine.
type Status string

const (
	// StatusEmpty is terminal: nothing loaded, no timer, navigation is a no-op.
	StatusEmpty Status = "empty"

	// StatusDisplaying shows the current page while the timer runs.
	StatusDisplaying Status = "displaying"

	// StatusEnded is reached after [End]; every later event is ignored.
	StatusEnded Status = "ended"
)

// State is the observable playback state.
//
// Transitioning is a visual sub-state of Displaying: set on every index
// change, cleared when the latest requested render completes.
type State struct {
	Status              Status   `json:"status"`
	Length              int      `json:"length"`
	CurrentIndex        int      `json:"current_index"`
	ElapsedSeconds      int      `json:"elapsed_seconds"`
	PageDurationSeconds int      `json:"page_duration_seconds"`
	Transitioning       bool     `json:"transitioning"`
	Viewport            Viewport `json:"viewport"`
}

// # Events

// Event is an input of the machine.
type Event interface{ isEvent() }

// Tick is one unit of elapsed time.
type Tick struct{}

// Next is a manual forward navigation.
type Next struct{}

// Prev is a manual backward navigation.
type Prev struct{}

// Resize reports a new viewport.
type Resize struct{ Viewport Viewport }

// RenderCompleted carries the outcome of a render request.
type RenderCompleted struct {
	Seq   uint64
	Frame *Frame
	Err   error
}

// End tears the session down.
type End struct{}

func (Tick) isEvent()            {}
func (Next) isEvent()            {}
func (Prev) isEvent()            {}
func (Resize) isEvent()          {}
func (RenderCompleted) isEvent() {}
func (End) isEvent()             {}

// # Effects

// Effect is an instruction the session runtime must carry out.
type Effect interface{ isEffect() }

// StartTimer starts the tick timer, discarding any previous one.
type StartTimer struct{}

// StopTimer stops the tick timer.
type StopTimer struct{}

// RequestRender asks for the page at Index to be rendered for Viewport.
type RequestRender struct {
	Seq      uint64
	Index    int
	Viewport Viewport
}

// DrawFrame replaces the frame on screen.
type DrawFrame struct{ Frame *Frame }

// ReportRenderFailure keeps the previous frame and reports the error.
type ReportRenderFailure struct {
	Seq   uint64
	Index int
	Err   error
}

// DiscardFrame drops a render result that a newer request superseded.
type DiscardFrame struct{ Seq uint64 }

// ReleaseDocuments closes every document handle of the session.
type ReleaseDocuments struct{}

func (StartTimer) isEffect()          {}
func (StopTimer) isEffect()           {}
func (RequestRender) isEffect()       {}
func (DrawFrame) isEffect()           {}
func (ReportRenderFailure) isEffect() {}
func (DiscardFrame) isEffect()        {}
func (ReleaseDocuments) isEffect()    {}

// # Machine

// Machine is the playback state machine. It performs no I/O: every
// transition returns the effects the caller has to execute.
//
// Machine is not safe for concurrent use; a [Session] owns exactly one.
type Machine struct {
	state   State
	lastSeq uint64
}

// NewMachine creates a machine for a sequence of length pages.
func NewMachine(length, pageDurationSeconds int, viewport Viewport) *Machine {
	if pageDurationSeconds < 1 {
		pageDurationSeconds = DefaultPageDurationSeconds
	}

	status := StatusDisplaying
	if length <= 0 {
		length = 0
		status = StatusEmpty
	}

	return &Machine{state: State{
		Status:              status,
		Length:              length,
		PageDurationSeconds: pageDurationSeconds,
		Viewport:            viewport.normalized(),
	}}
}

// State returns a copy of the current state.
func (machine *Machine) State() State {
	return machine.state
}

// LastRequest returns the sequence number of the newest render request.
func (machine *Machine) LastRequest() uint64 {
	return machine.lastSeq
}

// Start returns the effects of entering the first page. An empty machine
// starts nothing, in particular no timer.
func (machine *Machine) Start() []Effect {
	if machine.state.Status != StatusDisplaying {
		return nil
	}
	return append([]Effect{StartTimer{}}, machine.indexChanged()...)
}

// Apply feeds one event into the machine.
func (machine *Machine) Apply(event Event) []Effect {
	if machine.state.Status == StatusEnded {
		return nil
	}

	if _, ok := event.(End); ok {
		machine.state.Status = StatusEnded
		machine.state.Transitioning = false
		return []Effect{StopTimer{}, ReleaseDocuments{}}
	}

	if machine.state.Status == StatusEmpty {
		return nil
	}

	switch event := event.(type) {
	case Tick:
		return machine.tick()
	case Next:
		return machine.navigate(1)
	case Prev:
		return machine.navigate(-1)
	case Resize:
		machine.state.Viewport = event.Viewport.normalized()
		return []Effect{machine.requestRender()}
	case RenderCompleted:
		return machine.renderCompleted(event)
	}

	return nil
}

// tick advances at most one page per duration window.
func (machine *Machine) tick() []Effect {
	machine.state.ElapsedSeconds++
	if machine.state.ElapsedSeconds < machine.state.PageDurationSeconds {
		return nil
	}

	machine.state.CurrentIndex = machine.wrap(machine.state.CurrentIndex + 1)
	machine.state.ElapsedSeconds = 0
	return machine.indexChanged()
}

// navigate moves by delta and restarts the shared timer.
func (machine *Machine) navigate(delta int) []Effect {
	machine.state.CurrentIndex = machine.wrap(machine.state.CurrentIndex + delta)
	machine.state.ElapsedSeconds = 0
	return append([]Effect{StartTimer{}}, machine.indexChanged()...)
}

func (machine *Machine) indexChanged() []Effect {
	machine.state.Transitioning = true
	return []Effect{machine.requestRender()}
}

func (machine *Machine) requestRender() RequestRender {
	machine.lastSeq++
	return RequestRender{
		Seq:      machine.lastSeq,
		Index:    machine.state.CurrentIndex,
		Viewport: machine.state.Viewport,
	}
}

// renderCompleted applies last-request-wins: only the newest request may
// touch the screen or leave the transition.
func (machine *Machine) renderCompleted(event RenderCompleted) []Effect {
	if event.Seq != machine.lastSeq {
		return []Effect{DiscardFrame{Seq: event.Seq}}
	}

	machine.state.Transitioning = false
	if event.Err != nil || event.Frame == nil {
		return []Effect{ReportRenderFailure{Seq: event.Seq, Index: machine.state.CurrentIndex, Err: event.Err}}
	}
	return []Effect{DrawFrame{Frame: event.Frame}}
}

func (machine *Machine) wrap(index int) int {
	length := machine.state.Length
	return ((index % length) + length) % length
}
