// Package gesture recognizes pan, pinch, tap and long-press gestures from
// raw pointer streams.
package gesture

import (
	"time"

	"github.com/Faultbox/panoview/pkg/math"
)

// State is the phase of a continuous gesture.
type State int

const (
	Began State = iota
	Changed
	Ended
	Cancelled
)

func (s State) String() string {
	switch s {
	case Began:
		return "began"
	case Changed:
		return "changed"
	case Ended:
		return "ended"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

// Handler receives recognized gestures. Locations are in window
// coordinates. Translation is the total offset since touch-down. Scale is
// the current two-finger spread relative to the spread when the pinch
// began.
type Handler interface {
	HandlePan(state State, translation math.Vec2)
	HandlePinch(state State, scale float32, touches int)
	HandleTap(state State, location math.Vec2)
	HandleLongPress(state State, location math.Vec2)
}

// Config tunes recognition thresholds.
type Config struct {
	Slop      float32       // Movement in pixels before a press becomes a pan
	LongPress time.Duration // Hold time before a press becomes a long press
}

// DefaultConfig returns a 10 px slop and a 0.4 s long press.
func DefaultConfig() Config {
	return Config{
		Slop:      10,
		LongPress: 400 * time.Millisecond,
	}
}

type mode int

const (
	modeIdle mode = iota
	modePending
	modePanning
	modeLongPress
	modePinching
	modeDone // Gesture finished, waiting for every pointer to lift
)

// Recognizer is a single-threaded gesture state machine. Only one gesture
// is active at a time: a pinch supersedes a pan or pending press.
type Recognizer struct {
	cfg     Config
	handler Handler

	pointers map[int64]math.Vec2
	mode     mode

	// Single-pointer session.
	primary int64
	start   math.Vec2
	last    math.Vec2
	downAt  time.Time

	// Pinch session.
	pinchIDs    [2]int64
	pinchSpread float32
	pinchScale  float32
}

// NewRecognizer creates a recognizer that reports to h.
func NewRecognizer(cfg Config, h Handler) *Recognizer {
	return &Recognizer{
		cfg:      cfg,
		handler:  h,
		pointers: make(map[int64]math.Vec2),
	}
}

// Active reports whether any pointer is down.
func (r *Recognizer) Active() bool {
	return len(r.pointers) > 0
}

// PointerDown registers a new contact.
func (r *Recognizer) PointerDown(id int64, pos math.Vec2, now time.Time) {
	if _, ok := r.pointers[id]; ok {
		return
	}
	r.pointers[id] = pos

	switch r.mode {
	case modeIdle:
		r.mode = modePending
		r.primary = id
		r.start = pos
		r.last = pos
		r.downAt = now

	case modePending, modePanning, modeLongPress:
		r.endSingle()
		r.beginPinch(id)

	case modePinching:
		r.handler.HandlePinch(Changed, r.pinchScale, len(r.pointers))
	}
}

// PointerMove updates a contact's position.
func (r *Recognizer) PointerMove(id int64, pos math.Vec2, now time.Time) {
	if _, ok := r.pointers[id]; !ok {
		return
	}
	r.pointers[id] = pos

	switch r.mode {
	case modePending:
		if id != r.primary {
			return
		}
		r.last = pos
		if r.expired(now) {
			r.beginLongPress()
			r.handler.HandleLongPress(Changed, pos)
			return
		}
		if pos.Distance(r.start) > r.cfg.Slop {
			r.mode = modePanning
			r.handler.HandlePan(Began, pos.Sub(r.start))
			r.handler.HandlePan(Changed, pos.Sub(r.start))
		}

	case modePanning:
		if id == r.primary {
			r.last = pos
			r.handler.HandlePan(Changed, pos.Sub(r.start))
		}

	case modeLongPress:
		if id == r.primary {
			r.last = pos
			r.handler.HandleLongPress(Changed, pos)
		}

	case modePinching:
		if id == r.pinchIDs[0] || id == r.pinchIDs[1] {
			r.pinchScale = r.currentScale()
			r.handler.HandlePinch(Changed, r.pinchScale, len(r.pointers))
		}
	}
}

// PointerUp removes a contact.
func (r *Recognizer) PointerUp(id int64, pos math.Vec2, now time.Time) {
	if _, ok := r.pointers[id]; !ok {
		return
	}
	delete(r.pointers, id)

	switch r.mode {
	case modePending:
		if !r.expired(now) {
			r.handler.HandleTap(Ended, pos)
		} else {
			// Released after the deadline without a Tick in between.
			r.handler.HandleLongPress(Began, r.start)
			r.handler.HandleLongPress(Ended, pos)
		}
		r.mode = modeDone

	case modePanning:
		r.handler.HandlePan(Ended, pos.Sub(r.start))
		r.mode = modeDone

	case modeLongPress:
		r.handler.HandleLongPress(Ended, pos)
		r.mode = modeDone

	case modePinching:
		if id == r.pinchIDs[0] || id == r.pinchIDs[1] {
			r.handler.HandlePinch(Ended, r.pinchScale, len(r.pointers)+1)
			r.mode = modeDone
		} else {
			r.handler.HandlePinch(Changed, r.pinchScale, len(r.pointers))
		}
	}

	if len(r.pointers) == 0 {
		r.mode = modeIdle
	}
}

// Tick advances time-based recognition. Call it once per frame.
func (r *Recognizer) Tick(now time.Time) {
	if r.mode == modePending && r.expired(now) {
		r.beginLongPress()
	}
}

// Cancel aborts the active gesture and forgets every pointer, for example
// when the window loses focus.
func (r *Recognizer) Cancel() {
	switch r.mode {
	case modePanning:
		r.handler.HandlePan(Cancelled, r.last.Sub(r.start))
	case modeLongPress:
		r.handler.HandleLongPress(Cancelled, r.last)
	case modePinching:
		r.handler.HandlePinch(Cancelled, r.pinchScale, len(r.pointers))
	}
	clear(r.pointers)
	r.mode = modeIdle
}

func (r *Recognizer) expired(now time.Time) bool {
	return now.Sub(r.downAt) >= r.cfg.LongPress
}

func (r *Recognizer) beginLongPress() {
	r.mode = modeLongPress
	r.handler.HandleLongPress(Began, r.start)
}

// endSingle finishes a single-pointer gesture interrupted by a second
// contact. A pending press is dropped silently.
func (r *Recognizer) endSingle() {
	switch r.mode {
	case modePanning:
		r.handler.HandlePan(Ended, r.last.Sub(r.start))
	case modeLongPress:
		r.handler.HandleLongPress(Cancelled, r.last)
	}
}

func (r *Recognizer) beginPinch(second int64) {
	r.mode = modePinching
	r.pinchIDs = [2]int64{r.primary, second}
	r.pinchSpread = r.spread()
	r.pinchScale = 1
	r.handler.HandlePinch(Began, 1, len(r.pointers))
}

func (r *Recognizer) spread() float32 {
	return r.pointers[r.pinchIDs[0]].Distance(r.pointers[r.pinchIDs[1]])
}

func (r *Recognizer) currentScale() float32 {
	if r.pinchSpread <= 0 {
		// Fingers landed on the same spot; measure from the first real spread.
		r.pinchSpread = r.spread()
		return 1
	}
	return r.spread() / r.pinchSpread
}
