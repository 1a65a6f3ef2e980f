// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType identifies a processed input event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventPointerDown
	EventPointerMove
	EventPointerUp
	EventWheel
	EventFocusLost
)

// MousePointer is the pointer id of the left mouse button. Touch fingers use
// their SDL finger ids.
const MousePointer int64 = -1

// touchMouseID is SDL_TOUCH_MOUSEID, the device id of mouse events
// synthesized from touches.
const touchMouseID = 0xFFFFFFFF

// Event represents a processed input event. Pointer positions are in window
// coordinates, the same space the mouse reports in.
type Event struct {
	Type    EventType
	Key     sdl.Scancode
	Width   int
	Height  int
	Pointer int64
	X, Y    float32
	Wheel   float32 // Notches, positive away from the user
}

// Input handles all input processing.
type Input struct {
	events []Event

	// Window size, used to scale normalized finger positions.
	width, height int
}

// New creates a new input handler for a window of the given size.
func New(width, height int) *Input {
	return &Input{
		events: make([]Event, 0, 16),
		width:  width,
		height: height,
	}
}

// SetWindowSize updates the size used for finger coordinates.
func (i *Input) SetWindowSize(width, height int) {
	i.width = width
	i.height = height
}

// Update polls SDL events and converts them to viewer events.
// Returns true if the viewer should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		ev, ok := i.Translate(event)
		if !ok {
			continue
		}
		i.events = append(i.events, ev)
		if ev.Type == EventQuit {
			quit = true
		}
	}
	return quit
}

// Translate converts one SDL event. It reports false for events the viewer
// does not use.
func (i *Input) Translate(event sdl.Event) (Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}, true

	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_RESIZED, sdl.WINDOWEVENT_SIZE_CHANGED:
			i.SetWindowSize(int(e.Data1), int(e.Data2))
			return Event{
				Type:   EventWindowResize,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			}, true
		case sdl.WINDOWEVENT_FOCUS_LOST:
			return Event{Type: EventFocusLost}, true
		}

	case *sdl.KeyboardEvent:
		if e.Repeat != 0 {
			return Event{}, false
		}
		if e.Type == sdl.KEYDOWN {
			return Event{Type: EventKeyDown, Key: e.Keysym.Scancode}, true
		} else if e.Type == sdl.KEYUP {
			return Event{Type: EventKeyUp, Key: e.Keysym.Scancode}, true
		}

	case *sdl.MouseMotionEvent:
		if e.Which == touchMouseID || e.State&sdl.ButtonLMask() == 0 {
			return Event{}, false
		}
		return Event{
			Type:    EventPointerMove,
			Pointer: MousePointer,
			X:       float32(e.X),
			Y:       float32(e.Y),
		}, true

	case *sdl.MouseButtonEvent:
		if e.Which == touchMouseID || e.Button != sdl.BUTTON_LEFT {
			return Event{}, false
		}
		t := EventPointerDown
		if e.Type == sdl.MOUSEBUTTONUP {
			t = EventPointerUp
		}
		return Event{
			Type:    t,
			Pointer: MousePointer,
			X:       float32(e.X),
			Y:       float32(e.Y),
		}, true

	case *sdl.MouseWheelEvent:
		if e.Which == touchMouseID || e.Y == 0 {
			return Event{}, false
		}
		notches := float32(e.Y)
		if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
			notches = -notches
		}
		return Event{Type: EventWheel, Wheel: notches}, true

	case *sdl.TouchFingerEvent:
		var t EventType
		switch e.Type {
		case sdl.FINGERDOWN:
			t = EventPointerDown
		case sdl.FINGERMOTION:
			t = EventPointerMove
		case sdl.FINGERUP:
			t = EventPointerUp
		default:
			return Event{}, false
		}
		return Event{
			Type:    t,
			Pointer: int64(e.FingerID),
			X:       e.X * float32(i.width),
			Y:       e.Y * float32(i.height),
		}, true
	}

	return Event{}, false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}
