package gesture

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/Faultbox/panoview/pkg/math"
)

type recorder struct {
	calls []string
}

func (r *recorder) HandlePan(s State, t math.Vec2) {
	r.calls = append(r.calls, fmt.Sprintf("pan %s %g,%g", s, t.X, t.Y))
}

func (r *recorder) HandlePinch(s State, scale float32, touches int) {
	r.calls = append(r.calls, fmt.Sprintf("pinch %s %g x%d", s, scale, touches))
}

func (r *recorder) HandleTap(s State, l math.Vec2) {
	r.calls = append(r.calls, fmt.Sprintf("tap %s %g,%g", s, l.X, l.Y))
}

func (r *recorder) HandleLongPress(s State, l math.Vec2) {
	r.calls = append(r.calls, fmt.Sprintf("long %s %g,%g", s, l.X, l.Y))
}

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func at(ms int) time.Time {
	return t0.Add(time.Duration(ms) * time.Millisecond)
}

func pt(x, y float32) math.Vec2 {
	return math.Vec2{X: x, Y: y}
}

func newRecognizer() (*Recognizer, *recorder) {
	rec := &recorder{}
	return NewRecognizer(DefaultConfig(), rec), rec
}

func expectCalls(t *testing.T, rec *recorder, want ...string) {
	t.Helper()
	if len(want) == 0 {
		want = nil
	}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Errorf("calls:\n got %q\nwant %q", rec.calls, want)
	}
}

func TestTap(t *testing.T) {
	r, rec := newRecognizer()
	r.PointerDown(-1, pt(100, 100), at(0))
	r.PointerMove(-1, pt(104, 103), at(50))
	r.Tick(at(100))
	r.PointerUp(-1, pt(104, 103), at(150))

	expectCalls(t, rec, "tap ended 104,103")
	if r.Active() {
		t.Error("recognizer should be idle after release")
	}
}

func TestPanBeyondSlop(t *testing.T) {
	r, rec := newRecognizer()
	r.PointerDown(-1, pt(100, 100), at(0))
	r.PointerMove(-1, pt(105, 100), at(10)) // inside slop
	r.PointerMove(-1, pt(150, 100), at(20))
	r.PointerMove(-1, pt(160, 130), at(30))
	r.PointerUp(-1, pt(170, 130), at(40))

	expectCalls(t, rec,
		"pan began 50,0",
		"pan changed 50,0",
		"pan changed 60,30",
		"pan ended 70,30",
	)
}

func TestPanDoesNotTap(t *testing.T) {
	r, rec := newRecognizer()
	r.PointerDown(-1, pt(0, 0), at(0))
	r.PointerMove(-1, pt(40, 0), at(10))
	r.PointerMove(-1, pt(0, 0), at(20)) // back over the start point
	r.PointerUp(-1, pt(0, 0), at(30))

	for _, c := range rec.calls {
		if c[:3] == "tap" {
			t.Errorf("pan produced a tap: %q", rec.calls)
		}
	}
}

func TestLongPressFiresOnTick(t *testing.T) {
	r, rec := newRecognizer()
	r.PointerDown(7, pt(20, 30), at(0))
	r.Tick(at(399))
	expectCalls(t, rec)

	r.Tick(at(400))
	expectCalls(t, rec, "long began 20,30")

	r.Tick(at(800)) // fires once
	r.PointerMove(7, pt(22, 31), at(850))
	r.PointerUp(7, pt(22, 31), at(900))
	expectCalls(t, rec, "long began 20,30", "long changed 22,31", "long ended 22,31")
}

func TestLongPressWithoutTick(t *testing.T) {
	r, rec := newRecognizer()
	r.PointerDown(1, pt(5, 5), at(0))
	r.PointerUp(1, pt(5, 5), at(500))
	expectCalls(t, rec, "long began 5,5", "long ended 5,5")
}

func TestMoveBeyondSlopCancelsLongPress(t *testing.T) {
	r, rec := newRecognizer()
	r.PointerDown(1, pt(0, 0), at(0))
	r.PointerMove(1, pt(0, 30), at(100))
	r.Tick(at(1000))
	r.PointerUp(1, pt(0, 30), at(1100))

	expectCalls(t, rec, "pan began 0,30", "pan changed 0,30", "pan ended 0,30")
}

func TestPinch(t *testing.T) {
	r, rec := newRecognizer()
	r.PointerDown(1, pt(100, 100), at(0))
	r.PointerDown(2, pt(200, 100), at(10))
	r.PointerMove(2, pt(300, 100), at(20))
	r.PointerMove(1, pt(0, 100), at(30))
	r.PointerUp(2, pt(300, 100), at(40))
	r.PointerMove(1, pt(50, 50), at(50)) // leftover finger does nothing
	r.PointerUp(1, pt(50, 50), at(60))

	expectCalls(t, rec,
		"pinch began 1 x2",
		"pinch changed 2 x2",
		"pinch changed 3 x2",
		"pinch ended 3 x2",
	)
}

func TestPinchEndsPan(t *testing.T) {
	r, rec := newRecognizer()
	r.PointerDown(1, pt(0, 0), at(0))
	r.PointerMove(1, pt(40, 0), at(10))
	r.PointerDown(2, pt(140, 0), at(20))
	r.PointerMove(2, pt(70, 0), at(30))

	expectCalls(t, rec,
		"pan began 40,0",
		"pan changed 40,0",
		"pan ended 40,0",
		"pinch began 1 x2",
		"pinch changed 0.3 x2",
	)
}

func TestThirdFingerReportsTouchCount(t *testing.T) {
	r, rec := newRecognizer()
	r.PointerDown(1, pt(0, 0), at(0))
	r.PointerDown(2, pt(100, 0), at(0))
	r.PointerDown(3, pt(50, 50), at(0))
	r.PointerUp(3, pt(50, 50), at(10))

	expectCalls(t, rec,
		"pinch began 1 x2",
		"pinch changed 1 x3",
		"pinch changed 1 x2",
	)
}

func TestCancel(t *testing.T) {
	r, rec := newRecognizer()
	r.PointerDown(1, pt(0, 0), at(0))
	r.PointerMove(1, pt(0, 50), at(10))
	r.Cancel()

	expectCalls(t, rec, "pan began 0,50", "pan changed 0,50", "pan cancelled 0,50")
	if r.Active() {
		t.Error("cancel should forget pointers")
	}

	// Stale pointer events after a cancel are ignored.
	r.PointerUp(1, pt(0, 50), at(20))
	if len(rec.calls) != 3 {
		t.Errorf("unexpected calls after cancel: %q", rec.calls[3:])
	}
}

func TestUnknownPointerIgnored(t *testing.T) {
	r, rec := newRecognizer()
	r.PointerMove(9, pt(10, 10), at(0))
	r.PointerUp(9, pt(10, 10), at(0))
	expectCalls(t, rec)
}

func TestStateString(t *testing.T) {
	for s, want := range map[State]string{Began: "began", Changed: "changed", Ended: "ended", Cancelled: "cancelled", State(42): "unknown"} {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", int(s), got, want)
		}
	}
}
