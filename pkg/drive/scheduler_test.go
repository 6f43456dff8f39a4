package drive

import (
	"testing"
	"time"

	"github.com/teslashibe/go-rover/pkg/actuator"
)

// tickAt is a helper producing timestamps offset from a fixed origin.
func tickAt(ms int) time.Time {
	origin := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return origin.Add(time.Duration(ms) * time.Millisecond)
}

func newTestScheduler(steps ...RecordedStep) (*Scheduler, *actuator.Recorder) {
	buf := NewBuffer(DefaultCapacity)
	for _, s := range steps {
		buf.Append(s)
	}
	rec := actuator.NewRecorder()
	return NewScheduler(buf, rec, DefaultSpeed), rec
}

func TestScheduler_EmptyBufferFinishesImmediately(t *testing.T) {
	s, rec := newTestScheduler()

	ev, err := s.Tick(tickAt(0))
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if ev != TickFinished {
		t.Errorf("expected TickFinished, got %v", ev)
	}
	if len(rec.Calls()) != 0 {
		t.Errorf("empty replay drove motors: %+v", rec.Calls())
	}
}

func TestScheduler_StepSequence(t *testing.T) {
	s, rec := newTestScheduler(
		RecordedStep{Action: ActionForward, Duration: 200 * time.Millisecond},
		RecordedStep{Action: ActionLeft, Duration: 300 * time.Millisecond},
	)

	// One transition per tick: start, run, stop+advance, then the next
	// step gets a full duration window starting on its own tick.
	expect := []struct {
		ms int
		ev TickEvent
	}{
		{0, TickStepStarted},  // drive F
		{100, TickNone},       // still F
		{200, TickStepDone},   // 200 >= 200: stop, advance
		{300, TickStepStarted}, // drive L
		{400, TickNone},
		{500, TickNone},
		{600, TickStepDone}, // 300ms elapsed for L
		{700, TickFinished},
	}

	for _, e := range expect {
		ev, err := s.Tick(tickAt(e.ms))
		if err != nil {
			t.Fatalf("t=%dms: %v", e.ms, err)
		}
		if ev != e.ev {
			t.Fatalf("t=%dms: got event %v, want %v", e.ms, ev, e.ev)
		}
	}

	// F drives both motors forward, L stops left and drives right
	calls := rec.Calls()
	if len(calls) != 4 {
		t.Fatalf("expected 4 drive calls, got %d: %+v", len(calls), calls)
	}
	if calls[0].Dir != actuator.DirForward || calls[1].Dir != actuator.DirForward {
		t.Errorf("step F: unexpected directions %+v", calls[:2])
	}
	if calls[2].Side != actuator.SideLeft || calls[2].Speed != 0 {
		t.Errorf("step L: left motor not stopped: %+v", calls[2])
	}
	if calls[3].Side != actuator.SideRight || calls[3].Speed != DefaultSpeed {
		t.Errorf("step L: right motor not driven: %+v", calls[3])
	}
	if rec.StopCount() != 2 {
		t.Errorf("expected 2 stops (one per finished step), got %d", rec.StopCount())
	}
}

func TestScheduler_BoundaryIsInclusive(t *testing.T) {
	s, _ := newTestScheduler(
		RecordedStep{Action: ActionForward, Duration: 100 * time.Millisecond},
	)

	s.Tick(tickAt(0)) // start

	// elapsed == duration exactly: the step is finished
	ev, _ := s.Tick(tickAt(100))
	if ev != TickStepDone {
		t.Errorf("at exact boundary: got %v, want TickStepDone", ev)
	}
}

func TestScheduler_ZeroDurationStep(t *testing.T) {
	s, rec := newTestScheduler(
		RecordedStep{Action: ActionRight, Duration: 0},
	)

	// A zero-duration step still gets one tick of execution...
	ev, _ := s.Tick(tickAt(0))
	if ev != TickStepStarted {
		t.Fatalf("first tick: got %v, want TickStepStarted", ev)
	}
	if len(rec.Calls()) != 2 {
		t.Fatalf("expected drive commands on start tick, got %d", len(rec.Calls()))
	}

	// ...and finishes on the tick immediately following, never the same one.
	ev, _ = s.Tick(tickAt(0))
	if ev != TickStepDone {
		t.Fatalf("second tick: got %v, want TickStepDone", ev)
	}

	ev, _ = s.Tick(tickAt(0))
	if ev != TickFinished {
		t.Fatalf("third tick: got %v, want TickFinished", ev)
	}
}

func TestScheduler_ResetRewindsCursor(t *testing.T) {
	s, _ := newTestScheduler(
		RecordedStep{Action: ActionForward, Duration: 100 * time.Millisecond},
		RecordedStep{Action: ActionLeft, Duration: 100 * time.Millisecond},
	)

	s.Tick(tickAt(0))
	s.Tick(tickAt(100))
	if s.Index() != 1 {
		t.Fatalf("index: got %d, want 1", s.Index())
	}

	s.Reset()
	if s.Index() != 0 {
		t.Errorf("index after Reset: got %d, want 0", s.Index())
	}

	ev, _ := s.Tick(tickAt(500))
	if ev != TickStepStarted {
		t.Errorf("after Reset: got %v, want TickStepStarted", ev)
	}
}
