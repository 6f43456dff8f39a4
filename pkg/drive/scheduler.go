package drive

import (
	"time"

	"github.com/teslashibe/go-rover/pkg/actuator"
)

// TickEvent describes what one scheduler tick did.
type TickEvent int

const (
	// TickNone means mid-step, nothing to do this tick.
	TickNone TickEvent = iota
	// TickStepStarted means a step's drive command was just issued.
	TickStepStarted
	// TickStepDone means the current step's duration elapsed; motors were
	// stopped and the cursor advanced. The next step starts next tick.
	TickStepDone
	// TickFinished means no steps remain; playback is complete.
	TickFinished
)

// Scheduler advances replay playback without blocking the caller.
// It borrows read access to the buffer and drives the actuator; all cursor
// state lives here and is discarded by Reset.
//
// Timing is polled, not slept: the step boundary is detected on the first
// tick where elapsed >= duration (boundary inclusive), and the following
// step starts on the tick after that. A zero-duration step therefore runs
// for exactly one tick.
type Scheduler struct {
	buf    *Buffer
	driver actuator.Driver
	speed  int

	index     int
	stepStart time.Time
	started   bool
}

// NewScheduler creates a scheduler over the given buffer and driver.
func NewScheduler(buf *Buffer, driver actuator.Driver, speed int) *Scheduler {
	return &Scheduler{
		buf:    buf,
		driver: driver,
		speed:  speed,
	}
}

// Reset rewinds the cursor to the first step with no start time recorded.
// Called on every Replay entry.
func (s *Scheduler) Reset() {
	s.index = 0
	s.started = false
}

// Index returns the current step index.
func (s *Scheduler) Index() int {
	return s.index
}

// Current returns the step under the cursor, if any.
func (s *Scheduler) Current() (RecordedStep, bool) {
	step, err := s.buf.Get(s.index)
	if err != nil {
		return RecordedStep{}, false
	}
	return step, true
}

// Tick advances playback by at most one transition. Drive errors are
// returned alongside the event for the caller to report; they never halt
// playback.
func (s *Scheduler) Tick(now time.Time) (TickEvent, error) {
	if s.index >= s.buf.Len() {
		return TickFinished, nil
	}

	if !s.started {
		step, err := s.buf.Get(s.index)
		if err != nil {
			// Unreachable given the length check above
			return TickFinished, err
		}
		s.stepStart = now
		s.started = true
		return TickStepStarted, applyAction(s.driver, step.Action, s.speed)
	}

	step, err := s.buf.Get(s.index)
	if err != nil {
		return TickFinished, err
	}
	if now.Sub(s.stepStart) >= step.Duration {
		s.index++
		s.started = false
		return TickStepDone, s.driver.StopAll()
	}

	return TickNone, nil
}
