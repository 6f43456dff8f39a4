package actuator

import "sync"

// Call is one recorded Drive invocation.
type Call struct {
	Side  Side
	Speed int
	Dir   Direction
}

// Recorder implements Driver by recording commands instead of sending them.
// Used in tests and for dry-run operation on the bench.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
	stops int
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Drive records the command.
func (r *Recorder) Drive(side Side, speed int, dir Direction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Side: side, Speed: ClampSpeed(speed), Dir: dir})
	return nil
}

// StopAll records an all-stop.
func (r *Recorder) StopAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stops++
	return nil
}

// Calls returns a copy of all recorded drive commands.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// StopCount returns the number of StopAll invocations.
func (r *Recorder) StopCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stops
}

// Reset clears all recorded commands.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
	r.stops = 0
}
