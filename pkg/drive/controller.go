package drive

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/teslashibe/go-rover/internal/log"
	"github.com/teslashibe/go-rover/pkg/actuator"
)

// Mode is the controller's lifecycle state. Exactly one value at any time.
type Mode string

const (
	ModeIdle   Mode = "idle"
	ModeLearn  Mode = "learn"
	ModeReplay Mode = "replay"
)

// Mode-control keywords accepted on the command link.
const (
	cmdLearn  = "LEARN"
	cmdStop   = "STOP"
	cmdReplay = "REPLAY"
)

// EventFunc receives one diagnostic line per controller event.
// kind is one of "info", "mode", "learn", "replay", "error".
type EventFunc func(kind, msg string)

// State is a read-only snapshot of the controller for the dashboard.
type State struct {
	Mode        Mode   `json:"mode"`
	StepCount   int    `json:"step_count"`
	Capacity    int    `json:"capacity"`
	ReplayIndex int    `json:"replay_index"`
	LastCommand string `json:"last_command"`
}

// Controller owns the command buffer and replay scheduler, interprets
// incoming command lines, and drives the actuator. All movement state flows
// through here.
//
// HandleLine and Tick are called from the single control goroutine (Run);
// the mutex exists so Snapshot can be read from the web layer.
type Controller struct {
	driver actuator.Driver
	speed  int

	mu    sync.RWMutex
	mode  Mode
	buf   *Buffer
	sched *Scheduler

	lastCommand string

	// Learn-mode immediate execution: the recorded action runs until
	// previewUntil, stopped by Tick rather than a blocking delay.
	previewActive bool
	previewUntil  time.Time

	notify EventFunc
	nowFn  func() time.Time

	rate time.Duration
	stop chan struct{}

	// Diagnostics
	tickCount  uint64
	errorCount uint64
}

// NewController creates an idle controller with stopped actuators.
// capacity <= 0 selects the default routine capacity.
func NewController(driver actuator.Driver, capacity int) *Controller {
	buf := NewBuffer(capacity)
	c := &Controller{
		driver: driver,
		speed:  DefaultSpeed,
		mode:   ModeIdle,
		buf:    buf,
		sched:  NewScheduler(buf, driver, DefaultSpeed),
		notify: func(kind, msg string) {},
		nowFn:  time.Now,
		rate:   10 * time.Millisecond,
		stop:   make(chan struct{}),
	}
	if err := driver.StopAll(); err != nil {
		log.Warn("initial motor stop failed", "error", err)
	}
	return c
}

// SetNotify sets the diagnostic event sink.
func (c *Controller) SetNotify(fn EventFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if fn != nil {
		c.notify = fn
	}
}

// SetClock overrides the time source. Used by tests.
func (c *Controller) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if now != nil {
		c.nowFn = now
	}
}

// SetRate sets the control-loop tick period used by Run.
func (c *Controller) SetRate(rate time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if rate > 0 {
		c.rate = rate
	}
}

// Mode returns the current mode.
func (c *Controller) Mode() Mode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mode
}

// Snapshot returns the controller state for display.
func (c *Controller) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return State{
		Mode:        c.mode,
		StepCount:   c.buf.Len(),
		Capacity:    c.buf.Cap(),
		ReplayIndex: c.sched.Index(),
		LastCommand: c.lastCommand,
	}
}

// Routine returns a copy of the recorded steps.
func (c *Controller) Routine() []RecordedStep {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.buf.Steps()
}

// HandleLine interprets one command line from the transport.
// Lines are trimmed and keywords are case-insensitive. Errors are reported
// through the event sink and never propagate.
func (c *Controller) HandleLine(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastCommand = line

	switch strings.ToUpper(line) {
	case cmdLearn:
		c.enterLearn()
	case cmdStop:
		c.enterIdle()
	case cmdReplay:
		c.enterReplay()
	default:
		if c.mode == ModeLearn {
			c.handleLearnLine(line)
		} else {
			c.notify("error", "unrecognized command: "+line)
		}
	}
}

// enterLearn clears the routine and switches to Learn mode.
// Issued while replaying it aborts playback immediately.
func (c *Controller) enterLearn() {
	c.stopMotors()
	c.previewActive = false
	c.buf.Clear()
	c.mode = ModeLearn
	c.notify("mode", "learn mode: routine cleared, recording")
}

// enterIdle stops everything. Idempotent.
func (c *Controller) enterIdle() {
	c.stopMotors()
	c.previewActive = false
	c.mode = ModeIdle
	c.notify("mode", "stopped")
}

// enterReplay starts playback from the first step. Refused when nothing is
// recorded; a no-op when playback is already running.
func (c *Controller) enterReplay() {
	if c.mode == ModeReplay {
		c.notify("replay", "replay already running")
		return
	}
	if c.buf.IsEmpty() {
		c.notify("error", "no recorded commands to replay")
		return
	}
	c.previewActive = false
	c.sched.Reset()
	c.mode = ModeReplay
	c.notify("mode", "replaying "+strconv.Itoa(c.buf.Len())+" steps")
}

// handleLearnLine parses and records one <A>:<ms> action line.
func (c *Controller) handleLearnLine(line string) {
	token, durText, ok := strings.Cut(line, ":")
	if !ok || len(line) < 2 {
		c.notify("error", "bad command format (want <F|B|L|R>:<ms>): "+line)
		return
	}

	action, err := ParseAction(strings.TrimSpace(token))
	if err != nil {
		c.notify("error", "bad command format (want <F|B|L|R>:<ms>): "+line)
		return
	}

	// Non-numeric or negative durations are format errors; nothing is
	// recorded and the controller stays in Learn mode.
	ms, err := strconv.ParseUint(strings.TrimSpace(durText), 10, 32)
	if err != nil {
		c.notify("error", "bad duration (want non-negative ms): "+line)
		return
	}

	step := RecordedStep{Action: action, Duration: time.Duration(ms) * time.Millisecond}
	if err := c.buf.Append(step); err != nil {
		c.notify("error", "routine full ("+strconv.Itoa(c.buf.Cap())+" steps), command dropped")
		return
	}

	// Execute immediately so the operator sees the movement while teaching.
	// The stop is scheduled through Tick, keeping the loop responsive.
	if err := applyAction(c.driver, action, c.speed); err != nil {
		c.errorCount++
		c.notify("error", "drive failed: "+err.Error())
	}
	c.previewActive = true
	c.previewUntil = c.nowFn().Add(step.Duration)

	c.notify("learn", "recorded "+string(action)+" for "+step.Duration.String()+
		" ("+strconv.Itoa(c.buf.Len())+"/"+strconv.Itoa(c.buf.Cap())+")")
}

// Tick advances time-based behavior by one poll: the learn-mode preview
// stop, and one replay scheduler transition. Safe to call in any mode.
func (c *Controller) Tick(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tickCount++

	switch c.mode {
	case ModeLearn:
		if c.previewActive && !now.Before(c.previewUntil) {
			c.previewActive = false
			c.stopMotors()
		}

	case ModeReplay:
		ev, err := c.sched.Tick(now)
		if err != nil {
			c.errorCount++
			c.notify("error", "replay: "+err.Error())
		}
		switch ev {
		case TickStepStarted:
			if step, ok := c.sched.Current(); ok {
				c.notify("replay", "step "+strconv.Itoa(c.sched.Index()+1)+"/"+
					strconv.Itoa(c.buf.Len())+": "+string(step.Action)+" for "+step.Duration.String())
			}
		case TickStepDone:
			c.notify("replay", "step "+strconv.Itoa(c.sched.Index())+"/"+
				strconv.Itoa(c.buf.Len())+" done")
		case TickFinished:
			c.stopMotors()
			c.mode = ModeIdle
			c.notify("replay", "replay finished")
		}
	}

	if c.tickCount%500 == 0 {
		log.Debug("controller heartbeat",
			"ticks", c.tickCount, "errors", c.errorCount, "mode", string(c.mode))
	}
}

// Run is the control loop: it polls the line channel and ticks the
// schedulers, blocking until Stop is called or lines is closed. Timing is
// polled, never slept, so STOP interrupts mid-playback.
func (c *Controller) Run(lines <-chan string) {
	c.mu.RLock()
	rate := c.rate
	c.mu.RUnlock()

	ticker := time.NewTicker(rate)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			c.HandleLine(line)
		case <-ticker.C:
			c.Tick(time.Now())
		}
	}
}

// Stop halts the control loop and the motors.
func (c *Controller) Stop() {
	close(c.stop)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopMotors()
}

// stopMotors issues an all-stop, reporting failures without propagating.
// Callers hold the lock.
func (c *Controller) stopMotors() {
	if err := c.driver.StopAll(); err != nil {
		c.errorCount++
		c.notify("error", "motor stop failed: "+err.Error())
	}
}

// applyAction issues the per-motor commands for an action. An action that
// fails the mapping is a reported no-op: motors keep their previous state.
func applyAction(d actuator.Driver, a Action, speed int) error {
	cmds, err := a.Commands(speed)
	if err != nil {
		return err
	}
	for _, cmd := range cmds {
		if err := d.Drive(cmd.Side, cmd.Speed, cmd.Dir); err != nil {
			return err
		}
	}
	return nil
}
