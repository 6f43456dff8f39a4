package drive

import (
	"errors"
	"time"
)

// DefaultCapacity is the recorded-routine capacity when none is given.
const DefaultCapacity = 100

var (
	// ErrBufferFull is returned by Append when the buffer is at capacity.
	ErrBufferFull = errors.New("command buffer full")

	// ErrIndexOutOfRange is returned by Get for an index past the end.
	ErrIndexOutOfRange = errors.New("step index out of range")
)

// RecordedStep is one (action, duration) pair stored during Learn mode.
// Steps are immutable once appended.
type RecordedStep struct {
	Action   Action        `json:"action"`
	Duration time.Duration `json:"duration"`
}

// Buffer is a bounded, append-only ordered sequence of recorded steps.
// It is written only while learning and read only while replaying; the
// single control goroutine enforces mutual exclusion by construction.
type Buffer struct {
	steps    []RecordedStep
	capacity int
}

// NewBuffer creates a buffer with the given capacity.
// Non-positive capacities fall back to DefaultCapacity.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{
		steps:    make([]RecordedStep, 0, capacity),
		capacity: capacity,
	}
}

// Clear resets the buffer to length 0. It always succeeds.
func (b *Buffer) Clear() {
	b.steps = b.steps[:0]
}

// Append adds a step to the end of the buffer.
func (b *Buffer) Append(step RecordedStep) error {
	if len(b.steps) >= b.capacity {
		return ErrBufferFull
	}
	b.steps = append(b.steps, step)
	return nil
}

// Get returns the step at index i.
func (b *Buffer) Get(i int) (RecordedStep, error) {
	if i < 0 || i >= len(b.steps) {
		return RecordedStep{}, ErrIndexOutOfRange
	}
	return b.steps[i], nil
}

// Len returns the number of recorded steps.
func (b *Buffer) Len() int {
	return len(b.steps)
}

// Cap returns the buffer capacity.
func (b *Buffer) Cap() int {
	return b.capacity
}

// IsEmpty reports whether no steps are recorded.
func (b *Buffer) IsEmpty() bool {
	return len(b.steps) == 0
}

// Steps returns a copy of the recorded routine for display.
func (b *Buffer) Steps() []RecordedStep {
	out := make([]RecordedStep, len(b.steps))
	copy(out, b.steps)
	return out
}
