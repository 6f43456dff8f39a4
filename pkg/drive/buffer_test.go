package drive

import (
	"errors"
	"testing"
	"time"
)

func TestBuffer_AppendGrowsByOne(t *testing.T) {
	b := NewBuffer(5)

	for i := 0; i < 5; i++ {
		before := b.Len()
		err := b.Append(RecordedStep{Action: ActionForward, Duration: time.Duration(i) * time.Millisecond})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		if b.Len() != before+1 {
			t.Fatalf("append %d: length %d, want %d", i, b.Len(), before+1)
		}
	}
}

func TestBuffer_AppendAtCapacityFails(t *testing.T) {
	b := NewBuffer(2)
	b.Append(RecordedStep{Action: ActionForward})
	b.Append(RecordedStep{Action: ActionLeft})

	err := b.Append(RecordedStep{Action: ActionRight})
	if !errors.Is(err, ErrBufferFull) {
		t.Fatalf("expected ErrBufferFull, got %v", err)
	}
	if b.Len() != 2 {
		t.Errorf("length changed on failed append: %d", b.Len())
	}

	// Still full on retry
	if err := b.Append(RecordedStep{Action: ActionBackward}); !errors.Is(err, ErrBufferFull) {
		t.Fatalf("expected ErrBufferFull on retry, got %v", err)
	}
}

func TestBuffer_Clear(t *testing.T) {
	b := NewBuffer(3)
	b.Append(RecordedStep{Action: ActionForward})
	b.Append(RecordedStep{Action: ActionLeft})

	b.Clear()

	if !b.IsEmpty() || b.Len() != 0 {
		t.Errorf("expected empty buffer after Clear, len=%d", b.Len())
	}
	// Capacity is preserved; appends work again
	if err := b.Append(RecordedStep{Action: ActionRight}); err != nil {
		t.Errorf("append after clear: %v", err)
	}
}

func TestBuffer_Get(t *testing.T) {
	b := NewBuffer(3)
	want := RecordedStep{Action: ActionLeft, Duration: 300 * time.Millisecond}
	b.Append(RecordedStep{Action: ActionForward, Duration: 200 * time.Millisecond})
	b.Append(want)

	got, err := b.Get(1)
	if err != nil {
		t.Fatalf("Get(1): %v", err)
	}
	if got != want {
		t.Errorf("Get(1): got %+v, want %+v", got, want)
	}

	if _, err := b.Get(2); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Get(2): expected ErrIndexOutOfRange, got %v", err)
	}
	if _, err := b.Get(-1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Get(-1): expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestBuffer_DefaultCapacity(t *testing.T) {
	b := NewBuffer(0)
	if b.Cap() != DefaultCapacity {
		t.Errorf("capacity: got %d, want %d", b.Cap(), DefaultCapacity)
	}
}

func TestBuffer_StepsIsACopy(t *testing.T) {
	b := NewBuffer(3)
	b.Append(RecordedStep{Action: ActionForward, Duration: time.Second})

	steps := b.Steps()
	steps[0].Action = ActionBackward

	got, _ := b.Get(0)
	if got.Action != ActionForward {
		t.Error("mutating the Steps copy changed the buffer")
	}
}
