package simkernel

import "testing"

// stubEvent is a minimal Event for queue ordering tests.
type stubEvent struct {
	time int64
	tag  string
}

func (e *stubEvent) Timestamp() int64      { return e.time }
func (e *stubEvent) Execute(s *Simulator) {}

func TestEventQueue_Pop_OrdersByTimestamp(t *testing.T) {
	// GIVEN events pushed out of time order
	q := NewEventQueue()
	q.Push(&stubEvent{time: 30, tag: "c"})
	q.Push(&stubEvent{time: 10, tag: "a"})
	q.Push(&stubEvent{time: 20, tag: "b"})

	// WHEN events are popped
	// THEN they come out in ascending timestamp order
	want := []string{"a", "b", "c"}
	for _, tag := range want {
		got := q.Pop().(*stubEvent)
		if got.tag != tag {
			t.Errorf("Pop tag = %q, want %q", got.tag, tag)
		}
	}
}

func TestEventQueue_Pop_TiesBrokenByInsertionOrder(t *testing.T) {
	// GIVEN three events all scheduled at the same timestamp
	q := NewEventQueue()
	q.Push(&stubEvent{time: 5, tag: "first"})
	q.Push(&stubEvent{time: 5, tag: "second"})
	q.Push(&stubEvent{time: 5, tag: "third"})

	// WHEN events are popped
	// THEN they come out in FIFO insertion order
	want := []string{"first", "second", "third"}
	for _, tag := range want {
		got := q.Pop().(*stubEvent)
		if got.tag != tag {
			t.Errorf("Pop tag = %q, want %q", got.tag, tag)
		}
	}
}

func TestEventQueue_Peek_DoesNotRemove(t *testing.T) {
	// GIVEN a queue with one event
	q := NewEventQueue()
	q.Push(&stubEvent{time: 1, tag: "only"})

	// WHEN Peek is called
	got := q.Peek()

	// THEN the event remains in the queue
	if got.(*stubEvent).tag != "only" {
		t.Errorf("Peek tag = %q, want %q", got.(*stubEvent).tag, "only")
	}
	if q.Len() != 1 {
		t.Errorf("Len = %d, want 1 (Peek must not remove)", q.Len())
	}
}

func TestEventQueue_Pop_PanicsOnEmpty(t *testing.T) {
	// GIVEN an empty queue
	q := NewEventQueue()

	// WHEN Pop is called
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Pop on empty queue did not panic")
		}
	}()
	q.Pop()
}
