package sim

import (
	"testing"
)

func TestJobQueue_Peek_NonEmpty_ReturnsFront(t *testing.T) {
	// GIVEN a queue with jobs [1, 2]
	q := &JobQueue{}
	a := NewJob(1, 0, 1)
	b := NewJob(2, 0.5, 1)
	q.Enqueue(a)
	q.Enqueue(b)

	// WHEN Peek() is called
	got := q.Peek()

	// THEN it returns the front element without removing it
	if got != a {
		t.Errorf("Peek: got job %v, want %v", got.ID, a.ID)
	}
	if q.Len() != 2 {
		t.Errorf("Peek modified queue length: got %d, want 2", q.Len())
	}
}

func TestJobQueue_Peek_Empty_ReturnsNil(t *testing.T) {
	q := &JobQueue{}
	if got := q.Peek(); got != nil {
		t.Errorf("Peek on empty queue: got %v, want nil", got)
	}
}

func TestJobQueue_Dequeue_PreservesArrivalOrder(t *testing.T) {
	// GIVEN five jobs enqueued in arrival order
	q := &JobQueue{}
	for i := int64(1); i <= 5; i++ {
		q.Enqueue(NewJob(i, float64(i), 1))
	}

	// WHEN they are dequeued
	// THEN they leave in the same order
	for want := int64(1); want <= 5; want++ {
		got := q.Dequeue()
		if got == nil || got.ID != want {
			t.Fatalf("Dequeue: got %v, want job %d", got, want)
		}
	}
	if q.Dequeue() != nil {
		t.Error("Dequeue on drained queue: want nil")
	}
}

func TestJobQueue_Enqueue_NilPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Enqueue(nil) did not panic")
		}
	}()
	(&JobQueue{}).Enqueue(nil)
}

func TestJobQueue_String(t *testing.T) {
	q := &JobQueue{}
	if q.String() != "[]" {
		t.Errorf("String() on empty queue = %q, want []", q.String())
	}
	q.Enqueue(NewJob(1, 0, 1))
	q.Enqueue(NewJob(2, 0, 1))
	want := "[Job(1, waiting, arrival=0.0000) Job(2, waiting, arrival=0.0000)]"
	if q.String() != want {
		t.Errorf("String() = %q, want %q", q.String(), want)
	}
}
