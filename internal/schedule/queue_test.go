package schedule

import (
	"testing"
	"time"
)

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func TestAdvanceFiresInDueOrder(t *testing.T) {
	q := NewQueue()
	var got []string

	q.After(t0, 300*time.Millisecond, func(time.Time) { got = append(got, "c") })
	q.After(t0, 100*time.Millisecond, func(time.Time) { got = append(got, "a") })
	q.After(t0, 200*time.Millisecond, func(time.Time) { got = append(got, "b") })

	if n := q.Advance(t0.Add(250 * time.Millisecond)); n != 2 {
		t.Fatalf("fired %d, want 2", n)
	}
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("order = %v, want [a b]", got)
	}
	if q.Len() != 1 {
		t.Errorf("Len() = %d, want 1", q.Len())
	}

	q.Advance(t0.Add(time.Second))
	if len(got) != 3 || got[2] != "c" {
		t.Fatalf("order = %v, want [a b c]", got)
	}
}

func TestEqualDueTimesKeepInsertionOrder(t *testing.T) {
	q := NewQueue()
	var got []int
	for i := 0; i < 5; i++ {
		i := i
		q.At(t0, func(time.Time) { got = append(got, i) })
	}
	q.Advance(t0)
	for i, v := range got {
		if v != i {
			t.Fatalf("got %v, want 0..4 in order", got)
		}
	}
}

func TestCallbackReceivesDueTime(t *testing.T) {
	q := NewQueue()
	due := t0.Add(500 * time.Millisecond)
	var at time.Time
	q.At(due, func(a time.Time) { at = a })

	q.Advance(t0.Add(2 * time.Second))
	if !at.Equal(due) {
		t.Errorf("callback at = %v, want %v", at, due)
	}
}

func TestSelfRearmingChain(t *testing.T) {
	q := NewQueue()
	var fires []time.Time
	var arm func(from time.Time)
	arm = func(from time.Time) {
		q.After(from, 100*time.Millisecond, func(at time.Time) {
			fires = append(fires, at)
			arm(at)
		})
	}
	arm(t0)

	// One large step catches up on every due firing.
	q.Advance(t0.Add(350 * time.Millisecond))
	if len(fires) != 3 {
		t.Fatalf("fired %d times, want 3", len(fires))
	}
	for i, at := range fires {
		want := t0.Add(time.Duration(i+1) * 100 * time.Millisecond)
		if !at.Equal(want) {
			t.Errorf("fire %d at %v, want %v", i, at, want)
		}
	}
	if q.Len() != 1 {
		t.Errorf("chain should leave one pending timer, got %d", q.Len())
	}
}

func TestCancel(t *testing.T) {
	q := NewQueue()
	fired := false
	id := q.After(t0, time.Millisecond, func(time.Time) { fired = true })

	if !q.Pending(id) {
		t.Fatal("timer should be pending")
	}
	if !q.Cancel(id) {
		t.Fatal("Cancel() = false for pending timer")
	}
	if q.Cancel(id) {
		t.Error("second Cancel() should report false")
	}
	q.Advance(t0.Add(time.Second))
	if fired {
		t.Error("canceled timer fired")
	}
	if _, ok := q.Next(); ok {
		t.Error("Next() should be empty after cancel")
	}
}

func TestCancelFromInsideCallback(t *testing.T) {
	q := NewQueue()
	fired := false
	var second ID
	q.At(t0, func(time.Time) { q.Cancel(second) })
	second = q.At(t0, func(time.Time) { fired = true })

	q.Advance(t0)
	if fired {
		t.Error("timer canceled by an earlier callback still fired")
	}
}

func TestClear(t *testing.T) {
	q := NewQueue()
	count := 0
	for i := 0; i < 3; i++ {
		q.After(t0, time.Duration(i)*time.Millisecond, func(time.Time) { count++ })
	}
	q.Clear()
	if q.Len() != 0 {
		t.Errorf("Len() = %d after Clear", q.Len())
	}
	q.Advance(t0.Add(time.Second))
	if count != 0 {
		t.Errorf("%d timers fired after Clear", count)
	}
}

func TestNext(t *testing.T) {
	q := NewQueue()
	if _, ok := q.Next(); ok {
		t.Fatal("empty queue should have no Next")
	}
	q.After(t0, 2*time.Second, func(time.Time) {})
	q.After(t0, time.Second, func(time.Time) {})
	next, ok := q.Next()
	if !ok || !next.Equal(t0.Add(time.Second)) {
		t.Errorf("Next() = %v, %v; want %v", next, ok, t0.Add(time.Second))
	}
}
