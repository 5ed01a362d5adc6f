// Package schedule provides a deterministic timer queue.
//
// Nothing here reads the wall clock: the owner advances the queue with an
// explicit timestamp each frame, and every callback receives its own due
// time. Callbacks may schedule further timers (a self re-arming chain); a
// timer scheduled during Advance that is already due fires in the same call.
package schedule

import (
	"container/heap"
	"time"
)

// ID identifies a scheduled timer. The zero ID is never issued.
type ID uint64

// Func is a timer callback. at is the time the timer was due, not the time
// Advance was called with.
type Func func(at time.Time)

type entry struct {
	id       ID
	due      time.Time
	seq      uint64 // Insertion order breaks ties between equal due times
	fn       Func
	canceled bool
	index    int
}

// Queue is a min-heap of pending timers ordered by due time.
// It is not safe for concurrent use.
type Queue struct {
	items  entryHeap
	byID   map[ID]*entry
	nextID ID
	seq    uint64
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{
		byID:   make(map[ID]*entry),
		nextID: 1,
	}
}

// At schedules fn to run once the queue is advanced to due or later.
func (q *Queue) At(due time.Time, fn Func) ID {
	id := q.nextID
	q.nextID++
	q.seq++

	e := &entry{id: id, due: due, seq: q.seq, fn: fn}
	q.byID[id] = e
	heap.Push(&q.items, e)
	return id
}

// After schedules fn to run d after now.
func (q *Queue) After(now time.Time, d time.Duration, fn Func) ID {
	return q.At(now.Add(d), fn)
}

// Cancel prevents a pending timer from firing. Reports whether the timer
// was still pending.
func (q *Queue) Cancel(id ID) bool {
	e, ok := q.byID[id]
	if !ok {
		return false
	}
	e.canceled = true
	delete(q.byID, id)
	return true
}

// Pending reports whether the timer is scheduled and has not fired.
func (q *Queue) Pending(id ID) bool {
	_, ok := q.byID[id]
	return ok
}

// Clear cancels every pending timer.
func (q *Queue) Clear() {
	for _, e := range q.items {
		e.canceled = true
	}
	q.items = q.items[:0]
	clear(q.byID)
}

// Len returns the number of pending timers.
func (q *Queue) Len() int {
	return len(q.byID)
}

// Next returns the due time of the earliest pending timer.
func (q *Queue) Next() (time.Time, bool) {
	q.dropCanceled()
	if len(q.items) == 0 {
		return time.Time{}, false
	}
	return q.items[0].due, true
}

// Advance fires, in due order, every timer due at or before now and
// returns how many fired.
func (q *Queue) Advance(now time.Time) int {
	fired := 0
	for {
		q.dropCanceled()
		if len(q.items) == 0 || q.items[0].due.After(now) {
			return fired
		}
		e := heap.Pop(&q.items).(*entry)
		delete(q.byID, e.id)
		e.fn(e.due)
		fired++
	}
}

func (q *Queue) dropCanceled() {
	for len(q.items) > 0 && q.items[0].canceled {
		heap.Pop(&q.items)
	}
}

// entryHeap implements heap.Interface.
type entryHeap []*entry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].due.Equal(h[j].due) {
		return h[i].seq < h[j].seq
	}
	return h[i].due.Before(h[j].due)
}

func (h entryHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *entryHeap) Push(x any) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}
