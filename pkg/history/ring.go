// Package history keeps a fixed window of visited values with linear
// undo and redo.
package history

import "errors"

// Capacity is the number of slots in a Ring.
const Capacity = 64

var (
	ErrNoPreviousCalculation = errors.New("no previous calculation")
	ErrUndoExhausted         = errors.New("undo buffer exhausted")
	ErrNoNextCalculation     = errors.New("no next calculation")
)

// Entry is one slot of the ring. Seq increases by one for every Push and is
// never reused.
type Entry[T any] struct {
	Seq   uint64
	Value T
}

// Ring is a circular log of Capacity entries with a movable cursor.
//
// Push advances the cursor and overwrites whatever the next slot held, so
// the oldest entries are evicted once the ring wraps. Undo and Redo only
// move the cursor. Whether a neighbouring slot is genuinely earlier or later
// is decided by comparing sequence numbers, which stays correct after
// slots have been overwritten out of order.
//
// NOT safe for concurrent use; caller must synchronize.
type Ring[T any] struct {
	slots [Capacity]*Entry[T]
	pos   int
	next  uint64
}

// New returns a ring holding initial at sequence 0.
func New[T any](initial T) *Ring[T] {
	r := &Ring[T]{next: 1}
	r.slots[0] = &Entry[T]{Seq: 0, Value: initial}
	return r
}

func nextPos(pos int) int {
	return (pos + 1) % Capacity
}

func prevPos(pos int) int {
	return (pos + Capacity - 1) % Capacity
}

// Current returns the entry under the cursor. The second result is false
// only if the ring has been reset.
func (r *Ring[T]) Current() (Entry[T], bool) {
	e := r.slots[r.pos]
	if e == nil {
		return Entry[T]{}, false
	}
	return *e, true
}

// Push stores v after the cursor and moves the cursor onto it.
func (r *Ring[T]) Push(v T) Entry[T] {
	r.pos = nextPos(r.pos)
	e := &Entry[T]{Seq: r.next, Value: v}
	r.slots[r.pos] = e
	r.next++
	return *e
}

// CanUndo reports why Undo would fail, or nil if it would succeed.
func (r *Ring[T]) CanUndo() error {
	prev := r.slots[prevPos(r.pos)]
	if prev == nil {
		return ErrNoPreviousCalculation
	}
	cur := r.slots[r.pos]
	if cur == nil || prev.Seq > cur.Seq {
		return ErrUndoExhausted
	}
	return nil
}

// CanRedo reports why Redo would fail, or nil if it would succeed.
func (r *Ring[T]) CanRedo() error {
	next := r.slots[nextPos(r.pos)]
	cur := r.slots[r.pos]
	if next == nil || cur == nil || next.Seq < cur.Seq {
		return ErrNoNextCalculation
	}
	return nil
}

// Undo moves the cursor back one entry.
func (r *Ring[T]) Undo() (Entry[T], error) {
	if err := r.CanUndo(); err != nil {
		return Entry[T]{}, err
	}
	r.pos = prevPos(r.pos)
	return *r.slots[r.pos], nil
}

// Redo moves the cursor forward one entry.
func (r *Ring[T]) Redo() (Entry[T], error) {
	if err := r.CanRedo(); err != nil {
		return Entry[T]{}, err
	}
	r.pos = nextPos(r.pos)
	return *r.slots[r.pos], nil
}

// NextSeq returns the sequence number the next Push will use.
func (r *Ring[T]) NextSeq() uint64 {
	return r.next
}

// Len returns the number of populated slots.
func (r *Ring[T]) Len() int {
	n := 0
	for _, e := range r.slots {
		if e != nil {
			n++
		}
	}
	return n
}

// Reset drops every entry, releasing the values they reference.
func (r *Ring[T]) Reset() {
	for i := range r.slots {
		r.slots[i] = nil
	}
	r.pos = 0
}
