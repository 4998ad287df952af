package effect

import "github.com/cbegin/daw-go/frame"

// ring is a FIFO of frames. Its logical length is independent of its
// capacity, and capacity only grows. Every slot owns its storage: push copies
// into the slot, so once the ring and its slots have grown, pushing does not
// allocate.
type ring struct {
	slots []frame.Frame
	head  int
	size  int
}

func (r *ring) Len() int { return r.size }

// reserve grows the capacity to at least n slots.
func (r *ring) reserve(n int) {
	if n <= len(r.slots) {
		return
	}
	slots := make([]frame.Frame, n)
	for i := range r.slots {
		slots[i] = r.slots[(r.head+i)%len(r.slots)]
	}
	r.slots = slots
	r.head = 0
}

func (r *ring) push(f frame.Frame) {
	if r.size == len(r.slots) {
		r.reserve(max(2*len(r.slots), 8))
	}
	i := (r.head + r.size) % len(r.slots)
	r.slots[i] = append(r.slots[i][:0], f...)
	r.size++
}

// at returns the i-th oldest frame. It stays valid until that slot is
// overwritten by a later push.
func (r *ring) at(i int) frame.Frame {
	if i < 0 || i >= r.size {
		panic("effect: ring index out of range")
	}
	return r.slots[(r.head+i)%len(r.slots)]
}

// pop discards the oldest frame, keeping its slot storage for reuse.
func (r *ring) pop() {
	if r.size == 0 {
		panic("effect: pop from empty ring")
	}
	r.head = (r.head + 1) % len(r.slots)
	r.size--
}

func (r *ring) reset() {
	r.head = 0
	r.size = 0
}
