package physics

import (
	"fmt"

	"github.com/jakecoffman/cp"
)

// Handle is an opaque reference to a body owned by a World. Handles outlive
// their bodies; operations on a destroyed body's handle are rejected.
type Handle uint64

const handleIndexBits = 32

func makeHandle(index, gen uint32) Handle {
	return Handle(uint64(gen)<<handleIndexBits | uint64(index+1))
}

func (h Handle) index() (uint32, bool) {
	raw := uint32(uint64(h))
	if raw == 0 {
		return 0, false
	}
	return raw - 1, true
}

func (h Handle) generation() uint32 {
	return uint32(uint64(h) >> handleIndexBits)
}

func (h Handle) Valid() bool {
	_, ok := h.index()
	return ok
}

func (h Handle) String() string {
	idx, ok := h.index()
	if !ok {
		return "body(nil)"
	}
	return fmt.Sprintf("body(%d#%d)", idx, h.generation())
}

type slot struct {
	gen      uint32
	alive    bool
	body     *cp.Body
	shape    *cp.Shape
	kind     BodyKind
	category Category
	owner    uint64
	lastPos  cp.Vector
	lastRot  float64
}

// arena stores slots with generational reuse of freed indices.
type arena struct {
	slots []slot
	free  []uint32
}

func (a *arena) alloc() (Handle, *slot) {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.slots = append(a.slots, slot{})
		idx = uint32(len(a.slots) - 1)
	}
	s := &a.slots[idx]
	s.alive = true
	return makeHandle(idx, s.gen), s
}

func (a *arena) get(h Handle) (*slot, bool) {
	idx, ok := h.index()
	if !ok || int(idx) >= len(a.slots) {
		return nil, false
	}
	s := &a.slots[idx]
	if !s.alive || s.gen != h.generation() {
		return nil, false
	}
	return s, true
}

func (a *arena) release(h Handle) {
	idx, ok := h.index()
	if !ok {
		return
	}
	s := &a.slots[idx]
	gen := s.gen + 1
	*s = slot{gen: gen}
	a.free = append(a.free, idx)
}
