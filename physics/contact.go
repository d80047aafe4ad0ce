package physics

import "github.com/jakecoffman/cp"

type ContactPhase int

const (
	ContactBegin ContactPhase = iota
	ContactEnd
)

func (p ContactPhase) String() string {
	if p == ContactEnd {
		return "end"
	}
	return "begin"
}

// ContactEvent reports two bodies starting or stopping to touch. Normal
// points from A towards B. Impulse is the magnitude of the first solver
// impulse of the contact and is zero for sensors and end events.
type ContactEvent struct {
	Phase   ContactPhase
	A, B    Handle
	OwnerA  uint64
	OwnerB  uint64
	Normal  cp.Vector
	Impulse float64
	Sensor  bool
}

// Involves reports whether h takes part in the contact. When it does, other
// is the opposite body and normal points from other towards h.
func (e ContactEvent) Involves(h Handle) (other Handle, otherOwner uint64, normal cp.Vector, ok bool) {
	switch h {
	case e.A:
		return e.B, e.OwnerB, e.Normal.Neg(), true
	case e.B:
		return e.A, e.OwnerA, e.Normal, true
	}
	return 0, 0, cp.Vector{}, false
}

// InvolvesOwner is Involves keyed by owner tag.
func (e ContactEvent) InvolvesOwner(owner uint64) (other Handle, otherOwner uint64, normal cp.Vector, ok bool) {
	switch owner {
	case e.OwnerA:
		return e.B, e.OwnerB, e.Normal.Neg(), true
	case e.OwnerB:
		return e.A, e.OwnerA, e.Normal, true
	}
	return 0, 0, cp.Vector{}, false
}

type contactMark struct {
	index  int
	solved bool
	ended  bool
}
