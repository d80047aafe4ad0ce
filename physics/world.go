package physics

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/boneklod/common"
	"github.com/milk9111/boneklod/logger"
	"go.uber.org/zap"
)

var ErrStaleHandle = errors.New("physics: stale body handle")

const collisionTypeTracked cp.CollisionType = 1

type Config struct {
	Gravity            float64
	Iterations         int
	MaxVelocity        float64
	MaxAngularVelocity float64
}

func DefaultConfig() Config {
	return Config{Gravity: 30, Iterations: 20, MaxVelocity: 60, MaxAngularVelocity: 80}
}

// World owns a cp.Space and every body in it. Callers only ever hold Handles.
type World struct {
	cfg    Config
	log    *zap.Logger
	space  *cp.Space
	bodies arena

	pending []ContactEvent
	steps   uint64
}

func New(cfg Config, log *zap.Logger) *World {
	space := cp.NewSpace()
	space.Iterations = uint(max(cfg.Iterations, 1))
	space.SetGravity(cp.Vector{X: 0, Y: -cfg.Gravity})

	w := &World{
		cfg:   cfg,
		log:   logger.OrNop(log).Named("physics"),
		space: space,
	}

	handler := space.NewWildcardCollisionHandler(collisionTypeTracked)
	handler.BeginFunc = w.onBegin
	handler.PostSolveFunc = w.onPostSolve
	handler.SeparateFunc = w.onSeparate
	return w
}

// Space is exposed for debug drawing only.
func (w *World) Space() *cp.Space {
	return w.space
}

// Steps returns how many times Step has run.
func (w *World) Steps() uint64 {
	return w.steps
}

func (w *World) Create(def BodyDef) Handle {
	var body *cp.Body
	switch def.Kind {
	case Static:
		body = cp.NewStaticBody()
	case Kinematic:
		body = cp.NewKinematicBody()
	default:
		mass := def.Mass
		if mass <= 0 {
			mass = 1
		}
		body = cp.NewBody(mass, momentFor(def, mass))
	}
	body.SetPosition(def.Position)
	body.SetAngle(def.Angle)

	var shape *cp.Shape
	switch def.Shape {
	case Box:
		shape = cp.NewBox(body, def.Width, def.Height, def.Radius)
	case Segment:
		shape = cp.NewSegment(body, def.A, def.B, def.Radius)
	default:
		shape = cp.NewCircle(body, def.Radius, cp.Vector{})
	}
	shape.SetFriction(def.Friction)
	shape.SetElasticity(def.Elasticity)
	shape.SetSensor(def.Sensor)
	shape.SetCollisionType(collisionTypeTracked)
	category := def.Category
	if category == 0 {
		category = CategoryGround
	}
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, uint(category), cp.ALL_CATEGORIES))

	h, s := w.bodies.alloc()
	s.body = body
	s.shape = shape
	s.kind = def.Kind
	s.category = category
	s.owner = def.Owner
	s.lastPos = def.Position
	s.lastRot = def.Angle
	body.UserData = h
	shape.UserData = h

	w.space.AddBody(body)
	w.space.AddShape(shape)
	return h
}

func momentFor(def BodyDef, mass float64) float64 {
	switch def.Shape {
	case Box:
		return cp.MomentForBox(mass, def.Width, def.Height)
	case Segment:
		return cp.MomentForSegment(mass, def.A, def.B, def.Radius)
	default:
		return cp.MomentForCircle(mass, 0, def.Radius, cp.Vector{})
	}
}

// Destroy removes the body. Ending contacts are reported with the next
// Drain. Destroying a stale handle is a no-op and returns false.
func (w *World) Destroy(h Handle) bool {
	s, ok := w.bodies.get(h)
	if !ok {
		w.log.Debug("destroy on stale handle", zap.Stringer("body", h))
		return false
	}
	w.space.RemoveShape(s.shape)
	w.space.RemoveBody(s.body)
	s.body.UserData = nil
	s.shape.UserData = nil
	w.bodies.release(h)
	return true
}

func (w *World) Alive(h Handle) bool {
	_, ok := w.bodies.get(h)
	return ok
}

func (w *World) Owner(h Handle) (uint64, bool) {
	s, ok := w.bodies.get(h)
	if !ok {
		return 0, false
	}
	return s.owner, true
}

func (w *World) ApplyImpulse(h Handle, impulse cp.Vector) bool {
	s, ok := w.mutable(h, "apply_impulse", impulse)
	if !ok {
		return false
	}
	s.body.ApplyImpulseAtWorldPoint(impulse, s.body.Position())
	return true
}

func (w *World) ApplyForce(h Handle, force cp.Vector) bool {
	s, ok := w.mutable(h, "apply_force", force)
	if !ok {
		return false
	}
	s.body.ApplyForceAtWorldPoint(force, s.body.Position())
	return true
}

func (w *World) ApplyTorque(h Handle, torque float64) bool {
	s, ok := w.mutable(h, "apply_torque", cp.Vector{X: torque})
	if !ok {
		return false
	}
	s.body.SetTorque(s.body.Torque() + torque)
	return true
}

// ApplyAngularImpulse changes angular velocity by impulse/moment.
func (w *World) ApplyAngularImpulse(h Handle, impulse float64) bool {
	s, ok := w.mutable(h, "apply_angular_impulse", cp.Vector{X: impulse})
	if !ok {
		return false
	}
	moment := s.body.Moment()
	if moment <= 0 || math.IsInf(moment, 0) {
		return false
	}
	s.body.SetAngularVelocity(s.body.AngularVelocity() + impulse/moment)
	return true
}

func (w *World) SetVelocity(h Handle, v cp.Vector) bool {
	s, ok := w.mutable(h, "set_velocity", v)
	if !ok {
		return false
	}
	s.body.SetVelocityVector(v)
	return true
}

func (w *World) SetAngularVelocity(h Handle, omega float64) bool {
	s, ok := w.mutable(h, "set_angular_velocity", cp.Vector{X: omega})
	if !ok {
		return false
	}
	s.body.SetAngularVelocity(omega)
	return true
}

func (w *World) SetPosition(h Handle, p cp.Vector) bool {
	s, ok := w.mutable(h, "set_position", p)
	if !ok {
		return false
	}
	s.body.SetPosition(p)
	s.lastPos = p
	return true
}

// SetMass changes a dynamic body's mass and rescales its moment.
func (w *World) SetMass(h Handle, mass float64) bool {
	s, ok := w.bodies.get(h)
	if !ok || s.kind != Dynamic || mass <= 0 || !common.IsFinite(mass) {
		w.log.Warn("rejected set_mass", zap.Stringer("body", h), zap.Float64("mass", mass))
		return false
	}
	old := s.body.Mass()
	moment := s.body.Moment()
	s.body.SetMass(mass)
	if old > 0 {
		s.body.SetMoment(moment * mass / old)
	}
	return true
}

func (w *World) State(h Handle) (BodyState, bool) {
	s, ok := w.bodies.get(h)
	if !ok {
		return BodyState{}, false
	}
	return stateOf(s), true
}

func stateOf(s *slot) BodyState {
	st := BodyState{
		Position: s.body.Position(),
		Angle:    s.body.Angle(),
		Kind:     s.kind,
		Category: s.category,
		Sensor:   s.shape.Sensor(),
		Owner:    s.owner,
	}
	switch s.shape.Class.(type) {
	case *cp.Circle:
		st.Shape = Circle
	case *cp.Segment:
		st.Shape = Segment
	default:
		st.Shape = Box
	}
	if s.kind == Dynamic {
		st.Velocity = s.body.Velocity()
		st.AngularVelocity = s.body.AngularVelocity()
		st.Mass = s.body.Mass()
	}
	return st
}

// Each visits every live body in handle order.
func (w *World) Each(fn func(Handle, BodyState)) {
	for i := range w.bodies.slots {
		s := &w.bodies.slots[i]
		if !s.alive {
			continue
		}
		fn(makeHandle(uint32(i), s.gen), stateOf(s))
	}
}

func (w *World) mutable(h Handle, op string, v cp.Vector) (*slot, bool) {
	s, ok := w.bodies.get(h)
	if !ok {
		w.log.Warn("ignored "+op+" on stale handle", zap.Stringer("body", h))
		return nil, false
	}
	if !finiteVec(v) {
		w.log.Warn("rejected non-finite "+op, zap.Stringer("body", h), zap.Float64("x", v.X), zap.Float64("y", v.Y))
		return nil, false
	}
	if s.kind != Dynamic {
		return nil, false
	}
	return s, true
}

// Step advances the simulation by dt and then repairs any body whose state
// became non-finite or exceeds the configured limits.
func (w *World) Step(dt float64) {
	if dt <= 0 || !common.IsFinite(dt) {
		w.log.Warn("ignored step with invalid dt", zap.Float64("dt", dt))
		return
	}
	w.space.Step(dt)
	w.steps++
	w.sanitize()
}

func (w *World) sanitize() {
	for i := range w.bodies.slots {
		s := &w.bodies.slots[i]
		if !s.alive || s.kind != Dynamic {
			continue
		}
		body := s.body

		pos := body.Position()
		if !finiteVec(pos) {
			w.log.Warn("restored non-finite position", zap.Uint64("owner", s.owner), zap.Uint64("step", w.steps))
			body.SetPosition(s.lastPos)
			pos = s.lastPos
		}
		if !common.IsFinite(body.Angle()) {
			body.SetAngle(s.lastRot)
		}
		s.lastPos = pos
		s.lastRot = body.Angle()

		v := body.Velocity()
		clamped, changed := clampVec(v, w.cfg.MaxVelocity)
		if changed {
			if !finiteVec(v) {
				w.log.Warn("clamped non-finite velocity", zap.Uint64("owner", s.owner), zap.Uint64("step", w.steps))
			}
			body.SetVelocityVector(clamped)
		}

		omega := body.AngularVelocity()
		if limit := w.cfg.MaxAngularVelocity; limit > 0 {
			switch {
			case math.IsNaN(omega):
				w.log.Warn("clamped non-finite angular velocity", zap.Uint64("owner", s.owner))
				body.SetAngularVelocity(0)
			case omega > limit:
				body.SetAngularVelocity(limit)
			case omega < -limit:
				body.SetAngularVelocity(-limit)
			}
		}
	}
}

// clampVec maps NaN components to zero, infinities to ±limit and then caps
// the magnitude at limit.
func clampVec(v cp.Vector, limit float64) (cp.Vector, bool) {
	changed := false
	fix := func(c float64) float64 {
		switch {
		case math.IsNaN(c):
			changed = true
			return 0
		case math.IsInf(c, 1):
			changed = true
			return limit
		case math.IsInf(c, -1):
			changed = true
			return -limit
		}
		return c
	}
	out := cp.Vector{X: fix(v.X), Y: fix(v.Y)}
	if limit > 0 {
		if l := out.Length(); l > limit {
			out = out.Mult(limit / l)
			changed = true
		}
	}
	return out, changed
}

func finiteVec(v cp.Vector) bool {
	return common.IsFinite(v.X) && common.IsFinite(v.Y)
}

// Drain returns the contact events produced since the previous Drain, in
// the order the solver reported them, and forgets them.
func (w *World) Drain() []ContactEvent {
	if len(w.pending) == 0 {
		return nil
	}
	out := w.pending
	w.pending = nil
	return out
}

func (w *World) onBegin(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
	// Both wildcard handlers run for the same arbiter; the second sees the
	// mark. A mark that already ended belongs to an earlier touch of a
	// cached arbiter.
	if mark, ok := arb.UserData.(*contactMark); ok && !mark.ended {
		return true
	}
	sa, sb := arb.Shapes()
	ha, okA := sa.UserData.(Handle)
	hb, okB := sb.UserData.(Handle)
	if !okA || !okB {
		return true
	}
	arb.UserData = &contactMark{index: len(w.pending)}
	w.pending = append(w.pending, ContactEvent{
		Phase:  ContactBegin,
		A:      ha,
		B:      hb,
		OwnerA: w.ownerOf(ha),
		OwnerB: w.ownerOf(hb),
		Normal: arb.Normal(),
		Sensor: sa.Sensor() || sb.Sensor(),
	})
	return true
}

func (w *World) onPostSolve(arb *cp.Arbiter, _ *cp.Space, _ interface{}) {
	mark, ok := arb.UserData.(*contactMark)
	if !ok || mark.solved {
		return
	}
	mark.solved = true
	if mark.index < len(w.pending) && w.pending[mark.index].Phase == ContactBegin {
		w.pending[mark.index].Impulse = arb.TotalImpulse().Length()
	}
}

func (w *World) onSeparate(arb *cp.Arbiter, _ *cp.Space, _ interface{}) {
	mark, ok := arb.UserData.(*contactMark)
	if !ok || mark.ended {
		return
	}
	mark.ended = true
	sa, sb := arb.Shapes()
	ha, _ := sa.UserData.(Handle)
	hb, _ := sb.UserData.(Handle)
	w.pending = append(w.pending, ContactEvent{
		Phase:  ContactEnd,
		A:      ha,
		B:      hb,
		OwnerA: w.ownerOf(ha),
		OwnerB: w.ownerOf(hb),
		Normal: arb.Normal(),
		Sensor: sa.Sensor() || sb.Sensor(),
	})
}

func (w *World) ownerOf(h Handle) uint64 {
	owner, _ := w.Owner(h)
	return owner
}

// Checksum hashes every live dynamic body's transform and velocity in
// handle order. Equal checksums mean bit-identical simulations.
func (w *World) Checksum() uint64 {
	d := xxhash.New()
	var buf [8]byte
	put := func(f float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		_, _ = d.Write(buf[:])
	}
	for i := range w.bodies.slots {
		s := &w.bodies.slots[i]
		if !s.alive || s.kind != Dynamic {
			continue
		}
		binary.LittleEndian.PutUint64(buf[:], uint64(i))
		_, _ = d.Write(buf[:])
		p, v := s.body.Position(), s.body.Velocity()
		put(p.X)
		put(p.Y)
		put(s.body.Angle())
		put(v.X)
		put(v.Y)
		put(s.body.AngularVelocity())
	}
	return d.Sum64()
}
