package physics

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDT = 1.0 / 60.0

func newTestWorld() *World {
	return New(DefaultConfig(), nil)
}

func addGround(w *World) Handle {
	return w.Create(BodyDef{
		Kind:     Static,
		Shape:    Box,
		Position: cp.Vector{X: 0, Y: -0.5},
		Width:    100,
		Height:   1,
		Friction: 0.9,
		Category: CategoryGround,
		Owner:    1,
	})
}

func addBall(w *World, x, y float64, owner uint64) Handle {
	return w.Create(BodyDef{
		Kind:     Dynamic,
		Shape:    Circle,
		Position: cp.Vector{X: x, Y: y},
		Radius:   0.5,
		Mass:     2,
		Friction: 0.9,
		Category: CategoryPlayer,
		Owner:    owner,
	})
}

func TestHandleGenerations(t *testing.T) {
	w := newTestWorld()
	h := addBall(w, 0, 5, 7)
	require.True(t, w.Alive(h))
	owner, ok := w.Owner(h)
	require.True(t, ok)
	assert.Equal(t, uint64(7), owner)

	require.True(t, w.Destroy(h))
	assert.False(t, w.Alive(h))
	assert.False(t, w.Destroy(h), "double destroy is a no-op")

	reused := addBall(w, 0, 5, 8)
	assert.NotEqual(t, h, reused, "reused slot must carry a new generation")
	assert.False(t, w.Alive(h))
	assert.True(t, w.Alive(reused))
	assert.False(t, Handle(0).Valid())
}

func TestStaleHandleOperationsAreNoOps(t *testing.T) {
	w := newTestWorld()
	h := addBall(w, 0, 5, 2)
	require.True(t, w.Destroy(h))

	assert.NotPanics(t, func() {
		assert.False(t, w.ApplyImpulse(h, cp.Vector{X: 1}))
		assert.False(t, w.ApplyForce(h, cp.Vector{X: 1}))
		assert.False(t, w.ApplyTorque(h, 1))
		assert.False(t, w.SetVelocity(h, cp.Vector{}))
		assert.False(t, w.SetMass(h, 3))
		_, ok := w.State(h)
		assert.False(t, ok)
	})
}

func TestRejectsNonFiniteImpulse(t *testing.T) {
	w := newTestWorld()
	h := addBall(w, 0, 5, 2)
	before, _ := w.State(h)

	assert.False(t, w.ApplyImpulse(h, cp.Vector{X: math.NaN()}))
	assert.False(t, w.ApplyForce(h, cp.Vector{Y: math.Inf(1)}))

	after, _ := w.State(h)
	assert.Equal(t, before.Velocity, after.Velocity)
}

func TestStepClampsNonFiniteVelocity(t *testing.T) {
	w := newTestWorld()
	h := addBall(w, 0, 20, 2)
	s, ok := w.bodies.get(h)
	require.True(t, ok)
	s.body.SetVelocity(math.Inf(1), math.NaN())

	w.Step(testDT)

	st, ok := w.State(h)
	require.True(t, ok)
	assert.False(t, math.IsNaN(st.Velocity.X) || math.IsInf(st.Velocity.X, 0))
	assert.False(t, math.IsNaN(st.Velocity.Y) || math.IsInf(st.Velocity.Y, 0))
	assert.LessOrEqual(t, st.Velocity.Length(), w.cfg.MaxVelocity+1e-9)
	assert.False(t, math.IsNaN(st.Position.X) || math.IsNaN(st.Position.Y))
}

func TestClampVec(t *testing.T) {
	tests := []struct {
		name    string
		in      cp.Vector
		want    cp.Vector
		changed bool
	}{
		{"inside", cp.Vector{X: 3, Y: 4}, cp.Vector{X: 3, Y: 4}, false},
		{"too_fast", cp.Vector{X: 30, Y: 40}, cp.Vector{X: 6, Y: 8}, true},
		{"nan", cp.Vector{X: math.NaN(), Y: 1}, cp.Vector{X: 0, Y: 1}, true},
		{"neg_inf", cp.Vector{X: math.Inf(-1), Y: 0}, cp.Vector{X: -10, Y: 0}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, changed := clampVec(tc.in, 10)
			assert.Equal(t, tc.changed, changed)
			assert.InDelta(t, tc.want.X, got.X, 1e-9)
			assert.InDelta(t, tc.want.Y, got.Y, 1e-9)
		})
	}
}

func TestStepIsDeterministic(t *testing.T) {
	run := func() uint64 {
		w := newTestWorld()
		addGround(w)
		a := addBall(w, -2, 3, 2)
		b := addBall(w, 2, 5, 3)
		for i := 0; i < 240; i++ {
			if i%20 == 0 {
				w.ApplyImpulse(a, cp.Vector{X: 3, Y: 0})
				w.ApplyImpulse(b, cp.Vector{X: -2, Y: 1})
			}
			w.Step(testDT)
			w.Drain()
		}
		return w.Checksum()
	}
	first := run()
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, run())
	}
}

func TestContactEventsBeginOnceAndDrainOnce(t *testing.T) {
	w := newTestWorld()
	ground := addGround(w)
	ball := addBall(w, 0, 1, 2)

	var begins []ContactEvent
	for i := 0; i < 120; i++ {
		w.Step(testDT)
		for _, ev := range w.Drain() {
			if ev.Phase == ContactBegin {
				begins = append(begins, ev)
			}
		}
	}
	require.Len(t, begins, 1, "a resting contact begins exactly once")
	assert.Nil(t, w.Drain(), "events are consumed by the first drain")

	other, owner, normal, ok := begins[0].Involves(ball)
	require.True(t, ok)
	assert.Equal(t, ground, other)
	assert.Equal(t, uint64(1), owner)
	assert.Greater(t, normal.Y, 0.9, "normal from ground towards ball points up")
	assert.Greater(t, begins[0].Impulse, 0.0)
}

func TestDestroyReportsContactEnd(t *testing.T) {
	w := newTestWorld()
	ground := addGround(w)
	ball := addBall(w, 0, 0.6, 2)
	for i := 0; i < 30; i++ {
		w.Step(testDT)
	}
	w.Drain()

	require.True(t, w.Destroy(ground))
	events := w.Drain()
	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, ContactEnd, last.Phase)
	_, _, _, ok := last.Involves(ball)
	assert.True(t, ok)
}

func TestSensorContactsCarryNoImpulse(t *testing.T) {
	w := newTestWorld()
	w.Create(BodyDef{
		Kind:     Static,
		Shape:    Box,
		Position: cp.Vector{X: 0, Y: 0},
		Width:    4,
		Height:   4,
		Sensor:   true,
		Category: CategorySensor,
		Owner:    9,
	})
	addBall(w, 0, 3, 2)

	var got []ContactEvent
	for i := 0; i < 30; i++ {
		w.Step(testDT)
		got = append(got, w.Drain()...)
	}
	require.NotEmpty(t, got)
	assert.True(t, got[0].Sensor)
	assert.Zero(t, got[0].Impulse)
}

func TestRaycastHitsOpaqueOnly(t *testing.T) {
	w := newTestWorld()
	wall := w.Create(BodyDef{Kind: Static, Shape: Box, Position: cp.Vector{X: 5}, Width: 1, Height: 10, Category: CategoryGround})
	w.Create(BodyDef{Kind: Static, Shape: Box, Position: cp.Vector{X: 2}, Width: 1, Height: 10, Sensor: true, Category: CategorySensor})
	addBall(w, 3, 0, 2)

	hit, ok := w.Raycast(cp.Vector{}, cp.Vector{X: 10}, CategoryOpaque)
	require.True(t, ok)
	assert.Equal(t, wall, hit.Body)
	assert.InDelta(t, 4.5, hit.Point.X, 1e-6)
	assert.InDelta(t, 0.45, hit.Alpha, 1e-6)

	_, ok = w.Raycast(cp.Vector{}, cp.Vector{X: 4}, CategoryOpaque)
	assert.False(t, ok)
}

func TestCategoryAllMatchesEveryCategory(t *testing.T) {
	assert.Equal(t, cp.ALL_CATEGORIES, uint(CategoryAll))
	for _, c := range []Category{CategoryGround, CategoryPlayer, CategoryProp, CategoryObstacle, CategorySensor} {
		assert.Equal(t, c, CategoryAll&c, "category %d", c)
	}

	w := newTestWorld()
	ball := addBall(w, 3, 0, 2)
	w.Create(BodyDef{Kind: Static, Shape: Box, Position: cp.Vector{X: 5}, Width: 1, Height: 10, Category: CategoryGround})

	hit, ok := w.Raycast(cp.Vector{}, cp.Vector{X: 10}, CategoryAll)
	require.True(t, ok)
	assert.Equal(t, ball, hit.Body)
	assert.InDelta(t, 2.5, hit.Point.X, 1e-6)
}

func TestSetMassScalesMoment(t *testing.T) {
	w := newTestWorld()
	h := addBall(w, 0, 5, 2)
	require.True(t, w.SetMass(h, 4))
	st, _ := w.State(h)
	assert.InDelta(t, 4, st.Mass, 1e-9)
	assert.False(t, w.SetMass(h, -1))
}
