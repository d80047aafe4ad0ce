package ecs

import (
	"testing"

	"github.com/milk9111/boneklod/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// level is a small world shaped like a loaded level: one klod, a few bones
// and a finish sensor.
type level struct {
	w      *World
	klod   Entity
	bones  []Entity
	finish Entity
}

func newLevel(t *testing.T, weights ...float64) level {
	t.Helper()
	w := NewWorld()
	lv := level{w: w, klod: CreateEntity(w)}
	require.NoError(t, Add(w, lv.klod, component.PlayerTagComponent.Kind(), &component.PlayerTag{}))
	require.NoError(t, Add(w, lv.klod, component.TransformComponent.Kind(), &component.Transform{Y: 0.5}))
	require.NoError(t, Add(w, lv.klod, component.BodyComponent.Kind(), &component.Body{}))
	require.NoError(t, Add(w, lv.klod, component.InputComponent.Kind(), &component.Input{}))

	for i, weight := range weights {
		e := CreateEntity(w)
		require.NoError(t, Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: float64(i + 2)}))
		require.NoError(t, Add(w, e, component.BodyComponent.Kind(), &component.Body{}))
		require.NoError(t, Add(w, e, component.BoneComponent.Kind(), &component.Bone{ID: string(rune('a' + i)), Weight: weight}))
		lv.bones = append(lv.bones, e)
	}

	lv.finish = CreateEntity(w)
	require.NoError(t, Add(w, lv.finish, component.TransformComponent.Kind(), &component.Transform{X: 20}))
	require.NoError(t, Add(w, lv.finish, component.TriggerComponent.Kind(), &component.Trigger{ID: "goal", Kind: component.TriggerFinish}))
	return lv
}

func TestQueriesMatchOnlyFullSets(t *testing.T) {
	lv := newLevel(t, 0.1, 0.4)
	w := lv.w

	tests := []struct {
		name string
		run  func() []Entity
		want []Entity
	}{
		{
			name: "bones",
			run: func() (out []Entity) {
				ForEach(w, component.BoneComponent.Kind(), func(e Entity, _ *component.Bone) { out = append(out, e) })
				return out
			},
			want: lv.bones,
		},
		{
			name: "posed_bones",
			run: func() (out []Entity) {
				ForEach2(w, component.TransformComponent.Kind(), component.BoneComponent.Kind(), func(e Entity, _ *component.Transform, _ *component.Bone) {
					out = append(out, e)
				})
				return out
			},
			want: lv.bones,
		},
		{
			name: "bodies_with_player_tag",
			run: func() (out []Entity) {
				ForEach3(w, component.TransformComponent.Kind(), component.BodyComponent.Kind(), component.PlayerTagComponent.Kind(),
					func(e Entity, _ *component.Transform, _ *component.Body, _ *component.PlayerTag) {
						out = append(out, e)
					})
				return out
			},
			want: []Entity{lv.klod},
		},
		{
			name: "controlled_klod",
			run: func() (out []Entity) {
				ForEach4(w, component.TransformComponent.Kind(), component.BodyComponent.Kind(), component.PlayerTagComponent.Kind(), component.InputComponent.Kind(),
					func(e Entity, _ *component.Transform, _ *component.Body, _ *component.PlayerTag, _ *component.Input) {
						out = append(out, e)
					})
				return out
			},
			want: []Entity{lv.klod},
		},
		{
			name: "no_store_for_obstacles",
			run: func() (out []Entity) {
				ForEach2(w, component.TransformComponent.Kind(), component.ObstacleComponent.Kind(), func(e Entity, _ *component.Transform, _ *component.Obstacle) {
					out = append(out, e)
				})
				return out
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ElementsMatch(t, tt.want, tt.run())
		})
	}
}

func TestDestroyedEntitiesLeaveEveryStore(t *testing.T) {
	lv := newLevel(t, 0.1)
	w := lv.w
	bone := lv.bones[0]

	require.True(t, DestroyEntity(w, bone))
	assert.False(t, IsAlive(w, bone))
	assert.False(t, Has(w, bone, component.TransformComponent.Kind()))
	assert.Zero(t, Count(w, component.BoneComponent.Kind()))
	assert.Equal(t, 2, Count(w, component.TransformComponent.Kind()))
	assert.Len(t, Entities(w), 2)

	// The slot is reused with a new generation; the old id stays dead.
	respawned := CreateEntity(w)
	assert.Equal(t, bone.id(), respawned.id())
	assert.NotEqual(t, bone, respawned)
	assert.False(t, Has(w, respawned, component.BoneComponent.Kind()))
	assert.ErrorIs(t, Add(w, bone, component.BoneComponent.Kind(), &component.Bone{}), component.ErrEntityNotAlive)
	assert.False(t, DestroyEntity(w, bone))
}

func TestAbsorbWhileIterating(t *testing.T) {
	lv := newLevel(t, 0.1, 3, 0.2, 5)
	w := lv.w

	visited := 0
	ForEach(w, component.BoneComponent.Kind(), func(e Entity, b *component.Bone) {
		visited++
		if b.Weight < 1 {
			DestroyEntity(w, e)
		}
	})
	assert.Equal(t, 4, visited)

	var left []string
	ForEach(w, component.BoneComponent.Kind(), func(_ Entity, b *component.Bone) { left = append(left, b.ID) })
	assert.ElementsMatch(t, []string{"b", "d"}, left)
}

func TestRemoveKeepsEntityAlive(t *testing.T) {
	lv := newLevel(t)
	w := lv.w

	trig, ok := Get(w, lv.finish, component.TriggerComponent.Kind())
	require.True(t, ok)
	trig.Fired = true

	again, _ := Get(w, lv.finish, component.TriggerComponent.Kind())
	assert.True(t, again.Fired, "Get returns the stored value, not a copy")

	require.True(t, Remove(w, lv.finish, component.TriggerComponent.Kind()))
	assert.False(t, Remove(w, lv.finish, component.TriggerComponent.Kind()))
	assert.True(t, IsAlive(w, lv.finish))
	assert.True(t, Has(w, lv.finish, component.TransformComponent.Kind()))
}

func TestFirst(t *testing.T) {
	w := NewWorld()
	_, ok := First(w, component.PlayerTagComponent.Kind())
	assert.False(t, ok)

	lv := newLevel(t, 0.1)
	got, ok := First(lv.w, component.PlayerTagComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, lv.klod, got)
}

func TestSchedulerFlushesEvents(t *testing.T) {
	lv := newLevel(t, 0.1)
	const touched EventKind = "touched"

	var seen []Entity
	contacts := SystemFunc(func(w *World) {
		w.Events().Push(Event{Kind: touched, Data: lv.bones[0]})
	})
	pickups := SystemFunc(func(w *World) {
		w.Events().Each(touched, func(evt Event) { seen = append(seen, evt.Data.(Entity)) })
	})

	s := NewScheduler(contacts, pickups, nil)
	require.Len(t, s.Systems(), 2)

	s.Update(lv.w)
	assert.Equal(t, []Entity{lv.bones[0]}, seen)
	assert.Zero(t, lv.w.Events().Len())

	s.Update(lv.w)
	assert.Len(t, seen, 2, "each update delivers only its own events")
}
