package levels

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

const minimalLevel = `
id: tiny
name: Tiny
time_limit: 30
required_mana: 10
spawn: {x: 0, y: 1}
bounds: {min: {x: -5, y: -5}, max: {x: 5, y: 5}}
geometry:
  - {kind: box, x: 0, y: -0.5, w: 10, h: 1}
bones:
  - {id: b1, x: 1, y: 0.3, radius: 0.2, weight: 0.1}
triggers:
  - {id: goal, kind: finish, x: 4, y: 1, w: 1, h: 2}
objectives:
  - {id: reach, kind: reach, target: goal}
`

func TestEmbeddedLevelsAreValid(t *testing.T) {
	entries, err := Default().List()
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(entries), 2)
	assert.Equal(t, "meadow", entries[0].ID)

	for _, e := range entries {
		d, err := NewCatalog(LevelsFS, "").Load(e.ID)
		require.NoError(t, err, e.ID)
		assert.NotEmpty(t, d.Objectives)
	}
}

func TestCatalogLoad(t *testing.T) {
	fsys := fstest.MapFS{
		"tiny.yaml":    {Data: []byte(minimalLevel)},
		"broken.yaml":  {Data: []byte("id: broken\nbounds: [")},
		"renamed.yaml": {Data: []byte(minimalLevel)},
	}
	c := NewCatalog(fsys, "")

	d, err := c.Load("tiny")
	require.NoError(t, err)
	assert.Equal(t, "Tiny", d.Name)
	assert.Len(t, d.Bones, 1)

	_, err = c.Load("missing")
	assert.ErrorIs(t, err, ErrUnknownLevel)

	_, err = c.Load("../tiny")
	assert.ErrorIs(t, err, ErrUnknownLevel)

	_, err = c.Load("broken")
	assert.ErrorIs(t, err, ErrInvalidLevel)

	_, err = c.Load("renamed")
	assert.ErrorIs(t, err, ErrInvalidLevel)

	entries, err := c.List()
	assert.Error(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "tiny", entries[0].ID)
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	d := &Descriptor{
		ID:        "bad",
		TimeLimit: -1,
		Spawn:     Vec{X: 100},
		Bounds:    Bounds{Min: Vec{X: -1, Y: -1}, Max: Vec{X: 1, Y: 1}},
		Geometry:  []Geometry{{Kind: "circle"}},
		Bones: []Bone{
			{ID: "dup", Weight: 1, Radius: 0.2},
			{ID: "dup", Weight: 0, Radius: 0.2},
		},
		Triggers: []Trigger{{ID: "exit", Kind: TriggerKill, W: 1, H: 1}},
		Objectives: []Objective{
			{ID: "reach", Kind: "reach", Target: "exit"},
			{ID: "gather", Kind: "collect", Count: 5},
		},
	}

	err := d.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidLevel))

	errs := multierr.Errors(err)
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		messages = append(messages, e.Error())
	}
	for _, want := range []string{
		"time_limit",
		"spawn (100.00,0.00) outside bounds",
		`geometry[0] unknown kind "circle"`,
		`bone id "dup" already used`,
		`bone "dup" needs positive weight`,
		`objective "reach" targets "exit" which is not a finish trigger`,
		`objective "gather" collect count 5 outside [1,2]`,
	} {
		assert.True(t, containsAny(messages, want), "missing %q in %v", want, messages)
	}
}

func containsAny(messages []string, sub string) bool {
	for _, m := range messages {
		if strings.Contains(m, sub) {
			return true
		}
	}
	return false
}

func TestBoundsContains(t *testing.T) {
	b := Bounds{Min: Vec{X: -1, Y: -2}, Max: Vec{X: 3, Y: 4}}
	assert.True(t, b.Contains(0, 0))
	assert.True(t, b.Contains(3, 4))
	assert.False(t, b.Contains(3.1, 0))
	assert.False(t, b.Contains(0, -2.5))
}
