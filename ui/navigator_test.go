package ui

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/boneklod/input"
	"github.com/milk9111/boneklod/levels"
	"github.com/milk9111/boneklod/score"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	down  = input.Intent{Move: cp.Vector{Y: -1}}
	up    = input.Intent{Move: cp.Vector{Y: 1}}
	right = input.Intent{Move: cp.Vector{X: 1}}
	idle  = input.Intent{}
)

func threeItems(wrap bool) *Screen {
	return VerticalScreen("test", "Test", wrap,
		Element{ID: "a", Action: Action{Kind: ActionStart}},
		Element{ID: "b", Action: Action{Kind: ActionRules}},
		Element{ID: "c", Action: Action{Kind: ActionQuit}},
	)
}

func ready(s *Screen) *Navigator {
	n := NewNavigator(DefaultConfig())
	n.SetScreen(s)
	n.Update(idle, 1.0/60)
	return n
}

func TestDiscretize(t *testing.T) {
	tests := []struct {
		name string
		move cp.Vector
		want Direction
	}{
		{"idle", cp.Vector{}, DirNone},
		{"below_threshold", cp.Vector{X: 0.3, Y: 0.4}, DirNone},
		{"up", cp.Vector{Y: 0.8}, DirUp},
		{"down", cp.Vector{Y: -0.6}, DirDown},
		{"left_dominant", cp.Vector{X: -0.7, Y: 0.6}, DirLeft},
		{"right_on_tie", cp.Vector{X: 0.6, Y: 0.6}, DirRight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Discretize(input.Intent{Move: tt.move}, 0.5))
		})
	}
}

func TestWrapVersusClamp(t *testing.T) {
	tests := []struct {
		name string
		wrap bool
		dir  input.Intent
		want string
	}{
		{"clamp_at_top", false, up, "a"},
		{"wrap_to_bottom", true, up, "c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := ready(threeItems(tt.wrap))
			require.Equal(t, "a", n.Focused())
			n.Update(tt.dir, 1.0/60)
			assert.Equal(t, tt.want, n.Focused())
		})
	}

	n := ready(threeItems(false))
	n.Focus("c")
	n.Update(down, 1.0/60)
	assert.Equal(t, "c", n.Focused(), "clamped screen must not move past the last element")

	n = ready(threeItems(true))
	n.Focus("c")
	n.Update(down, 1.0/60)
	assert.Equal(t, "a", n.Focused())
}

func TestDefaultConfig(t *testing.T) {
	assert.Equal(t, Config{RepeatDelay: 0.4, RepeatInterval: 0.15, Threshold: 0.5}, DefaultConfig())
	assert.Equal(t, DefaultConfig(), NewNavigator(Config{}).cfg)
}

func TestRepeatDelay(t *testing.T) {
	n := NewNavigator(Config{RepeatDelay: 0.5, RepeatInterval: 0.25, Threshold: 0.5})
	n.SetScreen(VerticalScreen("long", "", false,
		Element{ID: "0"}, Element{ID: "1"}, Element{ID: "2"}, Element{ID: "3"}, Element{ID: "4"},
	))
	n.Update(idle, 0)

	var moves int
	n.OnMove = func(_, _ string) { moves++ }

	const dt = 0.125
	n.Update(down, dt)
	assert.Equal(t, 1, moves, "first press moves immediately")

	for i := 0; i < 3; i++ {
		n.Update(down, dt)
	}
	assert.Equal(t, 1, moves, "no repeat inside the delay")

	n.Update(down, dt)
	assert.Equal(t, 2, moves, "first repeat once the delay elapsed")

	for i := 0; i < 2; i++ {
		n.Update(down, dt)
	}
	assert.Equal(t, 3, moves, "then one move per interval")

	n.Update(idle, dt)
	n.Update(down, dt)
	assert.Equal(t, 4, moves, "release and press moves again at once")
	assert.Equal(t, "4", n.Focused())
}

func TestHeldDirectionIgnoredAfterScreenChange(t *testing.T) {
	n := ready(threeItems(false))
	n.Update(down, 0.1)
	require.Equal(t, "b", n.Focused())

	n.SetScreen(threeItems(false))
	for i := 0; i < 20; i++ {
		n.Update(down, 0.1)
	}
	assert.Equal(t, "a", n.Focused())

	n.Update(idle, 0.1)
	n.Update(down, 0.1)
	assert.Equal(t, "b", n.Focused())
}

func TestConfirmActivatesFocused(t *testing.T) {
	n := ready(threeItems(false))
	n.Update(down, 0.1)

	act, ok := n.Update(input.Intent{ConfirmPressed: true}, 0.1)
	require.True(t, ok)
	assert.Equal(t, ActionRules, act.Kind)

	act, ok = n.Update(input.Intent{JumpPressed: true}, 0.1)
	require.True(t, ok)
	assert.Equal(t, ActionRules, act.Kind)
}

func TestBackUsesScreenBackAction(t *testing.T) {
	n := ready(Pause())
	act, ok := n.Update(input.Intent{BackPressed: true}, 0.1)
	require.True(t, ok)
	assert.Equal(t, ActionResume, act.Kind)

	n = ready(threeItems(false))
	_, ok = n.Update(input.Intent{BackPressed: true}, 0.1)
	assert.False(t, ok)
}

func TestDisabledElementsAreSkipped(t *testing.T) {
	n := ready(LevelComplete(score.Result{Won: false}, "next"))
	assert.Equal(t, "retry", n.Focused())

	n.Update(input.Intent{Move: cp.Vector{X: -1}}, 0.1)
	assert.Equal(t, "retry", n.Focused())

	n.Update(idle, 0.1)
	n.Update(right, 0.1)
	assert.Equal(t, "menu", n.Focused())

	_, ok := n.Activate("next")
	assert.False(t, ok)
}

func TestPointerFocusAndActivate(t *testing.T) {
	entries := []levels.Entry{{ID: "meadow", Name: "Bone Meadow"}, {ID: "ossuary"}}
	n := ready(LevelSelect(entries, false))

	assert.True(t, n.Focus("level:ossuary"))
	assert.False(t, n.Focus("missing"))

	act, ok := n.Activate("level:ossuary")
	require.True(t, ok)
	assert.Equal(t, Action{Kind: ActionSelectLevel, Level: "ossuary"}, act)
}

func TestMainMenuWithoutLevels(t *testing.T) {
	s := MainMenu(nil, true, "levels: unknown level")
	n := ready(s)
	assert.Equal(t, "rules", n.Focused())
	assert.Equal(t, []string{"levels: unknown level"}, s.Body)
}
