package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultFormula(t *testing.T) {
	tests := []struct {
		name     string
		score    Score
		wantMana float64
		wantWon  bool
		wantHint string
	}{
		{"enough_mana", Score{BoneMass: 10, TimeRemaining: 30, RequiredMana: 200}, 300, true, HintVictory},
		{"exactly_required_is_short", Score{BoneMass: 4, TimeRemaining: 50, RequiredMana: 200}, 200, false, HintLowMana},
		{"just_over_required", Score{BoneMass: 4, TimeRemaining: 50.5, RequiredMana: 200}, 202, true, HintVictory},
		{"too_little", Score{BoneMass: 2, TimeRemaining: 10, RequiredMana: 200}, 20, false, HintLowMana},
		{"time_up", Score{BoneMass: 40, TimeRemaining: 0, RequiredMana: 1}, 0, false, HintTimeUp},
		{"negative_time_counts_as_zero", Score{BoneMass: 40, TimeRemaining: -3, RequiredMana: 1}, 0, false, HintTimeUp},
		{"zero_requirement_needs_some_mana", Score{BoneMass: 0, TimeRemaining: 10}, 0, false, HintLowMana},
		{"zero_requirement", Score{BoneMass: 1, TimeRemaining: 10}, 10, true, HintVictory},
		{"zero_requirement_time_up", Score{BoneMass: 5, TimeRemaining: 0}, 0, false, HintTimeUp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.wantMana, tt.score.Mana(), 1e-9)
			assert.Equal(t, tt.wantWon, tt.score.Won())
			assert.Equal(t, tt.wantHint, tt.score.Hint())
		})
	}
}

func TestEvaluateWithScript(t *testing.T) {
	script, err := Compile("bonus", `
mana = bone_mass * time_remaining
if collected >= 3 {
	mana = mana * 2
}
won = mana >= required_mana
`, nil)
	require.NoError(t, err)

	sc := Score{BoneMass: 5, TimeRemaining: 10, RequiredMana: 80}

	res := Evaluate(script, sc, 3)
	assert.InDelta(t, 100, res.Mana, 1e-9)
	assert.True(t, res.Won)
	assert.Equal(t, HintVictory, res.Hint)
	assert.Equal(t, 3, res.Collected)

	res = Evaluate(script, sc, 1)
	assert.InDelta(t, 50, res.Mana, 1e-9)
	assert.False(t, res.Won)
	assert.Equal(t, HintLowMana, res.Hint)
}

func TestCompileErrorIsScriptError(t *testing.T) {
	_, err := Compile("broken", "mana = = 3", nil)
	require.ErrorIs(t, err, ErrScript)
}

func TestRuntimeErrorFallsBack(t *testing.T) {
	script, err := Compile("not_callable", `mana = bone_mass(1)`, nil)
	require.NoError(t, err)

	sc := Score{BoneMass: 3, TimeRemaining: 10, RequiredMana: 10}
	assert.Equal(t, sc.Result(2), Evaluate(script, sc, 2))
}

func TestNilScriptUsesDefault(t *testing.T) {
	sc := Score{BoneMass: 3, TimeRemaining: 10, RequiredMana: 10}
	assert.Equal(t, sc.Result(0), Evaluate(nil, sc, 0))
}
