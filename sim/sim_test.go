package sim

import (
	"bytes"
	"testing"
	"testing/fstest"

	"github.com/milk9111/boneklod/config"
	"github.com/milk9111/boneklod/gamestate"
	"github.com/milk9111/boneklod/input"
	"github.com/milk9111/boneklod/levels"
	"github.com/milk9111/boneklod/prefabs"
	"github.com/milk9111/boneklod/sfx"
	"github.com/milk9111/boneklod/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const flatLevel = `
id: flat
name: Flat
order: 1
time_limit: 60
required_mana: 0
spawn: {x: 0, y: 0.7}
bounds:
  min: {x: -50, y: -10}
  max: {x: 50, y: 30}
geometry:
  - {kind: box, x: 0, y: -0.5, w: 100, h: 1, friction: 0.9}
bones:
  - {id: b1, x: 3, y: 0.2, radius: 0.2, weight: 0.1}
triggers:
  - {id: goal, kind: finish, x: 8, y: 1, w: 1, h: 2}
objectives:
  - {id: reach, kind: reach, target: goal}
  - {id: gather, kind: collect, count: 1}
`

const timedLevel = `
id: timed
name: Timed
order: 2
time_limit: 0.5
spawn: {x: 0, y: 0.7}
bounds:
  min: {x: -50, y: -10}
  max: {x: 50, y: 30}
geometry:
  - {kind: box, x: 0, y: -0.5, w: 100, h: 1}
triggers:
  - {id: goal, kind: finish, x: 40, y: 1, w: 1, h: 2}
objectives:
  - {id: reach, kind: reach, target: goal}
`

func testOptions(t *testing.T, cues *sfx.Queue) Options {
	t.Helper()
	player, err := prefabs.LoadPlayerSpec()
	require.NoError(t, err)
	cam, err := prefabs.LoadCameraSpec()
	require.NoError(t, err)
	fsys := fstest.MapFS{
		"flat.yaml":  {Data: []byte(flatLevel)},
		"timed.yaml": {Data: []byte(timedLevel)},
	}
	return Options{
		Config: config.Default(),
		Player: player,
		Camera: cam,
		Levels: levels.NewCatalog(fsys, ""),
		Cues:   cues,
	}
}

func newTestSim(t *testing.T) (*Simulation, *sfx.Queue) {
	t.Helper()
	cues := sfx.NewQueue(256)
	s, err := New(testOptions(t, cues))
	require.NoError(t, err)
	return s, cues
}

func connected() input.Raw {
	return input.Raw{Connected: true}
}

func run(s *Simulation, raw input.Raw, frames int) {
	for range frames {
		s.Update(raw, s.dt)
	}
}

func startLevel(t *testing.T, s *Simulation, id string) {
	t.Helper()
	require.NoError(t, s.Start(id))
	run(s, connected(), 1)
	require.Equal(t, gamestate.Playing, s.State())
}

func TestSimRestingKlodStaysGrounded(t *testing.T) {
	s, _ := newTestSim(t)
	startLevel(t, s, "flat")

	run(s, connected(), 120)

	p, ok := s.Player()
	require.True(t, ok)
	assert.True(t, p.Grounded)
	assert.Equal(t, "grounded", p.Controller)
	assert.InDelta(t, 0, p.State.Velocity.X, 0.05)
	assert.InDelta(t, 0, p.State.Velocity.Y, 0.05)
	assert.InDelta(t, 0.6, p.State.Position.Y, 0.15)
}

func TestSimHeldJumpJumpsOnce(t *testing.T) {
	s, cues := newTestSim(t)
	startLevel(t, s, "flat")
	run(s, connected(), 60)
	cues.Drain()

	raw := connected()
	raw.Jump = true
	jumps := 0
	for range 90 {
		s.Update(raw, s.dt)
		for _, c := range cues.Drain() {
			if c.Name == sfx.Jump {
				jumps++
			}
		}
	}
	assert.Equal(t, 1, jumps)
}

func TestSimReachingGoalCompletesLevel(t *testing.T) {
	s, cues := newTestSim(t)
	startLevel(t, s, "flat")

	raw := connected()
	raw.Right = true
	for i := 0; i < 600 && s.State() == gamestate.Playing; i++ {
		s.Update(raw, s.dt)
	}
	require.Equal(t, gamestate.LevelComplete, s.State())

	sess := s.Session()
	require.NotNil(t, sess)
	require.NotNil(t, sess.Result)
	assert.True(t, sess.Result.Won)
	assert.Equal(t, 1, sess.Result.Collected)
	assert.Equal(t, ui.ScreenLevelComplete, s.Navigator().Screen().ID)

	var names []string
	for _, c := range cues.Drain() {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, sfx.Pickup)
	assert.Contains(t, names, sfx.Complete)

	// Gameplay is frozen once the level is over.
	sum := s.Checksum()
	run(s, raw, 30)
	assert.Equal(t, sum, s.Checksum())
}

func TestSimPauseFreezesBodies(t *testing.T) {
	s, _ := newTestSim(t)
	startLevel(t, s, "flat")

	raw := connected()
	raw.Right = true
	run(s, raw, 20)

	pause := connected()
	pause.Pause = true
	s.Update(pause, s.dt)
	require.Equal(t, gamestate.Paused, s.State())
	assert.Equal(t, ui.ScreenPause, s.Navigator().Screen().ID)

	sum := s.Checksum()
	elapsed := s.Session().Elapsed
	run(s, connected(), 45)
	assert.Equal(t, sum, s.Checksum())
	assert.Equal(t, elapsed, s.Session().Elapsed)

	confirm := connected()
	confirm.Confirm = true
	s.Update(confirm, s.dt)
	require.Equal(t, gamestate.Playing, s.State())

	run(s, connected(), 5)
	assert.NotEqual(t, sum, s.Checksum())
}

func TestSimCameraHoldsOutsidePlaying(t *testing.T) {
	s, _ := newTestSim(t)
	startLevel(t, s, "flat")

	raw := connected()
	raw.Right = true
	for range 40 {
		s.Update(raw, s.dt)
		s.UpdateCamera(s.dt)
	}

	pause := connected()
	pause.Pause = true
	s.Update(pause, s.dt)
	require.Equal(t, gamestate.Paused, s.State())

	held := s.Camera().Pos
	for range 30 {
		s.Update(connected(), s.dt)
		s.UpdateCamera(s.dt)
	}
	assert.Equal(t, held, s.Camera().Pos)

	confirm := connected()
	confirm.Confirm = true
	s.Update(confirm, s.dt)
	require.Equal(t, gamestate.Playing, s.State())
	s.UpdateCamera(s.dt)
	assert.NotEqual(t, held, s.Camera().Pos)
}

func TestSimUnknownLevelReturnsToMenu(t *testing.T) {
	s, _ := newTestSim(t)
	require.NoError(t, s.Start("missing"))
	run(s, connected(), 1)

	assert.Equal(t, gamestate.MainMenu, s.State())
	require.ErrorIs(t, s.Err(), levels.ErrUnknownLevel)
	screen := s.Navigator().Screen()
	assert.Equal(t, ui.ScreenMainMenu, screen.ID)
	assert.NotEmpty(t, screen.Body)
	assert.Nil(t, s.Level())
}

func TestSimTimeLimitEndsInGameOver(t *testing.T) {
	s, cues := newTestSim(t)
	startLevel(t, s, "timed")

	run(s, connected(), 60)
	require.Equal(t, gamestate.GameOver, s.State())
	sess := s.Session()
	require.NotNil(t, sess.Result)
	assert.False(t, sess.Result.Won)
	assert.Equal(t, gamestate.FailTimeUp, sess.Fail)
	assert.Equal(t, gamestate.FailTimeUp.Hint(), sess.Result.Hint)

	var names []string
	for _, c := range cues.Drain() {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, sfx.Fail)

	// Retry is focused first on the game over screen.
	confirm := connected()
	confirm.Confirm = true
	s.Update(confirm, s.dt)
	assert.Equal(t, gamestate.Loading, s.State())
	run(s, connected(), 1)
	assert.Equal(t, gamestate.Playing, s.State())
	assert.Equal(t, "timed", s.Level().ID)
}

func TestSimMenuStartsFirstLevel(t *testing.T) {
	s, cues := newTestSim(t)
	assert.Equal(t, ui.ScreenMainMenu, s.Navigator().Screen().ID)

	confirm := connected()
	confirm.Confirm = true
	s.Update(confirm, s.dt)
	require.Equal(t, gamestate.Loading, s.State())
	run(s, connected(), 1)
	require.Equal(t, gamestate.Playing, s.State())
	assert.Equal(t, "flat", s.Level().ID)

	var names []string
	for _, c := range cues.Drain() {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, sfx.UISelect)
}

func TestSimSpiralOfDeathIsBounded(t *testing.T) {
	s, _ := newTestSim(t)
	startLevel(t, s, "flat")

	s.Update(connected(), 10)
	steps := s.Recording().Steps
	assert.LessOrEqual(t, steps, s.cfg.Physics.MaxStepsPerFrame)
	assert.GreaterOrEqual(t, steps, s.cfg.Physics.MaxStepsPerFrame-1)
}

func TestReplayReproducesChecksum(t *testing.T) {
	s, _ := newTestSim(t)
	startLevel(t, s, "flat")

	right := connected()
	right.Right = true
	jump := right
	jump.Jump = true
	run(s, right, 30)
	run(s, jump, 1)
	run(s, right, 10)
	run(s, connected(), 20)
	require.Equal(t, gamestate.Playing, s.State())

	rec := s.Recording()
	require.NotNil(t, rec)
	assert.Equal(t, 61, rec.Steps)
	assert.Less(t, len(rec.Frames), rec.Steps)

	var buf bytes.Buffer
	require.NoError(t, rec.Encode(&buf))
	decoded, err := DecodeRecording(&buf)
	require.NoError(t, err)

	sum, err := Replay(testOptions(t, nil), decoded)
	require.NoError(t, err)
	assert.Equal(t, s.Checksum(), sum)

	decoded.Checksum++
	_, err = Replay(testOptions(t, nil), decoded)
	require.ErrorIs(t, err, ErrReplayMismatch)
}

func TestApplyPlayerSpecRetunesLiveKlod(t *testing.T) {
	s, _ := newTestSim(t)
	startLevel(t, s, "flat")

	spec := *s.playerSpec
	spec.Controller.MaxSpeed = 3
	s.ApplyPlayerSpec(&spec)

	p, ok := s.Player()
	require.True(t, ok)
	assert.Equal(t, 3.0, p.player.Tuning.MaxSpeed)
}
