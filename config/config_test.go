package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
	assert.InDelta(t, 1.0/60.0, Default().FixedDT(), 1e-12)
}

func TestLoadOverlaysFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "boneklod.yaml")
	require.NoError(t, os.WriteFile(path, []byte("physics:\n  tick_rate: 120\ninput:\n  dead_zone: 0.2\nstart_level: crypt\n"), 0o644))

	t.Setenv("BONEKLOD_INPUT_DEAD_ZONE", "0.25")
	t.Setenv("BONEKLOD_DEBUG", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.Physics.TickRate)
	assert.Equal(t, 20, cfg.Physics.Iterations, "untouched fields keep defaults")
	assert.Equal(t, 0.25, cfg.Input.DeadZone, "env wins over file")
	assert.Equal(t, "crypt", cfg.StartLevel)
	assert.True(t, cfg.Debug)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidateAggregatesProblems(t *testing.T) {
	cfg := Default()
	cfg.Physics.TickRate = 1
	cfg.Input.DeadZone = 1.5
	cfg.Audio.Master = 2

	err := cfg.Validate()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 3)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}
