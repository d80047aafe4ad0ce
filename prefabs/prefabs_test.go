package prefabs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestEmbeddedSpecsLoad(t *testing.T) {
	player, err := LoadPlayerSpec()
	require.NoError(t, err)
	assert.Equal(t, "klod", player.Name)
	assert.InDelta(t, 45, player.Controller.GroundAngle, 1e-9)
	assert.False(t, player.Controller.DoubleJump)

	cam, err := LoadCameraSpec()
	require.NoError(t, err)
	assert.InDelta(t, 0.2, cam.Smooth90, 1e-9)

	sounds, err := LoadSoundsSpec()
	require.NoError(t, err)
	assert.NotEmpty(t, sounds.Sounds)
}

func TestPlayerSpecValidate(t *testing.T) {
	base, err := LoadPlayerSpec()
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*PlayerSpec)
	}{
		{"zero_radius", func(s *PlayerSpec) { s.Radius = 0 }},
		{"zero_mass", func(s *PlayerSpec) { s.Mass = 0 }},
		{"flat_ground_angle", func(s *PlayerSpec) { s.Controller.GroundAngle = 90 }},
		{"air_control_over_one", func(s *PlayerSpec) { s.Controller.AirControl = 1.5 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			spec := *base
			tc.mutate(&spec)
			assert.Error(t, spec.Validate())
		})
	}
}

func TestYAMLColor(t *testing.T) {
	var out struct {
		C *YAMLColor `yaml:"c"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(`c: "#ff000080"`), &out))
	r, g, b, a := out.C.Color.RGBA()
	assert.NotZero(t, r)
	assert.Zero(t, g)
	assert.Zero(t, b)
	assert.Equal(t, uint32(0x8080), a)

	require.Error(t, yaml.Unmarshal([]byte(`c: "#ff"`), &out))
}

func TestCleanPrefabPath(t *testing.T) {
	assert.Equal(t, "player.yaml", cleanPrefabPath("prefabs/player.yaml"))
	assert.Equal(t, "camera.yaml", cleanPrefabPath("camera.yaml"))
	assert.Equal(t, "", cleanPrefabPath(""))
}

func TestWatcherReportsYAMLWrites(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "player.yaml"), []byte("name: x\n"), 0o644))

	select {
	case c := <-w.Events:
		assert.Equal(t, "player.yaml", c.Name())
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestIsYAML(t *testing.T) {
	assert.True(t, isYAML("levels/meadow.yaml"))
	assert.True(t, isYAML("prefabs/CAMERA.YML"))
	assert.False(t, isYAML("prefabs/player.yaml~"))
	assert.False(t, isYAML("notes.txt"))
}
