package assets

import (
	"testing"

	"github.com/milk9111/boneklod/prefabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanAssetPath(t *testing.T) {
	tests := map[string]string{
		"":                             "",
		"sounds/jump.wav":              "sounds/jump.wav",
		"assets/sounds/jump.wav":       "sounds/jump.wav",
		"/home/me/assets/sounds/a.wav": "sounds/a.wav",
		"/tmp/elsewhere/b.wav":         "b.wav",
	}
	for in, want := range tests {
		assert.Equal(t, want, cleanAssetPath(in), in)
	}
}

func TestEverySoundIsEmbedded(t *testing.T) {
	spec, err := prefabs.LoadSoundsSpec()
	require.NoError(t, err)
	require.NotEmpty(t, spec.Sounds)
	for _, s := range spec.Sounds {
		_, err := LoadFile(s.File)
		assert.NoError(t, err, s.Name)
	}
}
