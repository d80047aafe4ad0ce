package sfx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueue(t *testing.T) {
	q := NewQueue(2)
	q.At(Jump, 1, 2)
	q.UI(UIMove)
	q.At(Impact, 0, 0)
	q.Emit(Cue{})

	cues := q.Drain()
	assert.Equal(t, []Cue{
		{Name: Jump, X: 1, Y: 2, Volume: 1},
		{Name: UIMove, Volume: 1, Global: true},
	}, cues)
	assert.Nil(t, q.Drain())
	assert.Zero(t, q.Len())
}

func TestNilQueue(t *testing.T) {
	var q *Queue
	q.At(Jump, 0, 0)
	assert.Nil(t, q.Drain())
	assert.Zero(t, q.Len())
}

func TestGain(t *testing.T) {
	tests := []struct {
		name    string
		cue     Cue
		falloff float64
		want    float64
	}{
		{"global ignores distance", Cue{Volume: 0.5, X: 100, Global: true}, 10, 0.5},
		{"at listener", Cue{Volume: 1}, 10, 1},
		{"half way", Cue{Volume: 1, X: 3, Y: 4}, 10, 0.5},
		{"beyond falloff", Cue{Volume: 1, X: 30}, 10, 0},
		{"no falloff", Cue{Volume: 0.8, X: 30}, 0, 0.8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Gain(tt.cue, 0, 0, tt.falloff), 1e-9)
		})
	}
}
