package main

import (
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/boneklod/assets"
	"github.com/milk9111/boneklod/config"
	"github.com/milk9111/boneklod/prefabs"
	"github.com/milk9111/boneklod/sfx"
	"go.uber.org/zap"
)

// maxVoices bounds how many sounds play at once.
const maxVoices = 16

type clip struct {
	name   string
	pcm    []byte
	volume float64
}

func loadClip(s prefabs.AudioSpec) (clip, error) {
	pcm, err := assets.LoadPCM(s.File)
	if err != nil {
		return clip{}, err
	}
	vol := s.Volume
	if vol <= 0 {
		vol = 1
	}
	return clip{name: s.Name, pcm: pcm, volume: vol}, nil
}

// soundboard plays drained cues, fading positional ones with distance from
// the listener.
type soundboard struct {
	cfg    config.AudioConfig
	ctx    *audio.Context
	clips  map[string]clip
	voices []*audio.Player
	log    *zap.Logger
}

func newSoundboard(cfg config.AudioConfig, clips []clip, log *zap.Logger) *soundboard {
	b := &soundboard{
		cfg:   cfg,
		ctx:   assets.AudioContext(),
		clips: make(map[string]clip, len(clips)),
		log:   log.Named("audio"),
	}
	for _, c := range clips {
		if c.name != "" {
			b.clips[c.name] = c
		}
	}
	return b
}

func (b *soundboard) play(cues []sfx.Cue, listener cp.Vector) {
	b.reap()
	for _, cue := range cues {
		c, ok := b.clips[cue.Name]
		if !ok {
			b.log.Debug("no clip for cue", zap.String("cue", cue.Name))
			continue
		}
		gain := sfx.Gain(cue, listener.X, listener.Y, b.cfg.Falloff) * c.volume * b.cfg.Master * b.cfg.Effects
		if gain <= 0 || len(b.voices) >= maxVoices {
			continue
		}
		p := b.ctx.NewPlayerFromBytes(c.pcm)
		p.SetVolume(min(gain, 1))
		p.Play()
		b.voices = append(b.voices, p)
	}
}

// reap closes players that finished.
func (b *soundboard) reap() {
	live := b.voices[:0]
	for _, p := range b.voices {
		if p.IsPlaying() {
			live = append(live, p)
			continue
		}
		_ = p.Close()
	}
	b.voices = live
}

func (b *soundboard) close() {
	for _, p := range b.voices {
		_ = p.Close()
	}
	b.voices = nil
}
