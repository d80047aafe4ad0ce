package sim

import (
	"errors"
	"fmt"
	"io"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/boneklod/gamestate"
	"github.com/milk9111/boneklod/input"
	"gopkg.in/yaml.v3"
)

var ErrReplayMismatch = errors.New("sim: replay diverged")

// Frame is the intent applied on one or more consecutive steps.
type Frame struct {
	MoveX   float64 `yaml:"mx,omitempty"`
	MoveY   float64 `yaml:"my,omitempty"`
	Jump    bool    `yaml:"jump,omitempty"`
	Restart bool    `yaml:"restart,omitempty"`
	// Repeat is how many extra steps reuse this frame.
	Repeat int `yaml:"repeat,omitempty"`
}

func frameOf(i input.Intent) Frame {
	return Frame{MoveX: i.Move.X, MoveY: i.Move.Y, Jump: i.JumpPressed, Restart: i.RestartHeld}
}

func (f Frame) intent() input.Intent {
	return input.Intent{
		Move:        cp.Vector{X: f.MoveX, Y: f.MoveY},
		JumpPressed: f.Jump,
		RestartHeld: f.Restart,
	}
}

// Recording is the input of one play session, enough to replay it.
type Recording struct {
	Level    string  `yaml:"level"`
	TickRate int     `yaml:"tick_rate"`
	Steps    int     `yaml:"steps"`
	Checksum uint64  `yaml:"checksum"`
	Frames   []Frame `yaml:"frames"`
}

func newRecording(level string, tickRate int) *Recording {
	return &Recording{Level: level, TickRate: tickRate}
}

func (r *Recording) add(applied input.Intent, checksum uint64) {
	f := frameOf(applied)
	r.Steps++
	r.Checksum = checksum
	if n := len(r.Frames); n > 0 {
		last := &r.Frames[n-1]
		prev := *last
		prev.Repeat = 0
		if prev == f {
			last.Repeat++
			return
		}
	}
	r.Frames = append(r.Frames, f)
}

func (r *Recording) each(fn func(input.Intent) bool) {
	for _, f := range r.Frames {
		for range f.Repeat + 1 {
			if !fn(f.intent()) {
				return
			}
		}
	}
}

func (r *Recording) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("sim: encode recording: %w", err)
	}
	return enc.Close()
}

func DecodeRecording(rd io.Reader) (*Recording, error) {
	var rec Recording
	if err := yaml.NewDecoder(rd).Decode(&rec); err != nil {
		return nil, fmt.Errorf("sim: decode recording: %w", err)
	}
	return &rec, nil
}

// Recording is the input recorded since the level was loaded, nil outside
// a level.
func (s *Simulation) Recording() *Recording {
	if s.recording == nil {
		return nil
	}
	out := *s.recording
	out.Frames = append([]Frame(nil), s.recording.Frames...)
	return &out
}

// Replay loads rec's level in a fresh simulation, feeds the recorded
// intents one step at a time and returns the final checksum. It fails with
// ErrReplayMismatch when the checksum differs from the recorded one.
func Replay(opts Options, rec *Recording) (uint64, error) {
	if rec == nil {
		return 0, errors.New("sim: nil recording")
	}
	if rec.TickRate > 0 {
		opts.Config.Physics.TickRate = rec.TickRate
	}
	s, err := New(opts)
	if err != nil {
		return 0, err
	}
	if err := s.Start(rec.Level); err != nil {
		return 0, err
	}
	s.load()
	if s.level == nil {
		return 0, fmt.Errorf("sim: replay %s: %w", rec.Level, s.Err())
	}

	steps := 0
	rec.each(func(intent input.Intent) bool {
		if s.machine.State() != gamestate.Playing {
			return false
		}
		s.level.inputs.Set(intent)
		s.step()
		steps++
		return true
	})

	sum := s.Checksum()
	if steps != rec.Steps || sum != rec.Checksum {
		return sum, fmt.Errorf("%w: %d/%d steps, checksum %016x want %016x",
			ErrReplayMismatch, steps, rec.Steps, sum, rec.Checksum)
	}
	return sum, nil
}
