package camera

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/boneklod/common"
	"github.com/milk9111/boneklod/levels"
	"github.com/milk9111/boneklod/physics"
	"github.com/milk9111/boneklod/prefabs"
)

// Subject is what the camera follows.
type Subject struct {
	Position cp.Vector
	// Facing is +1 or -1; zero counts as +1.
	Facing float64
}

// Occluder answers line-of-sight queries. *physics.World implements it.
type Occluder interface {
	Raycast(from, to cp.Vector, mask physics.Category) (physics.RayHit, bool)
}

type Config struct {
	// Zoom is pixels per world unit.
	Zoom        float64
	Behind      float64
	Height      float64
	Smooth90    float64
	MinDistance float64
	Padding     float64
	LookRange   float64
	LookReturn  float64
}

func ConfigFromSpec(s *prefabs.CameraSpec) Config {
	if s == nil {
		return DefaultConfig()
	}
	return Config{
		Zoom:        s.Zoom,
		Behind:      s.Behind,
		Height:      s.Height,
		Smooth90:    s.Smooth90,
		MinDistance: s.MinDistance,
		Padding:     s.Padding,
		LookRange:   s.LookRange,
		LookReturn:  s.LookReturn,
	}
}

func DefaultConfig() Config {
	return Config{
		Zoom:        common.PixelsPerUnit,
		Behind:      -2.5,
		Height:      2.5,
		Smooth90:    0.2,
		MinDistance: 1.2,
		Padding:     0.3,
		LookRange:   4,
		LookReturn:  0.35,
	}
}

// Rig is a follow camera. Pos is the view centre in world units.
type Rig struct {
	cfg Config

	Pos      cp.Vector
	smoothed cp.Vector
	look     cp.Vector
	occluded bool

	bounds  levels.Bounds
	bounded bool
	viewW   float64
	viewH   float64
}

func NewRig(cfg Config) *Rig {
	if cfg.Zoom <= 0 {
		cfg.Zoom = common.PixelsPerUnit
	}
	return &Rig{cfg: cfg}
}

func (r *Rig) Config() Config { return r.cfg }

// SetConfig swaps tuning without moving the camera.
func (r *Rig) SetConfig(cfg Config) {
	if cfg.Zoom <= 0 {
		cfg.Zoom = r.cfg.Zoom
	}
	r.cfg = cfg
}

// SetBounds keeps the view inside b for a screen of the given pixel size.
func (r *Rig) SetBounds(b levels.Bounds, screenW, screenH float64) {
	r.bounds = b
	r.bounded = true
	r.viewW = screenW / r.cfg.Zoom
	r.viewH = screenH / r.cfg.Zoom
}

func (r *Rig) ClearBounds() {
	r.bounded = false
}

// Occluded reports whether the last update pulled the camera in.
func (r *Rig) Occluded() bool { return r.occluded }

// Look is the current look offset.
func (r *Rig) Look() cp.Vector { return r.look }

// Target is where the camera wants to be before smoothing and occlusion.
func (r *Rig) Target(s Subject) cp.Vector {
	facing := s.Facing
	if facing == 0 {
		facing = 1
	}
	t := cp.Vector{
		X: s.Position.X - facing*r.cfg.Behind + r.look.X,
		Y: s.Position.Y + r.cfg.Height + r.look.Y,
	}
	return r.clamp(t)
}

// Update moves the camera one render frame towards its target. occ may be
// nil to skip the line-of-sight check.
func (r *Rig) Update(s Subject, look cp.Vector, dt float64, occ Occluder) {
	if dt <= 0 || !common.IsFinite(dt) {
		return
	}
	r.updateLook(look, dt)

	target := r.Target(s)
	a := common.ExpSmoothing(r.cfg.Smooth90, dt)
	r.smoothed = r.smoothed.Add(target.Sub(r.smoothed).Mult(a))
	r.Pos = r.pullIn(s.Position, r.smoothed, occ)
}

// Snap places the camera on its target, used on level load.
func (r *Rig) Snap(s Subject, occ Occluder) {
	r.look = cp.Vector{}
	r.smoothed = r.Target(s)
	r.Pos = r.pullIn(s.Position, r.smoothed, occ)
}

func (r *Rig) updateLook(look cp.Vector, dt float64) {
	if look.X != 0 || look.Y != 0 {
		r.look = r.look.Add(look).Clamp(r.cfg.LookRange)
		return
	}
	r.look = r.look.Mult(1 - common.ExpSmoothing(r.cfg.LookReturn, dt))
	if r.look.LengthSq() < 1e-8 {
		r.look = cp.Vector{}
	}
}

// pullIn moves the camera in front of the first opaque collider between
// the subject and the camera, keeping at least MinDistance.
func (r *Rig) pullIn(subject, cam cp.Vector, occ Occluder) cp.Vector {
	r.occluded = false
	if occ == nil {
		return cam
	}
	hit, ok := occ.Raycast(subject, cam, physics.CategoryOpaque)
	if !ok {
		return cam
	}
	dir := cam.Sub(subject)
	dist := dir.Length()
	if dist == 0 {
		return cam
	}
	d := dist*hit.Alpha - r.cfg.Padding
	d = math.Min(math.Max(d, r.cfg.MinDistance), dist)
	r.occluded = true
	return subject.Add(dir.Mult(d / dist))
}

func (r *Rig) clamp(p cp.Vector) cp.Vector {
	if !r.bounded {
		return p
	}
	halfW, halfH := r.viewW/2, r.viewH/2
	minX, maxX := r.bounds.Min.X+halfW, r.bounds.Max.X-halfW
	minY, maxY := r.bounds.Min.Y+halfH, r.bounds.Max.Y-halfH
	if maxX < minX {
		p.X = (r.bounds.Min.X + r.bounds.Max.X) / 2
	} else {
		p.X = common.Clamp(p.X, minX, maxX)
	}
	if maxY < minY {
		p.Y = (r.bounds.Min.Y + r.bounds.Max.Y) / 2
	} else {
		p.Y = common.Clamp(p.Y, minY, maxY)
	}
	return p
}

// WorldToScreen maps a world point to screen pixels with the camera at the
// screen centre and y flipped.
func (r *Rig) WorldToScreen(p cp.Vector, screenW, screenH float64) (float64, float64) {
	z := r.cfg.Zoom
	return (p.X-r.Pos.X)*z + screenW/2, (r.Pos.Y-p.Y)*z + screenH/2
}

// Zoom is pixels per world unit.
func (r *Rig) Zoom() float64 { return r.cfg.Zoom }
