package entity

import (
	"fmt"
	"image/color"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/boneklod/ecs"
	"github.com/milk9111/boneklod/ecs/component"
	"github.com/milk9111/boneklod/levels"
	"github.com/milk9111/boneklod/physics"
	"github.com/milk9111/boneklod/prefabs"
	"go.uber.org/multierr"
)

var (
	groundColor   = color.RGBA{R: 0x5a, G: 0x6b, B: 0x3a, A: 0xff}
	boneColor     = color.RGBA{R: 0xf2, G: 0xee, B: 0xe3, A: 0xff}
	powerColor    = color.RGBA{R: 0xff, G: 0xc8, B: 0x4a, A: 0xff}
	obstacleColor = color.RGBA{R: 0x8a, G: 0x4b, B: 0x3c, A: 0xff}
	finishColor   = color.RGBA{R: 0x4a, G: 0xd0, B: 0x8c, A: 0x60}
	switchColor   = color.RGBA{R: 0x4a, G: 0x9c, B: 0xff, A: 0x60}
	killColor     = color.RGBA{R: 0xff, G: 0x40, B: 0x40, A: 0x30}
)

const boneDensity = 1.0

// LoadLevelToWorld spawns a level's geometry, pickups, obstacles, triggers
// and the klod. It returns the klod entity.
func LoadLevelToWorld(w *ecs.World, pw *physics.World, lvl *levels.Descriptor, player *prefabs.PlayerSpec) (ecs.Entity, error) {
	if lvl == nil {
		return 0, fmt.Errorf("load level: %w: nil descriptor", levels.ErrInvalidLevel)
	}

	var errs error
	for i, g := range lvl.Geometry {
		errs = multierr.Append(errs, addGeometry(w, pw, g, i))
	}
	for _, b := range lvl.Bones {
		errs = multierr.Append(errs, addBone(w, pw, b))
	}
	for _, o := range lvl.Obstacles {
		errs = multierr.Append(errs, addObstacle(w, pw, o))
	}
	for _, t := range lvl.Triggers {
		errs = multierr.Append(errs, addTrigger(w, pw, t))
	}
	if errs != nil {
		return 0, fmt.Errorf("load level %s: %w", lvl.ID, errs)
	}

	e, err := NewPlayerAt(w, pw, player, lvl.Spawn.X, lvl.Spawn.Y)
	if err != nil {
		return 0, fmt.Errorf("load level %s: %w", lvl.ID, err)
	}
	return e, nil
}

func addGeometry(w *ecs.World, pw *physics.World, g levels.Geometry, index int) error {
	e := ecs.CreateEntity(w)
	def := physics.BodyDef{
		Kind:     physics.Static,
		Friction: g.Friction,
		Category: physics.CategoryGround,
	}
	switch g.Kind {
	case levels.GeometryBox:
		def.Shape = physics.Box
		def.Position = vec(g.X, g.Y)
		def.Angle = g.Angle
		def.Width = g.W
		def.Height = g.H
	case levels.GeometrySegment:
		def.Shape = physics.Segment
		def.A = vec(g.A.X, g.A.Y)
		def.B = vec(g.B.X, g.B.Y)
		def.Radius = g.Radius
	default:
		return fmt.Errorf("geometry[%d]: %w: kind %q", index, levels.ErrInvalidLevel, g.Kind)
	}
	if _, err := attachBody(w, pw, e, def); err != nil {
		return err
	}
	if err := ecs.Add(w, e, component.GroundTagComponent.Kind(), &component.GroundTag{}); err != nil {
		return err
	}
	return addAppearance(w, e, parseHexColor(g.Color, groundColor), component.LayerGeometry)
}

func addBone(w *ecs.World, pw *physics.World, b levels.Bone) error {
	e := ecs.CreateEntity(w)
	mass := boneDensity * b.Weight
	if _, err := attachBody(w, pw, e, physics.BodyDef{
		Kind:       physics.Dynamic,
		Shape:      physics.Circle,
		Position:   vec(b.X, b.Y),
		Radius:     b.Radius,
		Mass:       mass,
		Friction:   0.8,
		Elasticity: 0.1,
		Category:   physics.CategoryProp,
	}); err != nil {
		return fmt.Errorf("bone %s: %w", b.ID, err)
	}
	if err := ecs.Add(w, e, component.BoneComponent.Kind(), &component.Bone{
		ID:     b.ID,
		Weight: b.Weight,
		Radius: b.Radius,
		Power:  b.Power,
	}); err != nil {
		return err
	}
	c := boneColor
	if b.Power != "" {
		c = powerColor
	}
	return addAppearance(w, e, c, component.LayerProp)
}

func addObstacle(w *ecs.World, pw *physics.World, o levels.Obstacle) error {
	e := ecs.CreateEntity(w)
	if _, err := attachBody(w, pw, e, physics.BodyDef{
		Kind:     physics.Static,
		Shape:    physics.Box,
		Position: vec(o.X, o.Y),
		Width:    o.W,
		Height:   o.H,
		Friction: 0.6,
		Category: physics.CategoryObstacle,
	}); err != nil {
		return fmt.Errorf("obstacle %s: %w", o.ID, err)
	}
	requires := append([]string(nil), o.Requires...)
	if err := ecs.Add(w, e, component.ObstacleComponent.Kind(), &component.Obstacle{ID: o.ID, Requires: requires}); err != nil {
		return err
	}
	return addAppearance(w, e, obstacleColor, component.LayerGeometry)
}

func addTrigger(w *ecs.World, pw *physics.World, t levels.Trigger) error {
	var (
		kind component.TriggerKind
		fill color.RGBA
	)
	switch t.Kind {
	case levels.TriggerFinish:
		kind, fill = component.TriggerFinish, finishColor
	case levels.TriggerSwitch:
		kind, fill = component.TriggerSwitch, switchColor
	case levels.TriggerKill:
		kind, fill = component.TriggerKill, killColor
	default:
		return fmt.Errorf("trigger %s: %w: kind %q", t.ID, levels.ErrInvalidLevel, t.Kind)
	}

	e := ecs.CreateEntity(w)
	if _, err := attachBody(w, pw, e, physics.BodyDef{
		Kind:     physics.Static,
		Shape:    physics.Box,
		Position: cp.Vector{X: t.X, Y: t.Y},
		Width:    t.W,
		Height:   t.H,
		Sensor:   true,
		Category: physics.CategorySensor,
	}); err != nil {
		return fmt.Errorf("trigger %s: %w", t.ID, err)
	}
	if err := ecs.Add(w, e, component.TriggerComponent.Kind(), &component.Trigger{ID: t.ID, Kind: kind}); err != nil {
		return err
	}
	return addAppearance(w, e, fill, component.LayerTrigger)
}
