package entity

import (
	"fmt"
	"image/color"

	"github.com/milk9111/boneklod/ecs"
	"github.com/milk9111/boneklod/ecs/component"
	"github.com/milk9111/boneklod/physics"
	"github.com/milk9111/boneklod/prefabs"
)

var defaultPlayerColor = color.RGBA{R: 0xe8, G: 0xdc, B: 0xc0, A: 0xff}

// NewPlayerAt spawns the klod described by spec at x,y.
func NewPlayerAt(w *ecs.World, pw *physics.World, spec *prefabs.PlayerSpec, x, y float64) (ecs.Entity, error) {
	if spec == nil {
		return 0, fmt.Errorf("player: missing spec")
	}
	e := ecs.CreateEntity(w)
	_, err := attachBody(w, pw, e, physics.BodyDef{
		Kind:       physics.Dynamic,
		Shape:      physics.Circle,
		Position:   vec(x, y),
		Radius:     spec.Radius,
		Mass:       spec.Mass,
		Friction:   spec.Friction,
		Elasticity: spec.Elasticity,
		Category:   physics.CategoryPlayer,
	})
	if err != nil {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("player: %w", err)
	}

	fill := color.RGBAModel.Convert(spec.Color.RGBA(defaultPlayerColor)).(color.RGBA)

	adds := []func() error{
		func() error {
			return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
		},
		func() error {
			return ecs.Add(w, e, component.PlayerComponent.Kind(), &component.Player{
				Tuning:   spec.Controller,
				Radius:   spec.Radius,
				BaseMass: spec.Mass,
				Facing:   1,
			})
		},
		func() error {
			return ecs.Add(w, e, component.ControllerComponent.Kind(), component.NewController())
		},
		func() error {
			return ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{})
		},
		func() error {
			return addAppearance(w, e, fill, component.LayerPlayer)
		},
	}
	for _, add := range adds {
		if err := add(); err != nil {
			return 0, fmt.Errorf("player: %w", err)
		}
	}
	return e, nil
}
