package entity

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/boneklod/ecs"
	"github.com/milk9111/boneklod/ecs/component"
	"github.com/milk9111/boneklod/physics"
)

// attachBody creates def's rigid body owned by e and adds the Body and
// Transform components.
func attachBody(w *ecs.World, pw *physics.World, e ecs.Entity, def physics.BodyDef) (physics.Handle, error) {
	def.Owner = uint64(e)
	h := pw.Create(def)
	if !h.Valid() {
		return 0, fmt.Errorf("entity %s: create body: %w", e, physics.ErrStaleHandle)
	}
	body := &component.Body{
		Handle: h,
		Shape:  def.Shape,
		Radius: def.Radius,
		Width:  def.Width,
		Height: def.Height,
		A:      def.A,
		B:      def.B,
	}
	if err := ecs.Add(w, e, component.BodyComponent.Kind(), body); err != nil {
		pw.Destroy(h)
		return 0, err
	}
	t := &component.Transform{X: def.Position.X, Y: def.Position.Y, Rotation: def.Angle}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), t); err != nil {
		pw.Destroy(h)
		return 0, err
	}
	return h, nil
}

func addAppearance(w *ecs.World, e ecs.Entity, c color.RGBA, layer component.Layer) error {
	return ecs.Add(w, e, component.AppearanceComponent.Kind(), &component.Appearance{Color: c, Layer: layer})
}

// parseHexColor accepts #rgb, #rrggbb and #rrggbbaa.
func parseHexColor(s string, fallback color.RGBA) color.RGBA {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) == 6 {
		s += "ff"
	}
	if len(s) != 8 {
		return fallback
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fallback
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
}

func vec(x, y float64) cp.Vector {
	return cp.Vector{X: x, Y: y}
}
