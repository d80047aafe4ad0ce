package main

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/boneklod/camera"
	"github.com/milk9111/boneklod/common"
	"github.com/milk9111/boneklod/ecs/system"
	"github.com/milk9111/boneklod/physics"
	"github.com/milk9111/boneklod/sim"
)

var (
	skyColor   = color.RGBA{R: 0x1c, G: 0x18, B: 0x24, A: 0xff}
	spokeColor = color.RGBA{R: 0x6a, G: 0x5a, B: 0x48, A: 0xff}
	barBack    = color.RGBA{R: 0x30, G: 0x2a, B: 0x26, A: 0xff}
	barFill    = color.RGBA{R: 0xd0, G: 0x50, B: 0x40, A: 0xff}

	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

// drawWorld draws every visible body of the loaded level, lowest layer
// first.
func drawWorld(s *sim.Simulation, screen *ebiten.Image) {
	var views []sim.BodyView
	s.EachBody(func(v sim.BodyView) {
		views = append(views, v)
	})
	sort.SliceStable(views, func(i, j int) bool {
		if views[i].Appearance.Layer != views[j].Appearance.Layer {
			return views[i].Appearance.Layer < views[j].Appearance.Layer
		}
		return uint64(views[i].Entity) < uint64(views[j].Entity)
	})

	rig := s.Camera()
	for _, v := range views {
		drawBody(screen, rig, v)
	}
}

func drawBody(screen *ebiten.Image, rig *camera.Rig, v sim.BodyView) {
	zoom := rig.Zoom()
	t := v.Transform
	pos := cp.Vector{X: t.X, Y: t.Y}
	fill := v.Appearance.Color

	switch v.Body.Shape {
	case physics.Circle:
		x, y := rig.WorldToScreen(pos, common.BaseWidth, common.BaseHeight)
		r := float32(v.Body.Radius * zoom)
		vector.DrawFilledCircle(screen, float32(x), float32(y), r, fill, true)
		// A spoke makes rolling visible.
		rot := cp.ForAngle(t.Rotation).Mult(v.Body.Radius * 0.8)
		ex, ey := rig.WorldToScreen(pos.Add(rot), common.BaseWidth, common.BaseHeight)
		vector.StrokeLine(screen, float32(x), float32(y), float32(ex), float32(ey), max(1, r/6), spokeColor, true)
	case physics.Box:
		hw, hh := v.Body.Width/2, v.Body.Height/2
		corners := []cp.Vector{{X: -hw, Y: -hh}, {X: hw, Y: -hh}, {X: hw, Y: hh}, {X: -hw, Y: hh}}
		var path vector.Path
		for i, c := range corners {
			x, y := rig.WorldToScreen(pos.Add(c.Rotate(cp.ForAngle(t.Rotation))), common.BaseWidth, common.BaseHeight)
			if i == 0 {
				path.MoveTo(float32(x), float32(y))
			} else {
				path.LineTo(float32(x), float32(y))
			}
		}
		path.Close()
		fillPath(screen, &path, fill)
	case physics.Segment:
		rot := cp.ForAngle(t.Rotation)
		a := pos.Add(v.Body.A.Rotate(rot))
		b := pos.Add(v.Body.B.Rotate(rot))
		ax, ay := rig.WorldToScreen(a, common.BaseWidth, common.BaseHeight)
		bx, by := rig.WorldToScreen(b, common.BaseWidth, common.BaseHeight)
		r := float32(max(v.Body.Radius*zoom, 1))
		vector.StrokeLine(screen, float32(ax), float32(ay), float32(bx), float32(by), 2*r, fill, true)
		vector.DrawFilledCircle(screen, float32(ax), float32(ay), r, fill, true)
		vector.DrawFilledCircle(screen, float32(bx), float32(by), r, fill, true)
	}
}

func fillPath(screen *ebiten.Image, path *vector.Path, c color.RGBA) {
	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	r, g, b, a := c.RGBA()
	for i := range vs {
		vs[i].SrcX, vs[i].SrcY = 1, 1
		vs[i].ColorR = float32(r) / 0xffff
		vs[i].ColorG = float32(g) / 0xffff
		vs[i].ColorB = float32(b) / 0xffff
		vs[i].ColorA = float32(a) / 0xffff
	}
	op := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	screen.DrawTriangles(vs, is, whiteSubImage, op)
}

// drawHUD shows the clock, mana and objectives of the running session.
func drawHUD(s *sim.Simulation, screen *ebiten.Image, debug bool) {
	sess := s.Session()
	if sess == nil {
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", sess.LevelName)
	if sess.TimeLimit > 0 {
		fmt.Fprintf(&b, "Time: %5.1f\n", sess.TimeRemaining())
	} else {
		fmt.Fprintf(&b, "Time: %5.1f\n", sess.Elapsed)
	}
	fmt.Fprintf(&b, "Mana: %.0f / %.0f\n", sess.Score().Mana(), sess.RequiredMana)
	fmt.Fprintf(&b, "Bones: %d (%.2f)\n", sess.Collected, sess.BoneMass)
	for _, o := range sess.Objectives {
		mark := " "
		if o.Done {
			mark = "x"
		}
		label := o.Label
		if label == "" {
			label = o.ID
		}
		if o.Count > 0 {
			label = fmt.Sprintf("%s (%d/%d)", label, o.Progress, o.Count)
		}
		fmt.Fprintf(&b, "[%s] %s\n", mark, label)
	}
	if debug {
		fmt.Fprintf(&b, "\nTPS %.0f  FPS %.0f\n", ebiten.ActualTPS(), ebiten.ActualFPS())
		if p, ok := s.Player(); ok {
			fmt.Fprintf(&b, "state %s  grounded %v\n", p.Controller, p.Grounded)
			fmt.Fprintf(&b, "v (%.2f, %.2f)  w %.2f  mass %.2f\n",
				p.State.Velocity.X, p.State.Velocity.Y, p.State.AngularVelocity, p.Mass)
		}
		fmt.Fprintf(&b, "camera occluded %v\n", s.Camera().Occluded())
		fmt.Fprintf(&b, "checksum %016x\n", s.Checksum())
	}
	ebitenutil.DebugPrintAt(screen, b.String(), 12, 12)

	if held := s.RestartHeld(); held > 0 {
		const w, h = 200, 8
		x := float32(common.BaseWidth/2 - w/2)
		y := float32(common.BaseHeight - 40)
		frac := float32(math.Min(held/system.RestartHoldTime, 1))
		vector.DrawFilledRect(screen, x, y, w, h, barBack, false)
		vector.DrawFilledRect(screen, x, y, w*frac, h, barFill, false)
		ebitenutil.DebugPrintAt(screen, "Giving up...", int(x), int(y)-16)
	}
}
