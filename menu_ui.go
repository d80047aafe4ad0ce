package main

import (
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/boneklod/common"
	"github.com/milk9111/boneklod/ui"
	"golang.org/x/image/font/basicfont"
)

var (
	menuText     = color.NRGBA{R: 0xf2, G: 0xee, B: 0xe3, A: 0xff}
	menuMuted    = color.NRGBA{R: 0x80, G: 0x7a, B: 0x70, A: 0xff}
	menuPanel    = color.NRGBA{R: 0x10, G: 0x0c, B: 0x0a, A: 210}
	menuButton   = color.NRGBA{R: 0x3a, G: 0x32, B: 0x2c, A: 0xff}
	menuFocused  = color.NRGBA{R: 0x8a, G: 0x6b, B: 0x3a, A: 0xff}
	menuDisabled = color.NRGBA{R: 0x22, G: 0x1e, B: 0x1a, A: 0xff}
)

// menuUI renders the navigator's current screen with ebitenui. It is
// rebuilt whenever the screen or the focused element changes.
type menuUI struct {
	face     ebtext.Face
	ui       *ebitenui.UI
	screen   *ui.Screen
	focus    string
	activate func(id string)
	hover    func(id string)
}

func newMenuUI(activate, hover func(id string)) *menuUI {
	return &menuUI{
		face:     ebtext.NewGoXFace(basicfont.Face7x13),
		activate: activate,
		hover:    hover,
	}
}

func (m *menuUI) sync(screen *ui.Screen, focus string) {
	if screen == m.screen && focus == m.focus && m.ui != nil {
		return
	}
	m.screen, m.focus = screen, focus
	m.ui = m.build(screen, focus)
}

func (m *menuUI) build(screen *ui.Screen, focus string) *ebitenui.UI {
	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	if screen == nil {
		return &ebitenui.UI{Container: root}
	}

	direction := widget.DirectionVertical
	for _, e := range screen.Elements {
		if _, ok := e.Neighbors[ui.DirRight]; ok {
			direction = widget.DirectionHorizontal
			break
		}
	}

	center := widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})
	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(imageui.NewNineSliceColor(menuPanel)),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(10),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 20, Bottom: 20, Left: 30, Right: 30}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(common.BaseWidth/3, common.BaseHeight/3),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionCenter,
				VerticalPosition:   widget.AnchorLayoutPositionCenter,
			}),
		),
	)

	panel.AddChild(widget.NewText(
		widget.TextOpts.Text(screen.Title, &m.face, menuText),
		widget.TextOpts.WidgetOpts(center),
	))
	for _, line := range screen.Body {
		if line == "" {
			continue
		}
		panel.AddChild(widget.NewText(
			widget.TextOpts.Text(line, &m.face, menuMuted),
			widget.TextOpts.WidgetOpts(center),
		))
	}

	row := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(direction),
			widget.RowLayoutOpts.Spacing(8),
		)),
		widget.ContainerOpts.WidgetOpts(center),
	)
	for _, e := range screen.Elements {
		row.AddChild(m.button(e, e.ID == focus))
	}
	panel.AddChild(row)
	root.AddChild(panel)
	return &ebitenui.UI{Container: root}
}

func (m *menuUI) button(e *ui.Element, focused bool) *widget.Button {
	idle := menuButton
	if focused {
		idle = menuFocused
	}
	img := &widget.ButtonImage{
		Idle:     imageui.NewNineSliceColor(idle),
		Hover:    imageui.NewNineSliceColor(menuFocused),
		Pressed:  imageui.NewNineSliceColor(menuFocused),
		Disabled: imageui.NewNineSliceColor(menuDisabled),
	}
	id := e.ID
	b := widget.NewButton(
		widget.ButtonOpts.Image(img),
		widget.ButtonOpts.Text(e.Label, &m.face, &widget.ButtonTextColor{Idle: menuText, Disabled: menuMuted}),
		widget.ButtonOpts.TextPadding(&widget.Insets{Top: 6, Bottom: 6, Left: 16, Right: 16}),
		widget.ButtonOpts.DisableDefaultKeys(),
		widget.ButtonOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(160, 0),
			widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter}),
		),
		widget.ButtonOpts.CursorEnteredHandler(func(*widget.ButtonHoverEventArgs) {
			m.hover(id)
		}),
		widget.ButtonOpts.ClickedHandler(func(*widget.ButtonClickedEventArgs) {
			m.activate(id)
		}),
	)
	b.GetWidget().Disabled = e.Disabled
	return b
}
