package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/boneklod/input"
)

// sampleDevice reads keyboard and the first gamepad into one raw snapshot.
// Buttons are reported as held; the mapper derives presses.
func sampleDevice() input.Raw {
	pressed := ebiten.IsKeyPressed
	raw := input.Raw{
		Left:    pressed(ebiten.KeyA) || pressed(ebiten.KeyArrowLeft),
		Right:   pressed(ebiten.KeyD) || pressed(ebiten.KeyArrowRight),
		Up:      pressed(ebiten.KeyW) || pressed(ebiten.KeyArrowUp),
		Down:    pressed(ebiten.KeyS) || pressed(ebiten.KeyArrowDown),
		Jump:    pressed(ebiten.KeySpace),
		Confirm: pressed(ebiten.KeyEnter),
		Back:    pressed(ebiten.KeyEscape) || pressed(ebiten.KeyBackspace),
		Pause:   pressed(ebiten.KeyEscape) || pressed(ebiten.KeyP),
		Restart: pressed(ebiten.KeyR),
	}
	if pressed(ebiten.KeyJ) {
		raw.LookX--
	}
	if pressed(ebiten.KeyL) {
		raw.LookX++
	}
	if pressed(ebiten.KeyI) {
		raw.LookY++
	}
	if pressed(ebiten.KeyK) {
		raw.LookY--
	}

	gamepads := ebiten.AppendGamepadIDs(nil)
	raw.Connected = ebiten.IsFocused() || len(gamepads) > 0
	if len(gamepads) == 0 {
		return raw
	}

	id := gamepads[0]
	if !ebiten.IsStandardGamepadLayoutAvailable(id) {
		return raw
	}
	button := func(b ebiten.StandardGamepadButton) bool {
		return ebiten.IsStandardGamepadButtonPressed(id, b)
	}
	axis := func(a ebiten.StandardGamepadAxis) float64 {
		return ebiten.StandardGamepadAxisValue(id, a)
	}

	// Gamepad sticks report y down.
	raw.StickX = axis(ebiten.StandardGamepadAxisLeftStickHorizontal)
	raw.StickY = -axis(ebiten.StandardGamepadAxisLeftStickVertical)
	if lx, ly := axis(ebiten.StandardGamepadAxisRightStickHorizontal), -axis(ebiten.StandardGamepadAxisRightStickVertical); lx != 0 || ly != 0 {
		raw.LookX, raw.LookY = lx, ly
	}
	raw.Left = raw.Left || button(ebiten.StandardGamepadButtonLeftLeft)
	raw.Right = raw.Right || button(ebiten.StandardGamepadButtonLeftRight)
	raw.Up = raw.Up || button(ebiten.StandardGamepadButtonLeftTop)
	raw.Down = raw.Down || button(ebiten.StandardGamepadButtonLeftBottom)
	raw.Jump = raw.Jump || button(ebiten.StandardGamepadButtonRightBottom)
	raw.Confirm = raw.Confirm || button(ebiten.StandardGamepadButtonRightBottom)
	raw.Back = raw.Back || button(ebiten.StandardGamepadButtonRightRight)
	raw.Pause = raw.Pause || button(ebiten.StandardGamepadButtonCenterRight)
	raw.Restart = raw.Restart || button(ebiten.StandardGamepadButtonRightTop)
	return raw
}
