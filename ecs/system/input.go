package system

import (
	"github.com/milk9111/boneklod/ecs"
	"github.com/milk9111/boneklod/ecs/component"
	"github.com/milk9111/boneklod/input"
)

// InputSystem hands the frame's intent to every entity with an Input.
// Edge-triggered buttons reach only the first step after Set; an edge set
// in a frame that ran no step is kept for the next one.
type InputSystem struct {
	intent  input.Intent
	applied input.Intent
}

func NewInputSystem() *InputSystem {
	return &InputSystem{}
}

func (i *InputSystem) Set(intent input.Intent) {
	intent.JumpPressed = intent.JumpPressed || i.intent.JumpPressed
	intent.ConfirmPressed = intent.ConfirmPressed || i.intent.ConfirmPressed
	intent.BackPressed = intent.BackPressed || i.intent.BackPressed
	intent.PausePressed = intent.PausePressed || i.intent.PausePressed
	i.intent = intent
}

// Applied is the intent handed out by the last Update.
func (i *InputSystem) Applied() input.Intent {
	return i.applied
}

func (i *InputSystem) Update(w *ecs.World) {
	if i == nil || w == nil {
		return
	}
	ecs.ForEach(w, component.InputComponent.Kind(), func(_ ecs.Entity, in *component.Input) {
		in.Intent = i.intent
	})
	i.applied = i.intent
	i.intent.JumpPressed = false
	i.intent.ConfirmPressed = false
	i.intent.BackPressed = false
	i.intent.PausePressed = false
}
