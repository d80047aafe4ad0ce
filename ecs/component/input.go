package component

import "github.com/milk9111/boneklod/input"

// Input stores the intent for the current simulation step.
type Input struct {
	Intent input.Intent
}

var InputComponent = NewComponent[Input]()
