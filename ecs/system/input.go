package system

import (
	"github.com/milk9111/hedgehog/ecs"
	"github.com/milk9111/hedgehog/ecs/component"
)

// InputSystem turns the frame's raw key state into per-entity input. Left
// wins when both directions are held. JumpPressed is set only on the frame
// the jump key goes down.
type InputSystem struct{}

func NewInputSystem() *InputSystem {
	return &InputSystem{}
}

func (i *InputSystem) Update(w *ecs.World, f *ecs.Frame) {
	if w == nil || f == nil {
		return
	}

	raw := f.Input
	moveX := 0.0
	if raw.Left {
		moveX = -1
	} else if raw.Right {
		moveX = 1
	}

	ecs.ForEach(w, component.PlayerInputComponent.Kind(), func(e ecs.Entity, input *component.PlayerInput) {
		input.MoveX = moveX
		input.JumpPressed = raw.Jump && !input.JumpWasDown
		input.Jump = raw.Jump
		input.JumpWasDown = raw.Jump
	})
}
