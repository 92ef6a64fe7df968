package system

import (
	"github.com/milk9111/hedgehog/common"
	"github.com/milk9111/hedgehog/ecs"
	"github.com/milk9111/hedgehog/ecs/component"
	"github.com/milk9111/hedgehog/flags"
)

// PlayerControllerSystem applies the live configuration and input to the
// player. Per frame: derive MaxJumps and Speed, clamp JumpCount, read the
// ground contact from the last physics step, reset JumpCount when grounded,
// then run the state machine and process the jump edge.
type PlayerControllerSystem struct{}

func NewPlayerControllerSystem() *PlayerControllerSystem {
	return &PlayerControllerSystem{}
}

func (p *PlayerControllerSystem) Update(w *ecs.World, f *ecs.Frame) {
	if w == nil {
		return
	}

	cfg := flags.Defaults()
	if f != nil {
		cfg = f.Config.Normalize()
	}

	entities := w.Query(
		component.PlayerTagComponent.Kind(),
		component.PlayerComponent.Kind(),
		component.PlayerInputComponent.Kind(),
		component.PhysicsBodyComponent.Kind(),
	)
	for _, e := range entities {
		player, ok := ecs.Get(w, e, component.PlayerComponent.Kind())
		if !ok {
			continue
		}
		input, ok := ecs.Get(w, e, component.PlayerInputComponent.Kind())
		if !ok {
			continue
		}
		body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		if !ok {
			continue
		}

		player.MaxJumps = cfg.MaxJumps()
		player.Speed = cfg.Speed(player.BaseSpeed, player.BoostSpeed)
		player.JumpCount = common.ClampInt(player.JumpCount, 0, player.MaxJumps)
		// The animation is keyed by clip, not skin, so swapping keeps its phase.
		player.Skin = cfg.Skin

		player.OnGround = body.Blocked.Down
		if player.OnGround {
			player.JumpCount = 0
		}

		ctx := newPlayerStateContext(w, e, player, input, body)
		fsm, hasFSM := ecs.Get(w, e, component.PlayerStateMachineComponent.Kind())
		if hasFSM && fsm.State != nil {
			fsm.State.Update(ctx)
		} else {
			moveHorizontal(ctx)
		}

		if input.JumpPressed && player.JumpCount < player.MaxJumps {
			body.Velocity.Y = -player.JumpSpeed
			player.JumpCount++
			w.Events().Emit(EventPlayerJumped, map[string]any{
				"jumpNumber":   player.JumpCount,
				"isDoubleJump": player.JumpCount > 1,
				"skin":         string(player.Skin),
			})
		}

		if hasFSM {
			applyPlayerState(fsm, ctx)
		}
	}
}

func newPlayerStateContext(w *ecs.World, e ecs.Entity, player *component.Player, input *component.PlayerInput, body *component.PhysicsBody) *component.PlayerStateContext {
	return &component.PlayerStateContext{
		Input:  input,
		Player: player,
		GetVelocity: func() (float64, float64) {
			return body.Velocity.X, body.Velocity.Y
		},
		SetVelocity: func(x, y float64) {
			body.Velocity.X = x
			body.Velocity.Y = y
		},
		IsGrounded: func() bool {
			return player.OnGround
		},
		ChangeState: func(state component.PlayerState) {
			if fsm, ok := ecs.Get(w, e, component.PlayerStateMachineComponent.Kind()); ok {
				fsm.Pending = state
			}
		},
		ChangeAnimation: func(name string) {
			if anim, ok := ecs.Get(w, e, component.AnimationComponent.Kind()); ok {
				anim.Play(name)
			}
		},
		FacingLeft: func(facingLeft bool) {
			player.FacingLeft = facingLeft
			if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
				scale := t.ScaleX
				if scale < 0 {
					scale = -scale
				}
				if scale == 0 {
					scale = 1
				}
				if facingLeft {
					scale = -scale
				}
				t.ScaleX = scale
			}
		},
	}
}

// applyPlayerState selects the pose for this frame and performs any pending
// transition.
func applyPlayerState(fsm *component.PlayerStateMachine, ctx *component.PlayerStateContext) {
	if fsm.State == nil {
		fsm.State = playerPose(ctx)
		fsm.State.Enter(ctx)
		return
	}
	fsm.State.HandleInput(ctx)
	if fsm.Pending == nil || fsm.Pending == fsm.State {
		fsm.Pending = nil
		return
	}
	fsm.State.Exit(ctx)
	fsm.State = fsm.Pending
	fsm.Pending = nil
	fsm.State.Enter(ctx)
}
