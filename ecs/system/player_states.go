package system

import "github.com/milk9111/hedgehog/ecs/component"

// Player state singletons (avoid allocations on transitions).
var (
	playerStateIdle component.PlayerState = &playerIdleState{}
	playerStateRun  component.PlayerState = &playerRunState{}
	playerStateJump component.PlayerState = &playerJumpState{}
	playerStateFall component.PlayerState = &playerFallState{}
)

// Animation clip names.
const (
	AnimIdle = "idle"
	AnimWalk = "walk"
	AnimJump = "jump"
	AnimFall = "fall"
)

type playerIdleState struct{}

type playerRunState struct{}

type playerJumpState struct{}

type playerFallState struct{}

// playerPose is the state for {grounded, horizontal intent, vertical
// velocity sign}. Every state transitions through it.
func playerPose(ctx *component.PlayerStateContext) component.PlayerState {
	if ctx == nil || ctx.Input == nil {
		return playerStateIdle
	}
	if ctx.IsGrounded != nil && ctx.IsGrounded() {
		if ctx.Input.MoveX != 0 {
			return playerStateRun
		}
		return playerStateIdle
	}
	if ctx.GetVelocity != nil {
		if _, y := ctx.GetVelocity(); y < 0 {
			return playerStateJump
		}
	}
	return playerStateFall
}

func handlePose(ctx *component.PlayerStateContext) {
	if ctx == nil || ctx.ChangeState == nil {
		return
	}
	ctx.ChangeState(playerPose(ctx))
}

// moveHorizontal sets vx from intent and mirrors facing on non-idle input.
func moveHorizontal(ctx *component.PlayerStateContext) {
	if ctx == nil || ctx.Input == nil || ctx.Player == nil || ctx.SetVelocity == nil || ctx.GetVelocity == nil {
		return
	}
	_, y := ctx.GetVelocity()
	ctx.SetVelocity(ctx.Input.MoveX*ctx.Player.Speed, y)
	if ctx.FacingLeft == nil {
		return
	}
	if ctx.Input.MoveX < 0 {
		ctx.FacingLeft(true)
	} else if ctx.Input.MoveX > 0 {
		ctx.FacingLeft(false)
	}
}

func (playerIdleState) Name() string { return "idle" }
func (playerIdleState) Enter(ctx *component.PlayerStateContext) {
	ctx.ChangeAnimation(AnimIdle)
}
func (playerIdleState) Exit(ctx *component.PlayerStateContext)        {}
func (playerIdleState) HandleInput(ctx *component.PlayerStateContext) { handlePose(ctx) }
func (playerIdleState) Update(ctx *component.PlayerStateContext)      { moveHorizontal(ctx) }

func (playerRunState) Name() string { return "run" }
func (playerRunState) Enter(ctx *component.PlayerStateContext) {
	ctx.ChangeAnimation(AnimWalk)
}
func (playerRunState) Exit(ctx *component.PlayerStateContext)        {}
func (playerRunState) HandleInput(ctx *component.PlayerStateContext) { handlePose(ctx) }
func (playerRunState) Update(ctx *component.PlayerStateContext)      { moveHorizontal(ctx) }

func (playerJumpState) Name() string { return "jump" }
func (playerJumpState) Enter(ctx *component.PlayerStateContext) {
	ctx.ChangeAnimation(AnimJump)
}
func (playerJumpState) Exit(ctx *component.PlayerStateContext)        {}
func (playerJumpState) HandleInput(ctx *component.PlayerStateContext) { handlePose(ctx) }
func (playerJumpState) Update(ctx *component.PlayerStateContext)      { moveHorizontal(ctx) }

func (playerFallState) Name() string { return "fall" }
func (playerFallState) Enter(ctx *component.PlayerStateContext) {
	ctx.ChangeAnimation(AnimFall)
}
func (playerFallState) Exit(ctx *component.PlayerStateContext)        {}
func (playerFallState) HandleInput(ctx *component.PlayerStateContext) { handlePose(ctx) }
func (playerFallState) Update(ctx *component.PlayerStateContext)      { moveHorizontal(ctx) }
