package entity

import (
	"fmt"

	"github.com/milk9111/hedgehog/ecs"
	"github.com/milk9111/hedgehog/ecs/component"
	"github.com/milk9111/hedgehog/prefabs"
)

func NewPlayer(w *ecs.World) (ecs.Entity, error) {
	return BuildEntity(w, "player.yaml")
}

// NewPlayerAt builds the player and makes (x, y) its spawn point.
func NewPlayerAt(w *ecs.World, x, y float64) (ecs.Entity, error) {
	entity, err := BuildEntity(w, "player.yaml")
	if err != nil {
		return 0, err
	}
	if err := SetEntityTransform(w, entity, x, y); err != nil {
		return 0, fmt.Errorf("player: override transform: %w", err)
	}
	return entity, nil
}

// ReloadPlayerTuning rereads player.yaml and applies its speeds, jump impulse
// and body settings to an existing player. Position, velocity and jump state
// are left alone.
func ReloadPlayerTuning(w *ecs.World, e ecs.Entity) error {
	spec, err := prefabs.LoadEntityBuildSpec("player.yaml")
	if err != nil {
		return fmt.Errorf("player: reload: %w", err)
	}

	player, ok := ecs.Get(w, e, component.PlayerComponent.Kind())
	if !ok {
		return fmt.Errorf("player: reload: entity has no player component")
	}
	tuning, err := prefabs.DecodeComponentSpec[playerSpec](spec.Components["player"])
	if err != nil {
		return fmt.Errorf("player: reload: decode player spec: %w", err)
	}
	if tuning.BaseSpeed <= 0 || tuning.JumpSpeed <= 0 {
		return fmt.Errorf("player: reload: player spec needs base_speed and jump_speed")
	}
	if tuning.BoostSpeed <= 0 {
		tuning.BoostSpeed = tuning.BaseSpeed
	}

	if raw, ok := spec.Components["physics_body"]; ok {
		body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		if ok {
			bs, err := prefabs.DecodeComponentSpec[physicsBodySpec](raw)
			if err != nil {
				return fmt.Errorf("player: reload: decode physics body spec: %w", err)
			}
			if bs.Width > 0 {
				body.Width = bs.Width
			}
			if bs.Height > 0 {
				body.Height = bs.Height
			}
			body.OffsetX = bs.OffsetX
			body.OffsetY = bs.OffsetY
			body.Gravity = bs.Gravity
		}
	}

	player.BaseSpeed = tuning.BaseSpeed
	player.BoostSpeed = tuning.BoostSpeed
	player.JumpSpeed = tuning.JumpSpeed
	return nil
}
