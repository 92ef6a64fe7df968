package entity

import (
	"fmt"
	"time"

	"github.com/milk9111/hedgehog/ecs"
	"github.com/milk9111/hedgehog/ecs/component"
	"github.com/milk9111/hedgehog/levels"
)

// LoadLevelToWorld populates an empty world with the level: bounds, level
// info, ground, platforms, pickups, the score counter and the player. It
// returns the player entity.
func LoadLevelToWorld(world *ecs.World, lvl *levels.Level, startedAt time.Time) (ecs.Entity, error) {
	if world == nil {
		return 0, fmt.Errorf("load level: world is nil")
	}
	if err := lvl.Validate(); err != nil {
		return 0, fmt.Errorf("load level: %w", err)
	}

	boundsEntity := world.CreateEntity()
	if err := ecs.Add(world, boundsEntity, component.LevelBoundsComponent.Kind(), &component.LevelBounds{
		Width:      lvl.Width,
		Height:     lvl.Height,
		FallMargin: lvl.FallMargin,
	}); err != nil {
		return 0, err
	}
	if err := ecs.Add(world, boundsEntity, component.LevelInfoComponent.Kind(), &component.LevelInfo{
		Number:    lvl.Number,
		StartedAt: startedAt,
	}); err != nil {
		return 0, err
	}

	if _, err := NewPlatform(world, lvl.Ground, true); err != nil {
		return 0, fmt.Errorf("load level: ground: %w", err)
	}
	for i, p := range lvl.Platforms {
		if _, err := NewPlatform(world, p, false); err != nil {
			return 0, fmt.Errorf("load level: platform %d: %w", i, err)
		}
	}

	total := 0
	for _, ent := range lvl.Entities {
		switch ent.Type {
		case "data_point":
			if _, err := NewDataPointAt(world, ent.X, ent.Y); err != nil {
				return 0, fmt.Errorf("load level: %w", err)
			}
			total++
		default:
			return 0, fmt.Errorf("load level: unknown entity type %q", ent.Type)
		}
	}

	if _, err := NewScoreCounter(world, total); err != nil {
		return 0, fmt.Errorf("load level: %w", err)
	}

	player, err := NewPlayerAt(world, lvl.Spawn.X, lvl.Spawn.Y)
	if err != nil {
		return 0, fmt.Errorf("load level: %w", err)
	}
	return player, nil
}

// NewPlatform creates a static box centered on r.
func NewPlatform(w *ecs.World, r levels.Rect, ground bool) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.PlatformComponent.Kind(), &component.Platform{Ground: ground}); err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: r.X, Y: r.Y, ScaleX: 1, ScaleY: 1}); err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Width:  r.Width,
		Height: r.Height,
		Static: true,
	}); err != nil {
		return 0, err
	}
	return e, nil
}
