package system

import (
	"github.com/milk9111/hedgehog/ecs"
	"github.com/milk9111/hedgehog/ecs/component"
)

// FallDeathSystem kills players that drop below the level. Score and
// pickups are untouched; the player is only queued for respawn.
type FallDeathSystem struct{}

func NewFallDeathSystem() *FallDeathSystem { return &FallDeathSystem{} }

func (s *FallDeathSystem) Update(w *ecs.World, f *ecs.Frame) {
	if w == nil {
		return
	}

	boundsEntity, ok := ecs.First(w, component.LevelBoundsComponent.Kind())
	if !ok {
		return
	}
	bounds, ok := ecs.Get(w, boundsEntity, component.LevelBoundsComponent.Kind())
	if !ok {
		return
	}
	limit := bounds.Height + bounds.FallMargin

	ecs.ForEach2(w, component.PlayerComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, player *component.Player, t *component.Transform) {
		if t.Y <= limit || ecs.Has(w, e, component.RespawnRequestComponent.Kind()) {
			return
		}
		w.Events().Emit(EventPlayerDied, map[string]any{
			"cause": "fall",
			"skin":  string(player.Skin),
		})
		_ = ecs.Add(w, e, component.RespawnRequestComponent.Kind(), &component.RespawnRequest{})
	})
}
