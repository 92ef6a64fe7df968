package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/hedgehog/ecs"
	"github.com/milk9111/hedgehog/ecs/component"
)

// RespawnSystem moves entities with a pending RespawnRequest back to their
// SafeRespawn point at rest. It runs before PhysicsSystem so the body
// integrates from the spawn point in the same frame. Score and pickups are
// left alone.
type RespawnSystem struct{}

func NewRespawnSystem() *RespawnSystem { return &RespawnSystem{} }

func (s *RespawnSystem) Update(w *ecs.World, f *ecs.Frame) {
	if w == nil {
		return
	}
	for _, e := range w.Query(component.RespawnRequestComponent.Kind()) {
		respawn(w, e)
		_ = ecs.Remove(w, e, component.RespawnRequestComponent.Kind())
	}
}

func respawn(w *ecs.World, e ecs.Entity) {
	safe, ok := ecs.Get(w, e, component.SafeRespawnComponent.Kind())
	if !ok {
		return
	}
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return
	}
	t.X, t.Y = safe.X, safe.Y
	if body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok {
		body.Velocity = cp.Vector{}
		body.Blocked = component.Contacts{}
	}
}
