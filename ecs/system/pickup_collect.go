package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/hedgehog/ecs"
	"github.com/milk9111/hedgehog/ecs/component"
)

const defaultPickupSize = 24.0

// PickupCollectSystem collects pickups the player overlaps. A pickup is
// counted once: it is flagged and destroyed in the same step.
type PickupCollectSystem struct{}

func NewPickupCollectSystem() *PickupCollectSystem { return &PickupCollectSystem{} }

func (s *PickupCollectSystem) Update(w *ecs.World, f *ecs.Frame) {
	if w == nil {
		return
	}

	player, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return
	}
	playerTransform, ok := ecs.Get(w, player, component.TransformComponent.Kind())
	if !ok {
		return
	}
	playerBody, ok := ecs.Get(w, player, component.PhysicsBodyComponent.Kind())
	if !ok {
		return
	}
	playerBox := playerBody.Bounds(playerTransform)

	ecs.ForEach2(w, component.PickupComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, pickup *component.Pickup, t *component.Transform) {
		if pickup.Collected {
			return
		}

		kw := pickup.CollisionWidth
		kh := pickup.CollisionHeight
		if kw <= 0 || kh <= 0 {
			kw = defaultPickupSize
			kh = defaultPickupSize
		}
		box := cp.NewBBForExtents(cp.Vector{X: t.X, Y: t.Y}, kw/2, kh/2)
		if !playerBox.Intersects(box) {
			return
		}

		CollectPickup(w, e)
	})
}

// CollectPickup collects e on behalf of the player regardless of overlap.
// It reports false when e is not a live, uncollected pickup.
func CollectPickup(w *ecs.World, e ecs.Entity) bool {
	if w == nil {
		return false
	}
	pickup, ok := ecs.Get(w, e, component.PickupComponent.Kind())
	if !ok || pickup.Collected {
		return false
	}
	pickup.Collected = true
	kind := pickup.Kind
	ecs.DestroyEntity(w, e)

	if ce, found := ecs.First(w, component.ScoreCounterComponent.Kind()); found {
		if counter, ok := ecs.Get(w, ce, component.ScoreCounterComponent.Kind()); ok {
			counter.Collected++
			w.Events().Emit(EventItemCollected, map[string]any{
				"item_type": kind,
				"total":     counter.Collected,
			})
		}
	}
	return true
}
