package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/hedgehog/common"
	"github.com/milk9111/hedgehog/ecs"
	"github.com/milk9111/hedgehog/ecs/component"
)

// overlapEpsilon keeps resting contact (edges exactly touching) from
// counting as penetration.
const overlapEpsilon = 1e-6

type staticCollider struct {
	entity ecs.Entity
	bb     cp.BB
}

// PhysicsSystem integrates dynamic bodies and separates them from static
// ones one axis at a time. Y grows downward: cp.BB.B is the top edge and
// cp.BB.T the bottom edge on screen.
type PhysicsSystem struct {
	Gravity float64

	statics []staticCollider
}

func NewPhysicsSystem() *PhysicsSystem {
	return &PhysicsSystem{Gravity: common.Gravity}
}

func (ps *PhysicsSystem) Update(w *ecs.World, f *ecs.Frame) {
	if ps == nil || w == nil {
		return
	}

	dt := common.FrameDT
	if f != nil && f.DT > 0 {
		dt = f.DT
	}

	ps.collectStatics(w)

	var bounds *component.LevelBounds
	if e, ok := ecs.First(w, component.LevelBoundsComponent.Kind()); ok {
		bounds, _ = ecs.Get(w, e, component.LevelBoundsComponent.Kind())
	}

	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, body *component.PhysicsBody, t *component.Transform) {
		if body.Static {
			return
		}
		body.Blocked = component.Contacts{}
		body.Velocity.Y += (ps.Gravity + body.Gravity) * dt

		t.X += body.Velocity.X * dt
		ps.resolveX(body, t)

		t.Y += body.Velocity.Y * dt
		ps.resolveY(body, t)

		if body.CollideWorldBounds && bounds != nil {
			clampToWorld(body, t, bounds)
		}
	})
}

func (ps *PhysicsSystem) collectStatics(w *ecs.World) {
	ps.statics = ps.statics[:0]
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, body *component.PhysicsBody, t *component.Transform) {
		if !body.Static {
			return
		}
		ps.statics = append(ps.statics, staticCollider{entity: e, bb: body.Bounds(t)})
	})
}

func (ps *PhysicsSystem) resolveX(body *component.PhysicsBody, t *component.Transform) {
	for _, s := range ps.statics {
		box := body.Bounds(t)
		if !overlaps(box, s.bb) {
			continue
		}
		switch {
		case body.Velocity.X > 0:
			t.X -= box.R - s.bb.L
			body.Blocked.Right = true
		case body.Velocity.X < 0:
			t.X += s.bb.R - box.L
			body.Blocked.Left = true
		default:
			continue
		}
		body.Velocity.X = 0
	}
}

func (ps *PhysicsSystem) resolveY(body *component.PhysicsBody, t *component.Transform) {
	for _, s := range ps.statics {
		box := body.Bounds(t)
		if !overlaps(box, s.bb) {
			continue
		}
		switch {
		case body.Velocity.Y > 0:
			t.Y -= box.T - s.bb.B
			body.Blocked.Down = true
		case body.Velocity.Y < 0:
			t.Y += s.bb.T - box.B
			body.Blocked.Up = true
		default:
			continue
		}
		body.Velocity.Y = 0
	}
}

// clampToWorld keeps the body inside the left, right and top edges. The
// bottom stays open so bodies can fall out of the level.
func clampToWorld(body *component.PhysicsBody, t *component.Transform, bounds *component.LevelBounds) {
	box := body.Bounds(t)
	if box.L < 0 {
		t.X -= box.L
		body.Blocked.Left = true
		if body.Velocity.X < 0 {
			body.Velocity.X = 0
		}
	} else if bounds.Width > 0 && box.R > bounds.Width {
		t.X -= box.R - bounds.Width
		body.Blocked.Right = true
		if body.Velocity.X > 0 {
			body.Velocity.X = 0
		}
	}
	if box.B < 0 {
		t.Y -= box.B
		body.Blocked.Up = true
		if body.Velocity.Y < 0 {
			body.Velocity.Y = 0
		}
	}
}

// overlaps is a strict intersection test; cp.BB.Intersects also accepts
// boxes that only share an edge.
func overlaps(a, b cp.BB) bool {
	return a.L < b.R-overlapEpsilon && a.R > b.L+overlapEpsilon &&
		a.B < b.T-overlapEpsilon && a.T > b.B+overlapEpsilon
}
