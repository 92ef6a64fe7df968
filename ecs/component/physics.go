package component

import "github.com/jakecoffman/cp"

// Contacts records which sides of a body were blocked during the last
// physics step.
type Contacts struct {
	Down  bool
	Up    bool
	Left  bool
	Right bool
}

// Any reports whether any side is blocked.
func (c Contacts) Any() bool {
	return c.Down || c.Up || c.Left || c.Right
}

// PhysicsBody is an axis-aligned box driven by the physics system. The box
// is centered on the transform plus (OffsetX, OffsetY). Static bodies never
// move and block dynamic ones.
type PhysicsBody struct {
	Velocity           cp.Vector
	Width              float64
	Height             float64
	OffsetX            float64
	OffsetY            float64
	Gravity            float64
	Static             bool
	CollideWorldBounds bool
	Blocked            Contacts
}

// Bounds returns the body's box for the given transform. In cp.BB terms B
// holds the smaller y, which is the top edge on screen.
func (b *PhysicsBody) Bounds(t *Transform) cp.BB {
	if b == nil || t == nil {
		return cp.BB{}
	}
	return cp.NewBBForExtents(cp.Vector{X: t.X + b.OffsetX, Y: t.Y + b.OffsetY}, b.Width/2, b.Height/2)
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
