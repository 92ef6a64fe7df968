package component

// Transform positions an entity's sprite center in world space. ScaleX is
// negated to mirror the sprite.
type Transform struct {
	X      float64
	Y      float64
	ScaleX float64
	ScaleY float64
}

var TransformComponent = NewComponent[Transform]()
