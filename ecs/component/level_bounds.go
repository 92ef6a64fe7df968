package component

// LevelBounds stores the world-space bounds of the current level. Anything
// whose position passes Height+FallMargin has fallen out.
type LevelBounds struct {
	Width      float64
	Height     float64
	FallMargin float64
}

var LevelBoundsComponent = NewComponent[LevelBounds]()
