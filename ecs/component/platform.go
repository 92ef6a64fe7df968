package component

// Platform marks static level geometry. Ground is the floor strip.
type Platform struct {
	Ground bool
}

var PlatformComponent = NewComponent[Platform]()
