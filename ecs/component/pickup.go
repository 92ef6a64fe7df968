package component

// Pickup is a collectible. Collected flips once and never back.
type Pickup struct {
	Kind            string
	CollisionWidth  float64
	CollisionHeight float64
	Collected       bool

	Scale      float64
	PulseMin   float64
	PulseMax   float64
	PulseSpeed float64
	PulsePhase float64
}

var PickupComponent = NewComponent[Pickup]()
