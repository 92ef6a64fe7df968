package component

import "github.com/milk9111/hedgehog/flags"

// Player holds tuning plus the movement and jump state recomputed each frame
// from the live configuration.
type Player struct {
	BaseSpeed  float64
	BoostSpeed float64
	JumpSpeed  float64

	JumpCount  int
	MaxJumps   int
	Speed      float64
	Skin       flags.Skin
	OnGround   bool
	FacingLeft bool
}

var PlayerComponent = NewComponent[Player]()
