package common

const (
	// ScreenWidth and ScreenHeight are the fixed playfield size in pixels.
	ScreenWidth  = 800
	ScreenHeight = 600

	// Gravity is the world gravity in px/s^2. Bodies may add their own on top.
	Gravity = 300.0

	// TPS is the simulation tick rate.
	TPS = 60
)

// FrameDT is the fixed simulation step in seconds.
const FrameDT = 1.0 / TPS
