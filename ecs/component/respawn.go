package component

// SafeRespawn is where an entity reappears after falling out of the level.
type SafeRespawn struct {
	X float64
	Y float64
}

var SafeRespawnComponent = NewComponent[SafeRespawn]()

// RespawnRequest marks an entity that fell out of the level this frame.
// FallDeathSystem adds it and RespawnSystem consumes it before physics runs.
type RespawnRequest struct{}

var RespawnRequestComponent = NewComponent[RespawnRequest]()
