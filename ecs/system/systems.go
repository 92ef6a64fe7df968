package system

import "github.com/milk9111/hedgehog/ecs"

// NewLevelScheduler returns the per-frame system order for a level. Player
// logic runs before collision handling so a frame's jump and death events
// precede its pickup and completion events.
func NewLevelScheduler() *ecs.Scheduler {
	return ecs.NewScheduler(
		NewInputSystem(),
		NewPlayerControllerSystem(),
		NewFallDeathSystem(),
		NewRespawnSystem(),
		NewPhysicsSystem(),
		NewPickupCollectSystem(),
		NewScoreCounterSystem(),
		NewLevelCompleteSystem(),
		NewPickupPulseSystem(),
		NewAnimationSystem(),
	)
}
