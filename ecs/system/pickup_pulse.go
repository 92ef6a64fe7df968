package system

import (
	"math"

	"github.com/milk9111/hedgehog/common"
	"github.com/milk9111/hedgehog/ecs"
	"github.com/milk9111/hedgehog/ecs/component"
)

// PickupPulseSystem breathes pickup scale between PulseMin and PulseMax.
// Purely visual; collision boxes keep their size.
type PickupPulseSystem struct{}

func NewPickupPulseSystem() *PickupPulseSystem { return &PickupPulseSystem{} }

func (s *PickupPulseSystem) Update(w *ecs.World, f *ecs.Frame) {
	if w == nil {
		return
	}
	dt := common.FrameDT
	if f != nil && f.DT > 0 {
		dt = f.DT
	}

	ecs.ForEach(w, component.PickupComponent.Kind(), func(e ecs.Entity, pickup *component.Pickup) {
		if pickup.PulseMax <= pickup.PulseMin || pickup.PulseSpeed <= 0 {
			return
		}
		pickup.PulsePhase = math.Mod(pickup.PulsePhase+pickup.PulseSpeed*dt, 2*math.Pi)
		pickup.Scale = common.Lerp(pickup.PulseMin, pickup.PulseMax, (1-math.Cos(pickup.PulsePhase))/2)
	})
}
