package system

import (
	"github.com/milk9111/hedgehog/ecs"
	"github.com/milk9111/hedgehog/ecs/component"
)

// ScoreCounterSystem keeps the counter in range and refreshes its HUD text.
type ScoreCounterSystem struct{}

func NewScoreCounterSystem() *ScoreCounterSystem { return &ScoreCounterSystem{} }

func (s *ScoreCounterSystem) Update(w *ecs.World, f *ecs.Frame) {
	ecs.ForEach(w, component.ScoreCounterComponent.Kind(), func(e ecs.Entity, counter *component.ScoreCounter) {
		if counter.Total < 0 {
			counter.Total = 0
		}
		if counter.Collected < 0 {
			counter.Collected = 0
		}
		if counter.Collected > counter.Total {
			counter.Collected = counter.Total
		}

		counter.RenderedText = counter.Text()
	})
}
