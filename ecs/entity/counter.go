package entity

import (
	"fmt"

	"github.com/milk9111/hedgehog/ecs"
	"github.com/milk9111/hedgehog/ecs/component"
)

// NewScoreCounter creates the HUD counter for total pickups.
func NewScoreCounter(w *ecs.World, total int) (ecs.Entity, error) {
	counterEntity := ecs.CreateEntity(w)
	if err := ecs.Add(w, counterEntity, component.CounterTagComponent.Kind(), &component.CounterTag{}); err != nil {
		return 0, fmt.Errorf("score counter: add tag: %w", err)
	}
	counter := &component.ScoreCounter{Total: total}
	counter.RenderedText = counter.Text()
	if err := ecs.Add(w, counterEntity, component.ScoreCounterComponent.Kind(), counter); err != nil {
		return 0, fmt.Errorf("score counter: add counter component: %w", err)
	}
	return counterEntity, nil
}
