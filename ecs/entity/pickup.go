package entity

import (
	"fmt"

	"github.com/milk9111/hedgehog/ecs"
)

// NewDataPointAt builds a data point pickup centered on (x, y).
func NewDataPointAt(w *ecs.World, x, y float64) (ecs.Entity, error) {
	entity, err := BuildEntity(w, "data_point.yaml")
	if err != nil {
		return 0, err
	}
	if err := SetEntityTransform(w, entity, x, y); err != nil {
		return 0, fmt.Errorf("data point: override transform: %w", err)
	}
	return entity, nil
}
