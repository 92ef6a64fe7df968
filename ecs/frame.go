package ecs

import (
	"time"

	"github.com/milk9111/hedgehog/ecs/component"
	"github.com/milk9111/hedgehog/flags"
)

// Frame is the context for one simulation step. Config is a snapshot taken
// once by the caller, so every system in the frame sees the same values.
type Frame struct {
	Tick   uint64
	DT     float64
	Now    time.Time
	Input  component.Input
	Config flags.Config
}
