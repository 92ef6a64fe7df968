package system

import (
	"github.com/milk9111/hedgehog/common"
	"github.com/milk9111/hedgehog/ecs"
	"github.com/milk9111/hedgehog/ecs/component"
)

// AnimationSystem advances the current clip of every animation by the frame
// time. Looping clips wrap; others hold their last frame and stop.
type AnimationSystem struct{}

func NewAnimationSystem() *AnimationSystem {
	return &AnimationSystem{}
}

func (a *AnimationSystem) Update(w *ecs.World, f *ecs.Frame) {
	dt := common.FrameDT
	if f != nil && f.DT > 0 {
		dt = f.DT
	}
	ecs.ForEach(w, component.AnimationComponent.Kind(), func(_ ecs.Entity, anim *component.Animation) {
		if !anim.Playing {
			return
		}
		def, ok := anim.Defs[anim.Current]
		if !ok || def.FrameCount <= 0 || def.FPS <= 0 {
			return
		}
		advanceClip(anim, def, dt)
	})
}

// frameEpsilon absorbs float drift from summing fixed steps.
const frameEpsilon = 1e-9

func advanceClip(anim *component.Animation, def component.AnimationDef, dt float64) {
	perFrame := 1 / def.FPS
	anim.Elapsed += dt
	for anim.Elapsed+frameEpsilon >= perFrame {
		anim.Elapsed -= perFrame
		if anim.Frame+1 < def.FrameCount {
			anim.Frame++
			continue
		}
		if !def.Loop {
			anim.Frame = def.FrameCount - 1
			anim.Elapsed = 0
			anim.Playing = false
			return
		}
		anim.Frame = 0
	}
}
