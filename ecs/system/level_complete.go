package system

import (
	"github.com/milk9111/hedgehog/ecs"
	"github.com/milk9111/hedgehog/ecs/component"
)

// LevelCompleteSystem marks the level finished the first frame the score
// reaches the total and emits level_completed exactly once.
type LevelCompleteSystem struct{}

func NewLevelCompleteSystem() *LevelCompleteSystem { return &LevelCompleteSystem{} }

func (s *LevelCompleteSystem) Update(w *ecs.World, f *ecs.Frame) {
	if w == nil || f == nil {
		return
	}

	counterEntity, ok := ecs.First(w, component.ScoreCounterComponent.Kind())
	if !ok {
		return
	}
	counter, ok := ecs.Get(w, counterEntity, component.ScoreCounterComponent.Kind())
	if !ok || counter.Completed || counter.Total <= 0 || counter.Collected < counter.Total {
		return
	}
	counter.Completed = true

	level := 0
	seconds := 0
	if e, ok := ecs.First(w, component.LevelInfoComponent.Kind()); ok {
		if info, ok := ecs.Get(w, e, component.LevelInfoComponent.Kind()); ok {
			info.FinishedAt = f.Now
			level = info.Number
			seconds = info.ElapsedSeconds(f.Now)
		}
	}

	skin := f.Config.Normalize().Skin
	if e, ok := ecs.First(w, component.PlayerTagComponent.Kind()); ok {
		if player, ok := ecs.Get(w, e, component.PlayerComponent.Kind()); ok && player.Skin != "" {
			skin = player.Skin
		}
	}

	w.Events().Emit(EventLevelCompleted, map[string]any{
		"level":        level,
		"time_seconds": seconds,
		"score":        counter.Collected,
		"skin":         string(skin),
	})
}
