package entity

import (
	"testing"
	"time"

	"github.com/milk9111/hedgehog/ecs"
	"github.com/milk9111/hedgehog/ecs/component"
	"github.com/milk9111/hedgehog/levels"
)

func TestLoadLevelToWorld(t *testing.T) {
	lvl, err := levels.LoadLevelFromFS("level1.json")
	if err != nil {
		t.Fatalf("load level: %v", err)
	}
	w := ecs.NewWorld()
	start := time.Unix(1700000000, 0)
	player, err := LoadLevelToWorld(w, lvl, start)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if n := len(w.Query(component.PlatformComponent.Kind())); n != 7 {
		t.Fatalf("expected ground plus 6 platforms, got %d", n)
	}
	if n := len(w.Query(component.PickupComponent.Kind(), component.TransformComponent.Kind())); n != 9 {
		t.Fatalf("expected 9 pickups, got %d", n)
	}

	tr, ok := ecs.Get(w, player, component.TransformComponent.Kind())
	if !ok || tr.X != 100 || tr.Y != 500 {
		t.Fatalf("unexpected player transform %+v", tr)
	}
	safe, ok := ecs.Get(w, player, component.SafeRespawnComponent.Kind())
	if !ok || safe.X != 100 || safe.Y != 500 {
		t.Fatalf("unexpected respawn point %+v", safe)
	}
	body, ok := ecs.Get(w, player, component.PhysicsBodyComponent.Kind())
	if !ok || body.Width != 50 || body.Height != 70 || body.OffsetY != 5 || body.Gravity != 400 || body.Static {
		t.Fatalf("unexpected player body %+v", body)
	}
	p, ok := ecs.Get(w, player, component.PlayerComponent.Kind())
	if !ok || p.BaseSpeed != 300 || p.BoostSpeed != 450 || p.JumpSpeed != 450 || p.JumpCount != 0 {
		t.Fatalf("unexpected player %+v", p)
	}
	anim, ok := ecs.Get(w, player, component.AnimationComponent.Kind())
	if !ok || anim.Current != "idle" || anim.Defs["walk"].FrameCount != 11 || !anim.Defs["walk"].Loop || anim.Defs["jump"].Loop {
		t.Fatalf("unexpected animation %+v", anim)
	}
	if anim.Defs["idle"].Sheet != "walk" {
		t.Fatalf("idle should use the walk sheet, got %q", anim.Defs["idle"].Sheet)
	}

	counterEntity, ok := ecs.First(w, component.ScoreCounterComponent.Kind())
	if !ok {
		t.Fatalf("no score counter")
	}
	counter, _ := ecs.Get(w, counterEntity, component.ScoreCounterComponent.Kind())
	if counter.Total != 9 || counter.Collected != 0 || counter.RenderedText != "0 / 9" {
		t.Fatalf("unexpected counter %+v", counter)
	}

	boundsEntity, ok := ecs.First(w, component.LevelBoundsComponent.Kind())
	if !ok {
		t.Fatalf("no bounds")
	}
	info, ok := ecs.Get(w, boundsEntity, component.LevelInfoComponent.Kind())
	if !ok || info.Number != 1 || !info.StartedAt.Equal(start) {
		t.Fatalf("unexpected level info %+v", info)
	}
	if got := info.ElapsedSeconds(start.Add(2999 * time.Millisecond)); got != 2 {
		t.Fatalf("expected floor of elapsed seconds, got %d", got)
	}
}

func TestLoadLevelRejectsUnknownEntity(t *testing.T) {
	lvl := &levels.Level{
		Width:    800,
		Height:   600,
		Ground:   levels.Rect{X: 400, Y: 580, Width: 800, Height: 40},
		Entities: []levels.Entity{{Type: "boss"}},
	}
	if _, err := LoadLevelToWorld(ecs.NewWorld(), lvl, time.Now()); err == nil {
		t.Fatalf("expected error for unknown entity type")
	}
}

func TestBuildEntityMissingPrefab(t *testing.T) {
	w := ecs.NewWorld()
	if _, err := BuildEntity(w, "missing.yaml"); err == nil {
		t.Fatalf("expected error for missing prefab")
	}
	if len(ecs.Entities(w)) != 0 {
		t.Fatalf("failed build must not leave entities behind")
	}
}

func TestDataPointPrefab(t *testing.T) {
	w := ecs.NewWorld()
	e, err := NewDataPointAt(w, 10, 20)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	pickup, ok := ecs.Get(w, e, component.PickupComponent.Kind())
	if !ok || pickup.Kind != "data_point" || pickup.CollisionWidth != 24 || pickup.Collected {
		t.Fatalf("unexpected pickup %+v", pickup)
	}
	if pickup.PulseMin != 0.18 || pickup.PulseMax != 0.2 || pickup.PulseSpeed <= 0 {
		t.Fatalf("unexpected pulse %+v", pickup)
	}
	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	if tr.X != 10 || tr.Y != 20 {
		t.Fatalf("unexpected transform %+v", tr)
	}
}
