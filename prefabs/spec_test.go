package prefabs

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

func TestEmbeddedPrefabsDecode(t *testing.T) {
	SetDir("")
	defer SetDir("prefabs")

	for _, name := range []string{"player.yaml", "data_point.yaml"} {
		t.Run(name, func(t *testing.T) {
			spec, err := LoadEntityBuildSpec(name)
			if err != nil {
				t.Fatalf("load %s: %v", name, err)
			}
			if len(spec.Components) == 0 {
				t.Fatalf("%s has no components", name)
			}
		})
	}

	player, err := LoadEntityBuildSpec("player.yaml")
	if err != nil {
		t.Fatalf("load player: %v", err)
	}
	p, err := DecodeComponentSpec[PlayerComponentSpec](player.Components["player"])
	if err != nil {
		t.Fatalf("decode player: %v", err)
	}
	if p.BaseSpeed != 300 || p.BoostSpeed != 450 || p.JumpSpeed != 450 {
		t.Fatalf("unexpected player tuning %+v", p)
	}
	anim, err := DecodeComponentSpec[AnimationComponentSpec](player.Components["animation"])
	if err != nil {
		t.Fatalf("decode animation: %v", err)
	}
	if anim.Defs["walk"].FrameCount != 11 || anim.Defs["jump"].FrameCount != 10 || anim.Defs["fall"].FrameCount != 9 {
		t.Fatalf("unexpected clip frame counts %+v", anim.Defs)
	}
}

func TestSkinsSpec(t *testing.T) {
	SetDir("")
	defer SetDir("prefabs")

	spec, err := LoadSkinsSpec()
	if err != nil {
		t.Fatalf("load skins: %v", err)
	}
	for _, name := range []string{"default", "spiderhog", "robohog"} {
		skin, ok := spec.Skin(name)
		if !ok {
			t.Fatalf("missing skin %s", name)
		}
		if skin.Tint == nil || skin.Tint.Color == nil {
			t.Fatalf("skin %s has no tint", name)
		}
		for _, kind := range []string{"walk", "jump", "fall"} {
			if skin.Sheets[kind] == "" {
				t.Fatalf("skin %s has no %s sheet", name, kind)
			}
		}
	}
	if _, ok := spec.Skin("pirate"); ok {
		t.Fatalf("unexpected skin pirate")
	}
}

func TestYAMLColor(t *testing.T) {
	cases := []struct {
		in      string
		want    color.Color
		wantErr bool
	}{
		{"'#ff8000'", color.NRGBA{R: 0xff, G: 0x80, A: 0xff}, false},
		{"'10203040'", color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0x40}, false},
		{"Orange", colornames.Orange, false},
		{"'#abc'", nil, true},
		{"'#gg0000'", nil, true},
		{"[1, 2]", nil, true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			var c YAMLColor
			err := yaml.Unmarshal([]byte(tc.in), &c)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %s", tc.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if c.Color != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, c.Color)
			}
		})
	}
}

func TestDiskOverride(t *testing.T) {
	dir := t.TempDir()
	SetDir(dir)
	defer SetDir("prefabs")

	if err := os.WriteFile(filepath.Join(dir, "player.yaml"), []byte("name: custom\ncomponents:\n  player_tag: {}\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	spec, err := LoadEntityBuildSpec("prefabs/player.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if spec.Name != "custom" {
		t.Fatalf("expected disk copy, got %q", spec.Name)
	}

	// Missing on disk falls back to the embedded copy.
	if _, err := LoadEntityBuildSpec("data_point.yaml"); err != nil {
		t.Fatalf("fallback load: %v", err)
	}
	if _, err := LoadScript("scripts/flags.tengo"); err != nil {
		t.Fatalf("fallback script: %v", err)
	}
}

func TestWatcherReportsEdits(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("watcher: %v", err)
	}
	defer w.Close()

	path := filepath.Join(dir, "player.yaml")
	deadline := time.After(3 * time.Second)
	tick := time.NewTicker(150 * time.Millisecond)
	defer tick.Stop()
	for {
		if err := os.WriteFile(path, []byte("name: x\n"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		select {
		case name := <-w.Events:
			if name != "player.yaml" {
				t.Fatalf("unexpected event %q", name)
			}
			return
		case <-tick.C:
		case <-deadline:
			t.Fatalf("no watch event")
		}
	}
}
