package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/milk9111/hedgehog/ecs/component"
	"github.com/milk9111/hedgehog/ecs/system"
	"github.com/milk9111/hedgehog/flags"
	"github.com/milk9111/hedgehog/telemetry"
)

func TestParseScript(t *testing.T) {
	cases := []struct {
		name    string
		script  string
		want    []step
		wantErr bool
	}{
		{"single", "R 10", []step{{component.Input{Right: true}, 10}}, false},
		{"combined_keys", "rj 1, - 3", []step{{component.Input{Right: true, Jump: true}, 1}, {component.Input{}, 3}}, false},
		{"all_keys", "LRJS 2", []step{{component.Input{Left: true, Right: true, Jump: true, Restart: true}, 2}}, false},
		{"trailing_comma", "J 1,", []step{{component.Input{Jump: true}, 1}}, false},
		{"empty", " , ", nil, true},
		{"missing_frames", "R", nil, true},
		{"zero_frames", "R 0", nil, true},
		{"unknown_key", "X 4", nil, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseScript(tc.script)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %+v", tc.script, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse %q: %v", tc.script, err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("expected %d steps, got %+v", len(tc.want), got)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("step %d: expected %+v, got %+v", i, tc.want[i], got[i])
				}
			}
		})
	}
}

func TestRunSimPrintsEvents(t *testing.T) {
	store := flags.NewStore(flags.Defaults())
	if err := store.Override(flags.KeySkin, "robohog"); err != nil {
		t.Fatalf("override: %v", err)
	}
	steps, err := parseScript("J 1, - 2")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	var out bytes.Buffer
	if err := runSim(context.Background(), &out, store, steps); err != nil {
		t.Fatalf("run: %v", err)
	}

	var names []string
	dec := json.NewDecoder(&out)
	for dec.More() {
		var evt struct {
			Event      string         `json:"event"`
			Properties map[string]any `json:"properties"`
			Timestamp  time.Time      `json:"timestamp"`
		}
		if err := dec.Decode(&evt); err != nil {
			t.Fatalf("decode: %v", err)
		}
		names = append(names, evt.Event)
		if evt.Properties["skin"] != "robohog" {
			t.Fatalf("expected robohog skin on %s, got %v", evt.Event, evt.Properties)
		}
	}
	if len(names) != 2 || names[0] != system.EventGameStarted || names[1] != system.EventPlayerJumped {
		t.Fatalf("unexpected events %v", names)
	}
}

func TestRunSimCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	steps, _ := parseScript("R 5")
	var out bytes.Buffer
	if err := runSim(ctx, &out, flags.NewStore(flags.Defaults()), steps); err == nil {
		t.Fatalf("expected canceled run to fail")
	}
}

func TestNextSkinCycles(t *testing.T) {
	s := flags.SkinDefault
	seen := map[flags.Skin]bool{}
	for range flags.Skins {
		s = nextSkin(s)
		seen[s] = true
	}
	if s != flags.SkinDefault || len(seen) != len(flags.Skins) {
		t.Fatalf("expected a full cycle back to default, saw %v", seen)
	}
}

func TestFormatEvent(t *testing.T) {
	evt := telemetry.NewEvent(system.EventItemCollected, map[string]any{"total": 3, "item_type": "data_point"},
		time.Date(2024, 1, 1, 12, 30, 5, 0, time.UTC))
	want := "12:30:05 item_collected item_type=data_point total=3"
	if got := formatEvent(evt); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
