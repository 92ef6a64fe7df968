package flags

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseFlagDocuments(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want Config
	}{
		{"yaml_top_level", "doubleJumpEnabled: true\nskin: robohog\n",
			Config{DoubleJumpEnabled: true, Skin: SkinRobohog}},
		{"json_endpoint_body", `{"distinctId":"x","featureFlags":{"game-speed-boost":true,"game-character-skin":"spiderhog"}}`,
			Config{SpeedBoostEnabled: true, Skin: SkinSpiderhog}},
		{"empty", "", Config{Skin: SkinDefault}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse([]byte(tc.doc))
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}

	if _, err := Parse([]byte("skin: [unterminated")); err == nil {
		t.Fatalf("expected error for malformed yaml")
	}
}

func TestFileSourceLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flags.yaml")
	if err := os.WriteFile(path, []byte("game-double-jump: true\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	store := NewStore(Defaults())
	src := NewFileSource(path, store, nil)
	if err := src.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if !store.Snapshot().DoubleJumpEnabled {
		t.Fatalf("expected double jump after load")
	}

	missing := NewFileSource(filepath.Join(dir, "missing.yaml"), store, nil)
	if err := missing.Load(); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if !store.Snapshot().DoubleJumpEnabled {
		t.Fatalf("failed load must keep the last good value")
	}
}

func TestFileSourceWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flags.yaml")
	if err := os.WriteFile(path, []byte("skin: default\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	store := NewStore(Defaults())
	src := NewFileSource(path, store, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = src.Watch(ctx)
	}()
	defer func() {
		cancel()
		<-done
	}()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		// Rewrite until the watcher is registered and picks it up.
		if err := os.WriteFile(path, []byte("skin: robohog\n"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		time.Sleep(150 * time.Millisecond)
		if store.Snapshot().Skin == SkinRobohog {
			return
		}
	}
	t.Fatalf("watcher never applied the new skin")
}
