package flags

import (
	"sync"
	"testing"
)

func TestStoreOverrides(t *testing.T) {
	s := NewStore(Config{SpeedBoostEnabled: true, Skin: SkinRobohog})
	v0 := s.Version()

	if err := s.Override(KeyDoubleJump, true); err != nil {
		t.Fatalf("override: %v", err)
	}
	got := s.Snapshot()
	if !got.DoubleJumpEnabled || !got.SpeedBoostEnabled || got.Skin != SkinRobohog {
		t.Fatalf("unexpected snapshot %+v", got)
	}
	if s.Version() <= v0 {
		t.Fatalf("version should advance on override")
	}

	// Overrides survive a remote refresh.
	s.Replace(Config{Skin: SkinSpiderhog})
	got = s.Snapshot()
	if !got.DoubleJumpEnabled || got.SpeedBoostEnabled || got.Skin != SkinSpiderhog {
		t.Fatalf("unexpected snapshot after replace %+v", got)
	}
	if s.Remote().DoubleJumpEnabled {
		t.Fatalf("remote must not include overrides")
	}

	s.ResetOverrides()
	if s.Snapshot().DoubleJumpEnabled {
		t.Fatalf("reset should drop the override")
	}
	if len(s.Overrides()) != 0 {
		t.Fatalf("expected no overrides, got %v", s.Overrides())
	}
}

func TestStoreRejectsBadOverride(t *testing.T) {
	s := NewStore(Defaults())
	if err := s.Override(KeySkin, 12); err == nil {
		t.Fatalf("expected error for non-string skin")
	}
	if err := s.Override("jetpack", true); err != ErrUnknownFlag {
		t.Fatalf("expected ErrUnknownFlag, got %v", err)
	}
	if len(s.Overrides()) != 0 {
		t.Fatalf("rejected overrides must not be stored")
	}
}

func TestStoreNormalizesUnknownSkin(t *testing.T) {
	s := NewStore(Config{Skin: "pirate"})
	if s.Snapshot().Skin != SkinDefault {
		t.Fatalf("expected default skin, got %q", s.Snapshot().Skin)
	}
}

func TestStoreConcurrentReaders(t *testing.T) {
	s := NewStore(Defaults())
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if i%2 == 0 {
					s.Replace(Config{DoubleJumpEnabled: j%2 == 0, Skin: Skins[j%len(Skins)]})
				} else {
					cfg := s.Snapshot()
					if cfg.Skin == "" {
						t.Errorf("snapshot with empty skin")
						return
					}
				}
			}
		}(i)
	}
	wg.Wait()
}

func TestNilStore(t *testing.T) {
	var s *Store
	if s.Snapshot() != Defaults() {
		t.Fatalf("nil store should yield defaults")
	}
	s.Replace(Defaults())
	if err := s.Override(KeySkin, "robohog"); err != nil {
		t.Fatalf("nil store override: %v", err)
	}
}
