package flags

import "testing"

func TestFromValues(t *testing.T) {
	cases := []struct {
		name   string
		values map[string]any
		want   Config
	}{
		{"nil", nil, Config{Skin: SkinDefault}},
		{"endpoint_keys", map[string]any{
			KeyDoubleJump: true,
			KeySpeedBoost: true,
			KeySkin:       "robohog",
		}, Config{DoubleJumpEnabled: true, SpeedBoostEnabled: true, Skin: SkinRobohog}},
		{"camel_case", map[string]any{
			"doubleJumpEnabled": true,
			"skin":              "Spiderhog",
		}, Config{DoubleJumpEnabled: true, Skin: SkinSpiderhog}},
		{"string_bools", map[string]any{
			KeyDoubleJump: "true",
			KeySpeedBoost: "nope",
		}, Config{DoubleJumpEnabled: true, Skin: SkinDefault}},
		{"malformed_fall_back_per_field", map[string]any{
			KeyDoubleJump: 7,
			KeySpeedBoost: true,
			KeySkin:       "pirate",
		}, Config{SpeedBoostEnabled: true, Skin: SkinDefault}},
		{"unknown_keys_ignored", map[string]any{"other": true}, Config{Skin: SkinDefault}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FromValues(tc.values); got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}

func TestConfigDerivedValues(t *testing.T) {
	cfg := Defaults()
	if cfg.MaxJumps() != 1 || cfg.Speed(300, 450) != 300 {
		t.Fatalf("defaults: jumps=%d speed=%v", cfg.MaxJumps(), cfg.Speed(300, 450))
	}
	cfg.DoubleJumpEnabled = true
	cfg.SpeedBoostEnabled = true
	if cfg.MaxJumps() != 2 || cfg.Speed(300, 450) != 450 {
		t.Fatalf("enabled: jumps=%d speed=%v", cfg.MaxJumps(), cfg.Speed(300, 450))
	}
}

func TestConfigSet(t *testing.T) {
	cfg := Defaults()
	if err := cfg.Set("doubleJump", true); err != nil {
		t.Fatalf("set double jump: %v", err)
	}
	if err := cfg.Set(KeySkin, "robohog"); err != nil {
		t.Fatalf("set skin: %v", err)
	}
	if !cfg.DoubleJumpEnabled || cfg.Skin != SkinRobohog {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if err := cfg.Set(KeySpeedBoost, 3); err == nil {
		t.Fatalf("expected error for non-bool speed boost")
	}
	if err := cfg.Set("gravity", 1); err != ErrUnknownFlag {
		t.Fatalf("expected ErrUnknownFlag, got %v", err)
	}
}

func TestValuesRoundTripThroughFromValues(t *testing.T) {
	cfg := Config{DoubleJumpEnabled: true, Skin: SkinSpiderhog}
	if got := FromValues(cfg.Values()); got != cfg {
		t.Fatalf("expected %+v, got %+v", cfg, got)
	}
}
