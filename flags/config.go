// Package flags holds the externally controlled gameplay configuration and
// the sources that feed it.
package flags

import (
	"errors"
	"strconv"
	"strings"
)

// Skin identifies a character appearance.
type Skin string

const (
	SkinDefault   Skin = "default"
	SkinSpiderhog Skin = "spiderhog"
	SkinRobohog   Skin = "robohog"
)

// Skins lists every known skin in display order.
var Skins = []Skin{SkinDefault, SkinSpiderhog, SkinRobohog}

// Flag keys as served by the flag endpoint.
const (
	KeyDoubleJump = "game-double-jump"
	KeySpeedBoost = "game-speed-boost"
	KeySkin       = "game-character-skin"
)

var ErrUnknownFlag = errors.New("flags: unknown flag")

// ParseSkin returns the matching skin or SkinDefault for anything unknown.
func ParseSkin(s string) Skin {
	switch Skin(strings.ToLower(strings.TrimSpace(s))) {
	case SkinSpiderhog:
		return SkinSpiderhog
	case SkinRobohog:
		return SkinRobohog
	default:
		return SkinDefault
	}
}

func (s Skin) String() string {
	if s == "" {
		return string(SkinDefault)
	}
	return string(s)
}

// Config is the live gameplay configuration. The zero value is not valid;
// use Defaults or FromValues.
type Config struct {
	DoubleJumpEnabled bool `json:"doubleJumpEnabled" yaml:"doubleJumpEnabled"`
	SpeedBoostEnabled bool `json:"speedBoostEnabled" yaml:"speedBoostEnabled"`
	Skin              Skin `json:"skin" yaml:"skin"`
}

// Defaults returns the safe fallback configuration.
func Defaults() Config {
	return Config{Skin: SkinDefault}
}

// Normalize replaces an empty or unknown skin with the default.
func (c Config) Normalize() Config {
	c.Skin = ParseSkin(string(c.Skin))
	return c
}

// MaxJumps is 2 with double jump enabled, else 1.
func (c Config) MaxJumps() int {
	if c.DoubleJumpEnabled {
		return 2
	}
	return 1
}

// Speed picks the boosted or base horizontal speed.
func (c Config) Speed(base, boosted float64) float64 {
	if c.SpeedBoostEnabled {
		return boosted
	}
	return base
}

// Values renders c with the endpoint's flag keys.
func (c Config) Values() map[string]any {
	c = c.Normalize()
	return map[string]any{
		KeyDoubleJump: c.DoubleJumpEnabled,
		KeySpeedBoost: c.SpeedBoostEnabled,
		KeySkin:       string(c.Skin),
	}
}

// FromValues builds a Config from loosely typed values. Both the endpoint
// keys and the camelCase field names are accepted; a missing or malformed
// value keeps that field's default.
func FromValues(values map[string]any) Config {
	cfg := Defaults()
	for key, raw := range values {
		switch canonicalKey(key) {
		case KeyDoubleJump:
			if v, ok := asBool(raw); ok {
				cfg.DoubleJumpEnabled = v
			}
		case KeySpeedBoost:
			if v, ok := asBool(raw); ok {
				cfg.SpeedBoostEnabled = v
			}
		case KeySkin:
			if s, ok := raw.(string); ok {
				cfg.Skin = ParseSkin(s)
			}
		}
	}
	return cfg
}

// Set applies a single flag value to c. Unlike FromValues it reports bad
// input, because it backs user-driven overrides.
func (c *Config) Set(key string, value any) error {
	if c == nil {
		return nil
	}
	switch canonicalKey(key) {
	case KeyDoubleJump:
		v, ok := asBool(value)
		if !ok {
			return errors.New("flags: " + KeyDoubleJump + " needs a bool")
		}
		c.DoubleJumpEnabled = v
	case KeySpeedBoost:
		v, ok := asBool(value)
		if !ok {
			return errors.New("flags: " + KeySpeedBoost + " needs a bool")
		}
		c.SpeedBoostEnabled = v
	case KeySkin:
		s, ok := value.(string)
		if !ok {
			return errors.New("flags: " + KeySkin + " needs a string")
		}
		c.Skin = ParseSkin(s)
	default:
		return ErrUnknownFlag
	}
	return nil
}

func canonicalKey(key string) string {
	switch key {
	case KeyDoubleJump, "doubleJumpEnabled", "doubleJump", "double_jump":
		return KeyDoubleJump
	case KeySpeedBoost, "speedBoostEnabled", "speedBoost", "speed_boost":
		return KeySpeedBoost
	case KeySkin, "skin":
		return KeySkin
	default:
		return ""
	}
}

func asBool(raw any) (bool, bool) {
	switch v := raw.(type) {
	case bool:
		return v, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, false
		}
		return b, true
	default:
		return false, false
	}
}

// DistinctIDCookie carries the player's stable analytics id.
const DistinctIDCookie = "ph_distinct_id"
