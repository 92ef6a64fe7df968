package levels

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
)

//go:embed *.json
var LevelsFS embed.FS

// Level is a single-screen platform layout. Positions are box centers in
// screen space (y grows downward).
type Level struct {
	Number     int      `json:"number"`
	Width      float64  `json:"width"`
	Height     float64  `json:"height"`
	FallMargin float64  `json:"fall_margin"`
	Spawn      Point    `json:"spawn"`
	Ground     Rect     `json:"ground"`
	Platforms  []Rect   `json:"platforms"`
	Entities   []Entity `json:"entities,omitempty"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type Entity struct {
	Type  string         `json:"type"`
	X     float64        `json:"x"`
	Y     float64        `json:"y"`
	Props map[string]any `json:"props,omitempty"`
}

var ErrInvalidLevel = errors.New("levels: invalid level")

// EntitiesOfType returns the level entities with the given type, in file
// order.
func (l *Level) EntitiesOfType(kind string) []Entity {
	if l == nil {
		return nil
	}
	var out []Entity
	for _, e := range l.Entities {
		if e.Type == kind {
			out = append(out, e)
		}
	}
	return out
}

// Validate checks the fields a level cannot run without.
func (l *Level) Validate() error {
	if l == nil {
		return fmt.Errorf("%w: nil", ErrInvalidLevel)
	}
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("%w: size %vx%v", ErrInvalidLevel, l.Width, l.Height)
	}
	if l.Ground.Width <= 0 || l.Ground.Height <= 0 {
		return fmt.Errorf("%w: ground has no extent", ErrInvalidLevel)
	}
	for i, p := range l.Platforms {
		if p.Width <= 0 || p.Height <= 0 {
			return fmt.Errorf("%w: platform %d has no extent", ErrInvalidLevel, i)
		}
	}
	return nil
}

func LoadLevelFromFS(name string) (*Level, error) {
	data, err := fs.ReadFile(LevelsFS, name)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a level document.
func Parse(data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if lvl.Number == 0 {
		lvl.Number = 1
	}
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	return &lvl, nil
}
