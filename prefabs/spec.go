package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// SkinSpec describes how a skin looks: the sheet file per animation kind and
// the tint used when a sheet has to be generated.
type SkinSpec struct {
	Name   string            `yaml:"name"`
	Tint   *YAMLColor        `yaml:"tint"`
	Accent *YAMLColor        `yaml:"accent"`
	Sheets map[string]string `yaml:"sheets"`
}

type SkinsSpec struct {
	FrameW int `yaml:"frame_w"`
	FrameH int `yaml:"frame_h"`
	// Frames is the frame count per sheet kind.
	Frames    map[string]int `yaml:"frames"`
	DataPoint DataPointSpec  `yaml:"data_point"`
	Skins     []SkinSpec     `yaml:"skins"`
}

type DataPointSpec struct {
	File  string     `yaml:"file"`
	Size  int        `yaml:"size"`
	Color *YAMLColor `yaml:"color"`
}

// Skin returns the named skin spec.
func (s *SkinsSpec) Skin(name string) (SkinSpec, bool) {
	if s == nil {
		return SkinSpec{}, false
	}
	for _, skin := range s.Skins {
		if skin.Name == name {
			return skin, true
		}
	}
	return SkinSpec{}, false
}

func LoadSkinsSpec() (*SkinsSpec, error) {
	spec, err := LoadSpec[SkinsSpec]("skins.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// YAMLColor accepts "#rrggbb", "#rrggbbaa" (the # is optional) or an SVG
// color name such as "orange".
type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("prefabs: color must be a string, got %q", value.Tag)
	}
	parsed, err := ParseColor(value.Value)
	if err != nil {
		return err
	}
	c.Color = parsed
	return nil
}

// ParseColor decodes a hex or named color.
func ParseColor(raw string) (color.Color, error) {
	raw = strings.TrimSpace(raw)
	if named, ok := colornames.Map[strings.ToLower(raw)]; ok {
		return named, nil
	}
	hex := strings.TrimPrefix(raw, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return nil, fmt.Errorf("prefabs: invalid color %q", raw)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("prefabs: invalid color %q: %w", raw, err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// MarshalYAML writes the color back as #rrggbbaa.
func (c YAMLColor) MarshalYAML() (any, error) {
	if c.Color == nil {
		return "", nil
	}
	n := color.NRGBAModel.Convert(c.Color).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A), nil
}
