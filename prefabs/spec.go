package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/deskpet/motion"
)

// PetFile is the prefab the app starts from.
const PetFile = "pet.yaml"

type PetSpec struct {
	Name      string        `yaml:"name"`
	Voice     string        `yaml:"voice"`
	Animation AnimationSpec `yaml:"animation"`
	Motion    motion.Params `yaml:"motion"`
	Chat      ChatSpec      `yaml:"chat"`
}

type AnimationSpec struct {
	Idle      []string `yaml:"idle"`
	DragDelay int      `yaml:"drag_delay"`
}

type ChatSpec struct {
	Background YAMLColor `yaml:"background"`
	Text       YAMLColor `yaml:"text"`
	Input      YAMLColor `yaml:"input"`
	InputText  YAMLColor `yaml:"input_text"`
	Caret      YAMLColor `yaml:"caret"`
}

func DefaultPetSpec() PetSpec {
	return PetSpec{
		Name:  "Ameath",
		Voice: "voice.tengo",
		Animation: AnimationSpec{
			Idle:      []string{"idle1", "idle2", "idle3", "idle4"},
			DragDelay: 1000,
		},
		Motion: motion.DefaultParams(),
		Chat: ChatSpec{
			Background: YAMLColor{color.NRGBA{R: 0xff, G: 0xf8, B: 0xf0, A: 0xf0}},
			Text:       YAMLColor{color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}},
			Input:      YAMLColor{color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}},
			InputText:  YAMLColor{color.NRGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff}},
			Caret:      YAMLColor{color.NRGBA{R: 0xff, G: 0x69, B: 0xb4, A: 0xff}},
		},
	}
}

// LoadPetSpec reads filename over the defaults, so the prefab only needs to
// name what it changes.
func LoadPetSpec(filename string) (PetSpec, error) {
	spec := DefaultPetSpec()
	data, err := Load(filename)
	if err != nil {
		return spec, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return DefaultPetSpec(), fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	if len(spec.Animation.Idle) == 0 {
		spec.Animation.Idle = DefaultPetSpec().Animation.Idle
	}
	return spec, nil
}

// YAMLColor reads "#rrggbb" or "#rrggbbaa".
type YAMLColor struct {
	color.Color
}

// Or returns the color, or def when unset.
func (c YAMLColor) Or(def color.Color) color.Color {
	if c.Color == nil {
		return def
	}
	return c.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}
	parsed, err := ParseColor(value.Value)
	if err != nil {
		return err
	}
	c.Color = parsed
	return nil
}

func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color format: %s", s)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(hex[start:start+2], 16, 8)
		return uint8(v), err
	}

	var out [4]uint8
	out[3] = 0xff
	for i := 0; i < len(hex)/2; i++ {
		v, err := parse(i * 2)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid color format: %s", s)
		}
		out[i] = v
	}
	return color.NRGBA{R: out[0], G: out[1], B: out[2], A: out[3]}, nil
}
