package effects

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownPreset = errors.New("unknown effects preset")

// Settings control the effects chain around the sample player.
type Settings struct {
	VibratoRate  float64 `json:"vibratoRate" yaml:"vibratoRate"`   // Hz
	VibratoDepth float64 `json:"vibratoDepth" yaml:"vibratoDepth"` // cents, peak to peak
	Brightness   float64 `json:"brightness" yaml:"brightness"`     // 0-100
	ReverbAmount float64 `json:"reverbAmount" yaml:"reverbAmount"` // 0-100
}

func DefaultSettings() Settings {
	return Settings{VibratoRate: 6, VibratoDepth: 8, Brightness: 50, ReverbAmount: 20}
}

var Presets = map[string]Settings{
	"default":   DefaultSettings(),
	"jazz":      {VibratoRate: 6.5, VibratoDepth: 10, Brightness: 65, ReverbAmount: 25},
	"classical": {VibratoRate: 5, VibratoDepth: 6, Brightness: 40, ReverbAmount: 30},
	"smooth":    {VibratoRate: 5.5, VibratoDepth: 5, Brightness: 35, ReverbAmount: 15},
	"bright":    {VibratoRate: 6.2, VibratoDepth: 9, Brightness: 75, ReverbAmount: 18},
}

func Preset(name string) (Settings, error) {
	s, ok := Presets[name]
	if !ok {
		return Settings{}, fmt.Errorf("%w: %s", ErrUnknownPreset, name)
	}
	return s, nil
}

func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
