package sax

import (
	"fmt"
	"sort"
)

// Presets are patches on top of the default alto configuration.
var Presets = map[string]Patch{
	"alto": {},
	"bright-alto": {
		"maxHarmonics":            11,
		"harmonicRolloff":         0.9,
		"vibratoDepth":            12,
		"breathNoiseLevelAttack":  0.2,
		"breathNoiseLevelSustain": 0.12,
		"formant2Gain":            8,
		"formant3Gain":            7,
	},
	"tenor": {
		"maxHarmonics":            7,
		"harmonicRolloff":         0.8,
		"vibratoRate":             5.0,
		"vibratoDepth":            8,
		"breathNoiseLevelAttack":  0.1,
		"breathNoiseLevelSustain": 0.05,
		"formant1Freq":            600,
		"formant2Freq":            1200,
		"formant3Freq":            2000,
		"formant1Gain":            8,
		"formant2Gain":            7,
		"formant3Gain":            5,
	},
	"soprano": {
		"maxHarmonics":     10,
		"harmonicRolloff":  0.88,
		"vibratoRate":      6.0,
		"vibratoDepth":     15,
		"formant1Freq":     1000,
		"formant2Freq":     1800,
		"formant3Freq":     3000,
		"keyClickGain":     0.2,
		"breathAttackGain": 0.25,
	},
	"smooth-jazz": {
		"attackTimeMin":           0.025,
		"attackTimeMax":           0.05,
		"keyClickGain":            0.08,
		"breathAttackGain":        0.12,
		"attackPitchBend":         10,
		"vibratoDelay":            0.1,
		"breathNoiseLevelAttack":  0.08,
		"breathNoiseLevelSustain": 0.04,
	},
	"classical": {
		"keyClickGain":            0.05,
		"breathAttackGain":        0.08,
		"breathNoiseLevelAttack":  0.06,
		"breathNoiseLevelSustain": 0.03,
		"vibratoDepth":            6,
		"vibratoDelay":            0.2,
		"attackPitchBend":         8,
	},
}

// Preset returns a copy of the named preset.
func Preset(name string) (Patch, error) {
	p, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPreset, name)
	}
	cp := make(Patch, len(p))
	for k, v := range p {
		cp[k] = v
	}
	return cp, nil
}

// PresetNames returns the preset names in alphabetical order.
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
