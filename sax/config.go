package sax

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"

	"gopkg.in/yaml.v3"
)

// Config is the timbre of the synthesizer. Every field has a sane range,
// noted next to it; values outside that range are accepted and simply
// sound less like a saxophone.
type Config struct {
	// Harmonic structure
	MinHarmonics            int     `json:"minHarmonics" yaml:"minHarmonics"`                       // 1-9
	MaxHarmonics            int     `json:"maxHarmonics" yaml:"maxHarmonics"`                       // 1-11, higher is brighter, capped at 9 odd partials
	HarmonicRolloff         float64 `json:"harmonicRolloff" yaml:"harmonicRolloff"`                 // 0.7-0.95, higher is brighter
	HarmonicRolloffVelocity float64 `json:"harmonicRolloffVelocity" yaml:"harmonicRolloffVelocity"` // 0-0.2
	HarmonicMixLevel        float64 `json:"harmonicMixLevel" yaml:"harmonicMixLevel"`               // 0.1-0.5

	// Vibrato
	VibratoRate     float64 `json:"vibratoRate" yaml:"vibratoRate"`         // Hz, 4-7
	VibratoDepth    float64 `json:"vibratoDepth" yaml:"vibratoDepth"`       // cents, 5-15
	VibratoDelay    float64 `json:"vibratoDelay" yaml:"vibratoDelay"`       // s, 0.1-0.3
	VibratoRampTime float64 `json:"vibratoRampTime" yaml:"vibratoRampTime"` // s, 0.1-0.3

	// Attack transients
	AttackPitchBend        float64 `json:"attackPitchBend" yaml:"attackPitchBend"`               // cents, 10-30
	AttackPitchBendTime    float64 `json:"attackPitchBendTime" yaml:"attackPitchBendTime"`       // s, 0.02-0.05
	KeyClickDuration       float64 `json:"keyClickDuration" yaml:"keyClickDuration"`             // s, 0.005-0.02
	KeyClickFilterFreq     float64 `json:"keyClickFilterFreq" yaml:"keyClickFilterFreq"`         // Hz, 1500-3000
	KeyClickGain           float64 `json:"keyClickGain" yaml:"keyClickGain"`                     // 0.05-0.25
	BreathAttackDuration   float64 `json:"breathAttackDuration" yaml:"breathAttackDuration"`     // s, 0.03-0.08
	BreathAttackFilterFreq float64 `json:"breathAttackFilterFreq" yaml:"breathAttackFilterFreq"` // Hz, 1500-2500
	BreathAttackFilterQ    float64 `json:"breathAttackFilterQ" yaml:"breathAttackFilterQ"`       // 1-3
	BreathAttackGain       float64 `json:"breathAttackGain" yaml:"breathAttackGain"`             // 0.1-0.3

	// ADSR envelope
	AttackTimeMin float64 `json:"attackTimeMin" yaml:"attackTimeMin"` // s at full velocity, 0.01-0.03
	AttackTimeMax float64 `json:"attackTimeMax" yaml:"attackTimeMax"` // s at zero velocity, 0.02-0.05
	DecayTime     float64 `json:"decayTime" yaml:"decayTime"`         // s, 0.05-0.15
	SustainLevel  float64 `json:"sustainLevel" yaml:"sustainLevel"`   // fraction of peak, 0.6-0.9
	ReleaseTime   float64 `json:"releaseTime" yaml:"releaseTime"`     // s, 0.05-0.2
	PeakGainMin   float64 `json:"peakGainMin" yaml:"peakGainMin"`     // at zero velocity, 0.1-0.3
	PeakGainMax   float64 `json:"peakGainMax" yaml:"peakGainMax"`     // at full velocity, 0.3-0.7

	// Breathiness
	BreathNoiseFilterFreq   float64 `json:"breathNoiseFilterFreq" yaml:"breathNoiseFilterFreq"`     // Hz, 2000-3500
	BreathNoiseFilterQ      float64 `json:"breathNoiseFilterQ" yaml:"breathNoiseFilterQ"`           // 1.5-3
	BreathNoiseLevelAttack  float64 `json:"breathNoiseLevelAttack" yaml:"breathNoiseLevelAttack"`   // 0.1-0.25
	BreathNoiseLevelSustain float64 `json:"breathNoiseLevelSustain" yaml:"breathNoiseLevelSustain"` // 0.05-0.15
	BreathNoiseFadeTime     float64 `json:"breathNoiseFadeTime" yaml:"breathNoiseFadeTime"`         // s, 0.03-0.08

	// Formants
	Formant1Freq float64 `json:"formant1Freq" yaml:"formant1Freq"` // Hz, 700-900
	Formant1Q    float64 `json:"formant1Q" yaml:"formant1Q"`       // 3-5
	Formant1Gain float64 `json:"formant1Gain" yaml:"formant1Gain"` // dB, 4-10
	Formant2Freq float64 `json:"formant2Freq" yaml:"formant2Freq"` // Hz, 1300-1700
	Formant2Q    float64 `json:"formant2Q" yaml:"formant2Q"`       // 2-4
	Formant2Gain float64 `json:"formant2Gain" yaml:"formant2Gain"` // dB, 4-8
	Formant3Freq float64 `json:"formant3Freq" yaml:"formant3Freq"` // Hz, 2200-2800
	Formant3Q    float64 `json:"formant3Q" yaml:"formant3Q"`       // 2-3.5
	Formant3Gain float64 `json:"formant3Gain" yaml:"formant3Gain"` // dB, 4-8
}

// DefaultConfig is an alto saxophone.
func DefaultConfig() Config {
	return Config{
		MinHarmonics:            5,
		MaxHarmonics:            9,
		HarmonicRolloff:         0.85,
		HarmonicRolloffVelocity: 0.1,
		HarmonicMixLevel:        0.3,

		VibratoRate:     5.5,
		VibratoDepth:    10,
		VibratoDelay:    0.15,
		VibratoRampTime: 0.2,

		AttackPitchBend:        20,
		AttackPitchBendTime:    0.03,
		KeyClickDuration:       0.015,
		KeyClickFilterFreq:     2000,
		KeyClickGain:           0.15,
		BreathAttackDuration:   0.05,
		BreathAttackFilterFreq: 2000,
		BreathAttackFilterQ:    1.5,
		BreathAttackGain:       0.2,

		AttackTimeMin: 0.015,
		AttackTimeMax: 0.03,
		DecayTime:     0.08,
		SustainLevel:  0.8,
		ReleaseTime:   0.1,
		PeakGainMin:   0.2,
		PeakGainMax:   0.5,

		BreathNoiseFilterFreq:   2500,
		BreathNoiseFilterQ:      2,
		BreathNoiseLevelAttack:  0.15,
		BreathNoiseLevelSustain: 0.08,
		BreathNoiseFadeTime:     0.05,

		Formant1Freq: 800,
		Formant1Q:    4,
		Formant1Gain: 7,
		Formant2Freq: 1500,
		Formant2Q:    3,
		Formant2Gain: 6,
		Formant3Freq: 2500,
		Formant3Q:    2.5,
		Formant3Gain: 6,
	}
}

var (
	ErrUnknownParam  = errors.New("unknown parameter")
	ErrUnknownPreset = errors.New("unknown preset")
	ErrInvalidValue  = errors.New("invalid value")
)

// Patch overrides a subset of the configuration by parameter name.
type Patch map[string]float64

// Apply writes every field of p into c. It fails without modifying c if p
// names an unknown parameter or gives a fractional count.
func (p Patch) Apply(c *Config) error {
	if err := p.validate(); err != nil {
		return err
	}
	for name, v := range p {
		paramsByName[name].set(c, v)
	}
	return nil
}

func (p Patch) validate() error {
	for name, v := range p {
		param, ok := paramsByName[name]
		if !ok {
			return fmt.Errorf("%w %q", ErrUnknownParam, name)
		}
		if param.Integer && (v != math.Trunc(v) || math.IsInf(v, 0)) {
			return fmt.Errorf("%w: %s must be a whole number, got %v", ErrInvalidValue, name, v)
		}
	}
	return nil
}

// LoadPatch decodes a YAML (or JSON) mapping of parameter names to values.
func LoadPatch(r io.Reader) (Patch, error) {
	var p Patch
	if err := yaml.NewDecoder(r).Decode(&p); err != nil {
		if err == io.EOF {
			return Patch{}, nil
		}
		return nil, fmt.Errorf("decode patch: %w", err)
	}
	if p == nil {
		p = Patch{}
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Param describes one configuration field.
type Param struct {
	Name    string
	Group   string
	Min     float64
	Max     float64
	Integer bool
	get     func(*Config) float64
	set     func(*Config, float64)
}

func (p Param) Get(c Config) float64 { return p.get(&c) }

func (p Param) InRange(v float64) bool { return v >= p.Min && v <= p.Max }

func number(group, name string, lo, hi float64, field func(*Config) *float64) Param {
	return Param{
		Name:  name,
		Group: group,
		Min:   lo,
		Max:   hi,
		get:   func(c *Config) float64 { return *field(c) },
		set:   func(c *Config, v float64) { *field(c) = v },
	}
}

func count(group, name string, lo, hi float64, field func(*Config) *int) Param {
	return Param{
		Name:    name,
		Group:   group,
		Min:     lo,
		Max:     hi,
		Integer: true,
		get:     func(c *Config) float64 { return float64(*field(c)) },
		set:     func(c *Config, v float64) { *field(c) = int(v) },
	}
}

// Params lists the configuration fields in declaration order.
var Params = []Param{
	count("harmonics", "minHarmonics", 1, 9, func(c *Config) *int { return &c.MinHarmonics }),
	count("harmonics", "maxHarmonics", 1, 11, func(c *Config) *int { return &c.MaxHarmonics }),
	number("harmonics", "harmonicRolloff", 0.7, 0.95, func(c *Config) *float64 { return &c.HarmonicRolloff }),
	number("harmonics", "harmonicRolloffVelocity", 0, 0.2, func(c *Config) *float64 { return &c.HarmonicRolloffVelocity }),
	number("harmonics", "harmonicMixLevel", 0.1, 0.5, func(c *Config) *float64 { return &c.HarmonicMixLevel }),

	number("vibrato", "vibratoRate", 4, 7, func(c *Config) *float64 { return &c.VibratoRate }),
	number("vibrato", "vibratoDepth", 5, 15, func(c *Config) *float64 { return &c.VibratoDepth }),
	number("vibrato", "vibratoDelay", 0.1, 0.3, func(c *Config) *float64 { return &c.VibratoDelay }),
	number("vibrato", "vibratoRampTime", 0.1, 0.3, func(c *Config) *float64 { return &c.VibratoRampTime }),

	number("attack", "attackPitchBend", 10, 30, func(c *Config) *float64 { return &c.AttackPitchBend }),
	number("attack", "attackPitchBendTime", 0.02, 0.05, func(c *Config) *float64 { return &c.AttackPitchBendTime }),
	number("attack", "keyClickDuration", 0.005, 0.02, func(c *Config) *float64 { return &c.KeyClickDuration }),
	number("attack", "keyClickFilterFreq", 1500, 3000, func(c *Config) *float64 { return &c.KeyClickFilterFreq }),
	number("attack", "keyClickGain", 0.05, 0.25, func(c *Config) *float64 { return &c.KeyClickGain }),
	number("attack", "breathAttackDuration", 0.03, 0.08, func(c *Config) *float64 { return &c.BreathAttackDuration }),
	number("attack", "breathAttackFilterFreq", 1500, 2500, func(c *Config) *float64 { return &c.BreathAttackFilterFreq }),
	number("attack", "breathAttackFilterQ", 1, 3, func(c *Config) *float64 { return &c.BreathAttackFilterQ }),
	number("attack", "breathAttackGain", 0.1, 0.3, func(c *Config) *float64 { return &c.BreathAttackGain }),

	number("envelope", "attackTimeMin", 0.01, 0.03, func(c *Config) *float64 { return &c.AttackTimeMin }),
	number("envelope", "attackTimeMax", 0.02, 0.05, func(c *Config) *float64 { return &c.AttackTimeMax }),
	number("envelope", "decayTime", 0.05, 0.15, func(c *Config) *float64 { return &c.DecayTime }),
	number("envelope", "sustainLevel", 0.6, 0.9, func(c *Config) *float64 { return &c.SustainLevel }),
	number("envelope", "releaseTime", 0.05, 0.2, func(c *Config) *float64 { return &c.ReleaseTime }),
	number("envelope", "peakGainMin", 0.1, 0.3, func(c *Config) *float64 { return &c.PeakGainMin }),
	number("envelope", "peakGainMax", 0.3, 0.7, func(c *Config) *float64 { return &c.PeakGainMax }),

	number("breath", "breathNoiseFilterFreq", 2000, 3500, func(c *Config) *float64 { return &c.BreathNoiseFilterFreq }),
	number("breath", "breathNoiseFilterQ", 1.5, 3, func(c *Config) *float64 { return &c.BreathNoiseFilterQ }),
	number("breath", "breathNoiseLevelAttack", 0.1, 0.25, func(c *Config) *float64 { return &c.BreathNoiseLevelAttack }),
	number("breath", "breathNoiseLevelSustain", 0.05, 0.15, func(c *Config) *float64 { return &c.BreathNoiseLevelSustain }),
	number("breath", "breathNoiseFadeTime", 0.03, 0.08, func(c *Config) *float64 { return &c.BreathNoiseFadeTime }),

	number("formants", "formant1Freq", 700, 900, func(c *Config) *float64 { return &c.Formant1Freq }),
	number("formants", "formant1Q", 3, 5, func(c *Config) *float64 { return &c.Formant1Q }),
	number("formants", "formant1Gain", 4, 10, func(c *Config) *float64 { return &c.Formant1Gain }),
	number("formants", "formant2Freq", 1300, 1700, func(c *Config) *float64 { return &c.Formant2Freq }),
	number("formants", "formant2Q", 2, 4, func(c *Config) *float64 { return &c.Formant2Q }),
	number("formants", "formant2Gain", 4, 8, func(c *Config) *float64 { return &c.Formant2Gain }),
	number("formants", "formant3Freq", 2200, 2800, func(c *Config) *float64 { return &c.Formant3Freq }),
	number("formants", "formant3Q", 2, 3.5, func(c *Config) *float64 { return &c.Formant3Q }),
	number("formants", "formant3Gain", 4, 8, func(c *Config) *float64 { return &c.Formant3Gain }),
}

var paramsByName = func() map[string]Param {
	m := make(map[string]Param, len(Params))
	for _, p := range Params {
		m[p.Name] = p
	}
	return m
}()

// LookupParam finds a configuration field by name.
func LookupParam(name string) (Param, bool) {
	p, ok := paramsByName[name]
	return p, ok
}

// Get returns the value of the named field.
func (c Config) Get(name string) (float64, error) {
	p, ok := paramsByName[name]
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrUnknownParam, name)
	}
	return p.get(&c), nil
}

// Patch returns a patch that sets every field to its value in c.
func (c Config) Patch() Patch {
	p := make(Patch, len(Params))
	for _, param := range Params {
		p[param.Name] = param.get(&c)
	}
	return p
}

// OutOfRange returns the names of the fields that lie outside their sane
// range, sorted.
func (c Config) OutOfRange() []string {
	var names []string
	for _, p := range Params {
		if !p.InRange(p.get(&c)) {
			names = append(names, p.Name)
		}
	}
	sort.Strings(names)
	return names
}
