// Package sax synthesizes saxophone notes. Each note is built as a complete
// signal graph with all of its automation scheduled up front: odd harmonic
// partials with vibrato and an attack pitch bend, breath noise, key click
// and breath attack transients, an ADSR envelope and three formant filters.
package sax

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"

	"github.com/mrdg/saxophone/audio"
)

// Synthesizer plays notes on an audio context. Notes are fire-and-forget:
// once scheduled, a note plays through its release and then releases its
// nodes. Configuration changes only affect notes played afterwards.
type Synthesizer struct {
	ctx    *audio.Context
	master *audio.Gain
	log    *slog.Logger

	mu     sync.Mutex   // serializes configuration writers
	config atomic.Value // Config
}

// NewSynthesizer connects a master gain to the destination of ctx. The
// configuration is the default with p applied.
func NewSynthesizer(ctx *audio.Context, p Patch) (*Synthesizer, error) {
	cfg := DefaultConfig()
	if err := p.Apply(&cfg); err != nil {
		return nil, err
	}
	s := &Synthesizer{
		ctx:    ctx,
		master: ctx.NewGain(),
		log:    slog.Default().With("component", "sax"),
	}
	s.store(cfg)
	ctx.Attach(s.master, ctx.Destination(), math.Inf(1))
	return s, nil
}

// Config returns the current configuration.
func (s *Synthesizer) Config() Config {
	return s.config.Load().(Config)
}

// UpdateConfig merges p into the current configuration.
func (s *Synthesizer) UpdateConfig(p Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := s.Config()
	if err := p.Apply(&cfg); err != nil {
		return err
	}
	s.store(cfg)
	return nil
}

// SetConfig replaces the configuration with the defaults and p applied.
// Readers see either the old or the new configuration.
func (s *Synthesizer) SetConfig(p Patch) error {
	cfg := DefaultConfig()
	if err := p.Apply(&cfg); err != nil {
		return err
	}
	s.mu.Lock()
	s.store(cfg)
	s.mu.Unlock()
	return nil
}

// ResetConfig restores the default configuration.
func (s *Synthesizer) ResetConfig() {
	s.mu.Lock()
	s.store(DefaultConfig())
	s.mu.Unlock()
}

func (s *Synthesizer) store(cfg Config) {
	if names := cfg.OutOfRange(); len(names) > 0 {
		s.log.Warn("parameters outside their usual range", "params", names)
	}
	s.config.Store(cfg)
}

// SetVolume sets the master gain immediately.
func (s *Synthesizer) SetVolume(gain float64) {
	s.master.Gain.SetValue(gain)
}

// Volume returns the master gain.
func (s *Synthesizer) Volume() float64 {
	return s.master.Gain.Value()
}

// PlayNote schedules n. Pitch and velocity are clamped to the MIDI range; a
// negative or non-finite start time or duration is an error. The returned
// voice is a description of what was scheduled.
func (s *Synthesizer) PlayNote(n Note) (*Voice, error) {
	n, err := n.normalize()
	if err != nil {
		return nil, err
	}
	b := newBuilder(s.ctx, s.Config(), n)
	out := b.build()
	s.ctx.Attach(out, s.master, b.voice.End)
	return b.voice, nil
}

// Play schedules a note. It implements score.Playable.
func (s *Synthesizer) Play(pitch int, start, duration float64, velocity int) error {
	_, err := s.PlayNote(Note{Pitch: pitch, Start: start, Duration: duration, Velocity: velocity})
	if err != nil {
		return fmt.Errorf("play %d at %.3fs: %w", pitch, start, err)
	}
	return nil
}
