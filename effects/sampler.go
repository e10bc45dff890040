package effects

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"

	"github.com/mrdg/saxophone/audio"
)

var ErrNoSound = errors.New("no sound mapped")

// sampleRelease is the fade applied when a note ends before its sample.
const sampleRelease = 0.05

// SoundMapping maps the root pitch of each sample to the sound.
type SoundMapping map[int]*audio.Sound

// nearest returns the sample whose root pitch is closest to pitch.
func (m SoundMapping) nearest(pitch int) (int, *audio.Sound) {
	roots := make([]int, 0, len(m))
	for root := range m {
		roots = append(roots, root)
	}
	if len(roots) == 0 {
		return 0, nil
	}
	sort.Ints(roots)
	best := roots[0]
	for _, root := range roots[1:] {
		if abs(root-pitch) < abs(best-pitch) {
			best = root
		}
	}
	return best, m[best]
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Sampler plays recorded notes through an effects chain, transposing the
// nearest sample by its playback rate and adding vibrato per note.
type Sampler struct {
	ctx   *audio.Context
	chain *Chain
	log   *slog.Logger

	mu     sync.Mutex
	sounds SoundMapping
}

// NewSampler attaches the chain output to the destination of ctx.
func NewSampler(ctx *audio.Context, chain *Chain) *Sampler {
	ctx.Attach(chain.Output(), ctx.Destination(), math.Inf(1))
	return &Sampler{
		ctx:    ctx,
		chain:  chain,
		log:    slog.Default().With("component", "sampler"),
		sounds: SoundMapping{},
	}
}

// Chain is the effects chain the sampler plays through.
func (s *Sampler) Chain() *Chain { return s.chain }

// Put maps snd to root pitch.
func (s *Sampler) Put(root int, snd *audio.Sound) {
	s.mu.Lock()
	s.sounds[root] = snd
	s.mu.Unlock()
}

// Load reads a WAV file and maps it to root pitch.
func (s *Sampler) Load(root int, file string) error {
	snd, err := audio.LoadSound(file)
	if err != nil {
		return err
	}
	s.Put(root, snd)
	s.log.Debug("loaded sample", "file", file, "root", root, "duration", snd.Duration())
	return nil
}

// Play schedules a note. It implements score.Playable.
func (s *Sampler) Play(pitch int, start, duration float64, velocity int) error {
	s.mu.Lock()
	root, snd := s.sounds.nearest(pitch)
	s.mu.Unlock()
	if snd == nil {
		return fmt.Errorf("%w for pitch %d", ErrNoSound, pitch)
	}

	src := s.ctx.NewBufferSource(snd.Samples)
	src.SetPlaybackRate(snd.SampleRate / s.ctx.SampleRate() * math.Exp2(float64(pitch-root)/12))

	end := start + math.Min(duration, src.Duration())
	level := float64(velocity) / 127
	gain := s.ctx.NewGain()
	gain.Gain.
		SetValueAtTime(level, start).
		SetValueAtTime(level, end).
		LinearRampToValueAtTime(0, end+sampleRelease)

	set := s.chain.Settings
	lfo := s.ctx.NewOscillator(set.VibratoRate)
	depth := s.ctx.NewGain()
	depth.Gain.SetValue(set.VibratoDepth / 2)
	lfo.Connect(depth)
	depth.Connect(src.Detune)
	lfo.Start(start)
	lfo.Stop(end + sampleRelease)

	src.Connect(gain)
	src.Start(start)
	s.ctx.Attach(gain, s.chain.Input, end+sampleRelease)
	return nil
}
