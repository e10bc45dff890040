package effects

import (
	"errors"
	"math"
	"testing"

	"github.com/mrdg/saxophone/audio"
)

func almostEqual(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestToneFilter(t *testing.T) {
	ctx := audio.NewContext(audio.DefaultSampleRate)
	tests := []struct {
		brightness float64
		typ        audio.FilterType
		freq, gain float64
	}{
		{0, audio.Lowpass, 1000, 0},
		{25, audio.Lowpass, 2500, 0},
		{50, audio.Highshelf, 2000, 0},
		{75, audio.Highshelf, 3000, 3},
		{100, audio.Highshelf, 4000, 6},
	}
	for _, test := range tests {
		f := NewToneFilter(ctx, test.brightness)
		if want, got := test.typ, f.Type; want != got {
			t.Errorf("brightness %v: want %v, got %v", test.brightness, want, got)
		}
		if want, got := test.freq, f.Frequency.Value(); !almostEqual(want, got, 1e-9) {
			t.Errorf("brightness %v: want %vHz, got %vHz", test.brightness, want, got)
		}
		if want, got := test.gain, f.Gain.Value(); !almostEqual(want, got, 1e-9) {
			t.Errorf("brightness %v: want %vdB, got %vdB", test.brightness, want, got)
		}
	}

	bright := NewToneFilter(ctx, 100)
	if got := bright.Response(15000); !almostEqual(6, got, 0.5) {
		t.Errorf("shelf gain at 15kHz: want about 6dB, got %vdB", got)
	}
	dark := NewToneFilter(ctx, 0)
	if got := dark.Response(8000); got > -20 {
		t.Errorf("lowpass at 8kHz: want strong attenuation, got %vdB", got)
	}
}

func TestReverbImpulse(t *testing.T) {
	ctx := audio.NewContext(1000)
	r := NewReverb(ctx, 100)
	src := ctx.NewBufferSource([]float64{1})
	src.Start(0)
	src.Connect(r.Input)
	ctx.Attach(r.Output, ctx.Destination(), math.Inf(1))

	want := make([]float64, 100)
	want[0] = 1
	want[23] = 0.3 * 0.7
	want[37] = 0.3 * 0.5
	want[53] = 0.3 * 0.4
	want[71] = 0.3 * 0.3
	got := ctx.Render(0.1)
	for i := range want {
		if !almostEqual(want[i], got[i], 1e-6) {
			t.Errorf("sample %d: want %v, got %v", i, want[i], got[i])
		}
	}
}

func TestReverbDry(t *testing.T) {
	ctx := audio.NewContext(1000)
	r := NewReverb(ctx, 0)
	if want, got := 0.0, r.Wet.Gain.Value(); want != got {
		t.Errorf("wet: want %v, got %v", want, got)
	}
	r.SetAmount(50)
	if want, got := 0.15, r.Wet.Gain.Value(); !almostEqual(want, got, 1e-12) {
		t.Errorf("wet: want %v, got %v", want, got)
	}
}

func TestPresets(t *testing.T) {
	s, err := Preset("jazz")
	if err != nil {
		t.Fatal(err)
	}
	if want, got := 65.0, s.Brightness; want != got {
		t.Errorf("want %v, got %v", want, got)
	}
	if want, got := DefaultSettings(), Presets["default"]; want != got {
		t.Errorf("want %v, got %v", want, got)
	}
	if _, err := Preset("metal"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("want %v, got %v", ErrUnknownPreset, err)
	}
}

func TestSampler(t *testing.T) {
	const sampleRate = 8000
	ctx := audio.NewContext(sampleRate)
	// a flat shelf and no reverb pass the sample through unchanged
	chain := NewChain(ctx, Settings{Brightness: 50})
	s := NewSampler(ctx, chain)

	if err := s.Play(60, 0, 1, 127); !errors.Is(err, ErrNoSound) {
		t.Fatalf("want %v, got %v", ErrNoSound, err)
	}

	snd := &audio.Sound{Samples: make([]float64, sampleRate), SampleRate: sampleRate}
	for i := range snd.Samples {
		snd.Samples[i] = 0.5
	}
	s.Put(60, snd)
	if err := s.Play(72, 0, 1, 127); err != nil {
		t.Fatal(err)
	}

	// an octave up plays the sample twice as fast
	out := ctx.Render(1)
	if got := out[2000]; !almostEqual(0.5, got, 1e-9) {
		t.Errorf("during the sample: want 0.5, got %v", got)
	}
	for i := 4800; i < len(out); i++ {
		if out[i] != 0 {
			t.Fatalf("sample %d: want silence after the sample, got %v", i, out[i])
		}
	}
}

func TestSoundMappingNearest(t *testing.T) {
	a, b := &audio.Sound{}, &audio.Sound{}
	m := SoundMapping{60: a, 72: b}
	tests := []struct {
		pitch, root int
	}{
		{40, 60},
		{65, 60},
		{67, 72},
		{90, 72},
	}
	for _, test := range tests {
		if root, _ := m.nearest(test.pitch); test.root != root {
			t.Errorf("pitch %d: want root %v, got %v", test.pitch, test.root, root)
		}
	}
}
