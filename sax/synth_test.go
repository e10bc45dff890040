package sax

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/mrdg/saxophone/audio"
)

func almostEqual(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func newTestSynth(t *testing.T, sampleRate float64) (*audio.Context, *Synthesizer) {
	t.Helper()
	ctx := audio.NewContext(sampleRate)
	ctx.Seed(1)
	s, err := NewSynthesizer(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	return ctx, s
}

func TestMidiToFreq(t *testing.T) {
	if want, got := 440.0, MidiToFreq(69); want != got {
		t.Errorf("MIDI 69: want %v, got %v", want, got)
	}
	tests := []struct {
		pitch int
		want  float64
	}{
		{81, 880},
		{57, 220},
		{60, 261.6255653},
	}
	for _, test := range tests {
		if got := MidiToFreq(test.pitch); !almostEqual(test.want, got, 1e-6) {
			t.Errorf("MIDI %d: want %v, got %v", test.pitch, test.want, got)
		}
	}
}

func TestHarmonicCountMonotonic(t *testing.T) {
	for _, name := range PresetNames() {
		cfg := DefaultConfig()
		if err := Presets[name].Apply(&cfg); err != nil {
			t.Fatal(err)
		}
		prev := 0
		for vel := 0; vel <= 127; vel++ {
			n := harmonicCount(cfg, float64(vel)/127)
			if n < prev {
				t.Errorf("%s: harmonic count drops from %d to %d at velocity %d", name, prev, n, vel)
			}
			if n > len(oddHarmonics) {
				t.Errorf("%s: harmonic count %d exceeds the series", name, n)
			}
			prev = n
		}
	}
}

func TestPartials(t *testing.T) {
	cfg := DefaultConfig()
	ps := partials(cfg, 100, 1)
	if want, got := 9, len(ps); want != got {
		t.Fatalf("want %v partials, got %v", want, got)
	}
	for i, p := range ps {
		if want, got := 2*i+1, p.Harmonic; want != got {
			t.Errorf("partial %d: want harmonic %v, got %v", i, want, got)
		}
		if want, got := float64(100*p.Harmonic), p.Frequency; want != got {
			t.Errorf("partial %d: want frequency %v, got %v", i, want, got)
		}
		want := 1 / float64(p.Harmonic) * math.Pow(0.95, float64(i)) * 1.3
		if !almostEqual(want, p.Amplitude, 1e-12) {
			t.Errorf("partial %d: want amplitude %v, got %v", i, want, p.Amplitude)
		}
	}
}

func TestPlayNoteFullVelocity(t *testing.T) {
	_, s := newTestSynth(t, audio.DefaultSampleRate)
	cfg := s.Config()
	v, err := s.PlayNote(Note{Pitch: 69, Start: 0.5, Duration: 1, Velocity: 127})
	if err != nil {
		t.Fatal(err)
	}
	if want, got := cfg.MaxHarmonics, len(v.Partials); want != got {
		t.Errorf("harmonics: want %v, got %v", want, got)
	}
	if want, got := cfg.PeakGainMax, v.PeakGain; !almostEqual(want, got, 1e-12) {
		t.Errorf("peak gain: want %v, got %v", want, got)
	}
	if want, got := cfg.AttackTimeMin, v.AttackTime; !almostEqual(want, got, 1e-12) {
		t.Errorf("attack time: want %v, got %v", want, got)
	}
	if want, got := 440.0, v.Frequency; want != got {
		t.Errorf("frequency: want %v, got %v", want, got)
	}
	if want, got := 1.6, v.End; !almostEqual(want, got, 1e-12) {
		t.Errorf("end: want %v, got %v", want, got)
	}
}

func TestPlayNoteZeroVelocity(t *testing.T) {
	_, s := newTestSynth(t, audio.DefaultSampleRate)
	cfg := s.Config()
	v, err := s.PlayNote(Note{Pitch: 69, Start: 0.5, Duration: 1, Velocity: 0})
	if err != nil {
		t.Fatal(err)
	}
	if want, got := cfg.MinHarmonics, len(v.Partials); want != got {
		t.Errorf("harmonics: want %v, got %v", want, got)
	}
	if want, got := cfg.PeakGainMin, v.PeakGain; want != got {
		t.Errorf("peak gain: want %v, got %v", want, got)
	}
	if want, got := cfg.AttackTimeMax, v.AttackTime; want != got {
		t.Errorf("attack time: want %v, got %v", want, got)
	}
	if want, got := 0.0, v.BreathLevel(0.5); want != got {
		t.Errorf("breath attack level: want %v, got %v", want, got)
	}
}

func TestEnvelope(t *testing.T) {
	const start, dur = 1.0, 1.0
	_, s := newTestSynth(t, audio.DefaultSampleRate)
	decay := s.Config().DecayTime
	for vel := 0; vel <= 127; vel += 7 {
		v, err := s.PlayNote(Note{Pitch: 60, Start: start, Duration: dur, Velocity: vel})
		if err != nil {
			t.Fatal(err)
		}
		if want, got := NoiseFloor, v.Level(start); !almostEqual(want, got, 1e-12) {
			t.Errorf("velocity %d: level at start: want %v, got %v", vel, want, got)
		}
		if want, got := v.PeakGain, v.Level(start+v.AttackTime); !almostEqual(want, got, 1e-12) {
			t.Errorf("velocity %d: level at peak: want %v, got %v", vel, want, got)
		}
		if want, got := v.SustainGain, v.Level(start+dur); !almostEqual(want, got, 1e-12) {
			t.Errorf("velocity %d: level at note end: want %v, got %v", vel, want, got)
		}
		if want, got := NoiseFloor, v.Level(start+dur+s.Config().ReleaseTime); !almostEqual(want, got, 1e-12) {
			t.Errorf("velocity %d: level after release: want %v, got %v", vel, want, got)
		}

		const eps = 1e-9
		if want, got := NoiseFloor, v.Level(0); want != got {
			t.Errorf("velocity %d: level before the note: want %v, got %v", vel, want, got)
		}
		for _, at := range []float64{start, start + v.AttackTime, start + v.AttackTime + decay, start + dur} {
			before, after := v.Level(at-eps), v.Level(at+eps)
			if !almostEqual(before, after, 1e-6) {
				t.Errorf("velocity %d: jump at %v from %v to %v", vel, at, before, after)
			}
		}
	}
}

func TestVibrato(t *testing.T) {
	const start = 2.0
	_, s := newTestSynth(t, audio.DefaultSampleRate)
	cfg := s.Config()
	v, err := s.PlayNote(Note{Pitch: 64, Start: start, Duration: 1, Velocity: 90})
	if err != nil {
		t.Fatal(err)
	}
	onset := start + cfg.VibratoDelay
	for _, at := range []float64{0, start, onset - 0.01, onset} {
		if want, got := 0.0, v.VibratoDepth(at); want != got {
			t.Errorf("depth at %v: want %v, got %v", at, want, got)
		}
	}
	if want, got := cfg.VibratoDepth/2, v.VibratoDepth(onset+cfg.VibratoRampTime/2); !almostEqual(want, got, 1e-9) {
		t.Errorf("depth halfway through ramp: want %v, got %v", want, got)
	}
	if want, got := cfg.VibratoDepth, v.VibratoDepth(onset+cfg.VibratoRampTime); !almostEqual(want, got, 1e-9) {
		t.Errorf("depth after ramp: want %v, got %v", want, got)
	}
	if want, got := len(v.Partials), len(v.vibrato); want != got {
		t.Errorf("want vibrato on each of %v partials, got %v", want, got)
	}
}

func TestVibratoAfterShortNote(t *testing.T) {
	_, s := newTestSynth(t, audio.DefaultSampleRate)
	cfg := s.Config()
	v, err := s.PlayNote(Note{Pitch: 64, Start: 0, Duration: 0.05, Velocity: 90})
	if err != nil {
		t.Fatal(err)
	}
	if want, got := 0.0, v.VibratoDepth(0.05); want != got {
		t.Errorf("depth at note end: want %v, got %v", want, got)
	}
	end := cfg.VibratoDelay + cfg.VibratoRampTime
	if want, got := cfg.VibratoDepth, v.VibratoDepth(end); !almostEqual(want, got, 1e-9) {
		t.Errorf("ramp is still scheduled: want %v, got %v", want, got)
	}
}

func TestPitchBend(t *testing.T) {
	_, s := newTestSynth(t, audio.DefaultSampleRate)
	cfg := s.Config()
	v, err := s.PlayNote(Note{Pitch: 69, Start: 1, Duration: 1, Velocity: 80})
	if err != nil {
		t.Fatal(err)
	}
	if want, got := cfg.AttackPitchBend, v.PitchBend(1); want != got {
		t.Errorf("bend at start: want %v, got %v", want, got)
	}
	if want, got := 0.1, v.PitchBend(1+cfg.AttackPitchBendTime); !almostEqual(want, got, 1e-12) {
		t.Errorf("bend after attack: want %v, got %v", want, got)
	}
	mid := v.PitchBend(1 + cfg.AttackPitchBendTime/2)
	if want := math.Sqrt(cfg.AttackPitchBend * 0.1); !almostEqual(want, mid, 1e-9) {
		t.Errorf("bend halfway: want %v, got %v", want, mid)
	}
}

func TestBreathNoiseEnvelope(t *testing.T) {
	_, s := newTestSynth(t, audio.DefaultSampleRate)
	cfg := s.Config()
	v, err := s.PlayNote(Note{Pitch: 69, Start: 1, Duration: 1, Velocity: 127})
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		t, want float64
	}{
		{1, cfg.BreathNoiseLevelAttack},
		{1 + cfg.BreathNoiseFadeTime, cfg.BreathNoiseLevelSustain},
		{1.5, cfg.BreathNoiseLevelSustain},
		{2, cfg.BreathNoiseLevelSustain},
		{2 + ReleaseTail, NoiseFloor},
	}
	for _, test := range tests {
		if got := v.BreathLevel(test.t); !almostEqual(test.want, got, 1e-12) {
			t.Errorf("breath level at %v: want %v, got %v", test.t, test.want, got)
		}
	}
}

func TestFormants(t *testing.T) {
	_, s := newTestSynth(t, audio.DefaultSampleRate)
	v, err := s.PlayNote(Note{Pitch: 69, Start: 0, Duration: 1, Velocity: 80})
	if err != nil {
		t.Fatal(err)
	}
	cfg := s.Config()
	want := []float64{cfg.Formant1Freq, cfg.Formant2Freq, cfg.Formant3Freq}
	if len(v.formants) != len(want) {
		t.Fatalf("want %d formant filters, got %d", len(want), len(v.formants))
	}
	for i, f := range v.formants {
		if f.Type != audio.Peaking {
			t.Errorf("formant %d: want %v, got %v", i+1, audio.Peaking, f.Type)
		}
		if got := f.Frequency.Value(); want[i] != got {
			t.Errorf("formant %d: want %vHz, got %vHz", i+1, want[i], got)
		}
	}
	if want, got := cfg.Formant1Gain, v.formants[0].Response(cfg.Formant1Freq); math.Abs(want-got) > 1 {
		t.Errorf("boost at first formant: want about %vdB, got %vdB", want, got)
	}
}

func TestTransients(t *testing.T) {
	const sampleRate = 8000
	_, s := newTestSynth(t, sampleRate)
	cfg := s.Config()
	for _, vel := range []int{0, 64, 127} {
		v, err := s.PlayNote(Note{Pitch: 69, Start: 1, Duration: 1, Velocity: vel})
		if err != nil {
			t.Fatal(err)
		}
		tests := []struct {
			name string
			tr   *transient
			typ  audio.FilterType
			freq float64
			q    float64
			gain float64
			dur  float64
		}{
			{"key click", v.click, audio.Highpass, cfg.KeyClickFilterFreq, 1, cfg.KeyClickGain * v.Velocity, cfg.KeyClickDuration},
			{"breath attack", v.attack, audio.Bandpass, cfg.BreathAttackFilterFreq, cfg.BreathAttackFilterQ, cfg.BreathAttackGain * v.Velocity, cfg.BreathAttackDuration},
		}
		for _, test := range tests {
			if want, got := test.typ, test.tr.filter.Type; want != got {
				t.Errorf("velocity %d: %s filter: want %v, got %v", vel, test.name, want, got)
			}
			if want, got := test.freq, test.tr.filter.Frequency.Value(); want != got {
				t.Errorf("velocity %d: %s frequency: want %v, got %v", vel, test.name, want, got)
			}
			if want, got := test.q, test.tr.filter.Q.Value(); want != got {
				t.Errorf("velocity %d: %s Q: want %v, got %v", vel, test.name, want, got)
			}
			if want, got := test.gain, test.tr.gain.Gain.Value(); !almostEqual(want, got, 1e-12) {
				t.Errorf("velocity %d: %s gain: want %v, got %v", vel, test.name, want, got)
			}
			if want, got := test.dur, test.tr.src.Duration(); !almostEqual(want, got, 1.0/sampleRate) {
				t.Errorf("velocity %d: %s length: want %vs, got %vs", vel, test.name, want, got)
			}
		}
		if want, got := cfg.HarmonicMixLevel, v.mix.Gain.Value(); want != got {
			t.Errorf("velocity %d: harmonic mix: want %v, got %v", vel, want, got)
		}
	}
}

func TestDecay(t *testing.T) {
	tests := []struct {
		tau  float64
		want []float64
	}{
		{1, []float64{1, math.Exp(-1), math.Exp(-2), math.Exp(-3)}},
		{2, []float64{1, math.Exp(-0.5), math.Exp(-1), math.Exp(-1.5)}},
		{math.Inf(1), []float64{1, 1, 1, 1}},
	}
	for _, test := range tests {
		buf := []float64{1, 1, 1, 1}
		decay(buf, test.tau)
		for i := range buf {
			if !almostEqual(test.want[i], buf[i], 1e-12) {
				t.Errorf("tau %v: sample %d: want %v, got %v", test.tau, i, test.want[i], buf[i])
			}
		}
	}

	buf := []float64{0.5, -0.5}
	decay(buf, 1)
	if want, got := -0.5*math.Exp(-1), buf[1]; !almostEqual(want, got, 1e-12) {
		t.Errorf("sign: want %v, got %v", want, got)
	}
}

func TestOverlappingVoicesAreIndependent(t *testing.T) {
	_, s := newTestSynth(t, audio.DefaultSampleRate)
	first, err := s.PlayNote(Note{Pitch: 60, Start: 0, Duration: 1, Velocity: 100})
	if err != nil {
		t.Fatal(err)
	}
	times := []float64{0, 0.01, 0.05, 0.5, 1, 1.05}
	var before []float64
	for _, at := range times {
		before = append(before, first.Level(at), first.VibratoDepth(at), first.BreathLevel(at))
	}

	second, err := s.PlayNote(Note{Pitch: 64, Start: 0.5, Duration: 1, Velocity: 100})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateConfig(Patch{"peakGainMax": 0.9, "vibratoDepth": 20, "breathNoiseLevelAttack": 0.3}); err != nil {
		t.Fatal(err)
	}
	s.SetVolume(0)
	third, err := s.PlayNote(Note{Pitch: 67, Start: 0.7, Duration: 1, Velocity: 127})
	if err != nil {
		t.Fatal(err)
	}

	var after []float64
	for _, at := range times {
		after = append(after, first.Level(at), first.VibratoDepth(at), first.BreathLevel(at))
	}
	if !reflect.DeepEqual(before, after) {
		t.Errorf("first voice changed:\nbefore %v\nafter  %v", before, after)
	}
	if want, got := DefaultConfig(), second.Config; !reflect.DeepEqual(want, got) {
		t.Errorf("second voice config changed: %+v", got)
	}
	if want, got := 0.9, third.PeakGain; !almostEqual(want, got, 1e-12) {
		t.Errorf("third voice peak gain: want %v, got %v", want, got)
	}
	if want, got := 0.0, s.Volume(); want != got {
		t.Errorf("volume: want %v, got %v", want, got)
	}
}

func TestResetConfigRoundTrip(t *testing.T) {
	_, s := newTestSynth(t, audio.DefaultSampleRate)
	p, err := Preset("tenor")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateConfig(p); err != nil {
		t.Fatal(err)
	}
	if reflect.DeepEqual(DefaultConfig(), s.Config()) {
		t.Fatal("preset did not change the configuration")
	}
	s.ResetConfig()
	if want, got := DefaultConfig(), s.Config(); !reflect.DeepEqual(want, got) {
		t.Errorf("after reset: want %+v, got %+v", want, got)
	}

	if err := s.UpdateConfig(p); err != nil {
		t.Fatal(err)
	}
	s.ResetConfig()
	for name, v := range DefaultConfig().Patch() {
		if err := s.UpdateConfig(Patch{name: v}); err != nil {
			t.Fatal(err)
		}
	}
	if want, got := DefaultConfig(), s.Config(); !reflect.DeepEqual(want, got) {
		t.Errorf("after updates: want %+v, got %+v", want, got)
	}
}

func TestSetConfig(t *testing.T) {
	_, s := newTestSynth(t, audio.DefaultSampleRate)
	if err := s.UpdateConfig(Patch{"decayTime": 0.12}); err != nil {
		t.Fatal(err)
	}
	p, err := Preset("tenor")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetConfig(p); err != nil {
		t.Fatal(err)
	}
	want := DefaultConfig()
	if err := p.Apply(&want); err != nil {
		t.Fatal(err)
	}
	if got := s.Config(); !reflect.DeepEqual(want, got) {
		t.Errorf("want %+v, got %+v", want, got)
	}

	if err := s.SetConfig(Patch{"reverb": 1}); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("want %v, got %v", ErrUnknownParam, err)
	}
	if got := s.Config(); !reflect.DeepEqual(want, got) {
		t.Errorf("config modified by a failed update: %+v", got)
	}
}

func TestSetConfigIsAtomic(t *testing.T) {
	_, s := newTestSynth(t, audio.DefaultSampleRate)
	tenor, _ := Preset("tenor")
	bright, _ := Preset("bright-alto")
	if err := s.SetConfig(tenor); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 2000; i++ {
			p := tenor
			if i%2 == 0 {
				p = bright
			}
			if err := s.SetConfig(p); err != nil {
				panic(err)
			}
		}
	}()
	for {
		select {
		case <-done:
			return
		default:
		}
		if got := s.Config().MaxHarmonics; got == DefaultConfig().MaxHarmonics {
			t.Fatalf("saw the default configuration between presets")
		}
	}
}

func TestUpdateConfigUnknownParam(t *testing.T) {
	_, s := newTestSynth(t, audio.DefaultSampleRate)
	err := s.UpdateConfig(Patch{"vibratoRate": 4, "reverb": 1})
	if !errors.Is(err, ErrUnknownParam) {
		t.Fatalf("want %v, got %v", ErrUnknownParam, err)
	}
	if want, got := DefaultConfig(), s.Config(); !reflect.DeepEqual(want, got) {
		t.Errorf("config modified by a failed update: %+v", got)
	}
}

func TestUpdateConfigOutOfRange(t *testing.T) {
	_, s := newTestSynth(t, audio.DefaultSampleRate)
	if err := s.UpdateConfig(Patch{"vibratoDepth": 100, "sustainLevel": 2}); err != nil {
		t.Fatal(err)
	}
	if want, got := []string{"sustainLevel", "vibratoDepth"}, s.Config().OutOfRange(); !reflect.DeepEqual(want, got) {
		t.Errorf("want %v, got %v", want, got)
	}
}

func TestPlayNoteValidation(t *testing.T) {
	_, s := newTestSynth(t, audio.DefaultSampleRate)
	for _, n := range []Note{
		{Pitch: 60, Start: 0, Duration: -1, Velocity: 80},
		{Pitch: 60, Start: -0.5, Duration: 1, Velocity: 80},
		{Pitch: 60, Start: math.NaN(), Duration: 1, Velocity: 80},
		{Pitch: 60, Start: 0, Duration: math.Inf(1), Velocity: 80},
	} {
		if _, err := s.PlayNote(n); !errors.Is(err, ErrInvalidNote) {
			t.Errorf("%+v: want %v, got %v", n, ErrInvalidNote, err)
		}
	}

	v, err := s.PlayNote(Note{Pitch: 200, Start: 0, Duration: 0, Velocity: 300})
	if err != nil {
		t.Fatal(err)
	}
	if want, got := 127, v.Note.Pitch; want != got {
		t.Errorf("pitch: want %v, got %v", want, got)
	}
	if want, got := 1.0, v.Velocity; want != got {
		t.Errorf("velocity: want %v, got %v", want, got)
	}

	v, err = s.PlayNote(Note{Pitch: -3, Start: 0, Duration: 1, Velocity: -1})
	if err != nil {
		t.Fatal(err)
	}
	if want, got := 0, v.Note.Pitch; want != got {
		t.Errorf("pitch: want %v, got %v", want, got)
	}
	if want, got := 0.0, v.Velocity; want != got {
		t.Errorf("velocity: want %v, got %v", want, got)
	}

	if err := s.Play(60, -1, 1, 80); !errors.Is(err, ErrInvalidNote) {
		t.Errorf("Play: want %v, got %v", ErrInvalidNote, err)
	}
}

func TestRenderNote(t *testing.T) {
	const sampleRate = 8192
	ctx, s := newTestSynth(t, sampleRate)
	v, err := s.PlayNote(Note{Pitch: 69, Start: 0, Duration: 1, Velocity: 100})
	if err != nil {
		t.Fatal(err)
	}
	out := ctx.Render(1.5)

	if peak := audio.Peak(out); peak == 0 || peak >= 1 {
		t.Errorf("want a peak in (0, 1), got %v", peak)
	}
	peaks, err := audio.Peaks(out[:sampleRate], sampleRate, sampleRate, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(peaks) != 1 || math.Abs(peaks[0].Freq-v.Frequency) > 5 {
		t.Errorf("want the strongest peak near %vHz, got %v", v.Frequency, peaks)
	}

	if want, got := 1, ctx.Active(); want != got {
		t.Errorf("want only the master attached after the note ended, got %v", got)
	}
	for i, x := range ctx.Render(0.1) {
		if x != 0 {
			t.Fatalf("sample %d after the note: want silence, got %v", i, x)
		}
	}
}

func TestNewSynthesizerPatch(t *testing.T) {
	ctx := audio.NewContext(audio.DefaultSampleRate)
	s, err := NewSynthesizer(ctx, Patch{"vibratoRate": 6.5})
	if err != nil {
		t.Fatal(err)
	}
	if want, got := 6.5, s.Config().VibratoRate; want != got {
		t.Errorf("want %v, got %v", want, got)
	}
	if _, err := NewSynthesizer(ctx, Patch{"bogus": 1}); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("want %v, got %v", ErrUnknownParam, err)
	}
}

func TestLoadPatch(t *testing.T) {
	p, err := LoadPatch(strings.NewReader("vibratoRate: 6\nformant1Gain: 9\n"))
	if err != nil {
		t.Fatal(err)
	}
	if want, got := (Patch{"vibratoRate": 6, "formant1Gain": 9}), p; !reflect.DeepEqual(want, got) {
		t.Errorf("want %v, got %v", want, got)
	}

	p, err = LoadPatch(strings.NewReader(`{"maxHarmonics": 7}`))
	if err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	if err := p.Apply(&cfg); err != nil {
		t.Fatal(err)
	}
	if want, got := 7, cfg.MaxHarmonics; want != got {
		t.Errorf("want %v, got %v", want, got)
	}

	if p, err := LoadPatch(strings.NewReader("")); err != nil || len(p) != 0 {
		t.Errorf("empty document: want empty patch, got %v, %v", p, err)
	}
	if _, err := LoadPatch(strings.NewReader("vibratoRate: fast\n")); err == nil {
		t.Error("want error for non-numeric value")
	}
	if _, err := LoadPatch(strings.NewReader("maxHarmonics: 7.5\n")); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("fractional count: want %v, got %v", ErrInvalidValue, err)
	}
}

func TestApplyCounts(t *testing.T) {
	tests := []struct {
		patch Patch
		err   error
	}{
		{Patch{"maxHarmonics": 7}, nil},
		{Patch{"minHarmonics": 2, "maxHarmonics": 11}, nil},
		{Patch{"maxHarmonics": 7.9}, ErrInvalidValue},
		{Patch{"minHarmonics": 0.5}, ErrInvalidValue},
		{Patch{"maxHarmonics": math.Inf(1)}, ErrInvalidValue},
		{Patch{"maxHarmonics": math.NaN()}, ErrInvalidValue},
		{Patch{"vibratoRate": 5.5}, nil},
	}
	for _, test := range tests {
		cfg := DefaultConfig()
		err := test.patch.Apply(&cfg)
		if !errors.Is(err, test.err) {
			t.Errorf("%v: want %v, got %v", test.patch, test.err, err)
			continue
		}
		if err != nil && cfg != DefaultConfig() {
			t.Errorf("%v: config modified by a failed apply: %+v", test.patch, cfg)
		}
	}
}

func TestPresets(t *testing.T) {
	for _, name := range PresetNames() {
		p, err := Preset(name)
		if err != nil {
			t.Fatal(err)
		}
		cfg := DefaultConfig()
		if err := p.Apply(&cfg); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	if _, err := Preset("baritone"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("want %v, got %v", ErrUnknownPreset, err)
	}

	p, _ := Preset("tenor")
	p["formant1Freq"] = 1
	if want, got := 600.0, Presets["tenor"]["formant1Freq"]; want != got {
		t.Errorf("preset modified through a copy: want %v, got %v", want, got)
	}
}

func TestConfigGet(t *testing.T) {
	cfg := DefaultConfig()
	v, err := cfg.Get("formant2Freq")
	if err != nil {
		t.Fatal(err)
	}
	if want, got := 1500.0, v; want != got {
		t.Errorf("want %v, got %v", want, got)
	}
	if _, err := cfg.Get("nope"); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("want %v, got %v", ErrUnknownParam, err)
	}
	if want, got := len(Params), len(cfg.Patch()); want != got {
		t.Errorf("want %v fields in patch, got %v", want, got)
	}
	if names := cfg.OutOfRange(); len(names) != 0 {
		t.Errorf("defaults out of range: %v", names)
	}
}
