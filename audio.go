package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mrdg/saxophone/audio"
	"github.com/mrdg/saxophone/sax"
	"github.com/mrdg/saxophone/score"
	"github.com/spf13/cobra"
)

// tail is rendered after the last event so releases and reverb die out.
const tail = 0.5

// tickInterval is how often the player hands events to the instrument.
const tickInterval = 25 * time.Millisecond

// loadScore reads a parser payload, a JSON event array or a MIDI file.
func loadScore(file string) ([]score.Event, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var events []score.Event
	switch strings.ToLower(filepath.Ext(file)) {
	case ".mid", ".midi":
		events, err = score.ReadMIDI(f)
	default:
		events, err = score.Load(f)
	}
	if err != nil {
		return nil, err
	}
	if _, missing := score.Fingerings(events); len(missing) > 0 {
		slog.Warn("no fingering for some written pitches, all keys are shown up", "pitches", missing)
	}
	return events, nil
}

// instrument returns the sampler when a sample file is given and the
// synthesizer otherwise.
func instrument(ctx *audio.Context) (score.Playable, error) {
	if sampleFile == "" {
		return newSynth(ctx)
	}
	s, err := newSampler(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.Load(sampleRoot, sampleFile); err != nil {
		return nil, err
	}
	return s, nil
}

func runRender(cmd *cobra.Command, args []string) error {
	events, err := loadScore(args[0])
	if err != nil {
		return err
	}
	ctx := audio.NewContext(sampleRate)
	inst, err := instrument(ctx)
	if err != nil {
		return err
	}
	if err := score.Schedule(inst, events, 0, velocity); err != nil {
		slog.Warn("some events were skipped", "err", err)
	}

	samples := ctx.Render(score.Duration(events) + tail)
	if peak := audio.Peak(samples); peak > 1 {
		slog.Warn("output clips", "peak", peak)
	}
	if err := audio.WriteWAVFile(renderFile, samples, sampleRate); err != nil {
		return err
	}
	slog.Info("rendered score", "events", len(events), "seconds", float64(len(samples))/sampleRate, "file", renderFile)

	if midiFile != "" {
		if err := writeMIDI(midiFile, events); err != nil {
			return err
		}
		slog.Info("wrote midi", "file", midiFile)
	}
	return nil
}

func writeMIDI(file string, events []score.Event) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	if err := score.WriteMIDI(f, events, 120); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func runPlay(cmd *cobra.Command, args []string) error {
	events, err := loadScore(args[0])
	if err != nil {
		return err
	}
	ctx := audio.NewContext(sampleRate)
	inst, err := instrument(ctx)
	if err != nil {
		return err
	}
	sink, err := audio.NewSink(sampleRate, ctx)
	if err != nil {
		return err
	}
	defer sink.Stop()
	if err := sink.Start(); err != nil {
		return err
	}

	seq := score.NewSequencer(inst, events, 0, velocity)
	seq.Seek(seekPos, ctx.CurrentTime()+lookahead)
	pl := newPlayer(events, seekPos, time.Now().Add(secondsToDuration(lookahead)))

	sigCtx, stop := signalContext()
	defer stop()
	return play(sigCtx, ctx, seq, pl)
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// player follows the score position on the wall clock and reports each
// note as it starts to sound.
type player struct {
	events  []score.Event
	tl      score.Timeline
	current int // Idx of the last reported event, -1 for none
}

// newPlayer starts the timeline at pos seconds into the score at wall time
// start.
func newPlayer(events []score.Event, pos float64, start time.Time) *player {
	p := &player{events: events, current: -1}
	p.tl.Seek(pos, start)
	p.tl.Play(start)
	return p
}

// advance returns the event sounding at wall time t if it was not reported
// before.
func (p *player) advance(t time.Time) (score.Event, bool) {
	idx, ok := score.ActiveIndex(p.events, p.tl.Now(t))
	if !ok || idx == p.current {
		return score.Event{}, false
	}
	p.current = idx
	for _, ev := range p.events {
		if ev.Idx == idx {
			return ev, true
		}
	}
	return score.Event{}, false
}

// stop freezes the position at t.
func (p *player) stop(t time.Time) float64 {
	p.tl.Pause(t)
	return p.tl.Now(t)
}

// play ticks the sequencer against the audio clock until the score and
// its tail have sounded or ctx is cancelled.
func play(ctx context.Context, ac *audio.Context, seq *score.Sequencer, pl *player) error {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		now := ac.CurrentTime()
		seq.Tick(now, lookahead)
		if ev, ok := pl.advance(time.Now()); ok {
			f, _ := score.FingeringFor(ev.MidiWritten)
			slog.Info("note", "idx", ev.Idx, "spelling", ev.Spelling, "keys", f.String())
		}
		if seq.Done() && now > seq.End()+tail {
			return nil
		}
		select {
		case <-ctx.Done():
			slog.Info("stopped", "position", pl.stop(time.Now()))
			return nil
		case <-ticker.C:
		}
	}
}

func runNote(cmd *cobra.Command, args []string) error {
	var pitch int
	if _, err := fmt.Sscan(args[0], &pitch); err != nil {
		return fmt.Errorf("invalid pitch %q: %w", args[0], err)
	}
	ctx := audio.NewContext(sampleRate)
	synth, err := newSynth(ctx)
	if err != nil {
		return err
	}
	voice, err := synth.PlayNote(sax.Note{Pitch: pitch, Duration: noteDuration, Velocity: velocity})
	if err != nil {
		return err
	}
	samples := ctx.Render(voice.End)
	if err := audio.WriteWAVFile(noteFile, samples, sampleRate); err != nil {
		return err
	}
	return printNote(cmd.OutOrStdout(), voice, samples, sampleRate, peakCount)
}
