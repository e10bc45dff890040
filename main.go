package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mrdg/saxophone/audio"
	"github.com/mrdg/saxophone/effects"
	"github.com/mrdg/saxophone/sax"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "saxophone",
	Short: "Procedural saxophone synthesizer",
	Long: `Saxophone synthesizes saxophone notes from odd harmonics, breath noise,
attack transients, an ADSR envelope and a formant filter bank.

Scores from the score parsing service (or plain MIDI files) can be rendered
to WAV, played on the default output device, or driven over HTTP.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var renderCmd = &cobra.Command{
	Use:   "render <score>",
	Short: "Render a score to a WAV file",
	Long: `Render a score offline. The score is a parser payload, a JSON array of
events or a standard MIDI file.

Examples:
  saxophone render tune.json -o tune.wav
  saxophone render tune.mid -o tune.wav --preset tenor
  saxophone render tune.json --midi tune.mid`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

var playCmd = &cobra.Command{
	Use:   "play <score>",
	Short: "Play a score on the default output device",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlay,
}

var noteCmd = &cobra.Command{
	Use:   "note <pitch>",
	Short: "Render a single note and print its strongest partials",
	Long: `Render a single note to a WAV file and print the strongest peaks of its
spectrum.

Example:
  saxophone note 69 --duration 1.5 --velocity 100 -o a4.wav`,
	Args: cobra.ExactArgs(1),
	RunE: runNote,
}

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Play notes and tweak the timbre interactively",
	RunE:  runRepl,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP control server",
	Long: `Start an HTTP server that schedules notes on the default output device.

Example:
  saxophone serve --addr :8080`,
	RunE: runServe,
}

var (
	configFile string
	presetName string
	sampleRate float64
	logLevel   string

	renderFile string
	noteFile   string
	midiFile   string
	velocity   int
	sampleFile string
	sampleRoot int
	fxPreset   string

	noteDuration float64
	peakCount    int

	seekPos   float64
	lookahead float64

	runFile    string
	listenAddr string
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configFile, "config", "c", "", "YAML file of timbre overrides")
	pf.StringVarP(&presetName, "preset", "p", "alto", "timbre preset ("+strings.Join(sax.PresetNames(), ", ")+")")
	pf.Float64Var(&sampleRate, "sample-rate", audio.DefaultSampleRate, "sample rate in Hz")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	for _, cmd := range []*cobra.Command{renderCmd, playCmd} {
		cmd.Flags().IntVar(&velocity, "velocity", sax.DefaultVelocity, "velocity of every event")
		cmd.Flags().StringVar(&sampleFile, "sample", "", "play the score with a recorded WAV sample instead")
		cmd.Flags().IntVar(&sampleRoot, "root", 60, "MIDI pitch of the sample")
		cmd.Flags().StringVar(&fxPreset, "effects", "default", "effects preset for the sample player ("+strings.Join(effects.PresetNames(), ", ")+")")
	}
	renderCmd.Flags().StringVarP(&renderFile, "output", "o", "out.wav", "output WAV file")
	renderCmd.Flags().StringVar(&midiFile, "midi", "", "also write the events as a standard MIDI file")

	playCmd.Flags().Float64Var(&seekPos, "seek", 0, "start position in seconds")
	playCmd.Flags().Float64Var(&lookahead, "lookahead", 0.2, "scheduling lookahead in seconds")

	noteCmd.Flags().StringVarP(&noteFile, "output", "o", "note.wav", "output WAV file")
	noteCmd.Flags().Float64VarP(&noteDuration, "duration", "d", 1, "note duration in seconds")
	noteCmd.Flags().IntVar(&velocity, "velocity", sax.DefaultVelocity, "note velocity")
	noteCmd.Flags().IntVar(&peakCount, "peaks", 9, "number of spectral peaks to print")

	replCmd.Flags().StringVar(&runFile, "run", "", "file of commands to run before the prompt")
	replCmd.Flags().StringVar(&fxPreset, "effects", "default", "effects preset for the sample player")

	serveCmd.Flags().StringVar(&listenAddr, "addr", ":8080", "listen address")
	serveCmd.Flags().IntVar(&velocity, "velocity", sax.DefaultVelocity, "velocity of score events")

	rootCmd.AddCommand(renderCmd, playCmd, noteCmd, replCmd, serveCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	if sampleRate <= 0 {
		return fmt.Errorf("invalid sample rate: %v", sampleRate)
	}
	return nil
}

// loadPatch merges the preset and the config file, file values last.
func loadPatch() (sax.Patch, error) {
	p, err := sax.Preset(presetName)
	if err != nil {
		return nil, err
	}
	if configFile == "" {
		return p, nil
	}
	f, err := os.Open(configFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	overrides, err := sax.LoadPatch(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", configFile, err)
	}
	for k, v := range overrides {
		p[k] = v
	}
	return p, nil
}

func newSynth(ctx *audio.Context) (*sax.Synthesizer, error) {
	p, err := loadPatch()
	if err != nil {
		return nil, err
	}
	return sax.NewSynthesizer(ctx, p)
}

func newSampler(ctx *audio.Context) (*effects.Sampler, error) {
	settings, err := effects.Preset(fxPreset)
	if err != nil {
		return nil, err
	}
	return effects.NewSampler(ctx, effects.NewChain(ctx, settings)), nil
}
