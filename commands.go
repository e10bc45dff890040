package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mrdg/saxophone/dub"
	"github.com/mrdg/saxophone/effects"
	"github.com/mrdg/saxophone/sax"
	"github.com/mrdg/saxophone/score"
	"gopkg.in/yaml.v3"
)

type command struct {
	name  string
	usage string
	run   func(*env, []dub.Node) error
	min   int
	max   int // -1 for no limit
}

var commands []command

func init() {
	commands = []command{
		{"play", "play <pitch> [duration] [velocity]", playCommand, 1, 3},
		{"chord", "chord <pitch,pitch,...> [duration] [velocity]", chordCommand, 1, 3},
		{"sample", "sample <pitch> [duration] [velocity]", sampleCommand, 1, 3},
		{"load", "load <root pitch> <file>", loadCommand, 2, 2},
		{"set", "set <name> <value> | set name:value ...", setCommand, 1, -1},
		{"get", "get <name>", getCommand, 1, 1},
		{"preset", "preset <name>", presetCommand, 1, 1},
		{"presets", "presets", presetsCommand, 0, 0},
		{"reset", "reset", resetCommand, 0, 0},
		{"save", "save <file>", saveCommand, 1, 1},
		{"volume", "volume [gain]", volumeCommand, 0, 1},
		{"reverb", "reverb <amount 0-100>", reverbCommand, 1, 1},
		{"config", "config", configCommand, 0, 0},
		{"params", "params", paramsCommand, 0, 0},
		{"help", "help", helpCommand, 0, 0},
	}
}

// noteArgs reads the optional duration and velocity of play, chord and
// sample.
func noteArgs(args []dub.Node) (duration float64, velocity int, err error) {
	duration, velocity = 1, sax.DefaultVelocity
	err = readArgs(args, &duration, &velocity)
	return duration, velocity, err
}

func playCommand(env *env, args []dub.Node) error {
	var pitch int
	if err := readArgs(args[:1], &pitch); err != nil {
		return err
	}
	duration, velocity, err := noteArgs(args[1:])
	if err != nil {
		return err
	}
	v, err := env.synth.PlayNote(sax.Note{Pitch: pitch, Start: env.now(), Duration: duration, Velocity: velocity})
	if err != nil {
		return err
	}
	written := v.Note.Pitch - score.AltoTranspose
	f, _ := score.FingeringFor(written)
	fmt.Fprintf(env.out, "%s %.2f Hz, %d partials, written %s: %s\n", score.Spelling(v.Note.Pitch), v.Frequency, len(v.Partials), score.Spelling(written), f)
	return nil
}

func chordCommand(env *env, args []dub.Node) error {
	var pitches []float64
	switch v := args[0].(type) {
	case dub.List:
		pitches = v
	case dub.Int:
		pitches = []float64{float64(v)}
	default:
		return errors.New("argument error: expected a list of pitches")
	}
	duration, velocity, err := noteArgs(args[1:])
	if err != nil {
		return err
	}
	start := env.now()
	if err := (sax.Note{Start: start, Duration: duration}).Validate(); err != nil {
		return err
	}
	var names []string
	for _, p := range pitches {
		v, err := env.synth.PlayNote(sax.Note{Pitch: int(p), Start: start, Duration: duration, Velocity: velocity})
		if err != nil {
			return err
		}
		names = append(names, score.Spelling(v.Note.Pitch))
	}
	fmt.Fprintln(env.out, strings.Join(names, " "))
	return nil
}

func sampleCommand(env *env, args []dub.Node) error {
	var pitch int
	if err := readArgs(args[:1], &pitch); err != nil {
		return err
	}
	duration, velocity, err := noteArgs(args[1:])
	if err != nil {
		return err
	}
	return env.sampler.Play(pitch, env.now(), duration, velocity)
}

func loadCommand(env *env, args []dub.Node) error {
	var root int
	var file string
	if err := readArgs(args, &root, &file); err != nil {
		return err
	}
	return env.sampler.Load(root, file)
}

func setCommand(env *env, args []dub.Node) error {
	patch := sax.Patch{}
	if name, ok := args[0].(dub.Identifier); ok {
		if len(args) != 2 {
			return errors.New("argument error: expected a name and a value")
		}
		var value float64
		if err := readArgs(args[1:], &value); err != nil {
			return err
		}
		patch[string(name)] = value
	} else {
		for _, arg := range args {
			pair, ok := arg.(dub.Pair)
			if !ok {
				return fmt.Errorf("argument error: expected name:value, got %v", arg)
			}
			patch[string(pair.Name)] = pair.Value
		}
	}
	if err := env.synth.UpdateConfig(patch); err != nil {
		return err
	}
	cfg := env.synth.Config()
	for _, name := range cfg.OutOfRange() {
		if _, ok := patch[name]; ok {
			p, _ := sax.LookupParam(name)
			fmt.Fprintf(env.out, "warning: %s is outside %s\n", name, formatRange(p))
		}
	}
	return nil
}

func getCommand(env *env, args []dub.Node) error {
	var name string
	if err := readArgs(args, &name); err != nil {
		return err
	}
	v, err := env.synth.Config().Get(name)
	if err != nil {
		return err
	}
	fmt.Fprintln(env.out, formatValue(v))
	return nil
}

func presetCommand(env *env, args []dub.Node) error {
	var name string
	if err := readArgs(args, &name); err != nil {
		return err
	}
	p, err := sax.Preset(name)
	if err != nil {
		return err
	}
	return env.synth.SetConfig(p)
}

func presetsCommand(env *env, args []dub.Node) error {
	fmt.Fprintln(env.out, "timbre: ", strings.Join(sax.PresetNames(), " "))
	fmt.Fprintln(env.out, "effects:", strings.Join(effects.PresetNames(), " "))
	return nil
}

func resetCommand(env *env, args []dub.Node) error {
	env.synth.ResetConfig()
	return nil
}

// saveCommand writes the configuration in the format read by --config.
func saveCommand(env *env, args []dub.Node) error {
	var file string
	if err := readArgs(args, &file); err != nil {
		return err
	}
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(f)
	if err := enc.Encode(env.synth.Config()); err != nil {
		f.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func volumeCommand(env *env, args []dub.Node) error {
	if len(args) == 0 {
		fmt.Fprintln(env.out, formatValue(env.synth.Volume()))
		return nil
	}
	var gain float64
	if err := readArgs(args, &gain); err != nil {
		return err
	}
	if gain < 0 {
		return fmt.Errorf("negative gain: %v", gain)
	}
	env.synth.SetVolume(gain)
	return nil
}

func reverbCommand(env *env, args []dub.Node) error {
	var amount float64
	if err := readArgs(args, &amount); err != nil {
		return err
	}
	if amount < 0 || amount > 100 {
		return fmt.Errorf("reverb amount is out of range 0-100: %v", amount)
	}
	env.sampler.Chain().Reverb.SetAmount(amount)
	return nil
}

func configCommand(env *env, args []dub.Node) error {
	renderConfig(env.synth.Config(), env.out)
	return nil
}

func paramsCommand(env *env, args []dub.Node) error {
	renderParams(env.out)
	return nil
}

func helpCommand(env *env, args []dub.Node) error {
	for _, cmd := range commands {
		fmt.Fprintln(env.out, cmd.usage)
	}
	return nil
}

// readArgs stores args in the leading slots. Slots without an argument keep
// their value.
func readArgs(args []dub.Node, slots ...interface{}) error {
	if len(args) > len(slots) {
		return errors.New("too many arguments")
	}
	for n, arg := range args {
		dest := slots[n]
		switch p := dest.(type) {
		case *string:
			switch s := arg.(type) {
			case dub.String:
				*p = string(s)
			case dub.Identifier:
				*p = string(s)
			default:
				return fmt.Errorf("argument error: expected a string or identifier")
			}
		case *float64:
			switch v := arg.(type) {
			case dub.Int:
				*p = float64(v)
			case dub.Float:
				*p = float64(v)
			default:
				return fmt.Errorf("argument error: expected a number")
			}
		case *int:
			v, ok := arg.(dub.Int)
			if !ok {
				return fmt.Errorf("argument error: expected an integer")
			}
			*p = int(v)
		default:
			panic("readArgs: unhandled destination type: " + fmt.Sprint(p))
		}
	}
	return nil
}
