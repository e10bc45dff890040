package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mrdg/saxophone/audio"
	"github.com/mrdg/saxophone/dub"
	"github.com/mrdg/saxophone/effects"
	"github.com/mrdg/saxophone/sax"
	"github.com/spf13/cobra"
)

// lead is how far ahead of the audio clock interactive notes start.
const lead = 0.05

type env struct {
	ctx     *audio.Context
	synth   *sax.Synthesizer
	sampler *effects.Sampler
	out     io.Writer
}

func (e *env) now() float64 { return e.ctx.CurrentTime() + lead }

func (e *env) eval(input string) error {
	command, err := dub.Parse(input)
	if err != nil {
		return err
	}
	name := string(command.Name)
	for _, cmd := range commands {
		if name != cmd.name {
			continue
		}
		n := len(command.Args)
		if n < cmd.min {
			return fmt.Errorf("%s: wrong number of arguments: need at least %v, got %v", cmd.name, cmd.min, n)
		}
		if cmd.max >= 0 && n > cmd.max {
			return fmt.Errorf("%s: wrong number of arguments: want at most %v, got %v", cmd.name, cmd.max, n)
		}
		if err := cmd.run(e, command.Args); err != nil {
			return fmt.Errorf("%s error: %w", cmd.name, err)
		}
		return nil
	}
	return fmt.Errorf("unknown command: %s", name)
}

// runScript evaluates every non-empty line of r and stops at the first error.
func (e *env) runScript(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := e.eval(line); err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
	}
	return scanner.Err()
}

func repl(env *env) error {
	rl, err := readline.New("> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == io.EOF || err == readline.ErrInterrupt {
			return nil
		}
		if err != nil {
			fmt.Fprintln(env.out, err)
			continue
		}
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		if err := env.eval(line); err != nil {
			fmt.Fprintln(env.out, err)
		}
	}
}

func runRepl(cmd *cobra.Command, args []string) error {
	ctx := audio.NewContext(sampleRate)
	synth, err := newSynth(ctx)
	if err != nil {
		return err
	}
	sampler, err := newSampler(ctx)
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

	env := &env{ctx: ctx, synth: synth, sampler: sampler, out: cmd.OutOrStdout()}
	if runFile != "" {
		f, err := os.Open(runFile)
		if err != nil {
			return err
		}
		err = env.runScript(f)
		f.Close()
		if err != nil {
			return err
		}
	}
	return repl(env)
}
