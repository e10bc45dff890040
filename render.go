package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mrdg/saxophone/audio"
	"github.com/mrdg/saxophone/sax"
	"github.com/mrdg/saxophone/score"
)

// renderConfig prints the configuration grouped like the parameter list.
// Values outside their sane range are shown in red.
func renderConfig(cfg sax.Config, w io.Writer) {
	var maxNameLen int
	for _, p := range sax.Params {
		if len(p.Name) > maxNameLen {
			maxNameLen = len(p.Name)
		}
	}

	var group string
	for _, p := range sax.Params {
		if p.Group != group {
			if group != "" {
				fmt.Fprintln(w)
			}
			group = p.Group
			fmt.Fprintln(w, colorize(group, colorMagenta))
		}
		v := p.Get(cfg)
		value := formatValue(v)
		if !p.InRange(v) {
			value = colorize(value, colorRed)
		}
		name := p.Name + strings.Repeat(" ", maxNameLen-len(p.Name))
		fmt.Fprintf(w, "  %s  %s  %s\n", colorize(name, colorBlue), value, formatRange(p))
	}
}

func renderParams(w io.Writer) {
	for _, p := range sax.Params {
		fmt.Fprintf(w, "%s %s %s\n", p.Group, p.Name, formatRange(p))
	}
}

func formatRange(p sax.Param) string {
	return fmt.Sprintf("[%s, %s]", formatValue(p.Min), formatValue(p.Max))
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// printNote prints the voice description and the strongest spectral peaks
// of its rendering.
func printNote(w io.Writer, v *sax.Voice, samples []float64, sampleRate float64, count int) error {
	fmt.Fprintf(w, "%s  %.2f Hz  velocity %d  %d partials  peak gain %.3f  ends %.3fs\n",
		colorize(score.Spelling(v.Note.Pitch), colorGreen), v.Frequency, v.Note.Velocity,
		len(v.Partials), v.PeakGain, v.End)

	size := 1
	for size*2 <= len(samples) {
		size *= 2
	}
	if size < 2 {
		return nil
	}
	peaks, err := audio.Peaks(samples, sampleRate, size, count)
	if err != nil {
		return err
	}
	for i, p := range peaks {
		fmt.Fprintf(w, "%2d  %8.1f Hz  %.4f\n", i+1, p.Freq, p.Magnitude)
	}
	return nil
}

const (
	colorBlack = iota + 30
	colorRed
	colorGreen
	colorYellow
	colorBlue
	colorMagenta
)

func colorize(text string, color int) string {
	return fmt.Sprintf("\033[%dm%s\033[0m", color, text)
}
