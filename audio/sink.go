package audio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

type Source interface {
	Process([][]float32)
}

// realtimer is implemented by sources that need to know they are being
// driven from the audio thread.
type realtimer interface {
	setRealtime(bool)
}

// Sink plays its sources on the default output device.
type Sink struct {
	sources []Source
	stream  *portaudio.Stream
}

func NewSink(sampleRate float64, sources ...Source) (*Sink, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize portaudio: %w", err)
	}
	s := &Sink{}
	s.AddSources(sources...)
	stream, err := portaudio.OpenDefaultStream(0, 2, sampleRate, bufferSize, s.Process)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("open output stream: %w", err)
	}
	s.stream = stream
	return s, nil
}

// AddSources must be called before Start.
func (s *Sink) AddSources(sources ...Source) {
	for _, src := range sources {
		if r, ok := src.(realtimer); ok {
			r.setRealtime(true)
		}
	}
	s.sources = append(s.sources, sources...)
}

func (s *Sink) Start() error {
	return s.stream.Start()
}

func (s *Sink) Stop() error {
	err := s.stream.Close()
	portaudio.Terminate()
	return err
}

func (s *Sink) Process(samples [][]float32) {
	for i := range samples {
		for j := range samples[i] {
			samples[i][j] = 0.
		}
	}
	for _, source := range s.sources {
		source.Process(samples)
	}
}
