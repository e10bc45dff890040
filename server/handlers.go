package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mrdg/saxophone/sax"
	"github.com/mrdg/saxophone/score"
)

// handleHealth returns server health status and the audio clock
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"currentTime": s.ctx.CurrentTime(),
	})
}

// noteRequest is a note with an optional velocity. Start times are on the
// audio clock unless relative is set, in which case they are offsets from
// the time the request is handled.
type noteRequest struct {
	Pitch    int     `json:"pitch"`
	Start    float64 `json:"startTime"`
	Duration float64 `json:"duration"`
	Velocity *int    `json:"velocity,omitempty"`
	Relative bool    `json:"relative,omitempty"`
}

type voiceResponse struct {
	Pitch     int     `json:"pitch"`
	Frequency float64 `json:"frequency"`
	Start     float64 `json:"startTime"`
	End       float64 `json:"endTime"`
	Harmonics int     `json:"harmonics"`
	PeakGain  float64 `json:"peakGain"`
}

// handleNotes schedules one note or an array of notes. Nothing is scheduled
// unless every note is valid.
func (s *Server) handleNotes(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		s.writeError(w, err, http.StatusBadRequest)
		return
	}
	var reqs []noteRequest
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '[' {
		err = json.Unmarshal(body, &reqs)
	} else {
		var req noteRequest
		err = json.Unmarshal(body, &req)
		reqs = append(reqs, req)
	}
	if err != nil {
		s.writeError(w, fmt.Errorf("decode notes: %w", err), http.StatusBadRequest)
		return
	}

	now := s.ctx.CurrentTime()
	notes := make([]sax.Note, len(reqs))
	for i, req := range reqs {
		n := sax.Note{Pitch: req.Pitch, Start: req.Start, Duration: req.Duration, Velocity: sax.DefaultVelocity}
		if req.Velocity != nil {
			n.Velocity = *req.Velocity
		}
		if req.Relative {
			n.Start += now
		}
		if err := n.Validate(); err != nil {
			s.writeError(w, fmt.Errorf("note %d: %w", i, err), http.StatusBadRequest)
			return
		}
		notes[i] = n
	}

	var voices []voiceResponse
	for i, n := range notes {
		v, err := s.synth.PlayNote(n)
		if err != nil {
			s.writeError(w, fmt.Errorf("note %d: %w", i, err), http.StatusBadRequest)
			return
		}
		voices = append(voices, voiceResponse{
			Pitch:     v.Note.Pitch,
			Frequency: v.Frequency,
			Start:     v.Note.Start,
			End:       v.End,
			Harmonics: len(v.Partials),
			PeakGain:  v.PeakGain,
		})
	}
	s.writeJSON(w, http.StatusAccepted, map[string]any{"voices": voices})
}

// handleScore schedules a parsed score to start shortly after the request
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	events, err := score.Load(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		s.writeError(w, err, http.StatusBadRequest)
		return
	}
	const lead = 0.1
	offset := s.ctx.CurrentTime() + lead
	if err := score.Schedule(s.synth, events, offset, s.config.Velocity); err != nil {
		s.logger.Warn("some score events were skipped", "err", err)
	}
	s.writeJSON(w, http.StatusAccepted, map[string]any{
		"events":    len(events),
		"startTime": offset,
		"endTime":   offset + score.Duration(events),
	})
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.synth.Config())
}

// handlePatchConfig merges a partial configuration
func (s *Server) handlePatchConfig(w http.ResponseWriter, r *http.Request) {
	var p sax.Patch
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&p); err != nil {
		s.writeError(w, fmt.Errorf("decode patch: %w", err), http.StatusBadRequest)
		return
	}
	if err := s.synth.UpdateConfig(p); err != nil {
		s.writeError(w, err, http.StatusBadRequest)
		return
	}
	s.writeConfig(w)
}

func (s *Server) handleResetConfig(w http.ResponseWriter, r *http.Request) {
	s.synth.ResetConfig()
	s.writeConfig(w)
}

// handlePreset resets the configuration and applies a named preset
func (s *Server) handlePreset(w http.ResponseWriter, r *http.Request) {
	p, err := sax.Preset(chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, err, http.StatusNotFound)
		return
	}
	if err := s.synth.SetConfig(p); err != nil {
		s.writeError(w, err, http.StatusInternalServerError)
		return
	}
	s.writeConfig(w)
}

type paramResponse struct {
	Name    string  `json:"name"`
	Group   string  `json:"group"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Value   float64 `json:"value"`
	InRange bool    `json:"inRange"`
	Integer bool    `json:"integer"`
}

// handleParams lists every parameter with its sane range
func (s *Server) handleParams(w http.ResponseWriter, r *http.Request) {
	cfg := s.synth.Config()
	params := make([]paramResponse, len(sax.Params))
	for i, p := range sax.Params {
		v := p.Get(cfg)
		params[i] = paramResponse{p.Name, p.Group, p.Min, p.Max, v, p.InRange(v), p.Integer}
	}
	s.writeJSON(w, http.StatusOK, params)
}

// handleVolume sets the master gain
func (s *Server) handleVolume(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Gain *float64 `json:"gain"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("decode volume: %w", err), http.StatusBadRequest)
		return
	}
	if req.Gain == nil || *req.Gain < 0 {
		s.writeError(w, errors.New("gain must be a non-negative number"), http.StatusBadRequest)
		return
	}
	s.synth.SetVolume(*req.Gain)
	s.writeJSON(w, http.StatusOK, map[string]float64{"gain": s.synth.Volume()})
}

func (s *Server) writeConfig(w http.ResponseWriter) {
	cfg := s.synth.Config()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"config":     cfg,
		"outOfRange": cfg.OutOfRange(),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error, status int) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
