package control

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/tvxlabs/mediabridge/adapter"
	"github.com/tvxlabs/mediabridge/host"
	"github.com/tvxlabs/mediabridge/log"
	"github.com/tvxlabs/mediabridge/media"
)

// Status is the body of GET /status and of every /ws message.
type Status struct {
	State    media.State  `json:"state"`
	Position float64      `json:"position"`
	Duration float64      `json:"duration"`
	Volume   float64      `json:"volume"`
	Muted    bool         `json:"muted"`
	Speed    float64      `json:"speed"`
	Host     *host.Status `json:"host,omitempty"`
}

var errBadRequest = errors.New("malformed body")

type errorResponse struct {
	Error string `json:"error"`
}

type positionRequest struct {
	Value *float64 `json:"value" validate:"required,gte=0"`
}

type volumeRequest struct {
	Value *float64 `json:"value" validate:"required,gte=0,lte=100"`
}

type mutedRequest struct {
	Value *bool `json:"value" validate:"required"`
}

type speedRequest struct {
	Value *float64 `json:"value" validate:"required,gt=0,lte=16"`
}

func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warnf("control: encode response: %v", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, host.ErrNotBound):
		status = http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	case errors.As(err, new(validator.ValidationErrors)):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	}
	respond(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) do(r *http.Request, fn func(p adapter.Player)) error {
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()
	return s.player.Do(ctx, fn)
}

func (s *Server) snapshot(ctx context.Context) (Status, error) {
	var st Status
	err := s.player.Do(ctx, func(p adapter.Player) {
		st = Status{
			State:    p.State(),
			Position: p.Position(),
			Duration: p.Duration(),
			Volume:   p.Volume(),
			Muted:    p.Muted(),
			Speed:    p.Speed(),
		}
	})
	if err != nil {
		return Status{}, err
	}

	if s.status != nil {
		hs := s.status.Status()
		st.Host = &hs
	}
	return st, nil
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	st, err := s.snapshot(ctx)
	if err != nil {
		s.fail(w, err)
		return
	}
	respond(w, http.StatusOK, st)
}

func (s *Server) command(fn func(p adapter.Player)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.do(r, fn); err != nil {
			s.fail(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return s.validate.Struct(dst)
}

func (s *Server) handlePosition(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	if err := s.decode(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	s.command(func(p adapter.Player) { p.SetPosition(*req.Value) })(w, r)
}

func (s *Server) handleVolume(w http.ResponseWriter, r *http.Request) {
	var req volumeRequest
	if err := s.decode(r, &req); err != nil {
		s.fail(w, err)
		return
	}

	var applied float64
	if err := s.do(r, func(p adapter.Player) {
		p.SetVolume(*req.Value)
		applied = p.Volume()
	}); err != nil {
		s.fail(w, err)
		return
	}

	if s.volumes != nil {
		if err := s.volumes.RememberVolume(applied); err != nil {
			log.Warnf("control: persist volume: %v", err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMuted(w http.ResponseWriter, r *http.Request) {
	var req mutedRequest
	if err := s.decode(r, &req); err != nil {
		s.fail(w, err)
		return
	}

	if err := s.do(r, func(p adapter.Player) { p.SetMuted(*req.Value) }); err != nil {
		s.fail(w, err)
		return
	}

	if s.volumes != nil {
		if err := s.volumes.RememberMuted(*req.Value); err != nil {
			log.Warnf("control: persist mute: %v", err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	var req speedRequest
	if err := s.decode(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	s.command(func(p adapter.Player) { p.SetSpeed(*req.Value) })(w, r)
}
