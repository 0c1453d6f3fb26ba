package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/devbush/ytlingo/internal/application"
	"github.com/devbush/ytlingo/internal/config"
	"github.com/devbush/ytlingo/internal/domain"
	"github.com/rs/zerolog"
)

type processRequest struct {
	URL         string `json:"url"`
	Language    string `json:"language,omitempty"`
	VisitorData string `json:"visitorData,omitempty"`
	POToken     string `json:"po_token,omitempty"`
}

type processResponse struct {
	JobID      string           `json:"job_id"`
	Message    string           `json:"message"`
	AudioURL   string           `json:"audio_url"`
	Transcript []domain.Segment `json:"transcript"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)

	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, r, http.StatusRequestEntityTooLarge, errorResponse{Error: "Request body too large"})
			return
		}
		// A missing or malformed body has no URL in it
		writeError(w, r, domain.ErrMissingURL)
		return
	}

	result, err := s.processor.Process(r.Context(), application.ProcessRequest{
		URL:      req.URL,
		Language: req.Language,
		Credentials: domain.Credentials{
			VisitorData: req.VisitorData,
			POToken:     req.POToken,
		},
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, processResponse{
		JobID:      result.JobID,
		Message:    "Processing completed",
		AudioURL:   result.AudioURL,
		Transcript: result.Transcript.Segments,
	})
}

func (s *Server) handleAudio(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("job_id")

	rc, info, err := s.artifacts.Open(r.Context(), jobID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Disposition", `inline; filename="`+jobID+`.mp3"`)
	http.ServeContent(w, r, jobID+".mp3", info.ModTime, rc)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleCleanup sweeps stored audio. max_age (e.g. 1h, 7d) overrides the
// configured retention.
func (s *Server) handleCleanup(w http.ResponseWriter, r *http.Request) {
	var maxAge time.Duration
	if v := r.URL.Query().Get("max_age"); v != "" {
		d, err := config.ParseDuration(v)
		if err != nil {
			writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "Invalid max_age"})
			return
		}
		maxAge = d
	}

	removed, err := s.artifacts.Sweep(r.Context(), maxAge)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("X-Removed-Count", strconv.Itoa(removed))
	writeJSON(w, r, http.StatusOK, map[string]int{"removed": removed})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Int("status", status).Msg("failed to write response")
	}
}

// writeError maps domain errors to stable statuses and messages. Anything
// unrecognized is logged and reported as an opaque internal error.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := classify(err)
	logger := zerolog.Ctx(r.Context())
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Msg("request failed")
	} else {
		logger.Warn().Err(err).Int("status", status).Msg("request rejected")
	}
	writeJSON(w, r, status, errorResponse{Error: msg})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrMissingURL):
		return http.StatusBadRequest, "No URL provided"
	case errors.Is(err, domain.ErrInvalidURL):
		return http.StatusBadRequest, "Invalid YouTube URL"
	case errors.Is(err, domain.ErrMissingCredentials):
		return http.StatusBadRequest, "visitorData and po_token are required"
	case errors.Is(err, domain.ErrInvalidJobID):
		return http.StatusBadRequest, "Invalid job id"
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, "Rate limited by YouTube, try again later"
	case errors.Is(err, domain.ErrTranscriptUnavailable):
		return http.StatusNotFound, "Transcript unavailable for this video"
	case errors.Is(err, domain.ErrAudioNotFound):
		return http.StatusNotFound, "Audio file not found"
	case errors.Is(err, domain.ErrAudioUnavailable):
		return http.StatusNotFound, "Audio unavailable for this video"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
