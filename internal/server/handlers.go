package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/strata/pkg/buildinfo"
	strataerrors "github.com/matzehuels/strata/pkg/errors"
	"github.com/matzehuels/strata/pkg/graph"
	"github.com/matzehuels/strata/pkg/layout/constraint"
	"github.com/matzehuels/strata/pkg/pipeline"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

// LayoutResponse is the body of a successful POST /v1/layout.
type LayoutResponse struct {
	Graph      *graph.Graph           `json:"graph"`
	Violations []constraint.Violation `json:"violations"`
	Cached     bool                   `json:"cached"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status  string  `json:"status"`
	Version string  `json:"version"`
	Uptime  float64 `json:"uptimeSeconds"`
}

var contentTypes = map[string]string{
	pipeline.FormatJSON:     "application/json",
	pipeline.FormatSVG:      "image/svg+xml",
	pipeline.FormatGraphviz: "image/svg+xml",
	pipeline.FormatDOT:      "text/vnd.graphviz",
	pipeline.FormatPDF:      "application/pdf",
	pipeline.FormatPNG:      "image/png",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: buildinfo.Version,
		Uptime:  time.Since(s.started).Seconds(),
	})
}

func (s *Server) handleAlgorithms(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string][]string{
		"algorithms": s.runner.Engine.Registry.Implemented(),
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	record, ok := s.readBody(w, r)
	if !ok {
		return
	}
	refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))

	outcome, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), record, refresh)
	if err != nil {
		s.respondFailure(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, LayoutResponse{
		Graph:      outcome.Graph,
		Violations: outcome.Violations,
		Cached:     hit,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "", err.Error())
		return
	}
	record, ok := s.readBody(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	opts := pipeline.Options{Formats: []string{format}}
	opts.Labels, _ = strconv.ParseBool(q.Get("labels"))
	opts.Detailed, _ = strconv.ParseBool(q.Get("detailed"))
	opts.Refresh, _ = strconv.ParseBool(q.Get("refresh"))
	if v := q.Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil {
			s.respondError(w, r, http.StatusBadRequest, "", "invalid scale: "+v)
			return
		}
		opts.Scale = scale
	}

	result, err := s.runner.Execute(r.Context(), record, opts)
	if err != nil {
		s.respondFailure(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Violations", strconv.Itoa(len(result.Violations)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Artifacts[format]); err != nil {
		s.logger.Debug("write response", "err", err)
	}
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.respondError(w, r, http.StatusRequestEntityTooLarge, "", "request body too large")
			return nil, false
		}
		s.respondError(w, r, http.StatusBadRequest, "", "read body: "+err.Error())
		return nil, false
	}
	if len(body) == 0 {
		s.respondError(w, r, http.StatusBadRequest, string(strataerrors.ErrCodeInvalidInput), "empty request body")
		return nil, false
	}
	return body, true
}

// respondFailure maps a pipeline error onto a status code.
func (s *Server) respondFailure(w http.ResponseWriter, r *http.Request, err error) {
	code := strataerrors.GetCode(err)
	status := http.StatusInternalServerError
	switch {
	case strataerrors.IsInput(err),
		code == strataerrors.ErrCodeUnknownAlgorithm,
		code == strataerrors.ErrCodeGraphTooDeep:
		status = http.StatusBadRequest
	case code == strataerrors.ErrCodeUnsupported:
		status = http.StatusNotImplemented
	case r.Context().Err() != nil:
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "id", RequestIDFrom(r.Context()), "err", err)
	}
	s.respondError(w, r, status, string(code), strataerrors.UserMessage(err))
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	s.respondJSON(w, status, ErrorResponse{
		Error:     http.StatusText(status),
		Code:      code,
		Message:   message,
		RequestID: RequestIDFrom(r.Context()),
	})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Debug("encode response", "err", err)
	}
}
