package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/alnah/go-humanizer/internal/apierr"
	"github.com/alnah/go-humanizer/internal/pipeline"
	"github.com/alnah/go-humanizer/internal/prompt"
	"github.com/alnah/go-humanizer/internal/transform"
	"github.com/alnah/go-humanizer/internal/usecase"
)

// statusClientClosedRequest is the de facto status for a request the client
// abandoned before a response was ready.
const statusClientClosedRequest = 499

// Error kinds reported in the JSON error body.
const (
	kindInvalidRequest    = "invalid_request"
	kindEmptyText         = "empty_text"
	kindInvalidTypoLevel  = "invalid_typo_level"
	kindInvalidTask       = "invalid_task"
	kindCancelled         = "cancelled"
	kindMissingCredential = "missing_credential"
	kindMalformedResponse = "malformed_response"
	kindUpstream          = "upstream"
	kindRateLimit         = "rate_limit"
	kindTimeout           = "timeout"
	kindTransport         = "transport"
	kindInternal          = "internal"
)

type processRequest struct {
	Text         string `json:"text"`
	UseCase      string `json:"useCase"`
	CustomPrompt string `json:"customPrompt"`
	Task         string `json:"task"`
	RemoveDashes bool   `json:"removeDashes"`
	TypoLevel    int    `json:"typoLevel"`
}

type processResponse struct {
	Text   string `json:"text"`
	AIText string `json:"aiText"`
}

type transformRequest struct {
	Text         string `json:"text"`
	RemoveDashes bool   `json:"removeDashes"`
	TypoLevel    int    `json:"typoLevel"`
}

type rulesRequest struct {
	Text    string `json:"text"`
	UseCase string `json:"useCase"`
	Task    string `json:"task"`
}

type textResponse struct {
	Text string `json:"text"`
}

type useCaseResponse struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// requestError is a client mistake detected before any work is done.
type requestError struct {
	kind string
	msg  string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(kind, msg string) error {
	return &requestError{kind: kind, msg: msg}
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) useCases(w http.ResponseWriter, _ *http.Request) {
	all := usecase.All()
	out := make([]useCaseResponse, 0, len(all))
	for _, u := range all {
		out = append(out, useCaseResponse{ID: u.String(), Label: u.Label(), Description: u.Description()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) process(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	task, flags, err := validate(req.Text, req.Task, req.RemoveDashes, req.TypoLevel)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	aiText, err := s.transformer.Run(r.Context(), task, req.Text, lenientUseCase(req.UseCase), req.CustomPrompt)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, processResponse{
		Text:   pipeline.ApplyLocal(aiText, flags, s.rng),
		AIText: aiText,
	})
}

func (s *Server) transform(w http.ResponseWriter, r *http.Request) {
	var req transformRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	_, flags, err := validate(req.Text, "", req.RemoveDashes, req.TypoLevel)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, textResponse{Text: pipeline.ApplyLocal(req.Text, flags, s.rng)})
}

func (s *Server) rules(w http.ResponseWriter, r *http.Request) {
	var req rulesRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	task, _, err := validate(req.Text, req.Task, false, 0)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, textResponse{Text: pipeline.Local(task, req.Text, lenientUseCase(req.UseCase))})
}

// decode reads a size-limited JSON body with unknown fields rejected.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return badRequest(kindInvalidRequest, "invalid JSON body: "+err.Error())
	}
	return nil
}

// validate checks the fields shared by every endpoint.
func validate(text, task string, removeDashes bool, typoLevel int) (prompt.Task, transform.Flags, error) {
	if strings.TrimSpace(text) == "" {
		return "", transform.Flags{}, badRequest(kindEmptyText, "text is empty")
	}
	if typoLevel < transform.MinTypoLevel || typoLevel > transform.MaxTypoLevel {
		return "", transform.Flags{}, badRequest(kindInvalidTypoLevel, "typoLevel must be between 0 and 5")
	}
	t, err := prompt.ParseTask(task)
	if err != nil {
		return "", transform.Flags{}, badRequest(kindInvalidTask, err.Error())
	}
	return t, transform.Flags{RemoveDashes: removeDashes, TypoLevel: typoLevel}, nil
}

// lenientUseCase never rejects: unknown tags reach the prompt builder, which
// falls back to professional guidance.
func lenientUseCase(s string) usecase.UseCase {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return usecase.Default
	}
	return usecase.UseCase(s)
}

// classify maps an error to an HTTP status and a stable kind.
func classify(err error) (int, string) {
	var reqErr *requestError
	var upErr *apierr.UpstreamError
	switch {
	case errors.As(err, &reqErr):
		return http.StatusBadRequest, reqErr.kind
	case apierr.IsCancelled(err):
		return statusClientClosedRequest, kindCancelled
	case errors.Is(err, apierr.ErrMissingCredential):
		return http.StatusServiceUnavailable, kindMissingCredential
	case errors.Is(err, apierr.ErrMalformedResponse):
		return http.StatusBadGateway, kindMalformedResponse
	case errors.Is(err, apierr.ErrTimeout):
		// Includes upstream 408/504 answers.
		return http.StatusGatewayTimeout, kindTimeout
	case errors.As(err, &upErr):
		if upErr.StatusCode == http.StatusTooManyRequests {
			return http.StatusTooManyRequests, kindRateLimit
		}
		return http.StatusBadGateway, kindUpstream
	case errors.Is(err, apierr.ErrTransport):
		return http.StatusBadGateway, kindTransport
	}
	return http.StatusInternalServerError, kindInternal
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := classify(err)

	msg := apierr.Message(err)
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		msg = reqErr.msg
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("request_id", RequestID(r.Context())),
			zap.Error(err))
		msg = "internal error"
	}

	writeJSON(w, status, errorResponse{Error: msg, Kind: kind})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
