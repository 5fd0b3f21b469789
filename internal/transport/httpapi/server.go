// Package httpapi exposes the retrieval pipeline over HTTP with chi routing.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mini-lawyer/lawdex/internal/domain"
	healthuc "github.com/mini-lawyer/lawdex/internal/usecase/health"
)

// Error response codes. Stable strings clients can switch on.
const (
	codeBadRequest             = "bad_request"
	codeValidationFailed       = "validation_failed"
	codeEmbeddingProviderError = "embedding_provider_error"
	codeIndexUnavailable       = "index_unavailable"
	codeTimeout                = "timeout"
	codeInternalError          = "internal_error"
)

// Retriever runs the scenario retrieval pipeline.
type Retriever interface {
	FindSuitable(ctx context.Context, scenario string, kind domain.Kind, topK int) ([]domain.ExplainedResult, error)
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server handles the retrieval HTTP API.
type Server struct {
	retrieval     Retriever
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(retrieval Retriever, health HealthChecker, logger *zap.Logger) *Server {
	s := &Server{
		retrieval: retrieval,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidScenario, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrInvalidKind, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingProviderError),
		sentinelHandler(domain.ErrIndexUnavailable, http.StatusServiceUnavailable, codeIndexUnavailable),
		sentinelHandler(context.DeadlineExceeded, http.StatusGatewayTimeout, codeTimeout),
	}
	return s
}

// Register mounts the API routes on the router.
func (s *Server) Register(r chi.Router) {
	r.Post("/v1/retrieval", s.Retrieve)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
}

// RetrievalRequest is the POST /v1/retrieval body.
type RetrievalRequest struct {
	Scenario string `json:"scenario"`
	Kind     string `json:"kind"`
	TopK     int    `json:"top_k,omitempty"`
}

// DocumentResponse is the hydrated document inside a result.
type DocumentResponse struct {
	Kind        string         `json:"kind"`
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Meta        map[string]any `json:"meta,omitempty"`
}

// ResultResponse is one explained result. Score is "0".."10", or "N/A" when
// the explanation fell back.
type ResultResponse struct {
	Document   DocumentResponse `json:"document"`
	Advice     string           `json:"advice"`
	Score      string           `json:"score"`
	Similarity float64          `json:"similarity"`
	Fallback   bool             `json:"fallback"`
}

// RetrievalResponse is the POST /v1/retrieval reply.
type RetrievalResponse struct {
	Kind    string           `json:"kind"`
	Results []ResultResponse `json:"results"`
	Total   int              `json:"total"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse is the GET /health reply.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Retrieve handles POST /v1/retrieval.
func (s *Server) Retrieve(w http.ResponseWriter, r *http.Request) {
	var req RetrievalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	kind, err := domain.ParseKind(req.Kind)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}
	if req.TopK < 0 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "top_k must not be negative")
		return
	}

	results, err := s.retrieval.FindSuitable(r.Context(), req.Scenario, kind, req.TopK)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]ResultResponse, len(results))
	for i := range results {
		items[i] = resultToResponse(&results[i])
	}

	writeJSON(w, http.StatusOK, RetrievalResponse{
		Kind:    string(kind),
		Results: items,
		Total:   len(items),
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

func resultToResponse(r *domain.ExplainedResult) ResultResponse {
	return ResultResponse{
		Document: DocumentResponse{
			Kind:        string(r.Document.Kind),
			ID:          r.Document.ID,
			Name:        r.Document.Name,
			Description: r.Document.Description,
			Meta:        r.Document.Meta,
		},
		Advice:     r.Advice,
		Score:      r.ScoreLabel(),
		Similarity: r.Similarity,
		Fallback:   r.Fallback,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidScenario,
		domain.ErrInvalidKind,
		domain.ErrEmbeddingProviderError,
		domain.ErrIndexUnavailable,
		context.DeadlineExceeded,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
