// Package api exposes the planning contract as JSON over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/vsinha/mrpplan/pkg/application/dto"
	"github.com/vsinha/mrpplan/pkg/domain/entities"
	"github.com/vsinha/mrpplan/pkg/infrastructure/repositories/sqlite"
	"github.com/vsinha/mrpplan/pkg/interfaces/cli/output"
)

// Planner runs planning requests
type Planner interface {
	Plan(ctx context.Context, req dto.PlanningRunRequest) (*dto.PlanningRunResult, error)
}

// RunReader reads stored planning runs
type RunReader interface {
	ListRuns(ctx context.Context, limit int) ([]sqlite.RunSummary, error)
	GetRun(ctx context.Context, id string) (*dto.PlanningRunResult, error)
}

// Server handles planning API requests
type Server struct {
	planner      Planner
	runs         RunReader
	logger       *zap.Logger
	maxBodyBytes int64
}

// NewServer creates a server. runs may be nil, which disables the run endpoints.
func NewServer(planner Planner, runs RunReader, logger *zap.Logger, maxBodyBytes int64) *Server {
	return &Server{
		planner:      planner,
		runs:         runs,
		logger:       logger.Named("api"),
		maxBodyBytes: maxBodyBytes,
	}
}

// Routes returns the API router
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/plans", s.handlePlan)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
	})
	return r
}

// errorResponse is the body of every non-2xx response
type errorResponse struct {
	Error    string   `json:"error"`
	Kind     string   `json:"kind,omitempty"`
	Problems []string `json:"problems,omitempty"`
	Cycle    []string `json:"cycle,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req dto.PlanningRunRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: fmt.Sprintf("request body exceeds %d bytes", maxBytesErr.Limit)})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("malformed planning request: %v", err)})
		return
	}

	result, err := s.planner.Plan(r.Context(), req)
	if err != nil {
		s.writePlanError(w, r, err)
		return
	}
	s.writeResult(w, r, http.StatusOK, result)
}

func (s *Server) writePlanError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *entities.ValidationError
	var cycleErr *entities.CycleError

	switch {
	case errors.As(err, &cycleErr):
		cycle := make([]string, len(cycleErr.Path))
		for i, code := range cycleErr.Path {
			cycle[i] = string(code)
		}
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Kind: "cycle_detected", Cycle: cycle})
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Kind: "invalid_input", Problems: validationErr.Problems})
	case errors.Is(err, entities.ErrInvalidInput):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Kind: "invalid_input"})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "planning run cancelled"})
	default:
		s.logger.Error("Planning request failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "planning run failed"})
	}
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		writeJSON(w, http.StatusNotImplemented, errorResponse{Error: "run store is disabled"})
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid limit"})
			return
		}
		limit = parsed
	}

	runs, err := s.runs.ListRuns(r.Context(), limit)
	if err != nil {
		s.logger.Error("Failed to list planning runs", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to list planning runs"})
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		writeJSON(w, http.StatusNotImplemented, errorResponse{Error: "run store is disabled"})
		return
	}

	id := chi.URLParam(r, "id")
	result, err := s.runs.GetRun(r.Context(), id)
	if errors.Is(err, sqlite.ErrRunNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: fmt.Sprintf("planning run %s not found", id)})
		return
	}
	if err != nil {
		s.logger.Error("Failed to load planning run", zap.String("run_id", id), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to load planning run"})
		return
	}
	s.writeResult(w, r, http.StatusOK, result)
}

// writeResult honours ?format=xlsx; JSON otherwise
func (s *Server) writeResult(w http.ResponseWriter, r *http.Request, status int, result *dto.PlanningRunResult) {
	switch r.URL.Query().Get("format") {
	case "", output.FormatJSON:
		writeJSON(w, status, result)
	case output.FormatXLSX:
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="mrp-%s.xlsx"`, result.RunID))
		w.WriteHeader(status)
		if err := output.WriteXLSX(w, result); err != nil {
			s.logger.Error("Failed to write workbook", zap.String("run_id", result.RunID), zap.Error(err))
		}
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "format must be json or xlsx"})
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("Handled request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)))
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}
