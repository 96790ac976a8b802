package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/felixgeelhaar/daybrief/pkg/application"
	"github.com/felixgeelhaar/daybrief/pkg/domain/planning"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

type itemsRequest struct {
	Tasks []planning.WorkItem `json:"tasks"`
}

type suggestRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type transitionRequest struct {
	Event string `json:"event"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": ServiceName,
		"version": Version,
		"endpoints": map[string]string{
			"tasks":         "/api/tasks",
			"ai_priorities": "/api/ai/priorities",
			"ai_daily_plan": "/api/ai/daily-plan",
			"ai_suggest":    "/api/ai/suggest",
			"events":        "/api/events",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	items, _ := s.items.All()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "healthy",
		"timestamp":       s.clock.Now(),
		"tasks_in_memory": len(items),
	})
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := s.items.List(application.ItemFilter{
		Status:   q.Get("status"),
		Priority: q.Get("priority"),
		Category: q.Get("category"),
		Search:   q.Get("search"),
		SortBy:   q.Get("sort_by"),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var in application.ItemInput
	if !s.decode(w, r, &in) {
		return
	}
	item, err := s.items.Create(in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.items.Stats()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	item, err := s.items.Get(r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var patch application.ItemPatch
	if !s.decode(w, r, &patch) {
		return
	}
	item, err := s.items.Update(r.PathValue("id"), patch)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.items.Delete(r.PathValue("id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTransitionTask(w http.ResponseWriter, r *http.Request) {
	var req transitionRequest
	if !s.decode(w, r, &req) {
		return
	}
	item, err := s.items.Transition(r.PathValue("id"), req.Event)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handlePriorities(w http.ResponseWriter, r *http.Request) {
	var req itemsRequest
	if !s.decode(w, r, &req) {
		return
	}
	report, err := s.insights.RankPriorities(r.Context(), req.Tasks)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleDailyPlan(w http.ResponseWriter, r *http.Request) {
	var req itemsRequest
	if !s.decode(w, r, &req) {
		return
	}
	report, err := s.insights.BuildDailyPlan(req.Tasks)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if !s.decode(w, r, &req) {
		return
	}
	suggestion, err := s.insights.Suggest(req.Title, req.Description)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, suggestion)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: fmt.Sprintf("invalid request body: %v", err)})
		return false
	}
	return true
}

// writeError maps domain errors to status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var vErr *planning.ValidationError
	switch {
	case errors.Is(err, planning.ErrEmptyItems):
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "Task list cannot be empty"})
	case errors.Is(err, planning.ErrEmptyTitle):
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "Task title is required"})
	case errors.As(err, &vErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: vErr.Error()})
	case errors.Is(err, planning.ErrItemNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Detail: "Task not found"})
	case errors.Is(err, planning.ErrInvalidTransition):
		writeJSON(w, http.StatusConflict, errorResponse{Detail: err.Error()})
	default:
		s.logger.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
