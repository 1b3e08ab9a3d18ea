package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskhub/backend/internal/middleware"
	"github.com/taskhub/backend/internal/models"
	"github.com/taskhub/backend/internal/repository"
	"github.com/taskhub/backend/internal/service"
	"github.com/taskhub/backend/internal/validation"
)

// TaskService defines the interface for task operations required by the
// HTTP handlers. Every operation is scoped to the given owner.
type TaskService interface {
	List(ctx context.Context, owner *models.User, f repository.TaskFilter) ([]models.Task, error)
	Create(ctx context.Context, owner *models.User, in service.CreateTaskInput) (*models.Task, error)
	Get(ctx context.Context, owner *models.User, id string) (*models.Task, error)
	Update(ctx context.Context, owner *models.User, id string, in service.UpdateTaskInput) (*models.Task, error)
	Toggle(ctx context.Context, owner *models.User, id string) (*models.Task, error)
	Delete(ctx context.Context, owner *models.User, id string) error
	Stats(ctx context.Context, owner *models.User) (*models.TaskStats, error)
}

// TaskHandler handles HTTP requests for ownership-scoped task CRUD.
type TaskHandler struct {
	// TaskService performs the underlying task operations.
	TaskService TaskService
}

// CreateTaskRequest represents the JSON payload for task creation.
// Pointer fields distinguish absent fields from empty ones.
type CreateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"dueDate"`
}

// UpdateTaskRequest represents the JSON payload for a partial task update.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"dueDate"`
}

// List returns the authenticated user's tasks, optionally narrowed by
// exact-match status and priority filters and ordered by a whitelisted
// sort field (default: creation time, descending).
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetUserFromContext(r.Context())
	if owner == nil {
		writeMessage(w, http.StatusUnauthorized, "Authentication token required")
		return
	}

	q := r.URL.Query()
	filter := repository.TaskFilter{
		Status:   q.Get("status"),
		Priority: q.Get("priority"),
		SortBy:   q.Get("sortBy"),
		Order:    q.Get("order"),
	}

	var errs []validation.FieldError
	if filter.Status != "" && !models.ValidStatus(filter.Status) {
		errs = append(errs, validation.FieldError{Field: "status", Message: "Status must be either pending or completed"})
	}
	if filter.Priority != "" && !models.ValidPriority(filter.Priority) {
		errs = append(errs, validation.FieldError{Field: "priority", Message: "Priority must be one of: low, medium, high"})
	}
	if len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	tasks, err := h.TaskService.List(r.Context(), owner, filter)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

// Create validates the payload and persists a new task owned by the
// authenticated user, with status pending and priority medium by default.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetUserFromContext(r.Context())
	if owner == nil {
		writeMessage(w, http.StatusUnauthorized, "Authentication token required")
		return
	}

	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in := validation.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	}
	if errs := validation.ValidateTask(in, true); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	create := service.CreateTaskInput{Title: *req.Title}
	if req.Description != nil {
		create.Description = *req.Description
	}
	if req.Priority != nil {
		create.Priority = *req.Priority
	}
	if req.DueDate != nil {
		due, err := validation.ParseDueDate(*req.DueDate)
		if err != nil {
			writeValidationErrors(w, []validation.FieldError{{Field: "dueDate", Message: "Due date must be a valid date"}})
			return
		}
		create.DueDate = &due
	}

	task, err := h.TaskService.Create(r.Context(), owner, create)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Task created successfully",
		"task":    task,
	})
}

// Get returns a single task owned by the authenticated user.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetUserFromContext(r.Context())
	if owner == nil {
		writeMessage(w, http.StatusUnauthorized, "Authentication token required")
		return
	}

	task, err := h.TaskService.Get(r.Context(), owner, chi.URLParam(r, "id"))
	if err != nil {
		writeTaskError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"task": task})
}

// Update applies a partial update to a task owned by the authenticated
// user, re-validating every field it touches.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetUserFromContext(r.Context())
	if owner == nil {
		writeMessage(w, http.StatusUnauthorized, "Authentication token required")
		return
	}

	var req UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in := validation.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	}
	if errs := validation.ValidateTask(in, false); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	update := service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	}
	if req.DueDate != nil {
		due, err := validation.ParseDueDate(*req.DueDate)
		if err != nil {
			writeValidationErrors(w, []validation.FieldError{{Field: "dueDate", Message: "Due date must be a valid date"}})
			return
		}
		update.DueDate = &due
	}

	task, err := h.TaskService.Update(r.Context(), owner, chi.URLParam(r, "id"), update)
	if err != nil {
		writeTaskError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Task updated successfully",
		"task":    task,
	})
}

// Toggle flips a task's status between pending and completed.
func (h *TaskHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetUserFromContext(r.Context())
	if owner == nil {
		writeMessage(w, http.StatusUnauthorized, "Authentication token required")
		return
	}

	task, err := h.TaskService.Toggle(r.Context(), owner, chi.URLParam(r, "id"))
	if err != nil {
		writeTaskError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Task status updated successfully",
		"task":    task,
	})
}

// Delete removes a task owned by the authenticated user.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetUserFromContext(r.Context())
	if owner == nil {
		writeMessage(w, http.StatusUnauthorized, "Authentication token required")
		return
	}

	if err := h.TaskService.Delete(r.Context(), owner, chi.URLParam(r, "id")); err != nil {
		writeTaskError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Task deleted successfully")
}

// Stats returns aggregate task counters for the authenticated user.
func (h *TaskHandler) Stats(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetUserFromContext(r.Context())
	if owner == nil {
		writeMessage(w, http.StatusUnauthorized, "Authentication token required")
		return
	}

	stats, err := h.TaskService.Stats(r.Context(), owner)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"stats": stats})
}

// writeTaskError maps task lookup failures onto the API error taxonomy.
// Not-found covers both nonexistent tasks and tasks owned by another
// user; a malformed identifier is reported distinctly, before any
// ownership check has happened.
func writeTaskError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrInvalidID):
		writeMessage(w, http.StatusBadRequest, "Invalid task ID format")
	case errors.Is(err, repository.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "Task not found")
	default:
		writeMessage(w, http.StatusInternalServerError, "Server error")
	}
}
