package service

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskhub/backend/internal/models"
	"github.com/taskhub/backend/internal/repository"
)

// TaskRepository defines the persistence operations required by the task
// service. Every method that targets a single task takes the owner's
// identifier and matches it in the same query as the task identifier, so
// a mismatch surfaces as repository.ErrNotFound.
type TaskRepository interface {
	ListTasks(ctx context.Context, owner primitive.ObjectID, f repository.TaskFilter) ([]models.Task, error)
	CreateTask(ctx context.Context, task *models.Task) error
	TaskByID(ctx context.Context, owner, id primitive.ObjectID) (*models.Task, error)
	UpdateTask(ctx context.Context, owner, id primitive.ObjectID, update repository.TaskUpdate) (*models.Task, error)
	ToggleTask(ctx context.Context, owner, id primitive.ObjectID) (*models.Task, error)
	DeleteTask(ctx context.Context, owner, id primitive.ObjectID) error
	TaskStats(ctx context.Context, owner primitive.ObjectID) (*models.TaskStats, error)
}

// CreateTaskInput carries the fields accepted when creating a task.
// The caller validates them beforehand.
type CreateTaskInput struct {
	Title       string
	Description string
	Priority    string
	DueDate     *time.Time
}

// UpdateTaskInput carries a partial task update. Nil fields are not touched.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	DueDate     *time.Time
}

// TaskService implements ownership-scoped task operations.
type TaskService struct {
	// repo is the underlying persistence repository.
	repo TaskRepository
}

// NewTaskService constructs a TaskService with the provided TaskRepository.
func NewTaskService(repo TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

// List returns the owner's tasks, narrowed and ordered by f.
func (s *TaskService) List(ctx context.Context, owner *models.User, f repository.TaskFilter) ([]models.Task, error) {
	return s.repo.ListTasks(ctx, owner.ID, f)
}

// Create persists a new task owned by owner. Status defaults to pending
// and priority to medium.
func (s *TaskService) Create(ctx context.Context, owner *models.User, in CreateTaskInput) (*models.Task, error) {
	priority := models.PriorityMedium
	if in.Priority != "" {
		priority = models.TaskPriority(in.Priority)
	}

	task := &models.Task{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Status:      models.StatusPending,
		Priority:    priority,
		DueDate:     in.DueDate,
		UserID:      owner.ID,
	}
	if err := s.repo.CreateTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Get fetches a single task owned by owner. A malformed identifier
// yields repository.ErrInvalidID before any lookup.
func (s *TaskService) Get(ctx context.Context, owner *models.User, id string) (*models.Task, error) {
	oid, err := repository.ParseObjectID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.TaskByID(ctx, owner.ID, oid)
}

// Update applies a partial update to a task owned by owner.
func (s *TaskService) Update(ctx context.Context, owner *models.User, id string, in UpdateTaskInput) (*models.Task, error) {
	oid, err := repository.ParseObjectID(id)
	if err != nil {
		return nil, err
	}

	update := repository.TaskUpdate{
		DueDate: in.DueDate,
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		update.Title = &title
	}
	if in.Description != nil {
		description := strings.TrimSpace(*in.Description)
		update.Description = &description
	}
	if in.Status != nil {
		status := models.TaskStatus(*in.Status)
		update.Status = &status
	}
	if in.Priority != nil {
		priority := models.TaskPriority(*in.Priority)
		update.Priority = &priority
	}

	return s.repo.UpdateTask(ctx, owner.ID, oid, update)
}

// Toggle flips a task's status between pending and completed.
func (s *TaskService) Toggle(ctx context.Context, owner *models.User, id string) (*models.Task, error) {
	oid, err := repository.ParseObjectID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.ToggleTask(ctx, owner.ID, oid)
}

// Delete removes a task owned by owner.
func (s *TaskService) Delete(ctx context.Context, owner *models.User, id string) error {
	oid, err := repository.ParseObjectID(id)
	if err != nil {
		return err
	}
	return s.repo.DeleteTask(ctx, owner.ID, oid)
}

// Stats aggregates task counters for the owner.
func (s *TaskService) Stats(ctx context.Context, owner *models.User) (*models.TaskStats, error) {
	return s.repo.TaskStats(ctx, owner.ID)
}
