package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/task-api/internal/models"
	"github.com/yukikurage/task-api/internal/repository"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrNotTaskOwner = errors.New("caller does not own this task")
)

// TaskService handles task business logic. Every operation is scoped to the
// caller's identity; ownership is checked before any mutation.
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

// ListTasks returns all tasks owned by the given user.
func (s *TaskService) ListTasks(ownerID uuid.UUID) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}
	return tasks, nil
}

// CreateTaskInput represents input for creating a task. The owner always
// comes from the authenticated identity, never from the request body.
type CreateTaskInput struct {
	Name        string
	Description *string
	Tag         string
	Date        *time.Time
	OwnerID     uuid.UUID
}

// CreateTask inserts a new task owned by the caller and returns the
// materialized row.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	task := &models.Task{
		Name:        input.Name,
		Description: input.Description,
		Tag:         input.Tag,
		Date:        input.Date,
		UserID:      input.OwnerID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}

	return task, nil
}

// UpdateTaskInput represents a full replacement of a task's fields.
type UpdateTaskInput struct {
	ID          uuid.UUID
	Name        string
	Description *string
	Tag         string
	Date        *time.Time
	OwnerID     uuid.UUID
}

// UpdateTask replaces the task's fields after the ownership check passes.
func (s *TaskService) UpdateTask(input UpdateTaskInput) (*models.Task, error) {
	task := &models.Task{
		ID:          input.ID,
		Name:        input.Name,
		Description: input.Description,
		Tag:         input.Tag,
		Date:        input.Date,
	}

	updated, err := s.taskRepo.UpdateOwned(task, input.OwnerID)
	if err != nil {
		return nil, translateTaskError(err)
	}

	return updated, nil
}

// DeleteTask removes the task after the ownership check passes and returns
// the deleted row.
func (s *TaskService) DeleteTask(id, ownerID uuid.UUID) (*models.Task, error) {
	deleted, err := s.taskRepo.DeleteOwned(id, ownerID)
	if err != nil {
		return nil, translateTaskError(err)
	}

	return deleted, nil
}

func translateTaskError(err error) error {
	switch {
	case errors.Is(err, repository.ErrTaskNotFound):
		return ErrTaskNotFound
	case errors.Is(err, repository.ErrNotTaskOwner):
		return ErrNotTaskOwner
	default:
		return fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}
}
