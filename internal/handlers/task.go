package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apierrors "github.com/yukikurage/task-api/internal/errors"
	"github.com/yukikurage/task-api/internal/logger"
	"github.com/yukikurage/task-api/internal/middleware"
	"github.com/yukikurage/task-api/internal/services"
)

// TaskHandler serves the caller's owner-scoped task collection.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns every task owned by the current user.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	tasks, err := h.taskService.ListTasks(userID)
	if err != nil {
		respondTaskError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// CreateTask creates a new task owned by the current user.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTaskRequest struct {
		Name        string     `json:"name" binding:"required"`
		Description *string    `json:"description"`
		Tag         string     `json:"tag" binding:"required"`
		Date        *time.Time `json:"date"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		Name:        req.Name,
		Description: req.Description,
		Tag:         req.Tag,
		Date:        req.Date,
		OwnerID:     userID,
	})
	if err != nil {
		respondTaskError(c, err, "")
		return
	}

	c.JSON(http.StatusCreated, task)
}

// UpdateTask replaces a task's fields after the ownership check.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type UpdateTaskRequest struct {
		ID          uuid.UUID  `json:"id" binding:"required"`
		Name        string     `json:"name" binding:"required"`
		Description *string    `json:"description"`
		Tag         string     `json:"tag" binding:"required"`
		Date        *time.Time `json:"date"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateTask(services.UpdateTaskInput{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		Tag:         req.Tag,
		Date:        req.Date,
		OwnerID:     userID,
	})
	if err != nil {
		respondTaskError(c, err, "update")
		return
	}

	c.JSON(http.StatusAccepted, task)
}

// DeleteTask removes a task after the ownership check and returns the
// deleted row.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.Forbidden(c, "Invalid task id")
		return
	}

	task, err := h.taskService.DeleteTask(taskID, userID)
	if err != nil {
		respondTaskError(c, err, "delete")
		return
	}

	c.JSON(http.StatusAccepted, task)
}

func respondTaskError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.UnprocessableEntity(c, "Task not found")
	case errors.Is(err, services.ErrNotTaskOwner):
		apierrors.Forbidden(c, "You don't have permission to "+action+" this task")
	default:
		logger.Error("task operation failed", "error", err)
		apierrors.InternalError(c, "")
	}
}
