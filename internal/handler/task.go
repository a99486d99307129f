package handler

import (
	"net/http"
	"strconv"

	"github.com/Alok5code/project-task-management-api/internal/middleware"
	"github.com/Alok5code/project-task-management-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TaskHandler interface {
	GetTasks(c *gin.Context)
	CreateTask(c *gin.Context)
	GetTaskByID(c *gin.Context)
	UpdateTask(c *gin.Context)
	DeleteTask(c *gin.Context)
}

type taskHandler struct {
	taskService service.TaskService
	logger      *zap.Logger
}

func NewTaskHandler(taskService service.TaskService, logger *zap.Logger) TaskHandler {
	return &taskHandler{taskService: taskService, logger: logger}
}

// GetTasks handles GET /tasks
func (h *taskHandler) GetTasks(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}

	var filter service.TaskFilterInput
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	tasks, err := h.taskService.ListTasks(c.Request.Context(), ownerID, filter)
	if err != nil {
		h.fail(c, "Failed to list tasks", err)
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// CreateTask handles POST /tasks
func (h *taskHandler) CreateTask(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}

	var input service.CreateTaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), ownerID, input)
	if err != nil {
		h.fail(c, "Failed to create task", err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// GetTaskByID handles GET /tasks/:id
func (h *taskHandler) GetTaskByID(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	id, ok := h.taskID(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(c.Request.Context(), ownerID, id)
	if err != nil {
		h.fail(c, "Failed to get task", err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// UpdateTask handles PUT /tasks/:id
func (h *taskHandler) UpdateTask(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	id, ok := h.taskID(c)
	if !ok {
		return
	}

	var input service.UpdateTaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), ownerID, id, input)
	if err != nil {
		h.fail(c, "Failed to update task", err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// DeleteTask handles DELETE /tasks/:id
func (h *taskHandler) DeleteTask(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	id, ok := h.taskID(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), ownerID, id); err != nil {
		h.fail(c, "Failed to delete task", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *taskHandler) ownerID(c *gin.Context) (int64, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		writeServiceError(c, service.ErrNotAuthenticated)
		return 0, false
	}
	return user.ID, true
}

func (h *taskHandler) taskID(c *gin.Context) (int64, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.logger.Debug("Invalid task ID", zap.String("id", idStr), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return 0, false
	}
	return id, true
}

func (h *taskHandler) fail(c *gin.Context, msg string, err error) {
	if writeServiceError(c, err) {
		return
	}
	h.logger.Error(msg, zap.String("request_id", middleware.RequestID(c)), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
