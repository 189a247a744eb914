package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	ports "github.com/taskmindhq/taskmind/taskmind/chat/ports"
)

type taskResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	UserID      string `json:"user_id"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func toTaskResponse(task ports.Task) taskResponse {
	return taskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		UserID:      task.OwnerID,
		CreatedAt:   task.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   task.UpdatedAt.Format(time.RFC3339),
	}
}

// taskError translates store failures into HTTP responses.
func (s *Server) taskError(c *gin.Context, err error) {
	if ve, ok := ports.AsValidationError(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message})
		return
	}
	switch {
	case errors.Is(err, ports.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	case errors.Is(err, ports.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to access this task"})
	default:
		s.logger.Error().Err(err).Msg("task operation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// createTask handles POST /api/tasks
func (s *Server) createTask(c *gin.Context) {
	type request struct {
		Title       string  `json:"title" binding:"required"`
		Description *string `json:"description"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := s.tasks.Create(c.Request.Context(), currentUserID(c), req.Title, req.Description)
	if err != nil {
		s.taskError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTaskResponse(task))
}

// listTasks handles GET /api/tasks
func (s *Server) listTasks(c *gin.Context) {
	var filter ports.TaskFilter
	if raw, ok := c.GetQuery("completed"); ok {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid completed filter"})
			return
		}
		filter.Completed = &completed
	}
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "0"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	tasks, total, err := s.tasks.List(c.Request.Context(), currentUserID(c), filter)
	if err != nil {
		s.taskError(c, err)
		return
	}

	out := make([]taskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, toTaskResponse(task))
	}
	c.JSON(http.StatusOK, gin.H{"tasks": out, "total": total})
}

// updateTask handles PATCH /api/tasks/:id
func (s *Server) updateTask(c *gin.Context) {
	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	type request struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := s.tasks.Update(c.Request.Context(), currentUserID(c), taskID, ports.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		s.taskError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTaskResponse(task))
}

// completeTask handles PATCH /api/tasks/:id/complete
func (s *Server) completeTask(c *gin.Context) {
	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	type request struct {
		Completed *bool `json:"completed"`
	}
	var req request
	// An empty body means "mark completed".
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	completed := true
	if req.Completed != nil {
		completed = *req.Completed
	}

	task, err := s.tasks.SetCompletion(c.Request.Context(), currentUserID(c), taskID, completed)
	if err != nil {
		s.taskError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTaskResponse(task))
}

// deleteTask handles DELETE /api/tasks/:id
func (s *Server) deleteTask(c *gin.Context) {
	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	if err := s.tasks.Delete(c.Request.Context(), currentUserID(c), taskID); err != nil {
		s.taskError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}
