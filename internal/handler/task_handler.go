package handler

import (
	"context"
	"net/http"
	"time"

	"planner/internal/calendar"
	"planner/internal/model"
	"planner/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TaskHandler struct {
	tasks *service.TaskService
}

func NewTaskHandler(tasks *service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// TaskRequest is the body for creating or editing a task. An empty date means
// today.
type TaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

type TaskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Date        string     `json:"date"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type CleanDayResponse struct {
	Deleted int64 `json:"deleted"`
}

func toTaskResponse(task *model.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID.String(),
		Title:       task.Title,
		Description: task.Description,
		Date:        task.Date,
		Completed:   task.Completed,
		CompletedAt: task.CompletedAt,
	}
}

func toTaskResponses(tasks []model.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, toTaskResponse(&tasks[i]))
	}
	return out
}

func (r TaskRequest) input() (service.TaskInput, error) {
	in := service.TaskInput{Title: r.Title, Description: r.Description}
	if r.Date == "" {
		return in, nil
	}
	d, err := calendar.Parse(r.Date)
	if err != nil {
		return in, err
	}
	in.Date = d
	return in, nil
}

func (h *TaskHandler) bindInput(c *gin.Context) (service.TaskInput, bool) {
	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return service.TaskInput{}, false
	}
	in, err := req.input()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:  "Invalid request",
			Code:   "invalid_request",
			Fields: map[string]string{"date": "must be YYYY-MM-DD"},
		})
		return service.TaskInput{}, false
	}
	return in, true
}

// Create godoc
// @Summary      Create an ad-hoc task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      TaskRequest  true  "Task"
// @Success      201      {object}  TaskResponse
// @Failure      400      {object}  ErrorResponse
// @Router       /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	in, ok := h.bindInput(c)
	if !ok {
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), userID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTaskResponse(task))
}

// Get godoc
// @Summary      Get a task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  TaskResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /tasks/{id} [get]
func (h *TaskHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	task, err := h.tasks.Get(c.Request.Context(), userID, taskID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTaskResponse(task))
}

// Update godoc
// @Summary      Edit a task's title, description or date
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string       true  "Task ID"
// @Param        request  body      TaskRequest  true  "Task"
// @Success      200      {object}  TaskResponse
// @Router       /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}
	in, ok := h.bindInput(c)
	if !ok {
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), userID, taskID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTaskResponse(task))
}

// Delete godoc
// @Summary      Delete a task
// @Tags         tasks
// @Security     BearerAuth
// @Param        id   path  string  true  "Task ID"
// @Success      204
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), userID, taskID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Complete godoc
// @Summary      Mark a task completed
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  TaskResponse
// @Router       /tasks/{id}/complete [post]
func (h *TaskHandler) Complete(c *gin.Context) {
	h.toggle(c, h.tasks.Complete)
}

// Uncomplete godoc
// @Summary      Mark a task not completed
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  TaskResponse
// @Router       /tasks/{id}/uncomplete [post]
func (h *TaskHandler) Uncomplete(c *gin.Context) {
	h.toggle(c, h.tasks.Uncomplete)
}

func (h *TaskHandler) toggle(c *gin.Context, op func(ctx context.Context, userID, taskID uuid.UUID) (*model.Task, error)) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	task, err := op(c.Request.Context(), userID, taskID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTaskResponse(task))
}

// Remaining godoc
// @Summary      Incomplete tasks dated today or earlier
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  TaskResponse
// @Router       /remaining-tasks [get]
func (h *TaskHandler) Remaining(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	tasks, err := h.tasks.Remaining(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTaskResponses(tasks))
}

// ForDate godoc
// @Summary      Tasks of a day, generating any the rules still owe
// @Tags         days
// @Produce      json
// @Security     BearerAuth
// @Param        date  path      string  true  "Date (YYYY-MM-DD)"
// @Success      200   {array}   TaskResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /days/{date}/tasks [get]
func (h *TaskHandler) ForDate(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	date, ok := pathDate(c)
	if !ok {
		return
	}

	tasks, err := h.tasks.ForDate(c.Request.Context(), userID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTaskResponses(tasks))
}

// CleanDay godoc
// @Summary      Delete every task of a day
// @Tags         days
// @Produce      json
// @Security     BearerAuth
// @Param        date  path      string  true  "Date (YYYY-MM-DD)"
// @Success      200   {object}  CleanDayResponse
// @Router       /days/{date}/tasks [delete]
func (h *TaskHandler) CleanDay(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	date, ok := pathDate(c)
	if !ok {
		return
	}

	n, err := h.tasks.CleanDay(c.Request.Context(), userID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, CleanDayResponse{Deleted: n})
}
