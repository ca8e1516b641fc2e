package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskcheck/api/internal/config"
	"github.com/taskcheck/api/internal/domain/task"
	"github.com/taskcheck/api/internal/fill"
	"github.com/taskcheck/api/internal/http/middlewares"
)

const tasksPerPage = 10

type TaskStore interface {
	Create(ctx context.Context, t *task.Task) error
	GetByID(ctx context.Context, id int64) (task.Task, error)
	Update(ctx context.Context, t *task.Task) error
	Delete(ctx context.Context, id int64) error
	ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]task.Task, error)
	CountByOwner(ctx context.Context, ownerID int64) (int, error)
}

type TasksHandler struct {
	store TaskStore
}

func NewTasksHandler(store TaskStore) *TasksHandler {
	return &TasksHandler{store: store}
}

type pagination struct {
	CurrentPage     int  `json:"current_page"`
	TotalPages      int  `json:"total_pages"`
	TotalItems      int  `json:"total_items"`
	ItemsPerPage    int  `json:"items_per_page"`
	HasNextPage     bool `json:"has_next_page"`
	HasPreviousPage bool `json:"has_previous_page"`
	NextPage        *int `json:"next_page"`
	PreviousPage    *int `json:"previous_page"`
}

func (h *TasksHandler) List(ctx *gin.Context) {
	caller, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnauthorized(ctx, "Authentication required.")
		return
	}

	page := parsePage(ctx.Query("page"))
	offset := (page - 1) * tasksPerPage

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	total, err := h.store.CountByOwner(cctx, caller)
	if err != nil {
		RespondInternal(ctx, "Could not list tasks")
		return
	}

	tasks, err := h.store.ListByOwner(cctx, caller, tasksPerPage, offset)
	if err != nil {
		RespondInternal(ctx, "Could not list tasks")
		return
	}

	totalPages := int(math.Ceil(float64(total) / float64(tasksPerPage)))

	p := pagination{
		CurrentPage:     page,
		TotalPages:      totalPages,
		TotalItems:      total,
		ItemsPerPage:    tasksPerPage,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}
	if p.HasNextPage {
		next := page + 1
		p.NextPage = &next
	}
	if p.HasPreviousPage {
		prev := page - 1
		p.PreviousPage = &prev
	}

	ctx.JSON(http.StatusOK, gin.H{
		"tasks":      tasks,
		"pagination": p,
	})
}

func (h *TasksHandler) Show(ctx *gin.Context) {
	t, ok := h.ownedTask(ctx)
	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, t)
}

func (h *TasksHandler) Create(ctx *gin.Context) {
	caller, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnauthorized(ctx, "Authentication required.")
		return
	}

	var data map[string]any
	if err := json.NewDecoder(ctx.Request.Body).Decode(&data); err != nil {
		RespondInvalidJSON(ctx)
		return
	}

	// Absent keys keep the zero values: empty title (rejected below),
	// nil description, isDone false. The owner is never client-supplied.
	var t task.Task
	fill.Apply(t.FillSchema(), data)
	t.OwnerID = caller

	if violations := t.Validate(); violations != nil {
		RespondValidationErrors(ctx, violations)
		return
	}

	t.StampCreate(time.Now())

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	if err := h.store.Create(cctx, &t); err != nil {
		RespondInternal(ctx, "Could not create task")
		return
	}

	ctx.JSON(http.StatusCreated, t)
}

func (h *TasksHandler) Update(ctx *gin.Context) {
	t, ok := h.ownedTask(ctx)
	if !ok {
		return
	}

	var data map[string]any
	if err := json.NewDecoder(ctx.Request.Body).Decode(&data); err != nil {
		RespondInvalidJSON(ctx)
		return
	}

	// Partial update: only keys present in the payload touch the task.
	fill.Apply(t.FillSchema(), data)

	if violations := t.Validate(); violations != nil {
		RespondValidationErrors(ctx, violations)
		return
	}

	t.StampUpdate(time.Now())

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	if err := h.store.Update(cctx, &t); err != nil {
		if errors.Is(err, task.ErrNotFound) {
			RespondNotFound(ctx, "Task not found")
			return
		}
		RespondInternal(ctx, "Could not update task")
		return
	}

	ctx.JSON(http.StatusOK, t)
}

func (h *TasksHandler) Delete(ctx *gin.Context) {
	t, ok := h.ownedTask(ctx)
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	if err := h.store.Delete(cctx, t.ID); err != nil {
		if errors.Is(err, task.ErrNotFound) {
			RespondNotFound(ctx, "Task not found")
			return
		}
		RespondInternal(ctx, "Could not delete task")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

// ownedTask loads the task from the path id and enforces ownership.
// Missing tasks yield 404, another owner's 403: the two are distinct
// on purpose. When ok is false a response has already been written.
func (h *TasksHandler) ownedTask(ctx *gin.Context) (task.Task, bool) {
	caller, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnauthorized(ctx, "Authentication required.")
		return task.Task{}, false
	}

	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		RespondNotFound(ctx, "Task not found")
		return task.Task{}, false
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	t, err := h.store.GetByID(cctx, id)
	if err != nil {
		if errors.Is(err, task.ErrNotFound) {
			RespondNotFound(ctx, "Task not found")
			return task.Task{}, false
		}
		RespondInternal(ctx, "Could not fetch task")
		return task.Task{}, false
	}

	if t.OwnerID != caller {
		RespondAccessDenied(ctx)
		return task.Task{}, false
	}

	return t, true
}

func parsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}
