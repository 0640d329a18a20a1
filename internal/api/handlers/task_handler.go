package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sobran5883/tasks-management-dashboard/internal/middleware"
	"github.com/sobran5883/tasks-management-dashboard/internal/models"
	"github.com/sobran5883/tasks-management-dashboard/internal/service"
)

type TaskHandler struct {
	taskService *service.TaskService
	logger      *logrus.Logger
}

func NewTaskHandler(taskService *service.TaskService, logger *logrus.Logger) *TaskHandler {
	return &TaskHandler{taskService: taskService, logger: logger}
}

type createTaskRequest struct {
	Title    string   `json:"title"`
	Date     string   `json:"date"`
	Stage    string   `json:"stage"`
	Priority string   `json:"priority"`
	Team     []string `json:"team"`
	Assets   []string `json:"assets"`
}

type updateTaskRequest struct {
	Title    *string   `json:"title,omitempty"`
	Date     *string   `json:"date,omitempty"`
	Stage    *string   `json:"stage,omitempty"`
	Priority *string   `json:"priority,omitempty"`
	Team     *[]string `json:"team,omitempty"`
	Assets   *[]string `json:"assets,omitempty"`
}

type activityRequest struct {
	Type     string `json:"type"`
	Activity string `json:"activity"`
}

// parseDate accepts the client's yyyy-mm-dd form value or a full RFC 3339
// timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, &models.FieldError{Field: "date", Msg: "invalid date format"}
	}
	return t, nil
}

func parseTeam(ids []string) ([]primitive.ObjectID, error) {
	team := make([]primitive.ObjectID, 0, len(ids))
	for _, raw := range ids {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return nil, &models.FieldError{Field: "team", Msg: fmt.Sprintf("invalid user id %q", raw)}
		}
		team = append(team, id)
	}
	return team, nil
}

func pathTaskID(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(r.PathValue("id"))
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: invalid task id", models.ErrNotFound)
	}
	return id, nil
}

// CreateTask handles POST /api/tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFrom(r.Context())

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if req.Date == "" {
		respondError(w, r, h.logger, &models.FieldError{Field: "date", Msg: "date is required"})
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	team, err := parseTeam(req.Team)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	task, err := h.taskService.Create(r.Context(), actor, service.CreatePayload{
		Title:    req.Title,
		Date:     date,
		Stage:    req.Stage,
		Priority: req.Priority,
		Team:     team,
		Assets:   req.Assets,
	})
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondMessage(w, http.StatusCreated, "Task created successfully.", map[string]any{"task": task})
}

// UpdateTask handles PUT /api/tasks/{id}. Absent fields keep their values.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFrom(r.Context())

	id, err := pathTaskID(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	payload := service.UpdatePayload{
		Title:    req.Title,
		Stage:    req.Stage,
		Priority: req.Priority,
		Assets:   req.Assets,
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			respondError(w, r, h.logger, err)
			return
		}
		payload.Date = &date
	}
	if req.Team != nil {
		team, err := parseTeam(*req.Team)
		if err != nil {
			respondError(w, r, h.logger, err)
			return
		}
		payload.Team = &team
	}

	task, err := h.taskService.Update(r.Context(), actor, id, payload)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondMessage(w, http.StatusOK, "Task updated successfully.", map[string]any{"task": task})
}

// ListTasks handles GET /api/tasks?stage=&search=&isTrashed=.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFrom(r.Context())

	q := service.ListQuery{
		Stage:   r.URL.Query().Get("stage"),
		Search:  r.URL.Query().Get("search"),
		Trashed: r.URL.Query().Get("isTrashed") == "true",
	}
	tasks, err := h.taskService.List(r.Context(), actor, q)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	if tasks == nil {
		tasks = []*models.Task{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"status": true, "tasks": tasks})
}

// GetTask handles GET /api/tasks/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFrom(r.Context())

	id, err := pathTaskID(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	task, err := h.taskService.Get(r.Context(), actor, id)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"status": true, "task": task})
}

// TrashTask handles PUT /api/tasks/{id}/trash.
func (h *TaskHandler) TrashTask(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.taskService.Trash, "Task moved to trash.")
}

// RestoreTask handles PUT /api/tasks/{id}/restore.
func (h *TaskHandler) RestoreTask(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.taskService.Restore, "Task restored from trash.")
}

// DuplicateTask handles POST /api/tasks/{id}/duplicate.
func (h *TaskHandler) DuplicateTask(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.taskService.Duplicate, "Task duplicated successfully.")
}

func (h *TaskHandler) lifecycle(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, actor *models.User, id primitive.ObjectID) (*models.Task, error),
	message string,
) {
	actor, _ := middleware.UserFrom(r.Context())

	id, err := pathTaskID(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	task, err := op(r.Context(), actor, id)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondMessage(w, http.StatusOK, message, map[string]any{"task": task})
}

// DeleteTask handles DELETE /api/tasks/{id} (hard delete, from trash view).
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFrom(r.Context())

	id, err := pathTaskID(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	if err := h.taskService.HardDelete(r.Context(), actor, id); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondMessage(w, http.StatusOK, "Task deleted permanently.", nil)
}

// PostActivity handles POST /api/tasks/{id}/activity.
func (h *TaskHandler) PostActivity(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFrom(r.Context())

	id, err := pathTaskID(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	var req activityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	task, err := h.taskService.AddActivity(r.Context(), actor, id, req.Type, req.Activity)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondMessage(w, http.StatusOK, "Activity posted successfully.", map[string]any{"task": task})
}

// Dashboard handles GET /api/tasks/dashboard.
func (h *TaskHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFrom(r.Context())

	stats, err := h.taskService.Dashboard(r.Context(), actor)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"status": true, "stats": stats})
}
