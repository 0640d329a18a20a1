package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sobran5883/tasks-management-dashboard/internal/models"
	"github.com/sobran5883/tasks-management-dashboard/internal/repository"
)

// CreatePayload carries the fields of a new task. Stage and priority are
// raw strings normalized case-insensitively; empty means the default.
type CreatePayload struct {
	Title    string
	Date     time.Time
	Stage    string
	Priority string
	Team     []primitive.ObjectID
	Assets   []string
}

// UpdatePayload carries a partial update. Nil fields keep their persisted
// value; they are never reset to a default.
type UpdatePayload struct {
	Title    *string
	Date     *time.Time
	Stage    *string
	Priority *string
	Team     *[]primitive.ObjectID
	Assets   *[]string
}

// ListQuery narrows the task list. Stage and Search are optional; Trashed
// requests the trash view, which only admins may see.
type ListQuery struct {
	Stage   string
	Search  string
	Trashed bool
}

type TaskService struct {
	tasks  repository.TaskRepository
	users  repository.UserRepository
	logger *logrus.Logger
}

func NewTaskService(tasks repository.TaskRepository, users repository.UserRepository, logger *logrus.Logger) *TaskService {
	return &TaskService{tasks: tasks, users: users, logger: logger}
}

// Create persists a new task. Admin-only: members cannot create tasks. An
// initial "assigned" activity naming the creator is embedded in the same
// document write.
func (s *TaskService) Create(ctx context.Context, actor *models.User, p CreatePayload) (*models.Task, error) {
	if !actor.IsAdmin {
		return nil, fmt.Errorf("%w: only admins can create tasks", models.ErrForbidden)
	}
	if p.Title == "" {
		return nil, &models.FieldError{Field: "title", Msg: "title is required"}
	}
	if p.Date.IsZero() {
		return nil, &models.FieldError{Field: "date", Msg: "date is required"}
	}

	stage := models.StageTodo
	if p.Stage != "" {
		var err error
		if stage, err = models.ParseStage(p.Stage); err != nil {
			return nil, err
		}
	}
	priority := models.PriorityNormal
	if p.Priority != "" {
		var err error
		if priority, err = models.ParsePriority(p.Priority); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	task := &models.Task{
		Title:    p.Title,
		Date:     p.Date,
		Stage:    stage,
		Priority: priority,
		Assets:   append([]string{}, p.Assets...),
		Team:     append([]primitive.ObjectID{}, p.Team...),
		Activities: []models.Activity{{
			Type: models.ActivityAssigned,
			Activity: fmt.Sprintf("New task has been assigned to %d team member(s) by %s.",
				len(p.Team), actor.Name),
			Date: now,
			By:   actor.ID,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"component": "task_service",
		"task_id":   task.ID.Hex(),
		"actor":     actor.ID.Hex(),
	}).Info("task created")
	s.resolveTeam(ctx, task)
	return task, nil
}

// Update merges the present fields of the payload into the stored task and
// replaces the document in one write. Absent fields are untouched. A stage
// change appends exactly one activity entry; resubmitting the same stage
// appends none. Concurrent updates are last-writer-wins at document
// granularity.
func (s *TaskService) Update(ctx context.Context, actor *models.User, id primitive.ObjectID, p UpdatePayload) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin && !task.AssignedTo(actor.ID) {
		return nil, fmt.Errorf("%w: task is not assigned to you", models.ErrForbidden)
	}

	now := time.Now()
	if p.Title != nil {
		task.Title = *p.Title
	}
	if p.Date != nil {
		task.Date = *p.Date
	}
	if p.Priority != nil {
		priority, err := models.ParsePriority(*p.Priority)
		if err != nil {
			return nil, err
		}
		task.Priority = priority
	}
	if p.Team != nil {
		task.Team = append([]primitive.ObjectID{}, (*p.Team)...)
	}
	if p.Assets != nil {
		task.Assets = append([]string{}, (*p.Assets)...)
	}
	if p.Stage != nil {
		stage, err := models.ParseStage(*p.Stage)
		if err != nil {
			return nil, err
		}
		if stage != task.Stage {
			task.Activities = append(task.Activities, models.Activity{
				Type:     activityForStage(stage),
				Activity: fmt.Sprintf("Task stage changed from %s to %s by %s.", task.Stage, stage, actor.Name),
				Date:     now,
				By:       actor.ID,
			})
			task.Stage = stage
		}
	}
	task.UpdatedAt = now

	if err := s.tasks.Replace(ctx, task); err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"component": "task_service",
		"task_id":   task.ID.Hex(),
		"actor":     actor.ID.Hex(),
	}).Info("task updated")
	s.resolveTeam(ctx, task)
	return task, nil
}

// List returns the tasks visible to the actor. Admins see everything in the
// requested view; members only see non-trashed tasks they are assigned to.
// The trash view is admin-only.
func (s *TaskService) List(ctx context.Context, actor *models.User, q ListQuery) ([]*models.Task, error) {
	filter := repository.TaskFilter{Search: q.Search, Trashed: q.Trashed}
	if q.Stage != "" {
		stage, err := models.ParseStage(q.Stage)
		if err != nil {
			return nil, err
		}
		filter.Stage = &stage
	}
	if !actor.IsAdmin {
		if q.Trashed {
			return nil, fmt.Errorf("%w: trash view is admin-only", models.ErrForbidden)
		}
		member := actor.ID
		filter.TeamMember = &member
	}
	tasks, err := s.tasks.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	s.resolveTeam(ctx, tasks...)
	return tasks, nil
}

// Get returns one task if the actor may see it.
func (s *TaskService) Get(ctx context.Context, actor *models.User, id primitive.ObjectID) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin {
		if task.IsTrashed || !task.AssignedTo(actor.ID) {
			return nil, fmt.Errorf("%w: task is not visible to you", models.ErrForbidden)
		}
	}
	s.resolveTeam(ctx, task)
	return task, nil
}

// Trash soft-deletes a task. Admin-only.
func (s *TaskService) Trash(ctx context.Context, actor *models.User, id primitive.ObjectID) (*models.Task, error) {
	return s.setTrashed(ctx, actor, id, true)
}

// Restore brings a task back from the trash. Admin-only.
func (s *TaskService) Restore(ctx context.Context, actor *models.User, id primitive.ObjectID) (*models.Task, error) {
	return s.setTrashed(ctx, actor, id, false)
}

func (s *TaskService) setTrashed(ctx context.Context, actor *models.User, id primitive.ObjectID, trashed bool) (*models.Task, error) {
	if !actor.IsAdmin {
		return nil, fmt.Errorf("%w: admin-only operation", models.ErrForbidden)
	}
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	task.IsTrashed = trashed
	task.UpdatedAt = time.Now()
	if err := s.tasks.Replace(ctx, task); err != nil {
		return nil, err
	}
	s.resolveTeam(ctx, task)
	return task, nil
}

// Duplicate copies a task into a fresh document with its own activity log.
// Admin-only.
func (s *TaskService) Duplicate(ctx context.Context, actor *models.User, id primitive.ObjectID) (*models.Task, error) {
	if !actor.IsAdmin {
		return nil, fmt.Errorf("%w: admin-only operation", models.ErrForbidden)
	}
	src, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	dup := &models.Task{
		Title:    src.Title + " - Duplicate",
		Date:     src.Date,
		Stage:    src.Stage,
		Priority: src.Priority,
		Assets:   append([]string{}, src.Assets...),
		Team:     append([]primitive.ObjectID{}, src.Team...),
		Activities: []models.Activity{{
			Type: models.ActivityAssigned,
			Activity: fmt.Sprintf("New task has been assigned to %d team member(s) by %s.",
				len(src.Team), actor.Name),
			Date: now,
			By:   actor.ID,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.tasks.Create(ctx, dup); err != nil {
		return nil, err
	}
	s.resolveTeam(ctx, dup)
	return dup, nil
}

// HardDelete removes a task permanently. Admin-only; normally reached from
// the trash view.
func (s *TaskService) HardDelete(ctx context.Context, actor *models.User, id primitive.ObjectID) error {
	if !actor.IsAdmin {
		return fmt.Errorf("%w: admin-only operation", models.ErrForbidden)
	}
	return s.tasks.Delete(ctx, id)
}

// AddActivity appends a comment or progress note to the task's activity
// log. The actor must be an admin or assigned to the task.
func (s *TaskService) AddActivity(ctx context.Context, actor *models.User, id primitive.ObjectID, typ, note string) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin && !task.AssignedTo(actor.ID) {
		return nil, fmt.Errorf("%w: task is not assigned to you", models.ErrForbidden)
	}

	actType := models.ActivityCommented
	if typ != "" {
		if actType, err = models.ParseActivityType(typ); err != nil {
			return nil, err
		}
	}
	if note == "" {
		return nil, &models.FieldError{Field: "activity", Msg: "activity text is required"}
	}

	task.Activities = append(task.Activities, models.Activity{
		Type:     actType,
		Activity: note,
		Date:     time.Now(),
		By:       actor.ID,
	})
	task.UpdatedAt = time.Now()
	if err := s.tasks.Replace(ctx, task); err != nil {
		return nil, err
	}
	s.resolveTeam(ctx, task)
	return task, nil
}

// DashboardStats summarizes the tasks visible to the actor.
type DashboardStats struct {
	Total      int                     `json:"totalTasks"`
	ByStage    map[models.Stage]int    `json:"tasks"`
	ByPriority map[models.Priority]int `json:"graphData"`
	Last       []*models.Task          `json:"last10Tasks"`
}

// Dashboard aggregates stage and priority counts plus the ten most recent
// tasks, scoped by the same visibility rule as List.
func (s *TaskService) Dashboard(ctx context.Context, actor *models.User) (*DashboardStats, error) {
	tasks, err := s.List(ctx, actor, ListQuery{})
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		Total:      len(tasks),
		ByStage:    make(map[models.Stage]int),
		ByPriority: make(map[models.Priority]int),
	}
	for _, t := range tasks {
		stats.ByStage[t.Stage]++
		stats.ByPriority[t.Priority]++
	}
	if len(tasks) > 10 {
		stats.Last = tasks[:10]
	} else {
		stats.Last = tasks
	}
	return stats, nil
}

// resolveTeam loads the user documents behind each task's team refs for the
// response. Dangling refs are omitted rather than failing the request.
func (s *TaskService) resolveTeam(ctx context.Context, tasks ...*models.Task) {
	for _, t := range tasks {
		t.TeamMembers = make([]*models.User, 0, len(t.Team))
		for _, id := range t.Team {
			if u, err := s.users.GetByID(ctx, id); err == nil {
				t.TeamMembers = append(t.TeamMembers, u)
			}
		}
	}
}

func activityForStage(s models.Stage) models.ActivityType {
	switch s {
	case models.StageInProgress:
		return models.ActivityInProgress
	case models.StageCompleted:
		return models.ActivityCompleted
	default:
		return models.ActivityStarted
	}
}
