package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Stage is the lifecycle bucket of a task.
type Stage string

const (
	StageTodo       Stage = "TODO"
	StageInProgress Stage = "IN PROGRESS"
	StageCompleted  Stage = "COMPLETED"
)

// Priority is the urgency tag of a task.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityNormal Priority = "NORMAL"
	PriorityLow    Priority = "LOW"
)

// ParseStage normalizes case-insensitive input to a Stage.
func ParseStage(s string) (Stage, error) {
	switch Stage(strings.ToUpper(strings.TrimSpace(s))) {
	case StageTodo:
		return StageTodo, nil
	case StageInProgress:
		return StageInProgress, nil
	case StageCompleted:
		return StageCompleted, nil
	}
	return "", &InvalidEnumError{Field: "stage", Value: s}
}

// ParsePriority normalizes case-insensitive input to a Priority.
func ParsePriority(s string) (Priority, error) {
	switch Priority(strings.ToUpper(strings.TrimSpace(s))) {
	case PriorityHigh:
		return PriorityHigh, nil
	case PriorityMedium:
		return PriorityMedium, nil
	case PriorityNormal:
		return PriorityNormal, nil
	case PriorityLow:
		return PriorityLow, nil
	}
	return "", &InvalidEnumError{Field: "priority", Value: s}
}

// ActivityType classifies an activity entry on a task.
type ActivityType string

const (
	ActivityAssigned   ActivityType = "assigned"
	ActivityStarted    ActivityType = "started"
	ActivityInProgress ActivityType = "in progress"
	ActivityCompleted  ActivityType = "completed"
	ActivityCommented  ActivityType = "commented"
)

// ParseActivityType normalizes case-insensitive input to an ActivityType.
func ParseActivityType(s string) (ActivityType, error) {
	switch ActivityType(strings.ToLower(strings.TrimSpace(s))) {
	case ActivityAssigned:
		return ActivityAssigned, nil
	case ActivityStarted:
		return ActivityStarted, nil
	case ActivityInProgress:
		return ActivityInProgress, nil
	case ActivityCompleted:
		return ActivityCompleted, nil
	case ActivityCommented:
		return ActivityCommented, nil
	}
	return "", &InvalidEnumError{Field: "type", Value: s}
}

// Activity is one append-only audit entry embedded in a task document.
type Activity struct {
	Type     ActivityType       `bson:"type" json:"type"`
	Activity string             `bson:"activity" json:"activity"`
	Date     time.Time          `bson:"date" json:"date"`
	By       primitive.ObjectID `bson:"by" json:"by"`
}

// Task is the persisted task document. Team refs, asset URLs and the
// activity log are embedded so every mutation is a single-document write.
type Task struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Title      string               `bson:"title" json:"title"`
	Date       time.Time            `bson:"date" json:"date"`
	Stage      Stage                `bson:"stage" json:"stage"`
	Priority   Priority             `bson:"priority" json:"priority"`
	Assets     []string             `bson:"assets" json:"assets"`
	Team       []primitive.ObjectID `bson:"team" json:"team"`
	IsTrashed  bool                 `bson:"isTrashed" json:"isTrashed"`
	Activities []Activity           `bson:"activities" json:"activities"`
	CreatedAt  time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time            `bson:"updatedAt" json:"updatedAt"`

	// TeamMembers carries the resolved user documents for Team in API
	// responses. Never persisted.
	TeamMembers []*User `bson:"-" json:"teamMembers,omitempty"`
}

// AssignedTo reports whether the given user appears in the task's team.
func (t *Task) AssignedTo(userID primitive.ObjectID) bool {
	for _, m := range t.Team {
		if m == userID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	cp := *t
	cp.Assets = append([]string(nil), t.Assets...)
	cp.Team = append([]primitive.ObjectID(nil), t.Team...)
	cp.Activities = append([]Activity(nil), t.Activities...)
	return &cp
}
