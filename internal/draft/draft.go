// Package draft assembles an in-progress task form into a submission for
// the mutation endpoint.
package draft

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sobran5883/tasks-management-dashboard/internal/models"
	"github.com/sobran5883/tasks-management-dashboard/internal/service"
)

// Submission is the composed payload: either a create of a new task or a
// partial update of an existing one. The two cases are distinct types, not
// inferred from the presence of an identifier.
type Submission interface {
	submission()
}

type CreateSubmission struct {
	Payload service.CreatePayload
}

type UpdateSubmission struct {
	ID      primitive.ObjectID
	Payload service.UpdatePayload
}

func (CreateSubmission) submission() {}
func (UpdateSubmission) submission() {}

// Draft holds form state for one task being composed. Title and date are
// required; team, stage, priority and assets are optional.
type Draft struct {
	Title    string
	Date     time.Time
	Team     []primitive.ObjectID
	Stage    models.Stage
	Priority models.Priority

	taskID         primitive.ObjectID
	editing        bool
	existingAssets []string
}

// NewDraft starts a draft for a brand-new task with the default stage and
// priority.
func NewDraft() *Draft {
	return &Draft{
		Stage:    models.StageTodo,
		Priority: models.PriorityNormal,
	}
}

// DraftOf starts a draft pre-populated from an existing task. Clearing the
// team selection is allowed and clears the assignment on submission.
func DraftOf(task *models.Task) *Draft {
	return &Draft{
		Title:          task.Title,
		Date:           task.Date,
		Team:           append([]primitive.ObjectID(nil), task.Team...),
		Stage:          task.Stage,
		Priority:       task.Priority,
		taskID:         task.ID,
		editing:        true,
		existingAssets: append([]string(nil), task.Assets...),
	}
}

// Validate reports per-field errors for the required fields.
func (d *Draft) Validate() error {
	var errs []error
	if d.Title == "" {
		errs = append(errs, &models.FieldError{Field: "title", Msg: "title is required"})
	}
	if d.Date.IsZero() {
		errs = append(errs, &models.FieldError{Field: "date", Msg: "date is required"})
	}
	return errors.Join(errs...)
}

// Compose validates the draft and merges freshly uploaded asset URLs after
// the task's pre-existing ones, in order and without deduplication. The
// uploaded list is scoped to this submission and passed in by the caller.
func (d *Draft) Compose(uploaded []string) (Submission, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	assets := make([]string, 0, len(d.existingAssets)+len(uploaded))
	assets = append(assets, d.existingAssets...)
	assets = append(assets, uploaded...)

	if !d.editing {
		return CreateSubmission{Payload: service.CreatePayload{
			Title:    d.Title,
			Date:     d.Date,
			Stage:    string(d.Stage),
			Priority: string(d.Priority),
			Team:     d.Team,
			Assets:   assets,
		}}, nil
	}

	title := d.Title
	date := d.Date
	stage := string(d.Stage)
	priority := string(d.Priority)
	team := append([]primitive.ObjectID(nil), d.Team...)
	return UpdateSubmission{
		ID: d.taskID,
		Payload: service.UpdatePayload{
			Title:    &title,
			Date:     &date,
			Stage:    &stage,
			Priority: &priority,
			Team:     &team,
			Assets:   &assets,
		},
	}, nil
}
