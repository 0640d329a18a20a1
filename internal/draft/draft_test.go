package draft

import (
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sobran5883/tasks-management-dashboard/internal/models"
)

func TestNewDraft_Defaults(t *testing.T) {
	d := NewDraft()
	if d.Stage != models.StageTodo {
		t.Errorf("default stage = %s, want TODO", d.Stage)
	}
	if d.Priority != models.PriorityNormal {
		t.Errorf("default priority = %s, want NORMAL", d.Priority)
	}
}

func TestDraftOf_Prepopulates(t *testing.T) {
	member := primitive.NewObjectID()
	task := &models.Task{
		ID:       primitive.NewObjectID(),
		Title:    "Ship v2",
		Date:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Stage:    models.StageInProgress,
		Priority: models.PriorityHigh,
		Team:     []primitive.ObjectID{member},
		Assets:   []string{"https://store.example/old.png"},
	}

	d := DraftOf(task)
	if d.Title != "Ship v2" || d.Stage != models.StageInProgress || d.Priority != models.PriorityHigh {
		t.Fatalf("draft fields not pre-populated: %+v", d)
	}
	if len(d.Team) != 1 || d.Team[0] != member {
		t.Fatalf("team not pre-populated: %v", d.Team)
	}
}

func TestValidate_RequiredFields(t *testing.T) {
	d := NewDraft()
	err := d.Validate()
	if err == nil {
		t.Fatal("expected validation errors for empty draft")
	}
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("error does not unwrap to ErrValidation: %v", err)
	}

	d.Title = "Ship v2"
	if err := d.Validate(); err == nil {
		t.Fatal("expected validation error for missing date")
	}
	d.Date = time.Now()
	if err := d.Validate(); err != nil {
		t.Fatalf("valid draft rejected: %v", err)
	}
}

func TestCompose_CreateSubmission(t *testing.T) {
	d := NewDraft()
	d.Title = "Ship v2"
	d.Date = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	sub, err := d.Compose([]string{"https://store.example/new.png"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	create, ok := sub.(CreateSubmission)
	if !ok {
		t.Fatalf("submission is %T, want CreateSubmission", sub)
	}
	if create.Payload.Stage != "TODO" || create.Payload.Priority != "NORMAL" {
		t.Errorf("defaults not carried: stage=%s priority=%s", create.Payload.Stage, create.Payload.Priority)
	}
	if len(create.Payload.Assets) != 1 || create.Payload.Assets[0] != "https://store.example/new.png" {
		t.Errorf("assets = %v", create.Payload.Assets)
	}
}

func TestCompose_UpdateMergesAssetsInOrder(t *testing.T) {
	task := &models.Task{
		ID:     primitive.NewObjectID(),
		Title:  "Ship v2",
		Date:   time.Now(),
		Stage:  models.StageTodo,
		Assets: []string{"existing-1", "existing-2"},
	}
	d := DraftOf(task)

	sub, err := d.Compose([]string{"new-1", "new-2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	update, ok := sub.(UpdateSubmission)
	if !ok {
		t.Fatalf("submission is %T, want UpdateSubmission", sub)
	}
	if update.ID != task.ID {
		t.Errorf("update id = %s, want %s", update.ID.Hex(), task.ID.Hex())
	}

	got := *update.Payload.Assets
	want := []string{"existing-1", "existing-2", "new-1", "new-2"}
	if len(got) != len(want) {
		t.Fatalf("assets = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("assets[%d] = %s, want %s (order must be preserved)", i, got[i], want[i])
		}
	}
}

func TestCompose_EmptyTeamClearsAssignment(t *testing.T) {
	task := &models.Task{
		ID:    primitive.NewObjectID(),
		Title: "Ship v2",
		Date:  time.Now(),
		Stage: models.StageTodo,
		Team:  []primitive.ObjectID{primitive.NewObjectID()},
	}
	d := DraftOf(task)
	d.Team = nil

	sub, err := d.Compose(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	update := sub.(UpdateSubmission)
	if update.Payload.Team == nil {
		t.Fatal("team field must be present (set) on an edit, even when empty")
	}
	if len(*update.Payload.Team) != 0 {
		t.Fatalf("team = %v, want empty", *update.Payload.Team)
	}
}

func TestCompose_InvalidDraftNeverSubmits(t *testing.T) {
	d := NewDraft()
	if _, err := d.Compose(nil); err == nil {
		t.Fatal("expected composition of an invalid draft to fail")
	}
}
