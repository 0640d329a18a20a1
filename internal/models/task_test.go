package models

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseStage(t *testing.T) {
	cases := []struct {
		in      string
		want    Stage
		wantErr bool
	}{
		{"todo", StageTodo, false},
		{"TODO", StageTodo, false},
		{"  In Progress ", StageInProgress, false},
		{"completed", StageCompleted, false},
		{"done", "", true},
		{"", "", true},
	}
	for _, tc := range cases {
		got, err := ParseStage(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseStage(%q): expected error", tc.in)
				continue
			}
			var enumErr *InvalidEnumError
			if !errors.As(err, &enumErr) {
				t.Errorf("ParseStage(%q): error %v is not InvalidEnumError", tc.in, err)
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("ParseStage(%q): error does not unwrap to ErrValidation", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseStage(%q): unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseStage(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParsePriority(t *testing.T) {
	cases := []struct {
		in      string
		want    Priority
		wantErr bool
	}{
		{"high", PriorityHigh, false},
		{"Medium", PriorityMedium, false},
		{"NORMAL", PriorityNormal, false},
		{"low", PriorityLow, false},
		{"urgent", "", true},
	}
	for _, tc := range cases {
		got, err := ParsePriority(tc.in)
		if tc.wantErr != (err != nil) {
			t.Errorf("ParsePriority(%q): err = %v, wantErr = %v", tc.in, err, tc.wantErr)
			continue
		}
		if err == nil && got != tc.want {
			t.Errorf("ParsePriority(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTaskAssignedTo(t *testing.T) {
	u1 := primitive.NewObjectID()
	u2 := primitive.NewObjectID()
	task := &Task{Team: []primitive.ObjectID{u1}}

	if !task.AssignedTo(u1) {
		t.Error("expected u1 to be assigned")
	}
	if task.AssignedTo(u2) {
		t.Error("expected u2 not to be assigned")
	}
}

func TestTaskClone_Independent(t *testing.T) {
	task := &Task{
		Title:      "original",
		Assets:     []string{"a"},
		Team:       []primitive.ObjectID{primitive.NewObjectID()},
		Activities: []Activity{{Type: ActivityAssigned}},
	}
	cp := task.Clone()
	cp.Assets[0] = "b"
	cp.Activities = append(cp.Activities, Activity{Type: ActivityCommented})

	if task.Assets[0] != "a" {
		t.Error("clone shares assets backing array")
	}
	if len(task.Activities) != 1 {
		t.Error("clone shares activities backing array")
	}
}
