package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sobran5883/tasks-management-dashboard/internal/models"
)

// TaskFilter narrows List results. Zero value lists every non-trashed task.
type TaskFilter struct {
	Stage   *models.Stage
	Search  string
	Trashed bool
	// TeamMember, when set, restricts results to tasks assigned to that user.
	TeamMember *primitive.ObjectID
}

type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]*models.Task, error)
	// Replace overwrites the whole task document. Last writer wins.
	Replace(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
}
