package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/sobran5883/tasks-management-dashboard/internal/models"
	"github.com/sobran5883/tasks-management-dashboard/internal/repository"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type RegisterPayload struct {
	Name     string
	Email    string
	Password string
	Title    string
	Role     string
	IsAdmin  bool
}

type UserService struct {
	users  repository.UserRepository
	logger *logrus.Logger
}

func NewUserService(users repository.UserRepository, logger *logrus.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// Register creates a user with a bcrypt-hashed password. Email must be
// unused. The very first account may be created without a session and
// becomes an admin; every later account requires an admin caller.
func (s *UserService) Register(ctx context.Context, actor *models.User, p RegisterPayload) (*models.User, error) {
	existing, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		p.IsAdmin = true
	} else if actor == nil || !actor.IsAdmin {
		return nil, fmt.Errorf("%w: only admins may add team members", models.ErrForbidden)
	}

	if p.Name == "" {
		return nil, &models.FieldError{Field: "name", Msg: "name is required"}
	}
	if p.Email == "" {
		return nil, &models.FieldError{Field: "email", Msg: "email is required"}
	}
	if p.Password == "" {
		return nil, &models.FieldError{Field: "password", Msg: "password is required"}
	}

	if _, err := s.users.GetByEmail(ctx, p.Email); err == nil {
		return nil, &models.FieldError{Field: "email", Msg: "email already in use"}
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:     p.Name,
		Email:    p.Email,
		Title:    p.Title,
		Role:     p.Role,
		IsAdmin:  p.IsAdmin,
		IsActive: true,
		Password: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"component": "user_service",
		"user_id":   user.ID.Hex(),
	}).Info("user registered")
	return user, nil
}

// Login verifies credentials. Disabled accounts are rejected even with a
// correct password.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: account has been deactivated, contact an administrator", models.ErrForbidden)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// ProfilePayload edits a user's display fields. A nil field keeps its
// current value.
type ProfilePayload struct {
	Name  *string
	Title *string
	Role  *string
}

// UpdateProfile edits a profile. Members may only edit their own; admins
// may edit anyone's.
func (s *UserService) UpdateProfile(ctx context.Context, actor *models.User, id primitive.ObjectID, p ProfilePayload) (*models.User, error) {
	if !actor.IsAdmin && actor.ID != id {
		return nil, fmt.Errorf("%w: only admins may edit other profiles", models.ErrForbidden)
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Name != nil {
		if *p.Name == "" {
			return nil, &models.FieldError{Field: "name", Msg: "name cannot be empty"}
		}
		user.Name = *p.Name
	}
	if p.Title != nil {
		user.Title = *p.Title
	}
	if p.Role != nil {
		user.Role = *p.Role
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"component": "user_service",
		"user_id":   user.ID.Hex(),
		"actor_id":  actor.ID.Hex(),
	}).Info("profile updated")
	return user, nil
}

// Team lists every user for the assignment picker.
func (s *UserService) Team(ctx context.Context) ([]*models.User, error) {
	return s.users.List(ctx)
}
