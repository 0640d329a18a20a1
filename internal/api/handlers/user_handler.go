package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sobran5883/tasks-management-dashboard/internal/auth"
	"github.com/sobran5883/tasks-management-dashboard/internal/middleware"
	"github.com/sobran5883/tasks-management-dashboard/internal/models"
	"github.com/sobran5883/tasks-management-dashboard/internal/service"
)

type UserHandler struct {
	userService *service.UserService
	jwtSecret   string
	logger      *logrus.Logger
}

func NewUserHandler(userService *service.UserService, jwtSecret string, logger *logrus.Logger) *UserHandler {
	return &UserHandler{userService: userService, jwtSecret: jwtSecret, logger: logger}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Title    string `json:"title"`
	Role     string `json:"role"`
	IsAdmin  bool   `json:"isAdmin"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/user/register. The bootstrap account registers
// itself and gets a session cookie; admins adding team members keep their
// own session.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFrom(r.Context())

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	user, err := h.userService.Register(r.Context(), actor, service.RegisterPayload{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Title:    req.Title,
		Role:     req.Role,
		IsAdmin:  req.IsAdmin,
	})
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	if actor == nil {
		token, err := auth.CreateToken(h.jwtSecret, user.ID)
		if err != nil {
			respondError(w, r, h.logger, err)
			return
		}
		auth.SetCookie(w, token)
	}
	respondJSON(w, http.StatusCreated, user)
}

type updateProfileRequest struct {
	Name  *string `json:"name,omitempty"`
	Title *string `json:"title,omitempty"`
	Role  *string `json:"role,omitempty"`
}

// UpdateProfile handles PUT /api/user/{id}.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFrom(r.Context())

	id, err := primitive.ObjectIDFromHex(r.PathValue("id"))
	if err != nil {
		respondError(w, r, h.logger, fmt.Errorf("%w: invalid user id", models.ErrNotFound))
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), actor, id, service.ProfilePayload{
		Name:  req.Name,
		Title: req.Title,
		Role:  req.Role,
	})
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status": true, "message": "Profile updated successfully.", "user": user,
	})
}

// Login handles POST /api/user/login.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	user, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	token, err := auth.CreateToken(h.jwtSecret, user.ID)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	auth.SetCookie(w, token)
	respondJSON(w, http.StatusOK, user)
}

// Logout handles POST /api/user/logout.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearCookie(w)
	respondMessage(w, http.StatusOK, "Logged out successfully.", nil)
}

// Team handles GET /api/user/team.
func (h *UserHandler) Team(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.Team(r.Context())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"status": true, "users": users})
}
