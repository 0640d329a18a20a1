package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/sobran5883/tasks-management-dashboard/internal/middleware"
	"github.com/sobran5883/tasks-management-dashboard/internal/models"
	"github.com/sobran5883/tasks-management-dashboard/internal/service"
)

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondMessage(w http.ResponseWriter, status int, message string, extra map[string]any) {
	body := map[string]any{"status": status < 400, "message": message}
	for k, v := range extra {
		body[k] = v
	}
	respondJSON(w, status, body)
}

// respondError maps the service error taxonomy onto HTTP statuses. Internal
// detail stays in the log; the client gets a generic message for 500s.
func respondError(w http.ResponseWriter, r *http.Request, logger *logrus.Logger, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		respondMessage(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		respondMessage(w, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, models.ErrForbidden):
		respondMessage(w, http.StatusForbidden, err.Error(), nil)
	case errors.Is(err, models.ErrNotFound):
		respondMessage(w, http.StatusNotFound, "task or resource not found", nil)
	default:
		logger.WithFields(logrus.Fields{
			"request_id": middleware.GetRequestID(r.Context()),
			"path":       r.URL.Path,
		}).WithError(err).Error("request failed")
		respondMessage(w, http.StatusInternalServerError, "something went wrong, try again later", nil)
	}
}
