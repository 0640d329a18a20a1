package api

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/sobran5883/tasks-management-dashboard/internal/api/handlers"
	"github.com/sobran5883/tasks-management-dashboard/internal/client/storage"
	"github.com/sobran5883/tasks-management-dashboard/internal/middleware"
	"github.com/sobran5883/tasks-management-dashboard/internal/repository"
	"github.com/sobran5883/tasks-management-dashboard/internal/service"
)

// SetupRouter wires repositories, services and handlers into the HTTP
// surface. All /api routes except login sit behind the session cookie
// middleware; register accepts an anonymous caller only for the bootstrap
// account. A nil store disables asset uploads.
func SetupRouter(
	taskRepo repository.TaskRepository,
	userRepo repository.UserRepository,
	store storage.Uploader,
	jwtSecret string,
	logger *logrus.Logger,
) http.Handler {
	taskService := service.NewTaskService(taskRepo, userRepo, logger)
	userService := service.NewUserService(userRepo, logger)

	taskHandler := handlers.NewTaskHandler(taskService, logger)
	userHandler := handlers.NewUserHandler(userService, jwtSecret, logger)
	assetHandler := handlers.NewAssetHandler(store, logger)

	authed := middleware.Auth(jwtSecret, userRepo, logger)
	protect := func(h http.HandlerFunc) http.Handler { return authed(h) }
	identify := middleware.Identify(jwtSecret, userRepo)

	mux := http.NewServeMux()

	mux.Handle("POST /api/user/register", identify(http.HandlerFunc(userHandler.Register)))
	mux.HandleFunc("POST /api/user/login", userHandler.Login)
	mux.HandleFunc("POST /api/user/logout", userHandler.Logout)
	mux.Handle("GET /api/user/team", protect(userHandler.Team))
	mux.Handle("PUT /api/user/{id}", protect(userHandler.UpdateProfile))

	mux.Handle("POST /api/assets", protect(assetHandler.UploadAssets))

	mux.Handle("POST /api/tasks", protect(taskHandler.CreateTask))
	mux.Handle("GET /api/tasks", protect(taskHandler.ListTasks))
	mux.Handle("GET /api/tasks/dashboard", protect(taskHandler.Dashboard))
	mux.Handle("GET /api/tasks/{id}", protect(taskHandler.GetTask))
	mux.Handle("PUT /api/tasks/{id}", protect(taskHandler.UpdateTask))
	mux.Handle("PUT /api/tasks/{id}/trash", protect(taskHandler.TrashTask))
	mux.Handle("PUT /api/tasks/{id}/restore", protect(taskHandler.RestoreTask))
	mux.Handle("POST /api/tasks/{id}/duplicate", protect(taskHandler.DuplicateTask))
	mux.Handle("POST /api/tasks/{id}/activity", protect(taskHandler.PostActivity))
	mux.Handle("DELETE /api/tasks/{id}", protect(taskHandler.DeleteTask))

	mux.Handle("GET /metrics", middleware.MetricsHandler())

	handler := middleware.SecurityHeaders(mux)
	handler = middleware.Metrics(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.RequestID(handler)
	return handler
}
