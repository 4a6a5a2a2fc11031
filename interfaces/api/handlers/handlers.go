package handlers

import (
	"taskboard/domain/services"
)

// Services bundles everything the handlers need.
type Services struct {
	AuthService         services.AuthService
	UserService         services.UserService
	ProjectService      services.ProjectService
	TaskService         services.TaskService
	NotificationService services.NotificationService
	JWTSecret           string
	MaxUploadSize       int64
}

// Handlers contains all HTTP handlers.
type Handlers struct {
	AuthHandler         *AuthHandler
	UserHandler         *UserHandler
	ProjectHandler      *ProjectHandler
	TaskHandler         *TaskHandler
	NotificationHandler *NotificationHandler
	JWTSecret           string
}

func NewHandlers(s *Services) *Handlers {
	return &Handlers{
		AuthHandler:         NewAuthHandler(s.AuthService),
		UserHandler:         NewUserHandler(s.UserService),
		ProjectHandler:      NewProjectHandler(s.ProjectService),
		TaskHandler:         NewTaskHandler(s.TaskService, s.MaxUploadSize),
		NotificationHandler: NewNotificationHandler(s.NotificationService),
		JWTSecret:           s.JWTSecret,
	}
}
