package services

import (
	"campusjobs_backend/internal/email"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	UserService         UserService
	AuthService         AuthService
	ProfileService      ProfileService
	JobService          JobService
	ApplicationService  ApplicationService
	PostService         PostService
	NotificationService NotificationService
	UploadService       UploadService
	EmailService        email.Provider
}
