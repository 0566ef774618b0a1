package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	UserHandler         *UserHandler
	ProfileHandler      *ProfileHandler
	JobHandler          *JobHandler
	ApplicationHandler  *ApplicationHandler
	PostHandler         *PostHandler
	NotificationHandler *NotificationHandler
	FileHandler         *FileHandler
}
