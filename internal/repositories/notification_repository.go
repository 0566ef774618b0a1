package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"campusjobs_backend/internal/models"
)

var (
	ErrNotificationNotFound    = errors.New("notification not found")
	ErrInvalidNotificationData = errors.New("invalid notification data")
)

// NotificationCriteria - фильтры списка уведомлений пользователя
type NotificationCriteria struct {
	UnreadOnly bool
	Type       models.NotificationType
}

type NotificationRepository interface {
	CreateNotification(db *gorm.DB, notification *models.Notification) error
	FindUserNotifications(db *gorm.DB, userID string, criteria NotificationCriteria, page Pagination) ([]models.Notification, int64, error)
	MarkAsRead(db *gorm.DB, userID, notificationID string, now time.Time) error
	MarkAllAsRead(db *gorm.DB, userID string, now time.Time) (int64, error)
	GetUnreadCount(db *gorm.DB, userID string) (int64, error)

	// Фабрики типовых уведомлений
	CreateNewApplicationNotification(db *gorm.DB, companyUserID string, app *models.JobApplication, job *models.JobPosting, studentName string) (*models.Notification, error)
	CreateApplicationStatusNotification(db *gorm.DB, studentUserID string, app *models.JobApplication, jobTitle string) (*models.Notification, error)
	CreateApplicationWithdrawnNotification(db *gorm.DB, companyUserID string, app *models.JobApplication, jobTitle, studentName string) (*models.Notification, error)
}

type NotificationRepositoryImpl struct{}

func NewNotificationRepository() NotificationRepository {
	return &NotificationRepositoryImpl{}
}

func (r *NotificationRepositoryImpl) CreateNotification(db *gorm.DB, notification *models.Notification) error {
	if err := validateNotification(notification); err != nil {
		return err
	}
	return db.Create(notification).Error
}

func (r *NotificationRepositoryImpl) FindUserNotifications(db *gorm.DB, userID string, criteria NotificationCriteria, page Pagination) ([]models.Notification, int64, error) {
	base := func() *gorm.DB {
		q := db.Model(&models.Notification{}).Where("user_id = ?", userID)
		if criteria.UnreadOnly {
			q = q.Where("is_read = ?", false)
		}
		if criteria.Type != "" {
			q = q.Where("type = ?", criteria.Type)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []models.Notification
	err := base().Order("created_at DESC").Scopes(paginate(page)).Find(&notifications).Error
	return notifications, total, err
}

// MarkAsRead помечает уведомление прочитанным; чужое уведомление считается ненайденным
func (r *NotificationRepositoryImpl) MarkAsRead(db *gorm.DB, userID, notificationID string, now time.Time) error {
	result := db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Updates(map[string]any{"is_read": true, "read_at": now})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) MarkAllAsRead(db *gorm.DB, userID string, now time.Time) (int64, error) {
	result := db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]any{"is_read": true, "read_at": now})
	return result.RowsAffected, result.Error
}

func (r *NotificationRepositoryImpl) GetUnreadCount(db *gorm.DB, userID string) (int64, error) {
	var count int64
	err := db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// =======================
// Фабрики
// =======================

func (r *NotificationRepositoryImpl) CreateNewApplicationNotification(db *gorm.DB, companyUserID string, app *models.JobApplication, job *models.JobPosting, studentName string) (*models.Notification, error) {
	return r.create(db, companyUserID, models.NotificationNewApplication,
		"New application",
		fmt.Sprintf("%s applied to \"%s\"", nameOrDefault(studentName), job.Title),
		map[string]any{"job_id": job.ID, "application_id": app.ID},
	)
}

func (r *NotificationRepositoryImpl) CreateApplicationStatusNotification(db *gorm.DB, studentUserID string, app *models.JobApplication, jobTitle string) (*models.Notification, error) {
	var title string
	switch app.Status {
	case models.ApplicationStatusAccepted:
		title = "Application accepted"
	case models.ApplicationStatusRejected:
		title = "Application rejected"
	case models.ApplicationStatusInterview:
		title = "Interview invitation"
	default:
		title = "Application status updated"
	}

	return r.create(db, studentUserID, models.NotificationApplicationStatus,
		title,
		fmt.Sprintf("Your application to \"%s\" is now %s", jobTitle, app.Status),
		map[string]any{"job_id": app.JobID, "application_id": app.ID, "status": app.Status},
	)
}

func (r *NotificationRepositoryImpl) CreateApplicationWithdrawnNotification(db *gorm.DB, companyUserID string, app *models.JobApplication, jobTitle, studentName string) (*models.Notification, error) {
	return r.create(db, companyUserID, models.NotificationApplicationWithdraw,
		"Application withdrawn",
		fmt.Sprintf("%s withdrew the application to \"%s\"", nameOrDefault(studentName), jobTitle),
		map[string]any{"job_id": app.JobID, "application_id": app.ID},
	)
}

func (r *NotificationRepositoryImpl) create(db *gorm.DB, userID string, typ models.NotificationType, title, message string, data map[string]any) (*models.Notification, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	notification := &models.Notification{
		UserID:  userID,
		Type:    typ,
		Title:   title,
		Message: message,
		Data:    datatypes.JSON(jsonData),
	}
	if err := r.CreateNotification(db, notification); err != nil {
		return nil, err
	}
	return notification, nil
}

func validateNotification(n *models.Notification) error {
	if n.UserID == "" || n.Title == "" {
		return ErrInvalidNotificationData
	}
	switch n.Type {
	case models.NotificationNewApplication, models.NotificationApplicationStatus, models.NotificationApplicationWithdraw:
		return nil
	}
	return fmt.Errorf("%w: unknown type %q", ErrInvalidNotificationData, n.Type)
}

func nameOrDefault(name string) string {
	if name == "" {
		return "A student"
	}
	return name
}
