package services

import (
	"context"
	"time"

	"campusjobs_backend/internal/auth"
	"campusjobs_backend/internal/repositories"
	"campusjobs_backend/internal/services/dto"
	"campusjobs_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type NotificationService interface {
	ListNotifications(ctx context.Context, db *gorm.DB, actor auth.Actor, query *dto.NotificationListQuery) (*dto.PaginatedResponse, error)
	MarkAsRead(ctx context.Context, db *gorm.DB, actor auth.Actor, id string) error
	MarkAllAsRead(ctx context.Context, db *gorm.DB, actor auth.Actor) (int64, error)
	UnreadCount(ctx context.Context, db *gorm.DB, actor auth.Actor) (int64, error)
}

type NotificationServiceImpl struct {
	notificationRepo repositories.NotificationRepository
	now              func() time.Time
}

func NewNotificationService(notificationRepo repositories.NotificationRepository) NotificationService {
	return &NotificationServiceImpl{notificationRepo: notificationRepo, now: time.Now}
}

// owner возвращает id пользователя, чьи уведомления доступны актору
func (s *NotificationServiceImpl) owner(actor auth.Actor) (string, error) {
	decision := auth.Evaluate(actor, auth.ActionList, auth.Resource{Kind: auth.KindNotification})
	if err := decision.Err(); err != nil {
		return "", err
	}
	return decision.Scope.OwnerID, nil
}

func (s *NotificationServiceImpl) ListNotifications(ctx context.Context, db *gorm.DB, actor auth.Actor, query *dto.NotificationListQuery) (*dto.PaginatedResponse, error) {
	userID, err := s.owner(actor)
	if err != nil {
		return nil, err
	}

	page := pageFrom(query.PageQuery)
	criteria := repositories.NotificationCriteria{UnreadOnly: query.UnreadOnly, Type: query.Type}
	notifications, total, err := s.notificationRepo.FindUserNotifications(db, userID, criteria, page)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		items = append(items, toNotificationResponse(&notifications[i]))
	}
	return buildPaginatedResponse(items, total, page), nil
}

func (s *NotificationServiceImpl) MarkAsRead(ctx context.Context, db *gorm.DB, actor auth.Actor, id string) error {
	userID, err := s.owner(actor)
	if err != nil {
		return err
	}
	// чужое уведомление не найдется: запрос фильтрует по user_id
	if err := s.notificationRepo.MarkAsRead(db, userID, id, s.now()); err != nil {
		return notFoundOr(err, repositories.ErrNotificationNotFound, apperrors.ErrNotificationNotFound)
	}
	return nil
}

func (s *NotificationServiceImpl) MarkAllAsRead(ctx context.Context, db *gorm.DB, actor auth.Actor) (int64, error) {
	userID, err := s.owner(actor)
	if err != nil {
		return 0, err
	}
	n, err := s.notificationRepo.MarkAllAsRead(db, userID, s.now())
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return n, nil
}

func (s *NotificationServiceImpl) UnreadCount(ctx context.Context, db *gorm.DB, actor auth.Actor) (int64, error) {
	userID, err := s.owner(actor)
	if err != nil {
		return 0, err
	}
	n, err := s.notificationRepo.GetUnreadCount(db, userID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return n, nil
}
