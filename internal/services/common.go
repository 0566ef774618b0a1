package services

import (
	"context"
	"errors"

	"campusjobs_backend/internal/algorithms"
	"campusjobs_backend/internal/auth"
	"campusjobs_backend/internal/logger"
	"campusjobs_backend/internal/repositories"
	"campusjobs_backend/internal/services/dto"
	"campusjobs_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// FeedPublisher получает новые элементы ленты (websocket-хаб)
type FeedPublisher interface {
	Publish(item algorithms.FeedItem)
}

func pageFrom(q dto.PageQuery) repositories.Pagination {
	return repositories.Pagination{Page: q.Page, PageSize: q.PageSize}.Normalize()
}

func buildPaginatedResponse(data interface{}, total int64, p repositories.Pagination) *dto.PaginatedResponse {
	p = p.Normalize()
	totalPages := int(total / int64(p.PageSize))
	if total%int64(p.PageSize) != 0 {
		totalPages++
	}
	return &dto.PaginatedResponse{
		Data:       data,
		Total:      total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: totalPages,
		HasMore:    p.Page < totalPages,
	}
}

// visible переводит запрет на чтение в NotFound: скрытый ресурс для актора не существует
func visible(d auth.Decision, notFound error) error {
	if d.Allowed() {
		return nil
	}
	return notFound
}

// notFoundOr превращает sentinel-ошибку репозитория в доменную 404, остальное - в 500
func notFoundOr(err error, sentinel error, notFound *apperrors.AppError) error {
	if errors.Is(err, sentinel) || errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound.WithError(err)
	}
	return apperrors.InternalError(err)
}

// bestEffort логирует ошибку побочного действия, не прерывая операцию
func bestEffort(ctx context.Context, msg string, err error, args ...any) {
	if err != nil {
		logger.CtxWithError(ctx, msg, err, args...)
	}
}

func strPtr(s string) *string {
	return &s
}
