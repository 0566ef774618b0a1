package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"campusjobs_backend/internal/models"
)

var (
	// ErrRefreshTokenNotFound возвращается, когда refresh-токен не найден в БД
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
)

type RefreshTokenRepository interface {
	Create(db *gorm.DB, token *models.RefreshToken) error
	// FindValid находит неистекший refresh-токен
	FindValid(db *gorm.DB, tokenString string, now time.Time) (*models.RefreshToken, error)
	DeleteByToken(db *gorm.DB, tokenString string) error
	DeleteByUserID(db *gorm.DB, userID string) error
	// DeleteExpired удаляет истекшие токены и возвращает их количество
	DeleteExpired(db *gorm.DB, now time.Time) (int64, error)
}

type refreshTokenRepository struct{}

func NewRefreshTokenRepository() RefreshTokenRepository {
	return &refreshTokenRepository{}
}

func (r *refreshTokenRepository) Create(db *gorm.DB, token *models.RefreshToken) error {
	return db.Create(token).Error
}

func (r *refreshTokenRepository) FindValid(db *gorm.DB, tokenString string, now time.Time) (*models.RefreshToken, error) {
	var token models.RefreshToken
	err := db.Where("token = ? AND expires_at > ?", tokenString, now).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRefreshTokenNotFound
		}
		return nil, err
	}
	return &token, nil
}

func (r *refreshTokenRepository) DeleteByToken(db *gorm.DB, tokenString string) error {
	result := db.Where("token = ?", tokenString).Delete(&models.RefreshToken{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRefreshTokenNotFound
	}
	return nil
}

func (r *refreshTokenRepository) DeleteByUserID(db *gorm.DB, userID string) error {
	return db.Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error
}

func (r *refreshTokenRepository) DeleteExpired(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Where("expires_at <= ?", now).Delete(&models.RefreshToken{})
	return result.RowsAffected, result.Error
}
