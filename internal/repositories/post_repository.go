package repositories

import (
	"errors"

	"gorm.io/gorm"

	"campusjobs_backend/internal/models"
)

var ErrPostNotFound = errors.New("post not found")

type PostRepository interface {
	Create(db *gorm.DB, post *models.Post) error
	// FindByID загружает пост с автором и профилем автора (для аватара)
	FindByID(db *gorm.DB, id string) (*models.Post, error)
	// ListRecent - последние посты для ленты
	ListRecent(db *gorm.DB, limit int) ([]models.Post, error)
	ListByUser(db *gorm.DB, userID string, page Pagination) ([]models.Post, int64, error)
	Update(db *gorm.DB, post *models.Post) error
	Delete(db *gorm.DB, id string) error
}

type PostRepositoryImpl struct{}

func NewPostRepository() PostRepository {
	return &PostRepositoryImpl{}
}

func withAuthor(db *gorm.DB) *gorm.DB {
	return db.Preload("User").Preload("User.StudentProfile").Preload("User.CompanyProfile")
}

func (r *PostRepositoryImpl) Create(db *gorm.DB, post *models.Post) error {
	return db.Omit("User").Create(post).Error
}

func (r *PostRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Post, error) {
	var post models.Post
	if err := db.Scopes(withAuthor).First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *PostRepositoryImpl) ListRecent(db *gorm.DB, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := db.Scopes(withAuthor).Order("created_at DESC").Limit(limit).Find(&posts).Error
	return posts, err
}

func (r *PostRepositoryImpl) ListByUser(db *gorm.DB, userID string, page Pagination) ([]models.Post, int64, error) {
	var total int64
	if err := db.Model(&models.Post{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	err := db.Scopes(withAuthor).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Scopes(paginate(page)).
		Find(&posts).Error
	return posts, total, err
}

func (r *PostRepositoryImpl) Update(db *gorm.DB, post *models.Post) error {
	result := db.Model(post).Select("content", "image").Updates(post)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *PostRepositoryImpl) Delete(db *gorm.DB, id string) error {
	result := db.Delete(&models.Post{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}
