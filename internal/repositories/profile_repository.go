package repositories

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"campusjobs_backend/internal/auth"
	"campusjobs_backend/internal/models"
)

var (
	ErrProfileNotFound      = errors.New("profile not found")
	ErrProfileAlreadyExists = errors.New("profile already exists")
)

// ProfileFilter - фильтры списка профилей
type ProfileFilter struct {
	Search   string
	Industry models.Industry
	Verified *bool
}

type ProfileRepository interface {
	// === Студенты ===
	CreateStudentProfile(db *gorm.DB, profile *models.StudentProfile) error
	FindStudentProfileByID(db *gorm.DB, id string) (*models.StudentProfile, error)
	FindStudentProfileByUserID(db *gorm.DB, userID string) (*models.StudentProfile, error)
	ListStudentProfiles(db *gorm.DB, scope auth.Scope, filter ProfileFilter, page Pagination) ([]models.StudentProfile, int64, error)
	UpdateStudentProfile(db *gorm.DB, profile *models.StudentProfile) error
	DeleteStudentProfile(db *gorm.DB, id string) error

	// === Компании ===
	CreateCompanyProfile(db *gorm.DB, profile *models.CompanyProfile) error
	FindCompanyProfileByID(db *gorm.DB, id string) (*models.CompanyProfile, error)
	FindCompanyProfileByUserID(db *gorm.DB, userID string) (*models.CompanyProfile, error)
	ListCompanyProfiles(db *gorm.DB, scope auth.Scope, filter ProfileFilter, page Pagination) ([]models.CompanyProfile, int64, error)
	UpdateCompanyProfile(db *gorm.DB, profile *models.CompanyProfile) error
	SetCompanyVerified(db *gorm.DB, id string, verified bool) error
	DeleteCompanyProfile(db *gorm.DB, id string) error
}

type ProfileRepositoryImpl struct{}

func NewProfileRepository() ProfileRepository {
	return &ProfileRepositoryImpl{}
}

func mapProfileErr(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrProfileNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrProfileAlreadyExists
	}
	return err
}

// =======================
// Студенты
// =======================

func (r *ProfileRepositoryImpl) CreateStudentProfile(db *gorm.DB, profile *models.StudentProfile) error {
	return mapProfileErr(db.Create(profile).Error)
}

func (r *ProfileRepositoryImpl) FindStudentProfileByID(db *gorm.DB, id string) (*models.StudentProfile, error) {
	var profile models.StudentProfile
	if err := db.Preload("User").First(&profile, "id = ?", id).Error; err != nil {
		return nil, mapProfileErr(err)
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) FindStudentProfileByUserID(db *gorm.DB, userID string) (*models.StudentProfile, error) {
	var profile models.StudentProfile
	if err := db.Preload("User").First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, mapProfileErr(err)
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) ListStudentProfiles(db *gorm.DB, scope auth.Scope, filter ProfileFilter, page Pagination) ([]models.StudentProfile, int64, error) {
	base := func() *gorm.DB {
		q := db.Model(&models.StudentProfile{}).Scopes(ownerScope(scope))
		if s := strings.TrimSpace(filter.Search); s != "" {
			like := "%" + strings.ToLower(s) + "%"
			q = q.Where("(LOWER(university) LIKE ? OR LOWER(career) LIKE ? OR LOWER(skills) LIKE ?)", like, like, like)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var profiles []models.StudentProfile
	err := base().Preload("User").
		Order("created_at DESC").
		Scopes(paginate(page)).
		Find(&profiles).Error
	return profiles, total, err
}

func (r *ProfileRepositoryImpl) UpdateStudentProfile(db *gorm.DB, profile *models.StudentProfile) error {
	return db.Model(profile).Select(
		"university", "career", "semester", "graduation_year", "bio",
		"skills", "cv_url", "linkedin_url", "profile_picture",
	).Updates(profile).Error
}

func (r *ProfileRepositoryImpl) DeleteStudentProfile(db *gorm.DB, id string) error {
	result := db.Delete(&models.StudentProfile{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// =======================
// Компании
// =======================

func (r *ProfileRepositoryImpl) CreateCompanyProfile(db *gorm.DB, profile *models.CompanyProfile) error {
	return mapProfileErr(db.Create(profile).Error)
}

func (r *ProfileRepositoryImpl) FindCompanyProfileByID(db *gorm.DB, id string) (*models.CompanyProfile, error) {
	var profile models.CompanyProfile
	if err := db.Preload("User").First(&profile, "id = ?", id).Error; err != nil {
		return nil, mapProfileErr(err)
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) FindCompanyProfileByUserID(db *gorm.DB, userID string) (*models.CompanyProfile, error) {
	var profile models.CompanyProfile
	if err := db.Preload("User").First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, mapProfileErr(err)
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) ListCompanyProfiles(db *gorm.DB, scope auth.Scope, filter ProfileFilter, page Pagination) ([]models.CompanyProfile, int64, error) {
	base := func() *gorm.DB {
		q := db.Model(&models.CompanyProfile{}).Scopes(ownerScope(scope))
		if s := strings.TrimSpace(filter.Search); s != "" {
			q = q.Where("LOWER(company_name) LIKE ?", "%"+strings.ToLower(s)+"%")
		}
		if filter.Industry != "" {
			q = q.Where("industry = ?", filter.Industry)
		}
		if filter.Verified != nil {
			q = q.Where("is_verified = ?", *filter.Verified)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var profiles []models.CompanyProfile
	err := base().Preload("User").
		Order("created_at DESC").
		Scopes(paginate(page)).
		Find(&profiles).Error
	return profiles, total, err
}

// UpdateCompanyProfile не трогает is_verified: флаг меняет только администратор
func (r *ProfileRepositoryImpl) UpdateCompanyProfile(db *gorm.DB, profile *models.CompanyProfile) error {
	return db.Model(profile).Select(
		"company_name", "industry", "description", "website", "address", "logo",
	).Updates(profile).Error
}

func (r *ProfileRepositoryImpl) SetCompanyVerified(db *gorm.DB, id string, verified bool) error {
	result := db.Model(&models.CompanyProfile{}).Where("id = ?", id).Update("is_verified", verified)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *ProfileRepositoryImpl) DeleteCompanyProfile(db *gorm.DB, id string) error {
	result := db.Delete(&models.CompanyProfile{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}
