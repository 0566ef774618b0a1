package repositories

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"campusjobs_backend/internal/auth"
	"campusjobs_backend/internal/models"
)

var ErrJobNotFound = errors.New("job posting not found")

// JobFilter - фильтры списка вакансий (поверх решения политики доступа)
type JobFilter struct {
	Search   string
	JobType  models.JobType
	Location string
	Status   models.JobStatus
}

type JobRepository interface {
	Create(db *gorm.DB, job *models.JobPosting) error
	// FindByID загружает вакансию с компанией, ее пользователем и числом откликов
	FindByID(db *gorm.DB, id string) (*models.JobPosting, error)
	List(db *gorm.DB, scope auth.Scope, filter JobFilter, page Pagination) ([]models.JobPosting, int64, error)
	// ListActive - последние активные вакансии для ленты
	ListActive(db *gorm.DB, limit int) ([]models.JobPosting, error)
	Update(db *gorm.DB, job *models.JobPosting) error
	Delete(db *gorm.DB, id string) error
	// CloseExpired переводит в closed активные вакансии с прошедшим дедлайном
	CloseExpired(db *gorm.DB, now time.Time) (int64, error)
}

type JobRepositoryImpl struct{}

func NewJobRepository() JobRepository {
	return &JobRepositoryImpl{}
}

const jobSelectWithCount = "job_postings.*, " +
	"(SELECT COUNT(*) FROM job_applications WHERE job_applications.job_id = job_postings.id) AS applications_count"

func (r *JobRepositoryImpl) Create(db *gorm.DB, job *models.JobPosting) error {
	return db.Omit("Company", "Applications").Create(job).Error
}

func (r *JobRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.JobPosting, error) {
	var job models.JobPosting
	err := db.Model(&models.JobPosting{}).
		Select(jobSelectWithCount).
		Preload("Company.User").
		Where("job_postings.id = ?", id).
		First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *JobRepositoryImpl) List(db *gorm.DB, scope auth.Scope, filter JobFilter, page Pagination) ([]models.JobPosting, int64, error) {
	base := func() *gorm.DB {
		q := db.Model(&models.JobPosting{}).Scopes(jobScope(scope))
		if s := strings.TrimSpace(filter.Search); s != "" {
			like := "%" + strings.ToLower(s) + "%"
			q = q.Where("(LOWER(job_postings.title) LIKE ? OR LOWER(job_postings.description) LIKE ?)", like, like)
		}
		if filter.JobType != "" {
			q = q.Where("job_postings.job_type = ?", filter.JobType)
		}
		if l := strings.TrimSpace(filter.Location); l != "" {
			q = q.Where("LOWER(job_postings.location) LIKE ?", "%"+strings.ToLower(l)+"%")
		}
		if filter.Status != "" {
			q = q.Where("job_postings.status = ?", filter.Status)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var jobs []models.JobPosting
	err := base().
		Select(jobSelectWithCount).
		Preload("Company.User").
		Order("job_postings.created_at DESC").
		Scopes(paginate(page)).
		Find(&jobs).Error
	return jobs, total, err
}

func (r *JobRepositoryImpl) ListActive(db *gorm.DB, limit int) ([]models.JobPosting, error) {
	var jobs []models.JobPosting
	err := db.Model(&models.JobPosting{}).
		Preload("Company.User").
		Where("status = ?", models.JobStatusActive).
		Order("created_at DESC").
		Limit(limit).
		Find(&jobs).Error
	return jobs, err
}

func (r *JobRepositoryImpl) Update(db *gorm.DB, job *models.JobPosting) error {
	result := db.Model(job).Select(
		"title", "description", "requirements", "responsibilities", "location",
		"job_type", "salary_min", "salary_max", "status", "deadline",
	).Updates(job)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

// Delete удаляет вакансию; отклики удаляются каскадом
func (r *JobRepositoryImpl) Delete(db *gorm.DB, id string) error {
	result := db.Delete(&models.JobPosting{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *JobRepositoryImpl) CloseExpired(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Model(&models.JobPosting{}).
		Where("status = ? AND deadline IS NOT NULL AND deadline < ?", models.JobStatusActive, now).
		Update("status", models.JobStatusClosed)
	return result.RowsAffected, result.Error
}
