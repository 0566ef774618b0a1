package repositories

import (
	"errors"

	"gorm.io/gorm"

	"campusjobs_backend/internal/auth"
	"campusjobs_backend/internal/models"
)

var (
	ErrApplicationNotFound      = errors.New("job application not found")
	ErrApplicationAlreadyExists = errors.New("job application already exists")
	// ErrApplicationStatusChanged - статус изменился после чтения снимка
	ErrApplicationStatusChanged = errors.New("job application status changed concurrently")
)

type ApplicationFilter struct {
	JobID  string
	Status models.ApplicationStatus
}

type ApplicationRepository interface {
	// Create опирается на уникальный индекс (student_id, job_id):
	// повторный отклик возвращает ErrApplicationAlreadyExists.
	Create(db *gorm.DB, app *models.JobApplication) error
	// FindByID загружает отклик со студентом и вакансией (с компанией)
	FindByID(db *gorm.DB, id string) (*models.JobApplication, error)
	List(db *gorm.DB, scope auth.Scope, filter ApplicationFilter, page Pagination) ([]models.JobApplication, int64, error)
	// UpdateStatus меняет статус только если текущий статус все еще равен from
	UpdateStatus(db *gorm.DB, id string, from, to models.ApplicationStatus, notes *string) error
	Delete(db *gorm.DB, id string) error
}

type ApplicationRepositoryImpl struct{}

func NewApplicationRepository() ApplicationRepository {
	return &ApplicationRepositoryImpl{}
}

func (r *ApplicationRepositoryImpl) Create(db *gorm.DB, app *models.JobApplication) error {
	err := db.Omit("Student", "Job").Create(app).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrApplicationAlreadyExists
	}
	return err
}

func (r *ApplicationRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.JobApplication, error) {
	var app models.JobApplication
	err := db.Preload("Student.User").Preload("Job.Company.User").
		First(&app, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepositoryImpl) List(db *gorm.DB, scope auth.Scope, filter ApplicationFilter, page Pagination) ([]models.JobApplication, int64, error) {
	base := func() *gorm.DB {
		q := db.Model(&models.JobApplication{}).Scopes(applicationScope(scope))
		if filter.JobID != "" {
			q = q.Where("job_applications.job_id = ?", filter.JobID)
		}
		if filter.Status != "" {
			q = q.Where("job_applications.status = ?", filter.Status)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var apps []models.JobApplication
	err := base().
		Preload("Student.User").Preload("Job.Company.User").
		Order("job_applications.created_at DESC").
		Scopes(paginate(page)).
		Find(&apps).Error
	return apps, total, err
}

func (r *ApplicationRepositoryImpl) UpdateStatus(db *gorm.DB, id string, from, to models.ApplicationStatus, notes *string) error {
	updates := map[string]any{"status": to}
	if notes != nil {
		updates["notes"] = *notes
	}
	result := db.Model(&models.JobApplication{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := db.Model(&models.JobApplication{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrApplicationNotFound
	}
	return ErrApplicationStatusChanged
}

func (r *ApplicationRepositoryImpl) Delete(db *gorm.DB, id string) error {
	result := db.Delete(&models.JobApplication{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}
