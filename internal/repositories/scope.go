package repositories

import (
	"gorm.io/gorm"

	"campusjobs_backend/internal/auth"
	"campusjobs_backend/internal/models"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Pagination - параметры страницы (page начинается с 1)
type Pagination struct {
	Page     int
	PageSize int
}

// Normalize подставляет значения по умолчанию и ограничивает размер страницы
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

func (p Pagination) Offset() int {
	p = p.Normalize()
	return (p.Page - 1) * p.PageSize
}

func paginate(p Pagination) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		n := p.Normalize()
		return db.Offset(n.Offset()).Limit(n.PageSize)
	}
}

// jobScope накладывает решение политики доступа на выборку вакансий
func jobScope(s auth.Scope) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if s.OwnerID != "" {
			db = db.Where("job_postings.company_id IN (?)",
				db.Session(&gorm.Session{NewDB: true}).Model(&models.CompanyProfile{}).
					Select("id").Where("user_id = ?", s.OwnerID))
		}
		if s.ActiveOnly {
			db = db.Where("job_postings.status = ?", models.JobStatusActive)
		}
		return db
	}
}

// applicationScope накладывает решение политики доступа на выборку откликов
func applicationScope(s auth.Scope) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if s.OwnerID != "" {
			db = db.Where("job_applications.student_id IN (?)",
				db.Session(&gorm.Session{NewDB: true}).Model(&models.StudentProfile{}).
					Select("id").Where("user_id = ?", s.OwnerID))
		}
		if s.JobOwnerID != "" {
			db = db.Where("job_applications.job_id IN (?)",
				db.Session(&gorm.Session{NewDB: true}).Table("job_postings").
					Select("job_postings.id").
					Joins("JOIN company_profiles ON company_profiles.id = job_postings.company_id").
					Where("company_profiles.user_id = ?", s.JobOwnerID))
		}
		if s.ActiveOnly {
			db = db.Where("job_applications.job_id IN (?)",
				db.Session(&gorm.Session{NewDB: true}).Model(&models.JobPosting{}).
					Select("id").Where("status = ?", models.JobStatusActive))
		}
		return db
	}
}

// ownerScope - для таблиц с колонкой user_id (профили, уведомления)
func ownerScope(s auth.Scope) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if s.OwnerID != "" {
			db = db.Where("user_id = ?", s.OwnerID)
		}
		return db
	}
}
