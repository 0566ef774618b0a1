package dto

import (
	"time"

	"campusjobs_backend/internal/models"
)

// DateLayout - формат дедлайна вакансии
const DateLayout = "2006-01-02"

type CreateJobRequest struct {
	Title            string           `json:"title" validate:"required,max=200"`
	Description      string           `json:"description" validate:"required"`
	Requirements     string           `json:"requirements" validate:"required"`
	Responsibilities string           `json:"responsibilities"`
	Location         string           `json:"location" validate:"required,max=200"`
	JobType          models.JobType   `json:"job_type" validate:"required,is-job-type"`
	SalaryMin        *float64         `json:"salary_min" validate:"omitempty,min=0"`
	SalaryMax        *float64         `json:"salary_max" validate:"omitempty,min=0"`
	Status           models.JobStatus `json:"status" validate:"omitempty,is-job-status"`
	Deadline         *string          `json:"deadline" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateJobRequest struct {
	Title            *string           `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description      *string           `json:"description,omitempty" validate:"omitempty,min=1"`
	Requirements     *string           `json:"requirements,omitempty" validate:"omitempty,min=1"`
	Responsibilities *string           `json:"responsibilities,omitempty"`
	Location         *string           `json:"location,omitempty" validate:"omitempty,min=1,max=200"`
	JobType          *models.JobType   `json:"job_type,omitempty" validate:"omitempty,is-job-type"`
	SalaryMin        *float64          `json:"salary_min,omitempty" validate:"omitempty,min=0"`
	SalaryMax        *float64          `json:"salary_max,omitempty" validate:"omitempty,min=0"`
	Status           *models.JobStatus `json:"status,omitempty" validate:"omitempty,is-job-status"`
	Deadline         *string           `json:"deadline,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type JobListQuery struct {
	PageQuery
	Search   string           `form:"search" validate:"omitempty,max=100"`
	JobType  models.JobType   `form:"job_type" validate:"omitempty,is-job-type"`
	Location string           `form:"location" validate:"omitempty,max=200"`
	Status   models.JobStatus `form:"status" validate:"omitempty,is-job-status"`
}

type JobResponse struct {
	ID                string                  `json:"id"`
	Company           *CompanyProfileResponse `json:"company,omitempty"`
	Title             string                  `json:"title"`
	Description       string                  `json:"description"`
	Requirements      string                  `json:"requirements"`
	Responsibilities  string                  `json:"responsibilities"`
	Location          string                  `json:"location"`
	JobType           models.JobType          `json:"job_type"`
	SalaryMin         *float64                `json:"salary_min"`
	SalaryMax         *float64                `json:"salary_max"`
	Status            models.JobStatus        `json:"status"`
	Deadline          *string                 `json:"deadline"`
	ApplicationsCount int64                   `json:"applications_count"`
	CreatedAt         time.Time               `json:"created_at"`
	UpdatedAt         time.Time               `json:"updated_at"`
}
