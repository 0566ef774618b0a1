package dto

import (
	"time"

	"campusjobs_backend/internal/models"
)

type CreateApplicationRequest struct {
	JobID       string `json:"job_id" validate:"required,uuid"`
	CoverLetter string `json:"cover_letter" validate:"omitempty,max=10000"`
}

// UpdateApplicationStatusRequest - статус проверяется машиной состояний, а не валидатором
type UpdateApplicationStatusRequest struct {
	Status models.ApplicationStatus `json:"status" validate:"required"`
	Notes  *string                  `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

type ApplicationListQuery struct {
	PageQuery
	JobID  string                   `form:"job_id" validate:"omitempty,uuid"`
	Status models.ApplicationStatus `form:"status" validate:"omitempty,is-application-status"`
}

type ApplicationResponse struct {
	ID          string                   `json:"id"`
	Student     *StudentProfileResponse  `json:"student,omitempty"`
	Job         *JobResponse             `json:"job,omitempty"`
	CoverLetter string                   `json:"cover_letter"`
	Status      models.ApplicationStatus `json:"status"`
	Notes       string                   `json:"notes"`
	AppliedAt   time.Time                `json:"applied_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}
