package dto

import (
	"time"

	"campusjobs_backend/internal/models"
)

// ==========================
// Студенты
// ==========================

type CreateStudentProfileRequest struct {
	University     string `json:"university" validate:"required,max=200"`
	Career         string `json:"career" validate:"required,max=200"`
	Semester       int    `json:"semester" validate:"required,min=1,max=20"`
	GraduationYear *int   `json:"graduation_year" validate:"omitempty,min=1950,max=2100"`
	Bio            string `json:"bio" validate:"omitempty,max=5000"`
	Skills         string `json:"skills" validate:"omitempty,max=5000"`
	CVURL          string `json:"cv_url" validate:"omitempty,url,max=500"`
	LinkedinURL    string `json:"linkedin_url" validate:"omitempty,url,max=500"`
}

type UpdateStudentProfileRequest struct {
	University     *string `json:"university,omitempty" validate:"omitempty,min=1,max=200"`
	Career         *string `json:"career,omitempty" validate:"omitempty,min=1,max=200"`
	Semester       *int    `json:"semester,omitempty" validate:"omitempty,min=1,max=20"`
	GraduationYear *int    `json:"graduation_year,omitempty" validate:"omitempty,min=1950,max=2100"`
	Bio            *string `json:"bio,omitempty" validate:"omitempty,max=5000"`
	Skills         *string `json:"skills,omitempty" validate:"omitempty,max=5000"`
	CVURL          *string `json:"cv_url,omitempty" validate:"omitempty,url,max=500"`
	LinkedinURL    *string `json:"linkedin_url,omitempty" validate:"omitempty,url,max=500"`
}

type StudentProfileResponse struct {
	ID                string        `json:"id"`
	User              *UserResponse `json:"user,omitempty"`
	University        string        `json:"university"`
	Career            string        `json:"career"`
	Semester          int           `json:"semester"`
	GraduationYear    *int          `json:"graduation_year"`
	Bio               string        `json:"bio"`
	Skills            string        `json:"skills"`
	CVURL             string        `json:"cv_url"`
	LinkedinURL       string        `json:"linkedin_url"`
	ProfilePictureURL *string       `json:"profile_picture_url"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// ==========================
// Компании
// ==========================

type CreateCompanyProfileRequest struct {
	CompanyName string          `json:"company_name" validate:"required,max=200"`
	Industry    models.Industry `json:"industry" validate:"required,is-industry"`
	Description string          `json:"description" validate:"required,max=5000"`
	Website     string          `json:"website" validate:"omitempty,url,max=500"`
	Address     string          `json:"address" validate:"required,max=1000"`
}

type UpdateCompanyProfileRequest struct {
	CompanyName *string          `json:"company_name,omitempty" validate:"omitempty,min=1,max=200"`
	Industry    *models.Industry `json:"industry,omitempty" validate:"omitempty,is-industry"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=5000"`
	Website     *string          `json:"website,omitempty" validate:"omitempty,url,max=500"`
	Address     *string          `json:"address,omitempty" validate:"omitempty,max=1000"`
}

type CompanyProfileResponse struct {
	ID          string          `json:"id"`
	User        *UserResponse   `json:"user,omitempty"`
	CompanyName string          `json:"company_name"`
	Industry    models.Industry `json:"industry"`
	Description string          `json:"description"`
	Website     string          `json:"website"`
	Address     string          `json:"address"`
	LogoURL     *string         `json:"logo_url"`
	IsVerified  bool            `json:"is_verified"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// VerifyCompanyRequest - действие администратора
type VerifyCompanyRequest struct {
	IsVerified *bool `json:"is_verified" validate:"required"`
}

// ProfileListQuery - фильтры списка профилей
type ProfileListQuery struct {
	PageQuery
	Search   string          `form:"search" validate:"omitempty,max=100"`
	Industry models.Industry `form:"industry" validate:"omitempty,is-industry"`
	Verified *bool           `form:"verified"`
}
