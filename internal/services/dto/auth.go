package dto

import (
	"time"

	"campusjobs_backend/internal/models"
)

// RegisterRequest - регистрация студента или компании.
// Поля профиля обязательны для соответствующей роли, профиль создается сразу.
type RegisterRequest struct {
	Email           string          `json:"email" validate:"required,email,max=254"`
	Password        string          `json:"password" validate:"required,min=8,max=128"`
	PasswordConfirm string          `json:"password_confirm" validate:"required"`
	FirstName       string          `json:"first_name" validate:"omitempty,max=150"`
	LastName        string          `json:"last_name" validate:"omitempty,max=150"`
	Phone           string          `json:"phone" validate:"omitempty,max=20"`
	Role            models.UserRole `json:"user_type" validate:"required,is-user-role"`

	// Студент
	University     string `json:"university" validate:"omitempty,max=200"`
	Career         string `json:"career" validate:"omitempty,max=200"`
	Semester       int    `json:"semester" validate:"omitempty,min=1,max=20"`
	GraduationYear *int   `json:"graduation_year" validate:"omitempty,min=1950,max=2100"`

	// Компания
	CompanyName string          `json:"company_name" validate:"omitempty,max=200"`
	Industry    models.Industry `json:"industry" validate:"omitempty,is-industry"`
	Description string          `json:"description"`
	Address     string          `json:"address"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse - ответ с токенами
type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresAt    time.Time    `json:"expires_at"`
	User         UserResponse `json:"user"`
}

type UserResponse struct {
	ID         string          `json:"id"`
	Email      string          `json:"email"`
	FirstName  string          `json:"first_name"`
	LastName   string          `json:"last_name"`
	Phone      string          `json:"phone"`
	Role       models.UserRole `json:"user_type"`
	IsActive   bool            `json:"is_active"`
	HasProfile bool            `json:"has_profile"`
	ProfileID  *string         `json:"profile_id"`
	CreatedAt  time.Time       `json:"date_joined"`
}

// UpdateUserRequest - изменение имени и телефона; email и роль не меняются
type UpdateUserRequest struct {
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,max=150"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=20"`
}
