package apperrors

import (
	"net/http"
)

/*
Фабрики и предопределенные переменные для ошибок домена:
пользователи, профили, вакансии, отклики, посты.
*/

// =========================================================================
// Фабричные функции
// =========================================================================

// ErrNotFound оборачивает ошибку репозитория "не найдено" (404)
func ErrNotFound(err error, domain, message string) *AppError {
	return Wrap(err, CodeNotFound, domain, message, http.StatusNotFound)
}

// ErrConflict - нарушение уникальности (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrPermissionDenied - у актора нет прав на операцию (403)
func ErrPermissionDenied(domain, message string) *AppError {
	return New(CodePermissionDenied, domain, message, http.StatusForbidden)
}

// ErrInvalidStatus - невалидный целевой статус или переход (400)
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// ErrInvalidOperation - невалидная операция (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// =========================================================================
// Auth
// =========================================================================

var ErrEmailAlreadyExists = New(
	CodeConflict,
	"auth",
	"This email is already registered",
	http.StatusConflict,
)

var ErrPasswordMismatch = New(
	CodeValidationFailed,
	"validation",
	"Validation failed",
	http.StatusBadRequest,
).WithDetails(map[string]string{"password": "Passwords do not match"})

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrUserInactive = New(
	CodeForbidden,
	"auth",
	"This account is disabled",
	http.StatusForbidden,
)

var ErrInvalidUserRole = New(
	CodeInvalidOperation,
	"auth",
	"Invalid user role for this operation",
	http.StatusBadRequest,
)

var ErrTooManyRequests = New(
	CodeTooManyRequests,
	"auth",
	"Too many requests, try again later",
	http.StatusTooManyRequests,
)

// =========================================================================
// Profiles
// =========================================================================

var ErrUserNotFound = New(CodeNotFound, "user", "User not found", http.StatusNotFound)

var ErrStudentProfileNotFound = New(CodeNotFound, "student_profile", "Student profile not found", http.StatusNotFound)

var ErrCompanyProfileNotFound = New(CodeNotFound, "company_profile", "Company profile not found", http.StatusNotFound)

var ErrProfileAlreadyExists = New(
	CodeConflict,
	"profile",
	"A profile already exists for this user",
	http.StatusConflict,
)

// =========================================================================
// Jobs & applications
// =========================================================================

var ErrJobNotFound = New(CodeNotFound, "job", "Job posting not found", http.StatusNotFound)

var ErrApplicationNotFound = New(CodeNotFound, "application", "Job application not found", http.StatusNotFound)

var ErrJobNotActive = New(
	CodeInvalidOperation,
	"job",
	"This job posting is not accepting applications",
	http.StatusBadRequest,
)

var ErrApplicationAlreadyExists = New(
	CodeConflict,
	"application",
	"You have already applied to this job",
	http.StatusConflict,
)

var ErrInvalidSalaryRange = New(
	CodeValidationFailed,
	"validation",
	"Validation failed",
	http.StatusBadRequest,
).WithDetails(map[string]string{"salary_max": "Must be greater than or equal to salary_min"})

// =========================================================================
// Posts & notifications
// =========================================================================

var ErrPostNotFound = New(CodeNotFound, "post", "Post not found", http.StatusNotFound)

var ErrNotificationNotFound = New(CodeNotFound, "notification", "Notification not found", http.StatusNotFound)

// =========================================================================
// Uploads
// =========================================================================

var ErrFileTooLarge = New(
	CodeLimitExceeded,
	"validation",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

var ErrInvalidFileType = New(
	CodeValidationFailed,
	"validation",
	"The provided file type is not allowed",
	http.StatusUnsupportedMediaType,
)
