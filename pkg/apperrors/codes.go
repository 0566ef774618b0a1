package apperrors

// ErrorCode - машиночитаемый код в поле error.code ответа
type ErrorCode string

// Коды, на которые опирается клиент
const (
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodePermissionDenied ErrorCode = "PERMISSION_DENIED"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeInvalidStatus    ErrorCode = "INVALID_STATUS"
)

const (
	CodeInvalidOperation ErrorCode = "INVALID_OPERATION"
	CodeLimitExceeded    ErrorCode = "LIMIT_EXCEEDED"

	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	CodeTooManyRequests    ErrorCode = "TOO_MANY_REQUESTS"

	CodeStorageUnavailable ErrorCode = "STORAGE_UNAVAILABLE"
	CodeInternalError      ErrorCode = "INTERNAL_ERROR"
)
