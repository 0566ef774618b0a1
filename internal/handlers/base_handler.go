package handlers

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"campusjobs_backend/internal/auth"
	"campusjobs_backend/internal/logger"
	"campusjobs_backend/internal/middleware"
	"campusjobs_backend/internal/services"
	"campusjobs_backend/internal/validator"
	"campusjobs_backend/pkg/apperrors"
	"campusjobs_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ============================================================================
// 1. Базовая структура обработчика
// ============================================================================

// ActorResolver превращает id пользователя из токена в Actor
type ActorResolver interface {
	ResolveActor(ctx context.Context, db *gorm.DB, userID string) (auth.Actor, error)
}

type BaseHandler struct {
	validator *validator.Validator
	actors    ActorResolver
	tokens    *auth.TokenManager
}

func NewBaseHandler(v *validator.Validator, actors ActorResolver, tokens *auth.TokenManager) *BaseHandler {
	return &BaseHandler{
		validator: v,
		actors:    actors,
		tokens:    tokens,
	}
}

// RequireAuth - JWT обязателен
func (h *BaseHandler) RequireAuth() gin.HandlerFunc {
	return middleware.AuthMiddleware(h.tokens)
}

// OptionalAuth - JWT разбирается, если передан
func (h *BaseHandler) OptionalAuth() gin.HandlerFunc {
	return middleware.OptionalAuthMiddleware(h.tokens)
}

// ============================================================================
// 2. DB и Actor из контекста
// ============================================================================

// GetDB извлекает *gorm.DB (пул или транзакцию) из gin.Context
// Этот метод ДОЛЖЕН вызываться в каждом хендлере, который обращается к сервисам
func (h *BaseHandler) GetDB(c *gin.Context) *gorm.DB {
	dbKey := string(contextkeys.DBContextKey)

	val, ok := c.Get(dbKey)
	if !ok {
		logger.CtxError(c.Request.Context(), "critical error: db key not found in context", "key", dbKey)
		panic("critical error: DBMiddleware did not set the db key")
	}

	db, ok := val.(*gorm.DB)
	if !ok {
		logger.CtxError(c.Request.Context(), "critical error: db in context is not *gorm.DB", "key", dbKey, "type", fmt.Sprintf("%T", val))
		panic("critical error: db in context has incorrect type")
	}

	return db
}

// GetActor возвращает Actor текущего запроса (Anonymous без токена).
// При ошибке ответ уже записан.
func (h *BaseHandler) GetActor(c *gin.Context) (auth.Actor, bool) {
	if val, ok := c.Get(contextkeys.ActorKey); ok {
		if actor, ok := val.(auth.Actor); ok {
			return actor, true
		}
	}

	actor, err := h.actors.ResolveActor(c.Request.Context(), h.GetDB(c), middleware.GetUserID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return nil, false
	}
	c.Set(contextkeys.ActorKey, actor)
	return actor, true
}

// ============================================================================
// 3. Методы привязки и валидации
// ============================================================================

func (h *BaseHandler) BindAndValidate_JSON(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := c.ShouldBind(obj); err != nil {
		logger.CtxWithError(ctx, "Failed to bind JSON body", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return false
	}

	return h.validate(c, obj, "Validation failed")
}

func (h *BaseHandler) BindAndValidate_Query(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := c.ShouldBindQuery(obj); err != nil {
		logger.CtxWithError(ctx, "Failed to bind query params", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid query parameters: "+err.Error()))
		return false
	}

	return h.validate(c, obj, "Validation failed (query)")
}

func (h *BaseHandler) validate(c *gin.Context, obj interface{}, msg string) bool {
	ctx := c.Request.Context()

	if err := h.validator.Validate(obj); err != nil {
		if vErr, ok := err.(*validator.ValidationError); ok {
			logger.CtxWarn(ctx, msg, "errors", vErr.Errors, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.ValidationError(vErr.Errors))
		} else {
			logger.CtxWithError(ctx, "Internal validator error", err, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.InternalError(err))
		}
		return false
	}
	return true
}

// FormImage достает необязательный файл из multipart-формы.
// Вызывающий обязан закрыть файл через возвращенную функцию.
func (h *BaseHandler) FormImage(c *gin.Context, field string) (*services.ImageFile, func(), bool) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, func() {}, true
		}
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid multipart form: "+err.Error()))
		return nil, nil, false
	}
	return openFormFile(c, fh)
}

// RequireFormImage - то же, но файл обязателен
func (h *BaseHandler) RequireFormImage(c *gin.Context, field string) (*services.ImageFile, func(), bool) {
	fh, err := c.FormFile(field)
	if err != nil {
		apperrors.HandleError(c, apperrors.FieldError(field, "File is required"))
		return nil, nil, false
	}
	return openFormFile(c, fh)
}

func openFormFile(c *gin.Context, fh *multipart.FileHeader) (*services.ImageFile, func(), bool) {
	f, err := fh.Open()
	if err != nil {
		logger.CtxWithError(c.Request.Context(), "Failed to open uploaded file", err)
		apperrors.HandleError(c, apperrors.InternalError(err))
		return nil, nil, false
	}
	return &services.ImageFile{Reader: f, Size: fh.Size}, func() { _ = f.Close() }, true
}

// ============================================================================
// 4. Обработчики ошибок
// ============================================================================

func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		logger.CtxWarn(ctx, "Service error",
			"error", appErr.Message,
			"details", appErr.Details,
			"path", c.Request.URL.Path,
		)
		apperrors.HandleError(c, appErr)
	} else {
		logger.CtxWithError(ctx, "Internal server error", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.InternalError(err))
	}
}

// ============================================================================
// 5. Вспомогательные функции
// ============================================================================

func (h *BaseHandler) GetAndAuthorizeUserID(c *gin.Context) (string, bool) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		logger.CtxWarn(c.Request.Context(), "Unauthorized access: userID not found in context",
			"path", c.Request.URL.Path,
			"ip", c.ClientIP(),
		)
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("User not authenticated"))
		return "", false
	}
	return userID, true
}
