package middleware

import (
	"strings"

	"campusjobs_backend/internal/auth"
	"campusjobs_backend/internal/logger"
	"campusjobs_backend/internal/models"
	"campusjobs_backend/pkg/apperrors"
	"campusjobs_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware - middleware проверки JWT из заголовка Authorization
func AuthMiddleware(tm *auth.TokenManager) gin.HandlerFunc {
	return requireToken(tm, bearerToken)
}

// WebSocketAuthMiddleware дополнительно принимает query-параметр token:
// браузерный WebSocket не умеет выставлять заголовки.
func WebSocketAuthMiddleware(tm *auth.TokenManager) gin.HandlerFunc {
	return requireToken(tm, func(c *gin.Context) string {
		if token := bearerToken(c); token != "" {
			return token
		}
		return c.Query("token")
	})
}

func requireToken(tm *auth.TokenManager, extract func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extract(c)
		if tokenStr == "" {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authorization header missing or invalid"))
			return
		}

		claims, err := tm.ParseToken(tokenStr)
		if err != nil {
			apperrors.HandleError(c, apperrors.ErrInvalidToken)
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware пропускает анонимные запросы, но разбирает токен, если он есть.
// Невалидный токен - все равно 401, чтобы клиент не получил молча анонимный ответ.
func OptionalAuthMiddleware(tm *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c)
		if tokenStr == "" {
			c.Next()
			return
		}

		claims, err := tm.ParseToken(tokenStr)
		if err != nil {
			apperrors.HandleError(c, apperrors.ErrInvalidToken)
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return ""
}

func setClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(contextkeys.UserIDKey, claims.UserID)
	c.Set(contextkeys.RoleKey, models.UserRole(claims.Role))

	ctx := logger.WithUserID(c.Request.Context(), claims.UserID)
	c.Request = c.Request.WithContext(ctx)
}

// RoleMiddleware - middleware ограничения по одной роли
func RoleMiddleware(requiredRole models.UserRole) gin.HandlerFunc {
	return RequireRoles(requiredRole)
}

// RequireRoles - middleware для проверки нескольких возможных ролей
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]bool, len(roles))
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		role, ok := GetRole(c)
		if !ok {
			apperrors.HandleError(c, apperrors.NewForbiddenError("Access denied: no role"))
			return
		}
		if !roleSet[role] {
			apperrors.HandleError(c, apperrors.NewForbiddenError("Access denied: insufficient role"))
			return
		}
		c.Next()
	}
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(c *gin.Context) string {
	userID, exists := c.Get(contextkeys.UserIDKey)
	if !exists {
		return ""
	}

	id, ok := userID.(string)
	if !ok {
		return ""
	}
	return id
}

// GetRole извлекает роль пользователя из контекста
func GetRole(c *gin.Context) (models.UserRole, bool) {
	roleVal, exists := c.Get(contextkeys.RoleKey)
	if !exists {
		return "", false
	}

	switch role := roleVal.(type) {
	case models.UserRole:
		return role, true
	case string:
		return models.UserRole(role), true
	}
	return "", false
}
