package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campusjobs_backend/internal/auth"
	"campusjobs_backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		role, _ := GetRole(c)
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c), "role": role})
	})
	r.GET("/", handlers...)
	return r
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	tm := auth.NewTokenManager("secret", time.Hour)
	token, _, err := tm.GenerateToken("user-1", string(models.UserRoleCompany))
	require.NoError(t, err)

	r := newRouter(AuthMiddleware(tm))

	t.Run("missing header", func(t *testing.T) {
		w := do(r, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("bad token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		w := do(r, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
	})

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := do(r, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user_id":"user-1","role":"company"}`, w.Body.String())
	})

	t.Run("query token is ignored", func(t *testing.T) {
		w := do(r, httptest.NewRequest(http.MethodGet, "/?token="+token, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestWebSocketAuthMiddleware(t *testing.T) {
	tm := auth.NewTokenManager("secret", time.Hour)
	token, _, err := tm.GenerateToken("user-1", string(models.UserRoleStudent))
	require.NoError(t, err)

	r := newRouter(WebSocketAuthMiddleware(tm))

	w := do(r, httptest.NewRequest(http.MethodGet, "/?token="+token, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":"user-1","role":"student"}`, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, do(r, req).Code)

	assert.Equal(t, http.StatusUnauthorized, do(r, httptest.NewRequest(http.MethodGet, "/?token=garbage", nil)).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
}

func TestOptionalAuthMiddleware(t *testing.T) {
	tm := auth.NewTokenManager("secret", time.Hour)
	r := newRouter(OptionalAuthMiddleware(tm))

	w := do(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":"","role":""}`, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, do(r, req).Code)
}

func TestRequireRoles(t *testing.T) {
	tm := auth.NewTokenManager("secret", time.Hour)
	r := newRouter(AuthMiddleware(tm), RequireRoles(models.UserRoleAdmin))

	for role, want := range map[models.UserRole]int{
		models.UserRoleAdmin:   http.StatusOK,
		models.UserRoleStudent: http.StatusForbidden,
	} {
		token, _, err := tm.GenerateToken("u", string(role))
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		assert.Equal(t, want, do(r, req).Code, role)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	r := newRouter(RequestIDMiddleware())

	w := do(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = do(r, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestMemoryLimiter(t *testing.T) {
	l := NewMemoryLimiter()
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("k", 2, time.Minute))
	assert.True(t, l.Allow("k", 2, time.Minute))
	assert.False(t, l.Allow("k", 2, time.Minute))
	assert.True(t, l.Allow("other", 2, time.Minute))

	now = now.Add(2 * time.Minute)
	assert.True(t, l.Allow("k", 2, time.Minute))
}

func TestRateLimitMiddleware(t *testing.T) {
	r := newRouter(RateLimitMiddleware(NewMemoryLimiter(), "auth", 1, time.Minute))

	assert.Equal(t, http.StatusOK, do(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	w := do(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "TOO_MANY_REQUESTS")
}

func TestRedisLimiter_NilFailsOpen(t *testing.T) {
	var l *RedisLimiter
	assert.Nil(t, NewRedisLimiter(nil))
	assert.True(t, l.Allow("k", 1, time.Second))
}
