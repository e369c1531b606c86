package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"scholarhub_backend/internal/auth"
	"scholarhub_backend/internal/middleware"
	"scholarhub_backend/internal/repositories"
	"scholarhub_backend/test/helpers"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var secret = []byte("middleware-secret")

func newRouter(db *gorm.DB, denyBlocked bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	authn := middleware.NewAuthenticator(secret, repositories.NewUserRepository(), denyBlocked)

	r := gin.New()
	r.Use(middleware.DBMiddleware(db))
	protected := r.Group("/", authn.AuthMiddleware())
	protected.GET("/me", func(c *gin.Context) {
		p, _ := middleware.GetPrincipal(c)
		c.String(http.StatusOK, p.UserID)
	})
	protected.GET("/admin", middleware.RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func do(r http.Handler, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareAcceptsBothHeaders(t *testing.T) {
	db := helpers.NewTestDB(t)
	user := helpers.CreateUser(t, db, "anna", "anna@test.com", false)
	token, err := auth.GenerateToken(user.ID, secret, time.Hour)
	require.NoError(t, err)
	r := newRouter(db, false)

	w := do(r, "/me", map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, user.ID, w.Body.String())

	w = do(r, "/me", map[string]string{middleware.LegacyTokenHeader: token})
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, "/me", map[string]string{"Authorization": "Bearer garbage"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")

	w = do(r, "/me", map[string]string{"Authorization": "Basic " + token})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsDeletedOrBlockedOwner(t *testing.T) {
	db := helpers.NewTestDB(t)
	blocked := helpers.CreateUser(t, db, "blocked", "blocked@test.com", false)
	blocked.SetBlocked(true)
	require.NoError(t, db.Save(blocked).Error)

	token, err := auth.GenerateToken(blocked.ID, secret, time.Hour)
	require.NoError(t, err)
	header := map[string]string{"Authorization": "Bearer " + token}

	assert.Equal(t, http.StatusOK, do(newRouter(db, false), "/me", header).Code)
	assert.Equal(t, http.StatusForbidden, do(newRouter(db, true), "/me", header).Code)

	ghost, err := auth.GenerateToken("no-such-user", secret, time.Hour)
	require.NoError(t, err)
	w := do(newRouter(db, false), "/me", map[string]string{"Authorization": "Bearer " + ghost})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	db := helpers.NewTestDB(t)
	admin := helpers.CreateUser(t, db, "admin", "admin@test.com", true)
	user := helpers.CreateUser(t, db, "anna", "anna@test.com", false)
	r := newRouter(db, false)

	adminToken, err := auth.GenerateToken(admin.ID, secret, time.Hour)
	require.NoError(t, err)
	userToken, err := auth.GenerateToken(user.ID, secret, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusNoContent, do(r, "/admin", map[string]string{"Authorization": "Bearer " + adminToken}).Code)
	assert.Equal(t, http.StatusForbidden, do(r, "/admin", map[string]string{"Authorization": "Bearer " + userToken}).Code)
}

func TestRateLimiterRejectsBurstOverflow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := middleware.NewRateLimiter(0.001, 2)

	r := gin.New()
	r.GET("/login", limiter.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, do(r, "/login", nil).Code)
	assert.Equal(t, http.StatusOK, do(r, "/login", nil).Code)
	w := do(r, "/login", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	limiter.Cleanup()
}
