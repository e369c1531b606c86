package middleware

import (
	"errors"
	"strings"

	"scholarhub_backend/internal/auth"
	"scholarhub_backend/internal/logger"
	"scholarhub_backend/internal/repositories"
	"scholarhub_backend/pkg/apperrors"
	"scholarhub_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// LegacyTokenHeader - заголовок старого клиента, принимается наравне с Authorization
const LegacyTokenHeader = "auth-token"

// Authenticator проверяет JWT и превращает его в auth.Principal
type Authenticator struct {
	secret      []byte
	users       repositories.UserRepository
	denyBlocked bool
}

func NewAuthenticator(secret []byte, users repositories.UserRepository, denyBlocked bool) *Authenticator {
	return &Authenticator{
		secret:      secret,
		users:       users,
		denyBlocked: denyBlocked,
	}
}

// AuthMiddleware - middleware проверки JWT. Должен стоять после DBMiddleware.
func (a *Authenticator) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		tokenStr := extractToken(c)
		if tokenStr == "" {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authorization header missing or invalid"))
			return
		}

		claims, err := auth.ParseToken(tokenStr, a.secret)
		if err != nil {
			logger.CtxDebug(ctx, "Token rejected", "error", err)
			apperrors.HandleError(c, apperrors.ErrInvalidToken)
			return
		}

		db, _ := c.MustGet(string(contextkeys.DBContextKey)).(*gorm.DB)
		user, err := a.users.FindByID(db.WithContext(ctx), claims.UserID)
		if err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				apperrors.HandleError(c, apperrors.ErrInvalidToken)
				return
			}
			logger.CtxWithError(ctx, "Failed to load token owner", err)
			apperrors.HandleError(c, apperrors.DatabaseError(err))
			return
		}

		if a.denyBlocked && user.IsBlocked {
			apperrors.HandleError(c, apperrors.ErrUserBlocked)
			return
		}

		principal := auth.Principal{UserID: user.ID, IsAdmin: user.IsAdmin}
		c.Set(string(contextkeys.PrincipalContextKey), principal)
		c.Request = c.Request.WithContext(logger.WithUserID(ctx, user.ID))
		c.Next()
	}
}

// RequireAdmin - пропускает только администраторов
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("User not authenticated"))
			return
		}
		if !principal.IsAdmin {
			logger.CtxWarn(c.Request.Context(), "Admin access denied", "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.ErrInsufficientPermissions)
			return
		}
		c.Next()
	}
}

// GetPrincipal извлекает principal из контекста
func GetPrincipal(c *gin.Context) (auth.Principal, bool) {
	val, exists := c.Get(string(contextkeys.PrincipalContextKey))
	if !exists {
		return auth.Principal{}, false
	}
	principal, ok := val.(auth.Principal)
	if !ok || principal.UserID == "" {
		return auth.Principal{}, false
	}
	return principal, true
}

func extractToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if strings.HasPrefix(header, "Bearer ") {
			return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		}
		return ""
	}
	return strings.TrimSpace(c.GetHeader(LegacyTokenHeader))
}
