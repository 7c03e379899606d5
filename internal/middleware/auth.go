package middleware

import (
	"errors"
	"net/http"
	"strings"

	"sairaklin-backend/internal/services"
	"sairaklin-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

var errNoBearer = errors.New("bearer token missing")

// BearerToken mengambil token dari header "Authorization: Bearer <token>".
func BearerToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", errNoBearer
	}

	// Format harus "Bearer <token>"
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errNoBearer
	}
	return parts[1], nil
}

// AuthMiddleware me-resolve token -> session sebelum handler jalan. Gagal = 401.
func AuthMiddleware(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := BearerToken(c)
		if err != nil {
			utils.AbortResponse(c, http.StatusUnauthorized, "Token tidak ditemukan")
			return
		}

		session, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if appErr, ok := services.AsError(err); ok && appErr.Kind == services.KindAuthentication {
				utils.AbortResponse(c, http.StatusUnauthorized, appErr.Message)
				return
			}
			utils.ErrorLogger.WithError(err).Error("authenticate failed")
			utils.AbortResponse(c, http.StatusInternalServerError, "Terjadi kesalahan pada server")
			return
		}

		c.Set(sessionKey, session)
		c.Set("userID", session.User.ID)
		c.Set("role", session.User.Role)
		c.Request = c.Request.WithContext(services.ContextWithSession(c.Request.Context(), session))

		c.Next()
	}
}

// AdminOnly: hanya role admin (dibaca dari database, bukan dari klaim token).
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := CurrentSession(c)
		if session == nil {
			utils.AbortResponse(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if !session.IsAdmin() {
			utils.AbortResponse(c, http.StatusForbidden, "Akses Ditolak: Khusus Admin")
			return
		}
		c.Next()
	}
}

// CurrentSession session milik request, nil kalau belum lewat AuthMiddleware.
func CurrentSession(c *gin.Context) *services.Session {
	val, exists := c.Get(sessionKey)
	if !exists {
		return nil
	}
	session, _ := val.(*services.Session)
	return session
}
