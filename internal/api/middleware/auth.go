// internal/api/middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// LoginKey is the gin context key under which RequireAuth stores the
// authenticated login handle.
const LoginKey = "auth.login"

// TokenVerifier validates a token and returns the subject login.
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

// RequireAuth validates the access-token cookie and aborts with 401 when it
// is missing or invalid.
func RequireAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("accessToken")
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status_code": http.StatusUnauthorized})
			return
		}

		login, err := verifier.VerifyToken(token)
		if err != nil {
			log.Warn().Err(err).Str("ip", c.ClientIP()).Msg("rejected access token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status_code": http.StatusUnauthorized})
			return
		}

		c.Set(LoginKey, login)
		c.Next()
	}
}
