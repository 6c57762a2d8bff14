// internal/api/handlers/user_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/storeops/replenish-backend/internal/domain"
	"github.com/storeops/replenish-backend/internal/service"
)

type UserHandler struct {
	authService  *service.AuthService
	cookieDomain string
}

func NewUserHandler(authService *service.AuthService, cookieDomain string) *UserHandler {
	return &UserHandler{authService: authService, cookieDomain: cookieDomain}
}

type signInRequest struct {
	ID string `json:"id"`
	PW string `json:"pw"`
}

// SignIn verifies credentials and sets the access/refresh token cookies.
func (h *UserHandler) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status_code": http.StatusBadRequest})
		return
	}

	user, pair, err := h.authService.SignIn(c.Request.Context(), req.ID, req.PW)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrBadCredentials) {
			log.Warn().Str("id", req.ID).Str("ip", c.ClientIP()).Msg("rejected sign-in")
			c.JSON(http.StatusOK, gin.H{"status_code": http.StatusUnauthorized})
			return
		}
		log.Error().Err(err).Msg("sign-in failed")
		c.JSON(http.StatusOK, gin.H{"status_code": http.StatusInternalServerError})
		return
	}

	h.setTokenCookies(c, pair)
	c.JSON(http.StatusOK, gin.H{"status_code": http.StatusOK, "user": user})
}

// SignOut clears both token cookies.
func (h *UserHandler) SignOut(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie("accessToken", "", -1, "/", h.cookieDomain, true, true)
	c.SetCookie("refreshToken", "", -1, "/", h.cookieDomain, true, true)
	c.JSON(http.StatusOK, gin.H{"status_code": http.StatusOK})
}

// Auth re-validates a session from the refresh token cookie and rotates both
// tokens, so an open tab stays signed in past the access token's lifetime.
func (h *UserHandler) Auth(c *gin.Context) {
	refresh, err := c.Cookie("refreshToken")
	if err != nil || refresh == "" {
		c.JSON(http.StatusOK, gin.H{"status_code": http.StatusUnauthorized})
		return
	}

	user, pair, err := h.authService.Refresh(c.Request.Context(), refresh)
	if err != nil {
		log.Warn().Err(err).Str("ip", c.ClientIP()).Msg("rejected session refresh")
		c.JSON(http.StatusOK, gin.H{"status_code": http.StatusUnauthorized})
		return
	}

	h.setTokenCookies(c, pair)
	c.JSON(http.StatusOK, gin.H{"status_code": http.StatusOK, "user": user})
}

type signUpRequest struct {
	ID        string `json:"id"`
	PW        string `json:"pw"`
	Name      string `json:"name"`
	Location  string `json:"location"`
	Privilege string `json:"privilege"`
}

// SignUp creates an account with a bcrypt-hashed password.
func (h *UserHandler) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" || req.PW == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status_code": http.StatusBadRequest})
		return
	}

	user := &domain.User{
		ID:        req.ID,
		Name:      req.Name,
		Location:  req.Location,
		Privilege: req.Privilege,
	}
	if err := h.authService.SignUp(c.Request.Context(), user, req.PW); err != nil {
		log.Error().Err(err).Str("id", req.ID).Msg("sign-up failed")
		c.JSON(http.StatusOK, gin.H{"status_code": http.StatusInternalServerError})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status_code": http.StatusOK})
}

func (h *UserHandler) setTokenCookies(c *gin.Context, pair *service.TokenPair) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie("accessToken", pair.Access, int(service.AccessTokenTTL.Seconds()), "/", h.cookieDomain, true, true)
	c.SetCookie("refreshToken", pair.Refresh, int(service.RefreshTokenTTL.Seconds()), "/", h.cookieDomain, true, true)
}
