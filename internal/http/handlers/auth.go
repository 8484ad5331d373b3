package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/meet-highlight-backend/internal/http/middleware"
	"github.com/yungbote/meet-highlight-backend/internal/http/response"
	"github.com/yungbote/meet-highlight-backend/internal/platform/logger"
	"github.com/yungbote/meet-highlight-backend/internal/services"
)

type CookieConfig struct {
	TTL    time.Duration
	Secure bool
}

type AuthHandler struct {
	log         *logger.Logger
	authService services.AuthService
	cookie      CookieConfig
}

func NewAuthHandler(log *logger.Logger, authService services.AuthService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{log: log.With("handler", "AuthHandler"), authService: authService, cookie: cookie}
}

// CreateSession exchanges an ID token for the session cookie.
func (ah *AuthHandler) CreateSession(c *gin.Context) {
	var req struct {
		IDToken string `json:"idToken"`
	}
	if err := decodeJSON(c, &req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	sid, u, err := ah.authService.Login(c.Request.Context(), req.IDToken)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	ah.setCookie(c, sid, int(ah.cookie.TTL.Seconds()))
	response.RespondOK(c, gin.H{"ok": true, "user": u})
}

func (ah *AuthHandler) Logout(c *gin.Context) {
	if sid, err := c.Cookie(middleware.SessionCookie); err == nil && sid != "" {
		if err := ah.authService.Logout(c.Request.Context(), sid); err != nil {
			response.RespondAPIError(c, err)
			return
		}
	}
	ah.setCookie(c, "", -1)
	response.RespondOK(c, gin.H{"ok": true})
}

func (ah *AuthHandler) Me(c *gin.Context) {
	sid, _ := c.Cookie(middleware.SessionCookie)
	u, err := ah.authService.Current(c.Request.Context(), sid)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, u)
}

func (ah *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, value, maxAge, "/", "", ah.cookie.Secure, true)
}
