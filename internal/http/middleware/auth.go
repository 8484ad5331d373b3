package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/meet-highlight-backend/internal/http/response"
	"github.com/yungbote/meet-highlight-backend/internal/platform/ctxutil"
	"github.com/yungbote/meet-highlight-backend/internal/platform/logger"
	"github.com/yungbote/meet-highlight-backend/internal/services"
)

var errNotSignedIn = errors.New("Not signed in")

// SessionCookie holds the server-side auth session id.
const SessionCookie = "meet_session"

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "AuthMiddleware"), authService: authService}
}

// AttachUser loads the signed-in user, if any, into the request context.
// Requests without a valid session pass through untouched.
func (am *AuthMiddleware) AttachUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(SessionCookie)
		if err != nil || sid == "" {
			c.Next()
			return
		}
		u, err := am.authService.Current(c.Request.Context(), sid)
		if err != nil {
			am.log.Debug("Ignoring invalid auth session", "error", err)
			c.Next()
			return
		}
		ctx := ctxutil.WithUserData(c.Request.Context(), &ctxutil.UserData{
			UID:           u.UID,
			Email:         u.Email,
			Name:          u.Name,
			AuthSessionID: sid,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireUser rejects requests AttachUser could not authenticate.
func (am *AuthMiddleware) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if ud := ctxutil.GetUserData(c.Request.Context()); ud == nil || ud.UID == "" {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", errNotSignedIn)
			c.Abort()
			return
		}
		c.Next()
	}
}
