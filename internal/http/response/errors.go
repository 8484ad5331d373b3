package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/meet-highlight-backend/internal/platform/apierr"
)

var errInternal = errors.New("internal error")

// RespondAPIError maps err onto the error envelope. Errors that carry no
// status are reported as a generic 500 without leaking their text.
func RespondAPIError(c *gin.Context, err error) {
	_ = c.Error(err)
	if ae, ok := apierr.As(err); ok {
		status := ae.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		RespondError(c, status, ae.Code, ae)
		return
	}
	RespondError(c, http.StatusInternalServerError, "internal", errInternal)
}
