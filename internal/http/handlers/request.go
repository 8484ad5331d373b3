package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

const maxJSONBody = 8 << 20

var errInvalidJSON = errors.New("Invalid JSON body")

// decodeJSON reads the request body into out. An empty body leaves out
// untouched so handlers can apply their own "required field" checks.
func decodeJSON(c *gin.Context, out any) error {
	raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxJSONBody))
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errInvalidJSON
	}
	return nil
}
