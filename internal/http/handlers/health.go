package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	storeName string
}

// NewHealthHandler reports storeName so operators can see which document
// backend won selection at startup.
func NewHealthHandler(storeName string) *HealthHandler {
	return &HealthHandler{storeName: storeName}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "store": h.storeName})
}
