package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func preflight(r *gin.Engine, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodOptions, "/api/generate", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCORSAllowsConfiguredOrigins(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS([]string{" https://meet.example.org/ ", ""}))
	r.OPTIONS("/api/generate", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	rec := preflight(r, "https://meet.example.org")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://meet.example.org" {
		t.Fatalf("unexpected allow-origin header: got=%q", got)
	}
	rec = preflight(r, "https://evil.example.com")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unlisted origin should not be allowed, got %q", got)
	}
}

func TestCORSDefaultsToLocalDev(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for _, origin := range DefaultOrigins {
		t.Run(origin, func(t *testing.T) {
			r := gin.New()
			r.Use(CORS(nil))
			r.OPTIONS("/api/generate", func(c *gin.Context) { c.Status(http.StatusNoContent) })
			if got := preflight(r, origin).Header().Get("Access-Control-Allow-Origin"); got != origin {
				t.Fatalf("unexpected allow-origin header: got=%q want=%q", got, origin)
			}
		})
	}
}
