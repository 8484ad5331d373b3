package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/meet-highlight-backend/internal/data/docstore"
	"github.com/yungbote/meet-highlight-backend/internal/data/websession"
	"github.com/yungbote/meet-highlight-backend/internal/domain/user"
	httpH "github.com/yungbote/meet-highlight-backend/internal/http/handlers"
	httpMW "github.com/yungbote/meet-highlight-backend/internal/http/middleware"
	"github.com/yungbote/meet-highlight-backend/internal/platform/logger"
	"github.com/yungbote/meet-highlight-backend/internal/platform/mailer"
	"github.com/yungbote/meet-highlight-backend/internal/services"
)

type countingVerifier struct{ calls int }

func (v *countingVerifier) VerifyIDToken(_ context.Context, tok string) (user.User, error) {
	v.calls++
	return user.User{UID: "u-" + tok, Email: "t@example.com", Name: "Coach"}, nil
}

type nopMailer struct{ sent int }

func (m *nopMailer) Send(context.Context, mailer.Message) error {
	m.sent++
	return nil
}

type testEnv struct {
	router   *gin.Engine
	verifier *countingVerifier
	mailer   *nopMailer
}

func newTestEnv(t *testing.T, requireAuth bool) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.Nop()

	store, err := docstore.NewFileStore(log, t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	gen := services.NewGenerationClient(log, nil)
	v := &countingVerifier{}
	m := &nopMailer{}
	authSvc := services.NewAuthService(log, v, websession.NewMemoryStore(time.Hour))

	router := NewRouter(RouterConfig{
		Log:               log,
		RequireAuth:       requireAuth,
		AuthHandler:       httpH.NewAuthHandler(log, authSvc, httpH.CookieConfig{TTL: time.Hour}),
		AuthMiddleware:    httpMW.NewAuthMiddleware(log, authSvc),
		SessionHandler:    httpH.NewSessionHandler(log, services.NewSessionService(log, store, nil, 64), 64),
		GenerateHandler:   httpH.NewGenerateHandler(log, services.NewGenerateService(log, store, gen, []string{"Respect"})),
		TranscriptHandler: httpH.NewTranscriptHandler(log, services.NewTranscriptService(log, store)),
		EmailHandler:      httpH.NewEmailHandler(log, services.NewEmailService(log, m)),
		ChatHandler:       httpH.NewChatHandler(log, services.NewChatService(log, gen)),
		MeetValuesHandler: httpH.NewMeetValuesHandler([]string{"Respect", "Curiosity"}),
		HealthHandler:     httpH.NewHealthHandler(store.Name()),
	})
	return &testEnv{router: router, verifier: v, mailer: m}
}

func (e *testEnv) do(t *testing.T, method, path, body string, cookies ...*stdhttp.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) upload(t *testing.T, field, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if field != "" {
		fw, err := w.CreateFormFile(field, filename)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		_, _ = fw.Write(content)
	}
	_ = w.Close()
	req := httptest.NewRequest(stdhttp.MethodPost, "/api/files/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Error struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		} `json:"error"`
	}
	decode(t, rec, &env)
	return env.Error.Message
}

func TestHealthRoutes(t *testing.T) {
	env := newTestEnv(t, false)
	if rec := env.do(t, stdhttp.MethodGet, "/healthcheck", ""); rec.Code != 200 || rec.Body.String() != "ok" {
		t.Fatalf("healthcheck: %d %q", rec.Code, rec.Body.String())
	}
	rec := env.do(t, stdhttp.MethodGet, "/health", "")
	var body map[string]any
	decode(t, rec, &body)
	if body["ok"] != true {
		t.Fatalf("unexpected health body %v", body)
	}
	if rec.Header().Get(httpMW.HeaderRequestID) == "" {
		t.Fatalf("request id header should be set")
	}
}

func TestUploadRoute(t *testing.T) {
	env := newTestEnv(t, false)

	rec := env.upload(t, "", "", nil)
	if rec.Code != stdhttp.StatusBadRequest || errorMessage(t, rec) != "No file provided" {
		t.Fatalf("no file: %d %s", rec.Code, rec.Body.String())
	}
	rec = env.upload(t, "file", "big.txt", bytes.Repeat([]byte("a"), 65))
	if rec.Code != stdhttp.StatusRequestEntityTooLarge {
		t.Fatalf("too large: %d %s", rec.Code, rec.Body.String())
	}
	rec = env.upload(t, "file", "blank.txt", []byte("   "))
	if rec.Code != stdhttp.StatusBadRequest || errorMessage(t, rec) != "Unable to extract text" {
		t.Fatalf("blank: %d %s", rec.Code, rec.Body.String())
	}

	rec = env.upload(t, "file", "notes.txt", []byte("Hello"))
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("upload: %d %s", rec.Code, rec.Body.String())
	}
	var res services.UploadResult
	decode(t, rec, &res)
	if res.SessionID == "" || res.Chars != 5 || res.Slides != 1 || len(res.Images) != 0 {
		t.Fatalf("unexpected upload result %+v", res)
	}

	rec = env.do(t, stdhttp.MethodGet, "/api/sessions/"+res.SessionID, "")
	var doc map[string]any
	decode(t, rec, &doc)
	if doc["slides_text"] != "Hello" || doc["name"] != "notes.txt" {
		t.Fatalf("unexpected session %v", doc)
	}

	rec = env.do(t, stdhttp.MethodGet, "/api/sessions", "")
	var list []map[string]string
	decode(t, rec, &list)
	if len(list) != 1 || list[0]["id"] != res.SessionID {
		t.Fatalf("unexpected session list %v", list)
	}
}

func TestSessionNotFoundAndDownload(t *testing.T) {
	env := newTestEnv(t, false)
	rec := env.do(t, stdhttp.MethodGet, "/api/sessions/missing", "")
	if rec.Code != stdhttp.StatusNotFound || errorMessage(t, rec) != "Session not found" {
		t.Fatalf("missing session: %d %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, stdhttp.MethodGet, "/api/sessions/missing/download", "")
	if rec.Code != 200 || rec.Body.String() != "No script available." {
		t.Fatalf("download: %d %q", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="script_missing.txt"` {
		t.Fatalf("unexpected disposition %q", got)
	}
}

func TestGenerateRoutes(t *testing.T) {
	env := newTestEnv(t, false)

	rec := env.do(t, stdhttp.MethodPost, "/api/generate", "")
	if rec.Code != stdhttp.StatusBadRequest || errorMessage(t, rec) != "slides_text is required" {
		t.Fatalf("blank body: %d %s", rec.Code, rec.Body.String())
	}
	rec = env.do(t, stdhttp.MethodPost, "/api/generate", "{not json")
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("bad json: %d", rec.Code)
	}

	rec = env.do(t, stdhttp.MethodPost, "/api/generate", `{"slides_text":"Loops","custom_ideas":"relay, quiz"}`)
	if rec.Code != 200 {
		t.Fatalf("generate: %d %s", rec.Code, rec.Body.String())
	}
	var res struct {
		SessionID       string `json:"session_id"`
		HighlightScript string `json:"highlight_script"`
		MissingSupport  struct {
			SlidesNeeded []string `json:"slides_needed"`
			Props        []string `json:"props"`
		} `json:"missing_support"`
	}
	decode(t, rec, &res)
	if res.SessionID == "" || !strings.HasPrefix(res.HighlightScript, "[00:00-05:00] Arrival Reset") {
		t.Fatalf("unexpected generate result %+v", res)
	}
	if res.MissingSupport.SlidesNeeded == nil || res.MissingSupport.Props == nil {
		t.Fatalf("missing support lists should be empty arrays, got %s", rec.Body.String())
	}

	rec = env.do(t, stdhttp.MethodGet, "/api/sessions/"+res.SessionID+"/download", "")
	if !strings.HasPrefix(rec.Body.String(), "[00:00-05:00]") {
		t.Fatalf("download should return the script, got %q", rec.Body.String())
	}

	rec = env.do(t, stdhttp.MethodPost, "/api/sessions/missing/generate", "{}")
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("generate for missing session: %d", rec.Code)
	}
}

func TestTranscriptRoutes(t *testing.T) {
	env := newTestEnv(t, false)

	rec := env.do(t, stdhttp.MethodPost, "/api/transcripts", `{"slides":[]}`)
	if rec.Code != stdhttp.StatusBadRequest || errorMessage(t, rec) != "Expected a list of slides" {
		t.Fatalf("object body: %d %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, stdhttp.MethodPost, "/api/transcripts", `[{"slide":1,"script":"hi"}]`)
	var created map[string]string
	decode(t, rec, &created)
	id := created["id"]
	if id == "" {
		t.Fatalf("no id in %s", rec.Body.String())
	}

	rec = env.do(t, stdhttp.MethodPut, "/api/transcripts/"+id, `[{"slide":1},{"slide":2}]`)
	var updated map[string]any
	decode(t, rec, &updated)
	if updated["id"] != id || updated["updated"] != true {
		t.Fatalf("unexpected update response %v", updated)
	}

	rec = env.do(t, stdhttp.MethodGet, "/api/transcripts/"+id, "")
	var items []any
	decode(t, rec, &items)
	if len(items) != 2 {
		t.Fatalf("want 2 items, got %v", items)
	}

	rec = env.do(t, stdhttp.MethodGet, "/api/transcripts/nope", "")
	if rec.Code != stdhttp.StatusNotFound || errorMessage(t, rec) != "Not found" {
		t.Fatalf("missing transcript: %d %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, stdhttp.MethodGet, "/api/transcripts", "")
	var list []map[string]string
	decode(t, rec, &list)
	if len(list) != 1 || list[0]["id"] != id {
		t.Fatalf("unexpected list %v", list)
	}
}

func TestEmailChatAndMeetValues(t *testing.T) {
	env := newTestEnv(t, false)

	rec := env.do(t, stdhttp.MethodPost, "/api/email", `{"to":"a@b.c","html":"  "}`)
	if rec.Code != stdhttp.StatusBadRequest || errorMessage(t, rec) != "to & html required" {
		t.Fatalf("email validation: %d %s", rec.Code, rec.Body.String())
	}
	rec = env.do(t, stdhttp.MethodPost, "/api/email", `{"to":"a@b.c","html":"<p>hi</p>"}`)
	if rec.Code != 200 || env.mailer.sent != 1 {
		t.Fatalf("email send: %d sent=%d", rec.Code, env.mailer.sent)
	}

	rec = env.do(t, stdhttp.MethodPost, "/api/chat/condense", `{"messages":[{"role":"assistant","content":"hello  there"}]}`)
	var condensed map[string]string
	decode(t, rec, &condensed)
	if condensed["prompt"] != "- assistant: hello there" {
		t.Fatalf("unexpected condense %v", condensed)
	}

	rec = env.do(t, stdhttp.MethodGet, "/api/meet-values", "")
	var values []string
	decode(t, rec, &values)
	if len(values) != 2 || values[0] != "Respect" {
		t.Fatalf("unexpected values %v", values)
	}
}

func sessionCookie(rec *httptest.ResponseRecorder) *stdhttp.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == httpMW.SessionCookie {
			return c
		}
	}
	return nil
}

func TestAuthRoutes(t *testing.T) {
	env := newTestEnv(t, true)

	rec := env.do(t, stdhttp.MethodPost, "/auth/session", `{"idToken":""}`)
	if rec.Code != stdhttp.StatusBadRequest || env.verifier.calls != 0 {
		t.Fatalf("empty token: %d calls=%d", rec.Code, env.verifier.calls)
	}

	rec = env.do(t, stdhttp.MethodGet, "/api/meet-values", "")
	if rec.Code != stdhttp.StatusUnauthorized {
		t.Fatalf("protected route without cookie: %d", rec.Code)
	}

	rec = env.do(t, stdhttp.MethodPost, "/auth/session", `{"idToken":"abc"}`)
	cookie := sessionCookie(rec)
	if rec.Code != 200 || cookie == nil || cookie.Value == "" || !cookie.HttpOnly {
		t.Fatalf("login: %d cookie=%+v", rec.Code, cookie)
	}

	rec = env.do(t, stdhttp.MethodGet, "/auth/me", "", cookie)
	var me user.User
	decode(t, rec, &me)
	if me.UID != "u-abc" || me.Name != "Coach" {
		t.Fatalf("unexpected me %+v", me)
	}
	if rec := env.do(t, stdhttp.MethodGet, "/api/meet-values", "", cookie); rec.Code != 200 {
		t.Fatalf("protected route with cookie: %d", rec.Code)
	}

	rec = env.do(t, stdhttp.MethodPost, "/auth/logout", "", cookie)
	if rec.Code != 200 {
		t.Fatalf("logout: %d", rec.Code)
	}
	if rec := env.do(t, stdhttp.MethodGet, "/auth/me", "", cookie); rec.Code != stdhttp.StatusUnauthorized {
		t.Fatalf("me after logout: %d", rec.Code)
	}
}
