package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/yungbote/meet-highlight-backend/internal/data/docstore"
	"github.com/yungbote/meet-highlight-backend/internal/data/websession"
	"github.com/yungbote/meet-highlight-backend/internal/domain/highlight"
	"github.com/yungbote/meet-highlight-backend/internal/domain/user"
	"github.com/yungbote/meet-highlight-backend/internal/platform/apierr"
	"github.com/yungbote/meet-highlight-backend/internal/platform/logger"
	"github.com/yungbote/meet-highlight-backend/internal/platform/mailer"
)

type stubModel struct {
	reply   string
	err     error
	calls   int
	prompts []string
}

func (m *stubModel) GenerateText(_ context.Context, _ string, user string) (string, error) {
	m.calls++
	m.prompts = append(m.prompts, user)
	return m.reply, m.err
}

func (m *stubModel) Model() string { return "stub" }

type stubRenderer struct {
	paths []string
	err   error
	calls int
}

func (r *stubRenderer) Render(_ context.Context, _ string, _ []byte, sid string) ([]string, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	out := make([]string, len(r.paths))
	for i, p := range r.paths {
		out[i] = fmt.Sprintf(p, sid)
	}
	return out, nil
}

func newStore(t *testing.T) docstore.Store {
	t.Helper()
	s, err := docstore.NewFileStore(logger.Nop(), t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return s
}

func wantStatus(t *testing.T, err error, status int) {
	t.Helper()
	ae, ok := apierr.As(err)
	if !ok {
		t.Fatalf("want apierr with status %d, got %v", status, err)
	}
	if ae.Status != status {
		t.Fatalf("want status %d, got %d (%v)", status, ae.Status, err)
	}
}

// buildPDF writes a minimal uncompressed PDF with one text line per page.
func buildPDF(pages ...string) []byte {
	var objs []string
	n := len(pages)
	kids := make([]string, n)
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	objs = append(objs,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	)
	for i, text := range pages {
		stream := fmt.Sprintf("BT /F1 12 Tf 72 712 Td (%s) Tj ET", text)
		objs = append(objs,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, body := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objs)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return buf.Bytes()
}

func TestGenerationClientOffline(t *testing.T) {
	g := NewGenerationClient(logger.Nop(), nil)
	if !g.Offline() {
		t.Fatalf("nil model should be offline")
	}
	if got := g.Complete(context.Background(), "anything"); got != PlaceholderScript {
		t.Fatalf("unexpected placeholder %q", got)
	}
	msgs := make([]highlight.ChatMessage, 0, 12)
	for i := 0; i < 12; i++ {
		msgs = append(msgs, highlight.ChatMessage{Role: "user", Content: fmt.Sprintf("m%d", i)})
	}
	got := g.CondenseChat(context.Background(), msgs)
	lines := strings.Split(got, "\n")
	if len(lines) != 10 || lines[0] != "- user: m2" || lines[9] != "- user: m11" {
		t.Fatalf("unexpected condense fallback %q", got)
	}
}

func TestGenerationClientFailures(t *testing.T) {
	m := &stubModel{err: errors.New("quota exceeded")}
	g := NewGenerationClient(logger.Nop(), m)

	out := g.Complete(context.Background(), "p")
	if !IsErrorOutput(out) || !strings.Contains(out, "quota exceeded") {
		t.Fatalf("want [ERROR] diagnostic, got %q", out)
	}
	if got := g.CondenseChat(context.Background(), []highlight.ChatMessage{{Role: "user", Content: "x"}}); got != "" {
		t.Fatalf("condense failure should be empty, got %q", got)
	}

	m.err, m.reply = nil, "  script  \n"
	if got := g.Complete(context.Background(), "p"); got != "script" {
		t.Fatalf("want trimmed output, got %q", got)
	}
}

func TestUploadValidation(t *testing.T) {
	svc := NewSessionService(logger.Nop(), newStore(t), nil, 10)
	ctx := context.Background()

	_, err := svc.Upload(ctx, "  ", []byte("hi"))
	wantStatus(t, err, http.StatusBadRequest)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("empty filename should be a validation error")
	}
	_, err = svc.Upload(ctx, "a.txt", []byte("01234567890"))
	wantStatus(t, err, http.StatusRequestEntityTooLarge)
	_, err = svc.Upload(ctx, "a.txt", []byte("   \n"))
	wantStatus(t, err, http.StatusBadRequest)
	_, err = svc.Upload(ctx, "a.bin", []byte{0, 1, 2})
	wantStatus(t, err, http.StatusBadRequest)
}

func TestUploadTextSkipsRenderer(t *testing.T) {
	store := newStore(t)
	r := &stubRenderer{}
	svc := NewSessionService(logger.Nop(), store, r, 1<<20)

	res, err := svc.Upload(context.Background(), "notes.txt", []byte("Hello"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if res.Chars != 5 || res.Slides != 1 || len(res.Images) != 0 || res.Warning != "" {
		t.Fatalf("unexpected result %+v", res)
	}
	if r.calls != 0 {
		t.Fatalf("text uploads should not render")
	}
	doc, err := svc.Get(context.Background(), res.SessionID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	sess := highlight.SessionFromDoc(res.SessionID, doc)
	if sess.Name != "notes.txt" || sess.SlidesText != "Hello" || sess.Kind() != highlight.KindTXT {
		t.Fatalf("unexpected session %+v", sess)
	}
}

func TestUploadRenderFailureIsSoft(t *testing.T) {
	store := newStore(t)
	r := &stubRenderer{err: errors.New("pdftoppm missing")}
	svc := NewSessionService(logger.Nop(), store, r, 1<<20)

	res, err := svc.Upload(context.Background(), "deck.pdf", buildPDF("one", "two"))
	if err != nil {
		t.Fatalf("render failure must not fail upload: %v", err)
	}
	if res.Warning == "" || len(res.Images) != 0 {
		t.Fatalf("want warning and no images, got %+v", res)
	}
	if _, err := svc.Get(context.Background(), res.SessionID); err != nil {
		t.Fatalf("session should exist: %v", err)
	}
}

func TestGetUnknownSession(t *testing.T) {
	svc := NewSessionService(logger.Nop(), newStore(t), nil, 0)
	_, err := svc.Get(context.Background(), "missing")
	wantStatus(t, err, http.StatusNotFound)
	if err.Error() != "Session not found" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if got := svc.ScriptText(context.Background(), "missing"); got != "" {
		t.Fatalf("want empty script, got %q", got)
	}
}

func TestGenerateValidationAndEmpty(t *testing.T) {
	m := &stubModel{reply: "   "}
	svc := NewGenerateService(logger.Nop(), newStore(t), NewGenerationClient(logger.Nop(), m), nil)

	_, err := svc.Generate(context.Background(), GenerateRequest{SlidesText: " "})
	wantStatus(t, err, http.StatusBadRequest)
	if m.calls != 0 {
		t.Fatalf("blank slides must not reach the model")
	}

	_, err = svc.Generate(context.Background(), GenerateRequest{SlidesText: "Intro"})
	wantStatus(t, err, http.StatusBadGateway)
	if !errors.Is(err, ErrUpstreamEmpty) {
		t.Fatalf("want ErrUpstreamEmpty, got %v", err)
	}
}

func TestGenerateOfflineSnapshot(t *testing.T) {
	store := newStore(t)
	svc := NewGenerateService(logger.Nop(), store, NewGenerationClient(logger.Nop(), nil), []string{"Respect"})

	res, err := svc.Generate(context.Background(), GenerateRequest{
		SlidesText: "Intro to loops",
		Config:     highlight.GenerationConfig{FreeTextNotes: []string{"bring markers"}},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.HighlightScript != strings.TrimSpace(PlaceholderScript) || res.Mode != highlight.ModeWholeDeck {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(res.MissingSupport.SlidesNeeded) != 0 || len(res.MissingSupport.Props) != 0 {
		t.Fatalf("placeholder declares no missing support, got %+v", res.MissingSupport)
	}

	doc, err := store.LoadSession(context.Background(), res.SessionID)
	if err != nil {
		t.Fatalf("snapshot not stored: %v", err)
	}
	sess := highlight.SessionFromDoc(res.SessionID, doc)
	if sess.Name != highlight.GeneratedSessionName || sess.HighlightScript != res.HighlightScript {
		t.Fatalf("unexpected snapshot %+v", sess)
	}
	modes := highlight.StringList(sess.Config["requested_modes"])
	if len(modes) != 1 || modes[0] != highlight.DefaultRequestedMode {
		t.Fatalf("requested modes should default, got %v", modes)
	}
	if values := highlight.StringList(sess.Config["meet_values"]); len(values) != 1 || values[0] != "Respect" {
		t.Fatalf("default meet values should apply, got %v", values)
	}
}

func TestGenerateKeepsErrorDiagnostic(t *testing.T) {
	m := &stubModel{err: errors.New("boom")}
	svc := NewGenerateService(logger.Nop(), newStore(t), NewGenerationClient(logger.Nop(), m), nil)
	res, err := svc.Generate(context.Background(), GenerateRequest{SlidesText: "x"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !IsErrorOutput(res.HighlightScript) {
		t.Fatalf("diagnostic should flow through as the script, got %q", res.HighlightScript)
	}
}

func TestUploadThenGenerateSlideAligned(t *testing.T) {
	store := newStore(t)
	r := &stubRenderer{paths: []string{"/static/uploads/%s/page_001.png", "/static/uploads/%s/page_002.png"}}
	sessions := NewSessionService(logger.Nop(), store, r, 1<<20)

	up, err := sessions.Upload(context.Background(), "deck.pdf", buildPDF("Loops", "Functions"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if up.Slides != 2 || len(up.Images) != 2 {
		t.Fatalf("want 2 slides and 2 images, got %+v", up)
	}
	if !strings.HasSuffix(up.Images[0], "page_001.png") || !strings.HasSuffix(up.Images[1], "page_002.png") {
		t.Fatalf("unexpected image paths %v", up.Images)
	}
	doc, _ := store.LoadSession(context.Background(), up.SessionID)
	stored := highlight.SessionFromDoc(up.SessionID, doc)
	if len(stored.SlideTexts) != 2 || len(stored.Images) != 2 || stored.Name != "deck.pdf" {
		t.Fatalf("unexpected stored session %+v", stored)
	}

	fixture := "[Slide 1]\n- Hook: loop race\n\n[Slide 2]\n- Hook: function machine\nMissing support: slides_needed=[\"diagram\"], props=[\"markers\"]"
	m := &stubModel{reply: fixture}
	gen := NewGenerateService(logger.Nop(), store, NewGenerationClient(logger.Nop(), m), nil)
	res, err := gen.GenerateForSession(context.Background(), up.SessionID, highlight.GenerationConfig{})
	if err != nil {
		t.Fatalf("GenerateForSession: %v", err)
	}
	if res.Mode != highlight.ModeSlideAligned {
		t.Fatalf("want slide-aligned mode, got %s", res.Mode)
	}
	if n := strings.Count(res.HighlightScript, "[Slide "); n != 2 {
		t.Fatalf("want 2 slide blocks, got %d", n)
	}
	if got := res.MissingSupport; len(got.SlidesNeeded) != 1 || got.SlidesNeeded[0] != "diagram" || got.Props[0] != "markers" {
		t.Fatalf("unexpected missing support %+v", got)
	}
	if m.calls != 1 || !strings.Contains(m.prompts[0], "Slide 2:") {
		t.Fatalf("expected one slide-aligned prompt, got %d calls", m.calls)
	}

	snap, _ := store.LoadSession(context.Background(), res.SessionID)
	if snap[highlight.FieldSourceSession] != up.SessionID {
		t.Fatalf("snapshot should reference its source, got %v", snap[highlight.FieldSourceSession])
	}
}

func TestTranscriptService(t *testing.T) {
	svc := NewTranscriptService(logger.Nop(), newStore(t))
	ctx := context.Background()

	if _, err := svc.Create(ctx, nil); !errors.Is(err, ErrValidation) {
		t.Fatalf("nil list should be rejected, got %v", err)
	}
	id, err := svc.Create(ctx, []any{map[string]any{"title": "a"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Replace(ctx, id, []any{"x", "y"}); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	items, err := svc.Get(ctx, id)
	if err != nil || len(items) != 2 {
		t.Fatalf("Get: items=%v err=%v", items, err)
	}
	_, err = svc.Get(ctx, "missing")
	wantStatus(t, err, http.StatusNotFound)
	ids, _ := svc.List(ctx)
	if len(ids) != 1 || ids[0] != id {
		t.Fatalf("unexpected ids %v", ids)
	}
}

type recordingMailer struct {
	err  error
	sent []mailer.Message
}

func (m *recordingMailer) Send(_ context.Context, msg mailer.Message) error {
	m.sent = append(m.sent, msg)
	return m.err
}

func TestEmailService(t *testing.T) {
	m := &recordingMailer{}
	svc := NewEmailService(logger.Nop(), m)
	ctx := context.Background()

	err := svc.Send(ctx, "", "s", "<p>x</p>")
	wantStatus(t, err, http.StatusBadRequest)
	if err.Error() != "to & html required" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if err := svc.Send(ctx, "a@b.c", "", "<p>x</p>"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(m.sent) != 1 || m.sent[0].Subject != DefaultEmailSubject {
		t.Fatalf("default subject not applied: %+v", m.sent)
	}

	m.err = errors.New("535 auth failed")
	err = svc.Send(ctx, "a@b.c", "s", "<p>x</p>")
	wantStatus(t, err, http.StatusInternalServerError)
	if err.Error() != "535 auth failed" {
		t.Fatalf("relay error should propagate verbatim, got %q", err.Error())
	}

	m.err = mailer.ErrNotConfigured
	if err := svc.Send(ctx, "a@b.c", "s", "<p>x</p>"); !errors.Is(err, ErrConfig) {
		t.Fatalf("want ErrConfig, got %v", err)
	}
}

type stubVerifier struct {
	u     user.User
	err   error
	calls int
}

func (v *stubVerifier) VerifyIDToken(context.Context, string) (user.User, error) {
	v.calls++
	return v.u, v.err
}

func TestAuthService(t *testing.T) {
	v := &stubVerifier{u: user.User{UID: "u1", Email: "a@b.c"}}
	svc := NewAuthService(logger.Nop(), v, websession.NewMemoryStore(0))
	ctx := context.Background()

	_, _, err := svc.Login(ctx, "")
	wantStatus(t, err, http.StatusBadRequest)
	if v.calls != 0 {
		t.Fatalf("empty token must not reach the verifier")
	}

	sid, u, err := svc.Login(ctx, "tok")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if u.Name != "a@b.c" {
		t.Fatalf("name should fall back to email, got %q", u.Name)
	}
	me, err := svc.Current(ctx, sid)
	if err != nil || me.UID != "u1" {
		t.Fatalf("Current: %+v %v", me, err)
	}
	if err := svc.Logout(ctx, sid); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	_, err = svc.Current(ctx, sid)
	wantStatus(t, err, http.StatusUnauthorized)

	v.err = errors.New("token expired")
	_, _, err = svc.Login(ctx, "tok")
	wantStatus(t, err, http.StatusUnauthorized)

	unconfigured := NewAuthService(logger.Nop(), nil, websession.NewMemoryStore(0))
	_, _, err = unconfigured.Login(ctx, "tok")
	wantStatus(t, err, http.StatusInternalServerError)
}
