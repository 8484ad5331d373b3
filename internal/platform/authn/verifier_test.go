package authn

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/meet-highlight-backend/internal/domain/user"
)

type countingVerifier struct {
	calls int
}

func (c *countingVerifier) VerifyIDToken(context.Context, string) (user.User, error) {
	c.calls++
	return user.User{UID: "u1"}, nil
}

func TestVerifyTokenEmptyIsLocal(t *testing.T) {
	v := &countingVerifier{}
	for _, tok := range []string{"", "   "} {
		if _, err := VerifyToken(context.Background(), v, tok); !errors.Is(err, ErrMissingToken) {
			t.Fatalf("want ErrMissingToken for %q, got %v", tok, err)
		}
	}
	if v.calls != 0 {
		t.Fatalf("verifier must not be called for empty tokens, got %d calls", v.calls)
	}
	if _, err := VerifyToken(context.Background(), v, "abc"); err != nil || v.calls != 1 {
		t.Fatalf("non-empty token should reach verifier: err=%v calls=%d", err, v.calls)
	}
}

func TestVerifyTokenWithoutVerifier(t *testing.T) {
	if _, err := VerifyToken(context.Background(), nil, "abc"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("want ErrNotConfigured, got %v", err)
	}
}

func TestNewFirebaseVerifierRequiresProject(t *testing.T) {
	if _, err := NewFirebaseVerifier(FirebaseConfig{}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("want ErrNotConfigured, got %v", err)
	}
}

type keyServer struct {
	key  *rsa.PrivateKey
	srv  *httptest.Server
	hits atomic.Int32
}

func newKeyServer(t *testing.T) *keyServer {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	ks := &keyServer{key: key}
	ks.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ks.hits.Add(1)
		_ = json.NewEncoder(w).Encode(jwkSet{Keys: []jwk{{
			Kty: "RSA",
			Kid: "k1",
			Alg: "RS256",
			N:   base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes()),
			E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.PublicKey.E)).Bytes()),
		}}})
	}))
	t.Cleanup(ks.srv.Close)
	return ks
}

func (ks *keyServer) sign(t *testing.T, kid string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = kid
	s, err := tok.SignedString(ks.key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func validClaims(now time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"iss":       "https://securetoken.google.com/meet-demo",
		"aud":       "meet-demo",
		"sub":       "uid-123",
		"email":     "instructor@example.com",
		"name":      "Ada",
		"iat":       now.Add(-time.Minute).Unix(),
		"auth_time": now.Add(-time.Minute).Unix(),
		"exp":       now.Add(time.Hour).Unix(),
	}
}

func TestFirebaseVerifierAcceptsValidToken(t *testing.T) {
	ks := newKeyServer(t)
	v, err := NewFirebaseVerifier(FirebaseConfig{ProjectID: "meet-demo", JWKSURL: ks.srv.URL})
	if err != nil {
		t.Fatalf("NewFirebaseVerifier: %v", err)
	}
	tok := ks.sign(t, "k1", validClaims(time.Now()))

	u, err := v.VerifyIDToken(context.Background(), tok)
	if err != nil {
		t.Fatalf("VerifyIDToken: %v", err)
	}
	if u.UID != "uid-123" || u.Email != "instructor@example.com" || u.Name != "Ada" {
		t.Fatalf("unexpected user %+v", u)
	}
	if _, err := v.VerifyIDToken(context.Background(), tok); err != nil {
		t.Fatalf("second verify: %v", err)
	}
	if ks.hits.Load() != 1 {
		t.Fatalf("keys should be cached, fetched %d times", ks.hits.Load())
	}
}

func TestFirebaseVerifierRejects(t *testing.T) {
	ks := newKeyServer(t)
	v, _ := NewFirebaseVerifier(FirebaseConfig{ProjectID: "meet-demo", JWKSURL: ks.srv.URL})
	now := time.Now()

	cases := map[string]func(c jwt.MapClaims){
		"wrong issuer":   func(c jwt.MapClaims) { c["iss"] = "https://securetoken.google.com/other" },
		"wrong audience": func(c jwt.MapClaims) { c["aud"] = "other" },
		"expired":        func(c jwt.MapClaims) { c["exp"] = now.Add(-time.Hour).Unix() },
		"missing sub":    func(c jwt.MapClaims) { delete(c, "sub") },
		"future auth":    func(c jwt.MapClaims) { c["auth_time"] = now.Add(time.Hour).Unix() },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := validClaims(now)
			mutate(c)
			_, err := v.VerifyIDToken(context.Background(), ks.sign(t, "k1", c))
			if !errors.Is(err, ErrUnauthenticated) {
				t.Fatalf("want ErrUnauthenticated, got %v", err)
			}
		})
	}

	t.Run("unknown kid", func(t *testing.T) {
		_, err := v.VerifyIDToken(context.Background(), ks.sign(t, "nope", validClaims(now)))
		if !errors.Is(err, ErrUnauthenticated) {
			t.Fatalf("want ErrUnauthenticated, got %v", err)
		}
	})
	t.Run("garbage", func(t *testing.T) {
		if _, err := v.VerifyIDToken(context.Background(), "not.a.jwt"); !errors.Is(err, ErrUnauthenticated) {
			t.Fatalf("want ErrUnauthenticated, got %v", err)
		}
	})
}
