package authn

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/meet-highlight-backend/internal/domain/user"
)

var (
	// ErrMissingToken is a local validation failure; no provider call is made.
	ErrMissingToken = errors.New("idToken required")
	// ErrUnauthenticated wraps every provider-side verification failure.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrNotConfigured means no project is known, so tokens cannot be checked.
	ErrNotConfigured = errors.New("identity verifier not configured")
)

// DefaultJWKSURL publishes the keys that sign Firebase ID tokens.
const DefaultJWKSURL = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"

// Verifier checks an externally issued ID token.
type Verifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (user.User, error)
}

// VerifyToken rejects blank tokens locally and otherwise delegates to v.
func VerifyToken(ctx context.Context, v Verifier, idToken string) (user.User, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return user.User{}, ErrMissingToken
	}
	if v == nil {
		return user.User{}, ErrNotConfigured
	}
	return v.VerifyIDToken(ctx, idToken)
}

type FirebaseConfig struct {
	ProjectID  string
	JWKSURL    string
	HTTPClient *http.Client
	// Leeway tolerates clock skew on exp/nbf/iat.
	Leeway time.Duration
}

// FirebaseVerifier validates RS256 tokens issued by securetoken.google.com.
type FirebaseVerifier struct {
	projectID string
	issuer    string
	leeway    time.Duration
	jwks      *jwksCache
	now       func() time.Time
}

func NewFirebaseVerifier(cfg FirebaseConfig) (*FirebaseVerifier, error) {
	project := strings.TrimSpace(cfg.ProjectID)
	if project == "" {
		return nil, fmt.Errorf("%w: FIREBASE_PROJECT_ID is required", ErrNotConfigured)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	jwksURL := strings.TrimSpace(cfg.JWKSURL)
	if jwksURL == "" {
		jwksURL = DefaultJWKSURL
	}
	leeway := cfg.Leeway
	if leeway <= 0 {
		leeway = 30 * time.Second
	}
	return &FirebaseVerifier{
		projectID: project,
		issuer:    "https://securetoken.google.com/" + project,
		leeway:    leeway,
		jwks:      newJWKSCache(httpClient, jwksURL),
		now:       time.Now,
	}, nil
}

func (v *FirebaseVerifier) VerifyIDToken(ctx context.Context, idToken string) (user.User, error) {
	claims, err := v.verify(ctx, idToken)
	if err != nil {
		return user.User{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	u := user.User{}
	u.UID, _ = claims["sub"].(string)
	u.Email, _ = claims["email"].(string)
	u.Name, _ = claims["name"].(string)
	return u, nil
}

func (v *FirebaseVerifier) verify(ctx context.Context, tokenString string) (jwt.MapClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"RS256"}), jwt.WithoutClaimsValidation())
	claims := jwt.MapClaims{}

	tok, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if strings.TrimSpace(kid) == "" {
			return nil, fmt.Errorf("missing kid")
		}
		return v.jwks.getKey(ctx, kid)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid id_token: %w", err)
	}
	if tok == nil || !tok.Valid {
		return nil, fmt.Errorf("invalid id_token")
	}

	if err := validateTimeClaims(claims, v.now(), v.leeway); err != nil {
		return nil, err
	}
	iss, _ := claims["iss"].(string)
	if !constantTimeEq(iss, v.issuer) {
		return nil, fmt.Errorf("issuer mismatch: %q", iss)
	}
	if !audContains(claims["aud"], v.projectID) {
		return nil, fmt.Errorf("audience mismatch")
	}
	sub, _ := claims["sub"].(string)
	if strings.TrimSpace(sub) == "" {
		return nil, fmt.Errorf("missing sub")
	}
	if len(sub) > 128 {
		return nil, fmt.Errorf("sub too long")
	}
	return claims, nil
}

func validateTimeClaims(claims jwt.MapClaims, now time.Time, leeway time.Duration) error {
	expAny, ok := claims["exp"]
	if !ok {
		return fmt.Errorf("missing exp")
	}
	exp, err := parseNumericTime(expAny)
	if err != nil {
		return fmt.Errorf("invalid exp: %w", err)
	}
	if now.After(exp.Add(leeway)) {
		return fmt.Errorf("token expired")
	}

	if iatAny, ok := claims["iat"]; ok {
		iat, err := parseNumericTime(iatAny)
		if err != nil {
			return fmt.Errorf("invalid iat: %w", err)
		}
		if iat.After(now.Add(leeway)) {
			return fmt.Errorf("token issued in the future")
		}
	}

	// auth_time is when the user actually signed in.
	if atAny, ok := claims["auth_time"]; ok {
		at, err := parseNumericTime(atAny)
		if err != nil {
			return fmt.Errorf("invalid auth_time: %w", err)
		}
		if at.After(now.Add(leeway)) {
			return fmt.Errorf("auth_time in the future")
		}
	}
	return nil
}

func parseNumericTime(v any) (time.Time, error) {
	var sec int64
	switch x := v.(type) {
	case float64:
		sec = int64(x)
	case int64:
		sec = x
	case int:
		sec = int64(x)
	case json.Number:
		n, err := x.Int64()
		if err != nil {
			return time.Time{}, err
		}
		sec = n
	case string:
		n, err := strconv.ParseInt(x, 10, 64)
		if err != nil {
			return time.Time{}, err
		}
		sec = n
	default:
		return time.Time{}, fmt.Errorf("unexpected type %T", v)
	}
	if sec <= 0 {
		return time.Time{}, fmt.Errorf("non-positive numeric date")
	}
	return time.Unix(sec, 0).UTC(), nil
}

func audContains(aud any, required string) bool {
	switch v := aud.(type) {
	case string:
		return v == required
	case []any:
		for _, it := range v {
			if s, ok := it.(string); ok && s == required {
				return true
			}
		}
	}
	return false
}

func constantTimeEq(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
