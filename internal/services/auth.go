package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/yungbote/meet-highlight-backend/internal/data/websession"
	"github.com/yungbote/meet-highlight-backend/internal/domain/user"
	"github.com/yungbote/meet-highlight-backend/internal/platform/apierr"
	"github.com/yungbote/meet-highlight-backend/internal/platform/authn"
	"github.com/yungbote/meet-highlight-backend/internal/platform/logger"
)

type AuthService interface {
	// Login verifies idToken and records a server-side session, returning
	// its id.
	Login(ctx context.Context, idToken string) (string, user.User, error)
	Current(ctx context.Context, sessionID string) (user.User, error)
	Logout(ctx context.Context, sessionID string) error
}

type authService struct {
	log      *logger.Logger
	verifier authn.Verifier
	sessions websession.Store
}

// NewAuthService accepts a nil verifier; logins then fail as misconfigured.
func NewAuthService(log *logger.Logger, verifier authn.Verifier, sessions websession.Store) AuthService {
	return &authService{log: log.With("service", "AuthService"), verifier: verifier, sessions: sessions}
}

func (s *authService) Login(ctx context.Context, idToken string) (string, user.User, error) {
	u, err := authn.VerifyToken(ctx, s.verifier, idToken)
	switch {
	case errors.Is(err, authn.ErrMissingToken):
		return "", user.User{}, invalid("missing_token", err.Error())
	case errors.Is(err, authn.ErrNotConfigured):
		s.log.Error("Identity verifier not configured")
		return "", user.User{}, misconfigured("auth_not_configured", err)
	case err != nil:
		return "", user.User{}, apierr.New(http.StatusUnauthorized, "unauthenticated", err)
	}
	u.Name = u.DisplayName()

	id, err := s.sessions.Create(ctx, websession.RecordFromUser(u))
	if err != nil {
		s.log.Error("Failed to create auth session", "user_id", u.UID, "error", err)
		return "", user.User{}, apierr.Internal("auth_session_failed", err)
	}
	s.log.Info("User signed in", "user_id", u.UID)
	return id, u, nil
}

func (s *authService) Current(ctx context.Context, sessionID string) (user.User, error) {
	rec, err := s.sessions.Get(ctx, sessionID)
	if errors.Is(err, websession.ErrNotFound) {
		return user.User{}, apierr.New(http.StatusUnauthorized, "not_signed_in", errors.New("Not signed in"))
	}
	if err != nil {
		return user.User{}, apierr.Internal("auth_session_failed", err)
	}
	return rec.User(), nil
}

func (s *authService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		s.log.Warn("Failed to delete auth session", "error", err)
		return apierr.Internal("auth_session_failed", err)
	}
	return nil
}
