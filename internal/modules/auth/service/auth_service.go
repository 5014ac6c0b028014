package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"resumedash/internal/modules/auth/domain"
	authout "resumedash/internal/modules/auth/port/out"
	"resumedash/internal/platform/clock"
	apperrors "resumedash/internal/platform/errors"
	"resumedash/internal/platform/logging"
)

type AuthService struct {
	clock    clock.Clock
	provider authout.IdentityProvider
	store    authout.SessionStore
	logger   *slog.Logger
}

func NewAuthService(clock clock.Clock, provider authout.IdentityProvider, store authout.SessionStore, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &AuthService{clock: clock, provider: provider, store: store, logger: logger}
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (domain.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return domain.Session{}, fmt.Errorf("%w: email and password are required", apperrors.ErrInvalidInput)
	}
	session, err := s.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		return domain.Session{}, err
	}
	if session.AccessToken == "" {
		return domain.Session{}, fmt.Errorf("identity provider returned no access token")
	}
	if err := s.store.Save(ctx, session); err != nil {
		return domain.Session{}, err
	}
	s.logger.Info("auth.sign_in", "user_id", session.UserID)
	return session, nil
}

// Current returns the stored session when one exists and is still valid.
func (s *AuthService) Current(ctx context.Context) (domain.Session, bool, error) {
	session, err := s.store.Load(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.Session{}, false, nil
		}
		return domain.Session{}, false, err
	}
	if !session.Valid(s.clock.Now()) {
		s.logger.Debug("auth.session_expired", "user_id", session.UserID, "expires_at", session.ExpiresAt)
		return domain.Session{}, false, nil
	}
	return session, true, nil
}

func (s *AuthService) User(ctx context.Context) (domain.User, bool, error) {
	session, ok, err := s.Current(ctx)
	if err != nil || !ok {
		return domain.User{}, false, err
	}
	user, err := s.provider.GetUser(ctx, session.AccessToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthenticated) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return user, true, nil
}

// SignOut always clears the local session; the provider call is best effort.
func (s *AuthService) SignOut(ctx context.Context) error {
	session, err := s.store.Load(ctx)
	if err == nil && session.AccessToken != "" {
		if err := s.provider.SignOut(ctx, session.AccessToken); err != nil {
			s.logger.Warn("auth.sign_out_remote_failed", "error", err)
		}
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.logger.Warn("auth.sign_out_load_failed", "error", err)
	}
	return s.store.Clear(ctx)
}
