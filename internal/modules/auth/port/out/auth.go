package out

import (
	"context"

	"resumedash/internal/modules/auth/domain"
)

// IdentityProvider is the remote identity service.
type IdentityProvider interface {
	SignInWithPassword(ctx context.Context, email, password string) (domain.Session, error)
	// GetUser returns apperrors.ErrUnauthenticated when the provider rejects
	// the token.
	GetUser(ctx context.Context, accessToken string) (domain.User, error)
	SignOut(ctx context.Context, accessToken string) error
}

// SessionStore keeps the provider's session between runs.
type SessionStore interface {
	Save(ctx context.Context, session domain.Session) error
	// Load returns apperrors.ErrNotFound when nothing is stored.
	Load(ctx context.Context) (domain.Session, error)
	Clear(ctx context.Context) error
}
