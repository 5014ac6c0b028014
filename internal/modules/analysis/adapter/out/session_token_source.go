package out

import (
	"context"

	authin "resumedash/internal/modules/auth/port/in"
	analysisout "resumedash/internal/modules/analysis/port/out"
)

// SessionTokenSource reads the bearer token from the auth module.
type SessionTokenSource struct {
	auth authin.Usecase
}

func NewSessionTokenSource(auth authin.Usecase) analysisout.TokenSource {
	return &SessionTokenSource{auth: auth}
}

func (s *SessionTokenSource) BearerToken(ctx context.Context) (string, bool) {
	if s.auth == nil {
		return "", false
	}
	return s.auth.BearerToken(ctx)
}
