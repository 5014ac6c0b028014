package in

import (
	"context"

	"resumedash/internal/modules/auth/dto"
)

// Usecase is the session accessor. Not being signed in is reported through
// the ok result, never as an error.
type Usecase interface {
	SignIn(ctx context.Context, input dto.SignInInput) (dto.SessionOutput, error)
	CurrentSession(ctx context.Context) (dto.SessionOutput, bool, error)
	CurrentUser(ctx context.Context) (dto.UserOutput, bool, error)
	BearerToken(ctx context.Context) (string, bool)
	SignOut(ctx context.Context) error
}
