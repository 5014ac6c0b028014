package usecase

import (
	"context"

	"resumedash/internal/modules/auth/domain"
	"resumedash/internal/modules/auth/dto"
	authin "resumedash/internal/modules/auth/port/in"
	"resumedash/internal/modules/auth/service"
)

type Interactor struct {
	svc *service.AuthService
}

func NewInteractor(svc *service.AuthService) authin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) SignIn(ctx context.Context, input dto.SignInInput) (dto.SessionOutput, error) {
	session, err := i.svc.SignIn(ctx, input.Email, input.Password)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	return toSessionOutput(session), nil
}

func (i *Interactor) CurrentSession(ctx context.Context) (dto.SessionOutput, bool, error) {
	session, ok, err := i.svc.Current(ctx)
	if err != nil || !ok {
		return dto.SessionOutput{}, false, err
	}
	return toSessionOutput(session), true, nil
}

func (i *Interactor) CurrentUser(ctx context.Context) (dto.UserOutput, bool, error) {
	user, ok, err := i.svc.User(ctx)
	if err != nil || !ok {
		return dto.UserOutput{}, false, err
	}
	return dto.UserOutput{ID: user.ID, Email: user.Email}, true, nil
}

// BearerToken fails softly: any problem reading the session means no token.
func (i *Interactor) BearerToken(ctx context.Context) (string, bool) {
	session, ok, err := i.svc.Current(ctx)
	if err != nil || !ok {
		return "", false
	}
	return session.AccessToken, true
}

func (i *Interactor) SignOut(ctx context.Context) error {
	return i.svc.SignOut(ctx)
}

func toSessionOutput(session domain.Session) dto.SessionOutput {
	return dto.SessionOutput{UserID: session.UserID, Email: session.Email, ExpiresAt: session.ExpiresAt}
}
