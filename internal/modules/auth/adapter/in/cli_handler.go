package in

import (
	"context"

	authdto "resumedash/internal/modules/auth/dto"
	authin "resumedash/internal/modules/auth/port/in"
)

type CLIHandler struct {
	usecase authin.Usecase
}

func NewCLIHandler(usecase authin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) SignIn(ctx context.Context, email, password string) (authdto.SessionOutput, error) {
	return h.usecase.SignIn(ctx, authdto.SignInInput{Email: email, Password: password})
}

func (h CLIHandler) CurrentSession(ctx context.Context) (authdto.SessionOutput, bool, error) {
	return h.usecase.CurrentSession(ctx)
}

func (h CLIHandler) CurrentUser(ctx context.Context) (authdto.UserOutput, bool, error) {
	return h.usecase.CurrentUser(ctx)
}

func (h CLIHandler) BearerToken(ctx context.Context) (string, bool) {
	return h.usecase.BearerToken(ctx)
}

func (h CLIHandler) SignOut(ctx context.Context) error {
	return h.usecase.SignOut(ctx)
}
