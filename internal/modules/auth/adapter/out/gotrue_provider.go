package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"resumedash/internal/modules/auth/domain"
	authout "resumedash/internal/modules/auth/port/out"
	apperrors "resumedash/internal/platform/errors"
	"resumedash/internal/platform/logging"
)

// GoTrueProvider talks to a GoTrue-compatible identity service (the REST API
// behind Supabase Auth).
type GoTrueProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *slog.Logger
}

func NewGoTrueProvider(baseURL, apiKey string, client *http.Client, logger *slog.Logger) authout.IdentityProvider {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &GoTrueProvider{baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, client: client, logger: logger}
}

type tokenResponse struct {
	AccessToken  string      `json:"access_token"`
	TokenType    string      `json:"token_type"`
	ExpiresIn    int64       `json:"expires_in"`
	ExpiresAt    int64       `json:"expires_at"`
	RefreshToken string      `json:"refresh_token"`
	User         domain.User `json:"user"`
}

// providerError covers the shapes GoTrue uses for failures.
type providerError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

func (e providerError) text() string {
	for _, s := range []string{e.ErrorDescription, e.Msg, e.Message, e.Error} {
		if strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

func (p *GoTrueProvider) SignInWithPassword(ctx context.Context, email, password string) (domain.Session, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return domain.Session{}, fmt.Errorf("encode sign-in request: %w", err)
	}
	requested := time.Now()
	raw, err := p.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", "", body)
	if err != nil {
		return domain.Session{}, err
	}
	resp := tokenResponse{}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return domain.Session{}, fmt.Errorf("decode token response: %w", err)
	}
	session := domain.Session{
		UserID:       resp.User.ID,
		Email:        resp.User.Email,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		TokenType:    resp.TokenType,
	}
	switch {
	case resp.ExpiresAt > 0:
		session.ExpiresAt = time.Unix(resp.ExpiresAt, 0).UTC()
	case resp.ExpiresIn > 0:
		session.ExpiresAt = requested.Add(time.Duration(resp.ExpiresIn) * time.Second).UTC()
	}
	return session, nil
}

func (p *GoTrueProvider) GetUser(ctx context.Context, accessToken string) (domain.User, error) {
	raw, err := p.do(ctx, http.MethodGet, "/auth/v1/user", accessToken, nil)
	if err != nil {
		return domain.User{}, err
	}
	user := domain.User{}
	if err := json.Unmarshal(raw, &user); err != nil {
		return domain.User{}, fmt.Errorf("decode user: %w", err)
	}
	return user, nil
}

func (p *GoTrueProvider) SignOut(ctx context.Context, accessToken string) error {
	_, err := p.do(ctx, http.MethodPost, "/auth/v1/logout", accessToken, nil)
	return err
}

func (p *GoTrueProvider) do(ctx context.Context, method, path, bearer string, body []byte) ([]byte, error) {
	if p.baseURL == "" {
		return nil, fmt.Errorf("%w: identity url (set RESUMEDASH_IDENTITY_URL)", apperrors.ErrNotConfigured)
	}
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build identity request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if p.apiKey != "" {
		req.Header.Set("apikey", p.apiKey)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	endpoint := strings.SplitN(path, "?", 2)[0]
	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Error("auth.http.send_error", "endpoint", endpoint, "error", err)
		return nil, &apperrors.NetworkError{Op: method + " " + endpoint, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		p.logger.Error("auth.http.read_error", "endpoint", endpoint, "status", resp.StatusCode, "error", err)
		return nil, &apperrors.NetworkError{Op: method + " " + endpoint, Err: err}
	}
	p.logger.Debug("auth.http.response", "endpoint", endpoint, "status", resp.StatusCode)

	if resp.StatusCode/100 == 2 {
		return raw, nil
	}
	perr := providerError{}
	_ = json.Unmarshal(raw, &perr)
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		if endpoint == "/auth/v1/user" || endpoint == "/auth/v1/logout" {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrUnauthenticated, perr.text())
		}
	}
	return nil, &apperrors.BackendError{Endpoint: endpoint, Status: resp.StatusCode, Message: perr.text()}
}
