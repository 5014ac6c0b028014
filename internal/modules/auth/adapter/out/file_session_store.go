package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"resumedash/internal/modules/auth/domain"
	authout "resumedash/internal/modules/auth/port/out"
	apperrors "resumedash/internal/platform/errors"
)

type FileSessionStore struct {
	path string
}

func NewFileSessionStore(path string) authout.SessionStore {
	return &FileSessionStore{path: path}
}

func (s *FileSessionStore) Save(_ context.Context, session domain.Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	payload, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	// The file holds a bearer token.
	if err := os.WriteFile(s.path, payload, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (s *FileSessionStore) Load(_ context.Context) (domain.Session, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Session{}, apperrors.ErrNotFound
		}
		return domain.Session{}, fmt.Errorf("read session: %w", err)
	}
	session := domain.Session{}
	if err := json.Unmarshal(payload, &session); err != nil {
		return domain.Session{}, fmt.Errorf("decode session: %w", err)
	}
	if session.AccessToken == "" {
		return domain.Session{}, apperrors.ErrNotFound
	}
	return session, nil
}

func (s *FileSessionStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
