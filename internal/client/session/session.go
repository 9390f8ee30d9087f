// Package session tracks the currently authenticated identity.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/blogkeeper/internal/auth"
	"github.com/dmitrijs2005/blogkeeper/internal/client/credentials"
	"github.com/dmitrijs2005/blogkeeper/internal/client/kvstore"
	"github.com/dmitrijs2005/blogkeeper/internal/client/models"
)

// Key is the persisted key holding the active session.
const Key = "loginData"

var ErrInvalidCredentials = errors.New("invalid email or password")

const schema = `{
  "type": "object",
  "required": ["email"],
  "properties": {
    "email": {"type": "string", "minLength": 1}
  }
}`

type Store interface {
	Login(ctx context.Context, email, password string) (models.Session, error)
	Current(ctx context.Context) (models.Session, bool)
	Logout(ctx context.Context) error
	ResolveDisplayName(ctx context.Context, s models.Session) string
	TokenFor(s models.Session) (string, error)
}

type store struct {
	kv       *kvstore.Store
	registry credentials.Registry
	secret   []byte
}

// NewStore returns a session store backed by kv. Bearer tokens are minted
// only when secret is non-empty.
func NewStore(kv *kvstore.Store, registry credentials.Registry, secret []byte) (Store, error) {
	if err := kv.RegisterSchema(Key, schema); err != nil {
		return nil, err
	}
	return &store{kv: kv, registry: registry, secret: secret}, nil
}

// Login verifies the pair against the registry and persists the session.
// A failed attempt leaves the stored session as it was.
func (s *store) Login(ctx context.Context, email, password string) (models.Session, error) {
	email = strings.TrimSpace(email)
	if !s.registry.Verify(ctx, email, password) {
		return models.Session{}, ErrInvalidCredentials
	}

	c, _ := s.registry.FindByEmail(ctx, email)
	sess := models.Session{Email: c.Email}
	if err := s.kv.Write(ctx, Key, sess); err != nil {
		return models.Session{}, fmt.Errorf("failed to save session: %w", err)
	}
	sess.Username = s.ResolveDisplayName(ctx, sess)
	return sess, nil
}

// Current returns the persisted session with its display name resolved.
// Missing or malformed payloads read as no session.
func (s *store) Current(ctx context.Context) (models.Session, bool) {
	p := kvstore.Read[*models.Session](ctx, s.kv, Key, nil)
	if p == nil || strings.TrimSpace(p.Email) == "" {
		return models.Session{}, false
	}
	sess := models.Session{Email: p.Email}
	sess.Username = s.ResolveDisplayName(ctx, sess)
	return sess, true
}

func (s *store) Logout(ctx context.Context) error {
	if err := s.kv.Remove(ctx, Key); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// ResolveDisplayName returns the registered username for the session email,
// falling back to the email's local part when the registry has no match.
func (s *store) ResolveDisplayName(ctx context.Context, sess models.Session) string {
	if c, ok := s.registry.FindByEmail(ctx, sess.Email); ok && strings.TrimSpace(c.Username) != "" {
		return c.Username
	}
	return models.LocalPart(sess.Email)
}

func (s *store) TokenFor(sess models.Session) (string, error) {
	if len(s.secret) == 0 || sess.Email == "" {
		return "", nil
	}
	return auth.GenerateToken(sess.Email, s.secret)
}
