// Package credentials manages the registry of locally registered accounts.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/blogkeeper/internal/client/kvstore"
	"github.com/dmitrijs2005/blogkeeper/internal/client/models"
)

// Key is the persisted key holding the registry.
const Key = "authData"

var ErrAlreadyExists = errors.New("an account with this email already exists")

// schema describes one registry record. Records that do not match are
// dropped on read; the rest of the registry stays usable.
const schema = `{
  "type": "object",
  "required": ["email", "password"],
  "properties": {
    "email": {"type": "string", "minLength": 1},
    "password": {"type": "string"},
    "username": {"type": "string"}
  }
}`

// Registry is the set of registered accounts. Emails are unique,
// compared case-insensitively.
type Registry interface {
	Register(ctx context.Context, email, password, username string) (models.Credential, error)
	FindByEmail(ctx context.Context, email string) (models.Credential, bool)
	Verify(ctx context.Context, email, password string) bool
	List(ctx context.Context) []models.Credential
	Count(ctx context.Context) int
}

type registry struct {
	store    *kvstore.Store
	verifier PasswordVerifier
	mu       sync.Mutex
}

// NewRegistry binds a registry to store. A nil verifier means PlainVerifier.
func NewRegistry(store *kvstore.Store, verifier PasswordVerifier) (Registry, error) {
	if verifier == nil {
		verifier = PlainVerifier{}
	}
	if err := store.RegisterItemSchema(Key, schema); err != nil {
		return nil, err
	}
	return &registry{store: store, verifier: verifier}, nil
}

// load also accepts the single-object form older clients wrote.
func (r *registry) load(ctx context.Context) []models.Credential {
	return kvstore.ReadList[models.Credential](ctx, r.store, Key)
}

// Register appends a new account. It fails with ErrAlreadyExists and
// leaves the registry untouched when the email is taken.
func (r *registry) Register(ctx context.Context, email, password, username string) (models.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.load(ctx)
	for _, c := range list {
		if models.SameEmail(c.Email, email) {
			return models.Credential{}, ErrAlreadyExists
		}
	}

	sealed, err := r.verifier.Seal(password)
	if err != nil {
		return models.Credential{}, fmt.Errorf("failed to seal password: %w", err)
	}

	c := models.Credential{Email: email, Password: sealed, Username: username}
	list = append(list, c)
	if err := r.store.Write(ctx, Key, list); err != nil {
		return models.Credential{}, fmt.Errorf("failed to save registry: %w", err)
	}
	return c, nil
}

func (r *registry) FindByEmail(ctx context.Context, email string) (models.Credential, bool) {
	for _, c := range r.load(ctx) {
		if models.SameEmail(c.Email, email) {
			return c, true
		}
	}
	return models.Credential{}, false
}

// Verify reports whether an account with email exists and password matches it.
func (r *registry) Verify(ctx context.Context, email, password string) bool {
	c, ok := r.FindByEmail(ctx, email)
	if !ok {
		return false
	}
	return r.verifier.Verify(c.Password, password)
}

func (r *registry) List(ctx context.Context) []models.Credential {
	return r.load(ctx)
}

func (r *registry) Count(ctx context.Context) int {
	return len(r.load(ctx))
}
