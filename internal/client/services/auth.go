// Package services composes the client's building blocks into the
// operations the interactive UI exposes.
// This file defines the authentication service: form validation,
// registration, login and logout.
package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/blogkeeper/internal/client/credentials"
	"github.com/dmitrijs2005/blogkeeper/internal/client/models"
	"github.com/dmitrijs2005/blogkeeper/internal/client/session"
	"github.com/dmitrijs2005/blogkeeper/internal/logging"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Register: validate the form and add an account to the registry.
//   - Login: validate the form and open a session.
//   - Logout: close the current session; safe to repeat.
//   - Current: the open session, if any.
//
// Form problems are reported as *FormError before any state is touched.
type AuthService interface {
	Register(ctx context.Context, form RegisterForm) (models.Credential, error)
	Login(ctx context.Context, form LoginForm) (models.Session, error)
	Logout(ctx context.Context) error
	Current(ctx context.Context) (models.Session, bool)
}

type authService struct {
	registry credentials.Registry
	sessions session.Store
	log      logging.Logger
}

// NewAuthService constructs an AuthService bound to the given registry and
// session store.
func NewAuthService(registry credentials.Registry, sessions session.Store, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Nop()
	}
	return &authService{registry: registry, sessions: sessions, log: log.With("component", "auth")}
}

func (a *authService) Register(ctx context.Context, form RegisterForm) (models.Credential, error) {
	form.Email = strings.TrimSpace(form.Email)
	form.Username = strings.TrimSpace(form.Username)
	if err := checkForm(form); err != nil {
		return models.Credential{}, err
	}

	c, err := a.registry.Register(ctx, form.Email, form.Password, form.Username)
	if err != nil {
		return models.Credential{}, err
	}
	a.log.Info(ctx, "account registered", "email", c.Email)
	return c, nil
}

func (a *authService) Login(ctx context.Context, form LoginForm) (models.Session, error) {
	form.Email = strings.TrimSpace(form.Email)
	if err := checkForm(form); err != nil {
		return models.Session{}, err
	}

	s, err := a.sessions.Login(ctx, form.Email, form.Password)
	if err != nil {
		a.log.Debug(ctx, "login rejected", "email", form.Email)
		return models.Session{}, err
	}
	a.log.Info(ctx, "logged in", "email", s.Email)
	return s, nil
}

func (a *authService) Logout(ctx context.Context) error {
	return a.sessions.Logout(ctx)
}

func (a *authService) Current(ctx context.Context) (models.Session, bool) {
	return a.sessions.Current(ctx)
}
