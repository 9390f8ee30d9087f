package cli

import (
	"context"

	"github.com/dmitrijs2005/blogkeeper/internal/client/services"
	"github.com/dmitrijs2005/blogkeeper/internal/shared"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a username, an email and a password and adds the
// account to the local registry. It does not sign the user in.
//
// The password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer shared.Wipe(password)

	c, err := a.auth.Register(ctx, services.RegisterForm{Username: username, Email: email, Password: string(password)})
	if err != nil {
		return err
	}

	a.success("Account created for " + c.Email + ". Use 'login' to sign in.")
	return nil
}

// Login prompts for credentials and opens a session. A failed attempt
// leaves any existing session untouched.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer shared.Wipe(password)

	s, err := a.auth.Login(ctx, services.LoginForm{Email: email, Password: string(password)})
	if err != nil {
		return err
	}

	a.success("Welcome, " + s.Username + "!")
	return nil
}

// Logout closes the session; repeating it is harmless.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	a.notice("Logged out.")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	s, ok := a.auth.Current(ctx)
	if !ok {
		a.notice("Not signed in.")
		return nil
	}
	a.notice(a.sessions.ResolveDisplayName(ctx, s) + " <" + s.Email + ">")
	return nil
}
