package cli

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/dmitrijs2005/blogkeeper/internal/client/credentials"
	"github.com/dmitrijs2005/blogkeeper/internal/client/posts"
	"github.com/dmitrijs2005/blogkeeper/internal/client/remote"
	"github.com/dmitrijs2005/blogkeeper/internal/client/services"
	"github.com/dmitrijs2005/blogkeeper/internal/client/session"
	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	headingColor = color.New(color.Bold)
	mutedColor   = color.New(color.Faint)
)

func (a *App) success(msg string) { fmt.Fprintln(a.out, successColor.Sprint(msg)) }
func (a *App) warn(msg string)    { fmt.Fprintln(a.out, warnColor.Sprint(msg)) }
func (a *App) notice(msg string)  { fmt.Fprintln(a.out, msg) }
func (a *App) heading(msg string) { fmt.Fprintln(a.out, headingColor.Sprint(msg)) }

// reportError prints a user-facing rendition of err.
func reportError(err error) {
	for _, line := range errorLines(err) {
		printlnFn(errorColor.Sprint(line))
	}
}

func errorLines(err error) []string {
	var fe *services.FormError
	if errors.As(err, &fe) {
		return fieldLines(fe.Fields)
	}
	var ve *posts.ValidationError
	if errors.As(err, &ve) {
		return fieldLines(ve.Fields)
	}

	switch {
	case errors.Is(err, session.ErrInvalidCredentials):
		return []string{"Invalid email or password."}
	case errors.Is(err, credentials.ErrAlreadyExists):
		return []string{"An account with this email already exists."}
	case errors.Is(err, posts.ErrNotFound):
		return []string{"Post not found."}
	case errors.Is(err, remote.ErrUnavailable):
		return []string{"The posts server is unavailable, try again later.", mutedColor.Sprint(err.Error())}
	case errors.Is(err, remote.ErrRejected):
		return []string{"The posts server rejected the request.", mutedColor.Sprint(err.Error())}
	case errors.Is(err, remote.ErrMalformedResponse):
		return []string{"The posts server sent data this client cannot read.", mutedColor.Sprint(err.Error())}
	}
	return []string{"Error: " + err.Error()}
}

func fieldLines(fields map[string]string) []string {
	keys := slices.Sorted(maps.Keys(fields))
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %s", k, fields[k]))
	}
	return lines
}
