// Package guard decides, per navigation, whether a route may be entered
// given the current session.
package guard

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/blogkeeper/internal/client/models"
)

type State int

const (
	Unauthenticated State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// Route paths.
const (
	Root       = "/"
	Login      = "/login"
	Register   = "/register"
	Dashboard  = "/dashboard"
	Analytics  = "/analytics"
	CreatePost = "/create-post"
	EditPost   = "/edit-post/:id"
	ShowPost   = "/post/:id"
	Favorites  = "/favorites"
)

// Route is a navigable view. SkipIfAuthenticated marks public routes an
// authenticated user is sent away from.
type Route struct {
	Path                string
	RequiresAuth        bool
	SkipIfAuthenticated bool
}

var routes = map[string]Route{
	Login:      {Path: Login, SkipIfAuthenticated: true},
	Register:   {Path: Register, SkipIfAuthenticated: true},
	Dashboard:  {Path: Dashboard, RequiresAuth: true},
	Analytics:  {Path: Analytics, RequiresAuth: true},
	CreatePost: {Path: CreatePost, RequiresAuth: true},
	EditPost:   {Path: EditPost, RequiresAuth: true},
	ShowPost:   {Path: ShowPost, RequiresAuth: true},
	Favorites:  {Path: Favorites, RequiresAuth: true},
}

// Lookup returns the route registered under path. Parameterized paths
// such as /post/42 resolve to their pattern.
func Lookup(path string) (Route, bool) {
	if r, ok := routes[path]; ok {
		return r, true
	}
	for pattern, r := range routes {
		prefix, ok := strings.CutSuffix(pattern, ":id")
		if ok && strings.HasPrefix(path, prefix) && len(path) > len(prefix) && !strings.Contains(path[len(prefix):], "/") {
			return r, true
		}
	}
	return Route{}, false
}

// Decision is the outcome of evaluating a navigation. When Allowed is false,
// Redirect names where to go instead.
type Decision struct {
	State    State
	Allowed  bool
	Redirect string
}

// SessionSource is the slice of the session store the guard consults.
type SessionSource interface {
	Current(ctx context.Context) (models.Session, bool)
}

type Guard struct {
	sessions SessionSource
}

func New(sessions SessionSource) *Guard {
	return &Guard{sessions: sessions}
}

func (g *Guard) State(ctx context.Context) State {
	if _, ok := g.sessions.Current(ctx); ok {
		return Authenticated
	}
	return Unauthenticated
}

// Evaluate applies the gate to path. Unknown paths are treated as guarded.
func (g *Guard) Evaluate(ctx context.Context, path string) Decision {
	state := g.State(ctx)

	if path == Root || path == "" {
		if state == Authenticated {
			return Decision{State: state, Redirect: Dashboard}
		}
		return Decision{State: state, Redirect: Login}
	}

	r, ok := Lookup(path)
	if !ok {
		r = Route{Path: path, RequiresAuth: true}
	}

	switch {
	case r.RequiresAuth && state == Unauthenticated:
		return Decision{State: state, Redirect: Login}
	case r.SkipIfAuthenticated && state == Authenticated:
		return Decision{State: state, Redirect: Dashboard}
	}
	return Decision{State: state, Allowed: true}
}
