package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/blogkeeper/internal/client/guard"
	"github.com/dmitrijs2005/blogkeeper/internal/client/posts"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	evaluate(ctx context.Context, path string) guard.Decision
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Dashboard(ctx context.Context) error
	List(ctx context.Context) error
	Show(ctx context.Context, id string) error
	Create(ctx context.Context) error
	Edit(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	ToggleFavorite(ctx context.Context, id string) error
	Favorites(ctx context.Context) error
	ClearFavorites(ctx context.Context) error
	Analytics(ctx context.Context, page int) error
	Pending(ctx context.Context) error
}

// command binds a REPL verb to the route it opens. route receives the
// command arguments so parameterized views resolve to their concrete path.
type command struct {
	usage string
	route func(args []string) string
	// then is navigated to after a successful run.
	then string
	run  func(ctx context.Context, a execIface, args []string) error
}

func fixed(path string) func([]string) string {
	return func([]string) string { return path }
}

func withID(prefix string) func([]string) string {
	return func(args []string) string { return prefix + args[0] }
}

var commands = map[string]command{
	"register": {
		usage: "register",
		route: fixed(guard.Register),
		run:   func(ctx context.Context, a execIface, _ []string) error { return a.Register(ctx) },
	},
	"login": {
		usage: "login",
		route: fixed(guard.Login),
		then:  guard.Dashboard,
		run:   func(ctx context.Context, a execIface, _ []string) error { return a.Login(ctx) },
	},
	"logout": {
		usage: "logout",
		run:   func(ctx context.Context, a execIface, _ []string) error { return a.Logout(ctx) },
	},
	"whoami": {
		usage: "whoami",
		run:   func(ctx context.Context, a execIface, _ []string) error { return a.WhoAmI(ctx) },
	},
	"dashboard": {
		usage: "dashboard",
		route: fixed(guard.Dashboard),
		run:   func(ctx context.Context, a execIface, _ []string) error { return a.Dashboard(ctx) },
	},
	"list": {
		usage: "list",
		route: fixed(guard.Dashboard),
		run:   func(ctx context.Context, a execIface, _ []string) error { return a.List(ctx) },
	},
	"show": {
		usage: "show <id>",
		route: withID("/post/"),
		run:   func(ctx context.Context, a execIface, args []string) error { return a.Show(ctx, args[0]) },
	},
	"create": {
		usage: "create",
		route: fixed(guard.CreatePost),
		run:   func(ctx context.Context, a execIface, _ []string) error { return a.Create(ctx) },
	},
	"edit": {
		usage: "edit <id>",
		route: withID("/edit-post/"),
		run:   func(ctx context.Context, a execIface, args []string) error { return a.Edit(ctx, args[0]) },
	},
	"delete": {
		usage: "delete <id>",
		route: withID("/post/"),
		run:   func(ctx context.Context, a execIface, args []string) error { return a.Delete(ctx, args[0]) },
	},
	"fav": {
		usage: "fav <id>",
		route: withID("/post/"),
		run:   func(ctx context.Context, a execIface, args []string) error { return a.ToggleFavorite(ctx, args[0]) },
	},
	"favorites": {
		usage: "favorites",
		route: fixed(guard.Favorites),
		run:   func(ctx context.Context, a execIface, _ []string) error { return a.Favorites(ctx) },
	},
	"clearfav": {
		usage: "clearfav",
		route: fixed(guard.Favorites),
		run:   func(ctx context.Context, a execIface, _ []string) error { return a.ClearFavorites(ctx) },
	},
	"analytics": {
		usage: "analytics [page]",
		route: fixed(guard.Analytics),
		run: func(ctx context.Context, a execIface, args []string) error {
			page := 1
			if len(args) > 0 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return fmt.Errorf("%w: page must be a positive number", errUsage)
				}
				page = n
			}
			return a.Analytics(ctx, page)
		},
	},
	"pending": {
		usage: "pending",
		route: fixed(guard.Dashboard),
		run:   func(ctx context.Context, a execIface, _ []string) error { return a.Pending(ctx) },
	},
}

var aliases = map[string]string{
	"l":     "list",
	"ls":    "list",
	"rm":    "delete",
	"new":   "create",
	"stats": "analytics",
}

var errUsage = errors.New("usage")

// needsID reports whether the command's usage names an <id> argument.
func (c command) needsID() bool {
	return strings.Contains(c.usage, "<id>")
}

// runREPL starts a simple read-eval-print loop for the blog client.
//
// It reads a line from reader, parses the first token as the command, checks
// the command's route with the guard and dispatches to methods on 'a'.
// Unknown commands are reported back to the user. The loop exits on EOF, on
// context cancellation, or when the user types "exit" or "quit".
//
// Errors returned by command handlers are rendered by reportError; the loop
// itself never stops on a handler error.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("blog (%s) > ", statusFn()))

		line, err := readLine(reader)
		if err != nil {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]
		if full, ok := aliases[name]; ok {
			name = full
		}

		switch name {
		case "help":
			printHelp(ctx, a)
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		cmd, ok := commands[name]
		if !ok {
			printlnFn("Unknown command:", name)
			continue
		}
		dispatch(ctx, a, cmd, args)
	}
}

// dispatch runs cmd if the guard admits its route, otherwise follows the
// guard's redirect. A post that no longer exists sends the user back to the
// dashboard.
func dispatch(ctx context.Context, a execIface, cmd command, args []string) {
	if cmd.needsID() && len(args) == 0 {
		printlnFn("Usage:", cmd.usage)
		return
	}

	if cmd.route != nil {
		d := a.evaluate(ctx, cmd.route(args))
		if !d.Allowed {
			redirect(ctx, a, d.Redirect)
			return
		}
	}

	if err := cmd.run(ctx, a, args); err != nil {
		if errors.Is(err, errUsage) {
			printlnFn("Usage:", cmd.usage)
			return
		}
		reportError(err)
		if errors.Is(err, posts.ErrNotFound) {
			redirect(ctx, a, guard.Dashboard)
		}
		return
	}

	if cmd.then != "" {
		redirect(ctx, a, cmd.then)
	}
}

func redirect(ctx context.Context, a execIface, path string) {
	switch path {
	case guard.Login:
		printlnFn(warnColor.Sprint("Please log in first (use 'login' or 'register')."))
	case guard.Dashboard:
		if d := a.evaluate(ctx, guard.Dashboard); !d.Allowed {
			return
		}
		if err := a.Dashboard(ctx); err != nil {
			reportError(err)
		}
	}
}

func printHelp(ctx context.Context, a execIface) {
	if d := a.evaluate(ctx, guard.Dashboard); d.State == guard.Authenticated {
		printlnFn("Available commands: dashboard, (l)ist, show <id>, create, edit <id>, delete <id>, fav <id>, favorites, clearfav, analytics [page], pending, whoami, logout, exit")
		return
	}
	printlnFn("Available commands: register, login, whoami, exit")
}
