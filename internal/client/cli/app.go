package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/blogkeeper/internal/client/analytics"
	"github.com/dmitrijs2005/blogkeeper/internal/client/config"
	"github.com/dmitrijs2005/blogkeeper/internal/client/credentials"
	"github.com/dmitrijs2005/blogkeeper/internal/client/events"
	"github.com/dmitrijs2005/blogkeeper/internal/client/favorites"
	"github.com/dmitrijs2005/blogkeeper/internal/client/guard"
	"github.com/dmitrijs2005/blogkeeper/internal/client/kvstore"
	"github.com/dmitrijs2005/blogkeeper/internal/client/media"
	"github.com/dmitrijs2005/blogkeeper/internal/client/posts"
	"github.com/dmitrijs2005/blogkeeper/internal/client/remote"
	"github.com/dmitrijs2005/blogkeeper/internal/client/services"
	"github.com/dmitrijs2005/blogkeeper/internal/client/session"
	"github.com/dmitrijs2005/blogkeeper/internal/filex"
	"github.com/dmitrijs2005/blogkeeper/internal/logging"
)

type App struct {
	config     *config.Config
	log        logging.Logger
	store      *kvstore.Store
	auth       services.AuthService
	feed       services.Feed
	sessions   session.Store
	posts      posts.Repository
	favorites  favorites.Store
	guard      *guard.Guard
	aggregator *analytics.Aggregator
	reader     *bufio.Reader
	out        io.Writer
}

// NewApp opens the local store named by the configuration and wires the
// client against the configured API.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	dir := c.DataDir
	if c.StoreDriver == kvstore.DriverSQLite {
		var err error
		if dir, err = filex.EnsureDir(c.DataDir); err != nil {
			return nil, fmt.Errorf("failed to prepare data dir: %w", err)
		}
	}

	backend, err := kvstore.NewBackend(ctx, c.KVStore(dir))
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	kv := kvstore.New(backend, log)

	app, err := assemble(c, kv, media.NewUploader(c.S3()), log)
	if err != nil {
		_ = kv.Close()
		return nil, err
	}
	return app, nil
}

// assemble builds the App on top of an opened store.
func assemble(c *config.Config, kv *kvstore.Store, uploader media.Uploader, log logging.Logger) (*App, error) {
	if log == nil {
		log = logging.Nop()
	}

	verifier, err := credentials.NewVerifier(c.PasswordScheme)
	if err != nil {
		return nil, err
	}
	registry, err := credentials.NewRegistry(kv, verifier)
	if err != nil {
		return nil, err
	}
	sessions, err := session.NewStore(kv, registry, []byte(c.TokenSecret))
	if err != nil {
		return nil, err
	}
	favs, err := favorites.NewStore(kv)
	if err != nil {
		return nil, err
	}

	client := remote.NewPostsClient(remote.Options{
		BaseURL:   c.APIBaseURL,
		Timeout:   c.RequestTimeout,
		RateLimit: c.RateLimit,
		Token:     tokenSource(sessions),
	})

	bus := events.New()
	repo := posts.NewRepository(client, uploader, bus, log)
	agg, err := analytics.NewAggregator(bus)
	if err != nil {
		return nil, err
	}

	return &App{
		config:     c,
		log:        log.With("component", "cli"),
		store:      kv,
		auth:       services.NewAuthService(registry, sessions, log),
		feed:       services.NewFeed(repo, favs, sessions, c.ShareBaseURL),
		sessions:   sessions,
		posts:      repo,
		favorites:  favs,
		guard:      guard.New(sessions),
		aggregator: agg,
		reader:     bufio.NewReader(os.Stdin),
		out:        os.Stdout,
	}, nil
}

// tokenSource signs the current session for write requests.
func tokenSource(sessions session.Store) remote.TokenSource {
	return func(ctx context.Context) (string, error) {
		s, ok := sessions.Current(ctx)
		if !ok {
			return "", nil
		}
		return sessions.TokenFor(s)
	}
}

// Run starts the REPL on stdin and blocks until the user exits or ctx is
// cancelled. The store is closed on return.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	a.notice("Welcome to the blog client (type 'help' for commands)")
	if s, ok := a.auth.Current(ctx); ok {
		a.notice("Signed in as " + a.sessions.ResolveDisplayName(ctx, s))
	}

	runREPL(ctx, a, func() string { return a.status(ctx) }, a.reader)
	return ctx.Err()
}

func (a *App) Close() error {
	a.aggregator.Close()
	if err := a.store.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	return nil
}

// status is shown in the prompt: the display name when signed in.
func (a *App) status(ctx context.Context) string {
	s, ok := a.auth.Current(ctx)
	if !ok {
		return "guest"
	}
	return a.sessions.ResolveDisplayName(ctx, s)
}

func (a *App) evaluate(ctx context.Context, path string) guard.Decision {
	return a.guard.Evaluate(ctx, path)
}
