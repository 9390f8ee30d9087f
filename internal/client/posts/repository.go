// Package posts keeps the client-side view of the remote posts collection
// consistent with the mutations it issues.
package posts

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/blogkeeper/internal/client/events"
	"github.com/dmitrijs2005/blogkeeper/internal/client/media"
	"github.com/dmitrijs2005/blogkeeper/internal/client/models"
	"github.com/dmitrijs2005/blogkeeper/internal/client/remote"
	"github.com/dmitrijs2005/blogkeeper/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

var ErrNotFound = errors.New("post not found")

type Repository interface {
	List(ctx context.Context) ([]models.Post, error)
	Get(ctx context.Context, id models.PostID) (models.Post, error)
	Create(ctx context.Context, d models.Draft) (models.Post, error)
	Update(ctx context.Context, id models.PostID, d models.Draft) (models.Post, error)
	Delete(ctx context.Context, id models.PostID) error

	// Snapshot returns a copy of the cached list.
	Snapshot() []models.Post
	// Pending returns outstanding requests, oldest first.
	Pending() []PendingOp
}

// PendingOp is a request that has been issued and has not settled.
type PendingOp struct {
	ID        string
	PostID    models.PostID
	Kind      events.Op
	StartedAt time.Time
}

type repository struct {
	client   remote.PostsClient
	uploader media.Uploader
	bus      *events.Bus
	log      logging.Logger

	lists singleflight.Group

	mu      sync.RWMutex
	cache   []models.Post
	pending map[string]PendingOp
}

// NewRepository wires a repository. A nil uploader keeps image payloads
// inline and a nil bus disables change notifications.
func NewRepository(client remote.PostsClient, uploader media.Uploader, bus *events.Bus, log logging.Logger) Repository {
	if uploader == nil {
		uploader = media.Inline{}
	}
	if log == nil {
		log = logging.Nop()
	}
	return &repository{
		client:   client,
		uploader: uploader,
		bus:      bus,
		log:      log.With("component", "posts"),
		cache:    []models.Post{},
		pending:  make(map[string]PendingOp),
	}
}

// List fetches the full collection. Concurrent callers share one request.
// On failure the cached list is left untouched.
func (r *repository) List(ctx context.Context) ([]models.Post, error) {
	_, err, _ := r.lists.Do("list", func() (any, error) {
		done := r.track("", events.OpList)
		fetched, err := r.client.List(ctx)
		done()
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.cache = slices.Clone(fetched)
		r.mu.Unlock()

		r.publish(events.OpList, "")
		return nil, nil
	})
	if err != nil {
		r.log.Warn(ctx, "keeping cached posts after failed refresh", "error", err, "cached", len(r.Snapshot()))
		return nil, err
	}
	return r.Snapshot(), nil
}

// Get reads a post from the remote and refreshes its cached copy.
func (r *repository) Get(ctx context.Context, id models.PostID) (models.Post, error) {
	p, err := r.client.Get(ctx, id)
	if err != nil {
		return models.Post{}, r.mapErr(err, id)
	}

	r.mu.Lock()
	i := r.index(id)
	changed := i >= 0 && r.cache[i] != p
	if changed {
		r.cache[i] = p
	}
	r.mu.Unlock()

	if changed {
		r.publish(events.OpUpdate, id)
	}
	return p, nil
}

func (r *repository) Create(ctx context.Context, d models.Draft) (models.Post, error) {
	d, err := r.prepare(ctx, d)
	if err != nil {
		return models.Post{}, err
	}

	done := r.track("", events.OpCreate)
	p, err := r.client.Create(ctx, d)
	done()
	if err != nil {
		return models.Post{}, err
	}

	r.mu.Lock()
	r.cache = append(r.cache, p)
	r.mu.Unlock()

	r.publish(events.OpCreate, p.ID)
	return p, nil
}

// Update replaces the editable fields of post id. The stored createdAt is
// kept by the server; the response's updatedAt replaces the cached one.
func (r *repository) Update(ctx context.Context, id models.PostID, d models.Draft) (models.Post, error) {
	d, err := r.prepare(ctx, d)
	if err != nil {
		return models.Post{}, err
	}

	done := r.track(id, events.OpUpdate)
	p, err := r.client.Update(ctx, id, d)
	done()
	if err != nil {
		return models.Post{}, r.mapErr(err, id)
	}

	r.mu.Lock()
	if i := r.index(id); i >= 0 {
		r.cache[i] = p
	} else {
		r.cache = append(r.cache, p)
	}
	r.mu.Unlock()

	r.publish(events.OpUpdate, id)
	return p, nil
}

// Delete removes post id remotely and then from the cache. A post the
// remote no longer has is dropped from the cache as well.
func (r *repository) Delete(ctx context.Context, id models.PostID) error {
	done := r.track(id, events.OpDelete)
	err := r.client.Delete(ctx, id)
	done()
	if err != nil && !errors.Is(err, remote.ErrNotFound) {
		return err
	}

	r.mu.Lock()
	removed := false
	if i := r.index(id); i >= 0 {
		r.cache = slices.Delete(r.cache, i, i+1)
		removed = true
	}
	r.mu.Unlock()

	if removed {
		r.publish(events.OpDelete, id)
	}
	if err != nil {
		return r.mapErr(err, id)
	}
	return nil
}

func (r *repository) Snapshot() []models.Post {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.cache)
}

func (r *repository) Pending() []PendingOp {
	r.mu.RLock()
	ops := make([]PendingOp, 0, len(r.pending))
	for _, op := range r.pending {
		ops = append(ops, op)
	}
	r.mu.RUnlock()

	sort.Slice(ops, func(i, j int) bool { return ops[i].StartedAt.Before(ops[j].StartedAt) })
	return ops
}

// prepare validates d and swaps an inline image payload for an uploaded
// link. Validation runs before any network call.
func (r *repository) prepare(ctx context.Context, d models.Draft) (models.Draft, error) {
	d, err := ValidateDraft(d)
	if err != nil {
		return d, err
	}
	if !d.IsDataPayload() {
		return d, nil
	}

	link, err := r.uploader.Upload(ctx, d.Image)
	if err != nil {
		return d, fmt.Errorf("failed to upload image: %w", err)
	}
	d.Image = link
	return d, nil
}

func (r *repository) track(id models.PostID, kind events.Op) func() {
	op := PendingOp{ID: uuid.NewString(), PostID: id, Kind: kind, StartedAt: time.Now()}

	r.mu.Lock()
	r.pending[op.ID] = op
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.pending, op.ID)
		r.mu.Unlock()
	}
}

func (r *repository) publish(op events.Op, id models.PostID) {
	if r.bus == nil {
		return
	}
	r.bus.PublishPostsChanged(events.PostsChanged{Op: op, ID: id, Posts: r.Snapshot()})
}

func (r *repository) mapErr(err error, id models.PostID) error {
	if errors.Is(err, remote.ErrNotFound) {
		return fmt.Errorf("%w: %s: %w", ErrNotFound, id, err)
	}
	return err
}

// index must be called with mu held.
func (r *repository) index(id models.PostID) int {
	return slices.IndexFunc(r.cache, func(p models.Post) bool { return p.ID == id })
}
