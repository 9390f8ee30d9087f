package posts

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/blogkeeper/internal/client/models"
	"github.com/dmitrijs2005/blogkeeper/internal/client/remote"
)

// fakeClient is an in-memory remote.PostsClient with call counters and
// injectable failures.
type fakeClient struct {
	mu     sync.Mutex
	posts  []models.Post
	nextID int
	calls  map[string]int

	failList   error
	failCreate error
	failDelete error

	// block, when set, is waited on by List before answering.
	block chan struct{}
}

func newFakeClient(posts ...models.Post) *fakeClient {
	return &fakeClient{posts: posts, nextID: 100, calls: map[string]int{}}
}

func (f *fakeClient) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeClient) List(ctx context.Context) ([]models.Post, error) {
	f.mu.Lock()
	f.calls["list"]++
	block := f.block
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failList != nil {
		return nil, f.failList
	}
	return slices.Clone(f.posts), nil
}

func (f *fakeClient) Get(_ context.Context, id models.PostID) (models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["get"]++
	for _, p := range f.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Post{}, &remote.RemoteError{Op: "get post", Status: 404, Err: remote.ErrNotFound}
}

func (f *fakeClient) Create(_ context.Context, d models.Draft) (models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["create"]++
	if f.failCreate != nil {
		return models.Post{}, f.failCreate
	}
	f.nextID++
	p := models.Post{
		ID:          models.PostID(fmt.Sprint(f.nextID)),
		Title:       d.Title,
		Author:      d.Author,
		Description: d.Description,
		Image:       d.Image,
		Date:        d.Date,
		CreatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	f.posts = append(f.posts, p)
	return p, nil
}

func (f *fakeClient) Update(_ context.Context, id models.PostID, d models.Draft) (models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["update"]++
	for i, p := range f.posts {
		if p.ID == id {
			p.Title, p.Author, p.Description, p.Image, p.Date = d.Title, d.Author, d.Description, d.Image, d.Date
			p.UpdatedAt = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
			f.posts[i] = p
			return p, nil
		}
	}
	return models.Post{}, &remote.RemoteError{Op: "update post", Status: 404, Err: remote.ErrNotFound}
}

func (f *fakeClient) Delete(_ context.Context, id models.PostID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["delete"]++
	if f.failDelete != nil {
		return f.failDelete
	}
	for i, p := range f.posts {
		if p.ID == id {
			f.posts = slices.Delete(f.posts, i, i+1)
			return nil
		}
	}
	return &remote.RemoteError{Op: "delete post", Status: 404, Err: remote.ErrNotFound}
}

type fakeUploader struct {
	link  string
	err   error
	calls int
}

func (u *fakeUploader) Upload(context.Context, string) (string, error) {
	u.calls++
	return u.link, u.err
}
