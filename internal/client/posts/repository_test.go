package posts

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/blogkeeper/internal/client/events"
	"github.com/dmitrijs2005/blogkeeper/internal/client/models"
	"github.com/dmitrijs2005/blogkeeper/internal/client/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var validDraft = models.Draft{Title: "Hello", Author: "ann", Description: "a long enough body", Image: "http://x/a.png"}

func seeded() []models.Post {
	return []models.Post{
		{ID: "1", Title: "One", Author: "ann"},
		{ID: "2", Title: "Two", Author: "bob"},
	}
}

func TestList_ReplacesCache(t *testing.T) {
	fc := newFakeClient(seeded()...)
	repo := NewRepository(fc, nil, nil, nil)

	assert.Empty(t, repo.Snapshot())
	got, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, seeded(), got)
	assert.Equal(t, seeded(), repo.Snapshot())
}

func TestList_FailureKeepsStaleCache(t *testing.T) {
	fc := newFakeClient(seeded()...)
	repo := NewRepository(fc, nil, nil, nil)
	ctx := context.Background()

	_, err := repo.List(ctx)
	require.NoError(t, err)

	fc.failList = &remote.RemoteError{Op: "list posts", Status: 503, Err: remote.ErrUnavailable}
	_, err = repo.List(ctx)
	require.ErrorIs(t, err, remote.ErrUnavailable)
	assert.Equal(t, seeded(), repo.Snapshot())
}

func TestList_ConcurrentCallsShareRequest(t *testing.T) {
	fc := newFakeClient(seeded()...)
	fc.block = make(chan struct{})
	repo := NewRepository(fc, nil, nil, nil)

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := repo.List(context.Background())
			assert.NoError(t, err)
			assert.Len(t, got, 2)
		}()
	}

	require.Eventually(t, func() bool { return fc.count("list") == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(fc.block)
	wg.Wait()

	assert.Equal(t, 1, fc.count("list"))
}

func TestCreate_ValidationBeforeNetwork(t *testing.T) {
	fc := newFakeClient()
	up := &fakeUploader{}
	repo := NewRepository(fc, up, nil, nil)

	_, err := repo.Create(context.Background(), models.Draft{Title: "x", Image: "data:image/png;base64,AA=="})
	require.ErrorIs(t, err, ErrValidation)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Fields, 3)
	assert.Zero(t, fc.count("create"))
	assert.Zero(t, up.calls)
	assert.Empty(t, repo.Snapshot())
}

func TestCreate_AppendsToCache(t *testing.T) {
	fc := newFakeClient(seeded()...)
	repo := NewRepository(fc, nil, nil, nil)
	ctx := context.Background()
	_, err := repo.List(ctx)
	require.NoError(t, err)

	p, err := repo.Create(ctx, models.Draft{Title: "  Hello ", Author: "ann", Description: "a long enough body", Image: "http://x/a.png"})
	require.NoError(t, err)
	assert.Equal(t, "Hello", p.Title)
	assert.NotEmpty(t, p.ID)

	snap := repo.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, p, snap[2])
}

func TestCreate_UploadsDataPayload(t *testing.T) {
	fc := newFakeClient()
	up := &fakeUploader{link: "https://cdn/x.png"}
	repo := NewRepository(fc, up, nil, nil)

	d := validDraft
	d.Image = "data:image/png;base64,AA=="
	p, err := repo.Create(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/x.png", p.Image)
	assert.Equal(t, 1, up.calls)
}

func TestCreate_UploadFailure(t *testing.T) {
	fc := newFakeClient()
	up := &fakeUploader{err: errors.New("bucket gone")}
	repo := NewRepository(fc, up, nil, nil)

	d := validDraft
	d.Image = "data:image/png;base64,AA=="
	_, err := repo.Create(context.Background(), d)
	require.ErrorContains(t, err, "bucket gone")
	assert.Zero(t, fc.count("create"))
}

func TestCreate_RemoteFailure(t *testing.T) {
	fc := newFakeClient()
	fc.failCreate = &remote.RemoteError{Op: "create post", Status: 500, Err: remote.ErrUnavailable}
	repo := NewRepository(fc, nil, nil, nil)

	_, err := repo.Create(context.Background(), validDraft)
	require.ErrorIs(t, err, remote.ErrUnavailable)
	assert.Empty(t, repo.Snapshot())
	assert.Empty(t, repo.Pending())
}

func TestGet(t *testing.T) {
	fc := newFakeClient(seeded()...)
	repo := NewRepository(fc, nil, nil, nil)
	ctx := context.Background()

	p, err := repo.Get(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "Two", p.Title)

	_, err = repo.Get(ctx, "404")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, err, remote.ErrNotFound)
}

func TestGet_RefreshesCachedCopy(t *testing.T) {
	fc := newFakeClient(seeded()...)
	bus := events.New()
	repo := NewRepository(fc, nil, bus, nil)
	ctx := context.Background()
	_, err := repo.List(ctx)
	require.NoError(t, err)

	var got []events.PostsChanged
	_, err = bus.OnPostsChanged(func(ev events.PostsChanged) { got = append(got, ev) })
	require.NoError(t, err)

	_, err = repo.Get(ctx, "1")
	require.NoError(t, err)
	assert.Empty(t, got, "unchanged post publishes nothing")

	fc.posts[0].Title = "One, edited elsewhere"
	_, err = repo.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "One, edited elsewhere", repo.Snapshot()[0].Title)
	require.Len(t, got, 1)
	assert.Equal(t, events.OpUpdate, got[0].Op)
}

func TestUpdate_ReplacesInPlace(t *testing.T) {
	fc := newFakeClient(seeded()...)
	repo := NewRepository(fc, nil, nil, nil)
	ctx := context.Background()
	_, err := repo.List(ctx)
	require.NoError(t, err)

	p, err := repo.Update(ctx, "1", validDraft)
	require.NoError(t, err)
	assert.False(t, p.UpdatedAt.IsZero())

	snap := repo.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, p, snap[0])
	assert.Equal(t, models.PostID("2"), snap[1].ID)
}

func TestUpdate_AppendsWhenNotCached(t *testing.T) {
	fc := newFakeClient(seeded()...)
	repo := NewRepository(fc, nil, nil, nil)

	p, err := repo.Update(context.Background(), "2", validDraft)
	require.NoError(t, err)
	assert.Equal(t, []models.Post{p}, repo.Snapshot())
}

func TestUpdate_Errors(t *testing.T) {
	fc := newFakeClient(seeded()...)
	repo := NewRepository(fc, nil, nil, nil)
	ctx := context.Background()

	_, err := repo.Update(ctx, "1", models.Draft{})
	require.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, fc.count("update"))

	_, err = repo.Update(ctx, "404", validDraft)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDelete_RemovesWithoutRefetch(t *testing.T) {
	fc := newFakeClient(seeded()...)
	repo := NewRepository(fc, nil, nil, nil)
	ctx := context.Background()
	_, err := repo.List(ctx)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, "1"))
	assert.Equal(t, []models.Post{seeded()[1]}, repo.Snapshot())
	assert.Equal(t, 1, fc.count("list"))
}

func TestDelete_FailureKeepsCache(t *testing.T) {
	fc := newFakeClient(seeded()...)
	repo := NewRepository(fc, nil, nil, nil)
	ctx := context.Background()
	_, err := repo.List(ctx)
	require.NoError(t, err)

	fc.failDelete = &remote.RemoteError{Op: "delete post", Err: remote.ErrUnavailable}
	require.ErrorIs(t, repo.Delete(ctx, "1"), remote.ErrUnavailable)
	assert.Equal(t, seeded(), repo.Snapshot())
}

func TestDelete_MissingRemotelyDropsCachedCopy(t *testing.T) {
	fc := newFakeClient(seeded()...)
	repo := NewRepository(fc, nil, nil, nil)
	ctx := context.Background()
	_, err := repo.List(ctx)
	require.NoError(t, err)

	fc.posts = fc.posts[1:]
	require.ErrorIs(t, repo.Delete(ctx, "1"), ErrNotFound)
	assert.Equal(t, []models.Post{seeded()[1]}, repo.Snapshot())
}

func TestMutationsPublishSnapshots(t *testing.T) {
	fc := newFakeClient(seeded()...)
	bus := events.New()
	repo := NewRepository(fc, nil, bus, nil)
	ctx := context.Background()

	var got []events.PostsChanged
	_, err := bus.OnPostsChanged(func(ev events.PostsChanged) { got = append(got, ev) })
	require.NoError(t, err)

	_, err = repo.List(ctx)
	require.NoError(t, err)
	created, err := repo.Create(ctx, validDraft)
	require.NoError(t, err)
	_, err = repo.Update(ctx, created.ID, validDraft)
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, "1"))

	require.Len(t, got, 4)
	assert.Equal(t, events.OpList, got[0].Op)
	assert.Len(t, got[0].Posts, 2)
	assert.Equal(t, events.OpCreate, got[1].Op)
	assert.Equal(t, created.ID, got[1].ID)
	assert.Len(t, got[1].Posts, 3)
	assert.Equal(t, events.OpUpdate, got[2].Op)
	assert.Equal(t, events.OpDelete, got[3].Op)
	assert.Len(t, got[3].Posts, 2)
}

func TestPending_TracksInFlightRequests(t *testing.T) {
	fc := newFakeClient(seeded()...)
	fc.block = make(chan struct{})
	repo := NewRepository(fc, nil, nil, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = repo.List(context.Background())
	}()

	require.Eventually(t, func() bool { return len(repo.Pending()) == 1 }, time.Second, time.Millisecond)
	op := repo.Pending()[0]
	assert.Equal(t, events.OpList, op.Kind)
	assert.NotEmpty(t, op.ID)

	close(fc.block)
	<-done
	assert.Empty(t, repo.Pending())
}
