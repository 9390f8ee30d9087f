package services

import (
	"context"
	"slices"
	"strings"

	"github.com/dmitrijs2005/blogkeeper/internal/client/analytics"
	"github.com/dmitrijs2005/blogkeeper/internal/client/favorites"
	"github.com/dmitrijs2005/blogkeeper/internal/client/models"
	"github.com/dmitrijs2005/blogkeeper/internal/client/posts"
	"github.com/dmitrijs2005/blogkeeper/internal/client/session"
)

// DashboardView is the dashboard's data. Stale is set when the refresh
// failed and Posts came from the cache.
type DashboardView struct {
	User  models.Session
	Stats analytics.DashboardStats
	Posts []models.Post
	Stale bool
}

// FavoritesView lists favorite posts in the order they were added.
// Missing counts favorite ids with no matching post.
type FavoritesView struct {
	Posts   []models.Post
	Missing int
	Stale   bool
}

type PostView struct {
	Post     models.Post
	ReadTime int
	Favorite bool
	Share    analytics.ShareLinks
}

// Feed assembles read-side views over posts, favorites and the session.
type Feed interface {
	Dashboard(ctx context.Context) (DashboardView, error)
	Favorites(ctx context.Context) (FavoritesView, error)
	Post(ctx context.Context, id models.PostID) (PostView, error)
}

type feed struct {
	posts     posts.Repository
	favorites favorites.Store
	sessions  session.Store
	shareBase string
}

// NewFeed builds a Feed. shareBase is the public address posts are linked
// from, e.g. http://localhost:5173.
func NewFeed(repo posts.Repository, favs favorites.Store, sessions session.Store, shareBase string) Feed {
	return &feed{posts: repo, favorites: favs, sessions: sessions, shareBase: strings.TrimRight(shareBase, "/")}
}

// refresh lists posts, falling back to the cached list on failure.
func (f *feed) refresh(ctx context.Context) ([]models.Post, bool, error) {
	list, err := f.posts.List(ctx)
	if err != nil {
		return f.posts.Snapshot(), true, err
	}
	return list, false, nil
}

// Dashboard returns the view even when the refresh fails; the error is
// returned alongside for reporting.
func (f *feed) Dashboard(ctx context.Context) (DashboardView, error) {
	user, _ := f.sessions.Current(ctx)
	list, stale, err := f.refresh(ctx)
	return DashboardView{
		User:  user,
		Stats: analytics.Dashboard(list, user.Username),
		Posts: list,
		Stale: stale,
	}, err
}

// Favorites filters the current post list by favorite ids. Ids of deleted
// posts stay stored and are only counted as Missing.
func (f *feed) Favorites(ctx context.Context) (FavoritesView, error) {
	ids := f.favorites.List(ctx)
	list, stale, err := f.refresh(ctx)

	view := FavoritesView{Posts: []models.Post{}, Stale: stale}
	for _, id := range ids {
		i := slices.IndexFunc(list, func(p models.Post) bool { return p.ID == id })
		if i < 0 {
			view.Missing++
			continue
		}
		view.Posts = append(view.Posts, list[i])
	}
	return view, err
}

func (f *feed) Post(ctx context.Context, id models.PostID) (PostView, error) {
	p, err := f.posts.Get(ctx, id)
	if err != nil {
		return PostView{}, err
	}
	return PostView{
		Post:     p,
		ReadTime: analytics.ReadTime(p.Description),
		Favorite: f.favorites.IsFavorite(ctx, id),
		Share:    analytics.ShareLinksFor(p, f.shareBase+"/post/"+id.String()),
	}, nil
}
