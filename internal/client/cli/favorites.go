package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/blogkeeper/internal/client/models"
)

// ToggleFavorite adds the post to favorites or removes it when present.
func (a *App) ToggleFavorite(ctx context.Context, id string) error {
	on, err := a.favorites.Toggle(ctx, models.PostID(id))
	if err != nil {
		return err
	}
	if on {
		a.success(fmt.Sprintf("Post %s added to favorites.", id))
	} else {
		a.notice(fmt.Sprintf("Post %s removed from favorites.", id))
	}
	return nil
}

// Favorites prints the favorite posts that still exist, in the order they
// were added.
func (a *App) Favorites(ctx context.Context) error {
	v, err := a.feed.Favorites(ctx)

	a.heading(fmt.Sprintf("Favorites (%d)", len(v.Posts)))
	if v.Stale {
		a.warn("Showing cached posts; the server could not be reached.")
	}
	if len(v.Posts) == 0 {
		a.notice("No favorites yet. Use 'fav <id>' on a post you like.")
	} else {
		a.printPosts(v.Posts)
	}
	if v.Missing > 0 {
		a.notice(mutedColor.Sprintf("%d favorite(s) refer to posts that no longer exist.", v.Missing))
	}
	return err
}

func (a *App) ClearFavorites(ctx context.Context) error {
	n := a.favorites.Count(ctx)
	if err := a.favorites.Clear(ctx); err != nil {
		return err
	}
	a.notice(fmt.Sprintf("Removed %d favorite(s).", n))
	return nil
}
