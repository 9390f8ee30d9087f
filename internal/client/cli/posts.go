package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/blogkeeper/internal/client/analytics"
	"github.com/dmitrijs2005/blogkeeper/internal/client/models"
	"github.com/dmitrijs2005/blogkeeper/internal/filex"
)

var getMultiline = GetMultiline
var getTextWithDefault = GetTextWithDefault

// Dashboard prints the greeting, the post counters and the latest posts.
// When the refresh fails the cached list is shown and marked stale.
func (a *App) Dashboard(ctx context.Context) error {
	v, err := a.feed.Dashboard(ctx)

	a.heading(fmt.Sprintf("Welcome back, %s!", v.User.Username))
	a.notice(fmt.Sprintf("Total posts: %d   Your posts: %d   Community: %d", v.Stats.Total, v.Stats.Own, v.Stats.Community))
	if v.Stale {
		a.warn("Showing cached posts; the server could not be reached.")
	}
	a.printPosts(v.Posts)
	return err
}

// List prints every post in server order.
func (a *App) List(ctx context.Context) error {
	list, err := a.posts.List(ctx)
	if err != nil {
		a.warn("Showing cached posts; the server could not be reached.")
		list = a.posts.Snapshot()
	}
	a.printPosts(list)
	return err
}

func (a *App) printPosts(list []models.Post) {
	if len(list) == 0 {
		a.notice("No posts yet. Use 'create' to write the first one.")
		return
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tDATE")
	for _, p := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, truncate(p.Title, 40), authorOrUnknown(p.Author), displayDate(p))
	}
	_ = tw.Flush()
}

// Show prints one post with its read time, favorite mark and share links.
func (a *App) Show(ctx context.Context, id string) error {
	v, err := a.feed.Post(ctx, models.PostID(id))
	if err != nil {
		return err
	}

	p := v.Post
	mark := ""
	if v.Favorite {
		mark = " ★"
	}
	a.heading(p.Title + mark)
	a.notice(fmt.Sprintf("by %s · %s · %d min read", authorOrUnknown(p.Author), displayDate(p), v.ReadTime))
	a.notice(mutedColor.Sprint(imageLabel(p.Image)))
	a.notice("")
	a.notice(p.Description)
	a.notice("")
	a.notice("Share on Twitter:  " + v.Share.Twitter)
	a.notice("Share on LinkedIn: " + v.Share.LinkedIn)
	return nil
}

// Create prompts for a new post and submits it. The author defaults to the
// signed-in user's display name.
func (a *App) Create(ctx context.Context) error {
	author := ""
	if s, ok := a.auth.Current(ctx); ok {
		author = s.Username
	}

	d, err := a.readDraft(models.Draft{Author: author})
	if err != nil {
		return err
	}

	p, err := a.posts.Create(ctx, d)
	if err != nil {
		return err
	}
	a.success(fmt.Sprintf("Post %s created.", p.ID))
	return nil
}

// Edit loads the post, prompts for new values with the current ones as
// defaults, and saves the result.
func (a *App) Edit(ctx context.Context, id string) error {
	p, err := a.posts.Get(ctx, models.PostID(id))
	if err != nil {
		return err
	}

	d, err := a.readDraft(p.Draft())
	if err != nil {
		return err
	}

	if _, err := a.posts.Update(ctx, p.ID, d); err != nil {
		return err
	}
	a.success(fmt.Sprintf("Post %s updated.", p.ID))
	return nil
}

// Delete asks for confirmation and removes the post.
func (a *App) Delete(ctx context.Context, id string) error {
	answer, err := getSimpleText(a.reader, fmt.Sprintf("Delete post %s? (y/N)", id), a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
		a.notice("Cancelled.")
		return nil
	}

	if err := a.posts.Delete(ctx, models.PostID(id)); err != nil {
		return err
	}
	a.success(fmt.Sprintf("Post %s deleted.", id))
	return nil
}

// Pending lists requests that were issued and have not settled yet.
func (a *App) Pending(_ context.Context) error {
	ops := a.posts.Pending()
	if len(ops) == 0 {
		a.notice("No pending requests.")
		return nil
	}
	for _, op := range ops {
		target := op.PostID.String()
		if target == "" {
			target = "-"
		}
		a.notice(fmt.Sprintf("%s %s (started %s ago)", op.Kind, target, time.Since(op.StartedAt).Round(time.Millisecond)))
	}
	return nil
}

// readDraft prompts for every editable field, offering cur as defaults.
// The description is multi-line; an empty answer keeps the current text.
func (a *App) readDraft(cur models.Draft) (models.Draft, error) {
	d := cur

	var err error
	if d.Title, err = getTextWithDefault(a.reader, "Title", cur.Title, a.out); err != nil {
		return models.Draft{}, err
	}
	if d.Author, err = getTextWithDefault(a.reader, "Author", cur.Author, a.out); err != nil {
		return models.Draft{}, err
	}

	prompt := "Description"
	if cur.Description != "" {
		prompt += " (leave empty to keep the current text)"
	}
	desc, err := getMultiline(a.reader, prompt, a.out)
	if err != nil {
		return models.Draft{}, err
	}
	if desc != "" {
		d.Description = desc
	}

	imgDefault := cur.Image
	if strings.HasPrefix(imgDefault, "data:") {
		imgDefault = "current image"
	}
	img, err := getTextWithDefault(a.reader, "Image URL or path to a local file", imgDefault, a.out)
	if err != nil {
		return models.Draft{}, err
	}
	if img != imgDefault {
		if d.Image, err = resolveImage(img); err != nil {
			return models.Draft{}, err
		}
	}

	return d, nil
}

// resolveImage turns a path to an existing local file into a data URL;
// anything else is taken as a link.
func resolveImage(s string) (string, error) {
	if s == "" || strings.Contains(s, "://") || strings.HasPrefix(s, "data:") {
		return s, nil
	}
	if fi, err := os.Stat(s); err == nil && fi.Mode().IsRegular() {
		return filex.ReadDataURL(s)
	}
	return s, nil
}

func imageLabel(img string) string {
	switch {
	case img == "":
		return "(no image)"
	case strings.HasPrefix(img, "data:"):
		return "(embedded image)"
	default:
		return "Image: " + img
	}
}

// displayDate prefers the post's own date and falls back to its creation
// time as dd/mm/yyyy.
func displayDate(p models.Post) string {
	if p.Date != "" {
		return p.Date
	}
	if p.CreatedAt.IsZero() {
		return "Recent"
	}
	return p.CreatedAt.Local().Format("02/01/2006")
}

func authorOrUnknown(author string) string {
	if strings.TrimSpace(author) == "" {
		return analytics.UnknownAuthor
	}
	return author
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
