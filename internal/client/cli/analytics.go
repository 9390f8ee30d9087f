package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
)

const barWidth = 20

// Analytics refreshes the post list and prints the per-author distribution
// followed by one page of the post table.
func (a *App) Analytics(ctx context.Context, page int) error {
	_, err := a.posts.List(ctx)
	if err != nil {
		a.warn("Showing cached posts; the server could not be reached.")
	}

	s := a.aggregator.Summary()
	a.heading("Analytics")
	a.notice(fmt.Sprintf("Total posts: %d   Authors: %d", s.Total, len(s.Authors)))

	if s.Total == 0 {
		a.notice("No posts to analyse yet.")
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, sh := range s.Distribution {
		fill := sh.Percent * barWidth / 100
		fmt.Fprintf(tw, "%s\t%d\t%s%s\t%d%%\n", sh.Author, sh.Count,
			strings.Repeat("█", fill), strings.Repeat("░", barWidth-fill), sh.Percent)
	}
	_ = tw.Flush()

	p := a.aggregator.Page(a.config.PageSize, page)
	a.notice("")
	a.printPosts(p.Items)
	a.notice(fmt.Sprintf("Page %d of %d", p.Number, p.Total))
	return err
}
