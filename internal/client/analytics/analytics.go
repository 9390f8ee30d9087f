// Package analytics derives summary views from a post list. Everything
// except Aggregator is a pure function.
package analytics

import (
	"math"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/blogkeeper/internal/client/models"
)

// UnknownAuthor labels posts without an author.
const UnknownAuthor = "Unknown"

// DefaultPageSize is the page size used by the analytics view.
const DefaultPageSize = 5

type AuthorCount struct {
	Author string
	Count  int
}

// GroupByAuthor counts posts per author in first-seen order.
func GroupByAuthor(posts []models.Post) []AuthorCount {
	out := []AuthorCount{}
	index := make(map[string]int)
	for _, p := range posts {
		author := authorOf(p)
		if i, ok := index[author]; ok {
			out[i].Count++
			continue
		}
		index[author] = len(out)
		out = append(out, AuthorCount{Author: author, Count: 1})
	}
	return out
}

func authorOf(p models.Post) string {
	if a := strings.TrimSpace(p.Author); a != "" {
		return a
	}
	return UnknownAuthor
}

// PercentageOf returns count/total as a rounded whole percentage, or 0
// when total is not positive.
func PercentageOf(count, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(count) * 100 / float64(total)))
}

type Share struct {
	Author  string
	Count   int
	Percent int
}

func Distribution(posts []models.Post) []Share {
	groups := GroupByAuthor(posts)
	out := make([]Share, 0, len(groups))
	for _, g := range groups {
		out = append(out, Share{Author: g.Author, Count: g.Count, Percent: PercentageOf(g.Count, len(posts))})
	}
	return out
}

// TotalPages is the number of pages needed for total items, at least 1.
// A non-positive size counts as 1.
func TotalPages(total, size int) int {
	if size <= 0 {
		size = 1
	}
	if total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

type Page[T any] struct {
	Items  []T
	Number int
	Total  int
}

// Paginate returns page number page of items, clamping page into
// [1, TotalPages]. Empty input yields a single empty page.
func Paginate[T any](items []T, size, page int) Page[T] {
	if size <= 0 {
		size = 1
	}
	total := TotalPages(len(items), size)
	page = min(max(page, 1), total)

	start := (page - 1) * size
	end := min(start+size, len(items))
	if start > end {
		start = end
	}
	return Page[T]{Items: items[start:end:end], Number: page, Total: total}
}

// ReadTime estimates minutes to read text at 200 words per minute, at
// least 1.
func ReadTime(text string) int {
	words := len(strings.Fields(text))
	return max(1, (words+199)/200)
}

type DashboardStats struct {
	Total     int
	Own       int
	Community int
}

// Dashboard counts posts by username (case-insensitive author match)
// against everyone else's.
func Dashboard(posts []models.Post, username string) DashboardStats {
	username = strings.TrimSpace(username)
	own := 0
	if username != "" {
		for _, p := range posts {
			if strings.EqualFold(strings.TrimSpace(p.Author), username) {
				own++
			}
		}
	}
	return DashboardStats{Total: len(posts), Own: own, Community: len(posts) - own}
}

type ShareLinks struct {
	Twitter  string
	LinkedIn string
}

// ShareLinksFor builds social share URLs for a post reachable at link.
func ShareLinksFor(p models.Post, link string) ShareLinks {
	tw := url.Values{}
	tw.Set("text", "Check out this post: "+p.Title)
	tw.Set("url", link)

	li := url.Values{}
	li.Set("url", link)

	return ShareLinks{
		Twitter:  "https://twitter.com/intent/tweet?" + tw.Encode(),
		LinkedIn: "https://www.linkedin.com/sharing/share-offsite/?" + li.Encode(),
	}
}
