package analytics

import (
	"sync"

	"github.com/dmitrijs2005/blogkeeper/internal/client/events"
	"github.com/dmitrijs2005/blogkeeper/internal/client/models"
)

// Summary is the derived view of one post list.
type Summary struct {
	Total        int
	Authors      []AuthorCount
	Distribution []Share
}

func Summarize(posts []models.Post) Summary {
	return Summary{
		Total:        len(posts),
		Authors:      GroupByAuthor(posts),
		Distribution: Distribution(posts),
	}
}

// Aggregator recomputes the summary on every post list change.
type Aggregator struct {
	mu      sync.RWMutex
	posts   []models.Post
	summary Summary

	unsubscribe func()
}

func NewAggregator(bus *events.Bus) (*Aggregator, error) {
	a := &Aggregator{summary: Summarize(nil)}
	unsubscribe, err := bus.OnPostsChanged(a.handle)
	if err != nil {
		return nil, err
	}
	a.unsubscribe = unsubscribe
	return a, nil
}

func (a *Aggregator) handle(ev events.PostsChanged) {
	s := Summarize(ev.Posts)
	a.mu.Lock()
	a.posts = ev.Posts
	a.summary = s
	a.mu.Unlock()
}

func (a *Aggregator) Summary() Summary {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.summary
}

// Page returns a page of the posts the latest summary was computed from.
func (a *Aggregator) Page(size, page int) Page[models.Post] {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return Paginate(a.posts, size, page)
}

func (a *Aggregator) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
}
