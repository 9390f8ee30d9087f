// Package favorites persists the user's set of favorite post ids.
package favorites

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrijs2005/blogkeeper/internal/client/kvstore"
	"github.com/dmitrijs2005/blogkeeper/internal/client/models"
)

// Key is the persisted key holding favorite ids.
const Key = "favorites"

const schema = `{
  "type": "array",
  "items": {"type": ["string", "number"]}
}`

// Store is a set of post ids, kept in the order they were added. It never
// checks that the posts still exist.
type Store interface {
	Toggle(ctx context.Context, id models.PostID) (bool, error)
	IsFavorite(ctx context.Context, id models.PostID) bool
	List(ctx context.Context) []models.PostID
	Clear(ctx context.Context) error
	Count(ctx context.Context) int
}

type store struct {
	kv *kvstore.Store
	mu sync.Mutex
}

func NewStore(kv *kvstore.Store) (Store, error) {
	if err := kv.RegisterSchema(Key, schema); err != nil {
		return nil, err
	}
	return &store{kv: kv}, nil
}

func (s *store) load(ctx context.Context) []models.PostID {
	ids := kvstore.Read(ctx, s.kv, Key, []models.PostID{})
	// duplicates can only come from outside edits
	out := ids[:0]
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

// Toggle adds id when absent and removes it when present, then persists.
// It reports whether id is a favorite afterwards.
func (s *store) Toggle(ctx context.Context, id models.PostID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.load(ctx)
	added := false
	if i := slices.Index(ids, id); i >= 0 {
		ids = slices.Delete(ids, i, i+1)
	} else {
		ids = append(ids, id)
		added = true
	}

	if err := s.kv.Write(ctx, Key, ids); err != nil {
		return !added, fmt.Errorf("failed to save favorites: %w", err)
	}
	return added, nil
}

func (s *store) IsFavorite(ctx context.Context, id models.PostID) bool {
	return slices.Contains(s.load(ctx), id)
}

func (s *store) List(ctx context.Context) []models.PostID {
	return s.load(ctx)
}

func (s *store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Write(ctx, Key, []models.PostID{}); err != nil {
		return fmt.Errorf("failed to clear favorites: %w", err)
	}
	return nil
}

func (s *store) Count(ctx context.Context) int {
	return len(s.load(ctx))
}
