package events

import (
	"testing"

	"github.com/dmitrijs2005/blogkeeper/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostsChanged(t *testing.T) {
	b := New()

	var got []PostsChanged
	unsubscribe, err := b.OnPostsChanged(func(ev PostsChanged) {
		got = append(got, ev)
	})
	require.NoError(t, err)

	ev := PostsChanged{Op: OpCreate, ID: "1", Posts: []models.Post{{ID: "1"}}}
	b.PublishPostsChanged(ev)
	require.Len(t, got, 1)
	assert.Equal(t, ev, got[0])

	unsubscribe()
	b.PublishPostsChanged(PostsChanged{Op: OpList})
	assert.Len(t, got, 1)
}

func TestPostsChanged_NoSubscribers(t *testing.T) {
	assert.NotPanics(t, func() {
		New().PublishPostsChanged(PostsChanged{Op: OpDelete, ID: "x"})
	})
}
