// Package events carries in-process notifications between client
// components.
package events

import (
	evbus "github.com/asaskevich/EventBus"
	"github.com/dmitrijs2005/blogkeeper/internal/client/models"
)

// TopicPostsChanged fires after every change to the cached post list.
const TopicPostsChanged = "posts:changed"

type Op string

const (
	OpList   Op = "list"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// PostsChanged describes a cache change. Posts is the full list after the
// change; ID is empty for OpList.
type PostsChanged struct {
	Op    Op
	ID    models.PostID
	Posts []models.Post
}

// Bus delivers events synchronously, in subscription order.
type Bus struct {
	bus evbus.Bus
}

func New() *Bus {
	return &Bus{bus: evbus.New()}
}

func (b *Bus) PublishPostsChanged(ev PostsChanged) {
	b.bus.Publish(TopicPostsChanged, ev)
}

// OnPostsChanged registers fn and returns a function that removes it.
func (b *Bus) OnPostsChanged(fn func(PostsChanged)) (func(), error) {
	if err := b.bus.Subscribe(TopicPostsChanged, fn); err != nil {
		return nil, err
	}
	return func() {
		_ = b.bus.Unsubscribe(TopicPostsChanged, fn)
	}, nil
}
