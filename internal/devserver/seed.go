package devserver

import (
	"bytes"
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"github.com/dmitrijs2005/blogkeeper/internal/client/models"
)

// SeedFile loads posts from a JSON file holding either an array of posts or
// a json-server style database object with a "posts" array.
func (s *Server) SeedFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	posts, err := decodeSeed(b)
	if err != nil {
		return fmt.Errorf("failed to decode seed file %s: %w", path, err)
	}
	s.Seed(posts...)
	return nil
}

func decodeSeed(b []byte) ([]models.Post, error) {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var posts []models.Post
		err := sonic.Unmarshal(b, &posts)
		return posts, err
	}

	var db struct {
		Posts []models.Post `json:"posts"`
	}
	if err := sonic.Unmarshal(b, &db); err != nil {
		return nil, err
	}
	return db.Posts, nil
}
