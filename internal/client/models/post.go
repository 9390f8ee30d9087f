package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// PostID is a server-assigned identifier. Remote stores emit either JSON
// strings or numbers; both decode to the same string form.
type PostID string

func (id *PostID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = PostID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("post id: %w", err)
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return fmt.Errorf("post id: %w", err)
	}
	*id = PostID(n.String())
	return nil
}

func (id PostID) String() string { return string(id) }

// Post is a blog post as held by the remote collection.
type Post struct {
	ID          PostID    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Date        string    `json:"date,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
	UpdatedAt   time.Time `json:"updatedAt,omitzero"`
}

// Draft returns the user-editable fields of p.
func (p Post) Draft() Draft {
	return Draft{
		Title:       p.Title,
		Author:      p.Author,
		Description: p.Description,
		Image:       p.Image,
		Date:        p.Date,
	}
}

// Draft holds user-supplied post fields before the server assigns the id
// and timestamps.
type Draft struct {
	Title       string `json:"title" validate:"required,min=3"`
	Author      string `json:"author" validate:"required,min=2"`
	Description string `json:"description" validate:"required,min=10"`
	Image       string `json:"image" validate:"required"`
	Date        string `json:"date,omitempty"`
}

// Normalize trims surrounding whitespace from every field.
func (d Draft) Normalize() Draft {
	return Draft{
		Title:       strings.TrimSpace(d.Title),
		Author:      strings.TrimSpace(d.Author),
		Description: strings.TrimSpace(d.Description),
		Image:       strings.TrimSpace(d.Image),
		Date:        strings.TrimSpace(d.Date),
	}
}

// IsDataPayload reports whether the image is an inline data: URL rather than
// a link.
func (d Draft) IsDataPayload() bool {
	return strings.HasPrefix(d.Image, "data:")
}

// UnmarshalJSON accepts the timestamp shapes other writers of the collection
// produce: RFC 3339, a bare date, or epoch milliseconds. Empty or
// unrecognised timestamps decode to the zero time.
func (p *Post) UnmarshalJSON(b []byte) error {
	type plain Post
	var aux struct {
		plain
		CreatedAt json.RawMessage `json:"createdAt"`
		UpdatedAt json.RawMessage `json:"updatedAt"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*p = Post(aux.plain)
	p.CreatedAt = parseTimestamp(aux.CreatedAt)
	p.UpdatedAt = parseTimestamp(aux.UpdatedAt)
	return nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// parseTimestamp decodes a raw JSON timestamp. Numbers are epoch
// milliseconds; strings are tried against timestampLayouts.
func parseTimestamp(raw json.RawMessage) time.Time {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}
	}

	if raw[0] != '"' {
		ms, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			return time.Time{}
		}
		return time.UnixMilli(int64(ms)).UTC()
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC()
	}
	return time.Time{}
}
