package media

import (
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"strings"
)

var ErrNotDataURL = errors.New("not a data URL")

// Payload is a decoded RFC 2397 data URL.
type Payload struct {
	MediaType string
	Data      []byte
}

// ParseDataURL decodes s. Only the base64 form and percent-encoded plain
// form are accepted.
func ParseDataURL(s string) (Payload, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return Payload{}, ErrNotDataURL
	}
	meta, body, ok := strings.Cut(rest, ",")
	if !ok {
		return Payload{}, fmt.Errorf("%w: missing comma", ErrNotDataURL)
	}

	meta, isBase64 := strings.CutSuffix(meta, ";base64")
	mediaType := "text/plain"
	if meta != "" {
		mt, _, err := mime.ParseMediaType(meta)
		if err != nil {
			return Payload{}, fmt.Errorf("bad media type %q: %w", meta, err)
		}
		mediaType = mt
	}

	var data []byte
	if isBase64 {
		b, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return Payload{}, fmt.Errorf("bad base64 payload: %w", err)
		}
		data = b
	} else {
		b, err := url.PathUnescape(body)
		if err != nil {
			return Payload{}, fmt.Errorf("bad payload: %w", err)
		}
		data = []byte(b)
	}
	if len(data) == 0 {
		return Payload{}, errors.New("empty payload")
	}

	return Payload{MediaType: mediaType, Data: data}, nil
}

// Extension returns a file extension for the payload's media type.
func (p Payload) Extension() string {
	exts, err := mime.ExtensionsByType(p.MediaType)
	if err != nil || len(exts) == 0 {
		return ".bin"
	}
	switch p.MediaType {
	case "image/jpeg":
		return ".jpg"
	}
	return exts[0]
}
