// Package filex contains small filesystem helpers for the client.
package filex

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
)

// EnsureDir creates dir (relative paths resolve against the working
// directory) and returns its absolute path.
func EnsureDir(dir string) (string, error) {
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = filepath.Join(cwd, dir)
	}

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// ReadDataURL reads a local file and encodes it as an RFC 2397 data URL,
// sniffing the media type from its content.
func ReadDataURL(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if len(b) == 0 {
		return "", fmt.Errorf("read %s: empty file", path)
	}
	mediaType := http.DetectContentType(b)
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(b), nil
}
