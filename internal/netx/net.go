// Package netx holds HTTP helpers shared by client components.
package netx

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

var uploadClient = resty.New().SetTimeout(2 * time.Minute)

// UploadToPresignedURL PUTs data to a presigned object URL. contentType
// must match the one the URL was signed with.
func UploadToPresignedURL(ctx context.Context, url, contentType string, data []byte) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	resp, err := uploadClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetBody(data).
		Put(url)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("upload failed: %s; body: %s", resp.Status(), strings.TrimSpace(resp.String()))
	}
	return nil
}
