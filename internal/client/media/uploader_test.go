package media

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pngDataURL = "data:image/png;base64,iVBORw0KGgo="

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newFakeS3(t *testing.T) (*fakeS3, *httptest.Server) {
	f := &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Query().Get("X-Amz-Signature") == "" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		b, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.objects[r.URL.Path] = b
		f.types[r.URL.Path] = r.Header.Get("Content-Type")
		f.mu.Unlock()
	}))
	t.Cleanup(ts.Close)
	return f, ts
}

func s3cfg(endpoint string) S3Config {
	return S3Config{
		Endpoint:  endpoint,
		Region:    "us-east-1",
		Bucket:    "blog",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
	}
}

func TestNewUploader(t *testing.T) {
	assert.IsType(t, Inline{}, NewUploader(S3Config{}))
	assert.IsType(t, &S3Uploader{}, NewUploader(S3Config{Bucket: "b"}))
}

func TestInline(t *testing.T) {
	got, err := Inline{}.Upload(context.Background(), pngDataURL)
	require.NoError(t, err)
	assert.Equal(t, pngDataURL, got)
}

func TestS3Uploader_PublicURL(t *testing.T) {
	fake, ts := newFakeS3(t)
	cfg := s3cfg(ts.URL)
	cfg.PublicURL = "https://cdn.example.org/blog/"

	link, err := NewUploader(cfg).Upload(context.Background(), pngDataURL)
	require.NoError(t, err)

	key, ok := strings.CutPrefix(link, "https://cdn.example.org/blog/posts/")
	require.True(t, ok, link)
	assert.True(t, strings.HasSuffix(key, ".png"))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.Len(t, fake.objects, 1)
	for path, body := range fake.objects {
		assert.True(t, strings.HasPrefix(path, "/blog/posts/"), path)
		assert.Equal(t, []byte("\x89PNG\r\n\x1a\n"), body)
		assert.Equal(t, "image/png", fake.types[path])
	}
}

func TestS3Uploader_PresignedLink(t *testing.T) {
	_, ts := newFakeS3(t)

	link, err := NewUploader(s3cfg(ts.URL)).Upload(context.Background(), pngDataURL)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, ts.URL+"/blog/posts/"), link)
	assert.Contains(t, link, "X-Amz-Signature=")
}

func TestS3Uploader_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("not a data url", func(t *testing.T) {
		_, err := NewUploader(s3cfg("http://127.0.0.1:1")).Upload(ctx, "https://example.org/a.png")
		require.ErrorIs(t, err, ErrNotDataURL)
	})

	t.Run("config load fails", func(t *testing.T) {
		orig := loadDefaultAWSConfig
		t.Cleanup(func() { loadDefaultAWSConfig = orig })
		loadDefaultAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
			return aws.Config{}, errors.New("no config")
		}

		_, err := NewUploader(s3cfg("http://127.0.0.1:1")).Upload(ctx, pngDataURL)
		require.ErrorContains(t, err, "no config")
	})

	t.Run("presign fails", func(t *testing.T) {
		orig := presignPutObject
		t.Cleanup(func() { presignPutObject = orig })
		presignPutObject = func(*s3.PresignClient, context.Context, *s3.PutObjectInput, ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
			return nil, errors.New("presign boom")
		}

		_, err := NewUploader(s3cfg("http://127.0.0.1:1")).Upload(ctx, pngDataURL)
		require.ErrorContains(t, err, "presign boom")
	})

	t.Run("upload rejected", func(t *testing.T) {
		orig := uploadToPresignedURL
		t.Cleanup(func() { uploadToPresignedURL = orig })
		uploadToPresignedURL = func(context.Context, string, string, []byte) error {
			return errors.New("upload failed: 403")
		}

		_, err := NewUploader(s3cfg("http://127.0.0.1:1")).Upload(ctx, pngDataURL)
		require.ErrorContains(t, err, "403")
	})
}
