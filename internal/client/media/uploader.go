// Package media moves inline image payloads out of post bodies and into
// object storage.
package media

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/blogkeeper/internal/netx"
	"github.com/google/uuid"
)

// Uploader stores a data URL and returns the link posts should carry
// instead.
type Uploader interface {
	Upload(ctx context.Context, dataURL string) (string, error)
}

type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	// PublicURL, when set, is the base of links handed out for uploaded
	// objects. Otherwise a presigned GET link is issued.
	PublicURL string
}

// NewUploader returns an S3 uploader, or an inline one when no bucket is
// configured.
func NewUploader(cfg S3Config) Uploader {
	if cfg.Bucket == "" {
		return Inline{}
	}
	return &S3Uploader{cfg: cfg}
}

// Inline keeps payloads embedded in the post.
type Inline struct{}

func (Inline) Upload(_ context.Context, dataURL string) (string, error) {
	return dataURL, nil
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
	uploadToPresignedURL = netx.UploadToPresignedURL
)

const linkValidity = 7 * 24 * time.Hour

type S3Uploader struct {
	cfg S3Config
}

func (u *S3Uploader) presignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(u.cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			u.cfg.AccessKey,
			u.cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if u.cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(u.cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return s3.NewPresignClient(client), nil
}

func storageKey(ext string) string {
	d := time.Now()
	return fmt.Sprintf("posts/%d/%d/%d/%v%s", d.Year(), d.Month(), d.Day(), uuid.New(), ext)
}

func (u *S3Uploader) Upload(ctx context.Context, dataURL string) (string, error) {
	payload, err := ParseDataURL(dataURL)
	if err != nil {
		return "", err
	}

	pc, err := u.presignClient(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to configure object storage: %w", err)
	}

	bucket := u.cfg.Bucket
	key := storageKey(payload.Extension())

	req, err := presignPutObject(pc, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		ContentType: &payload.MediaType,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", fmt.Errorf("failed to presign upload: %w", err)
	}

	if err := uploadToPresignedURL(ctx, req.URL, payload.MediaType, payload.Data); err != nil {
		return "", err
	}

	if u.cfg.PublicURL != "" {
		return strings.TrimRight(u.cfg.PublicURL, "/") + "/" + key, nil
	}

	get, err := presignGetObject(pc, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(linkValidity))
	if err != nil {
		return "", fmt.Errorf("failed to presign link: %w", err)
	}
	return get.URL, nil
}
