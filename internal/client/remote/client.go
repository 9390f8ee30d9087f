// Package remote talks to the REST posts collection.
package remote

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/dmitrijs2005/blogkeeper/internal/client/models"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

type PostsClient interface {
	List(ctx context.Context) ([]models.Post, error)
	Get(ctx context.Context, id models.PostID) (models.Post, error)
	Create(ctx context.Context, d models.Draft) (models.Post, error)
	Update(ctx context.Context, id models.PostID, d models.Draft) (models.Post, error)
	Delete(ctx context.Context, id models.PostID) error
}

// TokenSource yields the bearer token for the next request. An empty token
// sends no Authorization header.
type TokenSource func(ctx context.Context) (string, error)

type Options struct {
	BaseURL string
	Timeout time.Duration
	// RateLimit is requests per second; zero disables limiting.
	RateLimit float64
	Token     TokenSource
}

type restyClient struct {
	http *resty.Client
}

func NewPostsClient(opts Options) PostsClient {
	c := resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetHeader("Accept", "application/json")
	if opts.Timeout > 0 {
		c.SetTimeout(opts.Timeout)
	}
	c.JSONMarshal = sonic.Marshal

	if opts.RateLimit > 0 {
		limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
		c.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			return limiter.Wait(r.Context())
		})
	}
	if opts.Token != nil {
		c.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			tok, err := opts.Token(r.Context())
			if err != nil {
				return fmt.Errorf("failed to obtain token: %w", err)
			}
			if tok != "" {
				r.SetAuthToken(tok)
			}
			return nil
		})
	}

	return &restyClient{http: c}
}

func (c *restyClient) List(ctx context.Context) ([]models.Post, error) {
	var out []models.Post
	resp, err := c.http.R().SetContext(ctx).Get("/posts")
	if err := check("list posts", resp, err); err != nil {
		return nil, err
	}
	if err := decode("list posts", resp, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Post{}
	}
	return out, nil
}

func (c *restyClient) Get(ctx context.Context, id models.PostID) (models.Post, error) {
	var out models.Post
	resp, err := c.http.R().SetContext(ctx).
		SetPathParam("id", id.String()).
		Get("/posts/{id}")
	if err := check("get post", resp, err); err != nil {
		return models.Post{}, err
	}
	if err := decode("get post", resp, &out); err != nil {
		return models.Post{}, err
	}
	return out, nil
}

func (c *restyClient) Create(ctx context.Context, d models.Draft) (models.Post, error) {
	var out models.Post
	resp, err := c.http.R().SetContext(ctx).
		SetBody(d).
		Post("/posts")
	if err := check("create post", resp, err); err != nil {
		return models.Post{}, err
	}
	if err := decode("create post", resp, &out); err != nil {
		return models.Post{}, err
	}
	return out, nil
}

// Update sends only draft fields so the stored createdAt is never
// overwritten.
func (c *restyClient) Update(ctx context.Context, id models.PostID, d models.Draft) (models.Post, error) {
	var out models.Post
	resp, err := c.http.R().SetContext(ctx).
		SetPathParam("id", id.String()).
		SetBody(d).
		Put("/posts/{id}")
	if err := check("update post", resp, err); err != nil {
		return models.Post{}, err
	}
	if err := decode("update post", resp, &out); err != nil {
		return models.Post{}, err
	}
	return out, nil
}

func (c *restyClient) Delete(ctx context.Context, id models.PostID) error {
	resp, err := c.http.R().SetContext(ctx).
		SetPathParam("id", id.String()).
		Delete("/posts/{id}")
	return check("delete post", resp, err)
}

func check(op string, resp *resty.Response, err error) error {
	if err != nil {
		return transportError(op, err)
	}
	if resp.IsError() {
		return statusError(op, resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
	return nil
}

// decode reads a successful response body into v. Bodies the client cannot
// read are reported as ErrMalformedResponse.
func decode(op string, resp *resty.Response, v any) error {
	body := resp.Body()
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(body, v); err != nil {
		return malformedError(op, resp.StatusCode(), err)
	}
	return nil
}
