package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxResponseBytes = 1 << 20

// PostService is the set of remote operations the views depend on.
type PostService interface {
	List(ctx context.Context) ([]Post, error)
	Get(ctx context.Context, id string) (*Post, error)
	Create(ctx context.Context, in PostInput) (*Post, error)
	Update(ctx context.Context, id string, in PostInput) (json.RawMessage, error)
	Delete(ctx context.Context, id string) (*DeleteResult, error)
}

// PostsClient talks JSON to the remote posts collection.
type PostsClient struct {
	baseURL string
	client  *http.Client
	log     *slog.Logger
}

var _ PostService = (*PostsClient)(nil)

func NewPostsClient(baseURL string, timeout time.Duration, log *slog.Logger) *PostsClient {
	return &PostsClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

func (c *PostsClient) List(ctx context.Context) ([]Post, error) {
	var posts []Post
	if err := c.do(ctx, "list posts", http.MethodGet, "", nil, &posts); err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []Post{}
	}
	return posts, nil
}

func (c *PostsClient) Get(ctx context.Context, id string) (*Post, error) {
	var post Post
	if err := c.do(ctx, "get post", http.MethodGet, id, nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *PostsClient) Create(ctx context.Context, in PostInput) (*Post, error) {
	var post Post
	if err := c.do(ctx, "create post", http.MethodPost, "", in, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// Update returns whatever the API answered with, possibly nothing. Callers
// do not rely on its shape.
func (c *PostsClient) Update(ctx context.Context, id string, in PostInput) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "update post", http.MethodPut, id, in, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *PostsClient) Delete(ctx context.Context, id string) (*DeleteResult, error) {
	var result DeleteResult
	if err := c.do(ctx, "delete post", http.MethodDelete, id, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *PostsClient) endpoint(id string) string {
	if id == "" {
		return c.baseURL
	}
	return c.baseURL + "/" + url.PathEscape(id)
}

// do performs one request and classifies any failure into an *APIError. A
// cancelled ctx is returned as the context error so callers can discard the
// result.
func (c *PostsClient) do(ctx context.Context, op, method, id string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return malformedError(op, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(id), body)
	if err != nil {
		return malformedError(op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%s: %w", op, ctx.Err())
		}
		c.log.Warn("posts api unreachable", "op", op, "url", req.URL.String(), "error", err)
		return unreachableError(op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%s: %w", op, ctx.Err())
		}
		return unreachableError(op, err)
	}

	c.log.Debug("posts api call",
		"op", op, "method", method, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return serverError(op, resp.StatusCode, bodyMessage(data))
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if raw, ok := out.(*json.RawMessage); ok {
		*raw = append((*raw)[:0], data...)
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return malformedError(op, fmt.Errorf("decoding response: %w", err))
	}
	return nil
}

// bodyMessage extracts the "message" field of an error body, if any.
func bodyMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	return body.Message
}
