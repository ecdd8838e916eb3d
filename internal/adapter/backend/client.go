package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	domain "users-ui/internal/domain/user"
	apperrors "users-ui/pkg/errors"
	"users-ui/pkg/logger"
)

// maxErrorBody caps how much of a failed response is kept for the log.
const maxErrorBody = 512

// Client talks to a remote users backend under {baseURL}/api/{backend}/users.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
	group   singleflight.Group
}

// NewClient creates a new backend client. A zero timeout leaves requests
// unbounded.
func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// BaseURL returns the backend base URL the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) collectionURL(backend string) string {
	return fmt.Sprintf("%s/api/%s/users", c.baseURL, url.PathEscape(backend))
}

func (c *Client) itemURL(backend, id string) string {
	return c.collectionURL(backend) + "/" + url.PathEscape(id)
}

// ListUsers fetches every user from the backend in server order.
// Concurrent calls for the same backend share one request; each caller gets
// its own copy of the result. The shared request outlives a canceled caller.
func (c *Client) ListUsers(ctx context.Context, backend string) ([]domain.User, error) {
	target := c.collectionURL(backend)
	flightCtx := context.WithoutCancel(ctx)

	result, err, shared := c.group.Do(target, func() (any, error) {
		var users []domain.User
		if err := c.do(flightCtx, http.MethodGet, target, nil, &users); err != nil {
			return nil, err
		}
		return users, nil
	})
	if err != nil {
		return nil, err
	}

	if shared {
		logger.WithContext(ctx, c.log).Debug("list request shared", zap.String("url", target))
	}

	users := result.([]domain.User)
	out := make([]domain.User, len(users))
	copy(out, users)
	return out, nil
}

// CreateUser posts a new user and returns the record echoed by the backend.
func (c *Client) CreateUser(ctx context.Context, backend string, in domain.Payload) (*domain.User, error) {
	var created domain.User
	if err := c.do(ctx, http.MethodPost, c.collectionURL(backend), in, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateUser replaces name and email of the user with the given id. The id
// is sent as typed; the response body is ignored.
func (c *Client) UpdateUser(ctx context.Context, backend, id string, in domain.Payload) error {
	return c.do(ctx, http.MethodPut, c.itemURL(backend, id), in, nil)
}

// DeleteUser removes the user with the given id. The response body is ignored.
func (c *Client) DeleteUser(ctx context.Context, backend string, id int64) error {
	return c.do(ctx, http.MethodDelete, c.itemURL(backend, strconv.FormatInt(id, 10)), nil, nil)
}

// do performs one request. body is JSON encoded when non-nil; out is decoded
// from a 2xx response when non-nil.
func (c *Client) do(ctx context.Context, method, target string, body, out any) error {
	log := logger.WithContext(ctx, c.log)

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := logger.GetRequestID(ctx); id != "" {
		req.Header.Set(logger.RequestIDHeader, id)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.NewTransportError(method, target, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	log.Debug("backend request",
		zap.String("method", method),
		zap.String("url", target),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := apperrors.NewStatusError(method, target, resp.StatusCode)
		if data, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)); readErr == nil {
			statusErr.Body = strings.TrimSpace(string(data))
		}
		return statusErr
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewDecodeError(target, err)
	}
	return nil
}
