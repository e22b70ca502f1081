package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Domenick1991/airtickets/internal/auth"
	"github.com/Domenick1991/airtickets/internal/domain"
	"github.com/cenkalti/backoff/v4"
)

// TokenSource returns the bearer token to present on a call.
type TokenSource func(ctx context.Context) (string, error)

// CallerToken forwards the token of the request being served.
func CallerToken(ctx context.Context) (string, error) {
	return auth.TokenFromContext(ctx), nil
}

type errorBody struct {
	Error string `json:"error"`
}

// StatusError is a non-2xx answer from another service.
type StatusError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
}

type restClient struct {
	baseURL string
	http    *http.Client
}

func newRestClient(baseURL string, timeout time.Duration) restClient {
	return restClient{baseURL: baseURL, http: &http.Client{Timeout: timeout}}
}

// do performs one request and decodes a 2xx JSON body into out.
func (c restClient) do(ctx context.Context, method, path, token string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{Method: method, Path: path, Status: resp.StatusCode}
		var body errorBody
		if data, readErr := io.ReadAll(io.LimitReader(resp.Body, 4096)); readErr == nil && json.Unmarshal(data, &body) == nil {
			statusErr.Message = body.Error
		}
		return statusErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// lookup GETs path with up to retries additional attempts on transport
// errors and 5xx answers. A 404 becomes notFound and is never retried.
func (c restClient) lookup(ctx context.Context, path string, tokens TokenSource, retries uint64, notFound error, out any) error {
	token, err := tokens(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}

	op := func() error {
		err := c.do(ctx, http.MethodGet, path, token, out)
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			if statusErr.Status == http.StatusNotFound {
				return backoff.Permanent(notFound)
			}
			if statusErr.Status < 500 {
				return backoff.Permanent(err)
			}
		}
		return err
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 50 * time.Millisecond
	policy.MaxInterval = time.Second

	err = backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(policy, retries), ctx))
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
}

// mutate POSTs once. Mutations are not idempotent and are never retried.
func (c restClient) mutate(ctx context.Context, path string, tokens TokenSource, out any) error {
	token, err := tokens(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	return c.do(ctx, http.MethodPost, path, token, out)
}
