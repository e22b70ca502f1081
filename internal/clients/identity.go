package clients

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/Domenick1991/airtickets/internal/domain"
)

// IdentityClient looks users up on the identity service. Username lookups
// back token resolution and are never retried; id lookups are only used for
// display and get the configured retries.
type IdentityClient struct {
	rest    restClient
	retries uint64
}

func NewIdentityClient(baseURL string, timeout time.Duration, retries int) *IdentityClient {
	if retries < 0 {
		retries = 0
	}
	return &IdentityClient{rest: newRestClient(baseURL, timeout), retries: uint64(retries)}
}

func (c *IdentityClient) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	if err := c.rest.lookup(ctx, "/identity/username/"+url.PathEscape(username), CallerToken, 0, domain.ErrUserNotFound, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *IdentityClient) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	if err := c.rest.lookup(ctx, fmt.Sprintf("/identity/%d", id), CallerToken, c.retries, domain.ErrUserNotFound, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
