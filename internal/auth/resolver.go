package auth

import (
	"context"
	"fmt"

	"github.com/Domenick1991/airtickets/internal/domain"
)

// Resolver turns a bearer token into the principal for one request.
type Resolver interface {
	Resolve(ctx context.Context, token string) (domain.Principal, error)
}

type Verifier interface {
	Verify(raw string) (*Claims, error)
}

// ClaimsResolver trusts the verified claims and does no remote lookup. The
// principal it returns has no numeric user id, which is enough for role checks.
type ClaimsResolver struct {
	tokens Verifier
}

func NewClaimsResolver(tokens Verifier) *ClaimsResolver {
	return &ClaimsResolver{tokens: tokens}
}

func (r *ClaimsResolver) Resolve(_ context.Context, token string) (domain.Principal, error) {
	claims, err := r.tokens.Verify(token)
	if err != nil {
		return domain.Principal{}, err
	}
	return domain.Principal{Username: claims.Subject, Role: claims.Role()}, nil
}

// UserLookup resolves a username against the identity service.
type UserLookup interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// IdentityResolver resolves the durable numeric id behind the token subject.
// Lookups are not retried: when the identity service is down every protected
// request fails until it recovers.
type IdentityResolver struct {
	tokens Verifier
	users  UserLookup
}

func NewIdentityResolver(tokens Verifier, users UserLookup) *IdentityResolver {
	return &IdentityResolver{tokens: tokens, users: users}
}

func (r *IdentityResolver) Resolve(ctx context.Context, token string) (domain.Principal, error) {
	claims, err := r.tokens.Verify(token)
	if err != nil {
		return domain.Principal{}, err
	}

	user, err := r.users.GetByUsername(WithToken(ctx, token), claims.Subject)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("%w: %w", domain.ErrIdentityLookupFailed, err)
	}
	if user == nil || user.ID == 0 {
		return domain.Principal{}, fmt.Errorf("%w: no id for %q", domain.ErrIdentityLookupFailed, claims.Subject)
	}

	return domain.Principal{UserID: user.ID, Username: claims.Subject, Role: claims.Role()}, nil
}

var (
	_ Resolver = (*ClaimsResolver)(nil)
	_ Resolver = (*IdentityResolver)(nil)
)
