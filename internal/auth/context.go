package auth

import (
	"context"

	"github.com/Domenick1991/airtickets/internal/domain"
)

type ctxKey int

const (
	principalKey ctxKey = iota
	tokenKey
)

func WithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

func PrincipalFromContext(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey).(domain.Principal)
	return p, ok
}

// WithToken stores the caller's raw bearer token so outbound calls made on
// their behalf can forward it.
func WithToken(ctx context.Context, raw string) context.Context {
	return context.WithValue(ctx, tokenKey, raw)
}

func TokenFromContext(ctx context.Context) string {
	raw, _ := ctx.Value(tokenKey).(string)
	return raw
}
