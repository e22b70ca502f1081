package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Domenick1991/airtickets/internal/auth"
	"github.com/Domenick1991/airtickets/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const principalKey = "principal"

// Authenticate resolves the bearer token of every request into a principal.
// Requests without a usable token are rejected with 401.
func Authenticate(resolver auth.Resolver, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		principal, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			message := err.Error()
			if errors.Is(err, domain.ErrIdentityLookupFailed) {
				log.WithError(err).Warn("identity lookup failed")
				message = "identity lookup failed"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message})
			return
		}

		ctx := auth.WithPrincipal(c.Request.Context(), principal)
		ctx = auth.WithToken(ctx, token)
		c.Request = c.Request.WithContext(ctx)
		SetPrincipal(c, principal)
		c.Next()
	}
}

// RequireRole lets the request through only if the principal holds one of roles.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := Principal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}
		if !principal.HasRole(roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": domain.ErrForbidden.Error()})
			return
		}
		c.Next()
	}
}

func SetPrincipal(c *gin.Context, p domain.Principal) {
	c.Set(principalKey, p)
}

// Principal returns the caller set by Authenticate.
func Principal(c *gin.Context) (domain.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return domain.Principal{}, false
	}
	p, ok := v.(domain.Principal)
	return p, ok
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
