package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/airtickets/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

const rolePrefix = "ROLE_"

// roleClaim accepts either a comma separated string or a JSON array.
type roleClaim []string

func (r *roleClaim) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*r = splitRoles(single)
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("role claim must be a string or a list of strings: %w", err)
	}
	*r = many
	return nil
}

func (r roleClaim) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.Join(r, ","))
}

func splitRoles(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

type Claims struct {
	Authorities roleClaim `json:"authorities,omitempty"`
	// Roles is read when authorities is absent; older identity builds wrote it.
	Roles roleClaim `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// Role picks the caller role from the claims. A token without any role claim
// is treated as a plain USER.
func (c *Claims) Role() domain.Role {
	values := c.Authorities
	if len(values) == 0 {
		values = c.Roles
	}

	var first domain.Role
	for _, v := range values {
		role := domain.Role(strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(v), rolePrefix)))
		if role == "" {
			continue
		}
		if role == domain.RoleAdmin {
			return domain.RoleAdmin
		}
		if first == "" {
			first = role
		}
	}
	if first == "" {
		return domain.RoleUser
	}
	return first
}

// Tokens issues and verifies HS256 tokens with the pre-shared secret.
type Tokens struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewTokens decodes the base64 secret shared by every service.
func NewTokens(secret string, ttl time.Duration) (*Tokens, error) {
	key, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return nil, fmt.Errorf("invalid jwt secret: %w", err)
	}
	if len(key) == 0 {
		return nil, errors.New("jwt secret is empty")
	}
	return &Tokens{key: key, ttl: ttl, now: time.Now}, nil
}

func (t *Tokens) Issue(username string, role domain.Role) (string, time.Time, error) {
	now := t.now()
	exp := now.Add(t.ttl)
	claims := Claims{
		Authorities: roleClaim{rolePrefix + string(role)},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

func (t *Tokens) Verify(raw string) (*Claims, error) {
	if raw == "" {
		return nil, domain.ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return t.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg(), jwt.SigningMethodHS384.Alg(), jwt.SigningMethodHS512.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", domain.ErrInvalidToken)
	}
	return claims, nil
}
