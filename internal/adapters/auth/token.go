package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"schoolcal/internal/domain"
)

type jwtClaims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles"`
}

type contextKey string

const tokenKey contextKey = "bearerToken"

// WithToken returns a context carrying the caller's bearer token. The
// transport layer sets it; the privilege checker reads it.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// TokenFromContext returns the bearer token from the context, if present.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	return token, ok
}

// IssueToken signs an HS256 JWT carrying the given roles, used by callers
// that mint tokens for the engine (and by tests).
func IssueToken(secret, subject string, roles []string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
		Roles: roles,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

type rolePrivilege struct {
	secret     []byte
	privileged map[string]bool
}

// NewRolePrivilege returns a PrivilegeChecker that resolves the caller's
// bearer token from the context and grants mutation rights when the token
// carries any of the given roles. Missing or invalid tokens are never
// privileged.
func NewRolePrivilege(secret string, roles ...string) domain.PrivilegeChecker {
	set := make(map[string]bool, len(roles))
	for _, r := range roles {
		set[r] = true
	}
	return &rolePrivilege{secret: []byte(secret), privileged: set}
}

func (p *rolePrivilege) IsPrivileged(ctx context.Context) bool {
	raw, ok := TokenFromContext(ctx)
	if !ok || raw == "" {
		return false
	}
	parsed, err := jwt.ParseWithClaims(raw, &jwtClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil || !parsed.Valid {
		return false
	}
	claims, ok := parsed.Claims.(*jwtClaims)
	if !ok {
		return false
	}
	for _, r := range claims.Roles {
		if p.privileged[r] {
			return true
		}
	}
	return false
}
