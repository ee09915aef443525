package ctxkeys

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	AccountIDKey contextKey = "account_id"
	ClaimsKey    contextKey = "claims"
)

// AccountID returns the authenticated account id, or "" when unauthenticated.
func AccountID(ctx context.Context) string {
	id, _ := ctx.Value(AccountIDKey).(string)
	return id
}

func WithAccountID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, AccountIDKey, id)
}

// Claims returns the full bearer token claim set attached by the auth middleware.
func Claims(ctx context.Context) jwt.MapClaims {
	claims, _ := ctx.Value(ClaimsKey).(jwt.MapClaims)
	return claims
}

func WithClaims(ctx context.Context, claims jwt.MapClaims) context.Context {
	return context.WithValue(ctx, ClaimsKey, claims)
}
