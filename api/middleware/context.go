package middleware

import (
	"context"

	"github.com/angelmondragon/shopdesk-backend/pkg/enums"
)

type contextKey string

const (
	ctxPrincipalID   contextKey = "principal_id"
	ctxPrincipalKind contextKey = "principal_kind"
	ctxStoreID       contextKey = "store_id"
	ctxTokenStoreID  contextKey = "token_store_id"
)

// PrincipalIDFromContext returns the authenticated user or customer id.
func PrincipalIDFromContext(ctx context.Context) uint {
	if ctx == nil {
		return 0
	}
	if v, ok := ctx.Value(ctxPrincipalID).(uint); ok {
		return v
	}
	return 0
}

func PrincipalKindFromContext(ctx context.Context) enums.PrincipalKind {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxPrincipalKind).(enums.PrincipalKind); ok {
		return v
	}
	return ""
}

// StoreIDFromContext returns the tenant resolved for the request.
func StoreIDFromContext(ctx context.Context) uint {
	if ctx == nil {
		return 0
	}
	if v, ok := ctx.Value(ctxStoreID).(uint); ok {
		return v
	}
	return 0
}

func tokenStoreIDFromContext(ctx context.Context) (uint, bool) {
	v, ok := ctx.Value(ctxTokenStoreID).(uint)
	return v, ok
}

// WithPrincipal injects the authenticated principal into the context.
func WithPrincipal(ctx context.Context, id uint, kind enums.PrincipalKind) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxPrincipalID, id)
	return context.WithValue(ctx, ctxPrincipalKind, kind)
}

// WithStoreID injects the store identifier into the context for downstream handlers.
func WithStoreID(ctx context.Context, storeID uint) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxStoreID, storeID)
}
