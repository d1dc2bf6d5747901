package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/shopdesk-backend/api/responses"
	pkgerrors "github.com/angelmondragon/shopdesk-backend/pkg/errors"
	"github.com/angelmondragon/shopdesk-backend/pkg/logger"
)

// StoreResolver maps a principal or storefront URL to a store id.
type StoreResolver interface {
	StoreIDForUser(ctx context.Context, userID uint) (uint, error)
	ResolveByURL(ctx context.Context, storeURL string) (uint, error)
}

// StoreContext resolves the authenticated user's store and scopes every
// downstream query to it. Users without a store get a 404.
func StoreContext(resolver StoreResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := PrincipalIDFromContext(r.Context())
			if userID == 0 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
				return
			}

			storeID, err := resolver.StoreIDForUser(r.Context(), userID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(withStoreLog(WithStoreID(r.Context(), storeID), logg, storeID)))
		})
	}
}

// StorefrontContext resolves the {storeUrl} path parameter for customer routes.
func StorefrontContext(resolver StoreResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			storeID, err := resolver.ResolveByURL(r.Context(), chi.URLParam(r, "storeUrl"))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(withStoreLog(WithStoreID(r.Context(), storeID), logg, storeID)))
		})
	}
}

// RequireTokenStore rejects customer tokens minted for a different store than
// the one resolved from the URL.
func RequireTokenStore(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStore, ok := tokenStoreIDFromContext(r.Context())
			if !ok || tokenStore != StoreIDFromContext(r.Context()) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "token is not valid for this store"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func withStoreLog(ctx context.Context, logg *logger.Logger, storeID uint) context.Context {
	if logg == nil {
		return ctx
	}
	return logg.WithStoreID(ctx, storeID)
}
