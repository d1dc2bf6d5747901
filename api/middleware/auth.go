package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/angelmondragon/shopdesk-backend/api/responses"
	pkgAuth "github.com/angelmondragon/shopdesk-backend/pkg/auth"
	"github.com/angelmondragon/shopdesk-backend/pkg/config"
	"github.com/angelmondragon/shopdesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/shopdesk-backend/pkg/errors"
	"github.com/angelmondragon/shopdesk-backend/pkg/logger"
)

// Auth validates a bearer access token issued for the given principal kind and
// seeds the request context with the principal.
func Auth(cfg config.JWTConfig, kind enums.PrincipalKind, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid or expired token"))
				return
			}
			if claims.PrincipalID == 0 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired token"))
				return
			}
			if claims.Kind != kind {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "token is not valid for this resource"))
				return
			}

			ctx := WithPrincipal(r.Context(), claims.PrincipalID, claims.Kind)
			if claims.StoreID != nil {
				ctx = context.WithValue(ctx, ctxTokenStoreID, *claims.StoreID)
			}

			if logg != nil {
				ctx = logg.WithPrincipal(ctx, string(claims.Kind), claims.PrincipalID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	token := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	return token
}
