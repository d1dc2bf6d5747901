package controllers

import (
	"net/http"

	"github.com/angelmondragon/shopdesk-backend/api/middleware"
	pkgerrors "github.com/angelmondragon/shopdesk-backend/pkg/errors"
)

func storeScope(r *http.Request) (uint, error) {
	storeID := middleware.StoreIDFromContext(r.Context())
	if storeID == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeForbidden, "store context missing")
	}
	return storeID, nil
}

func principal(r *http.Request) (uint, error) {
	id := middleware.PrincipalIDFromContext(r.Context())
	if id == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	return id, nil
}
