package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/shopdesk-backend/api/responses"
	"github.com/angelmondragon/shopdesk-backend/api/validators"
	"github.com/angelmondragon/shopdesk-backend/pkg/logger"
)

// jsonAction decodes and validates a JSON body, runs fn, and writes its result
// with the given status.
func jsonAction[Req any, Resp any](logg *logger.Logger, status int, fn func(context.Context, *http.Request, Req) (Resp, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload Req
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := fn(r.Context(), r, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, status, result)
	}
}
