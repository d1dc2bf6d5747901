package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/shopdesk-backend/api/responses"
	"github.com/angelmondragon/shopdesk-backend/api/validators"
	"github.com/angelmondragon/shopdesk-backend/pkg/export"
	"github.com/angelmondragon/shopdesk-backend/pkg/logger"
)

// The helpers below wrap store-scoped CRUD calls. Every one of them reads the
// tenant from the store context, never from the request.

func scopedCreate[Req any, Resp any](logg *logger.Logger, fn func(context.Context, uint, Req) (Resp, error)) http.HandlerFunc {
	return storeAction(logg, http.StatusCreated, fn)
}

// storeAction decodes a JSON body and calls fn with the resolved store id.
func storeAction[Req any, Resp any](logg *logger.Logger, status int, fn func(context.Context, uint, Req) (Resp, error)) http.HandlerFunc {
	return jsonAction(logg, status, func(ctx context.Context, r *http.Request, req Req) (Resp, error) {
		storeID, err := storeScope(r)
		if err != nil {
			var zero Resp
			return zero, err
		}
		return fn(ctx, storeID, req)
	})
}

func scopedUpdate[Req any, Resp any](logg *logger.Logger, fn func(context.Context, uint, uint, Req) (Resp, error)) http.HandlerFunc {
	return jsonAction(logg, http.StatusOK, func(ctx context.Context, r *http.Request, req Req) (Resp, error) {
		var zero Resp
		storeID, err := storeScope(r)
		if err != nil {
			return zero, err
		}
		id, err := validators.PathID(r, "id")
		if err != nil {
			return zero, err
		}
		return fn(ctx, storeID, id, req)
	})
}

func scopedGet[Resp any](logg *logger.Logger, fn func(context.Context, uint, uint) (Resp, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.PathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := fn(r.Context(), storeID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func scopedDelete(logg *logger.Logger, entity string, fn func(context.Context, uint, uint) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.PathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := fn(r.Context(), storeID, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, entity+" deleted")
	}
}

// scopedList builds the list query from the request before calling fn.
func scopedList[Q any, Resp any](logg *logger.Logger, parse func(*http.Request) (Q, error), fn func(context.Context, uint, Q) (Resp, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		query, err := parse(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := fn(r.Context(), storeID, query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func scopedExport(logg *logger.Logger, entity string, fn func(context.Context, uint) ([]byte, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		body, err := fn(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if logg != nil {
			ctx := logg.WithFields(r.Context(), map[string]any{"entity": entity, "bytes": len(body)})
			logg.Info(ctx, "export.generated")
		}
		responses.WriteCSV(w, export.Filename(entity), body)
	}
}
