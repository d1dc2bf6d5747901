package controllers

import (
	"context"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/shopdesk-backend/api/responses"
	"github.com/angelmondragon/shopdesk-backend/api/validators"
	"github.com/angelmondragon/shopdesk-backend/internal/stores"
	pkgerrors "github.com/angelmondragon/shopdesk-backend/pkg/errors"
	"github.com/angelmondragon/shopdesk-backend/pkg/logger"
	"github.com/angelmondragon/shopdesk-backend/pkg/storage"
)

// StoreSetup creates the caller's store. It accepts either a JSON body or a
// multipart form whose fields mirror the JSON keys plus an optional "logo" part.
func StoreSetup(svc stores.Service, maxBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := principal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var (
			req  stores.SetupStoreRequest
			logo *storage.File
		)
		if isMultipart(r) {
			if err := validators.ParseMultipart(w, r, maxBytes); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			req = setupRequestFromForm(r)
			if err := validators.Struct(&req); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if file, header, err := r.FormFile("logo"); err == nil {
				defer file.Close()
				logo = &storage.File{Name: header.Filename, Body: file}
			} else if err != http.ErrMissingFile {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid logo file"))
				return
			}
		} else if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := svc.Setup(r.Context(), userID, req, logo)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, store)
	}
}

func StoreGet(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := principal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		store, err := svc.Get(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, store)
	}
}

func StoreUpdate(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return jsonAction(logg, http.StatusOK, func(ctx context.Context, r *http.Request, req stores.UpdateStoreRequest) (*stores.StoreDTO, error) {
		userID, err := principal(r)
		if err != nil {
			return nil, err
		}
		return svc.Update(ctx, userID, req)
	})
}

func StoreLaunch(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := principal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		store, err := svc.Launch(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, store)
	}
}

// Storefront serves the public read model of a launched store.
func Storefront(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := svc.Storefront(r.Context(), chi.URLParam(r, "storeUrl"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

func setupRequestFromForm(r *http.Request) stores.SetupStoreRequest {
	return stores.SetupStoreRequest{
		StoreName:    strings.TrimSpace(r.FormValue("storeName")),
		StoreURL:     strings.TrimSpace(r.FormValue("storeUrl")),
		BusinessType: optionalFormValue(r, "businessType"),
		Country:      strings.TrimSpace(r.FormValue("country")),
		Currency:     strings.TrimSpace(r.FormValue("currency")),
		Phone:        optionalFormValue(r, "phone"),
		Email:        optionalFormValue(r, "email"),
		Address:      optionalFormValue(r, "address"),
		Description:  optionalFormValue(r, "description"),
	}
}

func optionalFormValue(r *http.Request, key string) *string {
	value := strings.TrimSpace(r.FormValue(key))
	if value == "" {
		return nil
	}
	return &value
}
