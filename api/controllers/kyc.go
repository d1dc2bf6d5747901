package controllers

import (
	"context"
	"io"
	"net/http"
	"sort"

	"github.com/angelmondragon/shopdesk-backend/api/responses"
	"github.com/angelmondragon/shopdesk-backend/api/validators"
	"github.com/angelmondragon/shopdesk-backend/internal/kyc"
	pkgerrors "github.com/angelmondragon/shopdesk-backend/pkg/errors"
	"github.com/angelmondragon/shopdesk-backend/pkg/logger"
	"github.com/angelmondragon/shopdesk-backend/pkg/storage"
)

// userAction wraps a handler that only needs the authenticated user id.
func userAction[T any](logg *logger.Logger, fn func(context.Context, uint) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := principal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := fn(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func KYCGetPersonal(svc kyc.Service, logg *logger.Logger) http.HandlerFunc {
	return userAction(logg, svc.GetPersonal)
}

func KYCUpsertPersonal(svc kyc.Service, logg *logger.Logger) http.HandlerFunc {
	return jsonAction(logg, http.StatusOK, func(ctx context.Context, r *http.Request, req kyc.PersonalRequest) (*kyc.PersonalDTO, error) {
		userID, err := principal(r)
		if err != nil {
			return nil, err
		}
		return svc.UpsertPersonal(ctx, userID, req)
	})
}

func KYCGetBusiness(svc kyc.Service, logg *logger.Logger) http.HandlerFunc {
	return userAction(logg, svc.GetBusiness)
}

func KYCUpsertBusiness(svc kyc.Service, logg *logger.Logger) http.HandlerFunc {
	return jsonAction(logg, http.StatusOK, func(ctx context.Context, r *http.Request, req kyc.BusinessRequest) (*kyc.BusinessDTO, error) {
		userID, err := principal(r)
		if err != nil {
			return nil, err
		}
		return svc.UpsertBusiness(ctx, userID, req)
	})
}

func KYCListDocuments(svc kyc.Service, logg *logger.Logger) http.HandlerFunc {
	return userAction(logg, svc.ListDocuments)
}

func KYCSaveDocuments(svc kyc.Service, logg *logger.Logger) http.HandlerFunc {
	return jsonAction(logg, http.StatusOK, func(ctx context.Context, r *http.Request, req kyc.SaveDocumentsRequest) ([]kyc.DocumentDTO, error) {
		userID, err := principal(r)
		if err != nil {
			return nil, err
		}
		return svc.SaveDocuments(ctx, userID, req.Documents)
	})
}

// KYCUploadDocuments forwards every multipart file part; the service decides
// which field names map to document types.
func KYCUploadDocuments(svc kyc.Service, maxBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := principal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := validators.ParseMultipart(w, r, maxBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		fields := make([]string, 0, len(r.MultipartForm.File))
		for field := range r.MultipartForm.File {
			fields = append(fields, field)
		}
		sort.Strings(fields)

		var (
			files   []kyc.UploadedFile
			closers []io.Closer
		)
		defer func() {
			for _, c := range closers {
				c.Close()
			}
		}()
		for _, field := range fields {
			for _, header := range r.MultipartForm.File[field] {
				f, err := header.Open()
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "could not read "+field))
					return
				}
				closers = append(closers, f)
				files = append(files, kyc.UploadedFile{Field: field, File: storage.File{Name: header.Filename, Body: f}})
			}
		}

		docs, err := svc.UploadDocuments(r.Context(), userID, files)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, docs)
	}
}

func KYCListPeps(svc kyc.Service, logg *logger.Logger) http.HandlerFunc {
	return userAction(logg, svc.ListPeps)
}

func KYCSavePeps(svc kyc.Service, logg *logger.Logger) http.HandlerFunc {
	return jsonAction(logg, http.StatusOK, func(ctx context.Context, r *http.Request, req kyc.SavePepsRequest) ([]kyc.PepDTO, error) {
		userID, err := principal(r)
		if err != nil {
			return nil, err
		}
		return svc.SavePeps(ctx, userID, req.Peps)
	})
}

func KYCSubmit(svc kyc.Service, logg *logger.Logger) http.HandlerFunc {
	return userAction(logg, svc.Submit)
}
