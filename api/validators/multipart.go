package validators

import (
	"errors"
	"net/http"

	pkgerrors "github.com/angelmondragon/shopdesk-backend/pkg/errors"
)

// ParseMultipart bounds the request body and parses a multipart form.
func ParseMultipart(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "upload exceeds size limit")
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form")
	}
	return nil
}
