package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/shopdesk-backend/pkg/errors"
)

// ImageTypes and DocumentTypes are the accepted MIME families per upload kind.
var (
	ImageTypes    = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
	DocumentTypes = append([]string{"application/pdf"}, ImageTypes...)
)

// ObjectWriter persists an object body in a bucket.
type ObjectWriter interface {
	Upload(ctx context.Context, bucket, object, contentType string, body io.Reader) error
}

// File is an incoming upload.
type File struct {
	Name string
	Body io.Reader
}

// StoredFile describes an object written to storage.
type StoredFile struct {
	URL      string
	Key      string
	FileName string
	MimeType string
	Size     int64
}

// Uploader sniffs, names, and writes user files to object storage.
type Uploader struct {
	writer     ObjectWriter
	bucket     string
	publicBase string
	maxBytes   int64
}

// NewUploader returns an uploader. A nil writer yields an uploader that rejects
// every file with an upstream error.
func NewUploader(writer ObjectWriter, bucket, publicBase string, maxBytes int64) *Uploader {
	return &Uploader{
		writer:     writer,
		bucket:     bucket,
		publicBase: strings.TrimRight(publicBase, "/"),
		maxBytes:   maxBytes,
	}
}

// Upload writes file under folder and returns its public URL. allowed limits
// the sniffed MIME type; an empty list accepts anything.
func (u *Uploader) Upload(ctx context.Context, folder string, file File, allowed []string) (*StoredFile, error) {
	if u == nil || u.writer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUpstream, "file storage is not configured")
	}
	if file.Body == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is required")
	}

	limit := u.maxBytes
	if limit <= 0 {
		limit = 10 << 20
	}
	data, err := io.ReadAll(io.LimitReader(file.Body, limit+1))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "could not read file")
	}
	if len(data) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is empty")
	}
	if int64(len(data)) > limit {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("file exceeds %d bytes", limit))
	}

	mt := mimetype.Detect(data)
	if len(allowed) > 0 && !mimetype.EqualsAny(mt.String(), allowed...) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported file type").
			WithDetails(map[string]any{"mimeType": mt.String()})
	}

	key := path.Join(strings.Trim(folder, "/"), uuid.NewString()+mt.Extension())
	contentType := baseType(mt.String())
	if err := u.writer.Upload(ctx, u.bucket, key, contentType, bytes.NewReader(data)); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "file upload failed")
	}

	return &StoredFile{
		URL:      u.publicURL(key),
		Key:      key,
		FileName: path.Base(file.Name),
		MimeType: contentType,
		Size:     int64(len(data)),
	}, nil
}

func (u *Uploader) publicURL(key string) string {
	base := u.publicBase
	if base == "" {
		base = "https://storage.googleapis.com"
	}
	return fmt.Sprintf("%s/%s/%s", base, u.bucket, key)
}

func baseType(value string) string {
	if idx := strings.Index(value, ";"); idx >= 0 {
		return strings.TrimSpace(value[:idx])
	}
	return value
}
