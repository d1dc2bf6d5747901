package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/shopdesk-backend/pkg/errors"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 'I', 'H', 'D', 'R'}

type recordingWriter struct {
	bucket, object, contentType string
	body                        []byte
	err                         error
}

func (r *recordingWriter) Upload(ctx context.Context, bucket, object, contentType string, body io.Reader) error {
	if r.err != nil {
		return r.err
	}
	r.bucket, r.object, r.contentType = bucket, object, contentType
	data, _ := io.ReadAll(body)
	r.body = data
	return nil
}

func TestUploaderWritesSniffedObject(t *testing.T) {
	writer := &recordingWriter{}
	uploader := NewUploader(writer, "assets", "https://cdn.example.com/", 1<<20)

	stored, err := uploader.Upload(context.Background(), "/stores/4/logo/", File{Name: "dir/logo.png", Body: bytes.NewReader(pngHeader)}, ImageTypes)
	require.NoError(t, err)

	assert.Equal(t, "assets", writer.bucket)
	assert.True(t, strings.HasPrefix(writer.object, "stores/4/logo/"))
	assert.True(t, strings.HasSuffix(writer.object, ".png"))
	assert.Equal(t, "image/png", writer.contentType)
	assert.Equal(t, pngHeader, writer.body)

	assert.Equal(t, "https://cdn.example.com/assets/"+writer.object, stored.URL)
	assert.Equal(t, "logo.png", stored.FileName)
	assert.Equal(t, "image/png", stored.MimeType)
	assert.Equal(t, int64(len(pngHeader)), stored.Size)
}

func TestUploaderRejectsDisallowedAndOversized(t *testing.T) {
	uploader := NewUploader(&recordingWriter{}, "assets", "", 8)

	_, err := uploader.Upload(context.Background(), "x", File{Name: "a.txt", Body: strings.NewReader("hello")}, ImageTypes)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = uploader.Upload(context.Background(), "x", File{Name: "a.png", Body: bytes.NewReader(pngHeader)}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")

	_, err = uploader.Upload(context.Background(), "x", File{Name: "empty", Body: strings.NewReader("")}, nil)
	require.Error(t, err)
}

func TestUploaderMapsProviderFailuresToUpstream(t *testing.T) {
	uploader := NewUploader(&recordingWriter{err: errors.New("503 from gcs")}, "assets", "", 0)

	_, err := uploader.Upload(context.Background(), "x", File{Name: "a.txt", Body: strings.NewReader("hello")}, nil)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUpstream, pkgerrors.As(err).Code())

	var unconfigured *Uploader
	_, err = unconfigured.Upload(context.Background(), "x", File{Name: "a.txt", Body: strings.NewReader("hello")}, nil)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUpstream, pkgerrors.As(err).Code())
}
