package users

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/shopdesk-backend/pkg/db/dbtest"
	pkgerrors "github.com/angelmondragon/shopdesk-backend/pkg/errors"
	"github.com/angelmondragon/shopdesk-backend/pkg/storage"
)

type stubUploader struct {
	folder string
	err    error
}

func (s *stubUploader) Upload(ctx context.Context, folder string, file storage.File, allowed []string) (*storage.StoredFile, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.folder = folder
	_, _ = io.ReadAll(file.Body)
	return &storage.StoredFile{URL: "https://cdn.test/" + folder + "/photo.png", FileName: file.Name}, nil
}

func newTestService(t *testing.T) (Service, *Repository, *stubUploader) {
	t.Helper()
	repo := NewRepository(dbtest.Open(t))
	uploader := &stubUploader{}
	svc, err := NewService(repo, uploader)
	require.NoError(t, err)
	return svc, repo, uploader
}

func mustCreateUser(t *testing.T, repo *Repository) uint {
	t.Helper()
	user, err := repo.Create(context.Background(), CreateUserDTO{
		Email:                   "ada@example.com",
		PasswordHash:            "hash",
		FirstName:               "Ada",
		LastName:                "Lovelace",
		VerificationCode:        "123456",
		VerificationCodeExpires: time.Now().Add(time.Minute),
	})
	require.NoError(t, err)
	return user.ID
}

func TestUpdateProfileIsSparse(t *testing.T) {
	svc, repo, _ := newTestService(t)
	id := mustCreateUser(t, repo)

	first := "Augusta"
	username := "  countess "
	profile, err := svc.UpdateProfile(context.Background(), id, UpdateProfileRequest{FirstName: &first, Username: &username})
	require.NoError(t, err)

	assert.Equal(t, "Augusta", profile.FirstName)
	assert.Equal(t, "Lovelace", profile.LastName)
	assert.Equal(t, "Augusta Lovelace", profile.FullName)
	require.NotNil(t, profile.Username)
	assert.Equal(t, "countess", *profile.Username)
	assert.Nil(t, profile.Phone)

	empty := "  "
	_, err = svc.UpdateProfile(context.Background(), id, UpdateProfileRequest{LastName: &empty})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestGetProfileMissingUser(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.GetProfile(context.Background(), 404)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestUploadPhotoStoresURL(t *testing.T) {
	svc, repo, uploader := newTestService(t)
	id := mustCreateUser(t, repo)

	profile, err := svc.UploadPhoto(context.Background(), id, "me.png", bytes.NewReader([]byte("img")))
	require.NoError(t, err)
	require.NotNil(t, profile.ProfilePhotoURL)
	assert.True(t, strings.HasSuffix(*profile.ProfilePhotoURL, "/photo.png"))
	assert.Contains(t, uploader.folder, "users/")
}

func TestUploadPhotoPropagatesUpstreamFailure(t *testing.T) {
	svc, repo, uploader := newTestService(t)
	id := mustCreateUser(t, repo)
	uploader.err = pkgerrors.New(pkgerrors.CodeUpstream, "file upload failed")

	_, err := svc.UploadPhoto(context.Background(), id, "me.png", bytes.NewReader([]byte("img")))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUpstream, pkgerrors.As(err).Code())

	profile, err := svc.GetProfile(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, profile.ProfilePhotoURL)
}

func TestRefreshTokenSlot(t *testing.T) {
	_, repo, _ := newTestService(t)
	id := mustCreateUser(t, repo)
	ctx := context.Background()

	token := "refresh-1"
	require.NoError(t, repo.SaveRefreshToken(ctx, id, &token))
	stored, err := repo.RefreshToken(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, token, *stored)

	require.NoError(t, repo.SaveRefreshToken(ctx, id, nil))
	stored, err = repo.RefreshToken(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, stored)
}
