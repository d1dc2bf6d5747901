package users

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/angelmondragon/shopdesk-backend/pkg/db"
	"github.com/angelmondragon/shopdesk-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/shopdesk-backend/pkg/errors"
	"github.com/angelmondragon/shopdesk-backend/pkg/storage"
)

// Service covers the authenticated user's own profile.
type Service interface {
	GetProfile(ctx context.Context, userID uint) (*UserDTO, error)
	UpdateProfile(ctx context.Context, userID uint, req UpdateProfileRequest) (*UserDTO, error)
	UploadPhoto(ctx context.Context, userID uint, fileName string, body io.Reader) (*UserDTO, error)
}

type profileRepository interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]any) error
}

type fileUploader interface {
	Upload(ctx context.Context, folder string, file storage.File, allowed []string) (*storage.StoredFile, error)
}

type service struct {
	repo     profileRepository
	uploader fileUploader
}

// NewService builds the profile service.
func NewService(repo profileRepository, uploader fileUploader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if uploader == nil {
		return nil, fmt.Errorf("uploader is required")
	}
	return &service{repo: repo, uploader: uploader}, nil
}

func (s *service) GetProfile(ctx context.Context, userID uint) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, db.Translate(err, "user")
	}
	return FromModel(user), nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uint, req UpdateProfileRequest) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, db.Translate(err, "user")
	}

	fields := map[string]any{}
	first, last := user.FirstName, user.LastName
	if req.FirstName != nil {
		first = strings.TrimSpace(*req.FirstName)
		if first == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "firstname cannot be empty")
		}
		fields["firstname"] = first
	}
	if req.LastName != nil {
		last = strings.TrimSpace(*req.LastName)
		if last == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "lastname cannot be empty")
		}
		fields["lastname"] = last
	}
	if req.FirstName != nil || req.LastName != nil {
		fields["full_name"] = FullName(first, last)
	}
	if req.Phone != nil {
		fields["phone"] = optionalString(*req.Phone)
	}
	if req.Username != nil {
		fields["username"] = optionalString(*req.Username)
	}

	if err := s.repo.UpdateFields(ctx, userID, fields); err != nil {
		return nil, db.Translate(err, "user")
	}
	return s.GetProfile(ctx, userID)
}

func (s *service) UploadPhoto(ctx context.Context, userID uint, fileName string, body io.Reader) (*UserDTO, error) {
	if _, err := s.repo.FindByID(ctx, userID); err != nil {
		return nil, db.Translate(err, "user")
	}

	stored, err := s.uploader.Upload(ctx, fmt.Sprintf("users/%d/profile", userID), storage.File{Name: fileName, Body: body}, storage.ImageTypes)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateFields(ctx, userID, map[string]any{"profile_photo_url": stored.URL}); err != nil {
		return nil, db.Translate(err, "user")
	}
	return s.GetProfile(ctx, userID)
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
