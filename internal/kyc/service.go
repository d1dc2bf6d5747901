package kyc

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/angelmondragon/shopdesk-backend/pkg/db"
	"github.com/angelmondragon/shopdesk-backend/pkg/db/models"
	"github.com/angelmondragon/shopdesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/shopdesk-backend/pkg/errors"
	"github.com/angelmondragon/shopdesk-backend/pkg/storage"
)

// Service manages a user's personal and business KYC, documents and PEP declarations.
type Service interface {
	GetPersonal(ctx context.Context, userID uint) (*PersonalDTO, error)
	UpsertPersonal(ctx context.Context, userID uint, req PersonalRequest) (*PersonalDTO, error)
	GetBusiness(ctx context.Context, userID uint) (*BusinessDTO, error)
	UpsertBusiness(ctx context.Context, userID uint, req BusinessRequest) (*BusinessDTO, error)
	ListDocuments(ctx context.Context, userID uint) ([]DocumentDTO, error)
	SaveDocuments(ctx context.Context, userID uint, docs []DocumentInput) ([]DocumentDTO, error)
	UploadDocuments(ctx context.Context, userID uint, files []UploadedFile) ([]DocumentDTO, error)
	ListPeps(ctx context.Context, userID uint) ([]PepDTO, error)
	SavePeps(ctx context.Context, userID uint, peps []PepInput) ([]PepDTO, error)
	Submit(ctx context.Context, userID uint) (*PersonalDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type fileUploader interface {
	Upload(ctx context.Context, folder string, file storage.File, allowed []string) (*storage.StoredFile, error)
}

type service struct {
	repo     *Repository
	tx       txRunner
	uploader fileUploader
	now      func() time.Time
}

func NewService(repo *Repository, tx txRunner, uploader fileUploader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("kyc repository is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if uploader == nil {
		return nil, fmt.Errorf("uploader is required")
	}
	return &service{repo: repo, tx: tx, uploader: uploader, now: time.Now}, nil
}

func errProfileNotFound() error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "kyc profile not found")
}

func errIncompleteProfile() error {
	return pkgerrors.New(pkgerrors.CodeValidation, "countryOfResidency and contactAddress are required before submission")
}

func errNoValidDocuments() error {
	return pkgerrors.New(pkgerrors.CodeValidation, "no valid documents provided").
		WithDetails(map[string]any{"acceptedFields": enums.KYCUploadFields()})
}

// GetPersonal reports a NOT_STARTED profile when the user has none yet.
func (s *service) GetPersonal(ctx context.Context, userID uint) (*PersonalDTO, error) {
	profile, err := s.repo.FindPersonal(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return &PersonalDTO{UserID: userID, Status: enums.KYCStatusNotStarted}, nil
		}
		return nil, db.Translate(err, "kyc profile")
	}
	return personalFromModel(profile), nil
}

// UpsertPersonal creates the profile as IN_PROGRESS or patches the present
// fields. Status only advances out of NOT_STARTED; later states are kept.
func (s *service) UpsertPersonal(ctx context.Context, userID uint, req PersonalRequest) (*PersonalDTO, error) {
	var out *models.UserKycProfile
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		profile, err := repo.FindPersonal(ctx, userID)
		if err != nil && !db.IsNotFound(err) {
			return err
		}
		if profile == nil {
			profile = &models.UserKycProfile{UserID: userID, Status: enums.KYCStatusInProgress}
			applyPersonal(profile, req)
			if err := repo.CreatePersonal(ctx, profile); err != nil {
				return err
			}
			out = profile
			return nil
		}

		fields := personalFields(req)
		if profile.Status == enums.KYCStatusNotStarted {
			fields["status"] = enums.KYCStatusInProgress
		}
		if err := repo.UpdatePersonal(ctx, profile.ID, fields); err != nil {
			return err
		}
		out, err = repo.FindPersonal(ctx, userID)
		return err
	})
	if err != nil {
		return nil, db.Translate(err, "kyc profile")
	}
	return personalFromModel(out), nil
}

func (s *service) GetBusiness(ctx context.Context, userID uint) (*BusinessDTO, error) {
	b, err := s.repo.FindBusiness(ctx, userID)
	if err != nil {
		return nil, db.Translate(err, "business kyc")
	}
	return businessFromModel(b), nil
}

func (s *service) UpsertBusiness(ctx context.Context, userID uint, req BusinessRequest) (*BusinessDTO, error) {
	name := strings.TrimSpace(req.BusinessName)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "businessName is required")
	}

	b, err := s.repo.FindBusiness(ctx, userID)
	if err != nil {
		if !db.IsNotFound(err) {
			return nil, db.Translate(err, "business kyc")
		}
		b = &models.BusinessKyc{UserID: userID}
	}
	b.BusinessName = name
	b.RegistrationNumber = req.RegistrationNumber
	b.BusinessType = req.BusinessType
	b.IncorporationDate = req.IncorporationDate
	b.Country = req.Country
	b.Address = req.Address
	b.Website = req.Website
	b.TaxID = req.TaxID

	if err := s.repo.SaveBusiness(ctx, b); err != nil {
		return nil, db.Translate(err, "business kyc")
	}
	return businessFromModel(b), nil
}

func (s *service) ListDocuments(ctx context.Context, userID uint) ([]DocumentDTO, error) {
	docs, err := s.repo.ListDocuments(ctx, userID)
	if err != nil {
		return nil, db.Translate(err, "kyc document")
	}
	out := make([]DocumentDTO, 0, len(docs))
	for _, d := range docs {
		out = append(out, documentFromModel(d))
	}
	return out, nil
}

// SaveDocuments replaces only the document types present in the batch.
func (s *service) SaveDocuments(ctx context.Context, userID uint, docs []DocumentInput) ([]DocumentDTO, error) {
	rows := make([]models.KycDocument, 0, len(docs))
	seen := map[enums.KYCDocumentType]bool{}
	var types []enums.KYCDocumentType
	for i, d := range docs {
		if !d.Type.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("documents[%d].type %q is not a known document type", i, d.Type))
		}
		url := strings.TrimSpace(d.URL)
		if url == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("documents[%d].url is required", i))
		}
		if !seen[d.Type] {
			seen[d.Type] = true
			types = append(types, d.Type)
		}
		rows = append(rows, models.KycDocument{UserID: userID, Type: d.Type, URL: url, FileName: d.FileName, MimeType: d.MimeType})
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		if err := repo.DeleteDocumentsOfTypes(ctx, userID, types); err != nil {
			return err
		}
		return repo.CreateDocuments(ctx, rows)
	})
	if err != nil {
		return nil, db.Translate(err, "kyc document")
	}
	return s.ListDocuments(ctx, userID)
}

// UploadDocuments stores each recognised file and saves them by type.
// Unknown field names are skipped.
func (s *service) UploadDocuments(ctx context.Context, userID uint, files []UploadedFile) ([]DocumentDTO, error) {
	var inputs []DocumentInput
	for _, f := range files {
		docType, ok := enums.KYCDocumentTypeForField(f.Field)
		if !ok {
			continue
		}
		folder := fmt.Sprintf("kyc/%d/%s", userID, strings.ToLower(string(docType)))
		stored, err := s.uploader.Upload(ctx, folder, f.File, storage.DocumentTypes)
		if err != nil {
			return nil, err
		}
		fileName, mimeType := stored.FileName, stored.MimeType
		inputs = append(inputs, DocumentInput{Type: docType, URL: stored.URL, FileName: &fileName, MimeType: &mimeType})
	}
	if len(inputs) == 0 {
		return nil, errNoValidDocuments()
	}
	return s.SaveDocuments(ctx, userID, inputs)
}

func (s *service) ListPeps(ctx context.Context, userID uint) ([]PepDTO, error) {
	peps, err := s.repo.ListPeps(ctx, userID)
	if err != nil {
		return nil, db.Translate(err, "pep")
	}
	out := make([]PepDTO, 0, len(peps))
	for _, p := range peps {
		out = append(out, pepFromModel(p))
	}
	return out, nil
}

// SavePeps replaces the full set, so an empty batch clears every row.
func (s *service) SavePeps(ctx context.Context, userID uint, peps []PepInput) ([]PepDTO, error) {
	rows := make([]models.Pep, 0, len(peps))
	for i, p := range peps {
		name := strings.TrimSpace(p.FullName)
		position := strings.TrimSpace(p.Position)
		if name == "" || position == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("peps[%d] requires fullName and position", i))
		}
		rows = append(rows, models.Pep{UserID: userID, FullName: name, Position: position, Country: p.Country, Relationship: p.Relationship})
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		if err := repo.DeletePeps(ctx, userID); err != nil {
			return err
		}
		return repo.CreatePeps(ctx, rows)
	})
	if err != nil {
		return nil, db.Translate(err, "pep")
	}
	return s.ListPeps(ctx, userID)
}

// Submit moves the profile to SUBMITTED without checking documents or PEPs.
func (s *service) Submit(ctx context.Context, userID uint) (*PersonalDTO, error) {
	profile, err := s.repo.FindPersonal(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, errProfileNotFound()
		}
		return nil, db.Translate(err, "kyc profile")
	}
	if blank(profile.CountryOfResidency) || blank(profile.ContactAddress) {
		return nil, errIncompleteProfile()
	}

	now := s.now().UTC()
	err = s.repo.UpdatePersonal(ctx, profile.ID, map[string]any{
		"status":       enums.KYCStatusSubmitted,
		"submitted_at": now,
	})
	if err != nil {
		return nil, db.Translate(err, "kyc profile")
	}
	profile.Status = enums.KYCStatusSubmitted
	profile.SubmittedAt = &now
	return personalFromModel(profile), nil
}

func applyPersonal(p *models.UserKycProfile, req PersonalRequest) {
	if req.Gender != nil {
		p.Gender = req.Gender
	}
	if req.DateOfBirth != nil {
		p.DateOfBirth = req.DateOfBirth
	}
	if req.Nationality != nil {
		p.Nationality = req.Nationality
	}
	if req.CountryOfResidency != nil {
		p.CountryOfResidency = req.CountryOfResidency
	}
	if req.ContactAddress != nil {
		p.ContactAddress = req.ContactAddress
	}
	if req.PhoneNumber != nil {
		p.PhoneNumber = req.PhoneNumber
	}
	if req.Occupation != nil {
		p.Occupation = req.Occupation
	}
	if req.SourceOfFunds != nil {
		p.SourceOfFunds = req.SourceOfFunds
	}
}

func personalFields(req PersonalRequest) map[string]any {
	fields := map[string]any{}
	set := func(column string, v *string) {
		if v != nil {
			fields[column] = *v
		}
	}
	set("gender", req.Gender)
	set("date_of_birth", req.DateOfBirth)
	set("nationality", req.Nationality)
	set("country_of_residency", req.CountryOfResidency)
	set("contact_address", req.ContactAddress)
	set("phone_number", req.PhoneNumber)
	set("occupation", req.Occupation)
	set("source_of_funds", req.SourceOfFunds)
	return fields
}

func blank(v *string) bool {
	return v == nil || strings.TrimSpace(*v) == ""
}
