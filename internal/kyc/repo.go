package kyc

import (
	"context"

	"github.com/angelmondragon/shopdesk-backend/pkg/db/models"
	"github.com/angelmondragon/shopdesk-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository persists the KYC aggregate rows, all keyed by user.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FindPersonal(ctx context.Context, userID uint) (*models.UserKycProfile, error) {
	var p models.UserKycProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) CreatePersonal(ctx context.Context, p *models.UserKycProfile) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *Repository) UpdatePersonal(ctx context.Context, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.UserKycProfile{}).Where("id = ?", id).Updates(fields).Error
}

func (r *Repository) FindBusiness(ctx context.Context, userID uint) (*models.BusinessKyc, error) {
	var b models.BusinessKyc
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// SaveBusiness inserts a new row or updates every column of an existing one.
func (r *Repository) SaveBusiness(ctx context.Context, b *models.BusinessKyc) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *Repository) ListDocuments(ctx context.Context, userID uint) ([]models.KycDocument, error) {
	var docs []models.KycDocument
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("type ASC, id ASC").Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// DeleteDocumentsOfTypes removes only the rows whose type is listed.
func (r *Repository) DeleteDocumentsOfTypes(ctx context.Context, userID uint, types []enums.KYCDocumentType) error {
	if len(types) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("user_id = ? AND type IN ?", userID, types).
		Delete(&models.KycDocument{}).Error
}

func (r *Repository) CreateDocuments(ctx context.Context, docs []models.KycDocument) error {
	if len(docs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&docs).Error
}

func (r *Repository) ListPeps(ctx context.Context, userID uint) ([]models.Pep, error) {
	var peps []models.Pep
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&peps).Error; err != nil {
		return nil, err
	}
	return peps, nil
}

func (r *Repository) DeletePeps(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Pep{}).Error
}

func (r *Repository) CreatePeps(ctx context.Context, peps []models.Pep) error {
	if len(peps) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&peps).Error
}
