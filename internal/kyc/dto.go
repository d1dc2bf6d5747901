package kyc

import (
	"time"

	"github.com/angelmondragon/shopdesk-backend/pkg/db/models"
	"github.com/angelmondragon/shopdesk-backend/pkg/enums"
	"github.com/angelmondragon/shopdesk-backend/pkg/storage"
)

type PersonalDTO struct {
	ID                 uint            `json:"id"`
	UserID             uint            `json:"userId"`
	Status             enums.KYCStatus `json:"status"`
	Gender             *string         `json:"gender"`
	DateOfBirth        *string         `json:"dateOfBirth"`
	Nationality        *string         `json:"nationality"`
	CountryOfResidency *string         `json:"countryOfResidency"`
	ContactAddress     *string         `json:"contactAddress"`
	PhoneNumber        *string         `json:"phoneNumber"`
	Occupation         *string         `json:"occupation"`
	SourceOfFunds      *string         `json:"sourceOfFunds"`
	SubmittedAt        *time.Time      `json:"submittedAt"`
	CreatedAt          *time.Time      `json:"createdAt"`
	UpdatedAt          *time.Time      `json:"updatedAt"`
}

// PersonalRequest is sparse; nil fields keep their stored value.
type PersonalRequest struct {
	Gender             *string `json:"gender" validate:"omitempty,max=32"`
	DateOfBirth        *string `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	Nationality        *string `json:"nationality"`
	CountryOfResidency *string `json:"countryOfResidency"`
	ContactAddress     *string `json:"contactAddress"`
	PhoneNumber        *string `json:"phoneNumber" validate:"omitempty,max=32"`
	Occupation         *string `json:"occupation"`
	SourceOfFunds      *string `json:"sourceOfFunds"`
}

type BusinessDTO struct {
	ID                 uint      `json:"id"`
	UserID             uint      `json:"userId"`
	BusinessName       string    `json:"businessName"`
	RegistrationNumber *string   `json:"registrationNumber"`
	BusinessType       *string   `json:"businessType"`
	IncorporationDate  *string   `json:"incorporationDate"`
	Country            *string   `json:"country"`
	Address            *string   `json:"address"`
	Website            *string   `json:"website"`
	TaxID              *string   `json:"taxId"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

type BusinessRequest struct {
	BusinessName       string  `json:"businessName" validate:"required,max=200"`
	RegistrationNumber *string `json:"registrationNumber"`
	BusinessType       *string `json:"businessType"`
	IncorporationDate  *string `json:"incorporationDate" validate:"omitempty,datetime=2006-01-02"`
	Country            *string `json:"country"`
	Address            *string `json:"address"`
	Website            *string `json:"website" validate:"omitempty,url"`
	TaxID              *string `json:"taxId"`
}

type DocumentDTO struct {
	ID        uint                  `json:"id"`
	Type      enums.KYCDocumentType `json:"type"`
	URL       string                `json:"url"`
	FileName  *string               `json:"fileName"`
	MimeType  *string               `json:"mimeType"`
	CreatedAt time.Time             `json:"createdAt"`
}

type DocumentInput struct {
	Type     enums.KYCDocumentType `json:"type" validate:"required"`
	URL      string                `json:"url" validate:"required,url"`
	FileName *string               `json:"fileName"`
	MimeType *string               `json:"mimeType"`
}

type SaveDocumentsRequest struct {
	Documents []DocumentInput `json:"documents" validate:"dive"`
}

// UploadedFile is one multipart part keyed by its form field name.
type UploadedFile struct {
	Field string
	File  storage.File
}

type PepDTO struct {
	ID           uint      `json:"id"`
	FullName     string    `json:"fullName"`
	Position     string    `json:"position"`
	Country      *string   `json:"country"`
	Relationship *string   `json:"relationship"`
	CreatedAt    time.Time `json:"createdAt"`
}

type PepInput struct {
	FullName     string  `json:"fullName" validate:"required"`
	Position     string  `json:"position" validate:"required"`
	Country      *string `json:"country"`
	Relationship *string `json:"relationship"`
}

type SavePepsRequest struct {
	Peps []PepInput `json:"peps" validate:"dive"`
}

func personalFromModel(m *models.UserKycProfile) *PersonalDTO {
	return &PersonalDTO{
		ID:                 m.ID,
		UserID:             m.UserID,
		Status:             m.Status,
		Gender:             m.Gender,
		DateOfBirth:        m.DateOfBirth,
		Nationality:        m.Nationality,
		CountryOfResidency: m.CountryOfResidency,
		ContactAddress:     m.ContactAddress,
		PhoneNumber:        m.PhoneNumber,
		Occupation:         m.Occupation,
		SourceOfFunds:      m.SourceOfFunds,
		SubmittedAt:        m.SubmittedAt,
		CreatedAt:          &m.CreatedAt,
		UpdatedAt:          &m.UpdatedAt,
	}
}

func businessFromModel(m *models.BusinessKyc) *BusinessDTO {
	return &BusinessDTO{
		ID:                 m.ID,
		UserID:             m.UserID,
		BusinessName:       m.BusinessName,
		RegistrationNumber: m.RegistrationNumber,
		BusinessType:       m.BusinessType,
		IncorporationDate:  m.IncorporationDate,
		Country:            m.Country,
		Address:            m.Address,
		Website:            m.Website,
		TaxID:              m.TaxID,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func documentFromModel(m models.KycDocument) DocumentDTO {
	return DocumentDTO{ID: m.ID, Type: m.Type, URL: m.URL, FileName: m.FileName, MimeType: m.MimeType, CreatedAt: m.CreatedAt}
}

func pepFromModel(m models.Pep) PepDTO {
	return PepDTO{ID: m.ID, FullName: m.FullName, Position: m.Position, Country: m.Country, Relationship: m.Relationship, CreatedAt: m.CreatedAt}
}
