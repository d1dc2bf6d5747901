package models

import (
	"time"

	"github.com/angelmondragon/shopdesk-backend/pkg/enums"
)

// UserKycProfile is the personal verification profile, one per user.
type UserKycProfile struct {
	ID                 uint            `gorm:"column:id;primaryKey"`
	UserID             uint            `gorm:"column:user_id;not null;uniqueIndex:idx_user_kyc_profiles_user_id"`
	Status             enums.KYCStatus `gorm:"column:status;type:varchar(16);not null"`
	Gender             *string         `gorm:"column:gender"`
	DateOfBirth        *string         `gorm:"column:date_of_birth"`
	Nationality        *string         `gorm:"column:nationality"`
	CountryOfResidency *string         `gorm:"column:country_of_residency"`
	ContactAddress     *string         `gorm:"column:contact_address"`
	PhoneNumber        *string         `gorm:"column:phone_number"`
	Occupation         *string         `gorm:"column:occupation"`
	SourceOfFunds      *string         `gorm:"column:source_of_funds"`
	SubmittedAt        *time.Time      `gorm:"column:submitted_at"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (UserKycProfile) TableName() string { return "user_kyc_profiles" }

type BusinessKyc struct {
	ID                 uint      `gorm:"column:id;primaryKey"`
	UserID             uint      `gorm:"column:user_id;not null;uniqueIndex:idx_business_kycs_user_id"`
	BusinessName       string    `gorm:"column:business_name;not null"`
	RegistrationNumber *string   `gorm:"column:registration_number"`
	BusinessType       *string   `gorm:"column:business_type"`
	IncorporationDate  *string   `gorm:"column:incorporation_date"`
	Country            *string   `gorm:"column:country"`
	Address            *string   `gorm:"column:address"`
	Website            *string   `gorm:"column:website"`
	TaxID              *string   `gorm:"column:tax_id"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (BusinessKyc) TableName() string { return "business_kycs" }

type KycDocument struct {
	ID        uint                  `gorm:"column:id;primaryKey"`
	UserID    uint                  `gorm:"column:user_id;not null;index:idx_kyc_documents_user_type,priority:1"`
	Type      enums.KYCDocumentType `gorm:"column:type;type:varchar(32);not null;index:idx_kyc_documents_user_type,priority:2"`
	URL       string                `gorm:"column:url;not null"`
	FileName  *string               `gorm:"column:file_name"`
	MimeType  *string               `gorm:"column:mime_type"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
}

func (KycDocument) TableName() string { return "kyc_documents" }

// Pep is a declared politically exposed person relationship.
type Pep struct {
	ID           uint      `gorm:"column:id;primaryKey"`
	UserID       uint      `gorm:"column:user_id;not null;index"`
	FullName     string    `gorm:"column:full_name;not null"`
	Position     string    `gorm:"column:position;not null"`
	Country      *string   `gorm:"column:country"`
	Relationship *string   `gorm:"column:relationship"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Pep) TableName() string { return "peps" }
