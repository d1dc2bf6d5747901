package enums

import "fmt"

// KYCStatus tracks the personal KYC profile review workflow.
type KYCStatus string

const (
	KYCStatusNotStarted KYCStatus = "NOT_STARTED"
	KYCStatusInProgress KYCStatus = "IN_PROGRESS"
	KYCStatusSubmitted  KYCStatus = "SUBMITTED"
	KYCStatusApproved   KYCStatus = "APPROVED"
	KYCStatusRejected   KYCStatus = "REJECTED"
)

var validKYCStatuses = []KYCStatus{
	KYCStatusNotStarted,
	KYCStatusInProgress,
	KYCStatusSubmitted,
	KYCStatusApproved,
	KYCStatusRejected,
}

// String implements fmt.Stringer.
func (s KYCStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known KYCStatus.
func (s KYCStatus) IsValid() bool {
	for _, candidate := range validKYCStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// KYCDocumentType identifies which slot a KYC document fills.
type KYCDocumentType string

const (
	KYCDocumentGovernmentID             KYCDocumentType = "GOVERNMENT_ID"
	KYCDocumentIncorporationCertificate KYCDocumentType = "INCORPORATION_CERTIFICATE"
	KYCDocumentArticleOfAssociation     KYCDocumentType = "ARTICLE_OF_ASSOCIATION"
	KYCDocumentProofOfAddress           KYCDocumentType = "PROOF_OF_ADDRESS"
	KYCDocumentSelfieWithID             KYCDocumentType = "SELFIE_WITH_ID"
	KYCDocumentBankStatement            KYCDocumentType = "BANK_STATEMENT"
	KYCDocumentAdditional               KYCDocumentType = "ADDITIONAL"
)

var validKYCDocumentTypes = []KYCDocumentType{
	KYCDocumentGovernmentID,
	KYCDocumentIncorporationCertificate,
	KYCDocumentArticleOfAssociation,
	KYCDocumentProofOfAddress,
	KYCDocumentSelfieWithID,
	KYCDocumentBankStatement,
	KYCDocumentAdditional,
}

// String implements fmt.Stringer.
func (t KYCDocumentType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known KYCDocumentType.
func (t KYCDocumentType) IsValid() bool {
	for _, candidate := range validKYCDocumentTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseKYCDocumentType converts raw input into a KYCDocumentType.
func ParseKYCDocumentType(value string) (KYCDocumentType, error) {
	for _, candidate := range validKYCDocumentTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid kyc document type %q", value)
}

// kycUploadFields maps multipart field names onto document slots.
var kycUploadFields = map[string]KYCDocumentType{
	"governmentId":             KYCDocumentGovernmentID,
	"incorporationCertificate": KYCDocumentIncorporationCertificate,
	"articleOfAssociation":     KYCDocumentArticleOfAssociation,
	"proofOfAddress":           KYCDocumentProofOfAddress,
	"selfieWithId":             KYCDocumentSelfieWithID,
	"bankStatement":            KYCDocumentBankStatement,
	"additional":               KYCDocumentAdditional,
}

// KYCDocumentTypeForField resolves an upload field name; ok is false for unknown fields.
func KYCDocumentTypeForField(field string) (KYCDocumentType, bool) {
	t, ok := kycUploadFields[field]
	return t, ok
}

// KYCUploadFields lists the accepted multipart field names.
func KYCUploadFields() []string {
	out := make([]string, 0, len(kycUploadFields))
	for field := range kycUploadFields {
		out = append(out, field)
	}
	return out
}
