package kyc

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/shopdesk-backend/pkg/db/dbtest"
	"github.com/angelmondragon/shopdesk-backend/pkg/db/models"
	"github.com/angelmondragon/shopdesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/shopdesk-backend/pkg/errors"
	"github.com/angelmondragon/shopdesk-backend/pkg/storage"
)

type stubUploader struct {
	folders []string
}

func (s *stubUploader) Upload(ctx context.Context, folder string, file storage.File, allowed []string) (*storage.StoredFile, error) {
	s.folders = append(s.folders, folder)
	return &storage.StoredFile{
		URL:      "https://cdn.test/" + folder + "/" + file.Name,
		FileName: file.Name,
		MimeType: "application/pdf",
	}, nil
}

func newTestService(t *testing.T) (Service, *gorm.DB, *stubUploader) {
	t.Helper()
	client, conn := dbtest.Client(t)
	uploader := &stubUploader{}
	svc, err := NewService(NewRepository(conn), client, uploader)
	require.NoError(t, err)
	return svc, conn, uploader
}

func str(v string) *string { return &v }

func codeOf(t *testing.T, err error) pkgerrors.Code {
	t.Helper()
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	return typed.Code()
}

func TestGetPersonalDefaultsToNotStarted(t *testing.T) {
	svc, _, _ := newTestService(t)

	got, err := svc.GetPersonal(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, enums.KYCStatusNotStarted, got.Status)
	assert.Zero(t, got.ID)
}

func TestUpsertPersonalCreatesInProgress(t *testing.T) {
	svc, _, _ := newTestService(t)

	got, err := svc.UpsertPersonal(context.Background(), 1, PersonalRequest{Gender: str("Male")})
	require.NoError(t, err)
	assert.Equal(t, enums.KYCStatusInProgress, got.Status)
	require.NotNil(t, got.Gender)
	assert.Equal(t, "Male", *got.Gender)
}

func TestUpsertPersonalAdvancesOnlyFromNotStarted(t *testing.T) {
	svc, conn, _ := newTestService(t)
	ctx := context.Background()
	require.NoError(t, conn.Create(&models.UserKycProfile{UserID: 1, Status: enums.KYCStatusNotStarted}).Error)

	got, err := svc.UpsertPersonal(ctx, 1, PersonalRequest{Nationality: str("NG")})
	require.NoError(t, err)
	assert.Equal(t, enums.KYCStatusInProgress, got.Status)

	got, err = svc.UpsertPersonal(ctx, 1, PersonalRequest{Occupation: str("Engineer")})
	require.NoError(t, err)
	assert.Equal(t, enums.KYCStatusInProgress, got.Status)
	require.NotNil(t, got.Nationality)
	assert.Equal(t, "NG", *got.Nationality)

	for _, status := range []enums.KYCStatus{enums.KYCStatusSubmitted, enums.KYCStatusApproved, enums.KYCStatusRejected} {
		require.NoError(t, conn.Model(&models.UserKycProfile{}).Where("user_id = ?", 1).Update("status", status).Error)
		got, err = svc.UpsertPersonal(ctx, 1, PersonalRequest{Gender: str("Female")})
		require.NoError(t, err)
		assert.Equal(t, status, got.Status)
	}
}

func TestSubmitRules(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Submit(ctx, 1)
	assert.Equal(t, pkgerrors.CodeNotFound, codeOf(t, err))

	_, err = svc.UpsertPersonal(ctx, 1, PersonalRequest{CountryOfResidency: str("Nigeria")})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, 1)
	assert.Equal(t, pkgerrors.CodeValidation, codeOf(t, err))

	_, err = svc.UpsertPersonal(ctx, 1, PersonalRequest{ContactAddress: str("X")})
	require.NoError(t, err)
	got, err := svc.Submit(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, enums.KYCStatusSubmitted, got.Status)
	assert.NotNil(t, got.SubmittedAt)

	stored, err := svc.GetPersonal(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, enums.KYCStatusSubmitted, stored.Status)
}

func TestUpsertBusinessRequiresTrimmedName(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.GetBusiness(ctx, 1)
	assert.Equal(t, pkgerrors.CodeNotFound, codeOf(t, err))

	_, err = svc.UpsertBusiness(ctx, 1, BusinessRequest{BusinessName: "   "})
	assert.Equal(t, pkgerrors.CodeValidation, codeOf(t, err))

	created, err := svc.UpsertBusiness(ctx, 1, BusinessRequest{BusinessName: "  Acme Ltd  ", TaxID: str("T-1")})
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", created.BusinessName)

	updated, err := svc.UpsertBusiness(ctx, 1, BusinessRequest{BusinessName: "Acme Holdings"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Acme Holdings", updated.BusinessName)
	assert.Nil(t, updated.TaxID)
}

func TestSaveDocumentsIsTypeScoped(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SaveDocuments(ctx, 1, []DocumentInput{{Type: enums.KYCDocumentGovernmentID, URL: "https://files.test/a"}})
	require.NoError(t, err)
	docs, err := svc.SaveDocuments(ctx, 1, []DocumentInput{{Type: enums.KYCDocumentProofOfAddress, URL: "https://files.test/b"}})
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	docs, err = svc.SaveDocuments(ctx, 1, []DocumentInput{{Type: enums.KYCDocumentGovernmentID, URL: "https://files.test/c"}})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	for _, d := range docs {
		if d.Type == enums.KYCDocumentGovernmentID {
			assert.Equal(t, "https://files.test/c", d.URL)
		}
	}

	_, err = svc.SaveDocuments(ctx, 1, []DocumentInput{{Type: "PASSPORT", URL: "https://files.test/d"}})
	assert.Equal(t, pkgerrors.CodeValidation, codeOf(t, err))
}

func TestUploadDocumentsMapsFields(t *testing.T) {
	svc, _, uploader := newTestService(t)
	ctx := context.Background()

	docs, err := svc.UploadDocuments(ctx, 7, []UploadedFile{
		{Field: "governmentId", File: storage.File{Name: "id.pdf", Body: strings.NewReader("%PDF")}},
		{Field: "unknownField", File: storage.File{Name: "x.pdf", Body: strings.NewReader("%PDF")}},
		{Field: "bankStatement", File: storage.File{Name: "bank.pdf", Body: strings.NewReader("%PDF")}},
	})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.ElementsMatch(t, []string{"kyc/7/government_id", "kyc/7/bank_statement"}, uploader.folders)
	require.NotNil(t, docs[0].FileName)

	_, err = svc.UploadDocuments(ctx, 7, []UploadedFile{{Field: "nope", File: storage.File{Name: "x.pdf", Body: strings.NewReader("x")}}})
	require.Error(t, err)
	assert.Equal(t, "no valid documents provided", pkgerrors.As(err).Message())
}

func TestSavePepsReplacesEverything(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	peps, err := svc.SavePeps(ctx, 1, []PepInput{
		{FullName: "P One", Position: "Senator"},
		{FullName: "P Two", Position: "Minister"},
	})
	require.NoError(t, err)
	assert.Len(t, peps, 2)

	peps, err = svc.SavePeps(ctx, 1, []PepInput{})
	require.NoError(t, err)
	assert.Empty(t, peps)

	_, err = svc.SavePeps(ctx, 1, []PepInput{{FullName: "", Position: "x"}})
	assert.Equal(t, pkgerrors.CodeValidation, codeOf(t, err))
}
