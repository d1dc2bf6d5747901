package enums

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKYCDocumentTypeForField(t *testing.T) {
	got, ok := KYCDocumentTypeForField("selfieWithId")
	require.True(t, ok)
	assert.Equal(t, KYCDocumentSelfieWithID, got)

	_, ok = KYCDocumentTypeForField("passportScan")
	assert.False(t, ok)

	fields := KYCUploadFields()
	sort.Strings(fields)
	assert.Len(t, fields, 7)
	for _, f := range fields {
		typ, ok := KYCDocumentTypeForField(f)
		require.True(t, ok)
		assert.True(t, typ.IsValid())
	}
}

func TestParseDefaults(t *testing.T) {
	pt, err := ParseProductType("")
	require.NoError(t, err)
	assert.Equal(t, ProductTypeRegular, pt)

	_, err = ParseProductType("BUNDLE")
	assert.Error(t, err)

	st, err := ParseInvoiceStatus("")
	require.NoError(t, err)
	assert.Equal(t, InvoiceStatusDraft, st)

	_, err = ParseProductSort("cheapest")
	assert.Error(t, err)

	_, err = ParseKYCDocumentType("GOVERNMENT_ID")
	assert.NoError(t, err)
	assert.False(t, KYCStatus("PENDING").IsValid())
	assert.False(t, PrincipalKind("admin").IsValid())
}
