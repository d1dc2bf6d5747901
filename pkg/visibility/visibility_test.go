package visibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/shopdesk-backend/pkg/db/dbtest"
	"github.com/angelmondragon/shopdesk-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/shopdesk-backend/pkg/errors"
)

func TestEnsureStorefrontVisible(t *testing.T) {
	tests := []struct {
		name  string
		store *models.Store
		code  pkgerrors.Code
	}{
		{name: "missing", store: nil, code: pkgerrors.CodeNotFound},
		{name: "not launched", store: &models.Store{IsLaunched: false}, code: pkgerrors.CodeForbidden},
		{name: "launched", store: &models.Store{IsLaunched: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := EnsureStorefrontVisible(tt.store)
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, tt.code, typed.Code())
		})
	}
}

func TestStorefrontProductsScope(t *testing.T) {
	conn := dbtest.Open(t)
	rows := []models.Product{
		{StoreID: 1, Name: "Tote"},
		{StoreID: 1, Name: "Draft", HideFromHomepage: true},
		{StoreID: 2, Name: "Elsewhere"},
	}
	require.NoError(t, conn.Create(&rows).Error)

	var got []models.Product
	require.NoError(t, conn.Scopes(StorefrontProducts(1)).Find(&got).Error)
	require.Len(t, got, 1)
	assert.Equal(t, "Tote", got[0].Name)
}
