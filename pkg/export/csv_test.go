package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableCSVQuotesFields(t *testing.T) {
	table := Table{Headers: []string{"id", "name", "options"}}
	table.Append("1", "Shirt, blue", JoinList([]string{"Size", " ", "Color"}))

	out, err := table.CSV()
	require.NoError(t, err)
	assert.Equal(t, "id,name,options\n1,\"Shirt, blue\",\"Size, Color\"\n", string(out))
}

func TestTableCSVRejectsRaggedRows(t *testing.T) {
	table := Table{Headers: []string{"id", "name"}}
	table.Append("1")

	_, err := table.CSV()
	assert.Error(t, err)
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "1 Main St; Lagos", JoinAddresses([]string{"1 Main St", "", "Lagos"}))
	assert.Equal(t, "", Str(nil))
	v := "x"
	assert.Equal(t, "x", Str(&v))
	assert.Equal(t, "products-export.csv", Filename(" Products "))
	assert.Equal(t, "data-export.csv", Filename(""))
}
