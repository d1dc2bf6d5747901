package dbtypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringListScanHandlesDriverShapes(t *testing.T) {
	var list StringList
	require.NoError(t, list.Scan([]byte(`["a.png","b.png"]`)))
	assert.Equal(t, StringList{"a.png", "b.png"}, list)

	require.NoError(t, list.Scan(nil))
	assert.Empty(t, list)

	require.NoError(t, list.Scan("null"))
	assert.NotNil(t, list)

	assert.Error(t, list.Scan(42))
	assert.Error(t, list.Scan("{not-json"))
}

func TestStringListValueNeverNull(t *testing.T) {
	var list StringList
	v, err := list.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	v, err = StringList{"red", "blue"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["red","blue"]`, v)
	assert.Equal(t, "red, blue", StringList{"red", "blue"}.Join(", "))
}
