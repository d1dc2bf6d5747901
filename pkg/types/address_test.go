package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressRoundTripThroughColumn(t *testing.T) {
	line2 := "Suite 4"
	addr := Address{Line1: "1 Main St", Line2: &line2, City: "Lagos", Country: "NG"}

	raw, err := addr.Value()
	require.NoError(t, err)

	var decoded Address
	require.NoError(t, decoded.Scan([]byte(raw.(string))))
	assert.Equal(t, addr, decoded)

	require.NoError(t, decoded.Scan(nil))
	assert.Equal(t, Address{}, decoded)
	assert.Error(t, decoded.Scan(12))
}

func TestAddressFlattenSkipsEmptyParts(t *testing.T) {
	addr := Address{Line1: "1 Main St", City: "Lagos", Country: "NG"}
	assert.Equal(t, "1 Main St; Lagos; NG", addr.Flatten("; "))
}
