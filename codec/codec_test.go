package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByName(t *testing.T) {
	c, ok := ByName("json")
	require.True(t, ok)
	assert.Equal(t, "json", c.Name())

	_, ok = ByName("cbor")
	require.False(t, ok)
}

func TestJSONRoundTrip(t *testing.T) {
	type payload struct {
		Survey string `json:"survey"`
		Count  int    `json:"count"`
	}

	data, err := JSON{}.Marshal(payload{Survey: "reef-7", Count: 3})
	require.NoError(t, err)

	var got payload
	require.NoError(t, JSON{}.Unmarshal(data, &got))
	assert.Equal(t, payload{Survey: "reef-7", Count: 3}, got)
}
