package cloud

import (
	"bytes"
	"strings"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePoints() []r3.Vector {
	return []r3.Vector{
		{X: 0.5, Y: -1.25, Z: 3},
		{X: 2, Y: 0, Z: -0.75},
		{X: -4.5, Y: 8, Z: 1.5},
	}
}

func TestPCD_RoundTripASCII(t *testing.T) {
	pc := New(samplePoints())

	var buf bytes.Buffer
	require.NoError(t, WritePCD(&buf, pc, false))

	got, err := ReadPCD(&buf)
	require.NoError(t, err)
	require.Equal(t, pc.Len(), got.Len())
	for i := range pc.Points {
		assert.InDelta(t, pc.Points[i].X, got.Points[i].X, 1e-6)
		assert.InDelta(t, pc.Points[i].Y, got.Points[i].Y, 1e-6)
		assert.InDelta(t, pc.Points[i].Z, got.Points[i].Z, 1e-6)
	}
	assert.Nil(t, got.Normals)
}

func TestPCD_RoundTripBinaryWithNormals(t *testing.T) {
	pc := New(samplePoints())
	pc.Normals = []r3.Vector{
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1},
	}

	var buf bytes.Buffer
	require.NoError(t, WritePCD(&buf, pc, true))

	got, err := ReadPCD(&buf)
	require.NoError(t, err)
	require.Equal(t, pc.Len(), got.Len())
	require.Len(t, got.Normals, pc.Len())
	for i := range pc.Points {
		// Binary stores float32; tolerate single-precision rounding.
		assert.InDelta(t, pc.Points[i].X, got.Points[i].X, 1e-5)
		assert.InDelta(t, pc.Normals[i].Z, got.Normals[i].Z, 1e-5)
	}
}

func TestPCD_Errors(t *testing.T) {
	cases := map[string]string{
		"truncated header": "VERSION .7\nFIELDS x y z\n",
		"missing points":   "VERSION .7\nFIELDS x y z\nDATA ascii\n",
		"bad fields":       "VERSION .7\nFIELDS x y\nPOINTS 1\nDATA ascii\n1 2\n",
		"bad data kind":    "VERSION .7\nFIELDS x y z\nPOINTS 1\nDATA base64\nAAA\n",
		"short point line": "VERSION .7\nFIELDS x y z\nPOINTS 1\nDATA ascii\n1 2\n",
		"truncated binary": "VERSION .7\nFIELDS x y z\nPOINTS 2\nDATA binary\n\x00\x00\x80?",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadPCD(strings.NewReader(in))
			require.Error(t, err)
		})
	}
}

func TestPointCloud_Centroid(t *testing.T) {
	pc := New([]r3.Vector{{X: 0}, {X: 2}, {Y: 3}, {Y: -3}})
	c := pc.Centroid()
	assert.InDelta(t, 0.5, c.X, 1e-12)
	assert.InDelta(t, 0, c.Y, 1e-12)

	assert.Equal(t, r3.Vector{}, New(nil).Centroid())
}

func TestPointCloud_Validate(t *testing.T) {
	require.Error(t, New(nil).Validate())

	pc := New(samplePoints())
	require.NoError(t, pc.Validate())

	pc.Normals = []r3.Vector{{X: 1}}
	require.Error(t, pc.Validate())
}
