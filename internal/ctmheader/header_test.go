package ctmheader

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openctm/ctm/internal/stream"
)

func TestHeader_RoundTrip(t *testing.T) {
	h := Header{
		Method:        MethodMG2,
		VertexCount:   8,
		TriangleCount: 12,
		Flags:         FlagHasNormals,
		FrameCount:    3,
		Comment:       "a cube",
		UVMaps:        []MapInfo{{Name: "diffuse", FileName: "tex.png"}},
		AttribMaps:    []MapInfo{{Name: "color"}},
	}

	var buf bytes.Buffer
	w := stream.NewWriter(&buf)
	defer w.Close()
	require.NoError(t, Write(w, h))

	r := stream.NewReader(&buf)
	got, err := Read(r)
	require.NoError(t, err)

	require.Equal(t, h.Method, got.Method)
	require.Equal(t, h.VertexCount, got.VertexCount)
	require.Equal(t, h.TriangleCount, got.TriangleCount)
	require.True(t, got.HasNormals())
	require.Equal(t, h.FrameCount, got.FrameCount)
	require.Equal(t, h.Comment, got.Comment)
	require.Equal(t, h.UVMaps, got.UVMaps)
	require.Equal(t, h.AttribMaps, got.AttribMaps)
}

func TestHeader_BadMagic(t *testing.T) {
	buf := bytes.NewBufferString("NOPE")
	r := stream.NewReader(buf)
	_, err := Read(r)
	require.Error(t, err)
}

func TestHeader_ZeroCountsRejected(t *testing.T) {
	h := Header{Method: MethodRAW, VertexCount: 0, TriangleCount: 1, FrameCount: 1}
	var buf bytes.Buffer
	w := stream.NewWriter(&buf)
	require.NoError(t, Write(w, h))

	r := stream.NewReader(&buf)
	_, err := Read(r)
	require.Error(t, err)
}
