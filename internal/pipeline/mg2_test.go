package pipeline

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openctm/ctm/compress"
	"github.com/openctm/ctm/internal/stream"
	"github.com/openctm/ctm/internal/typedarray"
)

func tetraMesh() (indexBuf, vertBuf []byte, indices, vertices typedarray.View) {
	indexBuf = make([]byte, 4*3*4)
	indices = typedarray.Bind(indexBuf, 3, typedarray.KindInt32, 0)
	tris := [][3]int64{{0, 2, 1}, {0, 1, 3}, {0, 3, 2}, {1, 2, 3}}
	for i, t := range tris {
		indices.SetTri(i, t[0], t[1], t[2])
	}

	vertBuf = make([]byte, 4*3*4)
	vertices = typedarray.Bind(vertBuf, 3, typedarray.KindFloat32, 0)
	verts := [][3]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	for i, v := range verts {
		vertices.SetVec3(i, v[0], v[1], v[2])
	}

	return indexBuf, vertBuf, indices, vertices
}

func TestMG2_RoundTrip(t *testing.T) {
	_, _, indices, vertices := tetraMesh()

	precision := 0.01
	mesh := Mesh{
		VertexCount:   4,
		TriangleCount: 4,
		Indices:       indices,
		Vertices:      vertices,
		Precision:     Precision{Vertex: precision},
	}

	var buf bytes.Buffer
	w := stream.NewWriter(&buf)
	enc := newMG2(compress.NoOpCompressor{}, 0)
	require.NoError(t, enc.EncodeMesh(w, mesh))
	w.Close()

	decIndexBuf := make([]byte, 4*3*4)
	decIndices := typedarray.Bind(decIndexBuf, 3, typedarray.KindInt32, 0)
	decVertBuf := make([]byte, 4*3*4)
	decVertices := typedarray.Bind(decVertBuf, 3, typedarray.KindFloat32, 0)

	decoded := Mesh{
		VertexCount:   4,
		TriangleCount: 4,
		Indices:       decIndices,
		Vertices:      decVertices,
		Precision:     Precision{Vertex: precision},
	}

	r := stream.NewReader(&buf)
	dec := newMG2(compress.NoOpCompressor{}, 0)
	require.NoError(t, dec.DecodeMesh(r, decoded))

	for i := 0; i < 4; i++ {
		a, b, c := decIndices.Tri(i)
		require.Equal(t, int64(enc.permTris[i].A), a)
		require.Equal(t, int64(enc.permTris[i].B), b)
		require.Equal(t, int64(enc.permTris[i].C), c)
	}

	const eps = 1e-4
	for i, old := range enc.vertexOrder {
		x, y, z := decVertices.Vec3(i)
		ox, oy, oz := vertices.Vec3(int(old))
		require.InDelta(t, ox, x, precision/2+eps)
		require.InDelta(t, oy, y, precision/2+eps)
		require.InDelta(t, oz, z, precision/2+eps)
	}
}

func TestMG2_RoundTrip_WithNormalsAndUV(t *testing.T) {
	_, _, indices, vertices := tetraMesh()

	normBuf := make([]byte, 4*3*4)
	normals := typedarray.Bind(normBuf, 3, typedarray.KindFloat32, 0)
	normalsIn := [][3]float64{
		{-1, -1, -1}, {1, -1, -1}, {-1, 1, -1}, {-1, -1, 1},
	}
	for i, n := range normalsIn {
		// left unnormalized; the codec does not require unit-length normals
		normals.SetVec3(i, n[0], n[1], n[2])
	}

	uvBuf := make([]byte, 4*2*4)
	uv := typedarray.Bind(uvBuf, 2, typedarray.KindFloat32, 0)
	uvIn := [][2]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	for i, v := range uvIn {
		uv.SetFloat(i, 0, v[0])
		uv.SetFloat(i, 1, v[1])
	}

	precision := 0.01
	normalPrecision := 0.01
	uvPrecision := 0.001

	mesh := Mesh{
		VertexCount:   4,
		TriangleCount: 4,
		Indices:       indices,
		Vertices:      vertices,
		Normals:       normals,
		HasNormals:    true,
		UVMaps:        []typedarray.View{uv},
		Precision: Precision{
			Vertex: precision,
			Normal: normalPrecision,
			UV:     []float64{uvPrecision},
		},
	}

	var buf bytes.Buffer
	w := stream.NewWriter(&buf)
	enc := newMG2(compress.NoOpCompressor{}, 0)
	require.NoError(t, enc.EncodeMesh(w, mesh))
	w.Close()

	decIndexBuf := make([]byte, 4*3*4)
	decIndices := typedarray.Bind(decIndexBuf, 3, typedarray.KindInt32, 0)
	decVertBuf := make([]byte, 4*3*4)
	decVertices := typedarray.Bind(decVertBuf, 3, typedarray.KindFloat32, 0)
	decNormBuf := make([]byte, 4*3*4)
	decNormals := typedarray.Bind(decNormBuf, 3, typedarray.KindFloat32, 0)
	decUVBuf := make([]byte, 4*2*4)
	decUV := typedarray.Bind(decUVBuf, 2, typedarray.KindFloat32, 0)

	decoded := Mesh{
		VertexCount:   4,
		TriangleCount: 4,
		Indices:       decIndices,
		Vertices:      decVertices,
		Normals:       decNormals,
		HasNormals:    true,
		UVMaps:        []typedarray.View{decUV},
		Precision: Precision{
			Vertex: precision,
			Normal: normalPrecision,
			UV:     []float64{uvPrecision},
		},
	}

	r := stream.NewReader(&buf)
	dec := newMG2(compress.NoOpCompressor{}, 0)
	require.NoError(t, dec.DecodeMesh(r, decoded))

	const eps = 1e-3
	for i, old := range enc.vertexOrder {
		u, v := decUV.GetFloat(i, 0), decUV.GetFloat(i, 1)
		ou, ov := uv.GetFloat(int(old), 0), uv.GetFloat(int(old), 1)
		require.InDelta(t, ou, u, uvPrecision/2+eps)
		require.InDelta(t, ov, v, uvPrecision/2+eps)
	}
}
