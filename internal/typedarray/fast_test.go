package typedarray

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestView_Vec2_FastPath(t *testing.T) {
	buf := make([]byte, 4*2*4) // 4 elements, width 2, float32
	v := Bind(buf, 2, KindFloat32, 0)
	require.Equal(t, 8, v.stride) // tightly packed -> fast path eligible

	v.SetVec2(1, 0.5, -1.25)
	x, y := v.Vec2(1)
	require.Equal(t, 0.5, x)
	require.Equal(t, -1.25, y)
}

func TestView_Vec2_FallsBackWhenNotPacked(t *testing.T) {
	// Interleaved with an extra component per element: stride != 8, so
	// Vec2 must fall back to the generic per-component accessor.
	buf := make([]byte, 4*3*4)
	v := Bind(buf, 2, KindFloat32, 12)

	v.SetVec2(0, 1, 2)
	x, y := v.Vec2(0)
	require.Equal(t, 1.0, x)
	require.Equal(t, 2.0, y)
}

func TestView_Vec4_FastPath(t *testing.T) {
	buf := make([]byte, 4*4*4) // 4 elements, width 4, float32
	v := Bind(buf, 4, KindFloat32, 0)
	require.Equal(t, 16, v.stride)

	v.SetVec4(2, 1, 2, 3, 4)
	x, y, z, w := v.Vec4(2)
	require.Equal(t, 1.0, x)
	require.Equal(t, 2.0, y)
	require.Equal(t, 3.0, z)
	require.Equal(t, 4.0, w)
}

func TestView_Vec4_NonFloat32FallsBack(t *testing.T) {
	buf := make([]byte, 4*4*4)
	v := Bind(buf, 4, KindInt16, 0) // wrong kind for the fast path

	v.SetVec4(0, 1, 2, 3, 4)
	x, y, z, w := v.Vec4(0)
	require.Equal(t, 1.0, x)
	require.Equal(t, 2.0, y)
	require.Equal(t, 3.0, z)
	require.Equal(t, 4.0, w)
}

func TestView_Vec2Vec4_OutOfRange(t *testing.T) {
	v := Bind(make([]byte, 8), 2, KindFloat32, 0)
	x, y := v.Vec2(10) // past the end of the buffer
	require.Equal(t, 0.0, x)
	require.Equal(t, 0.0, y)

	v.SetVec2(10, 1, 1) // must not panic

	v4 := Bind(make([]byte, 16), 4, KindFloat32, 0)
	x2, y2, z2, w2 := v4.Vec4(10)
	require.Equal(t, 0.0, x2)
	require.Equal(t, 0.0, y2)
	require.Equal(t, 0.0, z2)
	require.Equal(t, 0.0, w2)
}

func TestView_Tri_FastPath(t *testing.T) {
	buf := make([]byte, 3*3*4) // 3 triangles, int32
	v := Bind(buf, 3, KindInt32, 0)
	require.Equal(t, 12, v.stride)

	v.SetTri(1, 10, 20, 30)
	a, b, c := v.Tri(1)
	require.Equal(t, int64(10), a)
	require.Equal(t, int64(20), b)
	require.Equal(t, int64(30), c)
}
