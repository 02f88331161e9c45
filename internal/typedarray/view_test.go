package typedarray

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestView_Absent(t *testing.T) {
	v := Bind(nil, 3, KindFloat32, 0)
	require.False(t, v.IsBound())
	require.Equal(t, 0.0, v.GetFloat(0, 0))

	v = Bind([]byte{1, 2, 3, 4}, 0, KindFloat32, 0)
	require.False(t, v.IsBound())
}

func TestView_Float32RoundTrip(t *testing.T) {
	buf := make([]byte, 3*4*4)
	v := Bind(buf, 3, KindFloat32, 0)
	require.True(t, v.IsBound())

	v.SetFloat(1, 2, 3.5)
	require.InDelta(t, 3.5, v.GetFloat(1, 2), 1e-6)

	v.SetVec3(2, 1, 2, 3)
	x, y, z := v.Vec3(2)
	require.Equal(t, 1.0, x)
	require.Equal(t, 2.0, y)
	require.Equal(t, 3.0, z)
}

func TestView_Int8Scaling(t *testing.T) {
	buf := make([]byte, 4)
	v := Bind(buf, 4, KindInt8, 0)
	v.SetFloat(0, 0, 1.0)
	require.InDelta(t, 1.0, v.GetFloat(0, 0), 1.0/127.0)

	v.SetFloat(0, 1, -1.0)
	require.InDelta(t, -1.0, v.GetFloat(0, 1), 1.0/127.0)
}

func TestView_Uint8Scaling(t *testing.T) {
	buf := make([]byte, 4)
	v := Bind(buf, 4, KindUint8, 0)
	v.SetFloat(0, 0, 1.0)
	require.InDelta(t, 1.0, v.GetFloat(0, 0), 1.0/255.0)
}

func TestView_OutOfRangeIsSilent(t *testing.T) {
	buf := make([]byte, 4*4)
	v := Bind(buf, 4, KindFloat32, 0)
	require.Equal(t, 0.0, v.GetFloat(0, 9))
	v.SetFloat(0, 9, 42) // no-op, must not panic
}

func TestView_StrideDefaultsToPacked(t *testing.T) {
	buf := make([]byte, 2*3*4)
	v := Bind(buf, 3, KindFloat32, 0)
	v.SetVec3(1, 10, 20, 30)
	x, y, z := v.Vec3(1)
	require.Equal(t, 10.0, x)
	require.Equal(t, 20.0, y)
	require.Equal(t, 30.0, z)
}

func TestView_InterleavedStride(t *testing.T) {
	// vertex+normal interleaved, stride 24 bytes, vertex at offset 0
	buf := make([]byte, 2*24)
	v := Bind(buf, 3, KindFloat32, 24)
	v.SetVec3(0, 1, 2, 3)
	v.SetVec3(1, 4, 5, 6)
	x, y, z := v.Vec3(0)
	require.Equal(t, [3]float64{1, 2, 3}, [3]float64{x, y, z})
	x, y, z = v.Vec3(1)
	require.Equal(t, [3]float64{4, 5, 6}, [3]float64{x, y, z})
}

func TestView_Tri(t *testing.T) {
	buf := make([]byte, 2*3*4)
	v := Bind(buf, 3, KindInt32, 0)
	v.SetTri(0, 1, 2, 3)
	a, b, c := v.Tri(0)
	require.Equal(t, [3]int64{1, 2, 3}, [3]int64{a, b, c})
}
