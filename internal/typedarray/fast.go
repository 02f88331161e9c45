package typedarray

import "math"

// Vec3 reads a 3-component element as three float64s. When the view is
// float32 and tightly packed (stride == 12), it reads the triple directly
// rather than through three GetFloat calls; other kinds/strides fall back
// to the generic path. Both paths must and do produce identical results.
func (v View) Vec3(element int) (x, y, z float64) {
	if v.kind == KindFloat32 && v.stride == 12 && v.components >= 3 {
		base := element * v.stride
		if base+12 > len(v.base) {
			return 0, 0, 0
		}

		return float64frombits32(le32(v.base[base:])),
			float64frombits32(le32(v.base[base+4:])),
			float64frombits32(le32(v.base[base+8:]))
	}

	return v.GetFloat(element, 0), v.GetFloat(element, 1), v.GetFloat(element, 2)
}

// SetVec3 writes a 3-component float element, using the packed float32 fast
// path when applicable (see Vec3).
func (v View) SetVec3(element int, x, y, z float64) {
	if v.kind == KindFloat32 && v.stride == 12 && v.components >= 3 {
		base := element * v.stride
		if base+12 > len(v.base) {
			return
		}

		putLE32(v.base[base:], float32bits(x))
		putLE32(v.base[base+4:], float32bits(y))
		putLE32(v.base[base+8:], float32bits(z))

		return
	}

	v.SetFloat(element, 0, x)
	v.SetFloat(element, 1, y)
	v.SetFloat(element, 2, z)
}

// Vec2 reads a 2-component element as two float64s (a UV map's fixed
// width), using the packed float32 fast path of Vec3 when applicable.
func (v View) Vec2(element int) (x, y float64) {
	if v.kind == KindFloat32 && v.stride == 8 && v.components >= 2 {
		base := element * v.stride
		if base+8 > len(v.base) {
			return 0, 0
		}

		return float64frombits32(le32(v.base[base:])),
			float64frombits32(le32(v.base[base+4:]))
	}

	return v.GetFloat(element, 0), v.GetFloat(element, 1)
}

// SetVec2 writes a 2-component float element, using the fast path of Vec2
// when applicable.
func (v View) SetVec2(element int, x, y float64) {
	if v.kind == KindFloat32 && v.stride == 8 && v.components >= 2 {
		base := element * v.stride
		if base+8 > len(v.base) {
			return
		}

		putLE32(v.base[base:], float32bits(x))
		putLE32(v.base[base+4:], float32bits(y))

		return
	}

	v.SetFloat(element, 0, x)
	v.SetFloat(element, 1, y)
}

// Vec4 reads a 4-component element as four float64s (an attribute map's
// fixed width), using the packed float32 fast path of Vec3 when applicable.
func (v View) Vec4(element int) (x, y, z, w float64) {
	if v.kind == KindFloat32 && v.stride == 16 && v.components >= 4 {
		base := element * v.stride
		if base+16 > len(v.base) {
			return 0, 0, 0, 0
		}

		return float64frombits32(le32(v.base[base:])),
			float64frombits32(le32(v.base[base+4:])),
			float64frombits32(le32(v.base[base+8:])),
			float64frombits32(le32(v.base[base+12:]))
	}

	return v.GetFloat(element, 0), v.GetFloat(element, 1), v.GetFloat(element, 2), v.GetFloat(element, 3)
}

// SetVec4 writes a 4-component float element, using the fast path of Vec4
// when applicable.
func (v View) SetVec4(element int, x, y, z, w float64) {
	if v.kind == KindFloat32 && v.stride == 16 && v.components >= 4 {
		base := element * v.stride
		if base+16 > len(v.base) {
			return
		}

		putLE32(v.base[base:], float32bits(x))
		putLE32(v.base[base+4:], float32bits(y))
		putLE32(v.base[base+8:], float32bits(z))
		putLE32(v.base[base+12:], float32bits(w))

		return
	}

	v.SetFloat(element, 0, x)
	v.SetFloat(element, 1, y)
	v.SetFloat(element, 2, z)
	v.SetFloat(element, 3, w)
}

// Tri reads a 3-component integer element (a triangle's three vertex
// indices), using a direct-read fast path for tightly packed int32.
func (v View) Tri(element int) (a, b, c int64) {
	if v.kind == KindInt32 && v.stride == 12 {
		base := element * v.stride
		if base+12 > len(v.base) {
			return 0, 0, 0
		}

		return int64(int32(le32(v.base[base:]))),
			int64(int32(le32(v.base[base+4:]))),
			int64(int32(le32(v.base[base+8:])))
	}

	return v.GetInt(element, 0), v.GetInt(element, 1), v.GetInt(element, 2)
}

// SetTri writes a 3-component integer element, using the fast path of Tri
// when applicable.
func (v View) SetTri(element int, a, b, c int64) {
	if v.kind == KindInt32 && v.stride == 12 {
		base := element * v.stride
		if base+12 > len(v.base) {
			return
		}

		putLE32(v.base[base:], uint32(int32(a)))
		putLE32(v.base[base+4:], uint32(int32(b)))
		putLE32(v.base[base+8:], uint32(int32(c)))

		return
	}

	v.SetInt(element, 0, a)
	v.SetInt(element, 1, b)
	v.SetInt(element, 2, c)
}

func float64frombits32(bits uint32) float64 {
	return float64(math.Float32frombits(bits))
}

func float32bits(v float64) uint32 {
	return math.Float32bits(float32(v))
}
