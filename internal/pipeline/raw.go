package pipeline

import (
	"github.com/openctm/ctm/compress"
	"github.com/openctm/ctm/internal/packedcoder"
	"github.com/openctm/ctm/internal/stream"
	"github.com/openctm/ctm/internal/typedarray"
)

// rawPipeline serializes arrays verbatim: INDX then, per frame, VERT,
// optional NORM, TEXC per UV map, ATTR per attribute map. Per spec.md §4.D.
type rawPipeline struct {
	codec compress.Codec
	level int
}

func newRAW(codec compress.Codec, level int) *rawPipeline {
	return &rawPipeline{codec: codec, level: level}
}

func flattenTri(v typedarray.View, count int) []int32 {
	out := make([]int32, count*3)
	for i := 0; i < count; i++ {
		a, b, c := v.Tri(i)
		out[i*3], out[i*3+1], out[i*3+2] = int32(a), int32(b), int32(c)
	}

	return out
}

func unflattenTri(values []int32, v typedarray.View) {
	count := len(values) / 3
	for i := 0; i < count; i++ {
		v.SetTri(i, int64(values[i*3]), int64(values[i*3+1]), int64(values[i*3+2]))
	}
}

func flattenVec3(v typedarray.View, count int) []float32 {
	out := make([]float32, count*3)
	for i := 0; i < count; i++ {
		x, y, z := v.Vec3(i)
		out[i*3], out[i*3+1], out[i*3+2] = float32(x), float32(y), float32(z)
	}

	return out
}

func unflattenVec3(values []float32, v typedarray.View) {
	count := len(values) / 3
	for i := 0; i < count; i++ {
		v.SetVec3(i, float64(values[i*3]), float64(values[i*3+1]), float64(values[i*3+2]))
	}
}

// flattenFixed flattens a view's first `width` components per element
// (zero-padding components the view doesn't have), used for UV (width 2)
// and attribute (width 4) maps, which spec.md §4.D serializes at a fixed
// width regardless of the bound view's actual component count. Takes the
// Vec2/Vec4 fast path when the view has exactly `width` components.
func flattenFixed(v typedarray.View, count, width int) []float32 {
	out := make([]float32, count*width)

	switch {
	case width == 2 && v.Components() >= 2:
		for i := 0; i < count; i++ {
			x, y := v.Vec2(i)
			out[i*2], out[i*2+1] = float32(x), float32(y)
		}
	case width == 4 && v.Components() >= 4:
		for i := 0; i < count; i++ {
			x, y, z, w := v.Vec4(i)
			out[i*4], out[i*4+1], out[i*4+2], out[i*4+3] = float32(x), float32(y), float32(z), float32(w)
		}
	default:
		for i := 0; i < count; i++ {
			for c := 0; c < width; c++ {
				if c < v.Components() {
					out[i*width+c] = float32(v.GetFloat(i, c))
				}
			}
		}
	}

	return out
}

func unflattenFixed(values []float32, v typedarray.View, width int) {
	count := len(values) / width

	switch {
	case width == 2 && v.Components() >= 2:
		for i := 0; i < count; i++ {
			v.SetVec2(i, float64(values[i*2]), float64(values[i*2+1]))
		}
	case width == 4 && v.Components() >= 4:
		for i := 0; i < count; i++ {
			v.SetVec4(i, float64(values[i*4]), float64(values[i*4+1]), float64(values[i*4+2]), float64(values[i*4+3]))
		}
	default:
		for i := 0; i < count; i++ {
			for c := 0; c < v.Components() && c < width; c++ {
				v.SetFloat(i, c, float64(values[i*width+c]))
			}
		}
	}
}

func (p *rawPipeline) EncodeMesh(w *stream.Writer, m Mesh) error {
	if err := w.FourCC(stream.Tag("INDX")); err != nil {
		return err
	}
	if err := packedcoder.EncodeInt32(w, p.codec, p.level, flattenTri(m.Indices, m.TriangleCount), false); err != nil {
		return err
	}

	return p.EncodeFrame(w, m)
}

func (p *rawPipeline) EncodeFrame(w *stream.Writer, m Mesh) error {
	if err := w.FourCC(stream.Tag("VERT")); err != nil {
		return err
	}
	if err := packedcoder.EncodeFloat32(w, p.codec, p.level, flattenVec3(m.Vertices, m.VertexCount)); err != nil {
		return err
	}

	if m.HasNormals {
		if err := w.FourCC(stream.Tag("NORM")); err != nil {
			return err
		}
		if err := packedcoder.EncodeFloat32(w, p.codec, p.level, flattenVec3(m.Normals, m.VertexCount)); err != nil {
			return err
		}
	}

	for _, uv := range m.UVMaps {
		if err := w.FourCC(stream.Tag("TEXC")); err != nil {
			return err
		}
		if err := packedcoder.EncodeFloat32(w, p.codec, p.level, flattenFixed(uv, m.VertexCount, 2)); err != nil {
			return err
		}
	}

	for _, am := range m.AttribMaps {
		if err := w.FourCC(stream.Tag("ATTR")); err != nil {
			return err
		}
		if err := packedcoder.EncodeFloat32(w, p.codec, p.level, flattenFixed(am, m.VertexCount, 4)); err != nil {
			return err
		}
	}

	return nil
}

func (p *rawPipeline) DecodeMesh(r *stream.Reader, m Mesh) error {
	if err := r.ExpectFourCC("INDX"); err != nil {
		return err
	}
	indices, err := packedcoder.DecodeInt32(r, p.codec, m.TriangleCount*3)
	if err != nil {
		return err
	}
	unflattenTri(indices, m.Indices)

	return p.DecodeFrame(r, m)
}

func (p *rawPipeline) DecodeFrame(r *stream.Reader, m Mesh) error {
	if err := r.ExpectFourCC("VERT"); err != nil {
		return err
	}
	verts, err := packedcoder.DecodeFloat32(r, p.codec, m.VertexCount*3)
	if err != nil {
		return err
	}
	unflattenVec3(verts, m.Vertices)

	if m.HasNormals {
		if err := r.ExpectFourCC("NORM"); err != nil {
			return err
		}
		normals, err := packedcoder.DecodeFloat32(r, p.codec, m.VertexCount*3)
		if err != nil {
			return err
		}
		unflattenVec3(normals, m.Normals)
	}

	for _, uv := range m.UVMaps {
		if err := r.ExpectFourCC("TEXC"); err != nil {
			return err
		}
		values, err := packedcoder.DecodeFloat32(r, p.codec, m.VertexCount*2)
		if err != nil {
			return err
		}
		unflattenFixed(values, uv, 2)
	}

	for _, am := range m.AttribMaps {
		if err := r.ExpectFourCC("ATTR"); err != nil {
			return err
		}
		values, err := packedcoder.DecodeFloat32(r, p.codec, m.VertexCount*4)
		if err != nil {
			return err
		}
		unflattenFixed(values, am, 4)
	}

	return nil
}

