package pipeline

import (
	"sort"

	"github.com/openctm/ctm/compress"
	"github.com/openctm/ctm/internal/packedcoder"
	"github.com/openctm/ctm/internal/stream"
)

// mg1Pipeline canonicalizes and delta-codes the index buffer, then
// delegates frame payloads to the same VERT/NORM/TEXC/ATTR layout as RAW.
// Per spec.md §4.E.
type mg1Pipeline struct {
	codec compress.Codec
	level int
}

func newMG1(codec compress.Codec, level int) *mg1Pipeline {
	return &mg1Pipeline{codec: codec, level: level}
}

type tri3 [3]int32

// canonicalize rotates t so its smallest index is first, preserving the
// cyclic order of the other two.
func canonicalize(t tri3) tri3 {
	switch {
	case t[0] <= t[1] && t[0] <= t[2]:
		return t
	case t[1] <= t[0] && t[1] <= t[2]:
		return tri3{t[1], t[2], t[0]}
	default:
		return tri3{t[2], t[0], t[1]}
	}
}

// deltaEncode mutates tris in place per spec.md §4.E step 3, processing
// from the highest index down to 0 so each triangle's delta is taken
// against its predecessor's still-original values.
func deltaEncode(tris []tri3) {
	for i := len(tris) - 1; i >= 1; i-- {
		if tris[i][0] == tris[i-1][0] {
			tris[i][1] -= tris[i-1][1]
		} else {
			tris[i][1] -= tris[i][0]
		}
		tris[i][2] -= tris[i][0]
		tris[i][0] -= tris[i-1][0]
	}
	if len(tris) > 0 {
		tris[0][2] -= tris[0][0]
	}
}

// deltaDecode inverts deltaEncode via a forward scan.
func deltaDecode(tris []tri3) {
	if len(tris) > 0 {
		tris[0][2] += tris[0][0]
	}
	for i := 1; i < len(tris); i++ {
		tris[i][0] += tris[i-1][0]
		if tris[i][0] == tris[i-1][0] {
			tris[i][1] += tris[i-1][1]
		} else {
			tris[i][1] += tris[i][0]
		}
		tris[i][2] += tris[i][0]
	}
}

func (p *mg1Pipeline) EncodeMesh(w *stream.Writer, m Mesh) error {
	tris := make([]tri3, m.TriangleCount)
	for i := 0; i < m.TriangleCount; i++ {
		a, b, c := m.Indices.Tri(i)
		tris[i] = canonicalize(tri3{int32(a), int32(b), int32(c)})
	}

	sort.SliceStable(tris, func(i, j int) bool {
		if tris[i][0] != tris[j][0] {
			return tris[i][0] < tris[j][0]
		}

		return tris[i][1] < tris[j][1]
	})

	deltaEncode(tris)

	flat := make([]int32, len(tris)*3)
	for i, t := range tris {
		flat[i*3], flat[i*3+1], flat[i*3+2] = t[0], t[1], t[2]
	}

	if err := w.FourCC(stream.Tag("INDX")); err != nil {
		return err
	}
	if err := packedcoder.EncodeInt32(w, p.codec, p.level, flat, false); err != nil {
		return err
	}

	return p.EncodeFrame(w, m)
}

func (p *mg1Pipeline) EncodeFrame(w *stream.Writer, m Mesh) error {
	return (&rawPipeline{codec: p.codec, level: p.level}).EncodeFrame(w, m)
}

func (p *mg1Pipeline) DecodeMesh(r *stream.Reader, m Mesh) error {
	if err := r.ExpectFourCC("INDX"); err != nil {
		return err
	}
	flat, err := packedcoder.DecodeInt32(r, p.codec, m.TriangleCount*3)
	if err != nil {
		return err
	}

	tris := make([]tri3, m.TriangleCount)
	for i := range tris {
		tris[i] = tri3{flat[i*3], flat[i*3+1], flat[i*3+2]}
	}
	deltaDecode(tris)

	for i, t := range tris {
		m.Indices.SetTri(i, int64(t[0]), int64(t[1]), int64(t[2]))
	}

	return p.DecodeFrame(r, m)
}

func (p *mg1Pipeline) DecodeFrame(r *stream.Reader, m Mesh) error {
	return (&rawPipeline{codec: p.codec, level: p.level}).DecodeFrame(r, m)
}
