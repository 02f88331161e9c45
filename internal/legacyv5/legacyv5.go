// Package legacyv5 rewrites a v5-format container body into an in-memory
// v6-equivalent byte buffer, so the normal v6 header and pipeline readers
// never need to know format version 5 existed. Per spec.md §4.H and the
// "residuals in MG2" open question, resolved in DESIGN.md.
package legacyv5

import (
	"fmt"
	"io"

	"github.com/openctm/ctm/compress"
	"github.com/openctm/ctm/errs"
	"github.com/openctm/ctm/internal/ctmheader"
	"github.com/openctm/ctm/internal/packedcoder"
	"github.com/openctm/ctm/internal/pool"
	"github.com/openctm/ctm/internal/stream"
)

// Rewrite reads a v5 body from r — positioned immediately after the magic
// and version fields, which the caller already consumed via
// ctmheader.PeekVersion — and returns a complete in-memory v6 container
// (fresh "OCTM" magic, version 6, a single frame) built from the decoded
// v5 data. codec/level are used both to decode the v5 packed blocks and to
// re-encode the rewritten ones; a v5 file this reader can open must have
// been written with a codec this process can also decode.
//
// Grounded on original_source/lib/compressMG1.c's version-gated
// _ctmConvertV5MG1Vertices call, the only documented v5/v6 wire difference
// in the retrieved source: v5 stored MG1 vertex components planar inside
// the one VERT packed-float block (all X, then all Y, then all Z) instead of
// v6's per-vertex interleaved triples. Everything else — header field layout,
// index delta coding, normals, UV/attribute maps — is assumed unchanged
// from v6. MG2 is refused: spec.md's "residuals in MG2" open question notes
// v5/v6 MG2 traversals subtly differ, and this module implements v6
// traversal only, so a v5 MG2 file cannot be rewritten faithfully.
func Rewrite(r io.Reader, codec compress.Codec, level int) ([]byte, error) {
	sr := stream.NewReader(r)

	h, err := ctmheader.ReadFields(sr, 5)
	if err != nil {
		return nil, err
	}
	if h.Method == ctmheader.MethodMG2 {
		return nil, fmt.Errorf("%w: v5 MG2 files are not supported (traversal differs from v6)", errs.ErrUnsupportedVer)
	}

	vertexCount := int(h.VertexCount)
	triangleCount := int(h.TriangleCount)

	if err := sr.ExpectFourCC("INDX"); err != nil {
		return nil, err
	}
	indices, err := packedcoder.DecodeInt32(sr, codec, triangleCount*3)
	if err != nil {
		return nil, err
	}

	if err := sr.ExpectFourCC("VERT"); err != nil {
		return nil, err
	}
	vertices, err := packedcoder.DecodeFloat32(sr, codec, vertexCount*3)
	if err != nil {
		return nil, err
	}
	if h.Method == ctmheader.MethodMG1 {
		vertices = deinterleaveXYZ(vertices, vertexCount)
	}

	var normals []float32
	if h.HasNormals() {
		if err := sr.ExpectFourCC("NORM"); err != nil {
			return nil, err
		}
		if normals, err = packedcoder.DecodeFloat32(sr, codec, vertexCount*3); err != nil {
			return nil, err
		}
	}

	uvValues := make([][]float32, len(h.UVMaps))
	for i := range h.UVMaps {
		if err := sr.ExpectFourCC("TEXC"); err != nil {
			return nil, err
		}
		if uvValues[i], err = packedcoder.DecodeFloat32(sr, codec, vertexCount*2); err != nil {
			return nil, err
		}
	}

	attribValues := make([][]float32, len(h.AttribMaps))
	for i := range h.AttribMaps {
		if err := sr.ExpectFourCC("ATTR"); err != nil {
			return nil, err
		}
		if attribValues[i], err = packedcoder.DecodeFloat32(sr, codec, vertexCount*4); err != nil {
			return nil, err
		}
	}

	out := h
	out.Version = ctmheader.Version
	out.FrameCount = 1 // v5 predates the animation timeline; always a single frame

	bb := pool.GetScratch()
	defer pool.PutScratch(bb)
	w := stream.NewWriter(bb)
	defer w.Close()

	if err := ctmheader.Write(w, out); err != nil {
		return nil, err
	}

	if err := w.FourCC(stream.Tag("INDX")); err != nil {
		return nil, err
	}
	if err := packedcoder.EncodeInt32(w, codec, level, indices, false); err != nil {
		return nil, err
	}

	if err := w.FourCC(stream.Tag("VERT")); err != nil {
		return nil, err
	}
	if err := packedcoder.EncodeFloat32(w, codec, level, vertices); err != nil {
		return nil, err
	}

	if h.HasNormals() {
		if err := w.FourCC(stream.Tag("NORM")); err != nil {
			return nil, err
		}
		if err := packedcoder.EncodeFloat32(w, codec, level, normals); err != nil {
			return nil, err
		}
	}

	for _, values := range uvValues {
		if err := w.FourCC(stream.Tag("TEXC")); err != nil {
			return nil, err
		}
		if err := packedcoder.EncodeFloat32(w, codec, level, values); err != nil {
			return nil, err
		}
	}

	for _, values := range attribValues {
		if err := w.FourCC(stream.Tag("ATTR")); err != nil {
			return nil, err
		}
		if err := packedcoder.EncodeFloat32(w, codec, level, values); err != nil {
			return nil, err
		}
	}

	// bb is returned to the pool on return; copy out before that happens.
	result := make([]byte, bb.Len())
	copy(result, bb.Bytes())

	return result, nil
}

// deinterleaveXYZ rearranges count*3 planar values (all X, then all Y, then
// all Z) into count interleaved (x,y,z) triples.
func deinterleaveXYZ(planar []float32, count int) []float32 {
	out := make([]float32, count*3)
	for i := 0; i < count; i++ {
		out[i*3] = planar[i]
		out[i*3+1] = planar[count+i]
		out[i*3+2] = planar[2*count+i]
	}

	return out
}
