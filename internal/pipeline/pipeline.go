// Package pipeline implements the three mesh (de)serialization strategies
// — RAW, MG1, MG2 — behind one Pipeline interface, per spec.md §4.D-F and
// the strategy-object design note in §9.
package pipeline

import (
	"github.com/openctm/ctm/compress"
	"github.com/openctm/ctm/internal/stream"
	"github.com/openctm/ctm/internal/typedarray"
)

// Precision carries the caller-configured quantization precisions. Only
// MG2 consumes these beyond documentation purposes; RAW and MG1 are
// lossless regardless of precision.
type Precision struct {
	Vertex float64
	Normal float64
	UV     []float64 // one per UV map
	Attrib []float64 // one per attribute map
}

// Mesh is the bundle of bound typed-array views and shape counts a
// Pipeline needs to encode or decode one frame.
//
// Indices and (frame 0 only) the shape counts are fixed for the life of an
// encode/decode session; Vertices/Normals/UVMaps/AttribMaps are rebound
// for every frame, including frame 0.
type Mesh struct {
	VertexCount   int
	TriangleCount int
	Indices       typedarray.View
	Vertices      typedarray.View
	Normals       typedarray.View // Absent if HasNormals is false
	HasNormals    bool
	UVMaps        []typedarray.View
	AttribMaps    []typedarray.View
	Precision     Precision
}

// Pipeline encodes/decodes one container's mesh and frame data. A Pipeline
// instance is stateful across the EncodeMesh/EncodeFrame or
// DecodeMesh/DecodeFrame calls of a single save/read session — MG2 needs
// information computed while processing frame 0 (the vertex permutation,
// the permuted triangles and the vertex grid) to correctly encode or decode
// subsequent frames, which only carry per-vertex data, not indices. RAW and
// MG1 keep no state between calls.
type Pipeline interface {
	// EncodeMesh writes the INDX block and frame 0's per-vertex payload.
	EncodeMesh(w *stream.Writer, m Mesh) error
	// EncodeFrame writes one subsequent frame's per-vertex payload (no
	// INDX block — the index buffer is fixed for the whole animation).
	EncodeFrame(w *stream.Writer, m Mesh) error
	// DecodeMesh reads the INDX block and frame 0's payload, writing
	// results through m's bound views (including the Indices view, which
	// the caller binds before calling).
	DecodeMesh(r *stream.Reader, m Mesh) error
	// DecodeFrame reads one subsequent frame's payload.
	DecodeFrame(r *stream.Reader, m Mesh) error
}

// New constructs the Pipeline for method, driven by codec at the given
// compression level.
func New(method string, codec compress.Codec, level int) Pipeline {
	switch method {
	case "MG1\x00":
		return newMG1(codec, level)
	case "MG2\x00":
		return newMG2(codec, level)
	default:
		return newRAW(codec, level)
	}
}
