// Package grid implements the MG2 pipeline's vertex-grid quantization
// (bounding box, uniform cell size, per-vertex cell coordinates and
// sub-cell residuals) and its deterministic topology-driven traversal used
// to order vertex data for predictive coding (spec.md §4.F).
package grid

import "math"

// Vec3 is a plain 3-component float64 vector, used throughout this package
// instead of a generic [3]float64 so call sites read as x/y/z.
type Vec3 struct{ X, Y, Z float64 }

// Box is an axis-aligned bounding box.
type Box struct {
	Lo, Hi Vec3
}

// ComputeBox returns the bounding box of verts. Panics if verts is empty;
// callers must have already validated VertexCount > 0.
func ComputeBox(verts []Vec3) Box {
	b := Box{Lo: verts[0], Hi: verts[0]}
	for _, v := range verts[1:] {
		b.Lo.X, b.Hi.X = math.Min(b.Lo.X, v.X), math.Max(b.Hi.X, v.X)
		b.Lo.Y, b.Hi.Y = math.Min(b.Lo.Y, v.Y), math.Max(b.Hi.Y, v.Y)
		b.Lo.Z, b.Hi.Z = math.Min(b.Lo.Z, v.Z), math.Max(b.Hi.Z, v.Z)
	}

	return b
}

// Grid is a uniform 3D grid of the given cell size covering a bounding box.
type Grid struct {
	Lo   Vec3
	Cell float64
	Div  [3]uint32 // grid dimensions along x, y, z
}

// New derives a Grid from box and the vertex quantization precision cell.
// Div.k = ceil((hi.k - lo.k) / cell) + 1, per spec.md §4.F step 2.
func New(box Box, cell float64) Grid {
	div := func(lo, hi float64) uint32 {
		return uint32(math.Ceil((hi-lo)/cell)) + 1
	}

	return Grid{
		Lo:   box.Lo,
		Cell: cell,
		Div:  [3]uint32{div(box.Lo.X, box.Hi.X), div(box.Lo.Y, box.Hi.Y), div(box.Lo.Z, box.Hi.Z)},
	}
}

// CellCoord returns the rounded integer grid-cell coordinates of v.
func (g Grid) CellCoord(v Vec3) [3]int32 {
	return [3]int32{
		int32(math.Round((v.X - g.Lo.X) / g.Cell)),
		int32(math.Round((v.Y - g.Lo.Y) / g.Cell)),
		int32(math.Round((v.Z - g.Lo.Z) / g.Cell)),
	}
}

// Residual returns the sub-cell offset of v from its (already computed)
// cell coordinate, in units of cell widths, range [-0.5, 0.5].
func (g Grid) Residual(v Vec3, cell [3]int32) Vec3 {
	return Vec3{
		X: (v.X-g.Lo.X)/g.Cell - float64(cell[0]),
		Y: (v.Y-g.Lo.Y)/g.Cell - float64(cell[1]),
		Z: (v.Z-g.Lo.Z)/g.Cell - float64(cell[2]),
	}
}

// Reconstruct inverts CellCoord+Residual: given a cell coordinate and its
// residual, returns the (quantized) vertex position.
func (g Grid) Reconstruct(cell [3]int32, res Vec3) Vec3 {
	return Vec3{
		X: g.Lo.X + (float64(cell[0])+res.X)*g.Cell,
		Y: g.Lo.Y + (float64(cell[1])+res.Y)*g.Cell,
		Z: g.Lo.Z + (float64(cell[2])+res.Z)*g.Cell,
	}
}
