package pipeline

import (
	"math"

	"github.com/openctm/ctm/compress"
	"github.com/openctm/ctm/internal/grid"
	"github.com/openctm/ctm/internal/normalcodec"
	"github.com/openctm/ctm/internal/packedcoder"
	"github.com/openctm/ctm/internal/pool"
	"github.com/openctm/ctm/internal/stream"
)

// mg2Pipeline implements vertex-grid quantization with a predictive
// topology traversal, spherical-coordinate normal coding against a smooth
// per-vertex basis, and quantized predictive UV/attribute coding.
// Per spec.md §4.F.
//
// The index buffer emitted by EncodeMesh already carries vertex data in
// traversal order (position i in the INDX block is vertex slot i in every
// later VERT/NORM/TEXC/ATTR block of every frame), so DecodeMesh never
// needs to recompute the traversal to place decoded data — it only
// recomputes it, implicitly, as the triangle topology itself, which is
// exactly what normal-basis reconstruction needs.
type mg2Pipeline struct {
	codec compress.Codec
	level int

	// Session state, populated by EncodeMesh/DecodeMesh and reused by
	// EncodeFrame/DecodeFrame for the remaining frames of the animation.
	permTris    []grid.Triangle
	vertexOrder []int32 // encode-only: traversal.VertexOrder, old vertex per stream slot
	g           grid.Grid
	vertexCount int
}

func newMG2(codec compress.Codec, level int) *mg2Pipeline {
	return &mg2Pipeline{codec: codec, level: level}
}

func quantize(v, precision float64) int32 {
	return int32(math.Round(v / precision))
}

func dequantize(q int32, precision float64) float64 {
	return float64(q) * precision
}

func (p *mg2Pipeline) EncodeMesh(w *stream.Writer, m Mesh) error {
	tris := make([]grid.Triangle, m.TriangleCount)
	for i := 0; i < m.TriangleCount; i++ {
		a, b, c := m.Indices.Tri(i)
		tris[i] = grid.Triangle{A: int32(a), B: int32(b), C: int32(c)}
	}

	trav := grid.Traverse(tris, m.VertexCount)
	invVertex := grid.InvertPermutation(trav.VertexOrder)

	permTris := make([]grid.Triangle, m.TriangleCount)
	flat := make([]int32, m.TriangleCount*3)
	for i, oldTriIdx := range trav.TriOrder {
		t := tris[oldTriIdx]
		permTris[i] = grid.Triangle{A: invVertex[t.A], B: invVertex[t.B], C: invVertex[t.C]}
		flat[i*3], flat[i*3+1], flat[i*3+2] = permTris[i].A, permTris[i].B, permTris[i].C
	}

	if err := w.FourCC(stream.Tag("INDX")); err != nil {
		return err
	}
	if err := packedcoder.EncodeInt32(w, p.codec, p.level, flat, false); err != nil {
		return err
	}

	positions := make([]grid.Vec3, m.VertexCount)
	for i := 0; i < m.VertexCount; i++ {
		x, y, z := m.Vertices.Vec3(i)
		positions[i] = grid.Vec3{X: x, Y: y, Z: z}
	}
	box := grid.ComputeBox(positions)

	p.permTris = permTris
	p.vertexOrder = trav.VertexOrder
	p.g = grid.New(box, m.Precision.Vertex)
	p.vertexCount = m.VertexCount

	return p.encodeFrameData(w, m)
}

func (p *mg2Pipeline) EncodeFrame(w *stream.Writer, m Mesh) error {
	return p.encodeFrameData(w, m)
}

func (p *mg2Pipeline) encodeFrameData(w *stream.Writer, m Mesh) error {
	V := p.vertexCount

	permPos := make([]grid.Vec3, V)
	for i, oldV := range p.vertexOrder {
		x, y, z := m.Vertices.Vec3(int(oldV))
		permPos[i] = grid.Vec3{X: x, Y: y, Z: z}
	}

	if err := writeGridHeader(w, p.g); err != nil {
		return err
	}
	if err := encodeVertexGrid(w, p.codec, p.level, p.g, permPos); err != nil {
		return err
	}

	if m.HasNormals {
		// SmoothBases gets the positions the decoder reconstructs (float32
		// grid header and residuals), not the originals, so encoder and
		// decoder compute identical bases.
		lo32 := grid.Vec3{X: float64(float32(p.g.Lo.X)), Y: float64(float32(p.g.Lo.Y)), Z: float64(float32(p.g.Lo.Z))}
		dg := grid.Grid{Lo: lo32, Cell: float64(float32(p.g.Cell)), Div: p.g.Div}
		recon := make([]grid.Vec3, V)
		for i, pos := range permPos {
			cell := p.g.CellCoord(pos)
			res := p.g.Residual(pos, cell)
			recon[i] = dg.Reconstruct(cell, grid.Vec3{X: float64(float32(res.X)), Y: float64(float32(res.Y)), Z: float64(float32(res.Z))})
		}
		bases := normalcodec.SmoothBases(recon, p.permTris)
		normalsQ, putNormalsQ := pool.GetInt32Slice(V * 3)
		defer putNormalsQ()
		for i, oldV := range p.vertexOrder {
			nx, ny, nz := m.Normals.Vec3(int(oldV))
			mag, theta, phi := normalcodec.ToSpherical(bases[i], grid.Vec3{X: nx, Y: ny, Z: nz})
			normalsQ[i*3] = quantize(mag, m.Precision.Normal)
			normalsQ[i*3+1] = quantize(theta, m.Precision.Normal)
			normalsQ[i*3+2] = quantize(phi, m.Precision.Normal)
		}

		if err := w.FourCC(stream.Tag("NORM")); err != nil {
			return err
		}
		if err := packedcoder.EncodeInt32(w, p.codec, p.level, normalsQ, true); err != nil {
			return err
		}
	}

	for mi, uv := range m.UVMaps {
		if err := p.encodeMap(w, uv, 2, m.Precision.UV[mi], "TEXC"); err != nil {
			return err
		}
	}
	for mi, am := range m.AttribMaps {
		if err := p.encodeMap(w, am, 4, m.Precision.Attrib[mi], "ATTR"); err != nil {
			return err
		}
	}

	return nil
}

// encodeMap quantizes a fixed-width (width components, zero-padded) map in
// traversal order, predictively delta-codes it, and writes it as
// min/range/precision header + packed i32.
func (p *mg2Pipeline) encodeMap(w *stream.Writer, view interface {
	GetFloat(element, component int) float64
	Components() int
}, width int, precision float64, tag string) error {
	V := p.vertexCount
	values := make([]float64, V*width)
	for i, oldV := range p.vertexOrder {
		for c := 0; c < width; c++ {
			if c < view.Components() {
				values[i*width+c] = view.GetFloat(int(oldV), c)
			}
		}
	}

	mins := make([]float64, width)
	maxs := make([]float64, width)
	for c := 0; c < width; c++ {
		mins[c], maxs[c] = values[c], values[c]
	}
	for i := 0; i < V; i++ {
		for c := 0; c < width; c++ {
			v := values[i*width+c]
			if v < mins[c] {
				mins[c] = v
			}
			if v > maxs[c] {
				maxs[c] = v
			}
		}
	}

	if err := w.FourCC(stream.Tag(tag)); err != nil {
		return err
	}
	for c := 0; c < width; c++ {
		if err := w.Float32(float32(mins[c])); err != nil {
			return err
		}
	}
	for c := 0; c < width; c++ {
		if err := w.Float32(float32(maxs[c] - mins[c])); err != nil {
			return err
		}
	}
	if err := w.Float32(float32(precision)); err != nil {
		return err
	}

	quant, putQuant := pool.GetInt32Slice(V * width)
	defer putQuant()
	prev := make([]int32, width)
	for i := 0; i < V; i++ {
		for c := 0; c < width; c++ {
			q := quantize(values[i*width+c]-mins[c], precision)
			if i == 0 {
				quant[i*width+c] = q
			} else {
				quant[i*width+c] = q - prev[c]
			}
			prev[c] = q
		}
	}

	return packedcoder.EncodeInt32(w, p.codec, p.level, quant, true)
}

func writeGridHeader(w *stream.Writer, g grid.Grid) error {
	if err := w.Uint32(math.Float32bits(float32(g.Cell))); err != nil {
		return err
	}
	if err := w.Float32(float32(g.Lo.X)); err != nil {
		return err
	}
	if err := w.Float32(float32(g.Lo.Y)); err != nil {
		return err
	}
	if err := w.Float32(float32(g.Lo.Z)); err != nil {
		return err
	}
	for _, d := range g.Div {
		if err := w.Uint32(d); err != nil {
			return err
		}
	}

	return nil
}

func readGridHeader(r *stream.Reader) (grid.Grid, error) {
	cellBits, err := r.Uint32()
	if err != nil {
		return grid.Grid{}, err
	}
	lx, err := r.Float32()
	if err != nil {
		return grid.Grid{}, err
	}
	ly, err := r.Float32()
	if err != nil {
		return grid.Grid{}, err
	}
	lz, err := r.Float32()
	if err != nil {
		return grid.Grid{}, err
	}

	var div [3]uint32
	for i := range div {
		if div[i], err = r.Uint32(); err != nil {
			return grid.Grid{}, err
		}
	}

	return grid.Grid{
		Lo:   grid.Vec3{X: float64(lx), Y: float64(ly), Z: float64(lz)},
		Cell: float64(math.Float32frombits(cellBits)),
		Div:  div,
	}, nil
}

func encodeVertexGrid(w *stream.Writer, codec compress.Codec, level int, g grid.Grid, positions []grid.Vec3) error {
	cells := make([][3]int32, len(positions))
	for i, p := range positions {
		cells[i] = g.CellCoord(p)
	}

	deltas, putDeltas := pool.GetInt32Slice(len(positions) * 3)
	defer putDeltas()
	var prev [3]int32
	for i, c := range cells {
		for k := 0; k < 3; k++ {
			if i == 0 {
				deltas[i*3+k] = c[k]
			} else {
				deltas[i*3+k] = c[k] - prev[k]
			}
		}
		prev = c
	}

	if err := packedcoder.EncodeInt32(w, codec, level, deltas, true); err != nil {
		return err
	}

	residuals, putResiduals := pool.GetFloat32Slice(len(positions) * 3)
	defer putResiduals()
	for i, p := range positions {
		res := g.Residual(p, cells[i])
		residuals[i*3] = float32(res.X)
		residuals[i*3+1] = float32(res.Y)
		residuals[i*3+2] = float32(res.Z)
	}

	return packedcoder.EncodeFloat32(w, codec, level, residuals)
}

func decodeVertexGrid(r *stream.Reader, codec compress.Codec, g grid.Grid, count int) ([]grid.Vec3, error) {
	deltas, err := packedcoder.DecodeInt32(r, codec, count*3)
	if err != nil {
		return nil, err
	}

	cells := make([][3]int32, count)
	var prev [3]int32
	for i := 0; i < count; i++ {
		var c [3]int32
		for k := 0; k < 3; k++ {
			if i == 0 {
				c[k] = deltas[i*3+k]
			} else {
				c[k] = prev[k] + deltas[i*3+k]
			}
		}
		cells[i] = c
		prev = c
	}

	residuals, err := packedcoder.DecodeFloat32(r, codec, count*3)
	if err != nil {
		return nil, err
	}

	positions := make([]grid.Vec3, count)
	for i := 0; i < count; i++ {
		res := grid.Vec3{X: float64(residuals[i*3]), Y: float64(residuals[i*3+1]), Z: float64(residuals[i*3+2])}
		positions[i] = g.Reconstruct(cells[i], res)
	}

	return positions, nil
}

func (p *mg2Pipeline) DecodeMesh(r *stream.Reader, m Mesh) error {
	if err := r.ExpectFourCC("INDX"); err != nil {
		return err
	}
	flat, err := packedcoder.DecodeInt32(r, p.codec, m.TriangleCount*3)
	if err != nil {
		return err
	}

	permTris := make([]grid.Triangle, m.TriangleCount)
	for i := range permTris {
		permTris[i] = grid.Triangle{A: flat[i*3], B: flat[i*3+1], C: flat[i*3+2]}
		m.Indices.SetTri(i, int64(permTris[i].A), int64(permTris[i].B), int64(permTris[i].C))
	}

	p.permTris = permTris
	p.vertexCount = m.VertexCount

	return p.decodeFrameData(r, m)
}

func (p *mg2Pipeline) DecodeFrame(r *stream.Reader, m Mesh) error {
	return p.decodeFrameData(r, m)
}

func (p *mg2Pipeline) decodeFrameData(r *stream.Reader, m Mesh) error {
	g, err := readGridHeader(r)
	if err != nil {
		return err
	}
	p.g = g

	positions, err := decodeVertexGrid(r, p.codec, g, p.vertexCount)
	if err != nil {
		return err
	}
	for i, pos := range positions {
		m.Vertices.SetVec3(i, pos.X, pos.Y, pos.Z)
	}

	if m.HasNormals {
		if err := r.ExpectFourCC("NORM"); err != nil {
			return err
		}
		quant, err := packedcoder.DecodeInt32(r, p.codec, p.vertexCount*3)
		if err != nil {
			return err
		}

		bases := normalcodec.SmoothBases(positions, p.permTris)
		for i := 0; i < p.vertexCount; i++ {
			mag := dequantize(quant[i*3], m.Precision.Normal)
			theta := dequantize(quant[i*3+1], m.Precision.Normal)
			phi := dequantize(quant[i*3+2], m.Precision.Normal)
			n := normalcodec.FromSpherical(bases[i], mag, theta, phi)
			m.Normals.SetVec3(i, n.X, n.Y, n.Z)
		}
	}

	for mi, uv := range m.UVMaps {
		if err := p.decodeMap(r, uv, 2, m.Precision.UV[mi], "TEXC"); err != nil {
			return err
		}
	}
	for mi, am := range m.AttribMaps {
		if err := p.decodeMap(r, am, 4, m.Precision.Attrib[mi], "ATTR"); err != nil {
			return err
		}
	}

	return nil
}

func (p *mg2Pipeline) decodeMap(r *stream.Reader, view interface {
	SetFloat(element, component int, value float64)
	Components() int
}, width int, precision float64, tag string) error {
	if err := r.ExpectFourCC(tag); err != nil {
		return err
	}

	mins := make([]float32, width)
	for c := range mins {
		v, err := r.Float32()
		if err != nil {
			return err
		}
		mins[c] = v
	}
	for c := 0; c < width; c++ {
		if _, err := r.Float32(); err != nil { // range, unused on decode (precision carries resolution)
			return err
		}
	}
	streamPrecision, err := r.Float32()
	if err != nil {
		return err
	}
	precision = float64(streamPrecision) // self-describing: stream wins over the caller's configured value

	V := p.vertexCount
	quant, err := packedcoder.DecodeInt32(r, p.codec, V*width)
	if err != nil {
		return err
	}

	prev := make([]int32, width)
	for i := 0; i < V; i++ {
		for c := 0; c < width; c++ {
			var q int32
			if i == 0 {
				q = quant[i*width+c]
			} else {
				q = prev[c] + quant[i*width+c]
			}
			prev[c] = q

			if c < view.Components() {
				view.SetFloat(i, c, float64(mins[c])+dequantize(q, precision))
			}
		}
	}

	return nil
}
