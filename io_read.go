package ctm

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/openctm/ctm/errs"
	"github.com/openctm/ctm/internal/ctmheader"
	"github.com/openctm/ctm/internal/legacyv5"
	"github.com/openctm/ctm/internal/meshcheck"
	"github.com/openctm/ctm/internal/pipeline"
	"github.com/openctm/ctm/internal/stream"
)

// OpenReadFile opens path and reads its header, per spec.md §4.G
// open_read_file. c owns the resulting *os.File and closes it in
// Close/Free.
func (c *Context) OpenReadFile(path string) error {
	if c == nil {
		return errs.ErrInvalidContext
	}

	f, err := os.Open(path)
	if err != nil {
		return c.fail(fmt.Errorf("%w: %w", errs.ErrFile, err))
	}

	if err := c.OpenReadReader(f); err != nil {
		_ = f.Close()
		return err
	}
	c.ownedFile = f

	return nil
}

// OpenReadReader reads the header (and, if version 5, rewrites the whole
// body in memory first via internal/legacyv5) from r, populating the
// context's mesh shape and UV/attribute map metadata. Import mode only;
// valid only while FRESH.
func (c *Context) OpenReadReader(r io.Reader) error {
	if c == nil {
		return errs.ErrInvalidContext
	}
	if c.mode != ModeImport {
		return c.fail(fmt.Errorf("%w: open_read is import-mode only", errs.ErrInvalidOperation))
	}
	if c.stage != stageFresh {
		return c.fail(fmt.Errorf("%w: open_read is only valid while FRESH", errs.ErrInvalidOperation))
	}

	sr := stream.NewReader(r)
	version, err := ctmheader.PeekVersion(sr)
	if err != nil {
		return c.fail(err)
	}

	var h ctmheader.Header

	switch {
	case version == 5:
		c.logger.Info("ctm: rewriting legacy v5 container in memory")
		rewritten, err := legacyv5.Rewrite(r, c.codec, c.level)
		if err != nil {
			return c.fail(err)
		}

		sr = stream.NewReader(bytes.NewReader(rewritten))
		if h, err = ctmheader.Read(sr); err != nil {
			return c.fail(err)
		}
	case version != ctmheader.Version:
		return c.fail(fmt.Errorf("%w: version %d", errs.ErrUnsupportedVer, version))
	default:
		if h, err = ctmheader.ReadFields(sr, version); err != nil {
			return c.fail(err)
		}
	}

	c.applyHeader(h)
	c.sread = sr
	c.stage = stageHeaderDone

	c.logger.Debug("ctm: header read",
		"method", c.method, "vertex_count", c.vertexCount,
		"triangle_count", c.triangleCount, "frame_count", c.frameCount)

	return nil
}

// applyHeader populates c's mesh shape/map metadata from a parsed header.
func (c *Context) applyHeader(h ctmheader.Header) {
	c.method = h.Method
	c.vertexCount = int(h.VertexCount)
	c.triangleCount = int(h.TriangleCount)
	c.hasNormals = h.HasNormals()
	c.frameCount = int(h.FrameCount)
	c.comment = h.Comment

	c.uvMaps = make([]mapBinding, len(h.UVMaps))
	for i, m := range h.UVMaps {
		c.uvMaps[i] = mapBinding{name: m.Name, fileName: m.FileName, precision: defaultUVPrecision}
	}

	c.attribMaps = make([]mapBinding, len(h.AttribMaps))
	for i, m := range h.AttribMaps {
		c.attribMaps[i] = mapBinding{name: m.Name, precision: defaultAttribPrecision}
	}
}

// ReadMesh reads frame 0's mesh payload (indices plus frame-0 per-vertex
// data), runs the integrity check, and advances to frame 1. Import only;
// the current frame must be 0 (i.e. stage HEADER_DONE).
func (c *Context) ReadMesh() error {
	if c == nil {
		return errs.ErrInvalidContext
	}
	if c.mode != ModeImport {
		return c.fail(fmt.Errorf("%w: read_mesh is import-mode only", errs.ErrInvalidOperation))
	}
	if c.stage != stageHeaderDone {
		return c.fail(fmt.Errorf("%w: read_mesh requires the current frame to be 0", errs.ErrInvalidOperation))
	}

	c.pipe = pipeline.New(c.method, c.codec, c.level)

	if err := c.pipe.DecodeMesh(c.sread, c.mesh()); err != nil {
		return c.fail(err)
	}

	if err := meshcheck.Check(c.meshcheckView()); err != nil {
		c.stage = stageMeshDone
		c.frameIndex = 1
		return c.fail(err)
	}

	c.stage = stageMeshDone
	c.frameIndex = 1
	c.lastFrameTime = 0

	c.logger.Debug("ctm: mesh decoded", "vertex_count", c.vertexCount, "triangle_count", c.triangleCount)

	return nil
}

// ReadNextFrame reads the next animation frame's f32 time then its
// per-vertex payload. Import only; requires MESH_DONE(k) with k < N.
func (c *Context) ReadNextFrame() error {
	if c == nil {
		return errs.ErrInvalidContext
	}
	if c.mode != ModeImport {
		return c.fail(fmt.Errorf("%w: read_next_frame is import-mode only", errs.ErrInvalidOperation))
	}
	if c.stage != stageMeshDone {
		return c.fail(fmt.Errorf("%w: read_next_frame requires a prior read_mesh", errs.ErrInvalidOperation))
	}
	if c.frameIndex >= c.frameCount {
		return c.fail(fmt.Errorf("%w: no more frames (at %d of %d)", errs.ErrInvalidOperation, c.frameIndex, c.frameCount))
	}

	t, err := c.sread.Float32()
	if err != nil {
		return c.fail(err)
	}

	if err := c.pipe.DecodeFrame(c.sread, c.mesh()); err != nil {
		return c.fail(err)
	}

	c.lastFrameTime = float64(t)
	c.frameIndex++

	c.logger.Debug("ctm: frame decoded", "frame_index", c.frameIndex, "time", c.lastFrameTime)

	return nil
}

func (c *Context) mesh() pipeline.Mesh {
	return pipeline.Mesh{
		VertexCount:   c.vertexCount,
		TriangleCount: c.triangleCount,
		Indices:       c.indices,
		Vertices:      c.vertices,
		Normals:       c.normals,
		HasNormals:    c.hasNormals,
		UVMaps:        c.uvViews(),
		AttribMaps:    c.attribViews(),
		Precision: pipeline.Precision{
			Vertex: c.vertexPrecision,
			Normal: c.normalPrecision,
			UV:     c.uvPrecisions(),
			Attrib: c.attribPrecisions(),
		},
	}
}

func (c *Context) meshcheckView() meshcheck.Mesh {
	return meshcheck.Mesh{
		VertexCount:   c.vertexCount,
		TriangleCount: c.triangleCount,
		Indices:       c.indices,
		Vertices:      c.vertices,
		Normals:       c.normals,
		UVMaps:        c.uvViews(),
		AttribMaps:    c.attribViews(),
	}
}
