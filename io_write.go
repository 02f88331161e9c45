package ctm

import (
	"fmt"
	"io"
	"os"

	"github.com/openctm/ctm/errs"
	"github.com/openctm/ctm/internal/ctmheader"
	"github.com/openctm/ctm/internal/meshcheck"
	"github.com/openctm/ctm/internal/pipeline"
	"github.com/openctm/ctm/internal/stream"
)

// SaveFile creates (or truncates) path and writes the container to it, per
// spec.md §4.G save_file. c owns the resulting *os.File and closes it in
// Close/Free.
func (c *Context) SaveFile(path string) error {
	if c == nil {
		return errs.ErrInvalidContext
	}

	f, err := os.Create(path)
	if err != nil {
		return c.fail(fmt.Errorf("%w: %w", errs.ErrFile, err))
	}

	if err := c.SaveWriter(f); err != nil {
		_ = f.Close()
		return err
	}
	c.ownedFile = f

	return nil
}

// SaveWriter runs the mesh integrity check, writes the header and frame
// 0's payload to w, and advances to MESH_DONE(1). Export only; valid only
// while FRESH.
func (c *Context) SaveWriter(w io.Writer) error {
	if c == nil {
		return errs.ErrInvalidContext
	}
	if c.mode != ModeExport {
		return c.fail(fmt.Errorf("%w: save is export-mode only", errs.ErrInvalidOperation))
	}
	if c.stage != stageFresh {
		return c.fail(fmt.Errorf("%w: save is only valid while FRESH", errs.ErrInvalidOperation))
	}

	if err := meshcheck.Check(c.meshcheckView()); err != nil {
		return c.fail(err)
	}

	sw := stream.NewWriter(w)

	h := ctmheader.Header{
		Version:       ctmheader.Version,
		Method:        c.method,
		VertexCount:   uint32(c.vertexCount),
		TriangleCount: uint32(c.triangleCount),
		FrameCount:    uint32(c.frameCount),
		Comment:       c.comment,
		UVMaps:        c.uvMapInfos(),
		AttribMaps:    c.attribMapInfos(),
	}
	if c.hasNormals {
		h.Flags |= ctmheader.FlagHasNormals
	}

	if err := ctmheader.Write(sw, h); err != nil {
		sw.Close()
		return c.fail(err)
	}

	c.pipe = pipeline.New(c.method, c.codec, c.level)
	if err := c.pipe.EncodeMesh(sw, c.mesh()); err != nil {
		sw.Close()
		return c.fail(err)
	}

	c.swrite = sw
	c.stage = stageMeshDone
	c.frameIndex = 1
	c.lastFrameTime = 0

	c.logger.Debug("ctm: mesh encoded", "method", c.method, "vertex_count", c.vertexCount, "triangle_count", c.triangleCount)

	return nil
}

// WriteNextFrame writes one additional animation frame at time t, which
// must be strictly greater than the previous frame's time. Export only;
// requires MESH_DONE(k) with k < N; state is unchanged on failure.
func (c *Context) WriteNextFrame(t float64) error {
	if c == nil {
		return errs.ErrInvalidContext
	}
	if c.mode != ModeExport {
		return c.fail(fmt.Errorf("%w: write_next_frame is export-mode only", errs.ErrInvalidOperation))
	}
	if c.stage != stageMeshDone {
		return c.fail(fmt.Errorf("%w: write_next_frame requires a prior save", errs.ErrInvalidOperation))
	}
	if c.frameIndex >= c.frameCount {
		return c.fail(fmt.Errorf("%w: no more frames (at %d of %d)", errs.ErrInvalidOperation, c.frameIndex, c.frameCount))
	}
	if t <= c.lastFrameTime {
		return c.fail(fmt.Errorf("%w: frame time %v must be > previous frame time %v", errs.ErrInvalidArgument, t, c.lastFrameTime))
	}

	if err := c.swrite.Float32(float32(t)); err != nil {
		return c.fail(err)
	}
	if err := c.pipe.EncodeFrame(c.swrite, c.mesh()); err != nil {
		return c.fail(err)
	}

	c.lastFrameTime = t
	c.frameIndex++

	c.logger.Debug("ctm: frame encoded", "frame_index", c.frameIndex, "time", t)

	return nil
}

func (c *Context) uvMapInfos() []ctmheader.MapInfo {
	infos := make([]ctmheader.MapInfo, len(c.uvMaps))
	for i, m := range c.uvMaps {
		infos[i] = ctmheader.MapInfo{Name: m.name, FileName: m.fileName}
	}

	return infos
}

func (c *Context) attribMapInfos() []ctmheader.MapInfo {
	infos := make([]ctmheader.MapInfo, len(c.attribMaps))
	for i, m := range c.attribMaps {
		infos[i] = ctmheader.MapInfo{Name: m.name}
	}

	return infos
}
