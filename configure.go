package ctm

import (
	"fmt"

	"github.com/openctm/ctm/errs"
	"github.com/openctm/ctm/internal/ctmheader"
)

// configurable reports whether c currently accepts configure_* calls:
// export mode, FRESH stage only, per spec.md §4.G.
func (c *Context) configurable() error {
	if c.mode != ModeExport || c.stage != stageFresh {
		return fmt.Errorf("%w: configuration is only valid in export mode while FRESH", errs.ErrInvalidOperation)
	}

	return nil
}

// SetVertexCount sets the mesh's vertex count (V > 0 is enforced at
// save/read_mesh time by internal/meshcheck, not here).
func (c *Context) SetVertexCount(v int) error {
	if err := c.configurable(); err != nil {
		return c.fail(err)
	}
	c.vertexCount = v

	return nil
}

// SetTriangleCount sets the mesh's triangle count.
func (c *Context) SetTriangleCount(t int) error {
	if err := c.configurable(); err != nil {
		return c.fail(err)
	}
	c.triangleCount = t

	return nil
}

// SetHasNormals toggles whether a NORM block is written/expected.
func (c *Context) SetHasNormals(has bool) error {
	if err := c.configurable(); err != nil {
		return c.fail(err)
	}
	c.hasNormals = has

	return nil
}

// SetFrameCount sets the total animation frame count N >= 1.
func (c *Context) SetFrameCount(n int) error {
	if err := c.configurable(); err != nil {
		return c.fail(err)
	}
	if n < 1 {
		return c.fail(fmt.Errorf("%w: frame count must be >= 1", errs.ErrInvalidArgument))
	}
	c.frameCount = n

	return nil
}

// SetFileComment sets the optional UTF-8 file comment.
func (c *Context) SetFileComment(comment string) error {
	if err := c.configurable(); err != nil {
		return c.fail(err)
	}
	c.comment = comment

	return nil
}

// CompressionMethod, mirroring the on-disk method FourCC tags.
type CompressionMethod string

const (
	MethodRAW CompressionMethod = ctmheader.MethodRAW
	MethodMG1 CompressionMethod = ctmheader.MethodMG1
	MethodMG2 CompressionMethod = ctmheader.MethodMG2
)

// SetCompressionMethod selects the RAW/MG1/MG2 encoding profile.
func (c *Context) SetCompressionMethod(method CompressionMethod) error {
	if err := c.configurable(); err != nil {
		return c.fail(err)
	}
	switch method {
	case MethodRAW, MethodMG1, MethodMG2:
		c.method = string(method)
	default:
		return c.fail(fmt.Errorf("%w: unknown compression method %q", errs.ErrInvalidArgument, method))
	}

	return nil
}

// SetCompressionLevel sets the packed-coder backend compression level
// (0-9, fastest to smallest).
func (c *Context) SetCompressionLevel(level int) error {
	if err := c.configurable(); err != nil {
		return c.fail(err)
	}
	if level < 0 || level > 9 {
		return c.fail(fmt.Errorf("%w: compression level must be 0-9, got %d", errs.ErrInvalidArgument, level))
	}
	c.level = level

	return nil
}

// SetVertexPrecision sets p_v, the MG2 vertex grid quantization step.
func (c *Context) SetVertexPrecision(p float64) error {
	if err := c.configurable(); err != nil {
		return c.fail(err)
	}
	if p <= 0 {
		return c.fail(fmt.Errorf("%w: precision must be > 0", errs.ErrInvalidArgument))
	}
	c.vertexPrecision = p

	return nil
}

// SetNormalPrecision sets p_n, the MG2 normal spherical-coordinate
// quantization step.
func (c *Context) SetNormalPrecision(p float64) error {
	if err := c.configurable(); err != nil {
		return c.fail(err)
	}
	if p <= 0 {
		return c.fail(fmt.Errorf("%w: precision must be > 0", errs.ErrInvalidArgument))
	}
	c.normalPrecision = p

	return nil
}

// AddUVMap appends a new UV map with the given name, optional reference
// file name, and quantization precision (defaultUVPrecision if p <= 0),
// returning its 1-based ordinal.
func (c *Context) AddUVMap(name, fileName string, p float64) (int, error) {
	if err := c.configurable(); err != nil {
		return 0, c.fail(err)
	}
	if p <= 0 {
		p = defaultUVPrecision
	}
	c.uvMaps = append(c.uvMaps, mapBinding{name: name, fileName: fileName, precision: p})

	return len(c.uvMaps), nil
}

// AddAttribMap appends a new attribute map with the given name and
// quantization precision (defaultAttribPrecision if p <= 0), returning
// its 1-based ordinal.
func (c *Context) AddAttribMap(name string, p float64) (int, error) {
	if err := c.configurable(); err != nil {
		return 0, c.fail(err)
	}
	if p <= 0 {
		p = defaultAttribPrecision
	}
	c.attribMaps = append(c.attribMaps, mapBinding{name: name, precision: p})

	return len(c.attribMaps), nil
}

// SetUVMapPrecision overrides the ordinal'th (1-based) UV map's
// quantization precision.
func (c *Context) SetUVMapPrecision(ordinal int, p float64) error {
	if err := c.configurable(); err != nil {
		return c.fail(err)
	}
	if ordinal < 1 || ordinal > len(c.uvMaps) {
		return c.fail(fmt.Errorf("%w: uv map ordinal %d out of range", errs.ErrInvalidArgument, ordinal))
	}
	if p <= 0 {
		return c.fail(fmt.Errorf("%w: precision must be > 0", errs.ErrInvalidArgument))
	}
	c.uvMaps[ordinal-1].precision = p

	return nil
}

// SetAttribMapPrecision overrides the ordinal'th (1-based) attribute
// map's quantization precision.
func (c *Context) SetAttribMapPrecision(ordinal int, p float64) error {
	if err := c.configurable(); err != nil {
		return c.fail(err)
	}
	if ordinal < 1 || ordinal > len(c.attribMaps) {
		return c.fail(fmt.Errorf("%w: attribute map ordinal %d out of range", errs.ErrInvalidArgument, ordinal))
	}
	if p <= 0 {
		return c.fail(fmt.Errorf("%w: precision must be > 0", errs.ErrInvalidArgument))
	}
	c.attribMaps[ordinal-1].precision = p

	return nil
}
