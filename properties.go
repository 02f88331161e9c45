package ctm

import (
	"fmt"

	"github.com/openctm/ctm/errs"
)

// Property is the closed enum of queryable context properties, mirroring
// spec.md §6's get_boolean/integer/float/string(h, prop).
type Property int

const (
	PropVertexCount Property = iota
	PropTriangleCount
	PropUVMapCount
	PropAttribMapCount
	PropHasNormals
	PropCompressionMethod
	PropCompressionLevel
	PropFrameCount
	PropFrameIndex
	PropVertexPrecision
	PropNormalPrecision
	PropFileComment
	PropFrameTime
)

// MapProperty is the closed enum of per-map properties queried via
// GetUVMapString/Float and GetAttribMapString/Float.
type MapProperty int

const (
	PropMapName MapProperty = iota
	PropMapFileName // UV maps only
	PropMapPrecision
)

// GetInteger returns prop's value as an integer, or errs.ErrInvalidArgument
// if prop has no integer representation.
func (c *Context) GetInteger(prop Property) (int, error) {
	if c == nil {
		return 0, errs.ErrInvalidContext
	}

	switch prop {
	case PropVertexCount:
		return c.vertexCount, nil
	case PropTriangleCount:
		return c.triangleCount, nil
	case PropUVMapCount:
		return len(c.uvMaps), nil
	case PropAttribMapCount:
		return len(c.attribMaps), nil
	case PropCompressionLevel:
		return c.level, nil
	case PropFrameCount:
		return c.frameCount, nil
	case PropFrameIndex:
		return c.currentFrameIndex(), nil
	default:
		return 0, c.fail(fmt.Errorf("%w: property %d has no integer value", errs.ErrInvalidArgument, prop))
	}
}

// currentFrameIndex maps the internal stage to spec.md §3's external
// current-frame-index bucket: -1 closed, 0 header-only, 1..N processed.
func (c *Context) currentFrameIndex() int {
	switch c.stage {
	case stageClosed:
		return -1
	case stageFresh, stageHeaderDone:
		return 0
	default:
		return c.frameIndex
	}
}

// GetFloat returns prop's value as a float64, or errs.ErrInvalidArgument
// if prop has no float representation.
func (c *Context) GetFloat(prop Property) (float64, error) {
	if c == nil {
		return 0, errs.ErrInvalidContext
	}

	switch prop {
	case PropVertexPrecision:
		return c.vertexPrecision, nil
	case PropNormalPrecision:
		return c.normalPrecision, nil
	case PropFrameTime:
		return c.lastFrameTime, nil
	default:
		return 0, c.fail(fmt.Errorf("%w: property %d has no float value", errs.ErrInvalidArgument, prop))
	}
}

// GetBoolean returns prop's value as a bool, or errs.ErrInvalidArgument if
// prop has no boolean representation.
func (c *Context) GetBoolean(prop Property) (bool, error) {
	if c == nil {
		return false, errs.ErrInvalidContext
	}

	switch prop {
	case PropHasNormals:
		return c.hasNormals, nil
	default:
		return false, c.fail(fmt.Errorf("%w: property %d has no boolean value", errs.ErrInvalidArgument, prop))
	}
}

// GetString returns prop's value as a string, or errs.ErrInvalidArgument
// if prop has no string representation.
func (c *Context) GetString(prop Property) (string, error) {
	if c == nil {
		return "", errs.ErrInvalidContext
	}

	switch prop {
	case PropCompressionMethod:
		return c.method, nil
	case PropFileComment:
		return c.comment, nil
	default:
		return "", c.fail(fmt.Errorf("%w: property %d has no string value", errs.ErrInvalidArgument, prop))
	}
}

// FindUVMapByName returns the 1-based ordinal of the named UV map, or
// (0, false) if none matches.
func (c *Context) FindUVMapByName(name string) (int, bool) {
	for i, m := range c.uvMaps {
		if m.name == name {
			return i + 1, true
		}
	}

	return 0, false
}

// FindAttribMapByName returns the 1-based ordinal of the named attribute
// map, or (0, false) if none matches.
func (c *Context) FindAttribMapByName(name string) (int, bool) {
	for i, m := range c.attribMaps {
		if m.name == name {
			return i + 1, true
		}
	}

	return 0, false
}

// GetUVMapString returns a string property of the ordinal'th (1-based) UV
// map.
func (c *Context) GetUVMapString(ordinal int, prop MapProperty) (string, error) {
	m, err := c.uvMapAt(ordinal)
	if err != nil {
		return "", err
	}

	switch prop {
	case PropMapName:
		return m.name, nil
	case PropMapFileName:
		return m.fileName, nil
	default:
		return "", c.fail(fmt.Errorf("%w: uv map property %d has no string value", errs.ErrInvalidArgument, prop))
	}
}

// GetUVMapFloat returns a float property of the ordinal'th (1-based) UV
// map.
func (c *Context) GetUVMapFloat(ordinal int, prop MapProperty) (float64, error) {
	m, err := c.uvMapAt(ordinal)
	if err != nil {
		return 0, err
	}

	if prop != PropMapPrecision {
		return 0, c.fail(fmt.Errorf("%w: uv map property %d has no float value", errs.ErrInvalidArgument, prop))
	}

	return m.precision, nil
}

// GetAttribMapString returns a string property of the ordinal'th
// (1-based) attribute map.
func (c *Context) GetAttribMapString(ordinal int, prop MapProperty) (string, error) {
	m, err := c.attribMapAt(ordinal)
	if err != nil {
		return "", err
	}

	if prop != PropMapName {
		return "", c.fail(fmt.Errorf("%w: attribute map property %d has no string value", errs.ErrInvalidArgument, prop))
	}

	return m.name, nil
}

// GetAttribMapFloat returns a float property of the ordinal'th (1-based)
// attribute map.
func (c *Context) GetAttribMapFloat(ordinal int, prop MapProperty) (float64, error) {
	m, err := c.attribMapAt(ordinal)
	if err != nil {
		return 0, err
	}

	if prop != PropMapPrecision {
		return 0, c.fail(fmt.Errorf("%w: attribute map property %d has no float value", errs.ErrInvalidArgument, prop))
	}

	return m.precision, nil
}

func (c *Context) uvMapAt(ordinal int) (mapBinding, error) {
	if ordinal < 1 || ordinal > len(c.uvMaps) {
		return mapBinding{}, c.fail(fmt.Errorf("%w: uv map ordinal %d out of range", errs.ErrInvalidArgument, ordinal))
	}

	return c.uvMaps[ordinal-1], nil
}

func (c *Context) attribMapAt(ordinal int) (mapBinding, error) {
	if ordinal < 1 || ordinal > len(c.attribMaps) {
		return mapBinding{}, c.fail(fmt.Errorf("%w: attribute map ordinal %d out of range", errs.ErrInvalidArgument, ordinal))
	}

	return c.attribMaps[ordinal-1], nil
}
