package ctm

import (
	"fmt"

	"github.com/openctm/ctm/errs"
	"github.com/openctm/ctm/internal/typedarray"
)

// Target names the array a BindArray call binds. Indices/Vertices/Normals
// are fixed ordinals; UV and attribute maps are open-ended, so their
// Targets are computed from a private base plus a 1-based ordinal,
// mirroring the reference implementation's C enum layout
// (CTM_UV_MAP_1, CTM_ATTRIB_MAP_1, ... laid out at fixed offsets).
type Target int

const (
	TargetIndices Target = iota
	TargetVertices
	TargetNormals

	targetUVBase     Target = 1 << 8
	targetAttribBase Target = 1 << 16
)

// TargetUVMap returns the Target for the ordinal'th (1-based) UV map.
func TargetUVMap(ordinal int) Target { return targetUVBase + Target(ordinal) }

// TargetAttribMap returns the Target for the ordinal'th (1-based)
// attribute map.
func TargetAttribMap(ordinal int) Target { return targetAttribBase + Target(ordinal) }

// uvOrdinal reports whether t names a UV map and, if so, its ordinal.
func (t Target) uvOrdinal() (int, bool) {
	if t < targetUVBase || t >= targetAttribBase {
		return 0, false
	}

	return int(t - targetUVBase), true
}

// attribOrdinal reports whether t names an attribute map and, if so, its
// ordinal.
func (t Target) attribOrdinal() (int, bool) {
	if t < targetAttribBase {
		return 0, false
	}

	return int(t - targetAttribBase), true
}

// BindArray binds base (a buffer the caller continues to own) as target's
// typed-array view, per spec.md §4.G bind_array. Valid at any time except
// TargetIndices, which is only bindable while FRESH or HEADER_DONE (stage
// <= stageHeaderDone). components must be 3 for indices/vertices/normals,
// 2 for a UV map, 1..4 for an attribute map; a mismatch or an unknown
// ordinal returns errs.ErrInvalidArgument.
func (c *Context) BindArray(target Target, base []byte, components int, kind typedarray.Kind, stride int) error {
	if c == nil {
		return errs.ErrInvalidContext
	}

	view := typedarray.Bind(base, components, kind, stride)

	switch target {
	case TargetIndices:
		if c.stage > stageHeaderDone {
			return c.fail(fmt.Errorf("%w: indices may only be bound while FRESH or HEADER_DONE", errs.ErrInvalidOperation))
		}
		if components != 3 {
			return c.fail(fmt.Errorf("%w: indices require 3 components, got %d", errs.ErrInvalidArgument, components))
		}
		c.indices = view
		return nil

	case TargetVertices:
		if components != 3 {
			return c.fail(fmt.Errorf("%w: vertices require 3 components, got %d", errs.ErrInvalidArgument, components))
		}
		c.vertices = view
		return nil

	case TargetNormals:
		if components != 3 {
			return c.fail(fmt.Errorf("%w: normals require 3 components, got %d", errs.ErrInvalidArgument, components))
		}
		c.normals = view
		return nil
	}

	if ord, ok := target.uvOrdinal(); ok {
		if components != 2 {
			return c.fail(fmt.Errorf("%w: uv maps require 2 components, got %d", errs.ErrInvalidArgument, components))
		}
		if ord < 1 || ord > len(c.uvMaps) {
			return c.fail(fmt.Errorf("%w: uv map ordinal %d out of range", errs.ErrInvalidArgument, ord))
		}
		c.uvMaps[ord-1].view = view
		return nil
	}

	if ord, ok := target.attribOrdinal(); ok {
		if components < 1 || components > 4 {
			return c.fail(fmt.Errorf("%w: attribute maps require 1-4 components, got %d", errs.ErrInvalidArgument, components))
		}
		if ord < 1 || ord > len(c.attribMaps) {
			return c.fail(fmt.Errorf("%w: attribute map ordinal %d out of range", errs.ErrInvalidArgument, ord))
		}
		c.attribMaps[ord-1].view = view
		return nil
	}

	return c.fail(fmt.Errorf("%w: unknown bind target %d", errs.ErrInvalidArgument, target))
}
