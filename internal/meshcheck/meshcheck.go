// Package meshcheck implements the mesh integrity checks the container
// runs before writing and after reading: index range and value finiteness
// (spec.md §3 Invariants, §4.G save/read_mesh).
package meshcheck

import (
	"fmt"
	"math"

	"github.com/openctm/ctm/errs"
	"github.com/openctm/ctm/internal/typedarray"
)

// Mesh is the minimal read-only view meshcheck needs of a bound context: a
// vertex count, and views over indices/vertices/normals/UV maps/attribute
// maps.
type Mesh struct {
	VertexCount   int
	TriangleCount int
	Indices       typedarray.View
	Vertices      typedarray.View
	Normals       typedarray.View // Absent if no normals
	UVMaps        []typedarray.View
	AttribMaps    []typedarray.View
}

// Check validates m against spec.md §3's invariants, returning
// errs.ErrInvalidMesh wrapped with a description of the first violation
// found.
func Check(m Mesh) error {
	if m.VertexCount <= 0 {
		return fmt.Errorf("%w: vertex count must be > 0", errs.ErrInvalidMesh)
	}
	if m.TriangleCount <= 0 {
		return fmt.Errorf("%w: triangle count must be > 0", errs.ErrInvalidMesh)
	}

	for i := 0; i < m.TriangleCount; i++ {
		a, b, c := m.Indices.Tri(i)
		for _, idx := range [3]int64{a, b, c} {
			if idx < 0 || idx >= int64(m.VertexCount) {
				return fmt.Errorf("%w: triangle %d references out-of-range index %d (vertex count %d)",
					errs.ErrInvalidMesh, i, idx, m.VertexCount)
			}
		}
	}

	if err := checkFinite(m.Vertices, m.VertexCount, "vertex"); err != nil {
		return err
	}
	if m.Normals.IsBound() {
		if err := checkFinite(m.Normals, m.VertexCount, "normal"); err != nil {
			return err
		}
	}
	for i, uv := range m.UVMaps {
		if err := checkFinite(uv, m.VertexCount, fmt.Sprintf("uv map %d", i+1)); err != nil {
			return err
		}
	}
	for i, am := range m.AttribMaps {
		if err := checkFinite(am, m.VertexCount, fmt.Sprintf("attrib map %d", i+1)); err != nil {
			return err
		}
	}

	return nil
}

func checkFinite(v typedarray.View, count int, label string) error {
	if !v.IsBound() {
		return nil
	}

	for i := 0; i < count; i++ {
		for c := 0; c < v.Components(); c++ {
			f := v.GetFloat(i, c)
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return fmt.Errorf("%w: %s element %d component %d is not finite", errs.ErrInvalidMesh, label, i, c)
			}
		}
	}

	return nil
}
