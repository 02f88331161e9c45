// Package normalcodec implements the MG2 normal encoding: a per-vertex
// smooth orthonormal basis recovered identically from topology on both
// encode and decode, and the spherical (magnitude, theta, phi) coordinates
// of a normal relative to that basis (spec.md §4.F Normal encoding).
package normalcodec

import (
	"math"

	"github.com/openctm/ctm/internal/grid"
)

// Basis is the orthonormal frame a vertex's normal is expressed against: Z
// is the smoothed normal estimate, X and Y span its tangent plane.
type Basis struct {
	X, Y, Z grid.Vec3
}

func sub(a, b grid.Vec3) grid.Vec3 { return grid.Vec3{X: a.X - b.X, Y: a.Y - b.Y, Z: a.Z - b.Z} }
func cross(a, b grid.Vec3) grid.Vec3 {
	return grid.Vec3{X: a.Y*b.Z - a.Z*b.Y, Y: a.Z*b.X - a.X*b.Z, Z: a.X*b.Y - a.Y*b.X}
}
func dot(a, b grid.Vec3) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }
func length(a grid.Vec3) float64 { return math.Sqrt(dot(a, a)) }
func normalize(a grid.Vec3) grid.Vec3 {
	l := length(a)
	if l == 0 {
		return grid.Vec3{X: 0, Y: 0, Z: 1}
	}

	return grid.Vec3{X: a.X / l, Y: a.Y / l, Z: a.Z / l}
}

// SmoothBases computes one Basis per vertex (positions and tris use the
// same, already-permuted, indexing) from the area-weighted average of its
// adjacent triangles' face normals. Because this only depends on the
// (deterministic) permuted positions and index buffer, an independent
// decoder recomputes byte-identical bases without the original normals.
func SmoothBases(positions []grid.Vec3, tris []grid.Triangle) []Basis {
	accum := make([]grid.Vec3, len(positions))

	for _, t := range tris {
		a, b, c := positions[t.A], positions[t.B], positions[t.C]
		// Cross product magnitude is twice the triangle's area, so summing
		// it directly area-weights the average without a sqrt per triangle.
		faceNormal := cross(sub(b, a), sub(c, a))

		accum[t.A] = add(accum[t.A], faceNormal)
		accum[t.B] = add(accum[t.B], faceNormal)
		accum[t.C] = add(accum[t.C], faceNormal)
	}

	bases := make([]Basis, len(positions))
	for i, z := range accum {
		bases[i] = frameFrom(normalize(z))
	}

	return bases
}

func add(a, b grid.Vec3) grid.Vec3 { return grid.Vec3{X: a.X + b.X, Y: a.Y + b.Y, Z: a.Z + b.Z} }

// frameFrom builds a deterministic orthonormal basis with z as its Z axis.
// The tangent vector choice (a fixed helper axis, swapped when z is nearly
// parallel to it) must be identical between encode and decode, which it is
// since both call this same function.
func frameFrom(z grid.Vec3) Basis {
	helper := grid.Vec3{X: 0, Y: 1, Z: 0}
	if math.Abs(z.Y) > 0.999 {
		helper = grid.Vec3{X: 1, Y: 0, Z: 0}
	}

	x := normalize(cross(helper, z))
	y := cross(z, x)

	return Basis{X: x, Y: y, Z: z}
}

// ToSpherical expresses n in basis-relative (magnitude, theta, phi): theta
// is the polar angle from basis.Z in [0, pi], phi is the azimuth in
// basis's tangent plane in (-pi, pi].
func ToSpherical(basis Basis, n grid.Vec3) (magnitude, theta, phi float64) {
	nz := dot(n, basis.Z)
	nx := dot(n, basis.X)
	ny := dot(n, basis.Y)

	magnitude = math.Sqrt(nx*nx + ny*ny + nz*nz)
	if magnitude == 0 {
		return 0, 0, 0
	}

	theta = math.Acos(clamp(nz/magnitude, -1, 1))
	phi = math.Atan2(ny, nx)

	return magnitude, theta, phi
}

// FromSpherical reconstructs a normal from basis-relative spherical
// coordinates, inverting ToSpherical exactly.
func FromSpherical(basis Basis, magnitude, theta, phi float64) grid.Vec3 {
	nz := magnitude * math.Cos(theta)
	r := magnitude * math.Sin(theta)
	nx := r * math.Cos(phi)
	ny := r * math.Sin(phi)

	return grid.Vec3{
		X: nx*basis.X.X + ny*basis.Y.X + nz*basis.Z.X,
		Y: nx*basis.X.Y + ny*basis.Y.Y + nz*basis.Z.Y,
		Z: nx*basis.X.Z + ny*basis.Y.Z + nz*basis.Z.Z,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}
