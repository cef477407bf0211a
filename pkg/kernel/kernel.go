// Package kernel defines the abstract geometric primitive interface.
// Implementations (clip, manifold) perform the actual plane cuts and
// solid/box intersections behind this interface, so the grid, extraction
// and cleanup logic above it never depends on a particular geometry
// backend.
package kernel

import (
	"github.com/chazu/chunkslicer/pkg/geom"
	"github.com/chazu/chunkslicer/pkg/mesh"
)

// Kernel is the geometric primitive consumed by the slicer. Both
// operations are deterministic functions of their inputs and must never
// mutate the input mesh.
type Kernel interface {
	// Cut slices surface geometry along an axis-aligned plane without
	// capping the cut. Faces crossing the plane are split, and the two
	// sides of the plane share no vertices afterward, so connected-
	// component analysis separates them.
	Cut(m *mesh.Mesh, p geom.Plane) (*mesh.Mesh, error)

	// Intersect returns the solid intersection of a closed mesh with an
	// axis-aligned box, with cut openings capped so the result is again
	// closed. It returns nil when the intersection is empty.
	Intersect(m *mesh.Mesh, box geom.BoundingBox) (*mesh.Mesh, error)
}
