// Package sdfx implements the provider interface on top of the
// github.com/deadsy/sdfx CAD library: solids are modeled as signed
// distance fields and tessellated into slicer meshes with marching
// cubes. Useful for feeding procedurally modeled parts into the slicer
// without a host scene.
package sdfx

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/chunkslicer/pkg/geom"
	"github.com/chazu/chunkslicer/pkg/mesh"
	"github.com/chazu/chunkslicer/pkg/provider"
)

// Compile-time interface check.
var _ provider.Provider = (*SolidProvider)(nil)

// defaultMeshCells controls marching cubes tessellation resolution.
const defaultMeshCells = 120

// vertexMergeTol merges the duplicated vertices of the marching cubes
// triangle soup back into shared ones, restoring connectivity.
const vertexMergeTol = 1e-6

// SolidProvider adapts an sdf.SDF3 solid to the provider interface.
type SolidProvider struct {
	solid sdf.SDF3
	cells int
}

// FromSDF3 wraps an arbitrary SDF solid. cells <= 0 selects the default
// tessellation resolution.
func FromSDF3(s sdf.SDF3, cells int) *SolidProvider {
	if cells <= 0 {
		cells = defaultMeshCells
	}
	return &SolidProvider{solid: s, cells: cells}
}

// NewBox returns a provider for an axis-aligned box with its minimum
// corner at the origin.
func NewBox(x, y, z float64) (*SolidProvider, error) {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx: box: %w", err)
	}
	m := sdf.Translate3d(v3.Vec{X: x / 2, Y: y / 2, Z: z / 2})
	return FromSDF3(sdf.Transform3D(s, m), 0), nil
}

// NewCylinder returns a provider for a Z-axis cylinder centered at the
// origin.
func NewCylinder(height, radius float64) (*SolidProvider, error) {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx: cylinder: %w", err)
	}
	return FromSDF3(s, 0), nil
}

// Union combines this solid with another.
func (p *SolidProvider) Union(o *SolidProvider) *SolidProvider {
	return FromSDF3(sdf.Union3D(p.solid, o.solid), p.cells)
}

// Difference subtracts another solid from this one.
func (p *SolidProvider) Difference(o *SolidProvider) *SolidProvider {
	return FromSDF3(sdf.Difference3D(p.solid, o.solid), p.cells)
}

// Translate moves the solid by (x, y, z).
func (p *SolidProvider) Translate(x, y, z float64) *SolidProvider {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return FromSDF3(sdf.Transform3D(p.solid, m), p.cells)
}

// SourceMesh tessellates the solid with marching cubes and rebuilds the
// triangle soup into a connected indexed mesh.
func (p *SolidProvider) SourceMesh() (*mesh.Mesh, error) {
	renderer := render.NewMarchingCubesUniform(p.cells)
	triangles := render.ToTriangles(p.solid, renderer)
	if len(triangles) == 0 {
		return nil, fmt.Errorf("sdfx: tessellation produced no triangles")
	}

	tris := make([][3]geom.Vec3, len(triangles))
	for i, tri := range triangles {
		for j := 0; j < 3; j++ {
			tris[i][j] = geom.Vec3{X: tri[j].X, Y: tri[j].Y, Z: tri[j].Z}
		}
	}
	return mesh.FromTriangles(tris, vertexMergeTol), nil
}
