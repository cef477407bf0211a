// Package mesh defines the polygon mesh used throughout the slicing
// pipeline: a vertex pool plus faces given as ordered vertex-index loops.
// Connectivity is implicit in shared vertex indices, so two faces touch
// exactly when they reference a common vertex.
package mesh

import (
	"fmt"
	"math"

	"github.com/chazu/chunkslicer/pkg/geom"
)

// Mesh is an indexed polygon mesh. Faces wind counter-clockwise when
// viewed from outside the solid.
type Mesh struct {
	Vertices []geom.Vec3
	Faces    [][]int
}

// New returns an empty mesh.
func New() *Mesh {
	return &Mesh{}
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// FaceCount returns the number of faces.
func (m *Mesh) FaceCount() int {
	return len(m.Faces)
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Clone returns a deep copy sharing no storage with m.
func (m *Mesh) Clone() *Mesh {
	c := &Mesh{
		Vertices: make([]geom.Vec3, len(m.Vertices)),
		Faces:    make([][]int, len(m.Faces)),
	}
	copy(c.Vertices, m.Vertices)
	for i, f := range m.Faces {
		c.Faces[i] = make([]int, len(f))
		copy(c.Faces[i], f)
	}
	return c
}

// Validate checks that every face is a loop of at least three valid
// vertex indices.
func (m *Mesh) Validate() error {
	for i, f := range m.Faces {
		if len(f) < 3 {
			return fmt.Errorf("mesh: face %d has %d vertices, need at least 3", i, len(f))
		}
		for _, vi := range f {
			if vi < 0 || vi >= len(m.Vertices) {
				return fmt.Errorf("mesh: face %d references vertex %d, have %d vertices", i, vi, len(m.Vertices))
			}
		}
	}
	return nil
}

// Bounds returns the axis-aligned bounding box of all vertices.
// ok is false for an empty mesh.
func (m *Mesh) Bounds() (bb geom.BoundingBox, ok bool) {
	if m.IsEmpty() {
		return geom.BoundingBox{}, false
	}
	bb = geom.NewBoundingBox()
	for _, v := range m.Vertices {
		bb.Extend(v)
	}
	return bb, true
}

// Centroid returns the mean of all vertex positions.
func (m *Mesh) Centroid() geom.Vec3 {
	if m.IsEmpty() {
		return geom.Vec3{}
	}
	var sum geom.Vec3
	for _, v := range m.Vertices {
		sum = sum.Add(v)
	}
	return sum.Scale(1.0 / float64(len(m.Vertices)))
}

// Translate moves every vertex by d.
func (m *Mesh) Translate(d geom.Vec3) {
	for i := range m.Vertices {
		m.Vertices[i] = m.Vertices[i].Add(d)
	}
}

// edgeKey identifies an undirected edge by its sorted endpoint indices.
type edgeKey struct {
	a, b int
}

func makeEdgeKey(a, b int) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// edgeFaceCounts returns, for every edge, the number of faces sharing it.
func (m *Mesh) edgeFaceCounts() map[edgeKey]int {
	counts := make(map[edgeKey]int)
	for _, f := range m.Faces {
		n := len(f)
		for i := 0; i < n; i++ {
			counts[makeEdgeKey(f[i], f[(i+1)%n])]++
		}
	}
	return counts
}

// ManifoldReport summarizes the edge topology of a mesh.
type ManifoldReport struct {
	BoundaryEdges    int // edges bordered by fewer than two faces
	NonManifoldEdges int // edges bordered by more than two faces
}

// OK reports whether every edge borders exactly two faces.
func (r ManifoldReport) OK() bool {
	return r.BoundaryEdges == 0 && r.NonManifoldEdges == 0
}

// ManifoldScan counts boundary and over-shared edges. A closed, watertight
// surface has every edge shared by exactly two faces.
func (m *Mesh) ManifoldScan() ManifoldReport {
	var rep ManifoldReport
	for _, n := range m.edgeFaceCounts() {
		switch {
		case n < 2:
			rep.BoundaryEdges++
		case n > 2:
			rep.NonManifoldEdges++
		}
	}
	return rep
}

// Weld merges vertices closer than dist and drops faces that degenerate
// below three distinct vertices. Merging is done on a quantized spatial
// grid, so two vertices within dist of each other but in neighboring
// grid cells may survive; that matches the tolerance semantics of a
// doubles-removal pass rather than exact clustering.
func (m *Mesh) Weld(dist float64) {
	if m.IsEmpty() {
		return
	}
	cell := dist
	if cell <= 0 {
		cell = 1e-12
	}
	type key [3]int64
	quant := func(v geom.Vec3) key {
		return key{
			int64(math.Round(v.X / cell)),
			int64(math.Round(v.Y / cell)),
			int64(math.Round(v.Z / cell)),
		}
	}

	remap := make([]int, len(m.Vertices))
	index := make(map[key]int)
	var verts []geom.Vec3
	for i, v := range m.Vertices {
		k := quant(v)
		if j, ok := index[k]; ok {
			remap[i] = j
			continue
		}
		index[k] = len(verts)
		remap[i] = len(verts)
		verts = append(verts, v)
	}

	var faces [][]int
	for _, f := range m.Faces {
		nf := make([]int, 0, len(f))
		for _, vi := range f {
			ni := remap[vi]
			if len(nf) > 0 && nf[len(nf)-1] == ni {
				continue
			}
			nf = append(nf, ni)
		}
		if len(nf) > 1 && nf[0] == nf[len(nf)-1] {
			nf = nf[:len(nf)-1]
		}
		if len(nf) >= 3 {
			faces = append(faces, nf)
		}
	}

	m.Vertices = verts
	m.Faces = faces
	m.dropUnreferenced()
}

// dropUnreferenced removes vertices not used by any face and remaps
// face indices accordingly.
func (m *Mesh) dropUnreferenced() {
	used := make([]bool, len(m.Vertices))
	for _, f := range m.Faces {
		for _, vi := range f {
			used[vi] = true
		}
	}
	remap := make([]int, len(m.Vertices))
	var verts []geom.Vec3
	for i, v := range m.Vertices {
		if !used[i] {
			remap[i] = -1
			continue
		}
		remap[i] = len(verts)
		verts = append(verts, v)
	}
	for _, f := range m.Faces {
		for i, vi := range f {
			f[i] = remap[vi]
		}
	}
	m.Vertices = verts
}
