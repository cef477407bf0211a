package slicer

import (
	"fmt"

	"github.com/chazu/chunkslicer/pkg/geom"
	"github.com/chazu/chunkslicer/pkg/grid"
	"github.com/chazu/chunkslicer/pkg/mesh"
)

// Chunk is one extracted sub-piece of the sliced source, addressed by
// its grid cell. A chunk exclusively owns its mesh storage; no chunk
// shares vertices or faces with another chunk or with the source.
// World position of a vertex is Origin + local position.
type Chunk struct {
	Mesh    *mesh.Mesh
	Address grid.CellAddress
	Size    geom.Vec3 // bounding extent per axis
	Origin  geom.Vec3 // world placement of the local origin
}

// WorldVertex returns the world-space position of local vertex i.
func (c *Chunk) WorldVertex(i int) geom.Vec3 {
	return c.Origin.Add(c.Mesh.Vertices[i])
}

// refreshSize recomputes Size from the chunk's current geometry.
func (c *Chunk) refreshSize() {
	bb, ok := c.Mesh.Bounds()
	if !ok {
		c.Size = geom.Vec3{}
		return
	}
	c.Size = bb.Size()
}

// Report summarizes one slice invocation.
type Report struct {
	ChunksProduced int // chunks in the returned sequence
	ChunksDeleted  int // chunks removed by the cleanup pass
	Warnings       []string
}

func (r *Report) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}
