// Package grid derives the slicing grid for one invocation: the source
// bounding box, per-axis slice counts, the interior cutting planes, and
// the mapping between world positions and cell addresses.
package grid

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/chunkslicer/pkg/geom"
	"github.com/chazu/chunkslicer/pkg/mesh"
)

// ErrEmptyMesh is returned by Analyze for a mesh with no vertices.
var ErrEmptyMesh = errors.New("grid: mesh has no vertices")

// Analyze computes the axis-aligned bounding box of the source mesh.
func Analyze(m *mesh.Mesh) (geom.BoundingBox, error) {
	bb, ok := m.Bounds()
	if !ok {
		return geom.BoundingBox{}, ErrEmptyMesh
	}
	return bb, nil
}

// FixedCounts derives per-axis slice counts from a fixed world-unit cell
// size: ceil(extent / cellSize), minimum 1. A disabled axis always
// counts 1 (no slicing there).
func FixedCounts(bb geom.BoundingBox, cellSize float64, axes [3]bool) [3]int {
	var counts [3]int
	for i, a := range geom.Axes {
		if !axes[i] {
			counts[i] = 1
			continue
		}
		n := int(math.Ceil(bb.Extent(a) / cellSize))
		if n < 1 {
			n = 1
		}
		counts[i] = n
	}
	return counts
}

// RelativeCounts derives per-axis slice counts from the requested
// quantities, forcing disabled axes to 1.
func RelativeCounts(qty [3]int, axes [3]bool) [3]int {
	var counts [3]int
	for i := range counts {
		if !axes[i] || qty[i] < 1 {
			counts[i] = 1
			continue
		}
		counts[i] = qty[i]
	}
	return counts
}

// CellAddress identifies one grid cell.
type CellAddress struct {
	I, J, K int
}

// Less orders addresses by I, then J, then K.
func (a CellAddress) Less(b CellAddress) bool {
	if a.I != b.I {
		return a.I < b.I
	}
	if a.J != b.J {
		return a.J < b.J
	}
	return a.K < b.K
}

func (a CellAddress) String() string {
	return fmt.Sprintf("(%d,%d,%d)", a.I, a.J, a.K)
}

// Grid is the computed slicing grid. Immutable once planned.
type Grid struct {
	Bounds geom.BoundingBox
	Counts [3]int
	// Planes holds, per axis, the ascending interior plane offsets.
	// The bounding-box faces themselves are never cutting planes, so
	// each axis carries Counts[axis]-1 planes.
	Planes [3][]float64
}

// Plan positions the interior cutting planes at min + k*(extent/count)
// for k = 1..count-1 on each axis. Axes with count <= 1 get no planes.
func Plan(bb geom.BoundingBox, counts [3]int) *Grid {
	g := &Grid{Bounds: bb, Counts: counts}
	for i, a := range geom.Axes {
		n := counts[i]
		if n <= 1 {
			continue
		}
		min := bb.Min.Component(a)
		step := bb.Extent(a) / float64(n)
		planes := make([]float64, 0, n-1)
		for k := 1; k < n; k++ {
			planes = append(planes, min+float64(k)*step)
		}
		g.Planes[i] = planes
	}
	return g
}

// PlaneList flattens the grid planes into cutting planes, X axis first.
func (g *Grid) PlaneList() []geom.Plane {
	var out []geom.Plane
	for i, a := range geom.Axes {
		for _, off := range g.Planes[i] {
			out = append(out, geom.Plane{Axis: a, Offset: off})
		}
	}
	return out
}

// CellCount returns the total number of grid cells.
func (g *Grid) CellCount() int {
	return g.Counts[0] * g.Counts[1] * g.Counts[2]
}

// Cells lists every cell address in ascending order.
func (g *Grid) Cells() []CellAddress {
	out := make([]CellAddress, 0, g.CellCount())
	for i := 0; i < g.Counts[0]; i++ {
		for j := 0; j < g.Counts[1]; j++ {
			for k := 0; k < g.Counts[2]; k++ {
				out = append(out, CellAddress{I: i, J: j, K: k})
			}
		}
	}
	return out
}

// CellBox returns the world-space box of one cell.
func (g *Grid) CellBox(a CellAddress) geom.BoundingBox {
	idx := [3]int{a.I, a.J, a.K}
	var min, max geom.Vec3
	for i, ax := range geom.Axes {
		lo := g.Bounds.Min.Component(ax)
		step := g.Bounds.Extent(ax) / float64(g.Counts[i])
		min = min.WithComponent(ax, lo+float64(idx[i])*step)
		if idx[i] == g.Counts[i]-1 {
			// Last cell ends exactly at the bounds to avoid drift.
			max = max.WithComponent(ax, g.Bounds.Max.Component(ax))
		} else {
			max = max.WithComponent(ax, lo+float64(idx[i]+1)*step)
		}
	}
	return geom.BoundingBox{Min: min, Max: max}
}

// CellOf maps a world position to the cell containing it. A point
// exactly on a plane boundary belongs to the higher-index cell (round
// half up); indices are clamped to the grid so points on the outer max
// face stay in the last cell.
func (g *Grid) CellOf(p geom.Vec3) CellAddress {
	var idx [3]int
	for i, ax := range geom.Axes {
		n := g.Counts[i]
		extent := g.Bounds.Extent(ax)
		if n <= 1 || extent <= 0 {
			idx[i] = 0
			continue
		}
		step := extent / float64(n)
		c := int(math.Floor((p.Component(ax) - g.Bounds.Min.Component(ax)) / step))
		if c < 0 {
			c = 0
		}
		if c > n-1 {
			c = n - 1
		}
		idx[i] = c
	}
	return CellAddress{I: idx[0], J: idx[1], K: idx[2]}
}
