package mesh

import (
	"math"

	"github.com/chazu/chunkslicer/pkg/geom"
)

// Box returns a closed axis-aligned box between the two corners,
// six quad faces winding outward.
func Box(min, max geom.Vec3) *Mesh {
	v := []geom.Vec3{
		{X: min.X, Y: min.Y, Z: min.Z},
		{X: max.X, Y: min.Y, Z: min.Z},
		{X: max.X, Y: max.Y, Z: min.Z},
		{X: min.X, Y: max.Y, Z: min.Z},
		{X: min.X, Y: min.Y, Z: max.Z},
		{X: max.X, Y: min.Y, Z: max.Z},
		{X: max.X, Y: max.Y, Z: max.Z},
		{X: min.X, Y: max.Y, Z: max.Z},
	}
	f := [][]int{
		{0, 3, 2, 1}, // z = min
		{4, 5, 6, 7}, // z = max
		{0, 1, 5, 4}, // y = min
		{2, 3, 7, 6}, // y = max
		{1, 2, 6, 5}, // x = max
		{3, 0, 4, 7}, // x = min
	}
	return &Mesh{Vertices: v, Faces: f}
}

// FromTriangles builds an indexed mesh from a triangle soup, merging
// vertices whose coordinates agree within tol. Triangle soups coming out
// of marching cubes repeat every shared vertex, so the merge is what
// restores connectivity.
func FromTriangles(tris [][3]geom.Vec3, tol float64) *Mesh {
	if tol <= 0 {
		tol = 1e-9
	}
	type key [3]int64
	quant := func(v geom.Vec3) key {
		return key{
			int64(math.Round(v.X / tol)),
			int64(math.Round(v.Y / tol)),
			int64(math.Round(v.Z / tol)),
		}
	}

	m := New()
	index := make(map[key]int)
	lookup := func(v geom.Vec3) int {
		k := quant(v)
		if i, ok := index[k]; ok {
			return i
		}
		i := len(m.Vertices)
		index[k] = i
		m.Vertices = append(m.Vertices, v)
		return i
	}

	for _, t := range tris {
		a, b, c := lookup(t[0]), lookup(t[1]), lookup(t[2])
		if a == b || b == c || a == c {
			continue // degenerate sliver
		}
		m.Faces = append(m.Faces, []int{a, b, c})
	}
	return m
}
