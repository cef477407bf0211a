package slicer

import (
	"sort"

	"github.com/chazu/chunkslicer/pkg/grid"
	"github.com/chazu/chunkslicer/pkg/mesh"
)

// unionFind is a standard disjoint-set over vertex indices with path
// compression and union by rank.
type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), rank: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	if uf.rank[ra] < uf.rank[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	if uf.rank[ra] == uf.rank[rb] {
		uf.rank[ra]++
	}
}

// extractChunks partitions a cut mesh into maximal connected components
// and assigns each to the grid cell containing its centroid. Every
// component is copied into independent storage; the cut mesh can be
// discarded afterward. Output is ordered by ascending cell address,
// components within the same cell keeping discovery order.
func extractChunks(cut *mesh.Mesh, g *grid.Grid) []Chunk {
	if cut.IsEmpty() {
		return nil
	}

	uf := newUnionFind(cut.VertexCount())
	for _, f := range cut.Faces {
		for i := 1; i < len(f); i++ {
			uf.union(f[0], f[i])
		}
	}

	// Group faces by component root, in first-seen order.
	compOf := make(map[int]int)
	var compFaces [][][]int
	for _, f := range cut.Faces {
		root := uf.find(f[0])
		ci, ok := compOf[root]
		if !ok {
			ci = len(compFaces)
			compOf[root] = ci
			compFaces = append(compFaces, nil)
		}
		compFaces[ci] = append(compFaces[ci], f)
	}

	chunks := make([]Chunk, 0, len(compFaces))
	for _, faces := range compFaces {
		piece := mesh.New()
		remap := make(map[int]int)
		for _, f := range faces {
			nf := make([]int, len(f))
			for i, vi := range f {
				ni, ok := remap[vi]
				if !ok {
					ni = len(piece.Vertices)
					piece.Vertices = append(piece.Vertices, cut.Vertices[vi])
					remap[vi] = ni
				}
				nf[i] = ni
			}
			piece.Faces = append(piece.Faces, nf)
		}

		ch := Chunk{Mesh: piece, Address: g.CellOf(piece.Centroid())}
		ch.refreshSize()
		chunks = append(chunks, ch)
	}

	sort.SliceStable(chunks, func(i, j int) bool {
		return chunks[i].Address.Less(chunks[j].Address)
	})
	return chunks
}
