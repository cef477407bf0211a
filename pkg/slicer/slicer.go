// Package slicer decomposes a polygon mesh into a grid of uniform
// rectangular chunks: it derives the slicing grid from the source
// bounds, cuts the mesh against the grid planes (or intersects it with
// each cell box in fill mode) through an injected geometry kernel,
// partitions the result into per-cell pieces, and applies cleanup and
// origin normalization to each piece.
package slicer

import (
	"go.uber.org/zap"

	"github.com/chazu/chunkslicer/pkg/geom"
	"github.com/chazu/chunkslicer/pkg/grid"
	"github.com/chazu/chunkslicer/pkg/kernel"
	"github.com/chazu/chunkslicer/pkg/mesh"
)

// Slicer cuts a mesh against the grid planes through the kernel.
type Slicer struct {
	kernel kernel.Kernel
	log    *zap.Logger
}

// NewSlicer returns a Slicer using the given kernel. A nil logger
// disables logging.
func NewSlicer(k kernel.Kernel, log *zap.Logger) *Slicer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Slicer{kernel: k, log: log}
}

// scanTopology checks the source for boundary and over-shared edges
// before any cut is applied. With force off a bad scan aborts the whole
// operation; with force on it degrades to a report warning.
func (s *Slicer) scanTopology(m *mesh.Mesh, force bool, rep *Report) error {
	scan := m.ManifoldScan()
	if scan.OK() {
		return nil
	}
	if !force {
		return &NonManifoldError{
			BoundaryEdges:    scan.BoundaryEdges,
			NonManifoldEdges: scan.NonManifoldEdges,
		}
	}
	rep.warnf("non-manifold geometry sliced under force: %d boundary edges, %d over-shared edges; output may contain gaps or overlaps",
		scan.BoundaryEdges, scan.NonManifoldEdges)
	s.log.Warn("slicing non-manifold geometry under force",
		zap.Int("boundary_edges", scan.BoundaryEdges),
		zap.Int("non_manifold_edges", scan.NonManifoldEdges))
	return nil
}

// sliceOpen cuts the source along every grid plane without capping,
// leaving one mesh whose pieces are topologically disconnected across
// the planes. The source is never mutated.
func (s *Slicer) sliceOpen(src *mesh.Mesh, planes []geom.Plane, force bool, rep *Report) (*mesh.Mesh, error) {
	cur := src.Clone()
	for _, p := range planes {
		next, err := s.kernel.Cut(cur, p)
		if err != nil {
			if !force {
				return nil, &GeometricOpError{Stage: "cut " + p.Axis.String(), Err: err}
			}
			rep.warnf("cut on %s=%g failed and was skipped: %v", p.Axis, p.Offset, err)
			s.log.Warn("cut skipped under force",
				zap.String("axis", p.Axis.String()),
				zap.Float64("offset", p.Offset),
				zap.Error(err))
			continue
		}
		cur = next
	}
	return cur, nil
}

// sliceFill intersects the source solid with every cell box, producing
// one capped sub-solid per occupied cell, in ascending cell order.
// Empty cells are skipped; they are not an error.
func (s *Slicer) sliceFill(src *mesh.Mesh, g *grid.Grid, force bool, rep *Report) ([]Chunk, error) {
	var chunks []Chunk
	for _, addr := range g.Cells() {
		piece, err := s.kernel.Intersect(src, g.CellBox(addr))
		if err != nil {
			if !force {
				return nil, &GeometricOpError{Stage: "intersect cell " + addr.String(), Err: err}
			}
			rep.warnf("cell %s intersection failed and was skipped: %v", addr, err)
			s.log.Warn("cell intersection skipped under force",
				zap.String("cell", addr.String()),
				zap.Error(err))
			continue
		}
		if piece == nil || piece.IsEmpty() {
			continue
		}
		ch := Chunk{Mesh: piece, Address: addr}
		ch.refreshSize()
		chunks = append(chunks, ch)
	}
	return chunks, nil
}
