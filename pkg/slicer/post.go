package slicer

import (
	"runtime"
	"sync"

	"go.uber.org/zap"
)

// postProcess applies the per-chunk passes: optional vertex weld,
// cleanup-threshold deletion, then origin reset. Chunks own their
// meshes exclusively, so the passes run in parallel without locking;
// survivors keep the incoming (ascending cell address) order so the
// result is identical at any worker count.
func postProcess(chunks []Chunk, cfg Config, log *zap.Logger) (out []Chunk, deleted int) {
	if len(chunks) == 0 {
		return nil, 0
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(chunks) {
		workers = len(chunks)
	}

	// keep[i] marks chunk i as a survivor; chunks are mutated in place.
	keep := make([]bool, len(chunks))
	var wg sync.WaitGroup
	next := make(chan int)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range next {
				keep[i] = processChunk(&chunks[i], cfg)
			}
		}()
	}
	for i := range chunks {
		next <- i
	}
	close(next)
	wg.Wait()

	for i := range chunks {
		if keep[i] {
			out = append(out, chunks[i])
		} else {
			deleted++
			log.Debug("chunk deleted by cleanup",
				zap.String("cell", chunks[i].Address.String()),
				zap.Float64("x", chunks[i].Size.X),
				zap.Float64("y", chunks[i].Size.Y),
				zap.Float64("z", chunks[i].Size.Z))
		}
	}
	return out, deleted
}

// processChunk runs the passes on one chunk and reports survival.
func processChunk(ch *Chunk, cfg Config) bool {
	if cfg.RemoveDoubles {
		ch.Mesh.Weld(cfg.WeldDistance)
		ch.refreshSize()
	}
	if ch.Mesh.IsEmpty() {
		return false
	}
	if cfg.CleanupThreshold > 0 && isSliver(ch, cfg.CleanupThreshold) {
		return false
	}
	if cfg.ResetOrigins {
		resetOrigin(ch)
	}
	return true
}

// isSliver reports whether the chunk's extent falls at or under the
// threshold on two or more axes. A single thin axis is legitimate
// (walls, plates); two mark a degenerate sliver from a near-boundary
// cut.
func isSliver(ch *Chunk, threshold float64) bool {
	small := 0
	for _, e := range [3]float64{ch.Size.X, ch.Size.Y, ch.Size.Z} {
		if e <= threshold {
			small++
		}
	}
	return small >= 2
}

// resetOrigin re-bases the chunk on the centroid of its own geometry.
// The world placement moves by the same amount the vertices move back,
// so world-space geometry is unchanged.
func resetOrigin(ch *Chunk) {
	center := ch.Mesh.Centroid()
	ch.Mesh.Translate(center.Neg())
	ch.Origin = ch.Origin.Add(center)
}
