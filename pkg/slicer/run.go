package slicer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/chazu/chunkslicer/pkg/grid"
	"github.com/chazu/chunkslicer/pkg/kernel"
	"github.com/chazu/chunkslicer/pkg/mesh"
)

// Orchestrator sequences one slice invocation: validate, analyze
// bounds, plan the grid, cut, extract, post-process. Any validation or
// geometric failure aborts with no chunks; only Force relaxes the
// non-manifold and per-cut failure cases into degraded results, always
// with warnings in the report.
type Orchestrator struct {
	slicer *Slicer
	log    *zap.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger attaches a structured logger. Without it the orchestrator
// is silent.
func WithLogger(log *zap.Logger) Option {
	return func(o *Orchestrator) {
		o.log = log
	}
}

// New returns an Orchestrator backed by the given geometry kernel.
func New(k kernel.Kernel, opts ...Option) *Orchestrator {
	o := &Orchestrator{log: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	o.slicer = NewSlicer(k, o.log)
	return o
}

// Run slices one source mesh to completion and returns the surviving
// chunks in ascending cell-address order. The source is never mutated;
// on error the chunk sequence is nil (all-or-nothing semantics).
func (o *Orchestrator) Run(src *mesh.Mesh, cfg Config) ([]Chunk, Report, error) {
	var rep Report

	if err := cfg.Validate(); err != nil {
		return nil, rep, err
	}
	if err := src.Validate(); err != nil {
		return nil, rep, fmt.Errorf("slicer: invalid source mesh: %w", err)
	}

	bb, err := grid.Analyze(src)
	if err != nil {
		return nil, rep, err
	}

	var counts [3]int
	switch cfg.SliceType {
	case SliceFixed:
		counts = grid.FixedCounts(bb, cfg.CellSize, cfg.Axes.Array())
	case SliceRelative:
		counts = grid.RelativeCounts(cfg.SliceQuantity.Array(), cfg.Axes.Array())
	}
	g := grid.Plan(bb, counts)

	o.log.Info("slicing",
		zap.String("type", string(cfg.SliceType)),
		zap.Bool("fill", cfg.Fill),
		zap.Ints("counts", counts[:]),
		zap.Int("cells", g.CellCount()))

	if err := o.slicer.scanTopology(src, cfg.Force, &rep); err != nil {
		return nil, rep, err
	}

	var chunks []Chunk
	if cfg.Fill {
		chunks, err = o.slicer.sliceFill(src, g, cfg.Force, &rep)
	} else {
		var cut *mesh.Mesh
		cut, err = o.slicer.sliceOpen(src, g.PlaneList(), cfg.Force, &rep)
		if err == nil {
			chunks = extractChunks(cut, g)
		}
	}
	if err != nil {
		return nil, rep, err
	}

	chunks, deleted := postProcess(chunks, cfg, o.log)
	rep.ChunksProduced = len(chunks)
	rep.ChunksDeleted = deleted

	o.log.Info("slice complete",
		zap.Int("chunks", rep.ChunksProduced),
		zap.Int("deleted", rep.ChunksDeleted),
		zap.Int("warnings", len(rep.Warnings)))

	return chunks, rep, nil
}
