// Package scene is the host-side collaborator boundary: finished chunk
// sets are handed back as host-native objects, one per surviving chunk,
// tagged with the grid cell for traceability. The hand-back is the only
// point at which host state is mutated, and it happens only once a
// complete validated chunk set exists.
package scene

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/chazu/chunkslicer/pkg/grid"
	"github.com/chazu/chunkslicer/pkg/mesh"
	"github.com/chazu/chunkslicer/pkg/slicer"
)

// Object is one host-native chunk object.
type Object struct {
	ID      uuid.UUID
	Name    string
	Address grid.CellAddress
	Chunk   slicer.Chunk
}

// Scene receives complete chunk sets. AddChunks is all-or-nothing: a
// failed call must leave the scene unchanged.
type Scene interface {
	AddChunks(objs []Object) error
}

// Publish wraps the chunks as objects named after the source and hands
// them to the scene in one transactional call. The object name carries
// the cell address, mirroring how the pieces were addressed.
func Publish(s Scene, baseName string, chunks []slicer.Chunk) ([]Object, error) {
	objs := make([]Object, len(chunks))
	for i, ch := range chunks {
		objs[i] = Object{
			ID:      uuid.New(),
			Name:    fmt.Sprintf("%s_chunk_%d_%d_%d", baseName, ch.Address.I, ch.Address.J, ch.Address.K),
			Address: ch.Address,
			Chunk:   ch,
		}
	}
	if err := s.AddChunks(objs); err != nil {
		return nil, fmt.Errorf("scene: publishing %d chunks: %w", len(objs), err)
	}
	return objs, nil
}

// RunInto slices the source with the orchestrator and publishes the
// surviving chunks to the scene under baseName in one transactional
// call. Any slicing error returns before the scene is touched, and a
// failed publish adds nothing, so the scene never observes a partial
// result. The report is returned even on error.
func RunInto(o *slicer.Orchestrator, s Scene, baseName string, src *mesh.Mesh, cfg slicer.Config) ([]Object, slicer.Report, error) {
	chunks, rep, err := o.Run(src, cfg)
	if err != nil {
		return nil, rep, err
	}
	objs, err := Publish(s, baseName, chunks)
	if err != nil {
		return nil, rep, err
	}
	return objs, rep, nil
}

// Memory is an in-process Scene keeping objects in a slice. Safe for
// concurrent use.
type Memory struct {
	mu   sync.Mutex
	objs []Object
}

// NewMemory returns an empty in-memory scene.
func NewMemory() *Memory {
	return &Memory{}
}

// AddChunks appends the whole batch.
func (m *Memory) AddChunks(objs []Object) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objs = append(m.objs, objs...)
	return nil
}

// Objects returns a snapshot of the scene contents.
func (m *Memory) Objects() []Object {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Object, len(m.objs))
	copy(out, m.objs)
	return out
}
