package scene

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/chunkslicer/pkg/geom"
	"github.com/chazu/chunkslicer/pkg/grid"
	"github.com/chazu/chunkslicer/pkg/kernel/clip"
	"github.com/chazu/chunkslicer/pkg/mesh"
	"github.com/chazu/chunkslicer/pkg/slicer"
)

func sampleChunks() []slicer.Chunk {
	var chunks []slicer.Chunk
	for i := 0; i < 3; i++ {
		min := geom.Vec3{X: float64(i)}
		max := min.Add(geom.Vec3{X: 1, Y: 1, Z: 1})
		chunks = append(chunks, slicer.Chunk{
			Mesh:    mesh.Box(min, max),
			Address: grid.CellAddress{I: i},
			Size:    geom.Vec3{X: 1, Y: 1, Z: 1},
		})
	}
	return chunks
}

func TestPublishNamesAndAddresses(t *testing.T) {
	mem := NewMemory()
	objs, err := Publish(mem, "hull", sampleChunks())
	require.NoError(t, err)
	require.Len(t, objs, 3)

	assert.Equal(t, "hull_chunk_0_0_0", objs[0].Name)
	assert.Equal(t, "hull_chunk_1_0_0", objs[1].Name)
	assert.Equal(t, "hull_chunk_2_0_0", objs[2].Name)

	ids := make(map[uuid.UUID]bool)
	for i, obj := range objs {
		assert.NotEqual(t, uuid.Nil, obj.ID)
		assert.False(t, ids[obj.ID], "duplicate object id")
		ids[obj.ID] = true
		assert.Equal(t, grid.CellAddress{I: i}, obj.Address)
		assert.Same(t, obj.Chunk.Mesh, mem.Objects()[i].Chunk.Mesh)
	}
}

func TestPublishEmptySet(t *testing.T) {
	mem := NewMemory()
	objs, err := Publish(mem, "hull", nil)
	require.NoError(t, err)
	assert.Empty(t, objs)
	assert.Empty(t, mem.Objects())
}

type rejectingScene struct{}

func (rejectingScene) AddChunks([]Object) error {
	return errors.New("host refused the batch")
}

func TestPublishPropagatesSceneError(t *testing.T) {
	objs, err := Publish(rejectingScene{}, "hull", sampleChunks())
	require.Error(t, err)
	assert.Nil(t, objs)
	assert.Contains(t, err.Error(), "host refused")
}

func TestMemoryAppendsBatches(t *testing.T) {
	mem := NewMemory()
	_, err := Publish(mem, "a", sampleChunks()[:1])
	require.NoError(t, err)
	_, err = Publish(mem, "b", sampleChunks()[:2])
	require.NoError(t, err)

	got := mem.Objects()
	require.Len(t, got, 3)
	assert.Equal(t, "a_chunk_0_0_0", got[0].Name)
	assert.Equal(t, "b_chunk_0_0_0", got[1].Name)
	assert.Equal(t, "b_chunk_1_0_0", got[2].Name)
}

func TestRunIntoPublishesChunkSet(t *testing.T) {
	cube := mesh.Box(geom.Vec3{}, geom.Vec3{X: 2, Y: 2, Z: 2})

	cfg := slicer.DefaultConfig()
	cfg.SliceQuantity = slicer.AxisTriple{X: 2, Y: 2, Z: 2}
	cfg.Fill = true
	cfg.CleanupThreshold = 0

	mem := NewMemory()
	o := slicer.New(clip.New())
	objs, rep, err := RunInto(o, mem, "cube", cube, cfg)
	require.NoError(t, err)
	require.Len(t, objs, 8)
	assert.Equal(t, 8, rep.ChunksProduced)
	assert.Len(t, mem.Objects(), 8)
	assert.Equal(t, "cube_chunk_0_0_0", objs[0].Name)
	assert.Equal(t, "cube_chunk_1_1_1", objs[7].Name)
}

func TestRunIntoLeavesSceneUntouchedOnSliceError(t *testing.T) {
	// Open quad: the manifold scan aborts before any chunk exists.
	open := &mesh.Mesh{
		Vertices: []geom.Vec3{
			{}, {X: 2}, {X: 2, Y: 2}, {Y: 2},
		},
		Faces: [][]int{{0, 1, 2, 3}},
	}

	mem := NewMemory()
	o := slicer.New(clip.New())
	objs, _, err := RunInto(o, mem, "quad", open, slicer.DefaultConfig())
	require.Error(t, err)
	assert.Nil(t, objs)
	assert.Empty(t, mem.Objects(), "scene mutated on aborted slice")
}

func TestRunIntoPropagatesPublishError(t *testing.T) {
	cube := mesh.Box(geom.Vec3{}, geom.Vec3{X: 1, Y: 1, Z: 1})

	cfg := slicer.DefaultConfig()
	cfg.CleanupThreshold = 0

	o := slicer.New(clip.New())
	objs, rep, err := RunInto(o, rejectingScene{}, "cube", cube, cfg)
	require.Error(t, err)
	assert.Nil(t, objs)
	assert.Contains(t, err.Error(), "host refused")
	// The slice itself completed; only the hand-back failed.
	assert.Greater(t, rep.ChunksProduced, 0)
}

func TestObjectsReturnsSnapshot(t *testing.T) {
	mem := NewMemory()
	_, err := Publish(mem, "hull", sampleChunks())
	require.NoError(t, err)

	snap := mem.Objects()
	snap[0].Name = "mutated"
	assert.Equal(t, "hull_chunk_0_0_0", mem.Objects()[0].Name)
}
