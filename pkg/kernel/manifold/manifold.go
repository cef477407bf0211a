//go:build manifold

// Package manifold provides a CGo-based kernel backend binding to the
// Manifold library (https://github.com/elalish/manifold). Manifold
// guarantees manifold output from mesh booleans, which makes it a more
// robust fill-mode backend than the built-in clipper for meshes with
// difficult topology.
//
// This package requires the Manifold C library (manifoldc) to be
// installed. Build with: go build -tags=manifold
//
// Only solid/box intersection is supported; the open Cut operation has
// no Manifold equivalent and returns an error, so this backend is for
// fill mode only.
package manifold

/*
#cgo CFLAGS: -I/usr/local/include
#cgo LDFLAGS: -L/usr/local/lib -lmanifoldc

#include <stdlib.h>
#include <manifold/manifoldc.h>
*/
import "C"

import (
	"errors"
	"fmt"
	"runtime"
	"unsafe"

	"github.com/chazu/chunkslicer/pkg/geom"
	"github.com/chazu/chunkslicer/pkg/kernel"
	"github.com/chazu/chunkslicer/pkg/mesh"
)

// Compile-time interface check.
var _ kernel.Kernel = (*Kernel)(nil)

// Kernel implements kernel.Kernel using the Manifold C library.
type Kernel struct{}

// New creates a Manifold-backed kernel.
func New() (kernel.Kernel, error) {
	return &Kernel{}, nil
}

// Cut is not supported: Manifold models solids, not open surfaces.
func (k *Kernel) Cut(m *mesh.Mesh, p geom.Plane) (*mesh.Mesh, error) {
	return nil, errors.New("manifold: open cuts are not supported, use the clip backend for non-fill slicing")
}

// Intersect converts the mesh to a Manifold solid, intersects it with
// the cell box, and converts the result back.
func (k *Kernel) Intersect(m *mesh.Mesh, box geom.BoundingBox) (*mesh.Mesh, error) {
	solid, err := toManifold(m)
	if err != nil {
		return nil, err
	}

	size := box.Size()
	alloc := C.manifold_alloc_manifold()
	cube := C.manifold_cube(alloc,
		C.double(size.X), C.double(size.Y), C.double(size.Z),
		C.int(0), // center=false: min corner at origin
	)
	cubePtr := track(cube)

	alloc = C.manifold_alloc_manifold()
	cell := C.manifold_translate(alloc, cubePtr.ptr,
		C.double(box.Min.X), C.double(box.Min.Y), C.double(box.Min.Z))
	cellPtr := track(cell)

	alloc = C.manifold_alloc_manifold()
	result := track(C.manifold_intersection(alloc, solid.ptr, cellPtr.ptr))

	out, err := fromManifold(result)
	if err != nil {
		return nil, err
	}
	if out == nil || out.IsEmpty() {
		return nil, nil
	}
	return out, nil
}

// handle wraps a C ManifoldManifold pointer with a finalizer for
// automatic memory management.
type handle struct {
	ptr *C.ManifoldManifold
}

func track(ptr *C.ManifoldManifold) *handle {
	h := &handle{ptr: ptr}
	runtime.SetFinalizer(h, func(h *handle) {
		if h.ptr != nil {
			C.manifold_delete_manifold(h.ptr)
			h.ptr = nil
		}
	})
	return h
}

// toManifold triangulates the polygon mesh (fan triangulation per face)
// and builds a Manifold solid from the MeshGL representation.
func toManifold(m *mesh.Mesh) (*handle, error) {
	numVert := m.VertexCount()
	if numVert == 0 {
		return nil, errors.New("manifold: empty mesh")
	}

	props := make([]float32, numVert*3)
	for i, v := range m.Vertices {
		props[i*3+0] = float32(v.X)
		props[i*3+1] = float32(v.Y)
		props[i*3+2] = float32(v.Z)
	}

	var tris []uint32
	for _, f := range m.Faces {
		for i := 1; i < len(f)-1; i++ {
			tris = append(tris, uint32(f[0]), uint32(f[i]), uint32(f[i+1]))
		}
	}
	if len(tris) == 0 {
		return nil, errors.New("manifold: mesh has no faces")
	}

	meshAlloc := C.manifold_alloc_meshgl()
	meshGL := C.manifold_meshgl(meshAlloc,
		(*C.float)(unsafe.Pointer(&props[0])), C.size_t(numVert), C.size_t(3),
		(*C.uint32_t)(unsafe.Pointer(&tris[0])), C.size_t(len(tris)/3),
	)
	defer C.manifold_delete_meshgl(meshGL)

	alloc := C.manifold_alloc_manifold()
	solid := track(C.manifold_of_meshgl(alloc, meshGL))

	status := C.manifold_status(solid.ptr)
	if status != C.MANIFOLD_NO_ERROR {
		return nil, fmt.Errorf("manifold: mesh rejected with status %d", int(status))
	}
	return solid, nil
}

// fromManifold extracts the solid's MeshGL back into a polygon mesh.
func fromManifold(h *handle) (*mesh.Mesh, error) {
	meshAlloc := C.manifold_alloc_meshgl()
	meshGL := C.manifold_get_meshgl(meshAlloc, h.ptr)
	defer C.manifold_delete_meshgl(meshGL)

	numVert := int(C.manifold_meshgl_num_vert(meshGL))
	numTri := int(C.manifold_meshgl_num_tri(meshGL))
	if numVert == 0 || numTri == 0 {
		return nil, nil
	}

	numProp := int(C.manifold_meshgl_num_prop(meshGL))
	propData := make([]float32, numVert*numProp)
	C.manifold_meshgl_vert_properties(
		(*C.float)(unsafe.Pointer(&propData[0])), meshGL)

	indices := make([]uint32, numTri*3)
	C.manifold_meshgl_tri_verts(
		(*C.uint32_t)(unsafe.Pointer(&indices[0])), meshGL)

	out := mesh.New()
	out.Vertices = make([]geom.Vec3, numVert)
	for i := 0; i < numVert; i++ {
		base := i * numProp
		out.Vertices[i] = geom.Vec3{
			X: float64(propData[base+0]),
			Y: float64(propData[base+1]),
			Z: float64(propData[base+2]),
		}
	}
	out.Faces = make([][]int, numTri)
	for t := 0; t < numTri; t++ {
		out.Faces[t] = []int{
			int(indices[t*3+0]),
			int(indices[t*3+1]),
			int(indices[t*3+2]),
		}
	}
	return out, nil
}
