package sdfx

import (
	"math"
	"testing"
)

func TestBoxProvider(t *testing.T) {
	p, err := NewBox(2, 1, 0.5)
	if err != nil {
		t.Fatalf("NewBox failed: %v", err)
	}
	m, err := p.SourceMesh()
	if err != nil {
		t.Fatalf("SourceMesh failed: %v", err)
	}
	if m.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("invalid mesh: %v", err)
	}

	// Min corner at the origin, within tessellation tolerance.
	bb, ok := m.Bounds()
	if !ok {
		t.Fatal("no bounds")
	}
	const tol = 0.05
	expectMin := [3]float64{0, 0, 0}
	expectMax := [3]float64{2, 1, 0.5}
	min := [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max := [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected ~%f", i, min[i], expectMin[i])
		}
		if math.Abs(max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected ~%f", i, max[i], expectMax[i])
		}
	}
}

func TestBoxProviderConnectivity(t *testing.T) {
	p, err := NewBox(1, 1, 1)
	if err != nil {
		t.Fatalf("NewBox failed: %v", err)
	}
	m, err := p.SourceMesh()
	if err != nil {
		t.Fatalf("SourceMesh failed: %v", err)
	}

	// Merging the triangle soup back into shared vertices must yield a
	// watertight surface, or the slicer would reject it.
	scan := m.ManifoldScan()
	if !scan.OK() {
		t.Fatalf("marching cubes output not watertight: %d boundary, %d over-shared edges",
			scan.BoundaryEdges, scan.NonManifoldEdges)
	}
}

func TestCylinderProvider(t *testing.T) {
	p, err := NewCylinder(2, 0.5)
	if err != nil {
		t.Fatalf("NewCylinder failed: %v", err)
	}
	m, err := p.SourceMesh()
	if err != nil {
		t.Fatalf("SourceMesh failed: %v", err)
	}
	if m.IsEmpty() {
		t.Fatal("mesh is empty")
	}

	bb, _ := m.Bounds()
	const tol = 0.05
	if math.Abs(bb.Max.Z-bb.Min.Z-2) > tol {
		t.Errorf("cylinder height = %f, expected ~2", bb.Max.Z-bb.Min.Z)
	}
	if math.Abs(bb.Max.X-bb.Min.X-1) > tol {
		t.Errorf("cylinder diameter = %f, expected ~1", bb.Max.X-bb.Min.X)
	}
}

func TestDifferenceProvider(t *testing.T) {
	box, err := NewBox(2, 2, 2)
	if err != nil {
		t.Fatalf("NewBox failed: %v", err)
	}
	hole, err := NewCylinder(3, 0.4)
	if err != nil {
		t.Fatalf("NewCylinder failed: %v", err)
	}
	drilled := box.Difference(hole.Translate(1, 1, 1))

	boxMesh, err := box.SourceMesh()
	if err != nil {
		t.Fatalf("SourceMesh(box) failed: %v", err)
	}
	drilledMesh, err := drilled.SourceMesh()
	if err != nil {
		t.Fatalf("SourceMesh(drilled) failed: %v", err)
	}
	// A box with a hole has more surface detail than a plain box.
	if drilledMesh.FaceCount() <= boxMesh.FaceCount() {
		t.Fatalf("drilled box (%d faces) should have more faces than plain box (%d faces)",
			drilledMesh.FaceCount(), boxMesh.FaceCount())
	}
}

func TestUnionProvider(t *testing.T) {
	a, err := NewBox(1, 1, 1)
	if err != nil {
		t.Fatalf("NewBox failed: %v", err)
	}
	b, err := NewBox(1, 1, 1)
	if err != nil {
		t.Fatalf("NewBox failed: %v", err)
	}
	u := a.Union(b.Translate(0.5, 0, 0))
	m, err := u.SourceMesh()
	if err != nil {
		t.Fatalf("SourceMesh failed: %v", err)
	}

	bb, _ := m.Bounds()
	const tol = 0.05
	if math.Abs(bb.Max.X-bb.Min.X-1.5) > tol {
		t.Errorf("union X extent = %f, expected ~1.5", bb.Max.X-bb.Min.X)
	}
}

func TestFromSDF3DefaultCells(t *testing.T) {
	p, err := NewBox(1, 1, 1)
	if err != nil {
		t.Fatalf("NewBox failed: %v", err)
	}
	if p.cells != defaultMeshCells {
		t.Errorf("cells = %d, expected %d", p.cells, defaultMeshCells)
	}
}
