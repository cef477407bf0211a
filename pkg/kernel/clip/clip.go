// Package clip is the default kernel backend. It cuts polygon meshes
// against axis-aligned planes with per-face Sutherland-Hodgman clipping,
// and closes box intersections by chaining the cut edges on each clip
// plane into cap loops. It is exact for the axis-aligned half-space
// family the slicing grid produces, which is the only family the slicer
// ever asks for.
package clip

import (
	"math"

	"github.com/chazu/chunkslicer/pkg/geom"
	"github.com/chazu/chunkslicer/pkg/kernel"
	"github.com/chazu/chunkslicer/pkg/mesh"
)

// eps is the on-plane classification tolerance.
const eps = 1e-9

// snap is the coordinate quantum used to key positions when rebuilding
// connectivity. Coarser than eps so numerically equal cut points land on
// the same key.
const snap = 1e-7

// Compile-time interface check.
var _ kernel.Kernel = (*Clipper)(nil)

// Clipper implements kernel.Kernel with pure-Go half-space clipping.
type Clipper struct{}

// New returns a new Clipper.
func New() *Clipper {
	return &Clipper{}
}

// token identifies a vertex of a clipped polygon: either an original
// vertex index, or the intersection of an original edge with the cut
// plane. Keying intersections by their edge keeps the cut point shared
// between the two faces adjacent to that edge.
type token struct {
	orig   int // original vertex index, or -1 for an edge intersection
	ea, eb int // sorted edge endpoints when orig == -1
}

func vertToken(i int) token { return token{orig: i, ea: -1, eb: -1} }
func edgeToken(a, b int) token {
	if a > b {
		a, b = b, a
	}
	return token{orig: -1, ea: a, eb: b}
}

type clipVert struct {
	tok token
	pos geom.Vec3
}

// Cut splits every face crossing the plane and rebuilds the mesh with
// separate vertex pools for the two sides. On-plane vertices and cut
// points are duplicated per side, so nothing connects the halves and a
// later flood fill sees them as distinct components. The input mesh is
// not touched.
func (c *Clipper) Cut(m *mesh.Mesh, p geom.Plane) (*mesh.Mesh, error) {
	out := mesh.New()
	below := make(map[token]int)
	above := make(map[token]int)

	emit := func(side map[token]int, poly []clipVert) {
		face := make([]int, 0, len(poly))
		for _, cv := range poly {
			idx, ok := side[cv.tok]
			if !ok {
				idx = len(out.Vertices)
				out.Vertices = append(out.Vertices, cv.pos)
				side[cv.tok] = idx
			}
			if len(face) > 0 && face[len(face)-1] == idx {
				continue
			}
			face = append(face, idx)
		}
		if len(face) > 1 && face[0] == face[len(face)-1] {
			face = face[:len(face)-1]
		}
		if len(face) >= 3 {
			out.Faces = append(out.Faces, face)
		}
	}

	ds := make([]float64, 0, 8)
	for _, f := range m.Faces {
		ds = ds[:0]
		minD, maxD := math.Inf(1), math.Inf(-1)
		for _, vi := range f {
			d := p.Side(m.Vertices[vi])
			ds = append(ds, d)
			minD = math.Min(minD, d)
			maxD = math.Max(maxD, d)
		}

		switch {
		case maxD <= eps:
			// Entirely below (coplanar faces count as below).
			emit(below, wholeFace(m, f))
		case minD >= -eps:
			emit(above, wholeFace(m, f))
		default:
			emit(below, clipFace(m, f, ds, p, true))
			emit(above, clipFace(m, f, ds, p, false))
		}
	}
	return out, nil
}

// wholeFace converts an uncut face to clip vertices.
func wholeFace(m *mesh.Mesh, f []int) []clipVert {
	poly := make([]clipVert, len(f))
	for i, vi := range f {
		poly[i] = clipVert{tok: vertToken(vi), pos: m.Vertices[vi]}
	}
	return poly
}

// clipFace clips one face against a half-space of the plane.
// Sutherland-Hodgman with an inclusive boundary: on-plane vertices are
// kept on both sides, which is what duplicates them across the cut.
func clipFace(m *mesh.Mesh, f []int, ds []float64, p geom.Plane, below bool) []clipVert {
	n := len(f)
	out := make([]clipVert, 0, n+2)
	inside := func(d float64) bool {
		if below {
			return d <= eps
		}
		return d >= -eps
	}
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		di, dj := ds[i], ds[j]
		if inside(di) {
			out = append(out, clipVert{tok: vertToken(f[i]), pos: m.Vertices[f[i]]})
		}
		// A crossing with both endpoints strictly off-plane produces a
		// new cut point. Crossings through an on-plane endpoint need no
		// new point: the endpoint itself is emitted for both sides.
		if inside(di) != inside(dj) && math.Abs(di) > eps && math.Abs(dj) > eps {
			t := di / (di - dj)
			a, b := m.Vertices[f[i]], m.Vertices[f[j]]
			pos := a.Add(b.Sub(a).Scale(t)).WithComponent(p.Axis, p.Offset)
			out = append(out, clipVert{tok: edgeToken(f[i], f[j]), pos: pos})
		}
	}
	return out
}

// halfSpace is one of the six bounding half-spaces of a cell box.
type halfSpace struct {
	plane     geom.Plane
	keepBelow bool
}

func boxHalfSpaces(b geom.BoundingBox) []halfSpace {
	hs := make([]halfSpace, 0, 6)
	for _, a := range geom.Axes {
		hs = append(hs, halfSpace{plane: geom.Plane{Axis: a, Offset: b.Min.Component(a)}, keepBelow: false})
		hs = append(hs, halfSpace{plane: geom.Plane{Axis: a, Offset: b.Max.Component(a)}, keepBelow: true})
	}
	return hs
}

// Intersect clips the solid against the six bounding half-spaces of the
// box, capping the opening left on each clip plane so the result stays
// closed. Cells the solid does not reach yield nil.
func (c *Clipper) Intersect(m *mesh.Mesh, box geom.BoundingBox) (*mesh.Mesh, error) {
	polys := make([][]geom.Vec3, 0, len(m.Faces))
	for _, f := range m.Faces {
		poly := make([]geom.Vec3, len(f))
		for i, vi := range f {
			poly[i] = m.Vertices[vi]
		}
		polys = append(polys, poly)
	}

	for _, hs := range boxHalfSpaces(box) {
		polys = clipAndCap(polys, hs)
		if len(polys) == 0 {
			return nil, nil
		}
	}

	out := buildIndexed(polys)
	if out.FaceCount() == 0 {
		return nil, nil
	}
	return out, nil
}

// clipAndCap clips all polygons against one half-space, then closes each
// loop of cut edges on the clip plane with a cap face.
func clipAndCap(polys [][]geom.Vec3, hs halfSpace) [][]geom.Vec3 {
	kept := make([][]geom.Vec3, 0, len(polys))
	var segs [][2]geom.Vec3

	dist := func(v geom.Vec3) float64 {
		d := hs.plane.Side(v)
		if !hs.keepBelow {
			d = -d
		}
		return d
	}
	onPlane := func(v geom.Vec3) bool {
		return math.Abs(hs.plane.Side(v)) <= eps
	}

	// collectRim records the kept polygon's on-plane edges. Uncut faces
	// contribute too: a face wholly inside the half-space can still
	// border the opening along an edge lying in the clip plane. Edges
	// recorded from both sides cancel below; the survivors are the rim.
	collectRim := func(poly []geom.Vec3) {
		n := len(poly)
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			if onPlane(poly[i]) && onPlane(poly[j]) {
				segs = append(segs, [2]geom.Vec3{poly[i], poly[j]})
			}
		}
	}

	ds := make([]float64, 0, 8)
	for _, poly := range polys {
		ds = ds[:0]
		minD, maxD := math.Inf(1), math.Inf(-1)
		for _, v := range poly {
			d := dist(v)
			ds = append(ds, d)
			minD = math.Min(minD, d)
			maxD = math.Max(maxD, d)
		}
		if maxD <= eps {
			kept = append(kept, poly)
			collectRim(poly)
			continue
		}
		if minD >= -eps {
			continue
		}

		clipped := clipPositions(poly, ds, hs.plane)
		if len(clipped) < 3 {
			continue
		}
		kept = append(kept, clipped)
		collectRim(clipped)
	}

	for _, loop := range chainLoops(cancelOpposed(segs)) {
		// The chained loop runs with the opening boundary; the cap must
		// wind the other way to face outward.
		reverse(loop)
		kept = append(kept, loop)
	}
	return kept
}

// clipPositions is Sutherland-Hodgman over raw positions, with cut
// points snapped exactly onto the clip plane.
func clipPositions(poly []geom.Vec3, ds []float64, p geom.Plane) []geom.Vec3 {
	n := len(poly)
	out := make([]geom.Vec3, 0, n+2)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		di, dj := ds[i], ds[j]
		if di <= eps {
			out = append(out, poly[i])
		}
		if (di <= eps) != (dj <= eps) && math.Abs(di) > eps && math.Abs(dj) > eps {
			t := di / (di - dj)
			pos := poly[i].Add(poly[j].Sub(poly[i]).Scale(t)).WithComponent(p.Axis, p.Offset)
			out = append(out, pos)
		}
	}
	return out
}

type posKey [3]int64

func quantize(v geom.Vec3) posKey {
	return posKey{
		int64(math.Round(v.X / snap)),
		int64(math.Round(v.Y / snap)),
		int64(math.Round(v.Z / snap)),
	}
}

// cancelOpposed drops edge pairs recorded in both directions. An
// on-plane edge shared by two kept faces is interior to the surface,
// not part of an opening rim; in particular a kept face coplanar with
// the clip plane cancels against its kept neighbors instead of
// spawning a duplicate cap.
func cancelOpposed(segs [][2]geom.Vec3) [][2]geom.Vec3 {
	type segKey struct{ a, b posKey }
	counts := make(map[segKey]int, len(segs))
	for _, s := range segs {
		counts[segKey{quantize(s[0]), quantize(s[1])}]++
	}
	drop := make(map[segKey]int)
	for k, n := range counts {
		if r, ok := counts[segKey{a: k.b, b: k.a}]; ok {
			if r < n {
				n = r
			}
			drop[k] = n
		}
	}
	out := segs[:0]
	for _, s := range segs {
		k := segKey{quantize(s[0]), quantize(s[1])}
		if drop[k] > 0 {
			drop[k]--
			continue
		}
		out = append(out, s)
	}
	return out
}

// chainLoops connects oriented segments head-to-tail into closed loops.
// Open chains (possible on non-manifold input under force) are dropped
// rather than capped wrong.
func chainLoops(segs [][2]geom.Vec3) [][]geom.Vec3 {
	next := make(map[posKey][]int)
	used := make([]bool, len(segs))
	for i, s := range segs {
		if quantize(s[0]) == quantize(s[1]) {
			used[i] = true // zero-length
			continue
		}
		next[quantize(s[0])] = append(next[quantize(s[0])], i)
	}

	take := func(k posKey) int {
		for _, i := range next[k] {
			if !used[i] {
				used[i] = true
				return i
			}
		}
		return -1
	}

	var loops [][]geom.Vec3
	for i, s := range segs {
		if used[i] {
			continue
		}
		used[i] = true
		start := quantize(s[0])
		loop := []geom.Vec3{s[0]}
		cur := s[1]
		closed := false
		for len(loop) <= len(segs) {
			k := quantize(cur)
			if k == start {
				closed = true
				break
			}
			ni := take(k)
			if ni < 0 {
				break
			}
			loop = append(loop, cur)
			cur = segs[ni][1]
		}
		if closed && len(loop) >= 3 {
			loops = append(loops, loop)
		}
	}
	return loops
}

func reverse(loop []geom.Vec3) {
	for i, j := 0, len(loop)-1; i < j; i, j = i+1, j-1 {
		loop[i], loop[j] = loop[j], loop[i]
	}
}

// buildIndexed rebuilds an indexed mesh from position polygons, merging
// coincident positions so caps share vertices with the faces they close.
func buildIndexed(polys [][]geom.Vec3) *mesh.Mesh {
	m := mesh.New()
	index := make(map[posKey]int)
	for _, poly := range polys {
		face := make([]int, 0, len(poly))
		for _, v := range poly {
			k := quantize(v)
			idx, ok := index[k]
			if !ok {
				idx = len(m.Vertices)
				m.Vertices = append(m.Vertices, v)
				index[k] = idx
			}
			if len(face) > 0 && face[len(face)-1] == idx {
				continue
			}
			face = append(face, idx)
		}
		if len(face) > 1 && face[0] == face[len(face)-1] {
			face = face[:len(face)-1]
		}
		if len(face) >= 3 {
			m.Faces = append(m.Faces, face)
		}
	}
	return m
}
