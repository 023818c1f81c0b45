package geometry2D

import (
	"math"
	"sort"

	"github.com/notargets/vtkplot/types"
)

// Triangulation is a Delaunay triangulation of a point set. Triangles index
// the input arrays and are counter-clockwise
type Triangulation struct {
	X, Y      []float64
	Triangles [][3]int
}

type bwTri struct {
	nodes [3]int
	dead  bool
}

const degenerateArea = 1.e-12

/*
bowyerWatson holds the triangulation under construction. Every hull edge
carries a ghost triangle joining it to the vertex at infinity, the
circumcircle of a ghost is the open half plane outside its edge. Triangles
are counter-clockwise and each directed edge maps to the triangle holding it
*/
type bowyerWatson struct {
	xs, ys []float64
	ghost  int
	tris   []bwTri
	owner  map[[2]int]int
	hull   []int // Ghost triangles, dead entries are dropped lazily
}

func (bw *bowyerWatson) add(a, b, c int) {
	k := len(bw.tris)
	bw.tris = append(bw.tris, bwTri{nodes: [3]int{a, b, c}})
	bw.owner[[2]int{a, b}] = k
	bw.owner[[2]int{b, c}] = k
	bw.owner[[2]int{c, a}] = k
	if a == bw.ghost || b == bw.ghost || c == bw.ghost {
		bw.hull = append(bw.hull, k)
	}
}

func (bw *bowyerWatson) remove(k int) {
	bw.tris[k].dead = true
	n := bw.tris[k].nodes
	for i := 0; i < 3; i++ {
		e := [2]int{n[i], n[(i+1)%3]}
		if bw.owner[e] == k {
			delete(bw.owner, e)
		}
	}
}

// conflict reports whether p lies inside the circumcircle of triangle k
func (bw *bowyerWatson) conflict(k, p int) bool {
	var (
		n      = bw.tris[k].nodes
		xs, ys = bw.xs, bw.ys
	)
	for i := 0; i < 3; i++ {
		if n[(i+2)%3] != bw.ghost {
			continue
		}
		a, b := n[i], n[(i+1)%3]
		if o := orient(xs, ys, a, b, p); o != 0 {
			return o > 0
		}
		// On the hull line the open segment belongs to the ghost
		return (xs[p]-xs[a])*(xs[b]-xs[a])+(ys[p]-ys[a])*(ys[b]-ys[a]) > 0 &&
			(xs[p]-xs[b])*(xs[a]-xs[b])+(ys[p]-ys[b])*(ys[a]-ys[b]) > 0
	}
	return IsIllegalEdge(xs[p], ys[p], xs[n[0]], ys[n[0]], xs[n[1]], ys[n[1]], xs[n[2]], ys[n[2]])
}

// visible is true when the new triangle a-b-p would be counter-clockwise
func (bw *bowyerWatson) visible(a, b, p int) bool {
	if a == bw.ghost || b == bw.ghost {
		return true
	}
	return orient(bw.xs, bw.ys, a, b, p) > 0
}

// firstConflict finds a triangle whose circumcircle holds p. Points arrive
// outside the current hull so a ghost is tried first
func (bw *bowyerWatson) firstConflict(p int) int {
	live := bw.hull[:0]
	for _, k := range bw.hull {
		if !bw.tris[k].dead {
			live = append(live, k)
		}
	}
	bw.hull = live
	for _, k := range bw.hull {
		if bw.conflict(k, p) {
			return k
		}
	}
	for k := range bw.tris {
		if !bw.tris[k].dead && bw.conflict(k, p) {
			return k
		}
	}
	return -1
}

// insert replaces the cavity of triangles in conflict with p by a fan of
// triangles around p
func (bw *bowyerWatson) insert(p int) {
	start := bw.firstConflict(p)
	if start < 0 {
		return
	}
	var (
		inCavity = map[int]bool{start: true}
		cavity   = []int{start}
		edges    [][2]int
	)
	for i := 0; i < len(cavity); i++ {
		n := bw.tris[cavity[i]].nodes
		for j := 0; j < 3; j++ {
			a, b := n[j], n[(j+1)%3]
			nb, ok := bw.owner[[2]int{b, a}]
			if !ok || inCavity[nb] {
				continue
			}
			// Rounding can leave a cavity that p does not see whole, the
			// neighbor behind a hidden edge joins it
			if bw.conflict(nb, p) || !bw.visible(a, b, p) {
				inCavity[nb] = true
				cavity = append(cavity, nb)
			}
		}
	}
	for _, k := range cavity {
		n := bw.tris[k].nodes
		edges = append(edges, [2]int{n[0], n[1]}, [2]int{n[1], n[2]}, [2]int{n[2], n[0]})
	}
	for _, k := range cavity {
		bw.remove(k)
	}
	for _, e := range cavityBoundary(edges) {
		bw.add(e[0], e[1], p)
	}
}

// Delaunay triangulates the points with the Bowyer-Watson algorithm.
// Coincident points after the first are left out of the triangulation and
// fewer than three distinct, non collinear points give no triangles
func Delaunay(X, Y []float64) (tr *Triangulation) {
	var (
		np = len(X)
		bb = NewBoundingBox(X, Y)
	)
	tr = &Triangulation{X: X, Y: Y}
	if np < 3 || bb == nil {
		return
	}
	/*
		Work in coordinates normalized to the unit box so that the in-circle
		and area tolerances are scale free
	*/
	scale := math.Max(bb.Width(), bb.Height())
	if scale == 0 {
		return
	}
	bw := &bowyerWatson{
		xs:    make([]float64, np+1),
		ys:    make([]float64, np+1),
		ghost: np,
		owner: make(map[[2]int]int, 6*np),
	}
	xs, ys := bw.xs, bw.ys
	for i := 0; i < np; i++ {
		xs[i] = (X[i] - bb.XMin[0]) / scale
		ys[i] = (Y[i] - bb.XMin[1]) / scale
	}

	order := make([]int, 0, np)
	for i := 0; i < np; i++ {
		if !math.IsNaN(xs[i]) && !math.IsNaN(ys[i]) {
			order = append(order, i)
		}
	}
	// Sorted insertion puts every new point outside the hull of the earlier ones
	sort.SliceStable(order, func(a, b int) bool {
		ia, ib := order[a], order[b]
		if xs[ia] != xs[ib] {
			return xs[ia] < xs[ib]
		}
		return ys[ia] < ys[ib]
	})
	distinct := order[:0]
	for i, ip := range order {
		if i > 0 && xs[ip] == xs[order[i-1]] && ys[ip] == ys[order[i-1]] {
			continue
		}
		distinct = append(distinct, ip)
	}
	order = distinct

	// The first triangle uses the first two points and the first point off
	// their line, the collinear points skipped over are inserted next
	k := 2
	for k < len(order) && orient(xs, ys, order[0], order[1], order[k]) == 0 {
		k++
	}
	if k >= len(order) {
		return
	}
	a, b, c := order[0], order[1], order[k]
	if orient(xs, ys, a, b, c) < 0 {
		b, c = c, b
	}
	bw.add(a, b, c)
	bw.add(b, a, bw.ghost)
	bw.add(c, b, bw.ghost)
	bw.add(a, c, bw.ghost)
	for i := 2; i < len(order); i++ {
		if i != k {
			bw.insert(order[i])
		}
	}

	for _, t := range bw.tris {
		n := t.nodes
		if t.dead || n[0] == bw.ghost || n[1] == bw.ghost || n[2] == bw.ghost {
			continue
		}
		if math.Abs(orient(xs, ys, n[0], n[1], n[2])) < degenerateArea {
			continue
		}
		// Lowest index first, the winding is unchanged
		for n[0] > n[1] || n[0] > n[2] {
			n = [3]int{n[1], n[2], n[0]}
		}
		tr.Triangles = append(tr.Triangles, n)
	}
	sort.Slice(tr.Triangles, func(a, b int) bool {
		ta, tb := tr.Triangles[a], tr.Triangles[b]
		for k := 0; k < 3; k++ {
			if ta[k] != tb[k] {
				return ta[k] < tb[k]
			}
		}
		return false
	})
	return
}

// cavityBoundary keeps the edges that belong to exactly one removed triangle
func cavityBoundary(edges [][2]int) (boundary [][2]int) {
	count := make(map[types.EdgeKey]int, len(edges))
	for _, e := range edges {
		count[types.NewEdgeKey(e)]++
	}
	for _, e := range edges {
		if count[types.NewEdgeKey(e)] == 1 {
			boundary = append(boundary, e)
		}
	}
	return
}

// orient is twice the signed area of a-b-c
func orient(xs, ys []float64, a, b, c int) float64 {
	return (xs[b]-xs[a])*(ys[c]-ys[a]) - (xs[c]-xs[a])*(ys[b]-ys[a])
}

// IsIllegalEdge reports whether pr lies strictly inside the circle through
// pi, pj and pk, in which case edge pi-pj is not locally Delaunay
func IsIllegalEdge(prX, prY, piX, piY, pjX, pjY, pkX, pkY float64) bool {
	inCircle := func(ax, ay, bx, by, cx, cy, dx, dy float64) (inside bool) {
		// Calculate handedness, counter-clockwise is (positive) and clockwise is (negative)
		signBit := math.Signbit((bx-ax)*(cy-ay) - (cx-ax)*(by-ay))
		ax_ := ax - dx
		ay_ := ay - dy
		bx_ := bx - dx
		by_ := by - dy
		cx_ := cx - dx
		cy_ := cy - dy
		det := (ax_*ax_+ay_*ay_)*(bx_*cy_-cx_*by_) -
			(bx_*bx_+by_*by_)*(ax_*cy_-cx_*ay_) +
			(cx_*cx_+cy_*cy_)*(ax_*by_-bx_*ay_)
		if signBit {
			return det < -degenerateArea
		} else {
			return det > degenerateArea
		}
	}
	return inCircle(piX, piY, pjX, pjY, pkX, pkY, prX, prY)
}

// Barycentric returns the area coordinates of (px,py) in triangle tri and
// whether the point is inside or on the boundary of the triangle
func (tr *Triangulation) Barycentric(tri [3]int, px, py float64) (w [3]float64, inside bool) {
	return Barycentric(tr.X, tr.Y, tri, px, py)
}

func Barycentric(X, Y []float64, tri [3]int, px, py float64) (w [3]float64, inside bool) {
	var (
		x0, y0 = X[tri[0]], Y[tri[0]]
		x1, y1 = X[tri[1]], Y[tri[1]]
		x2, y2 = X[tri[2]], Y[tri[2]]
		det    = (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	)
	if det == 0 {
		return
	}
	w[0] = ((y1-y2)*(px-x2) + (x2-x1)*(py-y2)) / det
	w[1] = ((y2-y0)*(px-x2) + (x0-x2)*(py-y2)) / det
	w[2] = 1 - w[0] - w[1]
	const tol = -1.e-10
	inside = w[0] >= tol && w[1] >= tol && w[2] >= tol
	return
}
