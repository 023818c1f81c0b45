package types

import (
	"fmt"
	"math"
	"sort"
)

/*
EdgeKey stores an edge's two vertex indices in one comparable value. The
smaller index sits in the low 32 bits, so an edge between vertices [4] and [0]
has the same key as the edge between [0] and [4]
*/
type EdgeKey uint64

func NewEdgeKey(verts [2]int) EdgeKey {
	i1, i2 := verts[0], verts[1]
	if i1 > i2 {
		i1, i2 = i2, i1
	}
	if i1 < 0 || i2 > math.MaxUint32 {
		panic(fmt.Errorf("unable to pack two ints into a uint64, have %d and %d as inputs",
			verts[0], verts[1]))
	}
	return EdgeKey(uint64(i1) | uint64(i2)<<32)
}

// GetVertices returns the indices in ascending order, or descending if rev
func (ek EdgeKey) GetVertices(rev bool) (verts [2]int) {
	verts[0], verts[1] = int(ek&math.MaxUint32), int(ek>>32)
	if rev {
		verts[0], verts[1] = verts[1], verts[0]
	}
	return
}

// EdgeCounts is the number of triangles sharing each edge
func (m *Mesh) EdgeCounts() (counts map[EdgeKey]int) {
	counts = make(map[EdgeKey]int, 3*len(m.Triangles)/2+3)
	for _, tri := range m.Triangles {
		for n := 0; n < 3; n++ {
			counts[NewEdgeKey([2]int{tri[n], tri[(n+1)%3]})]++
		}
	}
	return
}

// Edges lists every distinct edge once, in key order
func (m *Mesh) Edges() (edges []EdgeKey) {
	for ek := range m.EdgeCounts() {
		edges = append(edges, ek)
	}
	sortKeys(edges)
	return
}

// BoundaryEdges are the edges that belong to a single triangle
func (m *Mesh) BoundaryEdges() (edges []EdgeKey) {
	for ek, n := range m.EdgeCounts() {
		if n == 1 {
			edges = append(edges, ek)
		}
	}
	sortKeys(edges)
	return
}

func sortKeys(edges []EdgeKey) {
	sort.Slice(edges, func(i, j int) bool { return edges[i] < edges[j] })
}
