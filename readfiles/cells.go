package readfiles

import (
	"fmt"
)

// VTK cell type ids for the 2D cells that can be drawn as triangles
const (
	VTK_VERTEX             = 1
	VTK_LINE               = 3
	VTK_TRIANGLE           = 5
	VTK_POLYGON            = 7
	VTK_PIXEL              = 8
	VTK_QUAD               = 9
	VTK_QUADRATIC_TRIANGLE = 22
)

// FlatCellArray composes the legacy cell layout [n, i0, ..., i(n-1), n, ...]
// from the XML connectivity and offsets arrays
func FlatCellArray(connectivity, offsets []int) (cells []int, err error) {
	var (
		start int
	)
	cells = make([]int, 0, len(connectivity)+len(offsets))
	for k, end := range offsets {
		if end < start || end > len(connectivity) {
			return nil, fmt.Errorf("cell %d: offset %d out of range [%d, %d]", k, end, start, len(connectivity))
		}
		cells = append(cells, end-start)
		cells = append(cells, connectivity[start:end]...)
		start = end
	}
	if start != len(connectivity) {
		return nil, fmt.Errorf("offsets cover %d of %d connectivity entries", start, len(connectivity))
	}
	return
}

// TrianglesFromCellArray strips the count marker in front of every cell and
// reshapes the remaining indices into rows of three. A cell whose marker is
// not 3 is rejected, use TrianglesFromCells when cell types are known.
func TrianglesFromCellArray(cells []int) (tris [][3]int, err error) {
	var (
		ii int
	)
	if len(cells)%4 != 0 {
		return nil, fmt.Errorf("cell array length %d is not a multiple of 4", len(cells))
	}
	tris = make([][3]int, 0, len(cells)/4)
	for k := 0; ii < len(cells); k++ {
		if n := cells[ii]; n != 3 {
			return nil, fmt.Errorf("cell %d has %d vertices, only triangles are supported", k, n)
		}
		tris = append(tris, [3]int{cells[ii+1], cells[ii+2], cells[ii+3]})
		ii += 4
	}
	return
}

// TrianglesFromCells walks a flat cell array alongside its cell types and
// splits every planar cell into triangles
func TrianglesFromCells(cells, cellTypes []int) (tris [][3]int, err error) {
	var (
		ii int
	)
	tris = make([][3]int, 0, len(cellTypes))
	for k, ct := range cellTypes {
		if ii >= len(cells) {
			return nil, fmt.Errorf("cell array ends before cell %d", k)
		}
		n := cells[ii]
		if n < 0 || ii+1+n > len(cells) {
			return nil, fmt.Errorf("cell %d: vertex count %d overruns the cell array", k, n)
		}
		verts := cells[ii+1 : ii+1+n]
		ii += 1 + n
		if tris, err = appendCellTriangles(tris, k, ct, verts); err != nil {
			return nil, err
		}
	}
	if ii != len(cells) {
		return nil, fmt.Errorf("%d trailing values after %d cells", len(cells)-ii, len(cellTypes))
	}
	return
}

func appendCellTriangles(tris [][3]int, k, cellType int, verts []int) ([][3]int, error) {
	var (
		n = len(verts)
	)
	switch cellType {
	case VTK_TRIANGLE:
		if n != 3 {
			return nil, fmt.Errorf("cell %d: triangle with %d vertices", k, n)
		}
		tris = append(tris, [3]int{verts[0], verts[1], verts[2]})
	case VTK_QUADRATIC_TRIANGLE:
		// Corner nodes come first, mid-edge nodes are dropped
		if n != 6 {
			return nil, fmt.Errorf("cell %d: quadratic triangle with %d vertices", k, n)
		}
		tris = append(tris, [3]int{verts[0], verts[1], verts[2]})
	case VTK_PIXEL:
		if n != 4 {
			return nil, fmt.Errorf("cell %d: pixel with %d vertices", k, n)
		}
		tris = append(tris, [3]int{verts[0], verts[1], verts[3]}, [3]int{verts[0], verts[3], verts[2]})
	case VTK_QUAD, VTK_POLYGON:
		if n < 3 {
			return nil, fmt.Errorf("cell %d: polygon with %d vertices", k, n)
		}
		for i := 1; i < n-1; i++ {
			tris = append(tris, [3]int{verts[0], verts[i], verts[i+1]})
		}
	default:
		return nil, fmt.Errorf("cell %d: unsupported cell type %d, only planar cells can be plotted", k, cellType)
	}
	return tris, nil
}
