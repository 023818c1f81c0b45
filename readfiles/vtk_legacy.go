package readfiles

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/vtkplot/types"
)

// ReadLegacyVTK reads an ASCII legacy format UNSTRUCTURED_GRID file, both the
// classic "CELLS n size" cell list and the 5.x OFFSETS/CONNECTIVITY layout
func ReadLegacyVTK(fileName string) (md *types.MeshData, err error) {
	var (
		content []byte
	)
	if content, err = os.ReadFile(fileName); err != nil {
		return nil, &types.FileFormatError{Path: fileName, Err: err}
	}
	if md, err = parseLegacyVTK(fileName, content); err != nil {
		return nil, &types.FileFormatError{Path: fileName, Err: err}
	}
	return
}

type tokenReader struct {
	tokens []string
	pos    int
}

func (tr *tokenReader) done() bool { return tr.pos >= len(tr.tokens) }

func (tr *tokenReader) next() (tok string, err error) {
	if tr.done() {
		return "", fmt.Errorf("unexpected end of file")
	}
	tok = tr.tokens[tr.pos]
	tr.pos++
	return
}

func (tr *tokenReader) peek() string {
	if tr.done() {
		return ""
	}
	return tr.tokens[tr.pos]
}

// nextCount reads a size from the file, no count can exceed the token total
func (tr *tokenReader) nextCount() (n int, err error) {
	var tok string
	if tok, err = tr.next(); err != nil {
		return
	}
	if n, err = strconv.Atoi(tok); err != nil {
		return 0, fmt.Errorf("expected an integer, found %q", tok)
	}
	if n < 0 || n > len(tr.tokens) {
		return 0, fmt.Errorf("count %d is out of range", n)
	}
	return
}

func (tr *tokenReader) want(n int) error {
	if remain := len(tr.tokens) - tr.pos; n < 0 || n > remain {
		return fmt.Errorf("%d values expected, %d tokens remain", n, remain)
	}
	return nil
}

func (tr *tokenReader) floats(n int) (vals []float64, err error) {
	var tok string
	if err = tr.want(n); err != nil {
		return
	}
	vals = make([]float64, n)
	for i := range vals {
		if tok, err = tr.next(); err != nil {
			return
		}
		if vals[i], err = strconv.ParseFloat(tok, 64); err != nil {
			return nil, fmt.Errorf("expected a number, found %q", tok)
		}
	}
	return
}

func (tr *tokenReader) ints(n int) (vals []int, err error) {
	var tok string
	if err = tr.want(n); err != nil {
		return
	}
	vals = make([]int, n)
	for i := range vals {
		if tok, err = tr.next(); err != nil {
			return
		}
		if vals[i], err = strconv.Atoi(tok); err != nil {
			return nil, fmt.Errorf("expected an integer, found %q", tok)
		}
	}
	return
}

func parseLegacyVTK(fileName string, content []byte) (md *types.MeshData, err error) {
	var (
		scanner                   = bufio.NewScanner(bytes.NewReader(content))
		header                    [3]string
		tr                        tokenReader
		mesh                      types.Mesh
		cells, cellTypes          []int
		numPoints, numCells       int
		fields                    []*types.PointField
		havePoints, haveCellTypes bool
	)
	scanner.Buffer(make([]byte, 1024*1024), len(content)+1)
	for i := range header {
		if !scanner.Scan() {
			return nil, fmt.Errorf("file ends inside the header")
		}
		header[i] = strings.TrimSpace(scanner.Text())
	}
	if !strings.HasPrefix(header[0], "# vtk DataFile") {
		return nil, fmt.Errorf("missing \"# vtk DataFile\" header")
	}
	if strings.ToUpper(header[2]) != "ASCII" {
		return nil, fmt.Errorf("only ASCII legacy files are supported, found %q", header[2])
	}
	for scanner.Scan() {
		tr.tokens = append(tr.tokens, strings.Fields(scanner.Text())...)
	}
	if err = scanner.Err(); err != nil {
		return
	}
	for !tr.done() {
		var keyword string
		if keyword, err = tr.next(); err != nil {
			return
		}
		switch strings.ToUpper(keyword) {
		case "DATASET":
			var kind string
			if kind, err = tr.next(); err != nil {
				return
			}
			if strings.ToUpper(kind) != "UNSTRUCTURED_GRID" {
				return nil, fmt.Errorf("expected DATASET UNSTRUCTURED_GRID, found %q", kind)
			}
		case "POINTS":
			if numPoints, err = tr.nextCount(); err != nil {
				return
			}
			_, _ = tr.next() // data type
			var vals []float64
			if vals, err = tr.floats(3 * numPoints); err != nil {
				return nil, fmt.Errorf("POINTS: %w", err)
			}
			mesh.X, mesh.Y = make([]float64, numPoints), make([]float64, numPoints)
			for i := 0; i < numPoints; i++ {
				mesh.X[i], mesh.Y[i] = vals[3*i], vals[3*i+1]
			}
			havePoints = true
		case "CELLS":
			if cells, numCells, err = readLegacyCells(&tr); err != nil {
				return nil, fmt.Errorf("CELLS: %w", err)
			}
		case "CELL_TYPES":
			var n int
			if n, err = tr.nextCount(); err != nil {
				return
			}
			if n != numCells {
				return nil, fmt.Errorf("CELL_TYPES has %d entries for %d cells", n, numCells)
			}
			if cellTypes, err = tr.ints(n); err != nil {
				return nil, fmt.Errorf("CELL_TYPES: %w", err)
			}
			haveCellTypes = true
		case "POINT_DATA":
			var n int
			if n, err = tr.nextCount(); err != nil {
				return
			}
			if n != numPoints {
				return nil, fmt.Errorf("POINT_DATA has %d entries for %d points", n, numPoints)
			}
			var pd []*types.PointField
			if pd, err = readLegacyAttributes(&tr, n); err != nil {
				return nil, fmt.Errorf("POINT_DATA: %w", err)
			}
			fields = append(fields, pd...)
		case "CELL_DATA":
			// Cell attributes are read to advance past them and then dropped
			var n int
			if n, err = tr.nextCount(); err != nil {
				return
			}
			if _, err = readLegacyAttributes(&tr, n); err != nil {
				return nil, fmt.Errorf("CELL_DATA: %w", err)
			}
		default:
			return nil, fmt.Errorf("unsupported keyword %q", keyword)
		}
	}
	if !havePoints {
		return nil, fmt.Errorf("no POINTS section")
	}
	if haveCellTypes {
		mesh.Triangles, err = TrianglesFromCells(cells, cellTypes)
	} else {
		mesh.Triangles, err = TrianglesFromCellArray(cells)
	}
	if err != nil {
		return
	}
	if err = mesh.Validate(); err != nil {
		return
	}
	md = types.NewMeshData(fileName, mesh)
	for _, pf := range fields {
		if err = md.AddField(pf); err != nil {
			return nil, err
		}
	}
	return
}

// readLegacyCells returns the classic flat cell array for either layout
func readLegacyCells(tr *tokenReader) (cells []int, numCells int, err error) {
	var (
		n, size int
	)
	if n, err = tr.nextCount(); err != nil {
		return
	}
	if size, err = tr.nextCount(); err != nil {
		return
	}
	if strings.ToUpper(tr.peek()) != "OFFSETS" {
		if cells, err = tr.ints(size); err != nil {
			return
		}
		return cells, n, nil
	}
	var offsets, connectivity []int
	_, _ = tr.next()
	_, _ = tr.next() // data type
	if offsets, err = tr.ints(n); err != nil {
		return
	}
	if tok, _ := tr.next(); strings.ToUpper(tok) != "CONNECTIVITY" {
		return nil, 0, fmt.Errorf("expected CONNECTIVITY after OFFSETS, found %q", tok)
	}
	_, _ = tr.next() // data type
	if connectivity, err = tr.ints(size); err != nil {
		return
	}
	// Offsets hold n = cells+1 entries starting at zero
	if len(offsets) == 0 || offsets[0] != 0 {
		return nil, 0, fmt.Errorf("OFFSETS must start at 0")
	}
	if cells, err = FlatCellArray(connectivity, offsets[1:]); err != nil {
		return
	}
	return cells, n - 1, nil
}

func readLegacyAttributes(tr *tokenReader, n int) (fields []*types.PointField, err error) {
	for !tr.done() {
		var (
			kind, name string
			nComp      int
			vals       []float64
		)
		switch strings.ToUpper(tr.peek()) {
		case "POINT_DATA", "CELL_DATA":
			return
		}
		kind, _ = tr.next()
		switch strings.ToUpper(kind) {
		case "SCALARS":
			if name, err = tr.next(); err != nil {
				return
			}
			_, _ = tr.next() // data type
			nComp = 1
			if c, cerr := strconv.Atoi(tr.peek()); cerr == nil {
				if c < 1 || c > 4 {
					return nil, fmt.Errorf("SCALARS %q has %d components, 1 to 4 allowed", name, c)
				}
				nComp = c
				_, _ = tr.next()
			}
			if strings.ToUpper(tr.peek()) == "LOOKUP_TABLE" {
				_, _ = tr.next()
				_, _ = tr.next()
			}
		case "VECTORS", "NORMALS":
			if name, err = tr.next(); err != nil {
				return
			}
			_, _ = tr.next()
			nComp = 3
		case "FIELD":
			var nArrays int
			_, _ = tr.next() // field data name
			if nArrays, err = tr.nextCount(); err != nil {
				return
			}
			for i := 0; i < nArrays; i++ {
				var nTuples int
				if name, err = tr.next(); err != nil {
					return
				}
				if nComp, err = tr.nextCount(); err != nil {
					return
				}
				if nTuples, err = tr.nextCount(); err != nil {
					return
				}
				_, _ = tr.next()
				if nTuples != n {
					return nil, fmt.Errorf("field array %q has %d tuples, expected %d", name, nTuples, n)
				}
				if vals, err = tr.floats(nComp * n); err != nil {
					return nil, fmt.Errorf("field array %q: %w", name, err)
				}
				fields = append(fields, types.NewPointField(name, 0, nComp, vals))
			}
			continue
		default:
			return nil, fmt.Errorf("unsupported attribute %q", kind)
		}
		if vals, err = tr.floats(nComp * n); err != nil {
			return nil, fmt.Errorf("%s %q: %w", kind, name, err)
		}
		fields = append(fields, types.NewPointField(name, 0, nComp, vals))
	}
	return
}
