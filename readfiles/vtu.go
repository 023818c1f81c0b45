package readfiles

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"

	"github.com/notargets/vtkplot/types"
)

type vtkFile struct {
	XMLName    xml.Name          `xml:"VTKFile"`
	Type       string            `xml:"type,attr"`
	Version    string            `xml:"version,attr"`
	ByteOrder  string            `xml:"byte_order,attr"`
	HeaderType string            `xml:"header_type,attr"`
	Compressor string            `xml:"compressor,attr"`
	Grid       *unstructuredGrid `xml:"UnstructuredGrid"`
	Collection *collection       `xml:"Collection"`
	Appended   *appendedData     `xml:"AppendedData"`
}

type unstructuredGrid struct {
	Pieces []piece `xml:"Piece"`
}

type arrayList struct {
	Arrays []dataArray `xml:"DataArray"`
}

type piece struct {
	NumberOfPoints int       `xml:"NumberOfPoints,attr"`
	NumberOfCells  int       `xml:"NumberOfCells,attr"`
	PointData      arrayList `xml:"PointData"`
	Points         arrayList `xml:"Points"`
	Cells          arrayList `xml:"Cells"`
}

type appendedData struct {
	Encoding string `xml:"encoding,attr"`
}

// ReadVTKData loads a mesh and its point fields, the reader is chosen by
// file extension
func ReadVTKData(path string) (md *types.MeshData, err error) {
	var (
		fileName string
	)
	if fileName, err = homedir.Expand(path); err != nil {
		return nil, &types.FileFormatError{Path: path, Err: err}
	}
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".vtu":
		return ReadVTU(fileName)
	case ".vtk":
		return ReadLegacyVTK(fileName)
	default:
		return nil, types.NewFileFormatError(path, "unsupported mesh format %q", filepath.Ext(fileName))
	}
}

// ReadVTU reads an XML UnstructuredGrid file
func ReadVTU(fileName string) (md *types.MeshData, err error) {
	var (
		content  []byte
		vf       vtkFile
		ad       *arrayDecoder
		appended []byte
	)
	if content, err = os.ReadFile(fileName); err != nil {
		return nil, &types.FileFormatError{Path: fileName, Err: err}
	}
	// Raw appended data is not valid XML, it is cut out before parsing
	content, appended = splitAppendedData(content)
	if err = xml.Unmarshal(content, &vf); err != nil {
		return nil, &types.FileFormatError{Path: fileName, Err: err}
	}
	if vf.Type != "UnstructuredGrid" || vf.Grid == nil {
		return nil, types.NewFileFormatError(fileName, "expected an UnstructuredGrid file, found type %q", vf.Type)
	}
	if len(vf.Grid.Pieces) == 0 {
		return nil, types.NewFileFormatError(fileName, "no Piece elements")
	}
	if ad, err = newArrayDecoder(vf.ByteOrder, vf.HeaderType, vf.Compressor); err != nil {
		return nil, &types.FileFormatError{Path: fileName, Err: err}
	}
	if vf.Appended != nil {
		ad.appended = appended
		switch vf.Appended.Encoding {
		case "raw":
		case "base64":
			ad.appendedBase64 = true
		default:
			return nil, types.NewFileFormatError(fileName, "unsupported AppendedData encoding %q", vf.Appended.Encoding)
		}
	}
	if md, err = assemblePieces(fileName, vf.Grid.Pieces, ad); err != nil {
		return nil, &types.FileFormatError{Path: fileName, Err: err}
	}
	return
}

func splitAppendedData(content []byte) (xmlPart, appended []byte) {
	var (
		open = bytes.Index(content, []byte("<AppendedData"))
		end  = bytes.LastIndex(content, []byte("</AppendedData>"))
	)
	if open < 0 || end < open {
		return content, nil
	}
	gt := bytes.IndexByte(content[open:end], '>')
	if gt < 0 {
		return content, nil
	}
	gt += open
	underscore := bytes.IndexByte(content[gt:end], '_')
	if underscore < 0 {
		return content, nil
	}
	appended = content[gt+underscore+1 : end]
	xmlPart = make([]byte, 0, gt+1+len(content)-end)
	xmlPart = append(xmlPart, content[:gt+1]...)
	xmlPart = append(xmlPart, content[end:]...)
	return
}

func findArray(al arrayList, name string) *dataArray {
	for i := range al.Arrays {
		if al.Arrays[i].Name == name {
			return &al.Arrays[i]
		}
	}
	return nil
}

func assemblePieces(fileName string, pieces []piece, ad *arrayDecoder) (md *types.MeshData, err error) {
	var (
		mesh       types.Mesh
		fieldNames []string
		fieldComps []int
		fieldData  [][]float64
	)
	for ip, pc := range pieces {
		offset := len(mesh.X)
		var x, y []float64
		if x, y, err = readPoints(ad, pc); err != nil {
			return nil, fmt.Errorf("piece %d: %w", ip, err)
		}
		mesh.X = append(mesh.X, x...)
		mesh.Y = append(mesh.Y, y...)
		var tris [][3]int
		if tris, err = readCells(ad, pc); err != nil {
			return nil, fmt.Errorf("piece %d: %w", ip, err)
		}
		for _, tri := range tris {
			for n := range tri {
				if tri[n] < 0 || tri[n] >= pc.NumberOfPoints {
					return nil, fmt.Errorf("piece %d: connectivity index %d outside %d points",
						ip, tri[n], pc.NumberOfPoints)
				}
				tri[n] += offset
			}
			mesh.Triangles = append(mesh.Triangles, tri)
		}
		if ip == 0 {
			for i, da := range pc.PointData.Arrays {
				name := da.Name
				if name == "" {
					name = fmt.Sprintf("field%d", i)
				}
				fieldNames = append(fieldNames, name)
				fieldComps = append(fieldComps, da.Components())
			}
			fieldData = make([][]float64, len(fieldNames))
		} else if len(pc.PointData.Arrays) != len(fieldNames) {
			return nil, fmt.Errorf("piece %d has %d point arrays, piece 0 has %d",
				ip, len(pc.PointData.Arrays), len(fieldNames))
		}
		for i := range pc.PointData.Arrays {
			da := &pc.PointData.Arrays[i]
			if da.Components() != fieldComps[i] {
				return nil, fmt.Errorf("piece %d: array %q has %d components, expected %d",
					ip, da.Name, da.Components(), fieldComps[i])
			}
			var vals []float64
			if vals, err = ad.Floats(da); err != nil {
				return nil, fmt.Errorf("piece %d: %w", ip, err)
			}
			if len(vals) != pc.NumberOfPoints*fieldComps[i] {
				return nil, fmt.Errorf("piece %d: array %q has %d values, expected %d points x %d components",
					ip, fieldNames[i], len(vals), pc.NumberOfPoints, fieldComps[i])
			}
			fieldData[i] = append(fieldData[i], vals...)
		}
	}
	md = types.NewMeshData(fileName, mesh)
	for i, name := range fieldNames {
		if err = md.AddField(types.NewPointField(name, i, fieldComps[i], fieldData[i])); err != nil {
			return nil, err
		}
	}
	return
}

func readPoints(ad *arrayDecoder, pc piece) (x, y []float64, err error) {
	var (
		vals []float64
	)
	if len(pc.Points.Arrays) != 1 {
		return nil, nil, fmt.Errorf("expected one Points DataArray, found %d", len(pc.Points.Arrays))
	}
	da := &pc.Points.Arrays[0]
	nc := da.Components()
	if nc < 2 {
		return nil, nil, fmt.Errorf("points have %d components, need at least 2", nc)
	}
	if vals, err = ad.Floats(da); err != nil {
		return
	}
	if len(vals) != nc*pc.NumberOfPoints {
		return nil, nil, fmt.Errorf("points array has %d values, expected %d points x %d components",
			len(vals), pc.NumberOfPoints, nc)
	}
	x, y = make([]float64, pc.NumberOfPoints), make([]float64, pc.NumberOfPoints)
	for i := range x {
		x[i], y[i] = vals[i*nc], vals[i*nc+1]
	}
	return
}

func readCells(ad *arrayDecoder, pc piece) (tris [][3]int, err error) {
	var (
		connectivity, offsets, cellTypes, cells []int
		names                                   = []string{"connectivity", "offsets", "types"}
		targets                                 = []*[]int{&connectivity, &offsets, &cellTypes}
	)
	for i, name := range names {
		da := findArray(pc.Cells, name)
		if da == nil {
			return nil, fmt.Errorf("missing Cells DataArray %q", name)
		}
		if *targets[i], err = ad.Ints(da); err != nil {
			return
		}
	}
	if len(offsets) != pc.NumberOfCells || len(cellTypes) != pc.NumberOfCells {
		return nil, fmt.Errorf("%d offsets and %d types for %d cells",
			len(offsets), len(cellTypes), pc.NumberOfCells)
	}
	if cells, err = FlatCellArray(connectivity, offsets); err != nil {
		return
	}
	return TrianglesFromCells(cells, cellTypes)
}
