package readfiles

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/vtkplot/types"
)

const testDir = "../testdata/freeze_water"

func createTempFile(t *testing.T, name, content string) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return tmpFile
}

// checkFreezeWater verifies one snapshot of the test series, T = (x + t*y)/(1 + t)
func checkFreezeWater(t *testing.T, md *types.MeshData, time float64) {
	t.Helper()
	require.Equal(t, 81, md.NumPoints())
	require.Equal(t, 128, md.NumTriangles())
	require.NoError(t, md.Validate())
	assert.Equal(t, []string{"p", "u", "T"}, md.FieldNames())
	for _, f := range md.Fields {
		assert.Equal(t, md.NumPoints(), f.Len())
	}
	u, err := md.FieldAt(1)
	require.NoError(t, err)
	assert.Equal(t, types.Vector, u.Kind)
	assert.Equal(t, 2, u.NumComponents)
	T, err := md.FieldAt(2)
	require.NoError(t, err)
	assert.Equal(t, types.Scalar, T.Kind)
	min, max := T.Range()
	assert.InDelta(t, 0, min, 1.e-6)
	assert.InDelta(t, 1, max, 1.e-6)
	for i := 0; i < md.NumPoints(); i++ {
		x, y := md.X[i], md.Y[i]
		assert.InDelta(t, (x+time*y)/(1+time), T.Data[i], 1.e-6)
		assert.InDelta(t, -(y - 0.5), u.Data[2*i], 1.e-6)
		assert.InDelta(t, x-0.5, u.Data[2*i+1], 1.e-6)
	}
	// Second triangle of the first row of cells
	assert.Equal(t, [3]int{0, 10, 9}, md.Triangles[1])
}

func TestReadVTU(t *testing.T) {
	testCases := []struct {
		name string
		file string
		time float64
	}{
		{name: "ascii", file: "solution_0.vtu", time: 0},
		{name: "inline base64", file: "solution_1.vtu", time: 0.5},
		{name: "appended raw zlib", file: "solution_2.vtu", time: 1},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			md, err := ReadVTKData(filepath.Join(testDir, tc.file))
			require.NoError(t, err)
			checkFreezeWater(t, md, tc.time)
		})
	}
}

func TestReadVTU_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		file    string
		content string
		errMsg  string
	}{
		{
			name:    "not xml",
			file:    "a.vtu",
			content: "this is not a mesh",
			errMsg:  "EOF",
		},
		{
			name:    "wrong grid type",
			file:    "a.vtu",
			content: `<VTKFile type="PolyData" version="0.1"><PolyData/></VTKFile>`,
			errMsg:  "UnstructuredGrid",
		},
		{
			name: "connectivity out of range",
			file: "a.vtu",
			content: `<VTKFile type="UnstructuredGrid" version="0.1"><UnstructuredGrid>
<Piece NumberOfPoints="3" NumberOfCells="1">
<Points><DataArray type="Float32" NumberOfComponents="3" format="ascii">0 0 0 1 0 0 0 1 0</DataArray></Points>
<Cells>
<DataArray type="Int32" Name="connectivity" format="ascii">0 1 3</DataArray>
<DataArray type="Int32" Name="offsets" format="ascii">3</DataArray>
<DataArray type="UInt8" Name="types" format="ascii">5</DataArray>
</Cells></Piece></UnstructuredGrid></VTKFile>`,
			errMsg: "connectivity index 3",
		},
		{
			name: "field length mismatch",
			file: "a.vtu",
			content: `<VTKFile type="UnstructuredGrid" version="0.1"><UnstructuredGrid>
<Piece NumberOfPoints="3" NumberOfCells="1">
<PointData><DataArray type="Float64" Name="T" format="ascii">0 1</DataArray></PointData>
<Points><DataArray type="Float32" NumberOfComponents="3" format="ascii">0 0 0 1 0 0 0 1 0</DataArray></Points>
<Cells>
<DataArray type="Int32" Name="connectivity" format="ascii">0 1 2</DataArray>
<DataArray type="Int32" Name="offsets" format="ascii">3</DataArray>
<DataArray type="UInt8" Name="types" format="ascii">5</DataArray>
</Cells></Piece></UnstructuredGrid></VTKFile>`,
			errMsg: `array "T" has 2 values`,
		},
		{
			name: "tetrahedron",
			file: "a.vtu",
			content: `<VTKFile type="UnstructuredGrid" version="0.1"><UnstructuredGrid>
<Piece NumberOfPoints="4" NumberOfCells="1">
<Points><DataArray type="Float32" NumberOfComponents="3" format="ascii">0 0 0 1 0 0 0 1 0 0 0 1</DataArray></Points>
<Cells>
<DataArray type="Int32" Name="connectivity" format="ascii">0 1 2 3</DataArray>
<DataArray type="Int32" Name="offsets" format="ascii">4</DataArray>
<DataArray type="UInt8" Name="types" format="ascii">10</DataArray>
</Cells></Piece></UnstructuredGrid></VTKFile>`,
			errMsg: "unsupported cell type 10",
		},
		{
			name:    "unknown extension",
			file:    "a.msh",
			content: "",
			errMsg:  "unsupported mesh format",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tmpFile := createTempFile(t, tc.file, tc.content)
			md, err := ReadVTKData(tmpFile)
			require.Error(t, err)
			assert.Nil(t, md)
			assert.True(t, errors.Is(err, types.ErrFileFormat))
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
	{ // Missing files are format errors too
		_, err := ReadVTKData(filepath.Join(t.TempDir(), "missing.vtu"))
		assert.True(t, errors.Is(err, types.ErrFileFormat))
		assert.True(t, errors.Is(err, os.ErrNotExist))
	}
}

func TestReadVTU_MultiplePiecesAndQuads(t *testing.T) {
	content := `<?xml version="1.0"?>
<VTKFile type="UnstructuredGrid" version="0.1" byte_order="LittleEndian">
<UnstructuredGrid>
<Piece NumberOfPoints="4" NumberOfCells="1">
<PointData><DataArray type="Float64" Name="T" format="ascii">0 1 2 3</DataArray></PointData>
<Points><DataArray type="Float64" NumberOfComponents="3" format="ascii">0 0 0 1 0 0 1 1 0 0 1 0</DataArray></Points>
<Cells>
<DataArray type="Int32" Name="connectivity" format="ascii">0 1 2 3</DataArray>
<DataArray type="Int32" Name="offsets" format="ascii">4</DataArray>
<DataArray type="UInt8" Name="types" format="ascii">9</DataArray>
</Cells>
</Piece>
<Piece NumberOfPoints="3" NumberOfCells="1">
<PointData><DataArray type="Float64" Name="T" format="ascii">4 5 6</DataArray></PointData>
<Points><DataArray type="Float64" NumberOfComponents="2" format="ascii">1 0 2 0 1 1</DataArray></Points>
<Cells>
<DataArray type="Int32" Name="connectivity" format="ascii">0 1 2</DataArray>
<DataArray type="Int32" Name="offsets" format="ascii">3</DataArray>
<DataArray type="UInt8" Name="types" format="ascii">5</DataArray>
</Cells>
</Piece>
</UnstructuredGrid>
</VTKFile>`
	md, err := ReadVTU(createTempFile(t, "pieces.vtu", content))
	require.NoError(t, err)
	assert.Equal(t, 7, md.NumPoints())
	assert.Equal(t, [][3]int{{0, 1, 2}, {0, 2, 3}, {4, 5, 6}}, md.Triangles)
	T, err := md.Field("T")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2, 3, 4, 5, 6}, T.Data)
	assert.Equal(t, 2., md.X[5])
}

func TestCellArrays(t *testing.T) {
	{ // Every fourth value is a count marker
		tris, err := TrianglesFromCellArray([]int{3, 0, 1, 2, 3, 2, 3, 0})
		require.NoError(t, err)
		assert.Equal(t, [][3]int{{0, 1, 2}, {2, 3, 0}}, tris)
	}
	{ // A quad in the stream breaks the constant-3 layout
		_, err := TrianglesFromCellArray([]int{4, 0, 1, 2, 3, 3, 0, 2, 3})
		assert.Error(t, err)
		_, err = TrianglesFromCellArray([]int{4, 0, 1, 2})
		assert.Error(t, err)
	}
	{
		cells, err := FlatCellArray([]int{0, 1, 2, 0, 2, 3, 4}, []int{3, 7})
		require.NoError(t, err)
		assert.Equal(t, []int{3, 0, 1, 2, 4, 0, 2, 3, 4}, cells)
		tris, err := TrianglesFromCells(cells, []int{VTK_TRIANGLE, VTK_POLYGON})
		require.NoError(t, err)
		assert.Equal(t, [][3]int{{0, 1, 2}, {0, 2, 3}, {0, 3, 4}}, tris)
		_, err = FlatCellArray([]int{0, 1, 2}, []int{4})
		assert.Error(t, err)
	}
	{
		tris, err := TrianglesFromCells([]int{4, 0, 1, 2, 3}, []int{VTK_PIXEL})
		require.NoError(t, err)
		assert.Equal(t, [][3]int{{0, 1, 3}, {0, 3, 2}}, tris)
		tris, err = TrianglesFromCells([]int{6, 0, 1, 2, 3, 4, 5}, []int{VTK_QUADRATIC_TRIANGLE})
		require.NoError(t, err)
		assert.Equal(t, [][3]int{{0, 1, 2}}, tris)
		_, err = TrianglesFromCells([]int{2, 0, 1}, []int{VTK_LINE})
		assert.Error(t, err)
	}
}

var legacyFile = `# vtk DataFile Version 3.0
two triangles with data
ASCII
DATASET UNSTRUCTURED_GRID
POINTS 4 float
0 0 0  1 0 0  1 1 0
0 1 0
CELLS 2 8
3 0 1 2
3 0 2 3
CELL_TYPES 2
5 5
CELL_DATA 2
SCALARS id int 1
LOOKUP_TABLE default
0 1
POINT_DATA 4
SCALARS T double
LOOKUP_TABLE default
0 0.5 1 0.5
VECTORS u double
1 0 0  0 1 0  -1 0 0  0 -1 0
FIELD FieldData 1
p 1 4 double
4 3 2 1
`

var legacyFile51 = `# vtk DataFile Version 5.1
offsets layout
ASCII
DATASET UNSTRUCTURED_GRID
POINTS 4 float
0 0 0 1 0 0 1 1 0 0 1 0
CELLS 3 6
OFFSETS vtktypeint64
0 3 6
CONNECTIVITY vtktypeint64
0 1 2 0 2 3
CELL_TYPES 2
5
5
`

func TestReadLegacyVTK(t *testing.T) {
	{
		md, err := ReadVTKData(createTempFile(t, "legacy.vtk", legacyFile))
		require.NoError(t, err)
		assert.Equal(t, 4, md.NumPoints())
		assert.Equal(t, [][3]int{{0, 1, 2}, {0, 2, 3}}, md.Triangles)
		assert.Equal(t, []string{"T", "u", "p"}, md.FieldNames())
		u, err := md.VectorField("u")
		require.NoError(t, err)
		assert.Equal(t, 3, u.NumComponents)
		assert.Equal(t, []float64{1, 0, -1, 0}, u.Component(0))
		p, err := md.ScalarField("2")
		require.NoError(t, err)
		assert.Equal(t, []float64{4, 3, 2, 1}, p.Data)
	}
	{
		md, err := ReadVTKData(createTempFile(t, "legacy51.vtk", legacyFile51))
		require.NoError(t, err)
		assert.Equal(t, [][3]int{{0, 1, 2}, {0, 2, 3}}, md.Triangles)
		assert.Empty(t, md.Fields)
	}
	{
		_, err := ReadVTKData(createTempFile(t, "bin.vtk", "# vtk DataFile Version 3.0\nx\nBINARY\n"))
		assert.True(t, errors.Is(err, types.ErrFileFormat))
	}
}

func TestReadLegacyVTK_BadCounts(t *testing.T) {
	const head = "# vtk DataFile Version 3.0\nx\nASCII\nDATASET UNSTRUCTURED_GRID\n"
	const points = "POINTS 3 float\n0 0 0 1 0 0 0 1 0\n"
	const cells = "CELLS 1 4\n3 0 1 2\nCELL_TYPES 1\n5\n"
	testCases := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"negative points", head + "POINTS -1 float\n", "count -1"},
		{"too many points", head + "POINTS 99999999999 float\n0 0 0\n", "count 99999999999"},
		{"points overflow", head + "POINTS 3074457345618258603 float\n0 0 0\n", "out of range"},
		{"negative cell size", head + points + "CELLS 1 -4\n", "count -4"},
		{"negative cells", head + points + "CELLS -2 6\nOFFSETS vtktypeint64\n0 3\n", "count -2"},
		{"cells beyond the file", head + points + "CELLS 1 40\n3 0 1 2\n", "count 40"},
		{"short cells", head + points + "CELLS 1 8\n3 0 1 2\n", "8 values expected"},
		{"negative cell types", head + points + "CELLS 1 4\n3 0 1 2\nCELL_TYPES -1\n", "count -1"},
		{"negative components", head + points + cells + "POINT_DATA 3\nFIELD FieldData 1\np -1 3 double\n", "count -1"},
		{"negative scalar components", head + points + cells + "POINT_DATA 3\nSCALARS T double -3\n", "-3 components"},
		{"huge scalar components", head + points + cells + "POINT_DATA 3\nSCALARS T double 6148914691236517206\n", "components"},
		{"short field", head + points + cells + "POINT_DATA 3\nSCALARS T double\nLOOKUP_TABLE default\n0 1\n", "3 values expected"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var (
				md  *types.MeshData
				err error
			)
			require.NotPanics(t, func() {
				md, err = ReadVTKData(createTempFile(t, "bad.vtk", tc.content))
			})
			require.Error(t, err)
			assert.Nil(t, md)
			var ffe *types.FileFormatError
			assert.True(t, errors.As(err, &ffe))
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestArrayDecoder(t *testing.T) {
	{ // Big endian UInt64 header, base64 inline
		ad, err := newArrayDecoder("BigEndian", "UInt64", "")
		require.NoError(t, err)
		// header = 8 (bytes), data = float64(1.5) big endian
		da := &dataArray{Type: "Float64", Format: "binary",
			Text: " AAAAAAAAAAg= P/gAAAAAAAA= "}
		vals, err := ad.Floats(da)
		require.NoError(t, err)
		assert.Equal(t, []float64{1.5}, vals)
	}
	{
		ad, err := newArrayDecoder("", "", "")
		require.NoError(t, err)
		_, err = ad.Floats(&dataArray{Type: "Float16", Format: "ascii", Text: "1"})
		assert.Error(t, err)
		ints, err := ad.Ints(&dataArray{Type: "Int32", Format: "ascii", Text: "1 2\n 3"})
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, ints)
		_, err = ad.Ints(&dataArray{Type: "Int32", Format: "ascii", Text: "1.5"})
		assert.Error(t, err)
		vals, err := ad.Floats(&dataArray{Type: "Float64", Format: "ascii", Text: "nan 2"})
		require.NoError(t, err)
		assert.True(t, math.IsNaN(vals[0]))
	}
	{
		_, err := newArrayDecoder("", "", "vtkLZ4DataCompressor")
		assert.Error(t, err)
	}
	{ // Header counts beyond the data are rejected, not allocated
		ad, err := newArrayDecoder("BigEndian", "UInt64", "")
		require.NoError(t, err)
		da := &dataArray{Type: "Float64", Format: "binary", Text: "//////////8= P/gAAAAAAAA="}
		require.NotPanics(t, func() { _, err = ad.Floats(da) })
		assert.ErrorContains(t, err, "header entry 0")
		_, err = ad.decodeRawArray([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 1, 2})
		assert.ErrorContains(t, err, "header entry 0")

		ad, err = newArrayDecoder("BigEndian", "UInt32", "")
		require.NoError(t, err)
		_, err = ad.Floats(&dataArray{Type: "Float64", Format: "binary", Text: "AAAAZA== P/gAAAAAAAA="})
		assert.Error(t, err)

		ad, err = newArrayDecoder("BigEndian", "UInt64", "vtkZLibDataCompressor")
		require.NoError(t, err)
		require.NotPanics(t, func() {
			_, err = ad.Floats(&dataArray{Type: "Float64", Format: "binary",
				Text: "////////////////////////////////"})
		})
		assert.ErrorContains(t, err, "header entry 0")
	}
}

func TestReadPVD(t *testing.T) {
	c, err := ReadPVD(filepath.Join(testDir, "solution.pvd"))
	require.NoError(t, err)
	require.Equal(t, 3, c.Len())
	times := []string{"0", "0.5", "1"}
	for i, ds := range c.DataSets {
		assert.Equal(t, times[i], ds.Time)
		assert.Equal(t, filepath.Join(testDir, "solution_"+string(rune('0'+i))+".vtu"), ds.File)
	}
	assert.Equal(t, 0.5, c.DataSets[1].TimeValue)
	md, err := c.Load(2)
	require.NoError(t, err)
	checkFreezeWater(t, md, 1)

	_, err = ReadPVD(filepath.Join(testDir, "solution_0.vtu"))
	assert.True(t, errors.Is(err, types.ErrFileFormat))
	_, err = ReadPVD(createTempFile(t, "bad.pvd",
		`<VTKFile type="Collection"><Collection><DataSet timestep="x" file="a.vtu"/></Collection></VTKFile>`))
	assert.True(t, errors.Is(err, types.ErrFileFormat))
}
