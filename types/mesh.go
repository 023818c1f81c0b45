package types

import (
	"fmt"
	"math"
	"strconv"
)

type FieldKind uint8

const (
	Scalar FieldKind = iota
	Vector
)

func (fk FieldKind) String() string {
	switch fk {
	case Scalar:
		return "Scalar"
	case Vector:
		return "Vector"
	}
	return "FieldKind(" + strconv.Itoa(int(fk)) + ")"
}

// FieldDescriptor is resolved once when a file is read, so a field is always
// addressed by what it is rather than where it happens to sit in the file.
type FieldDescriptor struct {
	Name          string
	Index         int // Position of the array in the file's point data
	Kind          FieldKind
	NumComponents int
}

// PointField holds one value tuple per mesh point, stored row major:
// component c of point i is Data[i*NumComponents+c]
type PointField struct {
	FieldDescriptor
	Data []float64
}

func NewPointField(name string, index, nComp int, data []float64) (pf *PointField) {
	kind := Scalar
	if nComp > 1 {
		kind = Vector
	}
	pf = &PointField{
		FieldDescriptor: FieldDescriptor{
			Name:          name,
			Index:         index,
			Kind:          kind,
			NumComponents: nComp,
		},
		Data: data,
	}
	return
}

// Len is the number of tuples, which equals the mesh point count
func (pf *PointField) Len() int {
	if pf.NumComponents == 0 {
		return 0
	}
	return len(pf.Data) / pf.NumComponents
}

// Component returns a copy of one component across all points
func (pf *PointField) Component(c int) (comp []float64) {
	var (
		nc = pf.NumComponents
		N  = pf.Len()
	)
	if c < 0 || c >= nc {
		panic(fmt.Errorf("component %d out of range for field %q with %d components", c, pf.Name, nc))
	}
	comp = make([]float64, N)
	for i := 0; i < N; i++ {
		comp[i] = pf.Data[i*nc+c]
	}
	return
}


func (pf *PointField) Range() (min, max float64) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, v := range pf.Data {
		if math.IsNaN(v) {
			continue
		}
		min = math.Min(min, v)
		max = math.Max(max, v)
	}
	return
}

// Mesh is a planar triangulation, only the first two coordinates of each
// point are kept
type Mesh struct {
	X, Y      []float64
	Triangles [][3]int
}

func (m *Mesh) NumPoints() int { return len(m.X) }

func (m *Mesh) NumTriangles() int { return len(m.Triangles) }

// Validate checks that every triangle vertex is a valid point index
func (m *Mesh) Validate() (err error) {
	if len(m.X) != len(m.Y) {
		return fmt.Errorf("coordinate length mismatch: len(X) = %d, len(Y) = %d", len(m.X), len(m.Y))
	}
	Np := len(m.X)
	for k, tri := range m.Triangles {
		for _, v := range tri {
			if v < 0 || v >= Np {
				return fmt.Errorf("triangle %d references point %d, mesh has %d points", k, v, Np)
			}
		}
	}
	return
}

func (m *Mesh) Bounds() (xMin, xMax, yMin, yMax float64) {
	xMin, yMin = math.Inf(1), math.Inf(1)
	xMax, yMax = math.Inf(-1), math.Inf(-1)
	for i, x := range m.X {
		y := m.Y[i]
		xMin, xMax = math.Min(xMin, x), math.Max(xMax, x)
		yMin, yMax = math.Min(yMin, y), math.Max(yMax, y)
	}
	return
}

// MeshData is everything read from one simulation output file
type MeshData struct {
	Mesh
	Source string
	Fields []*PointField
	byName map[string]int
}

func NewMeshData(source string, mesh Mesh) (md *MeshData) {
	md = &MeshData{
		Mesh:   mesh,
		Source: source,
		byName: make(map[string]int),
	}
	return
}

// AddField appends a point field, its Index becomes its position in Fields
func (md *MeshData) AddField(pf *PointField) (err error) {
	if pf.Len() != md.NumPoints() || len(pf.Data) != pf.Len()*pf.NumComponents {
		return fmt.Errorf("field %q has %d values for %d components, mesh has %d points",
			pf.Name, len(pf.Data), pf.NumComponents, md.NumPoints())
	}
	if _, present := md.byName[pf.Name]; present {
		return fmt.Errorf("duplicate field name %q", pf.Name)
	}
	pf.Index = len(md.Fields)
	md.byName[pf.Name] = pf.Index
	md.Fields = append(md.Fields, pf)
	return
}

func (md *MeshData) FieldNames() (names []string) {
	names = make([]string, len(md.Fields))
	for i, f := range md.Fields {
		names[i] = f.Name
	}
	return
}

func (md *MeshData) Field(name string) (*PointField, error) {
	if i, ok := md.byName[name]; ok {
		return md.Fields[i], nil
	}
	return nil, &FieldNotFoundError{Key: name, Available: md.FieldNames()}
}

func (md *MeshData) FieldAt(index int) (*PointField, error) {
	if index < 0 || index >= len(md.Fields) {
		return nil, &FieldNotFoundError{Key: strconv.Itoa(index), Available: md.FieldNames()}
	}
	return md.Fields[index], nil
}

// Resolve looks a key up as a field name first, then as a field index
func (md *MeshData) Resolve(key string) (*PointField, error) {
	if pf, err := md.Field(key); err == nil {
		return pf, nil
	}
	if index, err := strconv.Atoi(key); err == nil {
		return md.FieldAt(index)
	}
	return nil, &FieldNotFoundError{Key: key, Available: md.FieldNames()}
}

func (md *MeshData) ScalarField(key string) (pf *PointField, err error) {
	if pf, err = md.Resolve(key); err != nil {
		return
	}
	if pf.Kind != Scalar {
		return nil, &FieldKindError{Name: pf.Name, Want: Scalar, Got: pf.Kind}
	}
	return
}

func (md *MeshData) VectorField(key string) (pf *PointField, err error) {
	if pf, err = md.Resolve(key); err != nil {
		return
	}
	if pf.Kind != Vector {
		return nil, &FieldKindError{Name: pf.Name, Want: Vector, Got: pf.Kind}
	}
	return
}

func (md *MeshData) String() string {
	s := fmt.Sprintf("%s: %d points, %d triangles\n", md.Source, md.NumPoints(), md.NumTriangles())
	for _, f := range md.Fields {
		min, max := f.Range()
		s += fmt.Sprintf("  [%d] %-16s %-6s x%d  range = [%8.5f, %8.5f]\n",
			f.Index, f.Name, f.Kind, f.NumComponents, min, max)
	}
	return s
}
