package plot2D

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/notargets/vtkplot/geometry2D"
	"github.com/notargets/vtkplot/types"
)

// TriMesh draws the edges of a mesh, an edge shared by two triangles is
// stroked once
type TriMesh struct {
	X, Y      []float64
	Edges     []types.EdgeKey
	LineStyle draw.LineStyle
}

func NewTriMesh(mesh types.Mesh) *TriMesh {
	return &TriMesh{
		X:     mesh.X,
		Y:     mesh.Y,
		Edges: mesh.Edges(),
		LineStyle: draw.LineStyle{
			Color: color.Black,
			Width: vg.Points(0.5),
		},
	}
}

func (tm *TriMesh) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	for _, ek := range tm.Edges {
		v := ek.GetVertices(false)
		line := []vg.Point{
			{X: trX(tm.X[v[0]]), Y: trY(tm.Y[v[0]])},
			{X: trX(tm.X[v[1]]), Y: trY(tm.Y[v[1]])},
		}
		c.StrokeLines(tm.LineStyle, c.ClipLinesXY(line)...)
	}
}

func (tm *TriMesh) DataRange() (xmin, xmax, ymin, ymax float64) {
	bb := geometry2D.NewBoundingBox(tm.X, tm.Y)
	if bb == nil {
		return 0, 1, 0, 1
	}
	return bb.XMin[0], bb.XMax[0], bb.XMin[1], bb.XMax[1]
}

// PlotMesh draws the triangle wireframe of the mesh
func PlotMesh(md *types.MeshData, s *Surface) *Surface {
	s = surfaceOrNew(s)
	s.addLayer(NewTriMesh(md.Mesh))
	return s
}
