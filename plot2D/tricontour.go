package plot2D

import (
	"image/color"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/notargets/vtkplot/geometry2D"
	"github.com/notargets/vtkplot/types"
	"github.com/notargets/vtkplot/utils"
)

const (
	DefaultLineLevels   = 10
	DefaultFilledLevels = 128
)

// ColorbarStyle holds the colorbar settings a contour call may pass
type ColorbarStyle struct {
	Title      string
	Boundaries []float64 // Outer values of the bar, the color range when empty
	Ticks      []float64 // Default ticks when empty
}

// ContourOptions are passed by value and never modified by the plot calls.
// VMin and VMax both zero means the color range is the data range
type ContourOptions struct {
	Filled        bool
	Levels        []float64
	NumLevels     int
	VMin, VMax    float64
	Transform     func(float64) float64
	BlankEdges    bool
	ColorMap      string
	Color         string // Single color for all line contours
	LineWidth     float64
	Colorbar      bool
	ColorbarStyle ColorbarStyle
}

// TriContour draws contours of a field that is linear over every triangle
// of the mesh
type TriContour struct {
	X, Y      []float64
	Triangles [][3]int
	F         []float64 // Transformed values
	filled    bool
	levels    []float64
	cmap      palette.ColorMap
	color     color.Color
	lineWidth vg.Length
	blank     bool
	bands     [][]*geometry2D.Polygon
	lines     [][]geometry2D.Segment
}

func (tc *TriContour) Min() float64               { return tc.cmap.Min() }
func (tc *TriContour) Max() float64               { return tc.cmap.Max() }
func (tc *TriContour) ColorMap() palette.ColorMap { return tc.cmap }
func (tc *TriContour) Filled() bool               { return tc.filled }

func (tc *TriContour) Levels() []float64 {
	return append([]float64(nil), tc.levels...)
}

// NewTriContour computes the contour geometry for the values F on the mesh
func NewTriContour(mesh types.Mesh, F []float64, opts ContourOptions) (tc *TriContour, err error) {
	var (
		vals = make([]float64, len(F))
	)
	for i, f := range F {
		vals[i] = f
		if opts.Transform != nil {
			vals[i] = opts.Transform(f)
		}
	}
	tc = &TriContour{
		X:         mesh.X,
		Y:         mesh.Y,
		Triangles: mesh.Triangles,
		F:         vals,
		filled:    opts.Filled,
		lineWidth: vg.Points(opts.LineWidth),
		blank:     opts.BlankEdges,
	}
	if opts.LineWidth <= 0 {
		tc.lineWidth = vg.Points(1)
	}
	lo, hi := opts.VMin, opts.VMax
	if lo == 0 && hi == 0 {
		lo, hi = utils.MinMax(vals)
	}
	if tc.cmap, err = NewColorMap(opts.ColorMap, lo, hi); err != nil {
		return nil, err
	}
	if opts.Color != "" {
		if tc.color, err = ParseColor(opts.Color); err != nil {
			return nil, err
		}
	}
	// Levels cover the data, VMin and VMax only normalize the colors
	dataLo, dataHi := normalRange(utils.MinMax(vals))
	tc.levels = contourLevels(opts, dataLo, dataHi)
	if tc.filled {
		for k := 0; k+1 < len(tc.levels); k++ {
			tc.bands = append(tc.bands, geometry2D.BandPolygons(tc.X, tc.Y, vals, tc.Triangles,
				tc.levels[k], tc.levels[k+1]))
		}
	} else {
		for _, level := range tc.levels {
			tc.lines = append(tc.lines, geometry2D.IsoSegments(tc.X, tc.Y, vals, tc.Triangles, level))
		}
	}
	return
}

// contourLevels are the explicit levels sorted, or evenly spaced values over
// the color range. Filled contours use them as band boundaries
func contourLevels(opts ContourOptions, lo, hi float64) (levels []float64) {
	if len(opts.Levels) != 0 {
		levels = append(levels, opts.Levels...)
		sort.Float64s(levels)
		return
	}
	n := opts.NumLevels
	if n <= 0 {
		n = DefaultLineLevels
	}
	if opts.Filled {
		return utils.Linspace(lo, hi, n+1)
	}
	return utils.Linspace(lo, hi, n)
}

func (tc *TriContour) bandColor(k int) color.Color {
	return colorAt(tc.cmap, 0.5*(tc.levels[k]+tc.levels[k+1]))
}

func (tc *TriContour) lineColor(k int) color.Color {
	if tc.color != nil {
		return tc.color
	}
	return colorAt(tc.cmap, tc.levels[k])
}

func (tc *TriContour) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	toVG := func(pt geometry2D.Point) vg.Point {
		return vg.Point{X: trX(pt.X[0]), Y: trY(pt.X[1])}
	}
	for k, band := range tc.bands {
		clr := tc.bandColor(k)
		for _, poly := range band {
			pts := make([]vg.Point, len(poly.Geometry))
			for i, pt := range poly.Geometry {
				pts[i] = toVG(pt)
			}
			c.FillPolygon(clr, c.ClipPolygonXY(pts))
			if tc.blank {
				edge := draw.LineStyle{Color: clr, Width: vg.Points(0.5)}
				c.StrokeLines(edge, c.ClipLinesXY(append(pts, pts[0]))...)
			}
		}
	}
	for k, segs := range tc.lines {
		sty := draw.LineStyle{Color: tc.lineColor(k), Width: tc.lineWidth}
		for _, seg := range segs {
			line := []vg.Point{toVG(seg[0]), toVG(seg[1])}
			c.StrokeLines(sty, c.ClipLinesXY(line)...)
		}
	}
}

func (tc *TriContour) DataRange() (xmin, xmax, ymin, ymax float64) {
	bb := geometry2D.NewBoundingBox(tc.X, tc.Y)
	if bb == nil {
		return 0, 1, 0, 1
	}
	return bb.XMin[0], bb.XMax[0], bb.XMin[1], bb.XMax[1]
}

// PlotScalarFieldContours contours a scalar field on the native mesh
// triangulation. The colorbar is nil unless opts.Colorbar is set
func PlotScalarFieldContours(md *types.MeshData, key string, opts ContourOptions,
	s *Surface) (so *Surface, cb *Colorbar, tc *TriContour, err error) {
	var (
		pf *types.PointField
	)
	if pf, err = md.ScalarField(key); err != nil {
		return s, nil, nil, err
	}
	if tc, err = NewTriContour(md.Mesh, pf.Data, opts); err != nil {
		return s, nil, nil, err
	}
	so = surfaceOrNew(s)
	so.addLayer(tc)
	if opts.Colorbar {
		cb = NewColorbar(tc, opts.ColorbarStyle)
		so.addColorbar(cb)
	}
	return
}

// PlotScalarField draws filled contours, 128 levels unless the options say
// otherwise
func PlotScalarField(md *types.MeshData, key string, opts ContourOptions,
	s *Surface) (*Surface, *Colorbar, *TriContour, error) {
	opts.Filled = true
	if opts.NumLevels <= 0 && len(opts.Levels) == 0 {
		opts.NumLevels = DefaultFilledLevels
	}
	return PlotScalarFieldContours(md, key, opts, s)
}
