package plot2D

import (
	"image/color"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/notargets/vtkplot/interpolate"
	"github.com/notargets/vtkplot/types"
	"github.com/notargets/vtkplot/utils"
)

const (
	DefaultMaxLineWidth = 3.
	// Lengths in axes normalized units, the domain is the unit square
	maxStreamLength = 4.
	minStreamLength = 0.1
)

// StreamOptions style a streamline plot. Line width is
// MaxLineWidth*speed/SpeedScale in points
type StreamOptions struct {
	MaxLineWidth float64 // DefaultMaxLineWidth when zero
	SpeedScale   float64 // Observed max speed when zero
	Color        string
	Density      float64 // Seed mask is 30*Density cells square, 1 when zero
	Resample     int     // N x N grid, the distinct point coordinates when zero
	Arrows       bool
}

// Streamline is a traced trajectory in data coordinates, Widths has one
// entry per segment
type Streamline struct {
	X, Y   []float64
	Widths []float64
}

// StreamSet draws the streamlines of one vector field
type StreamSet struct {
	Lines        []Streamline
	Color        color.Color
	Arrows       bool
	xAxis, yAxis []float64
}

func (ss *StreamSet) Len() int { return len(ss.Lines) }

// LineWidths is maxLineWidth*speed/speedScale at every grid node. A
// speedScale <= 0 is replaced by the largest speed, NaN speeds get width zero
func LineWidths(speed *mat.Dense, maxLineWidth, speedScale float64) (W *mat.Dense) {
	nr, nc := speed.Dims()
	W = mat.NewDense(nr, nc, nil)
	if speedScale <= 0 {
		_, speedScale = utils.DenseMinMax(speed)
	}
	if !(speedScale > 0) {
		return
	}
	W.Apply(func(i, j int, s float64) float64 {
		if math.IsNaN(s) {
			return 0
		}
		return maxLineWidth * s / speedScale
	}, speed)
	return
}

// PlotStreamlines interpolates the vector field onto a regular grid and
// traces streamlines through it. The observed max speed on the grid is
// returned so that a series of plots can share one speed scale
func PlotStreamlines(md *types.MeshData, key string, opts StreamOptions,
	s *Surface) (so *Surface, ss *StreamSet, maxSpeed float64, err error) {
	var (
		pf *types.PointField
		g  *interpolate.Grid
	)
	if pf, err = md.VectorField(key); err != nil {
		return s, nil, 0, err
	}
	if g, err = interpolate.Interpolate(md.X, md.Y,
		[][]float64{pf.Component(0), pf.Component(1)}, opts.Resample); err != nil {
		return s, nil, 0, err
	}
	speed := interpolate.Magnitude(g.Values[0], g.Values[1])
	if _, maxSpeed = utils.DenseMinMax(speed); math.IsNaN(maxSpeed) {
		maxSpeed = 0
	}
	speedScale := opts.SpeedScale
	if speedScale <= 0 {
		speedScale = maxSpeed
	}
	maxLW := opts.MaxLineWidth
	if maxLW <= 0 {
		maxLW = DefaultMaxLineWidth
	}
	if ss, err = NewStreamSet(g, LineWidths(speed, maxLW, speedScale), opts); err != nil {
		return s, nil, 0, err
	}
	so = surfaceOrNew(s)
	so.addLayer(ss)
	return
}

// NewStreamSet traces streamlines through the grid velocity g.Values[0:2],
// widths holds the line width at every grid node
func NewStreamSet(g *interpolate.Grid, widths *mat.Dense, opts StreamOptions) (ss *StreamSet, err error) {
	ss = &StreamSet{
		Arrows: opts.Arrows,
		xAxis:  g.XAxis,
		yAxis:  g.YAxis,
	}
	if ss.Color, err = colorOrDefault(opts.Color, color.Black); err != nil {
		return nil, err
	}
	density := opts.Density
	if density <= 0 {
		density = 1
	}
	tr := newTracer(g, widths, int(math.Max(1, math.Round(30*density))))
	ss.Lines = tr.traceAll()
	return
}

func (ss *StreamSet) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	for _, sl := range ss.Lines {
		var maxW float64
		for i, w := range sl.Widths {
			maxW = math.Max(maxW, w)
			if !(w > 0) {
				continue
			}
			sty := draw.LineStyle{Color: ss.Color, Width: vg.Points(w)}
			seg := []vg.Point{
				{X: trX(sl.X[i]), Y: trY(sl.Y[i])},
				{X: trX(sl.X[i+1]), Y: trY(sl.Y[i+1])},
			}
			c.StrokeLines(sty, c.ClipLinesXY(seg)...)
		}
		if ss.Arrows && len(sl.X) > 2 {
			mid := len(sl.X) / 2
			from := vg.Point{X: trX(sl.X[mid-1]), Y: trY(sl.Y[mid-1])}
			to := vg.Point{X: trX(sl.X[mid]), Y: trY(sl.Y[mid])}
			ss.arrowHead(c, from, to, vg.Points(2+2*maxW))
		}
	}
}

func (ss *StreamSet) arrowHead(c draw.Canvas, from, to vg.Point, size vg.Length) {
	d := to.Sub(from)
	length := vg.Length(math.Hypot(float64(d.X), float64(d.Y)))
	if length == 0 {
		return
	}
	var (
		dir    = d.Scale(1 / length)
		normal = vg.Point{X: -dir.Y, Y: dir.X}
		base   = to.Sub(dir.Scale(size))
	)
	head := []vg.Point{to, base.Add(normal.Scale(0.4 * size)), base.Sub(normal.Scale(0.4 * size))}
	c.FillPolygon(ss.Color, c.ClipPolygonXY(head))
}

func (ss *StreamSet) DataRange() (xmin, xmax, ymin, ymax float64) {
	return ss.xAxis[0], ss.xAxis[len(ss.xAxis)-1], ss.yAxis[0], ss.yAxis[len(ss.yAxis)-1]
}
