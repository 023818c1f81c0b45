package plot2D

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/notargets/vtkplot/geometry2D"
	"github.com/notargets/vtkplot/types"
)

// QuiverOptions style the arrows of a vector plot. Scale is the vector
// magnitude drawn as the full data width, zero picks one from the data.
// HeadWidth and HeadLength are multiples of the shaft Width
type QuiverOptions struct {
	Scale      float64
	Color      string
	Width      float64 // Points
	HeadWidth  float64
	HeadLength float64
}

// Quiver draws one arrow at every point, straight from the field components
type Quiver struct {
	X, Y       []float64
	U, V       []float64
	Scale      float64
	Color      color.Color
	Width      vg.Length
	HeadWidth  float64
	HeadLength float64
}

func NewQuiver(X, Y, U, V []float64, opts QuiverOptions) (q *Quiver, err error) {
	q = &Quiver{
		X:          X,
		Y:          Y,
		U:          U,
		V:          V,
		Scale:      opts.Scale,
		Width:      vg.Points(opts.Width),
		HeadWidth:  opts.HeadWidth,
		HeadLength: opts.HeadLength,
	}
	if q.Color, err = colorOrDefault(opts.Color, color.Black); err != nil {
		return nil, err
	}
	if opts.Width <= 0 {
		q.Width = vg.Points(1)
	}
	if q.HeadWidth <= 0 {
		q.HeadWidth = 3
	}
	if q.HeadLength <= 0 {
		q.HeadLength = 5
	}
	if q.Scale <= 0 {
		q.Scale = q.autoScale()
	}
	return
}

// Len is the number of arrows
func (q *Quiver) Len() int { return len(q.X) }

// autoScale sizes the mean arrow relative to the data width and point count
func (q *Quiver) autoScale() float64 {
	var (
		sum float64
		n   int
	)
	for i := range q.U {
		m := math.Hypot(q.U[i], q.V[i])
		if math.IsNaN(m) {
			continue
		}
		sum += m
		n++
	}
	if n == 0 || sum == 0 {
		return 1
	}
	mean := sum / float64(n)
	return 1.8 * mean * math.Max(10, math.Sqrt(float64(len(q.X))))
}

// dataLength converts a vector to its arrow in data units
func (q *Quiver) dataLength() float64 {
	bb := geometry2D.NewBoundingBox(q.X, q.Y)
	if bb == nil || bb.Width() == 0 {
		return 1 / q.Scale
	}
	return bb.Width() / q.Scale
}

func (q *Quiver) Plot(c draw.Canvas, plt *plot.Plot) {
	var (
		trX, trY = plt.Transforms(&c)
		k        = q.dataLength()
		shaft    = draw.LineStyle{Color: q.Color, Width: q.Width}
	)
	for i := range q.X {
		u, v := q.U[i], q.V[i]
		if math.IsNaN(u) || math.IsNaN(v) || (u == 0 && v == 0) {
			continue
		}
		tail := vg.Point{X: trX(q.X[i]), Y: trY(q.Y[i])}
		tip := vg.Point{X: trX(q.X[i] + k*u), Y: trY(q.Y[i] + k*v)}
		d := tip.Sub(tail)
		length := vg.Length(math.Hypot(float64(d.X), float64(d.Y)))
		if length == 0 {
			continue
		}
		var (
			dir     = d.Scale(1 / length)
			normal  = vg.Point{X: -dir.Y, Y: dir.X}
			headLen = vg.Length(q.HeadLength) * q.Width
			halfW   = 0.5 * vg.Length(q.HeadWidth) * q.Width
		)
		// Short arrows shrink the head with the shaft
		if headLen > length {
			halfW *= length / headLen
			headLen = length
		}
		base := tip.Sub(dir.Scale(headLen))
		c.StrokeLines(shaft, c.ClipLinesXY([]vg.Point{tail, base})...)
		head := []vg.Point{tip, base.Add(normal.Scale(halfW)), base.Sub(normal.Scale(halfW))}
		c.FillPolygon(q.Color, c.ClipPolygonXY(head))
	}
}

func (q *Quiver) DataRange() (xmin, xmax, ymin, ymax float64) {
	bb := geometry2D.NewBoundingBox(q.X, q.Y)
	if bb == nil {
		return 0, 1, 0, 1
	}
	return bb.XMin[0], bb.XMax[0], bb.XMin[1], bb.XMax[1]
}

// PlotVectorField draws one arrow per mesh point, no interpolation is done
func PlotVectorField(md *types.MeshData, key string, opts QuiverOptions,
	s *Surface) (so *Surface, q *Quiver, err error) {
	var (
		pf *types.PointField
	)
	if pf, err = md.VectorField(key); err != nil {
		return s, nil, err
	}
	if q, err = NewQuiver(md.X, md.Y, pf.Component(0), pf.Component(1), opts); err != nil {
		return s, nil, err
	}
	so = surfaceOrNew(s)
	so.addLayer(q)
	return
}
