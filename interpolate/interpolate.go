// Package interpolate resamples scattered point values onto a regular grid
// with piecewise linear interpolation over a Delaunay triangulation
package interpolate

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/vtkplot/geometry2D"
	"github.com/notargets/vtkplot/utils"
)

// Grid holds values sampled on the nodes of a rectilinear grid. Every matrix
// has one row per YAxis value and one column per XAxis value
type Grid struct {
	XAxis, YAxis []float64
	X, Y         *mat.Dense
	Values       []*mat.Dense
}

func (g *Grid) Dims() (nr, nc int) { return len(g.YAxis), len(g.XAxis) }

// Interpolator maps source point values to grid node values. The weights
// depend only on the geometry so one Interpolator serves every component
type Interpolator struct {
	XAxis, YAxis []float64
	NumSources   int
	Weights      utils.CSR
	inside       []bool
}

// Interpolate resamples each value array onto a grid. With resample == 0 the
// axes are the distinct source coordinates, otherwise an N x N grid spanning
// the source bounds
func Interpolate(x, y []float64, values [][]float64, resample int) (g *Grid, err error) {
	var (
		xAxis, yAxis []float64
		ip           *Interpolator
	)
	if err = checkSources(x, y); err != nil {
		return
	}
	for i, v := range values {
		if len(v) != len(x) {
			return nil, fmt.Errorf("value array %d has %d entries for %d points", i, len(v), len(x))
		}
	}
	if resample < 0 {
		return nil, fmt.Errorf("resample must be >= 0, have %d", resample)
	}
	if xAxis, yAxis, err = Axes(x, y, resample); err != nil {
		return
	}
	if ip, err = NewInterpolator(x, y, xAxis, yAxis); err != nil {
		return
	}
	g = &Grid{XAxis: xAxis, YAxis: yAxis}
	g.X, g.Y = utils.Meshgrid(xAxis, yAxis)
	for _, v := range values {
		g.Values = append(g.Values, ip.Apply(v))
	}
	return
}

func checkSources(x, y []float64) error {
	if len(x) != len(y) {
		return fmt.Errorf("x has %d entries and y has %d", len(x), len(y))
	}
	if len(x) == 0 {
		return fmt.Errorf("no source points")
	}
	return nil
}

// Axes returns the target grid axes for the source coordinates
func Axes(x, y []float64, resample int) (xAxis, yAxis []float64, err error) {
	if resample == 0 {
		xAxis, yAxis = utils.Unique(x), utils.Unique(y)
	} else {
		xMin, xMax := utils.MinMax(x)
		yMin, yMax := utils.MinMax(y)
		xAxis = utils.Linspace(xMin, xMax, resample)
		yAxis = utils.Linspace(yMin, yMax, resample)
	}
	if len(xAxis) == 0 || len(yAxis) == 0 || math.IsNaN(xAxis[0]) || math.IsNaN(yAxis[0]) {
		return nil, nil, fmt.Errorf("source coordinates are all NaN")
	}
	return
}

// NewInterpolator triangulates the sources and assembles the sparse
// grid x source weight matrix. Grid nodes outside every triangle have no
// weights and interpolate to NaN
func NewInterpolator(x, y, xAxis, yAxis []float64) (ip *Interpolator, err error) {
	var (
		nr, nc = len(yAxis), len(xAxis)
	)
	if err = checkSources(x, y); err != nil {
		return
	}
	if nr == 0 || nc == 0 {
		return nil, fmt.Errorf("empty grid axis")
	}
	if !sort.Float64sAreSorted(xAxis) || !sort.Float64sAreSorted(yAxis) {
		return nil, fmt.Errorf("grid axes must be sorted ascending")
	}
	ip = &Interpolator{
		XAxis:      xAxis,
		YAxis:      yAxis,
		NumSources: len(x),
		inside:     make([]bool, nr*nc),
	}
	var (
		tr = geometry2D.Delaunay(x, y)
		W  = utils.NewDOK(nr*nc, len(x), "W")
	)
	for _, tri := range tr.Triangles {
		bb := geometry2D.NewBoundingBox(
			[]float64{x[tri[0]], x[tri[1]], x[tri[2]]},
			[]float64{y[tri[0]], y[tri[1]], y[tri[2]]})
		// Only the grid nodes inside the triangle's bounding box are tested
		jLo, jHi := axisRange(xAxis, bb.XMin[0], bb.XMax[0])
		iLo, iHi := axisRange(yAxis, bb.XMin[1], bb.XMax[1])
		for i := iLo; i < iHi; i++ {
			for j := jLo; j < jHi; j++ {
				node := i*nc + j
				if ip.inside[node] {
					continue
				}
				w, in := tr.Barycentric(tri, xAxis[j], yAxis[i])
				if !in {
					continue
				}
				ip.inside[node] = true
				for n := 0; n < 3; n++ {
					if w[n] != 0 {
						W.Accumulate(node, tri[n], w[n])
					}
				}
			}
		}
	}
	ip.Weights = W.ToCSR()
	return
}

// axisRange returns the half open index range of axis values within [lo,hi]
func axisRange(axis []float64, lo, hi float64) (start, end int) {
	const tol = 1.e-12
	span := math.Max(math.Abs(hi-lo), 1) * tol
	start = sort.SearchFloat64s(axis, lo-span)
	end = sort.SearchFloat64s(axis, hi+span)
	for end < len(axis) && axis[end] <= hi+span {
		end++
	}
	return
}

// Apply interpolates one source value array onto the grid
func (ip *Interpolator) Apply(values []float64) (V *mat.Dense) {
	var (
		nr, nc = len(ip.YAxis), len(ip.XAxis)
		data   = ip.Weights.MulVec(values)
	)
	for node, in := range ip.inside {
		if !in {
			data[node] = math.NaN()
		}
	}
	return mat.NewDense(nr, nc, data)
}

// Inside reports whether grid node (i,j) lies in the triangulated hull
func (ip *Interpolator) Inside(i, j int) bool {
	return ip.inside[i*len(ip.XAxis)+j]
}

// Magnitude is the Euclidean norm of (u,v) at every node, NaN propagates
func Magnitude(u, v *mat.Dense) (S *mat.Dense) {
	nr, nc := u.Dims()
	S = mat.NewDense(nr, nc, nil)
	S.Apply(func(i, j int, val float64) float64 {
		return math.Hypot(val, v.At(i, j))
	}, u)
	return
}
