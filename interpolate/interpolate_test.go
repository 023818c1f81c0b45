package interpolate

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/vtkplot/readfiles"
)

func linear(x, y float64) float64 { return 2*x + 3*y + 1 }

func TestInterpolateShape(t *testing.T) {
	var (
		rng  = rand.New(rand.NewSource(1))
		x, y []float64
		f    []float64
	)
	for i := 0; i < 50; i++ {
		x = append(x, rng.Float64()*4-2)
		y = append(y, rng.Float64())
		f = append(f, linear(x[i], y[i]))
	}
	for _, N := range []int{1, 2, 7, 32} {
		g, err := Interpolate(x, y, [][]float64{f, f}, N)
		require.NoError(t, err)
		require.Len(t, g.Values, 2)
		for _, M := range append(g.Values, g.X, g.Y) {
			nr, nc := M.Dims()
			assert.Equal(t, N, nr)
			assert.Equal(t, N, nc)
		}
	}
}

func TestInterpolateLinearField(t *testing.T) {
	{ // Scattered sources with the corners of their box cover every node
		var (
			rng  = rand.New(rand.NewSource(7))
			x    = []float64{0, 1, 1, 0}
			y    = []float64{0, 0, 1, 1}
			f, g []float64
		)
		for i := 0; i < 300; i++ {
			x, y = append(x, rng.Float64()), append(y, rng.Float64())
		}
		for i := range x {
			f, g = append(f, linear(x[i], y[i])), append(g, 1)
		}
		grid, err := Interpolate(x, y, [][]float64{f, g}, 50)
		require.NoError(t, err)
		for i, yy := range grid.YAxis {
			for j, xx := range grid.XAxis {
				assert.InDelta(t, linear(xx, yy), grid.Values[0].At(i, j), 1.e-9, "node (%v,%v)", xx, yy)
				assert.InDelta(t, 1., grid.Values[1].At(i, j), 1.e-12, "node (%v,%v)", xx, yy)
			}
		}
	}
	{ // Linear fields are reproduced inside the hull, NaN outside
		x := []float64{0, 1, 0, 0.25, 0.5, 0.1}
		y := []float64{0, 0, 1, 0.25, 0.1, 0.6}
		f := make([]float64, len(x))
		for i := range x {
			f[i] = linear(x[i], y[i])
		}
		g, err := Interpolate(x, y, [][]float64{f}, 11)
		require.NoError(t, err)
		var nInside, nOutside int
		for i, yy := range g.YAxis {
			for j, xx := range g.XAxis {
				val := g.Values[0].At(i, j)
				switch {
				case xx+yy < 1-1.e-9:
					nInside++
					assert.InDelta(t, linear(xx, yy), val, 1.e-12)
				case xx+yy > 1+1.e-9:
					nOutside++
					assert.True(t, math.IsNaN(val), "node (%v,%v) should be outside", xx, yy)
				}
			}
		}
		assert.Equal(t, 55, nInside)
		assert.Equal(t, 55, nOutside)
	}
	{ // Default axes are the distinct coordinates, source values come back at the nodes
		var x, y, f []float64
		for j := 0; j < 4; j++ {
			for i := 0; i < 5; i++ {
				x = append(x, float64(i)*0.5)
				y = append(y, float64(j))
				f = append(f, math.Sin(x[len(x)-1])+y[len(y)-1])
			}
		}
		g, err := Interpolate(x, y, [][]float64{f}, 0)
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 0.5, 1, 1.5, 2}, g.XAxis)
		assert.Equal(t, []float64{0, 1, 2, 3}, g.YAxis)
		for k := range x {
			i, j := int(y[k]), int(2*x[k])
			assert.InDelta(t, f[k], g.Values[0].At(i, j), 1.e-12)
			assert.Equal(t, x[k], g.X.At(i, j))
			assert.Equal(t, y[k], g.Y.At(i, j))
		}
	}
}

func TestInterpolateDegenerate(t *testing.T) {
	{ // Collinear sources give an all NaN grid and no error
		x := []float64{0, 1, 2, 3}
		y := []float64{0, 1, 2, 3}
		g, err := Interpolate(x, y, [][]float64{{1, 2, 3, 4}}, 5)
		require.NoError(t, err)
		for _, val := range g.Values[0].RawMatrix().Data {
			assert.True(t, math.IsNaN(val))
		}
	}
	{ // A single source
		g, err := Interpolate([]float64{1}, []float64{2}, [][]float64{{3}}, 3)
		require.NoError(t, err)
		nr, nc := g.Values[0].Dims()
		assert.Equal(t, 3, nr)
		assert.Equal(t, 3, nc)
	}
	{
		_, err := Interpolate([]float64{0, 1}, []float64{0}, nil, 2)
		assert.Error(t, err)
		_, err = Interpolate(nil, nil, nil, 2)
		assert.Error(t, err)
		_, err = Interpolate([]float64{0, 1, 0}, []float64{0, 0, 1}, [][]float64{{1, 2}}, 2)
		assert.Error(t, err)
		_, err = Interpolate([]float64{0, 1, 0}, []float64{0, 0, 1}, nil, -1)
		assert.Error(t, err)
	}
}

func TestInterpolateVectorField(t *testing.T) {
	md, err := readfiles.ReadVTKData("../testdata/freeze_water/solution_0.vtu")
	require.NoError(t, err)
	u, err := md.VectorField("u")
	require.NoError(t, err)
	g, err := Interpolate(md.X, md.Y, [][]float64{u.Component(0), u.Component(1)}, 0)
	require.NoError(t, err)
	nr, nc := g.Dims()
	require.Equal(t, 9, nr)
	require.Equal(t, 9, nc)
	S := Magnitude(g.Values[0], g.Values[1])
	for i, yy := range g.YAxis {
		for j, xx := range g.XAxis {
			assert.InDelta(t, -(yy - 0.5), g.Values[0].At(i, j), 1.e-12)
			assert.InDelta(t, xx-0.5, g.Values[1].At(i, j), 1.e-12)
			assert.InDelta(t, math.Hypot(xx-0.5, yy-0.5), S.At(i, j), 1.e-12)
		}
	}
	{
		N := Magnitude(mat.NewDense(1, 2, []float64{3, math.NaN()}), mat.NewDense(1, 2, []float64{4, 1}))
		assert.Equal(t, 5., N.At(0, 0))
		assert.True(t, math.IsNaN(N.At(0, 1)))
	}
}
