package InputParameters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlotParameters(t *testing.T) {
	{
		var data = []byte(`
Title: "Freezing water"
Scalar:
  Field: T
  VMin: -1
  VMax: 1
  ColorbarTitle: T
  Boundaries: [0, 1]
  Ticks: [-1, -0.5, 0, 0.5, 1]
Vector:
  Field: u
  Mode: Streamlines
  Color: k
Isolines:
  Field: T
  Levels: [0]
  Color: w
XLim: [0, 1]
YLim: [0, 1]
GIF:
  File: movie.gif
`)
		var ip PlotParameters
		require.NoError(t, ip.Parse(data))
		assert.Equal(t, "Freezing water", ip.Title)
		assert.Equal(t, "frame", ip.Prefix)
		assert.Equal(t, "T", ip.Scalar.Field)
		assert.Equal(t, -1., ip.Scalar.VMin)
		assert.Equal(t, []float64{0, 1}, ip.Scalar.Boundaries)
		assert.Equal(t, []float64{-1, -0.5, 0, 0.5, 1}, ip.Scalar.Ticks)
		assert.Equal(t, StreamlinesMode, ip.Vector.Mode)
		assert.Equal(t, []float64{0}, ip.Isolines.Levels)
		assert.Equal(t, []float64{0, 1}, ip.XLim)
		assert.Equal(t, 500, ip.GIF.DelayMS)
		ip.Print()
	}
	{ // Vector layers default to arrows
		var ip PlotParameters
		require.NoError(t, ip.Parse([]byte("Vector:\n  Field: \"1\"\nPrefix: velocity\n")))
		assert.Equal(t, QuiverMode, ip.Vector.Mode)
		assert.Equal(t, "velocity", ip.Prefix)
	}
	{
		for _, bad := range []string{
			"Vector:\n  Field: u\n  Mode: arrows\n",
			"Scalar:\n  Field: T\nXLim: [1, 0]\n",
			"Scalar:\n  Field: T\nYLim: [0]\n",
			"Title: nothing to draw\n",
			"Scalar: [not, a, map]\n",
		} {
			var ip PlotParameters
			assert.Error(t, ip.Parse([]byte(bad)), bad)
		}
	}
}
