package plot2D

import (
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg/draw"
)

// Colorbar is the color scale of one contour layer, drawn beside the data
// area of its surface
type Colorbar struct {
	Style    ColorbarStyle
	ColorMap palette.ColorMap
	Levels   []float64
	Filled   bool
}

func NewColorbar(tc *TriContour, style ColorbarStyle) (cb *Colorbar) {
	cb = &Colorbar{
		Style:    style,
		ColorMap: tc.cmap,
		Levels:   tc.Levels(),
		Filled:   tc.filled,
	}
	return
}

// Min and Max are the values at the ends of the bar
func (cb *Colorbar) Min() float64 {
	if len(cb.Style.Boundaries) != 0 {
		return cb.Style.Boundaries[0]
	}
	return cb.ColorMap.Min()
}

func (cb *Colorbar) Max() float64 {
	if n := len(cb.Style.Boundaries); n != 0 {
		return cb.Style.Boundaries[n-1]
	}
	return cb.ColorMap.Max()
}

func (cb *Colorbar) plot() (p *plot.Plot) {
	var (
		min, max = normalRange(cb.Min(), cb.Max())
		bar      = &plotter.ColorBar{
			ColorMap: &boundedColorMap{ColorMap: cb.ColorMap, min: min, max: max},
			Vertical: true,
		}
	)
	// A filled contour shows its bands as discrete steps
	if cb.Filled && len(cb.Levels) > 1 && len(cb.Levels) <= 33 {
		bar.Colors = len(cb.Levels) - 1
	}
	p = plot.New()
	p.Title.Text = cb.Style.Title
	p.HideX()
	p.Add(bar)
	p.Y.Min, p.Y.Max = min, max
	if len(cb.Style.Ticks) != 0 {
		ticks := make([]plot.Tick, len(cb.Style.Ticks))
		for i, v := range cb.Style.Ticks {
			ticks[i] = plot.Tick{Value: v, Label: strconv.FormatFloat(v, 'g', 4, 64)}
		}
		p.Y.Tick.Marker = plot.ConstantTicks(ticks)
	}
	return
}

func (cb *Colorbar) Draw(c draw.Canvas) {
	cb.plot().Draw(c)
}
