package plot2D

import (
	"fmt"
	"image"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/notargets/vtkplot/geometry2D"
)

type SurfaceStyle struct {
	Width, Height vg.Length
	DPI           int
	ColorbarWidth vg.Length // Width of the slot given to each colorbar
}

func DefaultSurfaceStyle() SurfaceStyle {
	return SurfaceStyle{
		Width:         6.4 * vg.Inch,
		Height:        4.8 * vg.Inch,
		DPI:           100,
		ColorbarWidth: 1.1 * vg.Inch,
	}
}

// Surface is a drawing area shared by successive plot calls. Layers draw in
// the order they were added, the data axes keep equal scales
type Surface struct {
	Plot      *plot.Plot
	Style     SurfaceStyle
	layers    []plot.Plotter
	colorbars []*Colorbar
	xLim      *[2]float64
	yLim      *[2]float64
}

func NewSurface() *Surface {
	return NewSurfaceWithStyle(DefaultSurfaceStyle())
}

func NewSurfaceWithStyle(style SurfaceStyle) (s *Surface) {
	def := DefaultSurfaceStyle()
	if style.Width <= 0 {
		style.Width = def.Width
	}
	if style.Height <= 0 {
		style.Height = def.Height
	}
	if style.DPI <= 0 {
		style.DPI = def.DPI
	}
	if style.ColorbarWidth <= 0 {
		style.ColorbarWidth = def.ColorbarWidth
	}
	s = &Surface{
		Plot:  plot.New(),
		Style: style,
	}
	s.Plot.X.Label.Text = "x"
	s.Plot.Y.Label.Text = "y"
	return
}

// surfaceOrNew lets every plot call accept a nil surface
func surfaceOrNew(s *Surface) *Surface {
	if s == nil {
		return NewSurface()
	}
	return s
}

func (s *Surface) SetTitle(title string) { s.Plot.Title.Text = title }

func (s *Surface) SetXLim(min, max float64) { s.xLim = &[2]float64{min, max} }

func (s *Surface) SetYLim(min, max float64) { s.yLim = &[2]float64{min, max} }

func (s *Surface) Layers() []plot.Plotter { return s.layers }

func (s *Surface) Colorbars() []*Colorbar { return s.colorbars }

func (s *Surface) addLayer(p plot.Plotter) {
	s.layers = append(s.layers, p)
	s.Plot.Add(p)
}

func (s *Surface) addColorbar(cb *Colorbar) {
	s.colorbars = append(s.colorbars, cb)
}

// dataRange is the union of the layer data ranges, nil when no layer has one
func (s *Surface) dataRange() (bb *geometry2D.BoundingBox) {
	for _, l := range s.layers {
		dr, ok := l.(plot.DataRanger)
		if !ok {
			continue
		}
		xmin, xmax, ymin, ymax := dr.DataRange()
		if math.IsInf(xmin, 0) || math.IsNaN(xmin) || math.IsInf(ymin, 0) || math.IsNaN(ymin) {
			continue
		}
		lbb := geometry2D.NewBoundingBox([]float64{xmin, xmax}, []float64{ymin, ymax})
		if bb == nil {
			bb = lbb
		} else {
			bb.Grow(lbb)
		}
	}
	return
}

// limits applies caller limits and fits the axes so one data unit has the
// same length on both axes. With both limits given the canvas is shrunk
// instead, centered in the space it had. It returns the canvas to draw on
func (s *Surface) limits(dc draw.Canvas) draw.Canvas {
	bb := s.dataRange()
	if bb == nil {
		bb = &geometry2D.BoundingBox{XMax: [2]float64{1, 1}}
	}
	if s.xLim != nil {
		bb.XMin[0], bb.XMax[0] = s.xLim[0], s.xLim[1]
	}
	if s.yLim != nil {
		bb.XMin[1], bb.XMax[1] = s.yLim[0], s.yLim[1]
	}
	for i := 0; i < 2; i++ {
		if bb.XMax[i] <= bb.XMin[i] {
			bb.XMin[i], bb.XMax[i] = bb.XMin[i]-0.5, bb.XMin[i]+0.5
		}
	}
	if s.xLim != nil && s.yLim != nil {
		s.setAxes(bb)
		var (
			size   = s.Plot.DataCanvas(dc).Rectangle.Size()
			target = vg.Length(bb.Width() / bb.Height())
		)
		// Axis decorations keep their size, so the data area shrinks by the
		// amount cropped
		if dw := size.X - size.Y*target; dw > 0 {
			return draw.Crop(dc, 0.5*dw, -0.5*dw, 0, 0)
		}
		dh := size.Y - size.X/target
		return draw.Crop(dc, 0, 0, 0.5*dh, -0.5*dh)
	}
	// Two passes, tick label widths depend on the limits of the first
	s.setAxes(bb)
	for pass := 0; pass < 2; pass++ {
		var (
			size   = s.Plot.DataCanvas(dc).Rectangle.Size()
			aspect = float64(size.X / size.Y)
			fit    *geometry2D.BoundingBox
		)
		switch {
		case s.xLim != nil:
			c, h := bb.Centroid(), bb.Width()/aspect
			fit = &geometry2D.BoundingBox{
				XMin: [2]float64{bb.XMin[0], c.X[1] - 0.5*h},
				XMax: [2]float64{bb.XMax[0], c.X[1] + 0.5*h},
			}
		case s.yLim != nil:
			c, w := bb.Centroid(), bb.Height()*aspect
			fit = &geometry2D.BoundingBox{
				XMin: [2]float64{c.X[0] - 0.5*w, bb.XMin[1]},
				XMax: [2]float64{c.X[0] + 0.5*w, bb.XMax[1]},
			}
		default:
			fit = bb.FitAspect(aspect)
		}
		s.setAxes(fit)
	}
	return dc
}

func (s *Surface) setAxes(bb *geometry2D.BoundingBox) {
	s.Plot.X.Min, s.Plot.X.Max = bb.XMin[0], bb.XMax[0]
	s.Plot.Y.Min, s.Plot.Y.Max = bb.XMin[1], bb.XMax[1]
}

// Draw renders the plot and its colorbars, the colorbars take slots on the
// right hand side of the canvas
func (s *Surface) Draw(dc draw.Canvas) {
	var (
		nCB   = vg.Length(len(s.colorbars))
		width = dc.Rectangle.Size().X
		cbW   = s.Style.ColorbarWidth
	)
	if nCB*cbW > 0.5*width {
		cbW = 0.5 * width / nCB
	}
	main := s.limits(draw.Crop(dc, 0, -nCB*cbW, 0, 0))
	s.Plot.Draw(main)
	for i, cb := range s.colorbars {
		left := width - (nCB-vg.Length(i))*cbW
		cb.Draw(draw.Crop(dc, left, -(nCB-vg.Length(i)-1)*cbW, 0, 0))
	}
}

func (s *Surface) canvas() *vgimg.Canvas {
	c := vgimg.NewWith(
		vgimg.UseWH(s.Style.Width, s.Style.Height),
		vgimg.UseDPI(s.Style.DPI),
	)
	s.Draw(draw.New(c))
	return c
}

// Image renders the surface into a raster image
func (s *Surface) Image() image.Image {
	return s.canvas().Image()
}

func imageFormat(format string) (string, error) {
	switch f := strings.ToLower(format); f {
	case "png", "tiff":
		return f, nil
	case "jpg", "jpeg":
		return "jpg", nil
	case "tif":
		return "tiff", nil
	default:
		return "", fmt.Errorf("unsupported image format %q", format)
	}
}

// WriteTo renders the surface in the named raster format: png, jpg or tiff
func (s *Surface) WriteTo(w io.Writer, format string) (n int64, err error) {
	if format, err = imageFormat(format); err != nil {
		return
	}
	c := s.canvas()
	switch format {
	case "png":
		return vgimg.PngCanvas{Canvas: c}.WriteTo(w)
	case "jpg":
		return vgimg.JpegCanvas{Canvas: c}.WriteTo(w)
	default:
		return vgimg.TiffCanvas{Canvas: c}.WriteTo(w)
	}
}

// Save writes the surface to a file, the format follows the extension
func (s *Surface) Save(path string) (err error) {
	var (
		f      *os.File
		format = strings.TrimPrefix(filepath.Ext(path), ".")
	)
	if _, err = imageFormat(format); err != nil {
		return fmt.Errorf("cannot save %q: %w", path, err)
	}
	if f, err = os.Create(path); err != nil {
		return
	}
	if _, err = s.WriteTo(f, format); err != nil {
		f.Close()
		return
	}
	return f.Close()
}
