// Package animation renders every timestep of a ParaView collection with the
// same layers, limits and color scales
package animation

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"golang.org/x/image/draw"
	"gonum.org/v1/plot/vg"

	"github.com/notargets/vtkplot/InputParameters"
	"github.com/notargets/vtkplot/plot2D"
	"github.com/notargets/vtkplot/readfiles"
	"github.com/notargets/vtkplot/types"
)

// Animate writes one PNG per dataset of the collection, in document order,
// and the optional GIF. It returns the paths written
func Animate(pvdPath string, ip *InputParameters.PlotParameters, outDir string) (paths []string, err error) {
	var (
		c          *readfiles.Collection
		frames []image.Image
		scale  = speedScale{value: ip.Vector.SpeedScale}
	)
	if err = ip.Validate(); err != nil {
		return
	}
	if c, err = readfiles.ReadPVD(pvdPath); err != nil {
		return
	}
	if outDir, err = homedir.Expand(outDir); err != nil {
		return
	}
	if err = os.MkdirAll(outDir, 0755); err != nil {
		return
	}
	for i, ds := range c.DataSets {
		var (
			md       *types.MeshData
			s        *plot2D.Surface
			img      image.Image
			maxSpeed float64
		)
		if md, err = c.Load(i); err != nil {
			return nil, err
		}
		if s, maxSpeed, err = RenderFrame(md, ds.Time, ip, scale.value); err != nil {
			return nil, fmt.Errorf("timestep %s: %w", ds.Time, err)
		}
		scale.observe(maxSpeed)
		img = s.Image()
		path := filepath.Join(outDir, FrameName(ip.Prefix, ds.Time))
		if err = writePNG(path, img); err != nil {
			return nil, err
		}
		paths = append(paths, path)
		if ip.GIF.File != "" {
			frames = append(frames, img)
		}
	}
	if ip.GIF.File != "" {
		gifPath := ip.GIF.File
		if !filepath.IsAbs(gifPath) {
			gifPath = filepath.Join(outDir, gifPath)
		}
		if err = writeGIF(gifPath, frames, ip.GIF.DelayMS); err != nil {
			return nil, err
		}
		paths = append(paths, gifPath)
	}
	return
}

// speedScale is the streamline speed drawn at the max line width. Unless set
// in the parameters it locks to the first frame with any motion
type speedScale struct {
	value float64
}

func (sc *speedScale) observe(maxSpeed float64) {
	if sc.value <= 0 && maxSpeed > 0 {
		sc.value = maxSpeed
	}
}

func FrameName(prefix, time string) string {
	return fmt.Sprintf("%s__t%s.png", prefix, time)
}

// Style is the surface style of the parameters, defaults where unset
func Style(ip *InputParameters.PlotParameters) (style plot2D.SurfaceStyle) {
	style = plot2D.DefaultSurfaceStyle()
	if ip.Width > 0 {
		style.Width = vg.Length(ip.Width) * vg.Inch
	}
	if ip.Height > 0 {
		style.Height = vg.Length(ip.Height) * vg.Inch
	}
	if ip.DPI > 0 {
		style.DPI = ip.DPI
	}
	return
}

// RenderFrame composes the layers of one timestep. speedScale applies to
// streamlines, the observed max speed is returned
func RenderFrame(md *types.MeshData, time string, ip *InputParameters.PlotParameters,
	speedScale float64) (s *plot2D.Surface, maxSpeed float64, err error) {
	s = plot2D.NewSurfaceWithStyle(Style(ip))
	if sc := ip.Scalar; sc.Field != "" {
		opts := plot2D.ContourOptions{
			NumLevels: sc.NumLevels,
			VMin:      sc.VMin,
			VMax:      sc.VMax,
			ColorMap:  sc.ColorMap,
			Colorbar:  true,
			ColorbarStyle: plot2D.ColorbarStyle{
				Title:      sc.ColorbarTitle,
				Boundaries: sc.Boundaries,
				Ticks:      sc.Ticks,
			},
		}
		if _, _, _, err = plot2D.PlotScalarField(md, sc.Field, opts, s); err != nil {
			return
		}
	}
	switch vec := ip.Vector; {
	case vec.Field == "":
	case vec.Mode == InputParameters.StreamlinesMode:
		opts := plot2D.StreamOptions{
			MaxLineWidth: vec.MaxLineWidth,
			SpeedScale:   speedScale,
			Color:        vec.Color,
			Density:      vec.Density,
			Resample:     vec.Resample,
			Arrows:       vec.Arrows,
		}
		if _, _, maxSpeed, err = plot2D.PlotStreamlines(md, vec.Field, opts, s); err != nil {
			return
		}
	default:
		opts := plot2D.QuiverOptions{
			Scale:     vec.Scale,
			Color:     vec.Color,
			HeadWidth: vec.HeadWidth,
		}
		if _, _, err = plot2D.PlotVectorField(md, vec.Field, opts, s); err != nil {
			return
		}
	}
	if iso := ip.Isolines; iso.Field != "" {
		opts := plot2D.ContourOptions{
			Levels:    iso.Levels,
			NumLevels: iso.NumLevels,
			Color:     iso.Color,
			LineWidth: iso.LineWidth,
		}
		if _, _, _, err = plot2D.PlotScalarFieldContours(md, iso.Field, opts, s); err != nil {
			return
		}
	}
	if len(ip.XLim) == 2 {
		s.SetXLim(ip.XLim[0], ip.XLim[1])
	}
	if len(ip.YLim) == 2 {
		s.SetYLim(ip.YLim[0], ip.YLim[1])
	}
	title := "t = " + time
	if ip.Title != "" {
		title = ip.Title + ", " + title
	}
	s.SetTitle(title)
	return
}

func writePNG(path string, img image.Image) (err error) {
	var f *os.File
	if f, err = os.Create(path); err != nil {
		return
	}
	if err = png.Encode(f, img); err != nil {
		f.Close()
		return
	}
	return f.Close()
}

// writeGIF dithers every frame onto the Plan 9 palette
func writeGIF(path string, frames []image.Image, delayMS int) (err error) {
	var (
		anim = &gif.GIF{}
		f    *os.File
	)
	for _, frame := range frames {
		bounds := frame.Bounds()
		pm := image.NewPaletted(bounds, palette.Plan9)
		draw.FloydSteinberg.Draw(pm, bounds, frame, bounds.Min)
		anim.Image = append(anim.Image, pm)
		anim.Delay = append(anim.Delay, delayMS/10)
	}
	if f, err = os.Create(path); err != nil {
		return
	}
	if err = gif.EncodeAll(f, anim); err != nil {
		f.Close()
		return
	}
	return f.Close()
}
