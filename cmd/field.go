/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/vtkplot/plot2D"
	"github.com/notargets/vtkplot/types"
)

// ScalarCmd represents the scalar command
var ScalarCmd = &cobra.Command{
	Use:   "scalar",
	Short: "Plot a scalar field as filled contours or isolines",
	Long: `
Contours a point field on the native mesh triangulation. The field is named
or given by its index in the file,

vtkplot scalar -F solution_0.vtu -f T --levels 16 -o T.png
vtkplot scalar -F solution_0.vtu -f 0 --lines -o p.png`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			fc = &FieldCommand{}
		)
		fc.readCommon(cmd)
		fc.Lines, _ = cmd.Flags().GetBool("lines")
		fc.NumLevels, _ = cmd.Flags().GetInt("levels")
		fc.VMin, _ = cmd.Flags().GetFloat64("vmin")
		fc.VMax, _ = cmd.Flags().GetFloat64("vmax")
		exitOnError(fc.RunScalar())
	},
}

// VectorCmd represents the vector command
var VectorCmd = &cobra.Command{
	Use:   "vector",
	Short: "Plot a vector field as arrows",
	Long: `
Draws one arrow per mesh point, optionally over a filled scalar field,

vtkplot vector -F solution_0.vtu -f u --scalar T -o u.png`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			fc = &FieldCommand{}
		)
		fc.readCommon(cmd)
		fc.Scalar, _ = cmd.Flags().GetString("scalar")
		fc.Scale, _ = cmd.Flags().GetFloat64("scale")
		exitOnError(fc.RunVector())
	},
}

// StreamlinesCmd represents the streamlines command
var StreamlinesCmd = &cobra.Command{
	Use:   "streamlines",
	Short: "Plot a vector field as streamlines",
	Long: `
Interpolates the vector field onto a regular grid and traces streamlines with
widths proportional to the local speed,

vtkplot streamlines -F solution_0.vtu -f u --scalar T --maxLineWidth 2 -o u.png`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			fc = &FieldCommand{}
		)
		fc.readCommon(cmd)
		fc.Scalar, _ = cmd.Flags().GetString("scalar")
		fc.MaxLineWidth, _ = cmd.Flags().GetFloat64("maxLineWidth")
		fc.SpeedScale, _ = cmd.Flags().GetFloat64("speedScale")
		fc.Density, _ = cmd.Flags().GetFloat64("density")
		fc.Arrows, _ = cmd.Flags().GetBool("arrows")
		exitOnError(fc.RunStreamlines())
	},
}

func init() {
	rootCmd.AddCommand(ScalarCmd, VectorCmd, StreamlinesCmd)
	for _, c := range []*cobra.Command{ScalarCmd, VectorCmd, StreamlinesCmd} {
		c.Flags().StringP("gridFile", "F", "", "mesh file, .vtu or .vtk")
		c.Flags().StringP("field", "f", "", "field name or index")
		c.Flags().StringP("output", "o", c.Name()+".png", "image file, the extension picks png, jpg or tiff")
		c.Flags().String("title", "", "plot title, the field name when empty")
		c.Flags().String("color", "", "line or arrow color, a name, a letter or #rrggbb")
	}
	ScalarCmd.Flags().Bool("lines", false, "draw isolines instead of filled contours")
	ScalarCmd.Flags().Int("levels", 0, "number of contour levels, 128 filled or 10 lines when zero")
	ScalarCmd.Flags().Float64("vmin", 0, "lower end of the color range, data range when vmin = vmax = 0")
	ScalarCmd.Flags().Float64("vmax", 0, "upper end of the color range")
	VectorCmd.Flags().String("scalar", "", "scalar field drawn underneath")
	VectorCmd.Flags().Float64("scale", 0, "magnitude drawn as the full data width, automatic when zero")
	StreamlinesCmd.Flags().String("scalar", "", "scalar field drawn underneath")
	StreamlinesCmd.Flags().Float64("maxLineWidth", plot2D.DefaultMaxLineWidth, "line width in points at the scale speed")
	StreamlinesCmd.Flags().Float64("speedScale", 0, "speed drawn at maxLineWidth, the max speed when zero")
	StreamlinesCmd.Flags().Float64("density", 1, "streamline density")
	StreamlinesCmd.Flags().Bool("arrows", false, "draw a direction arrow on each streamline")
}

// FieldCommand holds the settings of the field plotting commands
type FieldCommand struct {
	GridFile, Field, Output, Title, Color string
	Scalar                                string // Filled scalar layer under a vector plot
	Lines                                 bool
	NumLevels                             int
	VMin, VMax                            float64
	Scale                                 float64
	MaxLineWidth, SpeedScale, Density     float64
	Arrows                                bool
}

func (fc *FieldCommand) readCommon(cmd *cobra.Command) {
	fc.GridFile, _ = cmd.Flags().GetString("gridFile")
	fc.Field, _ = cmd.Flags().GetString("field")
	fc.Output, _ = cmd.Flags().GetString("output")
	fc.Title, _ = cmd.Flags().GetString("title")
	fc.Color, _ = cmd.Flags().GetString("color")
}

func (fc *FieldCommand) load() (md *types.MeshData, s *plot2D.Surface, err error) {
	if fc.Field == "" {
		return nil, nil, fmt.Errorf("a field is required, use -f")
	}
	if md, err = loadMesh(fc.GridFile); err != nil {
		return
	}
	s = plot2D.NewSurfaceWithStyle(surfaceStyle())
	return
}

func (fc *FieldCommand) title(md *types.MeshData) string {
	if fc.Title != "" {
		return fc.Title
	}
	if pf, err := md.Resolve(fc.Field); err == nil {
		return pf.Name
	}
	return fc.Field
}

// underlay draws the filled scalar layer of a vector plot
func (fc *FieldCommand) underlay(md *types.MeshData, s *plot2D.Surface) (err error) {
	if fc.Scalar == "" {
		return
	}
	var (
		pf *types.PointField
	)
	if pf, err = md.ScalarField(fc.Scalar); err != nil {
		return
	}
	_, _, _, err = plot2D.PlotScalarField(md, fc.Scalar, plot2D.ContourOptions{
		ColorMap:      viper.GetString("colormap"),
		Colorbar:      true,
		ColorbarStyle: plot2D.ColorbarStyle{Title: pf.Name},
	}, s)
	return
}

func (fc *FieldCommand) RunScalar() (err error) {
	var (
		md *types.MeshData
		s  *plot2D.Surface
		pf *types.PointField
	)
	if md, s, err = fc.load(); err != nil {
		return
	}
	if pf, err = md.ScalarField(fc.Field); err != nil {
		return
	}
	if fc.VMin > fc.VMax {
		return fmt.Errorf("vmin %g is above vmax %g", fc.VMin, fc.VMax)
	}
	opts := plot2D.ContourOptions{
		Filled:        !fc.Lines,
		NumLevels:     fc.NumLevels,
		VMin:          fc.VMin,
		VMax:          fc.VMax,
		ColorMap:      viper.GetString("colormap"),
		Color:         fc.Color,
		Colorbar:      true,
		ColorbarStyle: plot2D.ColorbarStyle{Title: pf.Name},
	}
	if opts.Filled {
		_, _, _, err = plot2D.PlotScalarField(md, fc.Field, opts, s)
	} else {
		_, _, _, err = plot2D.PlotScalarFieldContours(md, fc.Field, opts, s)
	}
	if err != nil {
		return
	}
	s.SetTitle(fc.title(md))
	return save(s, fc.Output)
}

func (fc *FieldCommand) RunVector() (err error) {
	var (
		md *types.MeshData
		s  *plot2D.Surface
	)
	if md, s, err = fc.load(); err != nil {
		return
	}
	if err = fc.underlay(md, s); err != nil {
		return
	}
	if _, _, err = plot2D.PlotVectorField(md, fc.Field, plot2D.QuiverOptions{
		Scale: fc.Scale,
		Color: fc.Color,
	}, s); err != nil {
		return
	}
	s.SetTitle(fc.title(md))
	return save(s, fc.Output)
}

func (fc *FieldCommand) RunStreamlines() (err error) {
	var (
		md       *types.MeshData
		s        *plot2D.Surface
		maxSpeed float64
	)
	if md, s, err = fc.load(); err != nil {
		return
	}
	if err = fc.underlay(md, s); err != nil {
		return
	}
	if _, _, maxSpeed, err = plot2D.PlotStreamlines(md, fc.Field, plot2D.StreamOptions{
		MaxLineWidth: fc.MaxLineWidth,
		SpeedScale:   fc.SpeedScale,
		Color:        fc.Color,
		Density:      fc.Density,
		Arrows:       fc.Arrows,
	}, s); err != nil {
		return
	}
	verbosef("Max speed = %g\n", maxSpeed)
	s.SetTitle(fc.title(md))
	return save(s, fc.Output)
}
