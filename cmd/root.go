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
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gonum.org/v1/plot/vg"

	"github.com/notargets/vtkplot/plot2D"
)

var (
	cfgFile  string
	profiler interface{ Stop() }
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vtkplot",
	Short: "Plots of unstructured triangle meshes and their solution fields",
	Long: `
Reads VTK unstructured grids (.vtu, legacy .vtk) and ParaView collections
(.pvd) and renders meshes, scalar fields and vector fields to image files.

vtkplot scalar -F solution_0.vtu -f T -o T.png`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
		switch mode := viper.GetString("profile"); mode {
		case "":
		case "cpu":
			profiler = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
		case "mem":
			profiler = profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook)
		default:
			return fmt.Errorf("unknown profile mode %q, use cpu or mem", mode)
		}
		return
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if profiler != nil {
			profiler.Stop()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	def := plot2D.DefaultSurfaceStyle()
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.vtkplot.yaml)")
	pf.Float64("width", float64(def.Width/vg.Inch), "image width in inches")
	pf.Float64("height", float64(def.Height/vg.Inch), "image height in inches")
	pf.Int("dpi", def.DPI, "image resolution, dots per inch")
	pf.String("colormap", plot2D.DefaultColorMap, "color map for scalar fields")
	pf.String("profile", "", "write a cpu or mem profile to the current directory")
	pf.BoolP("verbose", "v", false, "print progress")
	bindFlags()
}

func bindFlags() {
	pf := rootCmd.PersistentFlags()
	for _, name := range []string{"width", "height", "dpi", "colormap", "profile", "verbose"} {
		if err := viper.BindPFlag(name, pf.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// initConfig reads in the config file, flags given on the command line
// take precedence over its values
func initConfig() {
	if cfgFile != "" {
		fileName, err := homedir.Expand(cfgFile)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.SetConfigFile(fileName)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".vtkplot")
		viper.SetConfigType("yaml")
	}
	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Println("Using config file:", viper.ConfigFileUsed())
		}
	} else if cfgFile != "" {
		fmt.Printf("error reading config file %s: %v\n", cfgFile, err)
		os.Exit(1)
	}
}

// surfaceStyle is the image style from the persistent flags and config file
func surfaceStyle() (style plot2D.SurfaceStyle) {
	style = plot2D.DefaultSurfaceStyle()
	if w := viper.GetFloat64("width"); w > 0 {
		style.Width = vg.Length(w) * vg.Inch
	}
	if h := viper.GetFloat64("height"); h > 0 {
		style.Height = vg.Length(h) * vg.Inch
	}
	if dpi := viper.GetInt("dpi"); dpi > 0 {
		style.DPI = dpi
	}
	return
}

func verbosef(format string, args ...interface{}) {
	if viper.GetBool("verbose") {
		fmt.Printf(format, args...)
	}
}

func exitOnError(err error) {
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
}
