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
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/vtkplot/InputParameters"
	"github.com/notargets/vtkplot/animation"
)

// AnimateCmd represents the animate command
var AnimateCmd = &cobra.Command{
	Use:   "animate",
	Short: "Render every timestep of a ParaView collection",
	Long: `
Renders one frame per dataset of a .pvd collection with the layers described
in a YAML parameters file, and optionally an animated GIF of the frames,

vtkplot animate -F solution.pvd -I params.yaml -o frames`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			ac = &AnimateCommand{}
		)
		ac.CollectionFile, _ = cmd.Flags().GetString("collectionFile")
		ac.ParametersFile, _ = cmd.Flags().GetString("inputParametersFile")
		ac.OutDir, _ = cmd.Flags().GetString("outDir")
		exitOnError(ac.Run())
	},
}

func init() {
	rootCmd.AddCommand(AnimateCmd)
	AnimateCmd.Flags().StringP("collectionFile", "F", "", "ParaView collection file, .pvd")
	AnimateCmd.Flags().StringP("inputParametersFile", "I", "", "YAML file describing the plot layers")
	AnimateCmd.Flags().StringP("outDir", "o", ".", "directory the frames are written to")
}

const exampleParametersFile = `
########################################
Title: "Freezing water"
Prefix: frame
Scalar:
  Field: T
  NumLevels: 32
  ColorMap: blackbody
Vector:
  Field: u
  Mode: streamlines # Can be "quiver"
Isolines:
  Field: p
  NumLevels: 8
  Color: w
GIF:
  File: movie.gif
  DelayMS: 200
########################################
`

type AnimateCommand struct {
	CollectionFile, ParametersFile, OutDir string
}

func (ac *AnimateCommand) Run() (err error) {
	var (
		ip    *InputParameters.PlotParameters
		paths []string
	)
	if ac.CollectionFile == "" {
		return fmt.Errorf("must supply a collection file (-F, --collectionFile) in .pvd format")
	}
	if ac.ParametersFile == "" {
		fmt.Printf("Example File:%s\n", exampleParametersFile)
		return fmt.Errorf("must supply an input parameters file (-I, --inputParametersFile)")
	}
	if ip, err = readParameters(ac.ParametersFile); err != nil {
		return
	}
	if viper.GetBool("verbose") {
		ip.Print()
	}
	if paths, err = animation.Animate(ac.CollectionFile, ip, ac.OutDir); err != nil {
		return
	}
	for _, path := range paths {
		verbosef("Saving %s\n", path)
	}
	return
}

// readParameters parses the parameters file, the persistent flags fill in
// what the file leaves unset
func readParameters(path string) (ip *InputParameters.PlotParameters, err error) {
	var (
		fileName string
		data     []byte
	)
	if fileName, err = homedir.Expand(path); err != nil {
		return
	}
	if data, err = os.ReadFile(fileName); err != nil {
		return
	}
	ip = &InputParameters.PlotParameters{}
	if err = ip.Parse(data); err != nil {
		return nil, fmt.Errorf("%s: %w", fileName, err)
	}
	if ip.Width == 0 {
		ip.Width = viper.GetFloat64("width")
	}
	if ip.Height == 0 {
		ip.Height = viper.GetFloat64("height")
	}
	if ip.DPI == 0 {
		ip.DPI = viper.GetInt("dpi")
	}
	if ip.Scalar.Field != "" && ip.Scalar.ColorMap == "" {
		ip.Scalar.ColorMap = viper.GetString("colormap")
	}
	return
}
