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
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/notargets/vtkplot/plot2D"
	"github.com/notargets/vtkplot/readfiles"
	"github.com/notargets/vtkplot/types"
)

// MeshCmd represents the mesh command
var MeshCmd = &cobra.Command{
	Use:   "mesh",
	Short: "Plot the triangles of a mesh file",
	Long: `
Draws the triangle edges of a .vtu or legacy .vtk file with equal axis scales,

vtkplot mesh -F solution_0.vtu -o mesh.png`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			mc = &MeshCommand{}
		)
		mc.GridFile, _ = cmd.Flags().GetString("gridFile")
		mc.Output, _ = cmd.Flags().GetString("output")
		mc.Title, _ = cmd.Flags().GetString("title")
		exitOnError(mc.Run())
	},
}

func init() {
	rootCmd.AddCommand(MeshCmd)
	MeshCmd.Flags().StringP("gridFile", "F", "", "mesh file, .vtu or .vtk")
	MeshCmd.Flags().StringP("output", "o", "mesh.png", "image file, the extension picks png, jpg or tiff")
	MeshCmd.Flags().String("title", "", "plot title, the file name when empty")
}

type MeshCommand struct {
	GridFile, Output, Title string
}

func (mc *MeshCommand) Run() (err error) {
	var (
		md *types.MeshData
	)
	if md, err = loadMesh(mc.GridFile); err != nil {
		return
	}
	s := plot2D.PlotMesh(md, plot2D.NewSurfaceWithStyle(surfaceStyle()))
	s.SetTitle(titleOr(mc.Title, md))
	return save(s, mc.Output)
}

func loadMesh(fileName string) (md *types.MeshData, err error) {
	if fileName == "" {
		return nil, fmt.Errorf("a mesh file is required, use -F")
	}
	if md, err = readfiles.ReadVTKData(fileName); err != nil {
		return
	}
	verbosef("Read %s", md)
	return
}

func titleOr(title string, md *types.MeshData) string {
	if title != "" {
		return title
	}
	return filepath.Base(md.Source)
}

func save(s *plot2D.Surface, output string) (err error) {
	var (
		fileName string
	)
	if fileName, err = homedir.Expand(output); err != nil {
		return
	}
	verbosef("Saving %s\n", fileName)
	return s.Save(fileName)
}
