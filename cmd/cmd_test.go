package cmd

import (
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/vtkplot/types"
)

const (
	gridFile = "../testdata/freeze_water/solution_0.vtu"
	pvdFile  = "../testdata/freeze_water/solution.pvd"
)

// smallImages makes the persistent settings produce 100 x 50 pixel images
func smallImages(t *testing.T) {
	viper.Set("width", 2.)
	viper.Set("height", 1.)
	viper.Set("dpi", 50)
	viper.Set("colormap", "blackbody")
	t.Cleanup(resetConfig)
}

func resetConfig() {
	viper.Reset()
	bindFlags()
}

func imageSize(t *testing.T, path string) (w, h int) {
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	return cfg.Width, cfg.Height
}

func TestMeshCommand(t *testing.T) {
	smallImages(t)
	out := filepath.Join(t.TempDir(), "mesh.png")
	mc := &MeshCommand{GridFile: gridFile, Output: out}
	require.NoError(t, mc.Run())
	w, h := imageSize(t, out)
	assert.InDelta(t, 100, w, 1)
	assert.InDelta(t, 50, h, 1)

	mc = &MeshCommand{Output: out}
	assert.Error(t, mc.Run())
	mc = &MeshCommand{GridFile: "../testdata/freeze_water/missing.vtu", Output: out}
	var ffe *types.FileFormatError
	assert.True(t, errors.As(mc.Run(), &ffe))
}

func TestFieldCommands(t *testing.T) {
	smallImages(t)
	dir := t.TempDir()
	{ // Filled and line contours, by name and by index
		for _, fc := range []*FieldCommand{
			{GridFile: gridFile, Field: "T", Output: filepath.Join(dir, "T.png")},
			{GridFile: gridFile, Field: "0", Lines: true, NumLevels: 5, Color: "k", Output: filepath.Join(dir, "p.png")},
			{GridFile: gridFile, Field: "T", VMin: -1, VMax: 2, Output: filepath.Join(dir, "T.jpg")},
		} {
			require.NoError(t, fc.RunScalar())
			_, err := os.Stat(fc.Output)
			assert.NoError(t, err)
		}
	}
	{ // Vector plots over a scalar layer
		fc := &FieldCommand{GridFile: gridFile, Field: "u", Scalar: "T", Output: filepath.Join(dir, "u.png")}
		require.NoError(t, fc.RunVector())
		fc = &FieldCommand{GridFile: gridFile, Field: "1", Scalar: "T", Arrows: true,
			Output: filepath.Join(dir, "s.png")}
		require.NoError(t, fc.RunStreamlines())
		w, h := imageSize(t, fc.Output)
		assert.InDelta(t, 100, w, 1)
		assert.InDelta(t, 50, h, 1)
	}
	{ // Errors
		out := filepath.Join(dir, "bad.png")
		var fke *types.FieldKindError
		fc := &FieldCommand{GridFile: gridFile, Field: "u", Output: out}
		assert.True(t, errors.As(fc.RunScalar(), &fke))
		fc = &FieldCommand{GridFile: gridFile, Field: "T", Output: out}
		assert.True(t, errors.As(fc.RunStreamlines(), &fke))
		fc = &FieldCommand{GridFile: gridFile, Field: "u", Scalar: "u", Output: out}
		assert.True(t, errors.As(fc.RunVector(), &fke))
		var fnf *types.FieldNotFoundError
		fc = &FieldCommand{GridFile: gridFile, Field: "rho", Output: out}
		assert.True(t, errors.As(fc.RunScalar(), &fnf))
		fc = &FieldCommand{GridFile: gridFile, Output: out}
		assert.Error(t, fc.RunScalar())
		fc = &FieldCommand{GridFile: gridFile, Field: "T", VMin: 2, VMax: 1, Output: out}
		assert.Error(t, fc.RunScalar())
		fc = &FieldCommand{GridFile: gridFile, Field: "T", Output: filepath.Join(dir, "T.bmp")}
		assert.Error(t, fc.RunScalar())
		_, err := os.Stat(out)
		assert.True(t, os.IsNotExist(err))
	}
}

func TestFieldTitle(t *testing.T) {
	md, err := loadMesh(gridFile)
	require.NoError(t, err)
	assert.Equal(t, "u", (&FieldCommand{Field: "1"}).title(md))
	assert.Equal(t, "Speed", (&FieldCommand{Field: "1", Title: "Speed"}).title(md))
	assert.Equal(t, "solution_0.vtu", titleOr("", md))
}

func TestAnimateCommand(t *testing.T) {
	smallImages(t)
	dir := t.TempDir()
	params := filepath.Join(dir, "params.yaml")
	require.NoError(t, os.WriteFile(params, []byte(`
Prefix: T
Scalar:
  Field: T
  NumLevels: 8
Vector:
  Field: u
`), 0644))
	{
		ip, err := readParameters(params)
		require.NoError(t, err)
		assert.Equal(t, 2., ip.Width)
		assert.Equal(t, 50, ip.DPI)
		assert.Equal(t, "blackbody", ip.Scalar.ColorMap)
	}
	out := filepath.Join(dir, "frames")
	ac := &AnimateCommand{CollectionFile: pvdFile, ParametersFile: params, OutDir: out}
	require.NoError(t, ac.Run())
	for _, name := range []string{"T__t0.png", "T__t0.5.png", "T__t1.png"} {
		w, h := imageSize(t, filepath.Join(out, name))
		assert.InDelta(t, 100, w, 1)
		assert.InDelta(t, 50, h, 1)
	}
	assert.Error(t, (&AnimateCommand{ParametersFile: params, OutDir: out}).Run())
	assert.Error(t, (&AnimateCommand{CollectionFile: pvdFile, OutDir: out}).Run())
	assert.Error(t, (&AnimateCommand{CollectionFile: pvdFile, ParametersFile: filepath.Join(dir, "none.yaml"),
		OutDir: out}).Run())
}

func TestRootCommand(t *testing.T) {
	t.Cleanup(resetConfig)
	out := filepath.Join(t.TempDir(), "mesh.png")
	rootCmd.SetArgs([]string{"mesh", "-F", gridFile, "-o", out, "--width", "3", "--height", "2", "--dpi", "20"})
	require.NoError(t, rootCmd.Execute())
	w, h := imageSize(t, out)
	assert.InDelta(t, 60, w, 1)
	assert.InDelta(t, 40, h, 1)

	rootCmd.SetArgs([]string{"mesh", "-F", gridFile, "-o", out, "--profile", "disk"})
	assert.Error(t, rootCmd.Execute())
}
