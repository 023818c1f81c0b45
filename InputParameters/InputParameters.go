package InputParameters

import (
	"fmt"
	"strings"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML animation file
type PlotParameters struct {
	Title    string        `json:"Title"`  // Prefixed to "t = <time>" when set
	Prefix   string        `json:"Prefix"` // Frame files are <Prefix>__t<time>.png
	Scalar   ScalarLayer   `json:"Scalar"`
	Vector   VectorLayer   `json:"Vector"`
	Isolines IsolineLayer  `json:"Isolines"`
	XLim     []float64     `json:"XLim"`
	YLim     []float64     `json:"YLim"`
	Width    float64       `json:"Width"` // Inches
	Height   float64       `json:"Height"`
	DPI      int           `json:"DPI"`
	GIF      GIFParameters `json:"GIF"`
}

// ScalarLayer is the filled contour plot drawn first in every frame
type ScalarLayer struct {
	Field         string    `json:"Field"` // Name or index, the layer is skipped when empty
	NumLevels     int       `json:"NumLevels"`
	VMin          float64   `json:"VMin"`
	VMax          float64   `json:"VMax"`
	ColorMap      string    `json:"ColorMap"`
	ColorbarTitle string    `json:"ColorbarTitle"`
	Boundaries    []float64 `json:"Boundaries"`
	Ticks         []float64 `json:"Ticks"`
}

// VectorLayer draws a vector field as arrows or streamlines
type VectorLayer struct {
	Field        string  `json:"Field"`
	Mode         string  `json:"Mode"` // quiver or streamlines
	Color        string  `json:"Color"`
	Scale        float64 `json:"Scale"`
	HeadWidth    float64 `json:"HeadWidth"`
	MaxLineWidth float64 `json:"MaxLineWidth"`
	SpeedScale   float64 `json:"SpeedScale"` // Zero uses the first frame's max speed for every frame
	Density      float64 `json:"Density"`
	Resample     int     `json:"Resample"`
	Arrows       bool    `json:"Arrows"`
}

// IsolineLayer draws line contours over the other layers
type IsolineLayer struct {
	Field     string    `json:"Field"`
	Levels    []float64 `json:"Levels"`
	NumLevels int       `json:"NumLevels"`
	Color     string    `json:"Color"`
	LineWidth float64   `json:"LineWidth"`
}

type GIFParameters struct {
	File    string `json:"File"`
	DelayMS int    `json:"DelayMS"`
}

const (
	QuiverMode      = "quiver"
	StreamlinesMode = "streamlines"
)

func (ip *PlotParameters) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, ip); err != nil {
		return
	}
	ip.setDefaults()
	return ip.Validate()
}

func (ip *PlotParameters) setDefaults() {
	if ip.Prefix == "" {
		ip.Prefix = "frame"
	}
	ip.Vector.Mode = strings.ToLower(ip.Vector.Mode)
	if ip.Vector.Field != "" && ip.Vector.Mode == "" {
		ip.Vector.Mode = QuiverMode
	}
	if ip.GIF.File != "" && ip.GIF.DelayMS <= 0 {
		ip.GIF.DelayMS = 500
	}
}

func (ip *PlotParameters) Validate() error {
	switch ip.Vector.Mode {
	case "", QuiverMode, StreamlinesMode:
	default:
		return fmt.Errorf("Vector.Mode must be %q or %q, have %q", QuiverMode, StreamlinesMode, ip.Vector.Mode)
	}
	for i, lim := range [][]float64{ip.XLim, ip.YLim} {
		if len(lim) != 0 && (len(lim) != 2 || lim[0] >= lim[1]) {
			return fmt.Errorf("%s must be [min, max] with min < max, have %v", []string{"XLim", "YLim"}[i], lim)
		}
	}
	if ip.Scalar.Field == "" && ip.Vector.Field == "" && ip.Isolines.Field == "" {
		return fmt.Errorf("no layer has a Field")
	}
	if ip.Width < 0 || ip.Height < 0 || ip.DPI < 0 {
		return fmt.Errorf("Width, Height and DPI must not be negative")
	}
	return nil
}

func (ip *PlotParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%s]\t\t= Frame Prefix\n", ip.Prefix)
	if ip.Scalar.Field != "" {
		fmt.Printf("[%s]\t\t\t= Scalar Field, %d levels, range [%g,%g]\n",
			ip.Scalar.Field, ip.Scalar.NumLevels, ip.Scalar.VMin, ip.Scalar.VMax)
	}
	if ip.Vector.Field != "" {
		fmt.Printf("[%s]\t\t\t= Vector Field (%s)\n", ip.Vector.Field, ip.Vector.Mode)
	}
	if ip.Isolines.Field != "" {
		fmt.Printf("[%s]\t\t\t= Isolines, levels %v\n", ip.Isolines.Field, ip.Isolines.Levels)
	}
	if len(ip.XLim) != 0 || len(ip.YLim) != 0 {
		fmt.Printf("%v x %v\t= Limits\n", ip.XLim, ip.YLim)
	}
	if ip.GIF.File != "" {
		fmt.Printf("[%s]\t\t= GIF, %d ms per frame\n", ip.GIF.File, ip.GIF.DelayMS)
	}
}
