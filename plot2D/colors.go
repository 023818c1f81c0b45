package plot2D

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
)

var (
	shortColors = map[string]color.Color{
		"b": color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
		"g": color.RGBA{R: 0x00, G: 0x80, B: 0x00, A: 0xff},
		"r": color.RGBA{R: 0xff, G: 0x00, B: 0x00, A: 0xff},
		"c": color.RGBA{R: 0x00, G: 0xbf, B: 0xbf, A: 0xff},
		"m": color.RGBA{R: 0xbf, G: 0x00, B: 0xbf, A: 0xff},
		"y": color.RGBA{R: 0xbf, G: 0xbf, B: 0x00, A: 0xff},
		"k": color.Black,
		"w": color.White,
	}
	colorMaps = map[string]func() palette.ColorMap{
		"kindlmann":    moreland.Kindlmann,
		"ekindlmann":   moreland.ExtendedKindlmann,
		"blackbody":    moreland.BlackBody,
		"eblackbody":   moreland.ExtendedBlackBody,
		"bluered":      diverging(moreland.SmoothBlueRed),
		"coolwarm":     diverging(moreland.SmoothBlueRed),
		"greenpurple":  diverging(moreland.SmoothGreenPurple),
		"purpleorange": diverging(moreland.SmoothPurpleOrange),
	}
)

const DefaultColorMap = "kindlmann"

func diverging(newMap func() palette.DivergingColorMap) func() palette.ColorMap {
	return func() palette.ColorMap { return newMap() }
}

// ParseColor accepts a single letter color code, a #rgb or #rrggbb hex value
// or an SVG color name
func ParseColor(s string) (c color.Color, err error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if sc, ok := shortColors[name]; ok {
		return sc, nil
	}
	if strings.HasPrefix(name, "#") {
		return parseHex(name[1:])
	}
	if nc, ok := colornames.Map[name]; ok {
		return nc, nil
	}
	return nil, fmt.Errorf("unknown color %q", s)
}

func parseHex(h string) (c color.Color, err error) {
	var v uint64
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return nil, fmt.Errorf("hex color #%s must have 3 or 6 digits", h)
	}
	if v, err = strconv.ParseUint(h, 16, 32); err != nil {
		return nil, fmt.Errorf("hex color #%s: %w", h, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

func colorOrDefault(s string, def color.Color) (color.Color, error) {
	if s == "" {
		return def, nil
	}
	return ParseColor(s)
}

// ColorMapNames lists the names accepted by NewColorMap
func ColorMapNames() (names []string) {
	for name := range colorMaps {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

// NewColorMap returns a new color map spanning [min,max], the default map is
// used when name is empty
func NewColorMap(name string, min, max float64) (cm palette.ColorMap, err error) {
	if name == "" {
		name = DefaultColorMap
	}
	newMap, ok := colorMaps[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown color map %q, have %v", name, ColorMapNames())
	}
	min, max = normalRange(min, max)
	cm = newMap()
	cm.SetMax(max)
	cm.SetMin(min)
	return
}

// normalRange turns an empty or undefined range into one a color map accepts
func normalRange(min, max float64) (float64, float64) {
	switch {
	case math.IsNaN(min) || math.IsNaN(max):
		return 0, 1
	case max < min:
		min, max = max, min
	}
	if max == min {
		return min - 0.5, max + 0.5
	}
	return min, max
}

// colorAt clamps val into the map range, NaN maps to transparent
func colorAt(cm palette.ColorMap, val float64) color.Color {
	if math.IsNaN(val) {
		return color.Transparent
	}
	val = math.Max(cm.Min(), math.Min(cm.Max(), val))
	c, err := cm.At(val)
	if err != nil {
		return color.Transparent
	}
	return c
}

// boundedColorMap shows a window [min,max] of a color map, values outside
// the underlying map's range take its end colors
type boundedColorMap struct {
	palette.ColorMap
	min, max float64
}

func (b *boundedColorMap) Min() float64       { return b.min }
func (b *boundedColorMap) Max() float64       { return b.max }
func (b *boundedColorMap) SetMin(min float64) { b.min = min }
func (b *boundedColorMap) SetMax(max float64) { b.max = max }
func (b *boundedColorMap) At(v float64) (color.Color, error) {
	if v < b.min || v > b.max {
		return nil, fmt.Errorf("value %v outside [%v,%v]", v, b.min, b.max)
	}
	return colorAt(b.ColorMap, v), nil
}

func (b *boundedColorMap) Palette(colors int) palette.Palette {
	return paletteOf(b, colors)
}

type colorList []color.Color

func (cl colorList) Colors() []color.Color { return cl }

func paletteOf(cm palette.ColorMap, colors int) palette.Palette {
	if colors < 2 {
		c, _ := cm.At(cm.Min())
		return colorList{c}
	}
	var (
		cl   = make(colorList, colors)
		step = (cm.Max() - cm.Min()) / float64(colors-1)
	)
	for i := range cl {
		cl[i], _ = cm.At(math.Min(cm.Max(), cm.Min()+float64(i)*step))
	}
	return cl
}
