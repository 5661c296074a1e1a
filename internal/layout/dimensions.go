package layout

import "math"

// Size is the observed content-box size of a container.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Margins are the gaps between the container edge and the plotting rectangle.
type Margins struct {
	Top    float64 `yaml:"top"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
	Left   float64 `yaml:"left"`
}

// DefaultMargins leave room for the price axis on the left and the time axis below.
var DefaultMargins = Margins{Top: 40, Right: 30, Bottom: 40, Left: 75}

// OrDefault replaces each zero margin with the matching DefaultMargins value.
func (m Margins) OrDefault() Margins {
	pick := func(v, def float64) float64 {
		if v == 0 {
			return def
		}
		return v
	}
	return Margins{
		Top:    pick(m.Top, DefaultMargins.Top),
		Right:  pick(m.Right, DefaultMargins.Right),
		Bottom: pick(m.Bottom, DefaultMargins.Bottom),
		Left:   pick(m.Left, DefaultMargins.Left),
	}
}

// Dimensions is the container size combined with margins.
type Dimensions struct {
	Width         float64
	Height        float64
	MarginTop     float64
	MarginRight   float64
	MarginBottom  float64
	MarginLeft    float64
	BoundedWidth  float64
	BoundedHeight float64
}

// Combine derives the bounded plotting rectangle from a size and margins.
// Bounded sizes never go below zero.
func Combine(size Size, m Margins) Dimensions {
	return Dimensions{
		Width:         size.Width,
		Height:        size.Height,
		MarginTop:     m.Top,
		MarginRight:   m.Right,
		MarginBottom:  m.Bottom,
		MarginLeft:    m.Left,
		BoundedWidth:  math.Max(size.Width-m.Left-m.Right, 0),
		BoundedHeight: math.Max(size.Height-m.Top-m.Bottom, 0),
	}
}

// Ready reports whether both observed sizes are positive.
func (d Dimensions) Ready() bool {
	return d.Width > 0 && d.Height > 0
}

// Margins returns the margins the dimensions were built with.
func (d Dimensions) Margins() Margins {
	return Margins{Top: d.MarginTop, Right: d.MarginRight, Bottom: d.MarginBottom, Left: d.MarginLeft}
}
