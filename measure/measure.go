// Package measure measures wrapped text with the Gio text shaper, the engine
// that material labels draw text with.
package measure

import (
	"image"
	"sync"

	"gioui.org/font/gofont"
	"gioui.org/io/system"
	"gioui.org/text"
	"gioui.org/unit"
	"git.sr.ht/~gioverse/chatitems/bubble"
	"golang.org/x/image/math/fixed"
)

// DefaultSize is used for fonts that specify no size, as material themes do.
const DefaultSize = unit.Sp(16)

// Measurer implements bubble.Measurer. It serializes its own measurements; a
// Shaper shared with a theme must only be measured with on the frame
// goroutine.
type Measurer struct {
	// PxPerSp converts font sizes to pixels. Defaults to 1.
	PxPerSp float32
	// Shaper lays out the text. It should be the shaper of the theme the
	// text is rendered with. Defaults to a cache of the Go fonts.
	Shaper text.Shaper

	mu sync.Mutex
}

var _ bubble.Measurer = (*Measurer)(nil)

// New returns a Measurer scaling sizes by pxPerSp and shaping with the Go
// fonts, the faces of a theme built from gofont.Collection.
func New(pxPerSp float32) *Measurer {
	return &Measurer{PxPerSp: pxPerSp}
}

// Measure the extent of txt wrapped to maxWidth pixels, as a label within
// the same maximum width would lay it out.
func (m *Measurer) Measure(txt string, f bubble.Font, maxWidth int) image.Point {
	if txt == "" {
		return image.Point{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Shaper == nil {
		m.Shaper = text.NewCache(gofont.Collection())
	}
	if m.PxPerSp <= 0 {
		m.PxPerSp = 1
	}
	size := f.Size
	if size <= 0 {
		size = DefaultSize
	}
	px := unit.Metric{PxPerSp: m.PxPerSp}.Sp(size)
	lines := m.Shaper.LayoutString(f.Font, fixed.I(px), maxWidth, system.Locale{}, txt)
	return extent(lines)
}

// extent sums the lines the way labels compute their dimensions: line
// heights are rounded up between baselines, and the width is that of the
// widest line.
func extent(lines []text.Line) image.Point {
	if len(lines) == 0 {
		return image.Point{}
	}
	var (
		width    fixed.Int26_6
		height   int
		prevDesc fixed.Int26_6
	)
	for _, l := range lines {
		height += (prevDesc + l.Ascent).Ceil()
		prevDesc = l.Descent
		if l.Width > width {
			width = l.Width
		}
	}
	height += lines[len(lines)-1].Descent.Ceil()
	return image.Pt(width.Ceil(), height)
}
