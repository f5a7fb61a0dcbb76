package material

import (
	"image"
	"image/color"

	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

// BubbleStyle defines a colored surface with rounded corners.
type BubbleStyle struct {
	// The radius of the corners of the surface.
	CornerRadius unit.Dp
	Color        color.NRGBA
	// Tail squares the bottom corner on the side of the sender, marking
	// the last message of a group.
	Tail bool
	// Incoming places the tail on the left.
	Incoming bool
}

// Shape returns the outline of the bubble covering r.
func (b BubbleStyle) Shape(gtx C, r image.Rectangle) clip.RRect {
	radius := gtx.Dp(b.CornerRadius)
	rr := clip.RRect{Rect: r, NW: radius, NE: radius, SW: radius, SE: radius}
	if b.Tail {
		if b.Incoming {
			rr.SW = 0
		} else {
			rr.SE = 0
		}
	}
	return rr
}

// Fill paints the bubble over r.
func (b BubbleStyle) Fill(gtx C, r image.Rectangle) {
	paint.FillShape(gtx.Ops, b.Color, b.Shape(gtx, r).Op(gtx.Ops))
}

// Layout renders the bubble beneath the provided widget.
func (b BubbleStyle) Layout(gtx C, w layout.Widget) D {
	return layout.Stack{}.Layout(gtx,
		layout.Expanded(func(gtx C) D {
			b.Fill(gtx, image.Rectangle{Max: gtx.Constraints.Min})
			return D{Size: gtx.Constraints.Min}
		}),
		layout.Stacked(w),
	)
}
