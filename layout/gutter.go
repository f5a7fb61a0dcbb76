package layout

import (
	"gioui.org/layout"
	"gioui.org/unit"
)

// GutterStyle reserves space either side of the content of a cell. Each side
// can display a widget atop its space.
type GutterStyle struct {
	LeftWidth  unit.Dp
	RightWidth unit.Dp
	layout.Alignment
}

// Gutter returns a GutterStyle with narrow gutters on both sides.
func Gutter() GutterStyle {
	return GutterStyle{
		LeftWidth:  unit.Dp(12),
		RightWidth: unit.Dp(12),
		Alignment:  layout.End,
	}
}

// Width returns the space both gutters occupy, in pixels.
func (g GutterStyle) Width(m unit.Metric) int {
	return m.Dp(g.LeftWidth) + m.Dp(g.RightWidth)
}

// Layout the gutter with the left and right widgets laid out atop the gutter
// areas and the center widget in the remaining space in between. Left or
// right may be nil.
func (g GutterStyle) Layout(gtx layout.Context, left, center, right layout.Widget) layout.Dimensions {
	return layout.Flex{
		Alignment: g.Alignment,
	}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return layoutGutterSide(gtx, g.LeftWidth, left)
		}),
		layout.Flexed(1, center),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return layoutGutterSide(gtx, g.RightWidth, right)
		}),
	)
}

// layoutGutterSide lays out a spacer of the given width with widget stacked
// on top.
func layoutGutterSide(gtx layout.Context, width unit.Dp, widget layout.Widget) layout.Dimensions {
	spacer := layout.Spacer{Width: width}
	if widget == nil {
		return spacer.Layout(gtx)
	}
	return layout.Stack{}.Layout(gtx,
		layout.Stacked(spacer.Layout),
		layout.Expanded(widget),
	)
}
