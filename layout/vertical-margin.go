package layout

import (
	"gioui.org/layout"
	"gioui.org/unit"
)

// VerticalMarginStyle insets a widget equally above and below. Every cell
// wraps its content in one so that neighbouring bubbles never touch.
type VerticalMarginStyle struct {
	Size unit.Dp
}

// VerticalMargin returns the default margin between cells.
func VerticalMargin() VerticalMarginStyle {
	return VerticalMarginStyle{
		Size: unit.Dp(4),
	}
}

// Layout w within the margin.
func (v VerticalMarginStyle) Layout(gtx layout.Context, w layout.Widget) layout.Dimensions {
	return layout.Inset{
		Top:    v.Size,
		Bottom: v.Size,
	}.Layout(gtx, w)
}
