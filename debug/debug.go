/*
Package debug draws layout diagnostics over Gio widgets.
*/
package debug

import (
	"image/color"

	"gioui.org/layout"
	"gioui.org/unit"
	"gioui.org/widget"
	"git.sr.ht/~gioverse/chatitems/style"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

// Outline traces the bounds of a widget.
type Outline struct {
	Color color.NRGBA
	Width unit.Dp
}

// Black is a thin black outline.
var Black = Outline{Color: color.NRGBA{A: 255}, Width: unit.Dp(1)}

// Pool returns an outline whose color identifies the cell pool, so recycled
// cells can be told apart on screen.
func Pool(reuseIdentifier string) Outline {
	return Outline{Color: style.AvatarColor(reuseIdentifier), Width: unit.Dp(1)}
}

// Layout w with the outline drawn over its bounds.
func (o Outline) Layout(gtx C, w layout.Widget) D {
	return widget.Border{
		Color: o.Color,
		Width: o.Width,
	}.Layout(gtx, w)
}
