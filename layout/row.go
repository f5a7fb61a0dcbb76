package layout

import (
	"gioui.org/layout"
	"gioui.org/unit"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

// Row lays out the content of a message cell between two gutters.
// Incoming messages are aligned W, outgoing messages E.
type Row struct {
	// Margin above and below the row.
	Margin VerticalMarginStyle
	// Gutter provides the space either side of the content, which can hold
	// the avatar and status widgets.
	Gutter GutterStyle
	// Direction aligns the content within the center of the row.
	Direction layout.Direction
}

// Layout the row. Left and right may be nil.
func (r Row) Layout(gtx C, left, content, right layout.Widget) D {
	return r.Margin.Layout(gtx, func(gtx C) D {
		return r.Gutter.Layout(gtx,
			left,
			func(gtx C) D {
				return r.Direction.Layout(gtx, content)
			},
			right,
		)
	})
}

// Height returns the height of a row whose tallest part is content pixels
// high.
func (r Row) Height(m unit.Metric, content int) int {
	return content + 2*m.Dp(r.Margin.Size)
}
