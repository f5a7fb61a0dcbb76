package material

import (
	"image"
	"time"

	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget/material"
)

// SeparatorStyle configures the presentation of a labelled divider
// between cells.
type SeparatorStyle struct {
	Message    material.LabelStyle
	TextMargin layout.Inset
	LineMargin layout.Inset
	LineWidth  unit.Dp
}

// DateSeparator makes a SeparatorStyle indicating the transition to the
// day of date.
func DateSeparator(th *material.Theme, date time.Time) SeparatorStyle {
	s := SeparatorStyle{
		Message:    material.Body2(th, date.Format("Mon Jan 2, 2006")),
		TextMargin: layout.UniformInset(unit.Dp(8)),
		LineMargin: layout.UniformInset(unit.Dp(8)),
		LineWidth:  unit.Dp(1),
	}
	s.Message.Color.A = 160
	return s
}

// Layout the separator.
func (u SeparatorStyle) Layout(gtx C) D {
	layoutLine := func(gtx C) D {
		return u.LineMargin.Layout(gtx, func(gtx C) D {
			size := image.Point{
				X: gtx.Constraints.Max.X,
				Y: gtx.Dp(u.LineWidth),
			}
			paint.FillShape(gtx.Ops, u.Message.Color, clip.Rect(image.Rectangle{Max: size}).Op())
			return D{Size: size}
		})
	}
	return layout.Flex{
		Alignment: layout.Middle,
	}.Layout(gtx,
		layout.Flexed(.5, layoutLine),
		layout.Rigid(func(gtx C) D {
			return u.TextMargin.Layout(gtx, u.Message.Layout)
		}),
		layout.Flexed(.5, layoutLine),
	)
}
