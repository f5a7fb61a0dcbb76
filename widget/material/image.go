package material

import (
	"image"

	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
)

// Image lays out an image with optionally rounded corners.
type Image struct {
	widget.Image
	// Radii specifies the amount of rounding.
	Radii unit.Dp
}

// Layout the image. An empty image occupies the maximum constraints.
func (img Image) Layout(gtx C) D {
	if img.Image.Src == (paint.ImageOp{}) {
		return D{Size: gtx.Constraints.Max}
	}
	macro := op.Record(gtx.Ops)
	dims := img.Image.Layout(gtx)
	call := macro.Stop()
	r := gtx.Dp(img.Radii)
	defer clip.RRect{
		Rect: image.Rectangle{Max: dims.Size},
		NE:   r, NW: r, SE: r, SW: r,
	}.Push(gtx.Ops).Pop()
	call.Add(gtx.Ops)
	return dims
}

// Cover returns an Image that fills its constraints with src, cropping
// what does not fit.
func Cover(src paint.ImageOp, radii unit.Dp) Image {
	return Image{
		Image: widget.Image{
			Src:      src,
			Fit:      widget.Cover,
			Position: layout.Center,
		},
		Radii: radii,
	}
}
