package material

import (
	"image"
	"testing"
	"time"

	"gioui.org/font/gofont"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget/material"
)

func TestBubbleShape(t *testing.T) {
	var ops op.Ops
	gtx := layout.NewContext(&ops, system.FrameEvent{
		Size:   image.Pt(100, 100),
		Metric: unit.Metric{PxPerDp: 2, PxPerSp: 2},
	})
	r := image.Rect(0, 0, 50, 20)
	for _, tc := range []struct {
		name           string
		bubble         BubbleStyle
		sw, se, nw, ne int
	}{
		{name: "no tail", bubble: BubbleStyle{CornerRadius: 5}, sw: 10, se: 10, nw: 10, ne: 10},
		{name: "incoming tail", bubble: BubbleStyle{CornerRadius: 5, Tail: true, Incoming: true}, sw: 0, se: 10, nw: 10, ne: 10},
		{name: "outgoing tail", bubble: BubbleStyle{CornerRadius: 5, Tail: true}, sw: 10, se: 0, nw: 10, ne: 10},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rr := tc.bubble.Shape(gtx, r)
			if rr.Rect != r {
				t.Errorf("unexpected rect %v", rr.Rect)
			}
			if rr.SW != tc.sw || rr.SE != tc.se || rr.NW != tc.nw || rr.NE != tc.ne {
				t.Errorf("unexpected radii %+v", rr)
			}
		})
	}
}

func TestImageLayout(t *testing.T) {
	var ops op.Ops
	gtx := layout.NewContext(&ops, system.FrameEvent{Size: image.Pt(100, 80)})
	if dims := (Image{}).Layout(gtx); dims.Size != image.Pt(100, 80) {
		t.Errorf("empty image must fill its constraints, got %v", dims.Size)
	}
	src := paint.NewImageOp(image.NewNRGBA(image.Rect(0, 0, 10, 10)))
	gtx.Constraints = layout.Exact(image.Pt(40, 30))
	if dims := Cover(src, 4).Layout(gtx); dims.Size != image.Pt(40, 30) {
		t.Errorf("covered image must fill exact constraints, got %v", dims.Size)
	}
}

func TestDateSeparator(t *testing.T) {
	th := material.NewTheme(gofont.Collection())
	date := time.Date(2022, time.March, 4, 10, 0, 0, 0, time.UTC)
	s := DateSeparator(th, date)
	if s.Message.Text != "Fri Mar 4, 2022" {
		t.Errorf("unexpected label %q", s.Message.Text)
	}
}
