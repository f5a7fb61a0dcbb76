package cell

import (
	"image"
	"image/color"

	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/component"
	"git.sr.ht/~gioverse/chatitems/bubble"
	chatlayout "git.sr.ht/~gioverse/chatitems/layout"
	"git.sr.ht/~gioverse/chatitems/message"
	"git.sr.ht/~gioverse/chatitems/style"
	"git.sr.ht/~gioverse/chatitems/viewmodel"
	chatmaterial "git.sr.ht/~gioverse/chatitems/widget/material"
)

// DeletedText is shown in the bubble of deleted messages.
const DeletedText = "Message deleted"

// Layout the cell. An unconfigured cell lays out nothing.
func (c *Media) Layout(gtx C) D {
	if c.cfg.ViewModel == nil {
		return D{}
	}
	c.update(gtx)
	var (
		vm    = c.cfg.ViewModel
		model = c.Model(gtx.Constraints.Max.X, gtx.Metric)
		row   = c.row()
	)
	var avatar layout.Widget
	if vm.Base().IsIncoming() && c.cfg.Decoration.CanShowAvatar && c.cfg.Decoration.ShowsTail {
		avatar = c.layoutAvatar
	}
	var selection color.NRGBA
	if c.cfg.Decoration.Selected {
		selection = style.Darken(color.NRGBA{R: 255, G: 255, B: 255, A: 255}, c.cfg.Style.Base.SelectedShade)
		selection.A = 80
	}
	return layout.Stack{}.Layout(gtx,
		layout.Stacked(func(gtx C) D {
			return chatlayout.Background(selection).Layout(gtx, func(gtx C) D {
				return row.Layout(gtx, avatar, func(gtx C) D {
					return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
						chatlayout.Reverse(!vm.Base().IsIncoming(),
							layout.Rigid(func(gtx C) D {
								return c.layoutBubble(gtx, model)
							}),
							layout.Rigid(c.layoutFailIcon),
						)...,
					)
				}, nil)
			})
		}),
		layout.Expanded(func(gtx C) D {
			if len(c.cfg.Menu) == 0 {
				return D{}
			}
			return c.state.ContextArea.Layout(gtx, func(gtx C) D {
				gtx.Constraints.Min = image.Point{}
				return component.Menu(c.theme(), &c.state.Menu).Layout(gtx)
			})
		}),
	)
}

// update processes the interactions since the last frame.
func (c *Media) update(gtx C) {
	for c.state.Bubble.Clicked() {
		if c.cfg.Decoration.Selecting {
			call(c.cfg.Select)
		} else {
			call(c.cfg.TapBubble)
		}
	}
	for c.state.FailIcon.Clicked() {
		call(c.cfg.TapFailIcon)
	}
	for i := range c.state.Options {
		for c.state.Options[i].Clicked() {
			if i < len(c.cfg.Menu) {
				call(c.cfg.Menu[i].Do)
			}
		}
	}
	if c.state.Image.Cache(c.cfg.ViewModel.Base().Image.Get()) && c.fade {
		c.fadeStart = gtx.Now
	}
	c.state.Avatar.Cache(c.cfg.ViewModel.Base().Avatar.Get())
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}

// surface returns the bubble style of the cell.
func (c *Media) surface() chatmaterial.BubbleStyle {
	vm := c.cfg.ViewModel
	return chatmaterial.BubbleStyle{
		CornerRadius: c.cfg.Style.Base.CornerRadius,
		Color:        c.cfg.Style.BubbleColor(vm, c.cfg.Decoration.Selected),
		Tail:         c.cfg.Decoration.ShowsTail,
		Incoming:     vm.Base().IsIncoming(),
	}
}

// layoutBubble draws the frames of model.
func (c *Media) layoutBubble(gtx C, model *bubble.Model) D {
	gtx.Constraints = layout.Exact(model.Size)
	return c.state.Bubble.Layout(gtx, func(gtx C) D {
		switch {
		case model.Context.Deleted:
			c.surface().Fill(gtx, model.BubbleFrame)
			c.layoutDeleted(gtx, model.BubbleFrame)
		case model.Context.Kind == message.KindPhoto:
			c.layoutPhoto(gtx, model)
		default:
			c.surface().Fill(gtx, model.BubbleFrame)
			c.layoutText(gtx, model)
			c.layoutPhoto(gtx, model)
		}
		return D{Size: model.Size}
	})
}

// layoutDeleted labels the placeholder bubble of a deleted or hidden
// message. Hidden messages show their obscured text.
func (c *Media) layoutDeleted(gtx C, frame image.Rectangle) {
	vm := c.cfg.ViewModel
	txt := DeletedText
	if !vm.Base().IsDeleted() {
		txt = vm.Text()
	}
	l := material.Label(c.theme(), c.cfg.Style.Text.Size, txt)
	l.Color = c.cfg.Style.TextColor(vm, c.cfg.Decoration.Selected)
	l.Font.Style = text.Italic
	gtx.Constraints = layout.Exact(frame.Size())
	layout.Center.Layout(gtx, l.Layout)
}

// layoutText draws the text inside the text frame, within its insets.
func (c *Media) layoutText(gtx C, model *bubble.Model) {
	var (
		vm     = c.cfg.ViewModel
		sel    = c.cfg.Decoration.Selected
		insets = model.Context.TextInsets
		font   = model.Context.Font
	)
	frame := model.TextFrame
	frame.Min = frame.Min.Add(image.Pt(insets.Left, insets.Top))
	frame.Max = frame.Max.Sub(image.Pt(insets.Right, insets.Bottom))
	if frame.Empty() {
		return
	}
	defer op.Offset(frame.Min).Push(gtx.Ops).Pop()
	gtx.Constraints = layout.Constraints{Max: frame.Size()}
	l := material.Label(c.theme(), font.Size, model.Context.Text)
	l.Font = font.Font
	l.Color = c.cfg.Style.TextColor(vm, sel)
	l.Layout(gtx)
}

// layoutPhoto draws the image, or its placeholder, inside the photo frame
// with the transfer progress along its bottom edge.
func (c *Media) layoutPhoto(gtx C, model *bubble.Model) {
	var (
		vm    = c.cfg.ViewModel
		base  = vm.Base()
		s     = c.cfg.Style
		frame = model.PhotoFrame
	)
	if frame.Empty() {
		return
	}
	defer op.Offset(frame.Min).Push(gtx.Ops).Pop()
	size := frame.Size()
	gtx.Constraints = layout.Exact(size)
	shape := clip.RRect{Rect: image.Rectangle{Max: size}}
	radius := gtx.Dp(s.Photo.CornerRadius)
	shape.NW, shape.NE, shape.SW, shape.SE = radius, radius, radius, radius
	if vm.Kind() == message.KindPhoto {
		shape = c.surface().Shape(gtx, image.Rectangle{Max: size})
	}
	defer shape.Push(gtx.Ops).Pop()

	loaded := c.state.Image.Loaded()
	if loaded {
		chatmaterial.Cover(c.state.Image.Op(), 0).Layout(gtx)
		if alpha := c.fadeAlpha(gtx); alpha > 0 {
			veil := s.PlaceholderColor(vm)
			veil.A = uint8(float32(veil.A) * alpha)
			paint.FillShape(gtx.Ops, veil, clip.Rect(image.Rectangle{Max: size}).Op())
		}
	} else {
		paint.FillShape(gtx.Ops, s.PlaceholderColor(vm), clip.Rect(image.Rectangle{Max: size}).Op())
	}
	if icon := c.overlayIcon(loaded); icon != nil {
		ph := model.PlaceholderFrame.Sub(frame.Min)
		func() {
			defer op.Offset(ph.Min).Push(gtx.Ops).Pop()
			gtx := gtx
			gtx.Constraints = layout.Exact(ph.Size())
			icon.Layout(gtx, s.PlaceholderIconColor(vm))
		}()
	}
	c.layoutProgress(gtx, base, size)
}

// overlayIcon returns the icon drawn over the photo region, if any.
func (c *Media) overlayIcon(loaded bool) *widget.Icon {
	vm := c.cfg.ViewModel
	switch {
	case vm.Base().TransferStatus.Get() == viewmodel.Failed:
		return style.FailedIcon
	case !loaded:
		return c.cfg.Style.PlaceholderIcon(vm)
	case vm.Kind() == message.KindVideoText:
		return style.VideoIcon
	}
	return nil
}

// fadeAlpha returns the opacity of the veil over a fading image, in [0,1].
func (c *Media) fadeAlpha(gtx C) float32 {
	if !c.fade || c.fadeStart.IsZero() {
		return 0
	}
	elapsed := gtx.Now.Sub(c.fadeStart)
	if elapsed >= FadeDuration {
		c.fade = false
		return 0
	}
	op.InvalidateOp{}.Add(gtx.Ops)
	return 1 - float32(elapsed)/float32(FadeDuration)
}

// layoutProgress draws the transfer progress bar across the bottom of a
// region of the given size.
func (c *Media) layoutProgress(gtx C, m *viewmodel.Media, size image.Point) {
	var fraction float64
	switch m.ProgressIndicator() {
	case viewmodel.ProgressHidden:
		return
	case viewmodel.ProgressStarting:
		fraction = 0
	case viewmodel.ProgressInProgress:
		fraction = m.TransferProgress.Get()
	case viewmodel.ProgressCompleted:
		fraction = 1
	}
	var (
		vm     = c.cfg.ViewModel
		height = gtx.Dp(3)
		track  = image.Rect(0, size.Y-height, size.X, size.Y)
		bar    = track
	)
	bar.Max.X = int(float64(size.X) * fraction)
	trackColor := c.cfg.Style.PlaceholderColor(vm)
	paint.FillShape(gtx.Ops, style.Darken(trackColor, 0.2), clip.Rect(track).Op())
	paint.FillShape(gtx.Ops, c.cfg.Style.ProgressColor(vm), clip.Rect(bar).Op())
}

// layoutFailIcon draws the failed icon beside the bubble, when shown.
func (c *Media) layoutFailIcon(gtx C) D {
	vm := c.cfg.ViewModel
	if !vm.Base().IsShowingFailedIcon() {
		return D{}
	}
	side := gtx.Dp(c.cfg.Style.Base.FailedIconSize)
	gtx.Constraints = layout.Exact(image.Pt(side, side))
	return c.state.FailIcon.Layout(gtx, func(gtx C) D {
		return style.FailedIcon.Layout(gtx, c.cfg.Style.Base.FailedColor.NRGBA())
	})
}

// layoutAvatar draws the avatar of the sender, or a colored disc until it
// has loaded.
func (c *Media) layoutAvatar(gtx C) D {
	var (
		s    = c.cfg.Style
		side = gtx.Dp(s.Base.AvatarSize)
		size = image.Pt(side, side)
	)
	return layout.S.Layout(gtx, func(gtx C) D {
		gtx.Constraints = layout.Exact(size)
		if c.state.Avatar.Loaded() {
			return chatmaterial.Cover(c.state.Avatar.Op(), s.Base.AvatarSize/2).Layout(gtx)
		}
		sender := c.cfg.ViewModel.Base().Sender()
		paint.FillShape(gtx.Ops, style.AvatarColor(sender), clip.Ellipse{Max: size}.Op(gtx.Ops))
		return D{Size: size}
	})
}
