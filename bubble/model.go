package bubble

import (
	"image"

	"git.sr.ht/~gioverse/chatitems/message"
)

// Note: the values choosen match the default media bubble of the original
// chat designs.
var (
	// DeletedSize is the fixed size of the bubble of deleted or hidden
	// messages.
	DeletedSize = image.Pt(170, 54)
	// DefaultPhotoSize is used for photos whose size is not yet known.
	DefaultPhotoSize = image.Pt(210, 136)
	// DefaultImageOffset is the space either side of the photo region of
	// text bubbles.
	DefaultImageOffset = 25
)

// Measurer measures the extent of text wrapped within a maximum width.
// Measurements must match the text shaping used to render the text.
type Measurer interface {
	Measure(txt string, font Font, maxWidth int) image.Point
}

// MeasurerFunc adapts a function to the Measurer interface.
type MeasurerFunc func(txt string, font Font, maxWidth int) image.Point

func (f MeasurerFunc) Measure(txt string, font Font, maxWidth int) image.Point {
	return f(txt, font, maxWidth)
}

// Model is the computed geometry of a bubble. It is never mutated once
// calculated.
type Model struct {
	// Context the model was calculated from.
	Context          Context
	TextFrame        image.Rectangle
	PhotoFrame       image.Rectangle
	PlaceholderFrame image.Rectangle
	BubbleFrame      image.Rectangle
	Size             image.Point
}

// Calculate the geometry for ctx. It is a pure function of its inputs.
func Calculate(ctx Context, m Measurer) Model {
	model := Model{Context: ctx}
	switch {
	case ctx.Deleted:
		model.BubbleFrame = image.Rectangle{Max: DeletedSize}
		model.Size = DeletedSize
	case ctx.Kind == message.KindPhoto:
		model.calculatePhoto()
	default:
		model.calculateText(m)
	}
	return model
}

// calculatePhoto fits the photo within the preferred width, keeping its
// aspect ratio. The bubble is the photo.
func (model *Model) calculatePhoto() {
	ctx := model.Context
	size := FitWidth(photoSize(ctx), ctx.PreferredMaxWidth)
	model.PhotoFrame = image.Rectangle{Max: size}
	model.PlaceholderFrame = centered(model.PhotoFrame, ctx.PlaceholderSize)
	model.BubbleFrame = model.PhotoFrame
	model.Size = size
}

// calculateText places the text at the origin and the photo to its right,
// separated on either side by the image offset and vertically centered.
func (model *Model) calculateText(m Measurer) {
	ctx := model.Context
	var (
		photo     = ctx.PhotoSize
		offset    = ctx.ImageOffset
		maxWidth  = ctx.PreferredMaxWidth - ctx.TextInsets.Horizontal()
		textSize  image.Point
		bubbleTxt image.Point
	)
	if maxWidth < 0 {
		maxWidth = 0
	}
	if m != nil && ctx.Text != "" {
		textSize = m.Measure(ctx.Text, ctx.Font, maxWidth)
	}
	bubbleTxt = textSize.Add(image.Pt(ctx.TextInsets.Horizontal(), ctx.TextInsets.Vertical()))
	size := image.Point{
		X: bubbleTxt.X + 2*offset + photo.X,
		Y: max(bubbleTxt.Y, photo.Y),
	}
	model.TextFrame = image.Rectangle{Max: bubbleTxt}
	model.PhotoFrame = image.Rectangle{
		Min: image.Pt(size.X-(photo.X+offset), (size.Y-photo.Y)/2),
	}
	model.PhotoFrame.Max = model.PhotoFrame.Min.Add(photo)
	model.PlaceholderFrame = model.PhotoFrame
	model.BubbleFrame = image.Rectangle{Max: size}
	model.Size = size
}

// FitWidth scales size down, preserving its aspect ratio, so that it is no
// wider and no taller than maxWidth. A non-positive maxWidth leaves size
// unchanged.
func FitWidth(size image.Point, maxWidth int) image.Point {
	if maxWidth <= 0 || size.X <= 0 || size.Y <= 0 {
		return size
	}
	longest := max(size.X, size.Y)
	if longest <= maxWidth {
		return size
	}
	return image.Point{
		X: size.X * maxWidth / longest,
		Y: size.Y * maxWidth / longest,
	}
}

func photoSize(ctx Context) image.Point {
	switch {
	case ctx.PhotoSize.X > 0 && ctx.PhotoSize.Y > 0:
		return ctx.PhotoSize
	case ctx.PlaceholderSize.X > 0 && ctx.PlaceholderSize.Y > 0:
		return ctx.PlaceholderSize
	default:
		return DefaultPhotoSize
	}
}

// centered returns a rectangle of the given size centered within r.
func centered(r image.Rectangle, size image.Point) image.Rectangle {
	min := r.Min.Add(r.Size().Sub(size).Div(2))
	return image.Rectangle{Min: min, Max: min.Add(size)}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
