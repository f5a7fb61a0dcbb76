package widget

import (
	"image"

	"gioui.org/op/paint"
)

// CachedImage is a cacheable image operation. The operation is rebuilt only
// when the source image changes.
type CachedImage struct {
	src image.Image
	op  paint.ImageOp
}

// Changer can report that is has changed since the last call.
type Changer interface {
	Changed() bool
}

// Cache src. A nil src clears the cache. Images are compared by identity,
// unless they implement Changer.
//
// Cache reports whether the image operation was rebuilt.
func (img *CachedImage) Cache(src image.Image) bool {
	if src == nil {
		changed := img.src != nil
		*img = CachedImage{}
		return changed
	}
	changer, ok := src.(Changer)
	if img.src == src && !(ok && changer.Changed()) {
		return false
	}
	img.src = src
	img.op = paint.NewImageOp(src)
	return true
}

// Loaded reports whether an image is cached.
func (img *CachedImage) Loaded() bool {
	return img.src != nil
}

// Op returns the concrete image operation.
func (img *CachedImage) Op() paint.ImageOp {
	return img.op
}
