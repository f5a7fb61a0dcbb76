/*
Package bubble computes the geometry of media chat bubbles.

A Context captures every input that influences the geometry of a bubble.
Calculate derives a Model from a Context, and Cache memoizes models keyed by
a structural hash of the Context. Hash and equality cover the same field set:
every field of Context.
*/
package bubble

import (
	"encoding/binary"
	"hash/fnv"
	"image"
	"math"

	"gioui.org/text"
	"gioui.org/unit"
	"git.sr.ht/~gioverse/chatitems/message"
)

// Font describes the face and size text is measured and rendered with.
type Font struct {
	text.Font
	Size unit.Sp
}

// Insets separate text from the edges of the bubble, in pixels.
type Insets struct {
	Top, Right, Bottom, Left int
}

// UniformInsets returns insets of v on every side.
func UniformInsets(v int) Insets {
	return Insets{Top: v, Right: v, Bottom: v, Left: v}
}

// Horizontal returns the sum of the left and right insets.
func (i Insets) Horizontal() int {
	return i.Left + i.Right
}

// Vertical returns the sum of the top and bottom insets.
func (i Insets) Vertical() int {
	return i.Top + i.Bottom
}

// Context is the input of a bubble layout calculation.
//
// Two contexts with equal fields hash equally and share a cache entry.
type Context struct {
	Kind message.Kind
	// Text is the text as displayed, already obscured if the message is
	// hidden or deleted.
	Text string
	Font Font
	// PhotoSize is the size the photo region occupies. For the photo kind it
	// is the natural image size, scaled down to fit PreferredMaxWidth.
	PhotoSize       image.Point
	PlaceholderSize image.Point
	Incoming        bool
	TextInsets      Insets
	// PreferredMaxWidth is the width the text is allowed to wrap within.
	PreferredMaxWidth int
	// ImageOffset is the horizontal space either side of the photo region.
	ImageOffset int
	// Deleted contexts, of deleted or hidden messages, lay out as a
	// fixed-size placeholder bubble.
	Deleted bool
}

// Hash returns the FNV-1a hash of every field of the context.
func (c Context) Hash() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	putInt := func(v int64) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	}
	putBool := func(b bool) {
		if b {
			putInt(1)
		} else {
			putInt(0)
		}
	}
	putString := func(s string) {
		putInt(int64(len(s)))
		h.Write([]byte(s))
	}
	putInt(int64(c.Kind))
	putString(c.Text)
	putString(string(c.Font.Typeface))
	putString(string(c.Font.Variant))
	putInt(int64(c.Font.Style))
	putInt(int64(c.Font.Weight))
	putInt(int64(math.Float32bits(float32(c.Font.Size))))
	putInt(int64(c.PhotoSize.X))
	putInt(int64(c.PhotoSize.Y))
	putInt(int64(c.PlaceholderSize.X))
	putInt(int64(c.PlaceholderSize.Y))
	putBool(c.Incoming)
	putInt(int64(c.TextInsets.Top))
	putInt(int64(c.TextInsets.Right))
	putInt(int64(c.TextInsets.Bottom))
	putInt(int64(c.TextInsets.Left))
	putInt(int64(c.PreferredMaxWidth))
	putInt(int64(c.ImageOffset))
	putBool(c.Deleted)
	return h.Sum64()
}
