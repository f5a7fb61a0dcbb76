package bubble

import (
	"image"
	"strings"
	"testing"

	"gioui.org/text"
	"git.sr.ht/~gioverse/chatitems/message"
)

// monospace measures text as fixed-width glyphs of 8x16 pixels, wrapping at
// maxWidth.
var monospace = MeasurerFunc(func(txt string, font Font, maxWidth int) image.Point {
	const glyphW, lineH = 8, 16
	width := len(txt) * glyphW
	if maxWidth <= 0 {
		return image.Pt(width, lineH)
	}
	lines := (width + maxWidth - 1) / maxWidth
	if lines > 1 {
		width = maxWidth
	}
	return image.Pt(width, lines*lineH)
})

func textContext() Context {
	return Context{
		Kind:              message.KindPhotoText,
		Text:              "hello world",
		Font:              Font{Font: text.Font{Typeface: "Go"}, Size: 16},
		PhotoSize:         image.Pt(50, 50),
		PlaceholderSize:   image.Pt(50, 50),
		Incoming:          true,
		TextInsets:        Insets{Top: 10, Right: 15, Bottom: 10, Left: 15},
		PreferredMaxWidth: 300,
		ImageOffset:       DefaultImageOffset,
	}
}

func TestCalculateText(t *testing.T) {
	ctx := textContext()
	m := Calculate(ctx, monospace)
	// 11 glyphs of 8px = 88px wide, one 16px line, outset by the insets.
	wantText := image.Rect(0, 0, 88+30, 16+20)
	if m.TextFrame != wantText {
		t.Errorf("text frame: want %v, got %v", wantText, m.TextFrame)
	}
	wantSize := image.Pt(118+2*25+50, 50)
	if m.Size != wantSize {
		t.Errorf("size: want %v, got %v", wantSize, m.Size)
	}
	wantPhoto := image.Rect(wantSize.X-75, 0, wantSize.X-25, 50)
	if m.PhotoFrame != wantPhoto {
		t.Errorf("photo frame: want %v, got %v", wantPhoto, m.PhotoFrame)
	}
	if m.PlaceholderFrame != m.PhotoFrame {
		t.Errorf("placeholder must share the photo frame")
	}
	if m.BubbleFrame != (image.Rectangle{Max: m.Size}) {
		t.Errorf("bubble frame must cover the whole size, got %v", m.BubbleFrame)
	}
	if !m.TextFrame.In(m.BubbleFrame) || !m.PhotoFrame.In(m.BubbleFrame) {
		t.Errorf("frames must lie within the bubble")
	}
}

func TestCalculatePhotoCenteredVertically(t *testing.T) {
	ctx := textContext()
	ctx.Text = strings.Repeat("x", 100)
	m := Calculate(ctx, monospace)
	// 800px of glyphs wrap at 270px into 3 lines.
	if m.TextFrame.Dy() != 3*16+20 {
		t.Fatalf("unexpected text height %d", m.TextFrame.Dy())
	}
	top, bottom := m.PhotoFrame.Min.Y, m.Size.Y-m.PhotoFrame.Max.Y
	if d := top - bottom; d < -1 || d > 1 {
		t.Errorf("photo not vertically centered: top %d bottom %d", top, bottom)
	}
}

func TestCalculateDeleted(t *testing.T) {
	for _, txt := range []string{"", "short", strings.Repeat("long text ", 100)} {
		ctx := textContext()
		ctx.Text = txt
		ctx.Deleted = true
		m := Calculate(ctx, monospace)
		if m.Size != DeletedSize {
			t.Errorf("text %d bytes: want fixed size %v, got %v", len(txt), DeletedSize, m.Size)
		}
		if m.BubbleFrame != image.Rect(0, 0, 170, 54) {
			t.Errorf("unexpected bubble frame %v", m.BubbleFrame)
		}
		if m.TextFrame != (image.Rectangle{}) || m.PhotoFrame != (image.Rectangle{}) {
			t.Errorf("deleted bubbles have no text or photo frames")
		}
	}
}

func TestCalculatePhoto(t *testing.T) {
	for _, tt := range []struct {
		Label string
		Photo image.Point
		Max   int
		Want  image.Point
	}{
		{Label: "fits", Photo: image.Pt(200, 100), Max: 300, Want: image.Pt(200, 100)},
		{Label: "landscape", Photo: image.Pt(600, 300), Max: 300, Want: image.Pt(300, 150)},
		{Label: "portrait", Photo: image.Pt(300, 600), Max: 300, Want: image.Pt(150, 300)},
		{Label: "unknown size", Photo: image.Point{}, Max: 300, Want: image.Pt(20, 20)},
	} {
		t.Run(tt.Label, func(t *testing.T) {
			m := Calculate(Context{
				Kind:              message.KindPhoto,
				PhotoSize:         tt.Photo,
				PlaceholderSize:   image.Pt(20, 20),
				PreferredMaxWidth: tt.Max,
			}, nil)
			if m.Size != tt.Want {
				t.Errorf("want %v, got %v", tt.Want, m.Size)
			}
			if m.BubbleFrame != m.PhotoFrame {
				t.Errorf("photo bubbles are the photo")
			}
			if m.PlaceholderFrame.Size() != image.Pt(20, 20) || !m.PlaceholderFrame.In(m.PhotoFrame) {
				t.Errorf("placeholder must be centered in the photo, got %v", m.PlaceholderFrame)
			}
		})
	}
}

func TestCalculateIdempotent(t *testing.T) {
	ctx := textContext()
	a, b := Calculate(ctx, monospace), Calculate(ctx, monospace)
	if a != b {
		t.Errorf("calculations differ: %+v vs %+v", a, b)
	}
}

func TestHashCoversEveryField(t *testing.T) {
	base := textContext()
	variants := []func(*Context){
		func(c *Context) { c.Kind = message.KindVideoText },
		func(c *Context) { c.Text = "other" },
		func(c *Context) { c.Font.Typeface = "Mono" },
		func(c *Context) { c.Font.Variant = "Smallcaps" },
		func(c *Context) { c.Font.Style = text.Italic },
		func(c *Context) { c.Font.Weight = text.Bold },
		func(c *Context) { c.Font.Size = 17 },
		func(c *Context) { c.PhotoSize = image.Pt(51, 50) },
		func(c *Context) { c.PlaceholderSize = image.Pt(50, 51) },
		func(c *Context) { c.Incoming = false },
		func(c *Context) { c.TextInsets.Top++ },
		func(c *Context) { c.TextInsets.Left++ },
		func(c *Context) { c.PreferredMaxWidth++ },
		func(c *Context) { c.ImageOffset++ },
		func(c *Context) { c.Deleted = true },
	}
	for i, vary := range variants {
		ctx := base
		vary(&ctx)
		if ctx == base {
			t.Fatalf("variant %d did not change the context", i)
		}
		if ctx.Hash() == base.Hash() {
			t.Errorf("variant %d: hash ignores a field", i)
		}
	}
	copied := base
	if copied.Hash() != base.Hash() {
		t.Errorf("equal contexts must hash equally")
	}
}

func TestCacheEqualContextsShareModel(t *testing.T) {
	c := NewCache(10, monospace)
	a, b := textContext(), textContext()
	ma, mb := c.Get(a), c.Get(b)
	if ma != mb {
		t.Errorf("equal contexts must resolve to the identical stored model")
	}
	if c.Stats.Hits != 1 || c.Stats.Misses != 1 {
		t.Errorf("unexpected stats %+v", c.Stats)
	}
	if c.Len() != 1 {
		t.Errorf("expected a single entry, got %d", c.Len())
	}
}

func TestCacheCollision(t *testing.T) {
	c := &Cache{
		Measurer: monospace,
		// Every context collides.
		Hash: func(Context) uint64 { return 42 },
	}
	narrow := textContext()
	narrow.Text = strings.Repeat("x", 60)
	wide := narrow
	wide.PreferredMaxWidth = 1000
	for i := 0; i < 3; i++ {
		for _, ctx := range []Context{narrow, wide} {
			got := c.Get(ctx)
			want := Calculate(ctx, monospace)
			if got.Context != ctx || *got != want {
				t.Fatalf("round %d: cache served a colliding model", i)
			}
		}
	}
	if c.Stats.Collisions == 0 {
		t.Errorf("expected collisions to be detected")
	}
	if c.Stats.Hits != 0 {
		t.Errorf("alternating colliding contexts can never hit, got %d hits", c.Stats.Hits)
	}
}

func TestCacheEviction(t *testing.T) {
	c := NewCache(2, monospace)
	ctx := textContext()
	for i := 0; i < 5; i++ {
		ctx.PreferredMaxWidth = 100 + i
		c.Get(ctx)
	}
	if c.Len() != 2 {
		t.Errorf("expected cache bounded to 2 entries, got %d", c.Len())
	}
	c.Purge()
	if c.Len() != 0 {
		t.Errorf("expected empty cache after purge")
	}
	// Misses after eviction silently recompute.
	if m := c.Get(ctx); m.Context != ctx {
		t.Errorf("recomputed model has the wrong context")
	}
}

func TestDefaultPhotoSize(t *testing.T) {
	m := Calculate(Context{Kind: message.KindPhoto, PreferredMaxWidth: 300}, nil)
	if m.Size != DefaultPhotoSize {
		t.Errorf("want %v, got %v", DefaultPhotoSize, m.Size)
	}
}

func TestFitWidth(t *testing.T) {
	if got := FitWidth(image.Pt(10, 10), 0); got != image.Pt(10, 10) {
		t.Errorf("non-positive width must not scale, got %v", got)
	}
}
