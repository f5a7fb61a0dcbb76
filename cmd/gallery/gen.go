package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"strings"
	"time"

	"git.sr.ht/~gioverse/chatitems/fetch"
	"git.sr.ht/~gioverse/chatitems/message"
	lorem "github.com/drhodes/golorem"
	"github.com/lucasb-eyer/go-colorful"
)

// syntheticScheme prefixes the identifiers of generated images.
const syntheticScheme = "synthetic:"

// sizes of generated images.
var sizes = []image.Point{
	image.Pt(1792, 828),
	image.Pt(828, 1792),
	image.Pt(600, 600),
	image.Pt(300, 300),
}

// Generator produces fake media messages.
type Generator struct {
	Rand *rand.Rand
	// Library, if set, provides the images messages reference. Otherwise
	// messages reference synthetic images.
	Library *fetch.Library
	// Remote lists image URLs messages may reference.
	Remote []string
	// Senders of incoming messages.
	Senders []string

	serial int
	at     time.Time
}

// NewGenerator returns a generator of messages sent from start onwards.
func NewGenerator(seed int64, start time.Time) *Generator {
	g := &Generator{Rand: rand.New(rand.NewSource(seed)), at: start}
	for ii := 3; ii > 0; ii-- {
		g.Senders = append(g.Senders, lorem.Word(4, 10))
	}
	return g
}

// Messages generates n messages in chronological order.
func (g *Generator) Messages(ctx context.Context, n int) []message.Item {
	items := make([]message.Item, 0, n)
	for ii := 0; ii < n; ii++ {
		items = append(items, g.Message(ctx))
	}
	return items
}

// Message generates the next message.
func (g *Generator) Message(ctx context.Context) message.Item {
	g.serial++
	g.at = g.at.Add(time.Duration(g.Rand.Intn(180)) * time.Minute)
	msg := message.Message{
		ID:     message.Serial(fmt.Sprintf("%05d", g.serial)),
		SentAt: g.at,
	}
	if g.Rand.Float32() < 0.5 && len(g.Senders) > 0 {
		msg.Sender = g.Senders[g.Rand.Intn(len(g.Senders))]
	} else {
		msg.Direction = message.Outgoing
	}
	switch r := g.Rand.Intn(20); {
	case r == 0:
		msg.Status = message.Failed
	case r == 1:
		msg.Deleted = true
	case r == 2:
		msg.Hidden = true
	}
	media := g.media(ctx)
	switch g.Rand.Intn(3) {
	case 0:
		return message.Photo{Message: msg, Media: media}
	case 1:
		return message.PhotoText{Message: msg, Media: media, Text: lorem.Paragraph(1, 3)}
	default:
		return message.VideoText{
			Message:  msg,
			Media:    media,
			Text:     lorem.Sentence(3, 12),
			Duration: time.Duration(g.Rand.Intn(600)) * time.Second,
		}
	}
}

// media chooses how the image of a message becomes available: carried by
// the message, loaded from the library or a remote, or generated on demand.
func (g *Generator) media(ctx context.Context) message.Media {
	size := sizes[g.Rand.Intn(len(sizes))]
	switch {
	case g.Rand.Float32() < 0.2:
		thumb := image.Pt(size.X/8, size.Y/8)
		return message.Media{Image: Gradient(thumb, g.Rand.Int63()), ImageSize: size}
	case len(g.Remote) > 0 && g.Rand.Float32() < 0.5:
		return message.Media{ImageURL: g.Remote[g.Rand.Intn(len(g.Remote))], ImageSize: size}
	case g.Library != nil:
		n, err := g.Library.Count(ctx)
		if err == nil && n > 0 {
			id, err := g.Library.At(ctx, g.Rand.Intn(n))
			if err == nil {
				// Natural size is unknown until loaded.
				return message.Media{ImageURL: id}
			}
		}
	}
	id := fmt.Sprintf("%s%dx%d:%d", syntheticScheme, size.X, size.Y, g.Rand.Int63())
	return message.Media{
		ImageURL:     id,
		ThumbnailURL: fmt.Sprintf("%s%dx%d:%d", syntheticScheme, size.X/4, size.Y/4, g.Rand.Int63()),
		ImageSize:    size,
	}
}

// Gradient renders a diagonal gradient between two random happy colors.
func Gradient(size image.Point, seed int64) image.Image {
	r := rand.New(rand.NewSource(seed))
	from := colorful.Hsv(r.Float64()*360, 0.5+r.Float64()*0.3, 0.8+r.Float64()*0.2)
	to := colorful.Hsv(r.Float64()*360, 0.5+r.Float64()*0.3, 0.8+r.Float64()*0.2)
	img := image.NewNRGBA(image.Rectangle{Max: size})
	span := float64(size.X + size.Y)
	for y := 0; y < size.Y; y++ {
		for x := 0; x < size.X; x++ {
			c := from.BlendHcl(to, float64(x+y)/span).Clamped()
			img.SetNRGBA(x, y, toNRGBA(c))
		}
	}
	return img
}

func toNRGBA(c colorful.Color) color.NRGBA {
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// SyntheticSource generates the images named by synthetic identifiers,
// taking Delay to do so.
type SyntheticSource struct {
	Delay time.Duration
}

// Load renders the gradient named by id, reporting progress in steps.
func (s SyntheticSource) Load(ctx context.Context, id string, progress func(float64)) (image.Image, error) {
	var (
		size image.Point
		seed int64
	)
	if _, err := fmt.Sscanf(strings.TrimPrefix(id, syntheticScheme), "%dx%d:%d", &size.X, &size.Y, &seed); err != nil {
		return nil, fmt.Errorf("parsing synthetic image %q: %w", id, err)
	}
	const steps = 10
	for ii := 1; ii <= steps; ii++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.Delay / steps):
		}
		progress(float64(ii) / steps)
	}
	return Gradient(size, seed), nil
}

// Router dispatches loads to the source that understands the identifier.
type Router struct {
	Synthetic fetch.Source
	Remote    fetch.Source
	Local     fetch.Source
}

// Load the identified image.
func (r Router) Load(ctx context.Context, id string, progress func(float64)) (image.Image, error) {
	var src fetch.Source
	switch {
	case strings.HasPrefix(id, syntheticScheme):
		src = r.Synthetic
	case strings.HasPrefix(id, "http://"), strings.HasPrefix(id, "https://"):
		src = r.Remote
	default:
		src = r.Local
	}
	if src == nil {
		return nil, fmt.Errorf("no source for %q", id)
	}
	return src.Load(ctx, id, progress)
}
