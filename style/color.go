package style

import (
	"fmt"
	"hash/fnv"
	"image/color"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// Color is a color.NRGBA that reads and writes itself as a "#rrggbb" or
// "#rrggbbaa" hex string in configuration files.
type Color color.NRGBA

// NRGBA returns the color as a color.NRGBA.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA(c)
}

// ParseColor parses a "#rrggbb" or "#rrggbbaa" hex string.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	alpha := uint8(255)
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("parsing alpha of %q: %w", s, err)
		}
		alpha = uint8(a)
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("parsing color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b, A: alpha}, nil
}

// String formats the color as hex.
func (c Color) String() string {
	s := fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	if c.A != 255 {
		s += fmt.Sprintf("%02x", c.A)
	}
	return s
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (c Color) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

// Darken blends the color towards black by amount in [0,1], in Lab space.
func Darken(c color.NRGBA, amount float64) color.NRGBA {
	col, ok := colorful.MakeColor(c)
	if !ok {
		return c
	}
	r, g, b := col.BlendLab(colorful.Color{}, amount).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: c.A}
}

// Lightness returns the perceptual lightness of the color in [0,1].
func Lightness(c color.NRGBA) float64 {
	col, ok := colorful.MakeColor(color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255})
	if !ok {
		return 1
	}
	l, _, _ := col.Lab()
	return l
}

// Contrasting returns light when the background is dark, and dark otherwise.
func Contrasting(background, light, dark color.NRGBA) color.NRGBA {
	if Lightness(background) < 0.6 {
		return light
	}
	return dark
}

// AvatarColor derives a stable color from a sender name, used for avatars
// that have not loaded.
func AvatarColor(sender string) color.NRGBA {
	h := fnv.New32a()
	h.Write([]byte(sender))
	hue := float64(h.Sum32()%360)
	r, g, b := colorful.Hcl(hue, 0.5, 0.65).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}
