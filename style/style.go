/*
Package style configures the presentation of media message cells.

A Style is a flat composition of plain value structs. The provider methods
are pure functions of a view-model and the selection state.
*/
package style

import (
	"fmt"
	"image/color"
	"io"

	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"git.sr.ht/~gioverse/chatitems/bubble"
	"git.sr.ht/~gioverse/chatitems/message"
	"git.sr.ht/~gioverse/chatitems/viewmodel"
	"golang.org/x/exp/shiny/materialdesign/icons"
	"gopkg.in/yaml.v3"
)

// Icons used by the cells.
var (
	FailedIcon      = mustIcon(icons.AlertErrorOutline)
	PhotoIcon       = mustIcon(icons.ImagePhotoCamera)
	VideoIcon       = mustIcon(icons.AVPlayCircleOutline)
	PlaceholderIcon = mustIcon(icons.ImageImage)
)

func mustIcon(data []byte) *widget.Icon {
	icon, err := widget.NewIcon(data)
	if err != nil {
		panic(fmt.Errorf("decoding icon: %w", err))
	}
	return icon
}

// Insets in device independent pixels.
type Insets struct {
	Top    unit.Dp `yaml:"top"`
	Right  unit.Dp `yaml:"right"`
	Bottom unit.Dp `yaml:"bottom"`
	Left   unit.Dp `yaml:"left"`
}

// Px converts the insets to pixels with the provided conversion.
func (in Insets) Px(dp func(unit.Dp) int) bubble.Insets {
	return bubble.Insets{
		Top:    dp(in.Top),
		Right:  dp(in.Right),
		Bottom: dp(in.Bottom),
		Left:   dp(in.Left),
	}
}

// Base configures the parts every message cell shares.
type Base struct {
	IncomingColor Color   `yaml:"incoming_color"`
	OutgoingColor Color   `yaml:"outgoing_color"`
	FailedColor   Color   `yaml:"failed_color"`
	CornerRadius  unit.Dp `yaml:"corner_radius"`
	AvatarSize    unit.Dp `yaml:"avatar_size"`
	// SelectedShade darkens the bubble of selected messages, in [0,1].
	SelectedShade float64 `yaml:"selected_shade"`
	// MaxWidthRatio is the share of the available width a bubble may use.
	MaxWidthRatio float32 `yaml:"max_width_ratio"`
	// FailedIconSize is the side of the failed icon next to the bubble.
	FailedIconSize unit.Dp `yaml:"failed_icon_size"`
}

// Text configures the text part of text bubbles.
type Text struct {
	Typeface       string  `yaml:"typeface"`
	Size           unit.Sp `yaml:"size"`
	Bold           bool    `yaml:"bold"`
	Italic         bool    `yaml:"italic"`
	LightColor     Color   `yaml:"light_color"`
	DarkColor      Color   `yaml:"dark_color"`
	IncomingInsets Insets  `yaml:"incoming_insets"`
	OutgoingInsets Insets  `yaml:"outgoing_insets"`
}

// Photo configures the image part of media bubbles.
type Photo struct {
	PlaceholderColor Color   `yaml:"placeholder_color"`
	IconColor        Color   `yaml:"icon_color"`
	ProgressColor    Color   `yaml:"progress_color"`
	CornerRadius     unit.Dp `yaml:"corner_radius"`
	// ThumbnailSize is the side of the square image region of text bubbles.
	ThumbnailSize unit.Dp `yaml:"thumbnail_size"`
	// ImageOffset separates the image region of text bubbles from the text
	// and the bubble edge.
	ImageOffset unit.Dp `yaml:"image_offset"`
	// PlaceholderIconSize is the side of the icon drawn over missing images.
	PlaceholderIconSize unit.Dp `yaml:"placeholder_icon_size"`
	// MaxHeight bounds the height of photo bubbles.
	MaxHeight unit.Dp `yaml:"max_height"`
}

// Style is the complete configuration of a family of cells.
type Style struct {
	Base  Base  `yaml:"base"`
	Text  Text  `yaml:"text"`
	Photo Photo `yaml:"photo"`
}

// Default returns the default style.
func Default() Style {
	return Style{
		Base: Base{
			IncomingColor:  Color{R: 238, G: 238, B: 238, A: 255},
			OutgoingColor:  Color{R: 63, G: 133, B: 232, A: 255},
			FailedColor:    Color{R: 200, A: 255},
			CornerRadius:   12,
			AvatarSize:     28,
			SelectedShade:  0.2,
			MaxWidthRatio:  0.8,
			FailedIconSize: 24,
		},
		Text: Text{
			Typeface:       "Go",
			Size:           16,
			LightColor:     Color{R: 255, G: 255, B: 255, A: 255},
			DarkColor:      Color{R: 20, G: 20, B: 20, A: 255},
			IncomingInsets: Insets{Top: 10, Right: 15, Bottom: 10, Left: 19},
			OutgoingInsets: Insets{Top: 10, Right: 19, Bottom: 10, Left: 15},
		},
		Photo: Photo{
			PlaceholderColor:    Color{R: 200, G: 200, B: 200, A: 255},
			IconColor:           Color{R: 255, G: 255, B: 255, A: 255},
			ProgressColor:       Color{R: 63, G: 133, B: 232, A: 255},
			CornerRadius:        5,
			ThumbnailSize:       50,
			ImageOffset:         25,
			PlaceholderIconSize: 24,
			MaxHeight:           400,
		},
	}
}

// Load decodes a YAML style. Fields absent from the document keep their
// default values.
func Load(r io.Reader) (Style, error) {
	s := Default()
	if err := yaml.NewDecoder(r).Decode(&s); err != nil && err != io.EOF {
		return Style{}, fmt.Errorf("decoding style: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Style{}, err
	}
	return s, nil
}

// Write encodes the style as YAML.
func (s Style) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encoding style: %w", err)
	}
	return enc.Close()
}

// Validate reports configuration that cannot produce a usable layout.
func (s Style) Validate() error {
	switch {
	case s.Text.Size <= 0:
		return fmt.Errorf("style: text size must be positive, got %v", s.Text.Size)
	case s.Base.MaxWidthRatio <= 0 || s.Base.MaxWidthRatio > 1:
		return fmt.Errorf("style: max width ratio must be in (0,1], got %v", s.Base.MaxWidthRatio)
	case s.Base.SelectedShade < 0 || s.Base.SelectedShade > 1:
		return fmt.Errorf("style: selected shade must be in [0,1], got %v", s.Base.SelectedShade)
	case s.Photo.ThumbnailSize < 0 || s.Photo.ImageOffset < 0:
		return fmt.Errorf("style: photo sizes must not be negative")
	}
	return nil
}

// BubbleColor returns the background color of the bubble.
func (s Style) BubbleColor(vm viewmodel.ViewModel, selected bool) color.NRGBA {
	c := s.Base.OutgoingColor.NRGBA()
	if vm.Base().IsIncoming() {
		c = s.Base.IncomingColor.NRGBA()
	}
	if selected {
		c = Darken(c, s.Base.SelectedShade)
	}
	return c
}

// TextColor returns a text color that contrasts with the bubble.
func (s Style) TextColor(vm viewmodel.ViewModel, selected bool) color.NRGBA {
	return Contrasting(s.BubbleColor(vm, selected), s.Text.LightColor.NRGBA(), s.Text.DarkColor.NRGBA())
}

// TextFont returns the font text is measured and drawn with.
func (s Style) TextFont(vm viewmodel.ViewModel, selected bool) bubble.Font {
	f := bubble.Font{
		Font: text.Font{Typeface: text.Typeface(s.Text.Typeface)},
		Size: s.Text.Size,
	}
	if s.Text.Bold {
		f.Weight = text.Bold
	}
	if s.Text.Italic {
		f.Style = text.Italic
	}
	return f
}

// TextInsets returns the insets around the text for the message direction.
func (s Style) TextInsets(vm viewmodel.ViewModel, selected bool) Insets {
	if vm.Base().IsIncoming() {
		return s.Text.IncomingInsets
	}
	return s.Text.OutgoingInsets
}

// PlaceholderColor returns the color shown where the image is missing.
func (s Style) PlaceholderColor(vm viewmodel.ViewModel) color.NRGBA {
	return s.Photo.PlaceholderColor.NRGBA()
}

// PlaceholderIcon returns the icon drawn over a missing image, or nil.
// Failed transfers always show the failed icon.
func (s Style) PlaceholderIcon(vm viewmodel.ViewModel) *widget.Icon {
	if vm.Base().TransferStatus.Get() == viewmodel.Failed {
		return FailedIcon
	}
	switch vm.Kind() {
	case message.KindVideoText:
		return VideoIcon
	case message.KindPhoto:
		return PhotoIcon
	default:
		return PlaceholderIcon
	}
}

// PlaceholderIconColor returns the tint of the placeholder icon.
func (s Style) PlaceholderIconColor(vm viewmodel.ViewModel) color.NRGBA {
	if vm.Base().TransferStatus.Get() == viewmodel.Failed {
		return s.Base.FailedColor.NRGBA()
	}
	return s.Photo.IconColor.NRGBA()
}

// ProgressColor returns the color of the progress indicator.
func (s Style) ProgressColor(vm viewmodel.ViewModel) color.NRGBA {
	return s.Photo.ProgressColor.NRGBA()
}
