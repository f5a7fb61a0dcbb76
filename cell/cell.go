/*
Package cell implements the reusable views of media messages.

A cell renders whatever view-model, style and layout cache it was last
configured with. Cells are reused across messages of the same kind and
direction: the hosting list dequeues them by reuse identifier, and a presenter
configures them.
*/
package cell

import (
	"fmt"
	"image"
	"sync"
	"time"

	"gioui.org/font/gofont"
	"gioui.org/layout"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/component"
	chatitems "git.sr.ht/~gioverse/chatitems"
	"git.sr.ht/~gioverse/chatitems/bubble"
	chatlayout "git.sr.ht/~gioverse/chatitems/layout"
	"git.sr.ht/~gioverse/chatitems/message"
	"git.sr.ht/~gioverse/chatitems/style"
	"git.sr.ht/~gioverse/chatitems/viewmodel"
	chatwidget "git.sr.ht/~gioverse/chatitems/widget"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

// FadeDuration is how long a newly loaded image takes to appear when the
// cell was configured with animation.
const FadeDuration = 200 * time.Millisecond

// Decoration carries the attributes the hosting list decides from the
// position of a message.
type Decoration struct {
	// ShowsTail is set on the last message of a run from the same sender.
	ShowsTail bool
	// CanShowAvatar reserves space for, and draws, the avatar of incoming
	// messages.
	CanShowAvatar bool
	// Selected renders the cell in its selected state.
	Selected bool
	// Selecting routes taps to selection instead of the bubble.
	Selecting bool
}

// MenuOption is an entry of the context menu of a cell.
type MenuOption struct {
	Label string
	Do    func()
}

// Callbacks receive the interactions of a cell. Nil callbacks are ignored.
type Callbacks struct {
	TapBubble   func()
	TapFailIcon func()
	Select      func()
}

// Config is everything a cell renders from.
type Config struct {
	ViewModel  viewmodel.ViewModel
	Style      style.Style
	Cache      *bubble.Cache
	Decoration Decoration
	Menu       []MenuOption
	Callbacks
}

// Cell is a reusable view of a media message.
type Cell interface {
	Kind() message.Kind
	// Configure the cell for rendering. Configuration with animation fades
	// in images that were not shown before.
	Configure(cfg Config, animated bool)
	// Config returns the current configuration.
	Config() Config
	// SizeThatFits returns the size of the cell laid out within width.
	SizeThatFits(width int, metric unit.Metric) image.Point
	Layout(gtx C) D
}

// ReuseIdentifier names the pool of cells that can display messages of
// kind in the given direction.
func ReuseIdentifier(kind message.Kind, incoming bool) string {
	direction := message.Outgoing
	if incoming {
		direction = message.Incoming
	}
	return fmt.Sprintf("%s-%s", kind, direction)
}

// New allocates an empty cell of kind.
func New(kind message.Kind) Cell {
	switch kind {
	case message.KindPhoto:
		return NewPhotoCell()
	case message.KindPhotoText:
		return NewPhotoTextCell()
	case message.KindVideoText:
		return NewVideoTextCell()
	}
	panic(chatitems.Violation("no cell for kind %v", kind))
}

// PhotoCell displays message.Photo items.
type PhotoCell struct{ Media }

// PhotoTextCell displays message.PhotoText items.
type PhotoTextCell struct{ Media }

// VideoTextCell displays message.VideoText items.
type VideoTextCell struct{ Media }

func NewPhotoCell() *PhotoCell         { return &PhotoCell{Media{kind: message.KindPhoto}} }
func NewPhotoTextCell() *PhotoTextCell { return &PhotoTextCell{Media{kind: message.KindPhotoText}} }
func NewVideoTextCell() *VideoTextCell { return &VideoTextCell{Media{kind: message.KindVideoText}} }

var (
	themeOnce    sync.Once
	defaultTheme *material.Theme
)

func sharedTheme() *material.Theme {
	themeOnce.Do(func() {
		defaultTheme = material.NewTheme(gofont.Collection())
	})
	return defaultTheme
}

// Media implements the behaviour every media cell shares.
type Media struct {
	// Theme shapes text and menus. Defaults to a theme of the Go fonts.
	Theme *material.Theme

	kind           message.Kind
	cfg            Config
	state          chatwidget.Cell
	configurations int
	// fade is set when the next image should fade in. fadeStart is the
	// frame time at which it started.
	fade      bool
	fadeStart time.Time
}

// Kind of the messages the cell displays.
func (c *Media) Kind() message.Kind {
	return c.kind
}

// Configure the cell. The view-model must be of the kind of the cell.
func (c *Media) Configure(cfg Config, animated bool) {
	if cfg.ViewModel != nil && cfg.ViewModel.Kind() != c.kind {
		panic(chatitems.Violation("%v cell configured with %v view-model", c.kind, cfg.ViewModel.Kind()))
	}
	if cfg.ViewModel != nil && cfg.Cache == nil {
		panic(chatitems.Violation("%v cell configured without a layout cache", c.kind))
	}
	var img image.Image
	if cfg.ViewModel != nil {
		img = cfg.ViewModel.Base().Image.Get()
	}
	c.fade = animated && img != nil && !c.state.Image.Loaded()
	c.fadeStart = time.Time{}
	if cfg.ViewModel == nil || c.cfg.ViewModel == nil || cfg.ViewModel.Item().Serial() != c.cfg.ViewModel.Item().Serial() {
		// The cell is showing another message: drop state of the last one.
		c.state.Image.Cache(nil)
		c.state.Avatar.Cache(nil)
		c.fade = false
	}
	c.cfg = cfg
	c.updateMenu()
	c.configurations++
}

// Config returns the current configuration.
func (c *Media) Config() Config {
	return c.cfg
}

// Configurations counts the calls to Configure.
func (c *Media) Configurations() int {
	return c.configurations
}

// SetTheme sets the theme the cell shapes text with. It should share its
// shaper with the measurer of the layout cache.
func (c *Media) SetTheme(th *material.Theme) {
	c.Theme = th
	c.updateMenu()
}

func (c *Media) theme() *material.Theme {
	if c.Theme != nil {
		return c.Theme
	}
	return sharedTheme()
}

// updateMenu rebuilds the context menu to match the configured options.
func (c *Media) updateMenu() {
	if len(c.state.Options) != len(c.cfg.Menu) {
		c.state.Options = make([]widget.Clickable, len(c.cfg.Menu))
	}
	c.state.Menu.Options = c.state.Menu.Options[:0]
	for i, opt := range c.cfg.Menu {
		c.state.Menu.Options = append(c.state.Menu.Options,
			component.MenuItem(c.theme(), &c.state.Options[i], opt.Label).Layout)
	}
}

// row returns the row geometry of the cell.
func (c *Media) row() chatlayout.Row {
	s := c.cfg.Style
	row := chatlayout.Row{
		Margin:    chatlayout.VerticalMargin(),
		Gutter:    chatlayout.Gutter(),
		Direction: layout.E,
	}
	if c.cfg.ViewModel.Base().IsIncoming() {
		row.Direction = layout.W
		if c.cfg.Decoration.CanShowAvatar {
			row.Gutter.LeftWidth = s.Base.AvatarSize + unit.Dp(8)
		}
	}
	return row
}

// Context returns the layout context of the configured view-model for a
// cell width pixels wide.
func (c *Media) Context(width int, metric unit.Metric) bubble.Context {
	var (
		vm   = c.cfg.ViewModel
		s    = c.cfg.Style
		sel  = c.cfg.Decoration.Selected
		base = vm.Base()
	)
	ctx := bubble.Context{
		Kind:              vm.Kind(),
		Text:              vm.Text(),
		Font:              s.TextFont(vm, sel),
		Incoming:          base.IsIncoming(),
		TextInsets:        s.TextInsets(vm, sel).Px(metric.Dp),
		PreferredMaxWidth: c.preferredWidth(width, metric),
		PlaceholderSize:   square(metric.Dp(s.Photo.PlaceholderIconSize)),
		Deleted:           base.Obscured(),
	}
	if vm.Kind() == message.KindPhoto {
		ctx.PhotoSize = photoSize(base, metric, metric.Dp(s.Photo.MaxHeight))
	} else {
		ctx.PhotoSize = square(metric.Dp(s.Photo.ThumbnailSize))
		ctx.ImageOffset = metric.Dp(s.Photo.ImageOffset)
	}
	return ctx
}

// preferredWidth is the share of the row, after gutters and the failed
// icon, that the bubble may occupy.
func (c *Media) preferredWidth(width int, metric unit.Metric) int {
	s := c.cfg.Style
	available := width - c.row().Gutter.Width(metric) - metric.Dp(s.Base.FailedIconSize)
	if available < 0 {
		return 0
	}
	return int(float32(available) * s.Base.MaxWidthRatio)
}

// Model returns the cached bubble model for a cell width pixels wide.
func (c *Media) Model(width int, metric unit.Metric) *bubble.Model {
	return c.cfg.Cache.Get(c.Context(width, metric))
}

// SizeThatFits returns the size of the cell laid out within width. An
// unconfigured cell has no size.
func (c *Media) SizeThatFits(width int, metric unit.Metric) image.Point {
	if c.cfg.ViewModel == nil {
		return image.Point{}
	}
	var (
		s      = c.cfg.Style
		base   = c.cfg.ViewModel.Base()
		height = c.Model(width, metric).Size.Y
	)
	if base.IsShowingFailedIcon() {
		height = max(height, metric.Dp(s.Base.FailedIconSize))
	}
	if base.IsIncoming() && c.cfg.Decoration.CanShowAvatar {
		height = max(height, metric.Dp(s.Base.AvatarSize))
	}
	return image.Pt(width, c.row().Height(metric, height))
}

// photoSize is the natural size of the photo, bounded in height. Unknown
// sizes fall back to the size of a loaded image, then to the default.
func photoSize(m *viewmodel.Media, metric unit.Metric, maxHeight int) image.Point {
	size := m.ImageSize()
	if size.X <= 0 || size.Y <= 0 {
		if img := m.Image.Get(); img != nil {
			size = img.Bounds().Size()
		}
	}
	if size.X <= 0 || size.Y <= 0 {
		size = image.Pt(
			metric.Dp(unit.Dp(bubble.DefaultPhotoSize.X)),
			metric.Dp(unit.Dp(bubble.DefaultPhotoSize.Y)),
		)
	}
	if maxHeight > 0 && size.Y > maxHeight {
		size = image.Pt(size.X*maxHeight/size.Y, maxHeight)
	}
	return size
}

func square(side int) image.Point {
	return image.Pt(side, side)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
