package presenter

import (
	"sync"

	"gioui.org/unit"
	chatitems "git.sr.ht/~gioverse/chatitems"
	"git.sr.ht/~gioverse/chatitems/bubble"
	"git.sr.ht/~gioverse/chatitems/cell"
	"git.sr.ht/~gioverse/chatitems/fetch"
	"git.sr.ht/~gioverse/chatitems/message"
	"git.sr.ht/~gioverse/chatitems/style"
	"git.sr.ht/~gioverse/chatitems/viewmodel"
)

// Builder creates the presenters of one message kind and owns the resources
// they share.
type Builder struct {
	// ViewModels creates the view-models of the kind.
	ViewModels viewmodel.Builder
	// Style of the cells.
	Style style.Style
	// Cache is the layout cache shared by the family of media kinds.
	Cache *bubble.Cache
	// Metric converts the style to pixels when sizing cells outside of a
	// frame. Frames use their own metric.
	Metric unit.Metric
	// Handler, if set, receives the interactions of the user.
	Handler InteractionHandler
	// Clipboard receives copied text.
	Clipboard Clipboard
	// Images, if set, loads the images messages reference but do not carry.
	Images *fetch.Loader

	kind       message.Kind
	sizingOnce sync.Once
	sizing     cell.Cell
}

// NewBuilder returns a Builder for kind sharing cache.
func NewBuilder(kind message.Kind, cache *bubble.Cache, s style.Style) *Builder {
	return &Builder{
		ViewModels: viewmodel.BuilderFor(kind),
		Style:      s,
		Cache:      cache,
		Metric:     unit.Metric{PxPerDp: 1, PxPerSp: 1},
		kind:       kind,
	}
}

// Family returns builders for every media kind sharing one layout cache of
// bubble.DefaultCacheSize entries.
func Family(s style.Style, m bubble.Measurer) []*Builder {
	cache := bubble.NewCache(bubble.DefaultCacheSize, m)
	return []*Builder{
		NewBuilder(message.KindPhoto, cache, s),
		NewBuilder(message.KindPhotoText, cache, s),
		NewBuilder(message.KindVideoText, cache, s),
	}
}

// Kind of the messages the builder handles.
func (b *Builder) Kind() message.Kind {
	return b.kind
}

// CanHandle reports whether the builder can present item.
func (b *Builder) CanHandle(item message.Item) bool {
	return b.ViewModels.CanCreate(item)
}

// CreatePresenter returns an unbound presenter of item. Creating a presenter
// of an item the builder cannot handle is a contract violation.
func (b *Builder) CreatePresenter(item message.Item) *Presenter {
	if !b.CanHandle(item) {
		if item == nil {
			panic(chatitems.Violation("%v builder cannot present a nil item", b.kind))
		}
		panic(chatitems.Violation("%v builder cannot present %v item %v", b.kind, item.Kind(), item.Serial()))
	}
	return &Presenter{item: item, builder: b}
}

// ReuseIdentifiers lists the identifiers of the cells the presenters use.
func (b *Builder) ReuseIdentifiers() []string {
	return []string{
		cell.ReuseIdentifier(b.kind, true),
		cell.ReuseIdentifier(b.kind, false),
	}
}

// NewCell allocates a cell that presenters of the builder can configure.
func (b *Builder) NewCell() cell.Cell {
	return cell.New(b.kind)
}

// SizingCell returns the cell that measures the messages of the builder. It
// is created on first use.
func (b *Builder) SizingCell() cell.Cell {
	b.sizingOnce.Do(func() {
		b.sizing = b.NewCell()
	})
	return b.sizing
}

// accepts reports whether c is the cell type of the kind.
func (b *Builder) accepts(c cell.Cell) bool {
	var ok bool
	switch b.kind {
	case message.KindPhoto:
		_, ok = c.(*cell.PhotoCell)
	case message.KindPhotoText:
		_, ok = c.(*cell.PhotoTextCell)
	case message.KindVideoText:
		_, ok = c.(*cell.VideoTextCell)
	}
	return ok
}
