/*
Package feed hosts media messages in a scrollable Gio list.

A Feed keeps the messages sorted by the time they were sent, allocates one
presenter per message the first time it is laid out, and displays it in a
cell dequeued by reuse identifier. Cells that scroll out of view return to
their pool and the presenter stops updating them. Removing a message, or
evicting it when the feed grows beyond MaxSize, disposes its presenter.

Every method must be called from the frame goroutine. Work completing
elsewhere is posted to the Queue, which the feed drains at the start of each
frame.
*/
package feed

import (
	"sort"
	"time"

	"gioui.org/layout"
	"gioui.org/widget/material"
	chatitems "git.sr.ht/~gioverse/chatitems"
	"git.sr.ht/~gioverse/chatitems/cell"
	"git.sr.ht/~gioverse/chatitems/debug"
	"git.sr.ht/~gioverse/chatitems/dispatch"
	"git.sr.ht/~gioverse/chatitems/message"
	"git.sr.ht/~gioverse/chatitems/presenter"
	chatmaterial "git.sr.ht/~gioverse/chatitems/widget/material"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

// DefaultMaxSize is the default number of messages a feed retains.
const DefaultMaxSize = 1000

// Feed is a list of media messages.
type Feed struct {
	layout.List
	// Queue, if set, is drained at the start of every frame.
	Queue *dispatch.Queue
	// Clipboard flushes copied text every frame, if set.
	Clipboard *cell.GioClipboard
	// Theme draws the date separators.
	Theme *material.Theme
	// MaxSize bounds the number of messages retained. The oldest messages
	// are evicted first. Defaults to DefaultMaxSize.
	MaxSize int
	// ShowAvatars reserves space for the avatars of incoming messages.
	ShowAvatars bool
	// Selecting routes taps on bubbles to message selection.
	Selecting bool
	// Outline traces every cell in the color of its pool.
	Outline bool

	builders   []*presenter.Builder
	identifier map[string]*presenter.Builder
	items      []message.Item
	presenters map[message.Serial]*presenter.Presenter
	// pools holds the free cells of every reuse identifier.
	pools map[string][]cell.Cell
	// visible holds the cells displaying messages laid out this frame.
	visible map[message.Serial]*binding
	selected map[message.Serial]bool
	// frame counts layouts, to find the cells that left the viewport.
	frame int
}

// binding tracks a cell displaying a message.
type binding struct {
	cell       cell.Cell
	id         string
	decoration cell.Decoration
	// frame is the frame counter at which the binding was last laid out.
	frame int
}

// New returns an empty feed that presents the messages the builders can
// handle.
func New(builders ...*presenter.Builder) *Feed {
	f := &Feed{
		List:       layout.List{Axis: layout.Vertical, ScrollToEnd: true},
		identifier: make(map[string]*presenter.Builder),
		presenters: make(map[message.Serial]*presenter.Presenter),
		pools:      make(map[string][]cell.Cell),
		visible:    make(map[message.Serial]*binding),
		selected:   make(map[message.Serial]bool),
	}
	for _, b := range builders {
		f.Register(b)
	}
	return f
}

// Register a presenter builder. Registering two builders that use the same
// cells is a contract violation.
func (f *Feed) Register(b *presenter.Builder) {
	for _, id := range b.ReuseIdentifiers() {
		if _, ok := f.identifier[id]; ok {
			panic(chatitems.Violation("reuse identifier %q registered twice", id))
		}
		f.identifier[id] = b
	}
	f.builders = append(f.builders, b)
}

// builder returns the builder that can present item.
func (f *Feed) builder(item message.Item) *presenter.Builder {
	for _, b := range f.builders {
		if b.CanHandle(item) {
			return b
		}
	}
	return nil
}

// Update inserts items, replacing any message with the same serial. Items
// no registered builder can handle are a contract violation.
func (f *Feed) Update(items ...message.Item) {
	for _, item := range items {
		if item == nil {
			panic(chatitems.Violation("updating feed with a nil item"))
		}
		if f.builder(item) == nil {
			panic(chatitems.Violation("no presenter builder for %v item %v", item.Kind(), item.Serial()))
		}
	}
	replaced := make(map[message.Serial]message.Item, len(items))
	for _, item := range items {
		replaced[item.Serial()] = item
	}
	kept := f.items[:0]
	for _, item := range f.items {
		if _, ok := replaced[item.Serial()]; ok {
			f.release(item.Serial())
			continue
		}
		kept = append(kept, item)
	}
	f.items = kept
	for _, item := range replaced {
		f.items = append(f.items, item)
	}
	sort.SliceStable(f.items, func(i, j int) bool {
		a, b := f.items[i].Base(), f.items[j].Base()
		if !a.SentAt.Equal(b.SentAt) {
			return a.SentAt.Before(b.SentAt)
		}
		return a.ID < b.ID
	})
	f.compact()
}

// Remove the messages with the given serials. Unknown serials are ignored.
func (f *Feed) Remove(serials ...message.Serial) {
	remove := make(map[message.Serial]bool, len(serials))
	for _, s := range serials {
		remove[s] = true
	}
	kept := f.items[:0]
	for _, item := range f.items {
		if remove[item.Serial()] {
			f.release(item.Serial())
			continue
		}
		kept = append(kept, item)
	}
	f.items = kept
}

// compact evicts the oldest messages beyond MaxSize.
func (f *Feed) compact() {
	limit := f.MaxSize
	if limit <= 0 {
		limit = DefaultMaxSize
	}
	if len(f.items) <= limit {
		return
	}
	evicted := len(f.items) - limit
	for _, item := range f.items[:evicted] {
		f.release(item.Serial())
	}
	f.items = append(f.items[:0], f.items[evicted:]...)
}

// release disposes the presenter of serial and recycles its cell.
func (f *Feed) release(serial message.Serial) {
	if b, ok := f.visible[serial]; ok {
		f.pools[b.id] = append(f.pools[b.id], b.cell)
		delete(f.visible, serial)
	}
	if p, ok := f.presenters[serial]; ok {
		p.Dispose()
		delete(f.presenters, serial)
	}
	delete(f.selected, serial)
}

// Len returns the number of messages in the feed.
func (f *Feed) Len() int {
	return len(f.items)
}

// Items returns the messages in display order. Callers must not modify the
// returned slice.
func (f *Feed) Items() []message.Item {
	return f.items
}

// Presenter returns the presenter of serial, if one has been allocated.
func (f *Feed) Presenter(serial message.Serial) (*presenter.Presenter, bool) {
	p, ok := f.presenters[serial]
	return p, ok
}

// Select toggles the selection of serial.
func (f *Feed) Select(serial message.Serial) {
	if f.selected[serial] {
		delete(f.selected, serial)
	} else {
		f.selected[serial] = true
	}
}

// Selected reports whether serial is selected.
func (f *Feed) Selected(serial message.Serial) bool {
	return f.selected[serial]
}

// presenterAt returns the presenter of the item at index, allocating it on
// first use.
func (f *Feed) presenterAt(index int) *presenter.Presenter {
	item := f.items[index]
	if p, ok := f.presenters[item.Serial()]; ok {
		return p
	}
	p := f.builder(item).CreatePresenter(item)
	f.presenters[item.Serial()] = p
	return p
}

// Decoration returns the decoration of the item at index. Messages show a
// tail when the next message comes from someone else.
func (f *Feed) Decoration(index int) cell.Decoration {
	item := f.items[index].Base()
	d := cell.Decoration{
		ShowsTail:     true,
		CanShowAvatar: f.ShowAvatars,
		Selected:      f.selected[item.ID],
		Selecting:     f.Selecting,
	}
	if index+1 < len(f.items) {
		next := f.items[index+1].Base()
		d.ShowsTail = next.Sender != item.Sender || next.Direction != item.Direction
	}
	return d
}

// Height returns the height of the item at index laid out within width.
func (f *Feed) Height(index, width int) int {
	return f.presenterAt(index).Height(width)
}

// dequeue returns a free cell for the reuse identifier, allocating one if
// the pool is empty.
func (f *Feed) dequeue(id string) cell.Cell {
	pool := f.pools[id]
	if n := len(pool); n > 0 {
		c := pool[n-1]
		f.pools[id] = pool[:n-1]
		return c
	}
	b, ok := f.identifier[id]
	if !ok {
		panic(chatitems.Violation("no cell registered for reuse identifier %q", id))
	}
	c := b.NewCell()
	if t, ok := c.(themed); ok && f.Theme != nil {
		t.SetTheme(f.Theme)
	}
	return c
}

// themed is implemented by cells that shape text with a settable theme.
type themed interface {
	SetTheme(th *material.Theme)
}

// Pooled returns the number of free cells of the reuse identifier.
func (f *Feed) Pooled(id string) int {
	return len(f.pools[id])
}

// Visible returns the number of cells displaying messages.
func (f *Feed) Visible() int {
	return len(f.visible)
}

// Layout the feed.
func (f *Feed) Layout(gtx C) D {
	if f.Queue != nil {
		f.Queue.Drain()
	}
	if f.Clipboard != nil {
		f.Clipboard.Flush(gtx)
	}
	f.frame++
	dims := f.List.Layout(gtx, len(f.items), func(gtx C, index int) D {
		return f.layoutItem(gtx, index, f.frame)
	})
	f.recycle(f.frame)
	return dims
}

// layoutItem lays out the message at index, preceded by a date separator
// when it starts a new day.
func (f *Feed) layoutItem(gtx C, index, frame int) D {
	var (
		item   = f.items[index]
		p      = f.presenterAt(index)
		attrs  = f.Decoration(index)
		serial = item.Serial()
	)
	b, ok := f.visible[serial]
	switch {
	case !ok:
		id := p.ReuseIdentifier()
		b = &binding{cell: f.dequeue(id), id: id, decoration: attrs}
		f.visible[serial] = b
		p.ConfigureCell(b.cell, attrs, false, nil)
	case b.decoration != attrs:
		b.decoration = attrs
		p.ConfigureCell(b.cell, attrs, true, nil)
	}
	b.frame = frame
	content := b.cell.Layout
	if f.Outline {
		content = func(gtx C) D {
			return debug.Pool(b.id).Layout(gtx, b.cell.Layout)
		}
	}
	if !f.startsDay(index) || f.Theme == nil {
		return content(gtx)
	}
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(chatmaterial.DateSeparator(f.Theme, item.Base().SentAt).Layout),
		layout.Rigid(content),
	)
}

// startsDay reports whether the item at index is the first of its day.
func (f *Feed) startsDay(index int) bool {
	if index == 0 {
		return true
	}
	return !sameDay(f.items[index-1].Base().SentAt, f.items[index].Base().SentAt)
}

func sameDay(a, b time.Time) bool {
	a, b = a.Local(), b.Local()
	return a.YearDay() == b.YearDay() && a.Year() == b.Year()
}

// recycle detaches the cells that were not laid out in frame and returns
// them to their pools.
func (f *Feed) recycle(frame int) {
	for serial, b := range f.visible {
		if b.frame == frame {
			continue
		}
		if p, ok := f.presenters[serial]; ok {
			p.DetachCell()
		}
		f.pools[b.id] = append(f.pools[b.id], b.cell)
		delete(f.visible, serial)
	}
}
