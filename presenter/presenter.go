/*
Package presenter binds media message view-models to reusable cells.

A Presenter lives as long as its message is materialized in the hosting list.
It owns the view-model of the message, observes its mutable state and
reconfigures whichever cell currently displays the message when that state
changes. A Builder creates the presenters of one message kind and owns the
resources they share.
*/
package presenter

import (
	"fmt"
	"image"
	"log"

	chatitems "git.sr.ht/~gioverse/chatitems"
	"git.sr.ht/~gioverse/chatitems/cell"
	"git.sr.ht/~gioverse/chatitems/fetch"
	"git.sr.ht/~gioverse/chatitems/message"
	"git.sr.ht/~gioverse/chatitems/observable"
	"git.sr.ht/~gioverse/chatitems/viewmodel"
)

// Action is a menu action that can be performed on a message.
type Action uint8

const (
	Copy Action = iota
	Delete
)

func (a Action) String() string {
	switch a {
	case Copy:
		return "Copy"
	case Delete:
		return "Delete"
	default:
		return fmt.Sprintf("action(%d)", uint8(a))
	}
}

// Actions lists the actions offered in the context menu, in order.
var Actions = []Action{Copy, Delete}

// Clipboard is a write-only sink for copied text.
type Clipboard interface {
	WriteText(txt string)
}

// InteractionHandler receives the interactions of the user with media
// messages.
type InteractionHandler interface {
	UserDidTapOnBubble(vm viewmodel.ViewModel)
	UserDidTapOnFailIcon(vm viewmodel.ViewModel)
	UserDidSelectMessage(vm viewmodel.ViewModel)
}

// Deleter is implemented by interaction handlers that can delete messages.
type Deleter interface {
	CanDelete(vm viewmodel.ViewModel) bool
	Delete(vm viewmodel.ViewModel)
}

// State of a presenter.
type State uint8

const (
	// Unbound presenters have no view-model yet.
	Unbound State = iota
	// Bound presenters observe their view-model but display no cell.
	Bound
	// Displaying presenters reconfigure their cell on every change.
	Displaying
	// Disposed presenters observe nothing and accept no further calls.
	Disposed
)

func (s State) String() string {
	switch s {
	case Unbound:
		return "unbound"
	case Bound:
		return "bound"
	case Displaying:
		return "displaying"
	case Disposed:
		return "disposed"
	default:
		return "unknown state"
	}
}

// Presenter binds the view-model of one message to the cell displaying it.
type Presenter struct {
	item    message.Item
	builder *Builder
	state   State
	vm      viewmodel.ViewModel
	subs    observable.Bag
	cell    cell.Cell
	// decoration is the last decoration the cell was configured with. It is
	// nil whenever cell is.
	decoration *cell.Decoration
	request    *fetch.Request
}

// Item returns the presented message.
func (p *Presenter) Item() message.Item {
	return p.item
}

// State returns the lifecycle state of the presenter.
func (p *Presenter) State() State {
	return p.state
}

// ViewModel returns the view-model, or nil before CreateViewModel.
func (p *Presenter) ViewModel() viewmodel.ViewModel {
	return p.vm
}

// Cell returns the cell currently configured by the presenter, if any.
func (p *Presenter) Cell() cell.Cell {
	return p.cell
}

// CreateViewModel builds the view-model of the message and starts observing
// its avatar, image and transfer state. It starts loading the image when
// the message references one that is not available yet.
func (p *Presenter) CreateViewModel() viewmodel.ViewModel {
	switch p.state {
	case Disposed:
		panic(chatitems.Violation("creating view-model of disposed presenter %v", p.item.Serial()))
	case Unbound:
	default:
		return p.vm
	}
	p.vm = p.builder.ViewModels.Create(p.item)
	base := p.vm.Base()
	update := func() { p.UpdateCurrentCell() }
	p.subs.Add(
		base.Avatar.Observe(func(_, _ image.Image) { update() }),
		base.Image.Observe(func(_, _ image.Image) { update() }),
		base.TransferDirection.Observe(func(_, _ viewmodel.TransferDirection) { update() }),
		base.TransferProgress.Observe(func(_, _ float64) { update() }),
		base.TransferStatus.Observe(func(_, _ viewmodel.TransferStatus) { update() }),
	)
	p.state = Bound
	if base.Image.Get() == nil {
		p.LoadImage()
	}
	return p.vm
}

// LoadImage starts loading the image of the message, cancelling any load in
// progress. It does nothing without an image loader or an image location.
func (p *Presenter) LoadImage() {
	if p.vm == nil || p.builder.Images == nil {
		return
	}
	base := p.vm.Base()
	id := base.ImageURL()
	if p.vm.Kind() != message.KindPhoto && base.ThumbnailURL() != "" {
		id = base.ThumbnailURL()
	}
	if id == "" {
		return
	}
	direction := viewmodel.Download
	if !base.IsIncoming() {
		direction = viewmodel.Upload
	}
	p.request.Cancel()
	p.request = fetch.Bind(p.builder.Images, base, id, direction)
}

// ConfigureCell configures c to display the message. c must be the cell
// type of the message kind. extra, if not nil, runs after configuration.
func (p *Presenter) ConfigureCell(c cell.Cell, attrs cell.Decoration, animated bool, extra func()) {
	if p.state == Disposed {
		panic(chatitems.Violation("configuring cell of disposed presenter %v", p.item.Serial()))
	}
	if !p.builder.accepts(c) {
		panic(chatitems.Violation("cannot display %v message in %T", p.item.Kind(), c))
	}
	p.CreateViewModel()
	c.Configure(p.config(attrs), animated)
	p.cell = c
	p.decoration = &attrs
	p.state = Displaying
	if extra != nil {
		extra()
	}
}

// UpdateCurrentCell reconfigures the current cell with the current state of
// the view-model. It does nothing when no cell is displayed.
func (p *Presenter) UpdateCurrentCell() {
	if p.cell == nil || p.decoration == nil {
		return
	}
	p.cell.Configure(p.config(*p.decoration), true)
}

// DetachCell stops updating the current cell, which may now display another
// message.
func (p *Presenter) DetachCell() {
	p.cell = nil
	p.decoration = nil
	if p.state == Displaying {
		p.state = Bound
	}
}

// Dispose releases the observations of the presenter and cancels any image
// load. Calling it more than once is a no-op.
func (p *Presenter) Dispose() {
	if p.state == Disposed {
		return
	}
	p.subs.Dispose()
	p.request.Cancel()
	p.cell = nil
	p.decoration = nil
	p.state = Disposed
}

// CanPerform reports whether the action is available for the message.
func (p *Presenter) CanPerform(a Action) bool {
	switch a {
	case Copy:
		return true
	case Delete:
		d, ok := p.builder.Handler.(Deleter)
		return ok && p.vm != nil && d.CanDelete(p.vm)
	}
	return false
}

// Perform the action. Performing an action that CanPerform rejects is a
// contract violation.
func (p *Presenter) Perform(a Action) {
	if !p.CanPerform(a) {
		panic(chatitems.Violation("unsupported action %v on %v", a, p.item.Serial()))
	}
	switch a {
	case Copy:
		if p.builder.Clipboard == nil {
			log.Printf("presenter: no clipboard to copy %v", p.item.Serial())
			return
		}
		vm := p.vm
		if vm == nil {
			vm = p.CreateViewModel()
		}
		p.builder.Clipboard.WriteText(vm.Text())
	case Delete:
		p.builder.Handler.(Deleter).Delete(p.vm)
	}
}

// Height returns the height of the message laid out within width, measured
// with the sizing cell shared by every presenter of the builder.
func (p *Presenter) Height(width int) int {
	p.CreateViewModel()
	attrs := cell.Decoration{}
	if p.decoration != nil {
		attrs = *p.decoration
	}
	sizing := p.builder.SizingCell()
	sizing.Configure(p.config(attrs), false)
	return sizing.SizeThatFits(width, p.builder.Metric).Y
}

// ReuseIdentifier names the pool of cells that can display the message.
func (p *Presenter) ReuseIdentifier() string {
	return cell.ReuseIdentifier(p.item.Kind(), p.item.Base().Incoming())
}

// config assembles the configuration of a cell displaying the message.
func (p *Presenter) config(attrs cell.Decoration) cell.Config {
	cfg := cell.Config{
		ViewModel:  p.vm,
		Style:      p.builder.Style,
		Cache:      p.builder.Cache,
		Decoration: attrs,
	}
	for _, a := range Actions {
		if !p.CanPerform(a) {
			continue
		}
		a := a
		cfg.Menu = append(cfg.Menu, cell.MenuOption{
			Label: a.String(),
			Do:    func() { p.Perform(a) },
		})
	}
	if h := p.builder.Handler; h != nil {
		vm := p.vm
		cfg.Callbacks = cell.Callbacks{
			TapBubble:   func() { h.UserDidTapOnBubble(vm) },
			TapFailIcon: func() { h.UserDidTapOnFailIcon(vm) },
			Select:      func() { h.UserDidSelectMessage(vm) },
		}
	}
	return cfg
}
