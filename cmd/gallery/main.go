// Command gallery presents generated media messages in a scrollable feed.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gioui.org/app"
	"gioui.org/font/gofont"
	"gioui.org/io/key"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/unit"
	"gioui.org/widget/material"
	"git.sr.ht/~gioverse/chatitems/cell"
	"git.sr.ht/~gioverse/chatitems/dispatch"
	"git.sr.ht/~gioverse/chatitems/feed"
	"git.sr.ht/~gioverse/chatitems/fetch"
	"git.sr.ht/~gioverse/chatitems/measure"
	"git.sr.ht/~gioverse/chatitems/presenter"
	"git.sr.ht/~gioverse/chatitems/profile"
	"git.sr.ht/~gioverse/chatitems/style"
	"git.sr.ht/~gioverse/chatitems/viewmodel"
)

var (
	// stylePath names a YAML file overriding the default style.
	stylePath string
	// mediaDir holds images messages may reference.
	mediaDir string
	// remote lists image URLs messages may reference.
	remote string
	// count of messages generated at startup.
	count int
	// seed of the message generator.
	seed int64
	// delay of synthetic image loads.
	delay time.Duration
	// avatars reserves space for sender avatars.
	avatars bool
	// outline traces every cell.
	outline bool
	// profileMode specifies what to profile.
	profileMode profile.Mode
)

func init() {
	flag.StringVar(&stylePath, "style", "", "load the style from the given YAML file")
	flag.StringVar(&mediaDir, "media", "", "directory of images to attach to messages")
	flag.StringVar(&remote, "remote", "", "comma separated image URLs to attach to messages")
	flag.IntVar(&count, "count", 200, "number of messages to generate")
	flag.Int64Var(&seed, "seed", time.Now().UnixNano(), "seed of the message generator")
	flag.DurationVar(&delay, "delay", 2*time.Second, "time taken to load a synthetic image")
	flag.BoolVar(&avatars, "avatars", true, "show sender avatars")
	flag.BoolVar(&outline, "outline", false, "outline every cell in the color of its pool")
	flag.Var(&profileMode, "profile", fmt.Sprintf("create the provided kind of profile, one of %v", profile.Modes))
}

func main() {
	flag.Parse()
	s, err := loadStyle(stylePath)
	if err != nil {
		log.Fatalf("loading style: %v", err)
	}
	go func() {
		w := app.NewWindow(
			app.Title("Gallery"),
			app.Size(unit.Dp(480), unit.Dp(800)),
		)
		if err := NewUI(s).Run(w); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		os.Exit(0)
	}()
	app.Main()
}

func loadStyle(path string) (style.Style, error) {
	if path == "" {
		return style.Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return style.Style{}, err
	}
	defer f.Close()
	return style.Load(f)
}

type (
	C = layout.Context
	D = layout.Dimensions
)

// UI holds the state of the gallery.
type UI struct {
	Style     style.Style
	Queue     *dispatch.Queue
	Images    *fetch.Loader
	Clipboard *cell.GioClipboard
	Generator *Generator

	feed *feed.Feed
}

// NewUI wires the loader and generator of the gallery.
func NewUI(s style.Style) *UI {
	ui := &UI{
		Style:     s,
		Queue:     &dispatch.Queue{},
		Clipboard: &cell.GioClipboard{},
		Generator: NewGenerator(seed, time.Now().Add(-24*time.Hour*time.Duration(count/8+1))),
	}
	router := Router{
		Synthetic: SyntheticSource{Delay: delay},
		Remote:    fetch.HTTPSource{},
	}
	if mediaDir != "" {
		dir := fetch.DirSource{Dir: mediaDir}
		router.Local = dir
		ui.Generator.Library = &fetch.Library{Lister: dir}
	}
	for _, u := range strings.Split(remote, ",") {
		if u = strings.TrimSpace(u); u != "" {
			ui.Generator.Remote = append(ui.Generator.Remote, u)
		}
	}
	ui.Images = &fetch.Loader{
		Source:    router,
		Queue:     ui.Queue,
		Scheduler: &fetch.DynamicWorkerPool{Workers: 8},
		MaxSide:   1024,
	}
	return ui
}

// Run handles window events until the window is destroyed.
func (ui *UI) Run(w *app.Window) error {
	session, err := profile.Start(profileMode, "")
	if err != nil {
		return err
	}
	defer session.Stop()
	defer ui.Images.Close()
	ui.Queue.Invalidator = w.Invalidate
	var ops op.Ops
	for e := range w.Events() {
		switch e := e.(type) {
		case system.DestroyEvent:
			return e.Err
		case system.FrameEvent:
			gtx := layout.NewContext(&ops, e)
			session.Record(gtx)
			ui.Layout(gtx)
			e.Frame(&ops)
		}
	}
	return nil
}

// setup builds the feed on the first frame, once the text scale is known.
func (ui *UI) setup(gtx C) {
	th := material.NewTheme(gofont.Collection())
	m := &measure.Measurer{PxPerSp: gtx.Metric.PxPerSp, Shaper: th.Shaper}
	builders := presenter.Family(ui.Style, m)
	ui.feed = feed.New(builders...)
	for _, b := range builders {
		b.Metric = gtx.Metric
		b.Handler = handler{ui: ui}
		b.Clipboard = ui.Clipboard
		b.Images = ui.Images
	}
	ui.feed.Queue = ui.Queue
	ui.feed.Clipboard = ui.Clipboard
	ui.feed.Theme = th
	ui.feed.ShowAvatars = avatars
	ui.feed.Outline = outline
	ui.feed.Update(ui.Generator.Messages(context.Background(), count)...)
}

// Layout the gallery. Pressing N appends a message and S toggles selection
// mode.
func (ui *UI) Layout(gtx C) D {
	if ui.feed == nil {
		ui.setup(gtx)
	}
	for _, e := range gtx.Events(ui) {
		e, ok := e.(key.Event)
		if !ok || e.State != key.Press {
			continue
		}
		switch e.Name {
		case "N":
			ui.feed.Update(ui.Generator.Message(context.Background()))
		case "S":
			ui.feed.Selecting = !ui.feed.Selecting
		}
	}
	key.InputOp{Tag: ui, Keys: key.Set("N|S")}.Add(gtx.Ops)
	key.FocusOp{Tag: ui}.Add(gtx.Ops)
	return ui.feed.Layout(gtx)
}

// handler routes the interactions of the user back into the feed.
type handler struct {
	ui *UI
}

var (
	_ presenter.InteractionHandler = handler{}
	_ presenter.Deleter            = handler{}
)

func (h handler) UserDidTapOnBubble(vm viewmodel.ViewModel) {
	log.Printf("tapped %v message %v", vm.Kind(), vm.Base().Serial())
}

// UserDidTapOnFailIcon retries the image transfer.
func (h handler) UserDidTapOnFailIcon(vm viewmodel.ViewModel) {
	if p, ok := h.ui.feed.Presenter(vm.Base().Serial()); ok {
		p.LoadImage()
	}
}

// UserDidSelectMessage toggles the selection, entering selection mode.
func (h handler) UserDidSelectMessage(vm viewmodel.ViewModel) {
	h.ui.feed.Selecting = true
	h.ui.feed.Select(vm.Base().Serial())
}

func (h handler) CanDelete(vm viewmodel.ViewModel) bool {
	return !vm.Base().IsIncoming()
}

// Delete removes the message on the next frame, so the menu that asked for
// it finishes its layout first.
func (h handler) Delete(vm viewmodel.ViewModel) {
	serial := vm.Base().Serial()
	h.ui.Queue.Post(func() { h.ui.feed.Remove(serial) })
}
