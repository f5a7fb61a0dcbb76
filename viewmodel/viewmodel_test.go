package viewmodel

import (
	"errors"
	"image"
	"testing"

	chatitems "git.sr.ht/~gioverse/chatitems"
	"git.sr.ht/~gioverse/chatitems/message"
)

var (
	photo = message.Photo{
		Message: message.Message{ID: "p", Direction: message.Outgoing},
		Media:   message.Media{ImageSize: image.Pt(300, 200)},
	}
	photoText = message.PhotoText{
		Message: message.Message{ID: "pt", Direction: message.Incoming},
		Media:   message.Media{ImageSize: image.Pt(50, 50)},
		Text:    "look at this",
	}
	videoText = message.VideoText{
		Message: message.Message{ID: "vt", Status: message.Failed},
		Text:    "watch",
	}
)

func TestBuilderCanCreate(t *testing.T) {
	items := []message.Item{photo, photoText, videoText}
	for _, b := range []Builder{PhotoBuilder{}, PhotoTextBuilder{}, VideoTextBuilder{}} {
		matches := 0
		for _, item := range items {
			if b.CanCreate(item) {
				matches++
			}
		}
		if matches != 1 {
			t.Errorf("%T: expected exactly one compatible kind, got %d", b, matches)
		}
	}
	if (PhotoBuilder{}).CanCreate(nil) {
		t.Errorf("nil item must not be accepted")
	}
}

func TestBuilderCreate(t *testing.T) {
	vm := PhotoTextBuilder{}.Create(photoText)
	if vm.Kind() != message.KindPhotoText {
		t.Fatalf("unexpected kind %v", vm.Kind())
	}
	if vm.Text() != "look at this" {
		t.Errorf("unexpected text %q", vm.Text())
	}
	if vm.Item().(message.PhotoText) != photoText {
		t.Errorf("view-model must wrap the original item unchanged")
	}
	if !vm.Base().IsIncoming() {
		t.Errorf("expected incoming view-model")
	}
	if vm.Base().ImageSize() != image.Pt(50, 50) {
		t.Errorf("unexpected image size %v", vm.Base().ImageSize())
	}
	if vm.Base().Image.Get() != nil {
		t.Errorf("expected no image before load")
	}
}

func TestBuilderCreateIncompatible(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, chatitems.ErrContract) {
			t.Fatalf("expected contract violation panic, got %v", r)
		}
	}()
	PhotoBuilder{}.Create(videoText)
}

func TestObscuredText(t *testing.T) {
	hidden := photoText
	hidden.Hidden = true
	if got := (PhotoTextBuilder{}).Create(hidden).Text(); got != ObscuredText {
		t.Errorf("expected obscured text, got %q", got)
	}
	deleted := videoText
	deleted.Deleted = true
	if got := (VideoTextBuilder{}).Create(deleted).Text(); got != ObscuredText {
		t.Errorf("expected obscured text, got %q", got)
	}
}

func TestFailedIcon(t *testing.T) {
	vm := PhotoBuilder{}.Create(photo).Base()
	if vm.IsShowingFailedIcon() {
		t.Fatalf("expected no failed icon initially")
	}
	vm.TransferStatus.Set(Failed)
	if !vm.IsShowingFailedIcon() {
		t.Errorf("failed transfer must show the failed icon")
	}
	failed := VideoTextBuilder{}.Create(videoText).Base()
	if !failed.IsShowingFailedIcon() {
		t.Errorf("failed delivery must show the failed icon")
	}
}

func TestProgressOrdering(t *testing.T) {
	vm := PhotoTextBuilder{}.Create(photoText).Base()
	var seen []ProgressStatus
	record := func() { seen = append(seen, vm.ProgressIndicator()) }
	record()
	vm.TransferStatus.Set(Transferring)
	vm.SetProgress(0)
	record()
	vm.SetProgress(0.5)
	record()
	vm.SetProgress(1)
	record()
	vm.TransferStatus.Set(Succeeded)
	record()
	want := []ProgressStatus{
		ProgressHidden,
		ProgressStarting,
		ProgressInProgress,
		ProgressCompleted,
		ProgressHidden,
	}
	if len(seen) != len(want) {
		t.Fatalf("want %v, got %v", want, seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("step %d: want %v, got %v", i, want[i], seen[i])
		}
	}
}

func TestProgressClamp(t *testing.T) {
	vm := PhotoBuilder{}.Create(photo).Base()
	for _, tt := range []struct {
		in, want float64
	}{
		{-1, 0},
		{0, 0},
		{0.25, 0.25},
		{1, 1},
		{7, 1},
	} {
		vm.SetProgress(tt.in)
		if got := vm.TransferProgress.Get(); got != tt.want {
			t.Errorf("SetProgress(%v): want %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestBuilderFor(t *testing.T) {
	for _, item := range []message.Item{photo, photoText, videoText} {
		if !BuilderFor(item.Kind()).CanCreate(item) {
			t.Errorf("builder for %v rejected its own kind", item.Kind())
		}
	}
}
