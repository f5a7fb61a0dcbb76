package fetch

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"git.sr.ht/~gioverse/chatitems/dispatch"
	"git.sr.ht/~gioverse/chatitems/message"
	"git.sr.ht/~gioverse/chatitems/viewmodel"
)

func solid(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return img
}

// drainUntil drains the queue until cond holds or the deadline passes.
func drainUntil(t *testing.T, q *dispatch.Queue, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for condition")
		}
		q.Drain()
		time.Sleep(time.Millisecond)
	}
}

func TestLoaderSuccess(t *testing.T) {
	q := &dispatch.Queue{}
	want := solid(4, 4)
	l := &Loader{
		Queue: q,
		Source: SourceFunc(func(ctx context.Context, id string, progress func(float64)) (image.Image, error) {
			progress(0.5)
			return want, nil
		}),
	}
	var (
		progress []float64
		result   *Result
	)
	r := l.Request("a", func(p float64) {
		progress = append(progress, p)
	}, func(res Result) {
		result = &res
	})
	drainUntil(t, q, func() bool { return result != nil })
	if result.Err != nil || result.Image != want || result.ID != "a" {
		t.Errorf("unexpected result %+v", result)
	}
	if len(progress) != 1 || progress[0] != 0.5 {
		t.Errorf("unexpected progress %v", progress)
	}
	if r.State() != Loaded {
		t.Errorf("expected loaded state, got %v", r.State())
	}
	drainUntil(t, q, func() bool { return l.Stats().InFlight == 0 })
}

func TestLoaderError(t *testing.T) {
	q := &dispatch.Queue{}
	boom := errors.New("boom")
	l := &Loader{
		Queue: q,
		Source: SourceFunc(func(ctx context.Context, id string, progress func(float64)) (image.Image, error) {
			return nil, boom
		}),
	}
	var result *Result
	l.Request("a", nil, func(res Result) { result = &res })
	drainUntil(t, q, func() bool { return result != nil })
	if !errors.Is(result.Err, boom) {
		t.Errorf("expected source error, got %v", result.Err)
	}
}

func TestCancelInFlight(t *testing.T) {
	q := &dispatch.Queue{}
	started := make(chan struct{})
	l := &Loader{
		Queue: q,
		Source: SourceFunc(func(ctx context.Context, id string, progress func(float64)) (image.Image, error) {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		}),
	}
	called := false
	r := l.Request("a", func(float64) { called = true }, func(Result) { called = true })
	<-started
	r.Cancel()
	r.Cancel()
	drainUntil(t, q, func() bool { return l.Stats().InFlight == 0 })
	q.Drain()
	if called {
		t.Errorf("cancelled request must not invoke callbacks")
	}
	if r.State() != Cancelled {
		t.Errorf("expected cancelled state, got %v", r.State())
	}
}

func TestCancelAfterCompletionPosted(t *testing.T) {
	q := &dispatch.Queue{}
	l := &Loader{
		Queue: q,
		Source: SourceFunc(func(ctx context.Context, id string, progress func(float64)) (image.Image, error) {
			return solid(1, 1), nil
		}),
	}
	called := false
	r := l.Request("a", nil, func(Result) { called = true })
	deadline := time.Now().Add(2 * time.Second)
	for q.Len() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("completion was never posted")
		}
		time.Sleep(time.Millisecond)
	}
	r.Cancel()
	q.Drain()
	if called {
		t.Errorf("completion must be suppressed once cancelled")
	}
}

func TestCancelAfterLoadedIsNoop(t *testing.T) {
	q := &dispatch.Queue{}
	l := &Loader{
		Queue: q,
		Source: SourceFunc(func(ctx context.Context, id string, progress func(float64)) (image.Image, error) {
			return solid(1, 1), nil
		}),
	}
	done := false
	r := l.Request("a", nil, func(Result) { done = true })
	drainUntil(t, q, func() bool { return done })
	r.Cancel()
	if r.State() != Loaded {
		t.Errorf("cancelling a loaded request must not change its state")
	}
}

func TestLoaderScales(t *testing.T) {
	q := &dispatch.Queue{}
	l := &Loader{
		Queue:   q,
		MaxSide: 10,
		Source: SourceFunc(func(ctx context.Context, id string, progress func(float64)) (image.Image, error) {
			return solid(100, 50), nil
		}),
	}
	var got image.Image
	l.Request("a", nil, func(r Result) { got = r.Image })
	drainUntil(t, q, func() bool { return got != nil })
	if got.Bounds().Size() != image.Pt(10, 5) {
		t.Errorf("expected scaled image, got %v", got.Bounds())
	}
}

func TestScale(t *testing.T) {
	small := solid(5, 5)
	if Scale(small, 10) != image.Image(small) {
		t.Errorf("images that fit must be returned unchanged")
	}
	if got := Scale(solid(20, 40), 10).Bounds().Size(); got != image.Pt(5, 10) {
		t.Errorf("unexpected scaled size %v", got)
	}
}

func TestBind(t *testing.T) {
	q := &dispatch.Queue{}
	want := solid(2, 2)
	release := make(chan struct{})
	l := &Loader{
		Queue: q,
		Source: SourceFunc(func(ctx context.Context, id string, progress func(float64)) (image.Image, error) {
			<-release
			return want, nil
		}),
	}
	vm := viewmodel.PhotoBuilder{}.Create(message.Photo{}).Base()
	var statuses []viewmodel.TransferStatus
	vm.TransferStatus.Observe(func(_, s viewmodel.TransferStatus) {
		statuses = append(statuses, s)
	})
	Bind(l, vm, "a", viewmodel.Download)
	if vm.TransferStatus.Get() != viewmodel.Transferring {
		t.Fatalf("expected transferring status once bound")
	}
	close(release)
	drainUntil(t, q, func() bool { return vm.TransferStatus.Get() == viewmodel.Succeeded })
	if vm.Image.Get() != image.Image(want) {
		t.Errorf("expected loaded image on the view-model")
	}
	if vm.TransferProgress.Get() != 1 {
		t.Errorf("expected complete progress, got %v", vm.TransferProgress.Get())
	}
	if len(statuses) != 2 || statuses[0] != viewmodel.Transferring || statuses[1] != viewmodel.Succeeded {
		t.Errorf("unexpected status sequence %v", statuses)
	}
}

func TestBindFailure(t *testing.T) {
	q := &dispatch.Queue{}
	l := &Loader{
		Queue: q,
		Source: SourceFunc(func(ctx context.Context, id string, progress func(float64)) (image.Image, error) {
			return nil, errors.New("offline")
		}),
	}
	vm := viewmodel.PhotoTextBuilder{}.Create(message.PhotoText{}).Base()
	Bind(l, vm, "a", viewmodel.Upload)
	drainUntil(t, q, func() bool { return vm.TransferStatus.Get() == viewmodel.Failed })
	if !vm.IsShowingFailedIcon() {
		t.Errorf("failed load must show the failed icon")
	}
	if vm.TransferDirection.Get() != viewmodel.Upload {
		t.Errorf("expected upload direction")
	}
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "b.png"), solid(3, 2))
	writePNG(t, filepath.Join(dir, "a.png"), solid(1, 1))
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	src := DirSource{Dir: dir}
	ids, err := src.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 || ids[0] != "a.png" || ids[1] != "b.png" {
		t.Fatalf("unexpected listing %v", ids)
	}
	var last float64
	img, err := src.Load(context.Background(), "b.png", func(p float64) { last = p })
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Size() != image.Pt(3, 2) {
		t.Errorf("unexpected image size %v", img.Bounds())
	}
	if last != 1 {
		t.Errorf("expected progress to reach 1, got %v", last)
	}
	if _, err := src.Load(context.Background(), "missing.png", nil); err == nil {
		t.Errorf("expected error for missing file")
	}
}

type countingLister struct {
	sync.Mutex
	calls int
	ids   []string
}

func (c *countingLister) List(ctx context.Context) ([]string, error) {
	c.Lock()
	defer c.Unlock()
	c.calls++
	return c.ids, nil
}

func TestLibrary(t *testing.T) {
	lister := &countingLister{ids: []string{"x", "y"}}
	lib := &Library{Lister: lister}
	ctx := context.Background()
	if n, _ := lib.Count(ctx); n != 2 {
		t.Fatalf("expected 2 items, got %d", n)
	}
	if id, _ := lib.At(ctx, 1); id != "y" {
		t.Errorf("unexpected id %q", id)
	}
	if lister.calls != 1 {
		t.Errorf("listing must be cached, got %d calls", lister.calls)
	}
	lister.ids = []string{"z"}
	lib.Changed()
	if n, _ := lib.Count(ctx); n != 1 {
		t.Errorf("expected refreshed listing after change, got %d", n)
	}
	if lister.calls != 2 {
		t.Errorf("expected relisting after change, got %d calls", lister.calls)
	}
	if _, err := lib.At(ctx, 5); err == nil {
		t.Errorf("expected out of range error")
	}
}

func TestHTTPSource(t *testing.T) {
	var body bytes.Buffer
	img := image.NewNRGBA(image.Rect(0, 0, 2, 3))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	if err := png.Encode(&body, img); err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ok.png" {
			http.NotFound(w, r)
			return
		}
		w.Write(body.Bytes())
	}))
	defer srv.Close()
	got, err := HTTPSource{}.Load(context.Background(), srv.URL+"/ok.png", nil)
	if err != nil {
		t.Fatal(err)
	}
	if got.Bounds().Size() != image.Pt(2, 3) {
		t.Errorf("unexpected size %v", got.Bounds())
	}
	if _, err := (HTTPSource{}).Load(context.Background(), srv.URL+"/missing", nil); err == nil {
		t.Errorf("expected error for missing resource")
	}
}

func TestDynamicWorkerPool(t *testing.T) {
	p := &DynamicWorkerPool{Workers: 2}
	var wg sync.WaitGroup
	var mu sync.Mutex
	ran := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		p.Schedule(func() {
			defer wg.Done()
			mu.Lock()
			ran++
			mu.Unlock()
		})
	}
	wg.Wait()
	if ran != 10 {
		t.Errorf("expected all work to run, got %d", ran)
	}
}

func TestFixedWorkerPool(t *testing.T) {
	p := &FixedWorkerPool{Workers: 3}
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ran int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		p.Schedule(func() {
			defer wg.Done()
			mu.Lock()
			ran++
			mu.Unlock()
		})
	}
	wg.Wait()
	if ran != 10 {
		t.Errorf("expected all work to run, got %d", ran)
	}
	p.Close()
	p.Close()
	done := make(chan struct{})
	go func() {
		p.Schedule(func() { t.Errorf("work scheduled after close must not run") })
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("scheduling on a closed pool must not block")
	}
}

func TestLoaderClose(t *testing.T) {
	q := &dispatch.Queue{}
	started := make(chan struct{})
	l := &Loader{
		Queue:     q,
		Scheduler: &FixedWorkerPool{Workers: 1},
		Source: SourceFunc(func(ctx context.Context, id string, progress func(float64)) (image.Image, error) {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		}),
	}
	called := false
	r := l.Request("a", nil, func(Result) { called = true })
	<-started
	l.Close()
	drainUntil(t, q, func() bool { return l.Stats().InFlight == 0 })
	q.Drain()
	if called || r.State() != Cancelled {
		t.Errorf("closing must cancel requests in flight, got %v", r.State())
	}
	late := l.Request("b", nil, func(Result) { called = true })
	if late.State() != Cancelled {
		t.Errorf("requests after close must be cancelled, got %v", late.State())
	}
}
