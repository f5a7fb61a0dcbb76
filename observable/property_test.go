package observable

import (
	"image"
	"testing"
)

func TestObserveDoesNotFireOnSubscribe(t *testing.T) {
	p := New(1)
	calls := 0
	p.Observe(func(old, new int) { calls++ })
	if calls != 0 {
		t.Fatalf("expected no notification on subscribe, got %d", calls)
	}
}

func TestFanOut(t *testing.T) {
	p := New("a")
	type call struct{ old, new string }
	const n = 5
	got := make([][]call, n)
	for i := 0; i < n; i++ {
		i := i
		p.Observe(func(old, new string) {
			got[i] = append(got[i], call{old, new})
		})
	}
	p.Set("b")
	for i := range got {
		if len(got[i]) != 1 {
			t.Fatalf("observer %d: expected exactly 1 call, got %d", i, len(got[i]))
		}
		if got[i][0] != (call{"a", "b"}) {
			t.Errorf("observer %d: got %+v", i, got[i][0])
		}
	}
}

func TestSetWithoutChangeStillNotifies(t *testing.T) {
	p := New(3)
	calls := 0
	p.Observe(func(old, new int) { calls++ })
	p.Set(3)
	p.Set(3)
	if calls != 2 {
		t.Errorf("expected 2 notifications, got %d", calls)
	}
}

func TestDispose(t *testing.T) {
	p := New(0)
	var a, b int
	sa := p.Observe(func(old, new int) { a++ })
	p.Observe(func(old, new int) { b++ })
	p.Set(1)
	sa.Dispose()
	sa.Dispose()
	p.Set(2)
	if a != 1 || b != 2 {
		t.Errorf("expected a=1 b=2, got a=%d b=%d", a, b)
	}
	if p.Observers() != 1 {
		t.Errorf("expected 1 live observer, got %d", p.Observers())
	}
	if !sa.Disposed() {
		t.Errorf("expected subscription to report disposed")
	}
}

func TestDisposeDuringNotification(t *testing.T) {
	p := New(0)
	var second *Subscription
	calls := 0
	p.Observe(func(old, new int) { second.Dispose() })
	second = p.Observe(func(old, new int) { calls++ })
	p.Set(1)
	if calls != 0 {
		t.Errorf("observer disposed mid fan-out must not fire, got %d calls", calls)
	}
}

func TestObserveDuringNotification(t *testing.T) {
	p := New(0)
	late := 0
	p.Observe(func(old, new int) {
		p.Observe(func(old, new int) { late++ })
	})
	p.Set(1)
	if late != 0 {
		t.Errorf("observer added mid fan-out must wait for the next write")
	}
	p.Set(2)
	if late != 1 {
		t.Errorf("expected late observer to fire once, got %d", late)
	}
}

func TestNilInterfaceValues(t *testing.T) {
	p := New[image.Image](nil)
	var got image.Image
	p.Observe(func(old, new image.Image) {
		if old != nil {
			t.Errorf("expected nil old value")
		}
		got = new
	})
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	p.Set(img)
	if got != img {
		t.Errorf("expected observer to receive the new image")
	}
}

func TestBag(t *testing.T) {
	a, b := New(0), New("")
	calls := 0
	var bag Bag
	bag.Add(
		a.Observe(func(_, _ int) { calls++ }),
		b.Observe(func(_, _ string) { calls++ }),
	)
	if bag.Len() != 2 {
		t.Fatalf("expected 2 subscriptions, got %d", bag.Len())
	}
	bag.Dispose()
	a.Set(1)
	b.Set("x")
	if calls != 0 {
		t.Errorf("expected no calls after bag disposal, got %d", calls)
	}
	if bag.Len() != 0 {
		t.Errorf("expected empty bag")
	}
}
