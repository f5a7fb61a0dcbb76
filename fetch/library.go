package fetch

import (
	"context"
	"fmt"
	"sync"
)

// Lister enumerates the identifiers of a media library.
type Lister interface {
	List(ctx context.Context) ([]string, error)
}

// Library caches the listing of a media library until the library reports
// a change.
type Library struct {
	Lister Lister

	mu      sync.Mutex
	listing []string
	valid   bool
}

func (l *Library) load(ctx context.Context) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.valid {
		return l.listing, nil
	}
	listing, err := l.Lister.List(ctx)
	if err != nil {
		return nil, err
	}
	l.listing, l.valid = listing, true
	return listing, nil
}

// Count returns the number of items in the library.
func (l *Library) Count(ctx context.Context) (int, error) {
	listing, err := l.load(ctx)
	return len(listing), err
}

// At returns the identifier of the item at index.
func (l *Library) At(ctx context.Context, index int) (string, error) {
	listing, err := l.load(ctx)
	if err != nil {
		return "", err
	}
	if index < 0 || index >= len(listing) {
		return "", fmt.Errorf("library index %d out of range [0,%d)", index, len(listing))
	}
	return listing[index], nil
}

// Changed invalidates the cached listing. Call it whenever the library
// reports a change.
func (l *Library) Changed() {
	l.mu.Lock()
	l.valid = false
	l.listing = nil
	l.mu.Unlock()
}
