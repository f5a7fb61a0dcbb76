package fetch

import (
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	// Register decoders for the formats chat media arrives in.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// DirSource loads images from files within a directory. Identifiers are file
// names relative to Dir.
type DirSource struct {
	Dir string
}

// Load decodes the named image, reporting progress as the file is read.
func (d DirSource) Load(ctx context.Context, id string, progress func(float64)) (image.Image, error) {
	f, err := os.Open(filepath.Join(d.Dir, filepath.Clean("/"+id)))
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", id, err)
	}
	defer f.Close()
	var size int64
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}
	img, _, err := image.Decode(newProgressReader(ctx, f, size, progress))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", id, err)
	}
	return img, nil
}

// List returns the image files within Dir in name order.
func (d DirSource) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(d.Dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", d.Dir, err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".png", ".jpg", ".jpeg", ".gif":
			ids = append(ids, e.Name())
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// HTTPSource loads images by URL.
type HTTPSource struct {
	// Client performs the requests. Defaults to http.DefaultClient.
	Client *http.Client
}

// Load fetches and decodes the image at the URL id.
func (h HTTPSource) Load(ctx context.Context, id string, progress func(float64)) (image.Image, error) {
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, id, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", id, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: %s", id, resp.Status)
	}
	img, _, err := image.Decode(newProgressReader(ctx, resp.Body, resp.ContentLength, progress))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", id, err)
	}
	return img, nil
}

// progressReader reports the share of total bytes read, and stops reading
// once its context is done.
type progressReader struct {
	ctx      context.Context
	r        io.Reader
	total    int64
	read     int64
	progress func(float64)
}

func newProgressReader(ctx context.Context, r io.Reader, total int64, progress func(float64)) io.Reader {
	return &progressReader{ctx: ctx, r: r, total: total, progress: progress}
}

func (p *progressReader) Read(b []byte) (int, error) {
	if err := p.ctx.Err(); err != nil {
		return 0, err
	}
	n, err := p.r.Read(b)
	p.read += int64(n)
	if n > 0 && p.total > 0 && p.progress != nil {
		p.progress(float64(p.read) / float64(p.total))
	}
	return n, err
}
