// Package imagecache tracks per-URL load/decode/failure state for card
// images. The cache is an explicit, injectable service with
// process-wide lifetime: construct once at application start and pass
// it through the feed/card layers.
package imagecache

import (
	"context"
	"image"
	"net/http"
	"sync"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// Entry is the per-URL cache record. States only upgrade
// (unseen -> loaded -> decoded, or -> failed), so concurrent writes are
// last-write-wins without ordering hazards.
type Entry struct {
	Loaded  bool
	Decoded bool
	Failed  bool
}

type Cache struct {
	client *http.Client

	// assumeAfter bounds how long Preload waits before resolving true
	// anyway ("timed out, assume visible").
	assumeAfter time.Duration

	mu       sync.Mutex
	entries  map[string]*Entry
	inflight map[string]*fetch
}

type fetch struct {
	done chan struct{}
	ok   bool
}

const defaultAssumeAfter = 3 * time.Second

func New(client *http.Client, assumeAfter time.Duration) *Cache {
	if client == nil {
		client = http.DefaultClient
	}
	if assumeAfter <= 0 {
		assumeAfter = defaultAssumeAfter
	}
	return &Cache{
		client:      client,
		assumeAfter: assumeAfter,
		entries:     make(map[string]*Entry),
		inflight:    make(map[string]*fetch),
	}
}

// IsReady is the synchronous check used to decide whether the fade-in
// animation can be skipped.
func (c *Cache) IsReady(url string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[url]
	return ok && e.Decoded
}

// Snapshot returns a copy of the cache record for url, if any.
func (c *Cache) Snapshot(url string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[url]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Preload begins loading and decoding url, returning true on success
// or bounded-wait timeout and false on hard failure. Concurrent calls
// for the same URL share a single network fetch and observe the same
// resolved value. Preload never returns an error; failures degrade to
// the caller's fallback image.
func (c *Cache) Preload(ctx context.Context, url string) bool {
	c.mu.Lock()
	if e, ok := c.entries[url]; ok {
		if e.Decoded {
			c.mu.Unlock()
			return true
		}
		if e.Failed {
			c.mu.Unlock()
			return false
		}
	}

	f, running := c.inflight[url]
	if !running {
		f = &fetch{done: make(chan struct{})}
		c.inflight[url] = f
		if _, ok := c.entries[url]; !ok {
			c.entries[url] = &Entry{}
		}
		go c.load(url, f)
	}
	c.mu.Unlock()

	timer := time.NewTimer(c.assumeAfter)
	defer timer.Stop()

	select {
	case <-f.done:
		return f.ok
	case <-timer.C:
		// Still loading after the bounded wait, assume visible.
		return true
	case <-ctx.Done():
		return true
	}
}

// PreloadFirst walks a candidate's ordered image list and returns the
// index of the first image that loads, or -1 when every image failed
// and the generic placeholder should be shown.
func (c *Cache) PreloadFirst(ctx context.Context, urls []string) int {
	for i, url := range urls {
		if url == "" {
			continue
		}
		if c.Preload(ctx, url) {
			return i
		}
	}
	return -1
}

func (c *Cache) load(url string, f *fetch) {
	ok := c.fetchAndDecode(url)

	c.mu.Lock()
	e := c.entries[url]
	if ok {
		e.Decoded = true
	} else {
		e.Failed = true
	}
	delete(c.inflight, url)
	c.mu.Unlock()

	f.ok = ok
	close(f.done)
}

func (c *Cache) fetchAndDecode(url string) bool {
	resp, err := c.client.Get(url)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	c.mu.Lock()
	c.entries[url].Loaded = true
	c.mu.Unlock()

	if _, _, err := image.Decode(resp.Body); err != nil {
		return false
	}
	return true
}
