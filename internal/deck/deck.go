// Package deck holds the ordered stack of candidates a session swipes
// through. Advancement is optimistic: a swiped card is gone locally the
// moment the decision lands, regardless of backend confirmation.
package deck

import (
	"sync"

	"github.com/swipenest/swipenest/internal/entity"
)

type Deck struct {
	mu sync.Mutex

	items   []entity.ScoredListing
	decided map[string]struct{}
	seenIDs map[string]struct{}

	hasMore bool
	state   entity.FeedState

	// buffer is the remaining-card count below which NeedsMore starts
	// asking for the next page.
	buffer int

	onSwipe func(id string, direction entity.Direction)
}

func New(buffer int, onSwipe func(id string, direction entity.Direction)) *Deck {
	return &Deck{
		decided: make(map[string]struct{}),
		seenIDs: make(map[string]struct{}),
		hasMore: true,
		state:   entity.FeedStateLoading,
		buffer:  buffer,
		onSwipe: onSwipe,
	}
}

// Append merges a fetched page into the stack, deduplicating by id
// across pages. hasMore reports whether the source has further pages.
func (d *Deck) Append(page []entity.ScoredListing, hasMore bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, item := range page {
		if _, dup := d.seenIDs[item.ID]; dup {
			continue
		}
		d.seenIDs[item.ID] = struct{}{}
		d.items = append(d.items, item)
	}
	d.hasMore = hasMore
	d.refreshState()
}

// Top returns the current top-of-stack card. Only this card should be
// draggable; cards beneath are inert.
func (d *Deck) Top() (entity.ScoredListing, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, item := range d.items {
		if _, done := d.decided[item.ID]; !done {
			return item, true
		}
	}
	return entity.ScoredListing{}, false
}

// Peek returns up to n undecided cards from the top, for rendering the
// scaled-down cards beneath the active one.
func (d *Deck) Peek(n int) []entity.ScoredListing {
	d.mu.Lock()
	defer d.mu.Unlock()

	var out []entity.ScoredListing
	for _, item := range d.items {
		if len(out) == n {
			break
		}
		if _, done := d.decided[item.ID]; !done {
			out = append(out, item)
		}
	}
	return out
}

// Swipe marks the card decided locally and notifies the listener. A
// re-render never reshows a just-swiped card, independent of backend
// confirmation latency.
func (d *Deck) Swipe(id string, direction entity.Direction) bool {
	d.mu.Lock()
	if _, done := d.decided[id]; done {
		d.mu.Unlock()
		return false
	}
	if _, known := d.seenIDs[id]; !known {
		d.mu.Unlock()
		return false
	}
	d.decided[id] = struct{}{}
	d.refreshState()
	onSwipe := d.onSwipe
	d.mu.Unlock()

	if onSwipe != nil {
		onSwipe(id, direction)
	}
	return true
}

// NeedsMore reports whether the next page should be requested.
func (d *Deck) NeedsMore() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hasMore && d.remaining() < d.buffer
}

func (d *Deck) Remaining() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.remaining()
}

func (d *Deck) State() entity.FeedState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// SetError flags a failed page fetch. The deck keeps whatever cards it
// already has; the UI offers a retry action.
func (d *Deck) SetError() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = entity.FeedStateError
}

func (d *Deck) SetLoading() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = entity.FeedStateLoading
}

func (d *Deck) remaining() int {
	return len(d.items) - len(d.decided)
}

// refreshState distinguishes "end of feed" (nothing left, no further
// pages) from "loading" and "error" so the UI can offer a refresh.
func (d *Deck) refreshState() {
	if d.remaining() > 0 {
		d.state = entity.FeedStateReady
		return
	}
	if d.hasMore {
		d.state = entity.FeedStateLoading
		return
	}
	d.state = entity.FeedStateEndOfFeed
}
