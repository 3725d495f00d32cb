package deck

import (
	"fmt"
	"testing"

	"github.com/swipenest/swipenest/internal/entity"
	"gotest.tools/assert"
)

func page(ids ...string) []entity.ScoredListing {
	out := make([]entity.ScoredListing, len(ids))
	for i, id := range ids {
		out[i] = entity.ScoredListing{Listing: entity.Listing{ID: id}}
	}
	return out
}

func TestTopAdvancesOnSwipe(t *testing.T) {
	var swiped []string
	d := New(3, func(id string, _ entity.Direction) { swiped = append(swiped, id) })

	d.Append(page("a", "b", "c"), false)

	top, ok := d.Top()
	assert.Assert(t, ok)
	assert.Equal(t, top.ID, "a")

	assert.Assert(t, d.Swipe("a", entity.DirectionRight))

	top, ok = d.Top()
	assert.Assert(t, ok)
	assert.Equal(t, top.ID, "b")
	assert.DeepEqual(t, swiped, []string{"a"})
}

func TestSwipedCardNeverReshown(t *testing.T) {
	d := New(3, nil)
	d.Append(page("a", "b"), true)

	assert.Assert(t, d.Swipe("a", entity.DirectionLeft))

	// A later page may still contain the swiped id; it must not come
	// back.
	d.Append(page("a", "c"), false)

	seen := map[string]bool{}
	for {
		top, ok := d.Top()
		if !ok {
			break
		}
		seen[top.ID] = true
		d.Swipe(top.ID, entity.DirectionLeft)
	}
	assert.Assert(t, !seen["a"])
	assert.Assert(t, seen["b"] && seen["c"])
}

func TestDuplicateSwipeIgnored(t *testing.T) {
	count := 0
	d := New(3, func(string, entity.Direction) { count++ })
	d.Append(page("a"), false)

	assert.Assert(t, d.Swipe("a", entity.DirectionRight))
	assert.Assert(t, !d.Swipe("a", entity.DirectionLeft))
	assert.Equal(t, count, 1)
}

func TestUnknownIDIgnored(t *testing.T) {
	d := New(3, nil)
	d.Append(page("a"), false)

	assert.Assert(t, !d.Swipe("ghost", entity.DirectionRight))
}

func TestDedupeAcrossPages(t *testing.T) {
	d := New(3, nil)
	d.Append(page("a", "b"), true)
	d.Append(page("b", "c"), false)

	assert.Equal(t, d.Remaining(), 3)
}

func TestNeedsMoreBelowBuffer(t *testing.T) {
	d := New(3, nil)
	d.Append(page("a", "b", "c", "d"), true)

	assert.Assert(t, !d.NeedsMore())

	d.Swipe("a", entity.DirectionLeft)
	d.Swipe("b", entity.DirectionLeft)
	assert.Assert(t, d.NeedsMore())
}

func TestNeedsMoreFalseWhenExhaustedSource(t *testing.T) {
	d := New(3, nil)
	d.Append(page("a"), false)

	assert.Assert(t, !d.NeedsMore())
}

func TestEndOfFeedDistinctFromLoading(t *testing.T) {
	d := New(2, nil)
	assert.Equal(t, d.State(), entity.FeedStateLoading)

	d.Append(page("a"), true)
	assert.Equal(t, d.State(), entity.FeedStateReady)

	d.Swipe("a", entity.DirectionRight)
	// More pages exist: empty stack means loading, not end of feed.
	assert.Equal(t, d.State(), entity.FeedStateLoading)

	d.Append(page("b"), false)
	d.Swipe("b", entity.DirectionRight)
	assert.Equal(t, d.State(), entity.FeedStateEndOfFeed)
}

func TestErrorStateKeepsCards(t *testing.T) {
	d := New(2, nil)
	d.Append(page("a"), true)

	d.SetError()
	assert.Equal(t, d.State(), entity.FeedStateError)

	top, ok := d.Top()
	assert.Assert(t, ok)
	assert.Equal(t, top.ID, "a")
}

func TestPeekReturnsUndecidedPrefix(t *testing.T) {
	d := New(2, nil)
	d.Append(page("a", "b", "c", "d"), false)
	d.Swipe("a", entity.DirectionLeft)

	peeked := d.Peek(2)
	assert.Equal(t, len(peeked), 2)
	assert.Equal(t, peeked[0].ID, "b")
	assert.Equal(t, peeked[1].ID, "c")
}

func TestLargeDeckOrderPreserved(t *testing.T) {
	d := New(5, nil)

	var ids []string
	for i := 0; i < 50; i++ {
		ids = append(ids, fmt.Sprintf("listing-%02d", i))
	}
	d.Append(page(ids...), false)

	for _, want := range ids {
		top, ok := d.Top()
		assert.Assert(t, ok)
		assert.Equal(t, top.ID, want)
		d.Swipe(want, entity.DirectionRight)
	}
	assert.Equal(t, d.State(), entity.FeedStateEndOfFeed)
}
