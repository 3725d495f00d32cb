package feed

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gotest.tools/assert"

	"github.com/swipenest/swipenest/internal/entity"
	listingRepo "github.com/swipenest/swipenest/internal/repository/listing"
	"github.com/swipenest/swipenest/internal/scoring"
	"github.com/swipenest/swipenest/internal/swipequeue"
	"github.com/swipenest/swipenest/pkg/logger"
)

type fakeListingRepo struct {
	page    []entity.Listing
	hasMore bool
	err     error

	lastQuery listingRepo.PageQuery
}

func (r *fakeListingRepo) FetchPage(ctx context.Context, q listingRepo.PageQuery) ([]entity.Listing, bool, error) {
	r.lastQuery = q
	return r.page, r.hasMore, r.err
}

func (r *fakeListingRepo) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	for i := range r.page {
		if r.page[i].ID == id {
			return &r.page[i], nil
		}
	}
	return nil, entity.ErrNotFound
}

type fakeSwipeRepo struct {
	mu       sync.Mutex
	swiped   []string
	shown    []string
	recorded []entity.SwipeDecision
	marked   [][]string
}

func (r *fakeSwipeRepo) RecordSwipe(ctx context.Context, d entity.SwipeDecision) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recorded = append(r.recorded, d)
	return nil
}

func (r *fakeSwipeRepo) GetSwipedTargetIDs(ctx context.Context, userID uint) ([]string, error) {
	return r.swiped, nil
}

func (r *fakeSwipeRepo) GetRecentlyShownIDs(ctx context.Context, userID uint) ([]string, error) {
	return r.shown, nil
}

func (r *fakeSwipeRepo) MarkShown(ctx context.Context, userID uint, targetIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.marked = append(r.marked, targetIDs)
	return nil
}

func (r *fakeSwipeRepo) recordedDecisions() []entity.SwipeDecision {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.SwipeDecision, len(r.recorded))
	copy(out, r.recorded)
	return out
}

type fakePrefsRepo struct {
	prefs *entity.Preferences
	tiers map[uint]entity.Tier
	err   error
}

func (r *fakePrefsRepo) GetPreferences(ctx context.Context, userID uint) (*entity.Preferences, error) {
	return r.prefs, r.err
}

func (r *fakePrefsRepo) SavePreferences(ctx context.Context, prefs *entity.Preferences) error {
	r.prefs = prefs
	return nil
}

func (r *fakePrefsRepo) GetTier(ctx context.Context, userID uint) (entity.Tier, error) {
	if tier, ok := r.tiers[userID]; ok {
		return tier, nil
	}
	return entity.TierFree, nil
}

func newTestFeed(listings *fakeListingRepo, swipes *fakeSwipeRepo, prefs *fakePrefsRepo) IFeedUseCase {
	return New(
		context.Background(),
		listings,
		swipes,
		prefs,
		logger.Nop(),
		swipequeue.Config{MaxAttempts: 3, BaseBackoff: time.Millisecond},
	)
}

func rental(id string, price float64, tier entity.Tier) entity.Listing {
	return entity.Listing{
		ID:          id,
		Title:       "listing " + id,
		Category:    entity.CategoryProperty,
		ListingType: entity.ListingTypeRent,
		Price:       price,
		OwnerTier:   tier,
		Active:      true,
	}
}

func TestAssemblePageBackendFailureReturnsErrorState(t *testing.T) {
	listings := &fakeListingRepo{err: errors.New("connection refused")}
	uc := newTestFeed(listings, &fakeSwipeRepo{}, &fakePrefsRepo{})

	resp := uc.AssemblePage(context.Background(), 1, entity.FeedRequest{})

	assert.Equal(t, resp.State, entity.FeedStateError)
	assert.Assert(t, resp.Retryable)
	assert.Equal(t, len(resp.Candidates), 0)
}

func TestAssemblePageExcludesSwipedTargets(t *testing.T) {
	listings := &fakeListingRepo{
		page: []entity.Listing{rental("a", 1000, entity.TierFree), rental("b", 1100, entity.TierFree)},
	}
	swipes := &fakeSwipeRepo{swiped: []string{"a"}}
	uc := newTestFeed(listings, swipes, &fakePrefsRepo{})

	resp := uc.AssemblePage(context.Background(), 1, entity.FeedRequest{PageSize: 10})

	assert.Equal(t, len(resp.Candidates), 1)
	assert.Equal(t, resp.Candidates[0].ID, "b")
	// NextOffset advances by the raw fetch size, not the filtered size,
	// so the next request does not refetch the excluded row.
	assert.Equal(t, resp.NextOffset, 2)
}

func TestAssemblePageShownExclusionFollowsHideRepeats(t *testing.T) {
	page := []entity.Listing{rental("a", 1000, entity.TierFree), rental("b", 1100, entity.TierFree)}

	// HideRepeats off, recently shown candidates come back.
	listings := &fakeListingRepo{page: page}
	swipes := &fakeSwipeRepo{shown: []string{"a"}}
	uc := newTestFeed(listings, swipes, &fakePrefsRepo{prefs: &entity.Preferences{UserID: 1}})

	resp := uc.AssemblePage(context.Background(), 1, entity.FeedRequest{})
	assert.Equal(t, len(resp.Candidates), 2)

	// HideRepeats on, they are filtered.
	uc = newTestFeed(listings, swipes, &fakePrefsRepo{prefs: &entity.Preferences{UserID: 1, HideRepeats: true}})

	resp = uc.AssemblePage(context.Background(), 1, entity.FeedRequest{})
	assert.Equal(t, len(resp.Candidates), 1)
	assert.Equal(t, resp.Candidates[0].ID, "b")
}

func TestAssemblePageMustHaveAmenitiesFilter(t *testing.T) {
	withParking := rental("a", 1000, entity.TierFree)
	withParking.Amenities = []string{"Parking", "Gym"}
	without := rental("b", 1000, entity.TierFree)
	without.Amenities = []string{"Gym"}

	listings := &fakeListingRepo{page: []entity.Listing{withParking, without}}
	prefs := &fakePrefsRepo{prefs: &entity.Preferences{
		UserID:            1,
		MustHaveAmenities: []string{"parking"},
	}}
	uc := newTestFeed(listings, &fakeSwipeRepo{}, prefs)

	resp := uc.AssemblePage(context.Background(), 1, entity.FeedRequest{})

	assert.Equal(t, len(resp.Candidates), 1)
	assert.Equal(t, resp.Candidates[0].ID, "a")
}

func TestAssemblePageFallsBackWhenNothingScores(t *testing.T) {
	sale := rental("a", 1000, entity.TierFree)
	sale.ListingType = entity.ListingTypeSale
	sale2 := rental("b", 1200, entity.TierFree)
	sale2.ListingType = entity.ListingTypeSale

	listings := &fakeListingRepo{page: []entity.Listing{sale, sale2}}
	prefs := &fakePrefsRepo{prefs: &entity.Preferences{
		UserID:                1,
		PreferredListingTypes: []entity.ListingType{entity.ListingTypeRent},
	}}
	uc := newTestFeed(listings, &fakeSwipeRepo{}, prefs)

	resp := uc.AssemblePage(context.Background(), 1, entity.FeedRequest{})

	assert.Equal(t, resp.State, entity.FeedStateReady)
	assert.Equal(t, len(resp.Candidates), 2)
	for _, c := range resp.Candidates {
		assert.Equal(t, c.MatchPercentage, scoring.FallbackScore)
	}
}

func TestAssemblePageOrdersByTierThenScore(t *testing.T) {
	// "cheap" matches the budget, "spendy" does not; "boosted" also
	// matches but its owner is premium_plus.
	cheap := rental("cheap", 1500, entity.TierFree)
	spendy := rental("spendy", 9000, entity.TierFree)
	boosted := rental("boosted", 1500, entity.TierPremiumPlus)

	listings := &fakeListingRepo{page: []entity.Listing{spendy, cheap, boosted}}
	min, max := 1000.0, 2000.0
	prefs := &fakePrefsRepo{prefs: &entity.Preferences{
		UserID:   1,
		MinPrice: &min,
		MaxPrice: &max,
	}}
	uc := newTestFeed(listings, &fakeSwipeRepo{}, prefs)

	resp := uc.AssemblePage(context.Background(), 1, entity.FeedRequest{})

	assert.Equal(t, len(resp.Candidates), 3)
	assert.Equal(t, resp.Candidates[0].ID, "boosted")
	assert.Equal(t, resp.Candidates[1].ID, "cheap")
	assert.Equal(t, resp.Candidates[2].ID, "spendy")
	assert.Assert(t, resp.Candidates[1].MatchPercentage > resp.Candidates[2].MatchPercentage)
}

func TestAssemblePageResolvesProfileOwnerTier(t *testing.T) {
	profile := entity.Listing{
		ID:       "tenant-1",
		OwnerID:  7,
		Title:    "tenant profile",
		Category: entity.CategoryClientProfile,
		Active:   true,
	}
	listing := rental("a", 1000, entity.TierFree)

	listings := &fakeListingRepo{page: []entity.Listing{listing, profile}}
	prefs := &fakePrefsRepo{tiers: map[uint]entity.Tier{7: entity.TierPremium}}
	uc := newTestFeed(listings, &fakeSwipeRepo{}, prefs)

	resp := uc.AssemblePage(context.Background(), 1, entity.FeedRequest{})

	assert.Equal(t, len(resp.Candidates), 2)
	// The premium tenant profile outranks the free-tier listing.
	assert.Equal(t, resp.Candidates[0].ID, "tenant-1")
	assert.Equal(t, resp.Candidates[0].OwnerTier, entity.TierPremium)
}

func TestAssemblePageNilPreferencesScoresNeutral(t *testing.T) {
	listings := &fakeListingRepo{page: []entity.Listing{rental("a", 1000, entity.TierFree)}}
	uc := newTestFeed(listings, &fakeSwipeRepo{}, &fakePrefsRepo{})

	resp := uc.AssemblePage(context.Background(), 1, entity.FeedRequest{})

	assert.Equal(t, len(resp.Candidates), 1)
	assert.Equal(t, resp.Candidates[0].MatchPercentage, scoring.NeutralScore)
}

func TestAssemblePageMarksCandidatesShown(t *testing.T) {
	listings := &fakeListingRepo{page: []entity.Listing{rental("a", 1000, entity.TierFree), rental("b", 1100, entity.TierFree)}}
	swipes := &fakeSwipeRepo{}
	uc := newTestFeed(listings, swipes, &fakePrefsRepo{})

	uc.AssemblePage(context.Background(), 1, entity.FeedRequest{})

	assert.Equal(t, len(swipes.marked), 1)
	assert.Equal(t, len(swipes.marked[0]), 2)
}

func TestAssemblePageEmptyAndEndOfFeedStates(t *testing.T) {
	// No rows left anywhere: end of feed.
	uc := newTestFeed(&fakeListingRepo{hasMore: false}, &fakeSwipeRepo{}, &fakePrefsRepo{})
	resp := uc.AssemblePage(context.Background(), 1, entity.FeedRequest{})
	assert.Equal(t, resp.State, entity.FeedStateEndOfFeed)

	// This page filtered down to nothing but more rows exist: empty,
	// the caller should fetch the next page.
	listings := &fakeListingRepo{
		page:    []entity.Listing{rental("a", 1000, entity.TierFree)},
		hasMore: true,
	}
	uc = newTestFeed(listings, &fakeSwipeRepo{swiped: []string{"a"}}, &fakePrefsRepo{})
	resp = uc.AssemblePage(context.Background(), 1, entity.FeedRequest{})
	assert.Equal(t, resp.State, entity.FeedStateEmpty)
	assert.Assert(t, resp.HasMore)
}

func TestSwipeIsRecordedThroughQueue(t *testing.T) {
	swipes := &fakeSwipeRepo{}
	uc := newTestFeed(&fakeListingRepo{}, swipes, &fakePrefsRepo{})

	uc.Swipe(1, "a", entity.TargetListing, entity.DirectionRight)
	uc.Swipe(1, "b", entity.TargetListing, entity.DirectionLeft)
	uc.FlushQueues()

	recorded := swipes.recordedDecisions()
	assert.Equal(t, len(recorded), 2)
	assert.Equal(t, recorded[0].TargetID, "a")
	assert.Equal(t, recorded[0].Direction, entity.DirectionRight)
	assert.Equal(t, recorded[1].TargetID, "b")
	assert.Equal(t, recorded[1].Direction, entity.DirectionLeft)
	assert.Equal(t, recorded[0].UserID, uint(1))
}

func TestSwipeQueuesArePerUser(t *testing.T) {
	swipes := &fakeSwipeRepo{}
	uc := newTestFeed(&fakeListingRepo{}, swipes, &fakePrefsRepo{})

	uc.Swipe(1, "a", entity.TargetListing, entity.DirectionRight)
	uc.Swipe(2, "a", entity.TargetListing, entity.DirectionLeft)
	uc.FlushQueues()

	recorded := swipes.recordedDecisions()
	assert.Equal(t, len(recorded), 2)
	users := map[uint]entity.Direction{}
	for _, d := range recorded {
		users[d.UserID] = d.Direction
	}
	assert.Equal(t, users[1], entity.DirectionRight)
	assert.Equal(t, users[2], entity.DirectionLeft)
}
