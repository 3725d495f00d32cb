package feed

import (
	"context"
	"strings"
	"sync"

	"github.com/swipenest/swipenest/internal/entity"
	listingRepo "github.com/swipenest/swipenest/internal/repository/listing"
	prefsRepo "github.com/swipenest/swipenest/internal/repository/prefs"
	swipeRepo "github.com/swipenest/swipenest/internal/repository/swipe"
	"github.com/swipenest/swipenest/internal/scoring"
	"github.com/swipenest/swipenest/internal/swipequeue"
	"github.com/swipenest/swipenest/pkg/logger"
)

type IFeedUseCase interface {
	// AssemblePage fetches, filters, scores and orders one feed page.
	// Backend failures come back as a typed error state, never as a
	// raw error reaching the rendering layer.
	AssemblePage(ctx context.Context, userID uint, req entity.FeedRequest) *entity.FeedResponse

	// Swipe enqueues a decision for persistence and returns
	// immediately; the caller's card stack has already advanced.
	Swipe(userID uint, targetID string, targetType entity.TargetType, direction entity.Direction)

	// FlushQueues drains every user's swipe queue. Shutdown/test hook.
	FlushQueues()
}

type feedUseCase struct {
	listingRepo listingRepo.IListingRepo
	swipeRepo   swipeRepo.ISwipeRepo
	prefsRepo   prefsRepo.IPrefsRepo
	log         *logger.Logger

	queueCtx context.Context
	queueCfg swipequeue.Config
	qmu      sync.Mutex
	queues   map[uint]*swipequeue.Queue
}

func New(
	ctx context.Context,
	listings listingRepo.IListingRepo,
	swipes swipeRepo.ISwipeRepo,
	prefs prefsRepo.IPrefsRepo,
	log *logger.Logger,
	queueCfg swipequeue.Config,
) IFeedUseCase {
	return &feedUseCase{
		listingRepo: listings,
		swipeRepo:   swipes,
		prefsRepo:   prefs,
		log:         log.With("component", "feed"),
		queueCtx:    ctx,
		queueCfg:    queueCfg,
		queues:      make(map[uint]*swipequeue.Queue),
	}
}

func (f *feedUseCase) AssemblePage(ctx context.Context, userID uint, req entity.FeedRequest) *entity.FeedResponse {
	prefs, err := f.prefsRepo.GetPreferences(ctx, userID)
	if err != nil {
		// Missing scoring input is recoverable: candidates get the
		// fallback score instead of an empty feed.
		f.log.Warn("preferences fetch failed, scoring neutrally", "user_id", userID, "error", err)
		prefs = nil
	}

	exclude, err := f.exclusionSet(ctx, userID, prefs)
	if err != nil {
		f.log.Warn("exclusion set fetch failed, showing repeats", "user_id", userID, "error", err)
	}

	page, hasMore, err := f.listingRepo.FetchPage(ctx, pageQuery(req))
	if err != nil {
		f.log.Error("feed page fetch failed", "user_id", userID, "error", err)
		return &entity.FeedResponse{
			State:     entity.FeedStateError,
			Retryable: true,
		}
	}
	fetched := len(page)

	candidates := make([]entity.Listing, 0, len(page))
	for _, l := range page {
		if _, skip := exclude[l.ID]; skip {
			continue
		}
		if prefs != nil && !hasMustHaveAmenities(prefs.MustHaveAmenities, l.Amenities) {
			continue
		}
		candidates = append(candidates, l)
	}

	// Profile candidates carry no denormalized owner tier; resolve it so
	// boosting and ordering treat them like listings.
	for i := range candidates {
		if candidates[i].Category == entity.CategoryClientProfile && candidates[i].OwnerTier == "" {
			tier, err := f.prefsRepo.GetTier(ctx, candidates[i].OwnerID)
			if err != nil {
				tier = entity.TierFree
			}
			candidates[i].OwnerTier = tier
		}
	}

	scored := scorePage(prefs, candidates)
	scoring.SortCandidates(scored)

	shown := make([]string, len(scored))
	for i, s := range scored {
		shown[i] = s.ID
	}
	if err := f.swipeRepo.MarkShown(ctx, userID, shown); err != nil {
		f.log.Warn("mark shown failed", "user_id", userID, "error", err)
	}

	state := entity.FeedStateReady
	if len(scored) == 0 {
		state = entity.FeedStateEmpty
		if !hasMore {
			state = entity.FeedStateEndOfFeed
		}
	}

	return &entity.FeedResponse{
		State:      state,
		Candidates: scored,
		NextOffset: req.PageOffset + fetched,
		HasMore:    hasMore,
	}
}

func (f *feedUseCase) Swipe(userID uint, targetID string, targetType entity.TargetType, direction entity.Direction) {
	f.queueFor(userID).Enqueue(targetID, targetType, direction)
}

func (f *feedUseCase) FlushQueues() {
	f.qmu.Lock()
	queues := make([]*swipequeue.Queue, 0, len(f.queues))
	for _, q := range f.queues {
		queues = append(queues, q)
	}
	f.qmu.Unlock()

	for _, q := range queues {
		q.Flush()
	}
}

func (f *feedUseCase) queueFor(userID uint) *swipequeue.Queue {
	f.qmu.Lock()
	defer f.qmu.Unlock()

	q, ok := f.queues[userID]
	if !ok {
		q = swipequeue.New(f.swipeRepo, f.log, userID, f.queueCfg)
		q.Start(f.queueCtx)
		f.queues[userID] = q
	}
	return q
}

func (f *feedUseCase) exclusionSet(ctx context.Context, userID uint, prefs *entity.Preferences) (map[string]struct{}, error) {
	exclude := make(map[string]struct{})

	swiped, err := f.swipeRepo.GetSwipedTargetIDs(ctx, userID)
	if err != nil {
		return exclude, err
	}
	for _, id := range swiped {
		exclude[id] = struct{}{}
	}

	if prefs == nil || !prefs.HideRepeats {
		return exclude, nil
	}

	shown, err := f.swipeRepo.GetRecentlyShownIDs(ctx, userID)
	if err != nil {
		return exclude, err
	}
	for _, id := range shown {
		exclude[id] = struct{}{}
	}
	return exclude, nil
}

// scorePage scores and annotates candidates. When scoring disqualifies
// everything but unscored candidates exist, it falls back to returning
// them with the low "show something" default instead of an empty feed.
func scorePage(prefs *entity.Preferences, candidates []entity.Listing) []entity.ScoredListing {
	scored := make([]entity.ScoredListing, 0, len(candidates))
	eligible := 0

	for _, l := range candidates {
		criteria := scoring.ListingCriteria()
		if l.Category == entity.CategoryClientProfile {
			criteria = scoring.ProfileCriteria()
		}
		score := scoring.Score(prefs, &l, criteria)
		if score.Percentage > 0 {
			eligible++
		}
		scored = append(scored, entity.ScoredListing{
			Listing:             l,
			MatchPercentage:     score.Percentage,
			MatchReasons:        score.Reasons,
			IncompatibleReasons: score.Incompatible,
		})
	}

	if eligible > 0 || len(scored) == 0 {
		return scored
	}

	fallback := make([]entity.ScoredListing, len(candidates))
	for i, l := range candidates {
		fallback[i] = entity.ScoredListing{
			Listing:         l,
			MatchPercentage: scoring.FallbackScore,
		}
	}
	return fallback
}

func pageQuery(req entity.FeedRequest) listingRepo.PageQuery {
	return listingRepo.PageQuery{
		Category:    entity.Category(req.Category),
		ListingType: entity.ListingType(req.ListingType),
		MinPrice:    req.MinPrice,
		MaxPrice:    req.MaxPrice,
		PetsAllowed: req.PetsAllowed,
		Furnished:   req.Furnished,
		Offset:      req.PageOffset,
		Limit:       req.PageSize,
	}
}

func hasMustHaveAmenities(required, have []string) bool {
	if len(required) == 0 {
		return true
	}
	set := make(map[string]struct{}, len(have))
	for _, a := range have {
		set[strings.ToLower(strings.TrimSpace(a))] = struct{}{}
	}
	for _, req := range required {
		req = strings.ToLower(strings.TrimSpace(req))
		if req == "" {
			continue
		}
		if _, ok := set[req]; !ok {
			return false
		}
	}
	return true
}
