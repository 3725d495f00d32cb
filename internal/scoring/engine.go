package scoring

import (
	"math"
	"sort"

	"github.com/swipenest/swipenest/internal/entity"
)

const (
	// NeutralScore is used when no criterion could be evaluated at all.
	NeutralScore = 50

	// FallbackScore is the lower "show something anyway" default the
	// feed layer attaches when scoring preferences are missing.
	FallbackScore = 20

	maxBoostPoints = 20
)

// Criterion is one weighted compatibility check. The listing scorer and
// the client-profile scorer are two configurations of the same engine,
// see ListingCriteria and ProfileCriteria.
type Criterion struct {
	Name   string
	Weight float64

	// Hard criteria short-circuit the whole score to 0 when violated.
	Hard bool

	// Evaluate reports whether the criterion is applicable (required
	// input present on both sides) and, if so, whether it matched.
	// Non-applicable criteria are skipped entirely: zero weight in
	// both numerator and denominator.
	Evaluate func(p *entity.Preferences, l *entity.Listing) (applicable, matched bool)

	Reason             string
	IncompatibleReason string
}

// Score computes the weighted compatibility between a user's stored
// preferences and a candidate. The percentage is a weighted average
// over only the criteria that were actually evaluated.
func Score(p *entity.Preferences, l *entity.Listing, criteria []Criterion) entity.MatchScore {
	var (
		totalWeight   float64
		matchedWeight float64
		reasons       []string
		incompatible  []string
	)

	// Missing preferences mean no criterion is applicable; the neutral
	// score still goes through the tier boost like any other.
	if p != nil {
		for _, c := range criteria {
			if c.Weight <= 0 {
				continue
			}

			applicable, matched := c.Evaluate(p, l)
			if !applicable {
				continue
			}

			if c.Hard && !matched {
				return entity.MatchScore{
					Percentage:   0,
					Incompatible: []string{c.IncompatibleReason},
				}
			}

			totalWeight += c.Weight
			if matched {
				matchedWeight += c.Weight
				reasons = append(reasons, c.Reason)
			} else {
				incompatible = append(incompatible, c.IncompatibleReason)
			}
		}
	}

	percentage := NeutralScore
	if totalWeight > 0 {
		percentage = int(math.Round(100 * matchedWeight / totalWeight))
	}

	percentage, boosted := applyBoost(percentage, l.OwnerTier)
	if boosted {
		reasons = append(reasons, "premium boost")
	}

	return entity.MatchScore{
		Percentage:   percentage,
		Reasons:      reasons,
		Incompatible: incompatible,
	}
}

func applyBoost(percentage int, tier Tier) (int, bool) {
	if !tier.PriorityMatching() {
		return percentage, false
	}
	boost := tier.VisibilityBoost()
	if boost <= 0 {
		return percentage, false
	}
	points := int(math.Min(maxBoostPoints, boost*maxBoostPoints))
	percentage += points
	if percentage > 100 {
		percentage = 100
	}
	return percentage, true
}

// Tier aliases the entity tier so criterion configs stay readable.
type Tier = entity.Tier

// SortCandidates orders a scored page for presentation: owner tier rank
// ascending (unlimited shown first), then match percentage descending.
// The sort is stable, equal keys preserve fetch order.
func SortCandidates(items []entity.ScoredListing) {
	sort.SliceStable(items, func(i, j int) bool {
		ri, rj := items[i].OwnerTier.Rank(), items[j].OwnerTier.Rank()
		if ri != rj {
			return ri < rj
		}
		return items[i].MatchPercentage > items[j].MatchPercentage
	})
}
