package scoring

import (
	"testing"

	"github.com/swipenest/swipenest/internal/entity"
	"gotest.tools/assert"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }
func bptr(v bool) *bool       { return &v }

func rentPrefs() *entity.Preferences {
	return &entity.Preferences{
		MinPrice:              fptr(1000),
		MaxPrice:              fptr(2000),
		PreferredListingTypes: []entity.ListingType{entity.ListingTypeRent},
	}
}

func TestPriceFlexibilityWithinTolerance(t *testing.T) {
	// 2300 is outside 1000..2000 but inside the 20% widened range
	// (effective max 2400).
	listing := &entity.Listing{
		ListingType: entity.ListingTypeRent,
		Price:       2300,
	}

	score := Score(rentPrefs(), listing, ListingCriteria())

	assert.Equal(t, score.Percentage, 100)
	assert.Equal(t, len(score.Incompatible), 0)
}

func TestPriceBeyondTolerance(t *testing.T) {
	listing := &entity.Listing{
		ListingType: entity.ListingTypeRent,
		Price:       2500,
	}

	score := Score(rentPrefs(), listing, ListingCriteria())

	// listing type matched (weight 1.0), price failed (weight 1.0)
	assert.Equal(t, score.Percentage, 50)
	assert.Equal(t, len(score.Incompatible), 1)
}

func TestHardCriterionShortCircuits(t *testing.T) {
	listing := &entity.Listing{
		ListingType:  entity.ListingTypeSale,
		Price:        1500,
		Beds:         iptr(2),
		PetsAllowed:  bptr(true),
		LocationZone: "downtown",
	}

	prefs := rentPrefs()
	prefs.MinBeds = iptr(1)
	prefs.PetsAllowed = bptr(true)
	prefs.LocationZones = []string{"downtown"}

	score := Score(prefs, listing, ListingCriteria())

	assert.Equal(t, score.Percentage, 0)
	assert.Equal(t, len(score.Reasons), 0)
	assert.Equal(t, len(score.Incompatible), 1)
}

func TestMissingCandidateDataIsSkippedNotPenalized(t *testing.T) {
	prefs := rentPrefs()
	prefs.MinBeds = iptr(3)

	withoutBeds := &entity.Listing{
		ListingType: entity.ListingTypeRent,
		Price:       1500,
	}
	withFittingBeds := &entity.Listing{
		ListingType: entity.ListingTypeRent,
		Price:       1500,
		Beds:        iptr(3),
	}

	// Absent beds contribute zero weight to both sides: the score over
	// the remaining criteria is unchanged.
	assert.Equal(t, Score(prefs, withoutBeds, ListingCriteria()).Percentage, 100)
	assert.Equal(t, Score(prefs, withFittingBeds, ListingCriteria()).Percentage, 100)
}

func TestNoEvaluableCriteriaIsNeutral(t *testing.T) {
	listing := &entity.Listing{ListingType: entity.ListingTypeRent, Price: 900}

	score := Score(&entity.Preferences{}, listing, ListingCriteria())

	assert.Equal(t, score.Percentage, NeutralScore)
}

func TestNilPreferencesIsNeutral(t *testing.T) {
	listing := &entity.Listing{ListingType: entity.ListingTypeRent, Price: 900}

	score := Score(nil, listing, ListingCriteria())

	assert.Equal(t, score.Percentage, NeutralScore)
}

func TestNilPreferencesStillGetsPremiumBoost(t *testing.T) {
	listing := &entity.Listing{
		ListingType: entity.ListingTypeRent,
		Price:       900,
		OwnerTier:   entity.TierPremium,
	}

	score := Score(nil, listing, ListingCriteria())
	empty := Score(&entity.Preferences{}, listing, ListingCriteria())

	// Nil and empty preferences are the same thing to the scorer:
	// neutral 50 plus the min(20, 0.5*20) = 10 tier boost.
	assert.Equal(t, score.Percentage, 60)
	assert.Equal(t, score.Reasons[len(score.Reasons)-1], "premium boost")
	assert.Equal(t, score.Percentage, empty.Percentage)
}

func TestPremiumBoost(t *testing.T) {
	prefs := rentPrefs()
	prefs.MinBeds = iptr(3)

	listing := &entity.Listing{
		ListingType: entity.ListingTypeRent,
		Price:       1500,
		Beds:        iptr(1),
		OwnerTier:   entity.TierPremium,
	}

	score := Score(prefs, listing, ListingCriteria())

	// type 1.0 + price 1.0 matched, beds 0.8 failed:
	// round(100*2.0/2.8) = 71, plus min(20, 0.5*20) = 10 boost.
	assert.Equal(t, score.Percentage, 81)
	assert.Equal(t, score.Reasons[len(score.Reasons)-1], "premium boost")
}

func TestBoostCapsAtHundred(t *testing.T) {
	listing := &entity.Listing{
		ListingType: entity.ListingTypeRent,
		Price:       1500,
		OwnerTier:   entity.TierUnlimited,
	}

	score := Score(rentPrefs(), listing, ListingCriteria())

	assert.Equal(t, score.Percentage, 100)
}

func TestScoreStaysInRange(t *testing.T) {
	prefs := rentPrefs()
	prefs.MinBeds = iptr(2)
	prefs.MaxBeds = iptr(3)
	prefs.PetsAllowed = bptr(true)
	prefs.Amenities = []string{"pool", "gym", "parking"}

	listings := []*entity.Listing{
		{},
		{ListingType: entity.ListingTypeRent, Price: 1},
		{ListingType: entity.ListingTypeRent, Price: 1500, Beds: iptr(10), PetsAllowed: bptr(false)},
		{ListingType: entity.ListingTypeSale, Price: 99999},
		{ListingType: entity.ListingTypeRent, Price: 1800, Beds: iptr(2), PetsAllowed: bptr(true),
			Amenities: []string{"pool", "gym"}, OwnerTier: entity.TierPremiumPlus},
	}

	for _, l := range listings {
		score := Score(prefs, l, ListingCriteria())
		if score.Percentage < 0 || score.Percentage > 100 {
			t.Errorf("percentage out of range: %d", score.Percentage)
		}
	}
}

func TestSortCandidatesTierThenScore(t *testing.T) {
	items := []entity.ScoredListing{
		{Listing: entity.Listing{ID: "free-70", OwnerTier: entity.TierFree}, MatchPercentage: 70},
		{Listing: entity.Listing{ID: "premium-70", OwnerTier: entity.TierPremium}, MatchPercentage: 70},
		{Listing: entity.Listing{ID: "free-90", OwnerTier: entity.TierFree}, MatchPercentage: 90},
		{Listing: entity.Listing{ID: "unlimited-10", OwnerTier: entity.TierUnlimited}, MatchPercentage: 10},
	}

	SortCandidates(items)

	assert.Equal(t, items[0].ID, "unlimited-10")
	assert.Equal(t, items[1].ID, "premium-70")
	assert.Equal(t, items[2].ID, "free-90")
	assert.Equal(t, items[3].ID, "free-70")
}

func TestSortCandidatesIsStable(t *testing.T) {
	items := []entity.ScoredListing{
		{Listing: entity.Listing{ID: "a", OwnerTier: entity.TierFree}, MatchPercentage: 70},
		{Listing: entity.Listing{ID: "b", OwnerTier: entity.TierFree}, MatchPercentage: 70},
		{Listing: entity.Listing{ID: "c", OwnerTier: entity.TierFree}, MatchPercentage: 70},
	}

	for i := 0; i < 3; i++ {
		SortCandidates(items)
		assert.Equal(t, items[0].ID, "a")
		assert.Equal(t, items[1].ID, "b")
		assert.Equal(t, items[2].ID, "c")
	}
}
