package scoring

import (
	"strings"

	"github.com/swipenest/swipenest/internal/entity"
)

const (
	// Price matching tolerates candidates slightly outside the stated
	// range: the range is widened by this fraction on both ends.
	priceFlexibility = 0.20

	amenityOverlapMin   = 0.5
	lifestyleOverlapMin = 0.3
)

// ListingCriteria is the fixed ordered criterion set for rental and
// sale listings (properties, vehicles, yachts, ...).
func ListingCriteria() []Criterion {
	return []Criterion{
		{
			Name:               "listing_type",
			Weight:             1.0,
			Hard:               true,
			Evaluate:           evalListingType,
			Reason:             "transaction type matches",
			IncompatibleReason: "wrong transaction type (rent vs. sale)",
		},
		{
			Name:               "price",
			Weight:             1.0,
			Evaluate:           evalPrice,
			Reason:             "price fits your budget",
			IncompatibleReason: "price outside your budget",
		},
		{
			Name:               "beds",
			Weight:             0.8,
			Evaluate:           evalBeds,
			Reason:             "bedroom count fits",
			IncompatibleReason: "bedroom count does not fit",
		},
		{
			Name:               "baths",
			Weight:             0.6,
			Evaluate:           evalBaths,
			Reason:             "bathroom count fits",
			IncompatibleReason: "not enough bathrooms",
		},
		{
			Name:               "property_type",
			Weight:             0.7,
			Evaluate:           evalPropertyType,
			Reason:             "property type you prefer",
			IncompatibleReason: "property type not in your preferences",
		},
		{
			Name:               "pets",
			Weight:             0.5,
			Evaluate:           evalPets,
			Reason:             "pet policy matches",
			IncompatibleReason: "pet policy does not match",
		},
		{
			Name:               "furnished",
			Weight:             0.5,
			Evaluate:           evalFurnished,
			Reason:             "furnishing matches",
			IncompatibleReason: "furnishing does not match",
		},
		{
			Name:               "location_zone",
			Weight:             0.9,
			Evaluate:           evalLocationZone,
			Reason:             "in a preferred area",
			IncompatibleReason: "outside your preferred areas",
		},
		{
			Name:               "amenities",
			Weight:             0.6,
			Evaluate:           evalAmenities,
			Reason:             "has most amenities you want",
			IncompatibleReason: "missing amenities you want",
		},
		{
			Name:               "lifestyle",
			Weight:             0.4,
			Evaluate:           evalLifestyle,
			Reason:             "lifestyle tags overlap",
			IncompatibleReason: "little lifestyle overlap",
		},
	}
}

// ProfileCriteria scores client profiles (e.g. a tenant candidate shown
// to an owner) with the same engine, different configuration.
func ProfileCriteria() []Criterion {
	return []Criterion{
		{
			Name:               "budget",
			Weight:             1.0,
			Evaluate:           evalPrice,
			Reason:             "budget fits",
			IncompatibleReason: "budget does not fit",
		},
		{
			Name:               "location_zone",
			Weight:             0.9,
			Evaluate:           evalLocationZone,
			Reason:             "looking in your area",
			IncompatibleReason: "looking outside your area",
		},
		{
			Name:               "pets",
			Weight:             0.5,
			Evaluate:           evalPets,
			Reason:             "pet situation matches",
			IncompatibleReason: "pet situation does not match",
		},
		{
			Name:               "lifestyle",
			Weight:             0.6,
			Evaluate:           evalLifestyle,
			Reason:             "similar lifestyle",
			IncompatibleReason: "different lifestyle",
		},
	}
}

func evalListingType(p *entity.Preferences, l *entity.Listing) (bool, bool) {
	if len(p.PreferredListingTypes) == 0 || l.ListingType == "" {
		return false, false
	}
	for _, t := range p.PreferredListingTypes {
		if t == l.ListingType {
			return true, true
		}
	}
	return true, false
}

func evalPrice(p *entity.Preferences, l *entity.Listing) (bool, bool) {
	if p.MinPrice == nil && p.MaxPrice == nil {
		return false, false
	}
	if l.Price <= 0 {
		return false, false
	}
	if p.MinPrice != nil && l.Price < *p.MinPrice*(1-priceFlexibility) {
		return true, false
	}
	if p.MaxPrice != nil && l.Price > *p.MaxPrice*(1+priceFlexibility) {
		return true, false
	}
	return true, true
}

func evalBeds(p *entity.Preferences, l *entity.Listing) (bool, bool) {
	if p.MinBeds == nil && p.MaxBeds == nil {
		return false, false
	}
	if l.Beds == nil {
		return false, false
	}
	if p.MinBeds != nil && *l.Beds < *p.MinBeds {
		return true, false
	}
	if p.MaxBeds != nil && *l.Beds > *p.MaxBeds {
		return true, false
	}
	return true, true
}

func evalBaths(p *entity.Preferences, l *entity.Listing) (bool, bool) {
	if p.MinBaths == nil || l.Baths == nil {
		return false, false
	}
	return true, *l.Baths >= *p.MinBaths
}

func evalPropertyType(p *entity.Preferences, l *entity.Listing) (bool, bool) {
	if len(p.PropertyTypes) == 0 || l.PropertyType == "" {
		return false, false
	}
	for _, t := range p.PropertyTypes {
		if strings.EqualFold(t, l.PropertyType) {
			return true, true
		}
	}
	return true, false
}

func evalPets(p *entity.Preferences, l *entity.Listing) (bool, bool) {
	if p.PetsAllowed == nil || l.PetsAllowed == nil {
		return false, false
	}
	return true, *p.PetsAllowed == *l.PetsAllowed
}

func evalFurnished(p *entity.Preferences, l *entity.Listing) (bool, bool) {
	if p.Furnished == nil || l.Furnished == nil {
		return false, false
	}
	return true, *p.Furnished == *l.Furnished
}

func evalLocationZone(p *entity.Preferences, l *entity.Listing) (bool, bool) {
	if len(p.LocationZones) == 0 || l.LocationZone == "" {
		return false, false
	}
	zone := strings.ToLower(l.LocationZone)
	for _, z := range p.LocationZones {
		z = strings.ToLower(strings.TrimSpace(z))
		if z == "" {
			continue
		}
		if strings.Contains(zone, z) || strings.Contains(z, zone) {
			return true, true
		}
	}
	return true, false
}

func evalAmenities(p *entity.Preferences, l *entity.Listing) (bool, bool) {
	if len(p.Amenities) == 0 || len(l.Amenities) == 0 {
		return false, false
	}
	return true, overlapRatio(p.Amenities, l.Amenities) >= amenityOverlapMin
}

func evalLifestyle(p *entity.Preferences, l *entity.Listing) (bool, bool) {
	if len(p.LifestyleTags) == 0 || len(l.LifestyleTags) == 0 {
		return false, false
	}
	return true, overlapRatio(p.LifestyleTags, l.LifestyleTags) >= lifestyleOverlapMin
}

// overlapRatio is the fraction of wanted entries present in have,
// case-insensitive.
func overlapRatio(wanted, have []string) float64 {
	if len(wanted) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(have))
	for _, h := range have {
		set[strings.ToLower(strings.TrimSpace(h))] = struct{}{}
	}
	var hits int
	for _, w := range wanted {
		if _, ok := set[strings.ToLower(strings.TrimSpace(w))]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(wanted))
}
