package entity

// Preferences is the per-user bag of weighted filter criteria, fetched
// once per feed session. Zero values and nil pointers mean "no
// constraint": a criterion the user never specified is skipped by the
// scoring engine, never counted against a candidate.
type Preferences struct {
	UserID uint `gorm:"primaryKey;column:user_id" json:"user_id"`

	MinPrice *float64 `gorm:"column:min_price" json:"min_price,omitempty"`
	MaxPrice *float64 `gorm:"column:max_price" json:"max_price,omitempty"`
	MinBeds  *int     `gorm:"column:min_beds" json:"min_beds,omitempty"`
	MaxBeds  *int     `gorm:"column:max_beds" json:"max_beds,omitempty"`
	MinBaths *int     `gorm:"column:min_baths" json:"min_baths,omitempty"`

	PreferredListingTypes []ListingType `gorm:"column:preferred_listing_types;serializer:json" json:"preferred_listing_types,omitempty"`
	PropertyTypes         []string      `gorm:"column:property_types;serializer:json" json:"property_types,omitempty"`
	LocationZones         []string      `gorm:"column:location_zones;serializer:json" json:"location_zones,omitempty"`
	Amenities             []string      `gorm:"column:amenities;serializer:json" json:"amenities,omitempty"`
	MustHaveAmenities     []string      `gorm:"column:must_have_amenities;serializer:json" json:"must_have_amenities,omitempty"`
	LifestyleTags         []string      `gorm:"column:lifestyle_tags;serializer:json" json:"lifestyle_tags,omitempty"`

	PetsAllowed *bool `gorm:"column:pets_allowed" json:"pets_allowed,omitempty"`
	Furnished   *bool `gorm:"column:furnished" json:"furnished,omitempty"`

	// HideRepeats keeps recently shown candidates out of the feed for
	// the configured window.
	HideRepeats bool `gorm:"column:hide_repeats;not null;default:false" json:"hide_repeats"`
}

func (Preferences) TableName() string {
	return "preferences"
}

// MatchScore is derived by the scoring engine, never persisted.
type MatchScore struct {
	Percentage   int      `json:"percentage"`
	Reasons      []string `json:"reasons,omitempty"`
	Incompatible []string `json:"incompatible,omitempty"`
}
