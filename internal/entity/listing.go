package entity

import "time"

type Category string

const (
	CategoryProperty      Category = "property"
	CategoryVehicle       Category = "vehicle"
	CategoryMotorcycle    Category = "motorcycle"
	CategoryBicycle       Category = "bicycle"
	CategoryYacht         Category = "yacht"
	CategoryClientProfile Category = "client_profile"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryProperty, CategoryVehicle, CategoryMotorcycle,
		CategoryBicycle, CategoryYacht, CategoryClientProfile:
		return true
	default:
		return false
	}
}

type ListingType string

const (
	ListingTypeRent ListingType = "rent"
	ListingTypeSale ListingType = "sale"
)

type Tier string

const (
	TierFree        Tier = "free"
	TierBasic       Tier = "basic"
	TierPremium     Tier = "premium"
	TierPremiumPlus Tier = "premium_plus"
	TierUnlimited   Tier = "unlimited"
)

// Rank orders tiers for feed presentation, lower rank is shown first.
func (t Tier) Rank() int {
	switch t {
	case TierUnlimited:
		return 0
	case TierPremiumPlus:
		return 1
	case TierPremium:
		return 2
	case TierBasic:
		return 3
	default:
		return 4
	}
}

func (t Tier) PriorityMatching() bool {
	switch t {
	case TierPremium, TierPremiumPlus, TierUnlimited:
		return true
	default:
		return false
	}
}

// VisibilityBoost is the 0..1 factor used by the scoring boost.
func (t Tier) VisibilityBoost() float64 {
	switch t {
	case TierUnlimited:
		return 1.0
	case TierPremiumPlus:
		return 0.75
	case TierPremium:
		return 0.5
	default:
		return 0
	}
}

// Listing is a swipeable candidate: a rental/sale listing or a client
// profile, depending on Category. Attribute fields are optional and
// category dependent; absent values are stored as NULL and must never
// penalize scoring.
type Listing struct {
	ID           string      `gorm:"primaryKey;column:id" json:"id"`
	OwnerID      uint        `gorm:"column:owner_id;not null;index" json:"owner_id"`
	Title        string      `gorm:"column:title;not null" json:"title"`
	Category     Category    `gorm:"column:category;type:varchar(32);not null;index" json:"category"`
	ListingType  ListingType `gorm:"column:listing_type;type:varchar(8);not null" json:"listing_type"`
	Price        float64     `gorm:"column:price;not null" json:"price"`
	Beds         *int        `gorm:"column:beds" json:"beds,omitempty"`
	Baths        *int        `gorm:"column:baths" json:"baths,omitempty"`
	EngineSizeCC *int        `gorm:"column:engine_size_cc" json:"engine_size_cc,omitempty"`
	LengthM      *float64    `gorm:"column:length_m" json:"length_m,omitempty"`
	PropertyType string      `gorm:"column:property_type" json:"property_type,omitempty"`
	PetsAllowed  *bool       `gorm:"column:pets_allowed" json:"pets_allowed,omitempty"`
	Furnished    *bool       `gorm:"column:furnished" json:"furnished,omitempty"`
	LocationZone string      `gorm:"column:location_zone" json:"location_zone,omitempty"`

	// Order is significant, index 0 is the primary image.
	ImageURLs     []string `gorm:"column:image_urls;serializer:json" json:"image_urls"`
	Amenities     []string `gorm:"column:amenities;serializer:json" json:"amenities,omitempty"`
	LifestyleTags []string `gorm:"column:lifestyle_tags;serializer:json" json:"lifestyle_tags,omitempty"`

	OwnerTier Tier      `gorm:"column:owner_tier;type:varchar(16);not null;default:free" json:"owner_tier"`
	Active    bool      `gorm:"column:active;not null;default:true" json:"active"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Listing) TableName() string {
	return "listings"
}

// ScoredListing pairs a listing with the match score attached by the
// feed assembly layer. Not persisted.
type ScoredListing struct {
	Listing
	MatchPercentage     int      `json:"match_percentage"`
	MatchReasons        []string `json:"match_reasons,omitempty"`
	IncompatibleReasons []string `json:"incompatible_reasons,omitempty"`
}
