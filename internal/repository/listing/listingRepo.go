package listingRepo

import (
	"context"
	"errors"

	"github.com/swipenest/swipenest/internal/entity"
	"gorm.io/gorm"
)

// PageQuery carries the filters the backend can apply server-side.
// Anything not expressible here (amenity overlap, scoring) is applied
// by the feed layer after the fetch.
type PageQuery struct {
	Category    entity.Category
	ListingType entity.ListingType
	MinPrice    *float64
	MaxPrice    *float64
	PetsAllowed *bool
	Furnished   *bool
	Offset      int
	Limit       int
}

type IListingRepo interface {
	// FetchPage returns one page of active listings and whether more
	// pages exist past it.
	FetchPage(ctx context.Context, q PageQuery) ([]entity.Listing, bool, error)

	GetByID(ctx context.Context, id string) (*entity.Listing, error)
}

type ListingRepo struct {
	db *gorm.DB
}

func New(db *gorm.DB) IListingRepo {
	return &ListingRepo{db: db}
}

func (r *ListingRepo) FetchPage(ctx context.Context, q PageQuery) ([]entity.Listing, bool, error) {
	if q.Limit <= 0 {
		q.Limit = 10
	}

	query := r.db.WithContext(ctx).
		Model(&entity.Listing{}).
		Where("active = ?", true)

	if q.Category != "" {
		query = query.Where("category = ?", q.Category)
	}
	if q.ListingType != "" {
		query = query.Where("listing_type = ?", q.ListingType)
	}
	if q.MinPrice != nil {
		query = query.Where("price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		query = query.Where("price <= ?", *q.MaxPrice)
	}
	if q.PetsAllowed != nil {
		query = query.Where("pets_allowed = ?", *q.PetsAllowed)
	}
	if q.Furnished != nil {
		query = query.Where("furnished = ?", *q.Furnished)
	}

	// Fetch one extra row to learn whether another page exists.
	var listings []entity.Listing
	res := query.
		Order("created_at DESC, id").
		Offset(q.Offset).
		Limit(q.Limit + 1).
		Find(&listings)

	if res.Error != nil {
		return nil, false, res.Error
	}

	hasMore := len(listings) > q.Limit
	if hasMore {
		listings = listings[:q.Limit]
	}
	return listings, hasMore, nil
}

func (r *ListingRepo) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	var listing entity.Listing
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&listing)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, entity.ErrNotFound
	}
	return &listing, res.Error
}
