package prefsRepo

import (
	"context"
	"errors"

	"github.com/swipenest/swipenest/internal/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IPrefsRepo interface {
	// GetPreferences returns nil (no error) when the user never saved
	// preferences; the feed falls back to a neutral score.
	GetPreferences(ctx context.Context, userID uint) (*entity.Preferences, error)

	SavePreferences(ctx context.Context, prefs *entity.Preferences) error

	// GetTier reads the subscription tier of a listing owner or
	// profile.
	GetTier(ctx context.Context, userID uint) (entity.Tier, error)
}

type PrefsRepo struct {
	db *gorm.DB
}

func New(db *gorm.DB) IPrefsRepo {
	return &PrefsRepo{db: db}
}

func (r *PrefsRepo) GetPreferences(ctx context.Context, userID uint) (*entity.Preferences, error) {
	var prefs entity.Preferences
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&prefs)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if res.Error != nil {
		return nil, res.Error
	}
	return &prefs, nil
}

func (r *PrefsRepo) SavePreferences(ctx context.Context, prefs *entity.Preferences) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(prefs).Error
}

func (r *PrefsRepo) GetTier(ctx context.Context, userID uint) (entity.Tier, error) {
	var user entity.User
	res := r.db.WithContext(ctx).Select("tier").Where("id = ?", userID).First(&user)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return entity.TierFree, entity.ErrNotFound
	}
	if res.Error != nil {
		return entity.TierFree, res.Error
	}
	return user.Tier, nil
}
