package swipeRepo

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/go-redis/redis"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/swipenest/swipenest/internal/entity"
)

const (
	// SwipedWindow is the rolling window during which a swiped target
	// stays out of the feed.
	SwipedWindow = 24 * time.Hour

	// ShownWindow hides recently shown candidates when the user has
	// hide-repeats configured.
	ShownWindow = 7 * 24 * time.Hour
)

type ISwipeRepo interface {
	// RecordSwipe upserts by (user, target): re-sending the same
	// decision under retry never creates a duplicate row.
	RecordSwipe(ctx context.Context, decision entity.SwipeDecision) error

	// GetSwipedTargetIDs returns targets the user swiped within the
	// rolling SwipedWindow.
	GetSwipedTargetIDs(ctx context.Context, userID uint) ([]string, error)

	// GetRecentlyShownIDs returns targets shown to the user within
	// ShownWindow.
	GetRecentlyShownIDs(ctx context.Context, userID uint) ([]string, error)

	// MarkShown records that the targets were presented to the user.
	MarkShown(ctx context.Context, userID uint, targetIDs []string) error
}

type SwipeRepo struct {
	db  *gorm.DB
	rdb *redis.Client
}

func New(db *gorm.DB, rdb *redis.Client) ISwipeRepo {
	return &SwipeRepo{db: db, rdb: rdb}
}

func (r *SwipeRepo) RecordSwipe(ctx context.Context, decision entity.SwipeDecision) error {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "target_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"direction", "target_type", "created_at"}),
		}).
		Create(&decision)

	if res.Error != nil {
		return res.Error
	}

	if err := r.rdb.SAdd(swipedKey(decision.UserID), decision.TargetID).Err(); err != nil {
		log.Println("error adding swiped target to redis", err)
	}
	r.rdb.Expire(swipedKey(decision.UserID), SwipedWindow)

	return nil
}

func (r *SwipeRepo) GetSwipedTargetIDs(ctx context.Context, userID uint) ([]string, error) {
	key := swipedKey(userID)

	exists, err := r.rdb.Exists(key).Result()
	if err != nil {
		return nil, err
	}

	var ids []string

	if exists == 0 {
		ids, err = r.getSwipedFromDB(ctx, userID)
		if err != nil {
			return nil, err
		}

		for _, id := range ids {
			r.rdb.SAdd(key, id)
		}
		r.rdb.Expire(key, SwipedWindow)
		return ids, nil
	}

	err = r.rdb.SMembers(key).ScanSlice(&ids)
	if err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *SwipeRepo) GetRecentlyShownIDs(ctx context.Context, userID uint) ([]string, error) {
	var ids []string
	err := r.rdb.SMembers(shownKey(userID)).ScanSlice(&ids)
	if err != nil && err != redis.Nil {
		return nil, err
	}
	return ids, nil
}

func (r *SwipeRepo) MarkShown(ctx context.Context, userID uint, targetIDs []string) error {
	if len(targetIDs) == 0 {
		return nil
	}

	key := shownKey(userID)
	members := make([]interface{}, len(targetIDs))
	for i, id := range targetIDs {
		members[i] = id
	}

	if err := r.rdb.SAdd(key, members...).Err(); err != nil {
		return err
	}
	return r.rdb.Expire(key, ShownWindow).Err()
}

// Private functions

func (r *SwipeRepo) getSwipedFromDB(ctx context.Context, userID uint) ([]string, error) {
	var ids []string
	res := r.db.WithContext(ctx).
		Model(&entity.SwipeDecision{}).
		Select("target_id").
		Where("user_id = ? AND created_at > ?", userID, time.Now().Add(-SwipedWindow)).
		Find(&ids)

	return ids, res.Error
}

// Helper

func swipedKey(userID uint) string {
	return ":user:" + strconv.Itoa(int(userID)) + ":swiped:targets"
}

func shownKey(userID uint) string {
	return ":user:" + strconv.Itoa(int(userID)) + ":shown:targets"
}
