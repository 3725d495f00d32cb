package entity

import "time"

type Direction uint

const (
	DirectionRight Direction = iota + 1 // accept
	DirectionLeft                       // reject
)

func (d Direction) String() string {
	switch d {
	case DirectionRight:
		return "right"
	case DirectionLeft:
		return "left"
	default:
		return "unknown"
	}
}

func (d Direction) IsValid() bool {
	return d == DirectionRight || d == DirectionLeft
}

func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "right", "accept", "like":
		return DirectionRight, true
	case "left", "reject", "pass":
		return DirectionLeft, true
	default:
		return 0, false
	}
}

type TargetType string

const (
	TargetListing TargetType = "listing"
	TargetProfile TargetType = "profile"
)

// SwipeDecision is a recorded swipe. The (user_id, target_id) pair is
// unique so that retried writes upsert instead of duplicating rows.
type SwipeDecision struct {
	ID         string     `gorm:"primaryKey;column:id" json:"id"`
	UserID     uint       `gorm:"column:user_id;not null;uniqueIndex:idx_user_target" json:"user_id"`
	TargetID   string     `gorm:"column:target_id;not null;uniqueIndex:idx_user_target" json:"target_id"`
	TargetType TargetType `gorm:"column:target_type;type:varchar(16);not null" json:"target_type"`
	Direction  Direction  `gorm:"column:direction;type:smallint;not null" json:"direction"`
	CreatedAt  time.Time  `gorm:"column:created_at;type:timestamp;not null" json:"created_at"`
}

func (SwipeDecision) TableName() string {
	return "swipe_decisions"
}
