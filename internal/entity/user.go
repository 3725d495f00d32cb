package entity

import "errors"

// ErrNotFound is returned by repositories when a row does not exist.
var ErrNotFound = errors.New("not found")

type User struct {
	ID       uint   `gorm:"primaryKey;column:id"`
	Name     string `gorm:"not null;column:name"`
	Email    string `gorm:"unique;not null;column:email"`
	Username string `gorm:"unique;column:username"`
	Password string `gorm:"not null;column:password"`
	Tier     Tier   `gorm:"column:tier;type:varchar(16);not null;default:free"`
}
