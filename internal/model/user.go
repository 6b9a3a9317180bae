package model

import "time"

// User is present in the schema for the (currently disabled) account
// system. No reachable handler authenticates; recipes created over HTTP are
// attributed to a fixed default author.
type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	DisplayName  string    `gorm:"size:100" json:"displayName"`
	CreatedAt    time.Time `json:"createdAt"`
}
