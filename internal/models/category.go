package models

import "time"

// Category groups posts by label. Like posts it carries an owner tag
// set once at creation.
type Category struct {
	ID        uint   `gorm:"primaryKey"`
	Label     string `gorm:"size:64;not null"`
	Owner     string `gorm:"size:64;index;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
