package models

import "time"

// Post is a blog entry. Owner holds the hex id of the creating user; it
// is stamped once at creation from the session and never accepted from
// the client.
type Post struct {
	ID           uint    `gorm:"primaryKey"`
	Title        string  `gorm:"size:255"`
	Body         string  `gorm:"type:text"`
	FeatureImage *string `gorm:"size:512"`
	Published    bool    `gorm:"index;not null;default:false"`
	// Category references Category.Label. Deleting a category leaves
	// its posts with a dangling reference, which the views tolerate.
	Category  *string   `gorm:"size:64;index"`
	Owner     string    `gorm:"size:64;index;not null"`
	PostDate  time.Time `gorm:"index"`
	IsUpdated bool      `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
