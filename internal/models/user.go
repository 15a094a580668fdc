package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LoginEvent is one entry in a user's append-only login history.
type LoginEvent struct {
	DateTime  time.Time `bson:"dateTime"`
	UserAgent string    `bson:"userAgent"`
}

// User is a registered account, stored as a document in the users
// collection. UserName is case-sensitive unique. PasswordHash is a
// bcrypt hash; the plaintext is never persisted.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	UserName     string             `bson:"userName"`
	PasswordHash string             `bson:"password"`
	Email        string             `bson:"email"`
	LoginHistory []LoginEvent       `bson:"loginHistory"`
}
