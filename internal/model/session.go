package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Session is the server-side record a refresh token points at. It is
// created on login, flipped to Valid=false on revocation, and never
// deleted. A session with Valid=false must never yield a new access
// token, whatever the refresh token's own signature says.
type Session struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID    bson.ObjectID `bson:"user" json:"user"`
	Valid     bool          `bson:"valid" json:"valid"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt" json:"updatedAt"`
}
