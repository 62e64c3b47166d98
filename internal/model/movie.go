package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Movie is a locally cached copy of a catalog movie, created the first
// time any user adds it to a list. MovieID is the catalog's id and is
// unique.
type Movie struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	MovieID     string        `bson:"movieId" json:"movieId"`
	Title       string        `bson:"title" json:"title"`
	Overview    string        `bson:"overview,omitempty" json:"overview,omitempty"`
	ReleaseDate string        `bson:"releaseDate,omitempty" json:"releaseDate,omitempty"`
	PosterPath  string        `bson:"posterPath,omitempty" json:"posterPath,omitempty"`
	CreatedAt   time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time     `bson:"updatedAt" json:"updatedAt"`
}
