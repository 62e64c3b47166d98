package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// List is a named, publicly readable collection of movie references
// owned by one user.
type List struct {
	ID          bson.ObjectID   `bson:"_id,omitempty" json:"_id"`
	UserID      bson.ObjectID   `bson:"userId" json:"userId"`
	Title       string          `bson:"title" json:"title"`
	Description string          `bson:"description" json:"description"`
	Movies      []bson.ObjectID `bson:"movies" json:"movies"`
	CreatedAt   time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time       `bson:"updatedAt" json:"updatedAt"`
}

// CreateListRequest represents a list creation request.
type CreateListRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpdateListRequest represents a list update; at least one field must
// be set.
type UpdateListRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ListMovieRequest adds or removes a catalog movie on a list.
type ListMovieRequest struct {
	MovieID string `json:"movieId"`
}

// ListOwner is the resolved owner fragment exposed on public list
// reads: name only, nothing sensitive.
type ListOwner struct {
	ID        string `json:"_id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// ListResponse is a list with its owner and movie references resolved
// into documents.
type ListResponse struct {
	ID          string    `json:"_id"`
	Owner       ListOwner `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Movies      []Movie   `json:"movies"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PagedListsResponse is the pagination envelope for list collections.
type PagedListsResponse struct {
	Data       []ListResponse `json:"data"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	TotalPages int            `json:"totalPages"`
}

// ListTitleResponse is the trimmed shape used by the current user's
// list picker: id and title only.
type ListTitleResponse struct {
	ID    string `json:"_id"`
	Title string `json:"title"`
}
