package repository

import (
	"context"
	"errors"
	"time"

	"github.com/movielist/movielist-go/internal/model"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

var ErrListNotFound = errors.New("user list not found")

// ListStore is the persistence capability for user lists. Every
// mutation is owner-scoped: the filter carries both the list id and the
// owner id, so another user's list reads as not found.
type ListStore interface {
	Create(ctx context.Context, list *model.List) error
	GetByID(ctx context.Context, id string) (*model.List, error)
	ListAll(ctx context.Context, page, limit int) ([]model.List, error)
	CountAll(ctx context.Context) (int64, error)
	ListByUser(ctx context.Context, userID bson.ObjectID, page, limit int) ([]model.List, error)
	CountByUser(ctx context.Context, userID bson.ObjectID) (int64, error)
	TitlesByUser(ctx context.Context, userID bson.ObjectID) ([]model.List, error)
	Update(ctx context.Context, id string, userID bson.ObjectID, title, description string) (*model.List, error)
	Delete(ctx context.Context, id string, userID bson.ObjectID) error
	AddMovie(ctx context.Context, id string, userID, movieID bson.ObjectID) (*model.List, error)
	RemoveMovie(ctx context.Context, id string, userID, movieID bson.ObjectID) (*model.List, error)
}

// ListRepository handles list persistence against the userlists collection.
type ListRepository struct {
	col *mongo.Collection
}

// NewListRepository creates a new ListRepository.
func NewListRepository(db *mongo.Database) *ListRepository {
	return &ListRepository{col: db.Collection("userlists")}
}

// Create inserts a new list and sets the generated ID and timestamps.
func (r *ListRepository) Create(ctx context.Context, list *model.List) error {
	now := time.Now().UTC()
	list.CreatedAt = now
	list.UpdatedAt = now
	if list.Movies == nil {
		list.Movies = []bson.ObjectID{}
	}

	result, err := r.col.InsertOne(ctx, list)
	if err != nil {
		return err
	}

	if id, ok := result.InsertedID.(bson.ObjectID); ok {
		list.ID = id
	}
	return nil
}

// GetByID retrieves a list by its hex object id.
func (r *ListRepository) GetByID(ctx context.Context, id string) (*model.List, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrListNotFound
	}

	list := &model.List{}
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(list)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrListNotFound
		}
		return nil, err
	}

	return list, nil
}

// ListAll returns one page of all lists, newest first.
func (r *ListRepository) ListAll(ctx context.Context, page, limit int) ([]model.List, error) {
	return r.find(ctx, bson.M{}, page, limit)
}

// CountAll returns the total number of lists.
func (r *ListRepository) CountAll(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}

// ListByUser returns one page of a user's lists, newest first.
func (r *ListRepository) ListByUser(ctx context.Context, userID bson.ObjectID, page, limit int) ([]model.List, error) {
	return r.find(ctx, bson.M{"userId": userID}, page, limit)
}

// CountByUser returns the number of lists owned by a user.
func (r *ListRepository) CountByUser(ctx context.Context, userID bson.ObjectID) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"userId": userID})
}

// TitlesByUser returns all of a user's lists with only id and title
// projected, unpaginated.
func (r *ListRepository) TitlesByUser(ctx context.Context, userID bson.ObjectID) ([]model.List, error) {
	cursor, err := r.col.Find(ctx, bson.M{"userId": userID},
		options.Find().SetProjection(bson.M{"title": 1}))
	if err != nil {
		return nil, err
	}

	var lists []model.List
	if err := cursor.All(ctx, &lists); err != nil {
		return nil, err
	}

	return lists, nil
}

// Update sets the non-empty fields of an owner's list and returns the
// updated document.
func (r *ListRepository) Update(ctx context.Context, id string, userID bson.ObjectID, title, description string) (*model.List, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if title != "" {
		set["title"] = title
	}
	if description != "" {
		set["description"] = description
	}

	return r.findOneAndUpdate(ctx, id, userID, bson.M{"$set": set})
}

// Delete removes an owner's list.
func (r *ListRepository) Delete(ctx context.Context, id string, userID bson.ObjectID) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrListNotFound
	}

	result, err := r.col.DeleteOne(ctx, bson.M{"_id": oid, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrListNotFound
	}

	return nil
}

// AddMovie appends a movie reference to an owner's list. $addToSet
// keeps the reference set free of duplicates without a read first.
func (r *ListRepository) AddMovie(ctx context.Context, id string, userID, movieID bson.ObjectID) (*model.List, error) {
	return r.findOneAndUpdate(ctx, id, userID, bson.M{
		"$addToSet": bson.M{"movies": movieID},
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	})
}

// RemoveMovie removes a movie reference from an owner's list.
func (r *ListRepository) RemoveMovie(ctx context.Context, id string, userID, movieID bson.ObjectID) (*model.List, error) {
	return r.findOneAndUpdate(ctx, id, userID, bson.M{
		"$pull": bson.M{"movies": movieID},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (r *ListRepository) find(ctx context.Context, filter bson.M, page, limit int) ([]model.List, error) {
	cursor, err := r.col.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page-1)*limit)).
		SetLimit(int64(limit)))
	if err != nil {
		return nil, err
	}

	var lists []model.List
	if err := cursor.All(ctx, &lists); err != nil {
		return nil, err
	}

	return lists, nil
}

func (r *ListRepository) findOneAndUpdate(ctx context.Context, id string, userID bson.ObjectID, update bson.M) (*model.List, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrListNotFound
	}

	list := &model.List{}
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "userId": userID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(list)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrListNotFound
		}
		return nil, err
	}

	return list, nil
}
