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

var (
	ErrMovieNotFound  = errors.New("movie not found")
	ErrDuplicateMovie = errors.New("movie already exists")
)

// MovieStore is the persistence capability for locally cached catalog
// movies.
type MovieStore interface {
	Create(ctx context.Context, movie *model.Movie) error
	GetByMovieID(ctx context.Context, movieID string) (*model.Movie, error)
	GetByIDs(ctx context.Context, ids []bson.ObjectID) ([]model.Movie, error)
}

// MovieRepository handles movie persistence against the movies collection.
type MovieRepository struct {
	col *mongo.Collection
}

// NewMovieRepository creates a new MovieRepository.
func NewMovieRepository(db *mongo.Database) *MovieRepository {
	return &MovieRepository{col: db.Collection("movies")}
}

// EnsureIndexes creates the unique catalog-id index.
func (r *MovieRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "movieId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Create inserts a new movie and sets the generated ID and timestamps.
// A concurrent insert of the same catalog movie surfaces as
// ErrDuplicateMovie; callers re-read instead of failing.
func (r *MovieRepository) Create(ctx context.Context, movie *model.Movie) error {
	now := time.Now().UTC()
	movie.CreatedAt = now
	movie.UpdatedAt = now

	result, err := r.col.InsertOne(ctx, movie)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateMovie
		}
		return err
	}

	if id, ok := result.InsertedID.(bson.ObjectID); ok {
		movie.ID = id
	}
	return nil
}

// GetByMovieID retrieves a movie by its catalog id.
func (r *MovieRepository) GetByMovieID(ctx context.Context, movieID string) (*model.Movie, error) {
	movie := &model.Movie{}
	err := r.col.FindOne(ctx, bson.M{"movieId": movieID}).Decode(movie)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}

	return movie, nil
}

// GetByIDs retrieves all movies whose object ids are in ids. Missing
// ids are simply absent from the result.
func (r *MovieRepository) GetByIDs(ctx context.Context, ids []bson.ObjectID) ([]model.Movie, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}

	var movies []model.Movie
	if err := cursor.All(ctx, &movies); err != nil {
		return nil, err
	}

	return movies, nil
}
