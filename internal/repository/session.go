package repository

import (
	"context"
	"errors"
	"time"

	"github.com/movielist/movielist-go/internal/model"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore is the persistence capability for sessions.
type SessionStore interface {
	Create(ctx context.Context, userID bson.ObjectID) (*model.Session, error)
	GetByID(ctx context.Context, id string) (*model.Session, error)
	Invalidate(ctx context.Context, id string) error
}

// SessionRepository handles session persistence. Sessions are only ever
// inserted and flag-flipped, never deleted.
type SessionRepository struct {
	col *mongo.Collection
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(db *mongo.Database) *SessionRepository {
	return &SessionRepository{col: db.Collection("sessions")}
}

// Create inserts a new valid session for the given user.
func (r *SessionRepository) Create(ctx context.Context, userID bson.ObjectID) (*model.Session, error) {
	now := time.Now().UTC()
	session := &model.Session{
		UserID:    userID,
		Valid:     true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := r.col.InsertOne(ctx, session)
	if err != nil {
		return nil, err
	}

	if id, ok := result.InsertedID.(bson.ObjectID); ok {
		session.ID = id
	}
	return session, nil
}

// GetByID retrieves a session by its hex object id.
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*model.Session, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	session := &model.Session{}
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	return session, nil
}

// Invalidate flips the session's valid flag to false. The flip is
// terminal; there is no way back to valid.
func (r *SessionRepository) Invalidate(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrSessionNotFound
	}

	result, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"valid": false, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrSessionNotFound
	}

	return nil
}
