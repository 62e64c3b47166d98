package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/movielist/movielist-go/internal/crypto"
	"github.com/movielist/movielist-go/internal/model"
	"github.com/movielist/movielist-go/internal/repository"
	"go.mongodb.org/mongo-driver/v2/bson"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong
	// password; the two cases must stay indistinguishable to prevent
	// account enumeration.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrCouldNotRefresh covers every refresh failure: bad token,
	// missing session, revoked session, missing user, store error.
	ErrCouldNotRefresh = errors.New("could not refresh access token")
)

// AuthService orchestrates the session lifecycle: login, session
// creation and lookup, and access/refresh token issuance.
type AuthService struct {
	users      repository.UserStore
	sessions   repository.SessionStore
	codec      *crypto.Codec
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(users repository.UserStore, sessions repository.SessionStore, codec *crypto.Codec, accessTTL, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		codec:      codec,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Login validates credentials and returns an access/refresh token
// pair. No session is created on a failed login, and nothing is
// returned unless both tokens were issued: a signed access token whose
// refresh counterpart failed is discarded, never transmitted.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.TokenPairResponse, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			slog.Warn("authentication failed: unknown email")
			return model.TokenPairResponse{}, ErrInvalidCredentials
		}
		return model.TokenPairResponse{}, err
	}

	if !crypto.VerifyPassword(req.Password, user.Password) {
		slog.Warn("authentication failed: wrong password", "user_id", user.ID.Hex())
		return model.TokenPairResponse{}, ErrInvalidCredentials
	}

	accessToken, err := s.IssueAccessToken(user)
	if err != nil {
		return model.TokenPairResponse{}, err
	}

	refreshToken, err := s.IssueRefreshToken(ctx, user.ID)
	if err != nil {
		return model.TokenPairResponse{}, err
	}

	slog.Info("session created", "user_id", user.ID.Hex())
	return model.TokenPairResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh exchanges a valid refresh token for a fresh access token.
// The session's validity flag is rechecked and the user is reloaded
// from the store, so the new token always reflects current user state.
// Every rejection collapses into ErrCouldNotRefresh; the operator log
// keeps the distinction, the client does not get it.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.codec.VerifyRefresh(refreshToken)
	if err != nil {
		slog.Warn("refresh rejected: invalid token")
		return "", ErrCouldNotRefresh
	}

	session, err := s.FindSessionByID(ctx, claims.SessionID)
	if err != nil {
		slog.Warn("refresh rejected: session lookup failed", "session_id", claims.SessionID, "error", err)
		return "", ErrCouldNotRefresh
	}

	if !session.Valid {
		slog.Warn("refresh rejected: session revoked", "session_id", claims.SessionID)
		return "", ErrCouldNotRefresh
	}

	user, err := s.users.GetByID(ctx, session.UserID.Hex())
	if err != nil {
		slog.Warn("refresh rejected: user lookup failed", "session_id", claims.SessionID, "error", err)
		return "", ErrCouldNotRefresh
	}

	return s.IssueAccessToken(user)
}

// IssueAccessToken signs a short-lived access token from the user
// snapshot with the password hash stripped. Pure function of the
// record: no store access, so it cannot fail on persistence.
func (s *AuthService) IssueAccessToken(user *model.User) (string, error) {
	return s.codec.SignAccess(user.Claims(), s.accessTTL)
}

// IssueRefreshToken creates a session and signs a refresh token
// embedding its id. One session per login; sessions accumulate.
func (s *AuthService) IssueRefreshToken(ctx context.Context, userID bson.ObjectID) (string, error) {
	session, err := s.CreateSession(ctx, userID)
	if err != nil {
		return "", err
	}

	return s.codec.SignRefresh(session.ID.Hex(), s.refreshTTL)
}

// CreateSession inserts a new valid session for the user.
func (s *AuthService) CreateSession(ctx context.Context, userID bson.ObjectID) (*model.Session, error) {
	return s.sessions.Create(ctx, userID)
}

// FindSessionByID looks up a session. Not-found and store failure both
// surface as errors; the refresh path folds them together on purpose.
func (s *AuthService) FindSessionByID(ctx context.Context, id string) (*model.Session, error) {
	return s.sessions.GetByID(ctx, id)
}
