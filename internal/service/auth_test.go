package service

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"testing"
	"time"

	"github.com/movielist/movielist-go/internal/crypto"
	"github.com/movielist/movielist-go/internal/model"
	"github.com/movielist/movielist-go/internal/repository"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type fakeUserStore struct {
	users map[string]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*model.User)}
}

func (s *fakeUserStore) Create(ctx context.Context, user *model.User) error {
	for _, u := range s.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	if user.ID.IsZero() {
		user.ID = bson.NewObjectID()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID.Hex()] = user
	return nil
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *fakeUserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

type fakeSessionStore struct {
	sessions map[string]*model.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*model.Session)}
}

func (s *fakeSessionStore) Create(ctx context.Context, userID bson.ObjectID) (*model.Session, error) {
	session := &model.Session{
		ID:     bson.NewObjectID(),
		UserID: userID,
		Valid:  true,
	}
	s.sessions[session.ID.Hex()] = session
	return session, nil
}

func (s *fakeSessionStore) GetByID(ctx context.Context, id string) (*model.Session, error) {
	session, ok := s.sessions[id]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

func (s *fakeSessionStore) Invalidate(ctx context.Context, id string) error {
	session, ok := s.sessions[id]
	if !ok {
		return repository.ErrSessionNotFound
	}
	session.Valid = false
	return nil
}

func genTestKeyPair(t *testing.T) (string, string) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}

	privPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("marshaling public key: %v", err)
	}
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})

	return base64.StdEncoding.EncodeToString(privPEM), base64.StdEncoding.EncodeToString(pubPEM)
}

func newTestCodec(t *testing.T) *crypto.Codec {
	t.Helper()

	accessPriv, accessPub := genTestKeyPair(t)
	refreshPriv, refreshPub := genTestKeyPair(t)

	codec, err := crypto.NewCodec(crypto.KeyMaterial{
		AccessPrivateKey:  accessPriv,
		AccessPublicKey:   accessPub,
		RefreshPrivateKey: refreshPriv,
		RefreshPublicKey:  refreshPub,
	})
	if err != nil {
		t.Fatalf("creating codec: %v", err)
	}

	return codec
}

func newTestAuthService(t *testing.T) (*AuthService, *fakeUserStore, *fakeSessionStore) {
	t.Helper()

	users := newFakeUserStore()
	sessions := newFakeSessionStore()
	svc := NewAuthService(users, sessions, newTestCodec(t), 15*time.Minute, time.Hour)
	return svc, users, sessions
}

func seedUser(t *testing.T, users *fakeUserStore, email, password string) *model.User {
	t.Helper()

	hash, err := crypto.HashPassword(password)
	if err != nil {
		t.Fatalf("hashing: %v", err)
	}

	user := &model.User{
		Email:     email,
		FirstName: "Jane",
		LastName:  "Doe",
		Password:  hash,
	}
	if err := users.Create(context.Background(), user); err != nil {
		t.Fatalf("seeding user: %v", err)
	}
	return user
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	_, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "nobody@example.com",
		Password: "password123",
	})

	if err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	seedUser(t, users, "jane@example.com", "password123")

	_, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "jane@example.com",
		Password: "password124",
	})

	if err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_WrongPasswordCreatesNoSession(t *testing.T) {
	svc, users, sessions := newTestAuthService(t)
	seedUser(t, users, "jane@example.com", "password123")

	svc.Login(context.Background(), model.LoginRequest{
		Email:    "jane@example.com",
		Password: "wrong",
	})

	if len(sessions.sessions) != 0 {
		t.Errorf("expected no sessions after failed login, got %d", len(sessions.sessions))
	}
}

func TestLogin_Success(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	user := seedUser(t, users, "jane@example.com", "password123")

	resp, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "jane@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := svc.codec.VerifyAccess(resp.AccessToken)
	if err != nil {
		t.Fatalf("access token did not verify: %v", err)
	}
	if claims.UserClaims.ID != user.ID.Hex() {
		t.Errorf("expected user id %q in claims, got %q", user.ID.Hex(), claims.UserClaims.ID)
	}
	if claims.Email != "jane@example.com" {
		t.Errorf("unexpected email in claims: %q", claims.Email)
	}

	if _, err := svc.codec.VerifyRefresh(resp.RefreshToken); err != nil {
		t.Fatalf("refresh token did not verify: %v", err)
	}
}

func TestLogin_EmailNormalized(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	seedUser(t, users, "jane@example.com", "password123")

	_, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "  Jane@Example.COM ",
		Password: "password123",
	})
	if err != nil {
		t.Errorf("expected case-insensitive email match, got %v", err)
	}
}

func TestLogin_DistinctSessions(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	seedUser(t, users, "jane@example.com", "password123")

	req := model.LoginRequest{Email: "jane@example.com", Password: "password123"}

	first, err := svc.Login(context.Background(), req)
	if err != nil {
		t.Fatalf("first login: %v", err)
	}
	second, err := svc.Login(context.Background(), req)
	if err != nil {
		t.Fatalf("second login: %v", err)
	}

	firstClaims, err := svc.codec.VerifyRefresh(first.RefreshToken)
	if err != nil {
		t.Fatalf("verifying first refresh token: %v", err)
	}
	secondClaims, err := svc.codec.VerifyRefresh(second.RefreshToken)
	if err != nil {
		t.Fatalf("verifying second refresh token: %v", err)
	}

	if firstClaims.SessionID == secondClaims.SessionID {
		t.Error("expected each login to create its own session")
	}
}

func TestRefresh_Success(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	user := seedUser(t, users, "jane@example.com", "password123")

	resp, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "jane@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	accessToken, err := svc.Refresh(context.Background(), resp.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}

	claims, err := svc.codec.VerifyAccess(accessToken)
	if err != nil {
		t.Fatalf("refreshed token did not verify: %v", err)
	}
	if claims.UserClaims.ID != user.ID.Hex() {
		t.Errorf("expected user id %q, got %q", user.ID.Hex(), claims.UserClaims.ID)
	}
}

func TestRefresh_ReflectsCurrentUserState(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	user := seedUser(t, users, "jane@example.com", "password123")

	resp, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "jane@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	users.users[user.ID.Hex()].FirstName = "Janet"

	accessToken, err := svc.Refresh(context.Background(), resp.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}

	claims, err := svc.codec.VerifyAccess(accessToken)
	if err != nil {
		t.Fatalf("verifying: %v", err)
	}
	if claims.FirstName != "Janet" {
		t.Errorf("expected refreshed token to carry current state, got %q", claims.FirstName)
	}
}

func TestRefresh_RevokedSession(t *testing.T) {
	svc, users, sessions := newTestAuthService(t)
	seedUser(t, users, "jane@example.com", "password123")

	resp, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "jane@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := svc.codec.VerifyRefresh(resp.RefreshToken)
	if err != nil {
		t.Fatalf("verifying refresh token: %v", err)
	}
	if err := sessions.Invalidate(context.Background(), claims.SessionID); err != nil {
		t.Fatalf("invalidating session: %v", err)
	}

	if _, err := svc.Refresh(context.Background(), resp.RefreshToken); err != ErrCouldNotRefresh {
		t.Errorf("expected ErrCouldNotRefresh for revoked session, got %v", err)
	}
}

func TestRefresh_GarbageToken(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	if _, err := svc.Refresh(context.Background(), "garbage"); err != ErrCouldNotRefresh {
		t.Errorf("expected ErrCouldNotRefresh, got %v", err)
	}
}

func TestRefresh_MissingUser(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	user := seedUser(t, users, "jane@example.com", "password123")

	resp, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "jane@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	delete(users.users, user.ID.Hex())

	if _, err := svc.Refresh(context.Background(), resp.RefreshToken); err != ErrCouldNotRefresh {
		t.Errorf("expected ErrCouldNotRefresh for deleted user, got %v", err)
	}
}
