package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/movielist/movielist-go/internal/crypto"
	"github.com/movielist/movielist-go/internal/model"
)

func genKeyPair(t *testing.T) (string, string) {
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

	accessPriv, accessPub := genKeyPair(t)
	refreshPriv, refreshPub := genKeyPair(t)

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

func TestIdentity_NoHeader(t *testing.T) {
	codec := newTestCodec(t)

	var got *model.UserClaims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	Identity(codec)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected anonymous request to pass through, got %d", rec.Code)
	}
	if got != nil {
		t.Error("expected no identity without a token")
	}
}

func TestIdentity_InvalidToken(t *testing.T) {
	codec := newTestCodec(t)

	var got *model.UserClaims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")

	rec := httptest.NewRecorder()
	Identity(codec)(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected bad token to pass through unauthenticated, got %d", rec.Code)
	}
	if got != nil {
		t.Error("expected no identity for an invalid token")
	}
}

func TestIdentity_ValidToken(t *testing.T) {
	codec := newTestCodec(t)

	token, err := codec.SignAccess(model.UserClaims{
		ID:    "64f1b2c3d4e5f60718293a4b",
		Email: "jane@example.com",
	}, time.Minute)
	if err != nil {
		t.Fatalf("signing: %v", err)
	}

	var got *model.UserClaims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	Identity(codec)(next).ServeHTTP(rec, req)

	if got == nil {
		t.Fatal("expected identity to be attached")
	}
	if got.Email != "jane@example.com" {
		t.Errorf("unexpected email %q", got.Email)
	}
}

func TestRequireUser_NoIdentity(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run without an identity")
	})

	rec := httptest.NewRecorder()
	RequireUser(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}

func TestRequireUser_WithIdentity(t *testing.T) {
	codec := newTestCodec(t)

	token, err := codec.SignAccess(model.UserClaims{ID: "abc"}, time.Minute)
	if err != nil {
		t.Fatalf("signing: %v", err)
	}

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	Identity(codec)(RequireUser(next)).ServeHTTP(rec, req)

	if !called {
		t.Error("expected handler to run for an authenticated request")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
