package crypto

import (
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/movielist/movielist-go/internal/model"
)

// ErrInvalidToken is the only error verification ever returns. Expired,
// tampered, malformed, and wrong-key tokens are indistinguishable to
// callers so that validation internals never leak.
var ErrInvalidToken = errors.New("invalid or expired token")

// AccessClaims carries a snapshot of the user's public fields taken at
// signing time, plus the standard registered claims.
type AccessClaims struct {
	model.UserClaims
	jwt.RegisteredClaims
}

// RefreshClaims carries only the id of the session the token refers to.
// Its authority is indirect: the session's validity is rechecked on
// every use.
type RefreshClaims struct {
	SessionID string `json:"session"`
	jwt.RegisteredClaims
}

// KeyMaterial holds the four signing keys as base64-encoded PEM, as
// they arrive from configuration.
type KeyMaterial struct {
	AccessPrivateKey  string
	AccessPublicKey   string
	RefreshPrivateKey string
	RefreshPublicKey  string
}

// Codec signs and verifies tokens with RS256 using two independent RSA
// key pairs, one per token role.
type Codec struct {
	accessPrivate  *rsa.PrivateKey
	accessPublic   *rsa.PublicKey
	refreshPrivate *rsa.PrivateKey
	refreshPublic  *rsa.PublicKey
}

// NewCodec parses the configured key material. A missing or malformed
// key is a deployment-configuration error; the caller should abort
// startup.
func NewCodec(keys KeyMaterial) (*Codec, error) {
	c := &Codec{}
	var err error

	if c.accessPrivate, err = parsePrivateKey(keys.AccessPrivateKey); err != nil {
		return nil, fmt.Errorf("access token private key: %w", err)
	}
	if c.accessPublic, err = parsePublicKey(keys.AccessPublicKey); err != nil {
		return nil, fmt.Errorf("access token public key: %w", err)
	}
	if c.refreshPrivate, err = parsePrivateKey(keys.RefreshPrivateKey); err != nil {
		return nil, fmt.Errorf("refresh token private key: %w", err)
	}
	if c.refreshPublic, err = parsePublicKey(keys.RefreshPublicKey); err != nil {
		return nil, fmt.Errorf("refresh token public key: %w", err)
	}

	return c, nil
}

// SignAccess signs a short-lived access token embedding the user snapshot.
func (c *Codec) SignAccess(user model.UserClaims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		UserClaims: user,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(c.accessPrivate)
}

// SignRefresh signs a long-lived refresh token referencing a session id.
func (c *Codec) SignRefresh(sessionID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := RefreshClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(c.refreshPrivate)
}

// VerifyAccess verifies a token against the access public key.
func (c *Codec) VerifyAccess(tokenString string) (*AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, c.keyFunc(c.accessPublic))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// VerifyRefresh verifies a token against the refresh public key.
func (c *Codec) VerifyRefresh(tokenString string) (*RefreshClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &RefreshClaims{}, c.keyFunc(c.refreshPublic))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*RefreshClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (c *Codec) keyFunc(key *rsa.PublicKey) jwt.Keyfunc {
	return func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, ErrInvalidToken
		}
		return key, nil
	}
}

func parsePrivateKey(encoded string) (*rsa.PrivateKey, error) {
	pemBytes, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decoding base64: %w", err)
	}
	return jwt.ParseRSAPrivateKeyFromPEM(pemBytes)
}

func parsePublicKey(encoded string) (*rsa.PublicKey, error) {
	pemBytes, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decoding base64: %w", err)
	}
	return jwt.ParseRSAPublicKeyFromPEM(pemBytes)
}
