package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any token that fails verification: bad
// signature, unexpected algorithm, malformed payload, missing id or expiry
// in the past.
var ErrInvalidToken = errors.New("invalid token")

// AccessToken is a signed bearer token along with its expiry.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// Claims carries the user id next to the registered claims.  The id is
// duplicated into "sub" for clients that only read standard claims.
type Claims struct {
	ID string `json:"id"`
	jwt.RegisteredClaims
}

// NewAccessToken builds and signs an HS256 JWT for userID that expires ttl
// from now.
func NewAccessToken(secret, userID string, ttl time.Duration) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := Claims{
		ID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, fmt.Errorf("sign token: %w", err)
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies raw against secret and returns the embedded
// user id.  Only the signature and the expiry are checked; nothing is
// looked up in the store.
func ParseAccessToken(secret, raw string) (string, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tok.Valid || claims.ID == "" {
		return "", ErrInvalidToken
	}
	return claims.ID, nil
}

// TokenIssuer binds the process-wide signing secret and token lifetime.
type TokenIssuer struct {
	Secret string
	TTL    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{Secret: secret, TTL: ttl}
}

// Issue signs a token for userID.
func (t *TokenIssuer) Issue(userID string) (AccessToken, error) {
	return NewAccessToken(t.Secret, userID, t.TTL)
}

// Verify returns the user id carried by raw.
func (t *TokenIssuer) Verify(raw string) (string, error) {
	return ParseAccessToken(t.Secret, raw)
}
