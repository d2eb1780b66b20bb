package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token types carried in the typ claim.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload of both access and refresh tokens.
// For access tokens the subject is the user id, for refresh tokens the session id.
type Claims struct {
	Type string `json:"typ"`
	jwt.RegisteredClaims
}

// Signer issues and verifies HS256 tokens. Access and refresh tokens are
// signed with separate secrets.
type Signer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewSigner(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Signer {
	return &Signer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

func (s *Signer) AccessTTL() time.Duration  { return s.accessTTL }
func (s *Signer) RefreshTTL() time.Duration { return s.refreshTTL }

// SignAccess creates an access token whose subject is the user id.
func (s *Signer) SignAccess(subject string) (string, error) {
	token, _, err := s.sign(TypeAccess, subject, s.accessSecret, s.accessTTL)
	return token, err
}

// SignRefresh creates a refresh token whose subject is the session id and
// returns its expiry so the caller can persist the same instant.
func (s *Signer) SignRefresh(subject string) (string, time.Time, error) {
	return s.sign(TypeRefresh, subject, s.refreshSecret, s.refreshTTL)
}

func (s *Signer) sign(typ, subject string, secret []byte, ttl time.Duration) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(ttl)

	claims := &Claims{
		Type: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign %s token: %w", typ, err)
	}
	return signed, expiresAt, nil
}

// VerifyAccess validates an access token and returns its claims.
func (s *Signer) VerifyAccess(tokenString string) (*Claims, error) {
	return s.verify(tokenString, TypeAccess, s.accessSecret)
}

// VerifyRefresh validates a refresh token and returns its claims.
func (s *Signer) VerifyRefresh(tokenString string) (*Claims, error) {
	return s.verify(tokenString, TypeRefresh, s.refreshSecret)
}

func (s *Signer) verify(tokenString, typ string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Type != typ {
		return nil, fmt.Errorf("%w: unexpected token type %q", ErrInvalidToken, claims.Type)
	}
	return claims, nil
}
