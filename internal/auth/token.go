// Package auth signs the persistent login tokens kept by session clients
// and checks passwords against bcrypt hashes.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenName is the storage key used when none is configured
const DefaultTokenName = "fpick_auth_token"

// ErrTokenName is returned for a token that was signed for another name
var ErrTokenName = errors.New("token name mismatch")

// Claims holds JWT token claims.
type Claims struct {
	Username  string `json:"username"`
	TokenName string `json:"token_name"`
	jwt.RegisteredClaims
}

// Signer issues and verifies HS256 login tokens
type Signer struct {
	secret    []byte
	tokenName string
	expire    time.Duration
	now       func() time.Time
}

// NewSigner creates a signer. Tokens stay valid for expireDays.
func NewSigner(secret, tokenName string, expireDays int) *Signer {
	if tokenName == "" {
		tokenName = DefaultTokenName
	}
	return &Signer{
		secret:    []byte(secret),
		tokenName: tokenName,
		expire:    time.Duration(expireDays) * 24 * time.Hour,
		now:       time.Now,
	}
}

// TokenName returns the key the token is stored under on the client
func (s *Signer) TokenName() string {
	return s.tokenName
}

// Sign returns a token carrying username
func (s *Signer) Sign(username string) (string, error) {
	now := s.now()
	claims := &Claims{
		Username:  username,
		TokenName: s.tokenName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expire)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "fpick",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, token name and expiry and returns the username
func (s *Signer) Verify(tokenStr string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithExpirationRequired(), jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}
	if claims.TokenName != s.tokenName {
		return "", ErrTokenName
	}
	if claims.Username == "" {
		return "", fmt.Errorf("token has no username")
	}
	return claims.Username, nil
}
