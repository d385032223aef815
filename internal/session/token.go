package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid visitor token")
	ErrExpiredToken = errors.New("visitor token has expired")
)

// VisitorClaims are carried in the visitor cookie.
type VisitorClaims struct {
	VisitorID string `json:"vid"`
	jwt.RegisteredClaims
}

// Signer issues and validates visitor tokens.
type Signer struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

func NewSigner(secretKey string, ttl time.Duration) *Signer {
	return &Signer{secretKey: []byte(secretKey), ttl: ttl, now: time.Now}
}

// Issue creates a signed token for visitorID.
func (s *Signer) Issue(visitorID string) (string, error) {
	now := s.now()
	claims := VisitorClaims{
		VisitorID: visitorID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   visitorID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// Validate checks tokenString and returns its claims.
func (s *Signer) Validate(tokenString string) (*VisitorClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &VisitorClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secretKey, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*VisitorClaims)
	if !ok || !token.Valid || claims.VisitorID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
