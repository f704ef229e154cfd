package services

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
)

// JWTVerifier validates HS256 bearer tokens signed with a shared secret
type JWTVerifier struct {
	Secret []byte
}

// Claims are the token claims this service reads
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// VerifyToken implements TokenVerifier. Signature, expiry and not-before are checked.
func (v *JWTVerifier) VerifyToken(ctx context.Context, token string) (*Identity, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.Secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &Identity{UID: claims.Subject, Email: claims.Email}, nil
}

// SignToken issues a token for uid; used by tooling and tests
func (v *JWTVerifier) SignToken(claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.Secret)
}
