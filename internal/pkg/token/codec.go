// internal/pkg/token/codec.go
package token

import (
	"fmt"
	"time"

	xerrors "jobmatch-service/internal/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

// Codec mints and verifies signed session credentials (HS256).
type Codec struct {
	signingKey []byte
	issuer     string
	audience   string
	ttl        time.Duration
	now        func() time.Time
}

// NewCodec builds a codec from a signing secret. A missing secret is a
// configuration error and fails construction, never a later runtime error.
func NewCodec(secret, issuer, audience string, ttl time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, fmt.Errorf("token codec: signing secret is not configured")
	}
	return &Codec{
		signingKey: []byte(secret),
		issuer:     issuer,
		audience:   audience,
		ttl:        ttl,
		now:        time.Now,
	}, nil
}

// Mint signs the given identity claims with issued-at now and expiry now+TTL.
func (c *Codec) Mint(userID, email, name string, isApproved bool) (string, error) {
	now := c.now()
	claims := &Claims{
		UserID:     userID,
		Email:      email,
		Name:       name,
		IsApproved: isApproved,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   userID,
			Audience:  []string{c.audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        ulid.Make().String(),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(c.signingKey)
}

// Verify checks signature and expiry. Malformed input, a bad signature and an
// expired credential all collapse to ErrInvalidToken; callers must not
// distinguish them.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return c.signingKey, nil
	}, jwt.WithTimeFunc(c.now))
	if err != nil {
		return nil, xerrors.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, xerrors.ErrInvalidToken
	}

	if c.issuer != "" && claims.Issuer != c.issuer {
		return nil, xerrors.ErrInvalidToken
	}

	return claims, nil
}
