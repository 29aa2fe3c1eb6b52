package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the identity payload minted by the authentication provider. The
// service only ever verifies and reads it.
type Claims struct {
	UserID     string `json:"user_id"`
	Email      string `json:"email"`
	SignedUpAt int64  `json:"signed_up_at,omitempty"`

	jwt.RegisteredClaims
}

func (c Claims) SignedUpTime() *time.Time {
	if c.SignedUpAt <= 0 {
		return nil
	}
	t := time.Unix(c.SignedUpAt, 0).UTC()
	return &t
}

type JWT struct {
	Secret []byte
}

func (j JWT) Verify(token string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return j.Secret, nil
	})
	if err != nil {
		return Claims{}, err
	}
	c, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Claims{}, errors.New("invalid token")
	}
	return *c, nil
}
