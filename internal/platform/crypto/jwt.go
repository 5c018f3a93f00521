package crypto

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// UserID returns the numeric subject of the token.
func (c *Claims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// Identity is what a token asserts about its bearer.
type Identity struct {
	UserID   int64
	Username string
	Email    string
}

type IssuedToken struct {
	Token     string
	ID        string
	ExpiresAt time.Time
}

// TokenIssuer signs and verifies HS256 bearer tokens bound to one issuer and
// audience.
type TokenIssuer struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

func NewTokenIssuer(secret, issuer, audience string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (ti *TokenIssuer) TTL() time.Duration { return ti.ttl }

func (ti *TokenIssuer) Issue(id Identity) (IssuedToken, error) {
	jti, err := uuid.NewRandom()
	if err != nil {
		return IssuedToken{}, fmt.Errorf("generate token id: %w", err)
	}

	now := ti.now()
	expiresAt := now.Add(ti.ttl)

	c := Claims{
		Username: id.Username,
		Email:    id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti.String(),
			Subject:   strconv.FormatInt(id.UserID, 10),
			Issuer:    ti.issuer,
			Audience:  jwt.ClaimStrings{ti.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(ti.secret)
	if err != nil {
		return IssuedToken{}, fmt.Errorf("sign token: %w", err)
	}

	return IssuedToken{
		Token:     tokenStr,
		ID:        c.ID,
		ExpiresAt: expiresAt,
	}, nil
}

// Parse verifies signature, algorithm, expiry, issuer and audience.
func (ti *TokenIssuer) Parse(tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return ti.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(ti.issuer),
		jwt.WithAudience(ti.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ti.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, jwt.ErrTokenInvalidClaims)
	}
	if _, err := claims.UserID(); err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return claims, nil
}
