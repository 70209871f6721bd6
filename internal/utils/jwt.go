package utils // package utils provides helper functions for token creation and hashing

import (
    "errors"
    "fmt"
    "strconv"
    "time" // time utilities for generating expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// AccessToken represents a signed JWT access token along with its expiry.
// Admin clients send it in the Authorization header when calling the
// facility management endpoints.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// Claims is the payload of an admin access token.  Subject holds the
// admin ID in decimal.
type Claims struct {
    Role string `json:"role"`
    jwt.RegisteredClaims
}

// ErrInvalidToken is returned by ParseAccessToken for any token that is
// malformed, expired or signed with another key or algorithm.
var ErrInvalidToken = errors.New("invalid token")

// NewAccessToken builds and signs an HS256 JWT for an admin.  It takes
// the signing secret, the admin ID, the role and a TTL in minutes.
func NewAccessToken(secret string, adminID uint64, role string, ttlMin int) (AccessToken, error) {
    now := time.Now().UTC()
    exp := now.Add(time.Duration(ttlMin) * time.Minute)
    claims := Claims{
        Role: role,
        RegisteredClaims: jwt.RegisteredClaims{
            Subject:   strconv.FormatUint(adminID, 10),
            ExpiresAt: jwt.NewNumericDate(exp),
            IssuedAt:  jwt.NewNumericDate(now),
        },
    }
    signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies raw with secret and returns its claims.  Only
// HS256 is accepted.
func ParseAccessToken(secret, raw string) (*Claims, error) {
    claims := &Claims{}
    tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
        return []byte(secret), nil
    }, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
    if err != nil {
        return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
    }
    if !tok.Valid {
        return nil, ErrInvalidToken
    }
    return claims, nil
}

// AdminID returns the subject of c as an admin ID.
func (c *Claims) AdminID() (uint64, error) {
    id, err := strconv.ParseUint(c.Subject, 10, 64)
    if err != nil {
        return 0, fmt.Errorf("%w: bad subject %q", ErrInvalidToken, c.Subject)
    }
    return id, nil
}
