package utils

import (
    "testing"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "golang.org/x/crypto/bcrypt"
)

func TestAccessToken_RoundTrip(t *testing.T) {
    tok, err := NewAccessToken("secret", 42, "ADMIN", 15)
    require.NoError(t, err)
    assert.WithinDuration(t, time.Now().Add(15*time.Minute), tok.Exp, 5*time.Second)

    claims, err := ParseAccessToken("secret", tok.Token)
    require.NoError(t, err)
    assert.Equal(t, "ADMIN", claims.Role)
    id, err := claims.AdminID()
    require.NoError(t, err)
    assert.Equal(t, uint64(42), id)
}

func TestParseAccessToken_Rejects(t *testing.T) {
    good, err := NewAccessToken("secret", 1, "ADMIN", 15)
    require.NoError(t, err)
    expired, err := NewAccessToken("secret", 1, "ADMIN", -1)
    require.NoError(t, err)
    none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "1", "role": "ADMIN"}).
        SignedString(jwt.UnsafeAllowNoneSignatureType)
    require.NoError(t, err)

    cases := map[string]struct{ secret, raw string }{
        "wrong secret": {"other", good.Token},
        "expired":      {"secret", expired.Token},
        "alg none":     {"secret", none},
        "garbage":      {"secret", "not.a.token"},
    }
    for name, tc := range cases {
        t.Run(name, func(t *testing.T) {
            _, err := ParseAccessToken(tc.secret, tc.raw)
            assert.ErrorIs(t, err, ErrInvalidToken)
        })
    }
}

func TestPassword(t *testing.T) {
    hash, err := HashPassword("hunter2", bcrypt.MinCost)
    require.NoError(t, err)
    assert.True(t, VerifyPassword(hash, "hunter2"))
    assert.False(t, VerifyPassword(hash, "hunter3"))
    assert.False(t, VerifyPassword("not-a-hash", "hunter2"))
}

func TestHashPassword_CostOutOfRange(t *testing.T) {
    hash, err := HashPassword("pw", 99)
    require.NoError(t, err)
    cost, err := bcrypt.Cost([]byte(hash))
    require.NoError(t, err)
    assert.Equal(t, bcrypt.DefaultCost, cost)
    assert.False(t, RejectPassword("pw"))
}
