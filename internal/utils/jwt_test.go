package utils

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/model"
)

const testSecret = "unit-test-secret"

func testUser() model.User {
    return model.User{
        ID:    42,
        Email: "waiter@example.com",
        Role:  model.RoleWaiter,
    }
}

func TestAccessTokenRoundTrip(t *testing.T) {
    tok, err := NewAccessToken(testSecret, testUser(), time.Minute)
    require.NoError(t, err)
    require.NotEmpty(t, tok.Token)

    claims, err := VerifyAccess(testSecret, tok.Token)
    require.NoError(t, err)
    assert.Equal(t, "42", claims.Subject)
    assert.Equal(t, "waiter@example.com", claims.Email)
    assert.Equal(t, "waiter", claims.Role)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
    tok, err := NewRefreshToken(testSecret, 42, time.Hour)
    require.NoError(t, err)

    claims, err := VerifyRefresh(testSecret, tok.Token)
    require.NoError(t, err)
    assert.Equal(t, "42", claims.Subject)
    assert.Equal(t, "refresh", claims.TokenType)
}

func TestVerifyAccessRejectsRefreshToken(t *testing.T) {
    tok, err := NewRefreshToken(testSecret, 42, time.Hour)
    require.NoError(t, err)

    _, err = VerifyAccess(testSecret, tok.Token)
    assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyRefreshRejectsAccessToken(t *testing.T) {
    tok, err := NewAccessToken(testSecret, testUser(), time.Minute)
    require.NoError(t, err)

    _, err = VerifyRefresh(testSecret, tok.Token)
    assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyExpiredToken(t *testing.T) {
    tok, err := NewAccessToken(testSecret, testUser(), -time.Minute)
    require.NoError(t, err)

    _, err = VerifyAccess(testSecret, tok.Token)
    assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyWrongSecret(t *testing.T) {
    tok, err := NewAccessToken(testSecret, testUser(), time.Minute)
    require.NoError(t, err)

    _, err = VerifyAccess("some-other-secret", tok.Token)
    assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyGarbage(t *testing.T) {
    _, err := VerifyAccess(testSecret, "not.a.jwt")
    assert.ErrorIs(t, err, ErrTokenInvalid)

    _, err = VerifyRefresh(testSecret, "")
    assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestUserIDFromSubject(t *testing.T) {
    id, err := UserIDFromSubject("42")
    require.NoError(t, err)
    assert.Equal(t, uint64(42), id)

    _, err = UserIDFromSubject("0")
    assert.ErrorIs(t, err, ErrTokenInvalid)

    _, err = UserIDFromSubject("abc")
    assert.ErrorIs(t, err, ErrTokenInvalid)
}
