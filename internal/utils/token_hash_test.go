package utils

import (
    "strings"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "golang.org/x/crypto/bcrypt"
)

func TestHashRefreshRawMatch(t *testing.T) {
    raw := "header.payload.signature-of-a-fairly-long-refresh-token"

    hash, err := HashRefreshRaw(raw, bcrypt.MinCost)
    require.NoError(t, err)

    assert.NotEqual(t, raw, hash)
    assert.False(t, strings.Contains(hash, raw))
    assert.True(t, MatchRefreshRaw(hash, raw))
    assert.False(t, MatchRefreshRaw(hash, raw+"x"))
}

func TestHashRefreshRawSalted(t *testing.T) {
    raw := "same-token-hashed-twice"

    h1, err := HashRefreshRaw(raw, bcrypt.MinCost)
    require.NoError(t, err)
    h2, err := HashRefreshRaw(raw, bcrypt.MinCost)
    require.NoError(t, err)

    // bcrypt salts, so equal inputs never produce equal digests.
    assert.NotEqual(t, h1, h2)
    assert.True(t, MatchRefreshRaw(h1, raw))
    assert.True(t, MatchRefreshRaw(h2, raw))
}

// Signed tokens share a long common prefix; the SHA-256 pre-hash must
// keep tokens distinguishable past bcrypt's 72-byte input limit.
func TestHashRefreshRawLongCommonPrefix(t *testing.T) {
    prefix := strings.Repeat("a", 100)

    hash, err := HashRefreshRaw(prefix+"-one", bcrypt.MinCost)
    require.NoError(t, err)

    assert.True(t, MatchRefreshRaw(hash, prefix+"-one"))
    assert.False(t, MatchRefreshRaw(hash, prefix+"-two"))
}

func TestPasswordRoundTrip(t *testing.T) {
    hash, err := HashPassword("s3cret-pass", bcrypt.MinCost)
    require.NoError(t, err)

    assert.True(t, VerifyPassword(hash, "s3cret-pass"))
    assert.False(t, VerifyPassword(hash, "wrong-pass"))
}
