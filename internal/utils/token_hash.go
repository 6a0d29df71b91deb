package utils

import (
    "crypto/sha256"
    "encoding/hex"

    "golang.org/x/crypto/bcrypt"
)

// Refresh tokens are stored as bcrypt(sha256(raw)).  The SHA-256
// pre-hash keeps the bcrypt input at 64 hex characters; bcrypt alone
// truncates at 72 bytes, and signed tokens share a long common prefix.
// bcrypt salts every hash, so equal tokens produce different digests
// and the ledger cannot be matched by equality — lookups hash-compare
// candidate rows one by one.

// HashRefreshRaw returns the salted one-way hash of a raw refresh
// token, suitable for persisting in the ledger.
func HashRefreshRaw(raw string, cost int) (string, error) {
    sum := sha256.Sum256([]byte(raw))
    b, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(sum[:])), cost)
    if err != nil {
        return "", err
    }
    return string(b), nil
}

// MatchRefreshRaw reports whether hash was produced from raw.
func MatchRefreshRaw(hash, raw string) bool {
    sum := sha256.Sum256([]byte(raw))
    return bcrypt.CompareHashAndPassword([]byte(hash), []byte(hex.EncodeToString(sum[:]))) == nil
}
