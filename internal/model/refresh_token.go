package model

import "time"

// RefreshToken models an entry in the `refresh_tokens` ledger.  Each
// row belongs to a user and records a single issued refresh token.
// The plain token is never stored; only a salted one-way hash.  A row
// is marked revoked on logout or on rotation and never becomes valid
// again.
//
// Fields:
//  ID        – primary key (UUID).
//  UserID    – owner of the token.
//  TokenHash – bcrypt hash over the SHA-256 digest of the raw token.
//  ExpiresAt – expiration timestamp of the ledger entry.
//  Revoked   – whether the token has been invalidated.
//  IPAddress – client IP captured at issuance (audit, optional).
//  UserAgent – client user agent captured at issuance (audit, optional).
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type RefreshToken struct {
    ID        string    // refresh_tokens.id
    UserID    uint64    // refresh_tokens.user_id
    TokenHash string    // refresh_tokens.token_hash
    ExpiresAt time.Time // refresh_tokens.expires_at
    Revoked   bool      // refresh_tokens.revoked
    IPAddress string    // refresh_tokens.ip_address (may be empty)
    UserAgent string    // refresh_tokens.user_agent (may be empty)
    CreatedAt time.Time // refresh_tokens.created_at
    UpdatedAt time.Time // refresh_tokens.updated_at
}
