package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/google/uuid"

    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/model"
    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/utils"
)

// TokenRepo is the refresh token ledger: a durable, revocable record
// of issued refresh tokens.  Only salted hashes are stored, so a row
// cannot be located by equality on the token value; FindMatch scans a
// user's live rows and hash-compares each candidate.  Per-user live
// token counts stay in the single digits, so the scan is cheap.
type TokenRepo struct {
    DB   *sql.DB
    Cost int // bcrypt cost for token hashing
}

func NewTokenRepo(db *sql.DB, cost int) *TokenRepo { return &TokenRepo{DB: db, Cost: cost} }

// Save hashes raw and inserts a ledger row for userID.  ip and
// userAgent are optional audit metadata.  The persisted record is
// returned with its generated UUID.
func (r *TokenRepo) Save(ctx context.Context, userID uint64, raw, ip, userAgent string, expiresAt time.Time) (model.RefreshToken, error) {
    hash, err := utils.HashRefreshRaw(raw, r.Cost)
    if err != nil {
        return model.RefreshToken{}, err
    }
    rec := model.RefreshToken{
        ID:        uuid.NewString(),
        UserID:    userID,
        TokenHash: hash,
        ExpiresAt: expiresAt.UTC(),
        IPAddress: ip,
        UserAgent: userAgent,
    }
    _, err = r.DB.ExecContext(ctx,
        "INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, revoked, ip_address, user_agent) VALUES (?,?,?,?,0,?,?)",
        rec.ID, rec.UserID, rec.TokenHash, rec.ExpiresAt, rec.IPAddress, rec.UserAgent)
    if err != nil {
        return model.RefreshToken{}, err
    }
    return rec, nil
}

// FindMatch returns the non-revoked ledger row for userID whose hash
// matches raw, or ErrNoActiveToken when no candidate matches.  Expiry
// is not checked here; the caller enforces it so an expired match is
// distinguishable in tests and logs.
func (r *TokenRepo) FindMatch(ctx context.Context, userID uint64, raw string) (model.RefreshToken, error) {
    rows, err := r.DB.QueryContext(ctx,
        "SELECT id, user_id, token_hash, expires_at, revoked, ip_address, user_agent, created_at, updated_at FROM refresh_tokens WHERE user_id=? AND revoked=0",
        userID)
    if err != nil {
        return model.RefreshToken{}, err
    }
    defer rows.Close()

    for rows.Next() {
        var (
            rec     model.RefreshToken
            ip, ua  sql.NullString
            revoked bool
        )
        if err := rows.Scan(&rec.ID, &rec.UserID, &rec.TokenHash, &rec.ExpiresAt, &revoked, &ip, &ua, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
            return model.RefreshToken{}, err
        }
        rec.Revoked = revoked
        rec.IPAddress = ip.String
        rec.UserAgent = ua.String
        if utils.MatchRefreshRaw(rec.TokenHash, raw) {
            return rec, nil
        }
    }
    if err := rows.Err(); err != nil {
        return model.RefreshToken{}, err
    }
    return model.RefreshToken{}, ErrNoActiveToken
}

// Revoke marks a ledger row revoked and reports whether this call
// performed the transition.  The update is guarded on revoked=0, so
// when two rotations race over the same token only one observes
// won=true; the loser fails closed.  Calling Revoke on an already
// revoked row is a no-op.
func (r *TokenRepo) Revoke(ctx context.Context, id string) (won bool, err error) {
    res, err := r.DB.ExecContext(ctx,
        "UPDATE refresh_tokens SET revoked=1, updated_at=NOW() WHERE id=? AND revoked=0", id)
    if err != nil {
        return false, err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return false, err
    }
    return n > 0, nil
}

// RevokeAll revokes every live token of a user.  Used by logout;
// idempotent by construction.
func (r *TokenRepo) RevokeAll(ctx context.Context, userID uint64) error {
    _, err := r.DB.ExecContext(ctx,
        "UPDATE refresh_tokens SET revoked=1, updated_at=NOW() WHERE user_id=? AND revoked=0", userID)
    return err
}
