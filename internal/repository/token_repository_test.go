package repository

import (
    "context"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "golang.org/x/crypto/bcrypt"

    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/utils"
)

func newTokenRepoMock(t *testing.T) (*TokenRepo, sqlmock.Sqlmock) {
    t.Helper()
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() { db.Close() })
    return NewTokenRepo(db, bcrypt.MinCost), mock
}

func TestTokenSaveNeverStoresPlaintext(t *testing.T) {
    repo, mock := newTokenRepoMock(t)
    raw := "signed.refresh.token"

    mock.ExpectExec("INSERT INTO refresh_tokens").
        WillReturnResult(sqlmock.NewResult(0, 1))

    rec, err := repo.Save(context.Background(), 7, raw, "10.0.0.1", "agent", time.Now().Add(time.Hour))
    require.NoError(t, err)

    assert.NotEmpty(t, rec.ID)
    assert.NotEqual(t, raw, rec.TokenHash)
    assert.NotContains(t, rec.TokenHash, raw)
    assert.True(t, utils.MatchRefreshRaw(rec.TokenHash, raw))
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenFindMatch(t *testing.T) {
    repo, mock := newTokenRepoMock(t)

    h1, err := utils.HashRefreshRaw("token-one", bcrypt.MinCost)
    require.NoError(t, err)
    h2, err := utils.HashRefreshRaw("token-two", bcrypt.MinCost)
    require.NoError(t, err)

    now := time.Now().UTC()
    cols := []string{"id", "user_id", "token_hash", "expires_at", "revoked", "ip_address", "user_agent", "created_at", "updated_at"}
    mock.ExpectQuery("SELECT (.+) FROM refresh_tokens WHERE user_id=(.+) AND revoked=0").
        WithArgs(uint64(7)).
        WillReturnRows(sqlmock.NewRows(cols).
            AddRow("id-1", 7, h1, now.Add(time.Hour), false, "10.0.0.1", "agent", now, now).
            AddRow("id-2", 7, h2, now.Add(time.Hour), false, nil, nil, now, now))

    rec, err := repo.FindMatch(context.Background(), 7, "token-two")
    require.NoError(t, err)
    assert.Equal(t, "id-2", rec.ID)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenFindMatchNoCandidate(t *testing.T) {
    repo, mock := newTokenRepoMock(t)

    cols := []string{"id", "user_id", "token_hash", "expires_at", "revoked", "ip_address", "user_agent", "created_at", "updated_at"}
    mock.ExpectQuery("SELECT (.+) FROM refresh_tokens WHERE user_id=(.+) AND revoked=0").
        WithArgs(uint64(7)).
        WillReturnRows(sqlmock.NewRows(cols))

    _, err := repo.FindMatch(context.Background(), 7, "whatever")
    assert.ErrorIs(t, err, ErrNoActiveToken)
    assert.NoError(t, mock.ExpectationsWereMet())
}

// Revoke is guarded on revoked=0: the first caller flips the row and
// wins, the second finds nothing to update and loses.
func TestTokenRevokeCompareAndSwap(t *testing.T) {
    repo, mock := newTokenRepoMock(t)

    mock.ExpectExec("UPDATE refresh_tokens SET revoked=1, updated_at=NOW\\(\\) WHERE id=(.+) AND revoked=0").
        WithArgs("id-1").
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec("UPDATE refresh_tokens SET revoked=1, updated_at=NOW\\(\\) WHERE id=(.+) AND revoked=0").
        WithArgs("id-1").
        WillReturnResult(sqlmock.NewResult(0, 0))

    won, err := repo.Revoke(context.Background(), "id-1")
    require.NoError(t, err)
    assert.True(t, won)

    won, err = repo.Revoke(context.Background(), "id-1")
    require.NoError(t, err)
    assert.False(t, won)

    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRevokeAll(t *testing.T) {
    repo, mock := newTokenRepoMock(t)

    mock.ExpectExec("UPDATE refresh_tokens SET revoked=1, updated_at=NOW\\(\\) WHERE user_id=(.+) AND revoked=0").
        WithArgs(uint64(7)).
        WillReturnResult(sqlmock.NewResult(0, 3))

    require.NoError(t, repo.RevokeAll(context.Background(), 7))
    assert.NoError(t, mock.ExpectationsWereMet())
}
