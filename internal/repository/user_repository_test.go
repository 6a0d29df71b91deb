package repository

import (
    "context"
    "errors"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/model"
)

func newUserRepoMock(t *testing.T) (*UserRepo, sqlmock.Sqlmock) {
    t.Helper()
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() { db.Close() })
    return NewUserRepo(db), mock
}

func userRows(u model.User) *sqlmock.Rows {
    return sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "role", "status", "created_at", "updated_at"}).
        AddRow(u.ID, u.Username, u.Email, u.PasswordHash, u.Role, u.Status, time.Now(), time.Now())
}

func TestUserCreateNormalizesEmail(t *testing.T) {
    repo, mock := newUserRepoMock(t)

    mock.ExpectExec("INSERT INTO users").
        WithArgs("Maria", "maria@example.com", "hash", model.RoleCustomer, model.StatusActive).
        WillReturnResult(sqlmock.NewResult(5, 1))

    id, err := repo.Create(context.Background(), model.User{
        Username:     "Maria",
        Email:        "  MARIA@Example.COM ",
        PasswordHash: "hash",
        Role:         model.RoleCustomer,
        Status:       model.StatusActive,
    })
    require.NoError(t, err)
    assert.Equal(t, uint64(5), id)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreateDuplicateEmail(t *testing.T) {
    repo, mock := newUserRepoMock(t)

    mock.ExpectExec("INSERT INTO users").
        WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'maria@example.com' for key 'users.email'"))

    _, err := repo.Create(context.Background(), model.User{Email: "maria@example.com"})
    assert.ErrorIs(t, err, ErrEmailExists)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserGetByEmail(t *testing.T) {
    repo, mock := newUserRepoMock(t)

    u := model.User{ID: 5, Username: "maria", Email: "maria@example.com", PasswordHash: "hash", Role: model.RoleCustomer, Status: model.StatusActive}
    mock.ExpectQuery("SELECT (.+) FROM users WHERE email=(.+) LIMIT 1").
        WithArgs("maria@example.com").
        WillReturnRows(userRows(u))

    got, err := repo.GetByEmail(context.Background(), "MARIA@example.com")
    require.NoError(t, err)
    assert.Equal(t, uint64(5), got.ID)
    assert.Equal(t, model.RoleCustomer, got.Role)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserGetByIDNotFound(t *testing.T) {
    repo, mock := newUserRepoMock(t)

    mock.ExpectQuery("SELECT (.+) FROM users WHERE id=(.+) LIMIT 1").
        WithArgs(uint64(99)).
        WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "role", "status", "created_at", "updated_at"}))

    _, err := repo.GetByID(context.Background(), 99)
    assert.ErrorIs(t, err, ErrNotFound)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserAdminExists(t *testing.T) {
    repo, mock := newUserRepoMock(t)

    mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM users WHERE role=(.+)").
        WithArgs(model.RoleAdmin).
        WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

    exists, err := repo.AdminExists(context.Background())
    require.NoError(t, err)
    assert.False(t, exists)

    mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM users WHERE role=(.+)").
        WithArgs(model.RoleAdmin).
        WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

    exists, err = repo.AdminExists(context.Background())
    require.NoError(t, err)
    assert.True(t, exists)

    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserSetStatusNotFound(t *testing.T) {
    repo, mock := newUserRepoMock(t)

    mock.ExpectExec("UPDATE users SET status=(.+) WHERE id=(.+)").
        WithArgs(model.StatusInactive, uint64(99)).
        WillReturnResult(sqlmock.NewResult(0, 0))

    err := repo.SetStatus(context.Background(), 99, model.StatusInactive)
    assert.ErrorIs(t, err, ErrNotFound)
    assert.NoError(t, mock.ExpectationsWereMet())
}
