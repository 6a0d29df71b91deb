package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/model"
)

// UserRepo persists users.  Emails are normalized to lower case before
// every read or write so the unique index works case-insensitively.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = "id, username, email, password_hash, role, status, created_at, updated_at"

// Create inserts a user and returns its ID.  The password must already
// be hashed by the caller.
func (r *UserRepo) Create(ctx context.Context, u model.User) (uint64, error) {
    res, err := r.DB.ExecContext(ctx,
        "INSERT INTO users (username, email, password_hash, role, status) VALUES (?,?,?,?,?)",
        u.Username, normalizeEmail(u.Email), u.PasswordHash, u.Role, u.Status)
    if err != nil {
        // MySQL error 1062 = duplicate entry on the unique email index.
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return 0, ErrEmailExists
        }
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
    return r.scanOne(r.DB.QueryRowContext(ctx,
        "SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", normalizeEmail(email)))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
    return r.scanOne(r.DB.QueryRowContext(ctx,
        "SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id))
}

// List returns up to 100 users, optionally filtered by role and/or status.
func (r *UserRepo) List(ctx context.Context, role model.UserRole, status model.UserStatus) ([]model.User, error) {
    query := "SELECT " + userCols + " FROM users"
    var (
        conds []string
        args  []any
    )
    if role != "" {
        conds = append(conds, "role=?")
        args = append(args, role)
    }
    if status != "" {
        conds = append(conds, "status=?")
        args = append(args, status)
    }
    if len(conds) > 0 {
        query += " WHERE " + strings.Join(conds, " AND ")
    }
    query += " ORDER BY id LIMIT 100"

    rows, err := r.DB.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    users := make([]model.User, 0)
    for rows.Next() {
        var u model.User
        if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt); err != nil {
            return nil, err
        }
        users = append(users, u)
    }
    return users, rows.Err()
}

// UserUpdate carries the optional fields of a partial user update.
// Nil fields are left untouched.
type UserUpdate struct {
    Username     *string
    Email        *string
    PasswordHash *string
    Role         *model.UserRole
    Status       *model.UserStatus
}

// Update applies a partial update and returns the fresh row.
func (r *UserRepo) Update(ctx context.Context, id uint64, upd UserUpdate) (model.User, error) {
    var (
        sets []string
        args []any
    )
    if upd.Username != nil {
        sets = append(sets, "username=?")
        args = append(args, *upd.Username)
    }
    if upd.Email != nil {
        sets = append(sets, "email=?")
        args = append(args, normalizeEmail(*upd.Email))
    }
    if upd.PasswordHash != nil {
        sets = append(sets, "password_hash=?")
        args = append(args, *upd.PasswordHash)
    }
    if upd.Role != nil {
        sets = append(sets, "role=?")
        args = append(args, *upd.Role)
    }
    if upd.Status != nil {
        sets = append(sets, "status=?")
        args = append(args, *upd.Status)
    }
    if len(sets) > 0 {
        args = append(args, id)
        _, err := r.DB.ExecContext(ctx,
            "UPDATE users SET "+strings.Join(sets, ", ")+", updated_at=NOW() WHERE id=?", args...)
        if err != nil {
            if strings.Contains(strings.ToLower(err.Error()), "1062") {
                return model.User{}, ErrEmailExists
            }
            return model.User{}, err
        }
    }
    return r.GetByID(ctx, id)
}

// SetStatus activates or deactivates an account.
func (r *UserRepo) SetStatus(ctx context.Context, id uint64, status model.UserStatus) error {
    res, err := r.DB.ExecContext(ctx,
        "UPDATE users SET status=?, updated_at=NOW() WHERE id=?", status, id)
    if err != nil {
        return err
    }
    return requireAffected(res)
}

// Delete removes a user row.  Only reachable through the admin API.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
    if err != nil {
        return err
    }
    return requireAffected(res)
}

// AdminExists reports whether at least one admin account is present.
// Used to gate bootstrap creation of the first admin.
func (r *UserRepo) AdminExists(ctx context.Context) (bool, error) {
    var n int
    err := r.DB.QueryRowContext(ctx,
        "SELECT COUNT(*) FROM users WHERE role=?", model.RoleAdmin).Scan(&n)
    if err != nil {
        return false, err
    }
    return n > 0, nil
}

func (r *UserRepo) scanOne(row *sql.Row) (model.User, error) {
    var u model.User
    err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt)
    if errors.Is(err, sql.ErrNoRows) {
        return model.User{}, ErrNotFound
    }
    return u, err
}

func normalizeEmail(email string) string {
    return strings.ToLower(strings.TrimSpace(email))
}

func requireAffected(res sql.Result) error {
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrNotFound
    }
    return nil
}
