package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/model"
)

// TableRepo persists restaurant tables.
type TableRepo struct{ DB *sql.DB }

func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{DB: db} }

// ErrTableNumberTaken is returned when a restaurant already has a
// table with the requested number.
var ErrTableNumberTaken = errors.New("table number already taken")

// Create inserts a table and returns its ID.
func (r *TableRepo) Create(ctx context.Context, t model.Table) (uint64, error) {
    res, err := r.DB.ExecContext(ctx,
        "INSERT INTO tables (restaurant_id, number, capacity, status) VALUES (?,?,?,?)",
        t.RestaurantID, t.Number, t.Capacity, t.Status)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return 0, ErrTableNumberTaken
        }
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// GetByID fetches a table by id.
func (r *TableRepo) GetByID(ctx context.Context, id uint64) (model.Table, error) {
    var t model.Table
    err := r.DB.QueryRowContext(ctx,
        "SELECT id, restaurant_id, number, capacity, status FROM tables WHERE id=? LIMIT 1", id).
        Scan(&t.ID, &t.RestaurantID, &t.Number, &t.Capacity, &t.Status)
    if errors.Is(err, sql.ErrNoRows) {
        return model.Table{}, ErrNotFound
    }
    return t, err
}

// ListByRestaurant returns a restaurant's tables ordered by number.
func (r *TableRepo) ListByRestaurant(ctx context.Context, restaurantID uint64) ([]model.Table, error) {
    rows, err := r.DB.QueryContext(ctx,
        "SELECT id, restaurant_id, number, capacity, status FROM tables WHERE restaurant_id=? ORDER BY number", restaurantID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    out := make([]model.Table, 0)
    for rows.Next() {
        var t model.Table
        if err := rows.Scan(&t.ID, &t.RestaurantID, &t.Number, &t.Capacity, &t.Status); err != nil {
            return nil, err
        }
        out = append(out, t)
    }
    return out, rows.Err()
}

// Update overwrites number and capacity of a table.
func (r *TableRepo) Update(ctx context.Context, t model.Table) error {
    res, err := r.DB.ExecContext(ctx,
        "UPDATE tables SET number=?, capacity=? WHERE id=?", t.Number, t.Capacity, t.ID)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return ErrTableNumberTaken
        }
        return err
    }
    return requireAffected(res)
}

// SetStatus transitions a table between available/occupied/reserved.
func (r *TableRepo) SetStatus(ctx context.Context, id uint64, status string) error {
    res, err := r.DB.ExecContext(ctx, "UPDATE tables SET status=? WHERE id=?", status, id)
    if err != nil {
        return err
    }
    return requireAffected(res)
}

// Delete removes a table row.
func (r *TableRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.DB.ExecContext(ctx, "DELETE FROM tables WHERE id=?", id)
    if err != nil {
        return err
    }
    return requireAffected(res)
}
