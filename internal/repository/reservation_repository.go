package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/model"
)

// ReservationRepo persists table reservations.
type ReservationRepo struct{ DB *sql.DB }

func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{DB: db} }

const reservationCols = "id, restaurant_id, table_id, user_id, reserved_at, guests, status, notes, created_at, updated_at"

// Create inserts a reservation and returns its ID.
func (r *ReservationRepo) Create(ctx context.Context, rv model.Reservation) (uint64, error) {
    res, err := r.DB.ExecContext(ctx,
        "INSERT INTO reservations (restaurant_id, table_id, user_id, reserved_at, guests, status, notes) VALUES (?,?,?,?,?,?,?)",
        rv.RestaurantID, rv.TableID, rv.UserID, rv.ReservedAt.UTC(), rv.Guests, rv.Status, rv.Notes)
    if err != nil {
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// GetByID fetches a reservation by id.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
    var (
        rv    model.Reservation
        notes sql.NullString
    )
    err := r.DB.QueryRowContext(ctx,
        "SELECT "+reservationCols+" FROM reservations WHERE id=? LIMIT 1", id).
        Scan(&rv.ID, &rv.RestaurantID, &rv.TableID, &rv.UserID, &rv.ReservedAt, &rv.Guests, &rv.Status, &notes, &rv.CreatedAt, &rv.UpdatedAt)
    if errors.Is(err, sql.ErrNoRows) {
        return model.Reservation{}, ErrNotFound
    }
    rv.Notes = notes.String
    return rv, err
}

// List returns reservations newest first, optionally filtered by user
// and/or restaurant.
func (r *ReservationRepo) List(ctx context.Context, userID, restaurantID uint64) ([]model.Reservation, error) {
    query := "SELECT " + reservationCols + " FROM reservations"
    var (
        conds []string
        args  []any
    )
    if userID != 0 {
        conds = append(conds, "user_id=?")
        args = append(args, userID)
    }
    if restaurantID != 0 {
        conds = append(conds, "restaurant_id=?")
        args = append(args, restaurantID)
    }
    for i, cond := range conds {
        if i == 0 {
            query += " WHERE " + cond
        } else {
            query += " AND " + cond
        }
    }
    query += " ORDER BY reserved_at DESC LIMIT 100"

    rows, err := r.DB.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    out := make([]model.Reservation, 0)
    for rows.Next() {
        var (
            rv    model.Reservation
            notes sql.NullString
        )
        if err := rows.Scan(&rv.ID, &rv.RestaurantID, &rv.TableID, &rv.UserID, &rv.ReservedAt, &rv.Guests, &rv.Status, &notes, &rv.CreatedAt, &rv.UpdatedAt); err != nil {
            return nil, err
        }
        rv.Notes = notes.String
        out = append(out, rv)
    }
    return out, rows.Err()
}

// Update overwrites the editable fields of a reservation.
func (r *ReservationRepo) Update(ctx context.Context, rv model.Reservation) error {
    res, err := r.DB.ExecContext(ctx,
        "UPDATE reservations SET reserved_at=?, guests=?, notes=?, updated_at=NOW() WHERE id=?",
        rv.ReservedAt.UTC(), rv.Guests, rv.Notes, rv.ID)
    if err != nil {
        return err
    }
    return requireAffected(res)
}

// SetStatus transitions a reservation's status.
func (r *ReservationRepo) SetStatus(ctx context.Context, id uint64, status string) error {
    res, err := r.DB.ExecContext(ctx,
        "UPDATE reservations SET status=?, updated_at=NOW() WHERE id=?", status, id)
    if err != nil {
        return err
    }
    return requireAffected(res)
}

// Delete removes a reservation row.
func (r *ReservationRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.DB.ExecContext(ctx, "DELETE FROM reservations WHERE id=?", id)
    if err != nil {
        return err
    }
    return requireAffected(res)
}
