package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/model"
)

// NotificationRepo persists per-user notifications.
type NotificationRepo struct{ DB *sql.DB }

func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{DB: db} }

// Create inserts a notification and returns its ID.
func (r *NotificationRepo) Create(ctx context.Context, userID uint64, message string) (uint64, error) {
    res, err := r.DB.ExecContext(ctx,
        "INSERT INTO notifications (user_id, message) VALUES (?,?)", userID, message)
    if err != nil {
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// GetByID fetches a notification by id.
func (r *NotificationRepo) GetByID(ctx context.Context, id uint64) (model.Notification, error) {
    var n model.Notification
    err := r.DB.QueryRowContext(ctx,
        "SELECT id, user_id, message, `read`, created_at FROM notifications WHERE id=? LIMIT 1", id).
        Scan(&n.ID, &n.UserID, &n.Message, &n.Read, &n.CreatedAt)
    if errors.Is(err, sql.ErrNoRows) {
        return model.Notification{}, ErrNotFound
    }
    return n, err
}

// ListByUser returns a user's notifications newest first.  When
// unreadOnly is set, read notifications are excluded.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID uint64, unreadOnly bool) ([]model.Notification, error) {
    query := "SELECT id, user_id, message, `read`, created_at FROM notifications WHERE user_id=?"
    if unreadOnly {
        query += " AND `read`=0"
    }
    query += " ORDER BY created_at DESC LIMIT 100"

    rows, err := r.DB.QueryContext(ctx, query, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    out := make([]model.Notification, 0)
    for rows.Next() {
        var n model.Notification
        if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Read, &n.CreatedAt); err != nil {
            return nil, err
        }
        out = append(out, n)
    }
    return out, rows.Err()
}

// MarkRead flags a single notification as read.
func (r *NotificationRepo) MarkRead(ctx context.Context, id uint64) error {
    res, err := r.DB.ExecContext(ctx, "UPDATE notifications SET `read`=1 WHERE id=?", id)
    if err != nil {
        return err
    }
    return requireAffected(res)
}

// MarkAllRead flags every unread notification of a user as read.
// Idempotent.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID uint64) error {
    _, err := r.DB.ExecContext(ctx, "UPDATE notifications SET `read`=1 WHERE user_id=? AND `read`=0", userID)
    return err
}

// Delete removes a notification row.
func (r *NotificationRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.DB.ExecContext(ctx, "DELETE FROM notifications WHERE id=?", id)
    if err != nil {
        return err
    }
    return requireAffected(res)
}
