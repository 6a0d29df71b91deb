package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/model"
)

// OrderRepo persists orders and their items.  Creation writes the
// order row, all item rows and the computed total inside a single
// transaction so a half-written order can never be observed.
type OrderRepo struct{ DB *sql.DB }

func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{DB: db} }

const orderCols = "id, restaurant_id, table_id, user_id, status, total_cents, created_at, updated_at"

// Create inserts an order with its items atomically.  Item PriceCents
// must already carry the unit price snapshot; the order total is
// computed here.
func (r *OrderRepo) Create(ctx context.Context, o model.Order, items []model.OrderItem) (model.Order, error) {
    tx, err := r.DB.BeginTx(ctx, nil)
    if err != nil {
        return model.Order{}, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    total := uint32(0)
    for _, it := range items {
        total += it.PriceCents * it.Quantity
    }

    res, err := tx.ExecContext(ctx,
        "INSERT INTO orders (restaurant_id, table_id, user_id, status, total_cents) VALUES (?,?,?,?,?)",
        o.RestaurantID, o.TableID, o.UserID, o.Status, total)
    if err != nil {
        return model.Order{}, err
    }
    orderID, err := res.LastInsertId()
    if err != nil {
        return model.Order{}, err
    }
    for i := range items {
        items[i].OrderID = uint64(orderID)
        res, err := tx.ExecContext(ctx,
            "INSERT INTO order_items (order_id, product_id, quantity, price_cents) VALUES (?,?,?,?)",
            items[i].OrderID, items[i].ProductID, items[i].Quantity, items[i].PriceCents)
        if err != nil {
            return model.Order{}, err
        }
        itemID, err := res.LastInsertId()
        if err != nil {
            return model.Order{}, err
        }
        items[i].ID = uint64(itemID)
    }
    if err := tx.Commit(); err != nil {
        return model.Order{}, err
    }
    committed = true

    o.ID = uint64(orderID)
    o.TotalCents = total
    o.Items = items
    return o, nil
}

// GetByID fetches an order with its items.
func (r *OrderRepo) GetByID(ctx context.Context, id uint64) (model.Order, error) {
    var o model.Order
    err := r.DB.QueryRowContext(ctx,
        "SELECT "+orderCols+" FROM orders WHERE id=? LIMIT 1", id).
        Scan(&o.ID, &o.RestaurantID, &o.TableID, &o.UserID, &o.Status, &o.TotalCents, &o.CreatedAt, &o.UpdatedAt)
    if errors.Is(err, sql.ErrNoRows) {
        return model.Order{}, ErrNotFound
    }
    if err != nil {
        return model.Order{}, err
    }
    items, err := r.ItemsByOrder(ctx, o.ID)
    if err != nil {
        return model.Order{}, err
    }
    o.Items = items
    return o, nil
}

// List returns orders newest first, optionally filtered by user and/or
// restaurant.  Items are not loaded; listings only need the summary.
func (r *OrderRepo) List(ctx context.Context, userID, restaurantID uint64) ([]model.Order, error) {
    query := "SELECT " + orderCols + " FROM orders"
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
    query += " ORDER BY created_at DESC LIMIT 100"

    rows, err := r.DB.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    out := make([]model.Order, 0)
    for rows.Next() {
        var o model.Order
        if err := rows.Scan(&o.ID, &o.RestaurantID, &o.TableID, &o.UserID, &o.Status, &o.TotalCents, &o.CreatedAt, &o.UpdatedAt); err != nil {
            return nil, err
        }
        out = append(out, o)
    }
    return out, rows.Err()
}

// SetStatus updates an order's lifecycle status.
func (r *OrderRepo) SetStatus(ctx context.Context, id uint64, status string) error {
    res, err := r.DB.ExecContext(ctx,
        "UPDATE orders SET status=?, updated_at=NOW() WHERE id=?", status, id)
    if err != nil {
        return err
    }
    return requireAffected(res)
}

// Delete removes an order and its items.
func (r *OrderRepo) Delete(ctx context.Context, id uint64) error {
    tx, err := r.DB.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    if _, err := tx.ExecContext(ctx, "DELETE FROM order_items WHERE order_id=?", id); err != nil {
        return err
    }
    res, err := tx.ExecContext(ctx, "DELETE FROM orders WHERE id=?", id)
    if err != nil {
        return err
    }
    if err := requireAffected(res); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// ItemsByOrder returns the item lines of an order.
func (r *OrderRepo) ItemsByOrder(ctx context.Context, orderID uint64) ([]model.OrderItem, error) {
    rows, err := r.DB.QueryContext(ctx,
        "SELECT id, order_id, product_id, quantity, price_cents FROM order_items WHERE order_id=? ORDER BY id", orderID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    items := make([]model.OrderItem, 0)
    for rows.Next() {
        var it model.OrderItem
        if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.PriceCents); err != nil {
            return nil, err
        }
        items = append(items, it)
    }
    return items, rows.Err()
}

// GetItem fetches a single order item.
func (r *OrderRepo) GetItem(ctx context.Context, id uint64) (model.OrderItem, error) {
    var it model.OrderItem
    err := r.DB.QueryRowContext(ctx,
        "SELECT id, order_id, product_id, quantity, price_cents FROM order_items WHERE id=? LIMIT 1", id).
        Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.PriceCents)
    if errors.Is(err, sql.ErrNoRows) {
        return model.OrderItem{}, ErrNotFound
    }
    return it, err
}

// UpdateItem changes the quantity of an item and refreshes the order
// total in the same transaction.
func (r *OrderRepo) UpdateItem(ctx context.Context, id uint64, quantity uint32) error {
    tx, err := r.DB.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    res, err := tx.ExecContext(ctx, "UPDATE order_items SET quantity=? WHERE id=?", quantity, id)
    if err != nil {
        return err
    }
    if err := requireAffected(res); err != nil {
        return err
    }
    if _, err := tx.ExecContext(ctx,
        `UPDATE orders o SET o.total_cents=(SELECT COALESCE(SUM(quantity*price_cents),0) FROM order_items WHERE order_id=o.id), o.updated_at=NOW()
         WHERE o.id=(SELECT order_id FROM order_items WHERE id=?)`, id); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// DeleteItem removes an item line and refreshes the order total.
func (r *OrderRepo) DeleteItem(ctx context.Context, id uint64) error {
    tx, err := r.DB.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    var orderID uint64
    err = tx.QueryRowContext(ctx, "SELECT order_id FROM order_items WHERE id=?", id).Scan(&orderID)
    if errors.Is(err, sql.ErrNoRows) {
        return ErrNotFound
    }
    if err != nil {
        return err
    }
    if _, err := tx.ExecContext(ctx, "DELETE FROM order_items WHERE id=?", id); err != nil {
        return err
    }
    if _, err := tx.ExecContext(ctx,
        "UPDATE orders SET total_cents=(SELECT COALESCE(SUM(quantity*price_cents),0) FROM order_items WHERE order_id=?), updated_at=NOW() WHERE id=?",
        orderID, orderID); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}
