package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/model"
)

// ProductRepo persists menu products.
type ProductRepo struct{ DB *sql.DB }

func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{DB: db} }

const productCols = "id, restaurant_id, name, description, category, price_cents, stock, available"

// Create inserts a product and returns its ID.
func (r *ProductRepo) Create(ctx context.Context, p model.Product) (uint64, error) {
    res, err := r.DB.ExecContext(ctx,
        "INSERT INTO products (restaurant_id, name, description, category, price_cents, stock, available) VALUES (?,?,?,?,?,?,?)",
        p.RestaurantID, p.Name, p.Description, p.Category, p.PriceCents, p.Stock, p.Available)
    if err != nil {
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// GetByID fetches a product by id.
func (r *ProductRepo) GetByID(ctx context.Context, id uint64) (model.Product, error) {
    var (
        p         model.Product
        desc, cat sql.NullString
    )
    err := r.DB.QueryRowContext(ctx,
        "SELECT "+productCols+" FROM products WHERE id=? LIMIT 1", id).
        Scan(&p.ID, &p.RestaurantID, &p.Name, &desc, &cat, &p.PriceCents, &p.Stock, &p.Available)
    if errors.Is(err, sql.ErrNoRows) {
        return model.Product{}, ErrNotFound
    }
    p.Description = desc.String
    p.Category = cat.String
    return p, err
}

// List returns products, optionally filtered by category and/or
// availability.  onlyAvailable=false returns everything.
func (r *ProductRepo) List(ctx context.Context, category string, onlyAvailable bool) ([]model.Product, error) {
    query := "SELECT " + productCols + " FROM products"
    var (
        conds []string
        args  []any
    )
    if category != "" {
        conds = append(conds, "category=?")
        args = append(args, category)
    }
    if onlyAvailable {
        conds = append(conds, "available=1")
    }
    if len(conds) > 0 {
        query += " WHERE " + strings.Join(conds, " AND ")
    }
    query += " ORDER BY name"

    rows, err := r.DB.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    out := make([]model.Product, 0)
    for rows.Next() {
        var (
            p         model.Product
            desc, cat sql.NullString
        )
        if err := rows.Scan(&p.ID, &p.RestaurantID, &p.Name, &desc, &cat, &p.PriceCents, &p.Stock, &p.Available); err != nil {
            return nil, err
        }
        p.Description = desc.String
        p.Category = cat.String
        out = append(out, p)
    }
    return out, rows.Err()
}

// Update overwrites the editable fields of a product.
func (r *ProductRepo) Update(ctx context.Context, p model.Product) error {
    res, err := r.DB.ExecContext(ctx,
        "UPDATE products SET name=?, description=?, category=?, price_cents=?, stock=?, available=? WHERE id=?",
        p.Name, p.Description, p.Category, p.PriceCents, p.Stock, p.Available, p.ID)
    if err != nil {
        return err
    }
    return requireAffected(res)
}

// Delete removes a product row.
func (r *ProductRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.DB.ExecContext(ctx, "DELETE FROM products WHERE id=?", id)
    if err != nil {
        return err
    }
    return requireAffected(res)
}
