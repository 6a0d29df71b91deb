package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/model"
)

// RestaurantRepo persists restaurants.
type RestaurantRepo struct{ DB *sql.DB }

func NewRestaurantRepo(db *sql.DB) *RestaurantRepo { return &RestaurantRepo{DB: db} }

const restaurantCols = "id, name, address, phone, description, owner_id, created_at, updated_at"

// Create inserts a restaurant and returns its ID.
func (r *RestaurantRepo) Create(ctx context.Context, rest model.Restaurant) (uint64, error) {
    res, err := r.DB.ExecContext(ctx,
        "INSERT INTO restaurants (name, address, phone, description, owner_id) VALUES (?,?,?,?,?)",
        rest.Name, rest.Address, rest.Phone, rest.Description, rest.OwnerID)
    if err != nil {
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// GetByID fetches a restaurant by id.
func (r *RestaurantRepo) GetByID(ctx context.Context, id uint64) (model.Restaurant, error) {
    var (
        rest model.Restaurant
        desc sql.NullString
    )
    err := r.DB.QueryRowContext(ctx,
        "SELECT "+restaurantCols+" FROM restaurants WHERE id=? LIMIT 1", id).
        Scan(&rest.ID, &rest.Name, &rest.Address, &rest.Phone, &desc, &rest.OwnerID, &rest.CreatedAt, &rest.UpdatedAt)
    if errors.Is(err, sql.ErrNoRows) {
        return model.Restaurant{}, ErrNotFound
    }
    rest.Description = desc.String
    return rest, err
}

// List returns all restaurants ordered by id.
func (r *RestaurantRepo) List(ctx context.Context) ([]model.Restaurant, error) {
    rows, err := r.DB.QueryContext(ctx,
        "SELECT "+restaurantCols+" FROM restaurants ORDER BY id LIMIT 100")
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    out := make([]model.Restaurant, 0)
    for rows.Next() {
        var (
            rest model.Restaurant
            desc sql.NullString
        )
        if err := rows.Scan(&rest.ID, &rest.Name, &rest.Address, &rest.Phone, &desc, &rest.OwnerID, &rest.CreatedAt, &rest.UpdatedAt); err != nil {
            return nil, err
        }
        rest.Description = desc.String
        out = append(out, rest)
    }
    return out, rows.Err()
}

// Update overwrites the editable fields of a restaurant.
func (r *RestaurantRepo) Update(ctx context.Context, rest model.Restaurant) error {
    res, err := r.DB.ExecContext(ctx,
        "UPDATE restaurants SET name=?, address=?, phone=?, description=?, updated_at=NOW() WHERE id=?",
        rest.Name, rest.Address, rest.Phone, rest.Description, rest.ID)
    if err != nil {
        return err
    }
    return requireAffected(res)
}

// Delete removes a restaurant row.
func (r *RestaurantRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.DB.ExecContext(ctx, "DELETE FROM restaurants WHERE id=?", id)
    if err != nil {
        return err
    }
    return requireAffected(res)
}
